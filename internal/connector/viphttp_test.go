package connector

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testBase   = "https://crcon.test"
	loginURL   = "POST https://crcon.test/api/login"
	addVipURL  = "POST https://crcon.test/api/add_vip"
	playersURL = "GET https://crcon.test/api/get_players"
)

func newMockedGateway(t *testing.T, creds HTTPCredentials) (*VipHTTPClient, *httpmock.MockTransport) {
	t.Helper()
	mt := httpmock.NewMockTransport()
	if creds.BaseURL == "" {
		creds.BaseURL = testBase
	}
	gw := NewVipHTTPClient(creds, &http.Client{Transport: mt})
	return gw, mt
}

func TestEndpoint(t *testing.T) {
	tests := []struct {
		base string
		want string
	}{
		{"https://crcon.test", "https://crcon.test/api/add_vip"},
		{"https://crcon.test/", "https://crcon.test/api/add_vip"},
		{"https://crcon.test/api", "https://crcon.test/api/add_vip"},
		{"https://crcon.test/API/", "https://crcon.test/API/add_vip"},
		{"  https://crcon.test/sub  ", "https://crcon.test/sub/api/add_vip"},
	}

	for _, tt := range tests {
		t.Run(tt.base, func(t *testing.T) {
			gw := NewVipHTTPClient(HTTPCredentials{BaseURL: tt.base}, &http.Client{})
			assert.Equal(t, tt.want, gw.Endpoint("add_vip"))
		})
	}
}

func TestAddVipWithBearerSkipsLogin(t *testing.T) {
	gw, mt := newMockedGateway(t, HTTPCredentials{BearerToken: "static", Username: "u", Password: "p"})

	var got AddVipRequest
	mt.RegisterResponder(http.MethodPost, testBase+"/api/add_vip", func(req *http.Request) (*http.Response, error) {
		assert.Equal(t, "Bearer static", req.Header.Get("Authorization"))
		assert.Equal(t, "application/json", req.Header.Get("Accept"))
		require.NoError(t, json.NewDecoder(req.Body).Decode(&got))
		return httpmock.NewJsonResponse(http.StatusOK, map[string]any{"result": "done", "failed": false})
	})

	data, err := gw.AddVip(context.Background(), "7656", "VIP for Alice", "", "")
	require.NoError(t, err)
	assert.Equal(t, "done", data["result"])
	assert.Equal(t, AddVipRequest{PlayerID: "7656", Description: "VIP for Alice"}, got)

	info := mt.GetCallCountInfo()
	assert.Equal(t, 0, info[loginURL])
	assert.Equal(t, 1, info[addVipURL])
}

func TestAddVipSendsOptionalFields(t *testing.T) {
	gw, mt := newMockedGateway(t, HTTPCredentials{BearerToken: "static"})

	var raw map[string]any
	mt.RegisterResponder(http.MethodPost, testBase+"/api/add_vip", func(req *http.Request) (*http.Response, error) {
		require.NoError(t, json.NewDecoder(req.Body).Decode(&raw))
		return httpmock.NewJsonResponse(http.StatusOK, map[string]any{"result": "ok"})
	})

	_, err := gw.AddVip(context.Background(), "1", "d", "2026-10-20T00:00:00Z", "Alice")
	require.NoError(t, err)
	assert.Equal(t, "2026-10-20T00:00:00Z", raw["expiration"])
	assert.Equal(t, "Alice", raw["player_name"])
}

func TestAddVipLogsInOnceAndReusesToken(t *testing.T) {
	gw, mt := newMockedGateway(t, HTTPCredentials{Username: "admin", Password: "pw"})

	mt.RegisterResponder(http.MethodPost, testBase+"/api/login", func(req *http.Request) (*http.Response, error) {
		assert.Empty(t, req.Header.Get("Authorization"))
		var creds map[string]string
		require.NoError(t, json.NewDecoder(req.Body).Decode(&creds))
		assert.Equal(t, map[string]string{"username": "admin", "password": "pw"}, creds)
		return httpmock.NewJsonResponse(http.StatusOK, map[string]any{"result": map[string]any{"token": "jwt-1"}})
	})
	mt.RegisterResponder(http.MethodPost, testBase+"/api/add_vip", func(req *http.Request) (*http.Response, error) {
		assert.Equal(t, "Bearer jwt-1", req.Header.Get("Authorization"))
		return httpmock.NewJsonResponse(http.StatusOK, map[string]any{"result": "ok"})
	})

	for i := 0; i < 3; i++ {
		_, err := gw.AddVip(context.Background(), "1", "d", "", "")
		require.NoError(t, err)
	}

	info := mt.GetCallCountInfo()
	assert.Equal(t, 1, info[loginURL])
	assert.Equal(t, 3, info[addVipURL])
}

func TestLoginAcceptsSessionCookie(t *testing.T) {
	gw, mt := newMockedGateway(t, HTTPCredentials{Username: "admin", Password: "pw"})

	mt.RegisterResponder(http.MethodPost, testBase+"/api/login", func(req *http.Request) (*http.Response, error) {
		resp := httpmock.NewStringResponse(http.StatusOK, `{"result":true,"failed":false}`)
		resp.Header.Add("Set-Cookie", "sessionid=abc123; Path=/")
		return resp, nil
	})
	mt.RegisterResponder(http.MethodPost, testBase+"/api/add_vip", func(req *http.Request) (*http.Response, error) {
		assert.Empty(t, req.Header.Get("Authorization"))
		assert.Equal(t, testBase, req.Header.Get("Referer"))
		cookie, err := req.Cookie("sessionid")
		require.NoError(t, err)
		assert.Equal(t, "abc123", cookie.Value)
		return httpmock.NewJsonResponse(http.StatusOK, map[string]any{"result": "ok"})
	})

	_, err := gw.AddVip(context.Background(), "1", "d", "", "")
	require.NoError(t, err)
	assert.Equal(t, 1, mt.GetCallCountInfo()[loginURL])
}

func TestLoginWithoutTokenOrCookieFails(t *testing.T) {
	gw, mt := newMockedGateway(t, HTTPCredentials{Username: "admin", Password: "pw"})
	mt.RegisterResponder(http.MethodPost, testBase+"/api/login",
		httpmock.NewStringResponder(http.StatusOK, `{"result":true}`))

	_, err := gw.AddVip(context.Background(), "1", "d", "", "")
	var herr *VipHTTPError
	require.ErrorAs(t, err, &herr)
	assert.Contains(t, herr.Msg, "no token or session cookie")
	assert.Equal(t, 0, mt.GetCallCountInfo()[addVipURL])
}

func TestLoginFailures(t *testing.T) {
	tests := []struct {
		name      string
		responder httpmock.Responder
		want      string
	}{
		{
			name:      "bad status",
			responder: httpmock.NewStringResponder(http.StatusForbidden, "nope"),
			want:      "Login failed with status 403: nope",
		},
		{
			name:      "failed flag",
			responder: httpmock.NewStringResponder(http.StatusOK, `{"failed":true,"error":"bad password"}`),
			want:      "Login failed: bad password",
		},
		{
			name:      "not json",
			responder: httpmock.NewStringResponder(http.StatusOK, `<html>`),
			want:      "Failed to parse JSON response: <html>",
		},
		{
			name:      "not an object",
			responder: httpmock.NewStringResponder(http.StatusOK, `["x"]`),
			want:      "Unexpected response format; expected JSON object.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gw, mt := newMockedGateway(t, HTTPCredentials{Username: "u", Password: "p"})
			mt.RegisterResponder(http.MethodPost, testBase+"/api/login", tt.responder)

			_, err := gw.AddVip(context.Background(), "1", "d", "", "")
			require.Error(t, err)
			assert.Equal(t, tt.want, err.Error())
		})
	}
}

func TestUnauthorizedTriggersOneReloginAndRetry(t *testing.T) {
	gw, mt := newMockedGateway(t, HTTPCredentials{BearerToken: "expired", Username: "u", Password: "p"})

	mt.RegisterResponder(http.MethodPost, testBase+"/api/login",
		httpmock.NewJsonResponderOrPanic(http.StatusOK, map[string]any{"token": "fresh"}))

	mt.RegisterResponder(http.MethodPost, testBase+"/api/add_vip", func(req *http.Request) (*http.Response, error) {
		if req.Header.Get("Authorization") == "Bearer expired" {
			return httpmock.NewStringResponse(http.StatusUnauthorized, "expired"), nil
		}
		assert.Equal(t, "Bearer fresh", req.Header.Get("Authorization"))
		return httpmock.NewJsonResponse(http.StatusOK, map[string]any{"result": "ok"})
	})

	_, err := gw.AddVip(context.Background(), "1", "d", "", "")
	require.NoError(t, err)

	info := mt.GetCallCountInfo()
	assert.Equal(t, 1, info[loginURL])
	assert.Equal(t, 2, info[addVipURL])

	// the static bearer stays retired for later calls
	_, err = gw.AddVip(context.Background(), "2", "d", "", "")
	require.NoError(t, err)
	assert.Equal(t, 1, mt.GetCallCountInfo()[loginURL])
}

func TestSecondUnauthorizedPropagates(t *testing.T) {
	gw, mt := newMockedGateway(t, HTTPCredentials{Username: "u", Password: "p"})

	mt.RegisterResponder(http.MethodPost, testBase+"/api/login",
		httpmock.NewJsonResponderOrPanic(http.StatusOK, map[string]any{"token": "t"}))
	mt.RegisterResponder(http.MethodPost, testBase+"/api/add_vip",
		httpmock.NewStringResponder(http.StatusUnauthorized, "denied"))

	_, err := gw.AddVip(context.Background(), "1", "d", "", "")
	var herr *VipHTTPError
	require.ErrorAs(t, err, &herr)
	assert.Equal(t, http.StatusUnauthorized, herr.StatusCode)
	assert.Equal(t, "add_vip failed with status 401: denied", herr.Msg)

	info := mt.GetCallCountInfo()
	assert.Equal(t, 2, info[loginURL])
	assert.Equal(t, 2, info[addVipURL])
}

func TestUnauthorizedWithoutLoginIsNotRetried(t *testing.T) {
	gw, mt := newMockedGateway(t, HTTPCredentials{BearerToken: "bad"})
	mt.RegisterResponder(http.MethodPost, testBase+"/api/add_vip",
		httpmock.NewStringResponder(http.StatusUnauthorized, "denied"))

	_, err := gw.AddVip(context.Background(), "1", "d", "", "")
	require.Error(t, err)
	assert.Equal(t, 1, mt.GetCallCountInfo()[addVipURL])
	assert.Equal(t, 0, mt.GetCallCountInfo()[loginURL])
}

func TestAddVipFailures(t *testing.T) {
	tests := []struct {
		name      string
		responder httpmock.Responder
		want      string
		status    int
	}{
		{
			name:      "server error",
			responder: httpmock.NewStringResponder(http.StatusInternalServerError, " boom "),
			want:      "add_vip failed with status 500: boom",
			status:    http.StatusInternalServerError,
		},
		{
			name:      "failed with error",
			responder: httpmock.NewStringResponder(http.StatusOK, `{"failed":true,"error":"unknown player"}`),
			want:      "add_vip reported failure: unknown player",
			status:    http.StatusOK,
		},
		{
			name:      "failed without error",
			responder: httpmock.NewStringResponder(http.StatusOK, `{"failed":true}`),
			want:      `add_vip reported failure: {"failed":true}`,
			status:    http.StatusOK,
		},
		{
			name:      "network",
			responder: httpmock.NewErrorResponder(errors.New("connection reset")),
			status:    0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gw, mt := newMockedGateway(t, HTTPCredentials{BearerToken: "t"})
			mt.RegisterResponder(http.MethodPost, testBase+"/api/add_vip", tt.responder)

			_, err := gw.AddVip(context.Background(), "1", "d", "", "")
			var herr *VipHTTPError
			require.ErrorAs(t, err, &herr)
			assert.Equal(t, tt.status, herr.StatusCode)
			if tt.want != "" {
				assert.Equal(t, tt.want, herr.Msg)
			} else {
				assert.Contains(t, herr.Msg, "HTTP API request failed")
				assert.Error(t, errors.Unwrap(herr))
			}
		})
	}
}

func TestSearchPlayers(t *testing.T) {
	gw, mt := newMockedGateway(t, HTTPCredentials{BearerToken: "t"})

	mt.RegisterResponder(http.MethodGet, testBase+"/api/get_players", func(req *http.Request) (*http.Response, error) {
		assert.Equal(t, "Al", req.URL.Query().Get("search"))
		assert.Equal(t, "5", req.URL.Query().Get("per_page"))
		return httpmock.NewJsonResponse(http.StatusOK, map[string]any{
			"result": map[string]any{
				"players": []any{
					map[string]any{"player_id": "1", "name": "Alice"},
					map[string]any{"steam_id_64": 76561198000000000, "names": []any{map[string]any{"name": "Alan"}}},
					map[string]any{"id": "3", "player_name": "Alba"},
					map[string]any{"name": "no id"},
					map[string]any{"player_id": "5"},
					"garbage",
				},
			},
		})
	})

	got, err := gw.SearchPlayers(context.Background(), "Al", 5)
	require.NoError(t, err)
	assert.Equal(t, []PlayerMatch{
		{PlayerID: "1", Name: "Alice"},
		{PlayerID: "76561198000000000", Name: "Alan"},
		{PlayerID: "3", Name: "Alba"},
	}, got)
	assert.Equal(t, 1, mt.GetCallCountInfo()[playersURL])
}

func TestSearchPlayersCapsResults(t *testing.T) {
	gw, mt := newMockedGateway(t, HTTPCredentials{BearerToken: "t"})
	mt.RegisterResponder(http.MethodGet, testBase+"/api/get_players",
		httpmock.NewJsonResponderOrPanic(http.StatusOK, map[string]any{
			"result": []any{
				map[string]any{"player_id": "1", "name": "a"},
				map[string]any{"player_id": "2", "name": "b"},
				map[string]any{"player_id": "3", "name": "c"},
			},
		}))

	got, err := gw.SearchPlayers(context.Background(), "", 2)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestExtractToken(t *testing.T) {
	tests := []struct {
		name    string
		payload any
		want    string
	}{
		{"top level", map[string]any{"access_token": "a"}, "a"},
		{"nested result", map[string]any{"result": map[string]any{"jwt": "b"}}, "b"},
		{"nested data", map[string]any{"data": map[string]any{"accessToken": "c"}}, "c"},
		{"string result is not a token", map[string]any{"result": "d"}, ""},
		{"none", map[string]any{"result": true}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extractToken(tt.payload, 0))
		})
	}
}
