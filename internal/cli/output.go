package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"

	"github.com/frontline-pass/frontline/internal/directory"
	"github.com/frontline-pass/frontline/internal/health"
	"github.com/frontline-pass/frontline/internal/vip"
)

func newTable(w io.Writer, header ...string) *tablewriter.Table {
	tw := tablewriter.NewWriter(w)
	if len(header) > 0 {
		tw.SetHeader(header)
	}
	tw.SetBorder(true)
	tw.SetAutoWrapText(false)
	return tw
}

func printGrant(w io.Writer, o *vip.GrantOutcome) {
	tw := newTable(w)
	tw.Append([]string{"Request", o.RequestID})
	tw.Append([]string{"Player", o.PlayerID})
	if o.PlayerName != "" {
		tw.Append([]string{"Name", o.PlayerName})
	}
	if o.Hours > 0 {
		tw.Append([]string{"Hours", vip.FormatHours(o.Hours)})
	}
	if !o.Expiration.IsZero() {
		tw.Append([]string{"Expires", o.Expiration.UTC().Format(time.RFC3339)})
	}
	if o.LocalExpiration != "" {
		tw.Append([]string{"Expires (local)", o.LocalExpiration})
	}
	if o.Result != nil {
		tw.Append([]string{"Backend", o.Result.Backend})
		tw.Append([]string{"Detail", o.Result.Detail})
	}
	tw.Render()

	if o.Result != nil {
		for _, line := range o.Result.StatusLines {
			fmt.Fprintf(w, "  %s\n", line)
		}
	}
}

func printPlayers(w io.Writer, players []directory.Player) {
	if len(players) == 0 {
		fmt.Fprintln(w, "No players found.")
		return
	}

	tw := newTable(w, "Player ID", "Name")
	for _, p := range players {
		tw.Append([]string{p.ID, p.Name})
	}
	tw.Render()
}

func printLink(w io.Writer, link *vip.PlayerLink) {
	name := link.PlayerName
	if name == "" {
		name = "-"
	}
	tw := newTable(w, "User ID", "Player ID", "Name")
	tw.Append([]string{link.UserID, link.PlayerID, name})
	tw.Render()
}

func printHealth(w io.Writer, r *health.Report) {
	lastGrant := r.LastGrantLocal
	if lastGrant == "" {
		lastGrant = r.LastGrant
	}
	if lastGrant == "" {
		lastGrant = "never"
	}

	tw := newTable(w)
	tw.Append([]string{"Status", strings.ToUpper(r.Status)})
	tw.Append([]string{"VIP duration", vip.FormatHours(r.VipDurationHours) + "h"})
	tw.Append([]string{"Registered players", strconv.Itoa(r.RegisteredPlayers)})
	tw.Append([]string{"Last grant", lastGrant})
	if r.Timezone != "" {
		tw.Append([]string{"Timezone", r.Timezone})
	}
	tw.Append([]string{"Store", r.Store.Backend + " " + r.Store.Path})
	tw.Append([]string{"Backends", strings.Join(r.Backends, " -> ")})
	tw.Append([]string{"HTTP API", yesNo(r.HTTPConfigured)})
	tw.Append([]string{"RCON", yesNo(r.RconConfigured)})
	tw.Append([]string{"Directory", yesNo(r.DirectoryConfigured)})
	tw.Append([]string{"Host", r.System.Hostname + " (" + r.System.OS + ")"})
	if r.Usage != nil {
		tw.Append([]string{"CPU", fmt.Sprintf("%.1f%%", r.Usage.CPUPercent)})
		tw.Append([]string{"Memory", fmt.Sprintf("%.1f%%", r.Usage.MemPercent)})
		tw.Append([]string{"Disk", fmt.Sprintf("%.1f%%", r.Usage.DiskPercent)})
	}
	tw.Append([]string{"Uptime", r.Uptime})
	tw.Render()

	for _, p := range r.Problems {
		fmt.Fprintf(w, "  ! %s\n", p)
	}
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
