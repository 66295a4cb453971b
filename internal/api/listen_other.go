//go:build !unix && !windows

package api

import "net"

func listenConfig() net.ListenConfig {
	return net.ListenConfig{}
}
