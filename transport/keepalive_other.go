// Copyright 2022 The Mellium Contributors.
// Use of this source code is governed by the BSD 2-clause
// license that can be found in the LICENSE file.

//go:build !linux
// +build !linux

package transport

import (
	"net"
)

func setKeepalive(c *net.TCPConn, k keepalive) error {
	if err := c.SetKeepAlive(true); err != nil {
		return err
	}
	if k.idle > 0 {
		return c.SetKeepAlivePeriod(k.idle)
	}
	return nil
}
