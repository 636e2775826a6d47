// Copyright 2022 The Mellium Contributors.
// Use of this source code is governed by the BSD 2-clause
// license that can be found in the LICENSE file.

//go:build linux
// +build linux

package transport

import (
	"net"
	"time"

	"golang.org/x/sys/unix"
)

func setKeepalive(c *net.TCPConn, k keepalive) error {
	if err := c.SetKeepAlive(true); err != nil {
		return err
	}
	raw, err := c.SyscallConn()
	if err != nil {
		return err
	}
	var sockErr error
	err = raw.Control(func(fd uintptr) {
		opts := [...]struct {
			name  int
			value int
		}{
			{unix.TCP_KEEPIDLE, int(k.idle / time.Second)},
			{unix.TCP_KEEPINTVL, int(k.interval / time.Second)},
			{unix.TCP_KEEPCNT, k.count},
		}
		for _, opt := range opts {
			if opt.value <= 0 {
				continue
			}
			if sockErr = unix.SetsockoptInt(int(fd), unix.IPPROTO_TCP, opt.name, opt.value); sockErr != nil {
				return
			}
		}
	})
	if err != nil {
		return err
	}
	return sockErr
}
