// Copyright 2022 The Mellium Contributors.
// Use of this source code is governed by the BSD 2-clause
// license that can be found in the LICENSE file.

package transport

import (
	"crypto/tls"
	"net"
	"time"

	"github.com/sirupsen/logrus"
)

// Option configures a Conn.
type Option func(*Conn)

// Logger sets the logger used by the connection and its signals.
func Logger(l logrus.FieldLogger) Option {
	return func(c *Conn) {
		c.log = l
	}
}

// TLSConfig sets the configuration used by UpgradeToTLS.
func TLSConfig(cfg *tls.Config) Option {
	return func(c *Conn) {
		c.tlsConfig = cfg
	}
}

// Dialer sets the dialer used to connect.
func Dialer(d *net.Dialer) Option {
	return func(c *Conn) {
		c.dialer = d
	}
}

// Resolver sets the resolver used to look up SRV records.
func Resolver(r *net.Resolver) Option {
	return func(c *Conn) {
		c.resolver = r
	}
}

// QueueSize sets the number of chunks that may wait in the read and write
// queues.
func QueueSize(in, out int) Option {
	return func(c *Conn) {
		c.inSize = in
		c.outSize = out
	}
}

// ChunkSize sets the largest amount of data read by a single poll.
func ChunkSize(n int) Option {
	return func(c *Conn) {
		c.chunk = n
	}
}

// Keepalive configures TCP keepalive probes: the idle time before the first
// probe, the interval between probes, and the number of unanswered probes
// after which the connection is dropped.
func Keepalive(idle, interval time.Duration, count int) Option {
	return func(c *Conn) {
		c.keepalive = keepalive{
			idle:     idle,
			interval: interval,
			count:    count,
		}
	}
}

type keepalive struct {
	idle     time.Duration
	interval time.Duration
	count    int
}
