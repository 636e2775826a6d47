// Copyright 2022 The Mellium Contributors.
// Use of this source code is governed by the BSD 2-clause
// license that can be found in the LICENSE file.

package transport

import (
	"context"
	"crypto/tls"
	"errors"
	"net"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"mellium.im/xmppcore/event"
)

// Errors returned by this package.
var (
	// ErrEmpty is returned by Receive when no data is waiting.
	ErrEmpty = errors.New("transport: no data available")

	// ErrQueueFull is returned by Send when the write queue is full.
	ErrQueueFull = errors.New("transport: write queue is full")

	// ErrNotConnected is returned when the connection has not been established
	// or has been closed.
	ErrNotConnected = errors.New("transport: not connected")
)

// Default values used by New.
const (
	DefaultPort      = 5222
	DefaultQueueSize = 64
	DefaultChunkSize = 4096
)

// Events are the lifecycle signals of a connection.
type Events struct {
	// Established is published when a TCP connection is established.
	Established *event.Signal[*Conn]

	// Failed is published when a connection cannot be established.
	Failed *event.Signal[error]

	// Disconnect is published when the connection is closed.
	// The error is nil if the connection was closed by Disconnect.
	Disconnect *event.Signal[error]

	// Read and Write carry data read from and written to the network.
	Read  *event.Signal[[]byte]
	Write *event.Signal[[]byte]

	// ReadyToRead is published when data has been added to the read queue and
	// ReadyToWrite on every poll of a live connection.
	ReadyToRead  *event.Signal[*Conn]
	ReadyToWrite *event.Signal[*Conn]
}

// Conn is a TCP connection with bounded read and write queues.
//
// Conns are driven by a single polling loop and are not safe for concurrent
// use.
type Conn struct {
	Events Events

	host      string
	port      int
	log       logrus.FieldLogger
	tlsConfig *tls.Config
	dialer    *net.Dialer
	resolver  *net.Resolver
	inSize    int
	outSize   int
	chunk     int
	keepalive keepalive

	conn net.Conn
	in   [][]byte
	out  [][]byte
}

// New returns an unconnected Conn that dials host on port.
// If port is zero, SRV records for the host are looked up when connecting.
func New(host string, port int, opts ...Option) *Conn {
	c := &Conn{
		host:    host,
		port:    port,
		inSize:  DefaultQueueSize,
		outSize: DefaultQueueSize,
		chunk:   DefaultChunkSize,
		keepalive: keepalive{
			idle:     30 * time.Second,
			interval: 10 * time.Second,
			count:    3,
		},
	}
	for _, o := range opts {
		o(c)
	}
	if c.log == nil {
		c.log = logrus.StandardLogger()
	}
	if c.dialer == nil {
		c.dialer = &net.Dialer{}
	}
	c.Events = Events{
		Established:  event.New[*Conn]("tcpEstablished", c.log),
		Failed:       event.New[error]("tcpFailed", c.log),
		Disconnect:   event.New[error]("tcpDisconnect", c.log),
		Read:         event.New[[]byte]("read", c.log),
		Write:        event.New[[]byte]("write", c.log),
		ReadyToRead:  event.New[*Conn]("readyToRead", c.log),
		ReadyToWrite: event.New[*Conn]("readyToWrite", c.log),
	}
	return c
}

// NewFromConn returns a Conn that uses an already established connection.
func NewFromConn(conn net.Conn, opts ...Option) *Conn {
	c := New("", 0, opts...)
	c.conn = conn
	if addr, ok := conn.RemoteAddr().(*net.TCPAddr); ok {
		c.host = addr.IP.String()
		c.port = addr.Port
	}
	return c
}

// Connect dials the server and publishes Established or Failed.
// Keepalive probes are enabled on the new connection.
func (c *Conn) Connect(ctx context.Context) error {
	conn, err := c.dial(ctx)
	if err != nil {
		c.log.WithError(err).WithField("host", c.host).Warn("transport: could not connect")
		c.Events.Failed.Publish(err)
		return err
	}
	if tcp, ok := conn.(*net.TCPConn); ok {
		if err = setKeepalive(tcp, c.keepalive); err != nil {
			c.log.WithError(err).Debug("transport: could not configure keepalive")
		}
	}
	c.conn = conn
	c.log.WithField("addr", conn.RemoteAddr().String()).Debug("transport: connected")
	c.Events.Established.Publish(c)
	return nil
}

func (c *Conn) dial(ctx context.Context) (net.Conn, error) {
	if c.port != 0 {
		return c.dialer.DialContext(ctx, "tcp", net.JoinHostPort(c.host, strconv.Itoa(c.port)))
	}
	addrs, err := LookupService(ctx, c.resolver, "xmpp-client", c.host)
	if err != nil {
		return nil, err
	}
	if len(addrs) == 0 {
		return nil, &net.DNSError{Err: "no xmpp-client service", Name: c.host, IsNotFound: true}
	}
	for _, addr := range addrs {
		var conn net.Conn
		conn, err = c.dialer.DialContext(ctx, "tcp", net.JoinHostPort(addr.Target, strconv.Itoa(int(addr.Port))))
		if err == nil {
			return conn, nil
		}
	}
	return nil, err
}

// UpgradeToTLS performs a TLS handshake over the existing connection.
// It is used after the server agrees to STARTTLS.
// If serverName is empty the host the Conn was created with is used.
func (c *Conn) UpgradeToTLS(ctx context.Context, serverName string) error {
	if c.conn == nil {
		return ErrNotConnected
	}
	cfg := &tls.Config{MinVersion: tls.VersionTLS12}
	if c.tlsConfig != nil {
		cfg = c.tlsConfig.Clone()
	}
	if serverName == "" {
		serverName = c.host
	}
	if cfg.ServerName == "" {
		cfg.ServerName = serverName
	}
	tlsConn := tls.Client(c.conn, cfg)
	if err := tlsConn.HandshakeContext(ctx); err != nil {
		return err
	}
	c.conn = tlsConn
	return nil
}

// Send places p on the write queue.
func (c *Conn) Send(p []byte) error {
	if len(c.out) >= c.outSize {
		return ErrQueueFull
	}
	c.out = append(c.out, p)
	return nil
}

// SendWhitespaceKeepalive queues a single space to keep the stream alive.
func (c *Conn) SendWhitespaceKeepalive() error {
	return c.Send([]byte{' '})
}

// Receive takes the oldest chunk of data from the read queue.
// If nothing is waiting an error wrapping ErrEmpty is returned.
func (c *Conn) Receive() ([]byte, error) {
	if len(c.in) == 0 {
		return nil, ErrEmpty
	}
	p := c.in[0]
	c.in[0] = nil
	c.in = c.in[1:]
	return p, nil
}

// Poll reads at most one chunk from the network and then writes at most one
// queued chunk.
// The read waits no longer than timeout.
// If the connection fails it is closed and Disconnect is published with the
// error; unwritten data stays queued.
func (c *Conn) Poll(timeout time.Duration) error {
	if c.conn == nil {
		return ErrNotConnected
	}

	if len(c.in) < c.inSize {
		if err := c.conn.SetReadDeadline(time.Now().Add(timeout)); err != nil {
			return c.fail(err)
		}
		buf := make([]byte, c.chunk)
		n, err := c.conn.Read(buf)
		if n > 0 {
			data := buf[:n]
			c.in = append(c.in, data)
			c.Events.Read.Publish(data)
			c.Events.ReadyToRead.Publish(c)
		}
		if err != nil && !isTimeout(err) {
			return c.fail(err)
		}
	}
	if c.conn == nil {
		// Closed by a handler.
		return nil
	}

	c.Events.ReadyToWrite.Publish(c)
	if len(c.out) == 0 || c.conn == nil {
		return nil
	}
	data := c.out[0]
	c.out = c.out[1:]
	if err := c.conn.SetWriteDeadline(time.Now().Add(timeout)); err != nil {
		c.out = append([][]byte{data}, c.out...)
		return c.fail(err)
	}
	if _, err := c.conn.Write(data); err != nil {
		c.out = append([][]byte{data}, c.out...)
		return c.fail(err)
	}
	c.Events.Write.Publish(data)
	return nil
}

func isTimeout(err error) bool {
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func (c *Conn) fail(err error) error {
	c.log.WithError(err).Warn("transport: connection failed")
	if c.conn != nil {
		if closeErr := c.conn.Close(); closeErr != nil {
			c.log.WithError(closeErr).Debug("transport: error closing failed connection")
		}
		c.conn = nil
	}
	c.Events.Disconnect.Publish(err)
	return err
}

// Disconnect closes the connection, discards the queues, and publishes
// Disconnect.
func (c *Conn) Disconnect() error {
	if c.conn == nil {
		return ErrNotConnected
	}
	err := c.conn.Close()
	c.conn = nil
	c.in = nil
	c.out = nil
	c.Events.Disconnect.Publish(nil)
	return err
}

// IsAlive reports whether the connection is established.
func (c *Conn) IsAlive() bool {
	return c.conn != nil
}

// Pending returns the number of chunks waiting to be written.
func (c *Conn) Pending() int {
	return len(c.out)
}

// OnReadyToRead calls f every time data is added to the read queue.
func (c *Conn) OnReadyToRead(f func()) {
	c.Events.ReadyToRead.SubscribeFunc(func(*Conn) error {
		f()
		return nil
	})
}

// OnReadyToWrite calls f every time the connection is polled for writing.
func (c *Conn) OnReadyToWrite(f func()) {
	c.Events.ReadyToWrite.SubscribeFunc(func(*Conn) error {
		f()
		return nil
	})
}
