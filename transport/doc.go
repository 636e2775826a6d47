// Copyright 2022 The Mellium Contributors.
// Use of this source code is governed by the BSD 2-clause
// license that can be found in the LICENSE file.

// Package transport implements a non-blocking TCP connection with bounded
// read and write queues for use by XMPP streams.
//
// A Conn never blocks its caller when data is sent or received: Send places
// data on the write queue and Receive takes data from the read queue.
// Data is moved between the queues and the network by Poll, which reads first
// and then writes.
package transport // import "mellium.im/xmppcore/transport"
