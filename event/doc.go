// Copyright 2022 The Mellium Contributors.
// Use of this source code is governed by the BSD 2-clause
// license that can be found in the LICENSE file.

// Package event implements named, typed signals with ordered delivery.
//
// A Signal has any number of subscribers which are called synchronously, in
// the order they subscribed, every time a value is published.
// An error returned by a subscriber, or a panic raised inside of one, is
// logged and does not stop delivery to the subscribers registered after it.
package event // import "mellium.im/xmppcore/event"
