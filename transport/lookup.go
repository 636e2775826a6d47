// Copyright 2016 The Mellium Contributors.
// Use of this source code is governed by the BSD 2-clause
// license that can be found in the LICENSE file.

package transport

import (
	"context"
	"errors"
	"net"
)

// ErrInvalidService is returned by LookupService for an unknown service name.
var ErrInvalidService = errors.New("transport: service must be one of xmpp[s]-client or xmpp[s]-server")

func isNotFound(err error) bool {
	var dnsErr *net.DNSError
	return errors.As(err, &dnsErr) && dnsErr.IsNotFound
}

// FallbackRecords returns fake SRV records for the default port of service
// that can be used if no actual SRV records exist for domain.
func FallbackRecords(service, domain string) []*net.SRV {
	var port uint16
	switch service {
	case "xmpp-client":
		port = 5222
	case "xmpps-client":
		port = 5223
	case "xmpp-server":
		port = 5269
	case "xmpps-server":
		port = 5270
	default:
		return nil
	}
	return []*net.SRV{{Target: domain, Port: port}}
}

// LookupService looks up the SRV records of an XMPP service hosted at domain.
// If no records exist, fallback records using the default port of the service
// are returned.
// If the only record has the target "." the service is decidedly not
// available and an empty list is returned.
// Service should be one of "xmpp[s]-client" or "xmpp[s]-server".
// A nil resolver uses the default resolver.
func LookupService(ctx context.Context, resolver *net.Resolver, service, domain string) ([]*net.SRV, error) {
	switch service {
	case "xmpp-client", "xmpp-server", "xmpps-client", "xmpps-server":
	default:
		return nil, ErrInvalidService
	}
	if resolver == nil {
		resolver = net.DefaultResolver
	}
	_, addrs, err := resolver.LookupSRV(ctx, service, "tcp", domain)
	if err != nil {
		if !isNotFound(err) {
			return nil, err
		}
		return FallbackRecords(service, domain), nil
	}

	// RFC 6120 §3.2.1
	if len(addrs) == 1 && addrs[0].Target == "." {
		return nil, nil
	}
	return addrs, nil
}
