// Package netio resolves SNTP server names and moves datagrams over
// connected UDP sockets.
package netio

import (
	"context"
	"fmt"
	"math/rand"
	"net"

	"clockstep.dev/sntpc/internal/sntp"
)

// Resolve returns the IPv4 addresses for host. A dotted-quad literal
// short-circuits the resolver entirely, so a host file or DNS outage
// never blocks syncing against a known address.
func Resolve(ctx context.Context, host string) ([]net.IP, error) {
	if ip := net.ParseIP(host); ip != nil {
		v4 := ip.To4()
		if v4 == nil {
			return nil, fmt.Errorf("%w: %s is not an IPv4 address", sntp.ErrResolutionFailed, host)
		}
		return []net.IP{v4}, nil
	}

	addrs, err := net.DefaultResolver.LookupIPAddr(ctx, host)
	if err != nil {
		return nil, fmt.Errorf("%w: lookup %q: %v", sntp.ErrResolutionFailed, host, err)
	}

	v4s := make([]net.IP, 0, len(addrs))
	for _, a := range addrs {
		if v4 := a.IP.To4(); v4 != nil {
			v4s = append(v4s, v4)
		}
	}
	if len(v4s) == 0 {
		return nil, fmt.Errorf("%w: %q has no IPv4 addresses", sntp.ErrResolutionFailed, host)
	}
	return v4s, nil
}

// Pick chooses one address at random. Spreading load across a pool's
// A records is the point; stability across runs is not.
func Pick(ips []net.IP) net.IP {
	switch len(ips) {
	case 0:
		return nil
	case 1:
		return ips[0]
	}
	return ips[rand.Intn(len(ips))]
}
