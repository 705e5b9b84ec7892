// Package resolver turns host names and addresses into best-effort
// (address, display name) pairs. Lookup failures never propagate: they are
// logged and the result degrades to whatever could be determined.
package resolver

import (
	"context"
	"log/slog"
	"net"
	"strings"
	"time"
)

// Lookuper is the subset of net.Resolver the resolver needs. Tests
// substitute a fake.
type Lookuper interface {
	LookupHost(ctx context.Context, host string) ([]string, error)
	LookupAddr(ctx context.Context, addr string) ([]string, error)
}

type Resolver struct {
	lookuper Lookuper

	// Timeout bounds each individual lookup. Zero means unbounded, in
	// which case a hung name server blocks the run.
	Timeout time.Duration
}

// New returns a Resolver backed by the given Lookuper. Pass nil to use the
// system resolver.
func New(l Lookuper) *Resolver {
	if l == nil {
		l = net.DefaultResolver
	}
	return &Resolver{lookuper: l}
}

// Resolve maps key (a host name or IP literal) to an (address, name) pair.
// The address is empty if forward resolution failed. The name is the
// canonical name from the reverse lookup when one exists, otherwise the
// original key; it is never empty. Each call performs at most one forward
// and one reverse lookup, with no caching across calls.
func (r *Resolver) Resolve(ctx context.Context, key string) (addr, name string) {
	name = key

	if net.ParseIP(key) != nil {
		addr = key
	} else {
		addr = r.lookupAddress(ctx, key)
	}
	if addr == "" {
		return "", name
	}

	canonical := r.lookupName(ctx, addr)
	// A reverse lookup that only echoes the address back would clobber a
	// human-readable label, so keep the original key in that case.
	if canonical != "" && canonical != addr {
		name = canonical
	}
	return addr, name
}

func (r *Resolver) lookupAddress(ctx context.Context, host string) string {
	ctx, cancel := r.bound(ctx)
	defer cancel()

	addrs, err := r.lookuper.LookupHost(ctx, host)
	if err != nil || len(addrs) == 0 {
		slog.Warn("Could not resolve address", "host", host, "error", err)
		return ""
	}
	return addrs[0]
}

func (r *Resolver) lookupName(ctx context.Context, addr string) string {
	ctx, cancel := r.bound(ctx)
	defer cancel()

	names, err := r.lookuper.LookupAddr(ctx, addr)
	if err != nil || len(names) == 0 {
		slog.Warn("Could not resolve canonical name", "addr", addr, "error", err)
		return ""
	}
	return strings.TrimSuffix(names[0], ".")
}

func (r *Resolver) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.Timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, r.Timeout)
}
