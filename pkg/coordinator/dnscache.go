package coordinator

import (
	"context"
	"hash/fnv"
	"net"
	"sync"
	"time"
)

// dnsCacheShards is the size of the mutex array backing the shared host
// state, per spec.md §4.E's "callbacks backed by an array of mutexes, one
// per shared data kind."
const dnsCacheShards = 16

type dnsShard struct {
	mu      sync.Mutex
	entries map[string][]net.IP
}

// dnsCache is the shared DNS half of the coordinator's host-state object.
// TLS session sharing is deliberately not part of this type — see
// DESIGN.md for why.
type dnsCache struct {
	shards [dnsCacheShards]dnsShard
}

func newDNSCache() *dnsCache {
	c := &dnsCache{}
	for i := range c.shards {
		c.shards[i].entries = make(map[string][]net.IP)
	}
	return c
}

func (c *dnsCache) shardFor(host string) *dnsShard {
	h := fnv.New32a()
	h.Write([]byte(host))
	return &c.shards[h.Sum32()%dnsCacheShards]
}

// lookup resolves host, consulting and then populating the shared cache.
func (c *dnsCache) lookup(ctx context.Context, host string) ([]net.IP, error) {
	shard := c.shardFor(host)

	shard.mu.Lock()
	if ips, ok := shard.entries[host]; ok {
		shard.mu.Unlock()
		return ips, nil
	}
	shard.mu.Unlock()

	ips, err := net.DefaultResolver.LookupIP(ctx, "ip", host)
	if err != nil {
		return nil, err
	}

	shard.mu.Lock()
	shard.entries[host] = ips
	shard.mu.Unlock()
	return ips, nil
}

// dialOverride builds a DialContext that resolves through the shared
// cache (resolving and caching hosts not yet seen) and tries every
// returned IP in order, falling back to an ordinary dial when the lookup
// fails or returns no addresses.
func dialOverride(dns *dnsCache) func(ctx context.Context, network, addr string) (net.Conn, error) {
	dialer := &net.Dialer{KeepAlive: 30 * time.Second}

	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		host, port, err := net.SplitHostPort(addr)
		if err != nil {
			return dialer.DialContext(ctx, network, addr)
		}

		ips, err := dns.lookup(ctx, host)
		if err != nil || len(ips) == 0 {
			return dialer.DialContext(ctx, network, addr)
		}

		var lastErr error
		for _, ip := range ips {
			conn, err := dialer.DialContext(ctx, network, net.JoinHostPort(ip.String(), port))
			if err == nil {
				return conn, nil
			}
			lastErr = err
		}
		return nil, lastErr
	}
}
