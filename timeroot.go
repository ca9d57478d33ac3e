package recursor

import (
	"context"
	"net/netip"
	"sort"
	"sync"
	"time"

	"golang.org/x/net/proxy"
)

// rootRtt stores a round-trip time measurement for a root server
type rootRtt struct {
	addr netip.Addr
	rtt  time.Duration
}

// timeRoot measures the RTT to a root server by making multiple connection attempts
func timeRoot(ctx context.Context, dialer proxy.ContextDialer, wg *sync.WaitGroup, rt *rootRtt) {
	defer wg.Done()

	const numProbes = 3

	network := "tcp4"
	if rt.addr.Is6() {
		network = "tcp6"
	}

	rt.rtt = time.Hour // default to very high if all probes fail

	var totalRtt time.Duration
	successfulProbes := 0

	for i := 0; i < numProbes; i++ {
		start := time.Now()
		conn, err := dialer.DialContext(ctx, network, netip.AddrPortFrom(rt.addr, dnsPort).String())
		if err != nil {
			continue
		}
		totalRtt += time.Since(start)
		successfulProbes++
		_ = conn.Close()
	}

	if successfulProbes > 0 {
		rt.rtt = totalRtt / time.Duration(successfulProbes)
	}
}

// OrderRoots sorts the root server list by their current latency and
// removes those that don't respond.
//
// If ctx does not have a deadline, DefaultTimeout will be used.
func (r *Recursor) OrderRoots(ctx context.Context) {
	if _, ok := ctx.Deadline(); !ok {
		newctx, cancel := context.WithTimeout(ctx, DefaultTimeout)
		defer cancel()
		ctx = newctx
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	var l []*rootRtt
	var wg sync.WaitGroup
	for _, addr := range r.roots {
		rt := &rootRtt{addr: addr}
		l = append(l, rt)
		wg.Add(1)
		go timeRoot(ctx, r.ContextDialer, &wg, rt)
	}
	wg.Wait()

	sort.Slice(l, func(i, j int) bool { return l[i].rtt < l[j].rtt })

	var newRoots []netip.Addr
	for _, rt := range l {
		if rt.rtt < time.Minute {
			newRoots = append(newRoots, rt.addr)
		}
	}
	if len(newRoots) > 0 {
		r.roots = newRoots
	}
}
