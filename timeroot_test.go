package recursor

import (
	"context"
	"errors"
	"net"
	"net/netip"
	"reflect"
	"testing"
	"time"
)

type fakeDialer struct {
	delays map[string]time.Duration // negative duration means failure
}

func (d *fakeDialer) Dial(network, addr string) (net.Conn, error) {
	return d.DialContext(context.Background(), network, addr)
}

func (d *fakeDialer) DialContext(ctx context.Context, network, addr string) (net.Conn, error) {
	delay, ok := d.delays[addr]
	if !ok {
		return nil, errors.New("unexpected address")
	}
	if delay < 0 {
		return nil, errors.New("dial failure")
	}
	if delay > 0 {
		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
	c1, c2 := net.Pipe()
	_ = c2.Close()
	return c1, nil
}

func TestOrderRoots(t *testing.T) {
	fast := netip.MustParseAddr("192.0.2.1")
	slow := netip.MustParseAddr("192.0.2.2")
	fail := netip.MustParseAddr("192.0.2.3")

	d := &fakeDialer{delays: map[string]time.Duration{
		netip.AddrPortFrom(fast, dnsPort).String(): 5 * time.Millisecond,
		netip.AddrPortFrom(slow, dnsPort).String(): 25 * time.Millisecond,
		netip.AddrPortFrom(fail, dnsPort).String(): -1,
	}}

	r := NewWithOptions(d, []netip.Addr{fail, slow, fast}, nil)
	r.OrderRoots(context.Background())

	want := []netip.Addr{fast, slow}
	if !reflect.DeepEqual(r.roots, want) {
		t.Fatalf("roots = %v; want %v", r.roots, want)
	}
}
