package recursor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net"
	"net/netip"
	"slices"
	"strings"
	"sync"
	"time"

	"golang.org/x/net/proxy"
)

//go:generate go run ./cmd/genhints roothints.go

const (
	maxDepth = 32   // maximum recursion depth
	maxSteps = 1000 // max number of queries to allow in one resolution
)

var (
	// ErrMaxDepth is returned when recursive resolving exceeds the allowed limit.
	ErrMaxDepth = fmt.Errorf("recursion depth exceeded %d", maxDepth)
	// ErrMaxSteps is returned when resolving exceeds the query limit.
	ErrMaxSteps = fmt.Errorf("resolve steps exceeded %d", maxSteps)
	// ErrNoRootServers is returned when the resolver has no root servers to start from.
	ErrNoRootServers = errors.New("no root servers")

	DefaultTimeout = time.Second * 5
)

var defaultNetDialer net.Dialer

var _ Resolver = (*Recursor)(nil) // ensure we implement interface

// Recursor is a recursive DNS resolver. It walks the delegation chain from
// a root server downward, one blocking UDP exchange at a time, with no
// caching and no parallel fan-out.
type Recursor struct {
	proxy.ContextDialer                 // (read-only) ContextDialer passed to NewWithOptions
	Timeout             time.Duration   // (read-only) per-exchange timeout, zero to disable
	DefaultLogWriter    io.Writer       // if not nil, write debug logs here unless overridden
	rateLimiter         <-chan struct{} // (read-only) rate limiter passed to NewWithOptions

	mu    sync.RWMutex
	roots []netip.Addr
}

// NewWithOptions returns a new Recursor using the given ContextDialer,
// root servers and rate limiter. It does not call OrderRoots.
//
// Passing nil for dialer will use a net.Dialer.
// Passing nil for roots will use the default root hints.
// Passing nil for rateLimiter means no rate limiting.
func NewWithOptions(dialer proxy.ContextDialer, roots []netip.Addr, rateLimiter <-chan struct{}) *Recursor {
	if dialer == nil {
		dialer = &defaultNetDialer
	}
	if roots == nil {
		roots = Roots4
	}
	roots = slices.Clone(roots)
	shuffleAddrs(roots)
	return &Recursor{
		ContextDialer: dialer,
		Timeout:       DefaultTimeout,
		rateLimiter:   rateLimiter,
		roots:         roots,
	}
}

// New returns a new Recursor using the given ContextDialer and the default
// root hints. It calls OrderRoots before returning.
func New(dialer proxy.ContextDialer) *Recursor {
	r := NewWithOptions(dialer, nil, nil)
	r.OrderRoots(context.Background())
	return r
}

// GetRoots returns the current set of root servers in use.
func (r *Recursor) GetRoots() (roots []netip.Addr) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.roots)
}

func (r *Recursor) root() (addr netip.Addr, err error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	err = ErrNoRootServers
	if len(r.roots) > 0 {
		addr = r.roots[0]
		err = nil
	}
	return
}

// Resolve performs a recursive DNS resolution for the provided name and
// record type, starting from a root server.
func (r *Recursor) Resolve(ctx context.Context, qname string, qtype Type) (msg *Msg, srv netip.Addr, err error) {
	return r.ResolveWithOptions(ctx, nil, qname, qtype)
}

// ResolveWithOptions performs a recursive DNS resolution for the provided
// name and record type. If logw is non-nil (or DefaultLogWriter is set),
// write a log of events.
func (r *Recursor) ResolveWithOptions(ctx context.Context, logw io.Writer, qname string, qtype Type) (msg *Msg, srv netip.Addr, err error) {
	if logw == nil {
		logw = r.DefaultLogWriter
	}
	qname = CanonicalName(qname)

	var root netip.Addr
	if root, err = r.root(); err == nil {
		q := &query{
			Recursor: r,
			start:    time.Now(),
			logw:     logw,
		}
		msg, srv, err = q.run(ctx, qname, qtype, root)
		if logw != nil {
			q.logResults(msg, srv, err)
		}
	}
	return
}

// CanonicalName lowercases a domain name and strips any trailing dot,
// matching the form the codec produces when decoding.
func CanonicalName(qname string) string {
	return strings.ToLower(strings.TrimSuffix(qname, "."))
}

func shuffleAddrs(a []netip.Addr) {
	rand.Shuffle(len(a), func(i, j int) {
		a[i], a[j] = a[j], a[i]
	})
}
