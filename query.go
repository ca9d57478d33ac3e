package recursor

import (
	"context"
	"fmt"
	"io"
	"net/netip"
	"time"
)

// query carries the state of one top-level resolution: depth and step
// budgets shared across all nested lookups, and the optional debug writer.
type query struct {
	*Recursor
	start time.Time
	logw  io.Writer
	depth int
	steps int
	sent  int
}

func (q *query) dbg() bool {
	return q.logw != nil
}

func (q *query) log(format string, args ...any) bool {
	fmt.Fprintf(q.logw, "[%-5d %2d] %*s", time.Since(q.start).Milliseconds(), q.depth, q.depth, "")
	fmt.Fprintf(q.logw, format, args...)
	return false
}

func (q *query) dive() (err error) {
	err = ErrMaxDepth
	if q.depth < maxDepth {
		q.depth++
		err = nil
	}
	return
}

func (q *query) surface() {
	q.depth--
}

// run walks the delegation chain for (qname, qtype) starting at ns.
//
// A NOERROR response carrying answers, or an NXDOMAIN, is final. Otherwise
// the authority section is inspected for a delegation: a glued nameserver
// is followed directly, an unglued one is first resolved as an A query
// starting from the current server, and a response with no delegation at
// all is returned as the best available answer.
func (q *query) run(ctx context.Context, qname string, qtype Type, ns netip.Addr) (msg *Msg, srv netip.Addr, err error) {
	if err = q.dive(); err != nil {
		return
	}
	defer q.surface()

	for {
		_ = q.dbg() && q.log("QUERY %s %q @%v\n", qtype, qname, ns)

		var resp *Msg
		if resp, err = q.exchange(ctx, ns, qname, qtype); err != nil {
			return
		}

		if resp.Rcode == RcodeSuccess && len(resp.Answer) > 0 {
			return resp, ns, nil
		}
		if resp.Rcode == RcodeNameError {
			return resp, ns, nil
		}

		if addr, ok := resp.gluedNS(qname); ok {
			_ = q.dbg() && q.log("DELEGATION %q => @%v\n", qname, addr)
			ns = addr
			continue
		}

		host, ok := resp.ungluedNS(qname)
		if !ok {
			// no delegation to follow; this is the best answer we have
			return resp, ns, nil
		}

		_ = q.dbg() && q.log("GLUE lookup for NS %q\n", host)
		var inner *Msg
		if inner, _, err = q.run(ctx, host, TypeA, ns); err != nil {
			return
		}
		if addr, ok := inner.anyA(); ok {
			ns = addr
			continue
		}
		// the nameserver itself did not resolve; propagate that outcome
		return inner, ns, nil
	}
}

func (q *query) logResults(msg *Msg, srv netip.Addr, err error) {
	if msg != nil {
		fmt.Fprintf(q.logw, "\n%v", msg)
	}
	fmt.Fprintf(q.logw, "\n;; Sent %v queries in %v", q.sent, time.Since(q.start).Round(time.Millisecond))
	if srv.IsValid() {
		fmt.Fprintf(q.logw, "\n;; SERVER: %v", srv)
	}
	if err != nil {
		fmt.Fprintf(q.logw, "\n;; ERROR: %v", err)
	}
	fmt.Fprintln(q.logw)
}
