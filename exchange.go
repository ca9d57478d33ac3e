package recursor

import (
	"context"
	"fmt"
	"math/rand"
	"net"
	"net/netip"
)

// exchange sends a single query to nsaddr over UDP and decodes the one
// reply datagram. There is no retry and no TCP fallback; cancellation and
// deadlines come from ctx and the configured Timeout.
func (q *query) exchange(ctx context.Context, nsaddr netip.Addr, qname string, qtype Type) (msg *Msg, err error) {
	q.steps++
	if q.steps > maxSteps {
		return nil, ErrMaxSteps
	}

	if q.rateLimiter != nil {
		<-q.rateLimiter
	}

	network := "udp4"
	if nsaddr.Is6() {
		network = "udp6"
	}

	if q.Timeout > 0 {
		ctx2, cancel := context.WithTimeout(ctx, q.Timeout)
		defer cancel()
		ctx = ctx2
	}

	_ = q.dbg() && q.log("SENDING %s: @%s %s %q", network, nsaddr, qtype, qname)

	var nconn net.Conn
	if nconn, err = q.DialContext(ctx, network, netip.AddrPortFrom(nsaddr, dnsPort).String()); err == nil {
		defer nconn.Close()
		if dl, ok := ctx.Deadline(); ok {
			_ = nconn.SetDeadline(dl)
		}

		req := &Msg{}
		req.Id = uint16(rand.Uint32()) // #nosec G404
		req.RecursionDesired = true
		req.SetQuestion(qname, qtype)

		var p []byte
		if p, err = req.Pack(); err == nil {
			if _, err = nconn.Write(p); err == nil {
				q.sent++
				var b PacketBuffer
				if _, err = nconn.Read(b.data[:]); err == nil {
					msg, err = ReadMsg(&b)
				}
			}
		}
	}

	if q.dbg() {
		if msg != nil {
			fmt.Fprintf(q.logw, " => %s [%v+%v+%v A/N/E]", msg.Rcode, len(msg.Answer), len(msg.Ns), len(msg.Extra))
		}
		if err != nil {
			fmt.Fprintf(q.logw, " error: %v", err)
		}
		fmt.Fprintln(q.logw)
	}
	return
}
