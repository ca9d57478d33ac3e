package recursor

import (
	"context"
	"errors"
	"net"
)

// ErrNoQuestions is returned when an inbound query carries zero questions.
// The client still receives a FORMERR reply.
var ErrNoQuestions = errors.New("query has no questions")

// Server answers DNS queries over UDP by recursively resolving them.
// Requests are processed one at a time, in arrival order.
type Server struct {
	*Recursor
}

// NewServer returns a Server answering queries using the given Recursor.
// Passing nil uses a Recursor with default options.
func NewServer(rec *Recursor) *Server {
	if rec == nil {
		rec = NewWithOptions(nil, nil, nil)
	}
	return &Server{Recursor: rec}
}

// Serve reads queries from pconn until ctx is cancelled or the connection
// fails. Malformed datagrams are dropped; everything else gets a reply.
func (s *Server) Serve(ctx context.Context, pconn net.PacketConn) error {
	context.AfterFunc(ctx, func() { _ = pconn.Close() })

	var buf [MaxMsgSize]byte
	for {
		n, addr, err := pconn.ReadFrom(buf[:])
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return err
		}
		resp, err := s.handleQuery(ctx, buf[:n])
		if err != nil {
			if s.DefaultLogWriter != nil {
				_, _ = s.DefaultLogWriter.Write([]byte(";; ERROR: " + err.Error() + "\n"))
			}
		}
		if resp != nil {
			if _, err = pconn.WriteTo(resp, addr); err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				return err
			}
		}
	}
}

// handleQuery decodes one inbound query datagram and produces the reply
// bytes. A nil reply means the datagram could not be decoded and is
// dropped. A query without questions is answered with FORMERR, and a
// failed resolution with SERVFAIL.
func (s *Server) handleQuery(ctx context.Context, p []byte) (reply []byte, err error) {
	var req *Msg
	if req, err = Unpack(p); err != nil {
		return nil, err
	}

	resp := &Msg{}
	resp.Id = req.Id
	resp.Response = true
	resp.RecursionDesired = true
	resp.RecursionAvailable = true

	if len(req.Question) == 0 {
		resp.Rcode = RcodeFormatError
		err = ErrNoQuestions
	} else {
		question := req.Question[0]
		resp.AddQuestion(question)

		var result *Msg
		var rerr error
		if result, _, rerr = s.Resolve(ctx, question.Name, question.Qtype); rerr == nil {
			resp.Rcode = result.Rcode
			// Unknown records were only skimmed off the wire and cannot be
			// re-emitted, so they never appear in generated replies.
			for _, rr := range result.Answer {
				if _, unk := rr.(*Unknown); !unk {
					resp.AddAnswer(rr)
				}
			}
			for _, rr := range result.Ns {
				if _, unk := rr.(*Unknown); !unk {
					resp.AddAuthority(rr)
				}
			}
			for _, rr := range result.Extra {
				if _, unk := rr.(*Unknown); !unk {
					resp.AddAdditional(rr)
				}
			}
		} else {
			resp.Rcode = RcodeServerFailure
			err = rerr
		}
	}

	reply, packErr := resp.Pack()
	if packErr != nil {
		return nil, errors.Join(err, packErr)
	}
	return reply, err
}
