package recursor

import (
	"context"
	"net/netip"
)

// Resolver performs recursive DNS resolution.
type Resolver interface {
	Resolve(ctx context.Context, qname string, qtype Type) (msg *Msg, srv netip.Addr, err error)
}
