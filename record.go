package recursor

import (
	"errors"
	"fmt"
	"net/netip"
)

// ErrUnknownRecord is returned when attempting to serialize an Unknown
// record. Unknown records are decoded for read-through completeness only;
// their rdata is skipped and cannot be reproduced.
var ErrUnknownRecord = errors.New("cannot serialize unknown record type")

// Record is one resource record in the answer, authority or additional
// section. The concrete types are A, AAAA, NS, CNAME, MX and Unknown.
type Record interface {
	// Header returns the fields common to all record types.
	Header() *RecordHeader
	// Rtype returns the record's wire type.
	Rtype() Type
	// writeData writes the record's rdata at the cursor. The rdlength
	// field is handled by the caller.
	writeData(b *PacketBuffer) error
}

// RecordHeader holds the owner name and TTL common to all record types.
type RecordHeader struct {
	Name string
	Ttl  uint32
}

func (rh *RecordHeader) Header() *RecordHeader { return rh }

// A is an IPv4 address record.
type A struct {
	RecordHeader
	Addr netip.Addr
}

func (rr *A) Rtype() Type { return TypeA }

func (rr *A) writeData(b *PacketBuffer) error {
	a4 := rr.Addr.As4()
	return b.WriteBytes(a4[:])
}

func (rr *A) String() string {
	return fmt.Sprintf("%s\t%d\tIN\tA\t%s", rr.Name, rr.Ttl, rr.Addr)
}

// AAAA is an IPv6 address record.
type AAAA struct {
	RecordHeader
	Addr netip.Addr
}

func (rr *AAAA) Rtype() Type { return TypeAAAA }

func (rr *AAAA) writeData(b *PacketBuffer) error {
	a16 := rr.Addr.As16()
	return b.WriteBytes(a16[:])
}

func (rr *AAAA) String() string {
	return fmt.Sprintf("%s\t%d\tIN\tAAAA\t%s", rr.Name, rr.Ttl, rr.Addr)
}

// NS is a nameserver delegation record.
type NS struct {
	RecordHeader
	Ns string
}

func (rr *NS) Rtype() Type { return TypeNS }

func (rr *NS) writeData(b *PacketBuffer) error {
	return b.WriteName(rr.Ns)
}

func (rr *NS) String() string {
	return fmt.Sprintf("%s\t%d\tIN\tNS\t%s", rr.Name, rr.Ttl, rr.Ns)
}

// CNAME is a canonical name record.
type CNAME struct {
	RecordHeader
	Target string
}

func (rr *CNAME) Rtype() Type { return TypeCNAME }

func (rr *CNAME) writeData(b *PacketBuffer) error {
	return b.WriteName(rr.Target)
}

func (rr *CNAME) String() string {
	return fmt.Sprintf("%s\t%d\tIN\tCNAME\t%s", rr.Name, rr.Ttl, rr.Target)
}

// MX is a mail exchange record.
type MX struct {
	RecordHeader
	Preference uint16
	Mx         string
}

func (rr *MX) Rtype() Type { return TypeMX }

func (rr *MX) writeData(b *PacketBuffer) (err error) {
	if err = b.WriteUint16(rr.Preference); err != nil {
		return
	}
	return b.WriteName(rr.Mx)
}

func (rr *MX) String() string {
	return fmt.Sprintf("%s\t%d\tIN\tMX\t%d %s", rr.Name, rr.Ttl, rr.Preference, rr.Mx)
}

// Unknown is a record of a type this resolver does not understand. The
// rdata is skipped during decoding and not retained, so an Unknown record
// can never be written back out.
type Unknown struct {
	RecordHeader
	Type     Type
	Rdlength uint16
}

func (rr *Unknown) Rtype() Type { return rr.Type }

func (rr *Unknown) writeData(b *PacketBuffer) error {
	return ErrUnknownRecord
}

func (rr *Unknown) String() string {
	return fmt.Sprintf("%s\t%d\tIN\t%s\t; %d bytes skipped", rr.Name, rr.Ttl, rr.Type, rr.Rdlength)
}

// readRecord decodes one resource record at the cursor.
func readRecord(b *PacketBuffer) (rr Record, err error) {
	var rh RecordHeader
	if rh.Name, err = b.ReadName(); err != nil {
		return
	}
	var rtype, rdlength uint16
	if rtype, err = b.ReadUint16(); err != nil {
		return
	}
	if _, err = b.ReadUint16(); err != nil { // class
		return
	}
	if rh.Ttl, err = b.ReadUint32(); err != nil {
		return
	}
	if rdlength, err = b.ReadUint16(); err != nil {
		return
	}

	switch Type(rtype) {
	case TypeA:
		var p []byte
		if p, err = b.ReadBytes(4); err == nil {
			addr, _ := netip.AddrFromSlice(p)
			rr = &A{RecordHeader: rh, Addr: addr}
		}
	case TypeAAAA:
		var p []byte
		if p, err = b.ReadBytes(16); err == nil {
			addr, _ := netip.AddrFromSlice(p)
			rr = &AAAA{RecordHeader: rh, Addr: addr}
		}
	case TypeNS:
		var ns string
		if ns, err = b.ReadName(); err == nil {
			rr = &NS{RecordHeader: rh, Ns: ns}
		}
	case TypeCNAME:
		var target string
		if target, err = b.ReadName(); err == nil {
			rr = &CNAME{RecordHeader: rh, Target: target}
		}
	case TypeMX:
		mx := &MX{RecordHeader: rh}
		if mx.Preference, err = b.ReadUint16(); err == nil {
			if mx.Mx, err = b.ReadName(); err == nil {
				rr = mx
			}
		}
	default:
		b.Step(int(rdlength))
		rr = &Unknown{RecordHeader: rh, Type: Type(rtype), Rdlength: rdlength}
	}
	return
}

// writeRecord encodes one resource record at the cursor. The rdlength
// field is written as a placeholder and backpatched once the rdata is
// written, since name encoding makes the rdata variable-length.
func writeRecord(b *PacketBuffer, rr Record) (err error) {
	rh := rr.Header()
	if err = b.WriteName(rh.Name); err != nil {
		return
	}
	if err = b.WriteUint16(uint16(rr.Rtype())); err != nil {
		return
	}
	if err = b.WriteUint16(classIN); err != nil {
		return
	}
	if err = b.WriteUint32(rh.Ttl); err != nil {
		return
	}
	lenpos := b.Pos()
	if err = b.WriteUint16(0); err != nil {
		return
	}
	if err = rr.writeData(b); err != nil {
		return
	}
	return b.SetUint16(lenpos, uint16(b.Pos()-lenpos-2)) // #nosec G115
}
