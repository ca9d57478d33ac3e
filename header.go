package recursor

import "strconv"

// Rcode is the 4-bit result code in a DNS header.
type Rcode uint8

const (
	RcodeSuccess        Rcode = 0 // NOERROR
	RcodeFormatError    Rcode = 1 // FORMERR
	RcodeServerFailure  Rcode = 2 // SERVFAIL
	RcodeNameError      Rcode = 3 // NXDOMAIN
	RcodeNotImplemented Rcode = 4 // NOTIMP
	RcodeRefused        Rcode = 5 // REFUSED
)

var rcodeToString = map[Rcode]string{
	RcodeSuccess:        "NOERROR",
	RcodeFormatError:    "FORMERR",
	RcodeServerFailure:  "SERVFAIL",
	RcodeNameError:      "NXDOMAIN",
	RcodeNotImplemented: "NOTIMP",
	RcodeRefused:        "REFUSED",
}

func (rc Rcode) String() string {
	if s, ok := rcodeToString[rc]; ok {
		return s
	}
	return "RCODE" + strconv.Itoa(int(rc))
}

// rcodeFromUint8 normalizes unrecognized codes to NOERROR.
func rcodeFromUint8(v uint8) Rcode {
	rc := Rcode(v)
	if _, ok := rcodeToString[rc]; !ok {
		rc = RcodeSuccess
	}
	return rc
}

// Header is the fixed 12-byte DNS message header. The count fields mirror
// the section lengths of the owning Msg and are maintained by the Add
// methods; the codec writes them as stored and never recomputes them.
type Header struct {
	Id                 uint16
	Response           bool  // QR
	Opcode             uint8 // 4 bits
	Authoritative      bool  // AA
	Truncated          bool  // TC
	RecursionDesired   bool  // RD
	RecursionAvailable bool  // RA
	Zero               uint8 // 3 reserved bits, always zero
	Rcode              Rcode

	Qdcount uint16
	Ancount uint16
	Nscount uint16
	Arcount uint16
}

func (h *Header) read(b *PacketBuffer) (err error) {
	if h.Id, err = b.ReadUint16(); err != nil {
		return
	}
	var flags uint16
	if flags, err = b.ReadUint16(); err != nil {
		return
	}
	h.Response = flags&0x8000 != 0
	h.Opcode = uint8(flags >> 11 & 0xF)
	h.Authoritative = flags&0x0400 != 0
	h.Truncated = flags&0x0200 != 0
	h.RecursionDesired = flags&0x0100 != 0
	h.RecursionAvailable = flags&0x0080 != 0
	h.Zero = uint8(flags >> 4 & 0x7)
	h.Rcode = rcodeFromUint8(uint8(flags & 0xF))

	if h.Qdcount, err = b.ReadUint16(); err != nil {
		return
	}
	if h.Ancount, err = b.ReadUint16(); err != nil {
		return
	}
	if h.Nscount, err = b.ReadUint16(); err != nil {
		return
	}
	h.Arcount, err = b.ReadUint16()
	return
}

func (h *Header) write(b *PacketBuffer) (err error) {
	if err = b.WriteUint16(h.Id); err != nil {
		return
	}
	var flags uint16
	if h.Response {
		flags |= 0x8000
	}
	flags |= uint16(h.Opcode&0xF) << 11
	if h.Authoritative {
		flags |= 0x0400
	}
	if h.Truncated {
		flags |= 0x0200
	}
	if h.RecursionDesired {
		flags |= 0x0100
	}
	if h.RecursionAvailable {
		flags |= 0x0080
	}
	flags |= uint16(h.Zero&0x7) << 4
	flags |= uint16(h.Rcode) & 0xF
	if err = b.WriteUint16(flags); err != nil {
		return
	}
	if err = b.WriteUint16(h.Qdcount); err != nil {
		return
	}
	if err = b.WriteUint16(h.Ancount); err != nil {
		return
	}
	if err = b.WriteUint16(h.Nscount); err != nil {
		return
	}
	return b.WriteUint16(h.Arcount)
}
