package recursor

import (
	"errors"
	"net/netip"
	"reflect"
	"testing"

	"github.com/miekg/dns"
)

func sampleMsg() *Msg {
	m := &Msg{}
	m.Id = 0x1234
	m.Response = true
	m.RecursionDesired = true
	m.RecursionAvailable = true
	m.SetQuestion("example.com", TypeA)
	m.AddAnswer(&A{RecordHeader: RecordHeader{Name: "example.com", Ttl: 300},
		Addr: netip.MustParseAddr("93.184.216.34")})
	m.AddAnswer(&AAAA{RecordHeader: RecordHeader{Name: "example.com", Ttl: 300},
		Addr: netip.MustParseAddr("2606:2800:220:1::1")})
	m.AddAnswer(&CNAME{RecordHeader: RecordHeader{Name: "alias.example.com", Ttl: 60},
		Target: "example.com"})
	m.AddAnswer(&MX{RecordHeader: RecordHeader{Name: "example.com", Ttl: 3600},
		Preference: 10, Mx: "mail.example.com"})
	m.AddAuthority(&NS{RecordHeader: RecordHeader{Name: "example.com", Ttl: 86400},
		Ns: "ns1.example.com"})
	m.AddAdditional(&A{RecordHeader: RecordHeader{Name: "ns1.example.com", Ttl: 86400},
		Addr: netip.MustParseAddr("192.0.2.1")})
	return m
}

func TestMsgRoundtrip(t *testing.T) {
	m := sampleMsg()
	p, err := m.Pack()
	if err != nil {
		t.Fatal(err)
	}
	got, err := Unpack(p)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(m, got) {
		t.Errorf("roundtrip mismatch:\nwant %v\ngot  %v", m, got)
	}
}

func TestMsgCounts(t *testing.T) {
	m := &Msg{}
	for i := 0; i < 3; i++ {
		m.AddAnswer(&A{RecordHeader: RecordHeader{Name: "example.com"},
			Addr: netip.MustParseAddr("192.0.2.1")})
	}
	if m.Ancount != 3 || len(m.Answer) != 3 {
		t.Errorf("ancount = %d, answers = %d", m.Ancount, len(m.Answer))
	}
	m.AddQuestion(Question{Name: "example.com", Qtype: TypeA})
	m.AddAuthority(&NS{RecordHeader: RecordHeader{Name: "com"}, Ns: "ns.example"})
	m.AddAdditional(&A{RecordHeader: RecordHeader{Name: "ns.example"},
		Addr: netip.MustParseAddr("192.0.2.2")})
	if m.Qdcount != 1 || m.Nscount != 1 || m.Arcount != 1 {
		t.Errorf("counts = %d/%d/%d", m.Qdcount, m.Nscount, m.Arcount)
	}
}

func TestMsgHeaderFlags(t *testing.T) {
	m := &Msg{}
	m.Id = 0xbeef
	m.Opcode = 2
	m.Authoritative = true
	m.Truncated = true
	m.Rcode = RcodeRefused
	p, err := m.Pack()
	if err != nil {
		t.Fatal(err)
	}
	got, err := Unpack(p)
	if err != nil {
		t.Fatal(err)
	}
	if got.Id != 0xbeef || got.Opcode != 2 || !got.Authoritative || !got.Truncated ||
		got.Response || got.RecursionDesired || got.Rcode != RcodeRefused {
		t.Errorf("header mismatch: %+v", got.Header)
	}
}

func TestUnknownRcodeNormalizes(t *testing.T) {
	m := &Msg{}
	p, err := m.Pack()
	if err != nil {
		t.Fatal(err)
	}
	p[3] |= 0xB // rcode 11, unassigned
	got, err := Unpack(p)
	if err != nil {
		t.Fatal(err)
	}
	if got.Rcode != RcodeSuccess {
		t.Errorf("rcode = %v, want NOERROR", got.Rcode)
	}
}

func TestUnknownRecordSkipped(t *testing.T) {
	// a TXT record (type 16) is outside our supported set
	ref := new(dns.Msg)
	ref.SetQuestion("example.com.", dns.TypeTXT)
	ref.Response = true
	ref.Answer = append(ref.Answer, &dns.TXT{
		Hdr: dns.RR_Header{Name: "example.com.", Rrtype: dns.TypeTXT, Class: dns.ClassINET, Ttl: 60},
		Txt: []string{"hello"},
	})
	ref.Answer = append(ref.Answer, &dns.A{
		Hdr: dns.RR_Header{Name: "example.com.", Rrtype: dns.TypeA, Class: dns.ClassINET, Ttl: 60},
		A:   []byte{192, 0, 2, 1},
	})
	p, err := ref.Pack()
	if err != nil {
		t.Fatal(err)
	}

	m, err := Unpack(p)
	if err != nil {
		t.Fatal(err)
	}
	if len(m.Answer) != 2 {
		t.Fatalf("answers = %d", len(m.Answer))
	}
	unk, ok := m.Answer[0].(*Unknown)
	if !ok {
		t.Fatalf("first answer = %T, want *Unknown", m.Answer[0])
	}
	if unk.Type != 16 || unk.Rdlength == 0 || unk.Name != "example.com" {
		t.Errorf("unknown = %+v", unk)
	}
	// the record after the skipped rdata must still decode correctly
	if a, ok := m.Answer[1].(*A); !ok || a.Addr != netip.MustParseAddr("192.0.2.1") {
		t.Errorf("second answer = %v", m.Answer[1])
	}

	// and it can never be written back out
	if _, err = m.Pack(); !errors.Is(err, ErrUnknownRecord) {
		t.Fatalf("packing unknown = %v, want ErrUnknownRecord", err)
	}
}

// TestInteropPack verifies miekg/dns can decode what we encode.
func TestInteropPack(t *testing.T) {
	p, err := sampleMsg().Pack()
	if err != nil {
		t.Fatal(err)
	}
	ref := new(dns.Msg)
	if err = ref.Unpack(p); err != nil {
		t.Fatalf("reference decoder rejected our packet: %v", err)
	}
	if len(ref.Question) != 1 || ref.Question[0].Name != "example.com." {
		t.Errorf("question = %+v", ref.Question)
	}
	if len(ref.Answer) != 4 || len(ref.Ns) != 1 || len(ref.Extra) != 1 {
		t.Errorf("sections = %d/%d/%d", len(ref.Answer), len(ref.Ns), len(ref.Extra))
	}
	if mx, ok := ref.Answer[3].(*dns.MX); !ok || mx.Preference != 10 || mx.Mx != "mail.example.com." {
		t.Errorf("mx = %v", ref.Answer[3])
	}
}

// TestInteropUnpack verifies we can decode compressed messages produced by
// miekg/dns.
func TestInteropUnpack(t *testing.T) {
	ref := new(dns.Msg)
	ref.SetQuestion("www.example.com.", dns.TypeA)
	ref.Response = true
	ref.Compress = true
	ref.Answer = append(ref.Answer, &dns.CNAME{
		Hdr:    dns.RR_Header{Name: "www.example.com.", Rrtype: dns.TypeCNAME, Class: dns.ClassINET, Ttl: 60},
		Target: "host.example.com.",
	})
	ref.Answer = append(ref.Answer, &dns.A{
		Hdr: dns.RR_Header{Name: "host.example.com.", Rrtype: dns.TypeA, Class: dns.ClassINET, Ttl: 60},
		A:   []byte{192, 0, 2, 7},
	})
	ref.Ns = append(ref.Ns, &dns.NS{
		Hdr: dns.RR_Header{Name: "example.com.", Rrtype: dns.TypeNS, Class: dns.ClassINET, Ttl: 60},
		Ns:  "ns1.example.com.",
	})
	p, err := ref.Pack()
	if err != nil {
		t.Fatal(err)
	}

	m, err := Unpack(p)
	if err != nil {
		t.Fatal(err)
	}
	if m.Question[0].Name != "www.example.com" {
		t.Errorf("question = %q", m.Question[0].Name)
	}
	cn, ok := m.Answer[0].(*CNAME)
	if !ok || cn.Target != "host.example.com" {
		t.Errorf("cname = %v", m.Answer[0])
	}
	a, ok := m.Answer[1].(*A)
	if !ok || a.Name != "host.example.com" || a.Addr != netip.MustParseAddr("192.0.2.7") {
		t.Errorf("a = %v", m.Answer[1])
	}
	ns, ok := m.Ns[0].(*NS)
	if !ok || ns.Name != "example.com" || ns.Ns != "ns1.example.com" {
		t.Errorf("ns = %v", m.Ns[0])
	}
}
