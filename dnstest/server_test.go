package dnstest

import (
	"testing"
	"time"

	"github.com/miekg/dns"
)

func TestServer(t *testing.T) {
	srv, err := NewServer("127.0.0.1:0", map[string]*Response{
		Key("example.org.", dns.TypeA):      Answer(ARR("example.org", "127.0.0.1")),
		Key("nxdomain.example.", dns.TypeA): {Rcode: dns.RcodeNameError},
		Key("bad.example.", dns.TypeA):      {Raw: []byte{0, 1, 2, 3}},
	})
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	defer srv.Close()

	c := dns.Client{Net: "udp", Timeout: 5 * time.Second}
	req := new(dns.Msg)
	req.SetQuestion("example.org.", dns.TypeA)
	in, _, err := c.Exchange(req, srv.Addr)
	if err != nil {
		t.Fatalf("exchange: %v", err)
	}
	if len(in.Answer) != 1 {
		t.Fatalf("expected 1 answer, got %d", len(in.Answer))
	}

	req.SetQuestion("nxdomain.example.", dns.TypeA)
	if in, _, err = c.Exchange(req, srv.Addr); err != nil {
		t.Fatalf("exchange: %v", err)
	}
	if in.Rcode != dns.RcodeNameError {
		t.Fatalf("rcode = %s", dns.RcodeToString[in.Rcode])
	}

	// unscripted questions default to NXDOMAIN
	req.SetQuestion("unscripted.example.", dns.TypeA)
	if in, _, err = c.Exchange(req, srv.Addr); err != nil {
		t.Fatalf("exchange: %v", err)
	}
	if in.Rcode != dns.RcodeNameError {
		t.Fatalf("rcode = %s", dns.RcodeToString[in.Rcode])
	}
}

func TestReferral(t *testing.T) {
	resp := Referral("com", []string{"ns1.example", "ns2.example"},
		map[string]string{"ns1.example": "192.0.2.1"})
	if len(resp.Msg.Ns) != 2 {
		t.Fatalf("ns = %d", len(resp.Msg.Ns))
	}
	if len(resp.Msg.Extra) != 1 {
		t.Fatalf("extra = %d", len(resp.Msg.Extra))
	}
	ns, ok := resp.Msg.Ns[0].(*dns.NS)
	if !ok || ns.Hdr.Name != "com." || ns.Ns != "ns1.example." {
		t.Errorf("ns = %v", resp.Msg.Ns[0])
	}
	a, ok := resp.Msg.Extra[0].(*dns.A)
	if !ok || a.Hdr.Name != "ns1.example." || a.A.String() != "192.0.2.1" {
		t.Errorf("glue = %v", resp.Msg.Extra[0])
	}
}

func TestKey(t *testing.T) {
	if Key("Example.COM", dns.TypeA) != Key("example.com.", dns.TypeA) {
		t.Error("Key should normalize case and trailing dot")
	}
}
