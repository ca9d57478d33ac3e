// Package dnstest provides a configurable DNS server simulator for tests.
//
// The simulator is built on github.com/miekg/dns so resolver tests double
// as a cross-implementation check of the wire codec.
package dnstest

import (
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/miekg/dns"
)

// Response defines how the server should answer a specific DNS question.
type Response struct {
	// Msg is sent as the response if non-nil. The Question and Id are set
	// from the incoming request before sending.
	Msg *dns.Msg
	// Rcode is used if Msg is nil to set the reply code in the generated
	// message. Defaults to RcodeSuccess.
	Rcode int
	// Raw is written directly on the wire instead of Msg/Rcode, allowing
	// responses with malformed DNS packets.
	Raw []byte
	// Drop causes the server to ignore the request, simulating a timeout.
	Drop bool
	// Delay adds an optional delay before processing the response.
	Delay time.Duration
}

// Server simulates a UDP DNS server for use in tests.
type Server struct {
	// Addr is the address the server is listening on.
	Addr string

	responses map[string]*Response
	udp       *dns.Server
}

// NewServer starts a new UDP DNS server on addr serving the provided
// responses. If the port in addr is "0" an available port will be chosen
// automatically. Questions with no scripted response get NXDOMAIN.
func NewServer(addr string, responses map[string]*Response) (*Server, error) {
	udpAddr, err := net.ResolveUDPAddr("udp", addr)
	if err != nil {
		return nil, err
	}
	udpConn, err := net.ListenUDP("udp", udpAddr)
	if err != nil {
		return nil, err
	}

	s := &Server{
		Addr:      udpConn.LocalAddr().String(),
		responses: responses,
	}
	s.udp = &dns.Server{PacketConn: udpConn, Handler: dns.HandlerFunc(s.handle)}
	go s.udp.ActivateAndServe()

	return s, nil
}

// Close shuts down the server.
func (s *Server) Close() {
	if s.udp != nil {
		_ = s.udp.Shutdown()
	}
}

func (s *Server) handle(w dns.ResponseWriter, req *dns.Msg) {
	if len(req.Question) == 0 {
		_ = w.Close()
		return
	}
	q := req.Question[0]
	resp, ok := s.responses[Key(q.Name, q.Qtype)]
	if !ok {
		m := new(dns.Msg)
		m.SetRcode(req, dns.RcodeNameError)
		_ = w.WriteMsg(m)
		return
	}

	if resp.Delay > 0 {
		time.Sleep(resp.Delay)
	}
	if resp.Drop {
		return
	}
	if resp.Raw != nil {
		_, _ = w.Write(resp.Raw)
		return
	}
	var m *dns.Msg
	if resp.Msg != nil {
		m = resp.Msg.Copy()
		// Preserve resource records from the original message after SetReply.
		ans, ns, extra := m.Answer, m.Ns, m.Extra
		m.SetReply(req)
		m.Answer, m.Ns, m.Extra = ans, ns, extra
	} else {
		m = new(dns.Msg)
		m.SetReply(req)
	}
	if resp.Rcode != 0 {
		m.Rcode = resp.Rcode
	}
	_ = w.WriteMsg(m)
}

// Key returns a map key for the given question name and type.
func Key(name string, qtype uint16) string {
	name = strings.ToLower(name)
	if !strings.HasSuffix(name, ".") {
		name += "."
	}
	return name + "/" + strconv.FormatUint(uint64(qtype), 10)
}

// Answer builds a NOERROR response carrying the given answer records.
func Answer(rrs ...dns.RR) *Response {
	m := new(dns.Msg)
	m.Answer = append(m.Answer, rrs...)
	return &Response{Msg: m}
}

// Referral builds a delegation response: NS records for zone in the
// authority section, plus glue A records in the additional section for
// every nameserver present in the glue map.
func Referral(zone string, nameservers []string, glue map[string]string) *Response {
	m := new(dns.Msg)
	for _, ns := range nameservers {
		m.Ns = append(m.Ns, NSRR(zone, ns))
		if addr, ok := glue[ns]; ok {
			m.Extra = append(m.Extra, ARR(ns, addr))
		}
	}
	return &Response{Msg: m}
}

// ARR builds an A record.
func ARR(name, addr string) *dns.A {
	return &dns.A{
		Hdr: dns.RR_Header{Name: dns.Fqdn(name), Rrtype: dns.TypeA, Class: dns.ClassINET, Ttl: 300},
		A:   net.ParseIP(addr).To4(),
	}
}

// NSRR builds an NS record.
func NSRR(zone, ns string) *dns.NS {
	return &dns.NS{
		Hdr: dns.RR_Header{Name: dns.Fqdn(zone), Rrtype: dns.TypeNS, Class: dns.ClassINET, Ttl: 300},
		Ns:  dns.Fqdn(ns),
	}
}
