package recursor

import (
	"net/netip"
	"strings"
)

// anyA returns the first A record in the answer section.
func (m *Msg) anyA() (addr netip.Addr, ok bool) {
	for _, rr := range m.Answer {
		if a, isA := rr.(*A); isA {
			return a.Addr, true
		}
	}
	return
}

// nameservers returns the hostnames of NS records in the authority section
// whose owner name is a suffix of qname, in wire order.
func (m *Msg) nameservers(qname string) (hosts []string) {
	for _, rr := range m.Ns {
		if ns, isNS := rr.(*NS); isNS {
			if strings.HasSuffix(qname, ns.Name) {
				hosts = append(hosts, ns.Ns)
			}
		}
	}
	return
}

// gluedNS returns the address of the first delegation nameserver that has a
// glue A record in the additional section.
func (m *Msg) gluedNS(qname string) (addr netip.Addr, ok bool) {
	for _, host := range m.nameservers(qname) {
		for _, rr := range m.Extra {
			if a, isA := rr.(*A); isA && a.Name == host {
				return a.Addr, true
			}
		}
	}
	return
}

// ungluedNS returns the first delegation nameserver hostname, glued or not.
// The caller uses it when gluedNS found nothing.
func (m *Msg) ungluedNS(qname string) (host string, ok bool) {
	if hosts := m.nameservers(qname); len(hosts) > 0 {
		host, ok = hosts[0], true
	}
	return
}
