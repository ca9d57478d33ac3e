package recursor

import (
	"fmt"
	"strings"
)

// Msg is a DNS message: a header plus the four record sections. Entries
// must be appended through the Add methods so the header counts stay in
// step with the sections; WriteMsg trusts the stored counts.
type Msg struct {
	Header
	Question []Question
	Answer   []Record
	Ns       []Record
	Extra    []Record
}

// SetQuestion makes m a single-question query for the given name and type.
func (m *Msg) SetQuestion(qname string, qtype Type) {
	m.Question = nil
	m.Qdcount = 0
	m.AddQuestion(Question{Name: qname, Qtype: qtype})
}

func (m *Msg) AddQuestion(q Question) {
	m.Question = append(m.Question, q)
	m.Qdcount++
}

func (m *Msg) AddAnswer(rr Record) {
	m.Answer = append(m.Answer, rr)
	m.Ancount++
}

func (m *Msg) AddAuthority(rr Record) {
	m.Ns = append(m.Ns, rr)
	m.Nscount++
}

func (m *Msg) AddAdditional(rr Record) {
	m.Extra = append(m.Extra, rr)
	m.Arcount++
}

// ReadMsg decodes a complete DNS message from the start of b. The section
// counts come from the header; a truncated buffer surfaces as ErrOutOfBounds
// from whichever read first runs past the end.
func ReadMsg(b *PacketBuffer) (m *Msg, err error) {
	m = &Msg{}
	if err = m.Header.read(b); err != nil {
		return nil, err
	}
	for i := 0; i < int(m.Qdcount); i++ {
		var q Question
		if err = q.read(b); err != nil {
			return nil, err
		}
		m.Question = append(m.Question, q)
	}
	for _, sec := range []struct {
		count uint16
		rrs   *[]Record
	}{
		{m.Ancount, &m.Answer},
		{m.Nscount, &m.Ns},
		{m.Arcount, &m.Extra},
	} {
		for i := 0; i < int(sec.count); i++ {
			var rr Record
			if rr, err = readRecord(b); err != nil {
				return nil, err
			}
			*sec.rrs = append(*sec.rrs, rr)
		}
	}
	return
}

// WriteMsg encodes m into b starting at the cursor.
func (m *Msg) WriteMsg(b *PacketBuffer) (err error) {
	if err = m.Header.write(b); err != nil {
		return
	}
	for i := range m.Question {
		if err = m.Question[i].write(b); err != nil {
			return
		}
	}
	for _, sec := range [][]Record{m.Answer, m.Ns, m.Extra} {
		for _, rr := range sec {
			if err = writeRecord(b, rr); err != nil {
				return
			}
		}
	}
	return
}

// Pack encodes m into a fresh buffer and returns the wire bytes.
func (m *Msg) Pack() (p []byte, err error) {
	var b PacketBuffer
	if err = m.WriteMsg(&b); err == nil {
		p = b.Bytes()
	}
	return
}

// Unpack decodes the wire bytes of one datagram.
func Unpack(p []byte) (m *Msg, err error) {
	var b PacketBuffer
	if err = b.Fill(p); err == nil {
		m, err = ReadMsg(&b)
	}
	return
}

func (m *Msg) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, ";; opcode: %d, status: %s, id: %d\n", m.Opcode, m.Rcode, m.Id)
	fmt.Fprintf(&sb, ";; QUERY: %d, ANSWER: %d, AUTHORITY: %d, ADDITIONAL: %d\n",
		m.Qdcount, m.Ancount, m.Nscount, m.Arcount)
	for _, q := range m.Question {
		fmt.Fprintf(&sb, ";%s\tIN\t%s\n", q.Name, q.Qtype)
	}
	for _, sec := range []struct {
		name string
		rrs  []Record
	}{
		{"ANSWER", m.Answer},
		{"AUTHORITY", m.Ns},
		{"ADDITIONAL", m.Extra},
	} {
		if len(sec.rrs) > 0 {
			fmt.Fprintf(&sb, ";; %s SECTION:\n", sec.name)
			for _, rr := range sec.rrs {
				fmt.Fprintf(&sb, "%v\n", rr)
			}
		}
	}
	return sb.String()
}
