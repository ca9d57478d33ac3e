package recursor

// classIN is the only query class we handle. It is written as a constant
// and read-and-discarded; the class is not modeled as a field.
const classIN = 1

// Question is a single entry in the question section.
type Question struct {
	Name  string
	Qtype Type
}

func (q *Question) read(b *PacketBuffer) (err error) {
	if q.Name, err = b.ReadName(); err != nil {
		return
	}
	var qtype uint16
	if qtype, err = b.ReadUint16(); err != nil {
		return
	}
	q.Qtype = Type(qtype)
	_, err = b.ReadUint16() // class
	return
}

func (q *Question) write(b *PacketBuffer) (err error) {
	if err = b.WriteName(q.Name); err != nil {
		return
	}
	if err = b.WriteUint16(uint16(q.Qtype)); err != nil {
		return
	}
	return b.WriteUint16(classIN)
}
