package recursor

import (
	"encoding/binary"
	"errors"
)

// MaxMsgSize is the largest DNS message we send or accept over UDP.
const MaxMsgSize = 512

// ErrOutOfBounds is returned when a buffer access would cross the message boundary.
var ErrOutOfBounds = errors.New("out of bounds")

// PacketBuffer is a fixed-size DNS message buffer with a read/write cursor.
// Seek and Step move the cursor without bounds checking; the check happens
// lazily on the next access.
type PacketBuffer struct {
	data [MaxMsgSize]byte
	pos  int
}

// Bytes returns the written portion of the buffer.
func (b *PacketBuffer) Bytes() []byte {
	return b.data[:b.pos]
}

// Pos returns the current cursor position.
func (b *PacketBuffer) Pos() int {
	return b.pos
}

// Seek sets the cursor position.
func (b *PacketBuffer) Seek(pos int) {
	b.pos = pos
}

// Step moves the cursor forward n bytes.
func (b *PacketBuffer) Step(n int) {
	b.pos += n
}

// Fill copies p into the start of the buffer and resets the cursor,
// preparing the buffer for decoding a received datagram. Bytes beyond
// len(p) are zeroed so a reused buffer cannot leak a previous message
// through compression pointers.
func (b *PacketBuffer) Fill(p []byte) (err error) {
	err = ErrOutOfBounds
	if len(p) <= MaxMsgSize {
		copy(b.data[:], p)
		clear(b.data[len(p):])
		b.pos = 0
		err = nil
	}
	return
}

// Get returns the byte at pos without moving the cursor.
func (b *PacketBuffer) Get(pos int) (v byte, err error) {
	err = ErrOutOfBounds
	if pos >= 0 && pos < MaxMsgSize {
		v = b.data[pos]
		err = nil
	}
	return
}

// GetRange returns n bytes starting at pos without moving the cursor.
func (b *PacketBuffer) GetRange(pos, n int) (p []byte, err error) {
	err = ErrOutOfBounds
	if pos >= 0 && n >= 0 && pos+n <= MaxMsgSize {
		p = b.data[pos : pos+n]
		err = nil
	}
	return
}

func (b *PacketBuffer) ReadUint8() (v uint8, err error) {
	err = ErrOutOfBounds
	if b.pos >= 0 && b.pos+1 <= MaxMsgSize {
		v = b.data[b.pos]
		b.pos++
		err = nil
	}
	return
}

func (b *PacketBuffer) ReadUint16() (v uint16, err error) {
	err = ErrOutOfBounds
	if b.pos >= 0 && b.pos+2 <= MaxMsgSize {
		v = binary.BigEndian.Uint16(b.data[b.pos:])
		b.pos += 2
		err = nil
	}
	return
}

func (b *PacketBuffer) ReadUint32() (v uint32, err error) {
	err = ErrOutOfBounds
	if b.pos >= 0 && b.pos+4 <= MaxMsgSize {
		v = binary.BigEndian.Uint32(b.data[b.pos:])
		b.pos += 4
		err = nil
	}
	return
}

// ReadBytes reads n bytes at the cursor and advances past them.
func (b *PacketBuffer) ReadBytes(n int) (p []byte, err error) {
	err = ErrOutOfBounds
	if b.pos >= 0 && n >= 0 && b.pos+n <= MaxMsgSize {
		p = b.data[b.pos : b.pos+n]
		b.pos += n
		err = nil
	}
	return
}

func (b *PacketBuffer) WriteUint8(v uint8) (err error) {
	err = ErrOutOfBounds
	if b.pos >= 0 && b.pos+1 <= MaxMsgSize {
		b.data[b.pos] = v
		b.pos++
		err = nil
	}
	return
}

func (b *PacketBuffer) WriteUint16(v uint16) (err error) {
	err = ErrOutOfBounds
	if b.pos >= 0 && b.pos+2 <= MaxMsgSize {
		binary.BigEndian.PutUint16(b.data[b.pos:], v)
		b.pos += 2
		err = nil
	}
	return
}

func (b *PacketBuffer) WriteUint32(v uint32) (err error) {
	err = ErrOutOfBounds
	if b.pos >= 0 && b.pos+4 <= MaxMsgSize {
		binary.BigEndian.PutUint32(b.data[b.pos:], v)
		b.pos += 4
		err = nil
	}
	return
}

// WriteBytes writes p at the cursor and advances past it.
func (b *PacketBuffer) WriteBytes(p []byte) (err error) {
	err = ErrOutOfBounds
	if b.pos >= 0 && b.pos+len(p) <= MaxMsgSize {
		copy(b.data[b.pos:], p)
		b.pos += len(p)
		err = nil
	}
	return
}

// SetUint8 overwrites the byte at pos without moving the cursor.
func (b *PacketBuffer) SetUint8(pos int, v uint8) (err error) {
	err = ErrOutOfBounds
	if pos >= 0 && pos+1 <= MaxMsgSize {
		b.data[pos] = v
		err = nil
	}
	return
}

// SetUint16 overwrites two bytes at pos without moving the cursor.
// Used to backpatch rdlength fields once a variable-length rdata is written.
func (b *PacketBuffer) SetUint16(pos int, v uint16) (err error) {
	err = ErrOutOfBounds
	if pos >= 0 && pos+2 <= MaxMsgSize {
		binary.BigEndian.PutUint16(b.data[pos:], v)
		err = nil
	}
	return
}

// SetUint32 overwrites four bytes at pos without moving the cursor.
func (b *PacketBuffer) SetUint32(pos int, v uint32) (err error) {
	err = ErrOutOfBounds
	if pos >= 0 && pos+4 <= MaxMsgSize {
		binary.BigEndian.PutUint32(b.data[pos:], v)
		err = nil
	}
	return
}
