package recursor

import (
	"errors"
	"strings"
)

const (
	maxLabelLen = 63
	maxJumps    = 5 // compression pointer chain limit
)

var (
	// ErrTooManyJumps is returned when a name's compression pointer chain
	// exceeds maxJumps, indicating a malformed or hostile message.
	ErrTooManyJumps = errors.New("too many compression jumps")
	// ErrLabelTooLong is returned when encoding a label longer than 63 bytes.
	ErrLabelTooLong = errors.New("label exceeds 63 bytes")
)

// ReadName decodes a domain name at the cursor. Labels are lowercased and
// joined with dots. Compression pointers are followed; the cursor ends up
// just past the name as it appears at the original position regardless of
// how many jumps were taken.
func (b *PacketBuffer) ReadName() (name string, err error) {
	var sb strings.Builder
	pos := b.pos
	jumps := 0
	jumped := false

	for err == nil {
		if jumps > maxJumps {
			return "", ErrTooManyJumps
		}
		var length byte
		if length, err = b.Get(pos); err != nil {
			break
		}
		if length&0xC0 == 0xC0 {
			// Pointer: the first jump leaves the cursor past the 2-byte
			// pointer, later jumps must not move it again.
			if !jumped {
				b.Seek(pos + 2)
				jumped = true
			}
			var b2 byte
			if b2, err = b.Get(pos + 1); err != nil {
				break
			}
			pos = int(length&0x3F)<<8 | int(b2)
			jumps++
			continue
		}
		pos++
		if length == 0 {
			if !jumped {
				b.Seek(pos)
			}
			name = sb.String()
			return
		}
		var label []byte
		if label, err = b.GetRange(pos, int(length)); err != nil {
			break
		}
		if sb.Len() > 0 {
			sb.WriteByte('.')
		}
		sb.WriteString(strings.ToLower(string(label)))
		pos += int(length)
	}
	return "", err
}

// WriteName encodes a domain name as length-prefixed labels with a zero
// terminator. Empty segments are skipped, so "example.com", "example.com."
// and "" all encode correctly. Compression is never produced.
func (b *PacketBuffer) WriteName(name string) (err error) {
	for _, label := range strings.Split(name, ".") {
		if label == "" {
			continue
		}
		if len(label) > maxLabelLen {
			return ErrLabelTooLong
		}
		if err = b.WriteUint8(uint8(len(label))); err != nil {
			return
		}
		if err = b.WriteBytes([]byte(label)); err != nil {
			return
		}
	}
	return b.WriteUint8(0)
}
