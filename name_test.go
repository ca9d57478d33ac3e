package recursor

import (
	"errors"
	"strings"
	"testing"
)

func TestNameRoundtrip(t *testing.T) {
	for _, name := range []string{
		"",
		"com",
		"example.com",
		"www.example.com",
		"a.b.c.d.e.f.example.com",
	} {
		var b PacketBuffer
		if err := b.WriteName(name); err != nil {
			t.Fatalf("WriteName(%q): %v", name, err)
		}
		b.Seek(0)
		got, err := b.ReadName()
		if err != nil {
			t.Fatalf("ReadName(%q): %v", name, err)
		}
		if got != name {
			t.Errorf("roundtrip %q = %q", name, got)
		}
	}
}

func TestNameDecodeLowercases(t *testing.T) {
	var b PacketBuffer
	if err := b.WriteName("WWW.Example.COM"); err != nil {
		t.Fatal(err)
	}
	b.Seek(0)
	got, err := b.ReadName()
	if err != nil {
		t.Fatal(err)
	}
	if got != "www.example.com" {
		t.Errorf("got %q, want %q", got, "www.example.com")
	}
}

func TestNameTrailingDot(t *testing.T) {
	var b PacketBuffer
	if err := b.WriteName("example.com."); err != nil {
		t.Fatal(err)
	}
	b.Seek(0)
	if got, _ := b.ReadName(); got != "example.com" {
		t.Errorf("got %q", got)
	}
}

func TestNameLabelLength(t *testing.T) {
	var b PacketBuffer
	if err := b.WriteName(strings.Repeat("a", 63) + ".com"); err != nil {
		t.Fatalf("63-byte label: %v", err)
	}
	var b2 PacketBuffer
	if err := b2.WriteName(strings.Repeat("a", 64) + ".com"); !errors.Is(err, ErrLabelTooLong) {
		t.Fatalf("64-byte label = %v, want ErrLabelTooLong", err)
	}
}

func TestNameCompressionPointer(t *testing.T) {
	var b PacketBuffer
	b.Seek(12)
	if err := b.WriteName("example.com"); err != nil {
		t.Fatal(err)
	}
	ptrPos := b.Pos()
	// "www." + pointer to offset 12
	if err := b.WriteUint8(3); err != nil {
		t.Fatal(err)
	}
	if err := b.WriteBytes([]byte("www")); err != nil {
		t.Fatal(err)
	}
	if err := b.WriteUint16(0xC000 | 12); err != nil {
		t.Fatal(err)
	}
	end := b.Pos()

	b.Seek(ptrPos)
	got, err := b.ReadName()
	if err != nil {
		t.Fatal(err)
	}
	if got != "www.example.com" {
		t.Errorf("got %q", got)
	}
	if b.Pos() != end {
		t.Errorf("cursor = %d, want %d (just past the pointer)", b.Pos(), end)
	}
}

// pointerChain writes n chained pointers starting at offset 0, ending at a
// one-label name, and returns the buffer.
func pointerChain(t *testing.T, n int) *PacketBuffer {
	t.Helper()
	var b PacketBuffer
	for i := 0; i < n; i++ {
		target := (i + 1) * 2
		if i == n-1 {
			target = n * 2
		}
		if err := b.SetUint8(i*2, 0xC0|byte(target>>8)); err != nil {
			t.Fatal(err)
		}
		if err := b.SetUint8(i*2+1, byte(target)); err != nil {
			t.Fatal(err)
		}
	}
	b.Seek(n * 2)
	if err := b.WriteName("x"); err != nil {
		t.Fatal(err)
	}
	b.Seek(0)
	return &b
}

func TestNameCompressionJumpLimit(t *testing.T) {
	b := pointerChain(t, maxJumps)
	name, err := b.ReadName()
	if err != nil {
		t.Fatalf("%d jumps: %v", maxJumps, err)
	}
	if name != "x" {
		t.Errorf("got %q", name)
	}
	if b.Pos() != 2 {
		t.Errorf("cursor = %d, want 2 (past the first pointer)", b.Pos())
	}

	b = pointerChain(t, maxJumps+1)
	if _, err = b.ReadName(); !errors.Is(err, ErrTooManyJumps) {
		t.Fatalf("%d jumps = %v, want ErrTooManyJumps", maxJumps+1, err)
	}
}

func TestNameCompressionCycle(t *testing.T) {
	var b PacketBuffer
	// pointer to itself
	if err := b.WriteUint16(0xC000); err != nil {
		t.Fatal(err)
	}
	b.Seek(0)
	if _, err := b.ReadName(); !errors.Is(err, ErrTooManyJumps) {
		t.Fatalf("cyclic pointer = %v, want ErrTooManyJumps", err)
	}
}
