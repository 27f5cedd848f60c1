package pool

import (
	"bytes"
	"errors"
	"testing"

	"classfile/internal/bytestream"
	"classfile/internal/constant"
)

func TestAddDeduplicates(t *testing.T) {
	p := New()
	idx1 := p.AddUtf8("hello")
	idx2 := p.Add(constant.NewUtf8("hello"))
	if idx1 != idx2 {
		t.Fatalf("idx1=%d idx2=%d, want equal", idx1, idx2)
	}
	if p.Len() != 1 {
		t.Fatalf("Len = %d, want 1", p.Len())
	}
}

func TestWideStride(t *testing.T) {
	p := New()
	idx := p.Add(constant.NewLong(1))
	if p.NextIndex() != idx+2 {
		t.Fatalf("NextIndex = %d, want %d", p.NextIndex(), idx+2)
	}
	if p.ContainsIndex(idx + 1) {
		t.Error("second slot of a wide entry should be unoccupied")
	}
}

func TestSetRejectsOccupiedSlot(t *testing.T) {
	p := New()
	idx := p.AddUtf8("x")
	err := p.Set(idx, constant.NewUtf8("y"))
	var target *ErrSlotOccupied
	if !errors.As(err, &target) {
		t.Fatalf("expected ErrSlotOccupied, got %v", err)
	}
}

func TestAddIndexIsNoop(t *testing.T) {
	p := New()
	before := p.NextIndex()
	if got := p.AddIndex(99); got != 99 {
		t.Errorf("AddIndex = %d, want 99", got)
	}
	if p.NextIndex() != before {
		t.Errorf("AddIndex mutated the pool: next %d -> %d", before, p.NextIndex())
	}
}

func TestGetUtf8KindMismatch(t *testing.T) {
	p := New()
	idx := p.Add(constant.NewInteger(1))
	_, err := p.GetUtf8(idx)
	var target *constant.ErrKindMismatch
	if !errors.As(err, &target) {
		t.Fatalf("expected ErrKindMismatch, got %v", err)
	}
}

// writePoolBytes hand-assembles the wire bytes for a pool with entries at
// indices 1 (Class -> 3) and 3 (Utf8 "Foo"), exercising the forward
// reference / fix-up path (spec.md §8 scenario 2).
func writePoolBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	buf.Write([]byte{0x00, 0x04}) // count = 4: entries at indices 1, 2, 3
	// index 1: Class -> Utf8 at index 3 (tag 7, name_index u2)
	buf.Write([]byte{7, 0x00, 0x03})
	// index 2: Integer, just filler to keep offsets simple (tag 3, i32)
	buf.Write([]byte{3, 0, 0, 0, 1})
	// index 3: Utf8 "Foo" (tag 1, len u2, bytes)
	buf.Write([]byte{1, 0x00, 0x03, 'F', 'o', 'o'})
	return buf.Bytes()
}

func TestReadForwardReference(t *testing.T) {
	data := writePoolBytes(t)
	r := bytestream.NewReader(data)
	p, err := Read(52, r)
	if err != nil {
		t.Fatal(err)
	}
	cls, ok := p.Get(1)
	if !ok || cls.Tag != constant.TagClass || cls.NameIndex != 3 {
		t.Fatalf("Get(1) = %+v, %v", cls, ok)
	}
	name, err := p.GetUtf8(3)
	if err != nil || name != "Foo" {
		t.Fatalf("GetUtf8(3) = %q, %v", name, err)
	}
}

func TestReadUnresolvableReferences(t *testing.T) {
	var buf bytes.Buffer
	buf.Write([]byte{0x00, 0x02})     // count = 2, single entry at index 1
	buf.Write([]byte{7, 0x00, 0x01}) // Class -> itself, never resolvable
	r := bytestream.NewReader(buf.Bytes())

	_, err := Read(52, r)
	var target *ErrUnresolvableReferences
	if !errors.As(err, &target) {
		t.Fatalf("expected ErrUnresolvableReferences, got %v", err)
	}
}

func TestWriteRoundTripsReadPool(t *testing.T) {
	data := writePoolBytes(t)
	r := bytestream.NewReader(data)
	p, err := Read(52, r)
	if err != nil {
		t.Fatal(err)
	}
	w := bytestream.NewWriter()
	p.Write(w)
	if !bytes.Equal(w.Bytes(), data) {
		t.Fatalf("round-trip = %x, want %x", w.Bytes(), data)
	}
}

func TestClear(t *testing.T) {
	p := New()
	p.AddUtf8("x")
	p.Clear()
	if p.Len() != 0 || p.NextIndex() != 1 {
		t.Fatalf("Clear left Len=%d NextIndex=%d", p.Len(), p.NextIndex())
	}
}
