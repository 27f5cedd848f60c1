package constant

import (
	"errors"
	"testing"

	"classfile/internal/bytestream"
)

func TestReadPrimitive(t *testing.T) {
	w := bytestream.NewWriter()
	w.WriteI32(-7)
	r := bytestream.NewReader(w.Bytes())

	c, err := Read(TagInteger, r, 52)
	if err != nil {
		t.Fatal(err)
	}
	if c.Tag != TagInteger || c.Int32 != -7 {
		t.Fatalf("got %+v", c)
	}
}

func TestReadUnknownTag(t *testing.T) {
	r := bytestream.NewReader(nil)
	_, err := Read(Tag(2), r, 52)
	var target *ErrUnknownTag
	if !errors.As(err, &target) {
		t.Fatalf("expected ErrUnknownTag, got %v", err)
	}
}

func TestReadVersionTooLow(t *testing.T) {
	w := bytestream.NewWriter()
	w.WriteU16(1) // Module's Utf8 index
	r := bytestream.NewReader(w.Bytes())

	_, err := Read(TagModule, r, 52) // Module requires 53.0
	var target *ErrVersionTooLow
	if !errors.As(err, &target) {
		t.Fatalf("expected ErrVersionTooLow, got %v", err)
	}
}

func TestDereferencePendingThenResolved(t *testing.T) {
	cls := NewClass(3) // refers to index 3, not yet present
	table := map[int]Constant{}
	lookup := func(i int) (Constant, bool) { c, ok := table[i]; return c, ok }

	done, err := Dereference(cls, lookup)
	if err != nil || done {
		t.Fatalf("expected pending, got done=%v err=%v", done, err)
	}

	table[3] = NewUtf8("Foo")
	done, err = Dereference(cls, lookup)
	if err != nil || !done {
		t.Fatalf("expected resolved, got done=%v err=%v", done, err)
	}
}

func TestDereferenceKindMismatch(t *testing.T) {
	cls := NewClass(3)
	table := map[int]Constant{3: NewInteger(1)} // wrong kind
	lookup := func(i int) (Constant, bool) { c, ok := table[i]; return c, ok }

	_, err := Dereference(cls, lookup)
	var target *ErrKindMismatch
	if !errors.As(err, &target) {
		t.Fatalf("expected ErrKindMismatch, got %v", err)
	}
}

func TestMethodHandleLeniency(t *testing.T) {
	// spec.md §9 Open Question: any ref_kind accepted with any of the three
	// referent kinds, regardless of the 1-4/5-8/9 grouping.
	mh := NewMethodHandle(1, 5) // get-field kind, but points at a MethodRef
	table := map[int]Constant{5: NewMethodRef(1, 2)}
	lookup := func(i int) (Constant, bool) { c, ok := table[i]; return c, ok }

	done, err := Dereference(mh, lookup)
	if err != nil || !done {
		t.Fatalf("expected lenient resolve, got done=%v err=%v", done, err)
	}
}

func TestWriteRoundTrip(t *testing.T) {
	cases := []Constant{
		NewUtf8("hi\x00there"),
		NewInteger(42),
		NewFloat(1.5),
		NewLong(-1),
		NewDouble(3.25),
		NewClass(4),
		NewString(5),
		NewNameAndType(1, 2),
		NewFieldRef(1, 2),
		NewMethodHandle(6, 3),
		NewMethodType(7),
		NewDynamic(0, 2),
		NewModule(1),
		NewPackage(1),
	}
	for _, c := range cases {
		w := bytestream.NewWriter()
		Write(c, w)
		r := bytestream.NewReader(w.Bytes())
		got, err := Read(c.Tag, r, 55)
		if err != nil {
			t.Fatalf("%s: %v", c.Tag.Name(), err)
		}
		if got != c {
			t.Errorf("%s: round-trip = %+v, want %+v", c.Tag.Name(), got, c)
		}
	}
}
