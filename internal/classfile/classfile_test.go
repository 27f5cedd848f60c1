package classfile

import (
	"bytes"
	"testing"

	"classfile/internal/bytestream"
	"classfile/internal/constant"
	"classfile/internal/pool"
)

// buildMinimal hand-assembles the minimal class file from spec.md §8
// scenario 1: version 52.0, PUBLIC|SUPER, this-class Foo, super-class
// java/lang/Object, no interfaces/fields/methods/attributes.
func buildMinimal(t *testing.T) []byte {
	t.Helper()
	p := pool.New()
	fooClass := p.AddClass("Foo")
	objClass := p.AddClass("java/lang/Object")

	w := bytestream.NewWriter()
	w.WriteU32(magic)
	w.WriteU16(0)  // minor
	w.WriteU16(52) // major
	p.Write(w)
	w.WriteU16(uint16(AccPublic | AccSuper))
	w.WriteU16(uint16(fooClass))
	w.WriteU16(uint16(objClass))
	w.WriteU16(0) // interfaces_count
	w.WriteU16(0) // fields_count
	w.WriteU16(0) // methods_count
	w.WriteU16(0) // attributes_count
	return w.Bytes()
}

func TestReadMinimalClass(t *testing.T) {
	data := buildMinimal(t)
	cf, err := Read(bytestream.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}

	if cf.Pool.Len() != 4 {
		t.Fatalf("pool.Len() = %d, want 4", cf.Pool.Len())
	}
	name, err := cf.ThisClassName()
	if err != nil || name != "Foo" {
		t.Fatalf("ThisClassName = %q, %v", name, err)
	}
	super, err := cf.SuperClassName()
	if err != nil || super != "java/lang/Object" {
		t.Fatalf("SuperClassName = %q, %v", super, err)
	}
	if !cf.AccessFlags.Has(AccPublic) || !cf.AccessFlags.Has(AccSuper) {
		t.Fatalf("AccessFlags = %v", cf.AccessFlags)
	}
}

func TestWriteRoundTripsMinimalClass(t *testing.T) {
	data := buildMinimal(t)
	cf, err := Read(bytestream.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	w := bytestream.NewWriter()
	cf.Write(w)
	if !bytes.Equal(w.Bytes(), data) {
		t.Fatalf("round-trip mismatch:\n got  %x\n want %x", w.Bytes(), data)
	}
}

func TestSuperClassNilForObject(t *testing.T) {
	p := pool.New()
	objClass := p.AddClass("java/lang/Object")

	w := bytestream.NewWriter()
	w.WriteU32(magic)
	w.WriteU16(0)
	w.WriteU16(52)
	p.Write(w)
	w.WriteU16(uint16(AccPublic))
	w.WriteU16(uint16(objClass))
	w.WriteU16(0) // super_class == 0
	w.WriteU16(0)
	w.WriteU16(0)
	w.WriteU16(0)
	w.WriteU16(0)

	cf, err := Read(bytestream.NewReader(w.Bytes()))
	if err != nil {
		t.Fatal(err)
	}
	if cf.SuperClass != nil {
		t.Fatalf("SuperClass = %+v, want nil", cf.SuperClass)
	}
}

// TestWriteFromEmptyPoolMaterializesConstants exercises the
// construct-then-serialize path, not Read-then-Write: ThisClass,
// SuperClass, and the method's name/descriptor are never resident in
// the pool until Write runs. If Write serialized the pool before
// materializing them, this_class/super_class would index past
// constant_pool_count and the round-trip Read below would fail.
func TestWriteFromEmptyPoolMaterializesConstants(t *testing.T) {
	p := pool.New()
	fooName := p.AddUtf8("Foo")
	objName := p.AddUtf8("java/lang/Object")

	thisClass := constant.NewClass(fooName)
	superClass := constant.NewClass(objName)

	if p.ContainsValue(thisClass) || p.ContainsValue(superClass) {
		t.Fatal("Class constants already resident before Write")
	}

	cf := &ClassFile{
		MinorVersion: 0,
		MajorVersion: 52,
		AccessFlags:  AccPublic | AccSuper,
		ThisClass:    thisClass,
		SuperClass:   &superClass,
		Pool:         p,
	}
	cf.Methods = []*Method{{
		Class:       cf,
		AccessFlags: AccPublic,
		Name:        "run",
		Descriptor:  "()V",
	}}

	w := bytestream.NewWriter()
	cf.Write(w)

	got, err := Read(bytestream.NewReader(w.Bytes()))
	if err != nil {
		t.Fatal(err)
	}
	name, err := got.ThisClassName()
	if err != nil || name != "Foo" {
		t.Fatalf("ThisClassName = %q, %v", name, err)
	}
	super, err := got.SuperClassName()
	if err != nil || super != "java/lang/Object" {
		t.Fatalf("SuperClassName = %q, %v", super, err)
	}
	if len(got.Methods) != 1 || got.Methods[0].Name != "run" || got.Methods[0].Descriptor != "()V" {
		t.Fatalf("Methods = %+v", got.Methods)
	}
}

func TestBadMagic(t *testing.T) {
	_, err := Read(bytestream.NewReader([]byte{0, 0, 0, 0}))
	if err == nil {
		t.Fatal("expected bad magic error")
	}
}
