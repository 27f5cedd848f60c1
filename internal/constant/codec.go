package constant

import (
	"fmt"

	"classfile/internal/bytestream"
)

// ErrKindMismatch reports a cross-reference that resolved to the wrong
// variant (spec.md §7 KindMismatch).
type ErrKindMismatch struct {
	AtIndex  int
	Expected Tag
	Actual   Tag
}

func (e *ErrKindMismatch) Error() string {
	return fmt.Sprintf("constant: index %d: expected %s, got %s", e.AtIndex, e.Expected.Name(), e.Actual.Name())
}

// Read decodes one constant's body (the tag byte itself has already been
// consumed by the caller) given the file's declared major version. Primitive
// variants (Utf8, Integer, Float, Long, Double) come back fully resolved;
// reference-bearing variants come back holding the raw indices read from
// the stream — they still require Dereference before they may be trusted.
func Read(tag Tag, r *bytestream.Reader, majorVersion uint16) (Constant, error) {
	if !Known(tag) {
		return Constant{}, &ErrUnknownTag{Value: byte(tag)}
	}
	if err := tag.CheckVersion(majorVersion); err != nil {
		return Constant{}, err
	}

	switch tag {
	case TagUtf8:
		s, err := r.ReadMUTF8()
		if err != nil {
			return Constant{}, err
		}
		return NewUtf8(s), nil
	case TagInteger:
		v, err := r.ReadI32()
		if err != nil {
			return Constant{}, err
		}
		return NewInteger(v), nil
	case TagFloat:
		v, err := r.ReadF32()
		if err != nil {
			return Constant{}, err
		}
		return NewFloat(v), nil
	case TagLong:
		v, err := r.ReadI64()
		if err != nil {
			return Constant{}, err
		}
		return NewLong(v), nil
	case TagDouble:
		v, err := r.ReadF64()
		if err != nil {
			return Constant{}, err
		}
		return NewDouble(v), nil
	case TagClass:
		idx, err := readU16Index(r)
		return NewClass(idx), err
	case TagModule:
		idx, err := readU16Index(r)
		return NewModule(idx), err
	case TagPackage:
		idx, err := readU16Index(r)
		return NewPackage(idx), err
	case TagString:
		idx, err := readU16Index(r)
		return NewString(idx), err
	case TagMethodType:
		idx, err := readU16Index(r)
		return NewMethodType(idx), err
	case TagNameAndType:
		name, err := readU16Index(r)
		if err != nil {
			return Constant{}, err
		}
		desc, err := readU16Index(r)
		if err != nil {
			return Constant{}, err
		}
		return NewNameAndType(name, desc), nil
	case TagFieldref, TagMethodref, TagInterfaceMethodref:
		classIdx, err := readU16Index(r)
		if err != nil {
			return Constant{}, err
		}
		natIdx, err := readU16Index(r)
		if err != nil {
			return Constant{}, err
		}
		return newRef(tag, classIdx, natIdx), nil
	case TagDynamic, TagInvokeDynamic:
		bootstrap, err := readU16Index(r)
		if err != nil {
			return Constant{}, err
		}
		natIdx, err := readU16Index(r)
		if err != nil {
			return Constant{}, err
		}
		return newDynamic(tag, bootstrap, natIdx), nil
	case TagMethodHandle:
		kind, err := r.ReadU8()
		if err != nil {
			return Constant{}, err
		}
		refIdx, err := readU16Index(r)
		if err != nil {
			return Constant{}, err
		}
		return NewMethodHandle(kind, refIdx), nil
	}
	return Constant{}, &ErrUnknownTag{Value: byte(tag)}
}

func readU16Index(r *bytestream.Reader) (int, error) {
	v, err := r.ReadU16()
	return int(v), err
}

// Lookup resolves a pool index to its constant, reporting whether the slot
// is occupied. It is satisfied by ConstantPool's forward map.
type Lookup func(index int) (Constant, bool)

// Dereference validates c's referents against lookup. It returns
// (true, nil) once every referent is present and of the expected kind,
// (false, nil) if at least one referent is not yet present (Pending, per
// spec.md §4.2), or a non-nil ErrKindMismatch if a referent is present but
// of the wrong kind — a structural error of the input, not a pending state.
func Dereference(c Constant, lookup Lookup) (bool, error) {
	if c.Tag == TagMethodHandle {
		ref, ok := lookup(c.RefIndex)
		if !ok {
			return false, nil
		}
		switch ref.Tag {
		case TagFieldref, TagMethodref, TagInterfaceMethodref:
			return true, nil
		default:
			return false, &ErrKindMismatch{AtIndex: c.RefIndex, Expected: TagMethodref, Actual: ref.Tag}
		}
	}

	for _, want := range c.referents() {
		ref, ok := lookup(want.index)
		if !ok {
			return false, nil
		}
		if ref.Tag != want.want {
			return false, &ErrKindMismatch{AtIndex: want.index, Expected: want.want, Actual: ref.Tag}
		}
	}
	return true, nil
}

// Write serializes c's body (not its tag byte — the caller, which owns the
// pool-wide walk, writes that) into w. Because every reference field already
// holds a pool-local index valid within the owning pool (spec.md §9: the
// backward map's key is the resolved value, so canonical cross-references
// never need re-resolving at write time), Write never touches a pool.
func Write(c Constant, w *bytestream.Writer) {
	switch c.Tag {
	case TagUtf8:
		w.WriteMUTF8(c.Utf8)
	case TagInteger:
		w.WriteI32(c.Int32)
	case TagFloat:
		w.WriteF32(c.Float32)
	case TagLong:
		w.WriteI64(c.Int64)
	case TagDouble:
		w.WriteF64(c.Float64)
	case TagClass:
		w.WriteU16(uint16(c.NameIndex))
	case TagModule:
		w.WriteU16(uint16(c.NameIndex))
	case TagPackage:
		w.WriteU16(uint16(c.NameIndex))
	case TagString:
		w.WriteU16(uint16(c.StringIndex))
	case TagMethodType:
		w.WriteU16(uint16(c.DescriptorIndex))
	case TagNameAndType:
		w.WriteU16(uint16(c.NatNameIndex))
		w.WriteU16(uint16(c.NatDescIndex))
	case TagFieldref, TagMethodref, TagInterfaceMethodref:
		w.WriteU16(uint16(c.ClassIndex))
		w.WriteU16(uint16(c.NameAndTypeIndex))
	case TagDynamic, TagInvokeDynamic:
		w.WriteU16(uint16(c.BootstrapAttrIndex))
		w.WriteU16(uint16(c.NameAndTypeIndex))
	case TagMethodHandle:
		w.WriteU8(c.RefKind)
		w.WriteU16(uint16(c.RefIndex))
	}
}
