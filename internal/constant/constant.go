package constant

// Constant is a single constant-pool entry in resolved form. It is a
// closed tagged variant, not a class hierarchy (spec.md §9 Design Note):
// exactly one group of fields is meaningful per Tag, selected by the
// per-tag constructors below rather than by type assertion.
//
// Reference fields hold pool-local indices. Because every constant a
// reference points at is itself deduplicated before being stored in the
// owning pool, two structurally-equal constants always carry identical
// indices for their referents — so Constant's built-in struct equality
// (the backward map's key) already implements "structural equality on the
// resolved form" (spec.md §3) without needing a deep-equality override.
type Constant struct {
	Tag Tag

	// Primitive payload.
	Utf8    string
	Int32   int32
	Float32 float32
	Int64   int64
	Float64 float64

	// Class, Module, Package: index of the name Utf8.
	NameIndex int

	// FieldRef, MethodRef, InterfaceMethodRef: index of the owning Class.
	ClassIndex int
	// FieldRef, MethodRef, InterfaceMethodRef, Dynamic, InvokeDynamic:
	// index of the NameAndType.
	NameAndTypeIndex int

	// String: index of the backing Utf8.
	StringIndex int

	// NameAndType: indices of the name and descriptor Utf8s.
	NatNameIndex int
	NatDescIndex int

	// MethodType: index of the descriptor Utf8.
	DescriptorIndex int

	// MethodHandle: 1..9 classifier and index of the Field/Method/
	// InterfaceMethodRef referent. The core does not enforce that the
	// referent's kind matches RefKind's get/put/invoke family — spec.md §9
	// preserves this as an intentional, documented leniency.
	RefKind  uint8
	RefIndex int

	// Dynamic, InvokeDynamic: index into the class file's bootstrap
	// methods attribute (opaque to this package; see internal/classfile).
	BootstrapAttrIndex int
}

// Index represents an unbound pool position. It is never serialized
// (spec.md §3). Pool.Get does not return it: Pool.Get reports an empty
// slot with a false result, from which a caller may form an Index.
type Index int

func NewUtf8(s string) Constant            { return Constant{Tag: TagUtf8, Utf8: s} }
func NewInteger(v int32) Constant          { return Constant{Tag: TagInteger, Int32: v} }
func NewFloat(v float32) Constant          { return Constant{Tag: TagFloat, Float32: v} }
func NewLong(v int64) Constant             { return Constant{Tag: TagLong, Int64: v} }
func NewDouble(v float64) Constant         { return Constant{Tag: TagDouble, Float64: v} }
func NewClass(nameIndex int) Constant      { return Constant{Tag: TagClass, NameIndex: nameIndex} }
func NewString(stringIndex int) Constant   { return Constant{Tag: TagString, StringIndex: stringIndex} }
func NewModule(nameIndex int) Constant     { return Constant{Tag: TagModule, NameIndex: nameIndex} }
func NewPackage(nameIndex int) Constant    { return Constant{Tag: TagPackage, NameIndex: nameIndex} }

func NewNameAndType(nameIndex, descIndex int) Constant {
	return Constant{Tag: TagNameAndType, NatNameIndex: nameIndex, NatDescIndex: descIndex}
}

func newRef(tag Tag, classIndex, natIndex int) Constant {
	return Constant{Tag: tag, ClassIndex: classIndex, NameAndTypeIndex: natIndex}
}

func NewFieldRef(classIndex, natIndex int) Constant {
	return newRef(TagFieldref, classIndex, natIndex)
}

func NewMethodRef(classIndex, natIndex int) Constant {
	return newRef(TagMethodref, classIndex, natIndex)
}

func NewInterfaceMethodRef(classIndex, natIndex int) Constant {
	return newRef(TagInterfaceMethodref, classIndex, natIndex)
}

func NewMethodHandle(refKind uint8, refIndex int) Constant {
	return Constant{Tag: TagMethodHandle, RefKind: refKind, RefIndex: refIndex}
}

func NewMethodType(descriptorIndex int) Constant {
	return Constant{Tag: TagMethodType, DescriptorIndex: descriptorIndex}
}

func newDynamic(tag Tag, bootstrapAttrIndex, natIndex int) Constant {
	return Constant{Tag: tag, BootstrapAttrIndex: bootstrapAttrIndex, NameAndTypeIndex: natIndex}
}

func NewDynamic(bootstrapAttrIndex, natIndex int) Constant {
	return newDynamic(TagDynamic, bootstrapAttrIndex, natIndex)
}

func NewInvokeDynamic(bootstrapAttrIndex, natIndex int) Constant {
	return newDynamic(TagInvokeDynamic, bootstrapAttrIndex, natIndex)
}

// referents enumerates the (field, referentTag) pairs a constant's kind
// requires, used by Dereference.
func (c Constant) referents() []struct {
	index int
	want  Tag
} {
	switch c.Tag {
	case TagClass, TagModule, TagPackage:
		return []struct {
			index int
			want  Tag
		}{{c.NameIndex, TagUtf8}}
	case TagString:
		return []struct {
			index int
			want  Tag
		}{{c.StringIndex, TagUtf8}}
	case TagNameAndType:
		return []struct {
			index int
			want  Tag
		}{{c.NatNameIndex, TagUtf8}, {c.NatDescIndex, TagUtf8}}
	case TagFieldref, TagMethodref, TagInterfaceMethodref:
		return []struct {
			index int
			want  Tag
		}{{c.ClassIndex, TagClass}, {c.NameAndTypeIndex, TagNameAndType}}
	case TagMethodType:
		return []struct {
			index int
			want  Tag
		}{{c.DescriptorIndex, TagUtf8}}
	case TagDynamic, TagInvokeDynamic:
		return []struct {
			index int
			want  Tag
		}{{c.NameAndTypeIndex, TagNameAndType}}
	case TagMethodHandle:
		// Leniency per spec.md §9: any of the three ref-kind variants is
		// accepted regardless of RefKind; the union is checked specially
		// in Dereference rather than through this single-want list.
		return nil
	default:
		return nil
	}
}
