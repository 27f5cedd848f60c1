// Package constant implements the closed taxonomy of class-file constant
// pool entries: their tags, widths, minimum class-file versions, and the
// decode/dereference/encode steps each variant defines. It has no notion of
// a pool — internal/pool composes these operations into the indexed,
// order-independent fix-up algorithm spec.md §4.3 describes.
package constant

import "fmt"

// Tag identifies a constant pool entry's variant. Values match the JVM
// specification exactly; 2, 13, and 14 are reserved and never assigned.
type Tag uint8

const (
	TagUtf8               Tag = 1
	TagInteger            Tag = 3
	TagFloat              Tag = 4
	TagLong               Tag = 5
	TagDouble             Tag = 6
	TagClass              Tag = 7
	TagString             Tag = 8
	TagFieldref           Tag = 9
	TagMethodref          Tag = 10
	TagInterfaceMethodref Tag = 11
	TagNameAndType        Tag = 12
	TagMethodHandle       Tag = 15
	TagMethodType         Tag = 16
	TagDynamic            Tag = 17
	TagInvokeDynamic      Tag = 18
	TagModule             Tag = 19
	TagPackage            Tag = 20
)

// variantInfo holds the per-tag metadata spec.md §3's table lists.
type variantInfo struct {
	name  string
	wide  bool
	since uint16 // minimum major class-file version
}

var variants = map[Tag]variantInfo{
	TagUtf8:               {"Utf8", false, 45},
	TagInteger:            {"Integer", false, 45},
	TagFloat:              {"Float", false, 45},
	TagLong:               {"Long", true, 45},
	TagDouble:             {"Double", true, 45},
	TagClass:              {"Class", false, 45},
	TagString:             {"String", false, 45},
	TagFieldref:           {"FieldRef", false, 45},
	TagMethodref:          {"MethodRef", false, 45},
	TagInterfaceMethodref: {"InterfaceMethodRef", false, 45},
	TagNameAndType:        {"NameAndType", false, 45},
	TagMethodHandle:       {"MethodHandle", false, 51},
	TagMethodType:         {"MethodType", false, 51},
	TagDynamic:            {"Dynamic", false, 55},
	TagInvokeDynamic:      {"InvokeDynamic", false, 51},
	TagModule:             {"Module", false, 53},
	TagPackage:            {"Package", false, 53},
}

// ErrUnknownTag reports a tag byte outside the recognized set (spec.md §7
// UnknownConstantTag).
type ErrUnknownTag struct{ Value byte }

func (e *ErrUnknownTag) Error() string {
	return fmt.Sprintf("constant: unknown constant tag %d", e.Value)
}

// ErrVersionTooLow reports a constant introduced after the file's declared
// major version (spec.md §7 VersionTooLow).
type ErrVersionTooLow struct {
	Variant string
	Since   uint16
	Actual  uint16
}

func (e *ErrVersionTooLow) Error() string {
	return fmt.Sprintf("constant: %s requires class file version %d.0, file declares %d.0", e.Variant, e.Since, e.Actual)
}

// Known reports whether tag is a recognized, non-reserved variant.
func Known(tag Tag) bool {
	_, ok := variants[tag]
	return ok
}

// Name returns the variant's name, e.g. "FieldRef".
func (t Tag) Name() string {
	if v, ok := variants[t]; ok {
		return v.name
	}
	return fmt.Sprintf("Tag(%d)", t)
}

// Wide reports whether the variant occupies two pool slots (Long, Double).
func (t Tag) Wide() bool {
	return variants[t].wide
}

// Width returns 2 for a wide variant, 1 otherwise.
func (t Tag) Width() int {
	if t.Wide() {
		return 2
	}
	return 1
}

// Since returns the minimum major class-file version the variant may appear in.
func (t Tag) Since() uint16 {
	return variants[t].since
}

// CheckVersion returns ErrVersionTooLow if tag may not appear in a file
// declaring majorVersion.
func (t Tag) CheckVersion(majorVersion uint16) error {
	if since := t.Since(); majorVersion < since {
		return &ErrVersionTooLow{Variant: t.Name(), Since: since, Actual: majorVersion}
	}
	return nil
}

// IsPrimitive reports whether the variant decodes to a fully resolved value
// with no pool cross-references (Utf8, Integer, Float, Long, Double).
func (t Tag) IsPrimitive() bool {
	switch t {
	case TagUtf8, TagInteger, TagFloat, TagLong, TagDouble:
		return true
	default:
		return false
	}
}
