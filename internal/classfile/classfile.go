// Package classfile owns the class-file skeleton that anchors a constant
// pool: version, access flags, this/super class, interfaces, fields,
// methods, and attributes. It orchestrates whole-file read/write, but the
// attribute ecosystem beyond the Code attribute's exception table stays
// the opaque byte blob spec.md §1 scopes it to.
package classfile

import (
	"classfile/internal/bytestream"
	"classfile/internal/constant"
	"classfile/internal/pool"
)

const magic = 0xCAFEBABE

// RawAttribute is an undecoded attribute: a name (resolved from the
// owning class's pool) and its opaque payload bytes.
type RawAttribute struct {
	Name string
	Data []byte
}

// ClassFile is the parsed skeleton of a .class file.
type ClassFile struct {
	MinorVersion uint16
	MajorVersion uint16

	AccessFlags AccessFlags

	// ThisClass and SuperClass are pool-resolved Class constants. SuperClass
	// is nil for java/lang/Object, whose class file declares super_class == 0.
	ThisClass  constant.Constant
	SuperClass *constant.Constant

	Interfaces []constant.Constant

	Fields  []*Field
	Methods []*Method

	Attributes []RawAttribute

	Pool *pool.Pool
}

// ThisClassName returns the internal name of the class this file declares.
func (cf *ClassFile) ThisClassName() (string, error) {
	return cf.Pool.GetUtf8(cf.ThisClass.NameIndex)
}

// SuperClassName returns the internal name of the superclass, or "" for
// java/lang/Object.
func (cf *ClassFile) SuperClassName() (string, error) {
	if cf.SuperClass == nil {
		return "", nil
	}
	return cf.Pool.GetUtf8(cf.SuperClass.NameIndex)
}

// Read decodes a complete class file from r.
func Read(r *bytestream.Reader) (*ClassFile, error) {
	got, err := r.ReadU32()
	if err != nil {
		return nil, err
	}
	if got != magic {
		return nil, &ErrBadMagic{Got: got}
	}

	minor, err := r.ReadU16()
	if err != nil {
		return nil, err
	}
	major, err := r.ReadU16()
	if err != nil {
		return nil, err
	}

	p, err := pool.Read(major, r)
	if err != nil {
		return nil, err
	}

	accessRaw, err := r.ReadU16()
	if err != nil {
		return nil, err
	}

	thisIdx, err := r.ReadU16()
	if err != nil {
		return nil, err
	}
	thisClass, err := resolveClass(p, int(thisIdx))
	if err != nil {
		return nil, &ErrMissingThisClass{Index: int(thisIdx)}
	}

	superIdx, err := r.ReadU16()
	if err != nil {
		return nil, err
	}
	var superClass *constant.Constant
	if superIdx != 0 {
		sc, err := resolveClass(p, int(superIdx))
		if err != nil {
			return nil, err
		}
		superClass = &sc
	}

	interfaceCount, err := r.ReadU16()
	if err != nil {
		return nil, err
	}
	interfaces := make([]constant.Constant, 0, interfaceCount)
	for i := 0; i < int(interfaceCount); i++ {
		idx, err := r.ReadU16()
		if err != nil {
			return nil, err
		}
		c, err := resolveClass(p, int(idx))
		if err != nil {
			return nil, err
		}
		interfaces = append(interfaces, c)
	}

	fields, err := readFields(p, r)
	if err != nil {
		return nil, err
	}
	methods, err := readMethods(p, r)
	if err != nil {
		return nil, err
	}

	attrs, err := readAttributes(p, r)
	if err != nil {
		return nil, err
	}

	cf := &ClassFile{
		MinorVersion: minor,
		MajorVersion: major,
		AccessFlags:  AccessFlags(accessRaw),
		ThisClass:    thisClass,
		SuperClass:   superClass,
		Interfaces:   interfaces,
		Fields:       fields,
		Methods:      methods,
		Attributes:   attrs,
		Pool:         p,
	}
	for _, f := range fields {
		f.Class = cf
	}
	for _, m := range methods {
		m.Class = cf
		if err := m.parseCode(); err != nil {
			return nil, err
		}
	}

	return cf, nil
}

func resolveClass(p *pool.Pool, index int) (constant.Constant, error) {
	c, err := p.MustGet(index)
	if err != nil {
		return constant.Constant{}, err
	}
	if c.Tag != constant.TagClass {
		return constant.Constant{}, &constant.ErrKindMismatch{AtIndex: index, Expected: constant.TagClass, Actual: c.Tag}
	}
	return c, nil
}

// Write serializes the class file. Each of ThisClass, SuperClass,
// Interfaces, every field/method name and descriptor, and every
// attribute name is materialized via Pool.Add/AddUtf8 before the pool
// itself is serialized (spec.md §4.4), ensuring the pool contains
// exactly what the serialized bytes reference. This requires writing
// the this_class/super_class/interfaces/members/attributes body into a
// buffer first (which performs all the Add/AddUtf8 calls as a side
// effect), then serializing the now-complete pool, then appending the
// buffered body — Pool.Write patches constant_pool_count from the
// pool's final size, so it must run last among the two.
func (cf *ClassFile) Write(w *bytestream.Writer) {
	body := bytestream.NewWriter()

	body.WriteU16(uint16(cf.AccessFlags))
	body.WriteU16(uint16(cf.Pool.Add(cf.ThisClass)))
	if cf.SuperClass != nil {
		body.WriteU16(uint16(cf.Pool.Add(*cf.SuperClass)))
	} else {
		body.WriteU16(0)
	}

	body.WriteU16(uint16(len(cf.Interfaces)))
	for _, iface := range cf.Interfaces {
		body.WriteU16(uint16(cf.Pool.Add(iface)))
	}

	writeMembers(cf.Pool, body, cf.Fields, cf.Methods)

	writeAttributes(cf.Pool, body, cf.Attributes)

	w.WriteU32(magic)
	w.WriteU16(cf.MinorVersion)
	w.WriteU16(cf.MajorVersion)

	cf.Pool.Write(w)

	w.WriteBytes(body.Bytes())
}

func readAttributes(p *pool.Pool, r *bytestream.Reader) ([]RawAttribute, error) {
	count, err := r.ReadU16()
	if err != nil {
		return nil, err
	}
	attrs := make([]RawAttribute, 0, count)
	for i := 0; i < int(count); i++ {
		nameIdx, err := r.ReadU16()
		if err != nil {
			return nil, err
		}
		name, err := p.GetUtf8(int(nameIdx))
		if err != nil {
			return nil, err
		}
		length, err := r.ReadU32()
		if err != nil {
			return nil, err
		}
		data, err := r.ReadBytes(int(length))
		if err != nil {
			return nil, err
		}
		attrs = append(attrs, RawAttribute{Name: name, Data: data})
	}
	return attrs, nil
}

func writeAttributes(p *pool.Pool, w *bytestream.Writer, attrs []RawAttribute) {
	w.WriteU16(uint16(len(attrs)))
	for _, a := range attrs {
		w.WriteU16(uint16(p.AddUtf8(a.Name)))
		w.WriteU32(uint32(len(a.Data)))
		w.WriteBytes(a.Data)
	}
}
