package classfile

import (
	"classfile/internal/bytestream"
	"classfile/internal/descriptor"
	"classfile/internal/pool"
)

// Field is a field_info entry, generalized with a back-reference to its
// owning class and a parsed descriptor (spec.md §3 Field/Method).
type Field struct {
	Class       *ClassFile
	AccessFlags AccessFlags
	Name        string
	Descriptor  string
	Type        descriptor.Type
	Attributes  []RawAttribute

	ref *MemberRef
}

// MemberRef is the (owner_class, name, descriptor_parts) tuple spec.md §3
// requires Field/Method to expose for use inside instructions.
type MemberRef struct {
	OwnerClass string
	Name       string
	Descriptor string
}

// Ref returns the field's reference tuple, computed once and memoized
// (kirjava's members.py builds the equivalent lazily; see SPEC_FULL.md §7).
func (f *Field) Ref() (*MemberRef, error) {
	if f.ref != nil {
		return f.ref, nil
	}
	owner, err := f.Class.ThisClassName()
	if err != nil {
		return nil, err
	}
	f.ref = &MemberRef{OwnerClass: owner, Name: f.Name, Descriptor: f.Descriptor}
	return f.ref, nil
}

// Method is a method_info entry. Argument/return types are split out from
// the single field Type a plain Field carries.
type Method struct {
	Class       *ClassFile
	AccessFlags AccessFlags
	Name        string
	Descriptor  string
	ArgTypes    []descriptor.Type
	ReturnType  descriptor.Type
	Attributes  []RawAttribute

	// Code is non-nil when one of Attributes is named "Code"; it is a
	// convenience view over that attribute's fixed-layout prefix, not the
	// attribute's own storage (Write always re-emits Attributes verbatim).
	Code *CodeInfo

	ref *MemberRef
}

// Ref returns the method's reference tuple, computed once and memoized.
func (m *Method) Ref() (*MemberRef, error) {
	if m.ref != nil {
		return m.ref, nil
	}
	owner, err := m.Class.ThisClassName()
	if err != nil {
		return nil, err
	}
	m.ref = &MemberRef{OwnerClass: owner, Name: m.Name, Descriptor: m.Descriptor}
	return m.ref, nil
}

func readFields(p *pool.Pool, r *bytestream.Reader) ([]*Field, error) {
	count, err := r.ReadU16()
	if err != nil {
		return nil, err
	}
	fields := make([]*Field, 0, count)
	for i := 0; i < int(count); i++ {
		access, name, desc, attrs, err := readMemberHeader(p, r)
		if err != nil {
			return nil, err
		}
		ty, err := descriptor.ParseField(desc)
		if err != nil {
			return nil, err
		}
		fields = append(fields, &Field{
			AccessFlags: AccessFlags(access),
			Name:        name,
			Descriptor:  desc,
			Type:        ty,
			Attributes:  attrs,
		})
	}
	return fields, nil
}

func readMethods(p *pool.Pool, r *bytestream.Reader) ([]*Method, error) {
	count, err := r.ReadU16()
	if err != nil {
		return nil, err
	}
	methods := make([]*Method, 0, count)
	for i := 0; i < int(count); i++ {
		access, name, desc, attrs, err := readMemberHeader(p, r)
		if err != nil {
			return nil, err
		}
		args, ret, err := descriptor.ParseMethod(desc)
		if err != nil {
			return nil, err
		}
		methods = append(methods, &Method{
			AccessFlags: AccessFlags(access),
			Name:        name,
			Descriptor:  desc,
			ArgTypes:    args,
			ReturnType:  ret,
			Attributes:  attrs,
		})
	}
	return methods, nil
}

func readMemberHeader(p *pool.Pool, r *bytestream.Reader) (access uint16, name, desc string, attrs []RawAttribute, err error) {
	access, err = r.ReadU16()
	if err != nil {
		return
	}
	nameIdx, err := r.ReadU16()
	if err != nil {
		return
	}
	name, err = p.GetUtf8(int(nameIdx))
	if err != nil {
		return
	}
	descIdx, err := r.ReadU16()
	if err != nil {
		return
	}
	desc, err = p.GetUtf8(int(descIdx))
	if err != nil {
		return
	}
	attrs, err = readAttributes(p, r)
	return
}

func writeMembers(p *pool.Pool, w *bytestream.Writer, fields []*Field, methods []*Method) {
	w.WriteU16(uint16(len(fields)))
	for _, f := range fields {
		w.WriteU16(uint16(f.AccessFlags))
		w.WriteU16(uint16(p.AddUtf8(f.Name)))
		w.WriteU16(uint16(p.AddUtf8(f.Descriptor)))
		writeAttributes(p, w, f.Attributes)
	}

	w.WriteU16(uint16(len(methods)))
	for _, m := range methods {
		w.WriteU16(uint16(m.AccessFlags))
		w.WriteU16(uint16(p.AddUtf8(m.Name)))
		w.WriteU16(uint16(p.AddUtf8(m.Descriptor)))
		writeAttributes(p, w, m.Attributes)
	}
}
