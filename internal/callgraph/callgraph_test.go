package callgraph

import (
	"testing"

	"classfile/internal/bytestream"
	"classfile/internal/classfile"
	"classfile/internal/constant"
	"classfile/internal/pool"
)

// buildWithInvoke assembles a one-method class file "Foo" whose sole
// method calls "java/lang/Object.<init>()V" via invokevirtual, followed
// by a return. It mirrors internal/classfile's own hand-assembly test
// style since both packages need a real Code attribute to exercise.
func buildWithInvoke(t *testing.T) []byte {
	t.Helper()

	p := pool.New()
	fooClass := p.AddClass("Foo")
	objClass := p.AddClass("java/lang/Object")
	initNat := p.AddNameAndType("<init>", "()V")
	initRef := p.Add(constant.NewMethodRef(objClass, initNat))
	methodName := p.AddUtf8("run")
	methodDesc := p.AddUtf8("()V")
	codeAttrName := p.AddUtf8("Code")

	code := bytestream.NewWriter()
	code.WriteU16(2) // max_stack
	code.WriteU16(1) // max_locals
	code.WriteU32(4) // code_length
	code.WriteBytes([]byte{0xB6, byte(initRef >> 8), byte(initRef), 0xB1})
	code.WriteU16(0) // exception_table_length
	code.WriteU16(0) // Code's own attributes_count

	w := bytestream.NewWriter()
	w.WriteU32(0xCAFEBABE)
	w.WriteU16(0)
	w.WriteU16(52)
	p.Write(w)
	w.WriteU16(1) // access flags: public
	w.WriteU16(uint16(fooClass))
	w.WriteU16(uint16(objClass))
	w.WriteU16(0) // interfaces
	w.WriteU16(0) // fields
	w.WriteU16(1) // methods_count
	w.WriteU16(1) // access flags: public
	w.WriteU16(uint16(methodName))
	w.WriteU16(uint16(methodDesc))
	w.WriteU16(1) // method attributes_count
	w.WriteU16(uint16(codeAttrName))
	w.WriteU32(uint32(len(code.Bytes())))
	w.WriteBytes(code.Bytes())
	w.WriteU16(0) // class attributes

	return w.Bytes()
}

func TestBuildCallGraphResolvesInvokevirtual(t *testing.T) {
	data := buildWithInvoke(t)
	cf, err := classfile.Read(bytestream.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}

	g := BuildCallGraph(cf)

	caller, err := NodeName(cf.Methods[0])
	if err != nil {
		t.Fatal(err)
	}
	wantCallee := "java/lang/Object.<init> ()V"

	found := false
	for _, e := range g.Edges {
		if e.Caller == caller && e.Callee == wantCallee {
			found = true
		}
	}
	if !found {
		t.Fatalf("edges = %+v, want edge %s -> %s", g.Edges, caller, wantCallee)
	}

	nodeFound := false
	for _, n := range g.Nodes {
		if n == caller {
			nodeFound = true
		}
	}
	if !nodeFound {
		t.Fatalf("nodes = %+v, want %s", g.Nodes, caller)
	}
}
