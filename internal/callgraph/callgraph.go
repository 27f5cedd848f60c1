// Package callgraph builds a whole-class-file method invocation graph: one
// node per declared method, one edge per resolved invoke* instruction.
// It plays the role unflutter's ARM64 BLR-edge callgraph.go plays for a
// binary, adapted to JVM invoke* opcodes and constant-pool resolution.
package callgraph

import (
	"fmt"

	"github.com/zboralski/lattice"

	"classfile/internal/bytecode"
	"classfile/internal/classfile"
	"classfile/internal/constant"
	"classfile/internal/pool"
)

// BuildCallGraph constructs a lattice.Graph from one class file's methods.
// Every declared method becomes a node, named "Owner.name descriptor" so
// overloads don't collide. Every invoke* instruction whose constant-pool
// operand resolves to a Methodref, InterfaceMethodref, or InvokeDynamic
// becomes an edge; unresolved operands (a missing or mistyped pool slot)
// are skipped rather than raised, since a best-effort call graph over
// possibly-malformed bytecode is still useful.
func BuildCallGraph(cf *classfile.ClassFile) *lattice.Graph {
	g := &lattice.Graph{}

	owner, err := cf.ThisClassName()
	if err != nil {
		owner = "?"
	}

	for _, m := range cf.Methods {
		caller := nodeName(owner, m.Name, m.Descriptor)
		g.Nodes = append(g.Nodes, caller)

		if m.Code == nil {
			continue
		}
		insns, err := bytecode.Decode(m.Code.Code)
		if err != nil {
			continue
		}
		for _, in := range insns {
			if !in.Opcode.IsInvoke() {
				continue
			}
			callee, ok := resolveCallee(cf.Pool, in.CPIndex)
			if !ok {
				continue
			}
			g.Edges = append(g.Edges, lattice.Edge{Caller: caller, Callee: callee})
		}
	}

	g.Dedup()
	return g
}

func nodeName(owner, name, descriptor string) string {
	return owner + "." + name + " " + descriptor
}

// resolveCallee dereferences a constant-pool index captured from an
// invoke* instruction's operand into a "Owner.name descriptor" callee
// label. invokedynamic has no owning class, so it is labeled by call-site
// name alone, prefixed to keep it visibly distinct from resolved calls.
func resolveCallee(p *pool.Pool, index int) (string, bool) {
	c, err := p.MustGet(index)
	if err != nil {
		return "", false
	}

	switch c.Tag {
	case constant.TagMethodref, constant.TagInterfaceMethodref:
		return resolveMethodRef(p, c)
	case constant.TagInvokeDynamic:
		nat, err := p.MustGet(c.NameAndTypeIndex)
		if err != nil {
			return "", false
		}
		name, err := p.GetUtf8(nat.NatNameIndex)
		if err != nil {
			return "", false
		}
		return "invokedynamic:" + name, true
	default:
		return "", false
	}
}

func resolveMethodRef(p *pool.Pool, ref constant.Constant) (string, bool) {
	classConst, err := p.MustGet(ref.ClassIndex)
	if err != nil {
		return "", false
	}
	className, err := p.GetUtf8(classConst.NameIndex)
	if err != nil {
		return "", false
	}

	nat, err := p.MustGet(ref.NameAndTypeIndex)
	if err != nil {
		return "", false
	}
	name, err := p.GetUtf8(nat.NatNameIndex)
	if err != nil {
		return "", false
	}
	desc, err := p.GetUtf8(nat.NatDescIndex)
	if err != nil {
		return "", false
	}

	return nodeName(className, name, desc), true
}

// NodeName returns the call-graph label for m, as used by BuildCallGraph.
// Exported for callers that want to find a method's own node in the
// resulting graph without recomputing the naming scheme.
func NodeName(m *classfile.Method) (string, error) {
	ref, err := m.Ref()
	if err != nil {
		return "", fmt.Errorf("callgraph: %w", err)
	}
	return nodeName(ref.OwnerClass, ref.Name, ref.Descriptor), nil
}
