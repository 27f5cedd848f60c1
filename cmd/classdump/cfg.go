package main

import (
	"flag"
	"fmt"
	"strings"

	"classfile/internal/cfg"
)

// cmdCFG renders one method's control-flow graph as DOT, in the same
// node/edge-label shape render.CFGDOT uses for disassembled functions:
// one box per block, T/F-labeled conditional edges, dashed exception
// edges layered on top.
func cmdCFG(args []string) error {
	fs := flag.NewFlagSet("cfg", flag.ExitOnError)
	path := fs.String("class", "", "path to a .class file")
	method := fs.String("method", "", "method name to render")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *path == "" || *method == "" {
		return fmt.Errorf("--class and --method are required")
	}

	cf, err := readClassFile(*path)
	if err != nil {
		return err
	}

	for _, m := range cf.Methods {
		if m.Name != *method {
			continue
		}
		if m.Code == nil {
			return fmt.Errorf("method %s has no Code attribute", *method)
		}
		if m.Code.Graph == nil {
			return fmt.Errorf("method %s's bytecode could not be decoded into a graph", *method)
		}
		fmt.Print(cfgDOT(m.Code.Graph, *method))
		return nil
	}
	return fmt.Errorf("no method named %s", *method)
}

func cfgDOT(g *cfg.Graph, name string) string {
	var b strings.Builder
	b.WriteString("digraph cfg {\n")
	b.WriteString("  rankdir=TB;\n")
	fmt.Fprintf(&b, "  label=%q;\n  labelloc=t;\n", name)
	b.WriteString("  node [shape=rect, fontname=\"Courier,monospace\", fontsize=10];\n\n")

	ids := make(map[*cfg.Block]string, len(g.Blocks()))
	for i, blk := range g.Blocks() {
		ids[blk] = fmt.Sprintf("bb%d", i)
	}

	for _, blk := range g.Blocks() {
		label := string(blk.Label())
		if blk == g.Entry {
			label = "entry"
		} else if blk == g.Return {
			label = "return"
		} else if blk == g.Rethrow {
			label = "rethrow"
		}
		attrs := ""
		if blk == g.Entry || blk == g.Return || blk == g.Rethrow {
			attrs = ", style=filled, fillcolor=lightgray"
		}
		fmt.Fprintf(&b, "  %s [label=%q%s];\n", ids[blk], label, attrs)
	}
	b.WriteByte('\n')

	for _, blk := range g.Blocks() {
		for _, e := range g.OutEdges(blk) {
			from, to := ids[e.From], ids[e.To]
			switch e.Kind {
			case cfg.EdgeCondTrue:
				fmt.Fprintf(&b, "  %s -> %s [color=darkgreen, label=\"T\"];\n", from, to)
			case cfg.EdgeCondFalse:
				fmt.Fprintf(&b, "  %s -> %s [color=firebrick, label=\"F\"];\n", from, to)
			case cfg.EdgeSwitchCase:
				label := fmt.Sprintf("%d", e.CaseValue)
				if e.IsDefaultCase {
					label = "default"
				}
				fmt.Fprintf(&b, "  %s -> %s [label=%q];\n", from, to, label)
			case cfg.EdgeException:
				class := e.ExceptionClass
				if class == "" {
					class = "any"
				}
				fmt.Fprintf(&b, "  %s -> %s [style=dashed, color=orange, label=%q];\n", from, to, class)
			default:
				fmt.Fprintf(&b, "  %s -> %s;\n", from, to)
			}
		}
	}

	b.WriteString("}\n")
	return b.String()
}
