package main

import (
	"flag"
	"fmt"

	"classfile/internal/callgraph"
)

// cmdCallgraph prints the class file's method invocation graph: one
// "node" line per graph node, then one "edge caller -> callee" line per
// edge, in the order the graph holds them.
func cmdCallgraph(args []string) error {
	fs := flag.NewFlagSet("callgraph", flag.ExitOnError)
	path := fs.String("class", "", "path to a .class file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *path == "" {
		return fmt.Errorf("--class is required")
	}

	cf, err := readClassFile(*path)
	if err != nil {
		return err
	}

	g := callgraph.BuildCallGraph(cf)
	for _, n := range g.Nodes {
		fmt.Printf("node  %s\n", n)
	}
	for _, e := range g.Edges {
		fmt.Printf("edge  %s -> %s\n", e.Caller, e.Callee)
	}
	return nil
}
