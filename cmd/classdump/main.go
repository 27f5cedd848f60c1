// Command classdump is a thin, CLI-only consumer of the classfile core —
// per spec.md's own scoping, the CLI itself carries no domain logic.
package main

import (
	"fmt"
	"os"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "dump":
		err = cmdDump(os.Args[2:])
	case "verify":
		err = cmdVerify(os.Args[2:])
	case "cfg":
		err = cmdCFG(os.Args[2:])
	case "callgraph":
		err = cmdCallgraph(os.Args[2:])
	case "help", "-h", "--help":
		usage()
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", os.Args[1])
		usage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, `classdump — Java class-file constant-pool and control-flow inspector

Usage:
  classdump dump   --class <path>                  Print header, pool size, members
  classdump verify --class <path>                   Round-trip decode/encode check
  classdump cfg    --class <path> --method <name>   Render a method's CFG as DOT
  classdump callgraph --class <path>                Print the method invocation graph
`)
}
