package cfg

import "fmt"

// ErrIllegalInstruction is raised by the block API when it is asked to
// carry a control-flow-terminating instruction that belongs on a graph
// edge instead (spec.md §4.5).
type ErrIllegalInstruction struct {
	Reason string
}

func (e *ErrIllegalInstruction) Error() string {
	return fmt.Sprintf("cfg: illegal instruction: %s", e.Reason)
}

// ErrInvariant is raised by Graph.Check when a block or edge violates one
// of the block-level invariants spec.md §4.5 requires.
type ErrInvariant struct {
	Block  Label
	Reason string
}

func (e *ErrInvariant) Error() string {
	return fmt.Sprintf("cfg: invariant violated at block %q: %s", e.Block, e.Reason)
}
