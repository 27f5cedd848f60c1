package pool

import "fmt"

// ErrMissingIndex reports a lookup against an empty pool slot when the
// caller asked to raise rather than receive the Index placeholder
// (spec.md §4.3 Lookup policy).
type ErrMissingIndex struct{ Index int }

func (e *ErrMissingIndex) Error() string {
	return fmt.Sprintf("pool: no constant at index %d", e.Index)
}

// ErrSlotOccupied reports an attempt to overwrite an already-resolved slot
// via Set (spec.md §7 SlotOccupied).
type ErrSlotOccupied struct{ Index int }

func (e *ErrSlotOccupied) Error() string {
	return fmt.Sprintf("pool: slot %d is already occupied", e.Index)
}

// ErrUnresolvableReferences reports that a full pass over the fix-up queue
// resolved nothing, which can only happen for a cyclic or otherwise
// malformed pool (spec.md §4.3 Progress invariant, §7 UnresolvableReferences).
type ErrUnresolvableReferences struct{ Pending int }

func (e *ErrUnresolvableReferences) Error() string {
	return fmt.Sprintf("pool: %d constant(s) could not be resolved: referenced entries are missing or form a cycle", e.Pending)
}
