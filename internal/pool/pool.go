// Package pool implements the constant pool: an indexed, bidirectional
// container of constant.Constant values supporting read, write,
// lookup-by-index, lookup-by-value (deduplication), and append. It composes
// the decode/dereference/encode operations internal/constant defines into
// the order-independent fix-up algorithm spec.md §4.3 specifies.
package pool

import (
	"classfile/internal/bytestream"
	"classfile/internal/constant"
)

// Pool is the indexed, 1-based constant table anchoring a class file.
// Index 0 is always reserved; it is never present in forward.
type Pool struct {
	forward  map[int]constant.Constant
	backward map[constant.Constant]int
	next     int
}

// New creates an empty pool with the first usable index at 1.
func New() *Pool {
	return &Pool{
		forward:  make(map[int]constant.Constant),
		backward: make(map[constant.Constant]int),
		next:     1,
	}
}

// NextIndex returns the index the next Add would assign absent deduplication.
func (p *Pool) NextIndex() int { return p.next }

// Len reports the number of occupied slots (the unoccupied second half of a
// wide entry is not counted).
func (p *Pool) Len() int { return len(p.forward) }

// Clear resets the pool to empty, as if newly constructed.
func (p *Pool) Clear() {
	p.forward = make(map[int]constant.Constant)
	p.backward = make(map[constant.Constant]int)
	p.next = 1
}

// Get returns the constant at index and whether the slot is occupied. It
// never raises — callers that want a hard failure on a missing index use
// MustGet; callers that want the spec.md §3 Index(n) placeholder construct
// it themselves from the false result.
func (p *Pool) Get(index int) (constant.Constant, bool) {
	c, ok := p.forward[index]
	return c, ok
}

// MustGet returns the constant at index or ErrMissingIndex if the slot is empty.
func (p *Pool) MustGet(index int) (constant.Constant, error) {
	c, ok := p.Get(index)
	if !ok {
		return constant.Constant{}, &ErrMissingIndex{Index: index}
	}
	return c, nil
}

// GetUtf8 returns the string payload of the Utf8 constant at index, failing
// with ErrMissingIndex or constant.ErrKindMismatch as appropriate.
func (p *Pool) GetUtf8(index int) (string, error) {
	c, err := p.MustGet(index)
	if err != nil {
		return "", err
	}
	if c.Tag != constant.TagUtf8 {
		return "", &constant.ErrKindMismatch{AtIndex: index, Expected: constant.TagUtf8, Actual: c.Tag}
	}
	return c.Utf8, nil
}

// ContainsIndex reports whether index names an occupied slot.
func (p *Pool) ContainsIndex(index int) bool {
	_, ok := p.forward[index]
	return ok
}

// ContainsValue reports whether c is already present under some index.
func (p *Pool) ContainsValue(c constant.Constant) bool {
	_, ok := p.backward[c]
	return ok
}

func (p *Pool) lookup(index int) (constant.Constant, bool) { return p.Get(index) }

func (p *Pool) install(index int, c constant.Constant) {
	p.forward[index] = c
	if _, exists := p.backward[c]; !exists {
		p.backward[c] = index
	}
}

// Add returns the existing index for c if an equal constant is already
// present (structural equality on the resolved form — spec.md §3
// Deduplication); otherwise it assigns NextIndex(), advances by the
// variant's width, and records both directions.
func (p *Pool) Add(c constant.Constant) int {
	if idx, ok := p.backward[c]; ok {
		return idx
	}
	idx := p.next
	p.next += c.Tag.Width()
	p.install(idx, c)
	return idx
}

// AddIndex returns idx unchanged without mutating the pool — the discipline
// write paths use for a constant they know the index of but do not own
// (spec.md §4.3 add(Index(n))).
func (p *Pool) AddIndex(idx int) int { return idx }

// AddUtf8 interns s as a Utf8 constant.
func (p *Pool) AddUtf8(s string) int { return p.Add(constant.NewUtf8(s)) }

// AddClass interns name as a Utf8 and wraps it in a Class constant.
func (p *Pool) AddClass(name string) int { return p.Add(constant.NewClass(p.AddUtf8(name))) }

// AddString interns s as a Utf8 and wraps it in a String constant.
func (p *Pool) AddString(s string) int { return p.Add(constant.NewString(p.AddUtf8(s))) }

// AddNameAndType interns name and desc as Utf8s and wraps them in a NameAndType.
func (p *Pool) AddNameAndType(name, desc string) int {
	return p.Add(constant.NewNameAndType(p.AddUtf8(name), p.AddUtf8(desc)))
}

// Set materializes a previously unresolved slot. It never rebinds an
// occupied slot (spec.md §4.3 __setitem__): doing so fails with
// ErrSlotOccupied rather than overwriting.
func (p *Pool) Set(index int, c constant.Constant) error {
	if _, occupied := p.forward[index]; occupied {
		return &ErrSlotOccupied{Index: index}
	}
	p.install(index, c)
	if end := index + c.Tag.Width(); end > p.next {
		p.next = end
	}
	return nil
}

type pendingEntry struct {
	offset int
	raw    constant.Constant
}

// Read decodes a constant pool from r. The stream must be positioned at
// the pool's u2 count field; Read consumes that count and exactly the
// pool's entries (count-1 logical slots, with Long/Double each consuming two).
func Read(majorVersion uint16, r *bytestream.Reader) (*Pool, error) {
	count, err := r.ReadU16()
	if err != nil {
		return nil, err
	}

	p := New()
	var queue []pendingEntry

	offset := 1
	for offset < int(count) {
		tagByte, err := r.ReadU8()
		if err != nil {
			return nil, err
		}
		tag := constant.Tag(tagByte)
		raw, err := constant.Read(tag, r, majorVersion)
		if err != nil {
			return nil, err
		}
		if tag.IsPrimitive() {
			p.install(offset, raw)
		} else {
			queue = append(queue, pendingEntry{offset: offset, raw: raw})
		}
		offset += tag.Width()
	}
	p.next = offset

	for len(queue) > 0 {
		var remaining []pendingEntry
		progressed := false
		for _, item := range queue {
			done, err := constant.Dereference(item.raw, p.lookup)
			if err != nil {
				return nil, err
			}
			if done {
				p.install(item.offset, item.raw)
				progressed = true
				continue
			}
			remaining = append(remaining, item)
		}
		if !progressed {
			return nil, &ErrUnresolvableReferences{Pending: len(remaining)}
		}
		queue = remaining
	}

	return p, nil
}

// Write serializes the pool to w: a reserved u2 count (patched at the end),
// followed by each occupied slot's tag and body in index order.
func (p *Pool) Write(w *bytestream.Writer) {
	countOffset := w.Len()
	w.WriteU16(0)

	for offset := 1; offset < p.next; offset++ {
		c, ok := p.forward[offset]
		if !ok {
			continue
		}
		w.WriteU8(byte(c.Tag))
		constant.Write(c, w)
		if c.Tag.Wide() {
			offset++
		}
	}

	w.PatchU16At(countOffset, uint16(p.next))
}
