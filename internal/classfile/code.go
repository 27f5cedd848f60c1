package classfile

import (
	"classfile/internal/bytecode"
	"classfile/internal/bytestream"
	"classfile/internal/cfg"
	"classfile/internal/constant"
	"classfile/internal/pool"
)

// ExceptionHandler is one entry of a Code attribute's exception table:
// bytecode offsets [Start, End) are covered by a handler starting at
// Handler, catching CatchType (nil means catch-all, catch_type == 0).
// spec.md §4.5 requires exception edges keyed by (handler, exception
// class); this is the raw feed for those edges (SPEC_FULL.md §7).
type ExceptionHandler struct {
	Start, End, Handler int
	CatchType           *constant.Constant
}

// CodeInfo is a convenience view over a method's "Code" attribute. It
// exposes the fixed-layout prefix the exception table lives in; everything
// after that (and every attribute that is not named "Code") stays the
// opaque blob spec.md §1 scopes the attribute ecosystem to.
type CodeInfo struct {
	MaxStack          uint16
	MaxLocals         uint16
	Code              []byte
	ExceptionHandlers []ExceptionHandler

	// Graph is the control-flow graph built from Code and
	// ExceptionHandlers (internal/bytecode.Build); nil if the bytecode
	// could not be decoded or built into a graph. That failure is not
	// reported, and the raw Code bytes remain the authority for Write.
	Graph *cfg.Graph
}

// parseCode populates m.Code from the "Code" attribute, if present. It
// never mutates m.Attributes — Write always re-emits the original bytes,
// so a class file with no edits round-trips exactly regardless of how
// thoroughly parseCode understood the attribute.
func (m *Method) parseCode() error {
	for _, a := range m.Attributes {
		if a.Name != "Code" {
			continue
		}
		info, err := parseCodeAttribute(m.Class.Pool, a.Data)
		if err != nil {
			return err
		}
		m.Code = info
		return nil
	}
	return nil
}

func parseCodeAttribute(p *pool.Pool, data []byte) (*CodeInfo, error) {
	r := bytestream.NewReader(data)

	maxStack, err := r.ReadU16()
	if err != nil {
		return nil, err
	}
	maxLocals, err := r.ReadU16()
	if err != nil {
		return nil, err
	}
	codeLen, err := r.ReadU32()
	if err != nil {
		return nil, err
	}
	code, err := r.ReadBytes(int(codeLen))
	if err != nil {
		return nil, err
	}

	excCount, err := r.ReadU16()
	if err != nil {
		return nil, err
	}
	handlers := make([]ExceptionHandler, 0, excCount)
	for i := 0; i < int(excCount); i++ {
		start, err := r.ReadU16()
		if err != nil {
			return nil, err
		}
		end, err := r.ReadU16()
		if err != nil {
			return nil, err
		}
		handler, err := r.ReadU16()
		if err != nil {
			return nil, err
		}
		catchIdx, err := r.ReadU16()
		if err != nil {
			return nil, err
		}
		var catchType *constant.Constant
		if catchIdx != 0 {
			c, err := p.MustGet(int(catchIdx))
			if err != nil {
				return nil, err
			}
			catchType = &c
		}
		handlers = append(handlers, ExceptionHandler{
			Start:     int(start),
			End:       int(end),
			Handler:   int(handler),
			CatchType: catchType,
		})
	}

	info := &CodeInfo{
		MaxStack:          maxStack,
		MaxLocals:         maxLocals,
		Code:              code,
		ExceptionHandlers: handlers,
	}

	if insns, err := bytecode.Decode(code); err == nil {
		ranges := make([]bytecode.ExceptionRange, 0, len(handlers))
		for _, h := range handlers {
			class := ""
			if h.CatchType != nil {
				name, err := p.GetUtf8(h.CatchType.NameIndex)
				if err != nil {
					return nil, err
				}
				class = name
			}
			ranges = append(ranges, bytecode.ExceptionRange{
				Start: h.Start, End: h.End, Handler: h.Handler, ExceptionClass: class,
			})
		}
		if g, err := bytecode.Build("", insns, ranges); err == nil {
			info.Graph = g
		}
	}

	return info, nil
}
