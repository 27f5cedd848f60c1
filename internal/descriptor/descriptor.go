// Package descriptor parses JVM field and method descriptor strings into a
// small Type model. spec.md treats this as an external collaborator
// consumed through two pure functions; no example in the retrieval pack
// ships a JVM descriptor grammar, so it is implemented directly against the
// JVM specification's (small, regular) grammar rather than reached for as a
// dependency — see DESIGN.md.
package descriptor

import "fmt"

// Kind classifies a Type.
type Kind int

const (
	KindByte Kind = iota
	KindChar
	KindDouble
	KindFloat
	KindInt
	KindLong
	KindShort
	KindBoolean
	KindVoid
	KindObject
	KindArray
)

// Type is a parsed field/component type.
type Type struct {
	Kind Kind
	// ClassName holds the internal name (e.g. "java/lang/String") when Kind == KindObject.
	ClassName string
	// Elem holds the element type when Kind == KindArray.
	Elem *Type
	// Dims is the array nesting depth when Kind == KindArray (1 for T[], 2 for T[][], ...).
	Dims int
}

func (t Type) String() string {
	switch t.Kind {
	case KindObject:
		return "L" + t.ClassName + ";"
	case KindArray:
		return "[" + t.Elem.String()
	default:
		return string(primitiveChar(t.Kind))
	}
}

func primitiveChar(k Kind) byte {
	switch k {
	case KindByte:
		return 'B'
	case KindChar:
		return 'C'
	case KindDouble:
		return 'D'
	case KindFloat:
		return 'F'
	case KindInt:
		return 'I'
	case KindLong:
		return 'J'
	case KindShort:
		return 'S'
	case KindBoolean:
		return 'Z'
	case KindVoid:
		return 'V'
	default:
		return 0
	}
}

// ErrInvalidDescriptor reports malformed descriptor text (spec.md §7 InvalidDescriptor).
type ErrInvalidDescriptor struct{ Text string }

func (e *ErrInvalidDescriptor) Error() string {
	return fmt.Sprintf("descriptor: invalid descriptor %q", e.Text)
}

// ParseField parses a field descriptor, e.g. "I", "[Ljava/lang/String;", "[[D".
func ParseField(s string) (Type, error) {
	t, rest, err := parseType(s)
	if err != nil {
		return Type{}, err
	}
	if rest != "" {
		return Type{}, &ErrInvalidDescriptor{Text: s}
	}
	return t, nil
}

// ParseMethod parses a method descriptor, e.g. "(ILjava/lang/String;)V", into
// its argument types in order and its return type.
func ParseMethod(s string) (args []Type, ret Type, err error) {
	if len(s) == 0 || s[0] != '(' {
		return nil, Type{}, &ErrInvalidDescriptor{Text: s}
	}
	rest := s[1:]
	for {
		if rest == "" {
			return nil, Type{}, &ErrInvalidDescriptor{Text: s}
		}
		if rest[0] == ')' {
			rest = rest[1:]
			break
		}
		var t Type
		t, rest, err = parseType(rest)
		if err != nil {
			return nil, Type{}, err
		}
		args = append(args, t)
	}
	ret, rest, err = parseReturnType(rest)
	if err != nil {
		return nil, Type{}, err
	}
	if rest != "" {
		return nil, Type{}, &ErrInvalidDescriptor{Text: s}
	}
	return args, ret, nil
}

func parseReturnType(s string) (Type, string, error) {
	if s == "V" {
		return Type{Kind: KindVoid}, "", nil
	}
	return parseType(s)
}

// parseType parses exactly one field type from the front of s, returning
// the remainder.
func parseType(s string) (Type, string, error) {
	if s == "" {
		return Type{}, "", &ErrInvalidDescriptor{Text: s}
	}
	switch s[0] {
	case 'B':
		return Type{Kind: KindByte}, s[1:], nil
	case 'C':
		return Type{Kind: KindChar}, s[1:], nil
	case 'D':
		return Type{Kind: KindDouble}, s[1:], nil
	case 'F':
		return Type{Kind: KindFloat}, s[1:], nil
	case 'I':
		return Type{Kind: KindInt}, s[1:], nil
	case 'J':
		return Type{Kind: KindLong}, s[1:], nil
	case 'S':
		return Type{Kind: KindShort}, s[1:], nil
	case 'Z':
		return Type{Kind: KindBoolean}, s[1:], nil
	case 'L':
		end := indexByte(s, ';')
		if end < 0 {
			return Type{}, "", &ErrInvalidDescriptor{Text: s}
		}
		return Type{Kind: KindObject, ClassName: s[1:end]}, s[end+1:], nil
	case '[':
		elem, rest, err := parseType(s[1:])
		if err != nil {
			return Type{}, "", err
		}
		dims := 1
		e := elem
		if e.Kind == KindArray {
			dims = e.Dims + 1
		}
		return Type{Kind: KindArray, Elem: &elem, Dims: dims}, rest, nil
	default:
		return Type{}, "", &ErrInvalidDescriptor{Text: s}
	}
}

func indexByte(s string, b byte) int {
	for i := 0; i < len(s); i++ {
		if s[i] == b {
			return i
		}
	}
	return -1
}
