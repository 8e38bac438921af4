// Package token implements the delimiter-based wire encoding used to pass
// nested item specifications through flat strings.
//
// An item specification is a discriminant-typed display prefix followed by an
// opaque remainder, all joined with one level of a configured separator
// hierarchy. Values nested inside a container use higher separator levels;
// when a container hands a child its value it shifts every separator down one
// level so the child parses a normal level-0-rooted string.
package token

import (
	"sort"
	"strings"

	"simplemenu/internal/errors"
)

// Type is the display-type discriminant of an item specification.
type Type string

const (
	TypeMenu         Type = "menu"
	TypeAction       Type = "action"
	TypeNotification Type = "notification"
	TypeRaw          Type = "raw"
)

// labels maps each type to the marker rendered in front of the menu line.
// Raw-typed items carry no marker.
var labels = map[Type]string{
	TypeMenu:         "<menu>",
	TypeAction:       "<action>",
	TypeNotification: "<notification>",
	TypeRaw:          "",
}

// Label returns the display marker for the type.
func (t Type) Label() string {
	return labels[t]
}

// typeByName resolves a discriminant token to its Type.
func typeByName(name string) (Type, bool) {
	switch Type(name) {
	case TypeMenu, TypeAction, TypeNotification, TypeRaw:
		return Type(name), true
	}
	return "", false
}

// ItemText is the resolved display text of an item. An empty Text marks the
// item invisible. Menu holds the fully rendered picker line, set by the
// interface adapter.
type ItemText struct {
	Type        Type
	Category    string
	Subcategory string
	Status      string
	Text        string
	Menu        string
}

// Default returns the zero-value ItemText: raw type, all fields empty.
func Default() ItemText {
	return ItemText{Type: TypeRaw}
}

// Decode splits text on delimiter and interprets a structured display prefix.
//
// If the split yields more than four tokens and the first token (trimmed) is a
// known type discriminant, tokens 0..3 become type/category/subcategory/status,
// token 4 becomes the display text (trimmed unless the type is raw) and the
// remainder is the rest re-joined with delimiter. Otherwise the default
// ItemText is returned and the remainder is the entire input, untouched.
func Decode(text, delimiter string) (ItemText, string) {
	tokens := strings.Split(text, delimiter)
	if len(tokens) > 4 {
		if typ, ok := typeByName(strings.TrimSpace(tokens[0])); ok {
			display := tokens[4]
			if typ != TypeRaw {
				display = strings.TrimSpace(display)
			}
			return ItemText{
				Type:        typ,
				Category:    strings.TrimSpace(tokens[1]),
				Subcategory: strings.TrimSpace(tokens[2]),
				Status:      strings.TrimSpace(tokens[3]),
				Text:        display,
			}, strings.Join(tokens[5:], delimiter)
		}
	}
	return Default(), text
}

// Encode joins structured fields and a remainder with delimiter. It is the
// inverse of Decode for structured prefixes and is never applied to opaque
// remainders.
func Encode(t ItemText, delimiter string, rest ...string) string {
	fields := append([]string{string(t.Type), t.Category, t.Subcategory, t.Status, t.Text}, rest...)
	return strings.Join(fields, delimiter)
}

// ShiftDown re-maps every separator in value one level down: occurrences of
// separators[n] become separators[n-1] for n >= 1. The scan matches the full
// ordered separator list longest-first at every position, so a separator that
// is a substring of another one cannot be rewritten twice.
func ShiftDown(value string, separators []string) string {
	if len(separators) < 2 {
		return value
	}

	// Match candidates are levels 1..N, longest separator first.
	type mapping struct {
		from, to string
	}
	mappings := make([]mapping, 0, len(separators)-1)
	for level := 1; level < len(separators); level++ {
		mappings = append(mappings, mapping{from: separators[level], to: separators[level-1]})
	}
	sort.SliceStable(mappings, func(i, j int) bool {
		return len(mappings[i].from) > len(mappings[j].from)
	})

	var b strings.Builder
	b.Grow(len(value))
	for i := 0; i < len(value); {
		matched := false
		for _, m := range mappings {
			if m.from != "" && strings.HasPrefix(value[i:], m.from) {
				b.WriteString(m.to)
				i += len(m.from)
				matched = true
				break
			}
		}
		if !matched {
			b.WriteByte(value[i])
			i++
		}
	}
	return b.String()
}

// SplitEntry decodes one child entry of an inline menu: the variant name is
// the first level-1 token, the child value is the rest shifted down one level.
func SplitEntry(value string, separators []string) (variant, inner string, err error) {
	if len(separators) < 2 {
		return "", "", errors.DecodeError(value, "separator hierarchy needs at least two levels for nested entries")
	}
	tokens := strings.Split(value, separators[1])
	variant = strings.TrimSpace(tokens[0])
	inner = ShiftDown(strings.Join(tokens[1:], separators[1]), separators)
	return variant, inner, nil
}
