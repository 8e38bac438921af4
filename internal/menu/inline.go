package menu

import (
	"context"
	"strings"

	"simplemenu/internal/item"
	"simplemenu/internal/token"
)

// Inline is a menu whose children are nested inside its own value. Each child
// entry uses the level-1 separator internally; handing the value down shifts
// every separator one level so the child parses a normal specification.
type Inline struct {
	Menu
}

// NewInline constructs an inline menu from a value of the form
// "variant,,spec::variant,,spec::...".
func NewInline(deps *item.Deps, value string) (*Inline, error) {
	m, err := newMenu("menu_inline", deps, value)
	if err != nil {
		return nil, err
	}
	inline := &Inline{Menu: m}
	inline.SetItems = inline.setItems
	return inline, nil
}

func (m *Inline) setItems(ctx context.Context) error {
	separators := m.Deps.Config.TokenSeparators
	m.Entries = m.Entries[:0]
	for _, entry := range strings.Split(m.Value, m.Delimiter()) {
		variant, inner, err := token.SplitEntry(entry, separators)
		if err != nil {
			return err
		}
		m.Entries = append(m.Entries, Entry{Variant: variant, Value: inner})
	}
	return nil
}
