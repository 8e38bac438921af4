package item

// Plain is a static item: its text is whatever the value encodes. Menus use
// it for headings and notification lines, which are never executed.
type Plain struct {
	Base
}

// NewPlain constructs a static item from value.
func NewPlain(deps *Deps, value string) *Plain {
	return &Plain{Base: NewBase("item", deps, value)}
}
