package ui

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"simplemenu/internal/item"
	"simplemenu/internal/token"
)

// renderLines builds the picker line for every item, applying apply to each
// display field first.
//
// Structured (non-raw) items render as aligned columns: type marker, category
// right-aligned, subcategory left-aligned behind a slash, status
// right-aligned, then the text. A column collapses entirely when it is empty
// for every structured item. Raw items render their text verbatim, with no
// columns and no marker substitution.
func renderLines(items []item.Item, apply func(string) string) {
	type row struct {
		it                          item.Item
		typ, cat, sub, status, text string
	}

	var rows []row
	for _, it := range items {
		t := it.Text()
		if t.Type == token.TypeRaw {
			t.Menu = t.Text
			continue
		}
		rows = append(rows, row{
			it:     it,
			typ:    apply(t.Type.Label()),
			cat:    apply(strings.TrimSpace(t.Category)),
			sub:    apply(strings.TrimSpace(t.Subcategory)),
			status: apply(strings.TrimSpace(t.Status)),
			text:   apply(t.Text),
		})
	}
	if len(rows) == 0 {
		return
	}

	var typeW, catW, subW, statusW, textW int
	for _, r := range rows {
		typeW = max(typeW, utf8.RuneCountInString(r.typ))
		catW = max(catW, utf8.RuneCountInString(r.cat))
		subW = max(subW, utf8.RuneCountInString(r.sub))
		statusW = max(statusW, utf8.RuneCountInString(r.status))
		textW = max(textW, utf8.RuneCountInString(r.text))
	}

	for _, r := range rows {
		var b strings.Builder
		fmt.Fprintf(&b, " %-*s", typeW, r.typ)
		if catW > 0 {
			fmt.Fprintf(&b, " %*s", catW, r.cat)
		}
		if subW > 0 {
			if r.sub != "" {
				fmt.Fprintf(&b, "/%-*s", subW, r.sub)
			} else {
				b.WriteString(strings.Repeat(" ", subW+1))
			}
		}
		if statusW > 0 {
			fmt.Fprintf(&b, "  %*s", statusW, r.status)
		}
		if textW > 0 {
			b.WriteString("  ")
			b.WriteString(r.text)
		}
		r.it.Text().Menu = b.String()
	}
}
