package menu

import (
	"context"
	"strings"

	"simplemenu/internal/errors"
	exe "simplemenu/internal/exec"
	"simplemenu/internal/item"
	"simplemenu/internal/token"
)

// External is a menu backed by an external program. The program is invoked
// with a mode argument inserted after its name: "get_text" produces the
// menu's own entry line, "execute" produces the menu content, one child
// specification per line, optionally preceded by a menu options line.
type External struct {
	Menu
	command []string
}

// NewExternal constructs an external menu whose value, after any option
// pairs, names the program and its arguments.
func NewExternal(deps *item.Deps, value string) (*External, error) {
	m, err := newMenu("menu_external", deps, value)
	if err != nil {
		return nil, err
	}
	external := &External{Menu: m, command: strings.Split(m.Value, m.Delimiter())}
	if len(external.command) == 0 || strings.TrimSpace(external.command[0]) == "" {
		return nil, errors.DecodeError(value, "external menu value carries no program")
	}
	external.SetItems = external.setItems
	return external, nil
}

// ProduceText asks the program for this menu's entry line.
func (m *External) ProduceText(ctx context.Context) error {
	args := append([]string{"get_text"}, m.command[1:]...)
	result, err := m.Deps.Runner.Run(ctx, m.command[0], args, exe.Options{CaptureOutput: true})
	if err != nil {
		return err
	}
	texts, _ := token.Decode(strings.TrimRight(result.Stdout, "\n"), m.Delimiter())
	m.Texts = texts
	return nil
}

// setItems asks the program for the menu content. The first output line may
// carry menu options; every remaining line is "variant::value".
func (m *External) setItems(ctx context.Context) error {
	args := append([]string{"execute"}, m.command[1:]...)
	result, err := m.Deps.Runner.Run(ctx, m.command[0], args, exe.Options{CaptureOutput: true})
	if err != nil {
		return err
	}

	lines := splitLines(result.Stdout)
	m.Entries = m.Entries[:0]
	if len(lines) == 0 {
		return nil
	}

	// The options line resets title, keep-opened and loop-timeout even when
	// absent: a content line parses as zero options, which restores the
	// defaults.
	options := Menu{Base: m.Base}
	options.Value = lines[0]
	if err := options.parseOptions(); err != nil {
		return err
	}
	m.Title = options.Title
	m.KeepOpened = options.KeepOpened
	m.LoopTimeout = options.LoopTimeout

	first := strings.TrimSpace(strings.Split(lines[0], m.Delimiter())[0])
	if first == "title" || first == "keep-opened" || first == "loop-timeout" {
		lines = lines[1:]
	}

	for _, line := range lines {
		fields := strings.Split(line, m.Delimiter())
		m.Entries = append(m.Entries, Entry{
			Variant: fields[0],
			Value:   strings.Join(fields[1:], m.Delimiter()),
		})
	}
	return nil
}

func splitLines(s string) []string {
	s = strings.TrimRight(s, "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}
