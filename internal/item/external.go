package item

import (
	"context"
	"strings"

	"simplemenu/internal/errors"
	exe "simplemenu/internal/exec"
	"simplemenu/internal/token"
)

// External delegates both text resolution and execution to an external
// program. The item value is the program and its arguments joined with the
// delimiter; the program is invoked with a mode argument ("get_text" or
// "execute") inserted after the program name, followed by the original
// arguments.
type External struct {
	Base
}

// NewExternal constructs an external item whose value names the program to
// delegate to.
func NewExternal(deps *Deps, value string) *External {
	return &External{Base: NewBase("item_external", deps, value)}
}

// command splits the value into the program and its arguments and inserts the
// mode argument.
func (e *External) command(mode string) (string, []string, error) {
	fields := strings.Split(e.Value, e.Delimiter())
	if len(fields) == 0 || strings.TrimSpace(fields[0]) == "" {
		return "", nil, errors.DecodeError(e.Raw, "external item value carries no program")
	}
	args := append([]string{mode}, fields[1:]...)
	return fields[0], args, nil
}

// ProduceText runs the program in get_text mode and decodes its output as the
// display text.
func (e *External) ProduceText(ctx context.Context) error {
	program, args, err := e.command("get_text")
	if err != nil {
		return err
	}
	result, err := e.Deps.Runner.Run(ctx, program, args, exe.Options{CaptureOutput: true})
	if err != nil {
		return err
	}
	texts, _ := token.Decode(strings.TrimRight(result.Stdout, "\n"), e.Delimiter())
	e.Texts = texts
	return nil
}

// Execute runs the program in execute mode. A quit exit code from the program
// propagates as a quit request through the whole menu stack.
func (e *External) Execute(ctx context.Context) error {
	program, args, err := e.command("execute")
	if err != nil {
		return err
	}
	result, err := e.Deps.Runner.Run(ctx, program, args, exe.Options{})
	if err != nil {
		return err
	}
	if result.ExitCode == errors.QuitExitCode {
		return errors.ErrQuit
	}
	return nil
}
