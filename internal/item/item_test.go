package item

import (
	"context"
	goerrors "errors"
	"os"
	"path/filepath"
	"testing"

	"simplemenu/internal/config"
	"simplemenu/internal/errors"
	exe "simplemenu/internal/exec"
	"simplemenu/internal/token"
)

func testDeps() *Deps {
	return &Deps{
		Config: &config.Config{
			Interface:       config.InterfaceFzf,
			TokenSeparators: []string{"::", ",,", ";;"},
		},
		Cache:  NewCache(),
		Runner: exe.New(),
	}
}

func TestNewBaseDecodesPrefix(t *testing.T) {
	deps := testDeps()

	tests := []struct {
		name      string
		value     string
		wantType  token.Type
		wantText  string
		wantValue string
	}{
		{
			name:      "structured prefix",
			value:     "action::Cat::sub::busy::do it::payload",
			wantType:  token.TypeAction,
			wantText:  "do it",
			wantValue: "payload",
		},
		{
			name:      "opaque value",
			value:     "just a value",
			wantType:  token.TypeRaw,
			wantText:  "",
			wantValue: "just a value",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBase("item", deps, tt.value)
			if b.Texts.Type != tt.wantType {
				t.Errorf("Type = %q; want %q", b.Texts.Type, tt.wantType)
			}
			if b.Texts.Text != tt.wantText {
				t.Errorf("Text = %q; want %q", b.Texts.Text, tt.wantText)
			}
			if b.Value != tt.wantValue {
				t.Errorf("Value = %q; want %q", b.Value, tt.wantValue)
			}
			if b.Raw != tt.value {
				t.Errorf("Raw = %q; want %q", b.Raw, tt.value)
			}
		})
	}
}

func TestBaseIdentifierAndVisible(t *testing.T) {
	deps := testDeps()

	p := NewPlain(deps, "raw::c::s::st::shown::rest")
	if got, want := p.Identifier(), "item:raw::c::s::st::shown::rest"; got != want {
		t.Errorf("Identifier = %q; want %q", got, want)
	}
	if !p.Visible() {
		t.Error("item with non-empty text should be visible")
	}

	hidden := NewPlain(deps, "opaque")
	if hidden.Visible() {
		t.Error("item with empty text should be invisible")
	}
}

func TestBaseExecuteNotImplemented(t *testing.T) {
	p := NewPlain(testDeps(), "value")
	err := p.Execute(context.Background())
	if !errors.IsType(err, errors.NotImplemented) {
		t.Errorf("Execute error = %v; want NotImplemented", err)
	}
}

func TestSharedDataRequiresInit(t *testing.T) {
	b := NewBase("item", testDeps(), "value")
	if _, err := b.SharedData(context.Background()); !errors.IsType(err, errors.NotImplemented) {
		t.Errorf("SharedData error = %v; want NotImplemented", err)
	}
}

func TestSharedDataMemoizesPerVariant(t *testing.T) {
	deps := testDeps()
	calls := 0

	first := NewBase("kind", deps, "a")
	first.SharedInit = func(ctx context.Context) (any, error) {
		calls++
		return "shared", nil
	}
	second := NewBase("kind", deps, "b")
	second.SharedInit = first.SharedInit

	ctx := context.Background()
	for _, b := range []*Base{&first, &second} {
		value, err := b.SharedData(ctx)
		if err != nil {
			t.Fatalf("SharedData returned error: %v", err)
		}
		if value != "shared" {
			t.Errorf("SharedData = %v; want %q", value, "shared")
		}
	}
	if calls != 1 {
		t.Errorf("SharedInit ran %d times; want 1", calls)
	}
}

func TestExternalCommand(t *testing.T) {
	deps := testDeps()

	e := NewExternal(deps, "my-script::--flag::value")
	program, args, err := e.command("get_text")
	if err != nil {
		t.Fatalf("command returned error: %v", err)
	}
	if program != "my-script" {
		t.Errorf("program = %q; want %q", program, "my-script")
	}
	if len(args) != 3 || args[0] != "get_text" || args[1] != "--flag" || args[2] != "value" {
		t.Errorf("args = %v; want [get_text --flag value]", args)
	}
}

func TestExternalCommandNoProgram(t *testing.T) {
	e := NewExternal(testDeps(), "  ")
	if _, _, err := e.command("execute"); !errors.IsType(err, errors.DecodeFailed) {
		t.Errorf("command error = %v; want DecodeFailed", err)
	}
}

// writeScript drops an executable shell script into dir and returns its path.
func writeScript(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0o755); err != nil {
		t.Fatalf("writing script: %v", err)
	}
	return path
}

func TestExternalProduceText(t *testing.T) {
	script := writeScript(t, t.TempDir(), "provider",
		`if [ "$1" = "get_text" ]; then echo "menu::Cat::sub::busy::Entries::extra"; fi`)

	e := NewExternal(testDeps(), script)
	if err := e.ProduceText(context.Background()); err != nil {
		t.Fatalf("ProduceText returned error: %v", err)
	}
	if e.Texts.Type != token.TypeMenu || e.Texts.Text != "Entries" {
		t.Errorf("Texts = %+v; want menu/Entries", e.Texts)
	}
}

func TestExternalExecuteQuit(t *testing.T) {
	dir := t.TempDir()
	quitter := writeScript(t, dir, "quitter", "exit 250")
	noop := writeScript(t, dir, "noop", "exit 0")

	e := NewExternal(testDeps(), quitter)
	if err := e.Execute(context.Background()); !goerrors.Is(err, errors.ErrQuit) {
		t.Errorf("Execute = %v; want ErrQuit", err)
	}

	e = NewExternal(testDeps(), noop)
	if err := e.Execute(context.Background()); err != nil {
		t.Errorf("Execute = %v; want nil", err)
	}
}
