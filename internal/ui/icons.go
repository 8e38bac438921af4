package ui

import (
	"os"
	"strings"

	"github.com/mattn/go-isatty"
)

// substitutions maps display markers to the glyphs rendered in their place.
// Glyphs come from a Nerd Font, so substitution is skipped on the plain Linux
// console and whenever the RAW environment variable is set.
var substitutions = strings.NewReplacer(
	"<ok>", "",
	"<paused>", "",
	"<stopped>", "󰓛",
	"<error>", "✖",
	"<warning>", "",
	"<running>", "",
	"<playing>", "󰝚",
	"<recording>", "󰻂",
	"<microphone>", "󰍬",
	"<microphone-muted>", "󰍭",
	"<volume-min>", "󰕿",
	"<volume-med>", "󰖀",
	"<volume-max>", "󰕾",
	"<volume-muted>", "󰖁",
	"<upper>", "",
	"<lower>", "",
	"<poweroff>", "⏻",
	"<reload>", "",
	"<speaker>", "󰓃",
	"<speaker-muted>", "󰓄",
	"<configuration>", "",
	"<change>", "",
	"<folder>", "",
	"<menu>", "",
	"<action>", "󱐋",
	"<notification>", "",
)

// substitute replaces every display marker in text with its glyph.
func substitute(text string) string {
	return substitutions.Replace(text)
}

// identity leaves markers untouched.
func identity(text string) string {
	return text
}

// rawRequested reports whether the user disabled glyph substitution.
func rawRequested() bool {
	return os.Getenv("RAW") != ""
}

// onConsole reports whether we run on a virtual console rather than a
// terminal emulator. Console fonts cannot render the glyphs.
func onConsole() bool {
	if !isatty.IsTerminal(os.Stdin.Fd()) {
		return false
	}
	name, err := os.Readlink("/proc/self/fd/0")
	if err != nil {
		return false
	}
	return strings.HasPrefix(name, "/dev/tty")
}
