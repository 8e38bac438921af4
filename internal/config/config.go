// Package config loads and resolves the simple-menu configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"simplemenu/internal/errors"
)

// ProgramName is used for configuration discovery and helper paths.
const ProgramName = "simple-menu"

// DefaultTokenSeparators is the default delimiter hierarchy. Level 0 delimits
// an item's own fields; higher levels delimit content nested inside a value.
var DefaultTokenSeparators = []string{
	"::", // first level
	",,", // second level
	";;", // third level
}

// Interface selector values.
const (
	InterfaceAuto = "auto"
	InterfaceFzf  = "fzf"
	InterfaceRofi = "rofi"
)

// Config is the immutable configuration consumed by the core. All resolution
// (flags vs environment vs file vs defaults) happens in Load; afterwards the
// struct is plain data.
type Config struct {
	HelperSystemdToggleAllowed []string
	HelperZerotierAllowed      []string
	MenuSoundIgnoreNodes       map[string]bool
	MenuSyncthingAPIToken      string
	MenuSyncthingAPIURL        string

	// Interface is resolved to "rofi" or "fzf", never "auto".
	Interface string

	// TokenSeparators is the ordered delimiter hierarchy, at least one level.
	TokenSeparators []string
}

// Delimiter returns the level-0 token separator.
func (c *Config) Delimiter() string {
	return c.TokenSeparators[0]
}

// fileConfig mirrors the on-disk TOML document.
type fileConfig struct {
	HelperSystemdToggleAllowed []string `toml:"helper_systemd_toggle_allowed"`
	HelperZerotierAllowed      []string `toml:"helper_zerotier_allowed"`
	MenuSoundIgnoreNodes       []string `toml:"menu_sound_ignore_nodes"`
	MenuSyncthingAPIToken      string   `toml:"menu_syncthing_api_token"`
	MenuSyncthingAPIURL        string   `toml:"menu_syncthing_api_url"`
	Interface                  string   `toml:"interface"`
	TokenSeparators            []string `toml:"token_separators"`
}

// Options carries the command line overrides into Load.
type Options struct {
	// ConfigFile forces a configuration file path. Empty means discover.
	ConfigFile string

	// Interface overrides the picker selection (auto|fzf|rofi).
	Interface string

	// TokenSeparators overrides the delimiter hierarchy.
	TokenSeparators []string
}

// Folders returns the configuration directories in search order.
func Folders() []string {
	var dirs []string
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		dirs = append(dirs, filepath.Join(xdg, ProgramName))
	} else if home, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs, filepath.Join(home, ".config", ProgramName))
	}
	dirs = append(dirs, filepath.Join("/etc", ProgramName))
	return dirs
}

// DefaultFile returns the first existing configuration file, or "".
func DefaultFile() string {
	for _, dir := range Folders() {
		path := filepath.Join(dir, ProgramName+".toml")
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// Load reads the configuration file (if any) and resolves every setting
// against the command line and the environment.
func Load(opts Options) (*Config, error) {
	path := opts.ConfigFile
	if path == "" {
		path = DefaultFile()
	}

	var file fileConfig
	if path != "" {
		if _, err := toml.DecodeFile(path, &file); err != nil {
			return nil, errors.Wrap(err, errors.ConfigInvalid, "invalid configuration file").
				WithDetails(fmt.Sprintf("path: %s", path))
		}
	}

	iface := resolveInterface(opts.Interface, file.Interface)
	if iface != InterfaceFzf && iface != InterfaceRofi {
		return nil, errors.New(errors.ConfigInvalid, "invalid interface selector").
			WithDetails(fmt.Sprintf("want auto, fzf or rofi, got %q", iface))
	}

	separators := DefaultTokenSeparators
	if len(file.TokenSeparators) > 0 {
		separators = file.TokenSeparators
	}
	if len(opts.TokenSeparators) > 0 {
		separators = opts.TokenSeparators
	}

	ignore := make(map[string]bool, len(file.MenuSoundIgnoreNodes))
	for _, node := range file.MenuSoundIgnoreNodes {
		ignore[node] = true
	}

	return &Config{
		HelperSystemdToggleAllowed: file.HelperSystemdToggleAllowed,
		HelperZerotierAllowed:      file.HelperZerotierAllowed,
		MenuSoundIgnoreNodes:       ignore,
		MenuSyncthingAPIToken:      file.MenuSyncthingAPIToken,
		MenuSyncthingAPIURL:        file.MenuSyncthingAPIURL,
		Interface:                  iface,
		TokenSeparators:            separators,
	}, nil
}

// LoadHelper loads the configuration for the privileged helper. The helper
// only trusts the system-wide file; a missing file is an error.
func LoadHelper() (*Config, error) {
	path := filepath.Join("/etc", ProgramName, ProgramName+".toml")
	if _, err := os.Stat(path); err != nil {
		return nil, errors.Wrap(err, errors.ConfigNotFound, "helper configuration file not found").
			WithDetails(fmt.Sprintf("path: %s", path))
	}
	return Load(Options{ConfigFile: path})
}

// resolveInterface applies precedence flag > INTERFACE env > file > auto, then
// resolves "auto" to rofi under a graphical session and fzf otherwise.
func resolveInterface(requested, fromFile string) string {
	iface := InterfaceAuto
	switch {
	case requested != "":
		iface = requested
	case os.Getenv("INTERFACE") != "":
		iface = os.Getenv("INTERFACE")
	case fromFile != "":
		iface = fromFile
	}

	if iface == InterfaceAuto {
		if os.Getenv("WAYLAND_DISPLAY") != "" || os.Getenv("DISPLAY") != "" {
			return InterfaceRofi
		}
		return InterfaceFzf
	}
	return iface
}
