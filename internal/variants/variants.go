// Package variants maps the public item discriminant names to their
// constructors. The table is closed: nested specifications can only name
// these variants, everything else is an error.
package variants

import (
	"strings"

	"simplemenu/internal/audio"
	"simplemenu/internal/config"
	"simplemenu/internal/errors"
	exe "simplemenu/internal/exec"
	"simplemenu/internal/item"
	"simplemenu/internal/menu"
	"simplemenu/internal/syncthing"
	"simplemenu/internal/systemd"
	"simplemenu/internal/zerotier"
)

// Names are the user-facing discriminants accepted on the command line and
// inside nested entries.
var Names = []string{
	"audiomenu",
	"item",
	"item_external",
	"menu_external",
	"menu_inline",
	"syncthingmenu",
	"systemdunit",
	"zerotiernetwork",
}

// Known reports whether name is a public discriminant.
func Known(name string) bool {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, known := range Names {
		if name == known {
			return true
		}
	}
	return false
}

// NewDeps builds the dependency bundle shared by every item of a program run,
// with this registry wired as the constructor dispatch.
func NewDeps(cfg *config.Config) *item.Deps {
	deps := &item.Deps{
		Config: cfg,
		Cache:  item.NewCache(),
		Runner: exe.New(),
	}
	deps.New = func(variant, value string) (item.Item, error) {
		return build(deps, variant, value)
	}
	return deps
}

func build(deps *item.Deps, variant, value string) (item.Item, error) {
	switch strings.ToLower(strings.TrimSpace(variant)) {
	case "audiomenu":
		return audio.NewMenu(deps, value)
	case "item":
		return item.NewPlain(deps, value), nil
	case "item_external":
		return item.NewExternal(deps, value), nil
	case "menu_external":
		return menu.NewExternal(deps, value)
	case "menu_inline":
		return menu.NewInline(deps, value)
	case "syncthingmenu":
		return syncthing.NewMenu(deps, value)
	case "systemdunit":
		return systemd.NewUnit(deps, value), nil
	case "zerotiernetwork":
		return zerotier.NewNetwork(deps, value)
	default:
		return nil, errors.New(errors.UnknownItem, "invalid item type").WithDetails(variant)
	}
}
