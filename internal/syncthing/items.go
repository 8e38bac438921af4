package syncthing

import (
	"context"
	"fmt"
	"strings"

	"simplemenu/internal/item"
	"simplemenu/internal/menu"
	"simplemenu/internal/token"
)

// statusIcons maps a folder database state to its display marker.
var statusIcons = map[string]string{
	"error":          "<warning>",
	"idle":           "<ok>",
	"paused":         "<paused>",
	"scan-waiting":   "<reload>",
	"scanning":       "<reload>",
	"sync-preparing": "<reload>",
	"sync-waiting":   "<reload>",
	"syncing":        "<reload>",
}

// RootMenu is the syncthing instance menu: global state in its entry line,
// error notifications, a global pause toggle and one submenu per folder.
type RootMenu struct {
	menu.Menu
}

// NewMenu constructs the syncthing root menu.
func NewMenu(deps *item.Deps, value string) (*RootMenu, error) {
	base, err := menu.NewBase("syncthingmenu", deps, value)
	if err != nil {
		return nil, err
	}
	m := &RootMenu{Menu: base}
	m.SetTitle = func(ctx context.Context) error {
		m.Title = "Syncthing"
		return nil
	}
	m.SetItems = m.setItems
	return m, nil
}

// ProduceText summarizes the instance: error, paused, or active with a busy
// breakdown when folders are still syncing. An unreachable instance renders
// as a notification.
func (m *RootMenu) ProduceText(ctx context.Context) error {
	m.Texts.Type = token.TypeMenu
	m.Texts.Category = "Syncthing"

	state, err := sharedState(ctx, m.Deps)
	if err != nil {
		return err
	}
	if !state.Initialized {
		m.Texts.Type = token.TypeNotification
		m.Texts.Text = "Syncthing unavailable"
		m.Texts.Status = "<error>"
		return nil
	}

	statusText := state.Status()
	var icon string
	switch state.Status() {
	case "error":
		icon = "<warning>"
	case "paused":
		icon = "<paused>"
	case "active":
		if state.Idle() {
			icon = "<ok>"
		} else {
			icon = "<reload>"
			var extra []string
			for _, status := range state.FolderStatuses() {
				extra = append(extra, statusIcons[status])
			}
			statusText += " (" + strings.Join(extra, " ") + ")"
		}
	}
	m.Texts.Text = statusText
	m.Texts.Status = icon
	return nil
}

func (m *RootMenu) setItems(ctx context.Context) error {
	state, err := sharedState(ctx, m.Deps)
	if err != nil {
		return err
	}
	m.Entries = m.Entries[:0]
	if !state.Initialized {
		return nil
	}

	for _, systemError := range state.SystemErrors {
		m.Entries = append(m.Entries, m.notification(systemError.Message))
	}
	for _, folder := range state.Folders {
		for _, folderError := range folder.Errors {
			m.Entries = append(m.Entries,
				m.notification(fmt.Sprintf("(%s): %s", folderError.Path, folderError.Error)))
		}
	}

	m.Entries = append(m.Entries, menu.Entry{Make: func() (item.Item, error) {
		return newPauseToggle(m.Deps), nil
	}})
	for _, folder := range state.Folders {
		folderID := folder.ID
		m.Entries = append(m.Entries, menu.Entry{Make: func() (item.Item, error) {
			return newFolderMenu(m.Deps, folderID)
		}})
	}
	return nil
}

func (m *RootMenu) notification(text string) menu.Entry {
	value := strings.Join([]string{"notification", "", "", "<warning>", text}, m.Delimiter())
	return menu.Entry{Variant: "item", Value: value}
}

// FolderMenu is one folder's submenu: its error notifications and a pause
// toggle.
type FolderMenu struct {
	menu.Menu
}

func newFolderMenu(deps *item.Deps, folderID string) (*FolderMenu, error) {
	base, err := menu.NewBase("syncthing_folder", deps, folderID)
	if err != nil {
		return nil, err
	}
	m := &FolderMenu{Menu: base}
	m.SetItems = m.setItems
	return m, nil
}

func (m *FolderMenu) ProduceText(ctx context.Context) error {
	m.Texts.Type = token.TypeMenu
	m.Texts.Category = "Folder"

	state, err := sharedState(ctx, m.Deps)
	if err != nil {
		return err
	}
	var folder *Folder
	if state.Initialized {
		folder = state.FolderByIDOrName(m.Value)
	}
	if folder == nil {
		m.Texts.Text = ""
		return nil
	}

	m.Texts.Category = "<folder>"
	switch {
	case folder.Paused:
		m.Texts.Status = "<paused>"
	case len(folder.Errors) > 0:
		m.Texts.Status = "<warning>"
	default:
		m.Texts.Status = statusIcons[folder.Status()]
	}
	if folder.Status() != "idle" && !folder.Paused {
		m.Texts.Text = fmt.Sprintf("%s (%s)", folder.Label, folder.Status())
	} else {
		m.Texts.Text = folder.Label
	}
	m.Title = fmt.Sprintf("Syncthing/Folder/<%s>", folder.Label)
	return nil
}

func (m *FolderMenu) setItems(ctx context.Context) error {
	state, err := sharedState(ctx, m.Deps)
	if err != nil {
		return err
	}
	m.Entries = m.Entries[:0]
	if !state.Initialized {
		return nil
	}
	folder := state.FolderByIDOrName(m.Value)
	if folder == nil {
		return nil
	}

	if !folder.Paused {
		for _, folderError := range folder.Errors {
			text := fmt.Sprintf("%s %s     <warning>  path: %s, error: %s",
				folderError.Path, folderError.Error, folderError.Path, folderError.Error)
			value := strings.Join([]string{"notification", "", "", "<warning>", text}, m.Delimiter())
			m.Entries = append(m.Entries, menu.Entry{Variant: "item", Value: value})
		}
	}
	folderID := m.Value
	m.Entries = append(m.Entries, menu.Entry{Make: func() (item.Item, error) {
		return newFolderPauseToggle(m.Deps, folderID), nil
	}})
	return nil
}

// PauseToggle pauses or resumes the whole instance.
type PauseToggle struct {
	item.Base
}

func newPauseToggle(deps *item.Deps) *PauseToggle {
	return &PauseToggle{Base: item.NewBase("syncthing_pause_toggle", deps, "")}
}

func (t *PauseToggle) ProduceText(ctx context.Context) error {
	t.Texts.Type = token.TypeAction
	t.Texts.Category = "Global"
	t.Texts.Text = "toggle"

	state, err := sharedState(ctx, t.Deps)
	if err != nil {
		return err
	}
	if !state.Initialized {
		t.Texts.Text = ""
		return nil
	}
	if state.Paused() {
		t.Texts.Status = "<paused>"
	} else {
		t.Texts.Status = "<running>"
	}
	return nil
}

func (t *PauseToggle) Execute(ctx context.Context) error {
	state, err := sharedState(ctx, t.Deps)
	if err != nil {
		return err
	}
	if !state.Initialized {
		return nil
	}
	return state.PauseToggle(ctx)
}

// FolderPauseToggle pauses or resumes one folder.
type FolderPauseToggle struct {
	item.Base
}

func newFolderPauseToggle(deps *item.Deps, folderID string) *FolderPauseToggle {
	return &FolderPauseToggle{Base: item.NewBase("syncthing_folder_pause_toggle", deps, folderID)}
}

func (t *FolderPauseToggle) ProduceText(ctx context.Context) error {
	t.Texts.Type = token.TypeAction
	t.Texts.Text = ""

	state, err := sharedState(ctx, t.Deps)
	if err != nil {
		return err
	}
	if !state.Initialized {
		return nil
	}
	folder := state.FolderByIDOrName(t.Value)
	if folder == nil {
		return nil
	}
	t.Texts.Text = "toggle <change>"
	if folder.Paused {
		t.Texts.Status = "<paused>"
	} else {
		t.Texts.Status = "<running>"
	}
	return nil
}

func (t *FolderPauseToggle) Execute(ctx context.Context) error {
	state, err := sharedState(ctx, t.Deps)
	if err != nil {
		return err
	}
	if !state.Initialized {
		return nil
	}
	if folder := state.FolderByIDOrName(t.Value); folder != nil {
		return folder.PauseToggle(ctx)
	}
	return nil
}
