package syncthing

import (
	"context"
	"sort"

	"simplemenu/internal/config"
	"simplemenu/internal/item"
)

// Folder is one synced folder with its status snapshot.
type Folder struct {
	client *Client

	ID     string
	Label  string
	Paused bool

	// Errors holds the folder's scan and sync errors. Always empty for a
	// paused folder: its error endpoint is not served.
	Errors []FolderError

	state string
}

// Status is "paused", "error" or the folder's database state (idle, syncing,
// scanning, ...).
func (f *Folder) Status() string {
	return f.state
}

// PauseToggle flips the folder's paused flag.
func (f *Folder) PauseToggle(ctx context.Context) error {
	return f.client.SetFolderPaused(ctx, f.ID, !f.Paused)
}

// State is one consistent snapshot of a Syncthing instance, shared by every
// syncthing item of a navigation step.
type State struct {
	client *Client

	// Initialized is false when the instance does not answer; items render a
	// notification instead of live data then.
	Initialized bool

	DevicesPaused []bool
	Folders       []*Folder
	SystemErrors  []SystemError
}

// Fetch builds a snapshot of the configured instance. An unreachable instance
// is not an error: the snapshot just stays uninitialized.
func Fetch(ctx context.Context, cfg *config.Config) (*State, error) {
	client := NewClient(cfg.MenuSyncthingAPIURL, cfg.MenuSyncthingAPIToken)
	state := &State{client: client}
	if !client.Ping(ctx) {
		return state, nil
	}

	doc, err := client.config(ctx)
	if err != nil {
		return nil, err
	}
	for _, device := range doc.Devices {
		state.DevicesPaused = append(state.DevicesPaused, device.Paused)
	}
	for _, folder := range doc.Folders {
		f := &Folder{
			client: client,
			ID:     folder.ID,
			Label:  folder.Label,
			Paused: folder.Paused,
		}
		if f.Paused {
			f.state = "paused"
		} else {
			// Both endpoints 404 on a paused folder, so they are only asked
			// for running ones.
			if f.Errors, err = client.folderErrors(ctx, f.ID); err != nil {
				return nil, err
			}
			if len(f.Errors) > 0 {
				f.state = "error"
			} else if f.state, err = client.folderState(ctx, f.ID); err != nil {
				return nil, err
			}
		}
		state.Folders = append(state.Folders, f)
	}
	sort.Slice(state.Folders, func(i, j int) bool {
		return state.Folders[i].Label < state.Folders[j].Label
	})

	if state.SystemErrors, err = client.systemErrors(ctx); err != nil {
		return nil, err
	}
	state.Initialized = true
	return state, nil
}

// Paused reports whether every device is paused.
func (s *State) Paused() bool {
	for _, paused := range s.DevicesPaused {
		if !paused {
			return false
		}
	}
	return true
}

// AllFoldersPaused reports whether every folder is paused.
func (s *State) AllFoldersPaused() bool {
	for _, folder := range s.Folders {
		if !folder.Paused {
			return false
		}
	}
	return true
}

// HasErrors reports whether any folder or system error exists.
func (s *State) HasErrors() bool {
	if len(s.SystemErrors) > 0 {
		return true
	}
	for _, folder := range s.Folders {
		if len(folder.Errors) > 0 {
			return true
		}
	}
	return false
}

// Status is "error", "paused" or "active".
func (s *State) Status() string {
	switch {
	case s.HasErrors():
		return "error"
	case s.Paused() || s.AllFoldersPaused():
		return "paused"
	default:
		return "active"
	}
}

// Idle reports whether every folder is idle or paused.
func (s *State) Idle() bool {
	for _, folder := range s.Folders {
		if folder.Status() != "idle" && folder.Status() != "paused" {
			return false
		}
	}
	return true
}

// FolderStatuses returns the distinct folder statuses, sorted.
func (s *State) FolderStatuses() []string {
	seen := make(map[string]bool)
	var statuses []string
	for _, folder := range s.Folders {
		if !seen[folder.Status()] {
			seen[folder.Status()] = true
			statuses = append(statuses, folder.Status())
		}
	}
	sort.Strings(statuses)
	return statuses
}

// FolderByIDOrName returns the folder whose id or label equals text, or nil.
func (s *State) FolderByIDOrName(text string) *Folder {
	for _, folder := range s.Folders {
		if folder.ID == text || folder.Label == text {
			return folder
		}
	}
	return nil
}

// PauseToggle pauses the instance when running and resumes it when paused.
func (s *State) PauseToggle(ctx context.Context) error {
	if s.Paused() {
		return s.client.SystemResume(ctx)
	}
	return s.client.SystemPause(ctx)
}

// sharedState returns the navigation step's snapshot, fetching it on first
// use. Every syncthing item of the step shares one snapshot.
func sharedState(ctx context.Context, deps *item.Deps) (*State, error) {
	value, err := deps.Cache.Get("syncthing", func() (any, error) {
		return Fetch(ctx, deps.Config)
	})
	if err != nil {
		return nil, err
	}
	return value.(*State), nil
}
