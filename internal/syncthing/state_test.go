package syncthing

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"simplemenu/internal/config"
)

// fakeInstance serves a small Syncthing REST API surface.
type fakeInstance struct {
	t        *testing.T
	apiKey   string
	config   string
	folders  map[string]string // folder id -> db state
	errors   map[string]string // folder id -> folder error body
	system   string
	requests atomic.Int32
	patches  []string
	actions  []string
}

func (f *fakeInstance) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.requests.Add(1)
		if got := r.Header.Get("X-API-Key"); got != f.apiKey {
			f.t.Errorf("X-API-Key = %q; want %q", got, f.apiKey)
		}

		switch {
		case r.URL.Path == "/rest/system/ping":
			w.Write([]byte(`{"ping": "pong"}`))
		case r.URL.Path == "/rest/config":
			w.Write([]byte(f.config))
		case r.URL.Path == "/rest/folder/errors":
			id := r.URL.Query().Get("folder")
			if body, ok := f.errors[id]; ok {
				w.Write([]byte(body))
				return
			}
			w.Write([]byte(`{"errors": null}`))
		case r.URL.Path == "/rest/db/status":
			id := r.URL.Query().Get("folder")
			state, ok := f.folders[id]
			if !ok {
				http.Error(w, "no such folder", http.StatusNotFound)
				return
			}
			w.Write([]byte(`{"state": "` + state + `"}`))
		case r.URL.Path == "/rest/system/error":
			w.Write([]byte(f.system))
		case r.URL.Path == "/rest/system/pause" || r.URL.Path == "/rest/system/resume":
			f.actions = append(f.actions, r.URL.Path)
			w.Write([]byte("{}"))
		case r.Method == http.MethodPatch:
			f.patches = append(f.patches, r.URL.Path)
			w.Write([]byte("{}"))
		default:
			http.Error(w, "unexpected request: "+r.URL.Path, http.StatusNotFound)
		}
	})
}

func testConfig(url string) *config.Config {
	return &config.Config{
		MenuSyncthingAPIURL:   url,
		MenuSyncthingAPIToken: "test-key",
		Interface:             config.InterfaceFzf,
		TokenSeparators:       []string{"::"},
	}
}

func TestFetch(t *testing.T) {
	instance := &fakeInstance{
		t:      t,
		apiKey: "test-key",
		config: `{
			"devices": [{"paused": false}, {"paused": true}],
			"folders": [
				{"id": "zzz", "label": "Work", "paused": false},
				{"id": "aaa", "label": "Music", "paused": true},
				{"id": "bbb", "label": "Broken", "paused": false}
			]
		}`,
		folders: map[string]string{"zzz": "idle"},
		errors: map[string]string{
			"bbb": `{"errors": [{"path": "/data/x", "error": "permission denied"}]}`,
		},
		system: `{"errors": null}`,
	}
	server := httptest.NewServer(instance.handler())
	defer server.Close()

	state, err := Fetch(context.Background(), testConfig(server.URL))
	require.NoError(t, err)
	require.True(t, state.Initialized)

	assert.Equal(t, []bool{false, true}, state.DevicesPaused)
	require.Len(t, state.Folders, 3)

	// Sorted by label.
	assert.Equal(t, "Broken", state.Folders[0].Label)
	assert.Equal(t, "Music", state.Folders[1].Label)
	assert.Equal(t, "Work", state.Folders[2].Label)

	assert.Equal(t, "error", state.Folders[0].Status())
	assert.Equal(t, "paused", state.Folders[1].Status())
	assert.Equal(t, "idle", state.Folders[2].Status())

	assert.False(t, state.Paused())
	assert.False(t, state.AllFoldersPaused())
	assert.True(t, state.HasErrors())
	assert.Equal(t, "error", state.Status())
	assert.False(t, state.Idle())
	assert.Equal(t, []string{"error", "idle", "paused"}, state.FolderStatuses())
}

func TestFetchUnreachable(t *testing.T) {
	state, err := Fetch(context.Background(), testConfig("http://127.0.0.1:1"))
	require.NoError(t, err)
	assert.False(t, state.Initialized)
	assert.Empty(t, state.Folders)
	// An uninitialized snapshot still answers status queries.
	assert.Equal(t, "paused", state.Status())
}

func TestFetchSkipsPausedFolderEndpoints(t *testing.T) {
	instance := &fakeInstance{
		t:      t,
		apiKey: "test-key",
		config: `{
			"devices": [],
			"folders": [{"id": "p1", "label": "Paused", "paused": true}]
		}`,
		// No db/status or folder/errors entries exist for p1; asking for them
		// would 404 and fail the fetch.
		folders: map[string]string{},
		system:  `{"errors": null}`,
	}
	server := httptest.NewServer(instance.handler())
	defer server.Close()

	state, err := Fetch(context.Background(), testConfig(server.URL))
	require.NoError(t, err)
	require.Len(t, state.Folders, 1)
	assert.Equal(t, "paused", state.Folders[0].Status())
	assert.Empty(t, state.Folders[0].Errors)
	assert.True(t, state.AllFoldersPaused())
}

func TestFolderByIDOrName(t *testing.T) {
	state := &State{Folders: []*Folder{
		{ID: "aaa", Label: "Music"},
		{ID: "bbb", Label: "Work"},
	}}

	assert.Equal(t, state.Folders[0], state.FolderByIDOrName("aaa"))
	assert.Equal(t, state.Folders[1], state.FolderByIDOrName("Work"))
	assert.Nil(t, state.FolderByIDOrName("nope"))
}

func TestPauseToggle(t *testing.T) {
	instance := &fakeInstance{
		t:      t,
		apiKey: "test-key",
		config: `{"devices": [{"paused": false}], "folders": []}`,
		system: `{"errors": null}`,
	}
	server := httptest.NewServer(instance.handler())
	defer server.Close()

	state, err := Fetch(context.Background(), testConfig(server.URL))
	require.NoError(t, err)

	require.NoError(t, state.PauseToggle(context.Background()))
	assert.Equal(t, []string{"/rest/system/pause"}, instance.actions)

	state.DevicesPaused = []bool{true}
	require.NoError(t, state.PauseToggle(context.Background()))
	assert.Equal(t, []string{"/rest/system/pause", "/rest/system/resume"}, instance.actions)
}

func TestFolderPauseToggle(t *testing.T) {
	instance := &fakeInstance{
		t:      t,
		apiKey: "test-key",
		config: `{"devices": [], "folders": [{"id": "f1", "label": "F", "paused": false}]}`,
		folders: map[string]string{
			"f1": "idle",
		},
		system: `{"errors": null}`,
	}
	server := httptest.NewServer(instance.handler())
	defer server.Close()

	state, err := Fetch(context.Background(), testConfig(server.URL))
	require.NoError(t, err)
	require.Len(t, state.Folders, 1)

	require.NoError(t, state.Folders[0].PauseToggle(context.Background()))
	assert.Equal(t, []string{"/rest/config/folders/f1"}, instance.patches)
}

func TestClientCachesGets(t *testing.T) {
	instance := &fakeInstance{
		t:      t,
		apiKey: "test-key",
	}
	server := httptest.NewServer(instance.handler())
	defer server.Close()

	client := NewClient(server.URL, "test-key")
	ctx := context.Background()

	require.True(t, client.Ping(ctx))
	require.True(t, client.Ping(ctx))
	assert.Equal(t, int32(1), instance.requests.Load())
}

func TestClientErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "denied", http.StatusForbidden)
	}))
	defer server.Close()

	client := NewClient(server.URL, "wrong-key")
	_, err := client.config(context.Background())
	require.Error(t, err)
	assert.False(t, client.Ping(context.Background()))
}
