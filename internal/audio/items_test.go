package audio

import (
	"context"
	"testing"

	"simplemenu/internal/config"
	"simplemenu/internal/errors"
	exe "simplemenu/internal/exec"
	"simplemenu/internal/item"
	"simplemenu/internal/token"
)

func itemDeps(t *testing.T, ignore ...string) *item.Deps {
	t.Helper()
	stubDump(t, `cat "$DUMP_FIXTURE"`)
	t.Setenv("DUMP_FIXTURE", fixtureFile(t))

	ignored := make(map[string]bool, len(ignore))
	for _, name := range ignore {
		ignored[name] = true
	}
	return &item.Deps{
		Config: &config.Config{
			Interface:            config.InterfaceFzf,
			TokenSeparators:      []string{"::", ",,"},
			MenuSoundIgnoreNodes: ignored,
		},
		Cache:  item.NewCache(),
		Runner: exe.New(),
	}
}

func TestRootMenuProduceText(t *testing.T) {
	deps := itemDeps(t)
	ctx := context.Background()

	m, err := NewMenu(deps, "")
	if err != nil {
		t.Fatalf("NewMenu returned error: %v", err)
	}
	if err := m.ProduceText(ctx); err != nil {
		t.Fatalf("ProduceText returned error: %v", err)
	}

	if m.Texts.Type != token.TypeMenu || m.Texts.Category != "Audio" {
		t.Errorf("type/category = %q/%q", m.Texts.Type, m.Texts.Category)
	}
	if m.Texts.Status != "<volume-max>" {
		t.Errorf("Status = %q; want <volume-max>", m.Texts.Status)
	}
	want := "Speakers(50%) / <microphone-muted> Microphone(100%)"
	if m.Texts.Text != want {
		t.Errorf("Text = %q; want %q", m.Texts.Text, want)
	}
}

func TestRootMenuSetItems(t *testing.T) {
	ctx := context.Background()

	t.Run("all objects", func(t *testing.T) {
		m, err := NewMenu(itemDeps(t), "")
		if err != nil {
			t.Fatalf("NewMenu returned error: %v", err)
		}
		if err := m.SetItems(ctx); err != nil {
			t.Fatalf("SetItems returned error: %v", err)
		}
		// Card, sink, source and one stream.
		if len(m.Entries) != 4 {
			t.Errorf("got %d entries; want 4", len(m.Entries))
		}
	})

	t.Run("ignored node is skipped", func(t *testing.T) {
		m, err := NewMenu(itemDeps(t, "Speakers"), "")
		if err != nil {
			t.Fatalf("NewMenu returned error: %v", err)
		}
		if err := m.SetItems(ctx); err != nil {
			t.Fatalf("SetItems returned error: %v", err)
		}
		if len(m.Entries) != 3 {
			t.Errorf("got %d entries; want 3", len(m.Entries))
		}
	})
}

func TestNodeMenuProduceText(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		value      string
		wantCat    string
		wantStatus string
		wantText   string
		wantTitle  string
	}{
		{
			name:       "default sink",
			value:      "50",
			wantCat:    "Output",
			wantStatus: "<ok> <speaker>",
			wantText:   "( 50%) Speakers",
			wantTitle:  "Audio/Output/<Speakers>",
		},
		{
			name:       "muted default source",
			value:      "51",
			wantCat:    "Input",
			wantStatus: "<ok> <microphone-muted>",
			wantText:   "(100%) Microphone",
			wantTitle:  "Audio/Input/<Microphone>",
		},
		{
			name:       "playback stream",
			value:      "60",
			wantCat:    "Playback",
			wantStatus: "<playing>",
			wantText:   "(100%) mpv:Music",
			wantTitle:  "Audio/Playback/<mpv:Music>",
		},
		{
			name:      "card",
			value:     "40",
			wantCat:   "Card",
			wantText:  "Test Card",
			wantTitle: "Audio/Card/<Test Card>",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := newNodeMenu(itemDeps(t), tt.value)
			if err != nil {
				t.Fatalf("newNodeMenu returned error: %v", err)
			}
			if err := m.ProduceText(ctx); err != nil {
				t.Fatalf("ProduceText returned error: %v", err)
			}
			if m.Texts.Category != tt.wantCat {
				t.Errorf("Category = %q; want %q", m.Texts.Category, tt.wantCat)
			}
			if m.Texts.Status != tt.wantStatus {
				t.Errorf("Status = %q; want %q", m.Texts.Status, tt.wantStatus)
			}
			if m.Texts.Text != tt.wantText {
				t.Errorf("Text = %q; want %q", m.Texts.Text, tt.wantText)
			}
			if m.Title != tt.wantTitle {
				t.Errorf("Title = %q; want %q", m.Title, tt.wantTitle)
			}
		})
	}
}

func TestNodeMenuVanishedObject(t *testing.T) {
	m, err := newNodeMenu(itemDeps(t), "999")
	if err != nil {
		t.Fatalf("newNodeMenu returned error: %v", err)
	}
	if err := m.ProduceText(context.Background()); err != nil {
		t.Fatalf("ProduceText returned error: %v", err)
	}
	if m.Visible() {
		t.Error("vanished object should be invisible")
	}
}

func TestNodeMenuBadID(t *testing.T) {
	m, err := newNodeMenu(itemDeps(t), "not-a-number")
	if err != nil {
		t.Fatalf("newNodeMenu returned error: %v", err)
	}
	if err := m.ProduceText(context.Background()); !errors.IsType(err, errors.DecodeFailed) {
		t.Errorf("ProduceText = %v; want DecodeFailed", err)
	}
}

func TestNodeMenuSetItems(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name  string
		value string
		want  int
	}{
		{"card gets profile and port submenus", "40", 2},
		{"endpoint gets the four actions", "50", 4},
		{"stream gets actions plus destinations", "60", 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := newNodeMenu(itemDeps(t), tt.value)
			if err != nil {
				t.Fatalf("newNodeMenu returned error: %v", err)
			}
			if err := m.SetItems(ctx); err != nil {
				t.Fatalf("SetItems returned error: %v", err)
			}
			if len(m.Entries) != tt.want {
				t.Errorf("got %d entries; want %d", len(m.Entries), tt.want)
			}
		})
	}
}

func TestDeviceMenu(t *testing.T) {
	ctx := context.Background()

	m, err := newDeviceMenu(itemDeps(t), "profiles::40")
	if err != nil {
		t.Fatalf("newDeviceMenu returned error: %v", err)
	}
	if err := m.ProduceText(ctx); err != nil {
		t.Fatalf("ProduceText returned error: %v", err)
	}
	if m.Texts.Category != "Profile" || m.Texts.Text != "Stereo Duplex" {
		t.Errorf("texts = %q/%q", m.Texts.Category, m.Texts.Text)
	}
	if m.Title != "Audio/Card/<Test Card>/Profiles" {
		t.Errorf("Title = %q", m.Title)
	}

	if err := m.SetItems(ctx); err != nil {
		t.Fatalf("SetItems returned error: %v", err)
	}
	// The current profile notification plus the one other profile.
	if len(m.Entries) != 2 {
		t.Fatalf("got %d entries; want 2", len(m.Entries))
	}
	if m.Entries[0].Variant != "item" {
		t.Errorf("entry 0 variant = %q; want the notification item", m.Entries[0].Variant)
	}
}

func TestDeviceChangeProduceText(t *testing.T) {
	c := newDeviceChange(itemDeps(t), "profiles::40::0")
	if err := c.ProduceText(context.Background()); err != nil {
		t.Fatalf("ProduceText returned error: %v", err)
	}
	if c.Texts.Text != "Off (available yes)" {
		t.Errorf("Text = %q; want %q", c.Texts.Text, "Off (available yes)")
	}
}

func TestNodeChangeProduceText(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		value      string
		wantType   token.Type
		wantStatus string
		wantText   string
	}{
		{
			name:       "already default",
			value:      "setdefault::50",
			wantType:   token.TypeNotification,
			wantStatus: "<ok>",
			wantText:   "already default sink",
		},
		{
			name:       "volume up",
			value:      "volume+::50",
			wantType:   token.TypeAction,
			wantStatus: "50% <upper>",
			wantText:   "volume",
		},
		{
			name:       "volume down on stream",
			value:      "volume-::60",
			wantType:   token.TypeAction,
			wantStatus: "100% <lower>",
			wantText:   "volume",
		},
		{
			name:       "toggle mute on muted source",
			value:      "togglemute::51",
			wantType:   token.TypeAction,
			wantStatus: "<volume-muted>",
			wantText:   "toggle (un)mute",
		},
		{
			name:       "stream already playing on its sink",
			value:      "move::60::50",
			wantType:   token.TypeNotification,
			wantStatus: "<ok>",
			wantText:   "playing on: Speakers",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := newNodeChange(itemDeps(t), tt.value)
			if err != nil {
				t.Fatalf("newNodeChange returned error: %v", err)
			}
			if err := c.ProduceText(ctx); err != nil {
				t.Fatalf("ProduceText returned error: %v", err)
			}
			if c.Texts.Type != tt.wantType {
				t.Errorf("Type = %q; want %q", c.Texts.Type, tt.wantType)
			}
			if c.Texts.Status != tt.wantStatus {
				t.Errorf("Status = %q; want %q", c.Texts.Status, tt.wantStatus)
			}
			if c.Texts.Text != tt.wantText {
				t.Errorf("Text = %q; want %q", c.Texts.Text, tt.wantText)
			}
		})
	}
}

func TestNodeChangeExecuteDefaultNoop(t *testing.T) {
	// The default sink is already default; no wpctl call must happen, so the
	// missing binary never gets a chance to fail the test.
	c, err := newNodeChange(itemDeps(t), "setdefault::50")
	if err != nil {
		t.Fatalf("newNodeChange returned error: %v", err)
	}
	if err := c.Execute(context.Background()); err != nil {
		t.Errorf("Execute = %v; want nil", err)
	}
}
