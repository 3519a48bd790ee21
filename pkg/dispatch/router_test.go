package dispatch

import (
	"context"
	"strings"
	"testing"

	"ragbot/pkg/bus"
	"ragbot/pkg/menu"
	"ragbot/pkg/state"
)

func newTestRouter(t *testing.T) (*Router, *state.Store) {
	t.Helper()

	graph, err := menu.NewDefaultGraph()
	if err != nil {
		t.Fatalf("NewDefaultGraph error: %v", err)
	}
	store := state.NewStore()
	router, err := NewRouter(graph, store, nil)
	if err != nil {
		t.Fatalf("NewRouter error: %v", err)
	}
	return router, store
}

func TestCallbackRendersScreen(t *testing.T) {
	router, _ := newTestRouter(t)

	out, err := router.HandleCallback(context.Background(), bus.CallbackMessage{
		Channel: "telegram", SenderID: "u1", ChatID: "c1", Action: menu.ScreenSettings,
	})
	if err != nil {
		t.Fatalf("HandleCallback error: %v", err)
	}
	if !strings.Contains(out.Content, "Settings") {
		t.Fatalf("settings body = %q", out.Content)
	}
	if out.ChatID != "c1" || out.Channel != "telegram" {
		t.Fatalf("reply addressing = %q/%q", out.Channel, out.ChatID)
	}
	if len(out.Keyboard) == 0 {
		t.Fatal("settings screen rendered without keyboard")
	}
}

func TestCallbackClearHistoryClearsBagAndConfirms(t *testing.T) {
	router, store := newTestRouter(t)
	store.Incr("u1", counterQueries, 7)
	store.Set("u1", "topic", "gdpr")

	out, err := router.HandleCallback(context.Background(), bus.CallbackMessage{
		SenderID: "u1", ChatID: "c1", Action: menu.ActionClearHistory,
	})
	if err != nil {
		t.Fatalf("HandleCallback error: %v", err)
	}

	if store.GetInt("u1", counterQueries) != 0 || store.Get("u1", "topic") != "" {
		t.Fatal("clear-history left data in the user bag")
	}
	if !strings.Contains(out.Content, "History Cleared") {
		t.Fatalf("confirmation body = %q", out.Content)
	}

	backToSettings := false
	for _, row := range out.Keyboard {
		for _, button := range row {
			if button.Action == menu.ScreenSettings {
				backToSettings = true
			}
		}
	}
	if !backToSettings {
		t.Fatal("confirmation screen has no transition back to settings")
	}
}

func TestCallbackUnknownActionIsVisibleNotice(t *testing.T) {
	router, _ := newTestRouter(t)

	out, err := router.HandleCallback(context.Background(), bus.CallbackMessage{
		SenderID: "u1", ChatID: "c1", Action: "xyz123",
	})
	if err != nil {
		t.Fatalf("unknown action must not error, got %v", err)
	}
	if !strings.Contains(out.Content, "Unknown action") {
		t.Fatalf("unknown-action reply = %q", out.Content)
	}
}

func TestCallbackUsageStatsReflectsCounters(t *testing.T) {
	router, store := newTestRouter(t)
	store.Incr("u1", counterQueries, 4)
	store.Incr("u1", counterDocuments, 2)
	store.Incr("u1", counterVoice, 1)

	out, err := router.HandleCallback(context.Background(), bus.CallbackMessage{
		SenderID: "u1", ChatID: "c1", Action: menu.ActionUsageStats,
	})
	if err != nil {
		t.Fatalf("HandleCallback error: %v", err)
	}
	if !strings.Contains(out.Content, "Questions asked:</b> 4") {
		t.Fatalf("stats body missing query count: %q", out.Content)
	}
	if !strings.Contains(out.Content, "Documents analyzed:</b> 2") {
		t.Fatalf("stats body missing document count: %q", out.Content)
	}
}

func TestCommandRouting(t *testing.T) {
	router, store := newTestRouter(t)
	store.Set("u1", "topic", "gdpr")

	cases := []struct {
		command string
		want    string
	}{
		{"start", "Welcome"},
		{"menu", "Welcome"},
		{"help", "Help Center"},
		{"settings", "Settings"},
		{"restart", "Conversation Restarted"},
		{"keyboard", "Quick Access"},
	}

	for _, tc := range cases {
		out, err := router.HandleCommand(context.Background(), tc.command, "u1", "c1")
		if err != nil {
			t.Fatalf("HandleCommand(%q) error: %v", tc.command, err)
		}
		if !strings.Contains(out.Content, tc.want) {
			t.Fatalf("HandleCommand(%q) = %q, want body containing %q", tc.command, out.Content, tc.want)
		}
	}

	if store.Get("u1", "topic") != "" {
		t.Fatal("/restart did not clear the user bag")
	}

	out, err := router.HandleCommand(context.Background(), "fly", "u1", "c1")
	if err != nil {
		t.Fatalf("unknown command must not error, got %v", err)
	}
	if !strings.Contains(out.Content, "Unknown command") {
		t.Fatalf("unknown-command reply = %q", out.Content)
	}
}

func TestCommandHideRemovesKeyboard(t *testing.T) {
	router, _ := newTestRouter(t)

	out, err := router.HandleCommand(context.Background(), "hide", "u1", "c1")
	if err != nil {
		t.Fatalf("HandleCommand error: %v", err)
	}
	if !out.RemoveKeyboard {
		t.Fatal("hide command did not request keyboard removal")
	}
}
