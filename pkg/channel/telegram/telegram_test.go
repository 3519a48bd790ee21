package telegram

import (
	"strings"
	"testing"

	"ragbot/pkg/bus"
	"ragbot/pkg/menu"
)

func TestAllowFromSet(t *testing.T) {
	allowed := allowFromSet([]string{" 123 ", "", "456", "123"})
	if len(allowed) != 2 {
		t.Fatalf("allowFromSet len = %d, want 2", len(allowed))
	}
	if _, ok := allowed["123"]; !ok {
		t.Fatal("allowFromSet missing 123")
	}
	if _, ok := allowed["456"]; !ok {
		t.Fatal("allowFromSet missing 456")
	}
}

func TestSenderAllowed(t *testing.T) {
	adapter := &Adapter{allowFrom: map[string]struct{}{"1": {}}}
	if !adapter.senderAllowed("1") {
		t.Fatal("expected sender 1 to be allowed")
	}
	if adapter.senderAllowed("2") {
		t.Fatal("expected sender 2 to be denied")
	}

	adapter.allowFrom = nil
	if !adapter.senderAllowed("any") {
		t.Fatal("expected sender to be allowed when allowlist empty")
	}
}

func TestParseCommand(t *testing.T) {
	cases := []struct {
		text  string
		want  string
		isCmd bool
	}{
		{"/start", "start", true},
		{" /HELP ", "help", true},
		{"/menu@ragbot", "menu", true},
		{"/settings extra words", "settings", true},
		{"plain question", "", false},
		{"", "", false},
		{"/", "", false},
	}

	for _, tc := range cases {
		got, ok := parseCommand(tc.text)
		if ok != tc.isCmd || got != tc.want {
			t.Fatalf("parseCommand(%q) = %q, %v; want %q, %v", tc.text, got, ok, tc.want, tc.isCmd)
		}
	}
}

func TestParseModeMapping(t *testing.T) {
	if got := parseMode(bus.ParseMarkdownV2); got != "MarkdownV2" {
		t.Fatalf("parseMode markdownv2 = %q", got)
	}
	if got := parseMode(bus.ParseHTML); got != "HTML" {
		t.Fatalf("parseMode html = %q", got)
	}
	if got := parseMode(bus.ParsePlain); got != "" {
		t.Fatalf("parseMode plain = %q, want empty", got)
	}
}

func TestInlineKeyboardConversion(t *testing.T) {
	rows := [][]bus.Button{
		{{Label: "Help", Action: "help"}, {Label: "Web", URL: "https://example.com"}},
		{{Label: "Back", Action: "main"}},
	}

	keyboard := inlineKeyboard(rows)
	if keyboard == nil {
		t.Fatal("expected keyboard")
	}
	if len(keyboard.InlineKeyboard) != 2 {
		t.Fatalf("rows = %d, want 2", len(keyboard.InlineKeyboard))
	}
	if keyboard.InlineKeyboard[0][0].CallbackData != "help" {
		t.Fatalf("callback data = %q", keyboard.InlineKeyboard[0][0].CallbackData)
	}
	if keyboard.InlineKeyboard[0][1].URL != "https://example.com" {
		t.Fatalf("url = %q", keyboard.InlineKeyboard[0][1].URL)
	}
	if keyboard.InlineKeyboard[0][1].CallbackData != "" {
		t.Fatal("url button must not carry callback data")
	}

	if inlineKeyboard(nil) != nil {
		t.Fatal("empty rows must produce no keyboard")
	}
}

func TestReplyMarkupPrecedence(t *testing.T) {
	remove := replyMarkup(bus.OutboundMessage{RemoveKeyboard: true, ReplyKeyboard: [][]string{{"a"}}})
	if remove.ReplyType() != "ReplyKeyboardRemove" {
		t.Fatalf("reply type = %q, want remove to win", remove.ReplyType())
	}

	reply := replyMarkup(bus.OutboundMessage{ReplyKeyboard: [][]string{{"🆘 Help", "⚙️ Settings"}}})
	if reply.ReplyType() != "ReplyKeyboardMarkup" {
		t.Fatalf("reply type = %q", reply.ReplyType())
	}

	if markup := replyMarkup(bus.OutboundMessage{}); markup != nil {
		t.Fatal("no keyboard fields must produce nil markup")
	}
}

func TestPreviewText(t *testing.T) {
	short := " hello "
	if got := previewText(short); got != "hello" {
		t.Fatalf("previewText short = %q, want %q", got, "hello")
	}

	long := strings.Repeat("a", messagePreviewLimit+20)
	got := previewText(long)
	if len(got) != messagePreviewLimit+3 {
		t.Fatalf("previewText long len = %d, want %d", len(got), messagePreviewLimit+3)
	}
	if !strings.HasSuffix(got, "...") {
		t.Fatalf("previewText long = %q, want ellipsis suffix", got)
	}
}

func TestReplyKeyboardCommand(t *testing.T) {
	cases := []struct {
		text    string
		command string
		ok      bool
	}{
		{"🆘 Help", "help", true},
		{"⚙️ Settings", "settings", true},
		{"📋 Menu", "menu", true},
		{"❌ Hide Keyboard", "hide", true},
		{"  📋 Menu  ", "menu", true},
		{"📋 menu", "", false},
		{"what is a lawful basis?", "", false},
		{"", "", false},
	}

	for _, tc := range cases {
		command, ok := replyKeyboardCommand(tc.text)
		if ok != tc.ok || command != tc.command {
			t.Fatalf("replyKeyboardCommand(%q) = (%q, %v), want (%q, %v)", tc.text, command, ok, tc.command, tc.ok)
		}
	}
}

// Every button on the quick-access reply keyboard must resolve to a command;
// an unmapped label would fall through to the backend as a query.
func TestReplyKeyboardCoversQuickAccessScreen(t *testing.T) {
	graph, err := menu.NewDefaultGraph()
	if err != nil {
		t.Fatalf("NewDefaultGraph: %v", err)
	}

	out, err := graph.Render(menu.ScreenQuickAccess)
	if err != nil {
		t.Fatalf("Render quick-access: %v", err)
	}
	if len(out.ReplyKeyboard) == 0 {
		t.Fatal("quick-access screen has no reply keyboard rows")
	}

	for _, row := range out.ReplyKeyboard {
		for _, label := range row {
			if _, ok := replyKeyboardCommand(label); !ok {
				t.Fatalf("reply keyboard label %q has no command mapping", label)
			}
		}
	}
}
