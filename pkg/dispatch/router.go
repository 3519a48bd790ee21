package dispatch

import (
	"context"
	"fmt"
	"log/slog"

	"ragbot/pkg/bus"
	"ragbot/pkg/menu"
	"ragbot/pkg/state"
)

const unknownActionReply = "❌ Unknown action. The menu may have changed - try /menu for a fresh one."

const unknownCommandReply = "❌ Unknown command. Use /help to see what I understand."

// actionFunc executes one terminal action's side effect and returns the
// confirmation reply.
type actionFunc func(userID string) (bus.OutboundMessage, error)

// Router maps button-press callbacks and slash commands onto the menu graph.
type Router struct {
	graph   *menu.Graph
	store   *state.Store
	actions map[string]actionFunc
	log     *slog.Logger
}

// NewRouter builds the callback router and validates the action table
// against the graph: an action registered here but unknown to the graph (or
// vice versa) is a startup error, so stale wiring never reaches a user.
func NewRouter(graph *menu.Graph, store *state.Store, log *slog.Logger) (*Router, error) {
	if log == nil {
		log = slog.Default()
	}

	r := &Router{
		graph: graph,
		store: store,
		log:   log.With("component", "router"),
	}

	r.actions = map[string]actionFunc{
		menu.ActionClearHistory:  r.clearHistory,
		menu.ActionRestart:       r.restart,
		menu.ActionConfirmExport: r.confirmExport,
		menu.ActionUsageStats:    r.usageStats,
	}

	for id := range r.actions {
		if !graph.IsAction(id) {
			return nil, fmt.Errorf("action %q is not registered in the menu graph", id)
		}
	}
	for _, id := range menu.Actions() {
		if _, ok := r.actions[id]; !ok {
			return nil, fmt.Errorf("menu action %q has no handler", id)
		}
	}

	return r, nil
}

// HandleCallback resolves one button press. Unknown action ids produce a
// visible notice, never an error: stale buttons from an older menu revision
// must not crash the handler.
func (r *Router) HandleCallback(ctx context.Context, cb bus.CallbackMessage) (bus.OutboundMessage, error) {
	_ = ctx

	log := r.log.With("chat_id", cb.ChatID, "sender_id", cb.SenderID, "action", cb.Action)
	log.Info("Handling callback")

	if r.graph.HasScreen(cb.Action) {
		out, err := r.graph.Render(cb.Action)
		if err != nil {
			return bus.OutboundMessage{}, err
		}
		return addressed(out, cb.Channel, cb.ChatID), nil
	}

	if action, ok := r.actions[cb.Action]; ok {
		out, err := action(cb.SenderID)
		if err != nil {
			return bus.OutboundMessage{}, err
		}
		return addressed(out, cb.Channel, cb.ChatID), nil
	}

	log.Warn("Unknown callback action")
	return bus.OutboundMessage{
		Channel: cb.Channel,
		ChatID:  cb.ChatID,
		Content: unknownActionReply,
	}, nil
}

// HandleCommand maps one slash command to its root-level menu render.
func (r *Router) HandleCommand(ctx context.Context, command, senderID, chatID string) (bus.OutboundMessage, error) {
	_ = ctx

	r.log.Info("Handling command", "command", command, "chat_id", chatID, "sender_id", senderID)

	var (
		out bus.OutboundMessage
		err error
	)

	switch command {
	case "start", "menu":
		out, err = r.graph.Render(menu.ScreenMain)
	case "help":
		out, err = r.graph.Render(menu.ScreenHelp)
	case "settings":
		out, err = r.graph.Render(menu.ScreenSettings)
	case "restart":
		out, err = r.restart(senderID)
	case "keyboard":
		out, err = r.graph.Render(menu.ScreenQuickAccess)
	case "hide":
		out, err = r.graph.Render(menu.ScreenKeyboardHidden)
	default:
		return bus.OutboundMessage{ChatID: chatID, Content: unknownCommandReply}, nil
	}
	if err != nil {
		return bus.OutboundMessage{}, err
	}

	return addressed(out, "", chatID), nil
}

func (r *Router) clearHistory(userID string) (bus.OutboundMessage, error) {
	r.store.Clear(userID)
	return r.graph.Render(menu.ScreenHistoryCleared)
}

func (r *Router) restart(userID string) (bus.OutboundMessage, error) {
	r.store.Clear(userID)
	return r.graph.Render(menu.ScreenRestarted)
}

func (r *Router) confirmExport(string) (bus.OutboundMessage, error) {
	return r.graph.Render(menu.ScreenExportDone)
}

func (r *Router) usageStats(userID string) (bus.OutboundMessage, error) {
	out, err := r.graph.Render(menu.ScreenStats)
	if err != nil {
		return bus.OutboundMessage{}, err
	}

	out.Content = fmt.Sprintf(menu.StatsBodyTemplate,
		r.store.GetInt(userID, counterQueries),
		r.store.GetInt(userID, counterDocuments),
		r.store.GetInt(userID, counterVoice),
	)
	return out, nil
}

func addressed(out bus.OutboundMessage, channelName, chatID string) bus.OutboundMessage {
	out.Channel = channelName
	out.ChatID = chatID
	return out
}
