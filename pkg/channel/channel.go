package channel

import (
	"context"

	"ragbot/pkg/bus"
)

// Handler processes one inbound user message and returns the single reply.
type Handler func(context.Context, bus.InboundMessage) (bus.OutboundMessage, error)

// CallbackHandler processes one button-press callback and returns the reply
// that replaces or follows the originating menu message.
type CallbackHandler func(context.Context, bus.CallbackMessage) (bus.OutboundMessage, error)

// CommandHandler processes one slash command (without the leading slash).
type CommandHandler func(ctx context.Context, command, senderID, chatID string) (bus.OutboundMessage, error)

// Handlers bundles the three event pathways an adapter feeds.
type Handlers struct {
	Message  Handler
	Callback CallbackHandler
	Command  CommandHandler
}

// Adapter bridges one external transport (for example Telegram) into the bot.
type Adapter interface {
	Name() string
	Run(context.Context, Handlers) error
}

// Notifier lets the dispatcher surface a typing/processing indicator on the
// originating chat while a remote call is in flight. The returned stop
// function must be called when the work completes.
type Notifier interface {
	Typing(ctx context.Context, chatID string) (stop func())
}

// NoopNotifier satisfies Notifier without any side effect.
type NoopNotifier struct{}

func (NoopNotifier) Typing(context.Context, string) func() { return func() {} }
