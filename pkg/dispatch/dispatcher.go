package dispatch

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"ragbot/pkg/bus"
	"ragbot/pkg/channel"
	"ragbot/pkg/markup"
	"ragbot/pkg/ragclient"
	"ragbot/pkg/state"
)

// defaultDocumentQuery is used when a document arrives without a caption;
// an uploaded document is never silently dropped.
const defaultDocumentQuery = "What is this document about?"

const unsupportedReply = "🤔 I can help with text questions, voice messages, audio files, " +
	"and documents. Send one of those, or use /help to see what I can do."

// Per-user counter keys kept in the transient state bag.
const (
	counterQueries   = "queries"
	counterDocuments = "documents"
	counterVoice     = "voice"
)

// QueryClient is the outbound surface of the RAG backend the dispatcher needs.
type QueryClient interface {
	QueryText(ctx context.Context, query string) (ragclient.Result, error)
	QueryTextWithFile(ctx context.Context, query string, file []byte, filename string) (ragclient.Result, error)
	SpeechToText(ctx context.Context, audio []byte, filename string) (ragclient.Result, error)
}

// Dispatcher classifies inbound messages and routes them to the RAG backend.
type Dispatcher struct {
	rag      QueryClient
	store    *state.Store
	notifier channel.Notifier
	log      *slog.Logger
}

func NewDispatcher(rag QueryClient, store *state.Store, notifier channel.Notifier, log *slog.Logger) *Dispatcher {
	if notifier == nil {
		notifier = channel.NoopNotifier{}
	}
	if log == nil {
		log = slog.Default()
	}

	return &Dispatcher{
		rag:      rag,
		store:    store,
		notifier: notifier,
		log:      log.With("component", "dispatch"),
	}
}

// Handle produces exactly one reply for one inbound message. Backend and
// transport failures are folded into user-safe error replies; Handle never
// returns them as errors.
func (d *Dispatcher) Handle(ctx context.Context, msg bus.InboundMessage) (bus.OutboundMessage, error) {
	kind := bus.Classify(msg)
	log := d.log.With("chat_id", msg.ChatID, "sender_id", msg.SenderID, "kind", string(kind))
	log.Info("Dispatching message")

	switch kind {
	case bus.KindVoice:
		return d.handleSpeech(ctx, msg, msg.Voice, log), nil
	case bus.KindAudio:
		return d.handleSpeech(ctx, msg, msg.Audio, log), nil
	case bus.KindDocument:
		return d.handleDocument(ctx, msg, defaultDocumentQuery, log), nil
	case bus.KindDocumentCaption:
		return d.handleDocument(ctx, msg, strings.TrimSpace(msg.Caption), log), nil
	case bus.KindText:
		return d.handleText(ctx, msg, log), nil
	default:
		return reply(msg, unsupportedReply), nil
	}
}

func (d *Dispatcher) handleText(ctx context.Context, msg bus.InboundMessage, log *slog.Logger) bus.OutboundMessage {
	stop := d.notifier.Typing(ctx, msg.ChatID)
	result, err := d.rag.QueryText(ctx, msg.Text)
	stop()
	if err != nil {
		log.Error("Text query could not be built", "error", err)
		return errorReply(msg, ragclient.UnknownErrorMessage())
	}
	if !result.OK {
		return errorReply(msg, result.ErrorDetail)
	}

	d.store.Incr(msg.SenderID, counterQueries, 1)
	return reply(msg, result.Response)
}

func (d *Dispatcher) handleDocument(ctx context.Context, msg bus.InboundMessage, query string, log *slog.Logger) bus.OutboundMessage {
	doc := msg.Document

	stop := d.notifier.Typing(ctx, msg.ChatID)
	result, err := d.rag.QueryTextWithFile(ctx, query, doc.Data, doc.Filename)
	stop()
	if err != nil {
		log.Error("File query could not be built", "error", err)
		return errorReply(msg, ragclient.UnknownErrorMessage())
	}
	if !result.OK {
		return errorReply(msg, result.ErrorDetail)
	}

	d.store.Incr(msg.SenderID, counterQueries, 1)
	d.store.Incr(msg.SenderID, counterDocuments, 1)
	return reply(msg, result.Response)
}

func (d *Dispatcher) handleSpeech(ctx context.Context, msg bus.InboundMessage, audio *bus.Attachment, log *slog.Logger) bus.OutboundMessage {
	stop := d.notifier.Typing(ctx, msg.ChatID)
	result, err := d.rag.SpeechToText(ctx, audio.Data, audioFilename(audio))
	stop()
	if err != nil {
		log.Error("Speech query could not be built", "error", err)
		return errorReply(msg, ragclient.UnknownErrorMessage())
	}
	if !result.OK {
		return errorReply(msg, result.ErrorDetail)
	}

	d.store.Incr(msg.SenderID, counterQueries, 1)
	d.store.Incr(msg.SenderID, counterVoice, 1)

	// Both the transcription and the answer are surfaced to the user.
	return reply(msg, fmt.Sprintf("🗣️ %s\n\n%s", result.Transcription, result.Response))
}

// audioFilename derives an upload filename when Telegram supplies none; the
// backend routes transcoding on the extension.
func audioFilename(audio *bus.Attachment) string {
	if strings.TrimSpace(audio.Filename) != "" {
		return audio.Filename
	}

	ext := "ogg"
	if idx := strings.LastIndex(audio.MIMEType, "/"); idx >= 0 && idx+1 < len(audio.MIMEType) {
		ext = audio.MIMEType[idx+1:]
	}
	return "audio." + ext
}

// reply sanitizes backend-produced text and wraps it for MarkdownV2 delivery.
func reply(msg bus.InboundMessage, text string) bus.OutboundMessage {
	return bus.OutboundMessage{
		Channel:   msg.Channel,
		ChatID:    msg.ChatID,
		Content:   markup.EscapeMarkdownV2(text),
		ParseMode: bus.ParseMarkdownV2,
	}
}

func errorReply(msg bus.InboundMessage, detail string) bus.OutboundMessage {
	return reply(msg, "⚠️ "+detail)
}
