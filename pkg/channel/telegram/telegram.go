package telegram

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"ragbot/pkg/bus"
	"ragbot/pkg/channel"
	"ragbot/pkg/config"

	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"
)

const channelName = "telegram"
const messagePreviewLimit = 240
const typingRefreshInterval = 4 * time.Second

const panicReply = "⚠️ Sorry, something went wrong. Please try again or use /help."

var botCommands = []telego.BotCommand{
	{Command: "start", Description: "🚀 Start the bot and open the main menu"},
	{Command: "help", Description: "❓ Get help, tips, and guides"},
	{Command: "menu", Description: "📋 Show navigation options"},
	{Command: "settings", Description: "⚙️ Open the settings menu"},
	{Command: "restart", Description: "🔄 Reset the conversation"},
}

// Adapter bridges Telegram updates into bot inbound messages, callbacks,
// and commands. It also implements channel.Notifier for typing indicators.
type Adapter struct {
	cfg       config.TelegramConfig
	bot       *telego.Bot
	allowFrom map[string]struct{}
	log       *slog.Logger
}

// NewAdapter validates Telegram configuration and constructs an adapter
// instance. A missing bot token is a fatal configuration error.
func NewAdapter(cfg config.TelegramConfig, log *slog.Logger) (*Adapter, error) {
	token := strings.TrimSpace(cfg.Token)
	if token == "" {
		return nil, errors.New("channels.telegram.token is required")
	}

	if log == nil {
		log = slog.Default()
	}

	bot, err := telego.NewBot(token)
	if err != nil {
		return nil, fmt.Errorf("initialize telegram bot: %w", err)
	}

	return &Adapter{
		cfg:       cfg,
		bot:       bot,
		allowFrom: allowFromSet(cfg.AllowFrom),
		log:       log.With("component", "channel.telegram"),
	}, nil
}

// Name returns the channel identifier used in logs and reply metadata.
func (a *Adapter) Name() string {
	return channelName
}

// Run starts Telegram long polling and feeds updates through the handlers.
// Each update is processed in its own goroutine; updates are independent and
// share no state beyond the per-user bag the handlers own.
func (a *Adapter) Run(ctx context.Context, handlers channel.Handlers) error {
	if handlers.Message == nil || handlers.Callback == nil || handlers.Command == nil {
		return errors.New("message, callback, and command handlers are required")
	}

	if err := a.bot.SetMyCommands(ctx, &telego.SetMyCommandsParams{Commands: botCommands}); err != nil {
		a.log.Warn("Failed to register bot commands", "error", err)
	}

	updates, err := a.bot.UpdatesViaLongPolling(ctx, nil)
	if err != nil {
		return fmt.Errorf("start long polling: %w", err)
	}

	a.log.Info("Telegram channel started")

	for {
		select {
		case <-ctx.Done():
			return nil
		case update, ok := <-updates:
			if !ok {
				if err := ctx.Err(); err != nil {
					return nil
				}
				return errors.New("telegram updates channel closed")
			}

			go a.handleUpdate(ctx, update, handlers)
		}
	}
}

// handleUpdate is the outermost boundary of one event's processing: no
// panic may escape it to take down the polling loop.
func (a *Adapter) handleUpdate(ctx context.Context, update telego.Update, handlers channel.Handlers) {
	var chatID int64

	defer func() {
		if r := recover(); r != nil {
			a.log.Error("Recovered from handler panic", "panic", r, "update_id", update.UpdateID)
			if chatID != 0 {
				a.sendText(ctx, chatID, bus.OutboundMessage{Content: panicReply})
			}
		}
	}()

	switch {
	case update.CallbackQuery != nil:
		if update.CallbackQuery.Message != nil {
			chatID = update.CallbackQuery.Message.GetChat().ID
		}
		a.handleCallback(ctx, update.CallbackQuery, handlers.Callback)
	case update.Message != nil:
		chatID = update.Message.Chat.ID
		a.handleMessage(ctx, update.Message, handlers)
	}
}

func (a *Adapter) handleMessage(ctx context.Context, message *telego.Message, handlers channel.Handlers) {
	if message.From == nil {
		a.log.Debug("Ignoring message without sender")
		return
	}

	senderID := strconv.FormatInt(message.From.ID, 10)
	if !a.senderAllowed(senderID) {
		a.log.Debug("Ignoring message from unauthorized sender", "sender_id", senderID)
		return
	}

	chatID := strconv.FormatInt(message.Chat.ID, 10)

	command, isCommand := parseCommand(message.Text)
	if !isCommand {
		// Reply-keyboard presses arrive as plain text carrying the button
		// label, not as commands.
		command, isCommand = replyKeyboardCommand(message.Text)
	}
	if isCommand {
		a.log.Info("Received command", "chat_id", chatID, "sender_id", senderID, "command", command)
		outbound, err := handlers.Command(ctx, command, senderID, chatID)
		if err != nil {
			a.log.Error("Failed to process command", "command", command, "error", err)
			outbound = bus.OutboundMessage{Content: panicReply}
		}
		a.send(ctx, message.Chat.ID, outbound)
		return
	}

	inbound, err := a.buildInbound(ctx, message, senderID, chatID)
	if err != nil {
		a.log.Error("Failed to download message media", "chat_id", chatID, "error", err)
		a.sendText(ctx, message.Chat.ID, bus.OutboundMessage{Content: panicReply})
		return
	}

	a.log.Info("Received message",
		"chat_id", chatID,
		"sender_id", senderID,
		"kind", string(bus.Classify(inbound)),
		"content", previewText(inbound.Text),
	)

	outbound, err := handlers.Message(ctx, inbound)
	if err != nil {
		a.log.Error("Failed to process inbound message", "error", err)
		outbound = bus.OutboundMessage{Content: panicReply}
	}

	if strings.TrimSpace(outbound.Content) == "" && outbound.PhotoURL == "" {
		return
	}
	a.log.Info("Sending message", "chat_id", chatID, "content", previewText(outbound.Content))
	a.send(ctx, message.Chat.ID, outbound)
}

func (a *Adapter) handleCallback(ctx context.Context, query *telego.CallbackQuery, handler channel.CallbackHandler) {
	// Acknowledge immediately so the button stops spinning.
	if err := a.bot.AnswerCallbackQuery(ctx, tu.CallbackQuery(query.ID)); err != nil {
		a.log.Debug("Failed to answer callback query", "error", err)
	}

	senderID := strconv.FormatInt(query.From.ID, 10)
	if !a.senderAllowed(senderID) {
		a.log.Debug("Ignoring callback from unauthorized sender", "sender_id", senderID)
		return
	}

	message, ok := query.Message.(*telego.Message)
	if !ok || message == nil {
		a.log.Debug("Ignoring callback without accessible message")
		return
	}

	callback := bus.CallbackMessage{
		Channel:   channelName,
		SenderID:  senderID,
		ChatID:    strconv.FormatInt(message.Chat.ID, 10),
		MessageID: message.MessageID,
		Action:    query.Data,
	}
	a.log.Info("Received callback", "chat_id", callback.ChatID, "sender_id", senderID, "action", callback.Action)

	outbound, err := handler(ctx, callback)
	if err != nil {
		a.log.Error("Failed to process callback", "action", callback.Action, "error", err)
		outbound = bus.OutboundMessage{Content: panicReply}
	}

	a.deliver(ctx, message.Chat.ID, message.MessageID, outbound)
}

// deliver replaces the originating menu message in place when possible;
// photo screens and keyboard changes need a fresh message instead.
func (a *Adapter) deliver(ctx context.Context, chatID int64, messageID int, out bus.OutboundMessage) {
	if out.PhotoURL != "" || out.RemoveKeyboard || len(out.ReplyKeyboard) > 0 {
		a.send(ctx, chatID, out)
		return
	}

	params := &telego.EditMessageTextParams{
		ChatID:    tu.ID(chatID),
		MessageID: messageID,
		Text:      out.Content,
		ParseMode: parseMode(out.ParseMode),
	}
	if keyboard := inlineKeyboard(out.Keyboard); keyboard != nil {
		params.ReplyMarkup = keyboard
	}

	if _, err := a.bot.EditMessageText(ctx, params); err != nil {
		a.log.Debug("Edit failed, sending new message", "chat_id", chatID, "error", err)
		a.send(ctx, chatID, out)
	}
}

func (a *Adapter) send(ctx context.Context, chatID int64, out bus.OutboundMessage) {
	if out.PhotoURL != "" {
		a.sendPhoto(ctx, chatID, out)
		return
	}
	a.sendText(ctx, chatID, out)
}

func (a *Adapter) sendText(ctx context.Context, chatID int64, out bus.OutboundMessage) {
	content := out.Content
	if strings.TrimSpace(content) == "" {
		content = strings.TrimSpace(out.Error)
	}
	if content == "" {
		return
	}

	params := tu.Message(tu.ID(chatID), content)
	if mode := parseMode(out.ParseMode); mode != "" {
		params = params.WithParseMode(mode)
	}
	if markup := replyMarkup(out); markup != nil {
		params = params.WithReplyMarkup(markup)
	}

	if _, err := a.bot.SendMessage(ctx, params); err != nil {
		a.log.Error("Failed to send telegram message", "chat_id", chatID, "error", err)
	}
}

func (a *Adapter) sendPhoto(ctx context.Context, chatID int64, out bus.OutboundMessage) {
	params := tu.Photo(tu.ID(chatID), tu.FileFromURL(out.PhotoURL)).
		WithCaption(out.Content)
	if mode := parseMode(out.ParseMode); mode != "" {
		params = params.WithParseMode(mode)
	}
	if keyboard := inlineKeyboard(out.Keyboard); keyboard != nil {
		params = params.WithReplyMarkup(keyboard)
	}

	if _, err := a.bot.SendPhoto(ctx, params); err != nil {
		a.log.Error("Failed to send telegram photo", "chat_id", chatID, "error", err)
	}
}

// Typing implements channel.Notifier: it sends an initial typing action and
// refreshes it periodically until the returned stop function is called.
func (a *Adapter) Typing(ctx context.Context, chatID string) func() {
	id, err := strconv.ParseInt(strings.TrimSpace(chatID), 10, 64)
	if err != nil {
		a.log.Debug("Invalid chat id for typing indicator", "chat_id", chatID)
		return func() {}
	}

	typingCtx, cancel := context.WithCancel(ctx)

	sendTyping := func() {
		if err := a.bot.SendChatAction(typingCtx, tu.ChatAction(tu.ID(id), telego.ChatActionTyping)); err != nil && typingCtx.Err() == nil {
			a.log.Debug("Failed to send typing indicator", "chat_id", chatID, "error", err)
		}
	}

	sendTyping()

	go func() {
		ticker := time.NewTicker(typingRefreshInterval)
		defer ticker.Stop()

		for {
			select {
			case <-typingCtx.Done():
				return
			case <-ticker.C:
				sendTyping()
			}
		}
	}()

	return cancel
}

// buildInbound maps one Telegram message onto the channel-neutral inbound
// shape, downloading whatever media payload it carries.
func (a *Adapter) buildInbound(ctx context.Context, message *telego.Message, senderID, chatID string) (bus.InboundMessage, error) {
	inbound := bus.InboundMessage{
		Channel:  channelName,
		SenderID: senderID,
		ChatID:   chatID,
		Text:     message.Text,
		Caption:  message.Caption,
		Metadata: map[string]string{},
	}

	if message.Voice != nil {
		attachment, err := a.downloadAttachment(ctx, message.Voice.FileID, "", message.Voice.MimeType, message.Voice.FileSize)
		if err != nil {
			return bus.InboundMessage{}, err
		}
		inbound.Voice = attachment
	}

	if message.Audio != nil {
		attachment, err := a.downloadAttachment(ctx, message.Audio.FileID, message.Audio.FileName, message.Audio.MimeType, message.Audio.FileSize)
		if err != nil {
			return bus.InboundMessage{}, err
		}
		inbound.Audio = attachment
	}

	if message.Document != nil {
		attachment, err := a.downloadAttachment(ctx, message.Document.FileID, message.Document.FileName, message.Document.MimeType, message.Document.FileSize)
		if err != nil {
			return bus.InboundMessage{}, err
		}
		inbound.Document = attachment
	}

	return inbound, nil
}

func (a *Adapter) downloadAttachment(ctx context.Context, fileID, filename, mimeType string, size int64) (*bus.Attachment, error) {
	file, err := a.bot.GetFile(ctx, &telego.GetFileParams{FileID: fileID})
	if err != nil {
		return nil, fmt.Errorf("resolve file %s: %w", fileID, err)
	}

	data, err := tu.DownloadFile(a.bot.FileDownloadURL(file.FilePath))
	if err != nil {
		return nil, fmt.Errorf("download file %s: %w", fileID, err)
	}

	return &bus.Attachment{
		FileID:   fileID,
		Filename: filename,
		MIMEType: mimeType,
		Size:     size,
		Data:     data,
	}, nil
}

// parseCommand extracts a slash command name from message text, dropping any
// @botname suffix. Returns false for ordinary text.
func parseCommand(text string) (string, bool) {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "/") {
		return "", false
	}

	name := strings.Fields(trimmed)[0][1:]
	if at := strings.Index(name, "@"); at >= 0 {
		name = name[:at]
	}
	if name == "" {
		return "", false
	}

	return strings.ToLower(name), true
}

// replyKeyboardCommand maps quick-access keyboard button labels onto the
// commands they stand in for.
func replyKeyboardCommand(text string) (string, bool) {
	switch strings.TrimSpace(text) {
	case "🆘 Help":
		return "help", true
	case "⚙️ Settings":
		return "settings", true
	case "📋 Menu":
		return "menu", true
	case "❌ Hide Keyboard":
		return "hide", true
	default:
		return "", false
	}
}

func parseMode(mode bus.ParseMode) string {
	switch mode {
	case bus.ParseMarkdownV2:
		return telego.ModeMarkdownV2
	case bus.ParseHTML:
		return telego.ModeHTML
	default:
		return ""
	}
}

// replyMarkup converts the channel-neutral keyboard shapes into Telegram
// markup; RemoveKeyboard wins, then reply keyboards, then inline keyboards.
func replyMarkup(out bus.OutboundMessage) telego.ReplyMarkup {
	if out.RemoveKeyboard {
		return &telego.ReplyKeyboardRemove{RemoveKeyboard: true}
	}

	if len(out.ReplyKeyboard) > 0 {
		rows := make([][]telego.KeyboardButton, 0, len(out.ReplyKeyboard))
		for _, row := range out.ReplyKeyboard {
			buttons := make([]telego.KeyboardButton, 0, len(row))
			for _, label := range row {
				buttons = append(buttons, tu.KeyboardButton(label))
			}
			rows = append(rows, buttons)
		}
		keyboard := tu.Keyboard(rows...)
		keyboard.ResizeKeyboard = true
		return keyboard
	}

	if keyboard := inlineKeyboard(out.Keyboard); keyboard != nil {
		return keyboard
	}

	return nil
}

func inlineKeyboard(rows [][]bus.Button) *telego.InlineKeyboardMarkup {
	if len(rows) == 0 {
		return nil
	}

	keyboard := make([][]telego.InlineKeyboardButton, 0, len(rows))
	for _, row := range rows {
		buttons := make([]telego.InlineKeyboardButton, 0, len(row))
		for _, button := range row {
			tgButton := tu.InlineKeyboardButton(button.Label)
			if button.URL != "" {
				tgButton = tgButton.WithURL(button.URL)
			} else {
				tgButton = tgButton.WithCallbackData(button.Action)
			}
			buttons = append(buttons, tgButton)
		}
		keyboard = append(keyboard, buttons)
	}

	return tu.InlineKeyboard(keyboard...)
}

// senderAllowed checks whether a sender is permitted by allow_from config.
//
// When no allow list is configured, all senders are accepted.
func (a *Adapter) senderAllowed(senderID string) bool {
	if len(a.allowFrom) == 0 {
		return true
	}

	_, ok := a.allowFrom[strings.TrimSpace(senderID)]
	return ok
}

// allowFromSet normalizes allow_from values into a lookup set.
func allowFromSet(allowFrom []string) map[string]struct{} {
	if len(allowFrom) == 0 {
		return nil
	}

	allowed := make(map[string]struct{}, len(allowFrom))
	for _, value := range allowFrom {
		trimmed := strings.TrimSpace(value)
		if trimmed == "" {
			continue
		}
		allowed[trimmed] = struct{}{}
	}

	if len(allowed) == 0 {
		return nil
	}

	return allowed
}

// previewText returns a bounded log-safe preview of message text.
func previewText(text string) string {
	trimmed := strings.TrimSpace(text)
	if len(trimmed) <= messagePreviewLimit {
		return trimmed
	}

	return trimmed[:messagePreviewLimit] + "..."
}
