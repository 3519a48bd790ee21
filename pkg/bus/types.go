package bus

// ParseMode selects how a channel renders outbound message text.
type ParseMode string

const (
	ParsePlain      ParseMode = ""
	ParseHTML       ParseMode = "html"
	ParseMarkdownV2 ParseMode = "markdownv2"
)

// Attachment carries one media payload delivered with an inbound message.
type Attachment struct {
	FileID   string `json:"file_id"`
	Filename string `json:"filename,omitempty"`
	MIMEType string `json:"mime_type,omitempty"`
	Size     int64  `json:"size,omitempty"`
	Data     []byte `json:"-"`
}

// InboundMessage is one user message delivered by a channel adapter.
//
// A single message may carry several populated content fields at once;
// Classify resolves which one wins.
type InboundMessage struct {
	Channel  string            `json:"channel"`
	SenderID string            `json:"sender_id"`
	ChatID   string            `json:"chat_id"`
	Text     string            `json:"text,omitempty"`
	Caption  string            `json:"caption,omitempty"`
	Voice    *Attachment       `json:"voice,omitempty"`
	Audio    *Attachment       `json:"audio,omitempty"`
	Document *Attachment       `json:"document,omitempty"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// Button is one labeled transition on an outbound keyboard. Action holds a
// screen or action id for callback buttons; URL buttons open a link instead.
type Button struct {
	Label  string `json:"label"`
	Action string `json:"action,omitempty"`
	URL    string `json:"url,omitempty"`
}

// OutboundMessage is the single reply produced for one inbound message or
// callback.
type OutboundMessage struct {
	Channel        string     `json:"channel,omitempty"`
	ChatID         string     `json:"chat_id,omitempty"`
	Content        string     `json:"content"`
	ParseMode      ParseMode  `json:"parse_mode,omitempty"`
	PhotoURL       string     `json:"photo_url,omitempty"`
	Keyboard       [][]Button `json:"keyboard,omitempty"`
	ReplyKeyboard  [][]string `json:"reply_keyboard,omitempty"`
	RemoveKeyboard bool       `json:"remove_keyboard,omitempty"`
	Error          string     `json:"error,omitempty"`
}

// CallbackMessage is one button-press notification from a channel adapter.
type CallbackMessage struct {
	Channel   string `json:"channel"`
	SenderID  string `json:"sender_id"`
	ChatID    string `json:"chat_id"`
	MessageID int    `json:"message_id,omitempty"`
	Action    string `json:"action"`
}
