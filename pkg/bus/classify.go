package bus

import "strings"

// Kind is the classified payload kind of one inbound message.
type Kind string

const (
	KindVoice           Kind = "voice"
	KindAudio           Kind = "audio"
	KindDocument        Kind = "document"
	KindDocumentCaption Kind = "document_caption"
	KindText            Kind = "text"
	KindUnsupported     Kind = "unsupported"
)

// Classify resolves the payload kind of one inbound message.
//
// The check is priority ordered: voice and audio win over documents, which
// win over plain text. Telegram can populate more than one field on a single
// update, so the order is part of the contract, not an implementation detail.
func Classify(msg InboundMessage) Kind {
	switch {
	case msg.Voice != nil:
		return KindVoice
	case msg.Audio != nil:
		return KindAudio
	case msg.Document != nil && strings.TrimSpace(msg.Caption) != "":
		return KindDocumentCaption
	case msg.Document != nil:
		return KindDocument
	case strings.TrimSpace(msg.Text) != "":
		return KindText
	default:
		return KindUnsupported
	}
}
