package markup

import "strings"

// reserved is the set of Telegram MarkdownV2 characters that corrupt
// rendering when they appear unescaped in arbitrary text.
const reserved = "_*[]()~`>#+-=|{}.!"

func isReserved(r byte) bool {
	return strings.IndexByte(reserved, r) >= 0
}

// EscapeMarkdownV2 escapes MarkdownV2 reserved characters in untrusted text
// while preserving the formatting the bot emits itself: **bold** pairs and
// line-leading "* " / "- " bullets.
//
// The function is idempotent: a backslash already guarding a reserved
// character is copied through untouched, so sanitizing twice yields the same
// output as sanitizing once.
func EscapeMarkdownV2(text string) string {
	var b strings.Builder
	b.Grow(len(text) + len(text)/4)

	lineStart := true
	for i := 0; i < len(text); i++ {
		c := text[i]

		switch {
		case c == '\\' && i+1 < len(text) && isReserved(text[i+1]):
			// Already escaped; keep the pair as-is.
			b.WriteByte(c)
			b.WriteByte(text[i+1])
			i++
			lineStart = false
			continue
		case c == '\n':
			b.WriteByte(c)
			lineStart = true
			continue
		case c == '*':
			if i+1 < len(text) && text[i+1] == '*' {
				// Bold marker.
				b.WriteString("**")
				i++
				lineStart = false
				continue
			}
			if lineStart && i+1 < len(text) && text[i+1] == ' ' {
				// Bullet marker.
				b.WriteByte(c)
				lineStart = false
				continue
			}
			b.WriteString(`\*`)
		case c == '-' && lineStart && i+1 < len(text) && text[i+1] == ' ':
			// Bullet marker.
			b.WriteByte(c)
		case isReserved(c):
			b.WriteByte('\\')
			b.WriteByte(c)
		default:
			b.WriteByte(c)
		}

		if c != ' ' && c != '\t' {
			lineStart = false
		}
	}

	return b.String()
}
