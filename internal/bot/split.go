package bot

import "strings"

// MessageLimit is the chat platform's per-message character budget, with
// headroom for reply decoration added by the transport.
const MessageLimit = 1900

// SplitMessage breaks a reply into chunks that fit the platform limit.
// It splits on line boundaries first and falls back to word boundaries for
// single oversized lines.
func SplitMessage(message string, limit int) []string {
	if limit <= 0 {
		limit = MessageLimit
	}
	if message == "" {
		return []string{""}
	}
	if len(message) <= limit {
		return []string{message}
	}

	var chunks []string
	var current strings.Builder
	flush := func() {
		if current.Len() > 0 {
			chunks = append(chunks, strings.TrimSpace(current.String()))
			current.Reset()
		}
	}

	for _, line := range strings.Split(message, "\n") {
		if current.Len()+len(line)+1 > limit {
			flush()
		}
		if len(line) > limit {
			for _, word := range strings.Fields(line) {
				if current.Len()+len(word)+1 > limit {
					flush()
				}
				current.WriteString(word)
				current.WriteByte(' ')
			}
			continue
		}
		current.WriteString(line)
		current.WriteByte('\n')
	}
	flush()
	return chunks
}
