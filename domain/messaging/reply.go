package messaging

import (
	"context"
	"strings"
	"unicode/utf8"
)

// Reply is an outbound text message to one inbox participant
type Reply struct {
	RecipientID string
	Text        string
}

// Validate checks that the reply has all required fields
func (r Reply) Validate() error {
	if strings.TrimSpace(r.RecipientID) == "" {
		return ErrNoRecipient
	}
	if strings.TrimSpace(r.Text) == "" {
		return ErrEmptyText
	}
	return nil
}

// ReplySender delivers text replies to the messaging platform
type ReplySender interface {
	Send(ctx context.Context, reply Reply) error
}

// SplitText breaks text into chunks of at most limit characters, preferring to cut
// at whitespace. A limit of zero or less returns text as a single chunk.
func SplitText(text string, limit int) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	if limit <= 0 || utf8.RuneCountInString(text) <= limit {
		return []string{text}
	}

	var chunks []string
	runes := []rune(text)
	for len(runes) > 0 {
		if len(runes) <= limit {
			chunks = append(chunks, strings.TrimSpace(string(runes)))
			break
		}

		cut := limit
		for i := limit; i > limit/2; i-- {
			if runes[i] == ' ' || runes[i] == '\n' {
				cut = i
				break
			}
		}

		chunk := strings.TrimSpace(string(runes[:cut]))
		if chunk != "" {
			chunks = append(chunks, chunk)
		}
		runes = []rune(strings.TrimLeft(string(runes[cut:]), " \n"))
	}
	return chunks
}
