package webhook

import (
	"encoding/json"
	"errors"
	"fmt"

	"reel-digest/domain/messaging"
)

// ObjectInstagram is the only webhook object type that carries inbox messages
const ObjectInstagram = "instagram"

// ErrMalformedPayload is returned for bodies that are not a valid webhook envelope
var ErrMalformedPayload = errors.New("malformed webhook payload")

type envelope struct {
	Object string  `json:"object"`
	Entry  []entry `json:"entry"`
}

type entry struct {
	ID        string           `json:"id"`
	Messaging []messagingEvent `json:"messaging"`
}

type messagingEvent struct {
	Sender    *party          `json:"sender"`
	Recipient *party          `json:"recipient"`
	Message   *inboundMessage `json:"message"`
}

type party struct {
	ID string `json:"id"`
}

type inboundMessage struct {
	MID         string       `json:"mid"`
	Text        *string      `json:"text"`
	IsEcho      bool         `json:"is_echo"`
	Attachments []attachment `json:"attachments"`
}

type attachment struct {
	Type    string `json:"type"`
	Payload struct {
		URL string `json:"url"`
	} `json:"payload"`
}

// isVideo reports whether the attachment holds a playable video
func (a attachment) isVideo() bool {
	return a.Type == "video" || a.Type == "ig_reel"
}

// ParseEvents decodes a webhook body into inbound events. Envelopes for other
// objects yield no events. Echoes of the account's own messages are skipped.
func ParseEvents(body []byte) ([]messaging.Event, error) {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	if env.Object != ObjectInstagram {
		return nil, nil
	}

	var events []messaging.Event
	for _, e := range env.Entry {
		for _, ev := range e.Messaging {
			if ev.Message == nil || ev.Message.IsEcho {
				continue
			}
			if ev.Sender == nil || ev.Sender.ID == "" {
				return nil, fmt.Errorf("%w: message without sender id", ErrMalformedPayload)
			}

			msg := ev.Message
			if len(msg.Attachments) > 0 {
				for _, a := range msg.Attachments {
					if !a.isVideo() {
						continue
					}
					if a.Payload.URL == "" {
						return nil, fmt.Errorf("%w: %s attachment without url", ErrMalformedPayload, a.Type)
					}
					events = append(events, messaging.VideoMessage{SenderID: ev.Sender.ID, VideoURL: a.Payload.URL})
				}
				continue
			}
			if msg.Text != nil {
				events = append(events, messaging.TextMessage{SenderID: ev.Sender.ID, Text: *msg.Text})
			}
		}
	}
	return events, nil
}
