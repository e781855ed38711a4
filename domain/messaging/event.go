package messaging

// Event is one inbound message from the webhook
type Event interface {
	Sender() string
}

// VideoMessage is an inbound message carrying a video or reel attachment
type VideoMessage struct {
	SenderID string
	VideoURL string
}

// Sender implements Event
func (m VideoMessage) Sender() string { return m.SenderID }

// TextMessage is an inbound plain text message
type TextMessage struct {
	SenderID string
	Text     string
}

// Sender implements Event
func (m TextMessage) Sender() string { return m.SenderID }
