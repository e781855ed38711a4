package messaging

import "errors"

var (
	// ErrNoRecipient is returned when a reply has no recipient id
	ErrNoRecipient = errors.New("recipient id is required")

	// ErrEmptyText is returned when a reply has no text
	ErrEmptyText = errors.New("reply text is required")

	// ErrSendFailed is returned when the messaging platform rejects a reply
	ErrSendFailed = errors.New("failed to send reply")
)
