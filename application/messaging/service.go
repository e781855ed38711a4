package messaging

import (
	"context"
	"fmt"
	"log/slog"

	"reel-digest/domain/messaging"
	"reel-digest/domain/summary"
)

// Summarizer turns a video URL into a user-facing result
type Summarizer interface {
	Summarize(ctx context.Context, in summary.Input) summary.Result
}

// Service answers inbound messages: videos get a summary, text gets an acknowledgement
type Service struct {
	summarizer Summarizer
	sender     messaging.ReplySender
	logger     *slog.Logger
}

// NewService creates a new messaging service
func NewService(summarizer Summarizer, sender messaging.ReplySender, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{
		summarizer: summarizer,
		sender:     sender,
		logger:     logger,
	}
}

// Handle processes one inbound event and sends the reply
func (s *Service) Handle(ctx context.Context, event messaging.Event) error {
	switch ev := event.(type) {
	case messaging.VideoMessage:
		return s.handleVideo(ctx, ev)
	case messaging.TextMessage:
		return s.send(ctx, ev.SenderID, summary.MessageTextReceived)
	default:
		return fmt.Errorf("unsupported event type %T", event)
	}
}

func (s *Service) handleVideo(ctx context.Context, msg messaging.VideoMessage) error {
	logger := s.logger.With("sender", msg.SenderID)
	if msg.SenderID == "" {
		return messaging.ErrNoRecipient
	}

	if err := s.send(ctx, msg.SenderID, summary.MessageProcessing); err != nil {
		logger.Warn("failed to send processing notice", "error", err)
	}

	result := s.summarizer.Summarize(ctx, summary.Input{VideoURL: msg.VideoURL})
	logger.Info("video summarized", "outcome", result.Outcome)

	return s.send(ctx, msg.SenderID, result.Text)
}

func (s *Service) send(ctx context.Context, recipientID, text string) error {
	reply := messaging.Reply{RecipientID: recipientID, Text: text}
	if err := reply.Validate(); err != nil {
		return err
	}
	if err := s.sender.Send(ctx, reply); err != nil {
		return fmt.Errorf("reply to %s: %w", recipientID, err)
	}
	return nil
}
