package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"reel-digest/domain/messaging"
	"reel-digest/infrastructure/config"
	"reel-digest/infrastructure/instagram"

	"github.com/spf13/cobra"
)

var (
	replyTo   string
	replyText string
)

var sendReplyCmd = &cobra.Command{
	Use:   "send-reply",
	Short: "Send a text message to an Instagram user",
	Long: `Send a direct message through the Instagram Graph API using the configured
page access token. Text longer than the platform limit is split into
several messages.

Example:
  reel-digest send-reply --to 17841400000000000 --text "Hello from reel-digest"`,
	RunE: runSendReply,
}

func init() {
	rootCmd.AddCommand(sendReplyCmd)
	sendReplyCmd.Flags().StringVar(&replyTo, "to", "", "Instagram-scoped ID of the recipient (required)")
	sendReplyCmd.Flags().StringVar(&replyText, "text", "", "Message text (required)")
	sendReplyCmd.MarkFlagRequired("to")
	sendReplyCmd.MarkFlagRequired("text")
}

func runSendReply(cmd *cobra.Command, args []string) error {
	c, err := GetConfig()
	if err != nil {
		return err
	}
	if c.Instagram.PageAccessToken == "" {
		return fmt.Errorf("instagram.page_access_token is not set (set PAGE_ACCESS_TOKEN or run '%s')",
			config.SuggestSetCommand("instagram.page_access_token"))
	}

	ctx := cmd.Context()
	sender := instagram.NewClient(ctx, c.Instagram.PageAccessToken, instagram.WithAPIURL(c.Instagram.APIURL))

	return RunSendReplyWithDependencies(ctx, sender, replyTo, replyText, os.Stdout)
}

// RunSendReplyWithDependencies runs the send-reply command with injected dependencies (for testing)
func RunSendReplyWithDependencies(
	ctx context.Context,
	sender messaging.ReplySender,
	to string,
	text string,
	output OutputWriter,
) error {
	to = strings.TrimSpace(to)
	if to == "" {
		return messaging.ErrNoRecipient
	}
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("message text is required")
	}

	if err := sender.Send(ctx, messaging.Reply{RecipientID: to, Text: text}); err != nil {
		return fmt.Errorf("failed to send reply: %w", err)
	}

	fmt.Fprintf(output, "Sent %d characters to %s\n", len(text), to)
	return nil
}
