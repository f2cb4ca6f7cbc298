package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/career-compass/internal/observability"
)

var chatConversation string

var chatCmd = &cobra.Command{
	Use:   "chat <message>",
	Short: "Ask the career assistant a question",
	Long:  "Sends one message to the career assistant and appends the exchange to the conversation history.",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runChat,
}

func init() {
	chatCmd.Flags().StringVar(&chatConversation, "conversation", "default", "Conversation id")
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, args []string) error {
	ctx := commandContext(cmd)
	a, err := newApp(ctx, appConfig, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	exchange, err := a.facade.Advisor().SendMessage(ctx, ownerID, chatConversation, strings.Join(args, " "))
	if err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}
	observability.NewPrinter(cmd.OutOrStdout()).PrintChatExchange(exchange)
	return nil
}
