package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/user/wootbridge/internal/delivery"
	"github.com/user/wootbridge/internal/types"
)

func init() {
	rootCmd.AddCommand(sendCmd)

	sendCmd.Flags().String("account", "", "Chatwoot account id (required)")
	sendCmd.Flags().String("conversation", "", "Chatwoot conversation id (required)")
	sendCmd.Flags().Bool("private", false, "post as a private note")
	_ = sendCmd.MarkFlagRequired("account")
	_ = sendCmd.MarkFlagRequired("conversation")
}

var sendCmd = &cobra.Command{
	Use:   "send <text>",
	Short: "Post a message into a conversation",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		account, _ := cmd.Flags().GetString("account")
		conversation, _ := cmd.Flags().GetString("conversation")
		private, _ := cmd.Flags().GetBool("private")

		cfg := loadConfig()
		setupLogging(cfg)

		client := chatwootClient(cfg)
		if !client.HasToken() {
			return fmt.Errorf("CHATWOOT_API_TOKEN is not set")
		}

		id, err := delivery.NewSender(client).Send(cmd.Context(), types.OutgoingReply{
			AccountID:      types.ID(strings.TrimSpace(account)),
			ConversationID: types.ID(strings.TrimSpace(conversation)),
			Text:           strings.Join(args, " "),
			Private:        private,
		})
		if err != nil {
			return fmt.Errorf("send message: %w", err)
		}
		fmt.Fprintf(os.Stdout, "Message %s sent.\n", id)
		return nil
	},
}
