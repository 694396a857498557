package main

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/pkoukk/tiktoken-go"
	openai "github.com/sashabaranov/go-openai"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(messageCmd)
	messageCmd.AddCommand(messageAddCmd, messageListCmd)

	messageAddCmd.Flags().String("role", "user", "message role")
	messageAddCmd.Flags().String("content", "", "message text (required)")
	messageAddCmd.Flags().Bool("count-tokens", false, "print the token count of the content")
	_ = messageAddCmd.MarkFlagRequired("content")
}

var messageCmd = &cobra.Command{
	Use:   "message",
	Short: "Manage thread messages",
}

var messageAddCmd = &cobra.Command{
	Use:   "add <thread-id>",
	Short: "Add a message to a thread",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		s := newSession(cfg)

		role, _ := cmd.Flags().GetString("role")
		content, _ := cmd.Flags().GetString("content")

		if count, _ := cmd.Flags().GetBool("count-tokens"); count {
			n, err := countTokens(cfg.TokenModel, content)
			if err != nil {
				return fmt.Errorf("count tokens: %w", err)
			}
			fmt.Fprintf(os.Stdout, "Content is %d tokens.\n", n)
		}

		th := s.Thread(args[0])
		m, err := th.CreateMessage(cmd.Context(), openai.MessageRequest{
			Role:    role,
			Content: content,
		})
		if err != nil {
			return fmt.Errorf("create message: %w", err)
		}
		fmt.Fprintf(os.Stdout, "Message %s added.\n", m.Ref().ID)
		return nil
	},
}

var messageListCmd = &cobra.Command{
	Use:   "list <thread-id>",
	Short: "List messages in a thread",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		s := newSession(cfg)

		th := s.Thread(args[0])
		first, err := th.Messages(cmd.Context(), nil)
		if err != nil {
			return fmt.Errorf("list messages: %w", err)
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tROLE\tCREATED\tTEXT")
		for page, err := range first.Pages(cmd.Context()) {
			if err != nil {
				return fmt.Errorf("list messages: %w", err)
			}
			for _, m := range page.Items {
				msg, err := m.Value()
				if err != nil {
					return err
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
					msg.ID,
					msg.Role,
					time.Unix(int64(msg.CreatedAt), 0).Format(time.RFC3339),
					truncate(messageText(msg), 60),
				)
			}
		}
		return w.Flush()
	},
}

// countTokens tokenizes text with the model's encoding, falling back to
// cl100k_base for unknown models.
func countTokens(model, text string) (int, error) {
	enc, err := tiktoken.EncodingForModel(model)
	if err != nil {
		enc, err = tiktoken.GetEncoding("cl100k_base")
		if err != nil {
			return 0, fmt.Errorf("get tokenizer: %w", err)
		}
	}
	return len(enc.Encode(text, nil, nil)), nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}
