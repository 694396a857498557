package main

import (
	"fmt"
	"os"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(threadCmd)
	threadCmd.AddCommand(threadCreateCmd, threadShowCmd, threadSyncCmd)
}

var threadCmd = &cobra.Command{
	Use:   "thread",
	Short: "Manage threads",
}

var threadCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a new thread",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		s := newSession(cfg)

		th, err := s.CreateThread(cmd.Context(), openai.ThreadRequest{})
		if err != nil {
			return fmt.Errorf("create thread: %w", err)
		}
		fmt.Fprintf(os.Stdout, "Thread %s created.\n", th.Ref().ID)
		return nil
	},
}

var threadShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a thread and its messages",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		s := newSession(cfg)

		th, err := s.LoadThread(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("load thread: %w", err)
		}
		rec, err := th.Value()
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "ID: %s\n", rec.ID)
		fmt.Fprintf(os.Stdout, "Created: %s\n\n", time.Unix(rec.CreatedAt, 0).Format(time.RFC3339))

		first, err := th.Messages(cmd.Context(), nil)
		if err != nil {
			return fmt.Errorf("list messages: %w", err)
		}
		for page, err := range first.Pages(cmd.Context()) {
			if err != nil {
				return fmt.Errorf("list messages: %w", err)
			}
			for _, m := range page.Items {
				msg, err := m.Value()
				if err != nil {
					return err
				}
				fmt.Fprintf(os.Stdout, "[%s] %s\n", msg.Role, messageText(msg))
			}
		}
		return nil
	},
}

var threadSyncCmd = &cobra.Command{
	Use:   "sync <id>",
	Short: "Refresh a thread, its messages and its runs",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		s := newSession(cfg)

		th := s.Thread(args[0])
		if err := th.Sync(cmd.Context()); err != nil {
			return fmt.Errorf("sync thread: %w", err)
		}
		fmt.Fprintf(os.Stdout, "Thread %s synced.\n", args[0])
		return nil
	},
}

// messageText flattens a message's text segments into one display string.
func messageText(msg openai.Message) string {
	var out string
	for _, c := range msg.Content {
		if c.Text != nil {
			if out != "" {
				out += "\n"
			}
			out += c.Text.Value
		}
	}
	return out
}
