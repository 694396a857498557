package main

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/user/loom/pkg/assist"
)

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.AddCommand(runStartCmd, runStatusCmd, runWatchCmd, runCancelCmd, runSubmitCmd, runStepsCmd, runListCmd)

	runStartCmd.Flags().String("assistant", "", "assistant id (required)")
	runStartCmd.Flags().Bool("wait", false, "block until the run reaches a terminal status")
	_ = runStartCmd.MarkFlagRequired("assistant")

	runSubmitCmd.Flags().String("tool-call-id", "", "tool call id (required)")
	runSubmitCmd.Flags().String("output", "", "tool output (required)")
	_ = runSubmitCmd.MarkFlagRequired("tool-call-id")
	_ = runSubmitCmd.MarkFlagRequired("output")
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Manage runs",
}

var runStartCmd = &cobra.Command{
	Use:   "start <thread-id>",
	Short: "Start a run on a thread",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		s := newSession(cfg)

		assistantID, _ := cmd.Flags().GetString("assistant")
		th := s.Thread(args[0])
		r, err := th.CreateRun(cmd.Context(), openai.RunRequest{AssistantID: assistantID})
		if err != nil {
			return fmt.Errorf("create run: %w", err)
		}
		fmt.Fprintf(os.Stdout, "Run %s started.\n", r.Ref().ID)

		if wait, _ := cmd.Flags().GetBool("wait"); wait {
			return watchRun(cmd, r)
		}
		r.StopPolling()
		return nil
	},
}

var runStatusCmd = &cobra.Command{
	Use:   "status <thread-id> <run-id>",
	Short: "Show a run's current status",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		s := newSession(cfg)

		r := s.Thread(args[0]).Run(args[1])
		if err := r.Load(cmd.Context()); err != nil {
			return fmt.Errorf("load run: %w", err)
		}
		r.StopPolling()

		rec, err := r.Value()
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "ID: %s\n", rec.ID)
		fmt.Fprintf(os.Stdout, "Assistant: %s\n", rec.AssistantID)
		fmt.Fprintf(os.Stdout, "Status: %s\n", rec.Status)
		if rec.LastError != nil {
			fmt.Fprintf(os.Stdout, "Last error: %s: %s\n", rec.LastError.Code, rec.LastError.Message)
		}
		return nil
	},
}

var runWatchCmd = &cobra.Command{
	Use:   "watch <thread-id> <run-id>...",
	Short: "Watch runs until they reach a terminal status",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		s := newSession(cfg)
		th := s.Thread(args[0])

		g, _ := errgroup.WithContext(cmd.Context())
		for _, id := range args[1:] {
			r := th.Run(id)
			g.Go(func() error {
				return watchRun(cmd, r)
			})
		}
		return g.Wait()
	},
}

// watchRun subscribes to a run's polling events, waits for the terminal
// report, and prints the outcome.
func watchRun(cmd *cobra.Command, r *assist.Run) error {
	id := r.Ref().ID
	r.On(assist.EventStatusChanged, func(ev assist.Event) {
		if status, ok := ev.Value.(openai.RunStatus); ok {
			fmt.Fprintf(os.Stdout, "%s: %s\n", id, status)
		}
	})
	r.On(assist.EventActionRequired, func(ev assist.Event) {
		fmt.Fprintf(os.Stdout, "%s: waiting for tool outputs\n", id)
	})

	status, err := r.Wait(cmd.Context())
	if err != nil {
		return fmt.Errorf("watch run %s: %w", id, err)
	}
	fmt.Fprintf(os.Stdout, "%s: finished with status %s\n", id, status)
	return nil
}

var runCancelCmd = &cobra.Command{
	Use:   "cancel <thread-id> <run-id>",
	Short: "Cancel a run",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		s := newSession(cfg)

		r := s.Thread(args[0]).Run(args[1])
		if err := r.Cancel(cmd.Context()); err != nil {
			return fmt.Errorf("cancel run: %w", err)
		}
		fmt.Fprintf(os.Stdout, "Run %s cancelled.\n", args[1])
		return nil
	},
}

var runSubmitCmd = &cobra.Command{
	Use:   "submit <thread-id> <run-id>",
	Short: "Submit tool outputs to a run",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		s := newSession(cfg)

		toolCallID, _ := cmd.Flags().GetString("tool-call-id")
		output, _ := cmd.Flags().GetString("output")

		r := s.Thread(args[0]).Run(args[1])
		err := r.SubmitToolOutputs(cmd.Context(), openai.SubmitToolOutputsRequest{
			ToolOutputs: []openai.ToolOutput{{ToolCallID: toolCallID, Output: output}},
		})
		if err != nil {
			return fmt.Errorf("submit tool outputs: %w", err)
		}
		fmt.Fprintf(os.Stdout, "Tool outputs submitted to run %s.\n", args[1])
		return nil
	},
}

var runStepsCmd = &cobra.Command{
	Use:   "steps <thread-id> <run-id>",
	Short: "List a run's steps",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		s := newSession(cfg)

		r := s.Thread(args[0]).Run(args[1])
		steps, err := r.Steps(cmd.Context(), nil)
		if err != nil {
			return fmt.Errorf("list run steps: %w", err)
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tTYPE\tSTATUS")
		for _, step := range steps {
			fmt.Fprintf(w, "%s\t%s\t%s\n", step.ID, step.Type, step.Status)
		}
		return w.Flush()
	},
}

var runListCmd = &cobra.Command{
	Use:   "list <thread-id>",
	Short: "List runs on a thread",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		s := newSession(cfg)

		th := s.Thread(args[0])
		first, err := th.Runs(cmd.Context(), nil)
		if err != nil {
			return fmt.Errorf("list runs: %w", err)
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tASSISTANT\tSTATUS\tCREATED")
		for page, err := range first.Pages(cmd.Context()) {
			if err != nil {
				return fmt.Errorf("list runs: %w", err)
			}
			for _, r := range page.Items {
				rec, err := r.Value()
				if err != nil {
					return err
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
					rec.ID,
					rec.AssistantID,
					rec.Status,
					time.Unix(rec.CreatedAt, 0).Format(time.RFC3339),
				)
			}
		}
		return w.Flush()
	},
}
