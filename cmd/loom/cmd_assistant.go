package main

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(assistantCmd)
	assistantCmd.AddCommand(assistantCreateCmd, assistantListCmd, assistantShowCmd, assistantUpdateCmd, assistantRemoveCmd)

	assistantCreateCmd.Flags().String("name", "", "assistant name")
	assistantCreateCmd.Flags().String("model", "", "model to run the assistant on (required)")
	assistantCreateCmd.Flags().String("instructions", "", "system instructions")
	_ = assistantCreateCmd.MarkFlagRequired("model")

	assistantUpdateCmd.Flags().String("name", "", "assistant name")
	assistantUpdateCmd.Flags().String("model", "", "model to run the assistant on")
	assistantUpdateCmd.Flags().String("instructions", "", "system instructions")
}

var assistantCmd = &cobra.Command{
	Use:   "assistant",
	Short: "Manage assistants",
}

var assistantCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a new assistant",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		s := newSession(cfg)

		req := openai.AssistantRequest{}
		req.Model, _ = cmd.Flags().GetString("model")
		if name, _ := cmd.Flags().GetString("name"); name != "" {
			req.Name = &name
		}
		if instr, _ := cmd.Flags().GetString("instructions"); instr != "" {
			req.Instructions = &instr
		}

		a, err := s.CreateAssistant(cmd.Context(), req)
		if err != nil {
			return fmt.Errorf("create assistant: %w", err)
		}
		fmt.Fprintf(os.Stdout, "Assistant %s created.\n", a.Ref().ID)
		return nil
	},
}

var assistantListCmd = &cobra.Command{
	Use:   "list",
	Short: "List assistants",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		s := newSession(cfg)

		first, err := s.Assistants(cmd.Context(), nil)
		if err != nil {
			return fmt.Errorf("list assistants: %w", err)
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tMODEL\tCREATED")
		for page, err := range first.Pages(cmd.Context()) {
			if err != nil {
				return fmt.Errorf("list assistants: %w", err)
			}
			for _, a := range page.Items {
				rec, err := a.Value()
				if err != nil {
					return err
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
					rec.ID,
					strOr(rec.Name),
					rec.Model,
					time.Unix(rec.CreatedAt, 0).Format(time.RFC3339),
				)
			}
		}
		return w.Flush()
	},
}

var assistantShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show an assistant",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		s := newSession(cfg)

		a, err := s.LoadAssistant(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("load assistant: %w", err)
		}
		rec, err := a.Value()
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "ID: %s\n", rec.ID)
		fmt.Fprintf(os.Stdout, "Name: %s\n", strOr(rec.Name))
		fmt.Fprintf(os.Stdout, "Model: %s\n", rec.Model)
		fmt.Fprintf(os.Stdout, "Instructions: %s\n", strOr(rec.Instructions))
		fmt.Fprintf(os.Stdout, "Created: %s\n", time.Unix(rec.CreatedAt, 0).Format(time.RFC3339))
		return nil
	},
}

var assistantUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update an assistant",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		s := newSession(cfg)

		a, err := s.LoadAssistant(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("load assistant: %w", err)
		}
		rec, err := a.Value()
		if err != nil {
			return err
		}

		// Unchanged fields carry over from the current record.
		req := openai.AssistantRequest{
			Model:        rec.Model,
			Name:         rec.Name,
			Instructions: rec.Instructions,
		}
		if model, _ := cmd.Flags().GetString("model"); model != "" {
			req.Model = model
		}
		if name, _ := cmd.Flags().GetString("name"); name != "" {
			req.Name = &name
		}
		if instr, _ := cmd.Flags().GetString("instructions"); instr != "" {
			req.Instructions = &instr
		}

		if err := a.Update(cmd.Context(), req); err != nil {
			return fmt.Errorf("update assistant: %w", err)
		}
		fmt.Fprintf(os.Stdout, "Assistant %s updated.\n", args[0])
		return nil
	},
}

var assistantRemoveCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Delete an assistant",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		s := newSession(cfg)

		a := s.Assistant(args[0])
		deleted, err := a.Delete(cmd.Context())
		if err != nil {
			return fmt.Errorf("delete assistant: %w", err)
		}
		if !deleted {
			return fmt.Errorf("assistant %s was not deleted", args[0])
		}
		fmt.Fprintf(os.Stdout, "Assistant %s deleted.\n", args[0])
		return nil
	},
}

func strOr(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
