package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"computerx_chatbot/internal/conversation"
	"computerx_chatbot/internal/knowledge"
)

func newTeachCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "teach <question> <answer>",
		Short: "Teach an answer without starting a conversation",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			question, answer := args[0], args[1]
			if strings.TrimSpace(answer) == "" {
				return conversation.ErrBlankAnswer
			}

			store := knowledge.NewStore(
				knowledge.WithLearnedLog(opts.cfg.Data.LearnedPath),
				knowledge.WithDelimiter(opts.cfg.Data.LearnedDelimiter),
			)
			if err := store.RecordLearned(question, answer); err != nil {
				return fmt.Errorf("teach: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), conversation.LearnedMessage)
			return nil
		},
	}
}
