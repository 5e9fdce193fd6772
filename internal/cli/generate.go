package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newGenerateCommand(opts *options) *cobra.Command {
	var role, description string
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate an interview question set for a role",
		Long: `Generate asks the configured provider for the six questions of an
interview (two easy, two medium, two hard) and prints them as JSON.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			gw, err := opts.newGateway()
			if err != nil {
				return err
			}
			questions, err := gw.GenerateQuestions(cmd.Context(), role, description)
			if err != nil {
				return fmt.Errorf("generating questions: %w", err)
			}
			return writeJSON(cmd.OutOrStdout(), questions)
		},
	}
	cmd.Flags().StringVar(&role, "role", "", "Job role the questions target")
	cmd.Flags().StringVar(&description, "description", "", "Optional job description")
	cmd.MarkFlagRequired("role")
	return cmd
}
