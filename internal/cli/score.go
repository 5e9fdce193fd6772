package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"peerprep/interview/internal/models"
)

func newScoreCommand(opts *options) *cobra.Command {
	var question, answer, difficulty string
	cmd := &cobra.Command{
		Use:   "score",
		Short: "Grade one answer to one question",
		Long: `Score grades an answer the way a live interview would and prints the
grade as JSON. When the provider fails the default grade is printed and the
error is reported on stderr.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := models.ParseDifficulty(difficulty)
			if err != nil {
				return err
			}
			gw, err := opts.newGateway()
			if err != nil {
				return err
			}
			q := models.NewQuestion("cli", d, question)
			grade, err := gw.ScoreAnswer(cmd.Context(), &q, answer)
			if err != nil {
				grade.Fallback = true
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", err)
			}
			return writeJSON(cmd.OutOrStdout(), grade)
		},
	}
	cmd.Flags().StringVar(&question, "question", "", "Question text")
	cmd.Flags().StringVar(&answer, "answer", "", "Candidate answer")
	cmd.Flags().StringVar(&difficulty, "difficulty", "easy", "easy, medium or hard")
	cmd.MarkFlagRequired("question")
	return cmd
}
