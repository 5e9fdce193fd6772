package cli

import (
	"fmt"
	"mime"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"peerprep/interview/internal/resume"
)

func newExtractCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "extract <file>",
		Short: "Show the contact details found in a resume",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			f, err := os.Open(path)
			if err != nil {
				return fmt.Errorf("opening resume: %w", err)
			}
			defer f.Close()

			name := filepath.Base(path)
			text, err := resume.PlainTextExtractor{}.Extract(cmd.Context(), name, mime.TypeByExtension(filepath.Ext(name)), f)
			if err != nil {
				return fmt.Errorf("reading %s: %w", name, err)
			}
			return writeJSON(cmd.OutOrStdout(), resume.ExtractFields(text))
		},
	}
}
