// Package cli defines the interviewctl commands: offline access to the LLM
// gateway and resume parser, and store maintenance.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"peerprep/interview/internal/config"
	"peerprep/interview/internal/gateway"
	"peerprep/interview/internal/llm"
	_ "peerprep/interview/internal/llm/gemini"
	_ "peerprep/interview/internal/llm/hf"
	"peerprep/interview/internal/prompts"
)

var version = "dev" // set via ldflags at build time

type options struct {
	configFile string
	verbose    bool
}

// NewRootCommand builds the command tree.
func NewRootCommand() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:   "interviewctl",
		Short: "Operator tooling for the interview service",
		Long: `interviewctl talks to the same LLM provider and store as the interview
service. Use it to try question generation and scoring from a shell, to check
what the resume parser finds in a file, or to wipe the interview store.`,
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if opts.configFile != "" {
				return os.Setenv("INTERVIEW_CONFIG_FILE", opts.configFile)
			}
			return nil
		},
	}

	root.PersistentFlags().StringVar(&opts.configFile, "config", "", "YAML config file (overrides INTERVIEW_CONFIG_FILE)")
	root.PersistentFlags().BoolVar(&opts.verbose, "verbose", false, "Log provider calls and retries to stderr")

	root.AddCommand(newGenerateCommand(opts))
	root.AddCommand(newScoreCommand(opts))
	root.AddCommand(newExtractCommand())
	root.AddCommand(newPurgeCommand())
	return root
}

// Execute runs the root command. Called from main.
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func (o *options) logger() *zap.Logger {
	if !o.verbose {
		return zap.NewNop()
	}
	logger, err := zap.NewDevelopment()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

// newGateway wires the configured provider the same way the server does, minus the score cache.
func (o *options) newGateway() (*gateway.Gateway, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	provider, err := llm.NewProvider(cfg.Provider)
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}
	pm, err := prompts.NewPromptManager()
	if err != nil {
		return nil, err
	}
	logger := o.logger()
	retry := llm.NewRetryPolicy(cfg.Retry.MaxRetries, cfg.Retry.BaseBackoff, cfg.Retry.MaxBackoff)
	return gateway.New(llm.NewCaller(provider, retry, logger), pm, nil, logger), nil
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
