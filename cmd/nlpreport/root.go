package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/nao1215/nlpreport/internal/config"
	"github.com/spf13/cobra"
)

// errRunFailed signals a failure that was already reported on the console.
var errRunFailed = errors.New("analysis failed")

// NewRootCmd creates the root command for nlpreport.
// Without a subcommand it analyzes the built-in example text.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "nlpreport",
		Short: "Write linguistic analysis reports with Stanford CoreNLP",
		Long: `nlpreport sends text to a Stanford CoreNLP server and writes the analysis
(sentences, sentiment, parse trees, dependencies, named entities and
coreference chains) to results/analysis_output_<YYYYMMDD_HHMMSS>.txt.

Run without arguments to analyze the built-in example text, or use
'nlpreport analyze <file>' for your own documents.

Settings are read from .nlpreport (current directory, then home directory),
then from .env and NLPREPORT_* environment variables, then from flags.`,
		Version:       getVersion(),
		Args:          cobra.NoArgs,
		RunE:          runAnalyzeCmd,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := cmd.PersistentFlags()
	flags.BoolP("verbose", "v", false, "Enable verbose logging")
	flags.StringP("config", "c", "",
		"Configuration file path (default: .nlpreport in current or home directory)")
	flags.String("env-file", ".env", "Dotenv file with NLPREPORT_* variables")
	flags.StringP("server", "s", config.DefaultServerURL, "CoreNLP server URL")
	flags.StringP("annotators", "a", "", "Comma separated annotator stages (default: all)")
	flags.String("pos-model", config.DefaultPOSModel, "Part-of-speech tagger model")
	flags.StringP("output-dir", "o", config.DefaultOutputDir, "Directory for report files")
	flags.StringP("format", "f", "text", "Report format: text, json or markdown")
	flags.String("from-json", "", "Replay a saved CoreNLP JSON document instead of calling the server")
	flags.DurationP("timeout", "t", config.DefaultTimeout, "Timeout for a single annotation request")
	flags.Duration("wait-ready", 0, "Wait up to this long for the server to become ready")
	flags.Bool("history", false, "Record the run in the history database")

	cmd.Flags().Bool("print", false, "Also print the report to standard output")

	cmd.AddCommand(NewAnalyzeCmd())
	cmd.AddCommand(NewBatchCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		if !errors.Is(err, errRunFailed) {
			fmt.Fprintln(os.Stderr, "[ERROR] "+err.Error())
		}
		os.Exit(1)
	}
}
