package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/nao1215/markdown"
	"github.com/nao1215/nlpreport/internal/config"
	"github.com/nao1215/nlpreport/internal/database"
	"github.com/nao1215/nlpreport/internal/input"
	"github.com/nao1215/nlpreport/internal/model"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

// defaultHistoryLimit is the number of runs listed unless --limit is given.
const defaultHistoryLimit = 20

// NewHistoryCmd creates the history command.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history [file]",
		Short: "List recorded analysis runs",
		Long: `History lists the runs recorded in the history database, newest first.

With a file argument only runs over the same text are listed, so you can
find earlier reports for a document.

Examples:
  # Show the last 20 runs
  nlpreport history

  # Show every run as JSON
  nlpreport history --limit 0 --json

  # Show runs over notes.txt as a Markdown table
  nlpreport history --markdown notes.txt

  # Show a single run by its ID
  nlpreport history --run 0b7c6f5e-1d2a-4c59-9a53-4a0f5d1e2b3c`,
		Args: cobra.MaximumNArgs(1),
		RunE: runHistoryCmd,
	}

	cmd.Flags().BoolP("json", "j", false,
		"Output history in JSON format (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output history in Markdown format (mutually exclusive with --json)")
	cmd.Flags().IntP("limit", "n", defaultHistoryLimit,
		"Maximum number of runs to list (0 lists all)")
	cmd.Flags().StringP("run", "r", "", "Show only the run with this ID")
	cmd.MarkFlagsMutuallyExclusive("json", "markdown")

	return cmd
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, args []string) error {
	jsonOutput, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}
	markdownOutput, err := cmd.Flags().GetBool("markdown")
	if err != nil {
		return err
	}
	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return err
	}
	runID, err := cmd.Flags().GetString("run")
	if err != nil {
		return err
	}
	if runID != "" && len(args) == 1 {
		return errors.New("--run cannot be combined with a file argument")
	}

	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	db, err := database.Open(cfg.DBDir, database.Options{CreateIfNotExists: false, EnableWAL: true})
	if errors.Is(err, database.ErrDatabaseNotFound) {
		fmt.Fprintln(out, "No runs recorded yet.")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to open history database: %w", err)
	}
	defer db.Close()

	ctx := cmd.Context()
	var records []database.RunRecord
	switch {
	case runID != "":
		record, err := db.GetRun(ctx, runID)
		if err != nil {
			return fmt.Errorf("failed to get run %s: %w", runID, err)
		}
		records = []database.RunRecord{*record}
	case len(args) == 1:
		text, err := inputText(args[0], cfg)
		if err != nil {
			return err
		}
		records, err = db.RunsForDigest(ctx, model.Digest(text))
		if err != nil {
			return fmt.Errorf("failed to list runs: %w", err)
		}
		if limit > 0 && len(records) > limit {
			records = records[:limit]
		}
	default:
		records, err = db.ListRuns(ctx, limit)
		if err != nil {
			return fmt.Errorf("failed to list runs: %w", err)
		}
	}

	switch {
	case jsonOutput:
		return outputHistoryJSON(out, records)
	case markdownOutput:
		return outputHistoryMarkdown(out, records)
	default:
		outputHistoryText(out, records)
		return nil
	}
}

// inputText returns the text a run over name analyzed.
func inputText(name string, cfg *config.Config) (string, error) {
	if name == builtinInput {
		return cfg.Text, nil
	}
	return input.Load(afero.NewOsFs(), name)
}

// outputHistoryJSON writes records as an indented JSON array.
func outputHistoryJSON(out io.Writer, records []database.RunRecord) error {
	if records == nil {
		records = []database.RunRecord{}
	}
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(records)
}

// outputHistoryMarkdown writes records as a Markdown table.
func outputHistoryMarkdown(out io.Writer, records []database.RunRecord) error {
	md := markdown.NewMarkdown(out).H1("Analysis History")
	if len(records) == 0 {
		md.PlainText("No runs recorded.")
		return md.Build()
	}

	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{
			r.StartedAt.Local().Format(time.DateTime),
			r.InputName,
			string(r.Status),
			strconv.Itoa(r.Sentences),
			strconv.Itoa(r.Chains),
			resultColumn(r),
		})
	}
	md.Table(markdown.TableSet{
		Header: []string{"Started", "Input", "Status", "Sentences", "Chains", "Report / Error"},
		Rows:   rows,
	})
	return md.Build()
}

// outputHistoryText writes records as an aligned text table.
func outputHistoryText(out io.Writer, records []database.RunRecord) {
	if len(records) == 0 {
		fmt.Fprintln(out, "No runs recorded.")
		return
	}

	fmt.Fprintf(out, "Recorded runs (%d):\n\n", len(records))
	fmt.Fprintf(out, "  %-19s  %-9s  %-9s  %-6s  %s\n", "Started", "Status", "Sentences", "Chains", "Input")
	fmt.Fprintln(out, "  "+strings.Repeat("-", 72))
	for _, r := range records {
		fmt.Fprintf(out, "  %-19s  %-9s  %-9d  %-6d  %s\n",
			r.StartedAt.Local().Format(time.DateTime), r.Status, r.Sentences, r.Chains, r.InputName)
		fmt.Fprintf(out, "  %19s  -> %s\n", "", resultColumn(r))
	}
}

// resultColumn returns the report path of a run, or its error.
func resultColumn(r database.RunRecord) string {
	switch {
	case r.OutputPath != "":
		return r.OutputPath
	case r.Error != "":
		return "error: " + r.Error
	default:
		return "-"
	}
}
