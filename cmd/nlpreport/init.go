package main

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/template"

	"github.com/nao1215/nlpreport/internal/annotate"
	"github.com/nao1215/nlpreport/internal/config"
	"github.com/spf13/cobra"
)

//go:embed templates/nlpreport.yaml.tmpl
var configTemplateText string

var configTemplate = template.Must(template.New("nlpreport.yaml").Parse(configTemplateText))

// configFileName is the default configuration file name.
const configFileName = config.DefaultConfigFile

// NewInitCmd creates the init command.
func NewInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a commented nlpreport configuration file",
		Long: `Init writes a .nlpreport configuration file that documents every setting.

The file is filled with the defaults, or with the values of the server,
annotator, tagger model, output directory, format and history flags given
to init, so a working CoreNLP setup can be captured once and reused.
The annotators are checked before anything is written.

Examples:
  # Write .nlpreport with the defaults into the current directory
  nlpreport init

  # Point at a remote server and skip coreference
  nlpreport init --server http://corenlp.internal:9000 \
    -a tokenize,ssplit,pos,lemma,ner,parse,depparse,sentiment

  # Write the per-user file in the XDG config directory
  nlpreport init --xdg

  # Replace an existing file
  nlpreport init --path team.yaml --force`,
		Args: cobra.NoArgs,
		RunE: runInitCmd,
	}

	cmd.Flags().StringP("path", "p", configFileName,
		"File path for the configuration")
	cmd.Flags().Bool("xdg", false,
		"Write "+config.XDGConfigFile+" in the XDG config directory instead")
	cmd.Flags().Bool("force", false,
		"Overwrite existing configuration file")
	cmd.MarkFlagsMutuallyExclusive("path", "xdg")

	return cmd
}

// runInitCmd executes the init command.
func runInitCmd(cmd *cobra.Command, _ []string) error {
	outputPath, err := initOutputPath(cmd)
	if err != nil {
		return err
	}
	force, err := cmd.Flags().GetBool("force")
	if err != nil {
		return err
	}

	if !force {
		if _, err := os.Stat(outputPath); err == nil {
			return fmt.Errorf("configuration file already exists: %s (use --force to overwrite)", outputPath)
		}
	}

	cfg := config.NewConfig()
	if err := applyFlags(cmd, cfg); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}
	if _, err := annotate.NewStageConfig(cfg.Annotators, cfg.POSModel); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	var content bytes.Buffer
	if err := renderConfigTemplate(&content, cfg); err != nil {
		return err
	}

	if dir := filepath.Dir(outputPath); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	// The file may hold server credentials.
	if err := os.WriteFile(outputPath, content.Bytes(), 0o600); err != nil {
		return fmt.Errorf("failed to write configuration file: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Created configuration file: %s\n", outputPath)
	fmt.Fprintf(out, "\nStart a CoreNLP server at %s, for example with\n", cfg.ServerURL)
	fmt.Fprintln(out, "  java -mx4g -cp '*' edu.stanford.nlp.pipeline.StanfordCoreNLPServer -port 9000")
	fmt.Fprintln(out, "and run 'nlpreport analyze <file>'.")

	return nil
}

// initOutputPath returns where init writes the configuration file.
func initOutputPath(cmd *cobra.Command) (string, error) {
	xdgFile, err := cmd.Flags().GetBool("xdg")
	if err != nil {
		return "", err
	}
	if xdgFile {
		return filepath.Join(config.XDGConfigDir(), config.XDGConfigFile), nil
	}
	return cmd.Flags().GetString("path")
}

// renderConfigTemplate writes the commented configuration file for cfg.
func renderConfigTemplate(w io.Writer, cfg *config.Config) error {
	if err := configTemplate.Execute(w, cfg); err != nil {
		return fmt.Errorf("failed to render config template: %w", err)
	}
	return nil
}
