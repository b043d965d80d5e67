package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/rajasatyajit/grievance-insights/config"
	"github.com/rajasatyajit/grievance-insights/internal/ingest"
	"github.com/rajasatyajit/grievance-insights/internal/lexicon"
	"github.com/rajasatyajit/grievance-insights/internal/logger"
	"github.com/rajasatyajit/grievance-insights/internal/models"
	"github.com/rajasatyajit/grievance-insights/internal/pipeline"
	"github.com/rajasatyajit/grievance-insights/internal/sample"
)

type rootOptions struct {
	lexiconPath string
	verbose     bool
}

type analyzeOptions struct {
	file    string
	column  string
	details bool
	pretty  bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "grievancectl",
		Short:         "Classify and summarize complaint batches",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// stdout carries JSON; logs go to stderr
			level := "warn"
			if opts.verbose {
				level = "debug"
			}
			logger.InitWithWriter(cmd.ErrOrStderr(), level, "text")
		},
	}

	cmd.PersistentFlags().StringVar(&opts.lexiconPath, "lexicon", "", "YAML lexicon file (default: built-in lexicon)")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log pipeline activity to stderr")

	cmd.AddCommand(newAnalyzeCmd(opts), newCategoriesCmd(opts), newDemoCmd(opts))
	return cmd
}

func newAnalyzeCmd(root *rootOptions) *cobra.Command {
	opts := &analyzeOptions{}

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Analyze complaints from a CSV file",
		Long: `Reads complaints from one column of a CSV file (or stdin with --file -)
and prints the dashboard summary as JSON. When the column is missing the first
column is used instead.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd, root, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.file, "file", "f", "", `CSV file to analyze, "-" for stdin`)
	cmd.Flags().StringVar(&opts.column, "column", ingest.DefaultColumn, "CSV column holding complaint text")
	cmd.Flags().BoolVar(&opts.details, "details", false, "include per-complaint classifications")
	cmd.Flags().BoolVar(&opts.pretty, "pretty", false, "indent JSON output")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func newCategoriesCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List category labels in priority order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := newPipeline(root)
			if err != nil {
				return err
			}
			for _, c := range p.Categories() {
				fmt.Fprintln(cmd.OutOrStdout(), c)
			}
			return nil
		},
	}
}

func newDemoCmd(root *rootOptions) *cobra.Command {
	var details, pretty bool

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Analyze the built-in sample batch",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := newPipeline(root)
			if err != nil {
				return err
			}
			summary, err := p.ProcessComplaints(cmd.Context(), sample.Complaints(), pipeline.Options{IncludeDetails: details})
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), summary, pretty)
		},
	}

	cmd.Flags().BoolVar(&details, "details", false, "include per-complaint classifications")
	cmd.Flags().BoolVar(&pretty, "pretty", false, "indent JSON output")
	return cmd
}

func runAnalyze(cmd *cobra.Command, root *rootOptions, opts *analyzeOptions) error {
	p, err := newPipeline(root)
	if err != nil {
		return err
	}

	items, err := readComplaints(cmd, opts)
	if err != nil {
		return err
	}

	summary, err := p.ProcessComplaints(cmd.Context(), items, pipeline.Options{IncludeDetails: opts.details})
	if err != nil {
		return fmt.Errorf("analyze %s: %w", opts.file, err)
	}

	return writeJSON(cmd.OutOrStdout(), summary, opts.pretty)
}

func readComplaints(cmd *cobra.Command, opts *analyzeOptions) ([]models.RawComplaint, error) {
	var r io.Reader
	if opts.file == "-" {
		r = cmd.InOrStdin()
	} else {
		f, err := os.Open(opts.file)
		if err != nil {
			return nil, fmt.Errorf("open csv: %w", err)
		}
		defer f.Close()
		r = f
	}

	result, err := ingest.ReadCSV(r, opts.column)
	if err != nil {
		return nil, err
	}
	if result.FirstColumnFallback {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: column %q not found, using first column %q\n", opts.column, result.Column)
	}
	return result.Complaints, nil
}

// newPipeline builds a pipeline from the environment's analysis settings and
// the selected lexicon
func newPipeline(root *rootOptions) (*pipeline.Pipeline, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	lex := lexicon.Default()
	if root.lexiconPath != "" {
		lex, err = lexicon.LoadFile(root.lexiconPath)
		if err != nil {
			return nil, err
		}
	}

	return pipeline.New(lex, cfg.Analysis), nil
}

func writeJSON(w io.Writer, v interface{}, pretty bool) error {
	enc := json.NewEncoder(w)
	if pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}
