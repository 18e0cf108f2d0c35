package cli

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/ementa/internal/dataset"
	domanalysis "github.com/kailas-cloud/ementa/internal/domain/analysis"
	"github.com/kailas-cloud/ementa/internal/domain/decision"
	"github.com/kailas-cloud/ementa/internal/domain/search/criteria"
	logpkg "github.com/kailas-cloud/ementa/internal/logger"
	analysisuc "github.com/kailas-cloud/ementa/internal/usecase/analysis"
	"github.com/kailas-cloud/ementa/internal/usecase/keyword"
)

type analyzeFlags struct {
	input         string
	sample        int
	seed          uint64
	terms         string
	stopwordsFile string
	court         string
	query         string
	outcomes      []string
	years         []int
	top           int
	out           string
	noReport      bool
	timeout       time.Duration
}

func analyzeCmd(opts *rootOptions) *cobra.Command {
	f := &analyzeFlags{}

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Analyze a decision file and write the CSV and PDF exports",
		Long: `Analyze loads a decision file (or a generated sample), applies the filters,
counts the keyword terms, ranks frequent words and writes:
  decisoes_encontradas.csv, frequencia_termos.csv and relatorio_analise.pdf

Example:
  ementa analyze --input decisoes_stf_stj.csv --terms "dano moral, habeas corpus" --out ./out
  ementa analyze --sample 200 --court STF --year 2021 --year 2022 --out ./out`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runAnalyze(cmd, opts, f)
		},
	}

	cmd.Flags().StringVarP(&f.input, "input", "i", "", "decision file (CSV, comma or semicolon separated)")
	cmd.Flags().IntVar(&f.sample, "sample", 0, "analyze N generated sample decisions instead of a file")
	cmd.Flags().Uint64Var(&f.seed, "seed", 1, "sample generator seed")
	cmd.Flags().StringVar(&f.terms, "terms", "", "comma-separated terms (default: config analysis.default_terms)")
	cmd.Flags().StringVar(&f.stopwordsFile, "stopwords-file", "", "file with one stopword per line (default: config analysis.stopwords)")
	cmd.Flags().StringVar(&f.court, "court", "", "court filter (empty or Ambos for any)")
	cmd.Flags().StringVarP(&f.query, "query", "q", "", "free-text filter over the summaries")
	cmd.Flags().StringSliceVar(&f.outcomes, "outcome", nil, "outcome filter (repeatable)")
	cmd.Flags().IntSliceVar(&f.years, "year", nil, "year filter (repeatable)")
	cmd.Flags().IntVar(&f.top, "top", 0, "number of ranked words (default: config analysis.top_words)")
	cmd.Flags().StringVarP(&f.out, "out", "o", ".", "output directory")
	cmd.Flags().BoolVar(&f.noReport, "no-report", false, "skip the PDF report")
	cmd.Flags().DurationVar(&f.timeout, "timeout", 2*time.Minute, "overall timeout (bounds the summarizer call)")
	cmd.MarkFlagsMutuallyExclusive("input", "sample")

	return cmd
}

func runAnalyze(cmd *cobra.Command, opts *rootOptions, f *analyzeFlags) error {
	if f.input == "" && f.sample <= 0 {
		return fmt.Errorf("one of --input or --sample is required")
	}

	cfg, err := opts.load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger, err := logpkg.NewLogger("cli", cfg.Logging.Level)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, cancel := context.WithTimeout(cmd.Context(), f.timeout)
	defer cancel()

	ds, err := f.dataset()
	if err != nil {
		return err
	}

	c, err := criteria.New(f.court, f.query, f.outcomes, f.years, 0)
	if err != nil {
		return fmt.Errorf("filters: %w", err)
	}

	terms := cfg.Analysis.DefaultTerms
	if cmd.Flags().Changed("terms") {
		terms = f.terms
	}
	stopwords := cfg.Analysis.Stopwords
	if f.stopwordsFile != "" {
		raw, err := os.ReadFile(filepath.Clean(f.stopwordsFile))
		if err != nil {
			return fmt.Errorf("read stopwords: %w", err)
		}
		stopwords = string(raw)
	}
	top := cfg.Analysis.TopWords
	if f.top > 0 {
		top = f.top
	}

	analyzer, _, err := newAnalyzer(ctx, cfg, nil, logger)
	if err != nil {
		return err
	}

	res := analyzer.Run(ds, analysisuc.Request{
		Criteria:  c,
		Terms:     keyword.ParseTerms(terms),
		Stopwords: keyword.ParseStopwords(stopwords),
		TopN:      top,
	})

	if err := os.MkdirAll(f.out, 0o750); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	var matched bytes.Buffer
	if err := dataset.WriteMatched(&matched, analysisuc.Matched(ds, res), ds.HasDate()); err != nil {
		return fmt.Errorf("export matched: %w", err)
	}
	if err := writeOutput(f.out, dataset.MatchedFileName, matched.Bytes()); err != nil {
		return err
	}

	var freqs bytes.Buffer
	if err := dataset.WriteFrequencies(&freqs, res.Frequencies); err != nil {
		return fmt.Errorf("export frequencies: %w", err)
	}
	if err := writeOutput(f.out, dataset.FrequencyFileName, freqs.Bytes()); err != nil {
		return err
	}

	if !f.noReport {
		pdf, err := analyzer.Report(ctx, ds, res)
		if err != nil {
			return fmt.Errorf("render report: %w", err)
		}
		if err := writeOutput(f.out, dataset.ReportFileName, pdf); err != nil {
			return err
		}
	}

	return printSummary(cmd.OutOrStdout(), ds, res)
}

func (f *analyzeFlags) dataset() (decision.Dataset, error) {
	if f.sample > 0 {
		ds, err := dataset.Sample(f.sample, f.seed)
		if err != nil {
			return decision.Dataset{}, fmt.Errorf("generate sample: %w", err)
		}
		return ds, nil
	}

	file, err := os.Open(filepath.Clean(f.input))
	if err != nil {
		return decision.Dataset{}, fmt.Errorf("open input: %w", err)
	}
	defer file.Close()

	ds, err := dataset.Load(file)
	if err != nil {
		return decision.Dataset{}, fmt.Errorf("load %s: %w", f.input, err)
	}
	return ds, nil
}

func writeOutput(dir, name string, data []byte) error {
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func printSummary(w io.Writer, ds decision.Dataset, res domanalysis.Result) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Decisões carregadas:\t%d\n", ds.Len())
	fmt.Fprintf(tw, "Decisões filtradas:\t%d\n", res.FilteredCount)
	fmt.Fprintf(tw, "Decisões encontradas:\t%d\n", len(res.MatchedIDs))
	fmt.Fprintln(tw)

	fmt.Fprintln(tw, "Termo\tContagem")
	for _, f := range res.Frequencies {
		fmt.Fprintf(tw, "%s\t%d\n", f.Term, f.Count)
	}
	fmt.Fprintln(tw)

	fmt.Fprintln(tw, "Palavra\tOcorrências")
	for _, wc := range res.Ranking {
		fmt.Fprintf(tw, "%s\t%d\n", wc.Word, wc.Count)
	}

	if err := tw.Flush(); err != nil {
		return fmt.Errorf("print summary: %w", err)
	}
	return nil
}
