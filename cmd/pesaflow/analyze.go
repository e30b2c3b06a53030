package main

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pesaflow/pesaflow/internal/classification"
	"github.com/pesaflow/pesaflow/internal/cli"
	"github.com/pesaflow/pesaflow/internal/common"
	"github.com/pesaflow/pesaflow/internal/ingest"
	"github.com/pesaflow/pesaflow/internal/insights"
	"github.com/pesaflow/pesaflow/internal/markov"
	"github.com/pesaflow/pesaflow/internal/model"
	"github.com/pesaflow/pesaflow/internal/normalize"
	"github.com/pesaflow/pesaflow/internal/storage"
)

func analyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze [statement.csv|statement.pdf]",
		Short: "Analyze a statement: ledger, behavior model, risks and recommendations",
		Long: `Extract transactions from a statement export, build the canonical ledger,
train the behavioral Markov model and print the full analysis.

Examples:
  pesaflow analyze ~/Downloads/statement.pdf
  pesaflow analyze --order 3 --anomaly-threshold 0.05 statement.csv
  pesaflow analyze --ledger july-2025`,
		Args: cobra.MaximumNArgs(1),
		RunE: runAnalyze,
	}

	cmd.Flags().String("ledger", "", "analyze a stored ledger instead of a file")
	cmd.Flags().Int("order", 0, "Markov chain order (default from config)")
	cmd.Flags().Float64("anomaly-threshold", 0, "transition probability below which a move is anomalous")
	cmd.Flags().Bool("forecast", false, "include monthly per-category forecasts")
	cmd.Flags().Bool("summary", false, "include per-category expense summary")

	return cmd
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	ledgerName, _ := cmd.Flags().GetString("ledger")
	if (ledgerName == "") == (len(args) == 0) {
		return fmt.Errorf("provide a statement file or --ledger, not both")
	}

	order, _ := cmd.Flags().GetInt("order")
	if order <= 0 {
		order = viper.GetInt("markov.order")
	}
	threshold, _ := cmd.Flags().GetFloat64("anomaly-threshold")
	if threshold <= 0 {
		threshold = viper.GetFloat64("markov.anomaly_threshold")
	}

	var ledger model.Ledger
	var err error
	if ledgerName != "" {
		ledger, err = loadStoredLedger(cmd.Context(), ledgerName)
	} else {
		ledger, err = buildLedger(cmd.Context(), args[0])
	}
	if err != nil {
		return err
	}

	mdl := markov.New(order)
	if err := mdl.Train(ledger); err != nil {
		return fmt.Errorf("training model: %w", err)
	}
	slog.Info("model trained",
		"transactions", len(ledger),
		"states", mdl.Stats().States,
		"transitions", mdl.Stats().Transitions)

	engine := insights.NewEngine()
	engine.AnomalyThreshold = threshold
	analysis, err := engine.Analyze(ledger, mdl)
	if err != nil {
		return fmt.Errorf("analyzing behavior: %w", err)
	}

	fmt.Print(cli.RenderReport(ledger, mdl.Stats(), analysis))

	if show, _ := cmd.Flags().GetBool("summary"); show {
		fmt.Println(cli.RenderCategorySummary(classification.SummarizeExpenses(ledger)))
	}
	if show, _ := cmd.Flags().GetBool("forecast"); show {
		fmt.Println(cli.RenderForecast(analysis.MonthlyForecast, ledger.Categories()))
	}

	return nil
}

// buildLedger runs the ingestion pipeline: extract, normalize, categorize.
// Custom category mappings from the database take precedence over the
// keyword rules.
func buildLedger(ctx context.Context, path string) (model.Ledger, error) {
	var bar *progressbar.ProgressBar
	opts := ingest.Options{}
	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		opts.Progress = func(page, total int) {
			if bar == nil {
				bar = progressbar.Default(int64(total), "extracting pages")
			}
			_ = bar.Set(page)
		}
	}

	rows, err := ingest.ExtractFile(path, opts)
	if err != nil {
		if common.IsIngestionFailure(err) {
			return nil, common.NewUserError(fmt.Sprintf("could not ingest %s", filepath.Base(path)), err)
		}
		return nil, err
	}

	ledger := normalize.Normalize(rows)
	if len(ledger) == 0 {
		return nil, common.NewUserError(fmt.Sprintf("could not ingest %s", filepath.Base(path)), common.ErrNoTransactions)
	}
	slog.Info("ledger built", "raw_rows", len(rows), "transactions", len(ledger))

	categorizer := classification.NewCategorizer(loadCustomMappings(ctx))
	categorizer.Categorize(ledger)

	return ledger, nil
}

// loadStoredLedger re-analyzes a previously imported ledger.
func loadStoredLedger(ctx context.Context, name string) (model.Ledger, error) {
	store, err := openStore()
	if err != nil {
		return nil, err
	}
	defer func() { _ = store.Close() }()

	ledger, err := store.LoadLedger(ctx, name)
	if err != nil {
		if storage.IsNotFound(err) {
			return nil, common.NewUserError(fmt.Sprintf("no stored ledger named %q", name), err)
		}
		return nil, err
	}
	return ledger, nil
}

// loadCustomMappings reads stored overrides; a missing or unreadable database
// only disables overrides, it never blocks analysis.
func loadCustomMappings(ctx context.Context) map[string]string {
	dbPath, err := databasePath()
	if err != nil {
		return nil
	}
	store, err := storage.Open(dbPath)
	if err != nil {
		slog.Debug("no mapping database", "error", err)
		return nil
	}
	defer func() { _ = store.Close() }()

	mappings, err := store.ListCategoryMappings(ctx)
	if err != nil {
		slog.Debug("failed to load mappings", "error", err)
		return nil
	}
	return mappings
}
