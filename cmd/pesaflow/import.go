package main

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pesaflow/pesaflow/internal/storage"
)

func importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import [statement.csv|statement.pdf]",
		Short: "Import a statement into the local database",
		Long: `Ingest a statement, normalize it into a ledger and store it locally so it
can be re-analyzed without the original file.

Examples:
  pesaflow import ~/Downloads/statement.csv
  pesaflow import --name july-2025 statement.pdf`,
		Args: cobra.ExactArgs(1),
		RunE: runImport,
	}

	cmd.Flags().String("name", "", "name to store the ledger under (default: file name)")
	cmd.Flags().BoolP("dry-run", "d", false, "preview import without saving")

	return cmd
}

func runImport(cmd *cobra.Command, args []string) error {
	path := args[0]

	name, _ := cmd.Flags().GetString("name")
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	ledger, err := buildLedger(cmd.Context(), path)
	if err != nil {
		return err
	}

	slog.Info("statement ingested",
		"name", name,
		"transactions", len(ledger),
		"inflow", ledger.TotalInflow().StringFixed(2),
		"outflow", ledger.TotalOutflow().StringFixed(2))

	if dryRun {
		fmt.Printf("dry run: would store %d transactions as %q\n", len(ledger), name)
		return nil
	}

	dbPath, err := databasePath()
	if err != nil {
		return err
	}
	store, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() { _ = store.Close() }()

	if err := store.SaveLedger(cmd.Context(), name, ledger); err != nil {
		return fmt.Errorf("saving ledger: %w", err)
	}

	fmt.Printf("stored %d transactions as %q\n", len(ledger), name)
	return nil
}
