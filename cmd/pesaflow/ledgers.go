package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

func ledgersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ledgers",
		Short: "Manage imported ledgers",
	}

	cmd.AddCommand(ledgersListCmd())

	return cmd
}

func ledgersListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored ledgers",
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := openStore()
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			ledgers, err := store.ListLedgers(cmd.Context())
			if err != nil {
				return err
			}
			if len(ledgers) == 0 {
				fmt.Println("no imported ledgers")
				return nil
			}

			names := make([]string, 0, len(ledgers))
			for name := range ledgers {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				fmt.Printf("%-40s %d transactions\n", name, ledgers[name])
			}
			return nil
		},
	}
}
