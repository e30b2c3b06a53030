package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/pesaflow/pesaflow/internal/storage"
)

func categoriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "Manage custom category mappings",
		Long: `Custom mappings pin an exact transaction description to a category. They
take precedence over the built-in keyword rules during analysis.`,
	}

	cmd.AddCommand(categoriesListCmd())
	cmd.AddCommand(categoriesSetCmd())
	cmd.AddCommand(categoriesRemoveCmd())

	return cmd
}

func categoriesListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List custom mappings",
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := openStore()
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			mappings, err := store.ListCategoryMappings(cmd.Context())
			if err != nil {
				return err
			}
			if len(mappings) == 0 {
				fmt.Println("no custom mappings")
				return nil
			}

			descriptions := make([]string, 0, len(mappings))
			for d := range mappings {
				descriptions = append(descriptions, d)
			}
			sort.Strings(descriptions)
			for _, d := range descriptions {
				fmt.Printf("%-40s → %s\n", d, mappings[d])
			}
			return nil
		},
	}
}

func categoriesSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set [description] [category]",
		Short: "Map an exact description to a category",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore()
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if err := store.SetCategoryMapping(cmd.Context(), args[0], args[1]); err != nil {
				return err
			}
			fmt.Printf("mapped %q → %s\n", args[0], args[1])
			return nil
		},
	}
}

func categoriesRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove [description]",
		Short: "Remove a custom mapping",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore()
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if err := store.DeleteCategoryMapping(cmd.Context(), args[0]); err != nil {
				if storage.IsNotFound(err) {
					return fmt.Errorf("no mapping for %q", args[0])
				}
				return err
			}
			fmt.Printf("removed mapping for %q\n", args[0])
			return nil
		},
	}
}

func openStore() (*storage.Store, error) {
	dbPath, err := databasePath()
	if err != nil {
		return nil, err
	}
	return storage.Open(dbPath)
}
