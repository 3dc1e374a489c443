package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/starfall-systems/homeward/analyzer"
	"github.com/starfall-systems/homeward/config"
)

var catalogCmd = &cobra.Command{
	Use:   "seed-catalog",
	Short: "Create and populate the star catalog database",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.FromEnv()
		if err != nil {
			return err
		}

		db, err := analyzer.OpenCatalog(cmd.Context(), cfg.CatalogDSN)
		if err != nil {
			return err
		}
		defer db.Close()

		if err := analyzer.SeedCatalog(cmd.Context(), db); err != nil {
			return err
		}

		fmt.Printf("Star catalog ready at %s\n", cfg.CatalogDSN)
		return nil
	},
}
