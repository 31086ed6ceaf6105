// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/birkanzambak/scientific-ai-orchestrator/internal/store"
)

var purgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Remove expired run records from the store",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		st, err := store.NewStore(cfg.Store)
		if err != nil {
			return err
		}
		defer st.Close()

		n, err := st.Purge(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Printf("purged %d expired record(s)\n", n)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(purgeCmd)
}
