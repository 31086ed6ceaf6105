// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/birkanzambak/scientific-ai-orchestrator/internal/pipeline"
	"github.com/birkanzambak/scientific-ai-orchestrator/internal/store"
)

var getCmd = &cobra.Command{
	Use:   "get [run-id]",
	Short: "Fetch the current record for a run",
	RunE:  runGet,
}

func init() {
	getCmd.Flags().Bool("json", false, "output the record as JSON")
	getCmd.Flags().Bool("summary", false, "output the flattened summary view")

	rootCmd.AddCommand(getCmd)
}

func runGet(cmd *cobra.Command, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("provide exactly one run ID")
	}

	cfg := loadConfig()
	st, err := store.NewStore(cfg.Store)
	if err != nil {
		return err
	}
	defer st.Close()

	record, err := st.Get(cmd.Context(), args[0])
	if errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("run %s: not found", args[0])
	}
	if err != nil {
		return err
	}

	if summary, _ := cmd.Flags().GetBool("summary"); summary {
		s, err := pipeline.Summarize(record)
		if err != nil {
			return err
		}
		return printResult(cmd, s)
	}
	return printResult(cmd, record)
}
