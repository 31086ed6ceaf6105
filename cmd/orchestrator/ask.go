// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/birkanzambak/scientific-ai-orchestrator/internal/classify"
	"github.com/birkanzambak/scientific-ai-orchestrator/internal/evidence"
	"github.com/birkanzambak/scientific-ai-orchestrator/internal/llm"
	"github.com/birkanzambak/scientific-ai-orchestrator/internal/pipeline"
	"github.com/birkanzambak/scientific-ai-orchestrator/internal/queue"
	"github.com/birkanzambak/scientific-ai-orchestrator/internal/reason"
	"github.com/birkanzambak/scientific-ai-orchestrator/internal/search"
	"github.com/birkanzambak/scientific-ai-orchestrator/internal/store"
	"github.com/birkanzambak/scientific-ai-orchestrator/internal/verify"
	"github.com/birkanzambak/scientific-ai-orchestrator/pkg/types"
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Submit a research question and wait for the answer",
	Long: `Ask runs the full pipeline for one question: classification, evidence
acquisition, reasoning, and verification. The command blocks until the run
reaches a terminal state and prints the final record.`,
	RunE: runAsk,
}

func init() {
	askCmd.Flags().Bool("json", false, "output the record as JSON")
	askCmd.Flags().Bool("summary", false, "output the flattened summary view")
	askCmd.Flags().Duration("poll-interval", time.Second, "record poll interval while waiting")

	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	question := strings.TrimSpace(strings.Join(args, " "))
	if question == "" {
		return fmt.Errorf("provide a research question")
	}

	cfg := loadConfig()

	st, err := store.NewStore(cfg.Store)
	if err != nil {
		return err
	}
	defer st.Close()

	q := newPipelineQueue(cfg, st)
	q.Start(cmd.Context())
	defer q.Shutdown()

	runID, err := q.Submit(cmd.Context(), question)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "run %s submitted\n", runID)

	interval, _ := cmd.Flags().GetDuration("poll-interval")
	record, err := q.Watch(cmd.Context(), runID, interval)
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
	if err := printResult(cmd, record); err != nil {
		return err
	}
	if record.Status == types.StatusFailed {
		return fmt.Errorf("run %s failed: %s", runID, record.Error)
	}
	return nil
}

// newPipelineQueue wires the stages, coordinator, and worker pool from the
// configuration.
func newPipelineQueue(cfg types.PipelineConfig, st *store.Store) *queue.Queue {
	client := &http.Client{Timeout: cfg.Search.Timeout}

	var sources []search.Source
	if cfg.Search.EnableArxiv {
		sources = append(sources, &search.ArxivSource{Client: client})
	}
	if cfg.Search.EnableSemanticScholar {
		sources = append(sources, &search.SemanticScholarSource{
			Client: client,
			APIKey: cfg.Search.SemanticScholarAPIKey,
		})
	}

	completer := llm.NewOpenAI(cfg.LLM)
	verifier := verify.New(completer, types.TierLow)
	classifier := classify.New(completer, types.TierLow)
	reasoner := reason.New(completer, cfg.LLM, os.Stderr)
	engine := evidence.NewEngine(sources, verifier, cfg.Evidence, cfg.Search, os.Stderr)

	coordinator := pipeline.NewCoordinator(classifier, engine, reasoner, verifier, st, pipeline.Options{
		Retry:      cfg.Retry,
		Timeouts:   cfg.Timeouts,
		Breakers:   pipeline.NewBreakers(cfg.Breaker),
		MaxResults: cfg.Evidence.MaxResults,
		Progress: func(runID, step string) {
			fmt.Fprintf(os.Stderr, "run %s: %s\n", runID, step)
		},
		Log: os.Stderr,
	})

	return queue.New(coordinator, st, cfg.Queue, os.Stderr)
}

// printResult renders v as YAML, or JSON with --json.
func printResult(cmd *cobra.Command, v any) error {
	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	}
	data, err := yaml.Marshal(v)
	if err != nil {
		return err
	}
	fmt.Print(string(data))
	return nil
}
