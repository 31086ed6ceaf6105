// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline runs the coordinator state machine: classify the question,
// acquire evidence, extract numeric findings, reason, verify, and rerun the
// reasoning once with the verifier's critique when verification fails. The
// record is persisted after every transition so an external poller observes
// monotonic progress.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/birkanzambak/scientific-ai-orchestrator/internal/backoff"
	"github.com/birkanzambak/scientific-ai-orchestrator/internal/findings"
	"github.com/birkanzambak/scientific-ai-orchestrator/pkg/types"
)

// Stage step names reported as progress markers.
const (
	StepClassify = "classify"
	StepAcquire  = "acquire"
	StepReason   = "reason"
	StepVerify   = "verify"
	StepRerun    = "reason_rerun"
	StepDone     = "done"
)

// Classifier is the question classification stage.
type Classifier interface {
	Classify(ctx context.Context, question string) (types.KeywordSet, error)
}

// Acquirer is the evidence acquisition stage.
type Acquirer interface {
	Acquire(ctx context.Context, question string, kw types.KeywordSet, cap int) ([]types.EvidenceItem, error)
}

// Reasoner is the reasoning stage.
type Reasoner interface {
	Reason(ctx context.Context, question string, evidence []types.EvidenceItem, numeric []types.NumericFinding, critique []string) (*types.Answer, error)
}

// Verifier is the verification stage.
type Verifier interface {
	Verify(ctx context.Context, question string, answer *types.Answer) (*types.VerificationResult, error)
}

// RecordStore persists the run record.
type RecordStore interface {
	Put(ctx context.Context, record *types.PipelineRecord) error
}

// ProgressFunc receives coarse step markers as the run advances.
type ProgressFunc func(runID, step string)

// Breakers groups the per-collaborator circuit breakers. All runs share one
// set, so a failing collaborator trips for every run at once.
type Breakers struct {
	Classify *backoff.Breaker
	Acquire  *backoff.Breaker
	Reason   *backoff.Breaker
	Verify   *backoff.Breaker
}

// NewBreakers builds one breaker per collaborator from the shared thresholds.
func NewBreakers(cfg types.BreakerConfig) Breakers {
	return Breakers{
		Classify: backoff.NewBreaker("classifier", cfg.FailureThreshold, cfg.RecoveryTimeout),
		Acquire:  backoff.NewBreaker("search", cfg.FailureThreshold, cfg.RecoveryTimeout),
		Reason:   backoff.NewBreaker("reasoner", cfg.FailureThreshold, cfg.RecoveryTimeout),
		Verify:   backoff.NewBreaker("verifier", cfg.FailureThreshold, cfg.RecoveryTimeout),
	}
}

// Coordinator executes pipeline runs. Safe for concurrent use: per-run state
// lives on the stack, and the shared breakers and store synchronize
// internally.
type Coordinator struct {
	classifier Classifier
	acquirer   Acquirer
	reasoner   Reasoner
	verifier   Verifier
	store      RecordStore

	policy   backoff.Policy
	timeouts types.StageTimeouts
	breakers Breakers
	cap      int

	progress ProgressFunc
	w        io.Writer
}

// Options carries the coordinator's tunables.
type Options struct {
	Retry      types.RetryConfig
	Timeouts   types.StageTimeouts
	Breakers   Breakers
	MaxResults int

	// Progress receives step markers; nil disables reporting.
	Progress ProgressFunc

	// Log receives run progress lines; nil discards them.
	Log io.Writer
}

// NewCoordinator wires the stages into a coordinator.
func NewCoordinator(classifier Classifier, acquirer Acquirer, reasoner Reasoner, verifier Verifier, store RecordStore, opts Options) *Coordinator {
	if opts.Log == nil {
		opts.Log = io.Discard
	}
	return &Coordinator{
		classifier: classifier,
		acquirer:   acquirer,
		reasoner:   reasoner,
		verifier:   verifier,
		store:      store,
		policy: backoff.Policy{
			MaxAttempts: opts.Retry.MaxAttempts,
			BaseDelay:   opts.Retry.BaseDelay,
			MaxDelay:    opts.Retry.MaxDelay,
		},
		timeouts: opts.Timeouts,
		breakers: opts.Breakers,
		cap:      opts.MaxResults,
		progress: opts.Progress,
		w:        opts.Log,
	}
}

// Run executes one pipeline run to a terminal record. It never returns an
// error past its own boundary: any stage failure is recorded as a failed
// terminal record instead. The returned record is the final persisted state.
func (c *Coordinator) Run(ctx context.Context, runID, question string) *types.PipelineRecord {
	record := &types.PipelineRecord{
		ID:       runID,
		Question: question,
		Status:   types.StatusProcessing,
	}
	c.persist(ctx, record)

	if err := c.execute(ctx, record); err != nil {
		record.Status = types.StatusFailed
		record.Error = err.Error()
		fmt.Fprintf(c.w, "run %s failed: %v\n", runID, err)
	} else {
		record.Status = types.StatusCompleted
	}
	c.persist(ctx, record)
	c.report(runID, StepDone)
	return record
}

// execute advances the record through the stages, persisting after each
// transition. Partial stage output already written to the record survives a
// later failure.
func (c *Coordinator) execute(ctx context.Context, record *types.PipelineRecord) error {
	c.report(record.ID, StepClassify)
	kw, err := stage(ctx, c, c.timeouts.Classify, c.breakers.Classify, func(ctx context.Context) (types.KeywordSet, error) {
		return c.classifier.Classify(ctx, record.Question)
	})
	if err != nil {
		return err
	}
	record.Keywords = &kw
	c.persist(ctx, record)

	c.report(record.ID, StepAcquire)
	evidence, err := stage(ctx, c, c.timeouts.Acquire, c.breakers.Acquire, func(ctx context.Context) ([]types.EvidenceItem, error) {
		return c.acquirer.Acquire(ctx, record.Question, kw, c.cap)
	})
	if err != nil {
		return err
	}
	record.Evidence = evidence
	record.Findings = findings.ExtractAll(evidence)
	c.persist(ctx, record)

	c.report(record.ID, StepReason)
	answer, err := stage(ctx, c, c.timeouts.Reason, c.breakers.Reason, func(ctx context.Context) (*types.Answer, error) {
		return c.reasoner.Reason(ctx, record.Question, record.Evidence, record.Findings, nil)
	})
	if err != nil {
		return err
	}
	record.Answer = answer
	c.persist(ctx, record)

	c.report(record.ID, StepVerify)
	verification, err := stage(ctx, c, c.timeouts.Verify, c.breakers.Verify, func(ctx context.Context) (*types.VerificationResult, error) {
		return c.verifier.Verify(ctx, record.Question, record.Answer)
	})
	if err != nil {
		return err
	}
	record.Verification = verification
	c.persist(ctx, record)

	if verification.Passes {
		return nil
	}

	// One reasoning rerun with the critique; its answer is accepted
	// unconditionally and verification does not run again.
	c.report(record.ID, StepRerun)
	fmt.Fprintf(c.w, "run %s: verification flagged %d claims, rerunning reasoning\n",
		record.ID, len(verification.MissingClaims))
	rerun, err := stage(ctx, c, c.timeouts.Reason, c.breakers.Reason, func(ctx context.Context) (*types.Answer, error) {
		return c.reasoner.Reason(ctx, record.Question, record.Evidence, record.Findings, verification.MissingClaims)
	})
	if err != nil {
		return err
	}
	record.Answer = rerun
	c.persist(ctx, record)
	return nil
}

// stage runs one stage call under the shared retry policy, the stage's
// breaker, and its timeout budget. A timeout is converted to a retryable
// error, so it consumes one retry attempt like any other transient failure.
func stage[T any](ctx context.Context, c *Coordinator, timeout time.Duration, br *backoff.Breaker, op func(context.Context) (T, error)) (T, error) {
	return backoff.DoValue(ctx, c.policy, func(ctx context.Context) (T, error) {
		var out T
		err := br.Do(ctx, func(ctx context.Context) error {
			if timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, timeout)
				defer cancel()
			}
			v, opErr := op(ctx)
			if opErr != nil {
				if errors.Is(opErr, context.DeadlineExceeded) {
					return backoff.Retryablef("stage timed out after %s", timeout)
				}
				return opErr
			}
			out = v
			return nil
		})
		return out, err
	})
}

func (c *Coordinator) persist(ctx context.Context, record *types.PipelineRecord) {
	if err := c.store.Put(ctx, record); err != nil {
		// A failed intermediate write does not abort the run; the next
		// transition writes the same row again.
		fmt.Fprintf(c.w, "warning: persisting record %s: %v\n", record.ID, err)
	}
}

func (c *Coordinator) report(runID, step string) {
	if c.progress != nil {
		c.progress(runID, step)
	}
}
