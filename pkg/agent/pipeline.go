package agent

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"mizan-hq/mizan/pkg/audit"
	"mizan-hq/mizan/pkg/canonical"
	"mizan-hq/mizan/pkg/compliance"
	"mizan-hq/mizan/pkg/facts"
	"mizan-hq/mizan/pkg/policy"
	"mizan-hq/mizan/pkg/telemetry/metrics"
)

// llmOutputKey is the fact key the LM output is merged under before
// the post-check evaluation.
const llmOutputKey = "llmOutput"

// cancelledReason annotates the synthetic post-decision appended when
// the caller's context fires before or during the LM call.
const cancelledReason = "cancelled"

// ThinkFn lets a pipeline supply its own LM invocation instead of the
// adapter's default prompt construction.
type ThinkFn func(ctx context.Context, input facts.Map) (string, error)

// Result is the outcome of one pipeline run.
type Result struct {
	// Output is the final output string. When a rule blocked the run
	// it begins with "Blocked by rule: ".
	Output string `json:"output"`

	// Decisions holds the pre-check decision and, unless blocked, the
	// post-check decision.
	Decisions []*policy.Decision `json:"decisions"`

	// AuditTrail holds the audit entries appended during the run.
	AuditTrail []*audit.Entry `json:"auditTrail"`

	// Cancelled is set when the caller's context fired mid-run.
	Cancelled bool `json:"cancelled,omitempty"`
}

// Pipeline wraps an LM adapter with rule evaluation, audit logging and
// compliance reporting on both sides of the call.
type Pipeline struct {
	engine  *policy.Engine
	log     *audit.Log
	comp    *compliance.Evaluator
	adapter Adapter
	think   ThinkFn
	metrics *metrics.Collector
	logger  *slog.Logger
}

// NewPipeline builds a pipeline over the given components. The
// compliance evaluator may be nil, in which case no reports are
// attached.
func NewPipeline(engine *policy.Engine, log *audit.Log, comp *compliance.Evaluator, adapter Adapter) *Pipeline {
	return &Pipeline{
		engine:  engine,
		log:     log,
		comp:    comp,
		adapter: adapter,
		logger:  slog.Default().With("component", "agent.pipeline"),
	}
}

// UseThink overrides the default LM invocation with fn.
func (p *Pipeline) UseThink(fn ThinkFn) { p.think = fn }

// UseMetrics attaches a collector recording run outcomes and durations.
func (p *Pipeline) UseMetrics(c *metrics.Collector) { p.metrics = c }

func (p *Pipeline) recordRun(outcome string, started time.Time) {
	if p.metrics != nil {
		p.metrics.RecordPipelineRun(outcome, time.Since(started))
	}
}

// checkpoint evaluates the facts, appends the decision to the audit
// log and attaches a compliance report to both records.
func (p *Pipeline) checkpoint(input facts.Map) (*policy.Decision, *audit.Entry, error) {
	evalStart := time.Now()
	decision := p.engine.Evaluate(input)
	if p.metrics != nil {
		p.metrics.RecordDecision(string(decision.Result), time.Since(evalStart))
	}

	entry, err := p.log.Append(decision, input)
	if err != nil {
		return nil, nil, err
	}
	if p.metrics != nil {
		p.metrics.RecordAuditAppend(p.log.Degraded())
	}

	if p.comp != nil {
		report := p.comp.Evaluate(input, decision, entry)
		decision.ComplianceReport = report
		entry.Compliance = report
		if p.metrics != nil {
			p.metrics.RecordComplianceScore(report.Score)
			for _, check := range report.Checks {
				p.metrics.RecordComplianceCheck(string(check.Framework), string(check.Status))
			}
		}
	}
	return decision, entry, nil
}

// invoke performs the LM call via the think override or the adapter.
func (p *Pipeline) invoke(ctx context.Context, input facts.Map) (string, error) {
	if p.think != nil {
		return p.think(ctx, input)
	}
	prompt, err := canonical.Marshal(input)
	if err != nil {
		return "", err
	}
	return p.adapter.Complete(ctx, string(prompt))
}

// cancelledResult appends the synthetic REVIEW post-decision and
// builds the cancelled result. output carries whatever the LM
// produced before cancellation (possibly empty).
func (p *Pipeline) cancelledResult(input facts.Map, output string, pre *policy.Decision, preEntry *audit.Entry) (*Result, error) {
	post := &policy.Decision{
		Result: policy.ActionReview,
		Reason: cancelledReason,
		Score:  policy.DefaultScoreReview,
	}
	postFacts := input.Merge(facts.Map{llmOutputKey: facts.String(output)})
	postEntry, err := p.log.Append(post, postFacts)
	if err != nil {
		return nil, err
	}
	p.logger.Warn("pipeline cancelled", "pre_audit_id", pre.AuditID)
	return &Result{
		Output:     output,
		Decisions:  []*policy.Decision{pre, post},
		AuditTrail: []*audit.Entry{preEntry, postEntry},
		Cancelled:  true,
	}, nil
}

// Run executes the governed pipeline: pre-check, LM call, post-check.
func (p *Pipeline) Run(ctx context.Context, input facts.Map) (*Result, error) {
	started := time.Now()

	pre, preEntry, err := p.checkpoint(input)
	if err != nil {
		p.recordRun("error", started)
		return nil, err
	}

	if pre.Result == policy.ActionRejected {
		p.logger.Info("run blocked by rule", "reason", pre.Reason, "audit_id", pre.AuditID)
		p.recordRun("blocked", started)
		return &Result{
			Output:     "Blocked by rule: " + pre.Reason,
			Decisions:  []*policy.Decision{pre},
			AuditTrail: []*audit.Entry{preEntry},
		}, nil
	}

	if ctx.Err() != nil {
		p.recordRun("cancelled", started)
		return p.cancelledResult(input, "", pre, preEntry)
	}

	output, err := p.invoke(ctx, input)
	if err != nil {
		if ctx.Err() != nil {
			p.recordRun("cancelled", started)
			return p.cancelledResult(input, "", pre, preEntry)
		}
		p.recordRun("error", started)
		return nil, &LMError{Err: err}
	}

	p.recordRun("completed", started)
	return p.finish(input, output, pre, preEntry)
}

// finish runs the post-check over the merged facts and assembles the
// result.
func (p *Pipeline) finish(input facts.Map, output string, pre *policy.Decision, preEntry *audit.Entry) (*Result, error) {
	postFacts := input.Merge(facts.Map{llmOutputKey: facts.String(output)})
	post, postEntry, err := p.checkpoint(postFacts)
	if err != nil {
		return nil, err
	}
	return &Result{
		Output:     output,
		Decisions:  []*policy.Decision{pre, post},
		AuditTrail: []*audit.Entry{preEntry, postEntry},
	}, nil
}

// RunStream executes the pipeline delivering output in chunks. onChunk
// is invoked serially and in order; onDone is invoked once after the
// last chunk with the full result. If the adapter implements
// StreamAdapter the chunking is the adapter's, otherwise the output is
// re-emitted token by token.
func (p *Pipeline) RunStream(ctx context.Context, input facts.Map, onChunk func(string), onDone func(*Result)) error {
	started := time.Now()

	pre, preEntry, err := p.checkpoint(input)
	if err != nil {
		p.recordRun("error", started)
		return err
	}

	if pre.Result == policy.ActionRejected {
		blocked := "Blocked by rule: " + pre.Reason
		onChunk(blocked)
		p.recordRun("blocked", started)
		onDone(&Result{
			Output:     blocked,
			Decisions:  []*policy.Decision{pre},
			AuditTrail: []*audit.Entry{preEntry},
		})
		return nil
	}

	if ctx.Err() != nil {
		result, err := p.cancelledResult(input, "", pre, preEntry)
		if err != nil {
			p.recordRun("error", started)
			return err
		}
		p.recordRun("cancelled", started)
		onDone(result)
		return nil
	}

	output, cancelled, err := p.stream(ctx, input, onChunk)
	if err != nil && !cancelled {
		p.recordRun("error", started)
		return &LMError{Err: err}
	}

	var result *Result
	if cancelled {
		result, err = p.cancelledResult(input, output, pre, preEntry)
	} else {
		result, err = p.finish(input, output, pre, preEntry)
	}
	if err != nil {
		p.recordRun("error", started)
		return err
	}
	if cancelled {
		p.recordRun("cancelled", started)
	} else {
		p.recordRun("completed", started)
	}
	onDone(result)
	return nil
}

// stream produces the LM output in chunks, honouring cancellation
// between chunk deliveries. It returns the accumulated output emitted
// so far and whether the context fired.
func (p *Pipeline) stream(ctx context.Context, input facts.Map, onChunk func(string)) (string, bool, error) {
	if sa, ok := p.adapter.(StreamAdapter); ok && p.think == nil {
		prompt, err := canonical.Marshal(input)
		if err != nil {
			return "", false, err
		}
		var acc strings.Builder
		_, err = sa.CompleteStream(ctx, string(prompt), func(chunk string) {
			if ctx.Err() != nil {
				return
			}
			acc.WriteString(chunk)
			onChunk(chunk)
		})
		if ctx.Err() != nil {
			return acc.String(), true, err
		}
		if err != nil {
			return acc.String(), false, err
		}
		return acc.String(), false, nil
	}

	output, err := p.invoke(ctx, input)
	if err != nil {
		return "", ctx.Err() != nil, err
	}

	var acc strings.Builder
	for _, token := range strings.Fields(output) {
		if ctx.Err() != nil {
			return acc.String(), true, nil
		}
		chunk := token + " "
		acc.WriteString(chunk)
		onChunk(chunk)
	}
	return acc.String(), false, nil
}
