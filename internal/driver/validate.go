package driver

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"hl7play/internal/cache"
	"hl7play/internal/issue"
	"hl7play/internal/observ"
	"hl7play/internal/trace"
	"hl7play/internal/validator"
	"hl7play/internal/workspace"
)

// Service is the part of the remote validator the driver needs.
type Service interface {
	Validate(ctx context.Context, q validator.Query) (validator.ValidationResult, error)
	CheckResource(ctx context.Context, content string, rType validator.ResourceType) (validator.CheckResourceResult, error)
}

// Runner runs validator round-trips against a workspace.
type Runner struct {
	Service Service
	Cache   *cache.DiskCache // nil: без кэша
	Timer   *observ.Timer    // nil: без замеров
	// Progress получает события CheckAll; nil: без прогресса
	Progress ProgressSink
	Jobs     int
}

// Outcome describes one Validate call.
type Outcome struct {
	Result    validator.ValidationResult
	FromCache bool
	Key       cache.Key
}

// CheckAll checks every non-empty resource except the message in parallel,
// then stores each resource's findings in the workspace. Nothing is applied
// when any check fails.
func (r *Runner) CheckAll(ctx context.Context, ws *workspace.Workspace) error {
	var targets []validator.ResourceType
	for _, rt := range ws.NonEmpty() {
		if rt != validator.Message {
			targets = append(targets, rt)
		}
	}
	if len(targets) == 0 {
		return nil
	}

	tracer := trace.FromContext(ctx)
	span := trace.Begin(tracer, trace.ScopePhase, "check", 0)
	defer span.End("")

	jobs := r.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	findings := make([][]issue.Finding, len(targets))
	for _, rt := range targets {
		r.emit(string(rt), StatusQueued)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(targets)))
	for i, rt := range targets {
		text := ws.Text(rt)
		g.Go(func() error {
			r.emit(string(rt), StatusWorking)
			idx := r.Timer.Begin("check " + string(rt))
			res, err := r.Service.CheckResource(gctx, text, rt)
			if err != nil {
				r.Timer.End(idx, "failed")
				r.emit(string(rt), StatusError)
				return fmt.Errorf("check %s: %w", rt, err)
			}
			r.Timer.End(idx, fmt.Sprintf("%d findings", len(res.Issues)))
			r.emit(string(rt), StatusDone)
			findings[i] = res.Issues
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for i, rt := range targets {
		ws.PutIssues(rt, findings[i])
	}
	span.WithExtra("resources", fmt.Sprint(len(targets)))
	return nil
}

// Validate validates the workspace for message structure id. A cached
// result for an identical query is used instead of calling the service;
// cache failures are reported through the tracer and never fail the call.
func (r *Runner) Validate(ctx context.Context, ws *workspace.Workspace, id string) (Outcome, error) {
	tracer := trace.FromContext(ctx)
	span := trace.Begin(tracer, trace.ScopePhase, "validate", 0)
	defer span.End("")

	q := ws.Query(id)
	key, err := cache.KeyOf(q)
	if err != nil {
		return Outcome{}, err
	}

	if r.Cache != nil {
		idx := r.Timer.Begin("cache lookup")
		res, ok, err := r.Cache.Get(key)
		r.Timer.End(idx, key.String()[:12])
		if err != nil {
			trace.Point(tracer, trace.ScopePhase, "cache", "lookup failed: "+err.Error())
		}
		if ok {
			span.WithExtra("cache", "hit")
			ws.Apply(res)
			return Outcome{Result: res, FromCache: true, Key: key}, nil
		}
	}

	idx := r.Timer.Begin("validate")
	res, err := r.Service.Validate(ctx, q)
	if err != nil {
		r.Timer.End(idx, "failed")
		return Outcome{}, fmt.Errorf("validate: %w", err)
	}
	r.Timer.End(idx, "")

	if r.Cache != nil {
		if err := r.Cache.Put(key, res); err != nil {
			trace.Point(tracer, trace.ScopePhase, "cache", "store failed: "+err.Error())
		}
	}

	idx = r.Timer.Begin("group")
	ws.Apply(res)
	r.Timer.End(idx, "")
	return Outcome{Result: res, Key: key}, nil
}
