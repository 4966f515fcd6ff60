// Package watch drives continuous re-evaluation of a single check and posts
// webhook notifications on status transitions.
package watch

import (
	"context"
	"sync"
	"time"

	"github.com/beancheck/beancheck/internal/check"
	"github.com/beancheck/beancheck/internal/logger"
)

// Transition records a status change between two evaluation cycles.
type Transition struct {
	// Previous is the status before this cycle. The baseline before the
	// first cycle is OK, so a check that starts out breached still reports
	// a transition.
	Previous check.Status

	// Current is the status after this cycle.
	Current check.Status

	// Result is the evaluation outcome that caused the transition.
	Result check.Result

	// At is when the transition was observed.
	At time.Time
}

// Tick is the outcome of one evaluation cycle.
type Tick struct {
	// Result is the evaluation outcome. When Err is set, Result.Status is
	// StatusUnknown and the remaining fields are zero.
	Result check.Result

	// Err is the fetch or correlation failure for this cycle, if any.
	Err error

	// Transition is non-nil when the status changed from the previous cycle.
	Transition *Transition
}

// RunnerConfig holds configuration for the watch runner.
type RunnerConfig struct {
	// Interval is how often to re-evaluate the check (default: 30s).
	Interval time.Duration

	// WebhookURL is the endpoint for transition notifications (optional).
	WebhookURL string
}

// Runner re-evaluates a check on a fixed interval. It keeps only
// orchestration state between cycles: the previous status, used to detect
// transitions. Each evaluation itself is independent.
type Runner struct {
	checker  *check.Checker
	spec     check.Spec
	interval time.Duration
	webhook  *Webhook
	onTick   func(Tick)

	prev check.Status

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewRunner creates a runner for the given check. onTick is invoked after
// every cycle, transitions included; it may be nil.
func NewRunner(cfg RunnerConfig, checker *check.Checker, spec check.Spec, onTick func(Tick)) *Runner {
	if cfg.Interval == 0 {
		cfg.Interval = 30 * time.Second
	}

	ctx, cancel := context.WithCancel(context.Background())

	r := &Runner{
		checker:  checker,
		spec:     spec,
		interval: cfg.Interval,
		onTick:   onTick,
		prev:     check.StatusOK,
		ctx:      ctx,
		cancel:   cancel,
	}

	if cfg.WebhookURL != "" {
		webhookCfg := DefaultWebhookConfig()
		webhookCfg.URL = cfg.WebhookURL
		r.webhook = NewWebhook(webhookCfg)
	}

	return r
}

// Start begins the evaluation loop.
func (r *Runner) Start() {
	if r.webhook != nil {
		r.webhook.Start()
	}

	r.wg.Add(1)
	go r.loop()

	logger.Info("Watch started", "mbean", r.spec.Primary.Bean, "interval", r.interval)
}

// Stop gracefully shuts down the runner and flushes pending webhooks.
func (r *Runner) Stop() {
	r.cancel()
	r.wg.Wait()

	if r.webhook != nil {
		r.webhook.Stop()
	}

	logger.Info("Watch stopped", "mbean", r.spec.Primary.Bean)
}

// loop evaluates immediately, then on every tick.
func (r *Runner) loop() {
	defer r.wg.Done()

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.evaluate()

	for {
		select {
		case <-r.ctx.Done():
			return
		case <-ticker.C:
			r.evaluate()
		}
	}
}

// evaluate runs one cycle, detects transitions, and reports the outcome.
func (r *Runner) evaluate() {
	res, err := r.checker.Run(r.ctx, r.spec)
	if err != nil {
		// Fetch and correlation failures surface as UNKNOWN. The loop
		// keeps going; the next cycle may succeed.
		res = check.Result{Status: check.StatusUnknown}
	}

	tick := Tick{Result: res, Err: err}

	if res.Status != r.prev {
		t := Transition{
			Previous: r.prev,
			Current:  res.Status,
			Result:   res,
			At:       time.Now(),
		}
		tick.Transition = &t

		if res.Status == check.StatusOK {
			logger.Info("Check resolved",
				"mbean", r.spec.Primary.Bean, "was", t.Previous.String())
		} else {
			logger.Warn("Check triggered",
				"mbean", r.spec.Primary.Bean,
				"status", res.Status.String(),
				"was", t.Previous.String())
		}

		if r.webhook != nil {
			r.webhook.SendAsync(NewPayload(t, r.spec))
		}

		r.prev = res.Status
	}

	if r.onTick != nil {
		r.onTick(tick)
	}
}
