package watch

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/beancheck/beancheck/internal/check"
	"github.com/beancheck/beancheck/internal/logger"
)

// Version is set by ldflags during build
var Version = "dev"

// WebhookConfig holds configuration for webhook delivery.
type WebhookConfig struct {
	// URL is the webhook endpoint.
	URL string

	// MaxRetries is the maximum number of retry attempts (default: 3).
	MaxRetries int

	// InitialBackoff is the initial backoff duration (default: 1s).
	InitialBackoff time.Duration

	// MaxBackoff is the maximum backoff duration (default: 30s).
	MaxBackoff time.Duration

	// Timeout is the HTTP request timeout (default: 10s).
	Timeout time.Duration
}

// DefaultWebhookConfig returns sensible defaults.
func DefaultWebhookConfig() WebhookConfig {
	return WebhookConfig{
		MaxRetries:     3,
		InitialBackoff: 1 * time.Second,
		MaxBackoff:     30 * time.Second,
		Timeout:        10 * time.Second,
	}
}

// Payload is the JSON body posted to the webhook endpoint.
type Payload struct {
	// ID uniquely identifies this notification.
	ID string `json:"id"`

	// Event is the type of event (check_triggered, check_resolved).
	Event string `json:"event"`

	// Check contains check details.
	Check PayloadCheck `json:"check"`

	// Timestamp is when the notification was generated.
	Timestamp time.Time `json:"timestamp"`

	// Agent contains sender metadata.
	Agent PayloadAgent `json:"agent"`
}

// PayloadCheck contains the check identity and outcome.
type PayloadCheck struct {
	// MBean is the bean being checked.
	MBean string `json:"mbean"`

	// Attribute is the attribute read from the bean.
	Attribute string `json:"attribute"`

	// Key is the composite key, if any.
	Key string `json:"key,omitempty"`

	// Status is the new status (OK, WARNING, CRITICAL, UNKNOWN).
	Status string `json:"status"`

	// PreviousStatus is the status before the transition.
	PreviousStatus string `json:"previous_status"`

	// Value is the evaluated value at the time of the transition.
	Value float64 `json:"value"`

	// Warning and Critical are the threshold expressions in force.
	Warning  string `json:"warning"`
	Critical string `json:"critical"`

	// Explanation is the operator-supplied template, if any.
	Explanation string `json:"explanation,omitempty"`
}

// PayloadAgent contains sender metadata.
type PayloadAgent struct {
	// Version is the beancheck version.
	Version string `json:"version"`

	// Hostname is the machine running the watch.
	Hostname string `json:"hostname,omitempty"`
}

// Webhook handles sending check transition notifications to an HTTP endpoint.
type Webhook struct {
	config WebhookConfig
	client *http.Client

	// Queue for async delivery
	queue chan Payload
	wg    sync.WaitGroup

	ctx    context.Context
	cancel context.CancelFunc
}

// NewWebhook creates a new webhook delivery handler.
func NewWebhook(config WebhookConfig) *Webhook {
	if config.MaxRetries == 0 {
		config.MaxRetries = DefaultWebhookConfig().MaxRetries
	}
	if config.InitialBackoff == 0 {
		config.InitialBackoff = DefaultWebhookConfig().InitialBackoff
	}
	if config.MaxBackoff == 0 {
		config.MaxBackoff = DefaultWebhookConfig().MaxBackoff
	}
	if config.Timeout == 0 {
		config.Timeout = DefaultWebhookConfig().Timeout
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Webhook{
		config: config,
		client: &http.Client{
			Timeout: config.Timeout,
		},
		queue:  make(chan Payload, 100), // Buffer up to 100 pending notifications
		ctx:    ctx,
		cancel: cancel,
	}
}

// Start begins the webhook delivery worker.
func (w *Webhook) Start() {
	w.wg.Add(1)
	go w.deliveryWorker()
}

// Stop gracefully shuts down the webhook delivery.
func (w *Webhook) Stop() {
	w.cancel()
	close(w.queue)
	w.wg.Wait()
}

// SendAsync queues a payload for async delivery.
func (w *Webhook) SendAsync(payload Payload) {
	select {
	case w.queue <- payload:
		logger.Debug("Webhook queued", "event", payload.Event, "mbean", payload.Check.MBean)
	default:
		logger.Warn("Webhook queue full, dropping", "event", payload.Event, "mbean", payload.Check.MBean)
	}
}

// deliveryWorker processes queued payloads.
func (w *Webhook) deliveryWorker() {
	defer w.wg.Done()

	for {
		select {
		case <-w.ctx.Done():
			// Drain remaining queue items
			for len(w.queue) > 0 {
				select {
				case payload := <-w.queue:
					_ = w.deliverWithRetry(payload)
				default:
					return
				}
			}
			return
		case payload, ok := <-w.queue:
			if !ok {
				return
			}
			if err := w.deliverWithRetry(payload); err != nil {
				logger.Error("Webhook delivery failed",
					"event", payload.Event, "mbean", payload.Check.MBean, "error", err)
			}
		}
	}
}

// deliverWithRetry attempts to deliver with exponential backoff. Client
// errors other than 429 abort immediately.
func (w *Webhook) deliverWithRetry(payload Payload) error {
	var lastErr error

	for attempt := 0; attempt <= w.config.MaxRetries; attempt++ {
		if attempt > 0 {
			backoff := w.calculateBackoff(attempt)
			logger.Debug("Webhook retry", "attempt", attempt, "max", w.config.MaxRetries, "backoff", backoff)

			select {
			case <-w.ctx.Done():
				return w.ctx.Err()
			case <-time.After(backoff):
			}
		}

		err := w.deliver(payload)
		if err == nil {
			if attempt > 0 {
				logger.Info("Webhook delivery succeeded after retry",
					"attempt", attempt+1, "mbean", payload.Check.MBean)
			} else {
				logger.Debug("Webhook delivered", "event", payload.Event, "mbean", payload.Check.MBean)
			}
			return nil
		}

		var perm *permanentError
		if errors.As(err, &perm) {
			return perm.err
		}

		lastErr = err
		logger.Debug("Webhook attempt failed", "attempt", attempt+1, "error", err)
	}

	return fmt.Errorf("max retries exceeded: %w", lastErr)
}

// calculateBackoff returns the backoff duration for a retry attempt.
func (w *Webhook) calculateBackoff(attempt int) time.Duration {
	// Exponential backoff: initialBackoff * 2^(attempt-1)
	multiplier := math.Pow(2, float64(attempt-1))
	backoff := time.Duration(float64(w.config.InitialBackoff) * multiplier)

	if backoff > w.config.MaxBackoff {
		backoff = w.config.MaxBackoff
	}

	return backoff
}

// permanentError marks a delivery failure that retries cannot fix.
type permanentError struct {
	err error
}

func (e *permanentError) Error() string { return e.err.Error() }

func (e *permanentError) Unwrap() error { return e.err }

// deliver sends a single webhook request.
func (w *Webhook) deliver(payload Payload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return &permanentError{fmt.Errorf("failed to marshal payload: %w", err)}
	}

	req, err := http.NewRequestWithContext(w.ctx, http.MethodPost, w.config.URL, bytes.NewReader(body))
	if err != nil {
		return &permanentError{fmt.Errorf("failed to create request: %w", err)}
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "beancheck/"+Version)

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	// Read body for error messages
	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))

	// 2xx is success
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	// 5xx and 429 are worth retrying
	if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
		return fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(respBody))
	}

	return &permanentError{fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(respBody))}
}

// NewPayload creates a webhook payload from a status transition.
func NewPayload(t Transition, spec check.Spec) Payload {
	event := "check_triggered"
	if t.Current == check.StatusOK {
		event = "check_resolved"
	}

	hostname, _ := os.Hostname()
	primary := spec.Primary.Normalize()

	return Payload{
		ID:    uuid.NewString(),
		Event: event,
		Check: PayloadCheck{
			MBean:          primary.Bean,
			Attribute:      primary.Attribute,
			Key:            primary.Key,
			Status:         t.Current.String(),
			PreviousStatus: t.Previous.String(),
			Value:          t.Result.Effective,
			Warning:        spec.Warning,
			Critical:       spec.Critical,
			Explanation:    t.Result.Explanation,
		},
		Timestamp: time.Now(),
		Agent: PayloadAgent{
			Version:  Version,
			Hostname: hostname,
		},
	}
}
