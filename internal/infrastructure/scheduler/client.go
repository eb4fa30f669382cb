package scheduler

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"

	"github.com/Romer4ig/image-moderation/internal/config"
	"github.com/Romer4ig/image-moderation/internal/domain/generation"
	"github.com/Romer4ig/image-moderation/internal/infrastructure/metrics"
	"github.com/Romer4ig/image-moderation/internal/utils/platformerrors"
)

// EnqueuePath is the scheduler's synchronous txt2img enqueue endpoint.
const EnqueuePath = "/agent-scheduler/v1/queue/txt2img"

// Client talks to the external generation scheduler.
type Client struct {
	http *resty.Client
	log  zerolog.Logger
}

type enqueueResponse struct {
	TaskID        any  `json:"task_id"`
	QueuePosition *int `json:"queue_position"`
}

// NewClient creates a scheduler client bound to baseURL.
func NewClient(baseURL string, timeout time.Duration, log zerolog.Logger) *Client {
	client := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json")

	return &Client{
		http: client,
		log:  log.With().Str("component", "scheduler-client").Logger(),
	}
}

// NewFromConfig returns nil when no scheduler URL is configured.
func NewFromConfig(cfg *config.Config, log zerolog.Logger) generation.Scheduler {
	if !cfg.SchedulerConfigured() {
		log.Warn().Msg("SCHEDULER_URL is not set; batch generation is disabled")
		return nil
	}
	return NewClient(cfg.SchedulerURL, cfg.SchedulerTimeout, log)
}

// Enqueue posts the merged parameters and returns the scheduler task id.
func (c *Client) Enqueue(ctx context.Context, payload generation.Params) (*generation.EnqueueResult, error) {
	started := time.Now()
	result, err := c.enqueue(ctx, payload)
	metrics.SchedulerDuration.Observe(time.Since(started).Seconds())
	metrics.SchedulerRequestsTotal.WithLabelValues(metrics.Status(err)).Inc()
	return result, err
}

func (c *Client) enqueue(ctx context.Context, payload generation.Params) (*generation.EnqueueResult, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(payload).
		Post(EnqueuePath)
	if err != nil {
		return nil, upstreamError(ctx, fmt.Sprintf("Scheduler API request failed: %v", err), err)
	}
	if resp.IsError() {
		body := truncate(resp.String(), 500)
		c.log.Error().Int("status", resp.StatusCode()).Str("body", body).Msg("scheduler returned error status")
		return nil, upstreamError(ctx, fmt.Sprintf("Scheduler API request failed: HTTP %d: %s", resp.StatusCode(), body), nil)
	}

	var parsed enqueueResponse
	if err := json.Unmarshal(resp.Body(), &parsed); err != nil {
		return nil, upstreamError(ctx, fmt.Sprintf("Scheduler response error: %v", err), err)
	}
	taskID := taskIDString(parsed.TaskID)
	if taskID == "" {
		return nil, upstreamError(ctx, "Scheduler response error: missing 'task_id'", nil)
	}

	return &generation.EnqueueResult{TaskID: taskID, QueuePosition: parsed.QueuePosition}, nil
}

// taskIDString accepts string and numeric task ids.
func taskIDString(v any) string {
	switch id := v.(type) {
	case string:
		return strings.TrimSpace(id)
	case float64:
		return fmt.Sprintf("%.0f", id)
	default:
		return ""
	}
}

func upstreamError(ctx context.Context, message string, err error) error {
	return platformerrors.NewError(ctx, platformerrors.LayerInfrastructure, platformerrors.ErrorTypeExternal, message, err, "scheduler-enqueue-failed")
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
