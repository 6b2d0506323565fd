package notification

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/SherClockHolmes/webpush-go"

	"restaurant-availability-backend/internal/availability"
	"restaurant-availability-backend/internal/model"
	"restaurant-availability-backend/internal/parse"
)

// NotificationSender defines the interface for sending a web push notification.
type NotificationSender interface {
	Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error)
}

// WebPushSender is a real implementation of NotificationSender using the webpush library.
type WebPushSender struct{}

// Send sends a notification using the webpush library.
func (s *WebPushSender) Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
	return webpush.SendNotification(payload, sub, options)
}

// WaitlistStore is the subset of the store the workers need.
type WaitlistStore interface {
	WaitingEntries(ctx context.Context, tenantID string, restaurantID int64, date string) ([]model.WaitlistEntry, error)
	ClaimWaitlistEntry(ctx context.Context, id string, at time.Time) (bool, error)
	ExpireWaitlistEntry(ctx context.Context, id string) error
}

// Checker answers availability queries. *availability.Service implements it.
type Checker interface {
	Availability(ctx context.Context, scope availability.Scope, q availability.Query) (availability.Response, error)
}

// Job asks the pool to re-check the waitlist of one restaurant day.
type Job struct {
	TenantID     string
	RestaurantID int64
	Date         string
}

// Payload is the push message delivered to a waiting guest.
type Payload struct {
	Type         string `json:"type"`
	RestaurantID int64  `json:"restaurant_id"`
	Date         string `json:"date"`
	Time         string `json:"time"`
	PartySize    int    `json:"party_size"`
	Message      string `json:"message"`
}

// WorkerPool manages a pool of workers for sending waitlist notifications.
type WorkerPool struct {
	size    int
	jobs    chan Job
	store   WaitlistStore
	checker Checker
	webpush *webpush.Options
	sender  NotificationSender
	now     func() time.Time
}

// NewWorkerPool creates a new worker pool with a job buffer of queueSize.
func NewWorkerPool(size, queueSize int, store WaitlistStore, checker Checker, webpushOptions *webpush.Options) *WorkerPool {
	if size <= 0 {
		size = 1
	}
	if queueSize <= 0 {
		queueSize = size
	}
	return &WorkerPool{
		size:    size,
		jobs:    make(chan Job, queueSize),
		store:   store,
		checker: checker,
		webpush: webpushOptions,
		sender:  &WebPushSender{},
		now:     time.Now,
	}
}

// Start launches the worker goroutines.
func (wp *WorkerPool) Start(ctx context.Context) {
	for i := 0; i < wp.size; i++ {
		go wp.worker(ctx, i)
	}
}

func (wp *WorkerPool) worker(ctx context.Context, id int) {
	slog.Debug("waitlist worker started", slog.Int("worker", id))
	for {
		select {
		case job := <-wp.jobs:
			wp.process(ctx, job)
		case <-ctx.Done():
			slog.Debug("waitlist worker shutting down", slog.Int("worker", id))
			return
		}
	}
}

// Dispatch queues a job without blocking. It reports false and drops the
// job when the buffer is full.
func (wp *WorkerPool) Dispatch(job Job) bool {
	select {
	case wp.jobs <- job:
		return true
	default:
		slog.Warn("waitlist queue full, dropping job",
			slog.String("tenant", job.TenantID),
			slog.Int64("restaurant", job.RestaurantID),
			slog.String("date", job.Date),
		)
		return false
	}
}

// process notifies every waiting entry of the job's day that can now be seated.
func (wp *WorkerPool) process(ctx context.Context, job Job) {
	entries, err := wp.store.WaitingEntries(ctx, job.TenantID, job.RestaurantID, job.Date)
	if err != nil {
		slog.Error("failed to load waitlist", slog.String("tenant", job.TenantID), slog.Any("error", err))
		return
	}
	if len(entries) == 0 {
		return
	}

	date, err := parse.Date(job.Date)
	if err != nil {
		slog.Error("invalid waitlist job date", slog.String("date", job.Date), slog.Any("error", err))
		return
	}
	scope := availability.Scope{TenantID: job.TenantID, RestaurantID: job.RestaurantID}

	for _, entry := range entries {
		preferred, err := parse.Clock(entry.PreferredTime)
		if err != nil {
			slog.Warn("skipping waitlist entry with bad time", slog.String("entry", entry.ID), slog.Any("error", err))
			continue
		}
		resp, err := wp.checker.Availability(ctx, scope, availability.Query{
			Date:            date,
			PartySize:       entry.PartySize,
			PreferredTime:   &preferred,
			DurationMinutes: entry.DurationMinutes,
		})
		if err != nil {
			slog.Error("availability check failed", slog.String("entry", entry.ID), slog.Any("error", err))
			return
		}
		slot, ok := pickSlot(resp, preferred)
		if !ok {
			continue
		}

		// Claim before sending so concurrent workers notify each guest once.
		claimed, err := wp.store.ClaimWaitlistEntry(ctx, entry.ID, wp.now())
		if err != nil {
			slog.Error("failed to claim waitlist entry", slog.String("entry", entry.ID), slog.Any("error", err))
			continue
		}
		if !claimed {
			continue
		}
		wp.sendNotification(ctx, entry, Payload{
			Type:         "table_available",
			RestaurantID: job.RestaurantID,
			Date:         job.Date,
			Time:         slot.Time.String(),
			PartySize:    entry.PartySize,
			Message:      "A table for " + slot.Time.String() + " on " + job.Date + " just opened up.",
		})
	}
}

// pickSlot prefers the exact requested time, then the closest recommendation.
func pickSlot(resp availability.Response, preferred availability.Clock) (availability.Slot, bool) {
	for _, s := range resp.AvailableSlots {
		if s.Time == preferred {
			return s, true
		}
	}
	if len(resp.Recommendations) > 0 {
		return resp.Recommendations[0], true
	}
	return availability.Slot{}, false
}

func (wp *WorkerPool) sendNotification(ctx context.Context, entry model.WaitlistEntry, payload Payload) {
	body, err := json.Marshal(payload)
	if err != nil {
		slog.Error("failed to encode push payload", slog.Any("error", err))
		return
	}

	// Manually construct the webpush.Subscription object
	wpSub := &webpush.Subscription{
		Endpoint: entry.Endpoint,
		Keys: webpush.Keys{
			P256dh: entry.P256DH,
			Auth:   entry.Auth,
		},
	}

	resp, err := wp.sender.Send(body, wpSub, wp.webpush)
	if err != nil {
		slog.Warn("failed to send waitlist notification", slog.String("entry", entry.ID), slog.Any("error", err))
		return
	}
	defer resp.Body.Close()

	// Handle expired subscriptions
	if resp.StatusCode == http.StatusGone {
		slog.Info("push subscription expired", slog.String("entry", entry.ID))
		if err := wp.store.ExpireWaitlistEntry(ctx, entry.ID); err != nil {
			slog.Error("failed to expire waitlist entry", slog.String("entry", entry.ID), slog.Any("error", err))
		}
	}
}
