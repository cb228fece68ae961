// Package domain orchestrates prescription generation, storage and event publication.
package domain

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"example.com/exerciserx/internal/cache"
	"example.com/exerciserx/internal/feedback"
	"example.com/exerciserx/internal/messaging"
	"example.com/exerciserx/internal/observability"
	"example.com/exerciserx/internal/prescription"
	"example.com/exerciserx/pkg/events"
)

var (
	// ErrPrescriptionNotFound is returned when a user has no stored prescription.
	ErrPrescriptionNotFound = errors.New("prescription not found")
	// ErrMissingUser is returned when an operation is called without a user identifier.
	ErrMissingUser = errors.New("user id is required")
)

// Repository keeps the latest prescription per user. Latest returns (nil, nil) when absent.
type Repository interface {
	Save(ctx context.Context, record Record) error
	Latest(ctx context.Context, userID string) (*Record, error)
}

// Option configures optional collaborators of the Service.
type Option func(*Service)

// WithInvalidator sets the cache invalidator notified after each save.
func WithInvalidator(inv cache.Invalidator) Option {
	return func(s *Service) {
		s.invalidator = inv
	}
}

// WithPublisher sets the event publisher.
func WithPublisher(pub messaging.Publisher) Option {
	return func(s *Service) {
		s.publisher = pub
	}
}

// WithLogger overrides the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// Service orchestrates prescription workflows.
type Service struct {
	engine      *prescription.Engine
	repo        Repository
	invalidator cache.Invalidator
	publisher   messaging.Publisher
	logger      *zap.Logger
	now         func() time.Time
}

// NewService constructs a Service. Without options, cache invalidation and publishing are no-ops.
func NewService(engine *prescription.Engine, repo Repository, opts ...Option) *Service {
	s := &Service{
		engine:      engine,
		repo:        repo,
		invalidator: cache.NoopInvalidator{},
		publisher:   messaging.NoopPublisher{},
		logger:      zap.NewNop(),
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Engine exposes the underlying engine for stateless previews.
func (s *Service) Engine() *prescription.Engine {
	return s.engine
}

// Preview generates a prescription without storing or announcing it.
func (s *Service) Preview(a prescription.Assessment) (prescription.Prescription, error) {
	rx, err := s.engine.Generate(a)
	if err != nil {
		recordValidation(err)
		return prescription.Prescription{}, err
	}
	return rx, nil
}

// Prescribe generates, stores and announces a new prescription for userID, replacing the
// previous one. Validation errors are returned unchanged and nothing is stored.
func (s *Service) Prescribe(ctx context.Context, userID string, a prescription.Assessment) (*Record, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, ErrMissingUser
	}

	start := time.Now()
	rx, err := s.engine.Generate(a)
	if err != nil {
		recordValidation(err)
		return nil, err
	}
	observability.RecordGenerated(string(rx.RiskCategory), time.Since(start))

	record := Record{
		ID:           uuid.NewString(),
		UserID:       userID,
		CreatedAt:    s.now().UTC(),
		Prescription: rx,
	}
	if err := s.store(ctx, record); err != nil {
		return nil, err
	}

	payload, err := json.Marshal(rx)
	if err != nil {
		return nil, fmt.Errorf("encode prescription: %w", err)
	}
	s.publish(ctx, events.TypePrescriptionGenerated, userID, events.PrescriptionGenerated{
		PrescriptionID:  record.ID,
		UserID:          userID,
		RiskCategory:    string(rx.RiskCategory),
		BalanceIncluded: rx.Balance != nil,
		PrecautionCount: len(rx.Precautions),
		GeneratedAt:     record.CreatedAt,
		Prescription:    payload,
	})

	s.logger.Info("prescription generated",
		zap.String("user_id", userID),
		zap.String("prescription_id", record.ID),
		zap.String("risk_category", string(rx.RiskCategory)),
		zap.Bool("balance", rx.Balance != nil),
		zap.Int("precautions", len(rx.Precautions)),
	)
	return &record, nil
}

// LatestPrescription returns the user's current prescription.
func (s *Service) LatestPrescription(ctx context.Context, userID string) (*Record, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, ErrMissingUser
	}
	record, err := s.repo.Latest(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load latest prescription: %w", err)
	}
	if record == nil {
		return nil, ErrPrescriptionNotFound
	}
	return record, nil
}

// SubmitFeedback tunes the user's current prescription from session feedback and stores the
// result as a new record.
func (s *Service) SubmitFeedback(ctx context.Context, userID string, fb feedback.SessionFeedback) (*Record, error) {
	current, err := s.LatestPrescription(ctx, userID)
	if err != nil {
		return nil, err
	}

	tuned, adjustment, err := feedback.Tune(current.Prescription, fb)
	if err != nil {
		recordValidation(err)
		return nil, err
	}

	record := Record{
		ID:           uuid.NewString(),
		UserID:       userID,
		CreatedAt:    s.now().UTC(),
		Prescription: tuned,
		PreviousID:   current.ID,
		Adjustment:   &adjustment,
	}
	if err := s.store(ctx, record); err != nil {
		return nil, err
	}
	observability.RecordFeedbackAdjustment(adjustment.Delta)

	s.publish(ctx, events.TypePrescriptionAdjusted, userID, events.PrescriptionAdjusted{
		PrescriptionID: record.ID,
		PreviousID:     current.ID,
		UserID:         userID,
		Delta:          adjustment.Delta,
		NeedsReview:    adjustment.NeedsReview,
		OccurredAt:     record.CreatedAt,
	})

	if adjustment.NeedsReview {
		s.logger.Warn("session pain reported, prescription flagged for review",
			zap.String("user_id", userID),
			zap.String("prescription_id", record.ID),
		)
	}
	return &record, nil
}

// store persists the record and then invalidates caches. Invalidation failures are logged and
// counted, not returned.
func (s *Service) store(ctx context.Context, record Record) error {
	if err := s.repo.Save(ctx, record); err != nil {
		return fmt.Errorf("save prescription: %w", err)
	}
	observability.RecordPrescriptionStored(record.CreatedAt)

	if err := s.invalidator.Invalidate(ctx, record.UserID); err != nil {
		observability.RecordCacheInvalidationFailure()
		s.logger.Warn("cache invalidation failed", zap.String("user_id", record.UserID), zap.Error(err))
	}
	return nil
}

func (s *Service) publish(ctx context.Context, eventType, userID string, payload any) {
	if err := s.publisher.Publish(ctx, eventType, userID, payload); err != nil {
		observability.RecordPublishFailure(eventType)
		s.logger.Error("event publish failed",
			zap.String("event_type", eventType),
			zap.String("user_id", userID),
			zap.Error(err),
		)
	}
}

func recordValidation(err error) {
	var validation *prescription.ValidationError
	if errors.As(err, &validation) {
		observability.RecordValidationFailure(validation.Field)
	}
}
