package consumer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"

	"go.uber.org/zap"

	"example.com/exerciserx/internal/domain"
	"example.com/exerciserx/internal/prescription"
	"example.com/exerciserx/pkg/events"
)

// Prescriber is the slice of domain.Service the handler needs.
type Prescriber interface {
	Prescribe(ctx context.Context, userID string, a prescription.Assessment) (*domain.Record, error)
}

// AssessmentHandler generates a prescription for every submitted assessment.
type AssessmentHandler struct {
	service Prescriber
	logger  *zap.Logger
}

// NewAssessmentHandler constructs an AssessmentHandler.
func NewAssessmentHandler(service Prescriber, logger *zap.Logger) *AssessmentHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AssessmentHandler{service: service, logger: logger}
}

// Handle prescribes for assessment.submitted events and skips everything else. Payloads that
// can never succeed (bad shape, missing user, failed validation) are reported as rejected so
// the processor commits them; storage failures are returned and the processor retries the
// same message.
func (h *AssessmentHandler) Handle(ctx context.Context, msg Message) (string, error) {
	if msg.EventType != events.TypeAssessmentSubmitted {
		return OutcomeSkipped, nil
	}

	var event events.AssessmentSubmitted
	if err := json.Unmarshal(msg.Payload, &event); err != nil {
		h.reject(msg, "malformed event", err)
		return OutcomeRejected, nil
	}

	userID := strings.TrimSpace(event.UserID)
	if userID == "" {
		userID = strings.TrimSpace(msg.Key)
	}
	if userID == "" {
		h.reject(msg, "event has no user", nil)
		return OutcomeRejected, nil
	}

	var assessment prescription.Assessment
	dec := json.NewDecoder(bytes.NewReader(event.Assessment))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&assessment); err != nil {
		h.reject(msg, "malformed assessment", err)
		return OutcomeRejected, nil
	}

	record, err := h.service.Prescribe(ctx, userID, assessment)
	if err != nil {
		var validation *prescription.ValidationError
		if errors.As(err, &validation) {
			h.logger.Warn("assessment rejected",
				zap.String("user_id", userID),
				zap.String("field", validation.Field),
				zap.String("reason", validation.Reason),
				zap.Int64("offset", msg.Offset),
			)
			return OutcomeRejected, nil
		}
		return "", err
	}

	h.logger.Info("assessment prescribed",
		zap.String("user_id", userID),
		zap.String("prescription_id", record.ID),
		zap.Int64("offset", msg.Offset),
	)
	return OutcomePrescribed, nil
}

func (h *AssessmentHandler) reject(msg Message, reason string, err error) {
	fields := []zap.Field{
		zap.String("topic", msg.Topic),
		zap.Int("partition", msg.Partition),
		zap.Int64("offset", msg.Offset),
	}
	if err != nil {
		fields = append(fields, zap.Error(err))
	}
	h.logger.Warn(reason, fields...)
}
