// Package api exposes HTTP handlers for the prescription service.
package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"example.com/exerciserx/internal/auth"
	"example.com/exerciserx/internal/domain"
	"example.com/exerciserx/internal/feedback"
	"example.com/exerciserx/internal/prescription"
)

const maxBodyBytes = 64 << 10

// Handler coordinates HTTP requests with the domain service.
type Handler struct {
	service *domain.Service
	logger  *zap.Logger
}

// NewHandler builds a Handler.
func NewHandler(service *domain.Service, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{service: service, logger: logger}
}

// RegisterRoutes wires endpoints to the mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/v1/prescriptions", h.createPrescription)
	mux.HandleFunc("/v1/prescriptions/latest", h.latestPrescription)
	mux.HandleFunc("/v1/prescriptions/latest/feedback", h.submitFeedback)
	mux.HandleFunc("/v1/prescriptions/preview", h.preview)
	mux.HandleFunc("/v1/catalog", h.catalog)
	mux.HandleFunc("/healthz", healthz)
}

// healthz reports a simple OK status for container health checks.
func healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (h *Handler) createPrescription(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}
	claims, ok := requireScope(w, r, auth.ScopePrescriptionsWrite)
	if !ok {
		return
	}

	var req CreatePrescriptionRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	userID, ok := resolveUser(w, claims, req.UserID)
	if !ok {
		return
	}

	record, err := h.service.Prescribe(r.Context(), userID, req.Assessment)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toPrescriptionView(*record))
}

func (h *Handler) latestPrescription(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}
	claims, ok := requireScope(w, r, auth.ScopePrescriptionsRead, auth.ScopePrescriptionsWrite)
	if !ok {
		return
	}

	userID, ok := resolveUser(w, claims, r.URL.Query().Get("user_id"))
	if !ok {
		return
	}

	record, err := h.service.LatestPrescription(r.Context(), userID)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toPrescriptionView(*record))
}

func (h *Handler) submitFeedback(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}
	claims, ok := requireScope(w, r, auth.ScopePrescriptionsWrite)
	if !ok {
		return
	}

	var req FeedbackRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	userID, ok := resolveUser(w, claims, req.UserID)
	if !ok {
		return
	}

	record, err := h.service.SubmitFeedback(r.Context(), userID, req.SessionFeedback)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toPrescriptionView(*record))
}

func (h *Handler) preview(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}
	if _, ok := auth.FromContext(r.Context()); !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing bearer token")
		return
	}

	var assessment prescription.Assessment
	if err := decodeBody(w, r, &assessment); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	rx, err := h.service.Preview(assessment)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rx)
}

func (h *Handler) catalog(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}
	if _, ok := auth.FromContext(r.Context()); !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing bearer token")
		return
	}
	writeJSON(w, http.StatusOK, h.service.Engine().Catalog())
}

// requireScope accepts the request when the caller holds any of the given scopes.
func requireScope(w http.ResponseWriter, r *http.Request, scopes ...string) (*auth.Claims, bool) {
	claims, ok := auth.FromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing bearer token")
		return nil, false
	}
	for _, scope := range scopes {
		if claims.HasScope(scope) {
			return claims, true
		}
	}
	writeError(w, http.StatusForbidden, "forbidden", "scope "+scopes[0]+" required")
	return nil, false
}

// resolveUser picks the token subject unless an admin names another user.
func resolveUser(w http.ResponseWriter, claims *auth.Claims, requested string) (string, bool) {
	requested = strings.TrimSpace(requested)
	if requested == "" || requested == claims.Subject {
		return claims.Subject, true
	}
	if !claims.HasScope(auth.ScopePrescriptionsAdmin) {
		writeError(w, http.StatusForbidden, "forbidden", "scope "+auth.ScopePrescriptionsAdmin+" required to act for another user")
		return "", false
	}
	return requested, true
}

func (h *Handler) writeServiceError(w http.ResponseWriter, err error) {
	var validation *prescription.ValidationError
	switch {
	case errors.As(err, &validation):
		writeJSON(w, http.StatusBadRequest, ValidationErrorResponse{
			Type:   "validation_failed",
			Detail: validation.Error(),
			Field:  validation.Field,
		})
	case errors.Is(err, domain.ErrPrescriptionNotFound):
		writeError(w, http.StatusNotFound, "not_found", "no prescription for user")
	case errors.Is(err, domain.ErrMissingUser):
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
	default:
		h.logger.Error("request failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "server_error", "internal error")
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return errors.New("unable to read body")
	}
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return errors.New("unable to parse body: " + err.Error())
	}
	return nil
}

// CreatePrescriptionRequest is the payload for POST /v1/prescriptions.
type CreatePrescriptionRequest struct {
	// UserID may only differ from the token subject for admin callers.
	UserID string `json:"user_id,omitempty"`
	prescription.Assessment
}

// FeedbackRequest is the payload for POST /v1/prescriptions/latest/feedback.
type FeedbackRequest struct {
	UserID string `json:"user_id,omitempty"`
	feedback.SessionFeedback
}

// ValidationErrorResponse extends the error body with the offending field.
type ValidationErrorResponse struct {
	Type   string `json:"type"`
	Detail string `json:"detail"`
	Field  string `json:"field"`
}

// PrescriptionView exposes a stored prescription.
type PrescriptionView struct {
	PrescriptionID string                    `json:"prescription_id"`
	UserID         string                    `json:"user_id"`
	CreatedAt      time.Time                 `json:"created_at"`
	PreviousID     string                    `json:"previous_id,omitempty"`
	Adjustment     *feedback.Adjustment      `json:"adjustment,omitempty"`
	Prescription   prescription.Prescription `json:"prescription"`
}

func toPrescriptionView(record domain.Record) PrescriptionView {
	return PrescriptionView{
		PrescriptionID: record.ID,
		UserID:         record.UserID,
		CreatedAt:      record.CreatedAt,
		PreviousID:     record.PreviousID,
		Adjustment:     record.Adjustment,
		Prescription:   record.Prescription,
	}
}

func writeError(w http.ResponseWriter, status int, code, detail string) {
	payload := map[string]string{
		"type":   code,
		"detail": detail,
	}
	writeJSON(w, status, payload)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
