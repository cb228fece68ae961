package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"example.com/exerciserx/internal/auth"
	"example.com/exerciserx/internal/catalog"
	"example.com/exerciserx/internal/domain"
	"example.com/exerciserx/internal/persistence"
	"example.com/exerciserx/internal/prescription"
)

const frailBody = `{"age":84,"gender":"F","frailScore":4,"sppbScore":5,"sarcfScore":6,"conditions":["heart_disease","knee_pain"],"hasFallHistory":true}`

func newTestMux(t *testing.T) *http.ServeMux {
	t.Helper()
	engine, err := prescription.NewEngine(catalog.MustDefault())
	require.NoError(t, err)
	handler := NewHandler(domain.NewService(engine, persistence.NewInMemoryRepository()), nil)
	mux := http.NewServeMux()
	handler.RegisterRoutes(mux)
	return mux
}

func do(t *testing.T, mux http.Handler, method, target, body string, subject string, scopes ...string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	if subject != "" {
		claims := &auth.Claims{Subject: subject, Scopes: map[string]struct{}{}, ExpiresAt: time.Now().Add(time.Hour)}
		for _, scope := range scopes {
			claims.Scopes[scope] = struct{}{}
		}
		req = req.WithContext(auth.WithClaims(req.Context(), claims))
	}
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out), rr.Body.String())
	return out
}

func TestCreateAndFetchLatestPrescription(t *testing.T) {
	mux := newTestMux(t)

	rr := do(t, mux, http.MethodPost, "/v1/prescriptions", frailBody, "user-1", auth.ScopePrescriptionsWrite)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	created := decode[PrescriptionView](t, rr)
	require.Equal(t, "user-1", created.UserID)
	require.Equal(t, prescription.RiskFrail, created.Prescription.RiskCategory)
	require.NotNil(t, created.Prescription.Balance)
	require.Contains(t, created.Prescription.Precautions, "Stop immediately if you feel chest pain or dizziness")

	rr = do(t, mux, http.MethodGet, "/v1/prescriptions/latest", "", "user-1", auth.ScopePrescriptionsRead)
	require.Equal(t, http.StatusOK, rr.Code)
	latest := decode[PrescriptionView](t, rr)
	require.Equal(t, created.PrescriptionID, latest.PrescriptionID)
}

func TestCreatePrescriptionValidationFailure(t *testing.T) {
	mux := newTestMux(t)

	rr := do(t, mux, http.MethodPost, "/v1/prescriptions",
		`{"age":70,"gender":"F","frailScore":1,"sppbScore":15,"sarcfScore":0}`, "user-1", auth.ScopePrescriptionsWrite)
	require.Equal(t, http.StatusBadRequest, rr.Code)
	body := decode[ValidationErrorResponse](t, rr)
	require.Equal(t, "validation_failed", body.Type)
	require.Equal(t, "sppbScore", body.Field)

	rr = do(t, mux, http.MethodGet, "/v1/prescriptions/latest", "", "user-1", auth.ScopePrescriptionsRead)
	require.Equal(t, http.StatusNotFound, rr.Code)
}

func TestCreatePrescriptionRejectsBadBodies(t *testing.T) {
	mux := newTestMux(t)

	rr := do(t, mux, http.MethodPost, "/v1/prescriptions", `{"age":`, "user-1", auth.ScopePrescriptionsWrite)
	require.Equal(t, http.StatusBadRequest, rr.Code)
	require.Equal(t, "invalid_request", decode[map[string]string](t, rr)["type"])

	rr = do(t, mux, http.MethodPost, "/v1/prescriptions", `{"age":70,"gender":"F","bmi":22}`, "user-1", auth.ScopePrescriptionsWrite)
	require.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestScopesAreEnforced(t *testing.T) {
	mux := newTestMux(t)

	rr := do(t, mux, http.MethodPost, "/v1/prescriptions", frailBody, "user-1", auth.ScopePrescriptionsRead)
	require.Equal(t, http.StatusForbidden, rr.Code)

	rr = do(t, mux, http.MethodPost, "/v1/prescriptions", frailBody, "")
	require.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = do(t, mux, http.MethodGet, "/v1/prescriptions/latest", "", "user-1")
	require.Equal(t, http.StatusForbidden, rr.Code)

	rr = do(t, mux, http.MethodDelete, "/v1/prescriptions", "", "user-1", auth.ScopePrescriptionsWrite)
	require.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}

func TestActingForAnotherUserRequiresAdmin(t *testing.T) {
	mux := newTestMux(t)
	body := `{"user_id":"patient-9",` + frailBody[1:]

	rr := do(t, mux, http.MethodPost, "/v1/prescriptions", body, "clinician-1", auth.ScopePrescriptionsWrite)
	require.Equal(t, http.StatusForbidden, rr.Code)

	rr = do(t, mux, http.MethodPost, "/v1/prescriptions", body, "clinician-1", auth.ScopePrescriptionsWrite, auth.ScopePrescriptionsAdmin)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	require.Equal(t, "patient-9", decode[PrescriptionView](t, rr).UserID)

	rr = do(t, mux, http.MethodGet, "/v1/prescriptions/latest?user_id=patient-9", "", "clinician-1", auth.ScopePrescriptionsRead, auth.ScopePrescriptionsAdmin)
	require.Equal(t, http.StatusOK, rr.Code)

	rr = do(t, mux, http.MethodGet, "/v1/prescriptions/latest?user_id=patient-9", "", "clinician-1", auth.ScopePrescriptionsRead)
	require.Equal(t, http.StatusForbidden, rr.Code)
}

func TestSubmitFeedback(t *testing.T) {
	mux := newTestMux(t)

	rr := do(t, mux, http.MethodPost, "/v1/prescriptions/latest/feedback", `{"rpe":5,"hasPain":false,"satisfaction":3}`, "user-1", auth.ScopePrescriptionsWrite)
	require.Equal(t, http.StatusNotFound, rr.Code)

	rr = do(t, mux, http.MethodPost, "/v1/prescriptions", frailBody, "user-1", auth.ScopePrescriptionsWrite)
	require.Equal(t, http.StatusCreated, rr.Code)
	first := decode[PrescriptionView](t, rr)

	rr = do(t, mux, http.MethodPost, "/v1/prescriptions/latest/feedback", `{"rpe":9,"hasPain":false,"satisfaction":2}`, "user-1", auth.ScopePrescriptionsWrite)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	tuned := decode[PrescriptionView](t, rr)
	require.Equal(t, first.PrescriptionID, tuned.PreviousID)
	require.Equal(t, -1, tuned.Adjustment.Delta)
	require.Equal(t, prescription.Range{1, 3}, tuned.Prescription.Aerobic.RPERange)

	rr = do(t, mux, http.MethodPost, "/v1/prescriptions/latest/feedback", `{"rpe":20,"satisfaction":2}`, "user-1", auth.ScopePrescriptionsWrite)
	require.Equal(t, http.StatusBadRequest, rr.Code)
	require.Equal(t, "rpe", decode[ValidationErrorResponse](t, rr).Field)
}

func TestPreviewStoresNothing(t *testing.T) {
	mux := newTestMux(t)

	rr := do(t, mux, http.MethodPost, "/v1/prescriptions/preview", frailBody, "user-1")
	require.Equal(t, http.StatusOK, rr.Code)
	rx := decode[prescription.Prescription](t, rr)
	require.Equal(t, prescription.RiskFrail, rx.RiskCategory)

	rr = do(t, mux, http.MethodGet, "/v1/prescriptions/latest", "", "user-1", auth.ScopePrescriptionsRead)
	require.Equal(t, http.StatusNotFound, rr.Code)
}

func TestCatalogAndHealth(t *testing.T) {
	mux := newTestMux(t)

	rr := do(t, mux, http.MethodGet, "/v1/catalog", "", "user-1")
	require.Equal(t, http.StatusOK, rr.Code)
	c := decode[catalog.Catalog](t, rr)
	require.Len(t, c.Resistance, 11)
	require.True(t, c.JointImpactConditions.Has("hip_pain"))

	rr = do(t, mux, http.MethodGet, "/healthz", "", "")
	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, "ok", rr.Body.String())
}
