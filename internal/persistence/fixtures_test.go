package persistence

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"example.com/exerciserx/internal/catalog"
	"example.com/exerciserx/internal/domain"
	"example.com/exerciserx/internal/prescription"
)

func sampleRecord(t *testing.T, userID string) domain.Record {
	t.Helper()
	engine, err := prescription.NewEngine(catalog.MustDefault())
	require.NoError(t, err)
	rx, err := engine.Generate(prescription.Assessment{Age: 79, Gender: prescription.GenderMale, SPPBScore: 6, FrailScore: 3, Conditions: []string{"knee_pain"}})
	require.NoError(t, err)
	return domain.Record{
		ID:           uuid.NewString(),
		UserID:       userID,
		CreatedAt:    time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		Prescription: rx,
	}
}
