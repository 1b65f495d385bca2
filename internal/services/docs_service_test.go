package services

import (
	"testing"
	"time"

	"ferry-backend/internal/domain"
	"ferry-backend/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateManifestPDF(t *testing.T) {
	svc := DocsService{
		ManifestLoader: func(tripID int64) (models.Manifest, error) {
			return models.Manifest{
				TripID:           tripID,
				TripDate:         "2026-08-28",
				TripTime:         "10:30",
				VesselName:       "MV Santa Clara",
				RouteOrigin:      "Batangas",
				RouteDestination: "Calapan",
				Rows: []models.ManifestRow{
					{Sequence: 1, TicketNumber: "FT-00000041", BookingRef: "FB-20260828-AAAAA",
						FullName: "Maria Santos", FareClass: domain.FareAdult, Source: "online",
						Status: domain.TicketConfirmed},
				},
				NamedCount:         1,
				WalkInUnnamedCount: 2,
				TotalPassengers:    3,
				StaffSoldBooked:    3,
				CaptainCount:       2,
				MultipleCaptains:   true,
				CompiledAt:         time.Date(2026, 8, 28, 9, 0, 0, 0, time.Local),
			}, nil
		},
	}

	pdf, filename, err := svc.GenerateManifest(7)
	require.NoError(t, err)

	assert.Equal(t, "MANIFEST_7_20260828.pdf", filename)
	require.Greater(t, len(pdf), 4)
	assert.Equal(t, "%PDF", string(pdf[:4]))
}

func TestGenerateETicketPDF(t *testing.T) {
	svc := DocsService{
		TicketLoader: func(number string) (eTicketData, error) {
			return eTicketData{
				TicketNumber: number,
				BookingRef:   "FB-20260828-AAAAA",
				FullName:     "Maria Santos",
				FareClass:    "adult",
				FareCents:    55000,
				Route:        "Batangas -> Calapan",
				TripDate:     "2026-08-28",
				TripTime:     "10:30",
				VesselName:   "MV Santa Clara",
				Status:       "confirmed",
			}, nil
		},
	}

	pdf, filename, err := svc.GenerateETicket("FT-00000041")
	require.NoError(t, err)

	assert.Equal(t, "ETICKET_FT-00000041.pdf", filename)
	require.Greater(t, len(pdf), 4)
	assert.Equal(t, "%PDF", string(pdf[:4]))
}

func TestManifestLoaderErrorPropagates(t *testing.T) {
	svc := DocsService{
		ManifestLoader: func(tripID int64) (models.Manifest, error) {
			return models.Manifest{}, domain.NotFoundError{Resource: "trip"}
		},
	}

	_, _, err := svc.GenerateManifest(99)
	require.Error(t, err)
	assert.True(t, domain.IsNotFound(err))
}
