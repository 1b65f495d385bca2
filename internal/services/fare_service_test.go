package services

import (
	"testing"
	"time"

	"ferry-backend/internal/domain"
	"ferry-backend/internal/domain/models"
	"ferry-backend/internal/repositories"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChargeFor(t *testing.T) {
	cases := []struct {
		name     string
		class    domain.FareClass
		base     int64
		discount int
		want     int64
	}{
		{"adult pays base exactly", domain.FareAdult, 55000, 20, 55000},
		{"senior gets discount", domain.FareSenior, 55000, 20, 44000},
		{"pwd gets discount", domain.FarePWD, 55000, 20, 44000},
		{"child gets discount", domain.FareChild, 55000, 20, 44000},
		{"infant rides free", domain.FareInfant, 55000, 20, 0},
		{"half-up rounding", domain.FareSenior, 33333, 15, 28333}, // 28333.05 -> 28333
		{"rounds up at half", domain.FareSenior, 12350, 15, 10498}, // 10497.5 -> 10498
		{"zero discount", domain.FareSenior, 55000, 0, 55000},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ChargeFor(tc.class, tc.base, tc.discount))
		})
	}
}

func TestPriceAllRoundsPerPassenger(t *testing.T) {
	fare := models.Fare{BaseFareCents: 55000, DiscountPercent: 20}
	charges, total := PriceAll([]domain.FareClass{domain.FareAdult, domain.FareSenior}, fare)

	require.Len(t, charges, 2)
	assert.Equal(t, int64(55000), charges[0])
	assert.Equal(t, int64(44000), charges[1])
	assert.Equal(t, int64(99000), total)
}

func TestResolveUsesRuleInEffect(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery(`SELECT id, route_id, base_fare_cents, discount_percent, valid_from, valid_until, created_at FROM fare_rules`).
		WithArgs(int64(4), "2026-08-28", "2026-08-28").
		WillReturnRows(sqlmock.NewRows([]string{"id", "route_id", "base_fare_cents", "discount_percent", "valid_from", "valid_until", "created_at"}).
			AddRow(9, 4, 55000, 20, "2026-01-01", nil, now))

	svc := FareService{FareRules: repositories.FareRuleRepo{DB: db}, DefaultFareCents: 10000}
	fare, err := svc.Resolve(4, "2026-08-28")
	require.NoError(t, err)

	assert.Equal(t, int64(55000), fare.BaseFareCents)
	assert.Equal(t, 20, fare.DiscountPercent)
	assert.Equal(t, int64(9), fare.RuleID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResolveFallsBackToDefault(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`FROM fare_rules`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "route_id", "base_fare_cents", "discount_percent", "valid_from", "valid_until", "created_at"}))

	svc := FareService{
		FareRules:              repositories.FareRuleRepo{DB: db},
		DefaultFareCents:       50000,
		DefaultDiscountPercent: 20,
	}
	fare, err := svc.Resolve(4, "2026-08-28")
	require.NoError(t, err)

	assert.Equal(t, int64(50000), fare.BaseFareCents)
	assert.Equal(t, 20, fare.DiscountPercent)
	assert.Zero(t, fare.RuleID)
}

func TestResolveWithoutRuleOrDefaultIsConfigurationError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`FROM fare_rules`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "route_id", "base_fare_cents", "discount_percent", "valid_from", "valid_until", "created_at"}))

	svc := FareService{FareRules: repositories.FareRuleRepo{DB: db}}
	_, err = svc.Resolve(4, "2026-08-28")

	require.Error(t, err)
	assert.True(t, domain.IsConfiguration(err))
}
