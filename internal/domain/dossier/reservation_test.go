package dossier

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var rent = decimal.RequireFromString("840.00")

func newTestOption(t *testing.T) *Reservation {
	t.Helper()
	checkIn := time.Now().AddDate(0, 2, 0)
	r, err := NewOption(uuid.New(), checkIn, checkIn.AddDate(0, 0, 7),
		"Marie Dupont", "marie@example.com", "+33612345678",
		rent, 2, time.Now().Add(72*time.Hour))
	require.NoError(t, err)
	return r
}

func TestNewOption(t *testing.T) {
	t.Run("creates an active option with expiry", func(t *testing.T) {
		r := newTestOption(t)
		assert.Equal(t, ReservationOptionActive, r.Statut)
		require.NotNil(t, r.ExpirationAt)
		assert.True(t, r.ExpirationAt.After(time.Now()))
	})

	t.Run("rejects past expiration", func(t *testing.T) {
		checkIn := time.Now().AddDate(0, 2, 0)
		_, err := NewOption(uuid.New(), checkIn, checkIn.AddDate(0, 0, 7),
			"Marie Dupont", "", "", rent, 2, time.Now().Add(-time.Hour))
		assert.Error(t, err)
	})
}

func TestNewConfirmed(t *testing.T) {
	checkIn := time.Now().AddDate(0, 1, 0)

	t.Run("binding from the start", func(t *testing.T) {
		r, err := NewConfirmed(uuid.New(), checkIn, checkIn.AddDate(0, 0, 5),
			"Jean Martin", "", "", rent, 3)
		require.NoError(t, err)
		assert.Equal(t, ReservationConfirmee, r.Statut)
		assert.Nil(t, r.ExpirationAt)
		assert.Len(t, r.GetDomainEvents(), 1)
	})

	t.Run("validation matrix", func(t *testing.T) {
		tests := []struct {
			name string
			fn   func() error
		}{
			{"nil logement", func() error {
				_, err := NewConfirmed(uuid.Nil, checkIn, checkIn.AddDate(0, 0, 5), "X", "", "", rent, 1)
				return err
			}},
			{"check-out before check-in", func() error {
				_, err := NewConfirmed(uuid.New(), checkIn, checkIn.AddDate(0, 0, -1), "X", "", "", rent, 1)
				return err
			}},
			{"check-out equals check-in", func() error {
				_, err := NewConfirmed(uuid.New(), checkIn, checkIn, "X", "", "", rent, 1)
				return err
			}},
			{"empty tenant name", func() error {
				_, err := NewConfirmed(uuid.New(), checkIn, checkIn.AddDate(0, 0, 5), "", "", "", rent, 1)
				return err
			}},
			{"negative rent", func() error {
				_, err := NewConfirmed(uuid.New(), checkIn, checkIn.AddDate(0, 0, 5), "X", "", "", decimal.RequireFromString("-1"), 1)
				return err
			}},
			{"zero occupants", func() error {
				_, err := NewConfirmed(uuid.New(), checkIn, checkIn.AddDate(0, 0, 5), "X", "", "", rent, 0)
				return err
			}},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				assert.Error(t, tt.fn())
			})
		}
	})
}

func TestReservation_Confirm(t *testing.T) {
	t.Run("confirms an active option and drops the expiry", func(t *testing.T) {
		r := newTestOption(t)
		require.NoError(t, r.Confirm())
		assert.Equal(t, ReservationConfirmee, r.Statut)
		assert.Nil(t, r.ExpirationAt)
		assert.Len(t, r.GetDomainEvents(), 1)
	})

	t.Run("cannot confirm twice", func(t *testing.T) {
		r := newTestOption(t)
		require.NoError(t, r.Confirm())
		assert.Error(t, r.Confirm())
	})

	t.Run("cannot confirm an expired option", func(t *testing.T) {
		r := newTestOption(t)
		r.Statut = ReservationOptionExpiree
		assert.Error(t, r.Confirm())
	})
}

func TestReservation_Cancel(t *testing.T) {
	t.Run("cancels an active option", func(t *testing.T) {
		r := newTestOption(t)
		require.NoError(t, r.Cancel("double booking"))
		assert.Equal(t, ReservationAnnulee, r.Statut)
		assert.Equal(t, "double booking", r.CancelReason)
	})

	t.Run("cancels a confirmed reservation", func(t *testing.T) {
		r := newTestOption(t)
		require.NoError(t, r.Confirm())
		require.NoError(t, r.Cancel("owner request"))
		assert.Equal(t, ReservationAnnulee, r.Statut)
	})

	t.Run("requires a reason", func(t *testing.T) {
		r := newTestOption(t)
		assert.Error(t, r.Cancel(""))
	})

	t.Run("inactive reservations refuse cancellation", func(t *testing.T) {
		r := newTestOption(t)
		r.Statut = ReservationOptionExpiree
		assert.Error(t, r.Cancel("too late"))
	})
}

func TestReservation_Expire(t *testing.T) {
	t.Run("lapses a past-expiry option", func(t *testing.T) {
		r := newTestOption(t)
		now := r.ExpirationAt.Add(time.Minute)

		require.NoError(t, r.Expire(now))
		assert.Equal(t, ReservationOptionExpiree, r.Statut)
	})

	t.Run("expiry instant itself is enough", func(t *testing.T) {
		r := newTestOption(t)
		require.NoError(t, r.Expire(*r.ExpirationAt))
		assert.Equal(t, ReservationOptionExpiree, r.Statut)
	})

	t.Run("not yet expired", func(t *testing.T) {
		r := newTestOption(t)
		assert.Error(t, r.Expire(r.ExpirationAt.Add(-time.Minute)))
		assert.Equal(t, ReservationOptionActive, r.Statut)
	})

	t.Run("only active options expire", func(t *testing.T) {
		r := newTestOption(t)
		require.NoError(t, r.Confirm())
		assert.Error(t, r.Expire(time.Now().AddDate(1, 0, 0)))
	})
}

func TestReservation_Nights(t *testing.T) {
	checkIn := time.Date(2026, 7, 1, 16, 0, 0, 0, time.UTC)
	r, err := NewConfirmed(uuid.New(), checkIn, checkIn.AddDate(0, 0, 7), "X", "", "", rent, 2)
	require.NoError(t, err)
	assert.Equal(t, 7, r.Nights())
}

func TestReservation_Overlaps(t *testing.T) {
	checkIn := time.Date(2026, 7, 10, 0, 0, 0, 0, time.UTC)
	checkOut := time.Date(2026, 7, 17, 0, 0, 0, 0, time.UTC)
	r, err := NewConfirmed(uuid.New(), checkIn, checkOut, "X", "", "", rent, 2)
	require.NoError(t, err)

	tests := []struct {
		name     string
		in, out  time.Time
		overlaps bool
	}{
		{"identical range", checkIn, checkOut, true},
		{"contained", checkIn.AddDate(0, 0, 2), checkOut.AddDate(0, 0, -2), true},
		{"straddles start", checkIn.AddDate(0, 0, -3), checkIn.AddDate(0, 0, 2), true},
		{"straddles end", checkOut.AddDate(0, 0, -1), checkOut.AddDate(0, 0, 3), true},
		{"back to back after: checkout day is free", checkOut, checkOut.AddDate(0, 0, 5), false},
		{"back to back before", checkIn.AddDate(0, 0, -5), checkIn, false},
		{"disjoint after", checkOut.AddDate(0, 0, 1), checkOut.AddDate(0, 0, 4), false},
		{"disjoint before", checkIn.AddDate(0, 0, -9), checkIn.AddDate(0, 0, -5), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.overlaps, r.Overlaps(tt.in, tt.out))
		})
	}
}
