package inspection

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewIncident(t *testing.T) {
	edlID, dossierID := uuid.New(), uuid.New()

	t.Run("creates incident with photos", func(t *testing.T) {
		itemID := uuid.New()
		inc, err := NewIncident(edlID, dossierID, &itemID, SeverityMajeur,
			"Porte du four cassee", []string{"four1.jpg", "four2.jpg"})
		require.NoError(t, err)
		assert.Equal(t, edlID, inc.EdlID)
		assert.Equal(t, dossierID, inc.DossierID)
		assert.Equal(t, &itemID, inc.EdlItemID)
		assert.Equal(t, SeverityMajeur, inc.Severity)
		assert.Equal(t, PhotoList{"four1.jpg", "four2.jpg"}, inc.Photos)
	})

	t.Run("item link is optional", func(t *testing.T) {
		inc, err := NewIncident(edlID, dossierID, nil, SeverityMineur,
			"Rayure sur la table", []string{"table.jpg"})
		require.NoError(t, err)
		assert.Nil(t, inc.EdlItemID)
	})

	t.Run("validation matrix", func(t *testing.T) {
		five := []string{"1.jpg", "2.jpg", "3.jpg", "4.jpg", "5.jpg"}
		tests := []struct {
			name string
			fn   func() error
		}{
			{"nil edl", func() error {
				_, err := NewIncident(uuid.Nil, dossierID, nil, SeverityMineur, "x", five)
				return err
			}},
			{"nil dossier", func() error {
				_, err := NewIncident(edlID, uuid.Nil, nil, SeverityMineur, "x", five)
				return err
			}},
			{"unknown severity", func() error {
				_, err := NewIncident(edlID, dossierID, nil, Severity("CRITIQUE"), "x", five)
				return err
			}},
			{"empty description", func() error {
				_, err := NewIncident(edlID, dossierID, nil, SeverityMineur, "", five)
				return err
			}},
			{"no photos", func() error {
				_, err := NewIncident(edlID, dossierID, nil, SeverityMineur, "x", nil)
				return err
			}},
			{"too many photos", func() error {
				_, err := NewIncident(edlID, dossierID, nil, SeverityMineur, "x", append(five, "6.jpg"))
				return err
			}},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				assert.Error(t, tt.fn())
			})
		}
	})

	t.Run("five photos is the upper bound", func(t *testing.T) {
		_, err := NewIncident(edlID, dossierID, nil, SeverityMineur, "x",
			[]string{"1.jpg", "2.jpg", "3.jpg", "4.jpg", "5.jpg"})
		assert.NoError(t, err)
	})
}

func TestIncident_Update(t *testing.T) {
	newIncident := func(t *testing.T) *Incident {
		t.Helper()
		inc, err := NewIncident(uuid.New(), uuid.New(), nil, SeverityMineur,
			"Ampoule grillee", []string{"a.jpg"})
		require.NoError(t, err)
		return inc
	}

	t.Run("rewrites all content", func(t *testing.T) {
		inc := newIncident(t)
		itemID := uuid.New()

		require.NoError(t, inc.Update(&itemID, SeverityMajeur, "Fuite sous l'evier", []string{"b.jpg", "c.jpg"}))

		assert.Equal(t, &itemID, inc.EdlItemID)
		assert.Equal(t, SeverityMajeur, inc.Severity)
		assert.Equal(t, "Fuite sous l'evier", inc.Description)
		assert.Equal(t, PhotoList{"b.jpg", "c.jpg"}, inc.Photos)
	})

	t.Run("can detach the item link", func(t *testing.T) {
		itemID := uuid.New()
		inc, err := NewIncident(uuid.New(), uuid.New(), &itemID, SeverityMineur, "x", []string{"a.jpg"})
		require.NoError(t, err)

		require.NoError(t, inc.Update(nil, SeverityMineur, "x", []string{"a.jpg"}))
		assert.Nil(t, inc.EdlItemID)
	})

	t.Run("same validation as creation", func(t *testing.T) {
		inc := newIncident(t)
		assert.Error(t, inc.Update(nil, SeverityMineur, "", []string{"a.jpg"}))
		assert.Error(t, inc.Update(nil, SeverityMineur, "x", nil))
		assert.Equal(t, "Ampoule grillee", inc.Description)
	})
}
