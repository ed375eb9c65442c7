package task

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTache(t *testing.T) *Tache {
	t.Helper()
	tache, err := NewTache(uuid.New(), nil, "Menage de fin de sejour", time.Now().AddDate(0, 0, 3))
	require.NoError(t, err)
	return tache
}

func TestNewTache(t *testing.T) {
	t.Run("starts in A_FAIRE", func(t *testing.T) {
		dossierID := uuid.New()
		due := time.Date(2026, 6, 10, 0, 0, 0, 0, time.UTC)
		tache, err := NewTache(uuid.New(), &dossierID, "Remise des cles", due)
		require.NoError(t, err)
		assert.Equal(t, TaskAFaire, tache.Statut)
		assert.Equal(t, &dossierID, tache.DossierID)
		assert.Equal(t, due, tache.DueDate)
		assert.Nil(t, tache.AssigneeID)
	})

	t.Run("dossier link is optional", func(t *testing.T) {
		tache := newTestTache(t)
		assert.Nil(t, tache.DossierID)
	})

	t.Run("rejects nil logement", func(t *testing.T) {
		_, err := NewTache(uuid.Nil, nil, "x", time.Now())
		assert.Error(t, err)
	})

	t.Run("rejects empty label", func(t *testing.T) {
		_, err := NewTache(uuid.New(), nil, "", time.Now())
		assert.Error(t, err)
	})
}

func TestTache_TransitionTo(t *testing.T) {
	tests := []struct {
		from    TaskStatus
		to      TaskStatus
		allowed bool
	}{
		{TaskAFaire, TaskEnCours, true},
		{TaskAFaire, TaskFait, true},
		{TaskAFaire, TaskAnnulee, true},
		{TaskAFaire, TaskAFaire, false},
		{TaskEnCours, TaskAFaire, true},
		{TaskEnCours, TaskFait, true},
		{TaskEnCours, TaskAnnulee, true},
		{TaskFait, TaskAFaire, true},
		{TaskFait, TaskEnCours, false},
		{TaskFait, TaskAnnulee, false},
		{TaskAnnulee, TaskAFaire, true},
		{TaskAnnulee, TaskEnCours, false},
		{TaskAnnulee, TaskFait, false},
	}

	for _, tt := range tests {
		name := tt.from.String() + " to " + tt.to.String()
		t.Run(name, func(t *testing.T) {
			tache := newTestTache(t)
			tache.Statut = tt.from

			err := tache.TransitionTo(tt.to)
			if tt.allowed {
				require.NoError(t, err)
				assert.Equal(t, tt.to, tache.Statut)
			} else {
				assert.Error(t, err)
				assert.Equal(t, tt.from, tache.Statut)
			}
		})
	}

	t.Run("unknown status", func(t *testing.T) {
		tache := newTestTache(t)
		assert.Error(t, tache.TransitionTo(TaskStatus("SUSPENDUE")))
	})
}

func TestTache_Reassign(t *testing.T) {
	t.Run("assigns open tasks", func(t *testing.T) {
		for _, statut := range []TaskStatus{TaskAFaire, TaskEnCours} {
			tache := newTestTache(t)
			tache.Statut = statut
			assignee := uuid.New()

			require.NoError(t, tache.Reassign(assignee))
			assert.Equal(t, &assignee, tache.AssigneeID)
		}
	})

	t.Run("rejects nil assignee", func(t *testing.T) {
		tache := newTestTache(t)
		assert.Error(t, tache.Reassign(uuid.Nil))
	})

	t.Run("closed tasks cannot be reassigned", func(t *testing.T) {
		for _, statut := range []TaskStatus{TaskFait, TaskAnnulee} {
			tache := newTestTache(t)
			tache.Statut = statut
			assert.Error(t, tache.Reassign(uuid.New()))
		}
	})
}

func TestTache_CancelAuto(t *testing.T) {
	t.Run("annuls open tasks", func(t *testing.T) {
		for _, statut := range []TaskStatus{TaskAFaire, TaskEnCours} {
			tache := newTestTache(t)
			tache.Statut = statut
			require.NoError(t, tache.CancelAuto())
			assert.Equal(t, TaskAnnulee, tache.Statut)
		}
	})

	t.Run("leaves completed work untouched", func(t *testing.T) {
		tache := newTestTache(t)
		tache.Statut = TaskFait
		assert.Error(t, tache.CancelAuto())
		assert.Equal(t, TaskFait, tache.Statut)
	})

	t.Run("already cancelled", func(t *testing.T) {
		tache := newTestTache(t)
		tache.Statut = TaskAnnulee
		assert.Error(t, tache.CancelAuto())
	})
}
