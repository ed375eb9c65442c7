package dossier

import (
	"testing"

	"github.com/gites/backend/internal/domain/permission"
	"github.com/gites/backend/internal/domain/pipeline"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDossier(t *testing.T) *Dossier {
	t.Helper()
	d, err := NewDossier(uuid.New(), uuid.New(), DepositAcompte)
	require.NoError(t, err)
	d.ClearDomainEvents()
	return d
}

func TestNewDossier(t *testing.T) {
	t.Run("starts at the first pipeline state", func(t *testing.T) {
		reservationID := uuid.New()
		d, err := NewDossier(reservationID, uuid.New(), DepositArrhes)
		require.NoError(t, err)
		assert.Equal(t, pipeline.StatusNouveau, d.PipelineStatut)
		assert.Equal(t, reservationID, d.ReservationID)
		assert.Equal(t, DepositArrhes, d.DepositType)
		assert.False(t, d.IsArchived())
		assert.Len(t, d.GetDomainEvents(), 1)
	})

	t.Run("rejects nil reservation", func(t *testing.T) {
		_, err := NewDossier(uuid.Nil, uuid.New(), DepositAcompte)
		assert.Error(t, err)
	})

	t.Run("rejects nil logement", func(t *testing.T) {
		_, err := NewDossier(uuid.New(), uuid.Nil, DepositAcompte)
		assert.Error(t, err)
	})

	t.Run("rejects unknown deposit type", func(t *testing.T) {
		_, err := NewDossier(uuid.New(), uuid.New(), DepositType("CAUTION"))
		assert.Error(t, err)
	})
}

func TestDossier_AdvanceTo(t *testing.T) {
	t.Run("admin advances along an edge", func(t *testing.T) {
		d := newTestDossier(t)
		require.NoError(t, d.AdvanceTo(pipeline.StatusDemandeRecue, permission.RoleAdmin))
		assert.Equal(t, pipeline.StatusDemandeRecue, d.PipelineStatut)
		assert.Len(t, d.GetDomainEvents(), 1)
	})

	t.Run("agent cannot hit administrative targets", func(t *testing.T) {
		d := newTestDossier(t)
		err := d.AdvanceTo(pipeline.StatusDemandeRecue, permission.RoleAgent)
		assert.Error(t, err)
		assert.Equal(t, pipeline.StatusNouveau, d.PipelineStatut)
	})

	t.Run("rejects non-edges", func(t *testing.T) {
		d := newTestDossier(t)
		assert.Error(t, d.AdvanceTo(pipeline.StatusCheckinFait, permission.RoleAdmin))
	})

	t.Run("rejects unknown state", func(t *testing.T) {
		d := newTestDossier(t)
		assert.Error(t, d.AdvanceTo(pipeline.Status("WARP"), permission.RoleAdmin))
	})

	t.Run("archived dossiers refuse mutation", func(t *testing.T) {
		d := newTestDossier(t)
		d.PipelineStatut = pipeline.StatusCloture
		require.NoError(t, d.Archive())
		assert.Error(t, d.AdvanceTo(pipeline.StatusDemandeRecue, permission.RoleAdmin))
	})
}

func TestDossier_Revert(t *testing.T) {
	t.Run("admin steps back one position", func(t *testing.T) {
		d := newTestDossier(t)
		d.PipelineStatut = pipeline.StatusContratEnvoye

		require.NoError(t, d.Revert(permission.RoleAdmin))
		assert.Equal(t, pipeline.StatusDemandeRecue, d.PipelineStatut)
	})

	t.Run("incident variant reverts to predecessor of OK sibling", func(t *testing.T) {
		d := newTestDossier(t)
		d.PipelineStatut = pipeline.StatusEdlIncident

		require.NoError(t, d.Revert(permission.RoleAdmin))
		assert.Equal(t, pipeline.StatusCheckoutFait, d.PipelineStatut)
	})

	t.Run("agent cannot revert", func(t *testing.T) {
		d := newTestDossier(t)
		d.PipelineStatut = pipeline.StatusContratEnvoye
		assert.Error(t, d.Revert(permission.RoleAgent))
	})

	t.Run("no revert from first state", func(t *testing.T) {
		d := newTestDossier(t)
		assert.Error(t, d.Revert(permission.RoleAdmin))
	})

	t.Run("no revert from terminal states", func(t *testing.T) {
		d := newTestDossier(t)
		d.PipelineStatut = pipeline.StatusCloture
		assert.Error(t, d.Revert(permission.RoleAdmin))
	})
}

func TestDossier_Cancel(t *testing.T) {
	t.Run("cancels with party and reason", func(t *testing.T) {
		d := newTestDossier(t)
		d.PipelineStatut = pipeline.StatusContratSigne

		require.NoError(t, d.Cancel(CancelByTenant, "changement de plans"))
		assert.Equal(t, pipeline.StatusAnnule, d.PipelineStatut)
		assert.Equal(t, CancelByTenant, d.CancelParty)
		assert.Equal(t, "changement de plans", d.CancelReason)
		assert.NotNil(t, d.CancelledAt)
		assert.True(t, d.IsCancelled())
	})

	t.Run("requires a reason", func(t *testing.T) {
		d := newTestDossier(t)
		assert.Error(t, d.Cancel(CancelByOwner, ""))
	})

	t.Run("requires a known party", func(t *testing.T) {
		d := newTestDossier(t)
		assert.Error(t, d.Cancel(CancelParty("AGENCE"), "some reason"))
	})

	t.Run("terminal dossiers refuse cancellation", func(t *testing.T) {
		d := newTestDossier(t)
		require.NoError(t, d.Cancel(CancelByTenant, "first"))
		assert.Error(t, d.Cancel(CancelByTenant, "second"))
	})

	t.Run("closed dossiers refuse cancellation", func(t *testing.T) {
		d := newTestDossier(t)
		d.PipelineStatut = pipeline.StatusCloture
		assert.Error(t, d.Cancel(CancelByOwner, "too late"))
	})
}

func TestDossier_Archive(t *testing.T) {
	t.Run("archives a closed dossier", func(t *testing.T) {
		d := newTestDossier(t)
		d.PipelineStatut = pipeline.StatusCloture
		require.NoError(t, d.Archive())
		assert.True(t, d.IsArchived())
	})

	t.Run("archives a cancelled dossier", func(t *testing.T) {
		d := newTestDossier(t)
		require.NoError(t, d.Cancel(CancelByTenant, "annulation"))
		require.NoError(t, d.Archive())
		assert.True(t, d.IsArchived())
	})

	t.Run("rejects non-terminal states", func(t *testing.T) {
		d := newTestDossier(t)
		d.PipelineStatut = pipeline.StatusCheckinFait
		assert.Error(t, d.Archive())
	})

	t.Run("rejects double archive", func(t *testing.T) {
		d := newTestDossier(t)
		d.PipelineStatut = pipeline.StatusCloture
		require.NoError(t, d.Archive())
		assert.Error(t, d.Archive())
	})
}

func TestDossier_StepIndex(t *testing.T) {
	d := newTestDossier(t)
	assert.Equal(t, 0, d.StepIndex())

	d.PipelineStatut = pipeline.StatusEdlEntreeIncident
	assert.Equal(t, pipeline.StepIndex(pipeline.StatusEdlEntreeOK), d.StepIndex())

	d.PipelineStatut = pipeline.StatusAnnule
	assert.Equal(t, -1, d.StepIndex())
}
