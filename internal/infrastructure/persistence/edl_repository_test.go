package persistence

import (
	"context"
	"testing"

	"github.com/gites/backend/internal/domain/inspection"
	"github.com/gites/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormEdlRepository_SaveAndFind(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewGormEdlRepository(db)

	d := seedDossier(t, db)
	e, err := inspection.NewEdl(d.ID, inspection.EdlArrivee, []string{"Cuisine", "Salle de bain", "Chambre"})
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, e))

	found, err := repo.FindByID(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, inspection.EdlNonCommence, found.Statut)
	require.Len(t, found.Items, 3)
	for i, item := range found.Items {
		assert.Equal(t, i, item.Position)
	}

	_, err = repo.FindByID(ctx, uuid.New())
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormEdlRepository_SavePersistsItemOutcomes(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewGormEdlRepository(db)

	d := seedDossier(t, db)
	e, err := inspection.NewEdl(d.ID, inspection.EdlDepart, []string{"Cuisine", "Chambre"})
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, e))

	require.NoError(t, e.RecordItemOutcome(e.Items[0].ID, inspection.OutcomeAnomalie, "fissure", []string{"f1.jpg", "f2.jpg"}))
	require.NoError(t, repo.Save(ctx, e))

	found, err := repo.FindByID(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, inspection.EdlEnCours, found.Statut)
	assert.Equal(t, inspection.OutcomeAnomalie, found.Items[0].Etat)
	assert.Equal(t, "fissure", found.Items[0].Comment)
	assert.Equal(t, inspection.PhotoList{"f1.jpg", "f2.jpg"}, found.Items[0].Photos)
	assert.Equal(t, inspection.OutcomeNone, found.Items[1].Etat)
}

func TestGormEdlRepository_SaveRemovesDroppedItems(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewGormEdlRepository(db)

	d := seedDossier(t, db)
	e, err := inspection.NewEdl(d.ID, inspection.EdlArrivee, []string{"Cuisine", "Chambre", "Balcon"})
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, e))

	e.Items = e.Items[:2]
	require.NoError(t, repo.Save(ctx, e))

	found, err := repo.FindByID(ctx, e.ID)
	require.NoError(t, err)
	require.Len(t, found.Items, 2)

	var count int64
	require.NoError(t, db.Model(&inspection.EdlItem{}).Where("edl_id = ?", e.ID).Count(&count).Error)
	assert.EqualValues(t, 2, count)
}

func TestGormEdlRepository_FindByDossierAndType(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewGormEdlRepository(db)

	d := seedDossier(t, db)
	arrivee, err := inspection.NewEdl(d.ID, inspection.EdlArrivee, []string{"Cuisine"})
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, arrivee))
	depart, err := inspection.NewEdl(d.ID, inspection.EdlDepart, []string{"Cuisine"})
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, depart))

	found, err := repo.FindByDossierAndType(ctx, d.ID, inspection.EdlDepart)
	require.NoError(t, err)
	assert.Equal(t, depart.ID, found.ID)

	_, err = repo.FindByDossierAndType(ctx, uuid.New(), inspection.EdlArrivee)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	all, err := repo.FindByDossier(ctx, d.ID)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestGormIncidentRepository(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	edlRepo := NewGormEdlRepository(db)
	repo := NewGormIncidentRepository(db)

	d := seedDossier(t, db)
	e, err := inspection.NewEdl(d.ID, inspection.EdlArrivee, []string{"Cuisine"})
	require.NoError(t, err)
	require.NoError(t, edlRepo.Save(ctx, e))

	in, err := inspection.NewIncident(e.ID, d.ID, &e.Items[0].ID, inspection.SeverityMajeur,
		"Vitre cassee", []string{"v1.jpg"})
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, in))

	t.Run("round trip", func(t *testing.T) {
		found, err := repo.FindByID(ctx, in.ID)
		require.NoError(t, err)
		assert.Equal(t, inspection.SeverityMajeur, found.Severity)
		assert.Equal(t, inspection.PhotoList{"v1.jpg"}, found.Photos)
		require.NotNil(t, found.EdlItemID)
		assert.Equal(t, e.Items[0].ID, *found.EdlItemID)
	})

	t.Run("list by inspection", func(t *testing.T) {
		found, err := repo.FindByEdl(ctx, e.ID)
		require.NoError(t, err)
		assert.Len(t, found, 1)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, in.ID))
		_, err := repo.FindByID(ctx, in.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)

		assert.ErrorIs(t, repo.Delete(ctx, in.ID), shared.ErrNotFound)
	})
}
