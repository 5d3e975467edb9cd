package distributors

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/reelwire/dcpflow-backend/pkg/db/models"
)

func setupDistributorTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	for _, stmt := range []string{
		`CREATE TABLE IF NOT EXISTS distributors (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  studio_id TEXT NOT NULL,
  studio_name TEXT NOT NULL,
  qw_company_id TEXT NOT NULL,
  qw_company_name TEXT NOT NULL,
  qw_pat_encrypted TEXT,
  updated_by TEXT,
  created_at DATETIME,
  updated_at DATETIME,
  UNIQUE (studio_id, qw_company_id)
)`,
		`DELETE FROM distributors`,
	} {
		require.NoError(t, db.Exec(stmt).Error)
	}

	return db
}

func seedDistributor(t *testing.T, repo Repository, studioID, companyID string, pat *string) models.Distributor {
	t.Helper()
	d := models.Distributor{
		UserID:         uuid.New(),
		StudioID:       studioID,
		StudioName:     "Studio " + studioID,
		QWCompanyID:    companyID,
		QWCompanyName:  "Company " + companyID,
		QWPATEncrypted: pat,
	}
	require.NoError(t, repo.Create(context.Background(), &d))
	return d
}

func TestFindByPairs_MatchesOnlyListedPairs(t *testing.T) {
	db := setupDistributorTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	seedDistributor(t, repo, "st-1", "qw-1", nil)
	seedDistributor(t, repo, "st-2", "qw-2", nil)
	// Same studio, different company: must not match the (st-1, qw-2) probe.
	seedDistributor(t, repo, "st-1", "qw-9", nil)

	found, err := repo.FindByPairs(ctx, []Pair{
		{StudioID: "st-1", QWCompanyID: "qw-1"},
		{StudioID: "st-2", QWCompanyID: "qw-2"},
	})
	require.NoError(t, err)
	require.Len(t, found, 2)
	for _, d := range found {
		require.NotEqual(t, "qw-9", d.QWCompanyID)
	}
}

func TestFindByPairs_EmptyInput(t *testing.T) {
	db := setupDistributorTestDB(t)
	repo := NewRepository(db)

	found, err := repo.FindByPairs(context.Background(), nil)
	require.NoError(t, err)
	require.Empty(t, found)
}

func TestCreate_DuplicatePairRejected(t *testing.T) {
	db := setupDistributorTestDB(t)
	repo := NewRepository(db)

	seedDistributor(t, repo, "st-3", "qw-3", nil)

	dup := models.Distributor{
		UserID:        uuid.New(),
		StudioID:      "st-3",
		StudioName:    "Studio st-3",
		QWCompanyID:   "qw-3",
		QWCompanyName: "Company qw-3",
	}
	require.Error(t, repo.Create(context.Background(), &dup))
}

func TestUpdateCredential(t *testing.T) {
	db := setupDistributorTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	d := seedDistributor(t, repo, "st-4", "qw-4", nil)
	actor := uuid.New()

	encoded := "dG9rZW4="
	require.NoError(t, repo.UpdateCredential(ctx, d.ID, &encoded, actor))

	reloaded, err := repo.FindByID(ctx, d.ID)
	require.NoError(t, err)
	require.True(t, reloaded.HasCredential())
	require.Equal(t, encoded, *reloaded.QWPATEncrypted)
	require.Equal(t, actor, *reloaded.UpdatedBy)

	require.NoError(t, repo.UpdateCredential(ctx, d.ID, nil, actor))
	reloaded, err = repo.FindByID(ctx, d.ID)
	require.NoError(t, err)
	require.False(t, reloaded.HasCredential())
}

func TestUpdateCredential_MissingDistributor(t *testing.T) {
	db := setupDistributorTestDB(t)
	repo := NewRepository(db)

	err := repo.UpdateCredential(context.Background(), uuid.New(), nil, uuid.New())
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
