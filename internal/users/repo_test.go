package users

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/reelwire/dcpflow-backend/pkg/db/models"
	"github.com/reelwire/dcpflow-backend/pkg/enums"
)

func setupUsersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	for _, stmt := range []string{
		`CREATE TABLE IF NOT EXISTS users (
  id TEXT PRIMARY KEY,
  email TEXT NOT NULL UNIQUE,
  password_hash TEXT NOT NULL,
  name TEXT,
  status TEXT NOT NULL DEFAULT 'active',
  last_login_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
)`,
		`CREATE TABLE IF NOT EXISTS user_roles (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL UNIQUE,
  role TEXT NOT NULL,
  assigned_by TEXT,
  assigned_at DATETIME
)`,
		`DELETE FROM user_roles`,
		`DELETE FROM users`,
	} {
		require.NoError(t, db.Exec(stmt).Error)
	}

	return db
}

func seedUser(t *testing.T, repo Repository, email string) models.User {
	t.Helper()
	user := models.User{Email: email, PasswordHash: "hash", Status: "active"}
	require.NoError(t, repo.Create(context.Background(), &user))
	return user
}

func TestCreateAndFind(t *testing.T) {
	db := setupUsersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	created := seedUser(t, repo, "staff@example.com")

	byEmail, err := repo.FindByEmail(ctx, "staff@example.com")
	require.NoError(t, err)
	require.Equal(t, created.ID, byEmail.ID)

	byID, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, "staff@example.com", byID.Email)
}

func TestGetRole_DefaultsToViewer(t *testing.T) {
	db := setupUsersTestDB(t)
	repo := NewRepository(db)

	user := seedUser(t, repo, "norole@example.com")

	role, err := repo.GetRole(context.Background(), user.ID)
	require.NoError(t, err)
	require.Equal(t, enums.AppRoleViewer, role)
}

func TestSetRole_UpsertsSingleRow(t *testing.T) {
	db := setupUsersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	user := seedUser(t, repo, "role@example.com")
	admin := uuid.New()

	require.NoError(t, repo.SetRole(ctx, user.ID, enums.AppRoleClientService, admin))
	role, err := repo.GetRole(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, enums.AppRoleClientService, role)

	require.NoError(t, repo.SetRole(ctx, user.ID, enums.AppRoleAdmin, admin))
	role, err = repo.GetRole(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, enums.AppRoleAdmin, role)

	var count int64
	require.NoError(t, db.Model(&models.UserRole{}).Where("user_id = ?", user.ID).Count(&count).Error)
	require.EqualValues(t, 1, count)
}

func TestList_JoinsRoles(t *testing.T) {
	db := setupUsersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	withRole := seedUser(t, repo, "a-admin@example.com")
	require.NoError(t, repo.SetRole(ctx, withRole.ID, enums.AppRoleAdmin, uuid.New()))
	seedUser(t, repo, "b-viewer@example.com")

	joined, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, joined, 2)
	require.Equal(t, enums.AppRoleAdmin, joined[0].Role)
	require.Equal(t, enums.AppRoleViewer, joined[1].Role)
}

func TestUpdateStatusAndLastLogin(t *testing.T) {
	db := setupUsersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	user := seedUser(t, repo, "status@example.com")

	require.NoError(t, repo.UpdateStatus(ctx, user.ID, "disabled"))
	reloaded, err := repo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	require.False(t, reloaded.IsActive())

	at := time.Now().UTC().Truncate(time.Second)
	require.NoError(t, repo.UpdateLastLogin(ctx, user.ID, at))
	reloaded, err = repo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, reloaded.LastLoginAt)

	require.ErrorIs(t, repo.UpdateStatus(ctx, uuid.New(), "disabled"), gorm.ErrRecordNotFound)
}
