package permissions_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/evencio/evencio/internal/database/testutil"
	"github.com/evencio/evencio/internal/models"
	"github.com/evencio/evencio/internal/permissions"
)

func seedUserWithPermissions(t *testing.T, db *gorm.DB, isRoot bool, permIDs ...string) *models.User {
	t.Helper()

	require.NoError(t, permissions.SyncRegistry(context.Background(), db))

	role := models.Role{Name: "test-role-" + t.Name()}
	for _, id := range permIDs {
		var perm models.Permission
		require.NoError(t, db.First(&perm, "id = ?", id).Error)
		role.Permissions = append(role.Permissions, perm)
	}
	require.NoError(t, db.Create(&role).Error)

	user := models.User{
		Username: "checker-" + t.Name(),
		Email:    t.Name() + "@example.com",
		Password: "hashed",
		IsRoot:   isRoot,
		Roles:    []models.Role{role},
	}
	require.NoError(t, db.Create(&user).Error)
	return &user
}

func TestCheckerGrantsDirectPermission(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	checker, err := permissions.NewChecker(db)
	require.NoError(t, err)

	user := seedUserWithPermissions(t, db, false, "event.view")

	ok, err := checker.Check(context.Background(), user.ID, "event.view")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = checker.Check(context.Background(), user.ID, "event.manage")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCheckerExpandsImpliedPermissions(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	checker, err := permissions.NewChecker(db)
	require.NoError(t, err)

	user := seedUserWithPermissions(t, db, false, "appointment.manage")

	ok, err := checker.Check(context.Background(), user.ID, "appointment.view")
	require.NoError(t, err)
	assert.True(t, ok, "manage should imply view")
}

func TestCheckerRootBypass(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	checker, err := permissions.NewChecker(db)
	require.NoError(t, err)

	user := seedUserWithPermissions(t, db, true)

	ok, err := checker.Check(context.Background(), user.ID, "audit.view")
	require.NoError(t, err)
	assert.True(t, ok)

	ids, err := checker.GetUserPermissions(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, permissions.IDs(), ids)
}

func TestCheckerUnknownPermission(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	checker, err := permissions.NewChecker(db)
	require.NoError(t, err)

	user := seedUserWithPermissions(t, db, false, "event.view")

	_, err = checker.Check(context.Background(), user.ID, "martian.manage")
	assert.ErrorIs(t, err, permissions.ErrUnknownPermission)
}

func TestSyncRegistryIdempotent(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())

	require.NoError(t, permissions.SyncRegistry(context.Background(), db))
	require.NoError(t, permissions.SyncRegistry(context.Background(), db))

	var count int64
	require.NoError(t, db.Model(&models.Permission{}).Count(&count).Error)
	assert.EqualValues(t, len(permissions.IDs()), count)
}
