package actors

import (
	"context"
	"database/sql"
	"testing"

	"github.com/castinghq/casting/pkg/errcodes"
	"github.com/castinghq/casting/pkg/migrations"
	"github.com/castinghq/casting/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

func setupTestDB(t *testing.T) *bun.DB {
	t.Helper()

	sqldb, err := sql.Open(sqliteshim.ShimName, ":memory:")
	require.NoError(t, err)
	sqldb.SetMaxOpenConns(1)

	db := bun.NewDB(sqldb, sqlitedialect.New())

	_, err = migrations.BringUpToDate(context.Background(), db)
	require.NoError(t, err)

	t.Cleanup(func() {
		db.Close()
	})

	return db
}

func createActor(ctx context.Context, t *testing.T, svc *Service, name string) *models.Actor {
	t.Helper()

	actor := &models.Actor{Name: name, BirthDate: "1992-11-19", Gender: models.GenderMale}
	require.NoError(t, svc.CreateActor(ctx, actor))
	return actor
}

func TestCreateActor(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc := NewService(setupTestDB(t))

	actor := createActor(ctx, t, svc, "Tom Holland")
	assert.NotZero(t, actor.ID)
	assert.False(t, actor.CreatedAt.IsZero())
	assert.Equal(t, actor.CreatedAt, actor.UpdatedAt)

	found, err := svc.RetrieveActor(ctx, RetrieveActorOptions{ID: &actor.ID})
	require.NoError(t, err)
	assert.Equal(t, "Tom Holland", found.Name)
	assert.Equal(t, "1992-11-19", found.BirthDate)
	assert.Equal(t, models.GenderMale, found.Gender)
}

func TestCreateActor_DuplicateName(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc := NewService(setupTestDB(t))
	createActor(ctx, t, svc, "Zendaya")

	err := svc.CreateActor(ctx, &models.Actor{Name: "ZENDAYA", BirthDate: "1996-09-01", Gender: models.GenderFemale})
	require.Error(t, err)

	var codeErr *errcodes.Error
	require.ErrorAs(t, err, &codeErr)
	assert.Equal(t, 422, codeErr.HTTPCode)
	assert.Equal(t, "duplicate", codeErr.Code)
}

func TestStoreError_MapsUniqueViolation(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	db := setupTestDB(t)
	svc := NewService(db)
	createActor(ctx, t, svc, "Zendaya")

	// Skip the service pre-check to hit the unique index directly.
	_, err := db.NewInsert().Model(&models.Actor{Name: "zendaya", BirthDate: "1996-09-01", Gender: "F"}).Exec(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, storeError(err, "zendaya"), errcodes.Duplicate("Actor", "name", "zendaya"))
	assert.NoError(t, storeError(nil, "zendaya"))
}

func TestRetrieveActor(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc := NewService(setupTestDB(t))
	actor := createActor(ctx, t, svc, "Tom Holland")

	t.Run("by name ignoring case", func(tt *testing.T) {
		name := "tom holland"
		found, err := svc.RetrieveActor(ctx, RetrieveActorOptions{Name: &name})
		require.NoError(tt, err)
		assert.Equal(tt, actor.ID, found.ID)
	})

	t.Run("not found", func(tt *testing.T) {
		id := actor.ID + 100
		_, err := svc.RetrieveActor(ctx, RetrieveActorOptions{ID: &id})
		assert.ErrorIs(tt, err, errcodes.NotFound("Actor"))
	})
}

func TestListActorsWithTotal(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc := NewService(setupTestDB(t))

	actors, total, err := svc.ListActorsWithTotal(ctx, ListActorsOptions{})
	require.NoError(t, err)
	assert.NotNil(t, actors)
	assert.Empty(t, actors)
	assert.Equal(t, 0, total)

	first := createActor(ctx, t, svc, "Actor One")
	second := createActor(ctx, t, svc, "Actor Two")
	createActor(ctx, t, svc, "Actor Three")

	limit, offset := 2, 0
	actors, total, err = svc.ListActorsWithTotal(ctx, ListActorsOptions{Limit: &limit, Offset: &offset})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, actors, 2)
	assert.Equal(t, first.ID, actors[0].ID)
	assert.Equal(t, second.ID, actors[1].ID)

	offset = 2
	actors, total, err = svc.ListActorsWithTotal(ctx, ListActorsOptions{Limit: &limit, Offset: &offset})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, actors, 1)
	assert.Equal(t, "Actor Three", actors[0].Name)
}

func TestUpdateActor(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc := NewService(setupTestDB(t))
	actor := createActor(ctx, t, svc, "Tom Holland")
	createActor(ctx, t, svc, "Zendaya")

	t.Run("no columns is a no-op", func(tt *testing.T) {
		before := actor.UpdatedAt
		require.NoError(tt, svc.UpdateActor(ctx, actor, UpdateActorOptions{}))
		assert.Equal(tt, before, actor.UpdatedAt)
	})

	t.Run("writes only the listed columns", func(tt *testing.T) {
		actor.Gender = models.GenderOther
		actor.BirthDate = "2000-01-01"
		require.NoError(tt, svc.UpdateActor(ctx, actor, UpdateActorOptions{Columns: []string{"gender"}}))

		found, err := svc.RetrieveActor(ctx, RetrieveActorOptions{ID: &actor.ID})
		require.NoError(tt, err)
		assert.Equal(tt, models.GenderOther, found.Gender)
		assert.Equal(tt, "1992-11-19", found.BirthDate)
	})

	t.Run("renaming to its own name in another case is allowed", func(tt *testing.T) {
		actor.Name = "TOM HOLLAND"
		require.NoError(tt, svc.UpdateActor(ctx, actor, UpdateActorOptions{Columns: []string{"name"}}))
	})

	t.Run("renaming onto another actor is a duplicate", func(tt *testing.T) {
		actor.Name = "zendaya"
		err := svc.UpdateActor(ctx, actor, UpdateActorOptions{Columns: []string{"name"}})
		assert.ErrorIs(tt, err, errcodes.Duplicate("Actor", "name", "zendaya"))
	})

	t.Run("missing actor", func(tt *testing.T) {
		ghost := &models.Actor{ID: 9999, Name: "Ghost"}
		err := svc.UpdateActor(ctx, ghost, UpdateActorOptions{Columns: []string{"name"}})
		assert.ErrorIs(tt, err, errcodes.NotFound("Actor"))
	})
}

func TestDeleteActor(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc := NewService(setupTestDB(t))
	actor := createActor(ctx, t, svc, "Tom Holland")

	require.NoError(t, svc.DeleteActor(ctx, actor.ID))

	_, err := svc.RetrieveActor(ctx, RetrieveActorOptions{ID: &actor.ID})
	assert.ErrorIs(t, err, errcodes.NotFound("Actor"))

	err = svc.DeleteActor(ctx, actor.ID)
	assert.ErrorIs(t, err, errcodes.NotFound("Actor"))
}
