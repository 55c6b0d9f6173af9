package repository

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/deppfellow/superhero-catalog/internal/model"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// newPostgresTestRepository connects to SUPERHERO_TEST_POSTGRES_DSN and
// shadows the superheroes table with a temporary one, so the test never
// touches real rows. The pool is pinned to one connection because temporary
// tables live per session.
func newPostgresTestRepository(t *testing.T) *PostgresSuperheroRepository {
	t.Helper()

	dsn := os.Getenv("SUPERHERO_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("SUPERHERO_TEST_POSTGRES_DSN not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cfg, err := pgxpool.ParseConfig(dsn)
	require.NoError(t, err)
	cfg.MaxConns = 1

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	_, err = pool.Exec(ctx, `
		CREATE TEMP TABLE superheroes (
			id                 text primary key,
			nickname           text        not null,
			real_name          text        not null,
			origin_description text        not null default '',
			superpowers        text[]      not null default '{}',
			catch_phrase       text        not null default '',
			images             text[]      not null default '{}',
			created_at         timestamptz not null default now(),
			updated_at         timestamptz not null default now()
		)`)
	require.NoError(t, err)

	return NewPostgresSuperheroRepository(pool)
}

func TestPostgresSuperheroRepository(t *testing.T) {
	repo := newPostgresTestRepository(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, &model.Superhero{
		Nickname:          "Superman",
		RealName:          "Clark Kent",
		OriginDescription: "Krypton",
		Superpowers:       []string{"flight", "heat vision"},
		CatchPhrase:       "Up, up and away",
		Images:            []string{"https://example.com/superman.png"},
	})
	require.NoError(t, err)
	require.True(t, primitive.IsValidObjectID(created.ID))
	assert.False(t, created.CreatedAt.IsZero())

	t.Run("get", func(t *testing.T) {
		hero, err := repo.GetByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, created.Superpowers, hero.Superpowers)
	})

	t.Run("partial update keeps absent columns", func(t *testing.T) {
		nickname := "Kal-El"
		images := []string{}

		hero, err := repo.Update(ctx, created.ID, &model.SuperheroPatch{Nickname: &nickname, Images: &images})
		require.NoError(t, err)

		assert.Equal(t, "Kal-El", hero.Nickname)
		assert.Equal(t, "Clark Kent", hero.RealName)
		assert.Equal(t, "Up, up and away", hero.CatchPhrase)
		assert.Equal(t, []string{"flight", "heat vision"}, hero.Superpowers)
		assert.Equal(t, []string{}, hero.Images)
		assert.False(t, hero.UpdatedAt.Before(created.UpdatedAt))
	})

	t.Run("list and count", func(t *testing.T) {
		_, err := repo.Create(ctx, &model.Superhero{Nickname: "Batman", RealName: "Bruce Wayne"})
		require.NoError(t, err)

		total, err := repo.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)

		page, err := repo.List(ctx, 1, 5)
		require.NoError(t, err)
		assert.Len(t, page, 1)

		empty, err := repo.List(ctx, 10, 5)
		require.NoError(t, err)
		assert.NotNil(t, empty)
		assert.Empty(t, empty)
	})

	t.Run("missing rows", func(t *testing.T) {
		missing := primitive.NewObjectID().Hex()

		_, err := repo.GetByID(ctx, missing)
		assert.ErrorIs(t, err, ErrSuperheroNotFound)

		_, err = repo.Update(ctx, missing, &model.SuperheroPatch{})
		assert.ErrorIs(t, err, ErrSuperheroNotFound)

		assert.ErrorIs(t, repo.Delete(ctx, missing), ErrSuperheroNotFound)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, created.ID))
		assert.ErrorIs(t, repo.Delete(ctx, created.ID), ErrSuperheroNotFound)
	})
}
