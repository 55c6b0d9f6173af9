package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/deppfellow/superhero-catalog/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const superheroColumns = `id, nickname, real_name, origin_description, superpowers, catch_phrase, images, created_at, updated_at`

type superheroRow struct {
	ID                string    `db:"id"`
	Nickname          string    `db:"nickname"`
	RealName          string    `db:"real_name"`
	OriginDescription string    `db:"origin_description"`
	Superpowers       []string  `db:"superpowers"`
	CatchPhrase       string    `db:"catch_phrase"`
	Images            []string  `db:"images"`
	CreatedAt         time.Time `db:"created_at"`
	UpdatedAt         time.Time `db:"updated_at"`
}

func (r superheroRow) toModel() *model.Superhero {
	hero := &model.Superhero{
		ID:                r.ID,
		Nickname:          r.Nickname,
		RealName:          r.RealName,
		OriginDescription: r.OriginDescription,
		Superpowers:       r.Superpowers,
		CatchPhrase:       r.CatchPhrase,
		Images:            r.Images,
		CreatedAt:         r.CreatedAt.UTC(),
		UpdatedAt:         r.UpdatedAt.UTC(),
	}
	hero.Normalize()
	return hero
}

// PostgresSuperheroRepository stores superheroes in the superheroes table.
// IDs are generated as ObjectIDs so both backends expose the same contract.
type PostgresSuperheroRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresSuperheroRepository(pool *pgxpool.Pool) *PostgresSuperheroRepository {
	return &PostgresSuperheroRepository{pool: pool}
}

func (r *PostgresSuperheroRepository) Create(ctx context.Context, hero *model.Superhero) (*model.Superhero, error) {
	hero.Normalize()

	stmt := `
		INSERT INTO superheroes (id, nickname, real_name, origin_description, superpowers, catch_phrase, images)
		VALUES (@id, @nickname, @real_name, @origin_description, @superpowers, @catch_phrase, @images)
		RETURNING ` + superheroColumns

	rows, err := r.pool.Query(ctx, stmt, pgx.NamedArgs{
		"id":                 primitive.NewObjectID().Hex(),
		"nickname":           hero.Nickname,
		"real_name":          hero.RealName,
		"origin_description": hero.OriginDescription,
		"superpowers":        hero.Superpowers,
		"catch_phrase":       hero.CatchPhrase,
		"images":             hero.Images,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to execute create superhero query: %w", err)
	}

	row, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[superheroRow])
	if err != nil {
		return nil, fmt.Errorf("failed to collect row from table:superheroes: %w", err)
	}

	return row.toModel(), nil
}

func (r *PostgresSuperheroRepository) List(ctx context.Context, offset int64, limit int) ([]model.SuperheroSummary, error) {
	stmt := `SELECT id, nickname, images FROM superheroes ORDER BY id ASC OFFSET @offset LIMIT @limit`

	rows, err := r.pool.Query(ctx, stmt, pgx.NamedArgs{"offset": offset, "limit": limit})
	if err != nil {
		return nil, fmt.Errorf("failed to execute list superheroes query: %w", err)
	}

	summaries, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.SuperheroSummary, error) {
		var hero model.Superhero
		if err := row.Scan(&hero.ID, &hero.Nickname, &hero.Images); err != nil {
			return model.SuperheroSummary{}, err
		}
		return hero.Summary(), nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to collect rows from table:superheroes: %w", err)
	}

	if summaries == nil {
		summaries = []model.SuperheroSummary{}
	}
	return summaries, nil
}

func (r *PostgresSuperheroRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM superheroes`).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to count superheroes: %w", err)
	}
	return total, nil
}

func (r *PostgresSuperheroRepository) GetByID(ctx context.Context, id string) (*model.Superhero, error) {
	stmt := `SELECT ` + superheroColumns + ` FROM superheroes WHERE id = @id`

	rows, err := r.pool.Query(ctx, stmt, pgx.NamedArgs{"id": id})
	if err != nil {
		return nil, fmt.Errorf("failed to execute get superhero query: %w", err)
	}

	row, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[superheroRow])
	if err != nil {
		return nil, pgNotFound(err)
	}
	return row.toModel(), nil
}

// Update changes only the columns present in patch. Absent fields are passed
// as NULL and fall back to the stored value.
func (r *PostgresSuperheroRepository) Update(ctx context.Context, id string, patch *model.SuperheroPatch) (*model.Superhero, error) {
	stmt := `
		UPDATE superheroes SET
			nickname           = COALESCE(@nickname::text, nickname),
			real_name          = COALESCE(@real_name::text, real_name),
			origin_description = COALESCE(@origin_description::text, origin_description),
			superpowers        = COALESCE(@superpowers::text[], superpowers),
			catch_phrase       = COALESCE(@catch_phrase::text, catch_phrase),
			images             = COALESCE(@images::text[], images),
			updated_at         = NOW()
		WHERE id = @id
		RETURNING ` + superheroColumns

	rows, err := r.pool.Query(ctx, stmt, pgx.NamedArgs{
		"id":                 id,
		"nickname":           patch.Nickname,
		"real_name":          patch.RealName,
		"origin_description": patch.OriginDescription,
		"superpowers":        patch.Superpowers,
		"catch_phrase":       patch.CatchPhrase,
		"images":             patch.Images,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to execute update superhero query: %w", err)
	}

	row, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[superheroRow])
	if err != nil {
		return nil, pgNotFound(err)
	}
	return row.toModel(), nil
}

func (r *PostgresSuperheroRepository) Delete(ctx context.Context, id string) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM superheroes WHERE id = @id`, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("failed to execute delete superhero query: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrSuperheroNotFound
	}
	return nil
}

func pgNotFound(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrSuperheroNotFound
	}
	return fmt.Errorf("failed to collect row from table:superheroes: %w", err)
}
