package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"log/slog"

	"github.com/Ironmac17/nexora/internal/app"
)

// ErrAreaNotFound is returned when an area slug does not resolve to a
// persisted area document.
var ErrAreaNotFound = errors.New("area not found")

type Postgres struct {
	pool *pgxpool.Pool
	log  *slog.Logger
}

// NewPostgres connects to postgres and returns a pool wrapper
func NewPostgres(ctx context.Context, cfg app.Config, log *slog.Logger) (*Postgres, error) {
	pool, err := pgxpool.New(ctx, cfg.PGURL)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return &Postgres{pool: pool, log: log}, nil
}

func (p *Postgres) Close() { p.pool.Close() }

// GetAreaBySlug fetches a campus area by its slug
func (p *Postgres) GetAreaBySlug(ctx context.Context, slug string) (Area, error) {
	row := p.pool.QueryRow(ctx, `
		SELECT id, name, slug, description, users_online
		FROM areas
		WHERE slug = $1
	`, slug)

	var a Area
	if err := row.Scan(&a.ID, &a.Name, &a.Slug, &a.Description, &a.UsersOnline); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Area{}, ErrAreaNotFound
		}
		return Area{}, err
	}
	return a, nil
}

// IncrementAreaUsersOnline bumps an area's online counter by delta,
// clamped at zero so leave/disconnect can never drive it negative.
func (p *Postgres) IncrementAreaUsersOnline(ctx context.Context, slug string, delta int) error {
	ct, err := p.pool.Exec(ctx, `
		UPDATE areas
		SET users_online = GREATEST(users_online + $2, 0)
		WHERE slug = $1
	`, slug, delta)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrAreaNotFound
	}
	return nil
}

// CreateArea inserts an area if its slug is not already present.
// Used by the seeder; safe to re-run.
func (p *Postgres) CreateArea(ctx context.Context, name, slug, description string) error {
	_, err := p.pool.Exec(ctx, `
		INSERT INTO areas (name, slug, description)
		VALUES ($1, $2, $3)
		ON CONFLICT (slug) DO NOTHING
	`, name, slug, description)
	return err
}

// ListAreas returns every campus area ordered by name
func (p *Postgres) ListAreas(ctx context.Context) ([]Area, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT id, name, slug, description, users_online
		FROM areas
		ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Area
	for rows.Next() {
		var a Area
		if err := rows.Scan(&a.ID, &a.Name, &a.Slug, &a.Description, &a.UsersOnline); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
