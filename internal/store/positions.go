package store

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"log/slog"

	"github.com/Ironmac17/nexora/internal/app"
)

// Position is the persisted last-known avatar position. Writes are
// high-frequency and lossy (last-write-wins), so they live in redis
// rather than the relational store.
type Position struct {
	X        float64
	Y        float64
	AreaSlug string
}

type Positions struct {
	rdb *redis.Client
	log *slog.Logger
}

// NewPositions connects to redis and verifies connectivity
func NewPositions(ctx context.Context, cfg app.Config, log *slog.Logger) (*Positions, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
		DB:   cfg.RedisDB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	return &Positions{rdb: rdb, log: log}, nil
}

// Get returns the stored position for a user; ok is false when the
// user has never had a position persisted.
func (p *Positions) Get(ctx context.Context, userID string) (Position, bool, error) {
	vals, err := p.rdb.HGetAll(ctx, key(userID)).Result()
	if err != nil {
		return Position{}, false, err
	}
	if len(vals) == 0 {
		return Position{}, false, nil
	}
	x, _ := strconv.ParseFloat(vals["x"], 64)
	y, _ := strconv.ParseFloat(vals["y"], 64)
	return Position{X: x, Y: y, AreaSlug: vals["area"]}, true, nil
}

// Set overwrites the stored position for a user
func (p *Positions) Set(ctx context.Context, userID string, pos Position) error {
	return p.rdb.HSet(ctx, key(userID),
		"x", strconv.FormatFloat(pos.X, 'f', -1, 64),
		"y", strconv.FormatFloat(pos.Y, 'f', -1, 64),
		"area", pos.AreaSlug,
		"updated", time.Now().UTC().Format(time.RFC3339),
	).Err()
}

// Close shuts down the redis connection
func (p *Positions) Close() { _ = p.rdb.Close() }

// key namespacing for per-user position hashes
func key(userID string) string { return "position:" + userID }
