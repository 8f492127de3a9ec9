package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/youruser/duelsim/internal/deck"
)

var ErrNotFound = errors.New("replay not found")

type Replay struct {
	ID        string              `json:"id"`
	Language  string              `json:"language"`
	Profile   string              `json:"profile"`
	DeckImage []byte              `json:"-"`
	Config    *deck.Configuration `json:"configuration"`
	Mapping   *deck.IDMapping     `json:"mapping"`
	CreatedAt time.Time           `json:"createdAt"`
}

// SaveReplay stores r, assigning an id and timestamp when missing.
func (db *DB) SaveReplay(ctx context.Context, r *Replay) error {
	if len(r.DeckImage) == 0 {
		return fmt.Errorf("replay has no deck image")
	}
	if err := r.Config.Validate(); err != nil {
		return fmt.Errorf("replay configuration: %w", err)
	}
	if r.Mapping == nil {
		r.Mapping = deck.NewIDMapping()
	}
	if err := r.Mapping.Validate(r.Config); err != nil {
		return fmt.Errorf("replay mapping: %w", err)
	}
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}

	cfgJSON, err := json.Marshal(r.Config)
	if err != nil {
		return err
	}
	mapJSON, err := json.Marshal(r.Mapping)
	if err != nil {
		return err
	}
	_, err = db.conn.ExecContext(ctx, `
		INSERT INTO replays (id, language, profile, deck_image, configuration, card_mapping, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			language = excluded.language,
			profile = excluded.profile,
			deck_image = excluded.deck_image,
			configuration = excluded.configuration,
			card_mapping = excluded.card_mapping`,
		r.ID, r.Language, r.Profile, r.DeckImage, string(cfgJSON), string(mapJSON), r.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to save replay: %w", err)
	}
	return nil
}

func (db *DB) GetReplay(ctx context.Context, id string) (*Replay, error) {
	row := db.conn.QueryRowContext(ctx, `
		SELECT id, language, profile, deck_image, configuration, card_mapping, created_at
		FROM replays WHERE id = ?`, id)
	r, err := scanReplay(row, true)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return r, err
}

// ListReplays returns the newest replays first, without their images.
func (db *DB) ListReplays(ctx context.Context, limit int) ([]*Replay, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := db.conn.QueryContext(ctx, `
		SELECT id, language, profile, NULL, configuration, card_mapping, created_at
		FROM replays ORDER BY created_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list replays: %w", err)
	}
	defer rows.Close()

	var out []*Replay
	for rows.Next() {
		r, err := scanReplay(rows, false)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (db *DB) DeleteReplay(ctx context.Context, id string) error {
	res, err := db.conn.ExecContext(ctx, `DELETE FROM replays WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete replay: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanReplay(s scanner, withImage bool) (*Replay, error) {
	var (
		r       Replay
		img     []byte
		cfgJSON string
		mapJSON string
	)
	if err := s.Scan(&r.ID, &r.Language, &r.Profile, &img, &cfgJSON, &mapJSON, &r.CreatedAt); err != nil {
		return nil, err
	}
	if withImage {
		r.DeckImage = img
	}
	if err := json.Unmarshal([]byte(cfgJSON), &r.Config); err != nil {
		return nil, fmt.Errorf("replay %s configuration: %w", r.ID, err)
	}
	if err := json.Unmarshal([]byte(mapJSON), &r.Mapping); err != nil {
		return nil, fmt.Errorf("replay %s mapping: %w", r.ID, err)
	}
	return &r, nil
}
