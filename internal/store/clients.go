package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const clientColumns = `id, name, evaluation_preferences, notes, created_at`

// ClientUpdate lists the client fields to change. Nil fields are kept.
type ClientUpdate struct {
	Name                  *string
	EvaluationPreferences *string
	Notes                 *string
}

// Empty reports whether the update changes nothing.
func (u ClientUpdate) Empty() bool {
	return u.Name == nil && u.EvaluationPreferences == nil && u.Notes == nil
}

// SaveClient inserts a client and returns it with its generated ID.
func (db *DB) SaveClient(ctx context.Context, name, preferences, notes string) (*Client, error) {
	c := Client{ID: uuid.New(), Name: name, EvaluationPreferences: preferences, Notes: notes}
	err := db.pool.QueryRow(ctx,
		`INSERT INTO clients (id, name, evaluation_preferences, notes)
		 VALUES ($1, $2, $3, $4)
		 RETURNING created_at`,
		c.ID, c.Name, c.EvaluationPreferences, c.Notes,
	).Scan(&c.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to save client: %w", err)
	}
	return &c, nil
}

// GetClient retrieves a client by ID
func (db *DB) GetClient(ctx context.Context, id uuid.UUID) (*Client, error) {
	c, err := scanClient(db.pool.QueryRow(ctx,
		`SELECT `+clientColumns+` FROM clients WHERE id = $1`, id,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("client %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get client: %w", err)
	}
	return &c, nil
}

// ListClients returns all clients, newest first.
func (db *DB) ListClients(ctx context.Context) ([]Client, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+clientColumns+` FROM clients ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}

	clients, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Client, error) {
		return scanClient(row)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan clients: %w", err)
	}
	return clients, nil
}

// UpdateClient applies the non-nil fields of u and returns the stored client.
func (db *DB) UpdateClient(ctx context.Context, id uuid.UUID, u ClientUpdate) (*Client, error) {
	c, err := scanClient(db.pool.QueryRow(ctx,
		`UPDATE clients SET
		   name = COALESCE($2, name),
		   evaluation_preferences = COALESCE($3, evaluation_preferences),
		   notes = COALESCE($4, notes)
		 WHERE id = $1
		 RETURNING `+clientColumns,
		id, u.Name, u.EvaluationPreferences, u.Notes,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("client %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to update client: %w", err)
	}
	return &c, nil
}

// DeleteClient removes a client. Job descriptions of the client are kept and
// lose their client reference.
func (db *DB) DeleteClient(ctx context.Context, id uuid.UUID) error {
	tag, err := db.pool.Exec(ctx, `DELETE FROM clients WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete client: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("client %s: %w", id, ErrNotFound)
	}
	return nil
}

func scanClient(row pgx.Row) (Client, error) {
	var c Client
	err := row.Scan(&c.ID, &c.Name, &c.EvaluationPreferences, &c.Notes, &c.CreatedAt)
	return c, err
}
