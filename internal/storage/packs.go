package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Pack is a remotely authored, shareable workout plan.
type Pack struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Author      string    `json:"author"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// PackDay is one named day of a pack, ordered by DayOrder.
type PackDay struct {
	ID       uuid.UUID `json:"id"`
	PackID   uuid.UUID `json:"pack_id"`
	DayName  string    `json:"day_name"`
	DayOrder int       `json:"day_order"`
}

// PackExercise is one exercise of a pack day. Time > 0 marks a timed
// exercise; otherwise Sets and Reps apply.
type PackExercise struct {
	ID             uuid.UUID `json:"id"`
	DayID          uuid.UUID `json:"day_id"`
	ChosenExercise string    `json:"chosen_exercise"`
	Sets           int       `json:"sets"`
	Reps           int       `json:"reps,omitempty"`
	Time           int       `json:"time,omitempty"`
	Position       int       `json:"position"`
}

// InsertPack inserts a pack row.
func (db *DB) InsertPack(ctx context.Context, p Pack) error {
	_, err := db.Pool.Exec(ctx,
		`INSERT INTO packs (id, name, author, description, created_at) VALUES ($1,$2,$3,$4,$5)`,
		p.ID, p.Name, p.Author, p.Description, p.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting pack: %w", err)
	}
	return nil
}

// GetPack looks up a pack by id.
func (db *DB) GetPack(ctx context.Context, id uuid.UUID) (*Pack, error) {
	var p Pack
	err := db.Pool.QueryRow(ctx,
		`SELECT id, name, author, description, created_at FROM packs WHERE id = $1`,
		id).Scan(&p.ID, &p.Name, &p.Author, &p.Description, &p.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying pack: %w", err)
	}
	return &p, nil
}

// ListPacks returns all packs, newest first.
func (db *DB) ListPacks(ctx context.Context) ([]Pack, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT id, name, author, description, created_at FROM packs ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("querying packs: %w", err)
	}
	defer rows.Close()
	return scanPacks(rows)
}

// TrendingPacks returns packs ordered by how many profiles currently have
// them selected, most adopted first.
func (db *DB) TrendingPacks(ctx context.Context, limit int) ([]Pack, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT p.id, p.name, p.author, p.description, p.created_at
		FROM packs p
		LEFT JOIN profiles pr ON pr.current_pack_id = p.id
		GROUP BY p.id
		ORDER BY COUNT(pr.user_id) DESC, p.created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying trending packs: %w", err)
	}
	defer rows.Close()
	return scanPacks(rows)
}

func scanPacks(rows pgx.Rows) ([]Pack, error) {
	var result []Pack
	for rows.Next() {
		var p Pack
		if err := rows.Scan(&p.ID, &p.Name, &p.Author, &p.Description, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning pack: %w", err)
		}
		result = append(result, p)
	}
	return result, rows.Err()
}

// InsertPackDay inserts a day row for a pack.
func (db *DB) InsertPackDay(ctx context.Context, d PackDay) error {
	_, err := db.Pool.Exec(ctx,
		`INSERT INTO pack_days (id, pack_id, day_name, day_order) VALUES ($1,$2,$3,$4)`,
		d.ID, d.PackID, d.DayName, d.DayOrder)
	if err != nil {
		return fmt.Errorf("inserting pack day: %w", err)
	}
	return nil
}

// QueryPackDays returns the days whose pack_id matches, lowest order first.
func (db *DB) QueryPackDays(ctx context.Context, packID uuid.UUID) ([]PackDay, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT id, pack_id, day_name, day_order FROM pack_days WHERE pack_id = $1 ORDER BY day_order ASC`,
		packID)
	if err != nil {
		return nil, fmt.Errorf("querying pack days: %w", err)
	}
	defer rows.Close()

	var result []PackDay
	for rows.Next() {
		var d PackDay
		if err := rows.Scan(&d.ID, &d.PackID, &d.DayName, &d.DayOrder); err != nil {
			return nil, fmt.Errorf("scanning pack day: %w", err)
		}
		result = append(result, d)
	}
	return result, rows.Err()
}

// InsertPackExercise inserts an exercise row for a day.
func (db *DB) InsertPackExercise(ctx context.Context, e PackExercise) error {
	_, err := db.Pool.Exec(ctx,
		`INSERT INTO pack_exercises (id, day_id, chosen_exercise, sets, reps, duration, position)
		 VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		e.ID, e.DayID, e.ChosenExercise, e.Sets, e.Reps, e.Time, e.Position)
	if err != nil {
		return fmt.Errorf("inserting pack exercise: %w", err)
	}
	return nil
}

// QueryPackExercises returns the exercises whose day_id matches, in their
// authored order.
func (db *DB) QueryPackExercises(ctx context.Context, dayID uuid.UUID) ([]PackExercise, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT id, day_id, chosen_exercise, sets, reps, duration, position
		 FROM pack_exercises WHERE day_id = $1 ORDER BY position ASC`,
		dayID)
	if err != nil {
		return nil, fmt.Errorf("querying pack exercises: %w", err)
	}
	defer rows.Close()

	var result []PackExercise
	for rows.Next() {
		var e PackExercise
		if err := rows.Scan(&e.ID, &e.DayID, &e.ChosenExercise, &e.Sets, &e.Reps, &e.Time, &e.Position); err != nil {
			return nil, fmt.Errorf("scanning pack exercise: %w", err)
		}
		result = append(result, e)
	}
	return result, rows.Err()
}
