package repositories

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/desertthunder/podx/internal/models"
	"github.com/desertthunder/podx/internal/shared"
)

const showColumns = "id, title, description, feed_url, image_url"

// ShowRepository persists subscribed [models.Show] records.
type ShowRepository struct {
	db *sql.DB
}

// NewShowRepository creates a new ShowRepository with the given database connection
func NewShowRepository(db *sql.DB) *ShowRepository {
	return &ShowRepository{db: db}
}

// Save inserts the show or refreshes its metadata when it already exists.
func (r *ShowRepository) Save(show models.Show) error {
	return r.save(r.db, show)
}

func (r *ShowRepository) save(q execer, show models.Show) error {
	if err := validate(show); err != nil {
		return err
	}

	query := `
		INSERT INTO shows (id, title, description, feed_url, image_url)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			description = excluded.description,
			feed_url = excluded.feed_url,
			image_url = excluded.image_url
	`

	if _, err := q.Exec(query, show.ID, show.Title, show.Description, show.FeedURL, show.ImageURL); err != nil {
		return fmt.Errorf("failed to save show: %w", err)
	}
	return nil
}

// Get retrieves a show by ID
func (r *ShowRepository) Get(id int64) (models.Show, error) {
	query := "SELECT " + showColumns + " FROM shows WHERE id = ?"
	show, err := r.scan(r.db.QueryRow(query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Show{}, fmt.Errorf("%w: %d", shared.ErrShowNotFound, id)
	}
	return show, err
}

// List returns every subscribed show ordered by title.
func (r *ShowRepository) List() ([]models.Show, error) {
	rows, err := r.db.Query("SELECT " + showColumns + " FROM shows ORDER BY title COLLATE NOCASE ASC, id ASC")
	if err != nil {
		return nil, fmt.Errorf("failed to query shows: %w", err)
	}
	defer rows.Close()

	var shows []models.Show
	for rows.Next() {
		show, err := r.scan(rows)
		if err != nil {
			return nil, err
		}
		shows = append(shows, show)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return shows, nil
}

// IDs returns the ids of every subscribed show.
func (r *ShowRepository) IDs() ([]int64, error) {
	rows, err := r.db.Query("SELECT id FROM shows ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to query show ids: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan show id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return ids, nil
}

// Count returns the number of subscribed shows.
func (r *ShowRepository) Count() (int, error) {
	var count int
	if err := r.db.QueryRow("SELECT COUNT(*) FROM shows").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count shows: %w", err)
	}
	return count, nil
}

// Delete removes a show and its episodes.
func (r *ShowRepository) Delete(id int64) error {
	return withTx(r.db, func(tx *sql.Tx) error {
		return r.delete(tx, id)
	})
}

func (r *ShowRepository) delete(q execer, id int64) error {
	if _, err := q.Exec("DELETE FROM episodes WHERE show_id = ?", id); err != nil {
		return fmt.Errorf("failed to delete episodes: %w", err)
	}

	result, err := q.Exec("DELETE FROM shows WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete show: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %d", shared.ErrShowNotFound, id)
	}
	return nil
}

// scan reads one show from a [sql.Row] or [sql.Rows]; sql.ErrNoRows is returned unwrapped.
func (r *ShowRepository) scan(s scanner) (models.Show, error) {
	var show models.Show
	err := s.Scan(&show.ID, &show.Title, &show.Description, &show.FeedURL, &show.ImageURL)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Show{}, err
	}
	if err != nil {
		return models.Show{}, fmt.Errorf("failed to scan show: %w", err)
	}
	return show, nil
}
