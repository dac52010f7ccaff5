package repositories

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/desertthunder/podx/internal/models"
	"github.com/desertthunder/podx/internal/shared"
)

const episodeColumns = "id, title, description, url, image_url, media_url, queued, date_published, show_id"

// EpisodeRepository persists [models.Episode] records.
type EpisodeRepository struct {
	db *sql.DB
}

// NewEpisodeRepository creates a new EpisodeRepository with the given database connection
func NewEpisodeRepository(db *sql.DB) *EpisodeRepository {
	return &EpisodeRepository{db: db}
}

// Save inserts the episode or refreshes its metadata, keeping any queue ordinal already stored.
func (r *EpisodeRepository) Save(episode models.Episode) error {
	return r.save(r.db, episode)
}

func (r *EpisodeRepository) save(q execer, episode models.Episode) error {
	if err := validate(episode); err != nil {
		return err
	}

	query := `
		INSERT INTO episodes (id, title, description, url, image_url, media_url, queued, date_published, show_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			description = excluded.description,
			url = excluded.url,
			image_url = excluded.image_url,
			media_url = excluded.media_url,
			date_published = excluded.date_published,
			show_id = excluded.show_id
	`

	_, err := q.Exec(query,
		episode.ID,
		nullable(episode.Title),
		nullable(episode.Description),
		nullable(episode.URL),
		nullable(episode.ImageURL),
		episode.MediaURL,
		episode.Queued,
		episode.DatePublished,
		episode.ShowID,
	)
	if err != nil {
		return fmt.Errorf("failed to save episode: %w", err)
	}
	return nil
}

// Get retrieves an episode by ID
func (r *EpisodeRepository) Get(id int64) (models.Episode, error) {
	return r.get(r.db, id)
}

func (r *EpisodeRepository) get(q execer, id int64) (models.Episode, error) {
	query := "SELECT " + episodeColumns + " FROM episodes WHERE id = ?"
	episode, err := r.scan(q.QueryRow(query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Episode{}, fmt.Errorf("%w: %d", shared.ErrEpisodeNotFound, id)
	}
	return episode, err
}

// List retrieves all episodes matching the given criteria, newest first unless criteria["queued"] is true.
//
// Supported criteria: "show_id" (int64) and "queued" (bool). Queued episodes are ordered by queue ordinal.
func (r *EpisodeRepository) List(criteria map[string]any) ([]models.Episode, error) {
	query := "SELECT " + episodeColumns + " FROM episodes WHERE 1 = 1"
	args := []any{}

	if showID, ok := criteria["show_id"].(int64); ok && showID > 0 {
		query += " AND show_id = ?"
		args = append(args, showID)
	}

	queued, _ := criteria["queued"].(bool)
	if queued {
		query += " AND queued > 0 ORDER BY queued ASC"
	} else {
		query += " ORDER BY date_published DESC, id DESC"
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query episodes: %w", err)
	}
	defer rows.Close()

	var episodes []models.Episode
	for rows.Next() {
		episode, err := r.scan(rows)
		if err != nil {
			return nil, err
		}
		episodes = append(episodes, episode)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return episodes, nil
}

// LatestPublished returns the newest publication timestamp stored for a show, or 0 when it has no episodes.
func (r *EpisodeRepository) LatestPublished(showID int64) (int64, error) {
	var ts int64
	err := r.db.QueryRow("SELECT COALESCE(MAX(date_published), 0) FROM episodes WHERE show_id = ?", showID).Scan(&ts)
	if err != nil {
		return 0, fmt.Errorf("failed to read latest episode date: %w", err)
	}
	return ts, nil
}

// SetQueued adds the episode to the end of the queue or removes it, returning the updated record.
//
// Queueing an already queued episode keeps its position.
func (r *EpisodeRepository) SetQueued(id int64, queued bool) (models.Episode, error) {
	var updated models.Episode
	err := withTx(r.db, func(tx *sql.Tx) error {
		current, err := r.get(tx, id)
		if err != nil {
			return err
		}

		ordinal := int64(0)
		if queued {
			if current.IsQueued() {
				updated = current
				return nil
			}
			if ordinal, err = NextQueueOrdinal(tx); err != nil {
				return err
			}
		}

		if _, err := tx.Exec("UPDATE episodes SET queued = ? WHERE id = ?", ordinal, id); err != nil {
			return fmt.Errorf("failed to update queue: %w", err)
		}

		current.Queued = ordinal
		updated = current
		return nil
	})
	return updated, err
}

// scan reads one episode from a [sql.Row] or [sql.Rows]; sql.ErrNoRows is returned unwrapped.
func (r *EpisodeRepository) scan(s scanner) (models.Episode, error) {
	var episode models.Episode
	var title, description, url, image sql.NullString

	err := s.Scan(
		&episode.ID,
		&title,
		&description,
		&url,
		&image,
		&episode.MediaURL,
		&episode.Queued,
		&episode.DatePublished,
		&episode.ShowID,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Episode{}, err
	}
	if err != nil {
		return models.Episode{}, fmt.Errorf("failed to scan episode: %w", err)
	}

	if title.Valid {
		t := title.String
		episode.Title = &t
	}
	episode.Description = optional(description)
	episode.URL = optional(url)
	episode.ImageURL = optional(image)
	return episode, nil
}
