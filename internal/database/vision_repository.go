package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/delphi-works/oracle/internal/models"
)

// VisionRepository handles the vision invocation log
type VisionRepository struct {
	db *DB
}

// NewVisionRepository creates a new VisionRepository
func NewVisionRepository(db *DB) *VisionRepository {
	return &VisionRepository{db: db}
}

// Create records a completed oracle invocation. Image columns are empty
// strings when the vision image could not be produced.
func (r *VisionRepository) Create(ctx context.Context, vision *models.Vision) error {
	query := `
		INSERT INTO visions (
			id, query, themes, vision_text, image_bucket, image_key, image_url, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.ExecContext(ctx, query,
		vision.ID, vision.Query, vision.Themes, vision.VisionText,
		vision.ImageBucket, vision.ImageKey, vision.ImageURL, vision.CreatedAt,
	)

	return err
}

// GetByID retrieves a recorded vision by ID
func (r *VisionRepository) GetByID(ctx context.Context, visionID uuid.UUID) (*models.Vision, error) {
	query := `
		SELECT id, query, themes, vision_text, image_bucket, image_key, image_url, created_at
		FROM visions WHERE id = $1
	`

	vision := &models.Vision{}
	err := r.db.QueryRowContext(ctx, query, visionID).Scan(
		&vision.ID, &vision.Query, &vision.Themes, &vision.VisionText,
		&vision.ImageBucket, &vision.ImageKey, &vision.ImageURL, &vision.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("vision not found")
	}

	return vision, err
}

// List retrieves recorded visions with created_at cursor pagination
func (r *VisionRepository) List(ctx context.Context, limit int, cursor *time.Time) ([]*models.Vision, error) {
	query := `
		SELECT id, query, themes, vision_text, image_bucket, image_key, image_url, created_at
		FROM visions
		WHERE ($1::timestamptz IS NULL OR created_at < $1)
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := r.db.QueryContext(ctx, query, cursor, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var visions []*models.Vision
	for rows.Next() {
		vision := &models.Vision{}
		err := rows.Scan(
			&vision.ID, &vision.Query, &vision.Themes, &vision.VisionText,
			&vision.ImageBucket, &vision.ImageKey, &vision.ImageURL, &vision.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		visions = append(visions, vision)
	}

	return visions, rows.Err()
}
