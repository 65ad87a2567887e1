package repository

import (
	"context"
	"fmt"

	"github.com/deppfellow/robotics-club/internal/model"
	"github.com/deppfellow/robotics-club/internal/server"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const galleryTable = "gallery_images"

type GalleryRepository struct {
	db *pgxpool.Pool
}

func NewGalleryRepository(s *server.Server) *GalleryRepository {
	return &GalleryRepository{db: s.DB.Pool}
}

const insertGalleryImage = `
	INSERT INTO gallery_images (url, category, caption, is_video, created_by)
	VALUES (@url, @category, @caption, @is_video, @created_by)
	RETURNING *`

func galleryArgs(g *model.GalleryImage) pgx.NamedArgs {
	return pgx.NamedArgs{
		"id":         g.ID,
		"url":        g.URL,
		"category":   g.Category,
		"caption":    g.Caption,
		"is_video":   g.IsVideo,
		"created_by": g.CreatedBy,
	}
}

// CreateMany inserts a batch in one transaction: either every image is
// stored or none is.
func (r *GalleryRepository) CreateMany(ctx context.Context, images []model.GalleryImage) ([]model.GalleryImage, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin gallery transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	created := make([]model.GalleryImage, 0, len(images))
	for i := range images {
		img, err := collectOne[model.GalleryImage](ctx, tx, galleryTable, insertGalleryImage, galleryArgs(&images[i]))
		if err != nil {
			return nil, err
		}
		created = append(created, *img)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit gallery transaction: %w", err)
	}

	return created, nil
}

func (r *GalleryRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.GalleryImage, error) {
	return collectOne[model.GalleryImage](ctx, r.db, galleryTable, `SELECT * FROM gallery_images WHERE id = $1`, id)
}

func (r *GalleryRepository) List(ctx context.Context, f model.GalleryFilter) ([]model.GalleryImage, error) {
	where := newWhere()
	if f.Category != nil {
		where.add("category = @category", "category", *f.Category)
	}

	stmt := "SELECT * FROM gallery_images" + where.String() + " ORDER BY uploaded_at DESC"
	return collectMany[model.GalleryImage](ctx, r.db, galleryTable, stmt, where.args)
}

func writeGalleryImage(ctx context.Context, q querier, g *model.GalleryImage) (*model.GalleryImage, error) {
	stmt := `
		UPDATE gallery_images SET
			url = @url,
			category = @category,
			caption = @caption,
			is_video = @is_video
		WHERE id = @id
		RETURNING *`

	return collectOne[model.GalleryImage](ctx, q, galleryTable, stmt, galleryArgs(g))
}

// Update applies mutate to the locked row and stores the result.
func (r *GalleryRepository) Update(ctx context.Context, id uuid.UUID, mutate func(*model.GalleryImage) error) (*model.GalleryImage, error) {
	return lockedUpdate(ctx, r.db, galleryTable, id, mutate, writeGalleryImage)
}

func (r *GalleryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteByID(ctx, r.db, galleryTable, id)
}
