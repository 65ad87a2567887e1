package service

import (
	"context"

	"github.com/deppfellow/robotics-club/internal/errs"
	"github.com/deppfellow/robotics-club/internal/model"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type galleryRepository interface {
	CreateMany(ctx context.Context, images []model.GalleryImage) ([]model.GalleryImage, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.GalleryImage, error)
	List(ctx context.Context, f model.GalleryFilter) ([]model.GalleryImage, error)
	Update(ctx context.Context, id uuid.UUID, mutate func(*model.GalleryImage) error) (*model.GalleryImage, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// GalleryFile is one stored upload of a batch.
type GalleryFile struct {
	URL     string
	IsVideo bool
}

// GalleryBatch creates one image per file, all sharing category and caption.
type GalleryBatch struct {
	Category model.GalleryCategory
	Caption  string
	Files    []GalleryFile
}

type GalleryPatch struct {
	URL      *string
	IsVideo  *bool
	Category *model.GalleryCategory
	Caption  *string
}

type GalleryService struct {
	repo  galleryRepository
	files fileJanitor
}

func NewGalleryService(repo galleryRepository, jobs Enqueuer, logger *zerolog.Logger) *GalleryService {
	return &GalleryService{
		repo:  repo,
		files: fileJanitor{jobs: jobs, logger: logger},
	}
}

func (s *GalleryService) List(ctx context.Context, f model.GalleryFilter) ([]model.GalleryImage, error) {
	return s.repo.List(ctx, f)
}

func (s *GalleryService) Get(ctx context.Context, id uuid.UUID) (*model.GalleryImage, error) {
	img, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "Image not found")
	}
	return img, nil
}

func (s *GalleryService) Create(ctx context.Context, actor Actor, batch GalleryBatch) ([]model.GalleryImage, error) {
	if len(batch.Files) == 0 {
		return nil, errs.NewBadRequestError("No files uploaded", true, nil, nil, nil)
	}
	if len(batch.Files) > model.MaxGalleryBatch {
		return nil, errs.NewBadRequestError("Too many files, at most 20 allowed", true, nil, nil, nil)
	}

	category := batch.Category
	if category == "" {
		category = model.GalleryOther
	}

	images := make([]model.GalleryImage, 0, len(batch.Files))
	for _, f := range batch.Files {
		images = append(images, model.GalleryImage{
			Owned:    model.Owned{CreatedBy: actor.ref()},
			URL:      f.URL,
			Category: category,
			Caption:  batch.Caption,
			IsVideo:  f.IsVideo,
		})
	}

	return s.repo.CreateMany(ctx, images)
}

func (s *GalleryService) Update(ctx context.Context, actor Actor, id uuid.UUID, patch GalleryPatch) (*model.GalleryImage, error) {
	var orphaned []string
	updated, err := s.repo.Update(ctx, id, func(img *model.GalleryImage) error {
		if !actor.CanModify(img.CreatedBy) {
			return forbidden("image")
		}

		orphaned = replaced(img.URL, patch.URL)
		set(&img.URL, patch.URL)
		set(&img.IsVideo, patch.IsVideo)
		set(&img.Category, patch.Category)
		set(&img.Caption, patch.Caption)
		return nil
	})
	if err != nil {
		return nil, notFound(err, "Image not found")
	}

	s.files.cleanup(orphaned...)
	return updated, nil
}

func (s *GalleryService) Delete(ctx context.Context, actor Actor, id uuid.UUID) error {
	img, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return notFound(err, "Image not found")
	}
	if !actor.CanModify(img.CreatedBy) {
		return forbidden("image")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return notFound(err, "Image not found")
	}

	s.files.cleanup(img.Files()...)
	return nil
}
