package service

import (
	"context"
	"time"

	"github.com/deppfellow/robotics-club/internal/errs"
	"github.com/deppfellow/robotics-club/internal/model"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type achievementRepository interface {
	Create(ctx context.Context, a *model.Achievement) (*model.Achievement, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Achievement, error)
	List(ctx context.Context, f model.AchievementFilter) ([]model.Achievement, error)
	Update(ctx context.Context, id uuid.UUID, mutate func(*model.Achievement) error) (*model.Achievement, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// AchievementPatch updates scalar fields and appends files. NewImages and
// NewCertificates are added after the existing ones; the per-field caps
// apply to one request, not to the stored total.
type AchievementPatch struct {
	Title           *string
	Description     *string
	Date            *time.Time
	Category        *model.AchievementCategory
	ExternalLinks   *[]model.ExternalLink
	NewImages       []string
	NewCertificates []string
}

func (p AchievementPatch) apply(a *model.Achievement) error {
	if len(p.NewImages) > model.MaxAchievementImages {
		return errs.NewBadRequestError("At most 10 images can be uploaded at once", true, nil, nil, nil)
	}
	if len(p.NewCertificates) > model.MaxAchievementCertificates {
		return errs.NewBadRequestError("At most 5 certificates can be uploaded at once", true, nil, nil, nil)
	}

	set(&a.Title, p.Title)
	set(&a.Description, p.Description)
	set(&a.Date, p.Date)
	set(&a.Category, p.Category)
	set(&a.ExternalLinks, p.ExternalLinks)
	a.Images = append(a.Images, p.NewImages...)
	a.Certificates = append(a.Certificates, p.NewCertificates...)

	return nil
}

type AchievementService struct {
	repo  achievementRepository
	files fileJanitor
}

func NewAchievementService(repo achievementRepository, jobs Enqueuer, logger *zerolog.Logger) *AchievementService {
	return &AchievementService{
		repo:  repo,
		files: fileJanitor{jobs: jobs, logger: logger},
	}
}

func (s *AchievementService) List(ctx context.Context, f model.AchievementFilter) ([]model.Achievement, error) {
	return s.repo.List(ctx, f)
}

func (s *AchievementService) Get(ctx context.Context, id uuid.UUID) (*model.Achievement, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "Achievement not found")
	}
	return a, nil
}

func (s *AchievementService) Create(ctx context.Context, actor Actor, a *model.Achievement) (*model.Achievement, error) {
	a.CreatedBy = actor.ref()
	return s.repo.Create(ctx, a)
}

func (s *AchievementService) Update(ctx context.Context, actor Actor, id uuid.UUID, patch AchievementPatch) (*model.Achievement, error) {
	updated, err := s.repo.Update(ctx, id, func(a *model.Achievement) error {
		if !actor.CanModify(a.CreatedBy) {
			return forbidden("achievement")
		}
		return patch.apply(a)
	})
	if err != nil {
		return nil, notFound(err, "Achievement not found")
	}
	return updated, nil
}

func (s *AchievementService) Delete(ctx context.Context, actor Actor, id uuid.UUID) error {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return notFound(err, "Achievement not found")
	}
	if !actor.CanModify(a.CreatedBy) {
		return forbidden("achievement")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return notFound(err, "Achievement not found")
	}

	s.files.cleanup(a.Files()...)
	return nil
}
