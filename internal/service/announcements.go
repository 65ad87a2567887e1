package service

import (
	"context"
	"time"

	"github.com/deppfellow/robotics-club/internal/model"
	"github.com/google/uuid"
)

type announcementRepository interface {
	Create(ctx context.Context, a *model.Announcement) (*model.Announcement, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Announcement, error)
	List(ctx context.Context, f model.AnnouncementFilter) ([]model.Announcement, error)
	Update(ctx context.Context, id uuid.UUID, mutate func(*model.Announcement) error) (*model.Announcement, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type AnnouncementPatch struct {
	Title      *string
	Message    *string
	Type       *model.AnnouncementType
	IsActive   *bool
	Priority   *int
	ExpiryDate *time.Time

	// ClearExpiry makes the announcement never expire.
	ClearExpiry bool
}

type AnnouncementService struct {
	repo announcementRepository
	now  func() time.Time
}

func NewAnnouncementService(repo announcementRepository) *AnnouncementService {
	return &AnnouncementService{repo: repo, now: time.Now}
}

// ListActive returns what the public site shows: active, unexpired, most
// important first.
func (s *AnnouncementService) ListActive(ctx context.Context) ([]model.Announcement, error) {
	now := s.now()
	return s.repo.List(ctx, model.AnnouncementFilter{ActiveAt: &now})
}

// ListAll returns every announcement, newest first.
func (s *AnnouncementService) ListAll(ctx context.Context) ([]model.Announcement, error) {
	return s.repo.List(ctx, model.AnnouncementFilter{})
}

func (s *AnnouncementService) Get(ctx context.Context, id uuid.UUID) (*model.Announcement, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "Announcement not found")
	}
	return a, nil
}

func (s *AnnouncementService) Create(ctx context.Context, actor Actor, a *model.Announcement) (*model.Announcement, error) {
	if a.Type == "" {
		a.Type = model.AnnouncementInfo
	}
	a.CreatedBy = actor.ref()
	return s.repo.Create(ctx, a)
}

func (s *AnnouncementService) Update(ctx context.Context, actor Actor, id uuid.UUID, patch AnnouncementPatch) (*model.Announcement, error) {
	updated, err := s.repo.Update(ctx, id, func(a *model.Announcement) error {
		if !actor.CanModify(a.CreatedBy) {
			return forbidden("announcement")
		}

		set(&a.Title, patch.Title)
		set(&a.Message, patch.Message)
		set(&a.Type, patch.Type)
		set(&a.IsActive, patch.IsActive)
		set(&a.Priority, patch.Priority)
		switch {
		case patch.ClearExpiry:
			a.ExpiryDate = nil
		case patch.ExpiryDate != nil:
			a.ExpiryDate = patch.ExpiryDate
		}
		return nil
	})
	if err != nil {
		return nil, notFound(err, "Announcement not found")
	}
	return updated, nil
}

func (s *AnnouncementService) Delete(ctx context.Context, actor Actor, id uuid.UUID) error {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return notFound(err, "Announcement not found")
	}
	if !actor.CanModify(a.CreatedBy) {
		return forbidden("announcement")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return notFound(err, "Announcement not found")
	}
	return nil
}
