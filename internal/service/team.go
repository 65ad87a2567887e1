package service

import (
	"context"

	"github.com/deppfellow/robotics-club/internal/model"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type teamRepository interface {
	Create(ctx context.Context, m *model.TeamMember) (*model.TeamMember, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.TeamMember, error)
	List(ctx context.Context, f model.TeamFilter) ([]model.TeamMember, error)
	Update(ctx context.Context, id uuid.UUID, mutate func(*model.TeamMember) error) (*model.TeamMember, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type TeamPatch struct {
	Name        *string
	Role        *string
	Category    *model.TeamCategory
	Image       *string
	Bio         *string
	SocialLinks *model.TeamSocialLinks
	Order       *int

	Uploaded Uploads
}

func (p TeamPatch) apply(m *model.TeamMember) (orphaned []string, err error) {
	if err := p.Uploaded.check("image", m.Image, p.Image); err != nil {
		return nil, err
	}
	orphaned = replaced(m.Image, p.Image)

	set(&m.Name, p.Name)
	set(&m.Role, p.Role)
	set(&m.Category, p.Category)
	set(&m.Image, p.Image)
	set(&m.Bio, p.Bio)
	set(&m.SocialLinks, p.SocialLinks)
	set(&m.Order, p.Order)

	return orphaned, nil
}

type TeamService struct {
	repo  teamRepository
	files fileJanitor
}

func NewTeamService(repo teamRepository, jobs Enqueuer, logger *zerolog.Logger) *TeamService {
	return &TeamService{
		repo:  repo,
		files: fileJanitor{jobs: jobs, logger: logger},
	}
}

func (s *TeamService) List(ctx context.Context, f model.TeamFilter) ([]model.TeamMember, error) {
	return s.repo.List(ctx, f)
}

func (s *TeamService) Get(ctx context.Context, id uuid.UUID) (*model.TeamMember, error) {
	member, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "Team member not found")
	}
	return member, nil
}

func (s *TeamService) Create(ctx context.Context, actor Actor, m *model.TeamMember, uploaded ...string) (*model.TeamMember, error) {
	if err := Uploads(uploaded).check("image", "", &m.Image); err != nil {
		return nil, err
	}
	m.CreatedBy = actor.ref()
	return s.repo.Create(ctx, m)
}

func (s *TeamService) Update(ctx context.Context, actor Actor, id uuid.UUID, patch TeamPatch) (*model.TeamMember, error) {
	var orphaned []string
	updated, err := s.repo.Update(ctx, id, func(m *model.TeamMember) (err error) {
		if !actor.CanModify(m.CreatedBy) {
			return forbidden("team member")
		}
		orphaned, err = patch.apply(m)
		return err
	})
	if err != nil {
		return nil, notFound(err, "Team member not found")
	}

	s.files.cleanup(orphaned...)
	return updated, nil
}

func (s *TeamService) Delete(ctx context.Context, actor Actor, id uuid.UUID) error {
	member, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return notFound(err, "Team member not found")
	}
	if !actor.CanModify(member.CreatedBy) {
		return forbidden("team member")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return notFound(err, "Team member not found")
	}

	s.files.cleanup(member.Files()...)
	return nil
}
