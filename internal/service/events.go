package service

import (
	"context"
	"time"

	"github.com/deppfellow/robotics-club/internal/model"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type eventRepository interface {
	Create(ctx context.Context, e *model.Event) (*model.Event, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Event, error)
	List(ctx context.Context, f model.EventFilter) ([]model.Event, error)
	Update(ctx context.Context, id uuid.UUID, mutate func(*model.Event) error) (*model.Event, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// EventPatch carries the fields of a partial update. Nil means unchanged.
type EventPatch struct {
	Title            *string
	Description      *string
	Date             *time.Time
	EndDate          *time.Time
	Type             *model.EventType
	Banner           *string
	SchedulePDF      *string
	RegistrationLink *string
	Venue            *string
	IsUpcoming       *bool

	Uploaded Uploads
}

func (p EventPatch) apply(e *model.Event) (orphaned []string, err error) {
	if err := p.Uploaded.check("banner", e.Banner, p.Banner); err != nil {
		return nil, err
	}
	if err := p.Uploaded.check("schedulePDF", e.SchedulePDF, p.SchedulePDF); err != nil {
		return nil, err
	}
	orphaned = append(replaced(e.Banner, p.Banner), replaced(e.SchedulePDF, p.SchedulePDF)...)

	set(&e.Title, p.Title)
	set(&e.Description, p.Description)
	set(&e.Date, p.Date)
	set(&e.Type, p.Type)
	set(&e.Banner, p.Banner)
	set(&e.SchedulePDF, p.SchedulePDF)
	set(&e.RegistrationLink, p.RegistrationLink)
	set(&e.Venue, p.Venue)
	set(&e.IsUpcoming, p.IsUpcoming)
	if p.EndDate != nil {
		e.EndDate = p.EndDate
	}

	return orphaned, nil
}

type EventService struct {
	repo  eventRepository
	files fileJanitor
	now   func() time.Time
}

func NewEventService(repo eventRepository, jobs Enqueuer, logger *zerolog.Logger) *EventService {
	return &EventService{
		repo:  repo,
		files: fileJanitor{jobs: jobs, logger: logger},
		now:   time.Now,
	}
}

func (s *EventService) List(ctx context.Context, f model.EventFilter) ([]model.Event, error) {
	now := s.now()
	f.Now = now

	events, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	for i := range events {
		events[i].Resolve(now)
	}
	return events, nil
}

func (s *EventService) Get(ctx context.Context, id uuid.UUID) (*model.Event, error) {
	event, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "Event not found")
	}
	event.Resolve(s.now())
	return event, nil
}

// Create stores e. uploaded lists the files this request stored.
func (s *EventService) Create(ctx context.Context, actor Actor, e *model.Event, uploaded ...string) (*model.Event, error) {
	if err := Uploads(uploaded).check("banner", "", &e.Banner); err != nil {
		return nil, err
	}
	if err := Uploads(uploaded).check("schedulePDF", "", &e.SchedulePDF); err != nil {
		return nil, err
	}
	e.CreatedBy = actor.ref()

	created, err := s.repo.Create(ctx, e)
	if err != nil {
		return nil, err
	}
	created.Resolve(s.now())
	return created, nil
}

func (s *EventService) Update(ctx context.Context, actor Actor, id uuid.UUID, patch EventPatch) (*model.Event, error) {
	var orphaned []string
	updated, err := s.repo.Update(ctx, id, func(e *model.Event) (err error) {
		if !actor.CanModify(e.CreatedBy) {
			return forbidden("event")
		}
		orphaned, err = patch.apply(e)
		return err
	})
	if err != nil {
		return nil, notFound(err, "Event not found")
	}

	s.files.cleanup(orphaned...)
	updated.Resolve(s.now())
	return updated, nil
}

func (s *EventService) Delete(ctx context.Context, actor Actor, id uuid.UUID) error {
	event, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return notFound(err, "Event not found")
	}
	if !actor.CanModify(event.CreatedBy) {
		return forbidden("event")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return notFound(err, "Event not found")
	}

	s.files.cleanup(event.Files()...)
	return nil
}
