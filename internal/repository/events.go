package repository

import (
	"context"

	"github.com/deppfellow/robotics-club/internal/model"
	"github.com/deppfellow/robotics-club/internal/server"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const eventsTable = "events"

type EventRepository struct {
	db *pgxpool.Pool
}

func NewEventRepository(s *server.Server) *EventRepository {
	return &EventRepository{db: s.DB.Pool}
}

func eventArgs(e *model.Event) pgx.NamedArgs {
	return pgx.NamedArgs{
		"id":                e.ID,
		"title":             e.Title,
		"description":       e.Description,
		"date":              e.Date,
		"end_date":          e.EndDate,
		"type":              e.Type,
		"banner":            e.Banner,
		"schedule_pdf":      e.SchedulePDF,
		"registration_link": e.RegistrationLink,
		"venue":             e.Venue,
		"is_upcoming":       e.IsUpcoming,
		"created_by":        e.CreatedBy,
	}
}

func (r *EventRepository) Create(ctx context.Context, e *model.Event) (*model.Event, error) {
	stmt := `
		INSERT INTO events (
			title, description, date, end_date, type, banner, schedule_pdf,
			registration_link, venue, is_upcoming, created_by
		) VALUES (
			@title, @description, @date, @end_date, @type, @banner, @schedule_pdf,
			@registration_link, @venue, @is_upcoming, @created_by
		)
		RETURNING *`

	return collectOne[model.Event](ctx, r.db, eventsTable, stmt, eventArgs(e))
}

func (r *EventRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Event, error) {
	return collectOne[model.Event](ctx, r.db, eventsTable, `SELECT * FROM events WHERE id = $1`, id)
}

// List returns events newest first. See model.EventFilter for the upcoming
// semantics.
func (r *EventRepository) List(ctx context.Context, f model.EventFilter) ([]model.Event, error) {
	where := newWhere()
	if f.Type != nil {
		where.add("type = @type", "type", *f.Type)
	}
	if f.Upcoming != nil {
		if *f.Upcoming {
			where.add("date >= @now", "now", f.Now)
		} else {
			where.add("date < @now", "now", f.Now)
		}
	}

	stmt := "SELECT * FROM events" + where.String() + " ORDER BY date DESC"
	return collectMany[model.Event](ctx, r.db, eventsTable, stmt, where.args)
}

func writeEvent(ctx context.Context, q querier, e *model.Event) (*model.Event, error) {
	stmt := `
		UPDATE events SET
			title = @title,
			description = @description,
			date = @date,
			end_date = @end_date,
			type = @type,
			banner = @banner,
			schedule_pdf = @schedule_pdf,
			registration_link = @registration_link,
			venue = @venue,
			is_upcoming = @is_upcoming
		WHERE id = @id
		RETURNING *`

	return collectOne[model.Event](ctx, q, eventsTable, stmt, eventArgs(e))
}

// Update applies mutate to the locked row and stores the result.
func (r *EventRepository) Update(ctx context.Context, id uuid.UUID, mutate func(*model.Event) error) (*model.Event, error) {
	return lockedUpdate(ctx, r.db, eventsTable, id, mutate, writeEvent)
}

func (r *EventRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteByID(ctx, r.db, eventsTable, id)
}
