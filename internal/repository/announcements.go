package repository

import (
	"context"

	"github.com/deppfellow/robotics-club/internal/model"
	"github.com/deppfellow/robotics-club/internal/server"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const announcementsTable = "announcements"

type AnnouncementRepository struct {
	db *pgxpool.Pool
}

func NewAnnouncementRepository(s *server.Server) *AnnouncementRepository {
	return &AnnouncementRepository{db: s.DB.Pool}
}

func announcementArgs(a *model.Announcement) pgx.NamedArgs {
	return pgx.NamedArgs{
		"id":          a.ID,
		"title":       a.Title,
		"message":     a.Message,
		"type":        a.Type,
		"is_active":   a.IsActive,
		"priority":    a.Priority,
		"expiry_date": a.ExpiryDate,
		"created_by":  a.CreatedBy,
	}
}

func (r *AnnouncementRepository) Create(ctx context.Context, a *model.Announcement) (*model.Announcement, error) {
	stmt := `
		INSERT INTO announcements (title, message, type, is_active, priority, expiry_date, created_by)
		VALUES (@title, @message, @type, @is_active, @priority, @expiry_date, @created_by)
		RETURNING *`

	return collectOne[model.Announcement](ctx, r.db, announcementsTable, stmt, announcementArgs(a))
}

func (r *AnnouncementRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Announcement, error) {
	return collectOne[model.Announcement](ctx, r.db, announcementsTable, `SELECT * FROM announcements WHERE id = $1`, id)
}

func (r *AnnouncementRepository) List(ctx context.Context, f model.AnnouncementFilter) ([]model.Announcement, error) {
	if f.ActiveAt == nil {
		return collectMany[model.Announcement](ctx, r.db, announcementsTable,
			`SELECT * FROM announcements ORDER BY created_at DESC`)
	}

	stmt := `
		SELECT * FROM announcements
		WHERE is_active AND (expiry_date IS NULL OR expiry_date > $1)
		ORDER BY priority DESC, created_at DESC`

	return collectMany[model.Announcement](ctx, r.db, announcementsTable, stmt, *f.ActiveAt)
}

func writeAnnouncement(ctx context.Context, q querier, a *model.Announcement) (*model.Announcement, error) {
	stmt := `
		UPDATE announcements SET
			title = @title,
			message = @message,
			type = @type,
			is_active = @is_active,
			priority = @priority,
			expiry_date = @expiry_date
		WHERE id = @id
		RETURNING *`

	return collectOne[model.Announcement](ctx, q, announcementsTable, stmt, announcementArgs(a))
}

// Update applies mutate to the locked row and stores the result.
func (r *AnnouncementRepository) Update(ctx context.Context, id uuid.UUID, mutate func(*model.Announcement) error) (*model.Announcement, error) {
	return lockedUpdate(ctx, r.db, announcementsTable, id, mutate, writeAnnouncement)
}

func (r *AnnouncementRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteByID(ctx, r.db, announcementsTable, id)
}
