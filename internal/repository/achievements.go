package repository

import (
	"context"

	"github.com/deppfellow/robotics-club/internal/model"
	"github.com/deppfellow/robotics-club/internal/server"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const achievementsTable = "achievements"

type AchievementRepository struct {
	db *pgxpool.Pool
}

func NewAchievementRepository(s *server.Server) *AchievementRepository {
	return &AchievementRepository{db: s.DB.Pool}
}

func achievementArgs(a *model.Achievement) pgx.NamedArgs {
	links := a.ExternalLinks
	if links == nil {
		links = []model.ExternalLink{}
	}

	return pgx.NamedArgs{
		"id":             a.ID,
		"title":          a.Title,
		"description":    a.Description,
		"date":           a.Date,
		"category":       a.Category,
		"images":         nonNilStrings(a.Images),
		"certificates":   nonNilStrings(a.Certificates),
		"external_links": links,
		"created_by":     a.CreatedBy,
	}
}

func (r *AchievementRepository) Create(ctx context.Context, a *model.Achievement) (*model.Achievement, error) {
	stmt := `
		INSERT INTO achievements (title, description, date, category, images, certificates, external_links, created_by)
		VALUES (@title, @description, @date, @category, @images, @certificates, @external_links, @created_by)
		RETURNING *`

	return collectOne[model.Achievement](ctx, r.db, achievementsTable, stmt, achievementArgs(a))
}

func (r *AchievementRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Achievement, error) {
	return collectOne[model.Achievement](ctx, r.db, achievementsTable, `SELECT * FROM achievements WHERE id = $1`, id)
}

func (r *AchievementRepository) List(ctx context.Context, f model.AchievementFilter) ([]model.Achievement, error) {
	where := newWhere()
	if f.Category != nil {
		where.add("category = @category", "category", *f.Category)
	}

	stmt := "SELECT * FROM achievements" + where.String() + " ORDER BY date DESC"
	return collectMany[model.Achievement](ctx, r.db, achievementsTable, stmt, where.args)
}

func writeAchievement(ctx context.Context, q querier, a *model.Achievement) (*model.Achievement, error) {
	stmt := `
		UPDATE achievements SET
			title = @title,
			description = @description,
			date = @date,
			category = @category,
			images = @images,
			certificates = @certificates,
			external_links = @external_links
		WHERE id = @id
		RETURNING *`

	return collectOne[model.Achievement](ctx, q, achievementsTable, stmt, achievementArgs(a))
}

// Update applies mutate to the locked row and stores the result.
func (r *AchievementRepository) Update(ctx context.Context, id uuid.UUID, mutate func(*model.Achievement) error) (*model.Achievement, error) {
	return lockedUpdate(ctx, r.db, achievementsTable, id, mutate, writeAchievement)
}

func (r *AchievementRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteByID(ctx, r.db, achievementsTable, id)
}
