package repository

import (
	"context"

	"github.com/deppfellow/robotics-club/internal/model"
	"github.com/deppfellow/robotics-club/internal/server"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const teamTable = "team_members"

type TeamRepository struct {
	db *pgxpool.Pool
}

func NewTeamRepository(s *server.Server) *TeamRepository {
	return &TeamRepository{db: s.DB.Pool}
}

func teamArgs(m *model.TeamMember) pgx.NamedArgs {
	return pgx.NamedArgs{
		"id":            m.ID,
		"name":          m.Name,
		"role":          m.Role,
		"category":      m.Category,
		"image":         m.Image,
		"bio":           m.Bio,
		"social_links":  m.SocialLinks,
		"display_order": m.Order,
		"created_by":    m.CreatedBy,
	}
}

func (r *TeamRepository) Create(ctx context.Context, m *model.TeamMember) (*model.TeamMember, error) {
	stmt := `
		INSERT INTO team_members (name, role, category, image, bio, social_links, display_order, created_by)
		VALUES (@name, @role, @category, @image, @bio, @social_links, @display_order, @created_by)
		RETURNING *`

	return collectOne[model.TeamMember](ctx, r.db, teamTable, stmt, teamArgs(m))
}

func (r *TeamRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.TeamMember, error) {
	return collectOne[model.TeamMember](ctx, r.db, teamTable, `SELECT * FROM team_members WHERE id = $1`, id)
}

func (r *TeamRepository) List(ctx context.Context, f model.TeamFilter) ([]model.TeamMember, error) {
	where := newWhere()
	if f.Category != nil {
		where.add("category = @category", "category", *f.Category)
	}

	stmt := "SELECT * FROM team_members" + where.String() + " ORDER BY display_order ASC, created_at DESC"
	return collectMany[model.TeamMember](ctx, r.db, teamTable, stmt, where.args)
}

func writeTeamMember(ctx context.Context, q querier, m *model.TeamMember) (*model.TeamMember, error) {
	stmt := `
		UPDATE team_members SET
			name = @name,
			role = @role,
			category = @category,
			image = @image,
			bio = @bio,
			social_links = @social_links,
			display_order = @display_order
		WHERE id = @id
		RETURNING *`

	return collectOne[model.TeamMember](ctx, q, teamTable, stmt, teamArgs(m))
}

// Update applies mutate to the locked row and stores the result.
func (r *TeamRepository) Update(ctx context.Context, id uuid.UUID, mutate func(*model.TeamMember) error) (*model.TeamMember, error) {
	return lockedUpdate(ctx, r.db, teamTable, id, mutate, writeTeamMember)
}

func (r *TeamRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteByID(ctx, r.db, teamTable, id)
}
