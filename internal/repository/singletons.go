package repository

import (
	"context"

	"github.com/deppfellow/robotics-club/internal/model"
	"github.com/deppfellow/robotics-club/internal/server"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	homeTable     = "home_content"
	settingsTable = "settings"
)

// Singleton rows are created lazily by an upsert on the fixed key, so
// concurrent first reads all return the same row.

type HomeRepository struct {
	db *pgxpool.Pool
}

func NewHomeRepository(s *server.Server) *HomeRepository {
	return &HomeRepository{db: s.DB.Pool}
}

// Get returns the home content, creating the default row on first use.
func (r *HomeRepository) Get(ctx context.Context) (*model.HomeContent, error) {
	return getHome(ctx, r.db)
}

// Update runs mutate on the row and saves it in one transaction. The
// get-or-create upsert locks the row until commit, so concurrent updates
// apply one after the other.
func (r *HomeRepository) Update(ctx context.Context, mutate func(*model.HomeContent) error) (*model.HomeContent, error) {
	var out *model.HomeContent
	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		home, err := getHome(ctx, tx)
		if err != nil {
			return err
		}
		if err := mutate(home); err != nil {
			return err
		}
		out, err = saveHome(ctx, tx, home)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func getHome(ctx context.Context, q querier) (*model.HomeContent, error) {
	stmt := `
		INSERT INTO home_content (id) VALUES ($1)
		ON CONFLICT (id) DO UPDATE SET id = EXCLUDED.id
		RETURNING *`

	return collectOne[model.HomeContent](ctx, q, homeTable, stmt, model.SingletonID)
}

func saveHome(ctx context.Context, q querier, h *model.HomeContent) (*model.HomeContent, error) {
	stmt := `
		INSERT INTO home_content (id, hero_title, hero_subtitle, hero_background, stats, model_3d_settings)
		VALUES (@id, @hero_title, @hero_subtitle, @hero_background, @stats, @model_3d_settings)
		ON CONFLICT (id) DO UPDATE SET
			hero_title = EXCLUDED.hero_title,
			hero_subtitle = EXCLUDED.hero_subtitle,
			hero_background = EXCLUDED.hero_background,
			stats = EXCLUDED.stats,
			model_3d_settings = EXCLUDED.model_3d_settings,
			updated_at = now()
		RETURNING *`

	return collectOne[model.HomeContent](ctx, q, homeTable, stmt, pgx.NamedArgs{
		"id":                model.SingletonID,
		"hero_title":        h.HeroTitle,
		"hero_subtitle":     h.HeroSubtitle,
		"hero_background":   h.HeroBackground,
		"stats":             h.Stats,
		"model_3d_settings": h.Model3DSettings,
	})
}

type SettingsRepository struct {
	db *pgxpool.Pool
}

func NewSettingsRepository(s *server.Server) *SettingsRepository {
	return &SettingsRepository{db: s.DB.Pool}
}

// Get returns the site settings, creating the default row on first use.
func (r *SettingsRepository) Get(ctx context.Context) (*model.Settings, error) {
	return getSettings(ctx, r.db)
}

func (r *SettingsRepository) Update(ctx context.Context, mutate func(*model.Settings) error) (*model.Settings, error) {
	var out *model.Settings
	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		settings, err := getSettings(ctx, tx)
		if err != nil {
			return err
		}
		if err := mutate(settings); err != nil {
			return err
		}
		out, err = saveSettings(ctx, tx, settings)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func getSettings(ctx context.Context, q querier) (*model.Settings, error) {
	stmt := `
		INSERT INTO settings (id) VALUES ($1)
		ON CONFLICT (id) DO UPDATE SET id = EXCLUDED.id
		RETURNING *`

	return collectOne[model.Settings](ctx, q, settingsTable, stmt, model.SingletonID)
}

func saveSettings(ctx context.Context, q querier, s *model.Settings) (*model.Settings, error) {
	stmt := `
		INSERT INTO settings (id, club_name, logo, theme_colors, social_links, contact_info)
		VALUES (@id, @club_name, @logo, @theme_colors, @social_links, @contact_info)
		ON CONFLICT (id) DO UPDATE SET
			club_name = EXCLUDED.club_name,
			logo = EXCLUDED.logo,
			theme_colors = EXCLUDED.theme_colors,
			social_links = EXCLUDED.social_links,
			contact_info = EXCLUDED.contact_info,
			updated_at = now()
		RETURNING *`

	return collectOne[model.Settings](ctx, q, settingsTable, stmt, pgx.NamedArgs{
		"id":           model.SingletonID,
		"club_name":    s.ClubName,
		"logo":         s.Logo,
		"theme_colors": s.ThemeColors,
		"social_links": s.SocialLinks,
		"contact_info": s.ContactInfo,
	})
}
