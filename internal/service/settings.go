package service

import (
	"context"

	"github.com/deppfellow/robotics-club/internal/lib/cache"
	"github.com/deppfellow/robotics-club/internal/model"
	"github.com/rs/zerolog"
)

type settingsRepository interface {
	Get(ctx context.Context) (*model.Settings, error)
	Update(ctx context.Context, mutate func(*model.Settings) error) (*model.Settings, error)
}

type SettingsPatch struct {
	ClubName    *string
	Logo        *string
	ThemeColors *model.ThemeColors
	SocialLinks *model.SiteSocialLinks
	ContactInfo *model.ContactInfo

	Uploaded Uploads
}

type SettingsService struct {
	repo  settingsRepository
	cache *cache.Cache
	files fileJanitor
}

func NewSettingsService(repo settingsRepository, c *cache.Cache, jobs Enqueuer, logger *zerolog.Logger) *SettingsService {
	return &SettingsService{
		repo:  repo,
		cache: c,
		files: fileJanitor{jobs: jobs, logger: logger},
	}
}

func (s *SettingsService) Get(ctx context.Context) (*model.Settings, error) {
	return cache.GetOrSet(ctx, s.cache, cache.KeySettings, cache.TTLSettings, s.repo.Get)
}

func (s *SettingsService) Update(ctx context.Context, patch SettingsPatch) (*model.Settings, error) {
	var orphaned []string
	saved, err := s.repo.Update(ctx, func(settings *model.Settings) error {
		if err := patch.Uploaded.check("logo", settings.Logo, patch.Logo); err != nil {
			return err
		}

		orphaned = replaced(settings.Logo, patch.Logo)
		set(&settings.ClubName, patch.ClubName)
		set(&settings.Logo, patch.Logo)
		set(&settings.ThemeColors, patch.ThemeColors)
		set(&settings.SocialLinks, patch.SocialLinks)
		set(&settings.ContactInfo, patch.ContactInfo)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.cache.Invalidate(ctx, cache.KeySettings)
	s.files.cleanup(orphaned...)
	return saved, nil
}
