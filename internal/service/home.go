package service

import (
	"context"

	"github.com/deppfellow/robotics-club/internal/lib/cache"
	"github.com/deppfellow/robotics-club/internal/model"
	"github.com/rs/zerolog"
)

type homeRepository interface {
	Get(ctx context.Context) (*model.HomeContent, error)
	Update(ctx context.Context, mutate func(*model.HomeContent) error) (*model.HomeContent, error)
}

type HomePatch struct {
	HeroTitle       *string
	HeroSubtitle    *string
	HeroBackground  *string
	Stats           *model.HomeStats
	Model3DSettings *model.Model3DSettings

	Uploaded Uploads
}

type HomeService struct {
	repo  homeRepository
	cache *cache.Cache
	files fileJanitor
}

func NewHomeService(repo homeRepository, c *cache.Cache, jobs Enqueuer, logger *zerolog.Logger) *HomeService {
	return &HomeService{
		repo:  repo,
		cache: c,
		files: fileJanitor{jobs: jobs, logger: logger},
	}
}

// Get returns the home content, creating the default on first use.
func (s *HomeService) Get(ctx context.Context) (*model.HomeContent, error) {
	return cache.GetOrSet(ctx, s.cache, cache.KeyHome, cache.TTLHome, s.repo.Get)
}

// Update applies patch to the stored row, bypassing the cache so a stale
// entry cannot be written back.
func (s *HomeService) Update(ctx context.Context, patch HomePatch) (*model.HomeContent, error) {
	var orphaned []string
	saved, err := s.repo.Update(ctx, func(home *model.HomeContent) error {
		if err := patch.Uploaded.check("heroBackground", home.HeroBackground, patch.HeroBackground); err != nil {
			return err
		}

		orphaned = replaced(home.HeroBackground, patch.HeroBackground)
		set(&home.HeroTitle, patch.HeroTitle)
		set(&home.HeroSubtitle, patch.HeroSubtitle)
		set(&home.HeroBackground, patch.HeroBackground)
		set(&home.Stats, patch.Stats)
		set(&home.Model3DSettings, patch.Model3DSettings)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.cache.Invalidate(ctx, cache.KeyHome)
	s.files.cleanup(orphaned...)
	return saved, nil
}
