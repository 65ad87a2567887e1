package repository

import (
	"github.com/deppfellow/robotics-club/internal/server"
)

// Repositories is a container for all repository instances.
type Repositories struct {
	Users         *UserRepository
	Events        *EventRepository
	Team          *TeamRepository
	Achievements  *AchievementRepository
	Gallery       *GalleryRepository
	Announcements *AnnouncementRepository
	Home          *HomeRepository
	Settings      *SettingsRepository
}

// NewRepositories constructs the repository container over s.DB.Pool.
func NewRepositories(s *server.Server) *Repositories {
	return &Repositories{
		Users:         NewUserRepository(s),
		Events:        NewEventRepository(s),
		Team:          NewTeamRepository(s),
		Achievements:  NewAchievementRepository(s),
		Gallery:       NewGalleryRepository(s),
		Announcements: NewAnnouncementRepository(s),
		Home:          NewHomeRepository(s),
		Settings:      NewSettingsRepository(s),
	}
}
