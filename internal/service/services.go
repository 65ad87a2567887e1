package service

import (
	"github.com/deppfellow/robotics-club/internal/lib/job"
	"github.com/deppfellow/robotics-club/internal/repository"
	"github.com/deppfellow/robotics-club/internal/server"
)

type Services struct {
	Auth          *AuthService
	Users         *UserService
	Events        *EventService
	Team          *TeamService
	Achievements  *AchievementService
	Gallery       *GalleryService
	Announcements *AnnouncementService
	Home          *HomeService
	Settings      *SettingsService
	Job           *job.JobService
}

func NewService(s *server.Server, repos *repository.Repositories) (*Services, error) {
	var jobs Enqueuer
	if s.Job != nil {
		jobs = s.Job.Client
	}

	return &Services{
		Auth:          NewAuthService(repos.Users, s.Tokens, jobs, s.Logger),
		Users:         NewUserService(repos.Users, jobs, s.Logger),
		Events:        NewEventService(repos.Events, jobs, s.Logger),
		Team:          NewTeamService(repos.Team, jobs, s.Logger),
		Achievements:  NewAchievementService(repos.Achievements, jobs, s.Logger),
		Gallery:       NewGalleryService(repos.Gallery, jobs, s.Logger),
		Announcements: NewAnnouncementService(repos.Announcements),
		Home:          NewHomeService(repos.Home, s.Cache, jobs, s.Logger),
		Settings:      NewSettingsService(repos.Settings, s.Cache, jobs, s.Logger),
		Job:           s.Job,
	}, nil
}
