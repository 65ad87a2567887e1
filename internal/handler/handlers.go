package handler

import (
	"github.com/deppfellow/robotics-club/internal/server"
	"github.com/deppfellow/robotics-club/internal/service"
)

// Handlers groups every HTTP handler so the router receives one value.
type Handlers struct {
	Auth          *AuthHandler
	Users         *UserHandler
	Events        *EventHandler
	Team          *TeamHandler
	Achievements  *AchievementHandler
	Gallery       *GalleryHandler
	Announcements *AnnouncementHandler
	Site          *SiteHandler
	Health        *HealthHandler
	OpenAPI       *OpenAPIHandler
}

func NewHandlers(s *server.Server, services *service.Services) *Handlers {
	return &Handlers{
		Auth:          NewAuthHandler(s, services.Auth),
		Users:         NewUserHandler(s, services.Users),
		Events:        NewEventHandler(s, services.Events),
		Team:          NewTeamHandler(s, services.Team),
		Achievements:  NewAchievementHandler(s, services.Achievements),
		Gallery:       NewGalleryHandler(s, services.Gallery),
		Announcements: NewAnnouncementHandler(s, services.Announcements),
		Site:          NewSiteHandler(s, services.Home, services.Settings),
		Health:        NewHealthHandler(s),
		OpenAPI:       NewOpenAPIHandler(s),
	}
}
