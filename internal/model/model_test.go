package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEventResolve(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	past := Event{Date: now.Add(-time.Hour)}
	past.Resolve(now)
	assert.True(t, past.IsPast)

	future := Event{Date: now.Add(time.Hour)}
	future.Resolve(now)
	assert.False(t, future.IsPast)
}

func TestAnnouncementIsVisible(t *testing.T) {
	now := time.Now()
	tomorrow := now.Add(24 * time.Hour)
	yesterday := now.Add(-24 * time.Hour)

	assert.True(t, (&Announcement{IsActive: true}).IsVisible(now))
	assert.True(t, (&Announcement{IsActive: true, ExpiryDate: &tomorrow}).IsVisible(now))
	assert.False(t, (&Announcement{IsActive: true, ExpiryDate: &yesterday}).IsVisible(now))
	assert.False(t, (&Announcement{IsActive: false}).IsVisible(now))
}

func TestRole(t *testing.T) {
	assert.True(t, RoleAdmin.CanEditContent())
	assert.True(t, RoleEditor.CanEditContent())
	assert.False(t, RoleMember.CanEditContent())
	assert.False(t, Role("Root").IsValid())
}

func TestFilesSkipsEmpty(t *testing.T) {
	e := Event{Banner: "/uploads/banner.jpg"}
	assert.Equal(t, []string{"/uploads/banner.jpg"}, e.Files())

	a := Achievement{Images: []string{"/uploads/a.jpg", ""}, Certificates: []string{"/uploads/c.pdf"}}
	assert.Equal(t, []string{"/uploads/a.jpg", "/uploads/c.pdf"}, a.Files())
}

func TestDefaults(t *testing.T) {
	home := DefaultHomeContent()
	assert.Equal(t, "ROBOTICS CLUB", home.HeroTitle)
	assert.True(t, home.Model3DSettings.Enabled)

	settings := DefaultSettings()
	assert.Equal(t, "Robotics Club", settings.ClubName)
	assert.Equal(t, "#00f0ff", settings.ThemeColors.Primary)
}
