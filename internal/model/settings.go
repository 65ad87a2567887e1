package model

import (
	"time"
)

type ThemeColors struct {
	Primary   string `json:"primary" validate:"omitempty,hexcolor"`
	Secondary string `json:"secondary" validate:"omitempty,hexcolor"`
	Accent    string `json:"accent" validate:"omitempty,hexcolor"`
}

type SiteSocialLinks struct {
	Facebook  string `json:"facebook"`
	Instagram string `json:"instagram"`
	Twitter   string `json:"twitter"`
	LinkedIn  string `json:"linkedin"`
	YouTube   string `json:"youtube"`
	GitHub    string `json:"github"`
}

type ContactInfo struct {
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	WhatsApp string `json:"whatsapp"`
	Address  string `json:"address"`
}

// Settings is the site-wide singleton edited by admins.
type Settings struct {
	ID          int16           `json:"-" db:"id"`
	ClubName    string          `json:"clubName" db:"club_name"`
	Logo        string          `json:"logo" db:"logo"`
	ThemeColors ThemeColors     `json:"themeColors" db:"theme_colors"`
	SocialLinks SiteSocialLinks `json:"socialLinks" db:"social_links"`
	ContactInfo ContactInfo     `json:"contactInfo" db:"contact_info"`
	UpdatedAt   time.Time       `json:"updatedAt" db:"updated_at"`
}

func DefaultSettings() Settings {
	return Settings{
		ID:       SingletonID,
		ClubName: "Robotics Club",
		ThemeColors: ThemeColors{
			Primary:   "#00f0ff",
			Secondary: "#b000ff",
			Accent:    "#ff00ff",
		},
	}
}
