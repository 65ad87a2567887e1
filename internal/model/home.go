package model

import (
	"time"
)

type HomeStats struct {
	Members   int `json:"members"`
	Projects  int `json:"projects"`
	Awards    int `json:"awards"`
	Workshops int `json:"workshops"`
}

type Model3DSettings struct {
	Enabled   bool   `json:"enabled"`
	ModelType string `json:"modelType"`
}

// HomeContent is the singleton backing the landing page hero.
type HomeContent struct {
	ID              int16           `json:"-" db:"id"`
	HeroTitle       string          `json:"heroTitle" db:"hero_title"`
	HeroSubtitle    string          `json:"heroSubtitle" db:"hero_subtitle"`
	HeroBackground  string          `json:"heroBackground" db:"hero_background"`
	Stats           HomeStats       `json:"stats" db:"stats"`
	Model3DSettings Model3DSettings `json:"model3DSettings" db:"model_3d_settings"`
	UpdatedAt       time.Time       `json:"updatedAt" db:"updated_at"`
}

// DefaultHomeContent is what a fresh install shows.
func DefaultHomeContent() HomeContent {
	return HomeContent{
		ID:           SingletonID,
		HeroTitle:    "ROBOTICS CLUB",
		HeroSubtitle: "Building the Future with Innovation",
		Model3DSettings: Model3DSettings{
			Enabled:   true,
			ModelType: "robot",
		},
	}
}
