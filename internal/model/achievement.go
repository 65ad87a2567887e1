package model

import (
	"time"
)

type AchievementCategory string

const (
	AchievementAward       AchievementCategory = "Award"
	AchievementCompetition AchievementCategory = "Competition"
	AchievementProject     AchievementCategory = "Project"
	AchievementPublication AchievementCategory = "Publication"
)

const (
	MaxAchievementImages       = 10
	MaxAchievementCertificates = 5
)

type ExternalLink struct {
	Title string `json:"title" validate:"required,max=200"`
	URL   string `json:"url" validate:"required,url"`
}

type Achievement struct {
	Base
	Owned
	Title         string              `json:"title" db:"title"`
	Description   string              `json:"description" db:"description"`
	Date          time.Time           `json:"date" db:"date"`
	Category      AchievementCategory `json:"category" db:"category"`
	Images        []string            `json:"images" db:"images"`
	Certificates  []string            `json:"certificates" db:"certificates"`
	ExternalLinks []ExternalLink      `json:"externalLinks" db:"external_links"`
}

func (a *Achievement) Files() []string {
	files := make([]string, 0, len(a.Images)+len(a.Certificates))
	files = append(files, nonEmpty(a.Images...)...)
	return append(files, nonEmpty(a.Certificates...)...)
}

type AchievementFilter struct {
	Category *AchievementCategory
}
