package model

import (
	"time"
)

type GalleryCategory string

const (
	GalleryRoboticsProjects GalleryCategory = "Robotics Projects"
	GalleryWorkshops        GalleryCategory = "Workshops"
	GalleryHackathons       GalleryCategory = "Hackathons"
	GalleryHardwareLab      GalleryCategory = "Hardware Lab"
	GalleryOther            GalleryCategory = "Other"
)

// MaxGalleryBatch is the most files one gallery upload may carry.
const MaxGalleryBatch = 20

type GalleryImage struct {
	Base
	Owned
	URL        string          `json:"url" db:"url"`
	Category   GalleryCategory `json:"category" db:"category"`
	Caption    string          `json:"caption" db:"caption"`
	IsVideo    bool            `json:"isVideo" db:"is_video"`
	UploadedAt time.Time       `json:"uploadedAt" db:"uploaded_at"`
}

func (g *GalleryImage) Files() []string {
	return nonEmpty(g.URL)
}

type GalleryFilter struct {
	Category *GalleryCategory
}
