package model

type TeamCategory string

const (
	TeamCore      TeamCategory = "Core"
	TeamMentor    TeamCategory = "Mentor"
	TeamTechnical TeamCategory = "Technical"
	TeamDesign    TeamCategory = "Design"
)

// TeamSocialLinks is stored as jsonb.
type TeamSocialLinks struct {
	LinkedIn string `json:"linkedin,omitempty"`
	GitHub   string `json:"github,omitempty"`
	Twitter  string `json:"twitter,omitempty"`
	Email    string `json:"email,omitempty"`
}

type TeamMember struct {
	Base
	Owned
	Name        string          `json:"name" db:"name"`
	Role        string          `json:"role" db:"role"`
	Category    TeamCategory    `json:"category" db:"category"`
	Image       string          `json:"image" db:"image"`
	Bio         string          `json:"bio" db:"bio"`
	SocialLinks TeamSocialLinks `json:"socialLinks" db:"social_links"`
	Order       int             `json:"order" db:"display_order"`
}

func (m *TeamMember) Files() []string {
	return nonEmpty(m.Image)
}

type TeamFilter struct {
	Category *TeamCategory
}
