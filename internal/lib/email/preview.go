package email

import "time"

// PreviewData holds sample values for rendering each template locally.
var PreviewData = map[Template]map[string]any{
	TemplateWelcome: {
		"Username": "ada",
		"ClubName": "Robotics Club",
	},
	TemplatePasswordChanged: {
		"Username":  "ada",
		"ClubName":  "Robotics Club",
		"ChangedAt": time.Date(2025, time.March, 1, 14, 30, 0, 0, time.UTC),
	},
}
