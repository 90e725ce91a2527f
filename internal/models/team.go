package models

// Team is the normalized roster entry used by the team selector.
type Team struct {
	ID           string  `json:"id"`
	TeamNumber   string  `json:"teamNumber"`
	Name         string  `json:"name"`
	Organization *string `json:"organization,omitempty"`
}
