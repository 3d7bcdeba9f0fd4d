package domain

import "time"

// RoseRendered announces one image written by a run.
type RoseRendered struct {
	RunID      string    `json:"run_id"`
	Station    string    `json:"station"`
	Source     string    `json:"source"`
	RoseType   string    `json:"rose_type"`
	Label      string    `json:"label"`
	Path       string    `json:"path"`
	Rows       int       `json:"rows"`
	FirstYear  int       `json:"first_year"`
	LastYear   int       `json:"last_year"`
	RenderedAt time.Time `json:"rendered_at"`
}
