package models

import "time"

// RenderSegment is one narration beat inside a render job. Status follows
// the per-segment state machine: pending, footage_resolved, allocated,
// downloaded, transcoded, concatenated, muxed, done, failed.
type RenderSegment struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	JobID        uint      `gorm:"not null;index" json:"job_id"`
	Position     int       `gorm:"not null" json:"position"`
	Text         string    `gorm:"type:text;not null" json:"text"`
	SearchQuery  string    `gorm:"size:255;not null" json:"search_query"`
	PreviousText string    `gorm:"type:text" json:"previous_text,omitempty"`
	NextText     string    `gorm:"type:text" json:"next_text,omitempty"`
	Status       string    `gorm:"default:'pending'" json:"status"`
	CreatedAt    time.Time `json:"created_at"`
}

func (RenderSegment) TableName() string {
	return "render_segments"
}
