package models

import (
	"time"
)

// RenderJob is one audio-video pipeline run. Status moves through
// pending -> processing -> complete, or failed with the failing segment
// index and stage recorded.
type RenderJob struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	RunID        string    `gorm:"size:64;index" json:"run_id,omitempty"`
	VoiceID      string    `gorm:"size:64;not null" json:"voice_id"`
	Orientation  string    `gorm:"size:16;not null;default:'landscape'" json:"orientation"`
	Status       string    `gorm:"default:'pending'" json:"status"`
	VideoURL     string    `json:"video_url,omitempty"`
	FailedIndex  *int      `json:"failed_segment,omitempty"`
	FailedStage  string    `gorm:"size:32" json:"failed_stage,omitempty"`
	ErrorMessage string    `gorm:"type:text" json:"error,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	Segments []RenderSegment `gorm:"foreignKey:JobID" json:"segments,omitempty"`
}

func (RenderJob) TableName() string {
	return "render_jobs"
}
