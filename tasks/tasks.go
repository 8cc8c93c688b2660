package tasks

import "encoding/json"

// ---
// QUEUE DEFINITIONS
// ---
// All queue names are defined as constants here.
const (
	// QueueVideoRender carries queued audio-video render jobs.
	QueueVideoRender = "q_video_render"
)

// ---
// TASK PAYLOADS
// ---
// These structs are JSON-marshalled and sent to Redis.

// RenderTaskPayload is the payload for QueueVideoRender.
type RenderTaskPayload struct {
	JobID uint `json:"job_id"`
}

// Marshal creates a JSON payload for a task.
func Marshal(payload interface{}) (string, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
