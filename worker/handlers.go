package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/yumozi/ConCreate/models"
	"github.com/yumozi/ConCreate/pipeline"
	"github.com/yumozi/ConCreate/tasks"
)

// HandleRenderVideo processes tasks from QueueVideoRender: it loads the
// job and its segments, drives the pipeline, and persists every segment
// state transition plus the final outcome.
func (p *Processor) HandleRenderVideo(ctx context.Context, payload string) error {
	var task tasks.RenderTaskPayload
	if err := json.Unmarshal([]byte(payload), &task); err != nil {
		return err
	}

	log.Printf("Rendering job %d", task.JobID)
	var job models.RenderJob
	if err := p.DB.Preload("Segments").First(&job, task.JobID).Error; err != nil {
		return err
	}

	segments, err := segmentsFromRecords(job.Segments)
	if err != nil {
		p.DB.Model(&job).Updates(map[string]interface{}{
			"status":        "failed",
			"error_message": err.Error(),
		})
		return err
	}

	p.DB.Model(&job).Update("status", "processing")

	onState := func(index int, state string) {
		p.DB.Model(&models.RenderSegment{}).
			Where("job_id = ? AND position = ?", job.ID, index).
			Update("status", state)
	}

	result, err := p.Runner.RunObserved(ctx, job.VoiceID, segments, pipeline.Orientation(job.Orientation), onState)
	if err != nil {
		updates := map[string]interface{}{
			"status":        "failed",
			"error_message": err.Error(),
		}
		var segErr *pipeline.SegmentError
		if errors.As(err, &segErr) {
			idx := segErr.Index
			updates["failed_index"] = &idx
			updates["failed_stage"] = string(segErr.Stage)
		}
		p.DB.Model(&job).Updates(updates)
		return err
	}

	if err := p.DB.Model(&job).Updates(map[string]interface{}{
		"status":    "complete",
		"run_id":    result.RunID,
		"video_url": result.VideoURL,
	}).Error; err != nil {
		return err
	}
	log.Printf("Completed job %d: %s", job.ID, result.VideoURL)
	return nil
}

// segmentsFromRecords rebuilds the ordered pipeline input from persisted
// segment rows. Positions must form a permutation of 0..n-1; a corrupt job
// fails instead of panicking the worker loop.
func segmentsFromRecords(records []models.RenderSegment) ([]pipeline.Segment, error) {
	segments := make([]pipeline.Segment, len(records))
	seen := make([]bool, len(records))
	for _, rec := range records {
		if rec.Position < 0 || rec.Position >= len(records) {
			return nil, fmt.Errorf("segment position %d out of range for %d segments", rec.Position, len(records))
		}
		if seen[rec.Position] {
			return nil, fmt.Errorf("duplicate segment position %d", rec.Position)
		}
		seen[rec.Position] = true
		segments[rec.Position] = pipeline.Segment{
			Text:         rec.Text,
			SearchQuery:  rec.SearchQuery,
			PreviousText: rec.PreviousText,
			NextText:     rec.NextText,
		}
	}
	return segments, nil
}
