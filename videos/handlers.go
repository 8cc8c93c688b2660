// Package videos exposes the script and video generation HTTP endpoints.
package videos

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"

	"github.com/yumozi/ConCreate/models"
	"github.com/yumozi/ConCreate/pipeline"
	"github.com/yumozi/ConCreate/processing"
	"github.com/yumozi/ConCreate/tasks"
)

// Runner is the slice of the pipeline orchestrator the handlers need.
type Runner interface {
	Run(ctx context.Context, voiceID string, segments []pipeline.Segment, orientation pipeline.Orientation) (pipeline.Result, error)
}

type Handler struct {
	DB     *gorm.DB
	Redis  *redis.Client
	Runner Runner
}

func NewHandler(db *gorm.DB, rdb *redis.Client, runner Runner) *Handler {
	return &Handler{DB: db, Redis: rdb, Runner: runner}
}

type GenerateScriptRequest struct {
	Description string `json:"description" binding:"required"`
	VideoLength string `json:"videoLength"`
}

func (h *Handler) GenerateScript(c *gin.Context) {
	var req GenerateScriptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	script, err := processing.GenerateScript(c.Request.Context(), req.Description, req.VideoLength)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate script"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"script": script})
}

type SplitScriptRequest struct {
	Script string `json:"script" binding:"required"`
}

func (h *Handler) SplitScript(c *gin.Context) {
	var req SplitScriptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	parts, err := processing.SplitScript(c.Request.Context(), req.Script)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to split script"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"parts": parts})
}

type GenerateAudioVideoRequest struct {
	VoiceID          string             `json:"voiceId" binding:"required"`
	Parts            []pipeline.Segment `json:"parts" binding:"required"`
	VideoOrientation string             `json:"videoOrientation"`
}

func (r GenerateAudioVideoRequest) orientation() pipeline.Orientation {
	if r.VideoOrientation == "" {
		return pipeline.OrientationLandscape
	}
	return pipeline.Orientation(r.VideoOrientation)
}

// GenerateAudioVideo runs the full pipeline synchronously and returns the
// final video URL. Failures identify the failing segment and stage.
func (h *Handler) GenerateAudioVideo(c *gin.Context) {
	var req GenerateAudioVideoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	orientation := req.orientation()
	if !orientation.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "videoOrientation must be landscape or portrait"})
		return
	}

	job := h.createJob(c, req, "processing")

	result, err := h.Runner.Run(c.Request.Context(), req.VoiceID, req.Parts, orientation)
	if err != nil {
		h.markJobFailed(job, err)
		body := gin.H{"error": err.Error()}
		var segErr *pipeline.SegmentError
		if errors.As(err, &segErr) {
			body["segmentIndex"] = segErr.Index
			body["stage"] = string(segErr.Stage)
		}
		status := http.StatusBadGateway
		if errors.Is(err, pipeline.ErrMalformedSegment) {
			status = http.StatusBadRequest
		}
		c.JSON(status, body)
		return
	}

	h.markJobComplete(job, result)
	c.JSON(http.StatusOK, gin.H{"videoUrl": result.VideoURL})
}

// CreateVideo queues a render job for the worker and returns immediately.
func (h *Handler) CreateVideo(c *gin.Context) {
	var req GenerateAudioVideoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !req.orientation().Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "videoOrientation must be landscape or portrait"})
		return
	}

	job := h.createJob(c, req, "pending")
	if job == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create render job"})
		return
	}

	payload, err := tasks.Marshal(tasks.RenderTaskPayload{JobID: job.ID})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to queue render job"})
		return
	}
	if err := h.Redis.LPush(c.Request.Context(), tasks.QueueVideoRender, payload).Err(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to queue render job"})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"jobId": job.ID})
}

// GetVideo returns a render job with its per-segment states.
func (h *Handler) GetVideo(c *gin.Context) {
	jobID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid job ID"})
		return
	}

	var job models.RenderJob
	if err := h.DB.Preload("Segments").First(&job, jobID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Job not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		}
		return
	}

	c.JSON(http.StatusOK, job)
}

// createJob persists the run and its segments when a DB is configured.
func (h *Handler) createJob(c *gin.Context, req GenerateAudioVideoRequest, status string) *models.RenderJob {
	if h.DB == nil {
		return nil
	}

	job := models.RenderJob{
		VoiceID:     req.VoiceID,
		Orientation: string(req.orientation()),
		Status:      status,
	}
	for i, part := range req.Parts {
		job.Segments = append(job.Segments, models.RenderSegment{
			Position:     i,
			Text:         part.Text,
			SearchQuery:  part.SearchQuery,
			PreviousText: part.PreviousText,
			NextText:     part.NextText,
		})
	}
	if err := h.DB.Create(&job).Error; err != nil {
		return nil
	}
	return &job
}

func (h *Handler) markJobFailed(job *models.RenderJob, err error) {
	if h.DB == nil || job == nil {
		return
	}
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
	h.DB.Model(job).Updates(updates)
}

func (h *Handler) markJobComplete(job *models.RenderJob, result pipeline.Result) {
	if h.DB == nil || job == nil {
		return
	}
	h.DB.Model(job).Updates(map[string]interface{}{
		"status":    "complete",
		"run_id":    result.RunID,
		"video_url": result.VideoURL,
	})
	h.DB.Model(&models.RenderSegment{}).
		Where("job_id = ?", job.ID).
		Update("status", pipeline.StateDone)
}
