package platform

import (
	"os"

	"github.com/yumozi/ConCreate/footage"
	"github.com/yumozi/ConCreate/media"
	"github.com/yumozi/ConCreate/pipeline"
	"github.com/yumozi/ConCreate/synthesis"
)

// PublicVideoDir is where finished videos are published and served from.
func PublicVideoDir() string {
	if dir := os.Getenv("PUBLIC_VIDEO_DIR"); dir != "" {
		return dir
	}
	return "public/videos"
}

// NewOrchestrator wires the production pipeline collaborators from the
// environment: ElevenLabs for narration, Pexels for footage, local ffmpeg
// for media transforms.
func NewOrchestrator() *pipeline.Orchestrator {
	deps := pipeline.Deps{
		Synth:   synthesis.NewClient(os.Getenv("ELEVENLABS_API_KEY")),
		Footage: footage.NewClient(os.Getenv("PEXELS_API_KEY")),
		Fetcher: footage.NewDownloader(),
		Media:   media.New(os.Getenv("FFMPEG_PATH"), os.Getenv("FFPROBE_PATH")),
	}
	cfg := pipeline.Config{
		WorkDir:   os.Getenv("PIPELINE_WORK_DIR"),
		PublicDir: PublicVideoDir(),
	}
	return pipeline.New(deps, cfg)
}
