// Package media wraps the local ffmpeg/ffprobe binaries behind the
// pipeline's MediaTool contract.
package media

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

const (
	// targetFPS is the normalized frame rate; together with the fixed codec
	// settings it makes trimmed clips bit-compatible for stream-copy concat.
	targetFPS = 30

	// baseStageTimeout bounds any single ffmpeg invocation; trims add
	// perSecondBudget per second of output so long clips get more headroom
	// while a hung process is still caught.
	baseStageTimeout = 2 * time.Minute
	perSecondBudget  = 5 * time.Second
)

type FFmpeg struct {
	ffmpeg  string
	ffprobe string
}

func New(ffmpegPath, ffprobePath string) *FFmpeg {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	if ffprobePath == "" {
		ffprobePath = "ffprobe"
	}
	return &FFmpeg{ffmpeg: ffmpegPath, ffprobe: ffprobePath}
}

// TrimScale cuts in to [0, shareSeconds), letterboxes to width x height,
// normalizes fps/codec/pixel format, and strips the audio track.
func (f *FFmpeg) TrimScale(ctx context.Context, in string, shareSeconds float64, width, height int, out string) error {
	ctx, cancel := stageContext(ctx, shareSeconds)
	defer cancel()

	cmd := exec.CommandContext(ctx, f.ffmpeg, trimScaleArgs(in, shareSeconds, width, height, out)...)
	if b, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("ffmpeg trim+scale: %w\n%s", err, string(b))
	}
	return nil
}

// Concat joins the files in a concat-demuxer manifest. Stream copy is
// attempted first; if the copy fails (codec mismatch) the join is retried
// with a re-encode. Each attempt runs under its own stage timeout so a
// slow copy failure doesn't starve the re-encode.
func (f *FFmpeg) Concat(ctx context.Context, listFile, out string) error {
	err := f.runConcat(ctx, listFile, out, false)
	if err == nil {
		return nil
	}
	if ctx.Err() != nil {
		return err
	}
	return f.runConcat(ctx, listFile, out, true)
}

func (f *FFmpeg) runConcat(ctx context.Context, listFile, out string, reencode bool) error {
	ctx, cancel := stageContext(ctx, 0)
	defer cancel()

	cmd := exec.CommandContext(ctx, f.ffmpeg, concatArgs(listFile, out, reencode)...)
	if b, err := cmd.CombinedOutput(); err != nil {
		if reencode {
			return fmt.Errorf("ffmpeg concat re-encode: %w\n%s", err, string(b))
		}
		return fmt.Errorf("ffmpeg concat: %w\n%s", err, string(b))
	}
	return nil
}

// Mux lays an audio track onto a silent video. -shortest bounds the output
// to the shorter of the two streams.
func (f *FFmpeg) Mux(ctx context.Context, videoIn, audioIn, out string) error {
	ctx, cancel := stageContext(ctx, 0)
	defer cancel()

	cmd := exec.CommandContext(ctx, f.ffmpeg, muxArgs(videoIn, audioIn, out)...)
	if b, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("ffmpeg mux: %w\n%s", err, string(b))
	}
	return nil
}

// ProbeDuration reports a media file's duration in seconds via ffprobe.
func (f *FFmpeg) ProbeDuration(ctx context.Context, path string) (float64, error) {
	ctx, cancel := stageContext(ctx, 0)
	defer cancel()

	cmd := exec.CommandContext(ctx, f.ffprobe,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	)
	b, err := cmd.CombinedOutput()
	if err != nil {
		return 0, fmt.Errorf("ffprobe duration: %w\n%s", err, string(b))
	}
	s := strings.TrimSpace(string(b))
	sec, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("parse duration %q: %w", s, err)
	}
	return sec, nil
}

func trimScaleArgs(in string, shareSeconds float64, width, height int, out string) []string {
	return []string{
		"-y", "-hide_banner",
		"-i", in,
		"-t", fmtSeconds(shareSeconds),
		"-vf", scaleFilter(width, height),
		"-r", strconv.Itoa(targetFPS),
		"-c:v", "libx264",
		"-preset", "veryfast",
		"-crf", "23",
		"-pix_fmt", "yuv420p",
		"-an",
		out,
	}
}

func concatArgs(listFile, out string, reencode bool) []string {
	args := []string{
		"-y", "-hide_banner",
		"-f", "concat",
		"-safe", "0",
		"-i", listFile,
	}
	if reencode {
		args = append(args,
			"-c:v", "libx264",
			"-preset", "veryfast",
			"-crf", "23",
			"-pix_fmt", "yuv420p",
		)
	} else {
		args = append(args, "-c", "copy")
	}
	return append(args, out)
}

func muxArgs(videoIn, audioIn, out string) []string {
	return []string{
		"-y", "-hide_banner",
		"-i", videoIn,
		"-i", audioIn,
		"-map", "0:v:0",
		"-map", "1:a:0",
		"-c:v", "copy",
		"-c:a", "aac",
		"-b:a", "192k",
		"-shortest",
		"-movflags", "+faststart",
		out,
	}
}

// scaleFilter fits the source inside width x height and pads the remainder,
// so the target aspect ratio holds even when the backend ignored the
// orientation filter.
func scaleFilter(width, height int) string {
	return fmt.Sprintf(
		"scale=%d:%d:force_original_aspect_ratio=decrease,pad=%d:%d:(ow-iw)/2:(oh-ih)/2,setsar=1",
		width, height, width, height,
	)
}

func fmtSeconds(sec float64) string {
	return strconv.FormatFloat(sec, 'f', 3, 64)
}

func stageContext(ctx context.Context, outputSeconds float64) (context.Context, context.CancelFunc) {
	budget := baseStageTimeout
	if outputSeconds > 0 {
		budget += time.Duration(outputSeconds * float64(perSecondBudget))
	}
	return context.WithTimeout(ctx, budget)
}
