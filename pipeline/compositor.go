package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Compositor turns one segment's allocation and narration into a single
// finished clip: fetch each allocated candidate, trim and scale it to its
// share, concatenate the silent clips, then mux the narration on top.
type Compositor struct {
	Fetcher Downloader
	Media   MediaTool
}

// ComposeSegment runs the per-segment media stages inside dir and returns
// the path of the finished clip. onState, when non-nil, is invoked after
// each completed stage with the matching segment state.
func (c *Compositor) ComposeSegment(
	ctx context.Context,
	dir string,
	index int,
	narration NarrationResult,
	alloc FootageAllocation,
	width, height int,
	onState func(state string),
) (string, error) {
	notify := func(state string) {
		if onState != nil {
			onState(state)
		}
	}

	audioPath := filepath.Join(dir, "narration.mp3")
	if err := os.WriteFile(audioPath, narration.Audio, 0o644); err != nil {
		return "", segmentErr(index, StageSynthesis, fmt.Errorf("write narration: %w", err))
	}

	// Fetch all allocated candidates before transcoding anything, so a dead
	// link fails the segment as cheaply as possible.
	raws := make([]string, len(alloc))
	for i, clip := range alloc {
		raw := filepath.Join(dir, fmt.Sprintf("raw_%03d.mp4", i))
		if err := c.Fetcher.Fetch(ctx, clip.Candidate.DownloadURL, raw); err != nil {
			return "", segmentErr(index, StageDownload, err)
		}
		raws[i] = raw
	}
	notify(StateDownloaded)

	trimmed := make([]string, len(alloc))
	for i, clip := range alloc {
		out := filepath.Join(dir, fmt.Sprintf("clip_%03d.mp4", i))
		if err := c.Media.TrimScale(ctx, raws[i], clip.ShareSeconds, width, height, out); err != nil {
			return "", segmentErr(index, StageTranscode, fmt.Errorf("%w: %v", ErrTranscodeFailure, err))
		}
		trimmed[i] = out
	}
	notify(StateTranscoded)

	listFile := filepath.Join(dir, "clips.txt")
	if err := WriteConcatManifest(listFile, trimmed); err != nil {
		return "", segmentErr(index, StageConcat, err)
	}
	silent := filepath.Join(dir, "silent.mp4")
	if err := c.Media.Concat(ctx, listFile, silent); err != nil {
		return "", segmentErr(index, StageConcat, fmt.Errorf("%w: %v", ErrConcatenationFailure, err))
	}
	notify(StateConcatenated)

	// The trimmed clips carry no audio track, so muxing the narration onto
	// the concatenated video bounds the output to the shorter stream.
	finished := filepath.Join(dir, "segment.mp4")
	if err := c.Media.Mux(ctx, silent, audioPath, finished); err != nil {
		return "", segmentErr(index, StageMux, fmt.Errorf("%w: %v", ErrTranscodeFailure, err))
	}
	notify(StateMuxed)

	return finished, nil
}

// WriteConcatManifest writes an ffmpeg concat-demuxer file list. Paths are
// quoted and single quotes escaped per the demuxer's quoting rules.
func WriteConcatManifest(path string, files []string) error {
	var b strings.Builder
	for _, f := range files {
		fmt.Fprintf(&b, "file '%s'\n", escapeConcatPath(f))
	}
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("write concat manifest: %w", err)
	}
	return nil
}

func escapeConcatPath(p string) string {
	return strings.ReplaceAll(p, "'", `'\''`)
}
