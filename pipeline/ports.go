package pipeline

import "context"

// NarrationSynthesizer converts one segment's text into speech audio with a
// backend-reported duration. One outbound call per segment, no retries at
// this layer.
type NarrationSynthesizer interface {
	Synthesize(ctx context.Context, voiceID string, seg Segment) (NarrationResult, error)
}

// FootageResolver returns ranked stock-footage candidates for a query.
// Orientation is a pass-through filter; scaling downstream enforces the
// aspect ratio regardless.
type FootageResolver interface {
	Search(ctx context.Context, query string, count int, orientation Orientation) ([]FootageCandidate, error)
}

// Downloader fetches a remote media file to local working storage.
type Downloader interface {
	Fetch(ctx context.Context, url, dest string) error
}

// MediaTool is the local media-transform backend (ffmpeg in production).
type MediaTool interface {
	// TrimScale cuts in to [0, shareSeconds), letterboxes it to width x
	// height, normalizes frame rate and codec, and drops the audio track.
	TrimScale(ctx context.Context, in string, shareSeconds float64, width, height int, out string) error
	// Concat joins the clips listed in a concat-demuxer manifest. Stream
	// copy when codecs match, re-encode fallback otherwise.
	Concat(ctx context.Context, listFile, out string) error
	// Mux lays the narration audio onto a silent video track; the shorter
	// stream bounds the output.
	Mux(ctx context.Context, videoIn, audioIn, out string) error
	// ProbeDuration reports a media file's duration in seconds.
	ProbeDuration(ctx context.Context, path string) (float64, error)
}
