package pipeline

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"
)

// DefaultMaxCandidates is how many footage candidates are fetched per
// search query when the config doesn't say otherwise.
const DefaultMaxCandidates = 5

// Deps are the injected collaborators the orchestrator drives. Tests
// substitute fakes; production wiring lives in internal/platform.
type Deps struct {
	Synth   NarrationSynthesizer
	Footage FootageResolver
	Fetcher Downloader
	Media   MediaTool
}

// Config carries run-independent orchestrator settings.
type Config struct {
	// WorkDir is the base for run workspaces. Empty means the OS temp dir.
	WorkDir string
	// PublicDir is where final artifacts land, served under /videos.
	PublicDir string
	// MaxCandidates caps footage candidates fetched per query.
	MaxCandidates int
}

// Orchestrator drives the segment loop and the final join. Segments are
// processed sequentially in input order; within a segment, narration
// synthesis and footage search run concurrently since they are independent.
type Orchestrator struct {
	deps Deps
	cfg  Config
	comp *Compositor
}

func New(deps Deps, cfg Config) *Orchestrator {
	if cfg.MaxCandidates <= 0 {
		cfg.MaxCandidates = DefaultMaxCandidates
	}
	if cfg.PublicDir == "" {
		cfg.PublicDir = "public/videos"
	}
	return &Orchestrator{
		deps: deps,
		cfg:  cfg,
		comp: &Compositor{Fetcher: deps.Fetcher, Media: deps.Media},
	}
}

// Run renders all segments and concatenates them into the final video.
// Any stage error aborts the whole run; no partial video is ever produced.
func (o *Orchestrator) Run(ctx context.Context, voiceID string, segments []Segment, orientation Orientation) (Result, error) {
	return o.RunObserved(ctx, voiceID, segments, orientation, nil)
}

// RunObserved is Run with a per-segment state callback, used by the worker
// to persist state-machine transitions.
func (o *Orchestrator) RunObserved(
	ctx context.Context,
	voiceID string,
	segments []Segment,
	orientation Orientation,
	onState func(index int, state string),
) (result Result, err error) {
	if !orientation.Valid() {
		return Result{}, fmt.Errorf("invalid orientation %q", orientation)
	}
	if len(segments) == 0 {
		return Result{}, fmt.Errorf("%w: no segments", ErrMalformedSegment)
	}
	// Validate every segment up front so a malformed one fails fast,
	// before any synthesis call is spent.
	for i, seg := range segments {
		if strings.TrimSpace(seg.Text) == "" {
			return Result{}, segmentErr(i, StageValidate, fmt.Errorf("%w: empty text", ErrMalformedSegment))
		}
		if strings.TrimSpace(seg.SearchQuery) == "" {
			return Result{}, segmentErr(i, StageValidate, fmt.Errorf("%w: empty search query", ErrMalformedSegment))
		}
	}

	ws, err := NewWorkspace(o.cfg.WorkDir)
	if err != nil {
		return Result{}, err
	}
	// Intermediates are removed on every exit path, success or failure.
	defer func() {
		if cerr := ws.Close(); cerr != nil {
			log.Printf("Run %s: workspace cleanup failed: %v", ws.RunID(), cerr)
		}
	}()

	width, height := orientation.Resolution()
	log.Printf("Run %s: %d segments, voice=%s, %dx%d", ws.RunID(), len(segments), voiceID, width, height)

	notify := func(index int, state string) {
		if onState != nil {
			onState(index, state)
		}
	}

	artifacts := make([]string, 0, len(segments))
	for i, seg := range segments {
		artifact, serr := o.renderSegment(ctx, ws, voiceID, i, seg, orientation, width, height, notify)
		if serr != nil {
			notify(i, StateFailed)
			return Result{}, serr
		}
		notify(i, StateDone)
		artifacts = append(artifacts, artifact)
	}

	// Final join, same concat method as the per-segment stage. Artifacts
	// are listed in original input order.
	listFile := ws.Path("segments.txt")
	if werr := WriteConcatManifest(listFile, artifacts); werr != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrConcatenationFailure, werr)
	}
	finalTmp := ws.Path("final_video.mp4")
	if cerr := o.deps.Media.Concat(ctx, listFile, finalTmp); cerr != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrConcatenationFailure, cerr)
	}

	if dur, perr := o.deps.Media.ProbeDuration(ctx, finalTmp); perr == nil {
		log.Printf("Run %s: final video is %.2fs", ws.RunID(), dur)
	}

	finalName := fmt.Sprintf("final_video_%s.mp4", ws.RunID())
	finalPath := filepath.Join(o.cfg.PublicDir, finalName)
	if merr := moveFile(finalTmp, finalPath); merr != nil {
		return Result{}, fmt.Errorf("publish final video: %w", merr)
	}

	return Result{
		RunID:        ws.RunID(),
		VideoPath:    finalPath,
		VideoURL:     "/videos/" + finalName,
		SegmentCount: len(segments),
	}, nil
}

// renderSegment runs synthesize ‖ search, then allocate and composite, for
// one segment.
func (o *Orchestrator) renderSegment(
	ctx context.Context,
	ws *Workspace,
	voiceID string,
	index int,
	seg Segment,
	orientation Orientation,
	width, height int,
	notify func(index int, state string),
) (string, error) {
	var (
		narration  NarrationResult
		candidates []FootageCandidate
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := o.deps.Synth.Synthesize(gctx, voiceID, seg)
		if err != nil {
			return segmentErr(index, StageSynthesis, err)
		}
		if n.DurationSeconds <= 0 {
			return segmentErr(index, StageSynthesis,
				fmt.Errorf("%w: backend reported no duration", ErrSynthesisFailure))
		}
		narration = n
		return nil
	})
	g.Go(func() error {
		c, err := o.deps.Footage.Search(gctx, seg.SearchQuery, o.cfg.MaxCandidates, orientation)
		if err != nil {
			return segmentErr(index, StageSearch, err)
		}
		candidates = c
		return nil
	})
	if err := g.Wait(); err != nil {
		return "", err
	}
	notify(index, StateFootageResolved)
	log.Printf("Run %s: segment %d narration %.2fs, %d candidates",
		ws.RunID(), index, narration.DurationSeconds, len(candidates))

	alloc, err := Allocate(candidates, narration.DurationSeconds)
	if err != nil {
		return "", segmentErr(index, StageAllocate, err)
	}
	notify(index, StateAllocated)

	dir, err := ws.SegmentDir(index)
	if err != nil {
		return "", segmentErr(index, StageDownload, err)
	}
	return o.comp.ComposeSegment(ctx, dir, index, narration, alloc, width, height, func(state string) {
		notify(index, state)
	})
}

// moveFile copies src to dst (creating dst's directory) and removes src.
// A plain rename can fail across filesystems, and workspaces commonly live
// on a different mount than the public directory.
func moveFile(src, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	return os.Remove(src)
}
