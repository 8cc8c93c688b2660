package media

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrimScaleArgs(t *testing.T) {
	args := trimScaleArgs("in.mp4", 4.5, 1280, 720, "out.mp4")
	joined := strings.Join(args, " ")

	assert.Contains(t, joined, "-i in.mp4")
	assert.Contains(t, joined, "-t 4.500")
	assert.Contains(t, joined, "-r 30")
	assert.Contains(t, joined, "-c:v libx264")
	assert.Contains(t, joined, "-pix_fmt yuv420p")
	assert.Contains(t, joined, "-an", "trimmed clips must carry no audio track")
	assert.Equal(t, "out.mp4", args[len(args)-1])
}

func TestScaleFilterLetterboxes(t *testing.T) {
	assert.Equal(t,
		"scale=720:1280:force_original_aspect_ratio=decrease,pad=720:1280:(ow-iw)/2:(oh-ih)/2,setsar=1",
		scaleFilter(720, 1280))
}

func TestConcatArgsStreamCopy(t *testing.T) {
	joined := strings.Join(concatArgs("clips.txt", "out.mp4", false), " ")
	assert.Contains(t, joined, "-f concat")
	assert.Contains(t, joined, "-safe 0")
	assert.Contains(t, joined, "-i clips.txt")
	assert.Contains(t, joined, "-c copy")
	assert.NotContains(t, joined, "libx264")
}

func TestConcatArgsReencode(t *testing.T) {
	joined := strings.Join(concatArgs("clips.txt", "out.mp4", true), " ")
	assert.Contains(t, joined, "-c:v libx264")
	assert.NotContains(t, joined, "-c copy")
}

func TestMuxArgs(t *testing.T) {
	joined := strings.Join(muxArgs("silent.mp4", "narration.mp3", "segment.mp4"), " ")
	assert.Contains(t, joined, "-map 0:v:0")
	assert.Contains(t, joined, "-map 1:a:0")
	assert.Contains(t, joined, "-c:v copy")
	assert.Contains(t, joined, "-c:a aac")
	assert.Contains(t, joined, "-shortest", "output must be bounded by the shorter stream")
}

func TestFmtSeconds(t *testing.T) {
	assert.Equal(t, "2.500", fmtSeconds(2.5))
	assert.Equal(t, "0.000", fmtSeconds(0))
	assert.Equal(t, "10.333", fmtSeconds(10.333))
}

func TestStageContextBudget(t *testing.T) {
	ctx, cancel := stageContext(context.Background(), 10)
	defer cancel()

	deadline, ok := ctx.Deadline()
	assert.True(t, ok)
	// 2min base plus 5s per output second.
	want := time.Now().Add(baseStageTimeout + 10*perSecondBudget)
	assert.WithinDuration(t, want, deadline, 2*time.Second)
}

// stubFFmpeg writes a shell script standing in for ffmpeg: it exits 1
// when asked to stream-copy and otherwise touches its output argument.
func stubFFmpeg(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ffmpeg")
	script := `#!/bin/sh
out=
for a in "$@"; do
  [ "$a" = "copy" ] && exit 1
  out=$a
done
: > "$out"
`
	require.NoError(t, os.WriteFile(path, []byte(script), 0o755))
	return path
}

func TestConcatFallsBackToReencode(t *testing.T) {
	f := New(stubFFmpeg(t), "")

	dir := t.TempDir()
	listFile := filepath.Join(dir, "clips.txt")
	require.NoError(t, os.WriteFile(listFile, []byte("file 'a.mp4'\n"), 0o644))
	out := filepath.Join(dir, "out.mp4")

	// Stream copy fails, the re-encode attempt must still get its own
	// full stage budget and succeed.
	require.NoError(t, f.Concat(context.Background(), listFile, out))
	_, err := os.Stat(out)
	assert.NoError(t, err)
}

func TestConcatNoFallbackWhenParentContextDone(t *testing.T) {
	f := New(stubFFmpeg(t), "")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	dir := t.TempDir()
	listFile := filepath.Join(dir, "clips.txt")
	require.NoError(t, os.WriteFile(listFile, []byte("file 'a.mp4'\n"), 0o644))
	out := filepath.Join(dir, "out.mp4")
	err := f.Concat(ctx, listFile, out)
	require.Error(t, err)
	_, statErr := os.Stat(out)
	assert.True(t, os.IsNotExist(statErr))
}

func TestNewDefaultsBinaryNames(t *testing.T) {
	f := New("", "")
	assert.Equal(t, "ffmpeg", f.ffmpeg)
	assert.Equal(t, "ffprobe", f.ffprobe)

	f = New("/opt/ffmpeg/bin/ffmpeg", "/opt/ffmpeg/bin/ffprobe")
	assert.Equal(t, "/opt/ffmpeg/bin/ffmpeg", f.ffmpeg)
}
