package pipeline

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// Workspace is the isolated, run-scoped working area for intermediate
// files. Each segment gets its own subdirectory, so concurrent runs and
// concurrent segment work can never collide on filenames.
type Workspace struct {
	runID string
	root  string
}

// NewWorkspace creates a fresh working directory under baseDir (the OS
// temp dir when empty), named by a run-unique identifier.
func NewWorkspace(baseDir string) (*Workspace, error) {
	if baseDir == "" {
		baseDir = os.TempDir()
	}
	runID := uuid.NewString()
	root := filepath.Join(baseDir, "concreate-"+runID)
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create workspace: %w", err)
	}
	return &Workspace{runID: runID, root: root}, nil
}

func (w *Workspace) RunID() string { return w.runID }

func (w *Workspace) Root() string { return w.root }

// Path resolves a run-scoped file name inside the workspace.
func (w *Workspace) Path(name string) string {
	return filepath.Join(w.root, name)
}

// SegmentDir creates and returns the working subdirectory for one segment.
func (w *Workspace) SegmentDir(index int) (string, error) {
	dir := filepath.Join(w.root, fmt.Sprintf("segment_%03d", index))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create segment dir: %w", err)
	}
	return dir, nil
}

// Close removes the workspace and everything in it. Deferred by the
// orchestrator so intermediates are cleaned on every exit path.
func (w *Workspace) Close() error {
	return os.RemoveAll(w.root)
}
