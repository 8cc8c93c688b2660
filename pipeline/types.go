package pipeline

// Segment is one narration beat produced by the script splitter. Segments
// are immutable once received and play in array order.
type Segment struct {
	Text         string `json:"text" binding:"required"`
	SearchQuery  string `json:"searchQuery" binding:"required"`
	PreviousText string `json:"previousText,omitempty"`
	NextText     string `json:"nextText,omitempty"`
}

// Orientation selects the final frame geometry.
type Orientation string

const (
	OrientationLandscape Orientation = "landscape"
	OrientationPortrait  Orientation = "portrait"
)

func (o Orientation) Valid() bool {
	return o == OrientationLandscape || o == OrientationPortrait
}

// Resolution returns the target width and height for the orientation.
// Landscape renders at 1280x720, portrait at 720x1280.
func (o Orientation) Resolution() (width, height int) {
	if o == OrientationPortrait {
		return 720, 1280
	}
	return 1280, 720
}

// NarrationResult is the synthesized speech for one segment. Duration comes
// from the backend's timing alignment, never from the encoded byte size.
type NarrationResult struct {
	Audio           []byte
	DurationSeconds float64
}

// FootageCandidate is one stock clip returned by the resolver, in relevance
// order.
type FootageCandidate struct {
	DownloadURL     string
	DurationSeconds float64
}

// AllocatedClip pairs a selected candidate with its playable share of the
// target duration.
type AllocatedClip struct {
	Candidate    FootageCandidate
	ShareSeconds float64
}

// FootageAllocation is an ordered set of clips whose shares sum to the
// allocation target.
type FootageAllocation []AllocatedClip

// TotalShareSeconds is the sum of all allocated shares.
func (a FootageAllocation) TotalShareSeconds() float64 {
	var total float64
	for _, c := range a {
		total += c.ShareSeconds
	}
	return total
}

// Result is the terminal output of a pipeline run.
type Result struct {
	RunID        string
	VideoPath    string
	VideoURL     string
	SegmentCount int
}

// Segment states, persisted by callers that track per-segment progress.
const (
	StatePending         = "pending"
	StateFootageResolved = "footage_resolved"
	StateAllocated       = "allocated"
	StateDownloaded      = "downloaded"
	StateTranscoded      = "transcoded"
	StateConcatenated    = "concatenated"
	StateMuxed           = "muxed"
	StateDone            = "done"
	StateFailed          = "failed"
)
