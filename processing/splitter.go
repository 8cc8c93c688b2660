package processing

import (
	"context"
	"fmt"
	"strings"

	"github.com/yumozi/ConCreate/pipeline"
)

// ScriptBreakdown is the structured output for the split call.
type ScriptBreakdown struct {
	Parts []ScriptPart `json:"parts" jsonschema_description:"The script split into ordered narration parts. Each part is roughly 10-30 words of full sentences."`
}

// ScriptPart is one narration beat plus its stock-footage query.
type ScriptPart struct {
	Text        string `json:"text" jsonschema_description:"The narration text for this part, taken verbatim from the script."`
	SearchQuery string `json:"search_query" jsonschema_description:"A concise stock video search query (1-3 words) matching this part's imagery."`
}

var scriptBreakdownSchema = GenerateSchema[ScriptBreakdown]()

// SplitScript breaks a script into ordered segments with footage queries,
// stitching each segment's previous/next narration context for the TTS
// backend. Empty parts returned by the model are dropped; an entirely
// empty breakdown is an error.
func SplitScript(ctx context.Context, script string) ([]pipeline.Segment, error) {
	client, err := newClient()
	if err != nil {
		return nil, err
	}

	prompt := fmt.Sprintf(`Split the following video script into narration parts.
Each part should be roughly 10-30 words of full sentences, in the script's original order and wording.
For each part, provide a concise stock video search query (1-3 words) describing the imagery that should play behind it.

Script:
%s`, script)

	breakdown, err := getStructuredResponse[ScriptBreakdown](ctx, client, prompt, scriptBreakdownSchema, "script_breakdown")
	if err != nil {
		return nil, fmt.Errorf("failed to split script: %w", err)
	}

	segments := StitchContext(breakdown.Parts)
	if len(segments) == 0 {
		return nil, fmt.Errorf("LLM returned no usable script parts")
	}
	return segments, nil
}

// StitchContext converts raw parts into pipeline segments, filling each
// segment's PreviousText and NextText from its neighbors. Parts with empty
// text or query are dropped so a malformed model response never reaches
// the synthesis backend.
func StitchContext(parts []ScriptPart) []pipeline.Segment {
	kept := make([]ScriptPart, 0, len(parts))
	for _, p := range parts {
		if strings.TrimSpace(p.Text) == "" || strings.TrimSpace(p.SearchQuery) == "" {
			continue
		}
		kept = append(kept, p)
	}

	segments := make([]pipeline.Segment, len(kept))
	for i, p := range kept {
		seg := pipeline.Segment{Text: p.Text, SearchQuery: p.SearchQuery}
		if i > 0 {
			seg.PreviousText = kept[i-1].Text
		}
		if i < len(kept)-1 {
			seg.NextText = kept[i+1].Text
		}
		segments[i] = seg
	}
	return segments
}
