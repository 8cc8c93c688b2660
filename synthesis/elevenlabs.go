// Package synthesis adapts the ElevenLabs text-to-speech API to the
// pipeline's NarrationSynthesizer contract.
package synthesis

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/yumozi/ConCreate/pipeline"
)

const (
	defaultBaseURL = "https://api.elevenlabs.io"
	defaultModelID = "eleven_multilingual_v2"

	// 44.1kHz 128kbps MP3.
	outputFormat = "mp3_44100_128"

	defaultTimeout = 60 * time.Second
)

type Client struct {
	APIKey  string
	BaseURL string
	ModelID string
	HTTP    *http.Client
}

func NewClient(apiKey string) *Client {
	return &Client{
		APIKey:  apiKey,
		BaseURL: defaultBaseURL,
		ModelID: defaultModelID,
		HTTP:    &http.Client{Timeout: defaultTimeout},
	}
}

type convertRequest struct {
	Text         string `json:"text"`
	ModelID      string `json:"model_id"`
	PreviousText string `json:"previous_text,omitempty"`
	NextText     string `json:"next_text,omitempty"`
}

// alignment is the character-to-time map returned alongside the audio. The
// final end offset is the authoritative narration duration.
type alignment struct {
	Characters               []string  `json:"characters"`
	CharacterStartTimesSecs  []float64 `json:"character_start_times_seconds"`
	CharacterEndTimesSeconds []float64 `json:"character_end_times_seconds"`
}

type convertResponse struct {
	AudioBase64 string     `json:"audio_base64"`
	Alignment   *alignment `json:"alignment"`
}

// Synthesize converts one segment's text to speech with the surrounding
// text as prosody context. It fails with ErrSynthesisFailure when the
// backend returns no audio payload or no timing alignment; the duration is
// never estimated from the encoded byte size.
func (c *Client) Synthesize(ctx context.Context, voiceID string, seg pipeline.Segment) (pipeline.NarrationResult, error) {
	body, err := json.Marshal(convertRequest{
		Text:         seg.Text,
		ModelID:      c.ModelID,
		PreviousText: seg.PreviousText,
		NextText:     seg.NextText,
	})
	if err != nil {
		return pipeline.NarrationResult{}, fmt.Errorf("marshal synthesis request: %w", err)
	}

	url := fmt.Sprintf("%s/v1/text-to-speech/%s/with-timestamps?output_format=%s", c.BaseURL, voiceID, outputFormat)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return pipeline.NarrationResult{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("xi-api-key", c.APIKey)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return pipeline.NarrationResult{}, fmt.Errorf("%w: %v", pipeline.ErrSynthesisFailure, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return pipeline.NarrationResult{}, fmt.Errorf("%w: elevenlabs returned %s: %s",
			pipeline.ErrSynthesisFailure, resp.Status, string(b))
	}

	var out convertResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return pipeline.NarrationResult{}, fmt.Errorf("%w: decode response: %v", pipeline.ErrSynthesisFailure, err)
	}
	if out.AudioBase64 == "" {
		return pipeline.NarrationResult{}, fmt.Errorf("%w: no audio payload", pipeline.ErrSynthesisFailure)
	}
	if out.Alignment == nil || len(out.Alignment.CharacterEndTimesSeconds) == 0 {
		return pipeline.NarrationResult{}, fmt.Errorf("%w: no timing alignment", pipeline.ErrSynthesisFailure)
	}

	audio, err := base64.StdEncoding.DecodeString(out.AudioBase64)
	if err != nil {
		return pipeline.NarrationResult{}, fmt.Errorf("%w: decode audio: %v", pipeline.ErrSynthesisFailure, err)
	}

	ends := out.Alignment.CharacterEndTimesSeconds
	duration := ends[len(ends)-1]
	if duration <= 0 {
		return pipeline.NarrationResult{}, fmt.Errorf("%w: alignment reports zero duration", pipeline.ErrSynthesisFailure)
	}

	return pipeline.NarrationResult{Audio: audio, DurationSeconds: duration}, nil
}
