package synthesis

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yumozi/ConCreate/pipeline"
)

func testClient(url string) *Client {
	c := NewClient("test-key")
	c.BaseURL = url
	return c
}

func TestSynthesizeUsesAlignmentDuration(t *testing.T) {
	audio := []byte("fake-mp3-bytes")
	var gotReq convertRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/text-to-speech/voice-42/with-timestamps", r.URL.Path)
		assert.Equal(t, "mp3_44100_128", r.URL.Query().Get("output_format"))
		assert.Equal(t, "test-key", r.Header.Get("xi-api-key"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))

		json.NewEncoder(w).Encode(convertResponse{
			AudioBase64: base64.StdEncoding.EncodeToString(audio),
			Alignment: &alignment{
				Characters:               []string{"h", "i"},
				CharacterEndTimesSeconds: []float64{0.4, 4.25},
			},
		})
	}))
	defer srv.Close()

	res, err := testClient(srv.URL).Synthesize(context.Background(), "voice-42", pipeline.Segment{
		Text:         "hi",
		SearchQuery:  "greeting",
		PreviousText: "before",
		NextText:     "after",
	})
	require.NoError(t, err)

	assert.Equal(t, audio, res.Audio)
	// Duration is the last alignment end offset, not a byte-size estimate.
	assert.Equal(t, 4.25, res.DurationSeconds)

	assert.Equal(t, "hi", gotReq.Text)
	assert.Equal(t, "eleven_multilingual_v2", gotReq.ModelID)
	assert.Equal(t, "before", gotReq.PreviousText)
	assert.Equal(t, "after", gotReq.NextText)
}

func TestSynthesizeMissingAudio(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(convertResponse{
			Alignment: &alignment{CharacterEndTimesSeconds: []float64{1.0}},
		})
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).Synthesize(context.Background(), "v", pipeline.Segment{Text: "x", SearchQuery: "q"})
	assert.ErrorIs(t, err, pipeline.ErrSynthesisFailure)
}

func TestSynthesizeMissingAlignment(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(convertResponse{
			AudioBase64: base64.StdEncoding.EncodeToString([]byte("audio")),
		})
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).Synthesize(context.Background(), "v", pipeline.Segment{Text: "x", SearchQuery: "q"})
	assert.ErrorIs(t, err, pipeline.ErrSynthesisFailure)
}

func TestSynthesizeBackendError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"detail":"quota exceeded"}`, http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).Synthesize(context.Background(), "v", pipeline.Segment{Text: "x", SearchQuery: "q"})
	require.Error(t, err)
	assert.ErrorIs(t, err, pipeline.ErrSynthesisFailure)
	assert.Contains(t, err.Error(), "quota exceeded")
}

func TestSynthesizeZeroDuration(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(convertResponse{
			AudioBase64: base64.StdEncoding.EncodeToString([]byte("audio")),
			Alignment:   &alignment{CharacterEndTimesSeconds: []float64{0}},
		})
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).Synthesize(context.Background(), "v", pipeline.Segment{Text: "x", SearchQuery: "q"})
	assert.ErrorIs(t, err, pipeline.ErrSynthesisFailure)
}
