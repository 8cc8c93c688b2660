// Package footage resolves search queries to stock video candidates via
// the Pexels videos API and fetches the selected media files.
package footage

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/yumozi/ConCreate/pipeline"
)

const (
	defaultBaseURL = "https://api.pexels.com"
	defaultTimeout = 30 * time.Second
)

type Client struct {
	APIKey  string
	BaseURL string
	HTTP    *http.Client
}

func NewClient(apiKey string) *Client {
	return &Client{
		APIKey:  apiKey,
		BaseURL: defaultBaseURL,
		HTTP:    &http.Client{Timeout: defaultTimeout},
	}
}

type searchResponse struct {
	Videos []struct {
		Duration   float64 `json:"duration"`
		VideoFiles []struct {
			Link   string `json:"link"`
			Width  int    `json:"width"`
			Height int    `json:"height"`
		} `json:"video_files"`
	} `json:"videos"`
}

// Search returns up to count candidates in Pexels relevance order. Each
// candidate uses the video's first file variant. A query with zero results
// fails with ErrNoFootageFound.
func (c *Client) Search(ctx context.Context, query string, count int, orientation pipeline.Orientation) ([]pipeline.FootageCandidate, error) {
	q := url.Values{}
	q.Set("query", query)
	q.Set("per_page", strconv.Itoa(count))
	q.Set("orientation", string(orientation))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/videos/search?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", c.APIKey)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("pexels search: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("pexels search returned %s: %s", resp.Status, string(b))
	}

	var out searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode pexels response: %w", err)
	}

	candidates := make([]pipeline.FootageCandidate, 0, len(out.Videos))
	for _, v := range out.Videos {
		if len(v.VideoFiles) == 0 {
			continue
		}
		candidates = append(candidates, pipeline.FootageCandidate{
			DownloadURL:     v.VideoFiles[0].Link,
			DurationSeconds: v.Duration,
		})
	}
	if len(candidates) == 0 {
		return nil, fmt.Errorf("%w: query %q", pipeline.ErrNoFootageFound, query)
	}
	return candidates, nil
}
