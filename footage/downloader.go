package footage

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/yumozi/ConCreate/pipeline"
)

const downloadTimeout = 3 * time.Minute

// Downloader streams remote media files to local working storage.
type Downloader struct {
	HTTP *http.Client
}

func NewDownloader() *Downloader {
	return &Downloader{HTTP: &http.Client{Timeout: downloadTimeout}}
}

// Fetch downloads url to dest. A non-success transfer fails with
// ErrDownloadFailure and leaves no partial file behind.
func (d *Downloader) Fetch(ctx context.Context, url, dest string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}

	resp, err := d.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", pipeline.ErrDownloadFailure, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: %s returned %s", pipeline.ErrDownloadFailure, url, resp.Status)
	}

	out, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("create %s: %w", dest, err)
	}
	if _, err := io.Copy(out, resp.Body); err != nil {
		out.Close()
		os.Remove(dest)
		return fmt.Errorf("%w: %v", pipeline.ErrDownloadFailure, err)
	}
	return out.Close()
}
