package jobposting

import (
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

const (
	defaultUserAgent = "job-assistant-agent (resume fit scoring)"
	contentEncoding  = "gzip, deflate"
)

// Fetcher turns a job-posting URL into plain text. Implementations may return
// an empty string when the page yields no extractable text; judging whether
// the text is usable is the caller's concern.
type Fetcher interface {
	FetchJobDescription(ctx context.Context, url string) (string, error)
}

// Client fetches job postings over HTTP and reduces them to plain text.
type Client struct {
	HTTPClient *http.Client
	UserAgent  string

	logger *zap.Logger
}

// NewClient creates a fetcher with the default timeout and user agent.
func NewClient(logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		UserAgent: defaultUserAgent,
		logger:    logger,
	}
}

var _ Fetcher = (*Client)(nil)

// FetchJobDescription downloads the posting and extracts its visible text.
func (c *Client) FetchJobDescription(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}

	req.Header.Set("User-Agent", c.UserAgent)
	req.Header.Set("Accept-Encoding", contentEncoding)

	c.logger.Debug("fetching job posting", zap.String("url", url))

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch job posting: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch job posting: bad status: %s", resp.Status)
	}

	var reader io.Reader = resp.Body
	if resp.Header.Get("Content-Encoding") == "gzip" {
		gzipReader, err := gzip.NewReader(resp.Body)
		if err != nil {
			return "", fmt.Errorf("open gzip body: %w", err)
		}
		defer gzipReader.Close()
		reader = gzipReader
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		return "", fmt.Errorf("read job posting: %w", err)
	}

	text := ExtractText(string(data))

	c.logger.Debug("job posting fetched",
		zap.String("url", url),
		zap.Int("text_length", len(text)),
	)

	return text, nil
}
