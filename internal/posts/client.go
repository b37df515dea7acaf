package posts

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// DefaultURL is the canonical posts endpoint.
const DefaultURL = "https://dummyjson.com/posts?limit=100"

// DefaultTimeout bounds a single fetch.
const DefaultTimeout = 15 * time.Second

// ErrFetchFailed is returned when the remote answers with a non-2xx status.
var ErrFetchFailed = errors.New("failed to fetch data")

// Client reads posts from a remote endpoint.
type Client struct {
	URL       string
	UserAgent string
	Timeout   time.Duration
	HTTP      *http.Client
	Logger    *log.Logger
}

// NewClient creates a Client for url. An empty url uses DefaultURL.
func NewClient(url, version string) *Client {
	if url == "" {
		url = DefaultURL
	}
	if version == "" {
		version = "dev"
	}
	return &Client{
		URL:       url,
		UserAgent: "taskdeck/" + version,
		Timeout:   DefaultTimeout,
		HTTP:      &http.Client{},
	}
}

// Fetch issues one GET request and decodes the posts in the response.
func (c *Client) Fetch(ctx context.Context) ([]Post, error) {
	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.UserAgent)
	req.Header.Set("X-Request-Id", requestID)

	logger := c.logger().With("request_id", requestID)
	logger.Debug("fetching posts", "url", c.URL)

	httpClient := c.HTTP
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	start := time.Now()
	resp, err := httpClient.Do(req)
	if err != nil {
		logger.Warn("fetch failed", "err", err)
		return nil, fmt.Errorf("fetch posts: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
		logger.Warn("fetch failed", "status", resp.StatusCode)
		return nil, fmt.Errorf("%w: %s", ErrFetchFailed, resp.Status)
	}

	posts, err := Decode(resp.Body)
	if err != nil {
		logger.Warn("decode failed", "err", err)
		return nil, err
	}
	logger.Debug("fetched posts", "count", len(posts), "elapsed", time.Since(start).Round(time.Millisecond))
	return posts, nil
}

func (c *Client) logger() *log.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return log.New(io.Discard)
}

// Decode reads a response body holding either a bare array of posts or an
// object with a "posts" array. The shape is chosen from the first token.
func Decode(r io.Reader) ([]Post, error) {
	br := bufio.NewReader(r)
	first, err := firstByte(br)
	if err != nil {
		return nil, fmt.Errorf("decode posts: %w", err)
	}

	dec := json.NewDecoder(br)
	switch first {
	case '[':
		var posts []Post
		if err := dec.Decode(&posts); err != nil {
			return nil, fmt.Errorf("decode posts: %w", err)
		}
		return nonNil(posts), nil
	case '{':
		var envelope struct {
			Posts []Post `json:"posts"`
		}
		if err := dec.Decode(&envelope); err != nil {
			return nil, fmt.Errorf("decode posts: %w", err)
		}
		return nonNil(envelope.Posts), nil
	default:
		return nil, fmt.Errorf("decode posts: unexpected %q at start of body", first)
	}
}

func firstByte(br *bufio.Reader) (byte, error) {
	for {
		b, err := br.ReadByte()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return 0, io.ErrUnexpectedEOF
			}
			return 0, err
		}
		switch b {
		case ' ', '\t', '\r', '\n':
			continue
		}
		if err := br.UnreadByte(); err != nil {
			return 0, err
		}
		return b, nil
	}
}

func nonNil(posts []Post) []Post {
	if posts == nil {
		return []Post{}
	}
	return posts
}
