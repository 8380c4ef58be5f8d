package search

import (
	"context"
	"fmt"
	"net/http"

	"favtrax/internal/shared"

	"github.com/charmbracelet/log"
	"github.com/kkdai/youtube/v2"
)

// Client is the production Searcher.
//
// Direct id lookups go through the youtube client; free-text queries go
// through the innertube search endpoint. Both use the same HTTP client, so a
// proxy-rewriting transport installed there covers every outbound request.
type Client struct {
	yt      *youtube.Client
	http    *http.Client
	headers *shared.CurlHeaders
	logger  *log.Logger
}

// ClientOpts contains configuration options for creating a Client.
type ClientOpts struct {
	HTTPClient *http.Client
	Headers    *shared.CurlHeaders // Optional browser-shaped headers for the scraper
	Logger     *log.Logger
}

// NewClient creates a search client over the given HTTP client.
func NewClient(opts ClientOpts) *Client {
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}

	return &Client{
		yt:      &youtube.Client{HTTPClient: opts.HTTPClient},
		http:    opts.HTTPClient,
		headers: opts.Headers,
		logger:  opts.Logger,
	}
}

// Search resolves a query into a detail result or a candidate list.
func (c *Client) Search(ctx context.Context, q Query) (*Response, error) {
	switch {
	case q.VideoID != "":
		return c.lookup(ctx, q.VideoID)
	case q.Terms != "":
		return c.query(ctx, q.Terms)
	default:
		return nil, fmt.Errorf("%w: query must set a video id or search terms", shared.ErrInvalidInput)
	}
}

// lookup fetches full detail for one video id.
func (c *Client) lookup(ctx context.Context, id string) (*Response, error) {
	c.logger.Debug("looking up video", "id", id)

	v, err := c.yt.GetVideoContext(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("video lookup for %q failed: %w", id, err)
	}

	video := SanitizeVideo(v)
	return &Response{Video: &video}, nil
}

// query runs a free-text innertube search and returns the candidate list.
// Zero candidates is not an error at this layer; callers decide relevance.
func (c *Client) query(ctx context.Context, terms string) (*Response, error) {
	c.logger.Debug("searching", "terms", terms)

	candidates, err := c.innertubeSearch(ctx, terms)
	if err != nil {
		return nil, fmt.Errorf("search for %q failed: %w", terms, err)
	}

	return &Response{Candidates: candidates}, nil
}
