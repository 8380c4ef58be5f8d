// package search adapts the third-party video site into the opaque search
// capability the transform pipeline consumes.
//
// A capability accepts either a direct video id or a free-text query and
// returns plain, transfer-safe result values. The production [Client] couples
// a video detail lookup (github.com/kkdai/youtube/v2) with an innertube
// search scrape, both dispatched through the proxy-rewriting transport.
package search

import (
	"context"
	"time"
)

// Query is the closed input union of the search capability: exactly one of
// VideoID or Terms is set.
type Query struct {
	VideoID string
	Terms   string
}

// Author identifies a video uploader.
type Author struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// Video is the transfer-safe shape of one video result.
//
// It carries data members only; rich client types are reduced to this shape
// by [SanitizeVideo] before results leave the worker.
type Video struct {
	ID          string    `json:"videoId"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Seconds     int       `json:"seconds"`
	Timestamp   string    `json:"timestamp,omitempty"`
	UploadDate  time.Time `json:"uploadDate"`
	Thumbnail   string    `json:"thumbnail"`
	URL         string    `json:"url"`
	Author      Author    `json:"author"`
}

// Response is the result of one capability invocation: a detail lookup yields
// Video, a free-text query yields Candidates.
type Response struct {
	Video      *Video  `json:"video,omitempty"`
	Candidates []Video `json:"candidates,omitempty"`
}

// Searcher is the opaque search capability hosted by the worker.
type Searcher interface {
	Search(ctx context.Context, q Query) (*Response, error)
}
