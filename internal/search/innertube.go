package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
)

const (
	innertubeSearchURL     = "https://www.youtube.com/youtubei/v1/search?prettyPrint=false"
	innertubeClientName    = "WEB"
	innertubeClientVersion = "2.20240701.01.00"
)

type innertubeRequest struct {
	Context innertubeContext `json:"context"`
	Query   string           `json:"query"`
}

type innertubeContext struct {
	Client innertubeClient `json:"client"`
}

type innertubeClient struct {
	ClientName    string `json:"clientName"`
	ClientVersion string `json:"clientVersion"`
	HL            string `json:"hl"`
	GL            string `json:"gl"`
}

// innertubeSearch posts a free-text query against the site's internal search
// endpoint and scrapes the candidate videos out of the renderer tree.
func (c *Client) innertubeSearch(ctx context.Context, terms string) ([]Video, error) {
	payload := innertubeRequest{
		Context: innertubeContext{
			Client: innertubeClient{
				ClientName:    innertubeClientName,
				ClientVersion: innertubeClientVersion,
				HL:            "en",
				GL:            "US",
			},
		},
		Query: terms,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode search request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, innertubeSearchURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create search request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if c.headers != nil {
		for key, value := range c.headers.Headers {
			req.Header.Set(key, value)
		}
		if c.headers.Cookie != "" {
			req.Header.Set("Cookie", c.headers.Cookie)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("search endpoint returned status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read search response: %w", err)
	}

	return parseSearchResponse(data)
}

// parseSearchResponse extracts videoRenderer entries from an innertube
// response document, in result order.
func parseSearchResponse(data []byte) ([]Video, error) {
	var document any
	if err := json.Unmarshal(data, &document); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}

	var candidates []Video
	collectRenderers(document, &candidates)
	return candidates, nil
}

// collectRenderers walks the decoded response tree appending every
// videoRenderer it finds.
func collectRenderers(node any, out *[]Video) {
	switch value := node.(type) {
	case map[string]any:
		if renderer, ok := value["videoRenderer"].(map[string]any); ok {
			if video, ok := parseRenderer(renderer); ok {
				*out = append(*out, video)
			}
			return
		}
		for _, child := range value {
			collectRenderers(child, out)
		}
	case []any:
		for _, child := range value {
			collectRenderers(child, out)
		}
	}
}

// parseRenderer maps one videoRenderer object to a candidate Video.
//
// Search listings carry less than a detail lookup: no description, no
// absolute upload date. The duration comes from the rendered length text.
func parseRenderer(renderer map[string]any) (Video, bool) {
	id, _ := renderer["videoId"].(string)
	if id == "" {
		return Video{}, false
	}

	title := runsText(renderer["title"])
	author := runsText(renderer["ownerText"])
	if author == "" {
		author = runsText(renderer["longBylineText"])
	}

	timestamp := simpleText(renderer["lengthText"])

	video := Video{
		ID:        id,
		Title:     title,
		Seconds:   parseTimestamp(timestamp),
		Timestamp: timestamp,
		Thumbnail: rendererThumbnail(renderer),
		URL:       WatchURL(id),
		Author: Author{
			Name: author,
			URL:  rendererChannelURL(renderer),
		},
	}

	return video, true
}

// runsText joins the text runs of an innertube formatted-string object.
func runsText(node any) string {
	obj, ok := node.(map[string]any)
	if !ok {
		return ""
	}

	runs, ok := obj["runs"].([]any)
	if !ok {
		return ""
	}

	var sb strings.Builder
	for _, run := range runs {
		if m, ok := run.(map[string]any); ok {
			if text, ok := m["text"].(string); ok {
				sb.WriteString(text)
			}
		}
	}
	return sb.String()
}

// simpleText reads the simpleText member of an innertube formatted string.
func simpleText(node any) string {
	obj, ok := node.(map[string]any)
	if !ok {
		return ""
	}
	text, _ := obj["simpleText"].(string)
	return text
}

// rendererThumbnail picks the last (largest) thumbnail of a renderer.
func rendererThumbnail(renderer map[string]any) string {
	thumbnail, ok := renderer["thumbnail"].(map[string]any)
	if !ok {
		return ""
	}
	thumbnails, ok := thumbnail["thumbnails"].([]any)
	if !ok || len(thumbnails) == 0 {
		return ""
	}
	last, ok := thumbnails[len(thumbnails)-1].(map[string]any)
	if !ok {
		return ""
	}
	url, _ := last["url"].(string)
	return url
}

// rendererChannelURL digs the uploader's channel id out of the byline.
func rendererChannelURL(renderer map[string]any) string {
	for _, key := range []string{"ownerText", "longBylineText"} {
		obj, ok := renderer[key].(map[string]any)
		if !ok {
			continue
		}
		runs, ok := obj["runs"].([]any)
		if !ok {
			continue
		}
		for _, run := range runs {
			m, ok := run.(map[string]any)
			if !ok {
				continue
			}
			endpoint, ok := m["navigationEndpoint"].(map[string]any)
			if !ok {
				continue
			}
			browse, ok := endpoint["browseEndpoint"].(map[string]any)
			if !ok {
				continue
			}
			if browseID, ok := browse["browseId"].(string); ok && browseID != "" {
				return ChannelURL(browseID)
			}
		}
	}
	return ""
}

// parseTimestamp converts "3:45" or "1:02:03" into seconds.
func parseTimestamp(timestamp string) int {
	if timestamp == "" {
		return 0
	}

	parts := strings.Split(timestamp, ":")
	seconds := 0
	for _, part := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return 0
		}
		seconds = seconds*60 + n
	}
	return seconds
}
