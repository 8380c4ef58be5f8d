package search

import (
	"fmt"

	"github.com/kkdai/youtube/v2"
)

// SanitizeVideo reduces a third-party video value to its transfer-safe shape.
//
// The client's [youtube.Video] drags along stream format lists, caption
// tracks and method-bearing members that must not cross the worker channel.
// Sanitizing is a typed field mapping, so anything not carried over is
// dropped by construction rather than nulled out at runtime.
func SanitizeVideo(v *youtube.Video) Video {
	return Video{
		ID:          v.ID,
		Title:       v.Title,
		Description: v.Description,
		Seconds:     int(v.Duration.Seconds()),
		Timestamp:   formatTimestamp(int(v.Duration.Seconds())),
		UploadDate:  v.PublishDate,
		Thumbnail:   bestThumbnail(v.Thumbnails),
		URL:         WatchURL(v.ID),
		Author: Author{
			Name: v.Author,
			URL:  ChannelURL(v.ChannelID),
		},
	}
}

// WatchURL returns the canonical watch page URL for a video id.
func WatchURL(id string) string {
	return "https://www.youtube.com/watch?v=" + id
}

// ChannelURL returns the canonical channel URL for a channel id.
func ChannelURL(id string) string {
	if id == "" {
		return ""
	}
	return "https://www.youtube.com/channel/" + id
}

// bestThumbnail picks the largest available thumbnail URL.
func bestThumbnail(thumbnails youtube.Thumbnails) string {
	best := ""
	var bestWidth uint
	for _, t := range thumbnails {
		if t.URL != "" && t.Width >= bestWidth {
			best = t.URL
			bestWidth = t.Width
		}
	}
	return best
}

// formatTimestamp renders a duration in seconds as m:ss or h:mm:ss.
func formatTimestamp(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}
