package services

import (
	"fmt"
	"strings"
)

// Media builds CDN URLs for season covers and mission thumbs/previews.
type Media struct {
	baseURL string
}

func NewMedia(baseURL string) Media {
	return Media{baseURL: strings.TrimRight(baseURL, "/")}
}

// Cover returns {base}/covers/t{season}.jpg.
func (m Media) Cover(season *int) string {
	return fmt.Sprintf("%s/covers/t%d.jpg", m.baseURL, deref(season))
}

// Thumb returns {base}/thumbs/t{season}m{mission}.jpg.
func (m Media) Thumb(season *int, mission int) string {
	return fmt.Sprintf("%s/thumbs/t%dm%d.jpg", m.baseURL, deref(season), mission)
}

// Preview returns {base}/previews/t{season}m{mission}.mp4.
func (m Media) Preview(season *int, mission int) string {
	return fmt.Sprintf("%s/previews/t%dm%d.mp4", m.baseURL, deref(season), mission)
}

// unnumbered seasons render as 0
func deref(n *int) int {
	if n == nil {
		return 0
	}
	return *n
}
