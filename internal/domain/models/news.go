package models

import "strings"

// RemovedTitle marks articles taken down by the publisher.
const RemovedTitle = "[Removed]"

// NewsItem is one normalized headline.
type NewsItem struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

// Bullet renders the item as a report bullet.
func (n NewsItem) Bullet() string {
	if n.Description == "" {
		return "• " + n.Title
	}
	return "• " + n.Title + " — " + n.Description
}

// Keep reports whether the item carries a usable title.
func (n NewsItem) Keep() bool {
	t := strings.TrimSpace(n.Title)
	return t != "" && t != RemovedTitle
}
