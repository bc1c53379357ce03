package models

// Notification is a payload-free signal for one restaurant's staff displays.
// Event is the full channel name, e.g. "newOrder:<slug>".
type Notification struct {
	Event      string `json:"event"`
	Restaurant string `json:"restaurant"`
}
