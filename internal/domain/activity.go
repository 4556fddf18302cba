// Package domain contains the core data structures and domain logic for the application.
package domain

import "time"

// Window is the trailing time range used to decide which records count as recent.
// Both boundaries are inclusive.
type Window struct {
	Since time.Time `json:"since"`
	Until time.Time `json:"until"`
}

// NewWindow builds a window ending at `until` and reaching back the given number of hours.
func NewWindow(until time.Time, hours int) Window {
	until = until.UTC()
	return Window{
		Since: until.Add(-time.Duration(hours) * time.Hour),
		Until: until,
	}
}

// Contains reports whether t falls inside the window, boundaries included.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Since) && !t.After(w.Until)
}

// PullRequest holds the attributes of a pull request that are relevant to the digest.
type PullRequest struct {
	Number       int        `json:"number"`
	Title        string     `json:"title"`
	Author       string     `json:"author"`
	State        string     `json:"state"`
	Merged       bool       `json:"merged"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	MergedAt     *time.Time `json:"merged_at,omitempty"`
	BaseBranch   string     `json:"base_branch"`
	URL          string     `json:"html_url"`
	Additions    int        `json:"additions"`
	Deletions    int        `json:"deletions"`
	ChangedFiles int        `json:"changed_files"`
	Commits      int        `json:"commits"`
}

// Commit holds the attributes of a single commit on the default branch.
// Author is the GitHub login and may be empty when the commit author has no
// linked account; AuthorName is the name recorded in the commit itself.
type Commit struct {
	SHA          string    `json:"sha"`
	ShortSHA     string    `json:"short_sha"`
	Message      string    `json:"message"`
	Author       string    `json:"author"`
	AuthorName   string    `json:"author_name"`
	Date         time.Time `json:"date"`
	URL          string    `json:"html_url"`
	Additions    int       `json:"additions"`
	Deletions    int       `json:"deletions"`
	FilesChanged int       `json:"files_changed"`
}

// Report is the collected activity for one repository and one window.
// Record order preserves the API's return order (reverse-chronological).
type Report struct {
	Repository   string        `json:"repo"`
	Window       Window        `json:"window"`
	PullRequests []PullRequest `json:"prs"`
	Commits      []Commit      `json:"commits"`
}

// Empty reports whether the window produced no activity at all.
func (r *Report) Empty() bool {
	return len(r.PullRequests) == 0 && len(r.Commits) == 0
}
