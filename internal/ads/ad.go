// Package ads implements the ad ingestion and image-provenance domain.
// It provides heuristic content extraction from scraped markup, the
// counter-merging upsert, the detached image rehoming pipeline, and the
// language-aware search read path.
package ads

import (
	"time"
)

// Submission is one incoming observation of an ad. Political carries the
// submitter's classification: true (confirmed political), false (confirmed
// not political), or nil (unclassified).
type Submission struct {
	ID        string  `json:"id"`
	HTML      string  `json:"html"`
	Political *bool   `json:"political"`
	Targeting *string `json:"targeting,omitempty"`
}

// Validate checks that the submission carries the required fields.
func (s Submission) Validate() error {
	if s.ID == "" || s.HTML == "" {
		return ErrInvalidSubmission
	}
	return nil
}

// Ad is the durable record for one advertisement id. Suppressed is never
// exposed externally.
type Ad struct {
	ID                   string    `json:"id"`
	HTML                 string    `json:"html"`
	Political            int       `json:"political"`
	NotPolitical         int       `json:"not_political"`
	Title                string    `json:"title"`
	Message              string    `json:"message"`
	Thumbnail            string    `json:"thumbnail"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
	Lang                 string    `json:"lang"`
	Images               []string  `json:"images"`
	Impressions          int       `json:"impressions"`
	PoliticalProbability float64   `json:"political_probability"`
	Targeting            *string   `json:"targeting"`
	Suppressed           bool      `json:"-"`
}

// Content holds the structured fields heuristically derived from ad markup.
type Content struct {
	Title     string
	Message   string
	Thumbnail string
	Gallery   []string
}

// Candidate is a fully extracted submission ready for the merge upsert.
// Exactly one of the three counters carries 1 for a well-formed submission.
type Candidate struct {
	ID           string
	HTML         string
	Lang         string
	Content      Content
	Political    int
	NotPolitical int
	Impressions  int
	Targeting    *string
}

// NewCandidate extracts structured content from the submission's markup and
// derives its counter contribution. Extraction failures are fatal; no ad is
// created without all required fields resolvable.
func NewCandidate(sub Submission, lang string) (*Candidate, error) {
	if err := sub.Validate(); err != nil {
		return nil, err
	}

	doc, err := parseDocument(sub.HTML)
	if err != nil {
		return nil, err
	}

	content, err := ExtractContent(doc)
	if err != nil {
		return nil, err
	}

	c := &Candidate{
		ID:        sub.ID,
		HTML:      sub.HTML,
		Lang:      lang,
		Content:   content,
		Targeting: sub.Targeting,
	}

	switch {
	case sub.Political == nil:
		c.Impressions = 1
	case *sub.Political:
		c.Political = 1
	default:
		c.NotPolitical = 1
	}

	return c, nil
}
