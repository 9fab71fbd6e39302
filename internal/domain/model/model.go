// Package model contains the domain records persisted by the contest engine.
package model

import "time"

// Trend is a time-boxed theme participants submit outfits against.
// DurationDays is inert metadata: nothing auto-expires a trend.
type Trend struct {
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	StartTime    time.Time `json:"start_time"`
	DurationDays int       `json:"duration_days"`
	Participants []string  `json:"participants"`
}

// HasParticipant reports whether userID already joined the trend.
func (t *Trend) HasParticipant(userID string) bool {
	for _, id := range t.Participants {
		if id == userID {
			return true
		}
	}
	return false
}

// Rating holds the three scored criteria for a submission.
// Criteria are contractually in [1,10] but the engine does not enforce that.
type Rating struct {
	TrendAccuracy float64 `json:"trend_accuracy"`
	Creativity    float64 `json:"creativity"`
	Fit           float64 `json:"fit"`
	Average       float64 `json:"average"`
	Points        int     `json:"points"`
}

// Submission is one user's outfit entry to a trend challenge.
type Submission struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	DisplayName  string    `json:"display_name"`
	ImageRef     string    `json:"image_ref"`
	CreatedAt    time.Time `json:"created_at"`
	Rating       *Rating   `json:"rating,omitempty"`
	AnalysisText string    `json:"analysis_text,omitempty"`
}

// Entry is one user's entry to a competition, tracked by vote count.
type Entry struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	DisplayName string    `json:"display_name"`
	ImageRef    string    `json:"image_ref"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	Votes       int       `json:"votes"`
}

// Winner records the outcome of an ended competition.
type Winner struct {
	UserID      string `json:"user_id"`
	DisplayName string `json:"display_name"`
	Votes       int    `json:"votes"`
}

// Competition is a sponsored contest decided by votes.
type Competition struct {
	Name         string             `json:"name"`
	Description  string             `json:"description"`
	Sponsor      string             `json:"sponsor"`
	StartTime    time.Time          `json:"start_time"`
	DurationDays int                `json:"duration_days"`
	Participants []string           `json:"participants"`
	Entries      map[string][]Entry `json:"entries"`
	Winner       *Winner            `json:"winner,omitempty"`
}

// HasParticipant reports whether userID already entered the competition.
func (c *Competition) HasParticipant(userID string) bool {
	for _, id := range c.Participants {
		if id == userID {
			return true
		}
	}
	return false
}

// LatestEntry returns the most recently appended entry for userID, or nil.
func (c *Competition) LatestEntry(userID string) *Entry {
	entries := c.Entries[userID]
	if len(entries) == 0 {
		return nil
	}
	return &entries[len(entries)-1]
}

// UserAccount is the authoritative per-user score record.
// Points only increase in the current design.
type UserAccount struct {
	UserID         string `json:"user_id"`
	DisplayName    string `json:"display_name"`
	Points         int    `json:"points"`
	Participations int    `json:"participations"`
	Wins           int    `json:"wins"`
}

// ConversationRecord is one exchange kept for feedback continuity.
type ConversationRecord struct {
	At            time.Time `json:"at"`
	UserMessage   string    `json:"user_message"`
	AIResponse    string    `json:"ai_response"`
	SubmissionRef string    `json:"submission_ref,omitempty"`
}
