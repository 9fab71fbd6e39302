package model

import "time"

// TrendState is the trends aggregate: the single active trend, the working
// submission set for it, and the archived history. Persisted as one document.
type TrendState struct {
	Active      *Trend                  `json:"active_trend"`
	Submissions map[string][]Submission `json:"submissions"`
	Past        []ArchivedTrend         `json:"past_trends"`
}

// ArchivedTrend keeps an ended trend together with its submissions so the
// history stays queryable after the working set is reset.
type ArchivedTrend struct {
	Trend       Trend                   `json:"trend"`
	Submissions map[string][]Submission `json:"submissions"`
	EndedAt     time.Time               `json:"ended_at"`
}

// CompetitionState is the competitions aggregate. Votes map voter to target
// and are scoped to the active competition only.
type CompetitionState struct {
	Active *Competition      `json:"active_competition"`
	Past   []Competition     `json:"past_competitions"`
	Votes  map[string]string `json:"votes"`
}

// AccountBook is the user-accounts aggregate. Order records account creation
// order so leaderboard ties resolve deterministically.
type AccountBook struct {
	Users map[string]*UserAccount `json:"users"`
	Order []string                `json:"order"`
}

// ConversationLog is the conversation-context aggregate, bounded per user.
type ConversationLog struct {
	ByUser map[string][]ConversationRecord `json:"by_user"`
}

// Clone returns a deep copy of the trend state.
func (s *TrendState) Clone() *TrendState {
	out := &TrendState{
		Submissions: cloneSubmissionMap(s.Submissions),
		Past:        make([]ArchivedTrend, len(s.Past)),
	}
	if s.Active != nil {
		active := *s.Active
		active.Participants = append([]string(nil), s.Active.Participants...)
		out.Active = &active
	}
	for i, p := range s.Past {
		out.Past[i] = ArchivedTrend{
			Trend:       p.Trend,
			Submissions: cloneSubmissionMap(p.Submissions),
			EndedAt:     p.EndedAt,
		}
		out.Past[i].Trend.Participants = append([]string(nil), p.Trend.Participants...)
	}
	return out
}

// Clone returns a deep copy of the competition state.
func (s *CompetitionState) Clone() *CompetitionState {
	out := &CompetitionState{
		Past:  make([]Competition, len(s.Past)),
		Votes: make(map[string]string, len(s.Votes)),
	}
	if s.Active != nil {
		out.Active = cloneCompetition(s.Active)
	}
	for i := range s.Past {
		out.Past[i] = *cloneCompetition(&s.Past[i])
	}
	for voter, target := range s.Votes {
		out.Votes[voter] = target
	}
	return out
}

// Clone returns a deep copy of the account book.
func (b *AccountBook) Clone() *AccountBook {
	out := &AccountBook{
		Users: make(map[string]*UserAccount, len(b.Users)),
		Order: append([]string(nil), b.Order...),
	}
	for id, acct := range b.Users {
		copied := *acct
		out.Users[id] = &copied
	}
	return out
}

// Clone returns a deep copy of the conversation log.
func (l *ConversationLog) Clone() *ConversationLog {
	out := &ConversationLog{ByUser: make(map[string][]ConversationRecord, len(l.ByUser))}
	for id, records := range l.ByUser {
		out.ByUser[id] = append([]ConversationRecord(nil), records...)
	}
	return out
}

func cloneSubmissionMap(in map[string][]Submission) map[string][]Submission {
	out := make(map[string][]Submission, len(in))
	for id, subs := range in {
		copied := make([]Submission, len(subs))
		for i, s := range subs {
			copied[i] = s
			if s.Rating != nil {
				r := *s.Rating
				copied[i].Rating = &r
			}
		}
		out[id] = copied
	}
	return out
}

func cloneCompetition(c *Competition) *Competition {
	out := *c
	out.Participants = append([]string(nil), c.Participants...)
	out.Entries = make(map[string][]Entry, len(c.Entries))
	for id, entries := range c.Entries {
		out.Entries[id] = append([]Entry(nil), entries...)
	}
	if c.Winner != nil {
		w := *c.Winner
		out.Winner = &w
	}
	return &out
}

// NewTrendState returns an empty trends aggregate ready for use.
func NewTrendState() *TrendState {
	return &TrendState{Submissions: make(map[string][]Submission)}
}

// NewCompetitionState returns an empty competitions aggregate.
func NewCompetitionState() *CompetitionState {
	return &CompetitionState{Votes: make(map[string]string)}
}

// NewAccountBook returns an empty accounts aggregate.
func NewAccountBook() *AccountBook {
	return &AccountBook{Users: make(map[string]*UserAccount)}
}

// NewConversationLog returns an empty conversation aggregate.
func NewConversationLog() *ConversationLog {
	return &ConversationLog{ByUser: make(map[string][]ConversationRecord)}
}
