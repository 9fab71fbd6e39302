// Package bot routes typed chat commands to the contest engine and phrases
// the replies. It receives commands already parsed by the transport; no raw
// message text is interpreted here beyond the typed arguments.
package bot

// Command names understood by the dispatcher.
const (
	CmdTrend       = "trend"
	CmdSubmit      = "submit"
	CmdCompetition = "competition"
	CmdVote        = "vote"
	CmdPoints      = "points"
	CmdLeaderboard = "leaderboard"
	CmdFeedback    = "feedback"
	CmdHelp        = "help"
)

// Command is one user action delivered by the chat transport. AuthorID is
// an opaque external identity; AttachmentRef points at an uploaded image
// when present.
type Command struct {
	Name          string
	Args          []string
	AuthorID      string
	AuthorName    string
	AttachmentRef string
}
