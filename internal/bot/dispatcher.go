package bot

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"

	"github.com/okian/runway/internal/adapters/advisor"
	"github.com/okian/runway/internal/app"
	"github.com/okian/runway/internal/engine/contest"
	"github.com/okian/runway/internal/engine/points"
	"github.com/okian/runway/internal/engine/trends"
	"github.com/okian/runway/pkg/logger"
)

// Dispatcher constants.
const (
	leaderboardSize = 10
	sponsorSeed     = 7
)

// Sponsors rotated for new competitions when the caller names none.
var sponsors = []string{"StyleCo", "Fashion Forward", "Trend Setters", "ChicBoutique", "Urban Edge"}

// Dispatcher maps one Command to one engine operation and phrases the
// reply. Domain failures become user-facing text; only infrastructure
// errors surface as Go errors.
type Dispatcher struct {
	engine *app.Engine
	adv    advisor.Advisor
	log    logger.Logger
	rng    *rand.Rand
}

// Option applies a configuration option to the Dispatcher.
type Option func(*Dispatcher)

// WithLogger sets a custom logger.
func WithLogger(log logger.Logger) Option {
	return func(d *Dispatcher) {
		if log != nil {
			d.log = log
		}
	}
}

// NewDispatcher creates a dispatcher over a started engine.
func NewDispatcher(engine *app.Engine, adv advisor.Advisor, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		engine: engine,
		adv:    adv,
		log:    logger.Nop(),
		rng:    rand.New(rand.NewSource(sponsorSeed)), //nolint:gosec // sponsor rotation only
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Handle executes one command and returns the reply text.
func (d *Dispatcher) Handle(ctx context.Context, cmd Command) (string, error) {
	d.log.Debug(ctx, "handling command",
		logger.String("name", cmd.Name),
		logger.String("authorID", cmd.AuthorID),
	)

	switch cmd.Name {
	case CmdTrend:
		return d.handleTrend(ctx, cmd)
	case CmdSubmit:
		return d.handleSubmit(ctx, cmd)
	case CmdCompetition:
		return d.handleCompetition(ctx, cmd)
	case CmdVote:
		return d.handleVote(ctx, cmd)
	case CmdPoints:
		return d.handlePoints(ctx, cmd)
	case CmdLeaderboard:
		return d.handleLeaderboard(ctx)
	case CmdFeedback:
		return d.handleFeedback(ctx, cmd)
	case CmdHelp:
		return helpText, nil
	default:
		return fmt.Sprintf("Unknown command %q. Try `!help`.", cmd.Name), nil
	}
}

func (d *Dispatcher) handleTrend(ctx context.Context, cmd Command) (string, error) {
	if len(cmd.Args) == 0 {
		return trendUsage, nil
	}

	switch cmd.Args[0] {
	case "announce":
		if len(cmd.Args) < 2 {
			return "Please provide a trend name: `!trend announce [trend name]`", nil
		}
		name := strings.Join(cmd.Args[1:], " ")
		description, err := d.adv.DescribeTrend(ctx, name)
		if err != nil {
			return "", err
		}
		trend, err := d.engine.Trends().Announce(ctx, name, description, 0)
		if errors.Is(err, trends.ErrTrendActive) {
			return "There's already an active trend challenge. End it first with `!trend end`.", nil
		}
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("New trend challenge announced: **%s**\n\n%s\n\nSubmit with `!submit` and an outfit photo. Challenge runs %d days.",
			trend.Name, trend.Description, trend.DurationDays), nil

	case "end":
		archived, err := d.engine.Trends().End(ctx)
		if errors.Is(err, trends.ErrNoTrend) {
			return "No active trend to end.", nil
		}
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("The %q challenge has ended with %d participants. Check `!leaderboard` for results!",
			archived.Trend.Name, len(archived.Trend.Participants)), nil

	case "list":
		var b strings.Builder
		b.WriteString("**Available trend ideas:**\n")
		for _, idea := range advisor.TrendIdeas {
			fmt.Fprintf(&b, "- %s\n", idea)
		}
		b.WriteString("\nUse `!trend announce [trend name]` to start a challenge.")
		return b.String(), nil

	case "status":
		active := d.engine.Trends().Active(ctx)
		if active == nil {
			return "No active trend challenge at the moment.", nil
		}
		return fmt.Sprintf("**Current trend challenge: %s**\n\n%s\n\nParticipants: %d",
			active.Name, active.Description, len(active.Participants)), nil
	}

	return trendUsage, nil
}

func (d *Dispatcher) handleSubmit(ctx context.Context, cmd Command) (string, error) {
	active := d.engine.Trends().Active(ctx)
	if active == nil {
		return "There's no active trend challenge to submit to. Wait for the next announcement!", nil
	}
	if cmd.AttachmentRef == "" {
		return "Please attach an image of your outfit to submit.", nil
	}

	// Advisor call happens before any engine lock is taken.
	review, err := d.adv.ReviewOutfit(ctx, cmd.AttachmentRef, active.Name)
	if err != nil {
		return "", err
	}

	sub, err := d.engine.Trends().Submit(ctx, cmd.AuthorID, cmd.AuthorName, cmd.AttachmentRef, review.AnalysisText)
	if errors.Is(err, trends.ErrNoTrend) {
		return "There's no active trend challenge to submit to. Wait for the next announcement!", nil
	}
	if err != nil {
		return "", err
	}

	result, err := d.engine.Trends().Rate(ctx, cmd.AuthorID,
		review.TrendAccuracy, review.Creativity, review.Fit, sub.ID)
	if err != nil {
		return "", err
	}

	reply := fmt.Sprintf("**Outfit submission for %s**\n\n%s\n\n**Points earned:** %d\n**Total points:** %d\n\nNeed more feedback? Ask with `!feedback YOUR QUESTION`.",
		active.Name, review.AnalysisText, result.Submission.Rating.Points, result.Account.Points)

	if err := d.engine.Conversations().Append(ctx, cmd.AuthorID, "!submit [image]", reply, sub.ID); err != nil {
		d.log.Warn(ctx, "failed to record conversation", logger.Error(err))
	}
	return reply, nil
}

func (d *Dispatcher) handleCompetition(ctx context.Context, cmd Command) (string, error) {
	if len(cmd.Args) == 0 {
		return competitionUsage, nil
	}

	switch cmd.Args[0] {
	case "start":
		if len(cmd.Args) < 2 {
			return "Please provide a name for the competition.", nil
		}
		name := strings.Join(cmd.Args[1:], " ")
		description, err := d.adv.DescribeCompetition(ctx, name)
		if err != nil {
			return "", err
		}
		sponsor := sponsors[d.rng.Intn(len(sponsors))]
		comp, err := d.engine.Contest().Start(ctx, name, description, sponsor, 0)
		if errors.Is(err, contest.ErrCompetitionActive) {
			return "There's already an active competition. End it first with `!competition end`.", nil
		}
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("New styling competition: **%s**\n\n%s\n\n**Sponsored by:** %s\n\nEnter with `!competition submit` and a photo; vote with `!vote [user]`. The winner gets %d bonus points!",
			comp.Name, comp.Description, comp.Sponsor, points.WinBonus), nil

	case "end":
		result, err := d.engine.Contest().End(ctx)
		if errors.Is(err, contest.ErrNoCompetition) {
			return "No active competition to end.", nil
		}
		if err != nil {
			return "", err
		}
		if result.Winner == nil {
			return fmt.Sprintf("Competition %q ended with no entries. Stay tuned for the next one!", result.Competition.Name), nil
		}
		return fmt.Sprintf("Competition ended: **%s**\n\nWinner: **%s** with %d votes! The winner has been awarded %d bonus points.\n\nThanks to all %d participants!",
			result.Competition.Name, result.Winner.DisplayName, result.Winner.Votes,
			points.WinBonus, len(result.Competition.Participants)), nil

	case "status":
		active := d.engine.Contest().Active(ctx)
		if active == nil {
			return "No active competition at the moment.", nil
		}
		return fmt.Sprintf("**Active competition: %s**\n\n%s\n\n**Sponsored by:** %s\n**Participants:** %d",
			active.Name, active.Description, active.Sponsor, len(active.Participants)), nil

	case "submit":
		if cmd.AttachmentRef == "" {
			return "Please attach an image of your outfit to enter the competition.", nil
		}
		description := "No description provided."
		if len(cmd.Args) > 1 {
			description = strings.Join(cmd.Args[1:], " ")
		}
		_, err := d.engine.Contest().SubmitEntry(ctx, cmd.AuthorID, cmd.AuthorName, cmd.AttachmentRef, description)
		if errors.Is(err, contest.ErrNoCompetition) {
			return "No active competition to submit to.", nil
		}
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("Competition entry recorded! Others can vote for you with `!vote %s`. Good luck!", cmd.AuthorName), nil
	}

	return competitionUsage, nil
}

func (d *Dispatcher) handleVote(ctx context.Context, cmd Command) (string, error) {
	if len(cmd.Args) == 0 {
		return "Please specify who to vote for: `!vote [user]`", nil
	}
	targetID := cmd.Args[0]

	err := d.engine.Contest().Vote(ctx, cmd.AuthorID, targetID)
	switch {
	case errors.Is(err, contest.ErrNoCompetition):
		return "No active competition to vote in.", nil
	case errors.Is(err, contest.ErrTargetNotFound):
		return "That user has no competition entry. Check the spelling.", nil
	case errors.Is(err, contest.ErrAlreadyVoted):
		return "You have already voted in this competition.", nil
	case err != nil:
		return "", err
	}
	return "Your vote has been recorded!", nil
}

func (d *Dispatcher) handlePoints(ctx context.Context, cmd Command) (string, error) {
	acct := d.engine.Points().User(ctx, cmd.AuthorID)
	if acct == nil {
		return "You haven't participated in any challenges yet. Submit an outfit to get started!", nil
	}
	return fmt.Sprintf("**Style stats for %s**\n\nPoints: %d\nParticipations: %d\nCompetition wins: %d",
		acct.DisplayName, acct.Points, acct.Participations, acct.Wins), nil
}

func (d *Dispatcher) handleLeaderboard(ctx context.Context) (string, error) {
	ranked := d.engine.Points().Leaderboard(ctx, leaderboardSize)
	if len(ranked) == 0 {
		return "No participants on the leaderboard yet.", nil
	}

	var b strings.Builder
	b.WriteString("**Trend challenge leaderboard**\n\n")
	for i, acct := range ranked {
		fmt.Fprintf(&b, "%d. **%s** - %d points (wins: %d)\n", i+1, acct.DisplayName, acct.Points, acct.Wins)
	}
	b.WriteString("\nEarn points by submitting outfits and winning competitions!")
	return b.String(), nil
}

func (d *Dispatcher) handleFeedback(ctx context.Context, cmd Command) (string, error) {
	recent := d.engine.Trends().RecentSubmissions(ctx, cmd.AuthorID, 1)
	if len(recent) == 0 {
		return "You don't have any outfit submissions yet. Submit one first with `!submit`.", nil
	}
	question := strings.Join(cmd.Args, " ")
	if question == "" {
		return "Please include a question about your outfit, e.g. `!feedback How can I improve my color coordination?`", nil
	}

	last := recent[0]
	var b strings.Builder
	fmt.Fprintf(&b, "**Feedback on your last submission**\n\nYou asked: %s\n\n", question)
	if last.Rating != nil {
		fmt.Fprintf(&b, "Your ratings were - trend accuracy %.0f/10, creativity %.0f/10, overall fit %.0f/10.\n\n",
			last.Rating.TrendAccuracy, last.Rating.Creativity, last.Rating.Fit)
	}
	if last.AnalysisText != "" {
		b.WriteString(last.AnalysisText)
	}
	reply := b.String()

	if err := d.engine.Conversations().Append(ctx, cmd.AuthorID, "!feedback "+question, reply, last.ID); err != nil {
		d.log.Warn(ctx, "failed to record conversation", logger.Error(err))
	}
	return reply, nil
}

const trendUsage = "**Trend commands**\n" +
	"- `!trend announce [name]` - announce a new trend challenge\n" +
	"- `!trend end` - end the current trend challenge\n" +
	"- `!trend list` - list trend ideas\n" +
	"- `!trend status` - show the current trend"

const competitionUsage = "**Competition commands**\n" +
	"- `!competition start [name]` - start a styling competition\n" +
	"- `!competition end` - end the competition and pick the winner\n" +
	"- `!competition status` - show the active competition\n" +
	"- `!competition submit [description]` - enter (attach an image)"

const helpText = "**Commands**\n\n" +
	"- `!submit` - submit an outfit image for the current trend\n" +
	"- `!feedback [question]` - ask about your last submission\n" +
	"- `!trend` - trend challenge commands\n" +
	"- `!competition` - competition commands\n" +
	"- `!vote [user]` - vote for a competition entry\n" +
	"- `!points` - your stats\n" +
	"- `!leaderboard` - top users"
