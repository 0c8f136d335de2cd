package models

// EventType discriminates the timeline event variants
type EventType string

const (
	EventTypeChatMessage       EventType = "chat_message"
	EventTypeMatchGoal         EventType = "match_goal"
	EventTypeMatchCard         EventType = "match_card"
	EventTypeMatchSubstitution EventType = "match_substitution"
	EventTypePoll              EventType = "poll"
	EventTypeCastingContest    EventType = "casting_contest"
	EventTypeHighlight         EventType = "highlight"
	EventTypeTweet             EventType = "tweet"
	EventTypeAdminComment      EventType = "admin_comment"
	EventTypeProductHighlight  EventType = "product_highlight"
)

// KnownEventTypes lists every event type the timeline accepts
var KnownEventTypes = []EventType{
	EventTypeChatMessage,
	EventTypeMatchGoal,
	EventTypeMatchCard,
	EventTypeMatchSubstitution,
	EventTypePoll,
	EventTypeCastingContest,
	EventTypeHighlight,
	EventTypeTweet,
	EventTypeAdminComment,
	EventTypeProductHighlight,
}

// TeamSide identifies which side of the match an event belongs to
type TeamSide string

const (
	TeamHome TeamSide = "home"
	TeamAway TeamSide = "away"
)

// Opponent returns the other side
func (s TeamSide) Opponent() TeamSide {
	if s == TeamHome {
		return TeamAway
	}
	return TeamHome
}

// Payload is the variant-specific body of a timeline event
type Payload interface {
	EventType() EventType
}

// TimelineEvent is a single occurrence on the unified timeline.
// VideoTimestamp is seconds relative to kickoff and may be negative
// during the pre-kickoff lobby period. Events are immutable once
// ingested; corrections arrive as new events.
type TimelineEvent struct {
	ID             string            `json:"id"`
	VideoTimestamp float64           `json:"video_timestamp"`
	Payload        Payload           `json:"payload"`
	Metadata       map[string]string `json:"metadata,omitempty"`
}

// Type returns the discriminator of the wrapped payload
func (e TimelineEvent) Type() EventType {
	if e.Payload == nil {
		return ""
	}
	return e.Payload.EventType()
}

// ChatMessage is a viewer chat message pinned to a video timestamp
type ChatMessage struct {
	Username      string `json:"username"`
	Text          string `json:"text"`
	UsernameColor string `json:"username_color" yaml:"username_color"`
	Likes         int    `json:"likes"`
}

func (ChatMessage) EventType() EventType { return EventTypeChatMessage }

// MatchGoal records a goal. Score is the running score string at the
// moment the goal was scripted ("2-1"); the authoritative running
// score is always re-derived from visible goals.
type MatchGoal struct {
	Player    string   `json:"player"`
	Team      TeamSide `json:"team"`
	Score     string   `json:"score,omitempty"`
	AssistBy  string   `json:"assist_by,omitempty" yaml:"assist_by,omitempty"`
	IsOwnGoal bool     `json:"is_own_goal" yaml:"is_own_goal"`
	IsPenalty bool     `json:"is_penalty" yaml:"is_penalty"`
}

func (MatchGoal) EventType() EventType { return EventTypeMatchGoal }

// CardType is the disciplinary card variant
type CardType string

const (
	CardYellow       CardType = "yellow"
	CardRed          CardType = "red"
	CardSecondYellow CardType = "second_yellow"
)

// MatchCard records a booking
type MatchCard struct {
	Player string   `json:"player"`
	Team   TeamSide `json:"team"`
	Card   CardType `json:"card"`
	Reason string   `json:"reason,omitempty"`
}

func (MatchCard) EventType() EventType { return EventTypeMatchCard }

// MatchSubstitution records a player swap
type MatchSubstitution struct {
	PlayerIn  string   `json:"player_in" yaml:"player_in"`
	PlayerOut string   `json:"player_out" yaml:"player_out"`
	Team      TeamSide `json:"team"`
}

func (MatchSubstitution) EventType() EventType { return EventTypeMatchSubstitution }

// PollOption is one selectable answer in a poll
type PollOption struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	VoteCount int    `json:"vote_count" yaml:"vote_count"`
}

// Poll is an interactive viewer poll
type Poll struct {
	Question        string       `json:"question"`
	Options         []PollOption `json:"options"`
	DurationSeconds float64      `json:"duration_seconds,omitempty" yaml:"duration_seconds,omitempty"`
}

func (Poll) EventType() EventType { return EventTypePoll }

// ContestType distinguishes contest mechanics
type ContestType string

const (
	ContestQuiz     ContestType = "quiz"
	ContestGiveaway ContestType = "giveaway"
)

// CastingContest is a quiz or giveaway overlay event
type CastingContest struct {
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Prize       string      `json:"prize"`
	Contest     ContestType `json:"contest"`
}

func (CastingContest) EventType() EventType { return EventTypeCastingContest }

// Highlight points at a replayable clip
type Highlight struct {
	Title        string `json:"title"`
	Description  string `json:"description,omitempty"`
	ThumbnailURL string `json:"thumbnail_url,omitempty" yaml:"thumbnail_url,omitempty"`
	ClipURL      string `json:"clip_url,omitempty" yaml:"clip_url,omitempty"`
	Kind         string `json:"kind,omitempty"`
}

func (Highlight) EventType() EventType { return EventTypeHighlight }

// Tweet is a social post surfaced on the timeline
type Tweet struct {
	AuthorName   string `json:"author_name" yaml:"author_name"`
	AuthorHandle string `json:"author_handle" yaml:"author_handle"`
	Text         string `json:"text"`
	IsVerified   bool   `json:"is_verified" yaml:"is_verified"`
	Likes        int    `json:"likes"`
	Retweets     int    `json:"retweets"`
}

func (Tweet) EventType() EventType { return EventTypeTweet }

// AdminComment is an editorial/commentary entry
type AdminComment struct {
	AdminName string `json:"admin_name" yaml:"admin_name"`
	Comment   string `json:"comment"`
	IsPinned  bool   `json:"is_pinned" yaml:"is_pinned"`
}

func (AdminComment) EventType() EventType { return EventTypeAdminComment }

// ProductHighlight promotes a product during the stream
type ProductHighlight struct {
	ProductID    string  `json:"product_id" yaml:"product_id"`
	ProductName  string  `json:"product_name" yaml:"product_name"`
	ProductImage string  `json:"product_image,omitempty" yaml:"product_image,omitempty"`
	Price        string  `json:"price"`
	Currency     string  `json:"currency"`
	Duration     float64 `json:"duration,omitempty"`
}

func (ProductHighlight) EventType() EventType { return EventTypeProductHighlight }
