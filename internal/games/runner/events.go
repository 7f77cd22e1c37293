package runner

// EventKind identifies something that happened during a tick or command.
// The platform maps events to sound cues and ledger calls.
type EventKind int

const (
	EventNone EventKind = iota
	EventStart
	EventResume
	EventPause
	EventJump
	EventCoin
	EventObstacle
	EventQuizOpen
	EventAnswerCorrect
	EventAnswerWrong
	EventQuizTimeout
	EventComplete
	EventRestart
	EventStageSelect
	EventSessionEnd
)

var eventNames = [...]string{
	EventNone:          "none",
	EventStart:         "start",
	EventResume:        "resume",
	EventPause:         "pause",
	EventJump:          "jump",
	EventCoin:          "coin",
	EventObstacle:      "obstacle",
	EventQuizOpen:      "quiz_open",
	EventAnswerCorrect: "answer_correct",
	EventAnswerWrong:   "answer_wrong",
	EventQuizTimeout:   "quiz_timeout",
	EventComplete:      "complete",
	EventRestart:       "restart",
	EventStageSelect:   "stage_select",
	EventSessionEnd:    "session_end",
}

func (k EventKind) String() string {
	if k < 0 || int(k) >= len(eventNames) {
		return "unknown"
	}
	return eventNames[k]
}

// Event is emitted by the state machine. ID refers to the coin, obstacle or
// wall involved, when there is one.
type Event struct {
	Kind    EventKind
	Stage   int
	ID      int
	Points  int
	Session *SessionSummary // Set on EventSessionEnd
}

// SessionSummary is the final tally of one Running episode. It is produced
// for every terminal outcome, successful or not.
type SessionSummary struct {
	Stage            int
	Score            int
	Coins            int
	QuestionsCorrect int
	Ticks            int
	Distance         float64
	Completed        bool
	Reason           StopReason
}
