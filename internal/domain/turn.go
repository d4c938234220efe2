package domain

import "time"

// TimestampLayout is the format of the timestamp column in the conversation log.
const TimestampLayout = "2006-01-02 15:04:05"

// TextCommandPrefix marks a capture that already carries text and skips transcription.
const TextCommandPrefix = "__TEXT__:"

// Turn is one listen → transcribe → (search) → generate → speak → log cycle.
// It lives for a single loop iteration.
type Turn struct {
	Timestamp      time.Time
	Transcript     string
	Prompt         string
	Searched       bool
	SearchDegraded bool
	Reply          string
}

func (t Turn) FormattedTimestamp() string {
	return t.Timestamp.Format(TimestampLayout)
}

// Row returns the log columns in sheet order: timestamp, user input, assistant reply.
func (t Turn) Row() []string {
	return []string{t.FormattedTimestamp(), t.Transcript, t.Reply}
}
