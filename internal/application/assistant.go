package application

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"voice-assistant/internal/domain"
)

// Session groups the collaborators of one voice session. It is built once at
// startup and handed to NewAssistant.
type Session struct {
	Audio    AudioSource
	STT      SpeechToText
	Trigger  *SearchTrigger
	Search   WebSearcher
	LLM      AnswerGenerator
	Voice    SpeechSynthesizer
	Log      ConversationLogger
	Notifier Notifier
	Options  Options
}

type Options struct {
	// ExitPhrases end the session when a transcript equals one of them after
	// trimming and lower-casing.
	ExitPhrases []string
	Farewell    string
	// LogExitTurn records the exit phrase and farewell as a final log row.
	LogExitTurn bool
	Now         func() time.Time
}

func DefaultOptions() Options {
	return Options{
		ExitPhrases: []string{"exit", "quit", "stop"},
		Farewell:    "Goodbye!",
		Now:         time.Now,
	}
}

type Assistant struct {
	audio    AudioSource
	stt      SpeechToText
	trigger  *SearchTrigger
	search   WebSearcher
	llm      AnswerGenerator
	voice    SpeechSynthesizer
	log      ConversationLogger
	notifier Notifier
	opts     Options
	exits    map[string]struct{}
	state    State
	logger   *slog.Logger
}

func NewAssistant(session Session, logger *slog.Logger) *Assistant {
	a := &Assistant{
		audio:    session.Audio,
		stt:      session.STT,
		trigger:  session.Trigger,
		search:   session.Search,
		llm:      session.LLM,
		voice:    session.Voice,
		log:      session.Log,
		notifier: session.Notifier,
		opts:     session.Options,
		exits:    make(map[string]struct{}),
		state:    StateIdle,
		logger:   logger,
	}

	if a.stt == nil {
		a.stt = &NoopSTT{}
	}
	if a.search == nil {
		a.trigger = nil
	}
	if a.log == nil {
		a.log = &NoopLogger{}
	}
	if a.notifier == nil {
		a.notifier = &NoopNotifier{}
	}
	if a.opts.Now == nil {
		a.opts.Now = time.Now
	}
	for _, phrase := range a.opts.ExitPhrases {
		if p := normalizeUtterance(phrase); p != "" {
			a.exits[p] = struct{}{}
		}
	}

	return a
}

// State reports where the loop currently is.
func (a *Assistant) State() State {
	return a.state
}

// Run drives turns until the user says an exit phrase (nil), ctx is cancelled
// (ctx.Err()), or a collaborator fails unrecoverably (wrapped error).
func (a *Assistant) Run(ctx context.Context) error {
	a.logger.Info("starting audio source", "source", a.audio.Name())
	if err := a.audio.Start(ctx); err != nil {
		a.advance(EventFail)
		return fmt.Errorf("starting audio: %w", err)
	}
	defer a.audio.Stop()

	a.advance(EventStart)
	a.logger.Info("assistant ready, listening", "exit_phrases", a.opts.ExitPhrases)

	for {
		if err := ctx.Err(); err != nil {
			a.advance(EventFail)
			return err
		}

		done, err := a.processTurn(ctx)
		if err != nil {
			a.advance(EventFail)
			if ctx.Err() != nil {
				return ctx.Err()
			}
			a.alert(ctx, err)
			return err
		}
		if done {
			a.logger.Info("session ended by user")
			return nil
		}
	}
}

// processTurn runs one turn. done reports that the exit phrase was heard.
func (a *Assistant) processTurn(ctx context.Context) (done bool, err error) {
	audioData, err := a.audio.NextCommand(ctx)
	if err != nil {
		return false, fmt.Errorf("capturing audio: %w", err)
	}

	if len(audioData) == 0 {
		return false, nil
	}
	a.advance(EventCaptured)

	turn := domain.Turn{Timestamp: a.opts.Now()}

	turn.Transcript, err = a.transcribe(ctx, audioData)
	if err != nil {
		return false, err
	}

	if a.isExitPhrase(turn.Transcript) {
		return true, a.farewell(ctx, turn)
	}
	a.advance(EventTranscribed)

	turn.Prompt = a.buildPrompt(ctx, &turn)

	reply, err := a.llm.Complete(ctx, turn.Prompt)
	if err != nil {
		return false, fmt.Errorf("generating answer: %w", err)
	}
	turn.Reply = strings.TrimSpace(reply)
	a.logger.Info("assistant reply", "reply", turn.Reply)
	a.advance(EventGenerated)

	if err := a.voice.Speak(ctx, turn.Reply); err != nil {
		return false, fmt.Errorf("speaking reply: %w", err)
	}
	a.advance(EventSpoken)

	a.record(ctx, turn)
	a.advance(EventLogged)

	return false, nil
}

func (a *Assistant) transcribe(ctx context.Context, audioData []byte) (string, error) {
	if text, isText := isTextCommand(audioData); isText {
		a.logger.Info("received text command directly", "text", text)
		return text, nil
	}

	a.logger.Info("received audio", "bytes", len(audioData))
	text, err := a.stt.Transcribe(ctx, audioData)
	if err != nil {
		return "", fmt.Errorf("transcribing: %w", err)
	}
	a.logger.Info("transcribed", "text", text)
	return text, nil
}

// buildPrompt picks exactly one prompt path for the turn: the transcript
// verbatim, or the transcript wrapped with search results.
func (a *Assistant) buildPrompt(ctx context.Context, turn *domain.Turn) string {
	decision := Decision{Rule: RuleNone}
	if a.trigger != nil {
		decision = a.trigger.Evaluate(turn.Transcript)
	}
	a.logger.Debug("search trigger evaluated",
		"search", decision.Search,
		"rule", decision.Rule,
		"match", decision.Match,
	)

	if !decision.Search {
		a.advance(EventNoSearch)
		return turn.Transcript
	}
	a.advance(EventSearchNeeded)

	outcome := a.runSearch(ctx, turn.Transcript)
	turn.Searched = true
	turn.SearchDegraded = outcome.degraded
	a.advance(EventSearched)

	return AugmentedPrompt(turn.Transcript, outcome.text)
}

func (a *Assistant) runSearch(ctx context.Context, query string) searchOutcome {
	a.logger.Info("performing web search", "query", query)
	text, err := a.search.Search(ctx, query)
	if err != nil {
		a.logger.Warn("web search failed, continuing without results", "error", err)
		return searchFallback(err)
	}
	a.logger.Debug("web search result", "result", text)
	return searchOutcome{text: text}
}

func (a *Assistant) farewell(ctx context.Context, turn domain.Turn) error {
	a.logger.Info("exit phrase heard", "text", turn.Transcript)
	if err := a.voice.Speak(ctx, a.opts.Farewell); err != nil {
		return fmt.Errorf("speaking farewell: %w", err)
	}
	if a.opts.LogExitTurn {
		turn.Reply = a.opts.Farewell
		a.record(ctx, turn)
	}
	a.advance(EventExitPhrase)
	return nil
}

// record appends the turn to the conversation log. Failures only cost the log
// row, so they are reported and swallowed.
func (a *Assistant) record(ctx context.Context, turn domain.Turn) {
	ts := turn.FormattedTimestamp()
	a.logger.Debug("logging turn", "timestamp", ts, "input", turn.Transcript, "reply", turn.Reply)

	if err := a.log.AppendRow(ctx, ts, turn.Transcript, turn.Reply); err != nil {
		a.logger.Warn("failed to log turn", "error", err)
		return
	}
	a.logger.Debug("turn logged")
}

func (a *Assistant) alert(ctx context.Context, cause error) {
	if err := a.notifier.Notify(ctx, fmt.Sprintf("Voice assistant stopped: %s", cause.Error())); err != nil {
		a.logger.Error("notifying operator", "error", err)
	}
}

func (a *Assistant) advance(event Event) {
	next, err := Transition(a.state, event)
	if err != nil {
		a.logger.Debug("ignoring state event", "state", a.state, "event", event, "error", err)
		return
	}
	a.state = next
}

func (a *Assistant) isExitPhrase(text string) bool {
	_, ok := a.exits[normalizeUtterance(text)]
	return ok
}

func normalizeUtterance(text string) string {
	return strings.ToLower(strings.TrimSpace(text))
}

func isTextCommand(data []byte) (string, bool) {
	if len(data) > len(domain.TextCommandPrefix) && string(data[:len(domain.TextCommandPrefix)]) == domain.TextCommandPrefix {
		return string(data[len(domain.TextCommandPrefix):]), true
	}
	return "", false
}
