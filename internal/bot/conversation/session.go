package conversation

import (
	"strings"

	"google.golang.org/genai"

	"github.com/reine-ishyanami/gemini-bot/internal/bot/gateway"
	"github.com/reine-ishyanami/gemini-bot/internal/bot/model"
)

// State is the continuation state machine position.
type State uint8

const (
	// StateAwaitingFirstReply is the window before any continuation input arrived.
	StateAwaitingFirstReply State = iota
	// StateAwaitingContinuation is the window after at least one exchange advanced.
	StateAwaitingContinuation
	// StateTerminated is terminal; no further input is solicited.
	StateTerminated
)

func (s State) String() string {
	switch s {
	case StateAwaitingFirstReply:
		return "awaiting_first_reply"
	case StateAwaitingContinuation:
		return "awaiting_continuation"
	case StateTerminated:
		return "terminated"
	}
	return "unknown"
}

// Event classifies one incoming message against the current anchor.
type Event uint8

const (
	// EventMatched is a reply targeting the current anchor with non-blank text.
	EventMatched Event = iota
	// EventMismatched is a message that is not a reply or targets another message.
	EventMismatched
	// EventBlank is an anchored reply whose text is blank after trimming.
	EventBlank
)

// Session owns one continuation window: the append-only history, the anchor
// the next reply must target, and the remaining turn budget. A session is
// created per invocation and never shared.
type Session struct {
	History        []*genai.Content
	Anchor         string
	CurrentText    string
	TurnsRemaining int
	AsText         bool
	State          State
}

func NewSession(history []*genai.Content, anchor, currentText string, turns int, asText bool) *Session {
	return &Session{
		History:        history,
		Anchor:         anchor,
		CurrentText:    currentText,
		TurnsRemaining: turns,
		AsText:         asText,
		State:          StateAwaitingFirstReply,
	}
}

// Classify maps an incoming message to a state machine event. It never
// mutates the session, so a discarded message leaves anchor and history intact.
func (s *Session) Classify(msg *model.Message) Event {
	if msg == nil || msg.ReplyTo == "" || msg.ReplyTo != s.Anchor {
		return EventMismatched
	}
	if strings.TrimSpace(msg.Text) == "" {
		return EventBlank
	}
	return EventMatched
}

// AppendExchange grows the history by exactly two turns: the model echo of the
// previous reply text, then the user's continuation text.
func (s *Session) AppendExchange(userText string) {
	s.History = append(s.History,
		gateway.ModelTurn(s.CurrentText),
		gateway.UserTextTurn(userText),
	)
}

// Advance records the outcome of a completed exchange: the new anchor and
// current text, one turn consumed.
func (s *Session) Advance(text, messageID string) {
	s.CurrentText = text
	s.Anchor = messageID
	s.TurnsRemaining--
	s.State = StateAwaitingContinuation
}

// Terminate moves the session to its terminal state.
func (s *Session) Terminate() {
	s.State = StateTerminated
}

// Exhausted reports whether the turn cap has been used up.
func (s *Session) Exhausted() bool {
	return s.TurnsRemaining <= 0
}
