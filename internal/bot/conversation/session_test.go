package conversation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"github.com/reine-ishyanami/gemini-bot/internal/bot/gateway"
	"github.com/reine-ishyanami/gemini-bot/internal/bot/model"
)

func newTestSession() *Session {
	history := []*genai.Content{
		gateway.UserTurn(gateway.BuildUserParts("hello", nil)),
	}
	return NewSession(history, "m1", "hi there", 7, false)
}

func TestClassify(t *testing.T) {
	s := newTestSession()

	tests := []struct {
		name string
		msg  *model.Message
		want Event
	}{
		{"anchored reply", &model.Message{ID: "u1", ReplyTo: "m1", Text: "tell me more"}, EventMatched},
		{"reply to another message", &model.Message{ID: "u2", ReplyTo: "m0", Text: "tell me more"}, EventMismatched},
		{"not a reply", &model.Message{ID: "u3", Text: "tell me more"}, EventMismatched},
		{"nil message", nil, EventMismatched},
		{"blank anchored reply", &model.Message{ID: "u4", ReplyTo: "m1", Text: "   \t"}, EventBlank},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, s.Classify(tt.msg))
		})
	}
}

func TestClassifyDoesNotMutate(t *testing.T) {
	s := newTestSession()
	before := len(s.History)

	s.Classify(&model.Message{ID: "u1", ReplyTo: "wrong", Text: "x"})

	assert.Equal(t, before, len(s.History))
	assert.Equal(t, "m1", s.Anchor)
	assert.Equal(t, 7, s.TurnsRemaining)
	assert.Equal(t, StateAwaitingFirstReply, s.State)
}

func TestAppendExchangeGrowsHistoryByTwo(t *testing.T) {
	s := newTestSession()

	s.AppendExchange("tell me more")

	require.Len(t, s.History, 3)
	echo := s.History[1]
	assert.Equal(t, genai.RoleModel, echo.Role)
	assert.Equal(t, "hi there", echo.Parts[0].Text)

	cont := s.History[2]
	assert.Equal(t, genai.RoleUser, cont.Role)
	assert.Equal(t, "tell me more", cont.Parts[0].Text)
}

func TestAdvanceConsumesTurn(t *testing.T) {
	s := newTestSession()

	s.Advance("new answer", "m2")

	assert.Equal(t, "new answer", s.CurrentText)
	assert.Equal(t, "m2", s.Anchor)
	assert.Equal(t, 6, s.TurnsRemaining)
	assert.Equal(t, StateAwaitingContinuation, s.State)
	assert.False(t, s.Exhausted())
}

func TestExhausted(t *testing.T) {
	s := newTestSession()
	s.TurnsRemaining = 1
	s.Advance("answer", "m2")
	assert.True(t, s.Exhausted())
}

func TestTerminateIsTerminal(t *testing.T) {
	s := newTestSession()
	s.Terminate()
	assert.Equal(t, StateTerminated, s.State)
}
