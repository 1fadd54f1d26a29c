package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/quizbattle-lab/backend/config"
	"github.com/quizbattle-lab/backend/internal/entity"
	"github.com/quizbattle-lab/backend/internal/model"
)

// RecordingBroadcaster captures every broadcast per room so tests can
// assert on the outbound message stream without a live socket.
type RecordingBroadcaster struct {
	mu       sync.Mutex
	messages map[string][]model.ServerMessage
}

func NewRecordingBroadcaster() *RecordingBroadcaster {
	return &RecordingBroadcaster{messages: make(map[string][]model.ServerMessage)}
}

func (b *RecordingBroadcaster) Broadcast(roomID string, msg model.ServerMessage) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.messages[roomID] = append(b.messages[roomID], msg)
}

func (b *RecordingBroadcaster) DeleteTopic(roomID string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.messages, roomID)
}

func (b *RecordingBroadcaster) Messages(roomID string) []model.ServerMessage {
	b.mu.Lock()
	defer b.mu.Unlock()
	msgs := make([]model.ServerMessage, len(b.messages[roomID]))
	copy(msgs, b.messages[roomID])
	return msgs
}

// MessagesOfType filters the room stream by the wire discriminator.
func (b *RecordingBroadcaster) MessagesOfType(roomID, msgType string) []model.ServerMessage {
	var result []model.ServerMessage
	for _, msg := range b.Messages(roomID) {
		if msg.MessageType() == msgType {
			result = append(result, msg)
		}
	}
	return result
}

// WaitForMessage polls the room stream until a message of the given type
// shows up or the timeout elapses.
func (b *RecordingBroadcaster) WaitForMessage(
	roomID, msgType string, timeout time.Duration,
) (model.ServerMessage, bool) {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if msgs := b.MessagesOfType(roomID, msgType); len(msgs) > 0 {
			return msgs[0], true
		}
		time.Sleep(time.Millisecond)
	}
	return nil, false
}

// StaticQuestionSource cycles through a fixed question list.
type StaticQuestionSource struct {
	mu        sync.Mutex
	questions []entity.Question
	next      int
}

func NewStaticQuestionSource(questions ...entity.Question) *StaticQuestionSource {
	if len(questions) == 0 {
		questions = []entity.Question{SampleQuestion()}
	}
	return &StaticQuestionSource{questions: questions}
}

func (s *StaticQuestionSource) RandomByCategory(
	ctx context.Context, categoryID int,
) (*entity.Question, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	q := s.questions[s.next%len(s.questions)]
	s.next++
	return &q, nil
}

// FakeSessions records close calls made during room disposal.
type FakeSessions struct {
	mu      sync.Mutex
	Removed []string
}

func (f *FakeSessions) Remove(playerID string, code int, reason string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Removed = append(f.Removed, playerID)
	return true
}

func SampleQuestion() entity.Question {
	return entity.Question{
		ID:         101,
		CategoryID: 1,
		Content:    "Which country does this flag belong to?",
		ImageCode:  "fr",
		Options: entity.Array[entity.Option]{
			{ID: 0, Text: "Italy"},
			{ID: 1, Text: "France"},
			{ID: 2, Text: "Spain"},
			{ID: 3, Text: "Poland"},
		},
		Answer: 1,
	}
}

// SamplePlayer builds a roster entry with a deterministic id.
func SamplePlayer(id, name string) entity.Player {
	return entity.Player{Base: entity.Base{ID: id}, Name: name}
}

// FastGameConfigs shrinks every timer so state machine tests finish in
// milliseconds.
func FastGameConfigs() config.GameConfigs {
	return config.GameConfigs{
		CountdownTicks:  2,
		TickInterval:    config.Duration{Duration: 5 * time.Millisecond},
		ReconnectWindow: config.Duration{Duration: 50 * time.Millisecond},
		TimeAttack: config.VariantConfigs{
			Rounds:    2,
			RoundTime: config.Duration{Duration: 40 * time.Millisecond},
		},
		Survival: config.VariantConfigs{
			Rounds:    20,
			RoundTime: config.Duration{Duration: 40 * time.Millisecond},
		},
	}
}
