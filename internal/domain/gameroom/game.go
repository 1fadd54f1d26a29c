package gameroom

import (
	"context"
	"sync"
	"time"

	"github.com/quizbattle-lab/backend/internal/entity"
	"github.com/quizbattle-lab/backend/internal/model"
	"github.com/quizbattle-lab/backend/pkg/errorx"
	"github.com/quizbattle-lab/backend/pkg/logger"
)

// Broadcaster delivers a message to every subscriber of a room topic.
type Broadcaster interface {
	Broadcast(roomID string, msg model.ServerMessage)
}

// QuestionSource supplies a random question for a category.
type QuestionSource interface {
	RandomByCategory(ctx context.Context, categoryID int) (*entity.Question, error)
}

// Game is the capability contract every variant implements. A Game is bound
// 1:1 to its room for its whole lifetime.
type Game interface {
	ID() string
	Type() string
	CategoryID() int
	State() GameState
	MaxPlayerCount() int
	RoundTime() time.Duration

	// TransitionTo drives the game state machine. Transitioning to GameOver
	// is idempotent: both the disconnect path and the normal completion
	// path may request it.
	TransitionTo(target GameState) error

	HandleAnswer(playerID string, answer int) error

	AddPlayer(player entity.Player, index int)
	RemovePlayer(playerID string)
	Players() []PlayerInGame
}

// PlayerInGame mirrors the room roster with per-game fields.
type PlayerInGame struct {
	ID         string
	Name       string
	Index      int
	Score      int
	Eliminated bool

	answered bool
	answer   int
	correct  bool
}

// gameRules is the variant-specific part of a game. Every method is called
// with the game lock held.
type gameRules interface {
	maxPlayers() int

	// applyAnswer settles one submitted answer against the scores or
	// elimination flags.
	applyAnswer(g *quizGame, p *PlayerInGame, correct bool, remaining int)

	// roundDecided reports whether the current round can end before its
	// timer expires.
	roundDecided(g *quizGame) bool

	// endRound produces the round-ended message and reports whether the
	// game is over.
	endRound(g *quizGame) (model.ServerMessage, bool)

	// winnerID picks the game winner once the game is over. Empty means a
	// tie or no winner.
	winnerID(g *quizGame) string
}

type round struct {
	number    int
	question  *entity.Question
	remaining int
	winnerID  string

	decided    chan struct{}
	decideOnce sync.Once
}

func (r *round) decide() {
	r.decideOnce.Do(func() { close(r.decided) })
}

// quizGame runs the round loop shared by all variants; the rules field holds
// the variant behavior.
type quizGame struct {
	id         string
	roomID     string
	gameType   string
	categoryID int
	roundTime  time.Duration
	roundLimit int
	tick       time.Duration

	rules       gameRules
	questions   QuestionSource
	broadcaster Broadcaster
	logger      logger.Logger

	// onFinished cascades the room to Closing when the game completes on
	// its own. It is invoked from the round loop goroutine without holding
	// the game lock.
	onFinished func()

	mu       sync.Mutex
	state    GameState
	started  bool
	players  []*PlayerInGame
	current  *round
	roundNo  int
	cursor   float64
	resume   chan struct{}
	done     chan struct{}
	doneOnce sync.Once
}

func (g *quizGame) ID() string               { return g.id }
func (g *quizGame) Type() string             { return g.gameType }
func (g *quizGame) CategoryID() int          { return g.categoryID }
func (g *quizGame) MaxPlayerCount() int      { return g.rules.maxPlayers() }
func (g *quizGame) RoundTime() time.Duration { return g.roundTime }

func (g *quizGame) State() GameState {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

func (g *quizGame) AddPlayer(player entity.Player, index int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.players = append(g.players, &PlayerInGame{
		ID:    player.ID,
		Name:  player.Name,
		Index: index,
	})
}

func (g *quizGame) RemovePlayer(playerID string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	for i, p := range g.players {
		if p.ID == playerID {
			g.players = append(g.players[:i], g.players[i+1:]...)
			return
		}
	}
}

func (g *quizGame) Players() []PlayerInGame {
	g.mu.Lock()
	defer g.mu.Unlock()
	result := make([]PlayerInGame, 0, len(g.players))
	for _, p := range g.players {
		result = append(result, *p)
	}
	return result
}

func (g *quizGame) TransitionTo(target GameState) error {
	g.mu.Lock()

	if g.state == target {
		g.mu.Unlock()
		return nil
	}

	legal := false
	switch g.state {
	case GameIdle:
		// Pause before the first round happens when a player drops during
		// the room countdown.
		legal = target == GamePlaying || target == GamePause || target == GameOver
	case GamePlaying:
		legal = target == GamePause || target == GameOver
	case GamePause:
		legal = target == GamePlaying || target == GameOver
	case GameOver:
		// Terminal. The idempotent Over->Over case returned above.
	}
	if !legal {
		from := g.state
		g.mu.Unlock()
		return errorx.New(errorx.Internal, "invalid game transition from %s to %s", from, target)
	}

	g.state = target

	switch target {
	case GamePlaying:
		if !g.started {
			g.started = true
			g.mu.Unlock()
			go g.runRounds()
			return nil
		}
		// Resuming from pause.
		resume := g.resume
		g.mu.Unlock()
		if resume != nil {
			close(resume)
		}
		return nil

	case GamePause:
		g.resume = make(chan struct{})
		g.mu.Unlock()
		return nil

	case GameOver:
		winner := g.rules.winnerID(g)
		g.mu.Unlock()
		g.doneOnce.Do(func() { close(g.done) })
		g.broadcast(model.GameOver{WinnerPlayerID: winner})
		return nil
	}

	g.mu.Unlock()
	return nil
}

func (g *quizGame) HandleAnswer(playerID string, answer int) error {
	g.mu.Lock()
	if g.state != GamePlaying || g.current == nil {
		g.mu.Unlock()
		return errorx.ErrWrongRoomPhase
	}

	var player *PlayerInGame
	for _, p := range g.players {
		if p.ID == playerID {
			player = p
			break
		}
	}
	if player == nil {
		g.mu.Unlock()
		return errorx.ErrPlayerNotFound
	}
	if player.Eliminated || player.answered {
		g.mu.Unlock()
		return errorx.ErrWrongRoomPhase
	}

	player.answered = true
	player.answer = answer
	correct := answer == g.current.question.Answer
	player.correct = correct
	if correct && g.current.winnerID == "" {
		g.current.winnerID = playerID
	}

	g.rules.applyAnswer(g, player, correct, g.current.remaining)
	decided := g.rules.roundDecided(g)
	current := g.current
	g.mu.Unlock()

	g.broadcast(model.AnswerResult{PlayerID: playerID, Answer: answer, Correct: correct})
	if decided {
		current.decide()
	}
	return nil
}

// runRounds is the game's own timer loop, independent of the room countdown.
func (g *quizGame) runRounds() {
	g.logger.Infof("Game %s started for room %s", g.gameType, g.roomID)

	for {
		select {
		case <-g.done:
			return
		default:
		}
		g.waitIfPaused()

		g.mu.Lock()
		if g.state == GameOver {
			g.mu.Unlock()
			return
		}
		if g.roundNo >= g.roundLimit {
			g.mu.Unlock()
			g.finish()
			return
		}
		g.mu.Unlock()

		question, err := g.questions.RandomByCategory(context.Background(), g.categoryID)
		if err != nil {
			g.logger.Errorf("Cannot draw question for room %s: %v", g.roomID, err)
			g.finish()
			return
		}

		g.mu.Lock()
		g.roundNo++
		current := &round{
			number:    g.roundNo,
			question:  question,
			remaining: int(g.roundTime / g.tick),
			decided:   make(chan struct{}),
		}
		g.current = current
		for _, p := range g.players {
			p.answered = false
			p.answer = 0
			p.correct = false
		}
		g.mu.Unlock()

		g.broadcast(model.RoundStarted{
			RoundNumber:     current.number,
			TimeRemaining:   current.remaining,
			CurrentQuestion: questionDTO(question),
		})

		timedOut := g.runRoundTimer(current)
		if timedOut {
			g.broadcast(model.TimeUp{CorrectAnswer: question.Answer})
		}

		g.mu.Lock()
		if g.state == GameOver {
			g.mu.Unlock()
			return
		}
		endMsg, over := g.rules.endRound(g)
		g.current = nil
		g.mu.Unlock()

		g.broadcast(endMsg)
		if over {
			g.finish()
			return
		}
	}
}

// runRoundTimer counts the round down, freezing while the game is paused.
// It reports whether the round ran out of time.
func (g *quizGame) runRoundTimer(current *round) bool {
	ticker := time.NewTicker(g.tick)
	defer ticker.Stop()

	for {
		select {
		case <-g.done:
			return false
		case <-current.decided:
			return false
		case <-ticker.C:
			g.mu.Lock()
			if g.state == GamePause {
				g.mu.Unlock()
				continue
			}
			current.remaining--
			remaining := current.remaining
			g.mu.Unlock()

			if remaining <= 0 {
				return true
			}
			g.broadcast(model.TimeUpdate{Remaining: remaining})
		}
	}
}

// finish ends the game through the normal completion path and cascades the
// room. Never called with the game lock held.
func (g *quizGame) finish() {
	if err := g.TransitionTo(GameOver); err != nil {
		g.logger.Errorf("Cannot finish game of room %s: %v", g.roomID, err)
		return
	}
	if g.onFinished != nil {
		g.onFinished()
	}
}

func (g *quizGame) waitIfPaused() {
	g.mu.Lock()
	if g.state != GamePause {
		g.mu.Unlock()
		return
	}
	resume := g.resume
	g.mu.Unlock()

	select {
	case <-resume:
	case <-g.done:
	}
}

func (g *quizGame) broadcast(msg model.ServerMessage) {
	g.broadcaster.Broadcast(g.roomID, msg)
}

// activePlayers returns the non-eliminated part of the roster. Lock held by
// the caller.
func (g *quizGame) activePlayers() []*PlayerInGame {
	var result []*PlayerInGame
	for _, p := range g.players {
		if !p.Eliminated {
			result = append(result, p)
		}
	}
	return result
}

func questionDTO(q *entity.Question) model.QuestionDTO {
	options := make([]model.Option, 0, len(q.Options))
	for _, o := range q.Options {
		options = append(options, model.Option{ID: o.ID, Text: o.Text})
	}
	return model.QuestionDTO{
		ImageCode: q.ImageCode,
		Content:   q.Content,
		Options:   options,
	}
}
