package gameroom

import (
	"github.com/quizbattle-lab/backend/config"
	"github.com/quizbattle-lab/backend/pkg/errorx"
	"github.com/quizbattle-lab/backend/pkg/logger"
)

// Game type tags as they appear on the wire.
const (
	TypeTimeAttack = "Time Attack"
	TypeSurvival   = "Survival"
)

func GameTypes() []string {
	return []string{TypeTimeAttack, TypeSurvival}
}

// Factory constructs the game variant selected by its type tag. It is
// stateless; every call produces a fresh game bound to one room.
type Factory struct {
	questions   QuestionSource
	broadcaster Broadcaster
	logger      logger.Logger
	cfg         config.GameConfigs
}

func NewFactory(
	questions QuestionSource,
	broadcaster Broadcaster,
	logger logger.Logger,
	cfg config.GameConfigs,
) *Factory {
	return &Factory{
		questions:   questions,
		broadcaster: broadcaster,
		logger:      logger,
		cfg:         cfg,
	}
}

func (f *Factory) NewGame(roomID string, categoryID int, gameType string) (Game, error) {
	game := &quizGame{
		id:          roomID,
		roomID:      roomID,
		gameType:    gameType,
		categoryID:  categoryID,
		tick:        f.cfg.TickInterval.Duration,
		questions:   f.questions,
		broadcaster: f.broadcaster,
		logger:      f.logger,
		state:       GameIdle,
		done:        make(chan struct{}),
	}

	switch gameType {
	case TypeTimeAttack:
		game.rules = timeAttackRules{}
		game.roundTime = f.cfg.TimeAttack.RoundTime.Duration
		game.roundLimit = f.cfg.TimeAttack.Rounds

	case TypeSurvival:
		game.rules = survivalRules{}
		game.roundTime = f.cfg.Survival.RoundTime.Duration
		game.roundLimit = f.cfg.Survival.Rounds
		game.cursor = survivalCursorStart

	default:
		return nil, errorx.ErrInvalidGameType
	}

	return game, nil
}

// SetFinishHook installs the room cascade invoked when a game completes on
// its own. Kept off the Game interface so only the registry wires it.
func SetFinishHook(game Game, hook func()) {
	if g, ok := game.(*quizGame); ok {
		g.onFinished = hook
	}
}
