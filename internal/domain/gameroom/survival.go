package gameroom

import (
	"github.com/quizbattle-lab/backend/internal/model"
)

// Survival: endurance play. A wrong answer eliminates the player; a correct
// answer pushes the cursor toward the answerer's side. The game ends when
// the cursor hits a limit, a single player remains, or the round budget
// runs out.

const (
	survivalCursorStart = 0.5
	survivalCursorStep  = 0.1
)

type survivalRules struct{}

func (survivalRules) maxPlayers() int { return 2 }

func (survivalRules) applyAnswer(g *quizGame, p *PlayerInGame, correct bool, remaining int) {
	if !correct {
		p.Eliminated = true
	}
}

func (survivalRules) roundDecided(g *quizGame) bool {
	for _, p := range g.activePlayers() {
		if !p.answered {
			return false
		}
	}
	return true
}

func (survivalRules) endRound(g *quizGame) (model.ServerMessage, bool) {
	if winner := g.current.winnerID; winner != "" {
		for _, p := range g.players {
			if p.ID == winner {
				if p.Index == 0 {
					g.cursor -= survivalCursorStep
				} else {
					g.cursor += survivalCursorStep
				}
				break
			}
		}
	}

	msg := model.CursorRoundEnded{
		CursorPosition: g.cursor,
		CorrectAnswer:  g.current.question.Answer,
		WinnerPlayerID: g.current.winnerID,
	}

	over := cursorAtLimit(g.cursor) ||
		len(g.activePlayers()) <= 1 ||
		g.roundNo >= g.roundLimit
	return msg, over
}

func (survivalRules) winnerID(g *quizGame) string {
	if active := g.activePlayers(); len(active) == 1 {
		return active[0].ID
	}

	side := -1
	switch {
	case g.cursor < survivalCursorStart:
		side = 0
	case g.cursor > survivalCursorStart:
		side = 1
	default:
		return ""
	}

	for _, p := range g.players {
		if p.Index == side && !p.Eliminated {
			return p.ID
		}
	}
	return ""
}

func cursorAtLimit(cursor float64) bool {
	return cursor <= 0 || cursor >= 1
}
