package gameroom

import (
	"github.com/pkg/math"
	"github.com/quizbattle-lab/backend/internal/model"
)

// Time Attack: two players race through a fixed number of rounds. The first
// correct answer ends the round and scores by speed; the highest total score
// wins.

const timeAttackScoreBase = 10

type timeAttackRules struct{}

func (timeAttackRules) maxPlayers() int { return 2 }

func (timeAttackRules) applyAnswer(g *quizGame, p *PlayerInGame, correct bool, remaining int) {
	if correct {
		p.Score += timeAttackScoreBase + math.Max(remaining, 0)
	}
}

func (timeAttackRules) roundDecided(g *quizGame) bool {
	if g.current.winnerID != "" {
		return true
	}

	for _, p := range g.activePlayers() {
		if !p.answered {
			return false
		}
	}
	return true
}

func (timeAttackRules) endRound(g *quizGame) (model.ServerMessage, bool) {
	msg := model.StandardRoundEnded{
		CorrectAnswer:  g.current.question.Answer,
		WinnerPlayerID: g.current.winnerID,
	}
	return msg, g.roundNo >= g.roundLimit
}

func (timeAttackRules) winnerID(g *quizGame) string {
	best := ""
	bestScore := -1
	tied := false
	for _, p := range g.players {
		if p.Score > bestScore {
			best, bestScore, tied = p.ID, p.Score, false
		} else if p.Score == bestScore {
			tied = true
		}
	}

	if tied {
		return ""
	}
	return best
}
