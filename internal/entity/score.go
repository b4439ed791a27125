package entity

// ScoreBoard keeps the running tallies of a session. Counters only grow.
type ScoreBoard struct {
	XWins int `json:"x_wins"`
	OWins int `json:"o_wins"`
	Ties  int `json:"ties"`
}

func (that *ScoreBoard) RecordOutcome(outcome Outcome) {
	switch outcome {
	case XWins:
		that.XWins++
	case OWins:
		that.OWins++
	case Tie:
		that.Ties++
	case None:
	}
}

func (that ScoreBoard) Total() int {
	return that.XWins + that.OWins + that.Ties
}
