package game

import "time"

// Mode is the closed set of game variants. Leaderboards, best-score
// keys and session rules are all keyed by it.
type Mode string

const (
	ModeClassic      Mode = "classic"
	ModeMystery      Mode = "mystery"
	ModeTimedClassic Mode = "timed-classic"
	ModeTimedMystery Mode = "timed-mystery"
	ModePostWon      Mode = "post-won"
)

var allModes = []Mode{ModeClassic, ModeMystery, ModeTimedClassic, ModeTimedMystery, ModePostWon}

func Modes() []Mode {
	out := make([]Mode, len(allModes))
	copy(out, allModes)
	return out
}

// ParseMode validates a raw mode string from an API boundary.
func ParseMode(s string) (Mode, error) {
	for _, m := range allModes {
		if string(m) == s {
			return m, nil
		}
	}
	return "", ErrInvalidMode
}

func (m Mode) Timed() bool {
	return m == ModeTimedClassic || m == ModeTimedMystery
}

// Rules parameterize the single round state machine so the five mode
// variants do not need parallel implementations.
type Rules struct {
	// CarryOverPick promotes the picked side to next round's anchor:
	// the revealed challenger in guess modes, the winning pick in
	// mystery.
	CarryOverPick bool
	// FreshPairEachRound draws both entities anew every round.
	FreshPairEachRound bool
	// SurvivesMistakes counts wrong guesses instead of ending the game.
	SurvivesMistakes bool
	// RevealDelay is how long the revealed value stays on screen
	// before the next round starts.
	RevealDelay time.Duration
	// Constraint applies to challenger selection (post-won pairing).
	Constraint Constraint
}

func (m Mode) Rules() Rules {
	switch m {
	case ModeClassic:
		return Rules{CarryOverPick: true, RevealDelay: 1200 * time.Millisecond}
	case ModeMystery:
		return Rules{CarryOverPick: true, RevealDelay: 1200 * time.Millisecond}
	case ModeTimedClassic:
		return Rules{CarryOverPick: true, SurvivesMistakes: true, RevealDelay: time.Second}
	case ModeTimedMystery:
		return Rules{FreshPairEachRound: true, SurvivesMistakes: true, RevealDelay: 900 * time.Millisecond}
	case ModePostWon:
		return Rules{CarryOverPick: true, RevealDelay: 2 * time.Second, Constraint: Constraint{MinRatio: 2}}
	default:
		return Rules{}
	}
}
