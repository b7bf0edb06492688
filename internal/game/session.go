package game

import (
	"sync"
	"time"
)

type Phase string

const (
	PhaseAwaitingPick Phase = "awaiting_pick"
	PhaseRevealed     Phase = "revealed"
	PhaseGameOver     Phase = "game_over"
)

// Choice is a classic-style guess about the challenger relative to
// the anchor.
type Choice string

const (
	ChoiceHigher Choice = "higher"
	ChoiceLower  Choice = "lower"
)

// BestStore persists the player's best score per mode. Writes are
// best-effort; sessions keep running when persistence fails.
type BestStore interface {
	Best(mode Mode) int
	SetBest(mode Mode, score int) error
}

type Result struct {
	Picked   Side   `json:"picked,omitempty"`
	Relation Choice `json:"relation,omitempty"`
	Correct  bool   `json:"correct"`
}

// Session is the round state machine for one player in one mode.
// All transitions are serialized by the mutex; a pick is accepted at
// most once per round and terminal transitions are one-way.
type Session struct {
	Code string
	Mode Mode

	mu sync.Mutex

	rules   Rules
	sampler *Sampler
	best    BestStore

	pair     Pair
	anchor   Side
	picked   Side
	result   *Result
	round    int
	score    int
	mistakes int
	gameOver bool
	timeUp   bool

	// gen invalidates delayed advance callbacks scheduled before a
	// reset or an earlier round's reveal.
	gen int64

	deadline time.Time
}

type SessionSnapshot struct {
	Code      string  `json:"code"`
	Mode      Mode    `json:"mode"`
	Phase     Phase   `json:"phase"`
	Pair      Pair    `json:"pair"`
	Anchor    Side    `json:"anchor,omitempty"`
	Picked    Side    `json:"picked,omitempty"`
	Result    *Result `json:"result,omitempty"`
	Round     int     `json:"round"`
	Score     int     `json:"score"`
	Mistakes  int     `json:"mistakes"`
	Best      int     `json:"best"`
	GameOver  bool    `json:"gameOver"`
	TimeUp    bool    `json:"timeUp"`
	Deadline  int64   `json:"deadline,omitempty"`
}

// NewSession starts the first round immediately. The best store may
// be nil when no persistence is wanted.
func NewSession(code string, mode Mode, sampler *Sampler, best BestStore) *Session {
	s := &Session{
		Code:    code,
		Mode:    mode,
		rules:   mode.Rules(),
		sampler: sampler,
		best:    best,
	}
	s.startRound(nil)
	return s
}

func (s *Session) startRound(carry *Entity) {
	s.pair = s.sampler.Sample(carry, s.rules.Constraint)
	s.anchor = ""
	if carry != nil {
		if s.pair.Left.ID == carry.ID {
			s.anchor = SideLeft
		} else {
			s.anchor = SideRight
		}
	} else if !s.rules.FreshPairEachRound {
		// First round of an anchor mode: the left value is shown.
		s.anchor = SideLeft
	}
	s.picked = ""
	s.result = nil
	s.round++
}

// Rules returns the mode parameters driving this session.
func (s *Session) Rules() Rules {
	return s.rules
}

// Generation is the token guarding delayed advance callbacks.
func (s *Session) Generation() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gen
}

// SetDeadline marks when a timed session expires. Zero clears it.
func (s *Session) SetDeadline(t time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deadline = t
}

// Pick registers a side choice (mystery modes). The pick is correct
// when the chosen side holds the higher value; ties favor left.
func (s *Session) Pick(side Side) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if side != SideLeft && side != SideRight {
		return Result{}, ErrInvalidChoice
	}
	return s.resolve(side, side == s.pair.Higher())
}

// Guess registers a higher/lower call about the challenger relative
// to the anchor (classic and post-won modes).
func (s *Session) Guess(choice Choice) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if choice != ChoiceHigher && choice != ChoiceLower {
		return Result{}, ErrInvalidChoice
	}
	if s.anchor == "" {
		return Result{}, ErrInvalidChoice
	}
	challengerSide := SideRight
	if s.anchor == SideRight {
		challengerSide = SideLeft
	}
	relation := ChoiceLower
	if s.pair.Get(challengerSide).Value >= s.pair.Get(s.anchor).Value {
		relation = ChoiceHigher
	}
	res, err := s.resolve(challengerSide, relation == choice)
	if err == nil {
		res.Relation = relation
		s.result.Relation = relation
	}
	return res, err
}

// resolve applies one guess. Caller holds the lock.
func (s *Session) resolve(side Side, correct bool) (Result, error) {
	if s.gameOver || s.timeUp {
		return Result{}, ErrSessionOver
	}
	if s.picked != "" {
		return Result{}, ErrAlreadyPicked
	}

	s.picked = side
	res := Result{Picked: side, Correct: correct}
	s.result = &res

	if correct {
		s.score++
	} else {
		s.mistakes++
		if !s.rules.SurvivesMistakes {
			s.gameOver = true
			s.persistBest()
		}
	}
	return res, nil
}

// Advance starts the next round after the reveal delay. The gen token
// must match the value captured when the delay was scheduled, so a
// reset or time-up in the meantime leaves the session untouched.
func (s *Session) Advance(gen int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.gen || s.gameOver || s.timeUp || s.picked == "" {
		return false
	}
	s.gen++

	var carry *Entity
	if s.rules.CarryOverPick {
		picked := s.pair.Get(s.picked)
		carry = &picked
	}
	s.startRound(carry)
	return true
}

// TimeUp freezes a timed session. Further picks are rejected and the
// final score is persisted. One-way.
func (s *Session) TimeUp() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.gameOver || s.timeUp {
		return false
	}
	s.timeUp = true
	s.gen++
	s.persistBest()
	return true
}

// Reset starts the session over with fresh state and a fresh pair.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.score = 0
	s.mistakes = 0
	s.gameOver = false
	s.timeUp = false
	s.round = 0
	s.deadline = time.Time{}
	s.gen++
	s.sampler.ResetHistory()
	s.startRound(nil)
}

// persistBest overwrites the stored best only when beaten. Failures
// are swallowed; gameplay never blocks on persistence.
func (s *Session) persistBest() {
	if s.best == nil {
		return
	}
	if s.score > s.best.Best(s.Mode) {
		_ = s.best.SetBest(s.Mode, s.score)
	}
}

func (s *Session) Snapshot() SessionSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	phase := PhaseAwaitingPick
	switch {
	case s.gameOver || s.timeUp:
		phase = PhaseGameOver
	case s.picked != "":
		phase = PhaseRevealed
	}

	best := 0
	if s.best != nil {
		best = s.best.Best(s.Mode)
	}

	snap := SessionSnapshot{
		Code:     s.Code,
		Mode:     s.Mode,
		Phase:    phase,
		Pair:     s.pair,
		Anchor:   s.anchor,
		Picked:   s.picked,
		Round:    s.round,
		Score:    s.score,
		Mistakes: s.mistakes,
		Best:     best,
		GameOver: s.gameOver,
		TimeUp:   s.timeUp,
	}
	if s.result != nil {
		r := *s.result
		snap.Result = &r
	}
	if !s.deadline.IsZero() {
		snap.Deadline = s.deadline.UnixMilli()
	}
	return snap
}
