package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

var (
	ErrInvalidTransition  = errors.New("invalid cycle transition")
	ErrCycleClosed        = errors.New("cycle already closed")
	ErrInvalidCycleRecord = errors.New("invalid cycle record")
)

type CycleState string

const (
	CycleStatePending      CycleState = "pending"
	CycleStateFasting      CycleState = "fasting"
	CycleStateEating       CycleState = "eating"
	CycleStateCompleted    CycleState = "completed"
	CycleStateBroken       CycleState = "broken"
	CycleStateMissedWindow CycleState = "missed_window"
)

func (state CycleState) Terminal() bool {
	switch state {
	case CycleStateCompleted, CycleStateBroken, CycleStateMissedWindow:
		return true
	default:
		return false
	}
}

func (state CycleState) valid() bool {
	switch state {
	case CycleStatePending, CycleStateFasting, CycleStateEating,
		CycleStateCompleted, CycleStateBroken, CycleStateMissedWindow:
		return true
	default:
		return false
	}
}

type CycleTransition string

const (
	TransitionStartFasting CycleTransition = "start_fasting"
	TransitionStartEating  CycleTransition = "start_eating"
	TransitionBreakFast    CycleTransition = "break_fast"
	TransitionComplete     CycleTransition = "complete"
	TransitionMissedWindow CycleTransition = "missed_window"
)

// FastingCycle is one calendar day's lifecycle. Values are immutable: every transition
// returns a new cycle and leaves the receiver untouched. Timestamps that are not valid
// for the current state are never set.
type FastingCycle struct {
	id               string
	date             string
	state            CycleState
	cycleStartedAt   time.Time
	fastingStartedAt time.Time
	fastingEndedAt   time.Time
	eatingStartedAt  time.Time
	eatingEndedAt    time.Time
}

func NewFastingCycle(id string, date string, startedAt time.Time) FastingCycle {
	return FastingCycle{
		id:             id,
		date:           date,
		state:          CycleStatePending,
		cycleStartedAt: startedAt,
	}
}

func (cycle FastingCycle) ID() string                { return cycle.id }
func (cycle FastingCycle) Date() string              { return cycle.date }
func (cycle FastingCycle) State() CycleState         { return cycle.state }
func (cycle FastingCycle) CycleStartedAt() time.Time { return cycle.cycleStartedAt }
func (cycle FastingCycle) Terminal() bool            { return cycle.state.Terminal() }
func (cycle FastingCycle) Completed() bool           { return cycle.state == CycleStateCompleted }
func (cycle FastingCycle) Broken() bool              { return cycle.state == CycleStateBroken }
func (cycle FastingCycle) MissedWindow() bool        { return cycle.state == CycleStateMissedWindow }

func (cycle FastingCycle) FastingStartedAt() (time.Time, bool) {
	return cycle.fastingStartedAt, !cycle.fastingStartedAt.IsZero()
}

func (cycle FastingCycle) FastingEndedAt() (time.Time, bool) {
	return cycle.fastingEndedAt, !cycle.fastingEndedAt.IsZero()
}

func (cycle FastingCycle) EatingStartedAt() (time.Time, bool) {
	return cycle.eatingStartedAt, !cycle.eatingStartedAt.IsZero()
}

func (cycle FastingCycle) EatingEndedAt() (time.Time, bool) {
	return cycle.eatingEndedAt, !cycle.eatingEndedAt.IsZero()
}

// Apply runs transition at the given instant.
func (cycle FastingCycle) Apply(transition CycleTransition, at time.Time) (FastingCycle, error) {
	switch transition {
	case TransitionStartFasting:
		return cycle.StartFasting(at)
	case TransitionStartEating:
		return cycle.StartEating(at)
	case TransitionBreakFast:
		return cycle.BreakFast(at)
	case TransitionComplete:
		return cycle.Complete(at)
	case TransitionMissedWindow:
		return cycle.MarkMissedWindow()
	default:
		return cycle, fmt.Errorf("%w: %q", ErrInvalidTransition, transition)
	}
}

// StartFasting moves a pending or eating cycle into a fast. Re-entering a fast after eating
// closes the eating interval.
func (cycle FastingCycle) StartFasting(at time.Time) (FastingCycle, error) {
	if cycle.Terminal() {
		return cycle, ErrCycleClosed
	}
	next := cycle
	switch cycle.state {
	case CycleStatePending:
	case CycleStateEating:
		next.eatingEndedAt = at
		next.fastingEndedAt = time.Time{}
	default:
		return cycle, ErrInvalidTransition
	}
	next.state = CycleStateFasting
	next.fastingStartedAt = at
	return next, nil
}

func (cycle FastingCycle) StartEating(at time.Time) (FastingCycle, error) {
	if cycle.Terminal() {
		return cycle, ErrCycleClosed
	}
	if cycle.state != CycleStateFasting {
		return cycle, ErrInvalidTransition
	}
	next := cycle
	next.state = CycleStateEating
	next.fastingEndedAt = at
	next.eatingStartedAt = at
	next.eatingEndedAt = time.Time{}
	return next, nil
}

func (cycle FastingCycle) BreakFast(at time.Time) (FastingCycle, error) {
	if cycle.Terminal() {
		return cycle, ErrCycleClosed
	}
	next := cycle
	next.state = CycleStateBroken
	if cycle.state == CycleStateEating {
		next.eatingEndedAt = at
	} else {
		next.fastingEndedAt = at
	}
	return next, nil
}

func (cycle FastingCycle) Complete(at time.Time) (FastingCycle, error) {
	if cycle.Terminal() {
		return cycle, ErrCycleClosed
	}
	if cycle.state != CycleStateEating {
		return cycle, ErrInvalidTransition
	}
	next := cycle
	next.state = CycleStateCompleted
	next.eatingEndedAt = at
	return next, nil
}

func (cycle FastingCycle) MarkMissedWindow() (FastingCycle, error) {
	if cycle.Terminal() {
		return cycle, ErrCycleClosed
	}
	next := cycle
	next.state = CycleStateMissedWindow
	return next, nil
}

// settle closes a cycle whose day is over at the given instant. A cycle that reached its
// eating window completes, a full-day fast completes with an empty eating interval and
// anything else missed its window.
func (cycle FastingCycle) settle(at time.Time, fullDayFast bool) (FastingCycle, error) {
	if cycle.Terminal() {
		return cycle, ErrCycleClosed
	}
	_, ate := cycle.EatingStartedAt()
	switch {
	case cycle.state == CycleStateEating:
		return cycle.Complete(latestInstant(at, cycle.eatingStartedAt))
	case cycle.state == CycleStateFasting && ate:
		next := cycle
		next.state = CycleStateCompleted
		next.fastingEndedAt = latestInstant(at, cycle.fastingStartedAt)
		return next, nil
	case cycle.state == CycleStateFasting && fullDayFast:
		eating, err := cycle.StartEating(latestInstant(at, cycle.fastingStartedAt))
		if err != nil {
			return cycle, err
		}
		return eating.Complete(eating.eatingStartedAt)
	default:
		return cycle.MarkMissedWindow()
	}
}

func (cycle FastingCycle) validate() error {
	if cycle.id == "" || !cycle.state.valid() || cycle.cycleStartedAt.IsZero() {
		return ErrInvalidCycleRecord
	}
	if _, err := ParseDayKey(cycle.date, time.UTC); err != nil {
		return ErrInvalidCycleRecord
	}

	fastingStarted := !cycle.fastingStartedAt.IsZero()
	fastingEnded := !cycle.fastingEndedAt.IsZero()
	eatingStarted := !cycle.eatingStartedAt.IsZero()
	eatingEnded := !cycle.eatingEndedAt.IsZero()

	ok := true
	switch cycle.state {
	case CycleStatePending:
		ok = !fastingStarted && !fastingEnded && !eatingStarted && !eatingEnded
	case CycleStateFasting:
		ok = fastingStarted && !fastingEnded && eatingStarted == eatingEnded
	case CycleStateEating:
		ok = fastingStarted && fastingEnded && eatingStarted && !eatingEnded
	case CycleStateCompleted:
		ok = fastingStarted && fastingEnded && eatingStarted && eatingEnded
	case CycleStateBroken:
		ok = fastingEnded || eatingEnded
	}
	if !ok {
		return fmt.Errorf("%w: timestamps do not match state %s", ErrInvalidCycleRecord, cycle.state)
	}
	return nil
}

type fastingCycleRecord struct {
	ID               string     `json:"id"`
	Date             string     `json:"date"`
	State            CycleState `json:"state"`
	CycleStartedAt   time.Time  `json:"cycleStartedAt"`
	FastingStartedAt *time.Time `json:"fastingStartedAt,omitempty"`
	FastingEndedAt   *time.Time `json:"fastingEndedAt,omitempty"`
	EatingStartedAt  *time.Time `json:"eatingStartedAt,omitempty"`
	EatingEndedAt    *time.Time `json:"eatingEndedAt,omitempty"`
	Completed        bool       `json:"completed"`
	Broken           bool       `json:"broken"`
	MissedWindow     bool       `json:"missedWindow"`
}

func (cycle FastingCycle) MarshalJSON() ([]byte, error) {
	return json.Marshal(fastingCycleRecord{
		ID:               cycle.id,
		Date:             cycle.date,
		State:            cycle.state,
		CycleStartedAt:   cycle.cycleStartedAt,
		FastingStartedAt: optionalInstant(cycle.fastingStartedAt),
		FastingEndedAt:   optionalInstant(cycle.fastingEndedAt),
		EatingStartedAt:  optionalInstant(cycle.eatingStartedAt),
		EatingEndedAt:    optionalInstant(cycle.eatingEndedAt),
		Completed:        cycle.Completed(),
		Broken:           cycle.Broken(),
		MissedWindow:     cycle.MissedWindow(),
	})
}

func (cycle *FastingCycle) UnmarshalJSON(data []byte) error {
	var record fastingCycleRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidCycleRecord, err)
	}

	decoded := FastingCycle{
		id:               record.ID,
		date:             record.Date,
		state:            record.State,
		cycleStartedAt:   record.CycleStartedAt,
		fastingStartedAt: instantOrZero(record.FastingStartedAt),
		fastingEndedAt:   instantOrZero(record.FastingEndedAt),
		eatingStartedAt:  instantOrZero(record.EatingStartedAt),
		eatingEndedAt:    instantOrZero(record.EatingEndedAt),
	}
	if err := decoded.validate(); err != nil {
		return err
	}
	*cycle = decoded
	return nil
}

func optionalInstant(value time.Time) *time.Time {
	if value.IsZero() {
		return nil
	}
	copied := value
	return &copied
}

func instantOrZero(value *time.Time) time.Time {
	if value == nil {
		return time.Time{}
	}
	return *value
}

func latestInstant(a time.Time, b time.Time) time.Time {
	if a.Before(b) {
		return b
	}
	return a
}
