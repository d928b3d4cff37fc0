package services

import (
	"errors"
	"math"
	"sort"
	"time"
)

const (
	FastingStateVersion = 1

	streakWalkLimitDays  = 365
	complianceWindowDays = 7
)

var (
	ErrPlanChangeRejected      = errors.New("plan change rejected while fasting")
	ErrNoCurrentCycle          = errors.New("no current fasting cycle")
	ErrUnsupportedStateVersion = errors.New("unsupported fasting state version")
)

// FastingState is the per-user persisted blob. It is always replaced wholesale:
// every operation below works on a copy and returns it.
type FastingState struct {
	Version          int                     `json:"version"`
	SelectedProtocol string                  `json:"selectedProtocol"`
	EatingStart      TimeOfDay               `json:"eatingStart"`
	CustomWindow     *FastingWindow          `json:"customWindow,omitempty"`
	CurrentCycle     *FastingCycle           `json:"currentCycle,omitempty"`
	History          map[string]FastingCycle `json:"cycleHistory"`
	LastResetDate    string                  `json:"lastResetDate,omitempty"`
}

func NewFastingState(defaultEatingStart TimeOfDay) FastingState {
	return FastingState{
		Version:          FastingStateVersion,
		SelectedProtocol: DefaultProtocolID,
		EatingStart:      defaultEatingStart,
		History:          make(map[string]FastingCycle),
	}
}

func (state FastingState) Clone() FastingState {
	clone := state
	clone.History = make(map[string]FastingCycle, len(state.History))
	for key, cycle := range state.History {
		clone.History[key] = cycle
	}
	if state.CustomWindow != nil {
		window := *state.CustomWindow
		clone.CustomWindow = &window
	}
	if state.CurrentCycle != nil {
		cycle := *state.CurrentCycle
		clone.CurrentCycle = &cycle
	}
	return clone
}

func (state FastingState) Validate() error {
	if state.Version != FastingStateVersion {
		return ErrUnsupportedStateVersion
	}
	if state.CustomWindow != nil {
		return state.CustomWindow.ValidateCustom()
	}
	_, err := ProtocolByID(state.SelectedProtocol)
	return err
}

// Window is the custom window when one is set, otherwise the protocol-derived one.
func (state FastingState) Window() (FastingWindow, error) {
	if state.CustomWindow != nil {
		return *state.CustomWindow, nil
	}
	protocol, err := ProtocolByID(state.SelectedProtocol)
	if err != nil {
		return FastingWindow{}, err
	}
	return ComputeWindow(protocol, state.EatingStart), nil
}

// CanChangePlan is false only while a fast has been started on a cycle that is still open.
func (state FastingState) CanChangePlan() bool {
	cycle := state.CurrentCycle
	if cycle == nil || cycle.Terminal() {
		return true
	}
	_, fastingStarted := cycle.FastingStartedAt()
	return !fastingStarted
}

func (state FastingState) WithPlan(protocolID string, eatingStart TimeOfDay) (FastingState, error) {
	protocol, err := ProtocolByID(protocolID)
	if err != nil {
		return state, err
	}
	if !state.CanChangePlan() {
		return state, ErrPlanChangeRejected
	}
	next := state.Clone()
	next.SelectedProtocol = protocol.ID
	next.EatingStart = eatingStart
	next.CustomWindow = nil
	return next, nil
}

func (state FastingState) WithCustomWindow(window FastingWindow) (FastingState, error) {
	if err := window.ValidateCustom(); err != nil {
		return state, err
	}
	if !state.CanChangePlan() {
		return state, ErrPlanChangeRejected
	}
	next := state.Clone()
	next.CustomWindow = &window
	next.EatingStart = window.EatingStart
	return next, nil
}

// InitializeToday performs the daily reset for today (a day key in the user's zone).
// An outgoing cycle is settled once its deadline has passed; while its eating window is
// still open past midnight it stays current and today's cycle is not created yet.
// It returns the new state, the cycles it closed, and whether anything changed.
func (state FastingState) InitializeToday(today string, now time.Time, newID func() string) (FastingState, []FastingCycle, bool) {
	if state.LastResetDate == today && state.CurrentCycle != nil {
		return state, nil, false
	}

	next := state.Clone()
	var closed []FastingCycle
	if state.LastResetDate != today {
		if outgoing := next.CurrentCycle; outgoing != nil && !outgoing.Terminal() {
			if _, err := state.Window(); err != nil {
				missed, err := outgoing.MarkMissedWindow()
				if err == nil {
					next.archive(missed)
					closed = append(closed, missed)
				}
			} else {
				settled, cycle := state.SettleExpired(now, now.Location())
				if cycle == nil {
					return state, nil, false
				}
				next = settled
				closed = append(closed, *cycle)
			}
		}
		next.CurrentCycle = nil
		next.LastResetDate = today
	}

	if next.CurrentCycle == nil {
		cycle := NewFastingCycle(newID(), today, now)
		next.CurrentCycle = &cycle
	}
	return next, closed, true
}

// ApplyTransition runs transition on the current cycle. A cycle that reaches a terminal
// state is written into history and stays current until the next daily reset.
func (state FastingState) ApplyTransition(transition CycleTransition, at time.Time) (FastingState, *FastingCycle, error) {
	if state.CurrentCycle == nil {
		return state, nil, ErrNoCurrentCycle
	}
	updated, err := state.CurrentCycle.Apply(transition, at)
	if err != nil {
		return state, nil, err
	}

	next := state.Clone()
	next.CurrentCycle = &updated
	if !updated.Terminal() {
		return next, nil, nil
	}
	next.archive(updated)
	return next, &updated, nil
}

// MissedWindowDue reports whether the current cycle's eating window has fully elapsed
// at now without the user ever starting to eat.
func (state FastingState) MissedWindowDue(now time.Time, location *time.Location) bool {
	cycle := state.CurrentCycle
	if cycle == nil || cycle.Terminal() {
		return false
	}
	if _, eatingStarted := cycle.EatingStartedAt(); eatingStarted {
		return false
	}
	window, err := state.Window()
	if err != nil {
		return false
	}
	if _, fastingStarted := cycle.FastingStartedAt(); fastingStarted && window.EatingMinutes() == 0 {
		return false
	}
	deadline, ok := cycleDeadline(*cycle, window, location)
	return ok && !now.Before(deadline)
}

// SettleExpired closes the current cycle once its deadline has passed and archives it.
// The returned cycle is nil when nothing was due.
func (state FastingState) SettleExpired(now time.Time, location *time.Location) (FastingState, *FastingCycle) {
	cycle := state.CurrentCycle
	if cycle == nil || cycle.Terminal() {
		return state, nil
	}
	window, err := state.Window()
	if err != nil {
		return state, nil
	}
	deadline, ok := cycleDeadline(*cycle, window, location)
	if !ok || now.Before(deadline) {
		return state, nil
	}
	settled, err := cycle.settle(deadline, window.EatingMinutes() == 0)
	if err != nil {
		return state, nil
	}

	next := state.Clone()
	next.CurrentCycle = &settled
	next.archive(settled)
	return next, &settled
}

// cycleDeadline is the instant a cycle's day is over: the close of the eating window that
// opens on the cycle's date, which may fall on the following day. Without an eating window
// it is one full fast after the fast started, or the end of the cycle's date while pending.
func cycleDeadline(cycle FastingCycle, window FastingWindow, location *time.Location) (time.Time, bool) {
	if location == nil {
		location = time.UTC
	}
	cycleDay, err := ParseDayKey(cycle.Date(), location)
	if err != nil {
		return time.Time{}, false
	}
	if window.EatingMinutes() == 0 {
		if started, ok := cycle.FastingStartedAt(); ok {
			return started.Add(time.Duration(window.FastingMinutes()) * time.Minute), true
		}
		return cycleDay.AddDate(0, 0, 1), true
	}
	eatingOpens := time.Date(cycleDay.Year(), cycleDay.Month(), cycleDay.Day(),
		window.EatingStart.Hour(), window.EatingStart.Minute(), 0, 0, location)
	return eatingOpens.Add(time.Duration(window.EatingMinutes()) * time.Minute), true
}

// archive writes a terminal cycle into history. Broken and missed days are final and
// are never superseded by a later cycle for the same date.
func (state *FastingState) archive(cycle FastingCycle) {
	if state.History == nil {
		state.History = make(map[string]FastingCycle)
	}
	if existing, ok := state.History[cycle.Date()]; ok && existing.ID() != cycle.ID() {
		if existing.Broken() || existing.MissedWindow() {
			return
		}
	}
	state.History[cycle.Date()] = cycle
}

// CurrentStreak counts consecutive completed, unbroken days ending today. Days without a
// closed entry that are still in progress (today, or an earlier cycle whose eating window
// has not closed yet) do not break the streak.
func (state FastingState) CurrentStreak(today string) int {
	day := today
	for step := 0; step < 2; step++ {
		if _, ok := state.History[day]; ok || !state.inProgress(day, today) {
			break
		}
		previous, err := PreviousDayKey(day)
		if err != nil {
			return 0
		}
		day = previous
	}

	streak := 0
	for walked := 0; walked < streakWalkLimitDays; walked++ {
		entry, ok := state.History[day]
		if !ok || !entry.Completed() || entry.Broken() {
			break
		}
		streak++

		previous, err := PreviousDayKey(day)
		if err != nil {
			break
		}
		day = previous
	}
	return streak
}

func (state FastingState) inProgress(day string, today string) bool {
	if day == today {
		return true
	}
	cycle := state.CurrentCycle
	return cycle != nil && !cycle.Terminal() && cycle.Date() == day
}

// ProgressBefore is the streak and weekly compliance as of the day before today. It only
// moves when an earlier day closes, so it stays fixed while today's cycle runs.
func (state FastingState) ProgressBefore(today string) (int, int) {
	yesterday, err := PreviousDayKey(today)
	if err != nil {
		return 0, 0
	}
	return state.CurrentStreak(yesterday), state.WeeklyCompliance(yesterday)
}

// WeeklyCompliance is the rounded percent of completed cycles among the trailing seven
// calendar days that have a history entry. Days without entries are left out.
func (state FastingState) WeeklyCompliance(today string) int {
	day := today
	total := 0
	completed := 0
	for offset := 0; offset < complianceWindowDays; offset++ {
		if entry, ok := state.History[day]; ok {
			total++
			if entry.Completed() {
				completed++
			}
		}
		previous, err := PreviousDayKey(day)
		if err != nil {
			break
		}
		day = previous
	}
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(completed) / float64(total) * 100))
}

// HistoryBetween returns history entries whose day keys fall in [fromKey, toKey], oldest first.
func (state FastingState) HistoryBetween(fromKey string, toKey string) []FastingCycle {
	result := make([]FastingCycle, 0)
	for key, cycle := range state.History {
		if key < fromKey || key > toKey {
			continue
		}
		result = append(result, cycle)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Date() < result[j].Date()
	})
	return result
}
