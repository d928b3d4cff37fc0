package services

import (
	"errors"
	"fmt"
	"testing"
	"time"
)

func sequentialIDs() func() string {
	next := 0
	return func() string {
		next++
		return fmt.Sprintf("cycle-%d", next)
	}
}

func closedCycle(t *testing.T, date string, outcome CycleState) FastingCycle {
	t.Helper()
	day, err := ParseDayKey(date, time.UTC)
	if err != nil {
		t.Fatalf("ParseDayKey: %v", err)
	}
	cycle := NewFastingCycle("closed-"+date, date, day)
	if outcome == CycleStateMissedWindow {
		missed, _ := cycle.MarkMissedWindow()
		return missed
	}
	cycle, _ = cycle.StartFasting(day.Add(time.Hour))
	if outcome == CycleStateBroken {
		broken, _ := cycle.BreakFast(day.Add(2 * time.Hour))
		return broken
	}
	cycle, _ = cycle.StartEating(day.Add(12 * time.Hour))
	completed, _ := cycle.Complete(day.Add(20 * time.Hour))
	return completed
}

func stateWithHistory(t *testing.T, outcomes map[string]CycleState) FastingState {
	t.Helper()
	state := NewFastingState(MustParseTimeOfDay("12:00"))
	for date, outcome := range outcomes {
		state.History[date] = closedCycle(t, date, outcome)
	}
	return state
}

func TestInitializeTodayIsIdempotent(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, time.March, 10, 8, 0, 0, 0, time.UTC)
	ids := sequentialIDs()
	state := NewFastingState(MustParseTimeOfDay("12:00"))

	first, closed, changed := state.InitializeToday("2026-03-10", now, ids)
	if !changed || len(closed) != 0 || first.CurrentCycle == nil {
		t.Fatalf("first init: changed=%v closed=%d current=%v", changed, len(closed), first.CurrentCycle)
	}
	second, _, changed := first.InitializeToday("2026-03-10", now.Add(time.Hour), ids)
	if changed {
		t.Fatal("second init on the same day must be a no-op")
	}
	if second.CurrentCycle.ID() != first.CurrentCycle.ID() {
		t.Fatal("second init must keep the same cycle")
	}
	if state.CurrentCycle != nil {
		t.Fatal("InitializeToday must not mutate the receiver")
	}
}

func TestInitializeTodayClosesYesterdaysOpenCycle(t *testing.T) {
	t.Parallel()

	ids := sequentialIDs()
	yesterday := time.Date(2026, time.March, 9, 8, 0, 0, 0, time.UTC)
	state, _, _ := NewFastingState(MustParseTimeOfDay("12:00")).InitializeToday("2026-03-09", yesterday, ids)
	state, _, err := state.ApplyTransition(TransitionStartFasting, yesterday)
	if err != nil {
		t.Fatalf("ApplyTransition: %v", err)
	}

	today, closed, changed := state.InitializeToday("2026-03-10", yesterday.Add(24*time.Hour), ids)
	if !changed || len(closed) != 1 {
		t.Fatalf("expected one forced close, got changed=%v closed=%d", changed, len(closed))
	}
	if !closed[0].MissedWindow() || !today.History["2026-03-09"].MissedWindow() {
		t.Fatal("yesterday's open cycle must be archived as missed window")
	}
	if today.CurrentCycle.Date() != "2026-03-10" || today.CurrentCycle.State() != CycleStatePending {
		t.Fatalf("expected a fresh pending cycle for today, got %s %s", today.CurrentCycle.Date(), today.CurrentCycle.State())
	}
	if today.LastResetDate != "2026-03-10" {
		t.Fatalf("last reset date = %s", today.LastResetDate)
	}
}

func TestInitializeTodayWaitsForOvernightEatingWindow(t *testing.T) {
	t.Parallel()

	ids := sequentialIDs()
	at := func(day int, hour int) time.Time {
		return time.Date(2026, time.March, day, hour, 0, 0, 0, time.UTC)
	}
	state := NewFastingState(MustParseTimeOfDay("20:00"))
	state.History["2026-03-09"] = closedCycle(t, "2026-03-09", CycleStateCompleted)
	state, _, _ = state.InitializeToday("2026-03-10", at(10, 4), ids)
	state, _, _ = state.ApplyTransition(TransitionStartFasting, at(10, 4))
	state, _, _ = state.ApplyTransition(TransitionStartEating, at(10, 20))

	waiting, closed, changed := state.InitializeToday("2026-03-11", at(11, 0), ids)
	if changed || len(closed) != 0 {
		t.Fatalf("reset inside the eating window: changed=%v closed=%d", changed, len(closed))
	}
	if waiting.CurrentCycle.Date() != "2026-03-10" || waiting.CurrentCycle.State() != CycleStateEating {
		t.Fatalf("current cycle = %s %s, want yesterday's eating cycle", waiting.CurrentCycle.Date(), waiting.CurrentCycle.State())
	}
	if got := waiting.CurrentStreak("2026-03-11"); got != 1 {
		t.Fatalf("streak while yesterday's window is open = %d, want 1", got)
	}

	today, closed, changed := waiting.InitializeToday("2026-03-11", at(11, 4), ids)
	if !changed || len(closed) != 1 || !closed[0].Completed() {
		t.Fatalf("reset at window close: changed=%v closed=%+v", changed, closed)
	}
	if ended, _ := closed[0].EatingEndedAt(); !ended.Equal(at(11, 4)) {
		t.Fatalf("eating ended at %s, want window close", ended)
	}
	if today.CurrentCycle.Date() != "2026-03-11" || today.CurrentCycle.State() != CycleStatePending {
		t.Fatalf("expected a fresh pending cycle for today, got %s %s", today.CurrentCycle.Date(), today.CurrentCycle.State())
	}
	if got := today.CurrentStreak("2026-03-11"); got != 2 {
		t.Fatalf("streak after yesterday completed = %d, want 2", got)
	}
}

func TestSettleExpiredCompletesFullDayFast(t *testing.T) {
	t.Parallel()

	start := time.Date(2026, time.March, 10, 9, 0, 0, 0, time.UTC)
	state, err := NewFastingState(MustParseTimeOfDay("12:00")).WithPlan("24:0", MustParseTimeOfDay("12:00"))
	if err != nil {
		t.Fatalf("WithPlan: %v", err)
	}
	state, _, _ = state.InitializeToday("2026-03-10", start, sequentialIDs())
	state, _, _ = state.ApplyTransition(TransitionStartFasting, start)

	if state.MissedWindowDue(start.Add(30*time.Hour), time.UTC) {
		t.Fatal("a started full-day fast cannot miss its window")
	}
	if _, settled := state.SettleExpired(start.Add(24*time.Hour-time.Minute), time.UTC); settled != nil {
		t.Fatalf("settled before the fast ran its course: %s", settled.State())
	}
	next, settled := state.SettleExpired(start.Add(24*time.Hour), time.UTC)
	if settled == nil || !settled.Completed() {
		t.Fatalf("expected a completed cycle, got %+v", settled)
	}
	if !next.History["2026-03-10"].Completed() {
		t.Fatal("completed full-day fast missing from history")
	}
	eatingStart, _ := settled.EatingStartedAt()
	eatingEnd, _ := settled.EatingEndedAt()
	if !eatingStart.Equal(start.Add(24*time.Hour)) || !eatingEnd.Equal(eatingStart) {
		t.Fatalf("eating interval = [%s, %s], want empty at the end of the fast", eatingStart, eatingEnd)
	}
}

func TestCanChangePlanFollowsCycleState(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, time.March, 10, 8, 0, 0, 0, time.UTC)
	state, _, _ := NewFastingState(MustParseTimeOfDay("12:00")).InitializeToday("2026-03-10", now, sequentialIDs())
	if !state.CanChangePlan() {
		t.Fatal("pending cycle must allow plan changes")
	}

	fasting, _, _ := state.ApplyTransition(TransitionStartFasting, now)
	if fasting.CanChangePlan() {
		t.Fatal("fasting cycle must block plan changes")
	}
	if _, err := fasting.WithPlan("18:6", MustParseTimeOfDay("10:00")); !errors.Is(err, ErrPlanChangeRejected) {
		t.Fatalf("expected ErrPlanChangeRejected, got %v", err)
	}

	eating, _, _ := fasting.ApplyTransition(TransitionStartEating, now.Add(4*time.Hour))
	if eating.CanChangePlan() {
		t.Fatal("eating cycle must block plan changes")
	}

	completed, closed, err := eating.ApplyTransition(TransitionComplete, now.Add(10*time.Hour))
	if err != nil || closed == nil {
		t.Fatalf("complete: %v", err)
	}
	if !completed.CanChangePlan() {
		t.Fatal("completed cycle must allow plan changes")
	}
	changed, err := completed.WithPlan("18:6", MustParseTimeOfDay("10:00"))
	if err != nil {
		t.Fatalf("WithPlan: %v", err)
	}
	window, _ := changed.Window()
	if window.EatingEnd.String() != "16:00" {
		t.Fatalf("expected 18:6 from 10:00 to end at 16:00, got %s", window.EatingEnd)
	}
}

func TestWithCustomWindowOverridesProtocol(t *testing.T) {
	t.Parallel()

	state := NewFastingState(MustParseTimeOfDay("12:00"))
	custom, err := NewCustomWindow(MustParseTimeOfDay("09:00"), MustParseTimeOfDay("15:30"), MustParseTimeOfDay("15:30"), MustParseTimeOfDay("09:00"))
	if err != nil {
		t.Fatalf("NewCustomWindow: %v", err)
	}
	next, err := state.WithCustomWindow(custom)
	if err != nil {
		t.Fatalf("WithCustomWindow: %v", err)
	}
	window, _ := next.Window()
	if window != custom {
		t.Fatalf("expected custom window, got %+v", window)
	}

	reset, err := next.WithPlan("16:8", MustParseTimeOfDay("11:00"))
	if err != nil {
		t.Fatalf("WithPlan: %v", err)
	}
	if reset.CustomWindow != nil {
		t.Fatal("choosing a protocol must drop the custom window")
	}
}

func TestArchiveNeverSupersedesBrokenDays(t *testing.T) {
	t.Parallel()

	state := stateWithHistory(t, map[string]CycleState{"2026-03-10": CycleStateBroken})
	replacement := closedCycle(t, "2026-03-10", CycleStateCompleted)
	replacement.id = "another"
	state.archive(replacement)
	if !state.History["2026-03-10"].Broken() {
		t.Fatal("broken day must stay broken")
	}
}

func TestCurrentStreak(t *testing.T) {
	t.Parallel()

	state := stateWithHistory(t, map[string]CycleState{
		"2026-03-05": CycleStateCompleted,
		"2026-03-06": CycleStateBroken,
		"2026-03-07": CycleStateCompleted,
		"2026-03-08": CycleStateCompleted,
		"2026-03-09": CycleStateCompleted,
	})
	if got := state.CurrentStreak("2026-03-10"); got != 3 {
		t.Fatalf("streak with today still open = %d, want 3", got)
	}

	state.History["2026-03-10"] = closedCycle(t, "2026-03-10", CycleStateCompleted)
	if got := state.CurrentStreak("2026-03-10"); got != 4 {
		t.Fatalf("streak including today = %d, want 4", got)
	}

	state.History["2026-03-10"] = closedCycle(t, "2026-03-10", CycleStateMissedWindow)
	if got := state.CurrentStreak("2026-03-10"); got != 0 {
		t.Fatalf("streak after a missed today = %d, want 0", got)
	}
}

func TestWeeklyCompliance(t *testing.T) {
	t.Parallel()

	state := stateWithHistory(t, map[string]CycleState{
		"2026-03-03": CycleStateBroken,
		"2026-03-04": CycleStateCompleted,
		"2026-03-06": CycleStateCompleted,
		"2026-03-07": CycleStateMissedWindow,
		"2026-03-08": CycleStateCompleted,
		"2026-03-10": CycleStateCompleted,
	})
	// 03-04..03-10 holds five entries, four of them completed.
	if got := state.WeeklyCompliance("2026-03-10"); got != 80 {
		t.Fatalf("compliance = %d, want 80", got)
	}
	if got := NewFastingState(0).WeeklyCompliance("2026-03-10"); got != 0 {
		t.Fatalf("empty compliance = %d, want 0", got)
	}
}

func TestProgressBeforeIgnoresToday(t *testing.T) {
	t.Parallel()

	state := stateWithHistory(t, map[string]CycleState{
		"2026-03-08": CycleStateCompleted,
		"2026-03-09": CycleStateCompleted,
	})
	streak, compliance := state.ProgressBefore("2026-03-10")
	if streak != 2 || compliance != 100 {
		t.Fatalf("before today closes: streak=%d compliance=%d", streak, compliance)
	}

	state.History["2026-03-10"] = closedCycle(t, "2026-03-10", CycleStateCompleted)
	if again, _ := state.ProgressBefore("2026-03-10"); again != streak {
		t.Fatalf("closing today moved the streak from %d to %d", streak, again)
	}
	state.History["2026-03-10"] = closedCycle(t, "2026-03-10", CycleStateMissedWindow)
	if again, againCompliance := state.ProgressBefore("2026-03-10"); again != streak || againCompliance != compliance {
		t.Fatalf("missing today changed progress to %d/%d", again, againCompliance)
	}
}

func TestMissedWindowDue(t *testing.T) {
	t.Parallel()

	morning := time.Date(2026, time.March, 10, 8, 0, 0, 0, time.UTC)
	state, _, _ := NewFastingState(MustParseTimeOfDay("12:00")).InitializeToday("2026-03-10", morning, sequentialIDs())

	if state.MissedWindowDue(time.Date(2026, time.March, 10, 19, 59, 0, 0, time.UTC), time.UTC) {
		t.Fatal("window still open at 19:59")
	}
	if !state.MissedWindowDue(time.Date(2026, time.March, 10, 20, 0, 0, 0, time.UTC), time.UTC) {
		t.Fatal("window closed at 20:00 without eating")
	}

	fasting, _, _ := state.ApplyTransition(TransitionStartFasting, morning)
	eating, _, _ := fasting.ApplyTransition(TransitionStartEating, morning.Add(5*time.Hour))
	if eating.MissedWindowDue(time.Date(2026, time.March, 10, 21, 0, 0, 0, time.UTC), time.UTC) {
		t.Fatal("a cycle that started eating cannot miss its window")
	}
}

func TestHistoryBetweenIsSortedAndInclusive(t *testing.T) {
	t.Parallel()

	state := stateWithHistory(t, map[string]CycleState{
		"2026-03-09": CycleStateCompleted,
		"2026-03-01": CycleStateBroken,
		"2026-03-05": CycleStateMissedWindow,
		"2026-03-11": CycleStateCompleted,
	})
	got := state.HistoryBetween("2026-03-01", "2026-03-09")
	if len(got) != 3 || got[0].Date() != "2026-03-01" || got[2].Date() != "2026-03-09" {
		dates := make([]string, 0, len(got))
		for _, cycle := range got {
			dates = append(dates, cycle.Date())
		}
		t.Fatalf("unexpected history %v", dates)
	}
}

func TestValidateRejectsUnknownVersionAndProtocol(t *testing.T) {
	t.Parallel()

	state := NewFastingState(MustParseTimeOfDay("12:00"))
	if err := state.Validate(); err != nil {
		t.Fatalf("fresh state must validate: %v", err)
	}
	state.Version = 99
	if err := state.Validate(); !errors.Is(err, ErrUnsupportedStateVersion) {
		t.Fatalf("expected ErrUnsupportedStateVersion, got %v", err)
	}
	state.Version = FastingStateVersion
	state.SelectedProtocol = "5:2"
	if err := state.Validate(); !errors.Is(err, ErrUnknownProtocol) {
		t.Fatalf("expected ErrUnknownProtocol, got %v", err)
	}
}
