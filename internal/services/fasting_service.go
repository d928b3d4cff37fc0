package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/terraincognita07/fastfit/internal/observability"
)

var (
	ErrFastingStateLoadFailed = errors.New("load fasting state failed")
	ErrFastingStateSaveFailed = errors.New("save fasting state failed")
)

type FastingStateRepository interface {
	Load(userID uint) (FastingState, bool, error)
	Save(userID uint, state FastingState) error
}

type CycleClosedEvent struct {
	ID         string     `json:"id"`
	UserID     uint       `json:"userId"`
	CycleID    string     `json:"cycleId"`
	Date       string     `json:"date"`
	Outcome    CycleState `json:"outcome"`
	OccurredAt time.Time  `json:"occurredAt"`
}

type CycleEventPublisher interface {
	PublishCycleClosed(ctx context.Context, event CycleClosedEvent) error
}

type FastingStatus struct {
	Protocol         string        `json:"protocol"`
	CustomWindow     bool          `json:"customWindow"`
	Window           FastingWindow `json:"window"`
	Phase            PhaseStatus   `json:"phase"`
	CurrentCycle     *FastingCycle `json:"currentCycle,omitempty"`
	CanChangePlan    bool          `json:"canChangePlan"`
	CurrentStreak    int           `json:"currentStreak"`
	WeeklyCompliance int           `json:"weeklyCompliance"`
	LastResetDate    string        `json:"lastResetDate"`
}

type FastingService struct {
	states             FastingStateRepository
	publisher          CycleEventPublisher
	logger             *slog.Logger
	defaultEatingStart TimeOfDay
	now                func() time.Time
	newID              func() string
	locks              userLocks
}

func NewFastingService(states FastingStateRepository, publisher CycleEventPublisher, logger *slog.Logger, defaultEatingStart TimeOfDay) *FastingService {
	if logger == nil {
		logger = slog.Default()
	}
	return &FastingService{
		states:             states,
		publisher:          publisher,
		logger:             logger,
		defaultEatingStart: defaultEatingStart,
		now:                time.Now,
		newID:              uuid.NewString,
		locks:              userLocks{locks: make(map[uint]*userLock)},
	}
}

// WithClock replaces the time source. It is meant for tests and the CLI.
func (service *FastingService) WithClock(now func() time.Time) *FastingService {
	service.now = now
	return service
}

func (service *FastingService) InitializeTodayCycle(ctx context.Context, userID uint, location *time.Location) (FastingState, error) {
	return service.mutate(ctx, userID, location, "initialize", func(state FastingState, now time.Time) (fastingOutcome, error) {
		return fastingOutcome{state: state}, nil
	})
}

func (service *FastingService) StartFasting(ctx context.Context, userID uint, location *time.Location) (FastingState, error) {
	return service.transition(ctx, userID, location, TransitionStartFasting)
}

func (service *FastingService) StartEating(ctx context.Context, userID uint, location *time.Location) (FastingState, error) {
	return service.transition(ctx, userID, location, TransitionStartEating)
}

func (service *FastingService) BreakFast(ctx context.Context, userID uint, location *time.Location) (FastingState, error) {
	return service.transition(ctx, userID, location, TransitionBreakFast)
}

func (service *FastingService) CompleteCycle(ctx context.Context, userID uint, location *time.Location) (FastingState, error) {
	return service.transition(ctx, userID, location, TransitionComplete)
}

// HandleMissedWindow closes the current cycle as missed when its eating window has passed
// untouched, then runs the daily reset again.
func (service *FastingService) HandleMissedWindow(ctx context.Context, userID uint, location *time.Location) (FastingState, error) {
	return service.mutate(ctx, userID, location, "missed_window", func(state FastingState, now time.Time) (fastingOutcome, error) {
		return service.applyMissedWindow(state, now, location)
	})
}

func (service *FastingService) SetFastingPlan(ctx context.Context, userID uint, location *time.Location, protocolID string, eatingStart TimeOfDay) (FastingState, error) {
	return service.mutate(ctx, userID, location, "set_plan", func(state FastingState, now time.Time) (fastingOutcome, error) {
		next, err := state.WithPlan(protocolID, eatingStart)
		if errors.Is(err, ErrPlanChangeRejected) {
			service.logger.WarnContext(ctx, "fasting plan change rejected mid-fast", slog.Uint64("user_id", uint64(userID)), slog.String("protocol", protocolID))
		}
		return fastingOutcome{state: next, changed: true}, err
	})
}

func (service *FastingService) SetCustomWindow(ctx context.Context, userID uint, location *time.Location, window FastingWindow) (FastingState, error) {
	return service.mutate(ctx, userID, location, "set_custom_window", func(state FastingState, now time.Time) (fastingOutcome, error) {
		next, err := state.WithCustomWindow(window)
		if errors.Is(err, ErrPlanChangeRejected) {
			service.logger.WarnContext(ctx, "custom fasting window rejected mid-fast", slog.Uint64("user_id", uint64(userID)))
		}
		return fastingOutcome{state: next, changed: true}, err
	})
}

func (service *FastingService) CanChangePlan(ctx context.Context, userID uint, location *time.Location) (bool, error) {
	state, err := service.InitializeTodayCycle(ctx, userID, location)
	if err != nil {
		return false, err
	}
	return state.CanChangePlan(), nil
}

func (service *FastingService) Status(ctx context.Context, userID uint, location *time.Location) (FastingStatus, error) {
	state, err := service.InitializeTodayCycle(ctx, userID, location)
	if err != nil {
		return FastingStatus{}, err
	}
	return service.buildStatus(state, location)
}

func (service *FastingService) History(ctx context.Context, userID uint, location *time.Location, from time.Time, to time.Time) ([]FastingCycle, error) {
	state, err := service.InitializeTodayCycle(ctx, userID, location)
	if err != nil {
		return nil, err
	}
	return state.HistoryBetween(DayKey(DateAtLocation(from, location)), DayKey(DateAtLocation(to, location))), nil
}

// FastingProgress is the streak and weekly compliance that feed workout progression.
type FastingProgress struct {
	Streak     int
	Compliance int
}

// ProgressBeforeToday reports progress as of the day before today in location, so a cycle
// that closes during today does not change today's workout.
func (service *FastingService) ProgressBeforeToday(ctx context.Context, userID uint, location *time.Location) (FastingProgress, error) {
	if location == nil {
		location = time.UTC
	}
	state, err := service.InitializeTodayCycle(ctx, userID, location)
	if err != nil {
		return FastingProgress{}, err
	}
	today := DayKey(DateAtLocation(service.now().In(location), location))
	streak, compliance := state.ProgressBefore(today)
	return FastingProgress{Streak: streak, Compliance: compliance}, nil
}

// Tick is the periodic reconcile step: daily reset, phase boundaries when autoTransitions
// is set, then closing a cycle whose deadline has passed.
func (service *FastingService) Tick(ctx context.Context, userID uint, location *time.Location, autoTransitions bool) (FastingState, error) {
	return service.mutate(ctx, userID, location, "tick", func(state FastingState, now time.Time) (fastingOutcome, error) {
		outcome := fastingOutcome{state: state}
		if autoTransitions {
			auto, err := service.autoTransition(state, now)
			if err != nil {
				return fastingOutcome{}, err
			}
			outcome = auto
		}
		settled := service.settleExpired(outcome.state, now, location)
		return fastingOutcome{
			state:   settled.state,
			closed:  append(outcome.closed, settled.closed...),
			changed: outcome.changed || settled.changed,
		}, nil
	})
}

func (service *FastingService) autoTransition(state FastingState, now time.Time) (fastingOutcome, error) {
	unchanged := fastingOutcome{state: state}
	cycle := state.CurrentCycle
	if cycle == nil || cycle.Terminal() {
		return unchanged, nil
	}
	window, err := state.Window()
	if err != nil {
		return unchanged, err
	}
	phase := EvaluatePhase(window, now).Phase

	var transition CycleTransition
	switch {
	case cycle.State() == CycleStatePending && phase == FastingPhaseFasting:
		transition = TransitionStartFasting
	case cycle.State() == CycleStateFasting && phase == FastingPhaseEating:
		transition = TransitionStartEating
	case cycle.State() == CycleStateEating && phase == FastingPhaseFasting:
		transition = TransitionComplete
	default:
		return unchanged, nil
	}
	return service.applyTransition(state, transition, now)
}

func (service *FastingService) applyMissedWindow(state FastingState, now time.Time, location *time.Location) (fastingOutcome, error) {
	if !state.MissedWindowDue(now, location) {
		return fastingOutcome{state: state}, nil
	}
	outcome, err := service.applyTransition(state, TransitionMissedWindow, now)
	if err != nil {
		return fastingOutcome{}, err
	}

	today := DayKey(DateAtLocation(now, location))
	next, alsoClosed, _ := outcome.state.InitializeToday(today, now, service.newID)
	outcome.state = next
	outcome.closed = append(outcome.closed, alsoClosed...)
	return outcome, nil
}

// settleExpired closes a cycle past its deadline and opens today's cycle if the reset
// had been waiting on it.
func (service *FastingService) settleExpired(state FastingState, now time.Time, location *time.Location) fastingOutcome {
	next, settled := state.SettleExpired(now, location)
	if settled == nil {
		return fastingOutcome{state: state}
	}
	if settled.MissedWindow() {
		observability.RecordCycleTransition(string(TransitionMissedWindow))
	} else {
		observability.RecordCycleTransition(string(TransitionComplete))
	}

	today := DayKey(DateAtLocation(now, location))
	reset, alsoClosed, _ := next.InitializeToday(today, now, service.newID)
	return fastingOutcome{
		state:   reset,
		closed:  append([]FastingCycle{*settled}, alsoClosed...),
		changed: true,
	}
}

func (service *FastingService) applyTransition(state FastingState, transition CycleTransition, now time.Time) (fastingOutcome, error) {
	next, closed, err := state.ApplyTransition(transition, now)
	if err != nil {
		return fastingOutcome{state: state}, err
	}
	observability.RecordCycleTransition(string(transition))
	outcome := fastingOutcome{state: next, changed: true}
	if closed != nil {
		outcome.closed = []FastingCycle{*closed}
	}
	return outcome, nil
}

func (service *FastingService) transition(ctx context.Context, userID uint, location *time.Location, transition CycleTransition) (FastingState, error) {
	return service.mutate(ctx, userID, location, string(transition), func(state FastingState, now time.Time) (fastingOutcome, error) {
		outcome, err := service.applyTransition(state, transition, now)
		if errors.Is(err, ErrCycleClosed) {
			service.logger.InfoContext(ctx, "transition ignored on closed cycle",
				slog.Uint64("user_id", uint64(userID)),
				slog.String("transition", string(transition)),
				slog.String("state", string(state.CurrentCycle.State())),
			)
			return fastingOutcome{state: state}, nil
		}
		return outcome, err
	})
}

type fastingOutcome struct {
	state   FastingState
	closed  []FastingCycle
	changed bool
}

type fastingMutation func(state FastingState, now time.Time) (fastingOutcome, error)

// mutate runs one serialized read-modify-write for userID. The daily reset always runs
// first so stale cycles from a previous day are closed before anything else happens.
func (service *FastingService) mutate(ctx context.Context, userID uint, location *time.Location, operation string, apply fastingMutation) (FastingState, error) {
	if location == nil {
		location = time.UTC
	}
	unlock := service.locks.lock(userID)
	defer unlock()

	now := service.now().In(location)
	stored, found, err := service.states.Load(userID)
	if err != nil {
		return FastingState{}, fmt.Errorf("%w: %v", ErrFastingStateLoadFailed, err)
	}
	if !found {
		stored = NewFastingState(service.defaultEatingStart)
	}

	today := DayKey(DateAtLocation(now, location))
	initialized, closed, initChanged := stored.InitializeToday(today, now, service.newID)
	if len(closed) > 0 {
		service.logger.InfoContext(ctx, "stale fasting cycle closed by daily reset",
			slog.Uint64("user_id", uint64(userID)),
			slog.String("date", closed[0].Date()),
		)
	}

	next := initialized
	changed := initChanged
	outcome, opErr := apply(initialized, now)
	if opErr == nil {
		next = outcome.state
		closed = append(closed, outcome.closed...)
		changed = changed || outcome.changed
	}

	if changed {
		if err := service.states.Save(userID, next); err != nil {
			return stored, fmt.Errorf("%w: %v", ErrFastingStateSaveFailed, err)
		}
	}

	for _, cycle := range closed {
		observability.RecordCycleClosed(string(cycle.State()))
		service.publishClosed(ctx, userID, cycle, now)
	}

	if opErr != nil {
		service.logger.DebugContext(ctx, "fasting operation failed",
			slog.Uint64("user_id", uint64(userID)),
			slog.String("operation", operation),
			slog.String("error", opErr.Error()),
		)
		return next, opErr
	}
	return next, nil
}

func (service *FastingService) publishClosed(ctx context.Context, userID uint, cycle FastingCycle, now time.Time) {
	if service.publisher == nil {
		return
	}
	event := CycleClosedEvent{
		ID:         service.newID(),
		UserID:     userID,
		CycleID:    cycle.ID(),
		Date:       cycle.Date(),
		Outcome:    cycle.State(),
		OccurredAt: now.UTC(),
	}
	if err := service.publisher.PublishCycleClosed(ctx, event); err != nil {
		service.logger.WarnContext(ctx, "publish cycle closed event failed",
			slog.Uint64("user_id", uint64(userID)),
			slog.String("cycle_id", cycle.ID()),
			slog.String("error", err.Error()),
		)
	}
}

func (service *FastingService) buildStatus(state FastingState, location *time.Location) (FastingStatus, error) {
	window, err := state.Window()
	if err != nil {
		return FastingStatus{}, err
	}
	if location == nil {
		location = time.UTC
	}
	now := service.now().In(location)
	today := DayKey(DateAtLocation(now, location))

	return FastingStatus{
		Protocol:         state.SelectedProtocol,
		CustomWindow:     state.CustomWindow != nil,
		Window:           window,
		Phase:            EvaluatePhase(window, now),
		CurrentCycle:     state.CurrentCycle,
		CanChangePlan:    state.CanChangePlan(),
		CurrentStreak:    state.CurrentStreak(today),
		WeeklyCompliance: state.WeeklyCompliance(today),
		LastResetDate:    state.LastResetDate,
	}, nil
}

// userLocks hands out one mutex per user. Entries are reference counted and dropped once
// no caller holds or waits on them.
type userLocks struct {
	mu    sync.Mutex
	locks map[uint]*userLock
}

type userLock struct {
	sync.Mutex
	refs int
}

func (registry *userLocks) lock(userID uint) func() {
	registry.mu.Lock()
	entry, ok := registry.locks[userID]
	if !ok {
		entry = &userLock{}
		registry.locks[userID] = entry
	}
	entry.refs++
	registry.mu.Unlock()

	entry.Lock()
	return func() {
		entry.Unlock()
		registry.mu.Lock()
		entry.refs--
		if entry.refs == 0 {
			delete(registry.locks, userID)
		}
		registry.mu.Unlock()
	}
}

func (registry *userLocks) size() int {
	registry.mu.Lock()
	defer registry.mu.Unlock()
	return len(registry.locks)
}
