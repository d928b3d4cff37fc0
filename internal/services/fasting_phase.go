package services

import "time"

type FastingPhase string

const (
	FastingPhaseFasting FastingPhase = "fasting"
	FastingPhaseEating  FastingPhase = "eating"
)

type TimeRemaining struct {
	Hours   int `json:"hours"`
	Minutes int `json:"minutes"`
	Seconds int `json:"seconds"`
}

func (remaining TimeRemaining) Duration() time.Duration {
	return time.Duration(remaining.Hours)*time.Hour +
		time.Duration(remaining.Minutes)*time.Minute +
		time.Duration(remaining.Seconds)*time.Second
}

type PhaseStatus struct {
	Phase           FastingPhase  `json:"phase"`
	NextPhase       FastingPhase  `json:"nextPhase"`
	PercentComplete float64       `json:"percentComplete"`
	TimeRemaining   TimeRemaining `json:"timeRemaining"`
	NextPhaseTime   TimeOfDay     `json:"nextPhaseTime"`
	NextPhaseDate   time.Time     `json:"nextPhaseDate"`
	NextPhaseAt     time.Time     `json:"nextPhaseAt"`
}

// EvaluatePhase reads the phase of window at now. now is interpreted in its own location.
func EvaluatePhase(window FastingWindow, now time.Time) PhaseStatus {
	current := TimeOfDayFromClock(now)
	secondsIntoMinute := now.Second()

	status := PhaseStatus{}
	var phaseStart TimeOfDay
	var boundary TimeOfDay
	var totalMinutes int
	if window.InEatingWindow(current) {
		status.Phase = FastingPhaseEating
		status.NextPhase = FastingPhaseFasting
		phaseStart = window.EatingStart
		boundary = window.EatingEnd
		totalMinutes = window.EatingMinutes()
	} else {
		status.Phase = FastingPhaseFasting
		status.NextPhase = FastingPhaseEating
		phaseStart = window.FastingStart
		boundary = window.FastingEnd
		totalMinutes = window.FastingMinutes()
	}

	elapsedSeconds := MinutesBetween(phaseStart, current)*60 + secondsIntoMinute
	status.PercentComplete = clampUnit(float64(elapsedSeconds) / float64(totalMinutes*60))

	remainingMinutes := MinutesBetween(current, boundary)
	if remainingMinutes == 0 {
		// now sits on the phase start, so the whole phase lies ahead.
		remainingMinutes = totalMinutes
	}
	remainingSeconds := remainingMinutes*60 - secondsIntoMinute
	if remainingSeconds < 0 {
		remainingSeconds = 0
	}
	status.TimeRemaining = TimeRemaining{
		Hours:   remainingSeconds / 3600,
		Minutes: (remainingSeconds % 3600) / 60,
		Seconds: remainingSeconds % 60,
	}

	dayOffset := (current.ToMinutes() + remainingMinutes) / MinutesPerDay
	today := DateAtLocation(now, now.Location())
	status.NextPhaseTime = boundary
	status.NextPhaseDate = today.AddDate(0, 0, dayOffset)
	status.NextPhaseAt = time.Date(
		status.NextPhaseDate.Year(),
		status.NextPhaseDate.Month(),
		status.NextPhaseDate.Day(),
		boundary.Hour(),
		boundary.Minute(),
		0,
		0,
		now.Location(),
	)
	return status
}

func clampUnit(value float64) float64 {
	switch {
	case value < 0:
		return 0
	case value > 1:
		return 1
	default:
		return value
	}
}
