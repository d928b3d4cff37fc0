package services

import (
	"errors"
	"strings"
)

var (
	ErrUnknownProtocol = errors.New("unknown fasting protocol")
	ErrInvalidWindow   = errors.New("invalid fasting window")
)

type FastingProtocol struct {
	ID           string `json:"id"`
	FastingHours int    `json:"fastingHours"`
	EatingHours  int    `json:"eatingHours"`
	LabelKey     string `json:"labelKey"`
}

const DefaultProtocolID = "16:8"

var fastingProtocols = []FastingProtocol{
	{ID: "12:12", FastingHours: 12, EatingHours: 12, LabelKey: "protocol.12_12"},
	{ID: "14:10", FastingHours: 14, EatingHours: 10, LabelKey: "protocol.14_10"},
	{ID: "16:8", FastingHours: 16, EatingHours: 8, LabelKey: "protocol.16_8"},
	{ID: "18:6", FastingHours: 18, EatingHours: 6, LabelKey: "protocol.18_6"},
	{ID: "20:4", FastingHours: 20, EatingHours: 4, LabelKey: "protocol.20_4"},
	{ID: "23:1", FastingHours: 23, EatingHours: 1, LabelKey: "protocol.23_1"},
	{ID: "24:0", FastingHours: 24, EatingHours: 0, LabelKey: "protocol.24_0"},
}

func FastingProtocols() []FastingProtocol {
	result := make([]FastingProtocol, len(fastingProtocols))
	copy(result, fastingProtocols)
	return result
}

func ProtocolByID(id string) (FastingProtocol, error) {
	normalized := strings.TrimSpace(id)
	for _, protocol := range fastingProtocols {
		if protocol.ID == normalized {
			return protocol, nil
		}
	}
	return FastingProtocol{}, ErrUnknownProtocol
}

// FastingWindow holds the four daily boundaries. The eating interval runs from EatingStart
// to EatingEnd and may cross midnight.
type FastingWindow struct {
	EatingStart  TimeOfDay `json:"eatingStart"`
	EatingEnd    TimeOfDay `json:"eatingEnd"`
	FastingStart TimeOfDay `json:"fastingStart"`
	FastingEnd   TimeOfDay `json:"fastingEnd"`
}

func ComputeWindow(protocol FastingProtocol, eatingStart TimeOfDay) FastingWindow {
	eatingEnd := AddMinutes(eatingStart, protocol.EatingHours*60)
	return FastingWindow{
		EatingStart:  eatingStart,
		EatingEnd:    eatingEnd,
		FastingStart: eatingEnd,
		FastingEnd:   eatingStart,
	}
}

// NewCustomWindow accepts the boundaries verbatim as long as eating and fasting
// together cover exactly one day.
func NewCustomWindow(eatingStart, eatingEnd, fastingStart, fastingEnd TimeOfDay) (FastingWindow, error) {
	window := FastingWindow{
		EatingStart:  eatingStart,
		EatingEnd:    eatingEnd,
		FastingStart: fastingStart,
		FastingEnd:   fastingEnd,
	}
	if err := window.ValidateCustom(); err != nil {
		return FastingWindow{}, err
	}
	return window, nil
}

func (window FastingWindow) ValidateCustom() error {
	if window.FastingStart != window.EatingEnd || window.FastingEnd != window.EatingStart {
		return ErrInvalidWindow
	}
	total := MinutesBetween(window.EatingStart, window.EatingEnd) + MinutesBetween(window.FastingStart, window.FastingEnd)
	if total != MinutesPerDay {
		return ErrInvalidWindow
	}
	return nil
}

func (window FastingWindow) EatingMinutes() int {
	return MinutesBetween(window.EatingStart, window.EatingEnd)
}

func (window FastingWindow) FastingMinutes() int {
	return MinutesPerDay - window.EatingMinutes()
}

func (window FastingWindow) CrossesMidnight() bool {
	return window.EatingEnd.ToMinutes() < window.EatingStart.ToMinutes()
}

func (window FastingWindow) InEatingWindow(value TimeOfDay) bool {
	return InInterval(value, window.EatingStart, window.EatingMinutes())
}
