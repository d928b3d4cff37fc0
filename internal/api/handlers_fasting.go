package api

import (
	"context"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/fastfit/internal/services"
)

const defaultHistoryDays = 30

type protocolPayload struct {
	ID           string `json:"id"`
	Label        string `json:"label"`
	FastingHours int    `json:"fastingHours"`
	EatingHours  int    `json:"eatingHours"`
}

type fastingStatusResponse struct {
	services.FastingStatus
	ProtocolLabel string `json:"protocolLabel"`
	PhaseLabel    string `json:"phaseLabel"`
	CycleLabel    string `json:"cycleLabel,omitempty"`
}

type fastingPlanInput struct {
	Protocol    string `json:"protocol"`
	EatingStart string `json:"eatingStart"`
}

type customWindowInput struct {
	EatingStart  string `json:"eatingStart"`
	EatingEnd    string `json:"eatingEnd"`
	FastingStart string `json:"fastingStart"`
	FastingEnd   string `json:"fastingEnd"`
}

func (input customWindowInput) window() (services.FastingWindow, error) {
	var parsed [4]services.TimeOfDay
	for index, raw := range []string{input.EatingStart, input.EatingEnd, input.FastingStart, input.FastingEnd} {
		value, err := services.ParseTimeOfDay(raw)
		if err != nil {
			return services.FastingWindow{}, err
		}
		parsed[index] = value
	}
	return services.NewCustomWindow(parsed[0], parsed[1], parsed[2], parsed[3])
}

func (handler *Handler) ListProtocols(c *fiber.Ctx) error {
	language := currentLanguage(c)
	protocols := services.FastingProtocols()
	payload := make([]protocolPayload, 0, len(protocols))
	for _, protocol := range protocols {
		payload = append(payload, protocolPayload{
			ID:           protocol.ID,
			Label:        handler.i18n.Translate(language, protocol.LabelKey),
			FastingHours: protocol.FastingHours,
			EatingHours:  protocol.EatingHours,
		})
	}
	return c.JSON(payload)
}

func (handler *Handler) GetFastingStatus(c *fiber.Ctx) error {
	user, _ := currentUser(c)
	status, err := handler.fasting.Status(c.UserContext(), user.ID, handler.userLocation(c))
	if err != nil {
		return handler.respondError(c, err)
	}
	return c.JSON(handler.localizeStatus(c, status))
}

func (handler *Handler) UpdateFastingPlan(c *fiber.Ctx) error {
	user, _ := currentUser(c)
	var input fastingPlanInput
	if err := c.BodyParser(&input); err != nil {
		return handler.apiError(c, fiber.StatusBadRequest, "invalid_input")
	}
	location := handler.userLocation(c)

	var eatingStart services.TimeOfDay
	if strings.TrimSpace(input.EatingStart) == "" {
		status, err := handler.fasting.Status(c.UserContext(), user.ID, location)
		if err != nil {
			return handler.respondError(c, err)
		}
		eatingStart = status.Window.EatingStart
	} else {
		parsed, err := services.ParseTimeOfDay(input.EatingStart)
		if err != nil {
			return handler.respondError(c, err)
		}
		eatingStart = parsed
	}

	if _, err := handler.fasting.SetFastingPlan(c.UserContext(), user.ID, location, strings.TrimSpace(input.Protocol), eatingStart); err != nil {
		return handler.respondError(c, err)
	}
	return handler.GetFastingStatus(c)
}

func (handler *Handler) StartFasting(c *fiber.Ctx) error {
	return handler.applyFastingAction(c, handler.fasting.StartFasting)
}

func (handler *Handler) StartEating(c *fiber.Ctx) error {
	return handler.applyFastingAction(c, handler.fasting.StartEating)
}

func (handler *Handler) BreakFast(c *fiber.Ctx) error {
	return handler.applyFastingAction(c, handler.fasting.BreakFast)
}

func (handler *Handler) CompleteCycle(c *fiber.Ctx) error {
	return handler.applyFastingAction(c, handler.fasting.CompleteCycle)
}

type fastingTransition func(ctx context.Context, userID uint, location *time.Location) (services.FastingState, error)

func (handler *Handler) applyFastingAction(c *fiber.Ctx, action fastingTransition) error {
	user, _ := currentUser(c)
	if _, err := action(c.UserContext(), user.ID, handler.userLocation(c)); err != nil {
		return handler.respondError(c, err)
	}
	return handler.GetFastingStatus(c)
}

func (handler *Handler) GetFastingHistory(c *fiber.Ctx) error {
	user, _ := currentUser(c)
	location := handler.userLocation(c)

	to := services.DateAtLocation(handler.now(), location)
	from := to.AddDate(0, 0, -(defaultHistoryDays - 1))
	if raw := strings.TrimSpace(c.Query("from")); raw != "" {
		parsed, err := services.ParseDayKey(raw, location)
		if err != nil {
			return handler.respondError(c, err)
		}
		from = parsed
	}
	if raw := strings.TrimSpace(c.Query("to")); raw != "" {
		parsed, err := services.ParseDayKey(raw, location)
		if err != nil {
			return handler.respondError(c, err)
		}
		to = parsed
	}
	if to.Before(from) {
		return handler.apiError(c, fiber.StatusBadRequest, "invalid_input")
	}

	history, err := handler.fasting.History(c.UserContext(), user.ID, location, from, to)
	if err != nil {
		return handler.respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"from":   services.DayKey(from),
		"to":     services.DayKey(to),
		"cycles": history,
	})
}

func (handler *Handler) localizeStatus(c *fiber.Ctx, status services.FastingStatus) fastingStatusResponse {
	language := currentLanguage(c)
	response := fastingStatusResponse{
		FastingStatus: status,
		PhaseLabel:    handler.i18n.Translate(language, "phase."+string(status.Phase.Phase)),
	}
	if protocol, err := services.ProtocolByID(status.Protocol); err == nil && !status.CustomWindow {
		response.ProtocolLabel = handler.i18n.Translate(language, protocol.LabelKey)
	}
	if status.CurrentCycle != nil {
		response.CycleLabel = handler.i18n.Translate(language, "cycle."+string(status.CurrentCycle.State()))
	}
	return response
}
