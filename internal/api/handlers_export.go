package api

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/fastfit/internal/services"
)

func (handler *Handler) exportRange(c *fiber.Ctx) (services.ExportRange, *time.Location, error) {
	location := handler.userLocation(c)
	exportRange, err := services.ParseExportRange(c.Query("from"), c.Query("to"), handler.now(), location)
	return exportRange, location, err
}

func (handler *Handler) ExportSummary(c *fiber.Ctx) error {
	user, _ := currentUser(c)
	exportRange, location, err := handler.exportRange(c)
	if err != nil {
		return handler.respondError(c, err)
	}
	summary, err := handler.export.BuildSummary(c.UserContext(), user.ID, exportRange, location)
	if err != nil {
		return handler.respondError(c, err)
	}
	return c.JSON(summary)
}

func (handler *Handler) ExportJSON(c *fiber.Ctx) error {
	user, _ := currentUser(c)
	exportRange, location, err := handler.exportRange(c)
	if err != nil {
		return handler.respondError(c, err)
	}
	entries, err := handler.export.BuildEntries(c.UserContext(), user.ID, exportRange, location)
	if err != nil {
		return handler.respondError(c, err)
	}

	now := handler.now().In(location)
	serialized, err := json.MarshalIndent(fiber.Map{
		"exportedAt": now.Format(time.RFC3339),
		"from":       exportRange.From,
		"to":         exportRange.To,
		"entries":    entries,
	}, "", "  ")
	if err != nil {
		return handler.respondError(c, fmt.Errorf("encode export: %w", err))
	}

	setExportAttachmentHeaders(c, fiber.MIMEApplicationJSON, buildExportFilename(now, "json"))
	return c.Send(serialized)
}

func (handler *Handler) ExportCSV(c *fiber.Ctx) error {
	user, _ := currentUser(c)
	exportRange, location, err := handler.exportRange(c)
	if err != nil {
		return handler.respondError(c, err)
	}
	entries, err := handler.export.BuildEntries(c.UserContext(), user.ID, exportRange, location)
	if err != nil {
		return handler.respondError(c, err)
	}

	var output bytes.Buffer
	writer := csv.NewWriter(&output)
	if err := writer.Write(services.ExportCSVHeaders); err != nil {
		return handler.respondError(c, fmt.Errorf("write export header: %w", err))
	}
	for _, entry := range entries {
		if err := writer.Write(entry.CSVColumns(location)); err != nil {
			return handler.respondError(c, fmt.Errorf("write export row: %w", err))
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return handler.respondError(c, fmt.Errorf("flush export: %w", err))
	}

	setExportAttachmentHeaders(c, "text/csv", buildExportFilename(handler.now().In(location), "csv"))
	return c.Send(output.Bytes())
}

func buildExportFilename(now time.Time, extension string) string {
	return fmt.Sprintf("fastfit-export-%s.%s", now.Format("2006-01-02"), extension)
}

func setExportAttachmentHeaders(c *fiber.Ctx, contentType string, filename string) {
	c.Set(fiber.HeaderContentType, contentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%s", filename))
}
