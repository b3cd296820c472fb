package routes

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/fr0stylo/stockwatch/internal/app/domain"
	"github.com/fr0stylo/stockwatch/internal/app/ports"
	appservices "github.com/fr0stylo/stockwatch/internal/app/services"
	"github.com/fr0stylo/stockwatch/internal/suppliers"
)

// APIRoutes registers the JSON read API.
type APIRoutes struct {
	read *appservices.InventoryReadService
}

// NewAPIRoutes constructs API routes over the inventory read service.
func NewAPIRoutes(read *appservices.InventoryReadService) *APIRoutes {
	return &APIRoutes{read: read}
}

type ackRequest struct {
	By string `json:"by"`
}

// RegisterRoutes registers API endpoints.
func (a *APIRoutes) RegisterRoutes(s *echo.Echo) {
	api := s.Group("/api/v1")

	api.GET("/snapshots", a.handleListSnapshots)
	api.GET("/snapshots/:supplier/:style/:color/:size", a.handleGetSnapshot)
	api.GET("/notifications", a.handleListNotifications)
	api.POST("/notifications/:id/read", a.handleMarkNotificationRead)
	api.GET("/alerts", a.handleListAlerts)
	api.POST("/alerts/:id/ack", a.handleAcknowledgeAlert)
	api.GET("/events", a.handleListEvents)
	api.GET("/analytics/webhooks", a.handleWebhookAnalytics)
}

func (a *APIRoutes) handleListSnapshots(c echo.Context) error {
	snapshots, err := a.read.ListSnapshots(c.Request().Context(), c.QueryParam("supplier"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, snapshots)
}

func (a *APIRoutes) handleGetSnapshot(c echo.Context) error {
	source, err := suppliers.ParseSource(c.Param("supplier"))
	if err != nil {
		return jsonError(c, http.StatusNotFound, "unknown supplier")
	}
	snapshot, err := a.read.GetSnapshot(c.Request().Context(), domain.SnapshotKey{
		Supplier: source,
		StyleID:  c.Param("style"),
		ColorID:  c.Param("color"),
		SizeID:   c.Param("size"),
	})
	if errors.Is(err, ports.ErrNotFound) {
		return jsonError(c, http.StatusNotFound, "snapshot not found")
	}
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, snapshot)
}

func (a *APIRoutes) handleListNotifications(c echo.Context) error {
	notifications, err := a.read.ListNotifications(c.Request().Context(), queryBool(c, "unread"), queryInt(c, "limit"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, notifications)
}

func (a *APIRoutes) handleMarkNotificationRead(c echo.Context) error {
	err := a.read.MarkNotificationRead(c.Request().Context(), c.Param("id"))
	if errors.Is(err, ports.ErrNotFound) {
		return jsonError(c, http.StatusNotFound, "notification not found")
	}
	if err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (a *APIRoutes) handleListAlerts(c echo.Context) error {
	alerts, err := a.read.ListAlerts(c.Request().Context(), queryBool(c, "open"), queryInt(c, "limit"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, alerts)
}

func (a *APIRoutes) handleAcknowledgeAlert(c echo.Context) error {
	var req ackRequest
	if err := c.Bind(&req); err != nil {
		return jsonError(c, http.StatusBadRequest, "invalid request body")
	}
	err := a.read.AcknowledgeAlert(c.Request().Context(), c.Param("id"), req.By)
	switch {
	case errors.Is(err, appservices.ErrInvalidAcknowledger):
		return jsonError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, ports.ErrNotFound):
		return jsonError(c, http.StatusNotFound, "alert not found")
	case err != nil:
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (a *APIRoutes) handleListEvents(c echo.Context) error {
	events, err := a.read.ListEvents(c.Request().Context(), queryInt(c, "limit"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, events)
}

func (a *APIRoutes) handleWebhookAnalytics(c echo.Context) error {
	summary, err := a.read.WebhookAnalytics(c.Request().Context(), queryInt(c, "sample"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, summary)
}

func jsonError(c echo.Context, status int, message string) error {
	return c.JSON(status, map[string]string{"error": message})
}

func queryInt(c echo.Context, name string) int {
	value, err := strconv.Atoi(strings.TrimSpace(c.QueryParam(name)))
	if err != nil {
		return 0
	}
	return value
}

func queryBool(c echo.Context, name string) bool {
	value, err := strconv.ParseBool(strings.TrimSpace(c.QueryParam(name)))
	return err == nil && value
}
