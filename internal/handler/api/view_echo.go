package api

import (
	"context"
	"encoding/json"
	"net/http"

	models "SignalDesk/internal/domain/models"
	"SignalDesk/internal/usecase"
	xhttp "SignalDesk/pkg/http"
	xlogger "SignalDesk/pkg/logger"

	"github.com/labstack/echo/v4"
)

type limiter interface {
	Allow(key string) bool
}

// SnapshotReader serves the cached JSON projection of a panel.
type SnapshotReader interface {
	Snapshot(ctx context.Context, kind string) ([]byte, bool, error)
}

// JournalReader serves recorded signal history.
type JournalReader interface {
	History(ctx context.Context, asset string, limit int) ([]models.JournalEntry, error)
}

// ViewEchoHandler exposes the dashboard read models over HTTP.
type ViewEchoHandler struct {
	logger    *xlogger.Logger
	dash      *usecase.Dashboard
	rl        limiter
	snapshots SnapshotReader
	journal   JournalReader
}

func NewViewEchoHandler(logger *xlogger.Logger, dash *usecase.Dashboard, rl limiter, snapshots SnapshotReader) *ViewEchoHandler {
	if logger == nil {
		logger = xlogger.Nop()
	}
	return &ViewEchoHandler{logger: logger, dash: dash, rl: rl, snapshots: snapshots}
}

// SetJournal enables the history endpoint.
func (h *ViewEchoHandler) SetJournal(j JournalReader) { h.journal = j }

func (h *ViewEchoHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api/view")
	g.GET("/signals", h.Signals)
	g.GET("/metrics", h.Metrics)
	g.GET("/chart", h.Chart)
	g.GET("/distribution", h.Distribution)
	g.GET("/status", h.Status)
	g.GET("/snapshot/:kind", h.Snapshot)
	g.GET("/journal", h.Journal)
	g.PUT("/filter", h.Filter)
	g.POST("/refresh", h.Refresh)
}

func (h *ViewEchoHandler) Signals(c echo.Context) error {
	req := &models.SignalsViewRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	vq := usecase.ViewQuery{Asset: req.Asset, Query: req.Query}
	all := h.dash.SignalsView(vq, 0)
	rows := all
	if len(rows) > req.Limit {
		rows = rows[:req.Limit]
	}
	return xhttp.ListResponse(c, rows, int64(len(all)))
}

func (h *ViewEchoHandler) Metrics(c echo.Context) error {
	return xhttp.SuccessResponse(c, h.dash.MetricsView())
}

func (h *ViewEchoHandler) Chart(c echo.Context) error {
	req := &models.ChartViewRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	points := h.dash.Chart.Points()
	if req.Last > 0 && len(points) > req.Last {
		points = points[len(points)-req.Last:]
	}
	return xhttp.SuccessResponse(c, points)
}

func (h *ViewEchoHandler) Distribution(c echo.Context) error {
	return xhttp.SuccessResponse(c, h.dash.DistributionView())
}

func (h *ViewEchoHandler) Status(c echo.Context) error {
	return xhttp.SuccessResponse(c, h.dash.StatusView())
}

// Snapshot returns the last projection written by the cache render adapter.
func (h *ViewEchoHandler) Snapshot(c echo.Context) error {
	req := &models.SnapshotRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	if h.snapshots == nil {
		return xhttp.AppErrorResponse(c, xhttp.ServiceUnavailableError("view cache disabled"))
	}
	b, ok, err := h.snapshots.Snapshot(c.Request().Context(), req.Kind)
	if err != nil {
		h.logger.Error("view snapshot read error", xlogger.String("kind", req.Kind), xlogger.Error(err))
		return xhttp.AppErrorResponse(c, xhttp.InternalError("snapshot unavailable").WithError(err))
	}
	if !ok {
		return xhttp.AppErrorResponse(c, xhttp.NotFoundErrorf("no %s snapshot yet", req.Kind))
	}
	return xhttp.SuccessResponse(c, json.RawMessage(b))
}

// Journal returns the recorded signal history, newest first.
func (h *ViewEchoHandler) Journal(c echo.Context) error {
	req := &models.JournalRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	if h.journal == nil {
		return xhttp.AppErrorResponse(c, xhttp.ServiceUnavailableError("signal journal disabled"))
	}
	rows, err := h.journal.History(c.Request().Context(), req.Asset, req.Limit)
	if err != nil {
		h.logger.Error("journal history error", xlogger.String("asset", req.Asset), xlogger.Error(err))
		return xhttp.AppErrorResponse(c, xhttp.InternalError("journal unavailable").WithError(err))
	}
	return xhttp.ListResponse(c, rows, int64(len(rows)))
}

// Filter changes the projection pushed to the render adapters.
func (h *ViewEchoHandler) Filter(c echo.Context) error {
	req := &models.FilterRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	sc := h.dash.Sync()
	if sc == nil {
		return xhttp.AppErrorResponse(c, xhttp.ServiceUnavailableError("sync not running"))
	}
	sc.SetView(usecase.ViewQuery{Asset: req.Asset, Query: req.Query})
	return xhttp.DataResponse(c, http.StatusAccepted, req)
}

// Refresh queues a user-initiated pull, throttled per client IP.
func (h *ViewEchoHandler) Refresh(c echo.Context) error {
	if h.rl != nil && !h.rl.Allow(c.RealIP()) {
		h.logger.Warn("view refresh rate limited", xlogger.String("remote", c.RealIP()))
		return xhttp.AppErrorResponse(c, xhttp.TooManyRequestsError("refresh rate limited"))
	}
	sc := h.dash.Sync()
	if sc == nil {
		return xhttp.AppErrorResponse(c, xhttp.ServiceUnavailableError("sync not running"))
	}
	sc.Refresh()
	return xhttp.DataResponse(c, http.StatusAccepted, map[string]string{"state": string(sc.State())})
}
