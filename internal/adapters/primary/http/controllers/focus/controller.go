package focusController

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/AmitAMahadik/ExAstra/internal/domain"
	"github.com/AmitAMahadik/ExAstra/internal/usecases/astrology"
)

type selectFocusReq struct {
	Area string `json:"area" binding:"required"`
}

type Controller struct {
	Astro *astrology.Service
	Log   *slog.Logger
}

func New(astro *astrology.Service, log *slog.Logger) *Controller {
	return &Controller{
		Astro: astro,
		Log:   log,
	}
}

func (c *Controller) RegisterRoutes(router *gin.Engine) {
	v1 := router.Group("/api/v1")
	{
		v1.POST("/profiles/:id/focus", c.handleFocus)
		v1.GET("/profiles/:id/focus/:area", c.handleStatus)
	}
}

// handleFocus selects a focus area and streams the guidance summary as
// server-sent events. A cached summary is delivered in a single event.
func (c *Controller) handleFocus(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid profile id"})
		return
	}

	var req selectFocusReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	area := domain.FocusArea(req.Area)
	if !area.IsValid() {
		ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": "unknown focus area"})
		return
	}

	if _, err := c.Astro.SelectFocus(ctx.Request.Context(), id, area); err != nil {
		c.respondError(ctx, err)
		return
	}

	ctx.Header("Content-Type", "text/event-stream")
	ctx.Header("Cache-Control", "no-cache")
	ctx.Header("Connection", "keep-alive")
	ctx.Writer.Flush()

	onUpdate := func(text string) error {
		ctx.SSEvent("summary", text)
		ctx.Writer.Flush()
		return nil
	}

	summary, err := c.Astro.RequestSummary(ctx.Request.Context(), id, area, onUpdate)
	switch {
	case errors.Is(err, astrology.ErrSuperseded):
		ctx.SSEvent("superseded", area)
	case err != nil:
		c.Log.Error("focus summary failed", "error", err, "profile_id", id, "area", area)
		ctx.SSEvent("error", err.Error())
	default:
		ctx.SSEvent("done", summary)
	}
	ctx.Writer.Flush()
}

func (c *Controller) handleStatus(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid profile id"})
		return
	}

	area := domain.FocusArea(ctx.Param("area"))
	if !area.IsValid() {
		ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": "unknown focus area"})
		return
	}

	state, detail := c.Astro.SummaryStatus(id, area)
	resp := gin.H{
		"area":  area,
		"state": state,
	}
	switch state {
	case astrology.SummaryCached:
		resp["summary"] = detail
	case astrology.SummaryFailed:
		resp["error"] = detail
	}
	ctx.JSON(http.StatusOK, resp)
}

func (c *Controller) respondError(ctx *gin.Context, err error) {
	if errors.Is(err, domain.ErrProfileNotFound) {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "profile not found"})
		return
	}

	status := http.StatusBadGateway
	if domain.KindOf(err) == domain.KindValidation {
		status = http.StatusUnprocessableEntity
	}

	ctx.JSON(status, gin.H{"error": err.Error()})
}
