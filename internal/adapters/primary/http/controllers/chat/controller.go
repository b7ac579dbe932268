package chatController

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/AmitAMahadik/ExAstra/internal/domain"
	"github.com/AmitAMahadik/ExAstra/internal/usecases/astrology"
)

type sendMessageReq struct {
	Message string `json:"message"`
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
		v1.POST("/profiles/:id/chat", c.handleSend)
		v1.GET("/profiles/:id/chat", c.handleTranscript)
	}
}

// handleSend appends a user message and streams the assistant reply as
// server-sent events, one token event per flushed chunk.
func (c *Controller) handleSend(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid profile id"})
		return
	}

	var req sendMessageReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Headers are committed lazily so that errors raised before the first
	// token can still go out as a plain JSON response.
	streaming := false
	startStream := func() {
		if streaming {
			return
		}
		streaming = true
		ctx.Header("Content-Type", "text/event-stream")
		ctx.Header("Cache-Control", "no-cache")
		ctx.Header("Connection", "keep-alive")
	}

	onToken := func(token string) error {
		startStream()
		ctx.SSEvent("token", token)
		ctx.Writer.Flush()
		return nil
	}

	reply, err := c.Astro.SendMessage(ctx.Request.Context(), id, req.Message, onToken)
	if err != nil {
		c.Log.Error("chat request failed", "error", err, "profile_id", id)
	}
	if err != nil && !streaming && reply == "" {
		switch {
		case errors.Is(err, domain.ErrProfileNotFound):
			ctx.JSON(http.StatusNotFound, gin.H{"error": "profile not found"})
		case domain.KindOf(err) == domain.KindValidation:
			ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		default:
			ctx.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		}
		return
	}
	startStream()

	// The reply is final even when the upstream stream failed: the
	// conversation then carries the apology text instead.
	ctx.SSEvent("done", reply)
	ctx.Writer.Flush()
}

func (c *Controller) handleTranscript(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid profile id"})
		return
	}

	messages, lastErr := c.Astro.Transcript(id)
	ctx.JSON(http.StatusOK, gin.H{
		"messages":   messages,
		"last_error": lastErr,
	})
}
