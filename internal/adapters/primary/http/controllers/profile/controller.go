package profileController

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/AmitAMahadik/ExAstra/internal/domain"
	"github.com/AmitAMahadik/ExAstra/internal/usecases/astrology"
)

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
		v1.PUT("/profiles/:id", c.handleUpsert)
		v1.GET("/profiles/:id", c.handleGet)
		v1.DELETE("/profiles/:id", c.handleReset)
		v1.POST("/profiles/:id/place", c.handleValidatePlace)
		v1.POST("/profiles/:id/signs", c.handleResolveSigns)
	}
}

func (c *Controller) handleUpsert(ctx *gin.Context) {
	id, ok := parseID(ctx)
	if !ok {
		return
	}

	var update astrology.ProfileUpdate
	if err := ctx.ShouldBindJSON(&update); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	profile, err := c.Astro.UpsertProfile(ctx.Request.Context(), id, update)
	if err != nil {
		c.respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, profile)
}

func (c *Controller) handleGet(ctx *gin.Context) {
	id, ok := parseID(ctx)
	if !ok {
		return
	}

	profile, err := c.Astro.GetProfile(ctx.Request.Context(), id)
	if err != nil {
		c.respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, profile)
}

func (c *Controller) handleReset(ctx *gin.Context) {
	id, ok := parseID(ctx)
	if !ok {
		return
	}

	if err := c.Astro.ResetProfile(ctx.Request.Context(), id); err != nil {
		c.respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"status": "reset"})
}

func (c *Controller) handleValidatePlace(ctx *gin.Context) {
	id, ok := parseID(ctx)
	if !ok {
		return
	}

	profile, err := c.Astro.ValidatePlace(ctx.Request.Context(), id)
	if err != nil {
		c.respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, profile)
}

func (c *Controller) handleResolveSigns(ctx *gin.Context) {
	id, ok := parseID(ctx)
	if !ok {
		return
	}

	profile, err := c.Astro.ResolveSigns(ctx.Request.Context(), id)
	if err != nil {
		c.respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, profile)
}

func parseID(ctx *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid profile id"})
		return uuid.Nil, false
	}
	return id, true
}

func (c *Controller) respondError(ctx *gin.Context, err error) {
	if errors.Is(err, domain.ErrProfileNotFound) {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "profile not found"})
		return
	}

	status := http.StatusBadGateway
	switch domain.KindOf(err) {
	case domain.KindValidation:
		status = http.StatusUnprocessableEntity
	case domain.KindConfiguration:
		status = http.StatusServiceUnavailable
	}

	c.Log.Error("profile request failed", "error", err, "path", ctx.FullPath())
	ctx.JSON(status, gin.H{"error": err.Error()})
}
