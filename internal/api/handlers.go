package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/san-kum/solarsim/internal/dynamo"
)

type Handler struct {
	engine *Engine
}

func NewHandler(e *Engine) *Handler {
	return &Handler{engine: e}
}

// GetBodies returns every body in registry order. ?trail=false drops the
// trails from the response.
func (h *Handler) GetBodies(c *gin.Context) {
	withTrail, err := strconv.ParseBool(c.DefaultQuery("trail", "true"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "trail must be a boolean"})
		return
	}

	bodies := h.engine.Snapshots()
	if !withTrail {
		for i := range bodies {
			bodies[i].Trail = nil
		}
	}
	c.JSON(http.StatusOK, gin.H{
		"data":  bodies,
		"count": len(bodies),
	})
}

func (h *Handler) GetBodyByName(c *gin.Context) {
	body, err := h.engine.Snapshot(c.Param("name"))
	if errors.Is(err, dynamo.ErrUnknownBody) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Body not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": body})
}

func (h *Handler) GetStatus(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": h.engine.Status()})
}
