// Package handlers exposes the catalog and the running session over HTTP.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"solar-system-explorer/frame"
	"solar-system-explorer/input"
	"solar-system-explorer/metrics"
	"solar-system-explorer/models"
	"solar-system-explorer/session"
)

// SnapshotSource returns the latest published frame, or nil before the
// first one.
type SnapshotSource interface {
	Latest() *frame.Snapshot
}

// Handler serves the API. It never touches frame loop state directly: reads
// come from snapshots, writes go through the settings and input queues.
type Handler struct {
	catalog   []models.Planet
	snapshots SnapshotSource
	settings  *session.RemotePanel
	input     *input.Queue
	metrics   *metrics.Collector
}

func New(catalog []models.Planet, snapshots SnapshotSource, settings *session.RemotePanel, queue *input.Queue, m *metrics.Collector) *Handler {
	return &Handler{
		catalog:   catalog,
		snapshots: snapshots,
		settings:  settings,
		input:     queue,
		metrics:   m,
	}
}

// GetPlanets returns all catalog bodies
func (h *Handler) GetPlanets(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"data":  h.catalog,
		"count": len(h.catalog),
	})
}

// GetPlanetByName returns a single catalog body by English or Serbian name
func (h *Handler) GetPlanetByName(c *gin.Context) {
	planet, ok := models.FindPlanet(h.catalog, c.Param("name"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Planet not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": planet})
}
