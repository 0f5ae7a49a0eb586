package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"solar-system-explorer/frame"
	"solar-system-explorer/input"
	"solar-system-explorer/session"
)

func (h *Handler) latest(c *gin.Context) (*frame.Snapshot, bool) {
	snap := h.snapshots.Latest()
	if snap == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "No frame rendered yet"})
		return nil, false
	}
	return snap, true
}

// GetBodies returns live body positions from the latest frame
func (h *Handler) GetBodies(c *gin.Context) {
	snap, ok := h.latest(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"data":  snap.Bodies,
		"count": len(snap.Bodies),
		"frame": snap.Frame,
		"time":  snap.Time,
	})
}

func (h *Handler) GetBodyByName(c *gin.Context) {
	snap, ok := h.latest(c)
	if !ok {
		return
	}
	body, found := snap.Body(c.Param("name"))
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "Body not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": body, "frame": snap.Frame})
}

func (h *Handler) GetSettings(c *gin.Context) {
	snap, ok := h.latest(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"data": snap.Settings,
		"ranges": gin.H{
			"speed":          session.SpeedRange,
			"radius":         session.RadiusRange,
			"orbit_distance": session.OrbitDistanceRange,
		},
	})
}

// PutSettings queues a partial settings change. It is applied, clamped to
// the slider ranges, when the next frame renders its panels.
func (h *Handler) PutSettings(c *gin.Context) {
	var patch session.Patch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if patch.Empty() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No settings given"})
		return
	}
	if !h.settings.Submit(patch) {
		h.metrics.RecordDropped("settings")
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Settings queue full"})
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"status": "queued"})
}

func (h *Handler) GetCamera(c *gin.Context) {
	snap, ok := h.latest(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": snap.Camera, "frame": snap.Frame})
}

// InputRequest is a batch of remote input. Movement names are forward,
// backward, left, right and slow. Look is a mouse delta in pixels with Y
// pointing up. It turns the camera like a drag without touching the drag
// or cursor state of other sources.
type InputRequest struct {
	Press   []string `json:"press"`
	Release []string `json:"release"`
	Look    *struct {
		DX float64 `json:"dx"`
		DY float64 `json:"dy"`
	} `json:"look"`
	Scroll float64 `json:"scroll"`
	Quit   bool    `json:"quit"`
}

func parseMovements(names []string) (input.Movement, error) {
	var m input.Movement
	for _, n := range names {
		f, ok := input.ParseMovement(n)
		if !ok {
			return 0, fmt.Errorf("unknown movement %q", n)
		}
		m |= f
	}
	return m, nil
}

// Events converts the request into aggregator events in application order.
func (r InputRequest) Events() ([]input.Event, error) {
	press, err := parseMovements(r.Press)
	if err != nil {
		return nil, err
	}
	release, err := parseMovements(r.Release)
	if err != nil {
		return nil, err
	}

	var events []input.Event
	if press != 0 {
		events = append(events, input.Event{Kind: input.KeyDown, Movement: press})
	}
	if release != 0 {
		events = append(events, input.Event{Kind: input.KeyUp, Movement: release})
	}
	if r.Look != nil {
		events = append(events, input.Event{Kind: input.Look, X: r.Look.DX, Y: r.Look.DY})
	}
	if r.Scroll != 0 {
		events = append(events, input.Event{Kind: input.Scroll, Scroll: r.Scroll})
	}
	if r.Quit {
		events = append(events, input.Event{Kind: input.Quit})
	}
	return events, nil
}

// PostInput queues remote input for the next poll of the frame loop. A
// batch is queued whole or rejected whole.
func (h *Handler) PostInput(c *gin.Context) {
	var req InputRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	events, err := req.Events()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !h.input.PushBatch(events) {
		h.metrics.RecordDropped("input")
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Input queue full"})
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"queued": len(events)})
}
