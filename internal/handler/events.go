package handler

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/aps4398/project-manager/internal/middleware"
	"github.com/aps4398/project-manager/internal/service"
	"github.com/aps4398/project-manager/internal/sse"
	"github.com/gin-gonic/gin"
)

type EventHandler struct {
	hub            *sse.Hub
	projectService *service.ProjectService
	streamTTL      time.Duration
}

func NewEventHandler(hub *sse.Hub, projectService *service.ProjectService, streamTTL time.Duration) *EventHandler {
	return &EventHandler{hub: hub, projectService: projectService, streamTTL: streamTTL}
}

// GET /projects/:id/events
//
// Server-sent events for one project's activity. A reconnecting client sends
// Last-Event-ID and missed events are replayed before live ones.
func (h *EventHandler) Stream(c *gin.Context) {
	projectID := parseID(c.Param("id"))
	userID := middleware.GetCurrentUserID(c)

	if _, err := h.projectService.GetVisible(projectID, userID); err != nil {
		Fail(c, err)
		return
	}

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.Header().Set("X-Accel-Buffering", "no")

	lastID := sse.ParseLastEventID(c.GetHeader("Last-Event-ID"))
	if lastID == 0 {
		lastID = sse.ParseLastEventID(c.Query("last_event_id"))
	}

	events, unsub := h.hub.Subscribe(projectID)
	defer unsub()
	h.hub.SetExpire(projectID, h.streamTTL)

	// Events broadcast between Subscribe and the replay below arrive on both
	// paths; lastSent lets the live loop drop the copies already written.
	lastSent := int64(-1)
	if lastID > 0 {
		lastSent = lastID
		if lastID+1 < h.hub.TotalEvents(projectID) {
			missed, err := h.hub.ReplayFrom(projectID, lastID+1)
			if err == nil {
				for _, ev := range missed {
					writeEvent(c.Writer, ev)
					lastSent = ev.ID
				}
				c.Writer.Flush()
			}
		}
	}

	heartbeat := time.NewTicker(25 * time.Second)
	defer heartbeat.Stop()

	c.Stream(func(w io.Writer) bool {
		select {
		case ev, ok := <-events:
			if !ok {
				return false
			}
			if ev.Stale(lastSent) {
				return true
			}
			writeEvent(w, ev)
			lastSent = ev.ID
			return true
		case <-heartbeat.C:
			fmt.Fprint(w, ": ping\n\n")
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}

func writeEvent(w io.Writer, ev sse.Event) {
	data, err := json.Marshal(ev.Data)
	if err != nil {
		return
	}
	fmt.Fprintf(w, "id: %d\nevent: %s\ndata: %s\n\n", ev.ID, ev.Type, data)
}
