package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/Romer4ig/image-moderation/internal/infrastructure/realtime"
	"github.com/Romer4ig/image-moderation/internal/interfaces/httpserver/middlewares"
)

const heartbeatInterval = 15 * time.Second

// EventSource hands out live update subscriptions.
type EventSource interface {
	Subscribe() (*realtime.Client, func())
}

// EventsHandler streams live updates over Server-Sent Events.
type EventsHandler struct {
	source EventSource
	log    zerolog.Logger
}

func NewEventsHandler(source EventSource, log zerolog.Logger) *EventsHandler {
	return &EventsHandler{
		source: source,
		log:    log.With().Str("component", "events-handler").Logger(),
	}
}

// Stream godoc
// @Summary      Live updates
// @Description  Server-Sent Events stream of generation_update and grid_cell_update events.
// @Tags         events
// @Produce      text/event-stream
// @Success      200  {string}  string  "event stream"
// @Router       /api/events [get]
func (h *EventsHandler) Stream(c *gin.Context) {
	flusher, ok := middlewares.PrepareSSE(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Streaming unsupported"})
		return
	}

	client, unsubscribe := h.source.Subscribe()
	defer unsubscribe()

	c.Status(http.StatusOK)
	fmt.Fprintf(c.Writer, ": connected %s\n\n", client.ID)
	flusher.Flush()

	heartbeat := time.NewTicker(heartbeatInterval)
	defer heartbeat.Stop()

	ctx := c.Request.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case <-client.Done():
			return
		case <-heartbeat.C:
			fmt.Fprint(c.Writer, ": ping\n\n")
			flusher.Flush()
		case evt := <-client.Outbound:
			payload, err := json.Marshal(evt.Data)
			if err != nil {
				h.log.Warn().Err(err).Str("event", string(evt.Name)).Msg("marshal event")
				continue
			}
			fmt.Fprintf(c.Writer, "event: %s\ndata: %s\n\n", evt.Name, payload)
			flusher.Flush()
		}
	}
}
