package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"

	"github.com/pfrederiksen/calendar-aggregator/internal/calendar"
	"github.com/pfrederiksen/calendar-aggregator/internal/event"
	"github.com/pfrederiksen/calendar-aggregator/internal/fetcher"
)

// RegisterEventRoutes registers the event endpoints.
func (s *Server) RegisterEventRoutes(r *gin.Engine) {
	r.GET("/api/events", s.handleEvents)
	r.GET("/api/events.ics", s.handleEventsICS)
}

var errMissingURLs = errors.New("query parameter urls is required")

// parseURLs decodes the urls query parameter, a JSON array of strings.
func parseURLs(c *gin.Context) ([]string, error) {
	raw, ok := c.GetQuery("urls")
	if !ok {
		return nil, errMissingURLs
	}
	var urls []string
	if err := json.Unmarshal([]byte(raw), &urls); err != nil {
		return nil, errors.New("urls must be a JSON array of strings: " + err.Error())
	}
	return urls, nil
}

// FailedURLsHeader lists, as a JSON array, the requested URLs whose fetch
// failed. It is absent when every fetch succeeded.
const FailedURLsHeader = "X-Failed-Urls"

// upcomingByURL fetches every URL and keeps the events from today on.
// A URL whose fetch failed maps to an empty list and is named in
// FailedURLsHeader.
func (s *Server) upcomingByURL(c *gin.Context, urls []string) map[string][]event.Event {
	results := fetcher.FetchAll(c.Request.Context(), s.fetcher, urls)
	now := s.now()

	out := make(map[string][]event.Event, len(results))
	var failed []string
	for url, res := range results {
		out[url] = event.Upcoming(res.Events, now)
		if res.Err != nil {
			failed = append(failed, url)
		}
	}

	if len(failed) > 0 {
		sort.Strings(failed)
		if b, err := json.Marshal(failed); err == nil {
			c.Header(FailedURLsHeader, string(b))
		}
	}
	return out
}

// handleEvents answers GET /api/events?urls=[...]
func (s *Server) handleEvents(c *gin.Context) {
	urls, err := parseURLs(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, s.upcomingByURL(c, urls))
}

// handleEventsICS answers GET /api/events.ics?urls=[...] with the upcoming
// events of all URLs merged in date order.
func (s *Server) handleEventsICS(c *gin.Context) {
	urls, err := parseURLs(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	byURL := s.upcomingByURL(c, urls)
	merged := make([]event.Event, 0)
	for _, url := range urls {
		merged = append(merged, byURL[url]...)
		// duplicate input URLs contribute once
		delete(byURL, url)
	}
	event.SortByDate(merged)

	c.Header("Content-Disposition", `attachment; filename="events.ics"`)
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", []byte(calendar.Generate(merged)))
}
