// Package api exposes the event fetcher over HTTP using gin.
//
// Routes:
//
//	GET    /api/health               liveness check
//	GET    /api/metrics              snapshot of fetch and cache metrics
//	GET    /api/events?urls=[...]    upcoming events per URL as JSON
//	GET    /api/events.ics?urls=[...] upcoming events of all URLs as iCalendar
//	GET    /api/topics               stored topics
//	POST   /api/topics               create a topic {"name": ..., "urls": [...]}
//	GET    /api/topics/:id/events    upcoming events of a topic's URLs
//	DELETE /api/topics/:id           delete a topic
//
// The urls parameter is a JSON array of strings. A URL that could not be
// fetched maps to an empty list, and event responses then carry an
// X-Failed-Urls header naming those URLs. Topic routes answer 404 when
// the server runs without a topic store. When a frontend directory is set,
// every other path is served from it.
package api
