// Package api exposes the person operations and the database health probe
// over HTTP using gin.
//
// Routes:
//
//	POST /persons  create a random person
//	GET  /persons  list every stored person
//	GET  /health   report database liveness, always 200
//
// Store failures map to 503 and internal faults to 500, each with a
// {"detail": "..."} body.
package api
