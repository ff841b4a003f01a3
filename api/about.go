package api

import (
	"fmt"
	"time"

	"github.com/maruel/corectl/schema"
)

// About is the response for GET /api.
//
// Example:
//
//	{"app":"datarhei-core","auths":["jwt"],"name":"silent-wind-6172","id":"8b2bd0bc-...","created_at":"2022-07-27T11:59:35Z","uptime_seconds":3600,"version":{...}}
type About struct {
	App           string        `json:"app"`
	Auths         []string      `json:"auths"`
	CreatedAt     string        `json:"created_at"`
	ID            string        `json:"id"`
	Name          string        `json:"name"`
	UptimeSeconds int64         `json:"uptime_seconds"`
	Version       *AboutVersion `json:"version"`
}

// Created parses CreatedAt.
func (a *About) Created() (time.Time, error) {
	return time.Parse(time.RFC3339, a.CreatedAt)
}

// AboutVersion describes the server build.
type AboutVersion struct {
	Number           string `json:"number"`
	RepositoryCommit string `json:"repository_commit"`
	RepositoryBranch string `json:"repository_branch"`
	BuildDate        string `json:"build_date"`
	Arch             string `json:"arch"`
	Compiler         string `json:"compiler"`
}

// Error is the body of every non-2xx response.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Details []any  `json:"details"`
}

func (e *Error) Error() string {
	if len(e.Details) == 0 {
		return e.Message
	}
	return fmt.Sprintf("%s %v", e.Message, e.Details)
}

func init() {
	registry.MustRegister(
		&schema.Record{Name: "About", Fields: []schema.Field{
			schema.Opt("app", schema.String()),
			schema.Opt("auths", schema.List(schema.String())),
			schema.Opt("created_at", schema.String()),
			schema.Opt("id", schema.String()),
			schema.Opt("name", schema.String()),
			schema.Opt("uptime_seconds", schema.Int()),
			schema.Opt("version", schema.Ref("AboutVersion")),
		}},
		&schema.Record{Name: "AboutVersion", Fields: []schema.Field{
			schema.Opt("number", schema.String()),
			schema.Opt("repository_commit", schema.String()),
			schema.Opt("repository_branch", schema.String()),
			schema.Opt("build_date", schema.String()),
			schema.Opt("arch", schema.String()),
			schema.Opt("compiler", schema.String()),
		}},
		&schema.Record{Name: "Error", Fields: []schema.Field{
			schema.Required("code", schema.Int()),
			schema.Required("message", schema.String()),
			schema.Required("details", schema.List(schema.Any())),
		}},
	)
}
