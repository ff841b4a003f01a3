package api

import (
	"fmt"
	"net/url"

	"github.com/maruel/corectl/schema"
)

// ClusterNode is a peer of the server in a cluster.
type ClusterNode struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Address     string  `json:"address"`
	CreatedAt   string  `json:"created_at"`
	UptimeSec   int64   `json:"uptime_seconds"`
	LastContact int64   `json:"last_contact"` // unix seconds
	LatencyMs   float64 `json:"latency_ms"`
	State       string  `json:"state"`
}

// ClusterNodeList is the response for GET /api/v3/cluster.
type ClusterNodeList struct {
	Data []ClusterNode `json:"data"`
}

// ClusterNodeAuth holds the credentials to reach a node.
type ClusterNodeAuth struct {
	Address  string `json:"address"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// URL returns Address with the credentials set as user info.
func (a *ClusterNodeAuth) URL() (*url.URL, error) {
	u, err := url.Parse(a.Address)
	if err != nil {
		return nil, fmt.Errorf("node address: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("node address %q: not an absolute URL", a.Address)
	}
	u.User = url.UserPassword(a.Username, a.Password)
	return u, nil
}

func init() {
	registry.MustRegister(
		&schema.Record{Name: "ClusterNode", Fields: []schema.Field{
			schema.Required("id", schema.String()),
			schema.Opt("name", schema.String()),
			schema.Required("address", schema.String()),
			schema.Opt("created_at", schema.String()),
			schema.Opt("uptime_seconds", schema.Int()),
			schema.Opt("last_contact", schema.Int()),
			schema.Opt("latency_ms", schema.Float()),
			schema.Opt("state", schema.String()),
		}},
		schema.Collection("ClusterNodeList", "ClusterNode"),
		&schema.Record{Name: "ClusterNodeAuth", Fields: []schema.Field{
			schema.Required("address", schema.String()),
			schema.Required("username", schema.String()),
			schema.Required("password", schema.String()),
		}},
	)
}
