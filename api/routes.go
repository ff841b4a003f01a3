package api

import (
	"fmt"
	"net/url"
	"strings"
)

// Route describes a single API endpoint.
type Route struct {
	Name     string // e.g. "process"
	Method   string // "GET", "POST", "PUT" or "DELETE"
	Path     string // "/api/v3/process/{id}"
	ReqType  string // record name of the body, "" for none
	RespType string // record name of the response, "" when the body is not validated
	Cached   bool   // response is static until skills are reloaded
}

// Routes is the authoritative list of endpoints used by the client.
var Routes = []Route{
	{Name: "about", Method: "GET", Path: "/api", RespType: "About", Cached: true},
	{Name: "ping", Method: "GET", Path: "/ping"},
	{Name: "processes", Method: "GET", Path: "/api/v3/process", RespType: "ProcessList"},
	{Name: "addProcess", Method: "POST", Path: "/api/v3/process", ReqType: "ProcessConfig", RespType: "ProcessConfig"},
	{Name: "process", Method: "GET", Path: "/api/v3/process/{id}", RespType: "Process"},
	{Name: "updateProcess", Method: "PUT", Path: "/api/v3/process/{id}", ReqType: "ProcessConfig", RespType: "ProcessConfig"},
	{Name: "deleteProcess", Method: "DELETE", Path: "/api/v3/process/{id}"},
	{Name: "processCommand", Method: "PUT", Path: "/api/v3/process/{id}/command", ReqType: "ProcessCommand"},
	{Name: "processConfig", Method: "GET", Path: "/api/v3/process/{id}/config", RespType: "ProcessConfig"},
	{Name: "processState", Method: "GET", Path: "/api/v3/process/{id}/state", RespType: "ProcessState"},
	{Name: "processReport", Method: "GET", Path: "/api/v3/process/{id}/report", RespType: "ProcessReport"},
	{Name: "processProbe", Method: "GET", Path: "/api/v3/process/{id}/probe", RespType: "ProcessProbe"},
	{Name: "processMetadata", Method: "GET", Path: "/api/v3/process/{id}/metadata/{key}", RespType: "Metadata"},
	{Name: "setProcessMetadata", Method: "PUT", Path: "/api/v3/process/{id}/metadata/{key}", ReqType: "Metadata", RespType: "Metadata"},
	{Name: "metadata", Method: "GET", Path: "/api/v3/metadata/{key}", RespType: "Metadata"},
	{Name: "setMetadata", Method: "PUT", Path: "/api/v3/metadata/{key}", ReqType: "Metadata", RespType: "Metadata"},
	{Name: "skills", Method: "GET", Path: "/api/v3/skills", RespType: "Skills", Cached: true},
	{Name: "reloadSkills", Method: "GET", Path: "/api/v3/skills/reload", RespType: "Skills"},
	{Name: "activeSessions", Method: "GET", Path: "/api/v3/session/active", RespType: "SessionActive"},
	{Name: "srt", Method: "GET", Path: "/api/v3/srt", RespType: "SrtList"},
	{Name: "rtmp", Method: "GET", Path: "/api/v3/rtmp", RespType: "RtmpChannelList"},
	{Name: "log", Method: "GET", Path: "/api/v3/log", RespType: "Log"},
	{Name: "metricsDescriptions", Method: "GET", Path: "/api/v3/metrics", RespType: "MetricsCollectionList"},
	{Name: "metrics", Method: "POST", Path: "/api/v3/metrics", ReqType: "MetricsQuery", RespType: "MetricsResponse"},
	{Name: "clusterNodes", Method: "GET", Path: "/api/v3/cluster", RespType: "ClusterNodeList"},
	{Name: "config", Method: "GET", Path: "/api/v3/config", RespType: "Config"},
	{Name: "fsList", Method: "GET", Path: "/api/v3/fs/{name}", RespType: "FileList"},
}

// RouteByName returns the named route.
func RouteByName(name string) (*Route, bool) {
	for i := range Routes {
		if Routes[i].Name == name {
			return &Routes[i], true
		}
	}
	return nil, false
}

// Params returns the placeholder names of the path, in order.
func (r *Route) Params() []string {
	var out []string
	for rest := r.Path; ; {
		i := strings.IndexByte(rest, '{')
		if i < 0 {
			return out
		}
		j := strings.IndexByte(rest[i:], '}')
		if j < 0 {
			return out
		}
		out = append(out, rest[i+1:i+j])
		rest = rest[i+j+1:]
	}
}

// Expand returns the path with each placeholder replaced by the matching
// escaped argument.
func (r *Route) Expand(args ...string) (string, error) {
	params := r.Params()
	if len(args) != len(params) {
		return "", fmt.Errorf("route %s: got %d arguments, want %d %v", r.Name, len(args), len(params), params)
	}
	p := r.Path
	for i, name := range params {
		if args[i] == "" {
			return "", fmt.Errorf("route %s: empty %s", r.Name, name)
		}
		p = strings.Replace(p, "{"+name+"}", url.PathEscape(args[i]), 1)
	}
	return p, nil
}
