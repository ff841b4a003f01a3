package api

import (
	"strings"

	"github.com/maruel/corectl/schema"
)

// Process is a process as returned by GET /api/v3/process/{id}. Which of
// Config, State, Report and Metadata are set depends on the filter passed
// with the request.
//
// Example:
//
//	{"id":"restreamer-ui:ingest:c9e4b64b-...","type":"ffmpeg","reference":"c9e4b64b-...","created_at":1658923249,"config":{...},"state":{...},"report":{...},"metadata":null}
type Process struct {
	ID        string         `json:"id"`
	Type      string         `json:"type"`
	Reference string         `json:"reference"`
	CreatedAt int64          `json:"created_at"`
	Config    *ProcessConfig `json:"config"`
	State     *ProcessState  `json:"state"`
	Report    *ProcessReport `json:"report"`
	Metadata  map[string]any `json:"metadata"`
}

// ProcessList is the response for GET /api/v3/process.
type ProcessList struct {
	Data []Process `json:"data"`
}

// ProcessConfigList is a list of process configurations, as used for bulk
// import.
type ProcessConfigList struct {
	Data []ProcessConfig `json:"data"`
}

// ProcessConfig is the configuration of an FFmpeg process. It is both sent
// to create or update a process and returned by the server.
type ProcessConfig struct {
	ID                    string               `json:"id"`
	Type                  string               `json:"type,omitempty"`
	Reference             string               `json:"reference,omitempty"`
	Input                 []ProcessConfigIO    `json:"input"`
	Output                []ProcessConfigIO    `json:"output"`
	Options               []string             `json:"options,omitempty"`
	Reconnect             bool                 `json:"reconnect"`
	ReconnectDelaySeconds int64                `json:"reconnect_delay_seconds,omitempty"`
	Autostart             bool                 `json:"autostart"`
	StaleTimeoutSeconds   int64                `json:"stale_timeout_seconds,omitempty"`
	Limits                *ProcessConfigLimits `json:"limits,omitempty"`
}

// ProcessConfigIO is one input or output of a process.
type ProcessConfigIO struct {
	ID      string                   `json:"id"`
	Address string                   `json:"address"`
	Options []string                 `json:"options,omitempty"`
	Cleanup []ProcessConfigIOCleanup `json:"cleanup,omitempty"`
}

// ProcessConfigIOCleanup describes files to purge for an output.
type ProcessConfigIOCleanup struct {
	Pattern           string `json:"pattern"`
	MaxFiles          int64  `json:"max_files,omitempty"`
	MaxFileAgeSeconds int64  `json:"max_file_age_seconds,omitempty"`
	PurgeOnDelete     bool   `json:"purge_on_delete,omitempty"`
}

// ProcessConfigLimits are the resource limits enforced on a process.
type ProcessConfigLimits struct {
	CPUUsage       float64 `json:"cpu_usage"`
	MemoryMbytes   int64   `json:"memory_mbytes"`
	WaitForSeconds int64   `json:"waitfor_seconds"`
}

// Process states as reported in ProcessState.Exec.
const (
	ExecFinished  = "finished"
	ExecStarting  = "starting"
	ExecRunning   = "running"
	ExecFinishing = "finishing"
	ExecFailed    = "failed"
	ExecKilled    = "killed"
)

// ProcessState is the runtime state of a process.
type ProcessState struct {
	Order            string    `json:"order"` // "start" or "stop"
	Exec             string    `json:"exec"`
	RuntimeSeconds   int64     `json:"runtime_seconds"`
	ReconnectSeconds int64     `json:"reconnect_seconds"`
	LastLogline      string    `json:"last_logline"`
	Progress         *Progress `json:"progress"`
	MemoryBytes      int64     `json:"memory_bytes"`
	CPUUsage         float64   `json:"cpu_usage"`
	Command          []string  `json:"command"`
}

// Running reports whether FFmpeg is currently running.
func (s *ProcessState) Running() bool { return s.Exec == ExecRunning }

// CommandLine returns the FFmpeg command line.
func (s *ProcessState) CommandLine() string { return strings.Join(s.Command, " ") }

// Progress is the FFmpeg progress summary.
type Progress struct {
	Input       []ProgressIO `json:"input"`
	Output      []ProgressIO `json:"output"`
	Frame       int64        `json:"frame"`
	Packet      int64        `json:"packet"`
	FPS         float64      `json:"fps"`
	Q           float64      `json:"q"`
	SizeKB      int64        `json:"size_kb"`
	Time        float64      `json:"time"`
	BitrateKbit float64      `json:"bitrate_kbit"`
	Speed       float64      `json:"speed"`
	Drop        int64        `json:"drop"`
	Dup         int64        `json:"dup"`
}

// ProgressIO is the progress of one input or output stream.
type ProgressIO struct {
	ID          string  `json:"id"`
	Address     string  `json:"address"`
	Index       int64   `json:"index"`
	Stream      int64   `json:"stream"`
	Format      string  `json:"format"`
	Type        string  `json:"type"`
	Codec       string  `json:"codec"`
	Coder       string  `json:"coder"`
	Frame       int64   `json:"frame"`
	FPS         float64 `json:"fps"`
	Packet      int64   `json:"packet"`
	PPS         float64 `json:"pps"`
	SizeKB      int64   `json:"size_kb"`
	BitrateKbit float64 `json:"bitrate_kbit"`
	PixFmt      string  `json:"pix_fmt"`
	Q           float64 `json:"q"`
	Width       int64   `json:"width"`
	Height      int64   `json:"height"`
	SamplingHz  int64   `json:"sampling_hz"`
	Layout      string  `json:"layout"`
	Channels    int64   `json:"channels"`
}

// ProcessReport holds the FFmpeg logs of the current and past runs.
type ProcessReport struct {
	CreatedAt int64                       `json:"created_at"`
	Prelude   []string                    `json:"prelude"`
	Log       [][]string                  `json:"log"` // [timestamp, line]
	History   []ProcessReportHistoryEntry `json:"history"`
}

// ProcessReportHistoryEntry is the log of a past run.
type ProcessReportHistoryEntry struct {
	CreatedAt int64      `json:"created_at"`
	Prelude   []string   `json:"prelude"`
	Log       [][]string `json:"log"`
}

// ProcessProbe is the result of probing the inputs of a process.
//
// Example:
//
//	{"log":["string"],"streams":[{"url":"rtmp://...","format":"flv","type":"video","codec":"h264",...}]}
type ProcessProbe struct {
	Log     []string  `json:"log"`
	Streams []ProbeIO `json:"streams"`
}

// ProbeIO is one stream found by a probe.
type ProbeIO struct {
	URL         string  `json:"url"`
	Format      string  `json:"format"`
	Index       int64   `json:"index"`
	Stream      int64   `json:"stream"`
	Language    string  `json:"language"`
	Type        string  `json:"type"`
	Codec       string  `json:"codec"`
	Coder       string  `json:"coder"`
	BitrateKbps float64 `json:"bitrate_kbps"`
	DurationSec float64 `json:"duration_sec"`
	FPS         float64 `json:"fps"`
	PixFmt      string  `json:"pix_fmt"`
	Width       int64   `json:"width"`
	Height      int64   `json:"height"`
	SamplingHz  int64   `json:"sampling_hz"`
	Layout      string  `json:"layout"`
	Channels    int64   `json:"channels"`
}

// Process commands for PUT /api/v3/process/{id}/command.
const (
	CommandStart   = "start"
	CommandStop    = "stop"
	CommandRestart = "restart"
	CommandReload  = "reload"
)

// ProcessCommand is the request body for PUT /api/v3/process/{id}/command.
type ProcessCommand struct {
	Command string `json:"command"`
}

func init() {
	str := schema.String
	integer := schema.Int
	float := schema.Float
	strs := func() *schema.Type { return schema.List(schema.String()) }
	registry.MustRegister(
		&schema.Record{Name: "Process", Fields: []schema.Field{
			schema.Opt("id", str()),
			schema.Opt("type", str()),
			schema.Opt("reference", str()),
			schema.Opt("created_at", integer()),
			schema.Opt("config", schema.Ref("ProcessConfig")),
			schema.Opt("state", schema.Ref("ProcessState")),
			schema.Opt("report", schema.Ref("ProcessReport")),
			schema.Opt("metadata", schema.Object()),
		}},
		schema.Collection("ProcessList", "Process"),
		&schema.Record{Name: "ProcessConfig", Fields: []schema.Field{
			schema.Required("id", str()),
			schema.Opt("type", str()),
			schema.Opt("reference", str()),
			schema.Required("input", schema.List(schema.Ref("ProcessConfigIO"))),
			schema.Required("output", schema.List(schema.Ref("ProcessConfigIO"))),
			schema.Opt("options", strs()),
			schema.Default("reconnect", schema.Bool(), false),
			schema.Opt("reconnect_delay_seconds", integer()),
			schema.Default("autostart", schema.Bool(), false),
			schema.Opt("stale_timeout_seconds", integer()),
			schema.Opt("limits", schema.Ref("ProcessConfigLimits")),
		}},
		schema.Collection("ProcessConfigList", "ProcessConfig"),
		&schema.Record{Name: "ProcessConfigIO", Fields: []schema.Field{
			schema.Required("id", str()),
			schema.Required("address", str()),
			schema.Opt("options", strs()),
			schema.Opt("cleanup", schema.List(schema.Ref("ProcessConfigIOCleanup"))),
		}},
		&schema.Record{Name: "ProcessConfigIOCleanup", Fields: []schema.Field{
			schema.Required("pattern", str()),
			schema.Opt("max_files", integer()),
			schema.Opt("max_file_age_seconds", integer()),
			schema.Opt("purge_on_delete", schema.Bool()),
		}},
		&schema.Record{Name: "ProcessConfigLimits", Fields: []schema.Field{
			schema.Opt("cpu_usage", float()),
			schema.Opt("memory_mbytes", integer()),
			schema.Opt("waitfor_seconds", integer()),
		}},
		&schema.Record{Name: "ProcessState", Fields: []schema.Field{
			schema.Opt("order", str()),
			schema.Opt("exec", str()),
			schema.Opt("runtime_seconds", integer()),
			schema.Opt("reconnect_seconds", integer()),
			schema.Opt("last_logline", str()),
			schema.Opt("progress", schema.Ref("Progress")),
			schema.Opt("memory_bytes", integer()),
			schema.Opt("cpu_usage", float()),
			schema.Opt("command", strs()),
		}},
		&schema.Record{Name: "Progress", Fields: []schema.Field{
			schema.Opt("input", schema.List(schema.Ref("ProgressIO"))),
			schema.Opt("output", schema.List(schema.Ref("ProgressIO"))),
			schema.Opt("frame", integer()),
			schema.Opt("packet", integer()),
			schema.Opt("fps", float()),
			schema.Opt("q", float()),
			schema.Opt("size_kb", integer()),
			schema.Opt("time", float()),
			schema.Opt("bitrate_kbit", float()),
			schema.Opt("speed", float()),
			schema.Opt("drop", integer()),
			schema.Opt("dup", integer()),
		}},
		&schema.Record{Name: "ProgressIO", Fields: []schema.Field{
			schema.Opt("id", str()),
			schema.Opt("address", str()),
			schema.Opt("index", integer()),
			schema.Opt("stream", integer()),
			schema.Opt("format", str()),
			schema.Opt("type", str()),
			schema.Opt("codec", str()),
			schema.Opt("coder", str()),
			schema.Opt("frame", integer()),
			schema.Opt("fps", float()),
			schema.Opt("packet", integer()),
			schema.Opt("pps", float()),
			schema.Opt("size_kb", integer()),
			schema.Opt("bitrate_kbit", float()),
			schema.Opt("pix_fmt", str()),
			schema.Opt("q", float()),
			schema.Opt("width", integer()),
			schema.Opt("height", integer()),
			schema.Opt("sampling_hz", integer()),
			schema.Opt("layout", str()),
			schema.Opt("channels", integer()),
		}},
		&schema.Record{Name: "ProcessReport", Fields: []schema.Field{
			schema.Opt("created_at", integer()),
			schema.Opt("prelude", strs()),
			schema.Opt("log", schema.List(strs())),
			schema.Opt("history", schema.List(schema.Ref("ProcessReportHistoryEntry"))),
		}},
		&schema.Record{Name: "ProcessReportHistoryEntry", Fields: []schema.Field{
			schema.Opt("created_at", integer()),
			schema.Opt("prelude", strs()),
			schema.Opt("log", schema.List(strs())),
		}},
		&schema.Record{Name: "ProcessProbe", Fields: []schema.Field{
			schema.Required("log", strs()),
			schema.Required("streams", schema.List(schema.Ref("ProbeIO"))),
		}},
		&schema.Record{Name: "ProbeIO", Fields: []schema.Field{
			schema.Opt("url", str()),
			schema.Opt("format", str()),
			schema.Opt("index", integer()),
			schema.Opt("stream", integer()),
			schema.Opt("language", str()),
			schema.Opt("type", str()),
			schema.Opt("codec", str()),
			schema.Opt("coder", str()),
			schema.Opt("bitrate_kbps", float()),
			schema.Opt("duration_sec", float()),
			schema.Opt("fps", float()),
			schema.Opt("pix_fmt", str()),
			schema.Opt("width", integer()),
			schema.Opt("height", integer()),
			schema.Opt("sampling_hz", integer()),
			schema.Opt("layout", str()),
			schema.Opt("channels", integer()),
		}},
		&schema.Record{Name: "ProcessCommand", Fields: []schema.Field{
			schema.Required("command", str()),
		}},
	)
}
