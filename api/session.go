package api

import "github.com/maruel/corectl/schema"

// Session collectors known to the server.
const (
	CollectorFFmpeg     = "ffmpeg"
	CollectorHLS        = "hls"
	CollectorHLSIngress = "hlsingress"
	CollectorHTTP       = "http"
	CollectorRTMP       = "rtmp"
	CollectorSRT        = "srt"
)

// SessionActive is the response for GET /api/v3/session/active. Only the
// collectors requested are set.
type SessionActive struct {
	FFmpeg     []SessionCollectorActiveSession `json:"ffmpeg"`
	HLS        []SessionCollectorActiveSession `json:"hls"`
	HLSIngress []SessionCollectorActiveSession `json:"hlsingress"`
	HTTP       []SessionCollectorActiveSession `json:"http"`
	RTMP       []SessionCollectorActiveSession `json:"rtmp"`
	SRT        []SessionCollectorActiveSession `json:"srt"`
}

// Count returns the number of sessions over all collectors.
func (s *SessionActive) Count() int {
	return len(s.FFmpeg) + len(s.HLS) + len(s.HLSIngress) + len(s.HTTP) + len(s.RTMP) + len(s.SRT)
}

// SessionCollectorActiveSession is one active session.
type SessionCollectorActiveSession struct {
	ID              string         `json:"id"`
	Reference       string         `json:"reference"`
	CreatedAt       int64          `json:"created_at"`
	Local           string         `json:"local"`
	Remote          string         `json:"remote"`
	Extra           map[string]any `json:"extra"`
	BandwidthRxKbit float64        `json:"bandwidth_rx_kbit"`
	BandwidthTxKbit float64        `json:"bandwidth_tx_kbit"`
	BytesRx         int64          `json:"bytes_rx"`
	BytesTx         int64          `json:"bytes_tx"`
}

func init() {
	sessions := func() *schema.Type { return schema.List(schema.Ref("SessionCollectorActiveSession")) }
	registry.MustRegister(
		&schema.Record{Name: "SessionActive", Fields: []schema.Field{
			schema.Opt(CollectorFFmpeg, sessions()),
			schema.Opt(CollectorHLS, sessions()),
			schema.Opt(CollectorHLSIngress, sessions()),
			schema.Opt(CollectorHTTP, sessions()),
			schema.Opt(CollectorRTMP, sessions()),
			schema.Opt(CollectorSRT, sessions()),
		}},
		&schema.Record{Name: "SessionCollectorActiveSession", Fields: []schema.Field{
			schema.Required("id", schema.String()),
			schema.Opt("reference", schema.String()),
			schema.Opt("created_at", schema.Int()),
			schema.Opt("local", schema.String()),
			schema.Opt("remote", schema.String()),
			schema.Opt("extra", schema.Object()),
			schema.Opt("bandwidth_rx_kbit", schema.Float()),
			schema.Opt("bandwidth_tx_kbit", schema.Float()),
			schema.Opt("bytes_rx", schema.Int()),
			schema.Opt("bytes_tx", schema.Int()),
		}},
	)
}
