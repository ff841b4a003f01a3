package api

import (
	"bytes"
	"fmt"

	"github.com/goccy/go-json"

	"github.com/maruel/corectl/schema"
)

// Srt is an SRT channel, as listed by GET /api/v3/srt.
//
// Servers since v16.10.0 identify the channel by Name and SocketID; older
// servers use Publisher instead. After decoding, exactly one of the two forms
// is populated: when Name is empty Name and SocketID are cleared, otherwise
// Publisher is cleared.
//
// Example:
//
//	{"name":"936718e2-...","socketid":347916646,"subscriber":[417977058],"connections":{"132881":{...}},"log":{}}
//
// Older form:
//
//	{"publisher":{"1f33d538-...":132881},"subscriber":{"5f61d80a-...":[140529]},"connections":{"132881":{...}},"log":{}}
type Srt struct {
	Name        string                    `json:"name,omitempty"`
	SocketID    schema.Variant            `json:"socketid"` // int on current servers, string on some
	Publisher   map[string]int64          `json:"publisher,omitempty"`
	Subscriber  SrtSubscribers            `json:"subscriber"`
	Connections map[string]SrtConnection  `json:"connections"`
	Log         map[string]schema.Variant `json:"log"`
}

// SrtList is the response for GET /api/v3/srt.
type SrtList struct {
	Data []Srt `json:"data"`
}

// SrtSubscribers is either a list of socket IDs or, on older servers, socket
// IDs keyed by subscriber name.
type SrtSubscribers struct {
	IDs         []int64
	ByPublisher map[string][]int64
}

// All returns every subscriber socket ID.
func (s *SrtSubscribers) All() []int64 {
	out := append([]int64(nil), s.IDs...)
	for _, ids := range s.ByPublisher {
		out = append(out, ids...)
	}
	return out
}

// MarshalJSON implements json.Marshaler.
func (s SrtSubscribers) MarshalJSON() ([]byte, error) {
	if s.ByPublisher != nil {
		return json.Marshal(s.ByPublisher)
	}
	if s.IDs == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(s.IDs)
}

// UnmarshalJSON implements json.Unmarshaler.
func (s *SrtSubscribers) UnmarshalJSON(data []byte) error {
	*s = SrtSubscribers{}
	b := bytes.TrimSpace(data)
	if len(b) == 0 {
		return nil
	}
	switch b[0] {
	case 'n':
		return nil
	case '{':
		return json.Unmarshal(b, &s.ByPublisher)
	case '[':
		return json.Unmarshal(b, &s.IDs)
	}
	return fmt.Errorf("subscriber: unexpected JSON %.20q", b)
}

// SrtConnection is one SRT socket of a channel.
type SrtConnection struct {
	Log   map[string]schema.Variant `json:"log"`
	Stats SrtConnectionStats        `json:"stats"`
}

// SrtConnectionStats are the libsrt socket statistics.
type SrtConnectionStats struct {
	TimestampMs       int64   `json:"timestamp_ms"`
	SentPkt           int64   `json:"sent_pkt"`
	RecvPkt           int64   `json:"recv_pkt"`
	SentUniquePkt     int64   `json:"sent_unique_pkt"`
	RecvUniquePkt     int64   `json:"recv_unique_pkt"`
	SendLossPkt       int64   `json:"send_loss_pkt"`
	RecvLossPkt       int64   `json:"recv_loss_pkt"`
	SentRetransPkt    int64   `json:"sent_retrans_pkt"`
	RecvRetransPkt    int64   `json:"recv_retran_pkts"`
	SentDropPkt       int64   `json:"sent_drop_pkt"`
	RecvDropPkt       int64   `json:"recv_drop_pkt"`
	SentBytes         int64   `json:"sent_bytes"`
	RecvBytes         int64   `json:"recv_bytes"`
	SendRateMbps      float64 `json:"mbps_sent_rate"`
	RecvRateMbps      float64 `json:"mbps_recv_rate"`
	BandwidthMbps     float64 `json:"mbps_bandwidth"`
	RTTMs             float64 `json:"ms_rtt"`
	FlowWindowPkt     int64   `json:"pkt_flow_window"`
	FlightSizePkt     int64   `json:"pkt_flight_size"`
	SendBufAvailBytes int64   `json:"bytes_avail_send_buf"`
	RecvBufAvailBytes int64   `json:"bytes_avail_recv_buf"`
}

// normalizeSrt keeps exactly one of the two channel identification forms.
// It may only be a compatibility shim for pre-16.10 servers; not confirmed
// against every server version.
func normalizeSrt(v map[string]any) {
	if v["name"] == nil {
		v["name"] = nil
		v["socketid"] = nil
	} else {
		v["publisher"] = nil
	}
}

func init() {
	logType := func() *schema.Type {
		return schema.Map(schema.Union(schema.String(), schema.List(schema.Any())))
	}
	integer := schema.Int
	float := schema.Float
	registry.MustRegister(
		&schema.Record{Name: "Srt", Normalize: normalizeSrt, Fields: []schema.Field{
			schema.Opt("name", schema.String()),
			schema.Opt("socketid", schema.Union(schema.Int(), schema.String())),
			schema.Opt("publisher", schema.Map(schema.Int())),
			schema.Required("subscriber", schema.Union(
				schema.Map(schema.List(schema.Int())),
				schema.List(schema.Int()),
			)),
			schema.Required("connections", schema.Map(schema.Ref("SrtConnection"))),
			schema.Opt("log", logType()),
		}},
		schema.Collection("SrtList", "Srt"),
		&schema.Record{Name: "SrtConnection", Fields: []schema.Field{
			schema.Required("log", logType()),
			schema.Required("stats", schema.Ref("SrtConnectionStats")),
		}},
		&schema.Record{Name: "SrtConnectionStats", Fields: []schema.Field{
			schema.Opt("timestamp_ms", integer()),
			schema.Opt("sent_pkt", integer()),
			schema.Opt("recv_pkt", integer()),
			schema.Opt("sent_unique_pkt", integer()),
			schema.Opt("recv_unique_pkt", integer()),
			schema.Opt("send_loss_pkt", integer()),
			schema.Opt("recv_loss_pkt", integer()),
			schema.Opt("sent_retrans_pkt", integer()),
			schema.Opt("recv_retran_pkts", integer()),
			schema.Opt("sent_drop_pkt", integer()),
			schema.Opt("recv_drop_pkt", integer()),
			schema.Opt("sent_bytes", integer()),
			schema.Opt("recv_bytes", integer()),
			schema.Opt("mbps_sent_rate", float()),
			schema.Opt("mbps_recv_rate", float()),
			schema.Opt("mbps_bandwidth", float()),
			schema.Opt("ms_rtt", float()),
			schema.Opt("pkt_flow_window", integer()),
			schema.Opt("pkt_flight_size", integer()),
			schema.Opt("bytes_avail_send_buf", integer()),
			schema.Opt("bytes_avail_recv_buf", integer()),
		}},
	)
}
