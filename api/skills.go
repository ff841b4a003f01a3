package api

import (
	"slices"

	"github.com/maruel/corectl/schema"
)

// Skills lists what the FFmpeg binary used by the server can do. It is the
// response for GET /api/v3/skills and GET /api/v3/skills/reload.
type Skills struct {
	Codecs    SkillsCodecs    `json:"codecs"`
	Devices   SkillsDevices   `json:"devices"`
	FFmpeg    SkillsFFmpeg    `json:"ffmpeg"`
	Filter    []SkillsFilter  `json:"filter"`
	Formats   SkillsFormat    `json:"formats"`
	HWAccels  []SkillsHWAccel `json:"hwaccels"`
	Protocols SkillsProtocol  `json:"protocols"`
}

// HasEncoder reports whether any audio, video or subtitle codec has the
// named encoder.
func (s *Skills) HasEncoder(name string) bool {
	for _, l := range [][]SkillsCodecsType{s.Codecs.Audio, s.Codecs.Video, s.Codecs.Subtitle} {
		for i := range l {
			if slices.Contains(l[i].Encoders, name) {
				return true
			}
		}
	}
	return false
}

// SkillsCodecs groups codecs per media type.
type SkillsCodecs struct {
	Audio    []SkillsCodecsType `json:"audio"`
	Subtitle []SkillsCodecsType `json:"subtitle"`
	Video    []SkillsCodecsType `json:"video"`
}

// SkillsCodecsType is one codec.
//
// Example:
//
//	{"id":"h264","name":"H.264 / AVC / MPEG-4 AVC / MPEG-4 part 10","encoders":["libx264"],"decoders":["h264"]}
type SkillsCodecsType struct {
	Decoders []string `json:"decoders"`
	Encoders []string `json:"encoders"`
	ID       string   `json:"id"`
	Name     string   `json:"name"`
}

// SkillsDevices lists the capture and output devices.
type SkillsDevices struct {
	Demuxers []SkillsDevicesMuxer `json:"demuxers"`
	Muxers   []SkillsDevicesMuxer `json:"muxers"`
}

// SkillsDevicesMuxer is a device format and the devices found for it.
type SkillsDevicesMuxer struct {
	Devices []SkillsDevicesMuxerDevice `json:"devices"`
	ID      string                     `json:"id"`
	Name    string                     `json:"name"`
}

// SkillsDevicesMuxerDevice is a single device.
type SkillsDevicesMuxerDevice struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Extra string `json:"extra"`
	Media string `json:"media"`
}

// SkillsFFmpeg describes the FFmpeg build.
type SkillsFFmpeg struct {
	Version       string          `json:"version"`
	Compiler      string          `json:"compiler"`
	Configuration string          `json:"configuration"`
	Libraries     []SkillsLibrary `json:"libraries"`
}

// SkillsLibrary is a library FFmpeg was built with.
type SkillsLibrary struct {
	Name     string `json:"name"`
	Compiled string `json:"compiled"`
	Linked   string `json:"linked"`
}

// SkillsFilter is an FFmpeg filter.
type SkillsFilter struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// SkillsHWAccel is a hardware acceleration method.
type SkillsHWAccel struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// SkillsFormat lists the container formats.
type SkillsFormat struct {
	Demuxers []SkillsFormatMuxer `json:"demuxers"`
	Muxers   []SkillsFormatMuxer `json:"muxers"`
}

// SkillsFormatMuxer is one container format.
type SkillsFormatMuxer struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// SkillsProtocol lists the protocols per direction.
type SkillsProtocol struct {
	Input  []SkillsProtocolIO `json:"input"`
	Output []SkillsProtocolIO `json:"output"`
}

// SkillsProtocolIO is one protocol.
type SkillsProtocolIO struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func init() {
	str := schema.String
	list := func(name string) *schema.Type { return schema.List(schema.Ref(name)) }
	idName := func(name string, extra ...schema.Field) *schema.Record {
		return &schema.Record{Name: name, Fields: append([]schema.Field{
			schema.Required("id", str()),
			schema.Required("name", str()),
		}, extra...)}
	}
	registry.MustRegister(
		&schema.Record{Name: "Skills", Fields: []schema.Field{
			schema.Required("codecs", schema.Ref("SkillsCodecs")),
			schema.Required("devices", schema.Ref("SkillsDevices")),
			schema.Required("ffmpeg", schema.Ref("SkillsFFmpeg")),
			schema.Required("filter", list("SkillsFilter")),
			schema.Required("formats", schema.Ref("SkillsFormat")),
			schema.Required("hwaccels", list("SkillsHWAccel")),
			schema.Required("protocols", schema.Ref("SkillsProtocol")),
		}},
		&schema.Record{Name: "SkillsCodecs", Fields: []schema.Field{
			schema.Required("audio", list("SkillsCodecsType")),
			schema.Required("subtitle", list("SkillsCodecsType")),
			schema.Required("video", list("SkillsCodecsType")),
		}},
		&schema.Record{Name: "SkillsCodecsType", Fields: []schema.Field{
			schema.Opt("decoders", schema.List(str())),
			schema.Opt("encoders", schema.List(str())),
			schema.Required("id", str()),
			schema.Required("name", str()),
		}},
		&schema.Record{Name: "SkillsDevices", Fields: []schema.Field{
			schema.Required("demuxers", list("SkillsDevicesMuxer")),
			schema.Required("muxers", list("SkillsDevicesMuxer")),
		}},
		&schema.Record{Name: "SkillsDevicesMuxer", Fields: []schema.Field{
			schema.Required("devices", list("SkillsDevicesMuxerDevice")),
			schema.Required("id", str()),
			schema.Required("name", str()),
		}},
		idName("SkillsDevicesMuxerDevice",
			schema.Opt("extra", str()),
			schema.Opt("media", str()),
		),
		&schema.Record{Name: "SkillsFFmpeg", Fields: []schema.Field{
			schema.Required("version", str()),
			schema.Opt("compiler", str()),
			schema.Opt("configuration", str()),
			schema.Opt("libraries", list("SkillsLibrary")),
		}},
		&schema.Record{Name: "SkillsLibrary", Fields: []schema.Field{
			schema.Required("name", str()),
			schema.Opt("compiled", str()),
			schema.Opt("linked", str()),
		}},
		idName("SkillsFilter", schema.Opt("description", str())),
		idName("SkillsHWAccel"),
		&schema.Record{Name: "SkillsFormat", Fields: []schema.Field{
			schema.Required("demuxers", list("SkillsFormatMuxer")),
			schema.Required("muxers", list("SkillsFormatMuxer")),
		}},
		idName("SkillsFormatMuxer"),
		&schema.Record{Name: "SkillsProtocol", Fields: []schema.Field{
			schema.Required("input", list("SkillsProtocolIO")),
			schema.Required("output", list("SkillsProtocolIO")),
		}},
		idName("SkillsProtocolIO"),
	)
}
