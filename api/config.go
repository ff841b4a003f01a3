package api

import "github.com/maruel/corectl/schema"

// Config is the response for GET /api/v3/config.
type Config struct {
	CreatedAt string      `json:"created_at"`
	LoadedAt  string      `json:"loaded_at"`
	UpdatedAt string      `json:"updated_at"`
	Config    *ConfigData `json:"config"`
	Overrides []string    `json:"overrides"`
}

// ConfigData is the server configuration. Only the sections relevant to a
// client are declared; the others are ignored when decoding.
type ConfigData struct {
	Version         int64          `json:"version"`
	ID              string         `json:"id"`
	Name            string         `json:"name"`
	Address         string         `json:"address"`
	CheckForUpdates bool           `json:"update_check"`
	Log             *ConfigLog     `json:"log"`
	Host            *ConfigHost    `json:"host"`
	API             *ConfigAPI     `json:"api"`
	TLS             *ConfigTLS     `json:"tls"`
	Storage         *ConfigStorage `json:"storage"`
	RTMP            *ConfigRTMP    `json:"rtmp"`
	SRT             *ConfigSRT     `json:"srt"`
	FFmpeg          *ConfigFFmpeg  `json:"ffmpeg"`
	Metrics         *ConfigMetrics `json:"metrics"`
}

type ConfigLog struct {
	Level    string   `json:"level"`
	Topics   []string `json:"topics"`
	MaxLines int64    `json:"max_lines"`
}

type ConfigHost struct {
	Name []string `json:"name"`
	Auto bool     `json:"auto"`
}

type ConfigAPI struct {
	ReadOnly bool             `json:"read_only"`
	Access   *ConfigAPIAccess `json:"access"`
	Auth     *ConfigAPIAuth   `json:"auth"`
}

type ConfigAPIAccess struct {
	HTTP  *ConfigAPIAccessRules `json:"http"`
	HTTPS *ConfigAPIAccessRules `json:"https"`
}

// ConfigAPIAccessRules lists the IP ranges allowed or blocked.
//
// Example:
//
//	{"allow":[],"block":[]}
type ConfigAPIAccessRules struct {
	Allow []string `json:"allow"`
	Block []string `json:"block"`
}

type ConfigAPIAuth struct {
	Enable           bool   `json:"enable"`
	DisableLocalhost bool   `json:"disable_localhost"`
	Username         string `json:"username"`
}

type ConfigTLS struct {
	Address  string `json:"address"`
	Enable   bool   `json:"enable"`
	Auto     bool   `json:"auto"`
	Email    string `json:"email"`
	CertFile string `json:"cert_file"`
	KeyFile  string `json:"key_file"`
}

type ConfigStorage struct {
	Disk          *ConfigStorageDisk   `json:"disk"`
	Memory        *ConfigStorageMemory `json:"memory"`
	CORS          *ConfigStorageCORS   `json:"cors"`
	MimetypesFile string               `json:"mimetypes_file"`
}

type ConfigStorageDisk struct {
	Dir           string                  `json:"dir"`
	MaxSizeMbytes int64                   `json:"max_size_mbytes"`
	Cache         *ConfigStorageDiskCache `json:"cache"`
}

type ConfigStorageDiskCache struct {
	Enable            bool                         `json:"enable"`
	MaxSizeMbytes     int64                        `json:"max_size_mbytes"`
	TTLSeconds        int64                        `json:"ttl_seconds"`
	MaxFileSizeMbytes int64                        `json:"max_file_size_mbytes"`
	Types             *ConfigStorageDiskCacheTypes `json:"types"`
}

// ConfigStorageDiskCacheTypes lists the file extensions cached or not.
//
// Example:
//
//	{"allow":[],"block":[".m3u8"]}
type ConfigStorageDiskCacheTypes struct {
	Allow []string `json:"allow"`
	Block []string `json:"block"`
}

type ConfigStorageMemory struct {
	MaxSizeMbytes int64 `json:"max_size_mbytes"`
	Purge         bool  `json:"purge"`
}

// ConfigStorageCORS lists the allowed origins.
//
// Example:
//
//	{"origins":["*"]}
type ConfigStorageCORS struct {
	Origins []string `json:"origins"`
}

type ConfigRTMP struct {
	Enable     bool   `json:"enable"`
	EnableTLS  bool   `json:"enable_tls"`
	Address    string `json:"address"`
	AddressTLS string `json:"address_tls"`
	App        string `json:"app"`
}

type ConfigSRT struct {
	Enable  bool   `json:"enable"`
	Address string `json:"address"`
}

type ConfigFFmpeg struct {
	Binary       string              `json:"binary"`
	MaxProcesses int64               `json:"max_processes"`
	Access       *ConfigFFmpegAccess `json:"access"`
	Log          *ConfigFFmpegLog    `json:"log"`
}

type ConfigFFmpegAccess struct {
	Input  *ConfigFFmpegAccessRules `json:"input"`
	Output *ConfigFFmpegAccessRules `json:"output"`
}

// ConfigFFmpegAccessRules lists the address patterns FFmpeg may use.
type ConfigFFmpegAccessRules struct {
	Allow []string `json:"allow"`
	Block []string `json:"block"`
}

type ConfigFFmpegLog struct {
	MaxLines   int64 `json:"max_lines"`
	MaxHistory int64 `json:"max_history"`
}

type ConfigMetrics struct {
	Enable           bool  `json:"enable"`
	EnablePrometheus bool  `json:"enable_prometheus"`
	RangeSec         int64 `json:"range_sec"`
	IntervalSec      int64 `json:"interval_sec"`
}

func init() {
	str := schema.String
	strs := func() *schema.Type { return schema.List(schema.String()) }
	boolean := schema.Bool
	integer := schema.Int
	rules := func(name string) *schema.Record {
		return &schema.Record{Name: name, Fields: []schema.Field{
			schema.Opt("allow", strs()),
			schema.Opt("block", strs()),
		}}
	}
	registry.MustRegister(
		&schema.Record{Name: "Config", Fields: []schema.Field{
			schema.Opt("created_at", str()),
			schema.Opt("loaded_at", str()),
			schema.Opt("updated_at", str()),
			schema.Opt("config", schema.Ref("ConfigData")),
			schema.Opt("overrides", strs()),
		}},
		&schema.Record{Name: "ConfigData", Fields: []schema.Field{
			schema.Opt("version", integer()),
			schema.Opt("id", str()),
			schema.Opt("name", str()),
			schema.Opt("address", str()),
			schema.Opt("update_check", boolean()),
			schema.Opt("log", schema.Ref("ConfigLog")),
			schema.Opt("host", schema.Ref("ConfigHost")),
			schema.Opt("api", schema.Ref("ConfigAPI")),
			schema.Opt("tls", schema.Ref("ConfigTLS")),
			schema.Opt("storage", schema.Ref("ConfigStorage")),
			schema.Opt("rtmp", schema.Ref("ConfigRTMP")),
			schema.Opt("srt", schema.Ref("ConfigSRT")),
			schema.Opt("ffmpeg", schema.Ref("ConfigFFmpeg")),
			schema.Opt("metrics", schema.Ref("ConfigMetrics")),
		}},
		&schema.Record{Name: "ConfigLog", Fields: []schema.Field{
			schema.Opt("level", str()),
			schema.Opt("topics", strs()),
			schema.Opt("max_lines", integer()),
		}},
		&schema.Record{Name: "ConfigHost", Fields: []schema.Field{
			schema.Opt("name", strs()),
			schema.Opt("auto", boolean()),
		}},
		&schema.Record{Name: "ConfigAPI", Fields: []schema.Field{
			schema.Opt("read_only", boolean()),
			schema.Opt("access", schema.Ref("ConfigAPIAccess")),
			schema.Opt("auth", schema.Ref("ConfigAPIAuth")),
		}},
		&schema.Record{Name: "ConfigAPIAccess", Fields: []schema.Field{
			schema.Opt("http", schema.Ref("ConfigAPIAccessRules")),
			schema.Opt("https", schema.Ref("ConfigAPIAccessRules")),
		}},
		rules("ConfigAPIAccessRules"),
		&schema.Record{Name: "ConfigAPIAuth", Fields: []schema.Field{
			schema.Opt("enable", boolean()),
			schema.Opt("disable_localhost", boolean()),
			schema.Opt("username", str()),
		}},
		&schema.Record{Name: "ConfigTLS", Fields: []schema.Field{
			schema.Opt("address", str()),
			schema.Opt("enable", boolean()),
			schema.Opt("auto", boolean()),
			schema.Opt("email", str()),
			schema.Opt("cert_file", str()),
			schema.Opt("key_file", str()),
		}},
		&schema.Record{Name: "ConfigStorage", Fields: []schema.Field{
			schema.Opt("disk", schema.Ref("ConfigStorageDisk")),
			schema.Opt("memory", schema.Ref("ConfigStorageMemory")),
			schema.Opt("cors", schema.Ref("ConfigStorageCORS")),
			schema.Opt("mimetypes_file", str()),
		}},
		&schema.Record{Name: "ConfigStorageDisk", Fields: []schema.Field{
			schema.Opt("dir", str()),
			schema.Opt("max_size_mbytes", integer()),
			schema.Opt("cache", schema.Ref("ConfigStorageDiskCache")),
		}},
		&schema.Record{Name: "ConfigStorageDiskCache", Fields: []schema.Field{
			schema.Opt("enable", boolean()),
			schema.Opt("max_size_mbytes", integer()),
			schema.Opt("ttl_seconds", integer()),
			schema.Opt("max_file_size_mbytes", integer()),
			schema.Opt("types", schema.Ref("ConfigStorageDiskCacheTypes")),
		}},
		rules("ConfigStorageDiskCacheTypes"),
		&schema.Record{Name: "ConfigStorageMemory", Fields: []schema.Field{
			schema.Opt("max_size_mbytes", integer()),
			schema.Opt("purge", boolean()),
		}},
		&schema.Record{Name: "ConfigStorageCORS", Fields: []schema.Field{
			schema.Opt("origins", strs()),
		}},
		&schema.Record{Name: "ConfigRTMP", Fields: []schema.Field{
			schema.Opt("enable", boolean()),
			schema.Opt("enable_tls", boolean()),
			schema.Opt("address", str()),
			schema.Opt("address_tls", str()),
			schema.Opt("app", str()),
		}},
		&schema.Record{Name: "ConfigSRT", Fields: []schema.Field{
			schema.Opt("enable", boolean()),
			schema.Opt("address", str()),
		}},
		&schema.Record{Name: "ConfigFFmpeg", Fields: []schema.Field{
			schema.Opt("binary", str()),
			schema.Opt("max_processes", integer()),
			schema.Opt("access", schema.Ref("ConfigFFmpegAccess")),
			schema.Opt("log", schema.Ref("ConfigFFmpegLog")),
		}},
		&schema.Record{Name: "ConfigFFmpegAccess", Fields: []schema.Field{
			schema.Opt("input", schema.Ref("ConfigFFmpegAccessRules")),
			schema.Opt("output", schema.Ref("ConfigFFmpegAccessRules")),
		}},
		rules("ConfigFFmpegAccessRules"),
		&schema.Record{Name: "ConfigFFmpegLog", Fields: []schema.Field{
			schema.Opt("max_lines", integer()),
			schema.Opt("max_history", integer()),
		}},
		&schema.Record{Name: "ConfigMetrics", Fields: []schema.Field{
			schema.Opt("enable", boolean()),
			schema.Opt("enable_prometheus", boolean()),
			schema.Opt("range_sec", integer()),
			schema.Opt("interval_sec", integer()),
		}},
	)
}
