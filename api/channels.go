package api

import (
	"time"

	"github.com/maruel/corectl/schema"
)

// RtmpChannel is a stream published on the RTMP server.
type RtmpChannel struct {
	Name string `json:"name"`
}

// RtmpChannelList is the response for GET /api/v3/rtmp.
type RtmpChannelList struct {
	Data []RtmpChannel `json:"data"`
}

// FileInfo is an entry of a filesystem listing.
type FileInfo struct {
	Name         string `json:"name"`
	SizeBytes    int64  `json:"size_bytes"`
	LastModified int64  `json:"last_modified"` // unix seconds
}

// ModTime returns LastModified as a time.
func (f *FileInfo) ModTime() time.Time { return time.Unix(f.LastModified, 0) }

// FileList is the response for GET /api/v3/fs/{name}.
type FileList struct {
	Data []FileInfo `json:"data"`
}

func init() {
	registry.MustRegister(
		&schema.Record{Name: "RtmpChannel", Fields: []schema.Field{
			schema.Required("name", schema.String()),
		}},
		schema.Collection("RtmpChannelList", "RtmpChannel"),
		&schema.Record{Name: "FileInfo", Fields: []schema.Field{
			schema.Required("name", schema.String()),
			schema.Opt("size_bytes", schema.Int()),
			schema.Opt("last_modified", schema.Int()),
		}},
		schema.Collection("FileList", "FileInfo"),
	)
}
