package codec

import (
	"encoding/json"
)

// JSON is the standard-library JSON codec.
//
// Saved paginator state is plain structs and slices of the host's element
// type, which JSON covers as long as the element type itself marshals.
// Time, funcs, channels and the like are not supported.
//
// If you need custom encoding (e.g. protobuf/msgpack), implement Codec and
// pass it to the state store.
type JSON struct{}

// Marshal encodes the value to JSON.
func (JSON) Marshal(v any) ([]byte, error) { return json.Marshal(v) }

// Unmarshal decodes the JSON data into v.
func (JSON) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }

// Name returns the unique name of the codec ("json").
func (JSON) Name() string { return "json" }

// Default is the codec used when none is configured.
//
// This affects newly-written state files only. Existing files are
// self-describing and are opened by the codec named in their header.
var Default Codec = GoJSON{}
