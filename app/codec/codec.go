// Package codec encodes API payloads. JSON is the default format; clients
// may ask for MessagePack through the Accept header.
package codec

import (
	"encoding/json"
	"mime"
	"strings"

	"github.com/vmihailenco/msgpack/v5"
)

const (
	ContentTypeJSON    = "application/json"
	ContentTypeMsgPack = "application/msgpack"
)

// Codec marshals values to and from one wire format.
type Codec interface {
	ContentType() string
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
}

type jsonCodec struct{}

func (jsonCodec) ContentType() string                { return ContentTypeJSON }
func (jsonCodec) Marshal(v any) ([]byte, error)      { return json.Marshal(v) }
func (jsonCodec) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }

type msgpackCodec struct{}

func (msgpackCodec) ContentType() string                { return ContentTypeMsgPack }
func (msgpackCodec) Marshal(v any) ([]byte, error)      { return msgpack.Marshal(v) }
func (msgpackCodec) Unmarshal(data []byte, v any) error { return msgpack.Unmarshal(data, v) }

var (
	JSON    Codec = jsonCodec{}
	MsgPack Codec = msgpackCodec{}
)

// ByName returns the codec called name ("json" or "msgpack").
func ByName(name string) (Codec, bool) {
	switch strings.ToLower(name) {
	case "json", "":
		return JSON, true
	case "msgpack":
		return MsgPack, true
	}
	return nil, false
}

// ForContentType returns the codec for a Content-Type header value.
func ForContentType(contentType string) (Codec, bool) {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return nil, false
	}
	switch mediaType {
	case ContentTypeJSON:
		return JSON, true
	case ContentTypeMsgPack, "application/x-msgpack", "application/vnd.msgpack":
		return MsgPack, true
	}
	return nil, false
}

// Negotiate picks the codec for an Accept header. The first listed media
// type that has a codec wins; anything else falls back to JSON.
func Negotiate(accept string) Codec {
	for _, part := range strings.Split(accept, ",") {
		if c, ok := ForContentType(strings.TrimSpace(part)); ok {
			return c
		}
	}
	return JSON
}
