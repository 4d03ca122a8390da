package codec

import (
	"testing"

	"blogdemo/app/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNegotiate(t *testing.T) {
	tests := []struct {
		accept string
		want   Codec
	}{
		{accept: "", want: JSON},
		{accept: "*/*", want: JSON},
		{accept: "application/json", want: JSON},
		{accept: "application/msgpack", want: MsgPack},
		{accept: "application/x-msgpack;q=0.9", want: MsgPack},
		{accept: "text/html, application/msgpack", want: MsgPack},
		{accept: "application/json, application/msgpack", want: JSON},
	}

	for _, tt := range tests {
		t.Run(tt.accept, func(t *testing.T) {
			assert.Equal(t, tt.want.ContentType(), Negotiate(tt.accept).ContentType())
		})
	}
}

func TestByName(t *testing.T) {
	c, ok := ByName("msgpack")
	assert.True(t, ok)
	assert.Equal(t, ContentTypeMsgPack, c.ContentType())

	c, ok = ByName("JSON")
	assert.True(t, ok)
	assert.Equal(t, ContentTypeJSON, c.ContentType())

	_, ok = ByName("xml")
	assert.False(t, ok)
}

func TestForContentType(t *testing.T) {
	c, ok := ForContentType("application/json; charset=utf-8")
	assert.True(t, ok)
	assert.Equal(t, JSON, c)

	_, ok = ForContentType("text/plain")
	assert.False(t, ok)
}

func TestJSONWireShape(t *testing.T) {
	data, err := JSON.Marshal(models.Post{ID: 1, Title: "My second post", Content: "This is my second post"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":1,"title":"My second post","content":"This is my second post"}`, string(data))

	var post *models.Post
	require.NoError(t, JSON.Unmarshal([]byte("null"), &post))
	assert.Nil(t, post)
}

func TestMsgPackRoundTrip(t *testing.T) {
	in := []models.PostMetadata{{ID: 0, Title: "My first post"}, {ID: 2, Title: "My third post"}}
	data, err := MsgPack.Marshal(in)
	require.NoError(t, err)

	var out []models.PostMetadata
	require.NoError(t, MsgPack.Unmarshal(data, &out))
	assert.Equal(t, in, out)

	var comment *models.Comment
	nilData, err := MsgPack.Marshal(comment)
	require.NoError(t, err)
	require.NoError(t, MsgPack.Unmarshal(nilData, &comment))
	assert.Nil(t, comment)
}
