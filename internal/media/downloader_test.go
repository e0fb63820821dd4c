package media

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseVideoInfo(t *testing.T) {
	raw := []byte(`{
		"id": "dQw4w9WgXcQ",
		"title": "A talk about Go",
		"description": "Concurrency patterns in practice",
		"channel": "GopherCon",
		"duration": 1845.0,
		"ext": "m4a"
	}`)

	info, err := parseVideoInfo(raw)
	require.NoError(t, err)
	assert.Equal(t, "A talk about Go", info.Title)
	assert.Equal(t, "Concurrency patterns in practice", info.Description)
	assert.Equal(t, "GopherCon", info.Channel)
	assert.Equal(t, 1845.0, info.Duration)
}

func TestParseVideoInfo_MissingFields(t *testing.T) {
	// yt-dlp omits fields for some extractors; absent fields are zero values
	info, err := parseVideoInfo([]byte(`{"title": "Untitled"}`))
	require.NoError(t, err)
	assert.Equal(t, "Untitled", info.Title)
	assert.Empty(t, info.Description)
	assert.Zero(t, info.Duration)
}

func TestParseVideoInfo_Empty(t *testing.T) {
	_, err := parseVideoInfo(nil)
	assert.Error(t, err)

	_, err = parseVideoInfo([]byte("  \n "))
	assert.Error(t, err)
}

func TestParseVideoInfo_Malformed(t *testing.T) {
	_, err := parseVideoInfo([]byte(`{"title": `))
	assert.Error(t, err)
}
