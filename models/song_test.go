package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "0:00", FormatDuration(0))
	assert.Equal(t, "0:00", FormatDuration(-5))
	assert.Equal(t, "0:59", FormatDuration(59))
	assert.Equal(t, "1:00", FormatDuration(60))
	assert.Equal(t, "3:05", FormatDuration(185))
	assert.Equal(t, "61:01", FormatDuration(3661))
}

func TestFileSizeMB(t *testing.T) {
	s := Song{FileSize: 0}
	assert.Equal(t, 0.0, s.FileSizeMB())

	s.FileSize = 5 * 1024 * 1024
	assert.Equal(t, 5.0, s.FileSizeMB())

	s.FileSize = 1536 * 1024
	assert.Equal(t, 1.5, s.FileSizeMB())
}

func TestPlaylistToDict(t *testing.T) {
	p := Playlist{
		Name:     "Chill",
		IsPublic: true,
		Songs:    []Song{{Title: "One"}, {Title: "Two"}},
	}

	dict := p.ToDict()
	assert.Equal(t, "Chill", dict["name"])
	assert.Equal(t, 2, dict["song_count"])
	_, hasSongs := dict["songs"]
	assert.False(t, hasSongs)

	withSongs := p.ToDictWithSongs()
	songs, ok := withSongs["songs"].([]map[string]interface{})
	assert.True(t, ok)
	assert.Len(t, songs, 2)
}

func TestMixTotalDuration(t *testing.T) {
	m := Mix{}
	assert.Equal(t, "0:00", m.TotalDuration())
	assert.Equal(t, 0, m.SongCount())

	m.Songs = []Song{
		{DurationSeconds: 90},
		{DurationSeconds: 45},
	}
	assert.Equal(t, "2:15", m.TotalDuration())
	assert.Equal(t, 2, m.SongCount())
}
