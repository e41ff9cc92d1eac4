package services

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mixroom/mixroom-backend/apperrors"
	"github.com/mixroom/mixroom-backend/models"
	"github.com/mixroom/mixroom-backend/storage"
)

func newTestSongService(t *testing.T) (*SongService, *storage.LocalStore, string) {
	t.Helper()

	dir := t.TempDir()
	store, err := storage.NewLocalStore(dir)
	require.NoError(t, err)

	db := newTestDB(t)
	return NewSongService(db, store, newTestLogger(), 1024*1024), store, dir
}

func countFiles(t *testing.T, dir string) int {
	t.Helper()

	n := 0
	err := filepath.Walk(dir, func(_ string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			n++
		}
		return nil
	})
	require.NoError(t, err)
	return n
}

func TestUploadSong(t *testing.T) {
	svc, store, dir := newTestSongService(t)
	user := createTestUser(t, svc.db, "up@example.com")

	song, err := svc.Upload(UploadSongInput{
		FileName:        "My Track.mp3",
		Data:            []byte("fake audio bytes"),
		ContentType:     "audio/mpeg",
		Artist:          "Someone",
		DurationSeconds: 95,
	}, user.ID)
	require.NoError(t, err)

	// Title mặc định lấy từ tên file
	assert.Equal(t, "My Track", song.Title)
	assert.Equal(t, "mp3", song.FileFormat)
	assert.Equal(t, int64(len("fake audio bytes")), song.FileSize)
	assert.Equal(t, "1:35", song.Duration())

	data, err := store.Read(song.FileRef)
	require.NoError(t, err)
	assert.Equal(t, []byte("fake audio bytes"), data)
	assert.Equal(t, 1, countFiles(t, dir))
}

func TestUploadSongValidation(t *testing.T) {
	svc, _, dir := newTestSongService(t)
	user := createTestUser(t, svc.db, "up-bad@example.com")

	_, err := svc.Upload(UploadSongInput{}, user.ID)
	require.Error(t, err)
	assert.EqualError(t, err, "no file selected")

	_, err = svc.Upload(UploadSongInput{
		FileName: "virus.exe",
		Data:     []byte("nope"),
	}, user.ID)
	require.Error(t, err)
	assert.EqualError(t, err, "file type not allowed. Allowed types: mp3, wav, ogg, m4a, flac")

	big := make([]byte, 2*1024*1024)
	_, err = svc.Upload(UploadSongInput{FileName: "big.mp3", Data: big}, user.ID)
	require.Error(t, err)
	assert.EqualError(t, err, "file size too large. Maximum size: 1MB")

	// Không có upload nào thành công: storage phải rỗng
	assert.Equal(t, 0, countFiles(t, dir))
	var count int64
	svc.db.Model(&models.Song{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestUpdateSongOwnership(t *testing.T) {
	svc, _, _ := newTestSongService(t)
	owner := createTestUser(t, svc.db, "song-owner@example.com")
	other := createTestUser(t, svc.db, "song-other@example.com")

	song, err := svc.Upload(UploadSongInput{
		FileName: "track.mp3", Data: []byte("x"),
	}, owner.ID)
	require.NoError(t, err)

	newTitle := "Renamed"
	_, err = svc.UpdateSong(song.ID, UpdateSongInput{Title: &newTitle}, other.ID)
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindAuthorization))

	updated, err := svc.UpdateSong(song.ID, UpdateSongInput{Title: &newTitle}, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Title)
}

func TestDeleteSongCleansUp(t *testing.T) {
	svc, _, dir := newTestSongService(t)
	user := createTestUser(t, svc.db, "song-del@example.com")

	song, err := svc.Upload(UploadSongInput{
		FileName: "doomed.mp3", Data: []byte("x"),
	}, user.ID)
	require.NoError(t, err)

	// Bài nằm trong một mix và một playlist
	mixes := NewMixService(svc.db, nil, newTestLogger())
	mix, err := mixes.CreateMix(CreateMixInput{Title: "Holder"}, user.ID)
	require.NoError(t, err)
	require.NoError(t, mixes.AddSongToMix(mix.ID, song.ID, nil, &user.ID))

	playlists := NewPlaylistService(svc.db, newTestLogger())
	playlist, err := playlists.Create(CreatePlaylistInput{Name: "Holder"}, user.ID)
	require.NoError(t, err)
	require.NoError(t, playlists.AddSong(playlist.ID, song.ID, user.ID))

	require.NoError(t, svc.RecordPlay(song.ID, user.ID, nil))

	require.NoError(t, svc.DeleteSong(song.ID, user.ID))

	var count int64
	svc.db.Model(&models.MixSong{}).Where("song_id = ?", song.ID).Count(&count)
	assert.Equal(t, int64(0), count)
	svc.db.Model(&models.PlaylistSong{}).Where("song_id = ?", song.ID).Count(&count)
	assert.Equal(t, int64(0), count)
	svc.db.Model(&models.PlayHistory{}).Where("song_id = ?", song.ID).Count(&count)
	assert.Equal(t, int64(0), count)

	got, err := svc.GetByID(song.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.Equal(t, 0, countFiles(t, dir))
}

func TestSongRecordPlayAndHistory(t *testing.T) {
	svc, _, _ := newTestSongService(t)
	user := createTestUser(t, svc.db, "song-play@example.com")

	song, err := svc.Upload(UploadSongInput{
		FileName: "hit.mp3", Data: []byte("x"),
	}, user.ID)
	require.NoError(t, err)

	require.NoError(t, svc.RecordPlay(song.ID, user.ID, intPtr(30)))
	require.NoError(t, svc.RecordPlay(song.ID, user.ID, nil))

	got, err := svc.GetByID(song.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.PlayCount)

	history, err := svc.UserHistory(user.ID, 10)
	require.NoError(t, err)
	assert.Len(t, history, 2)
}

func TestDownloadSong(t *testing.T) {
	svc, _, _ := newTestSongService(t)
	user := createTestUser(t, svc.db, "song-dl@example.com")

	song, err := svc.Upload(UploadSongInput{
		FileName: "dl.mp3", Data: []byte("payload"),
	}, user.ID)
	require.NoError(t, err)

	got, data, err := svc.Download(song.ID)
	require.NoError(t, err)
	assert.Equal(t, song.ID, got.ID)
	assert.Equal(t, []byte("payload"), data)
}
