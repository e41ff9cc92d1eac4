package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mixroom/mixroom-backend/apperrors"
	"github.com/mixroom/mixroom-backend/models"
)

func intPtr(v int) *int { return &v }

func TestCreateMixValidation(t *testing.T) {
	db := newTestDB(t)
	svc := NewMixService(db, nil, newTestLogger())
	user := createTestUser(t, db, "mixer@example.com")

	_, err := svc.CreateMix(CreateMixInput{Title: "  "}, user.ID)
	require.Error(t, err)
	assert.EqualError(t, err, "mix title is required")

	_, err = svc.CreateMix(CreateMixInput{Title: "ab"}, user.ID)
	require.Error(t, err)
	assert.EqualError(t, err, "mix title must be at least 3 characters long")

	_, err = svc.CreateMix(CreateMixInput{Title: "My Mix", Visibility: "everyone"}, user.ID)
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))

	// Độ dài title đếm theo ký tự, không phải byte
	_, err = svc.CreateMix(CreateMixInput{Title: "Ồ"}, user.ID)
	require.Error(t, err)
	assert.EqualError(t, err, "mix title must be at least 3 characters long")

	mix, err := svc.CreateMix(CreateMixInput{Title: "Nhạc"}, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Nhạc", mix.Title)

	mix, err = svc.CreateMix(CreateMixInput{Title: "  My Mix  "}, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "My Mix", mix.Title)
	assert.Equal(t, models.VisibilityPrivate, mix.Visibility)
}

func TestMixViewAccess(t *testing.T) {
	db := newTestDB(t)
	svc := NewMixService(db, nil, newTestLogger())
	owner := createTestUser(t, db, "view-owner@example.com")
	stranger := createTestUser(t, db, "view-stranger@example.com")

	private, err := svc.CreateMix(CreateMixInput{Title: "Secret Mix"}, owner.ID)
	require.NoError(t, err)

	// Chủ sở hữu xem được mix private của mình
	got, err := svc.GetViewable(private.ID, owner.ID)
	require.NoError(t, err)
	require.NotNil(t, got)

	// Người khác thì không
	_, err = svc.GetViewable(private.ID, stranger.ID)
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindAuthorization))

	// class và public thì user đăng nhập nào cũng xem được
	class, err := svc.CreateMix(CreateMixInput{Title: "Class Mix", Visibility: models.VisibilityClass}, owner.ID)
	require.NoError(t, err)
	got, err = svc.GetViewable(class.ID, stranger.ID)
	require.NoError(t, err)
	require.NotNil(t, got)

	public, err := svc.CreateMix(CreateMixInput{Title: "Public Mix", Visibility: models.VisibilityPublic}, owner.ID)
	require.NoError(t, err)
	got, err = svc.GetViewable(public.ID, stranger.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
}

func TestUpdateMixOwnership(t *testing.T) {
	db := newTestDB(t)
	svc := NewMixService(db, nil, newTestLogger())
	owner := createTestUser(t, db, "owner@example.com")
	other := createTestUser(t, db, "other@example.com")

	mix, err := svc.CreateMix(CreateMixInput{Title: "Mine"}, owner.ID)
	require.NoError(t, err)

	newTitle := "Stolen"
	_, err = svc.UpdateMix(mix.ID, UpdateMixInput{Title: &newTitle}, other.ID)
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindAuthorization))

	updated, err := svc.UpdateMix(mix.ID, UpdateMixInput{Title: &newTitle}, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, "Stolen", updated.Title)
}

func TestMixSongOrdering(t *testing.T) {
	db := newTestDB(t)
	svc := NewMixService(db, nil, newTestLogger())
	user := createTestUser(t, db, "order@example.com")

	mix, err := svc.CreateMix(CreateMixInput{Title: "Ordered"}, user.ID)
	require.NoError(t, err)

	alpha := createTestSong(t, db, user.ID, "Alpha")
	beta := createTestSong(t, db, user.ID, "Beta")
	gamma := createTestSong(t, db, user.ID, "Gamma")
	delta := createTestSong(t, db, user.ID, "Delta")

	// track 2, track 1, không track x2
	require.NoError(t, svc.AddSongToMix(mix.ID, alpha.ID, intPtr(2), &user.ID))
	require.NoError(t, svc.AddSongToMix(mix.ID, beta.ID, intPtr(1), &user.ID))
	require.NoError(t, svc.AddSongToMix(mix.ID, gamma.ID, nil, &user.ID))
	require.NoError(t, svc.AddSongToMix(mix.ID, delta.ID, nil, &user.ID))

	songs, err := svc.SongsOrdered(mix.ID)
	require.NoError(t, err)
	require.Len(t, songs, 4)

	// Track number tăng dần, null xếp cuối hoà theo title
	assert.Equal(t, "Beta", songs[0].Title)
	assert.Equal(t, "Alpha", songs[1].Title)
	assert.Equal(t, "Delta", songs[2].Title)
	assert.Equal(t, "Gamma", songs[3].Title)
}

func TestAddSongToMixDuplicate(t *testing.T) {
	db := newTestDB(t)
	svc := NewMixService(db, nil, newTestLogger())
	user := createTestUser(t, db, "dup-mix@example.com")

	mix, err := svc.CreateMix(CreateMixInput{Title: "Dup"}, user.ID)
	require.NoError(t, err)
	song := createTestSong(t, db, user.ID, "Track")

	require.NoError(t, svc.AddSongToMix(mix.ID, song.ID, nil, &user.ID))

	err = svc.AddSongToMix(mix.ID, song.ID, nil, &user.ID)
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindConflict))
	assert.EqualError(t, err, "song is already in this mix")
}

func TestRemoveSongFromMix(t *testing.T) {
	db := newTestDB(t)
	svc := NewMixService(db, nil, newTestLogger())
	user := createTestUser(t, db, "rm-mix@example.com")

	mix, err := svc.CreateMix(CreateMixInput{Title: "Rm"}, user.ID)
	require.NoError(t, err)
	song := createTestSong(t, db, user.ID, "Track")

	err = svc.RemoveSongFromMix(mix.ID, song.ID, &user.ID)
	require.Error(t, err)
	assert.EqualError(t, err, "song is not in this mix")

	require.NoError(t, svc.AddSongToMix(mix.ID, song.ID, nil, &user.ID))
	require.NoError(t, svc.RemoveSongFromMix(mix.ID, song.ID, &user.ID))

	songs, err := svc.SongsOrdered(mix.ID)
	require.NoError(t, err)
	assert.Empty(t, songs)
}

func TestSetTrackNumber(t *testing.T) {
	db := newTestDB(t)
	svc := NewMixService(db, nil, newTestLogger())
	user := createTestUser(t, db, "tn@example.com")

	mix, err := svc.CreateMix(CreateMixInput{Title: "TN"}, user.ID)
	require.NoError(t, err)
	song := createTestSong(t, db, user.ID, "Track")
	require.NoError(t, svc.AddSongToMix(mix.ID, song.ID, nil, &user.ID))

	require.NoError(t, svc.SetTrackNumber(mix.ID, song.ID, intPtr(7), &user.ID))
	tn, err := svc.TrackNumber(mix.ID, song.ID)
	require.NoError(t, err)
	require.NotNil(t, tn)
	assert.Equal(t, 7, *tn)

	// Xoá track number
	require.NoError(t, svc.SetTrackNumber(mix.ID, song.ID, nil, &user.ID))
	tn, err = svc.TrackNumber(mix.ID, song.ID)
	require.NoError(t, err)
	assert.Nil(t, tn)
}

func TestLikeUnlikeMix(t *testing.T) {
	db := newTestDB(t)
	svc := NewMixService(db, nil, newTestLogger())
	owner := createTestUser(t, db, "like-owner@example.com")
	fan := createTestUser(t, db, "fan@example.com")

	mix, err := svc.CreateMix(CreateMixInput{Title: "Liked"}, owner.ID)
	require.NoError(t, err)

	require.NoError(t, svc.LikeMix(mix.ID, fan.ID))

	err = svc.LikeMix(mix.ID, fan.ID)
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindConflict))

	got, err := svc.GetByID(mix.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.LikeCount)

	require.NoError(t, svc.UnlikeMix(mix.ID, fan.ID))

	err = svc.UnlikeMix(mix.ID, fan.ID)
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))

	got, err = svc.GetByID(mix.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.LikeCount)
}

func TestMixRecordPlay(t *testing.T) {
	db := newTestDB(t)
	svc := NewMixService(db, nil, newTestLogger())
	user := createTestUser(t, db, "play@example.com")

	mix, err := svc.CreateMix(CreateMixInput{Title: "Played"}, user.ID)
	require.NoError(t, err)

	require.NoError(t, svc.RecordPlay(mix.ID, user.ID, intPtr(120)))
	require.NoError(t, svc.RecordPlay(mix.ID, user.ID, nil))

	got, err := svc.GetByID(mix.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.PlayCount)

	var count int64
	db.Model(&models.PlayHistory{}).Where("mix_id = ?", mix.ID).Count(&count)
	assert.Equal(t, int64(2), count)
}

func TestDeleteMixCascade(t *testing.T) {
	db := newTestDB(t)
	svc := NewMixService(db, nil, newTestLogger())
	user := createTestUser(t, db, "del-mix@example.com")

	mix, err := svc.CreateMix(CreateMixInput{Title: "Doomed"}, user.ID)
	require.NoError(t, err)
	song := createTestSong(t, db, user.ID, "Track")

	require.NoError(t, svc.AddSongToMix(mix.ID, song.ID, nil, &user.ID))
	require.NoError(t, svc.LikeMix(mix.ID, user.ID))
	require.NoError(t, svc.RecordPlay(mix.ID, user.ID, nil))

	// Chỉ chủ sở hữu mới xoá được
	other := createTestUser(t, db, "del-other@example.com")
	err = svc.DeleteMix(mix.ID, other.ID)
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindAuthorization))

	require.NoError(t, svc.DeleteMix(mix.ID, user.ID))

	var count int64
	db.Model(&models.MixSong{}).Where("mix_id = ?", mix.ID).Count(&count)
	assert.Equal(t, int64(0), count)
	db.Model(&models.MixLike{}).Where("mix_id = ?", mix.ID).Count(&count)
	assert.Equal(t, int64(0), count)
	db.Model(&models.PlayHistory{}).Where("mix_id = ?", mix.ID).Count(&count)
	assert.Equal(t, int64(0), count)

	got, err := svc.GetByID(mix.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	// Bài hát vẫn còn
	var songCount int64
	db.Model(&models.Song{}).Where("id = ?", song.ID).Count(&songCount)
	assert.Equal(t, int64(1), songCount)
}
