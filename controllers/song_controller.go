package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mixroom/mixroom-backend/services"
)

type SongController struct {
	songs *services.SongService
}

func NewSongController(songs *services.SongService) *SongController {
	return &SongController{songs: songs}
}

// Upload nhận file multipart và lưu bài hát mới.
func (ctl *SongController) Upload(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no file selected"})
		return
	}

	data, err := readFormFile(fileHeader)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read uploaded file"})
		return
	}

	duration, _ := strconv.Atoi(c.PostForm("duration_seconds"))
	bitrate, _ := strconv.Atoi(c.PostForm("bitrate"))
	sampleRate, _ := strconv.Atoi(c.PostForm("sample_rate"))
	explicit, _ := strconv.ParseBool(c.PostForm("explicit"))

	song, err := ctl.songs.Upload(services.UploadSongInput{
		FileName:        fileHeader.Filename,
		Data:            data,
		ContentType:     fileHeader.Header.Get("Content-Type"),
		Title:           c.PostForm("title"),
		Artist:          c.PostForm("artist"),
		Genre:           c.PostForm("genre"),
		Explicit:        explicit,
		DurationSeconds: duration,
		Bitrate:         bitrate,
		SampleRate:      sampleRate,
	}, userID)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "song uploaded successfully",
		"song":    song.ToDict(),
	})
}

// MySongs liệt kê bài hát của user đang đăng nhập.
func (ctl *SongController) MySongs(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	songs, err := ctl.songs.UserSongs(userID)
	if err != nil {
		abortWithError(c, err)
		return
	}

	result := make([]gin.H, 0, len(songs))
	for i := range songs {
		result = append(result, songs[i].ToDict())
	}
	c.JSON(http.StatusOK, gin.H{"songs": result, "count": len(result)})
}

// GetSong lấy thông tin một bài hát.
func (ctl *SongController) GetSong(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	song, err := ctl.songs.GetByID(id)
	if err != nil {
		abortWithError(c, err)
		return
	}
	if song == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "song not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"song": song.ToDict()})
}

type UpdateSongJSON struct {
	Title    *string `json:"title"`
	Artist   *string `json:"artist"`
	Genre    *string `json:"genre"`
	Explicit *bool   `json:"explicit"`
}

// UpdateSong sửa metadata bài hát (chỉ chủ sở hữu).
func (ctl *SongController) UpdateSong(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var input UpdateSongJSON
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	song, err := ctl.songs.UpdateSong(id, services.UpdateSongInput{
		Title:    input.Title,
		Artist:   input.Artist,
		Genre:    input.Genre,
		Explicit: input.Explicit,
	}, userID)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "song updated successfully",
		"song":    song.ToDict(),
	})
}

// DeleteSong xoá bài hát và file kèm theo (chỉ chủ sở hữu).
func (ctl *SongController) DeleteSong(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := ctl.songs.DeleteSong(id, userID); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "song deleted successfully"})
}

// Download trả về nội dung file audio.
func (ctl *SongController) Download(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	song, data, err := ctl.songs.Download(id)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename=\""+song.FileName+"\"")
	c.Data(http.StatusOK, "audio/"+song.FileFormat, data)
}

type RecordPlayInput struct {
	PlayDuration *int `json:"play_duration"`
}

// RecordPlay ghi nhận một lượt nghe bài hát.
func (ctl *SongController) RecordPlay(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var input RecordPlayInput
	// body không bắt buộc
	_ = c.ShouldBindJSON(&input)

	if err := ctl.songs.RecordPlay(id, userID, input.PlayDuration); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "play recorded"})
}

// History trả về lịch sử nghe gần đây của user.
func (ctl *SongController) History(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	limit := 50
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}

	history, err := ctl.songs.UserHistory(userID, limit)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"history": history, "count": len(history)})
}
