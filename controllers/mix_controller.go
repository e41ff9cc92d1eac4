package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mixroom/mixroom-backend/models"
	"github.com/mixroom/mixroom-backend/services"
)

type MixController struct {
	mixes *services.MixService
}

func NewMixController(mixes *services.MixService) *MixController {
	return &MixController{mixes: mixes}
}

type CreateMixJSON struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	Genre       string `json:"genre"`
	Visibility  string `json:"visibility"`
}

// CreateMix tạo mix mới cho user đang đăng nhập.
func (ctl *MixController) CreateMix(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var input CreateMixJSON
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	mix, err := ctl.mixes.CreateMix(services.CreateMixInput{
		Title:       input.Title,
		Description: input.Description,
		Genre:       input.Genre,
		Visibility:  models.Visibility(input.Visibility),
	}, userID)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "mix created successfully",
		"mix":     mix.ToDict(),
	})
}

// GetMix trả về mix kèm danh sách bài hát theo thứ tự track. Mix private
// chỉ chủ sở hữu xem được.
func (ctl *MixController) GetMix(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	mix, err := ctl.mixes.GetViewable(id, userID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	if mix == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "mix not found"})
		return
	}

	songs, err := ctl.mixes.SongsOrdered(id)
	if err != nil {
		abortWithError(c, err)
		return
	}
	mix.Songs = songs

	c.JSON(http.StatusOK, gin.H{"mix": mix.ToDictWithSongs()})
}

// MyMixes liệt kê mix của user đang đăng nhập, lọc thêm theo visibility nếu có.
func (ctl *MixController) MyMixes(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	visibility := models.Visibility(c.Query("visibility"))
	if visibility != "" && !visibility.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "visibility must be one of: private, class, public"})
		return
	}

	mixes, err := ctl.mixes.UserMixes(userID, visibility)
	if err != nil {
		abortWithError(c, err)
		return
	}

	result := make([]gin.H, 0, len(mixes))
	for i := range mixes {
		result = append(result, mixes[i].ToDict())
	}
	c.JSON(http.StatusOK, gin.H{"mixes": result, "count": len(result)})
}

// PublicMixes liệt kê mix công khai theo lượt nghe giảm dần.
func (ctl *MixController) PublicMixes(c *gin.Context) {
	limit := 0
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}

	mixes, err := ctl.mixes.PublicMixes(limit)
	if err != nil {
		abortWithError(c, err)
		return
	}

	result := make([]gin.H, 0, len(mixes))
	for i := range mixes {
		result = append(result, mixes[i].ToDict())
	}
	c.JSON(http.StatusOK, gin.H{"mixes": result, "count": len(result)})
}

type UpdateMixJSON struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Genre       *string `json:"genre"`
	Visibility  *string `json:"visibility"`
}

// UpdateMix sửa mix (chỉ chủ sở hữu).
func (ctl *MixController) UpdateMix(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var input UpdateMixJSON
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var visibility *models.Visibility
	if input.Visibility != nil {
		v := models.Visibility(*input.Visibility)
		visibility = &v
	}

	mix, err := ctl.mixes.UpdateMix(id, services.UpdateMixInput{
		Title:       input.Title,
		Description: input.Description,
		Genre:       input.Genre,
		Visibility:  visibility,
	}, userID)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "mix updated successfully",
		"mix":     mix.ToDict(),
	})
}

// UpdateCover thay ảnh bìa của mix.
func (ctl *MixController) UpdateCover(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("cover")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no file selected"})
		return
	}

	data, err := readFormFile(fileHeader)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read uploaded file"})
		return
	}

	mix, err := ctl.mixes.UpdateCover(id, data, fileHeader.Filename, fileHeader.Header.Get("Content-Type"), userID)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "cover updated successfully",
		"mix":     mix.ToDict(),
	})
}

// DeleteMix xoá mix cùng toàn bộ liên kết bài hát, like và lịch sử nghe.
func (ctl *MixController) DeleteMix(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := ctl.mixes.DeleteMix(id, userID); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "mix deleted successfully"})
}

type AddMixSongInput struct {
	SongID      string `json:"song_id" binding:"required"`
	TrackNumber *int   `json:"track_number"`
}

// AddSong thêm một bài hát vào mix.
func (ctl *MixController) AddSong(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	mixID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var input AddMixSongInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	songID, err := uuid.Parse(input.SongID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid song id"})
		return
	}

	if err := ctl.mixes.AddSongToMix(mixID, songID, input.TrackNumber, &userID); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "song added to mix"})
}

// RemoveSong gỡ một bài hát khỏi mix.
func (ctl *MixController) RemoveSong(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	mixID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	songID, ok := parseIDParam(c, "song_id")
	if !ok {
		return
	}

	if err := ctl.mixes.RemoveSongFromMix(mixID, songID, &userID); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "song removed from mix"})
}

type SetTrackNumberInput struct {
	TrackNumber *int `json:"track_number"`
}

// SetTrackNumber đặt lại số thứ tự track của một bài trong mix.
func (ctl *MixController) SetTrackNumber(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	mixID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	songID, ok := parseIDParam(c, "song_id")
	if !ok {
		return
	}

	var input SetTrackNumberInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := ctl.mixes.SetTrackNumber(mixID, songID, input.TrackNumber, &userID); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "track number updated"})
}

// Like ghi nhận một lượt thích mix.
func (ctl *MixController) Like(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	mixID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := ctl.mixes.LikeMix(mixID, userID); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "mix liked"})
}

// Unlike gỡ lượt thích mix.
func (ctl *MixController) Unlike(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	mixID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := ctl.mixes.UnlikeMix(mixID, userID); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "mix unliked"})
}

// RecordPlay ghi nhận một lượt nghe mix.
func (ctl *MixController) RecordPlay(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	mixID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var input RecordPlayInput
	_ = c.ShouldBindJSON(&input)

	if err := ctl.mixes.RecordPlay(mixID, userID, input.PlayDuration); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "play recorded"})
}
