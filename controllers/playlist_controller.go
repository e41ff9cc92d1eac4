package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mixroom/mixroom-backend/services"
)

type PlaylistController struct {
	playlists *services.PlaylistService
}

func NewPlaylistController(playlists *services.PlaylistService) *PlaylistController {
	return &PlaylistController{playlists: playlists}
}

type CreatePlaylistJSON struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	IsPublic    bool   `json:"is_public"`
}

// CreatePlaylist tạo playlist mới.
func (ctl *PlaylistController) CreatePlaylist(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var input CreatePlaylistJSON
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	playlist, err := ctl.playlists.Create(services.CreatePlaylistInput{
		Name:        input.Name,
		Description: input.Description,
		IsPublic:    input.IsPublic,
	}, userID)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":  "playlist created successfully",
		"playlist": playlist.ToDict(),
	})
}

// GetPlaylist trả về playlist kèm bài hát theo thứ tự position. Playlist
// không công khai của người khác trả 404.
func (ctl *PlaylistController) GetPlaylist(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	playlist, err := ctl.playlists.GetViewable(id, userID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	if playlist == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "playlist not found"})
		return
	}

	songs, err := ctl.playlists.SongsOrdered(id)
	if err != nil {
		abortWithError(c, err)
		return
	}
	playlist.Songs = songs

	c.JSON(http.StatusOK, gin.H{"playlist": playlist.ToDictWithSongs()})
}

// MyPlaylists liệt kê playlist của user đang đăng nhập.
func (ctl *PlaylistController) MyPlaylists(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	playlists, err := ctl.playlists.UserPlaylists(userID)
	if err != nil {
		abortWithError(c, err)
		return
	}

	result := make([]gin.H, 0, len(playlists))
	for i := range playlists {
		result = append(result, playlists[i].ToDict())
	}
	c.JSON(http.StatusOK, gin.H{"playlists": result, "count": len(result)})
}

// PublicPlaylists liệt kê playlist công khai.
func (ctl *PlaylistController) PublicPlaylists(c *gin.Context) {
	playlists, err := ctl.playlists.PublicPlaylists()
	if err != nil {
		abortWithError(c, err)
		return
	}

	result := make([]gin.H, 0, len(playlists))
	for i := range playlists {
		result = append(result, playlists[i].ToDict())
	}
	c.JSON(http.StatusOK, gin.H{"playlists": result, "count": len(result)})
}

type UpdatePlaylistJSON struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	IsPublic    *bool   `json:"is_public"`
}

// UpdatePlaylist sửa playlist (chỉ chủ sở hữu).
func (ctl *PlaylistController) UpdatePlaylist(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var input UpdatePlaylistJSON
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	playlist, err := ctl.playlists.Update(id, services.UpdatePlaylistInput{
		Name:        input.Name,
		Description: input.Description,
		IsPublic:    input.IsPublic,
	}, userID)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "playlist updated successfully",
		"playlist": playlist.ToDict(),
	})
}

// DeletePlaylist xoá playlist và toàn bộ liên kết bài hát.
func (ctl *PlaylistController) DeletePlaylist(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := ctl.playlists.Delete(id, userID); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "playlist deleted successfully"})
}

type AddPlaylistSongInput struct {
	SongID string `json:"song_id" binding:"required"`
}

// AddSong thêm bài hát vào cuối playlist.
func (ctl *PlaylistController) AddSong(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	playlistID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var input AddPlaylistSongInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	songID, err := uuid.Parse(input.SongID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid song id"})
		return
	}

	if err := ctl.playlists.AddSong(playlistID, songID, userID); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "song added to playlist"})
}

// RemoveSong gỡ bài hát khỏi playlist.
func (ctl *PlaylistController) RemoveSong(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	playlistID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	songID, ok := parseIDParam(c, "song_id")
	if !ok {
		return
	}

	if err := ctl.playlists.RemoveSong(playlistID, songID, userID); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "song removed from playlist"})
}

type ReorderInput struct {
	SongIDs []string `json:"song_ids" binding:"required"`
}

// Reorder sắp xếp lại vị trí bài hát theo danh sách id gửi lên.
func (ctl *PlaylistController) Reorder(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	playlistID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var input ReorderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	songIDs := make([]uuid.UUID, 0, len(input.SongIDs))
	for _, raw := range input.SongIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid song id"})
			return
		}
		songIDs = append(songIDs, id)
	}

	if err := ctl.playlists.Reorder(playlistID, songIDs, userID); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "playlist reordered"})
}
