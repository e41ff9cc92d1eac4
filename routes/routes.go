package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/mixroom/mixroom-backend/controllers"
	"github.com/mixroom/mixroom-backend/middleware"
	"github.com/mixroom/mixroom-backend/models"
	"github.com/mixroom/mixroom-backend/utils"
)

type Controllers struct {
	Auth     *controllers.AuthController
	User     *controllers.UserController
	Role     *controllers.RoleController
	Song     *controllers.SongController
	Mix      *controllers.MixController
	Playlist *controllers.PlaylistController
	Health   *controllers.HealthController
}

func SetupRouter(r *gin.Engine, db *gorm.DB, jwt *utils.JWTManager, ctl Controllers) *gin.Engine {
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})
	r.GET("/health", ctl.Health.Health)

	api := r.Group("/api")

	auth := api.Group("/auth")
	{
		auth.POST("/register", ctl.Auth.Register)
		auth.POST("/login", ctl.Auth.Login)
	}

	user := api.Group("/user")
	{
		user.Use(middleware.AuthMiddleware(jwt, db), middleware.DBMiddleware(db))

		user.GET("/me", ctl.Auth.Me)
		user.PUT("/me", ctl.User.UpdateMe)
		user.PUT("/me/password", ctl.Auth.ChangePassword)
		user.GET("/history", ctl.Song.History)

		user.GET("/teachers", ctl.User.ListTeachers)
		// Danh sách học sinh chỉ dành cho giáo viên
		user.GET("/students", middleware.RequireUserTypes(models.TypeTeacher), ctl.User.ListStudents)
		user.GET("/users/:id", ctl.User.GetUser)

		// Bài hát
		user.POST("/songs", ctl.Song.Upload)
		user.GET("/songs", ctl.Song.MySongs)
		user.GET("/songs/:id", ctl.Song.GetSong)
		user.PUT("/songs/:id", ctl.Song.UpdateSong)
		user.DELETE("/songs/:id", ctl.Song.DeleteSong)
		user.GET("/songs/:id/download", ctl.Song.Download)
		user.POST("/songs/:id/play", ctl.Song.RecordPlay)

		// Mix
		user.POST("/mixes", ctl.Mix.CreateMix)
		user.GET("/mixes", ctl.Mix.MyMixes)
		user.GET("/mixes/:id", ctl.Mix.GetMix)
		user.PUT("/mixes/:id", ctl.Mix.UpdateMix)
		user.PATCH("/mixes/:id/cover", ctl.Mix.UpdateCover)
		user.DELETE("/mixes/:id", ctl.Mix.DeleteMix)
		user.POST("/mixes/:id/songs", ctl.Mix.AddSong)
		user.DELETE("/mixes/:id/songs/:song_id", ctl.Mix.RemoveSong)
		user.PATCH("/mixes/:id/songs/:song_id", ctl.Mix.SetTrackNumber)
		user.POST("/mixes/:id/like", ctl.Mix.Like)
		user.DELETE("/mixes/:id/like", ctl.Mix.Unlike)
		user.POST("/mixes/:id/play", ctl.Mix.RecordPlay)

		// Playlist
		user.POST("/playlists", ctl.Playlist.CreatePlaylist)
		user.GET("/playlists", ctl.Playlist.MyPlaylists)
		user.GET("/playlists/:id", ctl.Playlist.GetPlaylist)
		user.PUT("/playlists/:id", ctl.Playlist.UpdatePlaylist)
		user.DELETE("/playlists/:id", ctl.Playlist.DeletePlaylist)
		user.POST("/playlists/:id/songs", ctl.Playlist.AddSong)
		user.DELETE("/playlists/:id/songs/:song_id", ctl.Playlist.RemoveSong)
		user.PUT("/playlists/:id/reorder", ctl.Playlist.Reorder)
	}

	// Công khai, không cần đăng nhập
	public := api.Group("/public")
	{
		public.Use(middleware.OptionalAuthMiddleware(jwt))
		public.GET("/mixes", ctl.Mix.PublicMixes)
		public.GET("/playlists", ctl.Playlist.PublicPlaylists)
	}

	admin := api.Group("/admin")
	{
		admin.Use(middleware.AuthMiddleware(jwt, db), middleware.DBMiddleware(db), middleware.RequireRole(db, "admin"))

		// Quản lý role
		admin.POST("/roles", ctl.Role.CreateRole)
		admin.GET("/roles", ctl.Role.ListRoles)
		admin.GET("/roles/:name/users", ctl.Role.UsersWithRole)
		admin.POST("/users/:id/roles", ctl.Role.AssignRole)
		admin.DELETE("/users/:id/roles", ctl.Role.RemoveRole)

		// Quản lý tài khoản
		admin.PATCH("/users/:id/activate", ctl.User.Activate)
		admin.PATCH("/users/:id/deactivate", ctl.User.Deactivate)
	}

	return r
}
