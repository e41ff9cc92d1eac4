package main

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/mixroom/mixroom-backend/config"
	"github.com/mixroom/mixroom-backend/controllers"
	"github.com/mixroom/mixroom-backend/middleware"
	"github.com/mixroom/mixroom-backend/routes"
	"github.com/mixroom/mixroom-backend/services"
	"github.com/mixroom/mixroom-backend/storage"
	"github.com/mixroom/mixroom-backend/utils"
)

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})

	// Load .env
	if err := godotenv.Load(); err != nil {
		log.Info("Không tìm thấy file .env")
	}

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("failed to load config")
	}

	db, err := config.ConnectDB(cfg)
	if err != nil {
		log.WithError(err).Fatal("failed to connect database")
	}

	// Chọn backend lưu trữ file
	var blob storage.BlobStore
	switch cfg.Storage.Backend {
	case "supabase":
		blob = storage.NewSupabaseStore(cfg.Storage.SupabaseURL, cfg.Storage.SupabaseKey, cfg.Storage.Bucket)
	default:
		blob, err = storage.NewLocalStore(cfg.Storage.LocalDir)
		if err != nil {
			log.WithError(err).Fatal("failed to init local storage")
		}
	}

	jwtManager := utils.NewJWTManager(cfg.JWT.Secret, cfg.JWT.TTL)

	userService := services.NewUserService(db, log)
	roleService := services.NewRoleService(db, log)
	songService := services.NewSongService(db, blob, log, cfg.Upload.MaxFileSize)
	mixService := services.NewMixService(db, blob, log)
	playlistService := services.NewPlaylistService(db, log)

	if err := roleService.SeedDefaultRoles(); err != nil {
		log.WithError(err).Fatal("failed to seed roles")
	}

	r := gin.Default()
	r.Use(middleware.LoggerMiddleware(log))

	// Bật CORS
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	r = routes.SetupRouter(r, db, jwtManager, routes.Controllers{
		Auth:     controllers.NewAuthController(userService, jwtManager),
		User:     controllers.NewUserController(userService),
		Role:     controllers.NewRoleController(roleService),
		Song:     controllers.NewSongController(songService),
		Mix:      controllers.NewMixController(mixService),
		Playlist: controllers.NewPlaylistController(playlistService),
		Health:   controllers.NewHealthController(db),
	})

	// Phục vụ file đã upload khi dùng local storage
	if cfg.Storage.Backend != "supabase" {
		r.Static("/files", cfg.Storage.LocalDir)
	}

	log.Info("Server running at Port:" + cfg.Server.Port)
	if err := r.Run(":" + cfg.Server.Port); err != nil {
		log.WithError(err).Fatal("server stopped")
	}
}
