package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/mixroom/mixroom-backend/models"
)

// Config gom toàn bộ cấu hình, khởi tạo ở main và truyền xuống.
type Config struct {
	Server  ServerConfig
	DB      DBConfig
	JWT     JWTConfig
	Upload  UploadConfig
	Storage StorageConfig
}

type ServerConfig struct {
	Port        string
	CORSOrigins []string
}

type DBConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	TimeZone string
}

func (d DBConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=%s",
		d.Host, d.User, d.Password, d.Name, d.Port, d.TimeZone,
	)
}

type JWTConfig struct {
	Secret string
	TTL    time.Duration
}

type UploadConfig struct {
	MaxFileSize int64 // bytes
}

type StorageConfig struct {
	Backend     string // "local" | "supabase"
	LocalDir    string
	SupabaseURL string
	SupabaseKey string
	Bucket      string
}

// Load đọc cấu hình từ biến môi trường (main load .env trước bằng godotenv).
func Load() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("PORT", "8080")
	v.SetDefault("CORS_ORIGINS", "http://localhost:5173")
	v.SetDefault("DB_HOST", "127.0.0.1")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_TIMEZONE", "Asia/Ho_Chi_Minh")
	v.SetDefault("JWT_TTL_HOURS", 72)
	v.SetDefault("MAX_FILE_SIZE_MB", 50)
	v.SetDefault("STORAGE_BACKEND", "local")
	v.SetDefault("UPLOAD_DIR", "./uploads")
	v.SetDefault("STORAGE_BUCKET", "uploads")

	if v.GetString("JWT_SECRET") == "" {
		return nil, fmt.Errorf("JWT_SECRET chưa được cấu hình")
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:        v.GetString("PORT"),
			CORSOrigins: strings.Split(v.GetString("CORS_ORIGINS"), ","),
		},
		DB: DBConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			Name:     v.GetString("DB_NAME"),
			TimeZone: v.GetString("DB_TIMEZONE"),
		},
		JWT: JWTConfig{
			Secret: v.GetString("JWT_SECRET"),
			TTL:    time.Duration(v.GetInt("JWT_TTL_HOURS")) * time.Hour,
		},
		Upload: UploadConfig{
			MaxFileSize: v.GetInt64("MAX_FILE_SIZE_MB") * 1024 * 1024,
		},
		Storage: StorageConfig{
			Backend:     v.GetString("STORAGE_BACKEND"),
			LocalDir:    v.GetString("UPLOAD_DIR"),
			SupabaseURL: v.GetString("SUPABASE_URL"),
			SupabaseKey: v.GetString("SUPABASE_KEY"),
			Bucket:      v.GetString("STORAGE_BUCKET"),
		},
	}

	return cfg, nil
}

// ConnectDB mở kết nối PostgreSQL, config pooling và migrate schema.
func ConnectDB(cfg *Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DB.DSN()), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("không thể kết nối database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("không thể lấy sql.DB từ gorm: %w", err)
	}

	// Connection pooling
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	if err := Migrate(db); err != nil {
		return nil, err
	}

	return db, nil
}

// Migrate chạy AutoMigrate cho toàn bộ models.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.TeacherProfile{},
		&models.StudentProfile{},
		&models.Role{},
		&models.UserRole{},
		&models.Song{},
		&models.Mix{},
		&models.MixSong{},
		&models.MixLike{},
		&models.PlayHistory{},
		&models.Playlist{},
		&models.PlaylistSong{},
		&models.Logbook{},
	)
	if err != nil {
		return fmt.Errorf("autoMigrate lỗi: %w", err)
	}
	return nil
}
