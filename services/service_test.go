package services

import (
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/mixroom/mixroom-backend/config"
	"github.com/mixroom/mixroom-backend/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// In-memory sqlite sống theo connection
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, config.Migrate(db))
	return db
}

func newTestLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func createTestUser(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	svc := NewUserService(db, newTestLogger())
	user, err := svc.CreateUser(CreateUserInput{
		Email:     email,
		Password:  "secret-password",
		FirstName: "Test",
		LastName:  "User",
	}, models.TypeBase)
	require.NoError(t, err)
	return user
}

func createTestSong(t *testing.T, db *gorm.DB, userID uuid.UUID, title string) *models.Song {
	t.Helper()

	song := &models.Song{
		Title:        title,
		FileRef:      "audio/" + uuid.NewString() + ".mp3",
		FileName:     title + ".mp3",
		FileFormat:   "mp3",
		UploadedByID: userID,
	}
	require.NoError(t, db.Create(song).Error)
	return song
}
