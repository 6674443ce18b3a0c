package db

import (
	"log"

	"github.com/Be1newinner/ship-chatbot/internal/activity"
	"github.com/Be1newinner/ship-chatbot/internal/chat"
	"github.com/Be1newinner/ship-chatbot/internal/models"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// Connect opens the database and migrates the schema. TranslateError is
// enabled so unique-index violations surface as gorm.ErrDuplicatedKey.
func Connect(dsn string) *gorm.DB {
	gdb, err := gorm.Open(mysql.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}

	if err := gdb.AutoMigrate(
		&models.User{},
		&chat.Session{},
		&chat.Turn{},
		&activity.Event{},
	); err != nil {
		log.Fatalf("db migrate: %v", err)
	}

	return gdb
}
