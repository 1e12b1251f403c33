package mysql

import (
	"commune/internal/model"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

var DB *gorm.DB

func InitDB(dsn string) error {
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		return err
	}
	DB = db
	return nil
}

func AutoMigrate() error {
	return DB.AutoMigrate(
		&model.User{},
		&model.Community{},
		&model.CommunityFollower{},
		&model.Post{},
		&model.Comment{},
		&model.FollowerOutbox{},
	)
}
