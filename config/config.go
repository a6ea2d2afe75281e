package config

import (
	"os"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// InitDB membuka koneksi database. MySQL dipakai kalau DB_DSN di-set,
// selain itu jatuh ke SQLite (DB_PATH, default seating.db) supaya
// development dan test tidak butuh server database.
func InitDB() (*gorm.DB, error) {
	if dsn := os.Getenv("DB_DSN"); dsn != "" {
		return gorm.Open(mysql.Open(dsn), &gorm.Config{})
	}

	path := os.Getenv("DB_PATH")
	if path == "" {
		path = "seating.db"
	}
	return gorm.Open(sqlite.Open(path), &gorm.Config{})
}
