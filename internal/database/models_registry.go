package database

import "blogapi/internal/models"

// PersistentModels returns the authoritative set of schema-managed GORM models.
// Users come first so that posts and comments can reference them.
func PersistentModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Tag{},
		&models.Post{},
		&models.Comment{},
	}
}
