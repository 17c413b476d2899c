// Package database provides the data access layer for the catalog.
//
// database.go owns the connection setup and migrations; domain operations
// live in sub-packages, each exposing a Repository over the shared *gorm.DB:
//
//	database/
//	├── database.go      # Connection setup, migrations
//	└── books/           # Book CRUD operations + change-event publishing
//
// Usage:
//
//	db, err := database.NewDatabase("/tmp/database.sqlite")
//	repo := books.NewRepository(db.DB, changeNotifier)
//	list, err := repo.ListBooks()
package database
