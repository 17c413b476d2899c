package http

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"bookcatalog/internal/database"
	"bookcatalog/internal/notifier"
)

// RouterConfig contains all dependencies and configuration needed to create
// the HTTP router.
type RouterConfig struct {
	BookStore BookStore
	Database  *database.Database
	Notifier  *notifier.Notifier
	Version   string
}

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	// The catalog is served to browser clients from arbitrary origins.
	router.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "DELETE"},
		AllowHeaders:    []string{"Content-Type"},
	}))

	health := NewHealthController(cfg.Database, cfg.Version)
	booksController := NewBooksController(cfg.BookStore)

	router.GET("/", health.Banner)
	router.GET("/healthz", health.Status)

	router.GET("/api/books", booksController.ListBooks)
	router.POST("/api/books", booksController.CreateBook)
	router.DELETE("/api/books/:id", booksController.DeleteBook)

	if cfg.Notifier != nil {
		wsController := NewWSController(cfg.Notifier)
		router.GET("/ws", wsController.Handle)
	}

	return router
}
