package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"bookcatalog/internal/entities"
	"bookcatalog/internal/validation"
)

// BookStore defines the catalog operations the books controller needs.
type BookStore interface {
	ListBooks() ([]entities.Book, error)
	CreateBook(book entities.Book) (*entities.Book, error)
	DeleteBook(id uint) error
}

type BooksController struct {
	store BookStore
}

func NewBooksController(store BookStore) *BooksController {
	return &BooksController{store: store}
}

// createBookRequest is the accepted body for book creation. Validation is
// deliberately left to the store's rule set so every broken rule is
// reported, not just the first one gin's binding would stop at.
type createBookRequest struct {
	Title       string `json:"title"`
	Author      string `json:"author"`
	Description string `json:"description"`
	Year        int    `json:"year"`
}

// ListBooks returns every book in the catalog.
// GET /api/books
func (bc *BooksController) ListBooks(c *gin.Context) {
	books, err := bc.store.ListBooks()
	if err != nil {
		respondInternalError(c, err, "list books")
		return
	}
	c.JSON(http.StatusOK, books)
}

// CreateBook validates and persists a new book, returning the stored record
// with its assigned ID.
// POST /api/books
func (bc *BooksController) CreateBook(c *gin.Context) {
	var req createBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	book, err := bc.store.CreateBook(entities.Book{
		Title:       req.Title,
		Author:      req.Author,
		Description: req.Description,
		Year:        req.Year,
	})
	if err != nil {
		var violations *validation.Violations
		if errors.As(err, &violations) {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error:   "invalid book data",
				Details: violations.Messages,
			})
			return
		}
		respondInternalError(c, err, "create book")
		return
	}

	c.JSON(http.StatusCreated, book)
}

// DeleteBook removes a book by ID. Deleting an absent ID reports 404, so a
// repeated delete yields the same response.
// DELETE /api/books/:id
func (bc *BooksController) DeleteBook(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := bc.store.DeleteBook(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondNotFound(c, "book")
			return
		}
		respondInternalError(c, err, "delete book")
		return
	}

	c.Status(http.StatusNoContent)
}
