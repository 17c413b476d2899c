// Package books provides database operations for catalog book management.
//
// Successful mutations publish a change event through the ChangePublisher
// so connected clients can refresh their view; read operations never do.
package books

import (
	"gorm.io/gorm"

	"bookcatalog/internal/entities"
	"bookcatalog/internal/validation"
)

// ChangePublisher receives a payload-free event after every successful
// mutation. Implementations must not block.
type ChangePublisher interface {
	Publish()
}

// Repository handles all book database operations.
type Repository struct {
	db      *gorm.DB
	changes ChangePublisher
}

// NewRepository creates a new books repository. changes may be nil, in which
// case mutations are silent.
func NewRepository(db *gorm.DB, changes ChangePublisher) *Repository {
	return &Repository{db: db, changes: changes}
}

// ListBooks retrieves all books in insertion order.
func (r *Repository) ListBooks() ([]entities.Book, error) {
	var books []entities.Book
	err := r.db.Find(&books).Error
	return books, err
}

// CreateBook validates the candidate record and persists it. When one or
// more rules fail nothing is persisted and the returned error is a
// *validation.Violations carrying every broken rule's message.
func (r *Repository) CreateBook(book entities.Book) (*entities.Book, error) {
	if violations := validation.Check(validation.Candidate{
		Title:  book.Title,
		Author: book.Author,
		Year:   book.Year,
	}); violations != nil {
		return nil, violations
	}

	book.ID = 0 // identifiers are always store-assigned
	if err := r.db.Create(&book).Error; err != nil {
		return nil, err
	}

	r.publishChange()
	return &book, nil
}

// DeleteBook removes the book with the given ID. It returns
// gorm.ErrRecordNotFound when no such book exists, so repeating a delete
// reports the same absence.
func (r *Repository) DeleteBook(id uint) error {
	result := r.db.Delete(&entities.Book{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	r.publishChange()
	return nil
}

func (r *Repository) publishChange() {
	if r.changes != nil {
		r.changes.Publish()
	}
}
