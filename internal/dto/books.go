package dto

import (
	"errors"
	"strings"

	"KANBAN_CRM_BACK-END/internal/models"
)

// CreateBookRequest represents the payload to create a book
type CreateBookRequest struct {
	Title  string `json:"title"`
	Author string `json:"author"`
	Status string `json:"status"`
}

func (r *CreateBookRequest) Validate() error {
	r.Title = strings.TrimSpace(r.Title)
	r.Author = strings.TrimSpace(r.Author)
	r.Status = strings.TrimSpace(r.Status)
	if r.Title == "" || r.Author == "" || r.Status == "" {
		return errors.New("title, author and status are required")
	}
	return nil
}

func (r *CreateBookRequest) ToFields() models.BookFields {
	return models.BookFields{Title: r.Title, Author: r.Author, Status: r.Status}
}

// UpdateBookRequest holds optional book fields; only provided ones are updated
type UpdateBookRequest struct {
	Title  *string `json:"title"`
	Author *string `json:"author"`
	Status *string `json:"status"`
}

func (r *UpdateBookRequest) Validate() error {
	for _, f := range []*string{r.Title, r.Author, r.Status} {
		if f == nil {
			continue
		}
		if *f = strings.TrimSpace(*f); *f == "" {
			return errors.New("title, author and status cannot be empty")
		}
	}
	return nil
}

func (r *UpdateBookRequest) ToPatch() models.BookPatch {
	return models.BookPatch{Title: r.Title, Author: r.Author, Status: r.Status}
}
