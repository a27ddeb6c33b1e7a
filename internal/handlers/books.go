package handlers

import (
	"net/http"

	"KANBAN_CRM_BACK-END/internal/dto"
	"KANBAN_CRM_BACK-END/internal/middleware"
	"KANBAN_CRM_BACK-END/internal/models"
	"KANBAN_CRM_BACK-END/internal/services"
	"KANBAN_CRM_BACK-END/internal/utils"
)

// BookHandler serves the caller's reading list
type BookHandler struct {
	books *services.BookService
}

func NewBookHandler(books *services.BookService) *BookHandler {
	return &BookHandler{books: books}
}

// ListBooks
// @Summary List books
// @Tags books
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Book
// @Failure 401 {object} dto.ErrorResponse
// @Router /books [get]
func (h *BookHandler) ListBooks(w http.ResponseWriter, r *http.Request) {
	id, _ := middleware.IdentityFromContext(r.Context())

	books, err := h.books.List(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if books == nil {
		books = []models.Book{}
	}
	utils.WriteJSONResponse(w, http.StatusOK, books)
}

// CreateBook
// @Summary Create a book
// @Tags books
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateBookRequest true "Book data"
// @Success 201 {object} models.Book
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Router /books [post]
func (h *BookHandler) CreateBook(w http.ResponseWriter, r *http.Request) {
	id, _ := middleware.IdentityFromContext(r.Context())

	var req dto.CreateBookRequest
	if err := utils.DecodeJSONRequest(w, r, &req); err != nil {
		return
	}
	if err := req.Validate(); err != nil {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Invalid request data", err.Error())
		return
	}

	book, err := h.books.Create(r.Context(), id, req.ToFields())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	utils.WriteJSONResponse(w, http.StatusCreated, book)
}

// UpdateBook
// @Summary Update a book
// @Tags books
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Book ID"
// @Param request body dto.UpdateBookRequest true "Fields to update"
// @Success 200 {object} models.Book
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /books/{id} [put]
func (h *BookHandler) UpdateBook(w http.ResponseWriter, r *http.Request) {
	id, _ := middleware.IdentityFromContext(r.Context())

	bookID, ok := pathID(r, "id")
	if !ok {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Invalid id", "")
		return
	}

	var req dto.UpdateBookRequest
	if err := utils.DecodeJSONRequest(w, r, &req); err != nil {
		return
	}
	if err := req.Validate(); err != nil {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Invalid request data", err.Error())
		return
	}

	book, err := h.books.Update(r.Context(), id, bookID, req.ToPatch())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	utils.WriteJSONResponse(w, http.StatusOK, book)
}

// DeleteBook
// @Summary Delete a book
// @Tags books
// @Security BearerAuth
// @Param id path int true "Book ID"
// @Success 204
// @Failure 404 {object} dto.ErrorResponse
// @Router /books/{id} [delete]
func (h *BookHandler) DeleteBook(w http.ResponseWriter, r *http.Request) {
	id, _ := middleware.IdentityFromContext(r.Context())

	bookID, ok := pathID(r, "id")
	if !ok {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Invalid id", "")
		return
	}

	if err := h.books.Delete(r.Context(), id, bookID); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
