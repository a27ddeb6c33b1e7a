package handlers

import (
	"net/http"

	"KANBAN_CRM_BACK-END/internal/dto"
	"KANBAN_CRM_BACK-END/internal/middleware"
	"KANBAN_CRM_BACK-END/internal/services"
	"KANBAN_CRM_BACK-END/internal/utils"
)

// RecordHandler serves the caller's CRM records
type RecordHandler struct {
	records *services.RecordService
}

// NewRecordHandler creates a new RecordHandler instance
func NewRecordHandler(records *services.RecordService) *RecordHandler {
	return &RecordHandler{records: records}
}

// ListRecords returns all records owned by the caller
// @Summary List records
// @Tags crm
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.RecordResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /crm [get]
func (h *RecordHandler) ListRecords(w http.ResponseWriter, r *http.Request) {
	id, _ := middleware.IdentityFromContext(r.Context())

	records, err := h.records.List(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	utils.WriteJSONResponse(w, http.StatusOK, dto.NewRecordListResponse(records))
}

// CreateRecord creates a record owned by the caller
// @Summary Create a record
// @Description Any owner id in the body is ignored; the record belongs to the caller
// @Tags crm
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateRecordRequest true "Record data"
// @Success 201 {object} dto.RecordResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /crm [post]
func (h *RecordHandler) CreateRecord(w http.ResponseWriter, r *http.Request) {
	id, _ := middleware.IdentityFromContext(r.Context())

	var req dto.CreateRecordRequest
	if err := utils.DecodeJSONRequest(w, r, &req); err != nil {
		return
	}
	if err := req.Validate(); err != nil {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Invalid request data", err.Error())
		return
	}

	record, err := h.records.Create(r.Context(), id, req.ToFields())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	utils.WriteJSONResponse(w, http.StatusCreated, dto.NewRecordResponse(*record))
}

// UpdateRecord applies a partial update to one of the caller's records
// @Summary Update a record
// @Tags crm
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Record ID"
// @Param request body dto.UpdateRecordRequest true "Fields to update"
// @Success 200 {object} dto.RecordResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /crm/{id} [put]
func (h *RecordHandler) UpdateRecord(w http.ResponseWriter, r *http.Request) {
	id, _ := middleware.IdentityFromContext(r.Context())

	recordID, ok := pathID(r, "id")
	if !ok {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Invalid id", "")
		return
	}

	var req dto.UpdateRecordRequest
	if err := utils.DecodeJSONRequest(w, r, &req); err != nil {
		return
	}
	if err := req.Validate(); err != nil {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Invalid request data", err.Error())
		return
	}

	record, err := h.records.Update(r.Context(), id, recordID, req.ToPatch())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	utils.WriteJSONResponse(w, http.StatusOK, dto.NewRecordResponse(*record))
}

// DeleteRecord removes one of the caller's records
// @Summary Delete a record
// @Tags crm
// @Security BearerAuth
// @Param id path int true "Record ID"
// @Success 204
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /crm/{id} [delete]
func (h *RecordHandler) DeleteRecord(w http.ResponseWriter, r *http.Request) {
	id, _ := middleware.IdentityFromContext(r.Context())

	recordID, ok := pathID(r, "id")
	if !ok {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Invalid id", "")
		return
	}

	if err := h.records.Delete(r.Context(), id, recordID); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
