package dto

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"KANBAN_CRM_BACK-END/internal/models"
)

// maxRevenue is the first value that overflows a NUMERIC(14,2) column
const maxRevenue = 1e12

// CreateRecordRequest represents the payload to create a record.
// There is no owner field: the owner is always the caller.
type CreateRecordRequest struct {
	Name         string   `json:"name" example:"Acme Corp"`
	Email        *string  `json:"email,omitempty"`
	PhoneNumber  *string  `json:"phone_number,omitempty"`
	Organization *string  `json:"organization,omitempty"`
	Description  *string  `json:"description,omitempty"`
	Revenue      *float64 `json:"revenue,omitempty"`
	Status       string   `json:"status" example:"lead"`
}

// Validate checks required fields and optional field formats
func (r *CreateRecordRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	r.Status = strings.TrimSpace(r.Status)
	if r.Name == "" || r.Status == "" {
		return errors.New("name and status are required")
	}
	return validateRecordOptionals(r.Email, r.Revenue)
}

// ToFields converts the request into store fields
func (r *CreateRecordRequest) ToFields() models.RecordFields {
	return models.RecordFields{
		Name:         r.Name,
		Email:        r.Email,
		PhoneNumber:  r.PhoneNumber,
		Organization: r.Organization,
		Description:  r.Description,
		Revenue:      r.Revenue,
		Status:       r.Status,
	}
}

// UpdateRecordRequest represents fields allowed to update a record.
// Absent keys are left untouched. An optional field sent as null is cleared;
// name and status cannot be null.
type UpdateRecordRequest struct {
	Name         models.Nullable[string]  `json:"name" swaggertype:"string"`
	Email        models.Nullable[string]  `json:"email" swaggertype:"string"`
	PhoneNumber  models.Nullable[string]  `json:"phone_number" swaggertype:"string"`
	Organization models.Nullable[string]  `json:"organization" swaggertype:"string"`
	Description  models.Nullable[string]  `json:"description" swaggertype:"string"`
	Revenue      models.Nullable[float64] `json:"revenue" swaggertype:"number"`
	Status       models.Nullable[string]  `json:"status" swaggertype:"string"`
}

// Validate checks supplied fields
func (r *UpdateRecordRequest) Validate() error {
	if err := requireText(&r.Name, "name"); err != nil {
		return err
	}
	if err := requireText(&r.Status, "status"); err != nil {
		return err
	}
	return validateRecordOptionals(r.Email.Value, r.Revenue.Value)
}

// ToPatch converts the request into an allow-listed patch
func (r *UpdateRecordRequest) ToPatch() models.RecordPatch {
	return models.RecordPatch{
		Name:         r.Name.Value,
		Email:        r.Email,
		PhoneNumber:  r.PhoneNumber,
		Organization: r.Organization,
		Description:  r.Description,
		Revenue:      r.Revenue,
		Status:       r.Status.Value,
	}
}

// requireText trims a supplied required field and rejects null or blank
func requireText(f *models.Nullable[string], name string) error {
	if !f.Set {
		return nil
	}
	if f.Value == nil {
		return fmt.Errorf("%s cannot be null", name)
	}
	if *f.Value = strings.TrimSpace(*f.Value); *f.Value == "" {
		return fmt.Errorf("%s cannot be empty", name)
	}
	return nil
}

// RecordResponse represents a record in responses
type RecordResponse struct {
	ID           int64    `json:"id"`
	UserID       int64    `json:"user_id"`
	Name         string   `json:"name"`
	Email        *string  `json:"email"`
	PhoneNumber  *string  `json:"phone_number"`
	Organization *string  `json:"organization"`
	Description  *string  `json:"description"`
	Revenue      *float64 `json:"revenue"`
	Status       string   `json:"status"`
	CreatedAt    string   `json:"created_at"`
	UpdatedAt    string   `json:"updated_at"`
}

// NewRecordResponse converts a model into its response shape
func NewRecordResponse(r models.Record) RecordResponse {
	return RecordResponse{
		ID:           r.ID,
		UserID:       r.UserID,
		Name:         r.Name,
		Email:        r.Email,
		PhoneNumber:  r.PhoneNumber,
		Organization: r.Organization,
		Description:  r.Description,
		Revenue:      r.Revenue,
		Status:       r.Status,
		CreatedAt:    r.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:    r.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

// NewRecordListResponse converts models, never returning nil
func NewRecordListResponse(records []models.Record) []RecordResponse {
	out := make([]RecordResponse, 0, len(records))
	for _, r := range records {
		out = append(out, NewRecordResponse(r))
	}
	return out
}

// validateRecordOptionals checks the optional email and revenue. Revenue is
// rounded to cents in place and must fit NUMERIC(14,2).
func validateRecordOptionals(email *string, revenue *float64) error {
	if email != nil && *email != "" {
		if err := validateEmail(*email); err != nil {
			return err
		}
	}
	if revenue != nil {
		*revenue = math.Round(*revenue*100) / 100
		if *revenue < 0 {
			return errors.New("revenue cannot be negative")
		}
		if *revenue >= maxRevenue {
			return errors.New("revenue must be less than 1000000000000")
		}
	}
	return nil
}
