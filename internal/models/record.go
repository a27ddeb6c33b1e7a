package models

import (
	"time"
)

// Record represents a CRM contact/lead owned by exactly one user
type Record struct {
	ID           int64     `json:"id" db:"id" gorm:"primaryKey;autoIncrement"`
	UserID       int64     `json:"user_id" db:"user_id" gorm:"not null;index"`
	Name         string    `json:"name" db:"name" gorm:"not null"`
	Email        *string   `json:"email" db:"email"`
	PhoneNumber  *string   `json:"phone_number" db:"phone_number"`
	Organization *string   `json:"organization" db:"organization"`
	Description  *string   `json:"description" db:"description"`
	Revenue      *float64  `json:"revenue" db:"revenue" gorm:"type:numeric(14,2)"`
	Status       string    `json:"status" db:"status" gorm:"not null"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`

	Owner *User `json:"-" db:"-" gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE"`
}

// TableName pins the gorm table name
func (Record) TableName() string {
	return "records"
}

// RecordFields holds the client-settable fields of a new record.
// The owner is never part of it.
type RecordFields struct {
	Name         string
	Email        *string
	PhoneNumber  *string
	Organization *string
	Description  *string
	Revenue      *float64
	Status       string
}

// RecordPatch is a partial update. Nil or unset fields are left untouched;
// an optional field set to null clears the column.
type RecordPatch struct {
	Name         *string
	Email        Nullable[string]
	PhoneNumber  Nullable[string]
	Organization Nullable[string]
	Description  Nullable[string]
	Revenue      Nullable[float64]
	Status       *string
}

// Columns returns the supplied fields keyed by column name.
// Only the columns listed here can ever be written by an update.
func (p RecordPatch) Columns() map[string]any {
	cols := make(map[string]any, 7)
	if p.Name != nil {
		cols["name"] = *p.Name
	}
	if p.Email.Set {
		cols["email"] = p.Email.column()
	}
	if p.PhoneNumber.Set {
		cols["phone_number"] = p.PhoneNumber.column()
	}
	if p.Organization.Set {
		cols["organization"] = p.Organization.column()
	}
	if p.Description.Set {
		cols["description"] = p.Description.column()
	}
	if p.Revenue.Set {
		cols["revenue"] = p.Revenue.column()
	}
	if p.Status != nil {
		cols["status"] = *p.Status
	}
	return cols
}

// IsEmpty reports whether the patch changes nothing
func (p RecordPatch) IsEmpty() bool {
	return len(p.Columns()) == 0
}
