package models

// Book is a reading-list entry owned by a user
type Book struct {
	ID     int64  `json:"id" db:"id" gorm:"primaryKey;autoIncrement"`
	UserID int64  `json:"user_id" db:"user_id" gorm:"not null;index"`
	Title  string `json:"title" db:"title" gorm:"not null"`
	Author string `json:"author" db:"author" gorm:"not null"`
	Status string `json:"status" db:"status" gorm:"not null"`

	Owner *User `json:"-" db:"-" gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE"`
}

// TableName pins the gorm table name
func (Book) TableName() string {
	return "books"
}

// BookFields holds the client-settable fields of a new book
type BookFields struct {
	Title  string
	Author string
	Status string
}

// BookPatch is a partial update. Nil fields are left untouched.
type BookPatch struct {
	Title  *string
	Author *string
	Status *string
}

// Columns returns the supplied fields keyed by column name
func (p BookPatch) Columns() map[string]any {
	cols := make(map[string]any, 3)
	if p.Title != nil {
		cols["title"] = *p.Title
	}
	if p.Author != nil {
		cols["author"] = *p.Author
	}
	if p.Status != nil {
		cols["status"] = *p.Status
	}
	return cols
}
