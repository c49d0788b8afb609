package models

import "time"

// Student represents a pupil record. Dates travel as plain strings: this
// layer does not interpret them, it only validates presence.
type Student struct {
	ID           int64     `db:"id" json:"id"`
	Firstname    string    `db:"firstname" json:"firstname"`
	Lastname     string    `db:"lastname" json:"lastname"`
	Birthdate    string    `db:"birthdate" json:"birthdate"`
	Level        string    `db:"level" json:"level"`
	Parent1Name  string    `db:"parent1_name" json:"parent1_name"`
	Parent1Phone string    `db:"parent1_phone" json:"parent1_phone"`
	Parent2Name  *string   `db:"parent2_name" json:"parent2_name,omitempty"`
	Parent2Phone *string   `db:"parent2_phone" json:"parent2_phone,omitempty"`
	Status       string    `db:"status" json:"status"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// StudentRequest carries the payload for creating or updating a student. The
// primary guardian contact is mandatory, the second is not.
type StudentRequest struct {
	Firstname    string  `json:"firstname" validate:"required"`
	Lastname     string  `json:"lastname" validate:"required"`
	Birthdate    string  `json:"birthdate" validate:"required"`
	Level        string  `json:"level" validate:"required"`
	Parent1Name  string  `json:"parent1_name" validate:"required"`
	Parent1Phone string  `json:"parent1_phone" validate:"required"`
	Parent2Name  *string `json:"parent2_name"`
	Parent2Phone *string `json:"parent2_phone"`
	Status       string  `json:"status"`
}

// ToStudent maps the request onto a fresh student entity.
func (r StudentRequest) ToStudent() *Student {
	return &Student{
		Firstname:    r.Firstname,
		Lastname:     r.Lastname,
		Birthdate:    r.Birthdate,
		Level:        r.Level,
		Parent1Name:  r.Parent1Name,
		Parent1Phone: r.Parent1Phone,
		Parent2Name:  r.Parent2Name,
		Parent2Phone: r.Parent2Phone,
		Status:       r.Status,
	}
}
