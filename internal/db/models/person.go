package models

import (
	"gorm.io/gorm"
)

// Person is an authorized-person roster entry, keyed by full name.
type Person struct {
	gorm.Model
	FullName string `json:"nombre_completo" gorm:"column:nombre_completo;uniqueIndex;not null"`
	Title    string `json:"cargo" gorm:"column:cargo"`
	Area     string `json:"area" gorm:"column:area"`
	Email    string `json:"email" gorm:"column:email"`
	Active   bool   `json:"activo" gorm:"column:activo"`
}

func (Person) TableName() string {
	return "personal"
}
