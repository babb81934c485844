package model

import (
	"time"
)

type UserRole string

const (
	Student  UserRole = "student"
	Lecturer UserRole = "lecturer"
	Admin    UserRole = "admin"
)

// swagger:model User
type User struct {
	BaseModel
	Name      string    `gorm:"size:100;not null" json:"Name"`
	Email     string    `gorm:"size:100;unique;not null" json:"Email"`
	Password  string    `gorm:"size:100;not null" json:"-"`
	Role      UserRole  `gorm:"size:20;default:'student'" json:"Role"`
	Avatar    string    `gorm:"size:255" json:"avatar"`
	Disabled  bool      `gorm:"default:false" json:"Disabled"`
	LastLogin time.Time `json:"LastLogin"`
	LastSeen  time.Time `json:"LastSeen"`
}

func (User) TableName() string {
	return "users"
}
