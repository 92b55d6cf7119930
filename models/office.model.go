package models

import "gorm.io/gorm"

type Office struct {
	gorm.Model
	Name    string `gorm:"not null;unique" json:"name"`
	Address string `gorm:"type:text" json:"address"`
}
