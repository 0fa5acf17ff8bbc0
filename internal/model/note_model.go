package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Note struct {
	Id          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Subject     string    `gorm:"type:varchar(255);not null;index"`
	Description string    `gorm:"type:text"`
	Category    string    `gorm:"type:varchar(32);not null;index"`
	Institute   string    `gorm:"type:varchar(255);not null;index"`
	State       string    `gorm:"type:varchar(128);index"`
	District    string    `gorm:"type:varchar(128);index"`
	Departments datatypes.JSONSlice[string] `gorm:"type:jsonb"`
	Stream      string    `gorm:"type:varchar(64)"`
	Year        string    `gorm:"type:varchar(8)"`
	Semester    string    `gorm:"type:varchar(8)"`
	ClassLevel  string    `gorm:"type:varchar(16)"`
	Tags        datatypes.JSONSlice[string] `gorm:"type:jsonb"`

	FileName string `gorm:"type:varchar(255)"`
	FileSize int64
	FileUrl  string `gorm:"type:varchar(512)"`

	Views     int64 `gorm:"default:0"`
	Downloads int64 `gorm:"default:0"`

	Status       string `gorm:"type:varchar(16);not null;default:'pending';index"`
	RejectReason string `gorm:"type:text"`

	UploaderPhone   string `gorm:"type:varchar(32)"`
	UploaderConsent bool

	UserId    uuid.UUID `gorm:"type:uuid;not null;index"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (Note) TableName() string {
	return "notes"
}
