package model

import "time"

type CourseLevel string

const (
	CourseLevelBeginner     CourseLevel = "beginner"
	CourseLevelIntermediate CourseLevel = "intermediate"
	CourseLevelAdvanced     CourseLevel = "advanced"
)

type Course struct {
	ID              string      `gorm:"primaryKey;size:64;not null"` // package id for the neural packages
	Title           string      `gorm:"size:255;not null"`
	Description     string      `gorm:"type:text"`
	Price           float64     `gorm:"not null"`
	Level           CourseLevel `gorm:"size:32;not null"`
	ThumbnailURL    string      `gorm:"size:512"`
	Published       bool        `gorm:"index;not null;default:false"`
	InstructorID    string      `gorm:"size:64;index"`
	EnrollmentCount int         `gorm:"not null;default:0"`
	Lessons         []Lesson    `gorm:"foreignKey:CourseID"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type Lesson struct {
	ID              string `gorm:"primaryKey;size:64;not null"`
	CourseID        string `gorm:"size:64;index;not null"`
	Title           string `gorm:"size:255;not null"`
	Description     string `gorm:"type:text"`
	VideoURL        string `gorm:"size:512"`
	Content         string `gorm:"type:text"`
	DurationMinutes int    `gorm:"not null;default:0"`
	Order           int    `gorm:"column:lesson_order;not null"`
}
