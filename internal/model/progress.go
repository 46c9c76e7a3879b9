package model

import (
	"time"

	"gorm.io/datatypes"
)

type LessonProgress struct {
	LessonID           string     `json:"lesson_id"`
	Completed          bool       `json:"completed"`
	ProgressPercentage int        `json:"progress_percentage"`
	CompletedAt        *time.Time `json:"completed_at,omitempty"`
}

type CourseProgress struct {
	ID                 string                              `gorm:"primaryKey;size:36;not null"`
	UserID             string                              `gorm:"size:64;not null;uniqueIndex:idx_progress_user_course"`
	CourseID           string                              `gorm:"size:64;not null;uniqueIndex:idx_progress_user_course"`
	EnrolledAt         time.Time                           `gorm:"not null"`
	Lessons            datatypes.JSONSlice[LessonProgress] `gorm:"type:json"`
	ProgressPercentage int                                 `gorm:"not null;default:0"`
	Completed          bool                                `gorm:"not null;default:false"`
	CompletedAt        *time.Time
	Version            int64 `gorm:"not null;default:0"` // bumped by every conditional update
	UpdatedAt          time.Time
}

// CompletedLessons counts lesson entries marked completed.
func (p *CourseProgress) CompletedLessons() int {
	n := 0
	for _, l := range p.Lessons {
		if l.Completed {
			n++
		}
	}
	return n
}
