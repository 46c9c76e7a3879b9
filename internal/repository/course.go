package repository

import (
	"context"
	"fmt"
	"time"

	"neurogrid-backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CourseRepository interface {
	Seed(ctx context.Context) error
	Create(ctx context.Context, course *model.Course) error
	FindByID(ctx context.Context, courseID string, publishedOnly bool) (*model.Course, error)
	ListPublished(ctx context.Context, limit int) ([]*model.Course, error)
	ListAll(ctx context.Context, limit int) ([]*model.Course, error)
	TogglePublish(ctx context.Context, courseID string) (bool, error)
	CountLessons(ctx context.Context, courseID string) (int64, error)
	LessonExists(ctx context.Context, courseID, lessonID string) (bool, error)
}

type courseRepoImpl struct {
	db *gorm.DB
}

func NewCourseRepository(db *gorm.DB) CourseRepository {
	return &courseRepoImpl{
		db: db,
	}
}

func (r *courseRepoImpl) Seed(ctx context.Context) error {
	courses := []model.Course{
		{ID: "starter", Title: "Neural Starter Package", Description: "Basic AI automation course", Price: 99, Level: model.CourseLevelBeginner, Published: true},
		{ID: "professional", Title: "Neural Professional Package", Description: "Complete AI automation suite", Price: 299, Level: model.CourseLevelIntermediate, Published: true},
		{ID: "enterprise", Title: "Neural Enterprise Package", Description: "Full Neural Labs access", Price: 599, Level: model.CourseLevelAdvanced, Published: true},
	}
	lessonCounts := map[string]int{"starter": 4, "professional": 6, "enterprise": 8}

	var lessons []model.Lesson
	for _, c := range courses {
		for i := 1; i <= lessonCounts[c.ID]; i++ {
			lessons = append(lessons, model.Lesson{
				ID:              fmt.Sprintf("%s-lesson-%d", c.ID, i),
				CourseID:        c.ID,
				Title:           fmt.Sprintf("%s: lesson %d", c.Title, i),
				Content:         "",
				DurationMinutes: 20,
				Order:           i,
			})
		}
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Clauses(clause.OnConflict{DoNothing: true}).Create(&courses).Error; err != nil {
			return err
		}
		return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&lessons).Error
	})
}

// Create stores the course together with its lessons.
func (r *courseRepoImpl) Create(ctx context.Context, course *model.Course) error {
	return r.db.WithContext(ctx).Create(course).Error
}

func (r *courseRepoImpl) FindByID(ctx context.Context, courseID string, publishedOnly bool) (*model.Course, error) {
	var course model.Course
	q := r.db.WithContext(ctx).
		Preload("Lessons", func(db *gorm.DB) *gorm.DB {
			return db.Order("lesson_order ASC")
		}).
		Where("id = ?", courseID)
	if publishedOnly {
		q = q.Where("published = ?", true)
	}

	if err := q.First(&course).Error; err != nil {
		return nil, err
	}

	return &course, nil
}

func (r *courseRepoImpl) ListPublished(ctx context.Context, limit int) ([]*model.Course, error) {
	var courses []*model.Course
	err := r.db.WithContext(ctx).
		Where("published = ?", true).
		Order("created_at DESC").
		Limit(limit).
		Find(&courses).Error

	if err != nil {
		return nil, err
	}

	return courses, nil
}

func (r *courseRepoImpl) ListAll(ctx context.Context, limit int) ([]*model.Course, error) {
	var courses []*model.Course
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&courses).Error

	if err != nil {
		return nil, err
	}

	return courses, nil
}

func (r *courseRepoImpl) TogglePublish(ctx context.Context, courseID string) (bool, error) {
	var published bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var course model.Course
		if err := tx.Where("id = ?", courseID).First(&course).Error; err != nil {
			return err
		}

		published = !course.Published
		return tx.Model(&model.Course{}).
			Where("id = ?", courseID).
			Updates(map[string]interface{}{
				"published":  published,
				"updated_at": time.Now().UTC(),
			}).Error
	})

	return published, err
}

func (r *courseRepoImpl) CountLessons(ctx context.Context, courseID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Lesson{}).
		Where("course_id = ?", courseID).
		Count(&count).Error

	return count, err
}

func (r *courseRepoImpl) LessonExists(ctx context.Context, courseID, lessonID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Lesson{}).
		Where("course_id = ? AND id = ?", courseID, lessonID).
		Count(&count).Error

	return count > 0, err
}
