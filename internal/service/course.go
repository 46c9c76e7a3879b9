package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"neurogrid-backend/internal/dto"
	"neurogrid-backend/internal/model"
	"neurogrid-backend/internal/repository"
	"neurogrid-backend/internal/service/serverrors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const courseListLimit = 50

type CourseService interface {
	ListPublished(ctx context.Context) ([]*dto.Course, error)
	ListAll(ctx context.Context) ([]*dto.Course, error)
	Get(ctx context.Context, courseID string) (*dto.Course, error)
	Create(ctx context.Context, instructor *model.Principal, req *dto.CreateCourseRequest) (string, error)
	TogglePublish(ctx context.Context, courseID string) (bool, error)
	CheckAccess(ctx context.Context, principal *model.Principal, courseID string) (*dto.CourseAccess, error)
	UpdateLessonProgress(ctx context.Context, principal *model.Principal, courseID, lessonID string, req *dto.LessonProgressRequest) (*dto.CourseProgress, error)
	MyCourses(ctx context.Context, principal *model.Principal) ([]*dto.MyCourse, error)
}

type courseServiceImpl struct {
	courseRepo      repository.CourseRepository
	entitlementRepo repository.EntitlementRepository
	progressService ProgressService
}

func NewCourseService(
	courseRepo repository.CourseRepository,
	entitlementRepo repository.EntitlementRepository,
	progressService ProgressService,
) CourseService {
	return &courseServiceImpl{
		courseRepo:      courseRepo,
		entitlementRepo: entitlementRepo,
		progressService: progressService,
	}
}

func (s *courseServiceImpl) ListPublished(ctx context.Context) ([]*dto.Course, error) {
	courses, err := s.courseRepo.ListPublished(ctx, courseListLimit)
	if err != nil {
		return nil, fmt.Errorf("list published courses: %w", err)
	}
	return toCourseDTOs(courses), nil
}

func (s *courseServiceImpl) ListAll(ctx context.Context) ([]*dto.Course, error) {
	courses, err := s.courseRepo.ListAll(ctx, 2*courseListLimit)
	if err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	return toCourseDTOs(courses), nil
}

func (s *courseServiceImpl) Get(ctx context.Context, courseID string) (*dto.Course, error) {
	course, err := s.courseRepo.FindByID(ctx, courseID, true)
	if err != nil {
		return nil, notFoundOr(err, "course "+courseID)
	}
	return toCourseDTO(course), nil
}

func (s *courseServiceImpl) Create(ctx context.Context, instructor *model.Principal, req *dto.CreateCourseRequest) (string, error) {
	if strings.TrimSpace(req.Title) == "" {
		return "", fmt.Errorf("title is required: %w", serverrors.ErrInvalidCourse)
	}
	if req.Price < 0 {
		return "", fmt.Errorf("price must not be negative: %w", serverrors.ErrInvalidCourse)
	}

	level := model.CourseLevel(req.Level)
	switch level {
	case model.CourseLevelBeginner, model.CourseLevelIntermediate, model.CourseLevelAdvanced:
	default:
		return "", fmt.Errorf("level %q: %w", req.Level, serverrors.ErrInvalidCourse)
	}

	course := &model.Course{
		ID:           uuid.NewString(),
		Title:        req.Title,
		Description:  req.Description,
		Price:        req.Price,
		Level:        level,
		ThumbnailURL: req.ThumbnailURL,
		Published:    req.Published,
		InstructorID: instructor.UserID,
	}
	for _, l := range req.Lessons {
		course.Lessons = append(course.Lessons, model.Lesson{
			ID:              uuid.NewString(),
			Title:           l.Title,
			Description:     l.Description,
			VideoURL:        l.VideoURL,
			Content:         l.Content,
			DurationMinutes: l.DurationMinutes,
			Order:           l.Order,
		})
	}

	if err := s.courseRepo.Create(ctx, course); err != nil {
		return "", fmt.Errorf("create course: %w", err)
	}
	return course.ID, nil
}

func (s *courseServiceImpl) TogglePublish(ctx context.Context, courseID string) (bool, error) {
	published, err := s.courseRepo.TogglePublish(ctx, courseID)
	if err != nil {
		return false, notFoundOr(err, "course "+courseID)
	}
	return published, nil
}

func (s *courseServiceImpl) CheckAccess(ctx context.Context, principal *model.Principal, courseID string) (*dto.CourseAccess, error) {
	entitlement, err := s.entitlementRepo.FindActive(ctx, principal.UserID, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &dto.CourseAccess{HasAccess: false}, nil
		}
		return nil, fmt.Errorf("find entitlement: %w", err)
	}

	access := &dto.CourseAccess{
		HasAccess: true,
		Access:    toEntitlementDTO(entitlement),
	}

	progress, err := s.progressService.GetProgress(ctx, principal.UserID, courseID)
	switch {
	case err == nil:
		access.Progress = toProgressDTO(progress)
	case !errors.Is(err, serverrors.ErrNotFound):
		return nil, err
	}

	return access, nil
}

// UpdateLessonProgress is the access-checked entry point to the progress
// aggregator.
func (s *courseServiceImpl) UpdateLessonProgress(ctx context.Context, principal *model.Principal, courseID, lessonID string, req *dto.LessonProgressRequest) (*dto.CourseProgress, error) {
	if _, err := s.entitlementRepo.FindActive(ctx, principal.UserID, courseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("course %s: %w", courseID, serverrors.ErrAccessDenied)
		}
		return nil, fmt.Errorf("find entitlement: %w", err)
	}

	exists, err := s.courseRepo.LessonExists(ctx, courseID, lessonID)
	if err != nil {
		return nil, fmt.Errorf("find lesson: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("lesson %s: %w", lessonID, serverrors.ErrNotFound)
	}

	progress, err := s.progressService.RecordLessonProgress(ctx, principal.UserID, courseID, lessonID, req.Completed, req.ProgressPercentage)
	if err != nil {
		return nil, err
	}
	return toProgressDTO(progress), nil
}

func (s *courseServiceImpl) MyCourses(ctx context.Context, principal *model.Principal) ([]*dto.MyCourse, error) {
	entitlements, err := s.entitlementRepo.ListActive(ctx, principal.UserID)
	if err != nil {
		return nil, fmt.Errorf("list entitlements: %w", err)
	}

	courses := make([]*dto.MyCourse, 0, len(entitlements))
	for _, e := range entitlements {
		course, err := s.courseRepo.FindByID(ctx, e.PackageID, false)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			return nil, fmt.Errorf("find course %s: %w", e.PackageID, err)
		}

		item := &dto.MyCourse{
			Course: *toCourseDTO(course),
			Access: *toEntitlementDTO(e),
		}

		progress, err := s.progressService.GetProgress(ctx, principal.UserID, e.PackageID)
		switch {
		case err == nil:
			item.Progress = toProgressDTO(progress)
		case !errors.Is(err, serverrors.ErrNotFound):
			return nil, err
		}

		courses = append(courses, item)
	}

	return courses, nil
}

func notFoundOr(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s: %w", what, serverrors.ErrNotFound)
	}
	return fmt.Errorf("%s: %w", what, err)
}

func toCourseDTOs(courses []*model.Course) []*dto.Course {
	out := make([]*dto.Course, len(courses))
	for i, c := range courses {
		out[i] = toCourseDTO(c)
	}
	return out
}

func toCourseDTO(c *model.Course) *dto.Course {
	course := &dto.Course{
		ID:           c.ID,
		Title:        c.Title,
		Description:  c.Description,
		Price:        c.Price,
		Level:        string(c.Level),
		ThumbnailURL: c.ThumbnailURL,
		Published:    c.Published,
		InstructorID: c.InstructorID,
		Enrollments:  c.EnrollmentCount,
		CreatedAt:    c.CreatedAt,
	}
	for _, l := range c.Lessons {
		course.Lessons = append(course.Lessons, dto.Lesson{
			ID:              l.ID,
			Title:           l.Title,
			Description:     l.Description,
			VideoURL:        l.VideoURL,
			DurationMinutes: l.DurationMinutes,
			Order:           l.Order,
		})
	}
	return course
}

func toEntitlementDTO(e *model.Entitlement) *dto.Entitlement {
	return &dto.Entitlement{
		PackageID:   e.PackageID,
		PurchasedAt: e.PurchasedAt,
		ExpiresAt:   e.ExpiresAt,
		Active:      e.Active,
	}
}

func toProgressDTO(p *model.CourseProgress) *dto.CourseProgress {
	out := &dto.CourseProgress{
		CourseID:           p.CourseID,
		EnrolledAt:         p.EnrolledAt,
		ProgressPercentage: p.ProgressPercentage,
		Completed:          p.Completed,
		CompletedAt:        p.CompletedAt,
		Lessons:            make([]dto.LessonProgress, len(p.Lessons)),
	}
	for i, l := range p.Lessons {
		out.Lessons[i] = dto.LessonProgress{
			LessonID:           l.LessonID,
			Completed:          l.Completed,
			ProgressPercentage: l.ProgressPercentage,
			CompletedAt:        l.CompletedAt,
		}
	}
	return out
}
