package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"neurogrid-backend/internal/config"
	"neurogrid-backend/internal/metrics"
	"neurogrid-backend/internal/model"
	"neurogrid-backend/internal/notifier"
	"neurogrid-backend/internal/repository"
	"neurogrid-backend/internal/repository/reperrors"
	"neurogrid-backend/internal/service/serverrors"

	"github.com/avast/retry-go/v4"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// LessonCatalog reports how many lessons a course has.
type LessonCatalog interface {
	CountLessons(ctx context.Context, courseID string) (int64, error)
}

type ProgressService interface {
	RecordLessonProgress(ctx context.Context, userID, courseID, lessonID string, completed bool, percent int) (*model.CourseProgress, error)
	GetProgress(ctx context.Context, userID, courseID string) (*model.CourseProgress, error)
}

type progressServiceImpl struct {
	progressRepo repository.ProgressRepository
	catalog      LessonCatalog
	notifier     notifier.Notifier
	retryConf    config.Retry
	logger       *zap.Logger
	now          func() time.Time
}

func NewProgressService(
	progressRepo repository.ProgressRepository,
	catalog LessonCatalog,
	notifier notifier.Notifier,
	retryConf config.Retry,
	logger *zap.Logger,
) ProgressService {
	if retryConf.Attempts == 0 {
		retryConf.Attempts = 1 // retry-go treats 0 as unlimited
	}
	if retryConf.Delay <= 0 {
		retryConf.Delay = 10 * time.Millisecond
	}
	return &progressServiceImpl{
		progressRepo: progressRepo,
		catalog:      catalog,
		notifier:     notifier,
		retryConf:    retryConf,
		logger:       logger,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

func (s *progressServiceImpl) RecordLessonProgress(ctx context.Context, userID, courseID, lessonID string, completed bool, percent int) (*model.CourseProgress, error) {
	if percent < 0 || percent > 100 {
		return nil, fmt.Errorf("lesson %s got %d: %w", lessonID, percent, serverrors.ErrInvalidProgress)
	}

	var (
		result          *model.CourseProgress
		firstCompletion bool
	)
	err := retry.Do(
		func() error {
			progress, err := s.loadOrCreate(ctx, userID, courseID)
			if err != nil {
				return err
			}

			now := s.now()
			alreadyCompleted := progress.CompletedAt != nil
			applyLessonProgress(progress, lessonID, completed, percent, now)

			total, err := s.catalog.CountLessons(ctx, courseID)
			if err != nil {
				return fmt.Errorf("count lessons: %w", err)
			}
			if total > 0 {
				recomputeAggregate(progress, total, now)
			}

			if err := s.progressRepo.Update(ctx, progress); err != nil {
				if errors.Is(err, reperrors.ErrConflict) {
					metrics.ProgressConflicts.Inc()
				}
				return err
			}

			result = progress
			firstCompletion = !alreadyCompleted && progress.CompletedAt != nil
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(s.retryConf.Attempts),
		retry.Delay(s.retryConf.Delay),
		retry.MaxDelay(s.retryConf.MaxDelay),
		retry.MaxJitter(s.retryConf.Delay),
		retry.RetryIf(reperrors.IsRetryableError),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		if errors.Is(err, reperrors.ErrConflict) {
			return nil, fmt.Errorf("course progress %s/%s: %w", userID, courseID, serverrors.ErrConsistencyConflict)
		}
		return nil, fmt.Errorf("record lesson progress: %w", err)
	}

	metrics.ProgressUpdates.Inc()
	if firstCompletion {
		s.notifier.CourseCompleted(ctx, result)
	}

	return result, nil
}

func (s *progressServiceImpl) GetProgress(ctx context.Context, userID, courseID string) (*model.CourseProgress, error) {
	progress, err := s.progressRepo.Find(ctx, userID, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("course progress %s/%s: %w", userID, courseID, serverrors.ErrNotFound)
		}
		return nil, fmt.Errorf("find course progress: %w", err)
	}
	return progress, nil
}

func (s *progressServiceImpl) loadOrCreate(ctx context.Context, userID, courseID string) (*model.CourseProgress, error) {
	progress, err := s.progressRepo.Find(ctx, userID, courseID)
	if err == nil {
		return progress, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("find course progress: %w", err)
	}

	err = s.progressRepo.CreateIfMissing(ctx, &model.CourseProgress{
		ID:         uuid.NewString(),
		UserID:     userID,
		CourseID:   courseID,
		EnrolledAt: s.now(),
		Lessons:    datatypes.JSONSlice[model.LessonProgress]{},
	})
	if err != nil {
		return nil, fmt.Errorf("create course progress: %w", err)
	}

	// re-read: a concurrent request may have created it first
	progress, err = s.progressRepo.Find(ctx, userID, courseID)
	if err != nil {
		return nil, fmt.Errorf("find course progress: %w", err)
	}
	return progress, nil
}

// applyLessonProgress replaces the lesson's entry, moving it to the end.
func applyLessonProgress(progress *model.CourseProgress, lessonID string, completed bool, percent int, now time.Time) {
	lessons := make(datatypes.JSONSlice[model.LessonProgress], 0, len(progress.Lessons)+1)
	for _, l := range progress.Lessons {
		if l.LessonID != lessonID {
			lessons = append(lessons, l)
		}
	}

	entry := model.LessonProgress{
		LessonID:           lessonID,
		Completed:          completed,
		ProgressPercentage: percent,
	}
	if completed {
		completedAt := now
		entry.CompletedAt = &completedAt
	}

	progress.Lessons = append(lessons, entry)
}

// recomputeAggregate sets percentage = floor(100 * completed / total).
// CompletedAt is stamped the first time the course reaches 100 and kept after.
func recomputeAggregate(progress *model.CourseProgress, total int64, now time.Time) {
	pct := int64(progress.CompletedLessons()) * 100 / total
	if pct > 100 {
		pct = 100
	}

	progress.ProgressPercentage = int(pct)
	progress.Completed = pct == 100
	if progress.Completed && progress.CompletedAt == nil {
		completedAt := now
		progress.CompletedAt = &completedAt
	}
}
