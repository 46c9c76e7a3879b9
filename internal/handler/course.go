package handler

import (
	"net/http"
	"strconv"

	"neurogrid-backend/internal/dto"
	"neurogrid-backend/internal/service"

	"github.com/labstack/echo/v4"
)

type CourseHandler struct {
	courseService service.CourseService
}

func NewCourseHandler(courseService service.CourseService) *CourseHandler {
	return &CourseHandler{
		courseService: courseService,
	}
}

func (h *CourseHandler) ListPublished(c echo.Context) error {
	courses, err := h.courseService.ListPublished(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, courses)
}

func (h *CourseHandler) ListAll(c echo.Context) error {
	courses, err := h.courseService.ListAll(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, courses)
}

func (h *CourseHandler) Get(c echo.Context) error {
	course, err := h.courseService.Get(c.Request().Context(), c.Param("course_id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, course)
}

func (h *CourseHandler) CheckAccess(c echo.Context) error {
	ctx := c.Request().Context()

	p, err := principal(c)
	if err != nil {
		return err
	}

	access, err := h.courseService.CheckAccess(ctx, p, c.Param("course_id"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, access)
}

func (h *CourseHandler) UpdateLessonProgress(c echo.Context) error {
	ctx := c.Request().Context()

	p, err := principal(c)
	if err != nil {
		return err
	}

	var req dto.LessonProgressRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}
	if raw := c.QueryParam("progress_percentage"); raw != "" {
		if req.ProgressPercentage, err = strconv.Atoi(raw); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid progress_percentage")
		}
	}
	if raw := c.QueryParam("completed"); raw != "" {
		if req.Completed, err = strconv.ParseBool(raw); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid completed")
		}
	}

	progress, err := h.courseService.UpdateLessonProgress(ctx, p, c.Param("course_id"), c.Param("lesson_id"), &req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, progress)
}

func (h *CourseHandler) MyCourses(c echo.Context) error {
	ctx := c.Request().Context()

	p, err := principal(c)
	if err != nil {
		return err
	}

	courses, err := h.courseService.MyCourses(ctx, p)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, courses)
}

func (h *CourseHandler) Create(c echo.Context) error {
	ctx := c.Request().Context()

	p, err := principal(c)
	if err != nil {
		return err
	}

	var req dto.CreateCourseRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}

	courseID, err := h.courseService.Create(ctx, p, &req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, map[string]string{
		"course_id": courseID,
	})
}

func (h *CourseHandler) TogglePublish(c echo.Context) error {
	published, err := h.courseService.TogglePublish(c.Request().Context(), c.Param("course_id"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]bool{
		"is_published": published,
	})
}
