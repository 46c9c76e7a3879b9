package server

import (
	"context"

	"neurogrid-backend/internal/handler"
	appmw "neurogrid-backend/internal/middleware"
	"neurogrid-backend/internal/model"
	"neurogrid-backend/internal/service"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

type Server struct {
	echo            *echo.Echo
	jwtSecret       []byte
	checkoutHandler *handler.CheckoutHandler
	courseHandler   *handler.CourseHandler
	bookingHandler  *handler.BookingHandler
}

func NewServer(
	checkoutService service.CheckoutService,
	courseService service.CourseService,
	bookingService service.BookingService,
	jwtSecret []byte,
	logger *zap.Logger,
) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = handler.ErrorHandler(e, logger)

	// metrics wrap the logger, which hands errors to echo first so both see
	// the final status
	e.Use(appmw.MetricsMiddleware())
	e.Use(appmw.LoggerMiddleware(logger))
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	s := &Server{
		echo:            e,
		jwtSecret:       jwtSecret,
		checkoutHandler: handler.NewCheckoutHandler(checkoutService),
		courseHandler:   handler.NewCourseHandler(courseService),
		bookingHandler:  handler.NewBookingHandler(bookingService),
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.echo.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := s.echo.Group("/api")

	api.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{"status": "ok"})
	})

	auth := appmw.AuthMiddleware(s.jwtSecret)

	// -------- payments --------
	payments := api.Group("/payments")
	payments.GET("/packages", s.checkoutHandler.Packages)
	payments.POST("/checkout/session", s.checkoutHandler.CreateSession, auth)
	payments.GET("/checkout/status/:session_id", s.checkoutHandler.Status, auth)
	payments.GET("/history", s.checkoutHandler.History, auth)

	// -------- courses --------
	courses := api.Group("/courses")
	courses.GET("", s.courseHandler.ListPublished)
	courses.GET("/my-courses", s.courseHandler.MyCourses, auth)
	courses.GET("/admin/all", s.courseHandler.ListAll, auth, appmw.RequireRole(model.RoleAdmin))
	courses.GET("/:course_id", s.courseHandler.Get)
	courses.GET("/:course_id/access", s.courseHandler.CheckAccess, auth)
	courses.PUT("/:course_id/lessons/:lesson_id/progress", s.courseHandler.UpdateLessonProgress, auth)
	courses.POST("", s.courseHandler.Create, auth, appmw.RequireRole(model.RoleInstructor, model.RoleAdmin))
	courses.PUT("/:course_id/publish", s.courseHandler.TogglePublish, auth, appmw.RequireRole(model.RoleAdmin))

	// -------- bookings --------
	bookings := api.Group("/bookings")
	bookings.GET("/my-bookings", s.bookingHandler.MyBookings, auth)
}

func (s *Server) Handler() *echo.Echo {
	return s.echo
}

func (s *Server) Start(address string) error {
	return s.echo.Start(address)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}
