package dto

import "time"

type CheckoutSessionRequest struct {
	PaymentType string `json:"payment_type" query:"payment_type"`
	PackageID   string `json:"package_id" query:"package_id"`
	ItemID      string `json:"item_id" query:"item_id"`
}

type CheckoutSession struct {
	SessionID string `json:"session_id"`
	URL       string `json:"url"`
	PaymentID string `json:"payment_id"`
}

type CheckoutStatus struct {
	SessionID     string            `json:"session_id"`
	Status        string            `json:"status"`
	PaymentStatus string            `json:"payment_status"`
	AmountTotal   float64           `json:"amount_total"`
	Currency      string            `json:"currency"`
	Metadata      map[string]string `json:"metadata,omitempty"`
}

type Package struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Price    float64  `json:"price"`
	Currency string   `json:"currency"`
	Features []string `json:"features"`
}

type PaymentHistoryItem struct {
	ID          string    `json:"id"`
	Amount      float64   `json:"amount"`
	Currency    string    `json:"currency"`
	Status      string    `json:"status"`
	PaymentType string    `json:"payment_type"`
	ItemName    string    `json:"item_name"`
	CreatedAt   time.Time `json:"created_at"`
}

type LessonProgressRequest struct {
	ProgressPercentage int  `json:"progress_percentage" query:"progress_percentage"`
	Completed          bool `json:"completed" query:"completed"`
}

type LessonInput struct {
	Title           string `json:"title"`
	Description     string `json:"description"`
	VideoURL        string `json:"video_url"`
	Content         string `json:"content"`
	DurationMinutes int    `json:"duration_minutes"`
	Order           int    `json:"order"`
}

type CreateCourseRequest struct {
	Title        string        `json:"title"`
	Description  string        `json:"description"`
	Price        float64       `json:"price"`
	Level        string        `json:"level"`
	ThumbnailURL string        `json:"thumbnail_url"`
	Published    bool          `json:"is_published"`
	Lessons      []LessonInput `json:"lessons"`
}

type LessonProgress struct {
	LessonID           string     `json:"lesson_id"`
	Completed          bool       `json:"completed"`
	ProgressPercentage int        `json:"progress_percentage"`
	CompletedAt        *time.Time `json:"completed_at,omitempty"`
}

type CourseProgress struct {
	CourseID           string           `json:"course_id"`
	EnrolledAt         time.Time        `json:"enrollment_date"`
	ProgressPercentage int              `json:"progress_percentage"`
	Completed          bool             `json:"completed"`
	CompletedAt        *time.Time       `json:"completion_date,omitempty"`
	Lessons            []LessonProgress `json:"lessons_progress"`
}

type Entitlement struct {
	PackageID   string     `json:"package"`
	PurchasedAt time.Time  `json:"purchase_date"`
	ExpiresAt   *time.Time `json:"expiry_date"`
	Active      bool       `json:"is_active"`
}

type CourseAccess struct {
	HasAccess bool            `json:"has_access"`
	Progress  *CourseProgress `json:"progress"`
	Access    *Entitlement    `json:"access_details"`
}

type Lesson struct {
	ID              string `json:"id"`
	Title           string `json:"title"`
	Description     string `json:"description"`
	VideoURL        string `json:"video_url,omitempty"`
	DurationMinutes int    `json:"duration_minutes"`
	Order           int    `json:"order"`
}

type Course struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Price        float64   `json:"price"`
	Level        string    `json:"level"`
	ThumbnailURL string    `json:"thumbnail_url,omitempty"`
	Published    bool      `json:"is_published"`
	InstructorID string    `json:"instructor_id,omitempty"`
	Enrollments  int       `json:"enrollment_count"`
	Lessons      []Lesson  `json:"lessons,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

type MyCourse struct {
	Course   Course          `json:"course"`
	Access   Entitlement     `json:"access"`
	Progress *CourseProgress `json:"progress"`
}

type Booking struct {
	ID          string    `json:"id"`
	BookingType string    `json:"booking_type"`
	Status      string    `json:"status"`
	PaymentID   string    `json:"payment_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
