package bookingclient

import "time"

// Appointment mirrors the server-side appointment payload.
type Appointment struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone"`
	ServiceType string    `json:"service_type"`
	Date        string    `json:"date"`
	Time        string    `json:"time"`
	Message     string    `json:"message"`
	Status      string    `json:"status"`
	PatientID   string    `json:"patient_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CreateAppointmentRequest is the booking payload.
type CreateAppointmentRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	ServiceType string `json:"service_type"`
	Date        string `json:"date"`
	Time        string `json:"time"`
	Message     string `json:"message,omitempty"`
	PatientID   string `json:"patient_id,omitempty"`
}

// ResolvedSlot is one bookable (or visibly blocked) time on a date.
type ResolvedSlot struct {
	ID             string `json:"id"`
	Date           string `json:"date"`
	Time           string `json:"time"`
	Available      bool   `json:"available"`
	Selectable     bool   `json:"selectable"`
	DisabledReason string `json:"disabled_reason,omitempty"`
}

type slotsResponse struct {
	Date  string         `json:"date"`
	Slots []ResolvedSlot `json:"slots"`
}

type searchResponse struct {
	Appointments []Appointment `json:"appointments"`
}

type listResponse struct {
	Appointments []Appointment `json:"appointments"`
}

// Stats aggregates appointment counts per status.
type Stats struct {
	Total     int64 `json:"total"`
	Pending   int64 `json:"pending"`
	Confirmed int64 `json:"confirmed"`
	Cancelled int64 `json:"cancelled"`
	Completed int64 `json:"completed"`
}

// CalendarEntry is one cell of the admin calendar grid.
type CalendarEntry struct {
	Date          string `json:"date"`
	Time          string `json:"time"`
	Available     bool   `json:"available"`
	Status        string `json:"status,omitempty"`
	AppointmentID string `json:"appointment_id,omitempty"`
	PatientName   string `json:"patient_name,omitempty"`
}

type calendarResponse struct {
	Start   string          `json:"start"`
	End     string          `json:"end"`
	Entries []CalendarEntry `json:"entries"`
}

// Notification mirrors the server-side notification payload.
type Notification struct {
	ID            string     `json:"id"`
	UserEmail     string     `json:"user_email"`
	Title         string     `json:"title"`
	Message       string     `json:"message"`
	Type          string     `json:"type"`
	Category      string     `json:"category"`
	Read          bool       `json:"read"`
	AppointmentID string     `json:"appointment_id,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	ReadAt        *time.Time `json:"read_at,omitempty"`
}

type notificationsResponse struct {
	Notifications []Notification `json:"notifications"`
}

// User mirrors the server-side account payload.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

// Session is the result of a successful login or registration.
type Session struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}
