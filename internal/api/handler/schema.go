package handler

import "time"

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Detail string `json:"detail"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// --- Auth ---

type registerRequest struct {
	Name     string `json:"name"     validate:"required,min=2,max=100"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role"     validate:"omitempty,oneof=user admin"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Role     string `json:"role"     validate:"required,oneof=user admin"`
}

type userResponse struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Role      string     `json:"role"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
}

type authResponse struct {
	Token string       `json:"token"`
	User  userResponse `json:"user"`
}

// --- Profile ---

type updateProfileRequest struct {
	Name  *string `json:"name"  validate:"omitempty,min=2,max=100"`
	Email *string `json:"email" validate:"omitempty,email"`
}

type updateProfileResponse struct {
	Message string       `json:"message"`
	User    userResponse `json:"user"`
	Token   string       `json:"token,omitempty"`
}

type updatePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password"     validate:"required,min=6"`
}

// --- Reports ---

// createReportForm mirrors the multipart fields of POST /reports/create.
// The image part and the optional coordinates are read separately.
type createReportForm struct {
	Location    string   `form:"location"    json:"location"    validate:"required,min=3,max=200"`
	Description string   `form:"description" json:"description" validate:"required,min=10,max=1000"`
	Latitude    *float64 `json:"latitude"    validate:"omitempty,latitude"`
	Longitude   *float64 `json:"longitude"   validate:"omitempty,longitude"`
}

type updateReportRequest struct {
	Status       *string `json:"status"`
	AdminComment *string `json:"admin_comment"`
}

// reportResponse keeps the stored field names, including the "_id" key.
type reportResponse struct {
	ID           string    `json:"_id"`
	UserID       string    `json:"user_id"`
	UserName     string    `json:"user_name"`
	UserEmail    string    `json:"user_email"`
	ImageURL     string    `json:"image_url"`
	Location     string    `json:"location"`
	Latitude     *float64  `json:"latitude,omitempty"`
	Longitude    *float64  `json:"longitude,omitempty"`
	Description  string    `json:"description"`
	Status       string    `json:"status"`
	AdminComment string    `json:"admin_comment"`
	Timestamp    time.Time `json:"timestamp"`
}

// statsResponse flattens the caller's own counts into my_* fields, present
// only for citizens.
type statsResponse struct {
	Pending      int  `json:"pending"`
	InProgress   int  `json:"in_progress"`
	Completed    int  `json:"completed"`
	Total        int  `json:"total"`
	MyPending    *int `json:"my_pending,omitempty"`
	MyInProgress *int `json:"my_in_progress,omitempty"`
	MyCompleted  *int `json:"my_completed,omitempty"`
	MyTotal      *int `json:"my_total,omitempty"`
}
