package gateway

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

// RawUser is the user object as the API serialises it.
type RawUser struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	CreatedAt string `json:"created_at,omitempty"`
}

type AuthResponse struct {
	Token string  `json:"token"`
	User  RawUser `json:"user"`
}

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// ProfileUpdate carries only the fields to change.
type ProfileUpdate struct {
	Name  *string `json:"name,omitempty"`
	Email *string `json:"email,omitempty"`
}

type ProfileUpdateResponse struct {
	Message string  `json:"message"`
	User    RawUser `json:"user"`
	// Token is set when the email, and therefore the token subject, changed.
	Token string `json:"token,omitempty"`
}

// RawReport keeps the backend's field names, including "_id".
type RawReport struct {
	ID           string   `json:"_id"`
	UserID       string   `json:"user_id"`
	UserName     string   `json:"user_name"`
	UserEmail    string   `json:"user_email"`
	ImageURL     string   `json:"image_url"`
	Location     string   `json:"location"`
	Latitude     *float64 `json:"latitude,omitempty"`
	Longitude    *float64 `json:"longitude,omitempty"`
	Description  string   `json:"description"`
	Status       string   `json:"status"`
	AdminComment string   `json:"admin_comment"`
	Timestamp    string   `json:"timestamp"`
}

// NewReport is the multipart payload of CreateReport.
type NewReport struct {
	ImageName   string
	ImageType   string
	Image       []byte
	Location    string
	Description string
	Latitude    *float64
	Longitude   *float64
}

// ReportUpdate omits nil fields from the body.
type ReportUpdate struct {
	Status       *string `json:"status,omitempty"`
	AdminComment *string `json:"admin_comment,omitempty"`
}

type RawStats struct {
	Pending      int  `json:"pending"`
	InProgress   int  `json:"in_progress"`
	Completed    int  `json:"completed"`
	Total        int  `json:"total"`
	MyPending    *int `json:"my_pending,omitempty"`
	MyInProgress *int `json:"my_in_progress,omitempty"`
	MyCompleted  *int `json:"my_completed,omitempty"`
	MyTotal      *int `json:"my_total,omitempty"`
}

func (c *Client) Register(ctx context.Context, in RegisterRequest) (*AuthResponse, error) {
	var out AuthResponse
	if err := c.Do(ctx, Request{Method: http.MethodPost, Path: "/auth/register", Body: in}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Login(ctx context.Context, in LoginRequest) (*AuthResponse, error) {
	var out AuthResponse
	if err := c.Do(ctx, Request{Method: http.MethodPost, Path: "/auth/login", Body: in}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Profile(ctx context.Context) (*RawUser, error) {
	var out RawUser
	if err := c.Do(ctx, Request{Method: http.MethodGet, Path: "/user/profile"}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateProfile(ctx context.Context, in ProfileUpdate) (*ProfileUpdateResponse, error) {
	var out ProfileUpdateResponse
	if err := c.Do(ctx, Request{Method: http.MethodPut, Path: "/user/profile", Body: in}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdatePassword(ctx context.Context, current, next string) error {
	body := map[string]string{"current_password": current, "new_password": next}
	return c.Do(ctx, Request{Method: http.MethodPut, Path: "/user/password", Body: body}, nil)
}

// CreateReport uploads the image together with the report fields.
func (c *Client) CreateReport(ctx context.Context, in NewReport) (*RawReport, error) {
	fields := []Field{
		{Name: "location", Value: in.Location},
		{Name: "description", Value: in.Description},
	}
	if in.Latitude != nil && in.Longitude != nil {
		fields = append(fields,
			Field{Name: "latitude", Value: strconv.FormatFloat(*in.Latitude, 'f', -1, 64)},
			Field{Name: "longitude", Value: strconv.FormatFloat(*in.Longitude, 'f', -1, 64)},
		)
	}
	files := []File{{Field: "image", Name: in.ImageName, ContentType: in.ImageType, Data: in.Image}}

	var out RawReport
	if err := c.Upload(ctx, "/reports/create", fields, files, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListUserReports(ctx context.Context, userID string) ([]RawReport, error) {
	var out []RawReport
	path := "/reports/user/" + url.PathEscape(userID)
	if err := c.Do(ctx, Request{Method: http.MethodGet, Path: path}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ListAllReports(ctx context.Context) ([]RawReport, error) {
	var out []RawReport
	if err := c.Do(ctx, Request{Method: http.MethodGet, Path: "/reports/all"}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) UpdateReport(ctx context.Context, id string, in ReportUpdate) (*RawReport, error) {
	var out RawReport
	path := "/reports/update/" + url.PathEscape(id)
	if err := c.Do(ctx, Request{Method: http.MethodPut, Path: path, Body: in}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Stats(ctx context.Context) (*RawStats, error) {
	var out RawStats
	if err := c.Do(ctx, Request{Method: http.MethodGet, Path: "/reports/stats"}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
