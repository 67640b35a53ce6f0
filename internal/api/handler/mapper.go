package handler

import (
	"github.com/wastewise/wastewise/internal/core/domain"
	"github.com/wastewise/wastewise/internal/core/ports"
)

// --- Service result → HTTP response ---

func toUserResponse(u *domain.User) userResponse {
	resp := userResponse{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
		Role:  string(u.Role),
	}
	if !u.CreatedAt.IsZero() {
		created := u.CreatedAt
		resp.CreatedAt = &created
	}
	return resp
}

func toReportResponse(r *domain.Report) reportResponse {
	return reportResponse{
		ID:           r.ID,
		UserID:       r.UserID,
		UserName:     r.UserName,
		UserEmail:    r.UserEmail,
		ImageURL:     r.ImageURL,
		Location:     r.Location,
		Latitude:     r.Latitude,
		Longitude:    r.Longitude,
		Description:  r.Description,
		Status:       string(r.Status),
		AdminComment: r.AdminComment,
		Timestamp:    r.Timestamp,
	}
}

func toReportResponses(rs []*domain.Report) []reportResponse {
	out := make([]reportResponse, 0, len(rs))
	for _, r := range rs {
		out = append(out, toReportResponse(r))
	}
	return out
}

func toStatsResponse(st *domain.Stats) statsResponse {
	resp := statsResponse{
		Pending:    st.Pending,
		InProgress: st.InProgress,
		Completed:  st.Completed,
		Total:      st.Total,
	}
	if st.Mine != nil {
		mine := *st.Mine
		resp.MyPending = &mine.Pending
		resp.MyInProgress = &mine.InProgress
		resp.MyCompleted = &mine.Completed
		resp.MyTotal = &mine.Total
	}
	return resp
}

// --- Request → Service input ---

func toReportFields(req updateReportRequest) ports.ReportFields {
	var fields ports.ReportFields
	if req.Status != nil && *req.Status != "" {
		st := domain.ReportStatus(*req.Status)
		fields.Status = &st
	}
	fields.AdminComment = req.AdminComment
	return fields
}

func toProfileFields(req updateProfileRequest) ports.ProfileFields {
	return ports.ProfileFields{Name: req.Name, Email: req.Email}
}
