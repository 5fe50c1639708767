package leave

import "time"

const dateLayout = "2006-01-02"

type CreateLeaveRequest struct {
	LeaveType string `json:"leave_type" binding:"required,oneof=sick casual annual unpaid"`
	StartDate string `json:"start_date" binding:"required"`
	EndDate   string `json:"end_date" binding:"required"`
	Reason    string `json:"reason" binding:"required"`
}

type ReviewLeaveRequest struct {
	Status  string `json:"status" binding:"required,oneof=approved rejected"`
	Comment string `json:"comment"`
}

type EmployeeRef struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Department string `json:"department"`
}

type ReviewerRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type LeaveResponse struct {
	ID            string       `json:"id"`
	EmployeeID    string       `json:"employee_id"`
	Employee      *EmployeeRef `json:"employee,omitempty"`
	LeaveType     string       `json:"leave_type"`
	StartDate     string       `json:"start_date"`
	EndDate       string       `json:"end_date"`
	Reason        string       `json:"reason"`
	Status        string       `json:"status"`
	ReviewedBy    *string      `json:"reviewed_by"`
	Reviewer      *ReviewerRef `json:"reviewer,omitempty"`
	ReviewedAt    *string      `json:"reviewed_at"`
	ReviewComment string       `json:"review_comment"`
	CreatedAt     string       `json:"created_at"`
}

func mapToResponse(l Leave) LeaveResponse {
	resp := LeaveResponse{
		ID:            l.ID.String(),
		EmployeeID:    l.EmployeeID.String(),
		LeaveType:     l.LeaveType,
		StartDate:     l.StartDate.Format(dateLayout),
		EndDate:       l.EndDate.Format(dateLayout),
		Reason:        l.Reason,
		Status:        l.Status,
		ReviewComment: l.ReviewComment,
		CreatedAt:     l.CreatedAt.UTC().Format(time.RFC3339),
	}
	if l.Employee != nil {
		resp.Employee = &EmployeeRef{
			ID:         l.Employee.ID.String(),
			Name:       l.Employee.Name,
			Email:      l.Employee.Email,
			Department: l.Employee.Department,
		}
	}
	if l.ReviewedBy != nil {
		v := l.ReviewedBy.String()
		resp.ReviewedBy = &v
	}
	if l.Reviewer != nil {
		resp.Reviewer = &ReviewerRef{ID: l.Reviewer.ID.String(), Name: l.Reviewer.Name}
	}
	if l.ReviewedAt != nil {
		v := l.ReviewedAt.UTC().Format(time.RFC3339)
		resp.ReviewedAt = &v
	}
	return resp
}

func mapToListResponse(leaves []Leave) []LeaveResponse {
	resp := make([]LeaveResponse, len(leaves))
	for i, l := range leaves {
		resp[i] = mapToResponse(l)
	}
	return resp
}
