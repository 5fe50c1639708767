package user

import (
	"bytes"
	"encoding/json"
)

// OptionalUUID tells an absent field apart from an explicit null.
type OptionalUUID struct {
	Set   bool
	Value *string
}

func (o *OptionalUUID) UnmarshalJSON(data []byte) error {
	o.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		o.Value = nil
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	o.Value = &s
	return nil
}

// Cleared reports an explicit null or empty string.
func (o OptionalUUID) Cleared() bool {
	return o.Set && (o.Value == nil || *o.Value == "")
}

type UpdateUserRequest struct {
	Role       *string      `json:"role" binding:"omitempty,oneof=employee manager admin"`
	Department *string      `json:"department" binding:"omitempty,max=100"`
	ManagerID  OptionalUUID `json:"manager_id"`
}

type ManagerRef struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type UserResponse struct {
	ID         string      `json:"id"`
	Name       string      `json:"name"`
	Email      string      `json:"email"`
	Role       string      `json:"role"`
	Department string      `json:"department"`
	ManagerID  *string     `json:"manager_id"`
	Manager    *ManagerRef `json:"manager,omitempty"`
	CreatedAt  string      `json:"created_at"`
}

// ManagerResponse is the public projection returned by the manager directory.
type ManagerResponse struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Department string `json:"department"`
}

func MapToResponse(u User) UserResponse {
	resp := UserResponse{
		ID:         u.ID.String(),
		Name:       u.Name,
		Email:      u.Email,
		Role:       u.Role.String(),
		Department: u.Department,
		CreatedAt:  u.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
	}
	if u.ManagerID != nil {
		v := u.ManagerID.String()
		resp.ManagerID = &v
	}
	if u.Manager != nil {
		resp.Manager = &ManagerRef{
			ID:    u.Manager.ID.String(),
			Name:  u.Manager.Name,
			Email: u.Manager.Email,
		}
	}
	return resp
}
