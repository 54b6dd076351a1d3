package dto

// CreateTechnicianRequest payload for admin roster creation.
type CreateTechnicianRequest struct {
	Name              string   `json:"name"`
	Email             string   `json:"email"`
	AvailabilityTimes []string `json:"availability_times"`
}

// UpdateTechnicianRequest payload for admin roster edits.
type UpdateTechnicianRequest struct {
	Name              *string  `json:"name"`
	Email             *string  `json:"email"`
	IsActive          *bool    `json:"is_active"`
	AvailabilityTimes []string `json:"availability_times"`
}

// TechnicianCreatedResponse carries the one-time temporary password.
type TechnicianCreatedResponse struct {
	User         UserResponse `json:"user"`
	TempPassword string       `json:"temp_password"`
}
