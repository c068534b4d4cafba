package user

// AccountResponse represents account data in API responses
type AccountResponse struct {
	ID         string  `json:"id"`
	UserType   string  `json:"user_type"`
	Email      string  `json:"email"`
	FullName   string  `json:"full_name"`
	Department *string `json:"department,omitempty"`
	IsActive   bool    `json:"is_active"`
}

func NewAccountResponse(a Account) AccountResponse {
	return AccountResponse{
		ID:         a.Ref.ID,
		UserType:   string(a.Ref.Type),
		Email:      a.Email,
		FullName:   a.FullName,
		Department: a.Department,
		IsActive:   a.IsActive,
	}
}
