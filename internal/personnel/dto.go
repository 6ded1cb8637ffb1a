package personnel

type CreateFirefighterRequest struct {
	Name               string  `json:"name" validate:"required,max=200"`
	Rank               string  `json:"rank" validate:"required,max=100"`
	RegistrationNumber string  `json:"registration_number" validate:"required,max=50"`
	Email              *string `json:"email,omitempty" validate:"omitempty,email"`
	Phone              *string `json:"phone,omitempty" validate:"omitempty,max=50"`
}

type UpdateFirefighterRequest struct {
	Name     *string `json:"name,omitempty" validate:"omitempty,max=200"`
	Rank     *string `json:"rank,omitempty" validate:"omitempty,max=100"`
	Email    *string `json:"email,omitempty" validate:"omitempty,email"`
	Phone    *string `json:"phone,omitempty" validate:"omitempty,max=50"`
	IsActive *bool   `json:"is_active,omitempty"`
}

type ListFirefightersRequest struct {
	IsActive *bool   `json:"is_active,omitempty"`
	Search   *string `json:"search,omitempty"`
	Limit    int     `json:"limit" validate:"gte=0,lte=1000"`
	Offset   int     `json:"offset" validate:"gte=0"`
}
