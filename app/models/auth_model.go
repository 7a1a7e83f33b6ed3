package models

type SignUp struct {
	Name     string   `json:"name" validate:"required,lte=255"`
	Email    string   `json:"email" validate:"required,email,lte=255"`
	Password string   `json:"password" validate:"required,gte=6,lte=255"`
	Bio      string   `json:"bio,omitempty" validate:"lte=500"`
	Skills   []string `json:"skills,omitempty"`
	Learning []string `json:"learning,omitempty"`
}

type SignIn struct {
	Email    string `json:"email" validate:"required,email,lte=255"`
	Password string `json:"password" validate:"required,lte=255"`
}
