package auth

type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Nombre   string `json:"nombre" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token string `json:"token"`
	User  struct {
		ID     int64  `json:"id"`
		Email  string `json:"email"`
		Nombre string `json:"nombre"`
		Role   string `json:"role"`
	} `json:"user"`
}
