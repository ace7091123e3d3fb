package models

type LoginRequest struct {
	Email    string `json:"email" form:"email" binding:"required,email"`
	Password string `json:"password" form:"password" binding:"required"`
}

type LoginResponse struct {
	Token string     `json:"token"`
	User  PublicUser `json:"user"`
}

type UpdateResponse struct {
	Msg string     `json:"msg"`
	New PublicUser `json:"new"`
}
