package dto

// RegisterRequest HTTP层注册请求
// 说明：HTTP层的DTO，包含参数验证tag
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email" example:"alice@example.com"`
	Password string `json:"password" binding:"required,min=8,max=20" example:"secret123"`
	Nickname string `json:"nickname" binding:"required,min=2,max=50" example:"alice"`
}

// LoginRequest HTTP层登录请求
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email" example:"alice@example.com"`
	Password string `json:"password" binding:"required" example:"secret123"`
}

// RefreshTokenRequest 刷新Access Token请求
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// UpdateProfileRequest 更新资料请求(字段为空表示不修改)
type UpdateProfileRequest struct {
	Nickname     *string `json:"nickname" binding:"omitempty,min=2,max=50" example:"alice"`
	ProfileImage *string `json:"profile_image" binding:"omitempty,max=255" example:"avatars/alice.png"`
}
