package dto

// RegisterRequest creates the login identity and its profile together.
type RegisterRequest struct {
	Username  string `json:"username" binding:"required,min=3,max=150"`
	Password  string `json:"password" binding:"required,min=8,max=128"`
	Email     string `json:"email" binding:"required,email,max=254"`
	Nickname  string `json:"nickname" binding:"required,max=64"`
	Sex       string `json:"sex" binding:"required,oneof=male female other"`
	BirthDate string `json:"birth_date" binding:"required,datetime=2006-01-02"`
	Bio       string `json:"bio" binding:"max=250"`
	Avatar    string `json:"avatar" binding:"max=255"`
}

// LoginRequest: payload for obtaining a token pair
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// TokenPair is returned by registration, login and refresh.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// RefreshTokenRequest: payload for rotating a refresh token
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}
