package dto

// ConnectKeyRequest 提交 BYOK 密钥
type ConnectKeyRequest struct {
	APIKey string `json:"apiKey" binding:"required,min=20,max=256"`
	// RememberHours 会话保留小时数，缺省 24，上限一周
	RememberHours int `json:"rememberHours" binding:"omitempty,gt=0,max=168"`
}

// ConnectKeyResponse 密钥会话建立结果
type ConnectKeyResponse struct {
	Connected bool  `json:"connected"`
	ExpiresAt int64 `json:"expiresAt"`
}

// KeyStatusResponse 密钥会话状态
type KeyStatusResponse struct {
	Connected bool  `json:"connected"`
	ExpiresAt int64 `json:"expiresAt,omitempty"`
}
