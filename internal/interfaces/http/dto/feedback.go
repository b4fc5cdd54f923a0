package dto

// FeedbackRequest 用户反馈
type FeedbackRequest struct {
	Message string `json:"message" binding:"required,min=10,max=2000"`
	Email   string `json:"email" binding:"omitempty,email"`
}

// FeedbackResponse 反馈提交结果
type FeedbackResponse struct {
	Success bool `json:"success"`
}
