package models

type AnalyzeRequest struct {
	URL    string `json:"url" binding:"required"`
	UserID string `json:"user_id"`
}

type AnalyzeResponse struct {
	ID              *string          `json:"id"`
	Score           int              `json:"score"`
	Issues          []Issue          `json:"issues"`
	Recommendations []Recommendation `json:"recommendations"`
	Performance     []Metric         `json:"performance"`
}

type CheckoutRequest struct {
	UserID     string `json:"user_id"`
	Email      string `json:"email" binding:"required"`
	SuccessURL string `json:"success_url" binding:"required"`
	CancelURL  string `json:"cancel_url" binding:"required"`
}
