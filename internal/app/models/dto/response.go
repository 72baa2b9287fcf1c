package dto

// HealthResponse is returned by the health endpoint
type HealthResponse struct {
	Status   string `json:"status" example:"ok"`
	Database string `json:"database" example:"ok"`
}
