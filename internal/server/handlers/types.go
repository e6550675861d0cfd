package handlers

// DashboardRequest carries the only input the gateway needs: the address
// the commuter is leaving from.
type DashboardRequest struct {
	Address string `form:"address" json:"address" validate:"required,min=1" binding:"required"`
}

// ErrorResponse is returned for rejected requests. Upstream failure never
// produces one; it travels inside the dashboard result instead.
type ErrorResponse struct {
	Error   string      `json:"error"`
	Code    string      `json:"code,omitempty"`
	Details interface{} `json:"details,omitempty"`
}

// ServiceInfoResponse describes the running service on the root endpoint.
type ServiceInfoResponse struct {
	Service string `json:"service"`
	Version string `json:"version"`
	Status  string `json:"status"`
	Health  string `json:"health"`
}

// HealthResponse represents health check response with validation
type HealthResponse struct {
	Status    string `json:"status"`
	Uptime    string `json:"uptime"`
	Timestamp string `json:"timestamp,omitempty"`
}
