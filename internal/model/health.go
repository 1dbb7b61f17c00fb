package model

// HealthStatus is the overall consistency state of a set of stores
type HealthStatus string

const (
	HealthStatusHealthy   HealthStatus = "healthy"
	HealthStatusDegraded  HealthStatus = "degraded"
	HealthStatusUnhealthy HealthStatus = "unhealthy"
)

// CheckStatus grades a single store check
type CheckStatus string

const (
	CheckStatusHealthy  CheckStatus = "healthy"
	CheckStatusWarning  CheckStatus = "warning"
	CheckStatusCritical CheckStatus = "critical"
)
