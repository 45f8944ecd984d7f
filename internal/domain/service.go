package domain

import "time"

// ServiceCategory classifies a raw service name for grouping and filtering.
type ServiceCategory string

const (
	CategoryTerminal   ServiceCategory = "terminal"
	CategoryDevServer  ServiceCategory = "dev-server"
	CategoryAPIService ServiceCategory = "api-service"
	CategoryBuildTool  ServiceCategory = "build-tool"
	CategoryTestRunner ServiceCategory = "test-runner"
	CategoryUnknown    ServiceCategory = "unknown"
)

// ServiceInfo is a derived per-service aggregation over the canonical log
// set. It is recomputed on every change and never stored independently.
type ServiceInfo struct {
	ServiceName  string          `json:"serviceName"`
	DisplayName  string          `json:"displayName"`
	Category     ServiceCategory `json:"category"`
	LogCount     int             `json:"logCount"`
	IsActive     bool            `json:"isActive"`
	LastActivity time.Time       `json:"lastActivity"`
}

// LogStats mirrors the upstream aggregate log statistics resource.
type LogStats struct {
	TotalCount   int            `json:"totalCount"`
	CountByLevel map[string]int `json:"countByLevel,omitempty"`
	ErrorRate    float64        `json:"errorRate,omitempty"`
}

// ServiceHealth mirrors the optional upstream per-service health summary.
type ServiceHealth struct {
	Service string `json:"service"`
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}
