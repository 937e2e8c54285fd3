package model

// ErrorResponse 错误响应
type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

// HealthResponse 健康检查响应
type HealthResponse struct {
	Status      string `json:"status"` // ok 或 fallback
	Service     string `json:"service"`
	ModelLoaded bool   `json:"model_loaded"`
	Mode        string `json:"mode"` // refinement 或 fallback
	Version     string `json:"version"`
}

// VersionResponse 构建信息
type VersionResponse struct {
	Version   string `json:"version"`
	BuildTime string `json:"build_time"`
	BuildID   string `json:"build_id"`
	GitCommit string `json:"git_commit"`
	GitBranch string `json:"git_branch"`
}
