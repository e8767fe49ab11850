package dto

// ── 角色/权限 DTO ──

// CreateRoleAssignmentRequest 指派角色请求
type CreateRoleAssignmentRequest struct {
	UserID    string `json:"user_id"    binding:"required,uuid"`
	Role      string `json:"role"       binding:"required,max=30"`
	CollegeID string `json:"college_id" binding:"omitempty,uuid"`
	StartDate string `json:"start_date" binding:"required"`
	EndDate   string `json:"end_date"   binding:"omitempty"`
}

// RoleAssignmentResponse 角色指派响应
type RoleAssignmentResponse struct {
	ID          string `json:"id"`
	UserID      string `json:"user_id"`
	Role        string `json:"role"`
	CollegeID   string `json:"college_id,omitempty"`
	CollegeCode string `json:"college_code,omitempty"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date,omitempty"`
}

// RebuildPermissionsResponse 权限矩阵重建摘要
type RebuildPermissionsResponse struct {
	Groups      int `json:"groups"`
	Permissions int `json:"permissions"`
	Attached    int `json:"attached"`
}
