package dto

// ── 导入 DTO ──

// ImportRequest 导入请求；DryRun 为真时事务回滚，仅返回摘要
type ImportRequest struct {
	DryRun bool `json:"dry_run" form:"dry_run"`
}

// ImportPhaseSummary 单个导入阶段的摘要
type ImportPhaseSummary struct {
	Phase   string `json:"phase"`
	Rows    int    `json:"rows"`
	Created int    `json:"created"`
	Skipped int    `json:"skipped"`
	Errors  int    `json:"errors"`
}

// ImportSummary 一次导入的整体摘要
type ImportSummary struct {
	File   string               `json:"file"`
	DryRun bool                 `json:"dry_run"`
	Phases []ImportPhaseSummary `json:"phases"`
}
