package dto

// StatusCount 按状态计数
type StatusCount struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

// ProjectStats 项目统计
type ProjectStats struct {
	Total    int64            `json:"total"`
	ByStatus map[string]int64 `json:"by_status"`
}

// TaskStats 任务统计
type TaskStats struct {
	Total    int64            `json:"total"`
	ByStatus map[string]int64 `json:"by_status"`
	Overdue  int64            `json:"overdue"`
}

// TeamStats 成员统计
type TeamStats struct {
	Total    int64            `json:"total"`
	ByStatus map[string]int64 `json:"by_status"`
}

// TimesheetStats 最近30天工时统计
type TimesheetStats struct {
	TotalHours       float64 `json:"total_hours"`
	EntryCount       int64   `json:"entry_count"`
	ActiveMembers    int64   `json:"active_members"`
	AvgHoursPerEntry float64 `json:"avg_hours_per_entry"`
	AvgHoursPerDay   float64 `json:"avg_hours_per_day"`
	WindowDays       int     `json:"window_days"`
}

// ProjectShare 项目工时占比
type ProjectShare struct {
	ProjectID   int64   `json:"project_id"`
	ProjectName string  `json:"project_name"`
	Hours       float64 `json:"hours"`
	Percentage  float64 `json:"percentage"`
}

// ActivityItem 最近动态
type ActivityItem struct {
	Type      string `json:"type"` // project or task
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	Status    string `json:"status"`
	CreatedAt string `json:"created_at"`
}

// DashboardResponse 看板快照
type DashboardResponse struct {
	Projects            ProjectStats    `json:"projects"`
	Tasks               TaskStats       `json:"tasks"`
	Team                TeamStats       `json:"team"`
	Timesheet           TimesheetStats  `json:"timesheet"`
	ProjectDistribution []*ProjectShare `json:"project_distribution"`
	RecentActivity      []*ActivityItem `json:"recent_activity"`
}
