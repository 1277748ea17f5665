package constants

// 用户角色
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// 项目状态
const (
	ProjectStatusNotStarted = "not-started"
	ProjectStatusInProgress = "in-progress"
	ProjectStatusOnHold     = "on-hold"
	ProjectStatusCompleted  = "completed"
	ProjectStatusUndefined  = "undefined"
)

// ProjectStatuses 所有项目状态（看板统计按此顺序输出）
var ProjectStatuses = []string{
	ProjectStatusNotStarted,
	ProjectStatusInProgress,
	ProjectStatusOnHold,
	ProjectStatusCompleted,
	ProjectStatusUndefined,
}

// 任务状态
const (
	TaskStatusToDo       = "to-do"
	TaskStatusInProgress = "in-progress"
	TaskStatusCompleted  = "completed"
)

var TaskStatuses = []string{TaskStatusToDo, TaskStatusInProgress, TaskStatusCompleted}

// 优先级
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// 团队成员状态
const (
	MemberStatusActive  = "active"
	MemberStatusAway    = "away"
	MemberStatusOffline = "offline"
)

var MemberStatuses = []string{MemberStatusActive, MemberStatusAway, MemberStatusOffline}

// 日期格式
const (
	DateLayout = "2006-01-02"
)

// 看板统计窗口
const (
	DashboardWindowDays    = 30
	DashboardTopProjects   = 5
	DashboardRecentPerKind = 5
	DashboardRecentLimit   = 10
)

// 工时上限（单条记录）
const MaxHoursPerEntry = 24

// JWT 相关
const (
	JWTTypeAccess  = "access"
	JWTTypeRefresh = "refresh"
)

// HTTP Header / Cookie
const (
	HeaderAuthorization = "Authorization"
	HeaderBearerPrefix  = "Bearer "
	HeaderRequestID     = "X-Request-ID"
	HeaderAccessToken   = "X-Access-Token"
	SessionCookieName   = "logify_session"
)

// gin context keys
const (
	ContextKeyPrincipal = "principal"
	ContextKeyRequestID = "request_id"
)
