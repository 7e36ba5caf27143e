package router

import (
	"net/url"
)

// 页面标题
const (
	TitleSuffix   = " - HisMsg"
	FallbackTitle = "HisMsg - Message Notification System"

	MsgForbidden = "insufficient permission"
)

// Session 守卫读取的会话状态
type Session interface {
	IsAuthenticated() bool
	IsAdmin() bool
}

// Notifier 提示输出接口
type Notifier interface {
	Error(msg string)
}

// Action 守卫结论
type Action int

const (
	// Proceed 放行
	Proceed Action = iota
	// Redirect 重定向
	Redirect
)

// Reason 重定向原因
type Reason string

const (
	ReasonNone          Reason = ""
	ReasonLoginRequired Reason = "login_required"
	ReasonAlreadyLogged Reason = "already_logged_in"
	ReasonAdminOnly     Reason = "admin_only"
)

// Decision 一次守卫判断的结果
type Decision struct {
	Action   Action
	Reason   Reason
	Location string
	Route    Route
	FullPath string
	Title    string
}

// Guard 导航守卫
type Guard struct {
	table    *Table
	session  Session
	notifier Notifier
}

// NewGuard 创建导航守卫
func NewGuard(table *Table, session Session, notifier Notifier) *Guard {
	if table == nil {
		table = DefaultTable()
	}
	return &Guard{table: table, session: session, notifier: notifier}
}

// Table 守卫使用的路由表
func (g *Guard) Table() *Table {
	return g.table
}

// Check 判断是否允许导航到 fullPath，按顺序匹配，命中即返回
func (g *Guard) Check(fullPath string) Decision {
	route, resolved := g.table.Resolve(fullPath)
	d := Decision{Route: route, FullPath: resolved, Title: Title(route)}
	authenticated := g.session.IsAuthenticated()

	if route.Meta.AuthRequired() && !authenticated {
		d.Action = Redirect
		d.Reason = ReasonLoginRequired
		d.Location = PathLogin + "?" + url.Values{"redirect": {resolved}}.Encode()
		return d
	}

	if authenticated && route.Name == NameLogin {
		d.Action = Redirect
		d.Reason = ReasonAlreadyLogged
		d.Location = PathDashboard
		return d
	}

	if route.Meta.AdminOnly && !g.session.IsAdmin() {
		if g.notifier != nil {
			g.notifier.Error(MsgForbidden)
		}
		d.Action = Redirect
		d.Reason = ReasonAdminOnly
		d.Location = PathDashboard
		return d
	}

	d.Action = Proceed
	return d
}

// Title 路由对应的页面标题
func Title(r Route) string {
	if r.Meta.Title != "" {
		return r.Meta.Title + TitleSuffix
	}
	return FallbackTitle
}
