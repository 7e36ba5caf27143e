// Package router 控制台的路由表、导航守卫和导航器。
//
// 每个命令行操作都对应路由表中的一个页面，执行前先经过守卫判断。
package router

import (
	"net/url"
	"strings"
)

// 路由名称
const (
	NameLogin          = "Login"
	NameDashboard      = "Dashboard"
	NameMessages       = "Messages"
	NamePushConfig     = "PushConfig"
	NamePushDocs       = "PushDocs"
	NameChangePassword = "ChangePassword"
	NameDictManagement = "DictManagement"
	NameNotFound       = "NotFound"
)

// 常用路径
const (
	PathRoot           = "/"
	PathLogin          = "/login"
	PathDashboard      = "/dashboard"
	PathMessages       = "/messages"
	PathPushConfig     = "/push-config"
	PathPushDocs       = "/push-docs"
	PathChangePassword = "/change-password"
	PathDictManagement = "/dict-management"
)

// Meta 路由元数据
type Meta struct {
	Title string
	Icon  string
	// RequiresAuth 为nil时默认需要登录
	RequiresAuth *bool
	AdminOnly    bool
}

// AuthRequired 是否需要登录
func (m Meta) AuthRequired() bool {
	return m.RequiresAuth == nil || *m.RequiresAuth
}

// Route 路由定义
type Route struct {
	Path     string
	Name     string
	Redirect string
	Meta     Meta
}

func boolPtr(v bool) *bool { return &v }

// DefaultRoutes 控制台路由表
func DefaultRoutes() []Route {
	return []Route{
		{Path: PathRoot, Redirect: PathDashboard},
		{Path: PathLogin, Name: NameLogin, Meta: Meta{Title: "Login", RequiresAuth: boolPtr(false)}},
		{Path: PathDashboard, Name: NameDashboard, Meta: Meta{Title: "Dashboard", Icon: "Dashboard", RequiresAuth: boolPtr(true)}},
		{Path: PathMessages, Name: NameMessages, Meta: Meta{Title: "Message Records", Icon: "ChatDotRound", RequiresAuth: boolPtr(true)}},
		{Path: PathPushConfig, Name: NamePushConfig, Meta: Meta{Title: "Push Config", Icon: "Setting", RequiresAuth: boolPtr(true)}},
		{Path: PathPushDocs, Name: NamePushDocs, Meta: Meta{Title: "API Docs", Icon: "Document", RequiresAuth: boolPtr(true)}},
		{Path: PathChangePassword, Name: NameChangePassword, Meta: Meta{Title: "Change Password", Icon: "Lock", RequiresAuth: boolPtr(true)}},
		{Path: PathDictManagement, Name: NameDictManagement, Meta: Meta{Title: "Dictionary", Icon: "Collection", RequiresAuth: boolPtr(true), AdminOnly: true}},
	}
}

// NotFoundRoute 兜底路由
func NotFoundRoute() Route {
	return Route{Path: "/:pathMatch(.*)*", Name: NameNotFound, Meta: Meta{Title: "Page Not Found"}}
}

// Table 路由表
type Table struct {
	routes   []Route
	byPath   map[string]Route
	byName   map[string]Route
	notFound Route
}

// NewTable 创建路由表
func NewTable(routes []Route, notFound Route) *Table {
	t := &Table{
		routes:   routes,
		byPath:   make(map[string]Route, len(routes)),
		byName:   make(map[string]Route, len(routes)),
		notFound: notFound,
	}
	for _, r := range routes {
		t.byPath[r.Path] = r
		if r.Name != "" {
			t.byName[r.Name] = r
		}
	}
	if notFound.Name != "" {
		t.byName[notFound.Name] = notFound
	}
	return t
}

// DefaultTable 默认路由表
func DefaultTable() *Table {
	return NewTable(DefaultRoutes(), NotFoundRoute())
}

// Routes 返回全部路由（不含兜底路由）
func (t *Table) Routes() []Route {
	return append([]Route(nil), t.routes...)
}

// ByName 按名称查找路由
func (t *Table) ByName(name string) (Route, bool) {
	r, ok := t.byName[name]
	return r, ok
}

// Resolve 解析完整路径（可带查询参数），跟随重定向，未匹配时返回兜底路由
// 返回值: Route 匹配的路由, string 解析后的完整路径
func (t *Table) Resolve(fullPath string) (Route, string) {
	path, rawQuery := splitPath(fullPath)

	for hops := 0; hops < 8; hops++ {
		r, ok := t.byPath[path]
		if !ok {
			return t.notFound, joinPath(path, rawQuery)
		}
		if r.Redirect == "" {
			return r, joinPath(path, rawQuery)
		}
		path, _ = splitPath(r.Redirect)
	}
	return t.notFound, joinPath(path, rawQuery)
}

func splitPath(fullPath string) (string, string) {
	u, err := url.Parse(fullPath)
	if err != nil {
		return cleanPath(fullPath), ""
	}
	return cleanPath(u.Path), u.RawQuery
}

func cleanPath(p string) string {
	if p == "" {
		return PathRoot
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	if len(p) > 1 {
		p = strings.TrimRight(p, "/")
	}
	if p == "" {
		return PathRoot
	}
	return p
}

func joinPath(path, rawQuery string) string {
	if rawQuery == "" {
		return path
	}
	return path + "?" + rawQuery
}
