package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/vera-byte/vgo-pushctl/internal/router"
)

var docsCmd = routed(&cobra.Command{
	Use:   "docs",
	Short: "Show push API endpoints for the current user key",
	Args:  cobra.NoArgs,
	RunE:  runDocs,
}, router.PathPushDocs)

var routesCmd = &cobra.Command{
	Use:   "routes",
	Short: "Show the page table and what the current session may open",
	Args:  cobra.NoArgs,
	RunE:  runRoutes,
}

func init() {
	RootCmd.AddCommand(docsCmd, routesCmd)
}

// pushEndpoint 推送接口示例
type pushEndpoint struct {
	Method      string `json:"method"`
	URL         string `json:"url"`
	Description string `json:"description"`
}

func pushEndpoints(endpoint, userKey string) []pushEndpoint {
	base := strings.TrimRight(endpoint, "/") + "/message/push"
	return []pushEndpoint{
		{"GET", base + "/" + userKey + "/{title}/{content}", "Bark compatible push"},
		{"GET", base + "/" + userKey + "/{title}/{subtitle}/{content}", "Bark compatible push with subtitle"},
		{"POST", base + "/" + userKey, `JSON body {"title","content","tags",...}`},
		{"POST", base + "/send", `JSON body with "userKey"`},
	}
}

func runDocs(cmd *cobra.Command, args []string) error {
	a, err := appFrom(cmd.Context())
	if err != nil {
		return err
	}
	u := a.Session.CurrentUser()
	if u == nil {
		return ErrLoginRequired
	}
	if u.UserKey == "" {
		return fmt.Errorf("user %s has no push key, run \"pushctl reset-key\"", u.Username)
	}

	endpoints := pushEndpoints(a.Config.Server.Endpoint(), u.UserKey)
	rows := make([][]string, 0, len(endpoints))
	for _, e := range endpoints {
		rows = append(rows, []string{e.Method, e.URL, e.Description})
	}
	return a.Printer.Print(endpoints, []string{"Method", "URL", "Description"}, rows)
}

func runRoutes(cmd *cobra.Command, args []string) error {
	a, err := appFrom(cmd.Context())
	if err != nil {
		return err
	}

	// 只读检查，不通过提示器输出
	guard := router.NewGuard(router.DefaultTable(), a.Session, nil)

	type routeInfo struct {
		Path     string `json:"path"`
		Name     string `json:"name"`
		Title    string `json:"title"`
		Auth     bool   `json:"requiresAuth"`
		Admin    bool   `json:"adminOnly"`
		Redirect string `json:"redirect,omitempty"`
		Access   string `json:"access"`
	}

	var infos []routeInfo
	rows := [][]string{}
	for _, r := range guard.Table().Routes() {
		info := routeInfo{
			Path:     r.Path,
			Name:     r.Name,
			Title:    r.Meta.Title,
			Auth:     r.Meta.AuthRequired(),
			Admin:    r.Meta.AdminOnly,
			Redirect: r.Redirect,
			Access:   access(guard.Check(r.Path)),
		}
		infos = append(infos, info)
		rows = append(rows, []string{info.Path, info.Name, info.Title, yesNo(info.Auth), yesNo(info.Admin), info.Redirect, info.Access})
	}
	return a.Printer.Print(infos, []string{"Path", "Name", "Title", "Auth", "Admin", "Redirect", "Access"}, rows)
}

func access(d router.Decision) string {
	if d.Action == router.Proceed {
		return "open"
	}
	switch d.Reason {
	case router.ReasonLoginRequired:
		return "login required"
	case router.ReasonAdminOnly:
		return "admin only"
	case router.ReasonAlreadyLogged:
		return "-> " + d.Location
	}
	return d.Location
}
