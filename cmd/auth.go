package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/vera-byte/vgo-pushctl/internal/router"
	"github.com/vera-byte/vgo-pushctl/pkg/model"
)

var loginOpts struct {
	username string
	password string
}

var loginCmd = routed(&cobra.Command{
	Use:   "login",
	Short: "Log in and store the session token",
	RunE:  runLogin,
}, router.PathLogin)

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Log out and remove the stored token",
	RunE:  runLogout,
}

var whoamiCmd = routed(&cobra.Command{
	Use:   "whoami",
	Short: "Show the logged-in user",
	RunE:  runWhoami,
}, router.PathDashboard)

var passwdOpts struct {
	current string
	next    string
}

var passwdCmd = routed(&cobra.Command{
	Use:   "passwd",
	Short: "Change the password of the logged-in user",
	RunE:  runPasswd,
}, router.PathChangePassword)

var resetKeyCmd = routed(&cobra.Command{
	Use:   "reset-key",
	Short: "Generate a new push user key",
	RunE:  runResetKey,
}, router.PathChangePassword)

func init() {
	loginCmd.Flags().StringVarP(&loginOpts.username, "username", "u", "", "username")
	loginCmd.Flags().StringVarP(&loginOpts.password, "password", "p", "", "password (prompted when omitted)")

	passwdCmd.Flags().StringVar(&passwdOpts.current, "current", "", "current password (prompted when omitted)")
	passwdCmd.Flags().StringVar(&passwdOpts.next, "new", "", "new password (prompted when omitted)")

	RootCmd.AddCommand(loginCmd, logoutCmd, whoamiCmd, passwdCmd, resetKeyCmd)
}

func runLogin(cmd *cobra.Command, args []string) error {
	a, err := appFrom(cmd.Context())
	if err != nil {
		return err
	}

	in := bufio.NewReader(cmd.InOrStdin())
	username := loginOpts.username
	if username == "" {
		if username, err = prompt(in, cmd.ErrOrStderr(), "Username: "); err != nil {
			return err
		}
	}
	password := loginOpts.password
	if password == "" {
		if password, err = prompt(in, cmd.ErrOrStderr(), "Password: "); err != nil {
			return err
		}
	}
	if username == "" || password == "" {
		return errors.New("username and password are required")
	}

	ctx := cmd.Context()
	if err := a.Session.Login(ctx, model.LoginRequest{Username: username, Password: password}); err != nil {
		return err
	}

	// 登录后进入首页
	nav, err := a.Navigator.Navigate(ctx, router.PathDashboard)
	if err != nil {
		return err
	}
	return printUser(a, nav.Title)
}

func runLogout(cmd *cobra.Command, args []string) error {
	a, err := appFrom(cmd.Context())
	if err != nil {
		return err
	}
	if err := a.Session.Logout(cmd.Context()); err != nil {
		return err
	}
	a.Navigator.Redirect(router.PathLogin)
	return nil
}

func runWhoami(cmd *cobra.Command, args []string) error {
	a, err := appFrom(cmd.Context())
	if err != nil {
		return err
	}
	title := ""
	if cur := a.Navigator.Current(); cur != nil {
		title = cur.Title
	}
	return printUser(a, title)
}

func printUser(a *App, title string) error {
	u := a.Session.CurrentUser()
	if u == nil {
		return ErrLoginRequired
	}
	a.Printer.Message(title)
	return a.Printer.Fields(u, [][2]string{
		{"ID", itoa(u.ID)},
		{"Username", u.Username},
		{"Nickname", u.Nickname},
		{"Email", u.Email},
		{"Roles", strings.Join(u.Roles, ",")},
		{"Admin", yesNo(a.Session.IsAdmin())},
		{"User Key", u.UserKey},
	})
}

func runPasswd(cmd *cobra.Command, args []string) error {
	a, err := appFrom(cmd.Context())
	if err != nil {
		return err
	}

	in := bufio.NewReader(cmd.InOrStdin())
	current := passwdOpts.current
	if current == "" {
		if current, err = prompt(in, cmd.ErrOrStderr(), "Current password: "); err != nil {
			return err
		}
	}
	next := passwdOpts.next
	if next == "" {
		if next, err = prompt(in, cmd.ErrOrStderr(), "New password: "); err != nil {
			return err
		}
		confirm, err := prompt(in, cmd.ErrOrStderr(), "Confirm new password: ")
		if err != nil {
			return err
		}
		if confirm != next {
			return errors.New("passwords do not match")
		}
	}
	if next == "" {
		return errors.New("new password must not be empty")
	}

	msg, err := a.Client.ChangePassword(cmd.Context(), model.ChangePasswordRequest{
		CurrentPassword: current,
		NewPassword:     next,
	})
	if err != nil {
		return err
	}
	a.Notifier.Success(orDefault(msg, "password changed"))
	return nil
}

func runResetKey(cmd *cobra.Command, args []string) error {
	a, err := appFrom(cmd.Context())
	if err != nil {
		return err
	}

	key, err := a.Client.ResetUserKey(cmd.Context())
	if err != nil {
		return err
	}
	a.Session.PatchUser(model.UserPatch{UserKey: &key})
	a.Notifier.Success("user key reset")
	return a.Printer.Fields(map[string]string{"userKey": key}, [][2]string{{"User Key", key}})
}

// prompt 从输入读取一行
func prompt(in *bufio.Reader, out io.Writer, label string) (string, error) {
	fmt.Fprint(out, label)
	line, err := in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", fmt.Errorf("read %s: %w", strings.TrimSuffix(strings.ToLower(label), ": "), err)
	}
	return strings.TrimSpace(line), nil
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
