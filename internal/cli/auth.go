package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"syscall"
	"time"

	"github.com/existflow/qazzerep/internal/api"
	"github.com/existflow/qazzerep/internal/model"
	"github.com/existflow/qazzerep/internal/profile"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage authentication",
	Long:  `Log in to the QazZerep backend, create an account or end the session.`,
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in with email and password",
	RunE:  runLogin,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the stored session",
	RunE:  runLogout,
}

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create a new account",
	Long: `Create a new account and log in with it.

Examples:
  qazzerep auth register
  qazzerep auth register --role teacher --school-code QAZ-2026-PRO`,
	RunE: runRegister,
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the current session",
	RunE:  runStatus,
}

var passwdCmd = &cobra.Command{
	Use:   "passwd",
	Short: "Change the account password",
	RunE:  runPasswd,
}

func init() {
	authCmd.AddCommand(loginCmd)
	authCmd.AddCommand(logoutCmd)
	authCmd.AddCommand(registerCmd)
	authCmd.AddCommand(statusCmd)
	authCmd.AddCommand(passwdCmd)

	loginCmd.Flags().String("email", "", "Account email (prompted when empty)")

	registerCmd.Flags().String("role", "student", "Account role: student or teacher")
	registerCmd.Flags().String("school", "", "Institution name")
	registerCmd.Flags().String("school-code", "", "Teacher verification code")
}

func readPassword(label string) string {
	fmt.Print(label)
	passwordBytes, _ := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	return string(passwordBytes)
}

func runLogin(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd.Context(), false)
	if err != nil {
		return err
	}
	defer a.Close()

	reader := bufio.NewReader(os.Stdin)
	email, _ := cmd.Flags().GetString("email")
	if email == "" {
		email = prompt(reader, a.tr.T("auth.email_label")+": ")
	}
	password := readPassword(a.tr.T("auth.pass_label") + ": ")

	out.Info("Logging in...")
	token, err := a.client.Login(cmd.Context(), email, password)
	if err != nil {
		if api.Message(err) != "" {
			return fmt.Errorf("%s: %s", a.tr.T("auth.error_invalid"), api.Message(err))
		}
		return err
	}
	if err := a.session.Login(cmd.Context(), token); err != nil {
		return err
	}

	snap := a.session.Snapshot()
	out.Success("Logged in as %s", snap.User.Name())
	return nil
}

func runLogout(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd.Context(), false)
	if err != nil {
		return err
	}
	defer a.Close()

	if !a.session.Snapshot().HasToken() {
		out.Print("Not logged in.")
		return nil
	}

	if err := a.session.Logout(cmd.Context()); err != nil {
		return err
	}
	out.Success("Logged out.")
	return nil
}

func runRegister(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd.Context(), false)
	if err != nil {
		return err
	}
	defer a.Close()

	roleFlag, _ := cmd.Flags().GetString("role")
	role := model.RoleStudent
	switch strings.ToLower(roleFlag) {
	case "student", "":
	case "teacher":
		role = model.RoleTeacher
	default:
		return fmt.Errorf("unknown role %q (use student or teacher)", roleFlag)
	}

	reader := bufio.NewReader(os.Stdin)
	req := api.RegisterRequest{Role: role}
	req.FullName = prompt(reader, a.tr.T("auth.full_name")+": ")
	req.Email = prompt(reader, a.tr.T("auth.email_label")+": ")

	req.School, _ = cmd.Flags().GetString("school")
	if req.School == "" {
		req.School = prompt(reader, a.tr.T("auth.school")+": ")
	}
	if role == model.RoleTeacher {
		req.SchoolCode, _ = cmd.Flags().GetString("school-code")
		if req.SchoolCode == "" {
			req.SchoolCode = prompt(reader, a.tr.T("auth.school_code")+": ")
		}
	}

	password := readPassword(a.tr.T("auth.pass_label") + ": ")
	confirmPw := readPassword("Confirm " + a.tr.T("auth.pass_label") + ": ")
	if password != confirmPw {
		return fmt.Errorf("passwords do not match")
	}
	req.Password = password

	out.Info("Creating account...")
	token, err := a.client.Register(cmd.Context(), req)
	if err != nil {
		return fmt.Errorf("registration failed: %s", api.Message(err))
	}
	if err := a.session.Login(cmd.Context(), token); err != nil {
		return err
	}
	out.Success("Account created and logged in!")
	return nil
}

func runStatus(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd.Context(), false)
	if err != nil {
		return err
	}
	defer a.Close()

	snap := a.session.Snapshot()
	out.Header("Session")
	out.Print("Backend:  %s", a.client.BaseURL())
	out.Print("State:    %s", snap.State)
	if !snap.HasToken() {
		return nil
	}
	if snap.User != nil {
		out.Print("User:     %s <%s>", snap.User.Name(), snap.User.Email)
	}
	if role := snap.Role(); role != "" {
		out.Print("Role:     %s", role)
	}
	if !snap.Claims.ExpiresAt.IsZero() {
		status := snap.Claims.ExpiresAt.Local().Format("2006-01-02 15:04")
		if snap.Claims.Expired(time.Now()) {
			status += " " + out.Risk("(expired)", true)
		}
		out.Print("Expires:  %s", status)
	}
	if a.authorize("/admin") == nil {
		out.Print("Admin:    yes")
	}
	return nil
}

func runPasswd(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd.Context(), true)
	if err != nil {
		return err
	}
	defer a.Close()

	oldPassword := readPassword("Current password: ")
	newPassword := readPassword("New password: ")
	confirmPw := readPassword("Confirm new password: ")
	if newPassword != confirmPw {
		return fmt.Errorf("passwords do not match")
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Timeout())
	defer cancel()
	if err := profile.ChangePassword(ctx, a.client, oldPassword, newPassword); err != nil {
		if errors.Is(err, api.ErrMissingPassword) {
			return errors.New(a.tr.T("errors.password_required"))
		}
		return fmt.Errorf("failed to change password: %s", api.Message(err))
	}
	out.Success("Password changed.")
	return nil
}
