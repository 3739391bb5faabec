package commands

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/phongtro/phongtro/internal/api"
)

const authTimeout = 15 * time.Second

var stdin = bufio.NewReader(os.Stdin)

func loginCmd() *cobra.Command {
	var email string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Đăng nhập và lưu phiên trên máy này",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLoginFlow(cmd.Context(), email)
		},
	}
	cmd.Flags().StringVarP(&email, "email", "e", "", "email đăng nhập")
	return cmd
}

// runLoginFlow prompts for credentials until login succeeds or input ends
func runLoginFlow(ctx context.Context, email string) error {
	if ctx == nil {
		ctx = context.Background()
	}

	fmt.Println()
	fmt.Println("Chào mừng đến với Phòng Trọ!")
	fmt.Println("Chưa có tài khoản? Chạy `phongtro register`.")
	fmt.Println()

	for {
		var err error
		if email == "" {
			email, err = prompt("Email: ")
			if err != nil {
				return err
			}
			if email == "" {
				fmt.Println("Email không được để trống.")
				continue
			}
		}

		password, err := promptPassword("Mật khẩu: ")
		if err != nil {
			return err
		}

		a, err := newApp()
		if err != nil {
			return err
		}

		fmt.Print("Đang đăng nhập...")
		loginCtx, cancel := context.WithTimeout(ctx, authTimeout)
		session, err := a.services.Session.Login(loginCtx, email, password)
		cancel()
		a.Close()
		fmt.Print("\r                    \r")

		if err != nil {
			fmt.Printf("✗ %s\n\n", api.UserMessage(err))
			email = ""
			continue
		}

		fmt.Printf("✓ Xin chào %s!\n\n", session.User.Name)
		return nil
	}
}

// prompt reads one trimmed line from stdin
func prompt(label string) (string, error) {
	fmt.Print(label)
	line, err := stdin.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// promptPassword reads a line without echo when stdin is a terminal
func promptPassword(label string) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return prompt(label)
	}

	fmt.Print(label)
	b, err := term.ReadPassword(fd)
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return string(b), nil
}
