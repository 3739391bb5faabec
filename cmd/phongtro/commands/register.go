package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/phongtro/phongtro/internal/domain"
)

func registerCmd() *cobra.Command {
	var reg domain.Registration
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Tạo tài khoản mới",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if reg.Email == "" {
				if reg.Email, err = prompt("Email: "); err != nil {
					return err
				}
			}
			if reg.Name == "" {
				if reg.Name, err = prompt("Họ tên: "); err != nil {
					return err
				}
			}
			if reg.Role != "renter" && reg.Role != "landlord" {
				return fmt.Errorf("--role phải là renter hoặc landlord")
			}

			password, err := promptPassword("Mật khẩu: ")
			if err != nil {
				return err
			}
			confirm, err := promptPassword("Nhập lại mật khẩu: ")
			if err != nil {
				return err
			}
			if password != confirm {
				return fmt.Errorf("mật khẩu không khớp")
			}
			reg.Password = password

			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), authTimeout)
			defer cancel()
			session, err := a.services.Session.Register(ctx, reg)
			if err != nil {
				return err
			}

			fmt.Printf("✓ Đã tạo tài khoản %s (%s)\n", session.User.Email, session.User.Role)
			return nil
		},
	}
	cmd.Flags().StringVarP(&reg.Email, "email", "e", "", "email")
	cmd.Flags().StringVarP(&reg.Name, "name", "n", "", "họ tên")
	cmd.Flags().StringVar(&reg.Phone, "phone", "", "số điện thoại")
	cmd.Flags().StringVar(&reg.Role, "role", "renter", "vai trò: renter hoặc landlord")
	return cmd
}
