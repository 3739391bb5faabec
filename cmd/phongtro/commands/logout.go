package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/phongtro/phongtro/internal/config"
)

func logoutCmd() *cobra.Command {
	var purge bool
	cmd := &cobra.Command{
		Use:   "logout",
		Short: "Xóa phiên đăng nhập và dữ liệu đã lưu",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}

			err = a.services.Session.Logout()
			a.Close()
			if err != nil {
				return err
			}

			// The database must be closed before its directory goes
			if purge {
				if err := config.ClearCache(cfg); err != nil {
					return err
				}
				logger.Info("cache directory removed", "dir", cfg.Cache.Dir)
			}
			fmt.Println("✓ Đã đăng xuất")
			return nil
		},
	}
	cmd.Flags().BoolVar(&purge, "purge-cache", false, "xóa cả thư mục bộ nhớ đệm của mọi tài khoản")
	return cmd
}
