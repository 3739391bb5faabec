package commands

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/phongtro/phongtro/internal/domain"
	"github.com/phongtro/phongtro/internal/tui/styles"
)

const reportsTimeout = 15 * time.Second

func reportsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reports",
		Short: "Xử lý báo cáo vi phạm (quản trị viên)",
	}
	cmd.AddCommand(reportsListCmd(), reportsResolveCmd())
	return cmd
}

func reportsListCmd() *cobra.Command {
	var status string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Liệt kê báo cáo",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var want domain.ReportStatus
			switch strings.ToLower(status) {
			case "", "all":
			case string(domain.ReportOpen):
				want = domain.ReportOpen
			case string(domain.ReportResolved):
				want = domain.ReportResolved
			default:
				return fmt.Errorf("--status phải là open, resolved hoặc all")
			}

			a, err := requireSession()
			if err != nil {
				return err
			}
			defer a.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), reportsTimeout)
			defer cancel()

			reports, err := a.services.Reports.List(ctx, want)
			if err != nil {
				return err
			}
			if len(reports) == 0 {
				fmt.Println("Không có báo cáo nào")
				return nil
			}
			printReports(reports)
			return nil
		},
	}
	cmd.Flags().StringVar(&status, "status", string(domain.ReportOpen), "open, resolved hoặc all")
	return cmd
}

func reportsResolveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <id> <cách xử lý>",
		Short: "Đóng báo cáo kèm ghi chú xử lý",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := requireSession()
			if err != nil {
				return err
			}
			defer a.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), reportsTimeout)
			defer cancel()

			r, err := a.services.Reports.Resolve(ctx, args[0], strings.Join(args[1:], " "))
			if err != nil {
				return err
			}
			fmt.Printf("✓ Đã xử lý báo cáo %s: %s\n", r.ID, r.Resolution)
			return nil
		},
	}
}

func printReports(reports []*domain.Report) {
	rows := make([][]string, 0, len(reports))
	for _, r := range reports {
		rows = append(rows, []string{
			r.ID,
			r.TargetType + " " + r.TargetID,
			styles.Truncate(r.Reason, 24),
			styles.Truncate(r.Details, 36),
			string(r.Status),
			r.CreatedAt.Local().Format("02/01/2006 15:04"),
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(styles.DimStyle).
		Headers("ID", "Đối tượng", "Lý do", "Chi tiết", "Trạng thái", "Ngày").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return styles.AccentStyle.Bold(true).Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		})
	fmt.Println(t.Render())
}
