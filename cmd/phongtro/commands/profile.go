package commands

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/phongtro/phongtro/internal/domain"
	"github.com/phongtro/phongtro/internal/query"
	"github.com/phongtro/phongtro/internal/tui/styles"
)

const profileTimeout = 15 * time.Second

func profileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Hồ sơ tìm bạn ở ghép",
	}
	cmd.AddCommand(profileShowCmd(), profileSetCmd())
	return cmd
}

func profileShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show [user-id]",
		Short: "Xem hồ sơ của bạn hoặc của người khác",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := requireSession()
			if err != nil {
				return err
			}
			defer a.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), profileTimeout)
			defer cancel()

			var p *domain.Profile
			if len(args) == 1 {
				p, err = a.profiles.Get(ctx, args[0])
			} else {
				p, err = a.profiles.Me(ctx)
			}
			if err != nil {
				return err
			}
			printProfile(p)
			return nil
		},
	}
}

func profileSetCmd() *cobra.Command {
	var (
		p                 domain.Profile
		budgetMin, budget string
		sleep             string
		districts         []string
	)
	cmd := &cobra.Command{
		Use:   "set",
		Short: "Cập nhật hồ sơ, chỉ các trường được truyền vào",
		Example: `  phongtro profile set --occupation "sinh viên" --budget 2tr-3,5tr --district "Cầu Giấy" --sleep early
  phongtro profile set --smoking=false --cleanliness 4`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := requireSession()
			if err != nil {
				return err
			}
			defer a.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), profileTimeout)
			defer cancel()

			current, err := a.profiles.Me(ctx)
			if err != nil {
				return err
			}
			next := *current
			set := cmd.Flags().Changed

			if set("name") {
				next.Name = p.Name
			}
			if set("gender") {
				next.Gender = p.Gender
			}
			if set("age") {
				next.Age = p.Age
			}
			if set("occupation") {
				next.Occupation = p.Occupation
			}
			if set("bio") {
				next.Bio = p.Bio
			}
			if set("smoking") {
				next.Smoking = p.Smoking
			}
			if set("pets") {
				next.Pets = p.Pets
			}
			if set("cleanliness") {
				next.Cleanliness = p.Cleanliness
			}
			if set("gender-preference") {
				next.GenderPreference = p.GenderPreference
			}
			if set("district") {
				next.PreferredDistricts = districts
			}
			if set("sleep") {
				switch s := domain.SleepSchedule(strings.ToLower(sleep)); s {
				case domain.SleepEarly, domain.SleepLate, domain.SleepFlexible:
					next.Sleep = s
				default:
					return fmt.Errorf("--sleep phải là early, late hoặc flexible")
				}
			}
			if set("budget-min") {
				if next.BudgetMin, err = query.ParseVND(budgetMin); err != nil {
					return fmt.Errorf("--budget-min: %w", err)
				}
			}
			if set("budget") {
				lo, hi, ok := strings.Cut(budget, "-")
				if !ok {
					hi, lo = lo, ""
				}
				if next.BudgetMin, err = query.ParseVND(lo); err != nil {
					return fmt.Errorf("--budget: %w", err)
				}
				if next.BudgetMax, err = query.ParseVND(hi); err != nil {
					return fmt.Errorf("--budget: %w", err)
				}
			}

			updated, err := a.profiles.UpdateMe(ctx, next)
			if err != nil {
				return err
			}
			fmt.Println("✓ Đã cập nhật hồ sơ")
			printProfile(updated)
			return nil
		},
	}

	fl := cmd.Flags()
	fl.StringVar(&p.Name, "name", "", "tên hiển thị")
	fl.StringVar(&p.Gender, "gender", "", "giới tính")
	fl.IntVar(&p.Age, "age", 0, "tuổi")
	fl.StringVar(&p.Occupation, "occupation", "", "nghề nghiệp")
	fl.StringVar(&p.Bio, "bio", "", "giới thiệu ngắn")
	fl.StringVar(&budgetMin, "budget-min", "", "ngân sách tối thiểu")
	fl.StringVar(&budget, "budget", "", "ngân sách \"min-max\" hoặc chỉ mức tối đa, ví dụ 2tr-3,5tr")
	fl.StringSliceVar(&districts, "district", nil, "quận/huyện muốn ở")
	fl.BoolVar(&p.Smoking, "smoking", false, "có hút thuốc")
	fl.BoolVar(&p.Pets, "pets", false, "có nuôi thú cưng")
	fl.StringVar(&sleep, "sleep", "", "giờ ngủ: early, late hoặc flexible")
	fl.IntVar(&p.Cleanliness, "cleanliness", 0, "mức gọn gàng 1-5")
	fl.StringVar(&p.GenderPreference, "gender-preference", "", "muốn ở ghép với: male, female hoặc để trống")
	cmd.MarkFlagsMutuallyExclusive("budget", "budget-min")
	return cmd
}

func printProfile(p *domain.Profile) {
	yesNo := func(b bool) string {
		if b {
			return "có"
		}
		return "không"
	}
	row := func(label, value string) {
		if value == "" {
			value = styles.DimStyle.Render("-")
		}
		fmt.Printf("%s %s\n", styles.DimStyle.Render(fmt.Sprintf("%-14s", label)), value)
	}

	fmt.Println(styles.TitleStyle.Render(firstNonBlank(p.Name, p.UserID)))
	row("Giới tính", p.Gender)
	if p.Age > 0 {
		row("Tuổi", fmt.Sprint(p.Age))
	}
	row("Nghề nghiệp", p.Occupation)
	row("Ngân sách", p.BudgetLabel())
	row("Khu vực", strings.Join(p.PreferredDistricts, ", "))
	row("Hút thuốc", yesNo(p.Smoking))
	row("Thú cưng", yesNo(p.Pets))
	row("Giờ ngủ", string(p.Sleep))
	if c := min(p.Cleanliness, 5); c > 0 {
		row("Gọn gàng", strings.Repeat("★", c)+strings.Repeat("☆", 5-c))
	}
	row("Ở ghép với", p.GenderPreference)
	if p.Bio != "" {
		fmt.Println()
		fmt.Println(p.Bio)
	}
}

func firstNonBlank(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
