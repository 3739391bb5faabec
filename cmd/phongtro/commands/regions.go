package commands

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/phongtro/phongtro/internal/domain"
	"github.com/phongtro/phongtro/internal/geo"
	"github.com/phongtro/phongtro/internal/tui/styles"
)

const regionsTimeout = 15 * time.Second

func regionsCmd() *cobra.Command {
	var wards bool
	cmd := &cobra.Command{
		Use:   "regions [tỉnh] [quận]",
		Short: "Liệt kê tỉnh/thành, quận/huyện hoặc phường/xã",
		Example: `  phongtro regions
  phongtro regions "ha noi"
  phongtro regions "ha noi" "cau giay" --wards`,
		Args: cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), regionsTimeout)
			defer cancel()

			regions := geo.NewRegions(cfg.Geo.RegionsURL, logger)

			if len(args) == 0 {
				provinces, err := regions.Provinces(ctx)
				if err != nil {
					return err
				}
				printRegions(provinces)
				return nil
			}

			province, ok, err := regions.MatchProvince(ctx, args[0])
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("không tìm thấy tỉnh/thành %q", args[0])
			}

			if len(args) == 1 {
				districts, err := regions.Districts(ctx, province.Code)
				if err != nil {
					return err
				}
				fmt.Println(styles.TitleStyle.Render(province.Name))
				printRegions(districts)
				return nil
			}

			district, ok, err := regions.MatchDistrict(ctx, province.Code, args[1])
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("không tìm thấy quận/huyện %q ở %s", args[1], province.Name)
			}
			fmt.Println(styles.TitleStyle.Render(district.Name + ", " + province.Name))
			if !wards {
				return nil
			}

			list, err := regions.Wards(ctx, district.Code)
			if err != nil {
				return err
			}
			printRegions(list)
			return nil
		},
	}
	cmd.Flags().BoolVar(&wards, "wards", false, "liệt kê phường/xã của quận")
	return cmd
}

func printRegions(regions []domain.Region) {
	for _, r := range regions {
		division := ""
		if r.Division != "" {
			division = styles.DimStyle.Render(" (" + strings.ToLower(r.Division) + ")")
		}
		fmt.Printf("%6d  %s%s\n", r.Code, r.Name, division)
	}
}
