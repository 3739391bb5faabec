package commands

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/phongtro/phongtro/internal/domain"
	"github.com/phongtro/phongtro/internal/geo"
	"github.com/phongtro/phongtro/internal/query"
	"github.com/phongtro/phongtro/internal/tui/styles"
)

const searchTimeout = 30 * time.Second

// searchFlags are the filter flags shared by every listing query
type searchFlags struct {
	minPrice, maxPrice string
	minArea, maxArea   string
	province, district string
	flags              []string
	near               string
	address            string
	radiusKm           float64
	sortBy             string
	desc               bool
	page, limit        int
	all                bool
}

func searchCmd() *cobra.Command {
	var sf searchFlags
	cmd := &cobra.Command{
		Use:   "search [từ khóa]",
		Short: "Tìm phòng và in kết quả dạng bảng",
		Example: `  phongtro search "gần đại học bách khoa" --max-price 3tr --amenity wifi
  phongtro search --province "ha noi" --district "cau giay" --sort price
  phongtro search --address "1 Đại Cồ Việt" --radius 2 --all`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := requireSession()
			if err != nil {
				return err
			}
			defer a.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), searchTimeout)
			defer cancel()

			f, sort, err := sf.build(ctx, strings.Join(args, " "))
			if err != nil {
				return err
			}
			if summary := f.Summary(); summary != "" {
				fmt.Fprintln(os.Stderr, styles.DimStyle.Render("Bộ lọc: "+summary))
			}

			if sf.all {
				listings, err := a.services.Listings.SearchAll(ctx, f, func(loaded, total int) {
					fmt.Fprintf(os.Stderr, "\rĐang tải %d/%d...", loaded, total)
				})
				fmt.Fprint(os.Stderr, "\r                              \r")
				if err != nil {
					return err
				}
				printListings(query.SortListings(listings, sort))
				fmt.Printf("%d phòng\n", len(listings))
				return nil
			}

			page, err := a.services.Listings.Search(ctx, f, sort)
			if err != nil {
				return err
			}
			if page.IsEmpty() {
				fmt.Println("Không tìm thấy phòng phù hợp")
				return nil
			}
			printListings(page.Items)
			fmt.Printf("Trang %d/%d · %d phòng\n", f.Page, page.TotalPages(), page.Total)
			return nil
		},
	}

	fl := cmd.Flags()
	fl.StringVar(&sf.minPrice, "min-price", "", "giá tối thiểu, ví dụ 1,5tr hoặc 800k")
	fl.StringVar(&sf.maxPrice, "max-price", "", "giá tối đa")
	fl.StringVar(&sf.minArea, "min-area", "", "diện tích tối thiểu (m²)")
	fl.StringVar(&sf.maxArea, "max-area", "", "diện tích tối đa (m²)")
	fl.StringVar(&sf.province, "province", "", "tỉnh/thành phố")
	fl.StringVar(&sf.district, "district", "", "quận/huyện")
	fl.StringSliceVar(&sf.flags, "amenity", nil, "tiện ích hoặc quy định, ví dụ wifi,parking,allow_pets")
	fl.StringVar(&sf.near, "near", "", "tìm quanh tọa độ \"lat,lng\"")
	fl.StringVar(&sf.address, "address", "", "tìm quanh một địa chỉ")
	fl.Float64Var(&sf.radiusKm, "radius", 0, "bán kính tìm kiếm (km)")
	fl.StringVar(&sf.sortBy, "sort", "", "sắp xếp theo price hoặc area")
	fl.BoolVar(&sf.desc, "desc", false, "sắp xếp giảm dần")
	fl.IntVar(&sf.page, "page", 1, "trang")
	fl.IntVar(&sf.limit, "limit", 0, "số tin mỗi trang")
	fl.BoolVar(&sf.all, "all", false, "tải mọi trang")
	return cmd
}

// build turns the flags into a filter and sort
func (sf searchFlags) build(ctx context.Context, text string) (query.Filter, query.Sort, error) {
	limit := sf.limit
	if limit <= 0 {
		limit = cfg.UI.PageSize
	}
	f := query.New(limit).SetText(text)

	minPrice, err := query.ParseVND(sf.minPrice)
	if err != nil {
		return f, query.Sort{}, err
	}
	maxPrice, err := query.ParseVND(sf.maxPrice)
	if err != nil {
		return f, query.Sort{}, err
	}
	f = f.SetPriceRange(minPrice, maxPrice)

	minArea, err := query.ParseArea(sf.minArea)
	if err != nil {
		return f, query.Sort{}, err
	}
	maxArea, err := query.ParseArea(sf.maxArea)
	if err != nil {
		return f, query.Sort{}, err
	}
	f = f.SetAreaRange(minArea, maxArea)

	for _, key := range sf.flags {
		key = strings.TrimSpace(key)
		if !query.IsKnownFlag(key) {
			return f, query.Sort{}, fmt.Errorf("unknown amenity %q", key)
		}
		if !f.HasFlag(key) {
			f = f.Toggle(key)
		}
	}

	if sf.province != "" || sf.district != "" {
		province, district := resolveRegion(ctx, sf.province, sf.district)
		f = f.SetRegion(province, district)
	}

	if center, ok, err := sf.center(ctx); err != nil {
		return f, query.Sort{}, err
	} else if ok {
		radius := sf.radiusKm
		if radius <= 0 {
			radius = cfg.Geo.DefaultRadiusKm
		}
		f = f.SetGeo(center.Lat, center.Lng, radius)
	}

	var sort query.Sort
	switch strings.ToLower(sf.sortBy) {
	case "":
	case "price", "gia":
		sort = query.Sort{Field: query.SortPrice}
	case "area", "dientich":
		sort = query.Sort{Field: query.SortArea}
	default:
		return f, sort, fmt.Errorf("unknown sort %q (price or area)", sf.sortBy)
	}
	if sf.desc {
		sort.Direction = query.SortDesc
	}

	return f.WithPage(max(sf.page, 1)), sort, nil
}

// center resolves --near or --address to coordinates
func (sf searchFlags) center(ctx context.Context) (domain.Coordinates, bool, error) {
	if sf.near != "" {
		lat, lng, ok := strings.Cut(sf.near, ",")
		if !ok {
			return domain.Coordinates{}, false, fmt.Errorf("--near must be \"lat,lng\"")
		}
		var c domain.Coordinates
		var err error
		if c.Lat, err = strconv.ParseFloat(strings.TrimSpace(lat), 64); err != nil {
			return c, false, fmt.Errorf("invalid latitude: %w", err)
		}
		if c.Lng, err = strconv.ParseFloat(strings.TrimSpace(lng), 64); err != nil {
			return c, false, fmt.Errorf("invalid longitude: %w", err)
		}
		if !c.Valid() {
			return c, false, fmt.Errorf("%w: coordinates out of range", domain.ErrInvalidInput)
		}
		return c, true, nil
	}

	if sf.address != "" {
		places, err := newGeocoder().Search(ctx, sf.address, 1)
		if err != nil {
			return domain.Coordinates{}, false, err
		}
		if len(places) == 0 {
			return domain.Coordinates{}, false, fmt.Errorf("không tìm thấy địa chỉ %q", sf.address)
		}
		fmt.Fprintln(os.Stderr, styles.DimStyle.Render("Quanh: "+places[0].DisplayName))
		return places[0].Coordinates, true, nil
	}

	return domain.Coordinates{}, false, nil
}

// resolveRegion maps loosely typed names onto official region names, keeping
// the input when the directory is unreachable or has no match
func resolveRegion(ctx context.Context, province, district string) (string, string) {
	regions := geo.NewRegions(cfg.Geo.RegionsURL, logger)

	p, ok, err := regions.MatchProvince(ctx, province)
	if err != nil || !ok {
		if err != nil {
			logger.Warn("region lookup failed", "province", province, "error", err)
		}
		return province, district
	}
	if district == "" {
		return p.Name, ""
	}

	d, ok, err := regions.MatchDistrict(ctx, p.Code, district)
	if err != nil || !ok {
		return p.Name, district
	}
	return p.Name, d.Name
}

func printListings(listings []*domain.Listing) {
	rows := make([][]string, 0, len(listings))
	for _, l := range listings {
		verified := ""
		if l.Verified {
			verified = "✓"
		}
		rows = append(rows, []string{
			l.ID,
			styles.Truncate(l.Title, 40),
			l.FormattedPrice(),
			l.FormattedArea(),
			styles.Truncate(l.Location(), 28),
			l.FormattedDistance(),
			verified,
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(styles.DimStyle).
		Headers("ID", "Tiêu đề", "Giá", "Diện tích", "Khu vực", "Cách", "XM").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return styles.AccentStyle.Bold(true).Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		})
	fmt.Println(t.Render())
}
