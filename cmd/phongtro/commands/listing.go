package commands

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/phongtro/phongtro/internal/domain"
	"github.com/phongtro/phongtro/internal/launcher"
	"github.com/phongtro/phongtro/internal/query"
	"github.com/phongtro/phongtro/internal/tui/components"
	"github.com/phongtro/phongtro/internal/tui/styles"
)

const (
	listingTimeout = 30 * time.Second

	// Image uploads get longer than plain API calls
	uploadTimeout = 2 * time.Minute
)

func listingCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "listing",
		Short: "Xem và quản lý tin đăng",
	}
	cmd.AddCommand(
		listingShowCmd(),
		listingCreateCmd(),
		listingUpdateCmd(),
		listingDeleteCmd(),
		listingVerifyCmd(),
		listingOpenCmd(),
	)
	return cmd
}

func listingShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "In chi tiết một tin đăng",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := requireSession()
			if err != nil {
				return err
			}
			defer a.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), listingTimeout)
			defer cancel()

			l, err := a.services.Listings.Get(ctx, args[0])
			if err != nil {
				return err
			}
			data := components.DetailData{
				Listing:  l,
				IsOwner:  l.OwnerID == cfg.Server.UserID,
				Favorite: a.services.Favorites.IsFavorite(l.ID),
			}
			if summary, err := a.services.Reviews.Summary(ctx, l.ID); err == nil {
				data.Summary = summary
			}
			if reviews, err := a.services.Reviews.List(ctx, l.ID); err == nil {
				data.Reviews = reviews
			}
			if check, err := a.services.Connections.Check(ctx, l.ID); err == nil {
				data.Connection = check
			}

			fmt.Println(components.RenderDetail(data, terminalWidth(), renderMarkdown))
			return nil
		},
	}
}

// listingFlags are the editable listing fields
type listingFlags struct {
	title, description, descriptionFile string
	address, province, district, ward    string
	lat, lng                             float64
	price, area, deposit                 string
	amenities, rules, images             []string
	status                               string
	geocode                              bool
}

func (lf *listingFlags) register(fl *pflag.FlagSet) {
	fl.StringVar(&lf.title, "title", "", "tiêu đề")
	fl.StringVar(&lf.description, "description", "", "mô tả (markdown)")
	fl.StringVar(&lf.descriptionFile, "description-file", "", "đọc mô tả từ file markdown")
	fl.StringVar(&lf.address, "address", "", "địa chỉ")
	fl.StringVar(&lf.province, "province", "", "tỉnh/thành phố")
	fl.StringVar(&lf.district, "district", "", "quận/huyện")
	fl.StringVar(&lf.ward, "ward", "", "phường/xã")
	fl.Float64Var(&lf.lat, "lat", 0, "vĩ độ")
	fl.Float64Var(&lf.lng, "lng", 0, "kinh độ")
	fl.StringVar(&lf.price, "price", "", "giá thuê mỗi tháng, ví dụ 3,5tr")
	fl.StringVar(&lf.area, "area", "", "diện tích (m²)")
	fl.StringVar(&lf.deposit, "deposit", "", "tiền cọc")
	fl.StringSliceVar(&lf.amenities, "amenity", nil, "tiện ích, ví dụ wifi,parking")
	fl.StringSliceVar(&lf.rules, "rule", nil, "quy định, ví dụ allow_pets")
	fl.StringSliceVar(&lf.images, "image", nil, "đường dẫn ảnh để tải lên")
	fl.BoolVar(&lf.geocode, "geocode", true, "tìm tọa độ từ địa chỉ khi không có --lat/--lng")
}

// input builds the payload from the flags the user actually set
func (lf *listingFlags) input(ctx context.Context, fl *pflag.FlagSet, a *app) (domain.ListingInput, error) {
	var in domain.ListingInput
	set := fl.Changed

	if set("title") {
		in.Title = &lf.title
	}
	if set("description-file") {
		b, err := os.ReadFile(lf.descriptionFile)
		if err != nil {
			return in, fmt.Errorf("failed to read description: %w", err)
		}
		lf.description = string(b)
		in.Description = &lf.description
	} else if set("description") {
		in.Description = &lf.description
	}
	if set("address") {
		in.Address = &lf.address
	}
	if set("province") {
		in.Province = &lf.province
	}
	if set("district") {
		in.District = &lf.district
	}
	if set("ward") {
		in.Ward = &lf.ward
	}

	if set("price") {
		v, err := query.ParseVND(lf.price)
		if err != nil {
			return in, fmt.Errorf("--price: %w", err)
		}
		in.Price = &v
	}
	if set("deposit") {
		v, err := query.ParseVND(lf.deposit)
		if err != nil {
			return in, fmt.Errorf("--deposit: %w", err)
		}
		in.Deposit = &v
	}
	if set("area") {
		v, err := query.ParseArea(lf.area)
		if err != nil {
			return in, fmt.Errorf("--area: %w", err)
		}
		in.Area = &v
	}

	for _, key := range append(append([]string{}, lf.amenities...), lf.rules...) {
		if !query.IsKnownFlag(key) {
			return in, fmt.Errorf("%w: unknown amenity or rule %q", domain.ErrInvalidInput, key)
		}
	}
	if set("amenity") {
		in.Amenities = lf.amenities
	}
	if set("rule") {
		in.Rules = lf.rules
	}

	switch {
	case set("lat") || set("lng"):
		c := domain.Coordinates{Lat: lf.lat, Lng: lf.lng}
		if !c.Valid() {
			return in, fmt.Errorf("%w: coordinates out of range", domain.ErrInvalidInput)
		}
		in.Lat, in.Lng = &c.Lat, &c.Lng
	case lf.geocode && in.Address != nil:
		if c, ok := geocodeAddress(ctx, lf); ok {
			in.Lat, in.Lng = &c.Lat, &c.Lng
		}
	}

	if set("status") {
		status := domain.ListingStatus(lf.status)
		if status != domain.ListingStatusActive && status != domain.ListingStatusHidden {
			return in, fmt.Errorf("--status phải là active hoặc hidden")
		}
		in.Status = &status
	}

	if len(lf.images) > 0 {
		uploadCtx, cancel := context.WithTimeout(ctx, uploadTimeout)
		defer cancel()
		fmt.Printf("Đang tải lên %d ảnh...\n", len(lf.images))
		urls, err := a.uploads.Upload(uploadCtx, lf.images)
		if err != nil {
			return in, err
		}
		in.Images = urls
	}

	return in, nil
}

// geocodeAddress looks up the full address, reporting a miss without failing
func geocodeAddress(ctx context.Context, lf *listingFlags) (domain.Coordinates, bool) {
	full := strings.Join(nonEmpty(lf.address, lf.ward, lf.district, lf.province), ", ")
	places, err := newGeocoder().Search(ctx, full, 1)
	if err != nil || len(places) == 0 {
		fmt.Fprintln(os.Stderr, styles.DimStyle.Render("Không tìm được tọa độ cho địa chỉ, tin sẽ không hiện khi tìm theo bản đồ"))
		return domain.Coordinates{}, false
	}
	fmt.Println(styles.DimStyle.Render("Tọa độ: " + places[0].Coordinates.String()))
	return places[0].Coordinates, true
}

func listingCreateCmd() *cobra.Command {
	var lf listingFlags
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Đăng tin cho thuê",
		Example: `  phongtro listing create --title "Phòng 20m² gần ĐH Bách Khoa" --price 3tr --area 20 \
    --address "12 Tạ Quang Bửu" --district "Hai Bà Trưng" --province "Hà Nội" \
    --amenity wifi,private_wc --image phong1.jpg --image phong2.jpg`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := requireSession()
			if err != nil {
				return err
			}
			defer a.Close()

			in, err := lf.input(cmd.Context(), cmd.Flags(), a)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), listingTimeout)
			defer cancel()
			l, err := a.services.Listings.Create(ctx, in)
			if err != nil {
				return err
			}
			fmt.Printf("✓ Đã đăng tin %s (%s), đang chờ duyệt\n", l.ID, l.Title)
			return nil
		},
	}
	lf.register(cmd.Flags())
	return cmd
}

func listingUpdateCmd() *cobra.Command {
	var lf listingFlags
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Sửa tin đăng, chỉ các trường được truyền vào",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := requireSession()
			if err != nil {
				return err
			}
			defer a.Close()

			in, err := lf.input(cmd.Context(), cmd.Flags(), a)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), listingTimeout)
			defer cancel()
			l, err := a.services.Listings.Update(ctx, args[0], in)
			if err != nil {
				return err
			}
			fmt.Printf("✓ Đã cập nhật %s (%s)\n", l.ID, l.Title)
			return nil
		},
	}
	lf.register(cmd.Flags())
	cmd.Flags().StringVar(&lf.status, "status", "", "active hoặc hidden")
	return cmd
}

func listingDeleteCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Xóa tin đăng",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				answer, err := prompt(fmt.Sprintf("Xóa tin %s? [y/N] ", args[0]))
				if err != nil {
					return err
				}
				if !strings.EqualFold(answer, "y") {
					return nil
				}
			}

			a, err := requireSession()
			if err != nil {
				return err
			}
			defer a.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), listingTimeout)
			defer cancel()
			if err := a.services.Listings.Delete(ctx, args[0]); err != nil {
				return err
			}
			fmt.Println("✓ Đã xóa tin")
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "không hỏi lại")
	return cmd
}

func listingVerifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verify <id>",
		Short: "Đánh dấu tin đã xác minh (quản trị viên)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := requireSession()
			if err != nil {
				return err
			}
			defer a.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), listingTimeout)
			defer cancel()
			l, err := a.services.Listings.Verify(ctx, args[0])
			if err != nil {
				return err
			}
			fmt.Printf("✓ %s %s\n", l.Title, styles.VerifiedBadge)
			return nil
		},
	}
}

func listingOpenCmd() *cobra.Command {
	var onMap bool
	cmd := &cobra.Command{
		Use:   "open <id>",
		Short: "Mở ảnh của tin đăng, hoặc vị trí trên bản đồ với --map",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := requireSession()
			if err != nil {
				return err
			}
			defer a.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), listingTimeout)
			defer cancel()
			l, err := a.services.Listings.Get(ctx, args[0])
			if err != nil {
				return err
			}

			opener := launcher.New(cfg.Viewer.Command, cfg.Viewer.Args, logger)
			if onMap {
				c, ok := l.Coordinates()
				if !ok {
					return fmt.Errorf("tin %q chưa có vị trí trên bản đồ", l.Title)
				}
				return opener.OpenURL(launcher.MapURL(c))
			}
			if len(l.Images) == 0 {
				return fmt.Errorf("tin %q chưa có ảnh", l.Title)
			}
			return opener.OpenImages(l.Images)
		},
	}
	cmd.Flags().BoolVar(&onMap, "map", false, "mở vị trí trên OpenStreetMap")
	return cmd
}

// renderMarkdown renders listing descriptions the way the TUI does
func renderMarkdown(text string, width int) string {
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(width))
	if err != nil {
		return text
	}
	out, err := r.Render(text)
	if err != nil {
		return text
	}
	return strings.TrimSpace(out)
}

func terminalWidth() int {
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		return min(w, 100)
	}
	return 80
}

func nonEmpty(parts ...string) []string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			out = append(out, p)
		}
	}
	return out
}
