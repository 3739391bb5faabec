package commands

import (
	"bytes"
	"context"
	"io"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phongtro/phongtro/internal/config"
	"github.com/phongtro/phongtro/internal/domain"
	"github.com/phongtro/phongtro/internal/log"
	"github.com/phongtro/phongtro/internal/query"
)

func setupGlobals(t *testing.T) {
	t.Helper()
	cfg = config.DefaultConfig()
	logger = log.NullLogger()
	t.Cleanup(func() {
		cfg = nil
		logger = nil
	})
}

func TestSearchFlagsBuild(t *testing.T) {
	setupGlobals(t)

	sf := searchFlags{
		minPrice: "2,5tr",
		maxPrice: "4 triệu",
		minArea:  "20",
		flags:    []string{"wifi", " parking "},
		near:     "21.0285, 105.8542",
		sortBy:   "price",
		desc:     true,
		page:     2,
	}
	f, sort, err := sf.build(context.Background(), "gần chợ")
	require.NoError(t, err)

	assert.Equal(t, "gần chợ", f.Text)
	assert.Equal(t, int64(2_500_000), f.MinPrice)
	assert.Equal(t, int64(4_000_000), f.MaxPrice)
	assert.Equal(t, 20.0, f.MinArea)
	assert.True(t, f.HasFlag("wifi"))
	assert.True(t, f.HasFlag("parking"))
	require.NotNil(t, f.Geo)
	assert.Equal(t, 21.0285, f.Geo.Lat)
	assert.Equal(t, cfg.Geo.DefaultRadiusKm, f.Geo.RadiusKm)
	assert.Equal(t, 2, f.Page)
	assert.Equal(t, cfg.UI.PageSize, f.Limit)
	assert.Equal(t, query.Sort{Field: query.SortPrice, Direction: query.SortDesc}, sort)
}

func TestSearchFlagsBuildErrors(t *testing.T) {
	setupGlobals(t)

	tests := map[string]searchFlags{
		"bad price":        {minPrice: "rẻ"},
		"infinite price":   {minPrice: "inf"},
		"huge price":       {maxPrice: "1e15tr"},
		"unitless decimal": {maxPrice: "2.5"},
		"unknown amenity":  {flags: []string{"helipad"}},
		"bad sort":         {sortBy: "newest"},
		"near format":      {near: "21.0"},
		"near range":       {near: "95,105"},
	}
	for name, sf := range tests {
		_, _, err := sf.build(context.Background(), "")
		assert.Error(t, err, name)
	}
}

func parseListingFlags(t *testing.T, args ...string) (*listingFlags, *cobra.Command) {
	t.Helper()
	var lf listingFlags
	cmd := &cobra.Command{Use: "test"}
	lf.register(cmd.Flags())
	cmd.Flags().StringVar(&lf.status, "status", "", "")
	require.NoError(t, cmd.Flags().Parse(args))
	return &lf, cmd
}

func TestListingInputOnlySetFields(t *testing.T) {
	setupGlobals(t)

	lf, cmd := parseListingFlags(t,
		"--title", "Phòng gần chợ",
		"--price", "3tr",
		"--amenity", "wifi,air_conditioner",
		"--lat", "21.03",
		"--lng", "105.85",
		"--status", "hidden",
	)
	in, err := lf.input(context.Background(), cmd.Flags(), nil)
	require.NoError(t, err)

	require.NotNil(t, in.Title)
	assert.Equal(t, "Phòng gần chợ", *in.Title)
	require.NotNil(t, in.Price)
	assert.Equal(t, int64(3_000_000), *in.Price)
	assert.Equal(t, []string{"wifi", "air_conditioner"}, in.Amenities)
	require.NotNil(t, in.Lat)
	assert.Equal(t, 21.03, *in.Lat)
	require.NotNil(t, in.Status)
	assert.Equal(t, domain.ListingStatusHidden, *in.Status)

	assert.Nil(t, in.Description)
	assert.Nil(t, in.Address)
	assert.Nil(t, in.Deposit)
	assert.Nil(t, in.Area)
	assert.Nil(t, in.Rules)
	assert.Nil(t, in.Images)
}

func TestListingInputRejectsBadValues(t *testing.T) {
	setupGlobals(t)

	cases := [][]string{
		{"--amenity", "helipad"},
		{"--price", "nhiều"},
		{"--lat", "120", "--lng", "105"},
		{"--status", "pending"},
		{"--description-file", "/nonexistent/mota.md"},
	}
	for _, args := range cases {
		lf, cmd := parseListingFlags(t, args...)
		_, err := lf.input(context.Background(), cmd.Flags(), nil)
		assert.Error(t, err, args)
	}
}

func TestChatPrinterSkipsSeenMessages(t *testing.T) {
	p := newChatPrinter(io.Discard, "An")
	msgs := []domain.ChatMessage{
		{ID: "1", Text: "chào"},
		{ClientID: "c1", Text: "phòng còn không?", Outbound: true},
	}
	p.print(msgs, true)
	assert.Len(t, p.seen, 2)

	p.print(append(msgs, domain.ChatMessage{ID: "2", Text: "còn nhé"}), false)
	assert.Len(t, p.seen, 3)
}

func TestChatPrinterKeepsMessagesWithoutIDs(t *testing.T) {
	var out bytes.Buffer
	p := newChatPrinter(&out, "An")

	first := []domain.ChatMessage{{Text: "one"}}
	p.print(first, false)
	p.print(append(first, domain.ChatMessage{Text: "two"}), false)
	p.print(append(first, domain.ChatMessage{Text: "two"}, domain.ChatMessage{Text: "two"}), false)

	assert.Equal(t, "An: one\nAn: two\nAn: two\n", out.String())
}

func TestChatPrinterStampsKnownTimes(t *testing.T) {
	var out bytes.Buffer
	p := newChatPrinter(&out, "An")

	sent := time.Date(2026, 3, 1, 9, 30, 0, 0, time.Local)
	p.print([]domain.ChatMessage{{ID: "1", Text: "chào", SentAt: sent}}, false)

	assert.Equal(t, "09:30 An: chào\n", out.String())
}
