package geo

import (
	"math"
	"strconv"
	"strings"

	"github.com/phongtro/phongtro/internal/domain"
)

// LatLngToTile returns the slippy-map tile containing c at zoom
func LatLngToTile(c domain.Coordinates, zoom int) (x, y int) {
	c = normalize(c)
	n := math.Exp2(float64(zoom))
	latRad := c.Lat * math.Pi / 180

	x = int(math.Floor((c.Lng + 180) / 360 * n))
	y = int(math.Floor((1 - math.Log(math.Tan(latRad)+1/math.Cos(latRad))/math.Pi) / 2 * n))

	last := int(n) - 1
	x = max(0, min(last, x))
	y = max(0, min(last, y))
	return x, y
}

// TileURL fills a {z}/{x}/{y} template. {s} becomes the "a" subdomain.
func TileURL(template string, z, x, y int) string {
	return strings.NewReplacer(
		"{z}", strconv.Itoa(z),
		"{x}", strconv.Itoa(x),
		"{y}", strconv.Itoa(y),
		"{s}", "a",
	).Replace(template)
}
