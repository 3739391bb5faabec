package launcher

import (
	"errors"
	"os/exec"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phongtro/phongtro/internal/domain"
	"github.com/phongtro/phongtro/internal/log"
)

type recorder struct {
	calls [][]string
	fail  map[string]bool
}

func (r *recorder) start(name string, args ...string) error {
	if r.fail[name] {
		return errors.New("start failed")
	}
	r.calls = append(r.calls, append([]string{name}, args...))
	return nil
}

// newTestLauncher returns a launcher where only the commands in path exist
func newTestLauncher(goos, command string, args []string, path ...string) (*Launcher, *recorder) {
	rec := &recorder{fail: map[string]bool{}}
	l := New(command, args, log.NullLogger())
	l.goos = goos
	l.start = rec.start
	l.lookPath = func(file string) (string, error) {
		for _, p := range path {
			if p == file {
				return "/usr/bin/" + file, nil
			}
		}
		return "", exec.ErrNotFound
	}
	return l, rec
}

var photos = []string{"https://cdn.example.com/a.jpg", "https://cdn.example.com/b.jpg"}

func TestConfiguredViewerGetsAllImages(t *testing.T) {
	l, rec := newTestLauncher("linux", "imv", []string{"-f"}, "imv")

	require.NoError(t, l.OpenImages(photos))
	require.Len(t, rec.calls, 1)
	assert.Equal(t, []string{"imv", "-f", photos[0], photos[1]}, rec.calls[0])
}

func TestConfiguredMacAppNotOnPath(t *testing.T) {
	l, rec := newTestLauncher("darwin", "Preview", nil)

	require.NoError(t, l.OpenImages(photos[:1]))
	require.Len(t, rec.calls, 1)
	assert.Equal(t, []string{"open", "-n", "-a", "Preview", photos[0]}, rec.calls[0])
}

func TestDetectedViewerInPreferenceOrder(t *testing.T) {
	l, rec := newTestLauncher("linux", "", nil, "eog", "gwenview")

	require.NoError(t, l.OpenImages(photos))
	require.Len(t, rec.calls, 1)
	assert.Equal(t, "eog", rec.calls[0][0])
}

func TestFallsBackToSystemDefault(t *testing.T) {
	l, rec := newTestLauncher("linux", "", nil)

	require.NoError(t, l.OpenImages(photos))
	require.Len(t, rec.calls, 2)
	for i, call := range rec.calls {
		assert.Equal(t, []string{"xdg-open", photos[i]}, call)
	}
}

func TestSystemDefaultIsCapped(t *testing.T) {
	l, rec := newTestLauncher("windows", "", nil)

	many := make([]string, 8)
	for i := range many {
		many[i] = "https://cdn.example.com/" + strings.Repeat("x", i+1) + ".jpg"
	}
	require.NoError(t, l.OpenImages(many))
	assert.Len(t, rec.calls, maxDefaultOpens)
	assert.Equal(t, []string{"cmd", "/c", "start", "", many[0]}, rec.calls[0])
}

func TestSystemDefaultFailure(t *testing.T) {
	l, rec := newTestLauncher("linux", "", nil)
	rec.fail["xdg-open"] = true

	err := l.OpenURL("https://www.openstreetmap.org/")
	assert.ErrorIs(t, err, ErrNoViewer)
}

func TestOnlyWebLinksAreOpened(t *testing.T) {
	l, rec := newTestLauncher("linux", "feh", nil, "feh")

	err := l.OpenImages([]string{"--help", "file:///etc/passwd", "", "https://"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Empty(t, rec.calls)

	require.NoError(t, l.OpenImages([]string{"--help", photos[0]}))
	assert.Equal(t, []string{"feh", photos[0]}, rec.calls[0])
}

func TestMapURL(t *testing.T) {
	got := MapURL(domain.Coordinates{Lat: 21.0285, Lng: 105.8542})
	assert.Equal(t, "https://www.openstreetmap.org/?mlat=21.028500&mlon=105.854200#map=17/21.028500/105.854200", got)
}
