// Package launcher opens listing photos and map links outside the terminal.
package launcher

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/phongtro/phongtro/internal/domain"
)

// The system handler opens one URL per call; more would flood the browser with tabs
const maxDefaultOpens = 5

// ErrNoViewer is returned when no viewer could be started
var ErrNoViewer = errors.New("no viewer available")

// Launcher opens URLs in the configured viewer, a detected image viewer or
// the system default handler
type Launcher struct {
	command string   // configured viewer command, empty for auto-detection
	args    []string // additional arguments for the viewer
	logger  *slog.Logger

	goos     string
	start    func(name string, args ...string) error
	lookPath func(file string) (string, error)
}

// launchPath is one way to start a viewer
type launchPath struct {
	path      string   // Command path: "feh" or "open-a:AppName"
	openFlags []string // For "open-a:" paths only, flags for the macOS open command
}

// viewerConfig describes how a known viewer is started on each platform
type viewerConfig struct {
	args      []string                // Arguments placed before the URLs
	platforms map[string][]launchPath // Platform -> launch paths to try in order
}

// viewers accept several image URLs in one invocation
var viewers = map[string]viewerConfig{
	"feh": {
		args: []string{"--scale-down", "--auto-zoom"},
		platforms: map[string][]launchPath{
			"linux":   {{path: "feh"}},
			"freebsd": {{path: "feh"}},
		},
	},
	"eog": {
		platforms: map[string][]launchPath{
			"linux": {{path: "eog"}},
		},
	},
	"gwenview": {
		platforms: map[string][]launchPath{
			"linux": {{path: "gwenview"}},
		},
	},
	"preview": {
		platforms: map[string][]launchPath{
			"darwin": {{path: "open-a:Preview", openFlags: []string{"-n"}}},
		},
	},
}

// candidateViewers is the preferred viewer order for each platform
var candidateViewers = map[string][]string{
	"linux":   {"feh", "eog", "gwenview"},
	"freebsd": {"feh"},
}

// New creates a Launcher. An empty command auto-detects a viewer.
func New(command string, args []string, logger *slog.Logger) *Launcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Launcher{
		command:  command,
		args:     args,
		logger:   logger,
		goos:     runtime.GOOS,
		start:    startCommand,
		lookPath: exec.LookPath,
	}
}

func startCommand(name string, args ...string) error {
	return exec.Command(name, args...).Start()
}

// MapURL links to the OpenStreetMap page centered on c with a marker
func MapURL(c domain.Coordinates) string {
	return fmt.Sprintf("https://www.openstreetmap.org/?mlat=%.6f&mlon=%.6f#map=17/%.6f/%.6f",
		c.Lat, c.Lng, c.Lat, c.Lng)
}

// OpenImages shows the photos of a listing
func (l *Launcher) OpenImages(urls []string) error {
	urls, err := webURLs(urls)
	if err != nil {
		return err
	}

	// Tier 1: user configured a specific viewer
	if l.command != "" {
		return l.launchConfigured(urls)
	}

	// Tier 2: known image viewers for this platform
	if name, err := l.detectAndLaunch(urls); err == nil {
		l.logger.Info("opened images", "viewer", name, "count", len(urls))
		return nil
	}

	// Tier 3: system default, usually the browser
	l.logger.Info("no image viewer found, using system default")
	return l.launchDefault(urls)
}

// OpenURL opens a web page such as a map link with the system default handler
func (l *Launcher) OpenURL(link string) error {
	urls, err := webURLs([]string{link})
	if err != nil {
		return err
	}
	return l.launchDefault(urls)
}

// webURLs keeps http(s) URLs only, so nothing reaches a command as a flag
func webURLs(in []string) ([]string, error) {
	out := make([]string, 0, len(in))
	for _, raw := range in {
		u, err := url.Parse(strings.TrimSpace(raw))
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			continue
		}
		out = append(out, u.String())
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: no web links to open", domain.ErrInvalidInput)
	}
	return out, nil
}

// detectAndLaunch tries candidate viewers in order and returns the one that started
func (l *Launcher) detectAndLaunch(urls []string) (string, error) {
	for _, name := range candidateViewers[l.goos] {
		viewer, ok := viewers[name]
		if !ok {
			continue
		}
		for _, lp := range viewer.platforms[l.goos] {
			args := append(append([]string{}, viewer.args...), urls...)

			var err error
			if strings.HasPrefix(lp.path, "open-a:") {
				err = l.start("open", openArgs(strings.TrimPrefix(lp.path, "open-a:"), lp.openFlags, args)...)
			} else if _, err = l.lookPath(lp.path); err == nil {
				err = l.start(lp.path, args...)
			}
			if err == nil {
				return name, nil
			}
			l.logger.Debug("viewer not available", "viewer", name, "path", lp.path, "error", err)
		}
	}
	return "", ErrNoViewer
}

// launchConfigured starts the configured viewer with every URL
func (l *Launcher) launchConfigured(urls []string) error {
	args := append(append([]string{}, l.args...), urls...)
	l.logger.Info("launching viewer", "command", l.command, "count", len(urls))

	// GUI apps on macOS are often not on PATH
	if l.goos == "darwin" {
		if _, err := l.lookPath(l.command); err != nil {
			var openFlags []string
			base := strings.ToLower(strings.TrimSuffix(filepath.Base(l.command), filepath.Ext(l.command)))
			for _, lp := range viewers[base].platforms["darwin"] {
				if strings.HasPrefix(lp.path, "open-a:") {
					openFlags = lp.openFlags
					break
				}
			}
			return l.start("open", openArgs(l.command, openFlags, args)...)
		}
	}

	return l.start(l.command, args...)
}

// launchDefault opens each URL with the system handler
func (l *Launcher) launchDefault(urls []string) error {
	if len(urls) > maxDefaultOpens {
		l.logger.Info("limiting opened links", "requested", len(urls), "opened", maxDefaultOpens)
		urls = urls[:maxDefaultOpens]
	}

	for _, u := range urls {
		var err error
		switch l.goos {
		case "darwin":
			err = l.start("open", u)
		case "windows":
			err = l.start("cmd", "/c", "start", "", u)
		default:
			err = l.start("xdg-open", u)
		}
		if err != nil {
			return fmt.Errorf("%w: %v", ErrNoViewer, err)
		}
	}
	l.logger.Info("opened with system default", "os", l.goos, "count", len(urls))
	return nil
}

// openArgs builds "open [flags] -a App --args ..." with the URLs last
func openArgs(app string, openFlags, args []string) []string {
	out := append([]string{}, openFlags...)
	out = append(out, "-a", app)

	var extra, urls []string
	for _, a := range args {
		if strings.HasPrefix(a, "http://") || strings.HasPrefix(a, "https://") {
			urls = append(urls, a)
		} else {
			extra = append(extra, a)
		}
	}
	if len(extra) > 0 {
		out = append(out, "--args")
		out = append(out, extra...)
	}
	return append(out, urls...)
}
