package notify

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/example/geoboard/assets"
	"github.com/example/geoboard/internal/platform"
)

// Event identifies a notification trigger.
type Event string

const (
	// EventExport fires after a drawing is written to disk.
	EventExport Event = "export"
	// EventCopy fires after a drawing is placed on the clipboard.
	EventCopy Event = "copy"
)

// Preferences describes notification behaviour loaded from configuration.
type Preferences struct {
	Title     string
	Timeout   time.Duration
	Templates map[Event]string
}

// DefaultPreferences returns the default notification settings.
func DefaultPreferences() Preferences {
	return Preferences{
		Title:   "GeoBoard",
		Timeout: 5 * time.Second,
		Templates: map[Event]string{
			EventExport: "Saved %s",
			EventCopy:   "Copied %s to clipboard",
		},
	}
}

// LoadPreferences applies GEOBOARD_NOTIFY_* environment overrides to the
// defaults.
func LoadPreferences() Preferences {
	prefs := DefaultPreferences()
	if v := strings.TrimSpace(os.Getenv("GEOBOARD_NOTIFY_TITLE")); v != "" {
		prefs.Title = v
	}
	if v := strings.TrimSpace(os.Getenv("GEOBOARD_NOTIFY_EXPORT_TEXT")); v != "" {
		prefs.Templates[EventExport] = v
	}
	if v := strings.TrimSpace(os.Getenv("GEOBOARD_NOTIFY_COPY_TEXT")); v != "" {
		prefs.Templates[EventCopy] = v
	}
	return prefs
}

// SendFunc delivers one notification.
type SendFunc func(title, body string, opts platform.Options) error

// Notifier sends OS-level notifications for the enabled events.
type Notifier struct {
	prefs   Preferences
	enabled map[Event]bool
	send    SendFunc
	icon    func() (string, error)
}

// New creates a Notifier that delivers through the host platform.
func New(prefs Preferences) *Notifier {
	cloned := prefs
	cloned.Templates = make(map[Event]string, len(prefs.Templates))
	for k, v := range prefs.Templates {
		cloned.Templates[k] = v
	}
	return &Notifier{prefs: cloned, enabled: make(map[Event]bool), send: platform.Notify, icon: assets.IconFile}
}

// WithSender replaces the delivery function.
func (n *Notifier) WithSender(fn SendFunc) *Notifier {
	n.send = fn
	return n
}

// WithIcon replaces the application icon lookup. A nil fn sends no icon
// unless the export is a PNG file.
func (n *Notifier) WithIcon(fn func() (string, error)) *Notifier {
	n.icon = fn
	return n
}

// Enable toggles the notifier for the provided event.
func (n *Notifier) Enable(event Event, enabled bool) {
	if n == nil {
		return
	}
	n.enabled[event] = enabled
}

// Enabled reports whether event produces notifications.
func (n *Notifier) Enabled(event Event) bool {
	return n != nil && n.enabled[event]
}

// Export announces a written file. PNG files are used as their own icon,
// other exports carry the application icon.
func (n *Notifier) Export(path string) {
	if !n.Enabled(EventExport) {
		return
	}
	detail, icon := path, ""
	if abs, err := filepath.Abs(path); err == nil {
		detail = abs
		if strings.EqualFold(filepath.Ext(abs), ".png") {
			if _, err := os.Stat(abs); err == nil {
				icon = abs
			}
		}
	}
	n.dispatch(EventExport, detail, n.options(icon))
}

// Copy announces a clipboard write.
func (n *Notifier) Copy(detail string) {
	if !n.Enabled(EventCopy) {
		return
	}
	if strings.TrimSpace(detail) == "" {
		detail = "drawing"
	}
	n.dispatch(EventCopy, detail, n.options(""))
}

// options uses icon, or the application icon when icon is empty.
func (n *Notifier) options(icon string) platform.Options {
	opts := platform.Options{Timeout: n.prefs.Timeout, IconPath: icon}
	if icon != "" || n.icon == nil {
		return opts
	}
	if path, err := n.icon(); err == nil {
		opts.IconPath = path
	} else {
		log.Printf("notification icon: %v", err)
	}
	return opts
}

func (n *Notifier) dispatch(event Event, detail string, opts platform.Options) {
	tmpl := strings.TrimSpace(n.prefs.Templates[event])
	if tmpl == "" || n.send == nil {
		return
	}
	body := strings.TrimSpace(fmt.Sprintf(tmpl, strings.TrimSpace(detail)))
	if body == "" {
		return
	}
	if err := n.send(n.prefs.Title, body, opts); err != nil {
		log.Printf("notification %s: %v", event, err)
	}
}
