package platform

import "time"

// AppName is reported as the sending application.
const AppName = "GeoBoard"

// Options configures how a notification is displayed on the host platform.
type Options struct {
	// IconPath, when non-empty, points to an image shown next to the text
	// where the notification center supports it.
	IconPath string
	// Timeout is how long the notification stays up. Zero uses the
	// platform default.
	Timeout time.Duration
}

func (o Options) expireMillis() int32 {
	if o.Timeout <= 0 {
		return -1
	}
	return int32(o.Timeout / time.Millisecond)
}
