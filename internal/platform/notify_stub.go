//go:build !linux && !darwin && !windows

package platform

import "log"

// Notify writes the notification to the log where no notification service
// is known.
func Notify(title, body string, opts Options) error {
	if opts.IconPath != "" {
		log.Printf("%s: %s (%s)", title, body, opts.IconPath)
		return nil
	}
	log.Printf("%s: %s", title, body)
	return nil
}
