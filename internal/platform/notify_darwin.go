//go:build darwin

package platform

import (
	"fmt"
	"os/exec"
)

// Notify displays a notification through terminal-notifier when it is
// installed, since it can show the drawing as the icon, and osascript
// otherwise.
func Notify(title, body string, opts Options) error {
	if tn, err := exec.LookPath("terminal-notifier"); err == nil {
		args := []string{"-title", AppName, "-subtitle", title, "-message", body, "-group", "geoboard"}
		if opts.IconPath != "" {
			args = append(args, "-contentImage", opts.IconPath)
		}
		return exec.Command(tn, args...).Run()
	}
	script := fmt.Sprintf("display notification %q with title %q subtitle %q", body, AppName, title)
	if err := exec.Command("osascript", "-e", script).Run(); err != nil {
		return fmt.Errorf("osascript: %w", err)
	}
	return nil
}
