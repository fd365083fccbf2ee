package main

import (
	"flag"
	"fmt"

	"github.com/example/geoboard/internal/config"
	"github.com/example/geoboard/internal/theme"
)

// configCmd prints or saves the effective configuration.
type configCmd struct {
	*root
	fs     *flag.FlagSet
	action string
}

func (c *configCmd) FlagSet() *flag.FlagSet { return c.fs }

func parseConfigCmd(args []string, r *root) (*configCmd, error) {
	c := &configCmd{root: r.subcommand("config")}
	c.fs = flag.NewFlagSet("config", flag.ContinueOnError)
	c.fs.Usage = usageFunc(c)
	if err := c.fs.Parse(args); err != nil {
		return nil, err
	}
	c.action = "print"
	if c.fs.NArg() > 0 {
		c.action = c.fs.Arg(0)
	}
	if c.fs.NArg() > 1 {
		return nil, &UsageError{of: c}
	}
	switch c.action {
	case "print", "save", "path", "themes":
	default:
		return nil, &UsageError{of: c}
	}
	return c, nil
}

func (c *configCmd) Run() error {
	loader := config.NewLoader(version, configPathOverride)
	switch c.action {
	case "path":
		if p := loader.GetConfigPath(); p != "" {
			fmt.Fprintln(c.stdout, p)
		} else {
			fmt.Fprintf(c.stdout, "no config file, save would write %s\n", loader.SavePath())
		}
	case "themes":
		for _, n := range theme.NewLoader().Names() {
			fmt.Fprintln(c.stdout, n)
		}
	case "save":
		path, err := loader.Save(c.effective())
		if err != nil {
			return fmt.Errorf("save config: %w", err)
		}
		fmt.Fprintf(c.stderr, "saved %s\n", path)
	default:
		fmt.Fprint(c.stdout, c.effective().String())
	}
	return nil
}

// effective is the loaded configuration with the global flags applied.
func (c *configCmd) effective() *config.Config {
	cfg := *c.config
	if c.themeName != "" {
		cfg.Theme = c.themeName
	}
	cfg.SaveDir = c.saveDir
	cfg.Notify.Export = c.exportAlert
	cfg.Notify.Copy = c.copyAlert
	return &cfg
}
