package cmd

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/masmgr/changeminer/config"
)

// InitCmd returns the init command, which writes a configuration file.
func InitCmd() *cli.Command {
	return &cli.Command{
		Name:  "init",
		Usage: "Write the effective configuration to " + config.FileName,
		Flags: append(commonFlags(), &cli.BoolFlag{
			Name:  "force",
			Usage: "Overwrite an existing file",
		}),
		Action: initAction,
	}
}

func initAction(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	path := c.String("output")
	if path == "" {
		path = config.FileName
	}
	if _, err := os.Stat(path); err == nil && !c.Bool("force") {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}

	if err := config.SaveConfig(cfg, path); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	fmt.Fprintf(c.App.Writer, "Wrote %s\n", path)
	return nil
}
