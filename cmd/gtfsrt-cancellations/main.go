package main

import (
	"errors"
	"os"

	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"

	"github.com/theoremus-urban-solutions/gtfsrt-cancellations/config"
	"github.com/theoremus-urban-solutions/gtfsrt-cancellations/internal"

	_ "time/tzdata"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		var exit cli.ExitCoder
		if !errors.As(err, &exit) {
			logger := zerolog.New(os.Stderr).With().Timestamp().Logger()
			logger.Error().Err(err).Msg("gtfsrt-cancellations failed")
		}
		os.Exit(1)
	}
}

// runFlags are accepted both before a command and after "run".
func runFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Usage:   "path to the yaml configuration file",
			EnvVars: []string{"CONFIG_PATH"},
		},
		&cli.BoolFlag{
			Name:  "dry-run",
			Usage: "build and encode the feed without publishing it",
		},
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:   "gtfsrt-cancellations",
		Usage:  "Publish a GTFS-Realtime TripUpdates feed of trips cancelled by service alerts",
		Flags:  runFlags(),
		Action: runAction,
		Commands: []*cli.Command{
			{
				Name:   "run",
				Usage:  "build and publish the feed once (default)",
				Flags:  runFlags(),
				Action: runAction,
			},
			{
				Name:      "inspect",
				Usage:     "print a published protobuf feed as JSON",
				ArgsUsage: "<file.pb|url>",
				Action:    inspectAction,
			},
		},
		// main sets the exit status
		ExitErrHandler: func(*cli.Context, error) {},
	}
}

func runAction(c *cli.Context) error {
	configPath := setContext(c, "config").String("config")
	cfg, err := config.LoadAppConfig(configPath)
	if err != nil {
		logger, _ := internal.NewLogger("info", false)
		logger.Error().Err(err).Str("config", configPath).Msg("loading configuration")
		return cli.Exit("", 1)
	}

	logger, err := internal.NewLogger(cfg.Logging.Level, cfg.Logging.Pretty)
	if err != nil {
		return err
	}

	if err := run(c.Context, cfg, logger, setContext(c, "dry-run").Bool("dry-run")); err != nil {
		return cli.Exit("", 1)
	}
	return nil
}

// setContext returns the innermost context in which name was given, so a
// run flag works both before and after the "run" command.
func setContext(c *cli.Context, name string) *cli.Context {
	for _, ctx := range c.Lineage() {
		if ctx.IsSet(name) {
			return ctx
		}
	}
	return c
}
