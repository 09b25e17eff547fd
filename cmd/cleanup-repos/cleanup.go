package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/beyondstorage/cleanup-repos/env"
	"github.com/beyondstorage/cleanup-repos/model"
	"github.com/beyondstorage/cleanup-repos/room"
	"github.com/beyondstorage/cleanup-repos/services"
)

const (
	applyArg = "apply"

	// exitArchiveFailed is returned with --fail-on-error.
	exitArchiveFailed = 2
)

func cleanupFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "config",
			Usage: "path to the cleanup.toml",
			Value: "cleanup.toml",
		},
		&cli.StringFlag{
			Name:  "owner",
			Usage: "github organization name",
			EnvVars: []string{
				env.GithubOwner,
			},
		},
		&cli.StringFlag{
			Name:     "token",
			Usage:    "github access token",
			Required: true,
			EnvVars: []string{
				env.GithubAccessToken,
			},
		},
		&cli.StringFlag{
			Name:  "github-url",
			Usage: "github enterprise url, github.com is used if empty",
			EnvVars: []string{
				env.GithubURL,
			},
		},
		&cli.IntFlag{
			Name:  "threshold-weeks",
			Usage: "archive repos not updated for more than this many calendar weeks",
		},
		&cli.StringSliceFlag{
			Name:  "exclude",
			Usage: "repo name or glob pattern that is never archived, can be repeated",
		},
		&cli.BoolFlag{
			Name:  "ignore-empty",
			Usage: "never archive repos without any pushed branch",
		},
		&cli.BoolFlag{
			Name:  "fail-on-error",
			Usage: "exit with a non-zero code if any repo failed to archive",
		},
		&cli.BoolFlag{
			Name:  "debug",
			Usage: "enable debug logging",
		},
		&cli.StringFlag{
			Name:    "matrix-url",
			Usage:   "matrix homeserver url used for the summary notice",
			EnvVars: []string{env.MatrixHomeServerURL},
		},
		&cli.StringFlag{
			Name:    "matrix-server",
			Usage:   "matrix homeserver name",
			EnvVars: []string{env.MatrixHomeServer},
		},
		&cli.StringFlag{
			Name:    "matrix-user",
			Usage:   "matrix user id",
			EnvVars: []string{env.MatrixUserId},
		},
		&cli.StringFlag{
			Name:    "matrix-token",
			Usage:   "matrix access token",
			EnvVars: []string{env.MatrixToken},
		},
		&cli.StringFlag{
			Name:    "matrix-room",
			Usage:   "matrix room alias to post the summary into",
			EnvVars: []string{env.MatrixRoom},
		},
	}
}

func cleanupAction(c *cli.Context) (err error) {
	logger, err := newLogger(c.Bool("debug"))
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	cfg, err := resolveConfig(c)
	if err != nil {
		return err
	}

	dryRun := isDryRun(c.Args().Slice(), logger)

	exclusions, err := model.NewExclusions(cfg.Exclude)
	if err != nil {
		return err
	}

	g, err := services.NewGithub(cfg.Owner, c.String("token"), cfg.GithubURL, services.Retry{
		Attempts: cfg.Retry.Attempts,
		Delay:    time.Duration(cfg.Retry.Delay),
	}, logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logger.Info("cleanup started",
		zap.String("owner", cfg.Owner),
		zap.Bool("dry_run", dryRun),
		zap.Int("threshold_weeks", cfg.ThresholdWeeks))

	stale, stat, err := services.Cleanup(ctx, c.App.Writer, logger, g, g, services.CleanupOptions{
		Stale: model.StaleOptions{
			Exclusions:     exclusions,
			ThresholdWeeks: cfg.ThresholdWeeks,
			IgnoreEmpty:    cfg.IgnoreEmpty,
		},
		DryRun: dryRun,
	})
	if err != nil {
		logger.Error("cleanup", zap.Error(err))
		return err
	}
	logger.Info("cleanup completed", zap.Stringer("summary", stat))

	notify(c, cfg, logger, stat, stale)

	return exitStatus(stat, c.Bool("fail-on-error"))
}

// exitStatus turns archive failures into an exit error if failOnError is set.
func exitStatus(stat model.Summary, failOnError bool) error {
	if stat.HasFailures() && failOnError {
		return cli.Exit(fmt.Sprintf("%d repos failed to archive", stat.Failed), exitArchiveFailed)
	}
	return nil
}

// isDryRun reports whether the run must not archive anything. Only the
// literal apply argument turns dry run off.
func isDryRun(args []string, logger *zap.Logger) bool {
	if len(args) == 0 {
		return true
	}
	if args[0] == applyArg {
		return false
	}
	logger.Warn("unrecognized argument, running in dry run mode",
		zap.String("arg", args[0]))
	return true
}

// resolveConfig loads the config file and applies flags on top of it.
func resolveConfig(c *cli.Context) (model.Config, error) {
	cfg, err := model.LoadConfig(c.String("config"))
	if err != nil {
		// The default config path is optional.
		if !errors.Is(err, fs.ErrNotExist) || c.IsSet("config") {
			return cfg, err
		}
		cfg = model.DefaultConfig()
	}

	if c.IsSet("owner") {
		cfg.Owner = c.String("owner")
	}
	if c.IsSet("github-url") {
		cfg.GithubURL = c.String("github-url")
	}
	if c.IsSet("threshold-weeks") {
		cfg.ThresholdWeeks = c.Int("threshold-weeks")
	}
	if c.IsSet("exclude") {
		cfg.Exclude = append(cfg.Exclude, c.StringSlice("exclude")...)
	}
	if c.IsSet("ignore-empty") {
		cfg.IgnoreEmpty = c.Bool("ignore-empty")
	}
	if c.IsSet("matrix-url") {
		cfg.Matrix.HomeServerURL = c.String("matrix-url")
	}
	if c.IsSet("matrix-server") {
		cfg.Matrix.HomeServer = c.String("matrix-server")
	}
	if c.IsSet("matrix-user") {
		cfg.Matrix.UserID = c.String("matrix-user")
	}
	if c.IsSet("matrix-room") {
		cfg.Matrix.Room = c.String("matrix-room")
	}

	if cfg.Owner == "" {
		return cfg, fmt.Errorf("github organization is not set, use --owner or %s", env.GithubOwner)
	}
	if cfg.ThresholdWeeks < 0 {
		return cfg, fmt.Errorf("invalid threshold weeks %d", cfg.ThresholdWeeks)
	}
	return cfg, nil
}

// notify posts the summary into the configured matrix room. Failures are
// only logged.
func notify(c *cli.Context, cfg model.Config, logger *zap.Logger, stat model.Summary, stale model.Repositories) {
	if cfg.Matrix.Room == "" || c.String("matrix-token") == "" {
		return
	}

	m, err := room.NewMatrix(
		cfg.Matrix.HomeServerURL,
		cfg.Matrix.HomeServer,
		cfg.Matrix.UserID,
		c.String("matrix-token"))
	if err != nil {
		logger.Error("create matrix client", zap.Error(err))
		return
	}

	b := &strings.Builder{}
	b.WriteString(stat.FormatPrint(cfg.Owner))
	for _, v := range stale {
		b.WriteString(fmt.Sprintf("- %s\n", v.Name))
	}

	err = m.Notify(cfg.Matrix.Room, b.String())
	if err != nil {
		logger.Error("notify matrix room", zap.String("room", cfg.Matrix.Room), zap.Error(err))
		return
	}
	logger.Info("notified matrix room", zap.String("room", cfg.Matrix.Room))
}

func newLogger(debug bool) (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	if !debug {
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	return cfg.Build()
}
