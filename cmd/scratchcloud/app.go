package main

import (
	"log/slog"
	"os"

	"github.com/aussiebroadwan/scratchcloud/internal/credstore"
	"github.com/aussiebroadwan/scratchcloud/pkg/scratchsdk"
	"github.com/aussiebroadwan/scratchcloud/pkg/slogx"
	"github.com/urfave/cli/v2"
)

const version = "v0.1.0"

const (
	flagFilter       = "filter"
	flagKeepIdentity = "keep-identity"
	flagOutput       = "output"
	flagPage         = "page"
	flagPassword     = "password"
	flagSort         = "sort"
	flagAscending    = "ascending"
	flagUsername     = "username"
)

var cliFlagOutput = &cli.StringFlag{
	Name:    flagOutput,
	Aliases: []string{"o"},
	Usage:   "Return output in another format. Supported formats: table, json",
	Value:   "table",
}

var cliFlagUsername = &cli.StringFlag{
	Name:    flagUsername,
	Aliases: []string{"u"},
	Usage:   "Use the cached login of this user instead of the most recent one",
}

// runtime is what Before builds for every command.
type runtime struct {
	cfg    config
	logger *slog.Logger
	client *scratchsdk.Client
	store  credstore.Store
}

func newApp() *cli.App {
	rt := &runtime{}

	app := cli.NewApp()
	app.Name = "scratchcloud"
	app.Usage = "Log in to Scratch and inspect the session"
	app.Version = version
	app.Before = rt.setup
	app.After = rt.teardown
	app.Commands = []*cli.Command{
		{
			Name:  "login",
			Usage: "Log in with a username and password and cache the session",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    flagUsername,
					Aliases: []string{"u"},
					Usage:   "Username; prompted for when omitted",
				},
				&cli.StringFlag{
					Name:    flagPassword,
					Aliases: []string{"p"},
					Usage:   "Password for non-interactive login; prompted for when omitted",
				},
			},
			Action: rt.login,
		},
		{
			Name:   "whoami",
			Usage:  "Resume the cached session and show its identity",
			Flags:  []cli.Flag{cliFlagUsername, cliFlagOutput},
			Action: rt.whoami,
		},
		{
			Name:      "profile",
			Usage:     "Show a user's public profile",
			ArgsUsage: "USERNAME",
			Flags:     []cli.Flag{cliFlagOutput},
			Action:    rt.profile,
		},
		{
			Name:  "projects",
			Usage: "List your own projects",
			Flags: []cli.Flag{
				cliFlagUsername,
				cliFlagOutput,
				&cli.StringFlag{
					Name:  flagFilter,
					Usage: "Listing to read: all, shared, notshared, trashed",
					Value: "all",
				},
				&cli.IntFlag{
					Name:  flagPage,
					Usage: "1-based page number",
					Value: 1,
				},
				&cli.StringFlag{
					Name:  flagSort,
					Usage: "Sort key, e.g. love_count, view_count, title",
				},
				&cli.BoolFlag{
					Name:  flagAscending,
					Usage: "Sort ascending instead of descending",
				},
			},
			Action: rt.projects,
		},
		{
			Name:  "logout",
			Usage: "Log out and forget the cached session",
			Flags: []cli.Flag{
				cliFlagUsername,
				cliFlagOutput,
				&cli.BoolFlag{
					Name:  flagKeepIdentity,
					Usage: "Print the identity the session had before logging out",
				},
			},
			Action: rt.logout,
		},
	}
	return app
}

func (rt *runtime) setup(c *cli.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	rt.cfg = cfg

	// logs go to stderr so command output stays parseable
	rt.logger = slogx.New(slogx.Config{
		Service: "scratchcloud",
		Version: version,
		Env:     cfg.Env,
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
		Output:  os.Stderr,
	})

	rt.client = scratchsdk.NewClient(cfg.BaseURL, cfg.APIURL)
	rt.client.LoginWaitTimeout = cfg.WaitTimeout
	rt.client.Logger = rt.logger

	store, err := openStore(c.Context, cfg)
	if err != nil {
		return err
	}
	rt.store = store
	return nil
}

func (rt *runtime) teardown(*cli.Context) error {
	if rt.store == nil {
		return nil
	}
	return rt.store.Close()
}
