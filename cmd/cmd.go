// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// configFlag is shared by every command that touches the database or browser.
func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to configuration file",
		Value:   "config.toml",
	}
}

// setupCommand handles setup operations for database and configuration.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:   "database",
				Usage:  "Initialize database and run migrations",
				Flags:  []cli.Flag{configFlag()},
				Action: r.SetupDatabase,
			},
			{
				Name:   "doctor",
				Usage:  "Check Chrome installation and profile directory",
				Flags:  []cli.Flag{configFlag()},
				Action: r.SetupDoctor,
			},
		},
	}
}

// accountsCommand handles platform account management
func accountsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "accounts",
		Aliases: []string{"acc"},
		Usage:   "Manage platform accounts and their browser profiles",
		Commands: []*cli.Command{
			{
				Name:  "add",
				Usage: "Add an account with a fresh browser profile",
				Flags: []cli.Flag{
					configFlag(),
					&cli.StringFlag{
						Name:     "platform",
						Aliases:  []string{"p"},
						Usage:    "Platform ID (douyin, xiaohongshu, bilibili, wechat, youtube)",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "name",
						Aliases:  []string{"n"},
						Usage:    "Display name for the account",
						Required: true,
					},
				},
				Action: r.AccountAdd,
			},
			{
				Name:  "list",
				Usage: "List stored accounts",
				Flags: []cli.Flag{
					configFlag(),
					&cli.StringFlag{
						Name:  "platform",
						Usage: "Filter by platform ID",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
					},
				},
				Action: r.AccountList,
			},
			{
				Name:  "login",
				Usage: "Open the platform login page in the account's browser profile",
				Flags: []cli.Flag{
					configFlag(),
					&cli.StringFlag{
						Name:     "id",
						Usage:    "Account ID",
						Required: true,
					},
					&cli.BoolFlag{
						Name:  "mark",
						Usage: "Record the account as logged in without opening a window",
					},
				},
				Action: r.AccountLogin,
			},
			{
				Name:  "rename",
				Usage: "Change an account's display name",
				Flags: []cli.Flag{
					configFlag(),
					&cli.StringFlag{
						Name:     "id",
						Usage:    "Account ID",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "name",
						Aliases:  []string{"n"},
						Usage:    "New display name",
						Required: true,
					},
				},
				Action: r.AccountRename,
			},
			{
				Name:  "remove",
				Usage: "Remove an account (the browser profile on disk is kept)",
				Flags: []cli.Flag{
					configFlag(),
					&cli.StringFlag{
						Name:     "id",
						Usage:    "Account ID",
						Required: true,
					},
					&cli.BoolFlag{
						Name:  "purge-profile",
						Usage: "Also delete the browser profile directory",
					},
				},
				Action: r.AccountRemove,
			},
		},
	}
}

// publishCommand runs one publish round across selected accounts
func publishCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "publish",
		Aliases: []string{"pub"},
		Usage:   "Publish a video to one or more accounts",
		Flags: []cli.Flag{
			configFlag(),
			&cli.StringFlag{
				Name:     "video",
				Aliases:  []string{"v"},
				Usage:    "Path to the video file",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "title",
				Aliases:  []string{"t"},
				Usage:    "Video title",
				Required: true,
			},
			&cli.StringFlag{
				Name:    "description",
				Aliases: []string{"d"},
				Usage:   "Video description",
			},
			&cli.StringSliceFlag{
				Name:  "tag",
				Usage: "Tag to attach (repeatable)",
			},
			&cli.StringFlag{
				Name:  "cover",
				Usage: "Path to a cover image",
			},
			&cli.StringSliceFlag{
				Name:    "account",
				Aliases: []string{"a"},
				Usage:   "Account ID to publish to (repeatable)",
			},
			&cli.BoolFlag{
				Name:  "all",
				Usage: "Publish to every logged-in account",
			},
			&cli.StringFlag{
				Name:  "template",
				Usage: "Template name supplying title/description/tags defaults",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Pretty-print output",
				Value: true,
			},
		},
		Action: r.PublishRun,
	}
}

// tasksCommand inspects publish history
func tasksCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "tasks",
		Usage: "Inspect publish task history",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List recent publish tasks",
				Flags: []cli.Flag{
					configFlag(),
					&cli.StringFlag{
						Name:  "status",
						Usage: "Filter by task status",
					},
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of tasks to return",
						Value: 20,
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
					},
				},
				Action: r.TasksList,
			},
			{
				Name:  "show",
				Usage: "Show one task with its per-account entries",
				Flags: []cli.Flag{
					configFlag(),
					&cli.StringFlag{
						Name:     "id",
						Usage:    "Task ID",
						Required: true,
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
						Value: true,
					},
				},
				Action: r.TasksShow,
			},
		},
	}
}

// templatesCommand manages reusable metadata presets
func templatesCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "templates",
		Aliases: []string{"tpl"},
		Usage:   "Manage reusable title/description/tags presets",
		Commands: []*cli.Command{
			{
				Name:  "save",
				Usage: "Save a template",
				Flags: []cli.Flag{
					configFlag(),
					&cli.StringFlag{
						Name:     "name",
						Usage:    "Template name",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "title",
						Usage: "Title text",
					},
					&cli.StringFlag{
						Name:  "description",
						Usage: "Description text",
					},
					&cli.StringSliceFlag{
						Name:  "tag",
						Usage: "Tag to include (repeatable)",
					},
				},
				Action: r.TemplateSave,
			},
			{
				Name:   "list",
				Usage:  "List saved templates",
				Flags:  []cli.Flag{configFlag()},
				Action: r.TemplateList,
			},
			{
				Name:  "remove",
				Usage: "Delete a template",
				Flags: []cli.Flag{
					configFlag(),
					&cli.StringFlag{
						Name:     "name",
						Usage:    "Template name",
						Required: true,
					},
				},
				Action: r.TemplateRemove,
			},
		},
	}
}

// serveCommand starts the local publish API
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the local HTTP publish API",
		Flags: []cli.Flag{
			configFlag(),
			&cli.StringFlag{
				Name:  "host",
				Usage: "Host to bind (overrides config)",
			},
			&cli.IntFlag{
				Name:  "port",
				Usage: "Port to bind (overrides config)",
			},
		},
		Action: r.Serve,
	}
}

// tuiCommand returns the top-level TUI command for interactive publishing.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch interactive TUI for publishing",
		Flags: []cli.Flag{
			configFlag(),
			&cli.StringFlag{
				Name:     "video",
				Aliases:  []string{"v"},
				Usage:    "Path to the video file",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "title",
				Aliases:  []string{"t"},
				Usage:    "Video title",
				Required: true,
			},
			&cli.StringFlag{
				Name:    "description",
				Aliases: []string{"d"},
				Usage:   "Video description",
			},
			&cli.StringSliceFlag{
				Name:  "tag",
				Usage: "Tag to attach (repeatable)",
			},
		},
		Action: r.TUI,
	}
}
