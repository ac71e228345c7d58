package main

import (
	"context"
	"fmt"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/crosspub/crosspub/internal/models"
	"github.com/crosspub/crosspub/internal/platforms"
	"github.com/crosspub/crosspub/internal/session"
	"github.com/crosspub/crosspub/internal/shared"
)

// AccountAdd creates an account with a fresh browser profile directory.
func (r *Runner) AccountAdd(ctx context.Context, cmd *cli.Command) error {
	platform := models.Platform(cmd.String("platform"))
	if _, ok := platforms.Get(platform); !ok {
		return fmt.Errorf("%w: %s", shared.ErrPlatformUnknown, platform)
	}

	app, err := r.openApp(cmd.String("config"))
	if err != nil {
		return err
	}
	defer app.Close()

	base, err := session.ProfilesBaseDir(r.config.Chrome.ProfilesDir)
	if err != nil {
		return fmt.Errorf("failed to resolve profiles directory: %w", err)
	}
	index, err := session.NextProfileIndex(base, string(platform))
	if err != nil {
		return fmt.Errorf("failed to pick profile index: %w", err)
	}
	profileDir, err := session.CreateProfileDir(base, string(platform), index)
	if err != nil {
		return fmt.Errorf("failed to create profile directory: %w", err)
	}

	account := models.NewAccount(0, platform, cmd.String("name"), profileDir)
	if err := app.accounts.Create(account); err != nil {
		return err
	}

	r.logger.Info("account created", "id", account.ID(), "platform", platform, "profile", profileDir)
	return r.writePlainln("added %s account %s (id %s)\nprofile: %s\nrun 'crosspub accounts login --id %s' to log in",
		platform, account.DisplayName(), account.ID(), profileDir, account.ID())
}

// AccountList prints stored accounts.
func (r *Runner) AccountList(ctx context.Context, cmd *cli.Command) error {
	app, err := r.openApp(cmd.String("config"))
	if err != nil {
		return err
	}
	defer app.Close()

	criteria := map[string]any{}
	if platform := cmd.String("platform"); platform != "" {
		criteria["platform"] = platform
	}

	accounts, err := app.accounts.List(criteria)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		payload := make([]map[string]any, 0, len(accounts))
		for _, account := range accounts {
			payload = append(payload, map[string]any{
				"id":          account.ID(),
				"platform":    account.Platform(),
				"displayName": account.DisplayName(),
				"profileDir":  account.ProfileDir(),
				"loggedIn":    account.LoggedIn(),
			})
		}
		return r.writeJSON(payload, cmd.Bool("pretty"))
	}

	if len(accounts) == 0 {
		return r.writePlainln("no accounts yet; add one with 'crosspub accounts add'")
	}

	for _, account := range accounts {
		state := "logged out"
		if account.LoggedIn() {
			state = "logged in"
		}
		if err := r.writePlain("%-36s  %-12s  %-10s  %s\n",
			account.ID(), account.Platform(), state, account.DisplayName()); err != nil {
			return err
		}
	}
	return nil
}

// AccountLogin opens the platform login page in the account's profile, or
// just records the logged-in flag with --mark.
func (r *Runner) AccountLogin(ctx context.Context, cmd *cli.Command) error {
	app, err := r.openApp(cmd.String("config"))
	if err != nil {
		return err
	}
	defer app.Close()

	account, err := app.accounts.Get(cmd.String("id"))
	if err != nil {
		return err
	}

	if cmd.Bool("mark") {
		account.SetLoggedIn(true, time.Now())
		if err := app.accounts.Update(account); err != nil {
			return err
		}
		return r.writePlainln("marked %s as logged in", account.DisplayName())
	}

	spec, ok := platforms.Get(account.Platform())
	if !ok {
		return fmt.Errorf("%w: %s", shared.ErrPlatformUnknown, account.Platform())
	}

	launcher, err := session.NewChromeLauncher(r.config.Chrome.Binary, r.config.Chrome.WindowWidth, r.config.Chrome.WindowHeight)
	if err != nil {
		return err
	}
	if _, err := launcher.Launch(account.ProfileDir(), spec.LoginURL, 0); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrSessionLaunch, err)
	}

	r.logger.Info("login window opened", "account", account.ID(), "url", spec.LoginURL)
	return r.writePlainln("browser opened at %s\nlog in there, then run 'crosspub accounts login --id %s --mark'",
		spec.LoginURL, account.ID())
}

// AccountRename updates an account's display name.
func (r *Runner) AccountRename(ctx context.Context, cmd *cli.Command) error {
	app, err := r.openApp(cmd.String("config"))
	if err != nil {
		return err
	}
	defer app.Close()

	account, err := app.accounts.Get(cmd.String("id"))
	if err != nil {
		return err
	}

	previous := account.DisplayName()
	account.SetDisplayName(cmd.String("name"))
	if err := app.accounts.Update(account); err != nil {
		return err
	}

	return r.writePlainln("renamed %s to %s", previous, account.DisplayName())
}

// AccountRemove soft-deletes an account, optionally purging its profile.
func (r *Runner) AccountRemove(ctx context.Context, cmd *cli.Command) error {
	app, err := r.openApp(cmd.String("config"))
	if err != nil {
		return err
	}
	defer app.Close()

	account, err := app.accounts.Get(cmd.String("id"))
	if err != nil {
		return err
	}

	if err := app.accounts.Delete(account.ID()); err != nil {
		return err
	}

	if cmd.Bool("purge-profile") {
		if err := session.DeleteProfile(account.ProfileDir()); err != nil {
			r.logger.Warn("failed to delete profile directory", "dir", account.ProfileDir(), "error", err)
		}
	}

	return r.writePlainln("removed account %s", account.DisplayName())
}
