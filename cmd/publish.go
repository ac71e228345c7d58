package main

import (
	"context"
	"fmt"
	"sync"

	"github.com/urfave/cli/v3"

	"github.com/crosspub/crosspub/internal/shared"
	"github.com/crosspub/crosspub/internal/tasks"
)

// PublishRun executes one publish round across the selected accounts and
// prints the per-account outcomes.
func (r *Runner) PublishRun(ctx context.Context, cmd *cli.Command) error {
	app, err := r.openApp(cmd.String("config"))
	if err != nil {
		return err
	}
	defer app.Close()

	if app.orch == nil {
		return shared.ErrChromeNotFound
	}

	req := tasks.PublishRequest{
		VideoPath:   cmd.String("video"),
		Title:       cmd.String("title"),
		Description: cmd.String("description"),
		Tags:        cmd.StringSlice("tag"),
		CoverPath:   cmd.String("cover"),
		IsOriginal:  true,
		AccountIDs:  cmd.StringSlice("account"),
	}

	if name := cmd.String("template"); name != "" {
		template, err := app.templates.GetByName(name)
		if err != nil {
			return err
		}
		if req.Title == "" {
			req.Title = template.TitleText()
		}
		if req.Description == "" {
			req.Description = template.Description()
		}
		if len(req.Tags) == 0 {
			req.Tags = template.TagList()
		}
	}

	if cmd.Bool("all") {
		accounts, err := app.accounts.List(map[string]any{"logged_in": true})
		if err != nil {
			return err
		}
		req.AccountIDs = req.AccountIDs[:0]
		for _, account := range accounts {
			req.AccountIDs = append(req.AccountIDs, account.ID())
		}
	}

	progress := make(chan tasks.ProgressUpdate, 50)
	var drain sync.WaitGroup
	drain.Add(1)
	go func() {
		defer drain.Done()
		for update := range progress {
			if update.Message != "" {
				r.logger.Info(update.Message, "phase", update.Phase)
			}
		}
	}()

	result, err := app.orch.Submit(ctx, req, progress)
	close(progress)
	drain.Wait()
	if err != nil {
		if code := shared.CodeOf(err); code != "" {
			return fmt.Errorf("[%s] %w", code, err)
		}
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(result, cmd.Bool("pretty"))
	}

	if err := r.writePlainln("task %s finished: %s", result.TaskID, result.Status); err != nil {
		return err
	}
	for _, pt := range result.PlatformTasks {
		line := fmt.Sprintf("  %-12s %-10s %s", pt.Platform, pt.Status, pt.Message)
		if pt.Code != "" {
			line = fmt.Sprintf("%s [%s]", line, pt.Code)
		}
		if err := r.writePlain("%s\n", line); err != nil {
			return err
		}
		if pt.Hint != "" {
			if err := r.writePlain("    hint: %s\n", pt.Hint); err != nil {
				return err
			}
		}
	}
	return nil
}
