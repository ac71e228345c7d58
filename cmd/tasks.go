package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/crosspub/crosspub/internal/models"
	"github.com/crosspub/crosspub/internal/tasks"
)

// TasksList prints recent publish tasks.
func (r *Runner) TasksList(ctx context.Context, cmd *cli.Command) error {
	app, err := r.openApp(cmd.String("config"))
	if err != nil {
		return err
	}
	defer app.Close()

	criteria := map[string]any{"limit": cmd.Int("limit")}
	if status := cmd.String("status"); status != "" {
		criteria["status"] = status
	}

	list, err := app.tasks.List(criteria)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(taskSummaries(list), cmd.Bool("pretty"))
	}

	if len(list) == 0 {
		return r.writePlainln("no publish tasks yet")
	}

	for _, task := range list {
		if err := r.writePlain("%-36s  %-10s  %-19s  %s\n",
			task.ID(), task.Status(), task.CreatedAt().Format("2006-01-02 15:04:05"), task.Title()); err != nil {
			return err
		}
	}
	return nil
}

// TasksShow prints a single task with its per-account entries and hints.
func (r *Runner) TasksShow(ctx context.Context, cmd *cli.Command) error {
	app, err := r.openApp(cmd.String("config"))
	if err != nil {
		return err
	}
	defer app.Close()

	task, err := app.tasks.Get(cmd.String("id"))
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(taskSummary(task), cmd.Bool("pretty"))
	}

	if err := r.writePlainln("%s\n  status: %s\n  video:  %s", task.Title(), task.Status(), task.VideoPath()); err != nil {
		return err
	}
	for _, entry := range task.Platforms() {
		line := fmt.Sprintf("  %-36s %s", entry.AccountID(), entry.Status())
		if entry.ErrorCode() != "" {
			line = fmt.Sprintf("%s [%s] %s", line, entry.ErrorCode(), entry.ErrorMessage())
		}
		if hint := tasks.Classify(entry.ErrorCode(), ""); hint != "" {
			line = fmt.Sprintf("%s\n    hint: %s", line, hint)
		}
		if err := r.writePlain("%s\n", line); err != nil {
			return err
		}
	}
	return nil
}

func taskSummary(task *models.PublishTask) map[string]any {
	entries := make([]map[string]any, 0, len(task.Platforms()))
	for _, entry := range task.Platforms() {
		entries = append(entries, map[string]any{
			"accountId":    entry.AccountID(),
			"status":       entry.Status(),
			"errorCode":    entry.ErrorCode(),
			"errorMessage": entry.ErrorMessage(),
			"publishedAt":  entry.PublishedAt(),
			"hint":         tasks.Classify(entry.ErrorCode(), ""),
		})
	}
	return map[string]any{
		"id":        task.ID(),
		"title":     task.Title(),
		"videoPath": task.VideoPath(),
		"status":    task.Status(),
		"createdAt": task.CreatedAt(),
		"entries":   entries,
	}
}

func taskSummaries(list []*models.PublishTask) []map[string]any {
	payload := make([]map[string]any, 0, len(list))
	for _, task := range list {
		payload = append(payload, taskSummary(task))
	}
	return payload
}
