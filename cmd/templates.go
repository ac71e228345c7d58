package main

import (
	"context"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/crosspub/crosspub/internal/models"
)

// TemplateSave creates or replaces a named metadata preset.
func (r *Runner) TemplateSave(ctx context.Context, cmd *cli.Command) error {
	app, err := r.openApp(cmd.String("config"))
	if err != nil {
		return err
	}
	defer app.Close()

	name := cmd.String("name")
	if existing, err := app.templates.GetByName(name); err == nil {
		if err := app.templates.Delete(existing.ID()); err != nil {
			return err
		}
	}

	template := models.NewTemplate(name, cmd.String("title"), cmd.String("description"), cmd.StringSlice("tag"))
	if err := app.templates.Create(template); err != nil {
		return err
	}

	return r.writePlainln("saved template %q", name)
}

// TemplateList prints saved templates.
func (r *Runner) TemplateList(ctx context.Context, cmd *cli.Command) error {
	app, err := r.openApp(cmd.String("config"))
	if err != nil {
		return err
	}
	defer app.Close()

	templates, err := app.templates.List()
	if err != nil {
		return err
	}

	if len(templates) == 0 {
		return r.writePlainln("no templates yet")
	}

	for _, template := range templates {
		if err := r.writePlain("%-20s  %-40s  %s\n",
			template.Name(), template.TitleText(), strings.Join(template.TagList(), ",")); err != nil {
			return err
		}
	}
	return nil
}

// TemplateRemove deletes a template by name.
func (r *Runner) TemplateRemove(ctx context.Context, cmd *cli.Command) error {
	app, err := r.openApp(cmd.String("config"))
	if err != nil {
		return err
	}
	defer app.Close()

	template, err := app.templates.GetByName(cmd.String("name"))
	if err != nil {
		return err
	}
	if err := app.templates.Delete(template.ID()); err != nil {
		return err
	}

	return r.writePlainln("removed template %q", template.Name())
}
