package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"

	"github.com/crosspub/crosspub/internal/automation"
	"github.com/crosspub/crosspub/internal/cdp"
	"github.com/crosspub/crosspub/internal/repositories"
	"github.com/crosspub/crosspub/internal/session"
	"github.com/crosspub/crosspub/internal/shared"
	"github.com/crosspub/crosspub/internal/tasks"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config *shared.Config
	logger *log.Logger
	output io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config *shared.Config
	Logger *log.Logger
	Output io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	return &Runner{
		config: opts.Config,
		logger: opts.Logger,
		output: opts.Output,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, accountsCommand, publishCommand, tasksCommand, templatesCommand, serveCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// app bundles the repositories and orchestrator a command needs, opened
// against one database connection.
type app struct {
	db        *sql.DB
	accounts  *repositories.AccountRepository
	tasks     *repositories.TaskRepository
	templates *repositories.TemplateRepository
	orch      *tasks.Orchestrator
}

func (a *app) Close() {
	if a.db != nil {
		a.db.Close()
	}
}

// loadConfig reads the config file if present, falling back to defaults.
func (r *Runner) loadConfig(path string) *shared.Config {
	if _, err := os.Stat(path); err != nil {
		return r.config
	}
	config, err := shared.LoadConfig(path)
	if err != nil {
		r.logger.Warn("failed to load config, using defaults", "path", path, "error", err)
		return r.config
	}
	r.config = config
	return config
}

// openApp opens the database and wires repositories, the session resolver,
// the CDP driver, and the orchestrator together.
func (r *Runner) openApp(configPath string) (*app, error) {
	config := r.loadConfig(configPath)

	db, err := shared.NewDatabase(config.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	shared.ConfigureDatabase(db, config.Database.MaxOpenConns, config.Database.MaxIdleConns)

	accountRepo := repositories.NewAccountRepository(db)
	taskRepo := repositories.NewTaskRepository(db)
	templateRepo := repositories.NewTemplateRepository(db)

	launcher, err := session.NewChromeLauncher(config.Chrome.Binary, config.Chrome.WindowWidth, config.Chrome.WindowHeight)
	if err != nil {
		// Commands that never drive a browser still work without Chrome.
		r.logger.Debug("chrome not detected", "error", err)
	}

	client := cdp.NewClient(config.Chrome.DebugHost)
	var resolver tasks.SessionResolver
	if launcher != nil {
		resolver = session.NewResolver(client, launcher, r.logger,
			config.Automation.LaunchTimeout(), config.Automation.PollInterval())
	}

	driver := automation.NewCDPDriver(&automation.CDPBrowser{Client: client}, r.logger, config.Automation.PollInterval())

	var orch *tasks.Orchestrator
	if resolver != nil {
		orch = tasks.NewOrchestrator(accountRepo, taskRepo, resolver, driver, r.logger, tasks.Options{
			DriveTimeout:  config.Automation.DriveTimeout(),
			ManualConfirm: config.Automation.ManualConfirm,
		})
	}

	return &app{
		db:        db,
		accounts:  accountRepo,
		tasks:     taskRepo,
		templates: templateRepo,
		orch:      orch,
	}, nil
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

// SetLogger replaces the runner's logger, used by the TUI to redirect logs to a file.
func (r *Runner) SetLogger(logger *log.Logger) {
	r.logger = logger
}
