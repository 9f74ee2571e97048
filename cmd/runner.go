package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/auxshare/auxd/internal/converter"
	"github.com/auxshare/auxd/internal/matcher"
	"github.com/auxshare/auxd/internal/platforms"
	"github.com/auxshare/auxd/internal/sessions"
	"github.com/auxshare/auxd/internal/shared"
	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config   *shared.Config
	registry *platforms.Registry
	matcher  *matcher.Matcher
	pipeline *converter.Pipeline
	logger   *log.Logger
	output   io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config   *shared.Config
	Registry *platforms.Registry
	Matcher  *matcher.Matcher
	Pipeline *converter.Pipeline
	Logger   *log.Logger
	Output   io.Writer
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
	if opts.Registry == nil {
		opts.Registry = platforms.NewRegistry()
	}
	if opts.Matcher == nil {
		opts.Matcher = matcher.New(matcher.Config{
			Threshold:    opts.Config.Matching.Threshold,
			TitleWeight:  opts.Config.Matching.TitleWeight,
			ArtistWeight: opts.Config.Matching.ArtistWeight,
		}, opts.Logger)
	}
	if opts.Pipeline == nil {
		opts.Pipeline = converter.NewPipeline(opts.Registry, opts.Matcher, opts.Logger)
	}

	return &Runner{
		config:   opts.Config,
		registry: opts.Registry,
		matcher:  opts.Matcher,
		pipeline: opts.Pipeline,
		logger:   opts.Logger,
		output:   opts.Output,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, convertCommand, platformsCommand, sessionCommand, serveCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// openStore opens the session database and wraps it in a [sessions.Store].
//
// The caller owns the returned closer.
func (r *Runner) openStore() (*sessions.Store, func(), error) {
	db, err := shared.NewDatabase(r.config.Sessions.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open session database: %w", err)
	}

	store, err := sessions.NewStore(db, r.logger)
	if err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("failed to initialize session store: %w", err)
	}

	return store, func() { db.Close() }, nil
}

// sessionTTL returns the configured session lifetime, falling back to the store default.
func (r *Runner) sessionTTL() time.Duration {
	if r.config.Sessions.TTLHours > 0 {
		return time.Duration(r.config.Sessions.TTLHours) * time.Hour
	}
	return sessions.DefaultTTL
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

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
