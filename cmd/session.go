package main

import (
	"context"
	"fmt"
	"os"

	"github.com/auxshare/auxd/internal/converter"
	"github.com/auxshare/auxd/internal/formatter"
	"github.com/auxshare/auxd/internal/models"
	"github.com/auxshare/auxd/internal/shared"
	"github.com/urfave/cli/v3"
)

// SessionGet prints a saved session, with stats recomputed from its tracks.
func (r *Runner) SessionGet(ctx context.Context, cmd *cli.Command) error {
	code := cmd.StringArg("code")
	useJSON := cmd.Bool("json")
	pretty := cmd.Bool("pretty")

	payload, closeStore, err := r.loadSession(ctx, code)
	if err != nil {
		return err
	}
	defer closeStore()

	stats := converter.Aggregate(payload.Tracks)

	if useJSON {
		return r.writeJSON(map[string]any{
			"code":    code,
			"session": payload,
			"stats":   stats,
		}, pretty)
	}

	r.printResult(&models.ConversionResult{
		SourcePlatform: payload.SourcePlatform,
		TargetPlatform: payload.TargetPlatform,
		Tracks:         payload.Tracks,
		Stats:          stats,
	})
	return nil
}

// SessionTTL shows the remaining lifetime of a saved session.
func (r *Runner) SessionTTL(ctx context.Context, cmd *cli.Command) error {
	code := cmd.StringArg("code")
	if code == "" {
		return fmt.Errorf("%w: session code is required", shared.ErrMissingArgument)
	}

	store, closeStore, err := r.openStore()
	if err != nil {
		return err
	}
	defer closeStore()

	remaining := store.TTL(ctx, code)
	if remaining < 0 {
		return fmt.Errorf("%w: %s", shared.ErrSessionNotFound, code)
	}

	r.writePlain("Session %s expires in %dh %dm\n", code, remaining/3600, (remaining%3600)/60)
	return nil
}

// SessionDelete removes a saved session.
func (r *Runner) SessionDelete(ctx context.Context, cmd *cli.Command) error {
	code := cmd.StringArg("code")
	if code == "" {
		return fmt.Errorf("%w: session code is required", shared.ErrMissingArgument)
	}

	store, closeStore, err := r.openStore()
	if err != nil {
		return err
	}
	defer closeStore()

	if !store.Delete(ctx, code) {
		return fmt.Errorf("%w: %s", shared.ErrSessionNotFound, code)
	}

	r.writePlain("%s Session %s deleted\n", styles.ok.Render("✓"), code)
	return nil
}

// SessionExport writes a saved session as CSV or Markdown.
func (r *Runner) SessionExport(ctx context.Context, cmd *cli.Command) error {
	code := cmd.StringArg("code")
	format := cmd.String("format")
	outputFile := cmd.String("output")

	payload, closeStore, err := r.loadSession(ctx, code)
	if err != nil {
		return err
	}
	defer closeStore()

	var data []byte
	switch format {
	case "csv":
		if data, err = formatter.ToCSV(payload); err != nil {
			return fmt.Errorf("failed to export session: %w", err)
		}
	case "markdown", "md":
		data = formatter.ToMarkdown(payload)
	default:
		return fmt.Errorf("%w: unknown format %q (want csv or markdown)", shared.ErrInvalidArgument, format)
	}

	if outputFile == "" {
		_, err := r.output.Write(data)
		return err
	}

	if err := os.WriteFile(outputFile, data, 0644); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}

	r.writePlain("%s Session exported to %s\n", styles.ok.Render("✓"), outputFile)
	return nil
}

// loadSession opens the store and fetches a session payload by code.
func (r *Runner) loadSession(ctx context.Context, code string) (*models.SessionPayload, func(), error) {
	if code == "" {
		return nil, nil, fmt.Errorf("%w: session code is required", shared.ErrMissingArgument)
	}

	store, closeStore, err := r.openStore()
	if err != nil {
		return nil, nil, err
	}

	payload, err := store.Get(ctx, code)
	if err != nil {
		closeStore()
		return nil, nil, err
	}

	return payload, closeStore, nil
}
