package main

import (
	"context"

	"github.com/auxshare/auxd/internal/platforms"
	"github.com/urfave/cli/v3"
)

// Platforms lists the registered catalogs, optionally filtered by role.
func (r *Runner) Platforms(ctx context.Context, cmd *cli.Command) error {
	useJSON := cmd.Bool("json")
	sourcesOnly := cmd.Bool("sources")
	targetsOnly := cmd.Bool("targets")

	var infos []platforms.Info
	var title string

	switch {
	case sourcesOnly:
		infos = r.registry.Sources()
		title = "Source platforms"
	case targetsOnly:
		infos = r.registry.Targets()
		title = "Target platforms"
	default:
		infos = r.registry.All()
		title = "Supported platforms"
	}

	if useJSON {
		return r.writeJSON(infos, true)
	}

	r.writePlainHeader(title)
	for _, info := range infos {
		role := "target only"
		if info.CanExtract {
			role = "source + target"
		}
		r.writePlain("%s (%s) %s\n", info.DisplayName, info.Name, styles.help.Render(role))
	}

	return nil
}
