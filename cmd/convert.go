package main

import (
	"context"
	"fmt"

	"github.com/auxshare/auxd/internal/models"
	"github.com/auxshare/auxd/internal/shared"
	"github.com/urfave/cli/v3"
)

// Convert resolves a playlist URL against a target catalog and prints the result.
func (r *Runner) Convert(ctx context.Context, cmd *cli.Command) error {
	sourceURL := cmd.StringArg("url")
	target := cmd.String("target")
	useJSON := cmd.Bool("json")
	pretty := cmd.Bool("pretty")
	save := cmd.Bool("save")
	open := cmd.Bool("open")

	if sourceURL == "" {
		return fmt.Errorf("%w: playlist URL is required", shared.ErrMissingArgument)
	}

	r.logger.Info("converting playlist", "url", sourceURL, "target", target)
	r.writePlain("Converting playlist to %s...\n\n", target)

	result, err := r.pipeline.Convert(ctx, sourceURL, target)
	if err != nil {
		return err
	}

	if useJSON {
		return r.writeJSON(result, pretty)
	}

	r.printResult(result)

	matchedIDs := []string{}
	for _, track := range result.Tracks {
		if track.Matched() {
			matchedIDs = append(matchedIDs, track.TargetID)
		}
	}

	var link string
	if targetPlatform, err := r.registry.Get(result.TargetPlatform); err == nil && len(matchedIDs) > 0 {
		link = targetPlatform.PlaybackLink(matchedIDs)
		r.writePlainln("Playback link: %s", styles.title.Render(link))
	}

	if save {
		code, err := r.saveResult(ctx, result)
		if err != nil {
			return err
		}
		r.writePlain("Session code: %s\n", styles.ok.Render(code))
		if r.config.Server.ShareURL != "" {
			r.writePlain("Share URL: %s/%s\n", r.config.Server.ShareURL, code)
		}
	}

	if open && link != "" {
		r.writePlain("→ Opening playback link...\n")
		if err := shared.OpenBrowser(link); err != nil {
			r.logger.Warnf("failed to open browser automatically %v", err)
			r.writePlainln("⚠ Could not open browser automatically.")
		}
	}

	return nil
}

// printResult renders the per-track listing and the summary block.
func (r *Runner) printResult(result *models.ConversionResult) {
	r.writePlainHeader(fmt.Sprintf("%s → %s", result.SourcePlatform, result.TargetPlatform))

	for i, track := range result.Tracks {
		if track.Matched() {
			r.writePlain("%s %d. %s - %s", styles.ok.Render("✓"), i+1, track.Artist, track.Title)
			r.writePlain(" %s\n", styles.help.Render(fmt.Sprintf("(%.0f%% via %s)", track.TargetConfidence*100, track.TargetMatchMethod)))
		} else {
			r.writePlain("%s %d. %s - %s %s\n", styles.err.Render("✗"), i+1, track.Artist, track.Title, styles.help.Render("(no match)"))
		}
	}

	stats := result.Stats
	r.writePlainln("Matched %d of %d tracks (%.1f%%)", stats.Matched, stats.Total, stats.MatchRate*100)
	if stats.Matched > 0 {
		r.writePlain("Average confidence: %.2f\n", stats.AvgConfidence)
		r.writePlain("Confidence: %s high / %s medium / %s low\n",
			styles.ok.Render(fmt.Sprintf("%d", stats.HighConfidence)),
			styles.warn.Render(fmt.Sprintf("%d", stats.MediumConfidence)),
			styles.err.Render(fmt.Sprintf("%d", stats.LowConfidence)))
	}
}

// saveResult persists the conversion as a shareable session and returns its code.
func (r *Runner) saveResult(ctx context.Context, result *models.ConversionResult) (string, error) {
	store, closeStore, err := r.openStore()
	if err != nil {
		return "", err
	}
	defer closeStore()

	payload := models.SessionPayload{
		Tracks:         result.Tracks,
		SourcePlatform: result.SourcePlatform,
		TargetPlatform: result.TargetPlatform,
	}

	code, err := store.Save(ctx, payload, r.sessionTTL())
	if err != nil {
		return "", fmt.Errorf("failed to save session: %w", err)
	}

	r.logger.Info("session saved", "code", code)
	return code, nil
}
