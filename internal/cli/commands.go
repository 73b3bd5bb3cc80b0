package cli

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pfrederiksen/trailday/internal/calendar"
	"github.com/pfrederiksen/trailday/internal/itinerary"
	"github.com/pfrederiksen/trailday/internal/logger"
	"github.com/pfrederiksen/trailday/internal/mapview"
	"github.com/pfrederiksen/trailday/internal/notifier"
	"github.com/pfrederiksen/trailday/internal/scraper"
	"github.com/pfrederiksen/trailday/internal/trail"
)

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate URL",
		Short: "Check that a URL is a usable AllTrails hike link",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw := ""
			if len(args) > 0 {
				raw = args[0]
			}
			if err := trail.ValidateURL(raw); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "OK: %s\n", strings.TrimSpace(raw))
			return nil
		},
	}
}

func newScrapeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scrape URL",
		Short: "Fetch an AllTrails hike page and extract the trail details",
		Args:  cobra.ExactArgs(1),
		RunE:  runScrape,
	}
	cmd.Flags().StringVar(&flagScrapeFormat, "format", "text", "Output format: text, json or yaml")
	cmd.Flags().BoolVar(&flagBrowser, "browser", false, "Fetch with headless Chrome instead of plain HTTP")
	return cmd
}

func runScrape(cmd *cobra.Command, args []string) error {
	format, err := parseFormat(flagScrapeFormat, FormatText, FormatJSON, FormatYAML)
	if err != nil {
		return err
	}
	e, err := setup(cmd)
	if err != nil {
		return err
	}

	url := strings.TrimSpace(args[0])
	browser := e.cfg.Scrape.Browser
	if cmd.Flags().Changed("browser") {
		browser = flagBrowser
	}

	sc := scraper.New(newFetcher(e.cfg, browser), newRetrier(e.cfg))
	rec, err := sc.Scrape(cmd.Context(), url)
	if err != nil {
		var fetchErr *scraper.FetchError
		if errors.As(err, &fetchErr) {
			return fmt.Errorf("%s: %w", fetchErr.Kind(), err)
		}
		return err
	}

	session, err := e.loadSession()
	if err != nil {
		return err
	}
	session.SetTrail(url, rec)
	if err := e.store.Save(session); err != nil {
		return fmt.Errorf("saving session: %w", err)
	}

	if rec.IsEmpty() {
		fmt.Fprintln(cmd.ErrOrStderr(), "Warning: no trail details could be extracted; the page layout may have changed.")
	}

	out := cmd.OutOrStdout()
	if format == FormatText {
		return writeTrailText(out, rec)
	}
	return writeStructured(out, rec, format)
}

func newPlanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Generate a day itinerary around the scraped hike",
		Args:  cobra.NoArgs,
		RunE:  runPlan,
	}
	cmd.Flags().StringVar(&flagPrefs, "prefs", "", "Extra preferences for the plan (food, pace, budget...)")
	cmd.Flags().StringVar(&flagPlanFormat, "format", "text", "Output format: text or json")
	return cmd
}

func runPlan(cmd *cobra.Command, args []string) error {
	format, err := parseFormat(flagPlanFormat, FormatText, FormatJSON)
	if err != nil {
		return err
	}
	e, err := setup(cmd)
	if err != nil {
		return err
	}

	session, err := e.loadSession()
	if err != nil {
		return err
	}
	if !session.HasTrail() {
		return errNoTrail
	}
	if cmd.Flags().Changed("prefs") {
		session.Preferences = flagPrefs
	}

	client, err := newCompleter(e.cfg)
	if err != nil {
		return err
	}
	gen := itinerary.NewGenerator(client)
	gen.Model = e.cfg.LLM.Model
	gen.MaxTokens = e.cfg.LLM.MaxTokens
	gen.Temperature = e.cfg.LLM.Temperature

	text, err := gen.Generate(cmd.Context(), session.Trail, session.Preferences)
	if err != nil {
		return err
	}

	session.Itinerary = text
	if err := e.store.Save(session); err != nil {
		return fmt.Errorf("saving session: %w", err)
	}

	out := cmd.OutOrStdout()
	if format == FormatJSON {
		return writeStructured(out, struct {
			Trail       *trail.Record `json:"trail"`
			Preferences string        `json:"preferences,omitempty"`
			Itinerary   string        `json:"itinerary"`
		}{session.Trail, session.Preferences, text}, format)
	}
	_, err = fmt.Fprintln(out, text)
	return err
}

func newPlacesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "places",
		Short: "List the places mentioned in the itinerary",
		Args:  cobra.NoArgs,
		RunE:  runPlaces,
	}
	cmd.Flags().StringVar(&flagPlacesFormat, "format", "text", "Output format: text, json or yaml")
	cmd.Flags().StringVar(&flagSort, "sort", string(SortByAppearance), "Sort order: appearance, name or category")
	return cmd
}

func runPlaces(cmd *cobra.Command, args []string) error {
	format, err := parseFormat(flagPlacesFormat, FormatText, FormatJSON, FormatYAML)
	if err != nil {
		return err
	}
	if !validSortOrder(flagSort) {
		return fmt.Errorf("invalid sort order: %s (must be 'appearance', 'name' or 'category')", flagSort)
	}
	e, err := setup(cmd)
	if err != nil {
		return err
	}

	session, err := e.loadSession()
	if err != nil {
		return err
	}
	if !session.HasItinerary() {
		return errNoItinerary
	}

	rows := placeRows(itinerary.ExtractPlaces(session.Itinerary))
	logger.SetGauge("places.found", float64(len(rows)))
	sortPlaces(rows, SortOrder(flagSort))

	out := cmd.OutOrStdout()
	if format == FormatText {
		return writePlacesText(out, rows)
	}
	return writeStructured(out, rows, format)
}

func newMapCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "map",
		Short: "Render the trail and itinerary places on an HTML map",
		Args:  cobra.NoArgs,
		RunE:  runMap,
	}
	cmd.Flags().StringVar(&flagMapOut, "out", "", "Output HTML file (default: map.html in the data directory)")
	return cmd
}

func runMap(cmd *cobra.Command, args []string) error {
	e, err := setup(cmd)
	if err != nil {
		return err
	}

	session, err := e.loadSession()
	if err != nil {
		return err
	}
	if !session.HasTrail() {
		return errNoTrail
	}

	m, err := mapview.Build(cmd.Context(), newGeocoder(e.cfg), session.Trail, session.Itinerary)
	if err != nil {
		return err
	}

	path := flagMapOut
	if path == "" {
		path = filepath.Join(e.store.Dir(), "map.html")
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating map file: %w", err)
	}
	if err := mapview.Render(f, m); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("writing map file: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Map written to %s (%d places)\n", path, len(m.Places))
	if !session.HasItinerary() {
		fmt.Fprintln(out, "No itinerary yet; only the trail is shown. Run 'trailday plan' to add places.")
	}
	for _, s := range m.Skipped {
		fmt.Fprintf(out, "  skipped %s: %s\n", s.Place.Name, s.Reason)
	}
	return nil
}

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the itinerary as markdown, a paged document or a calendar event",
		Args:  cobra.NoArgs,
		RunE:  runExport,
	}
	cmd.Flags().StringVar(&flagExportFormat, "format", "md", "Export format: md, doc or ics")
	cmd.Flags().StringVar(&flagDate, "date", "", "Hike date for ics export, YYYY-MM-DD (default: tomorrow)")
	cmd.Flags().StringVar(&flagOut, "out", "", "Output file (default: stdout)")
	return cmd
}

func runExport(cmd *cobra.Command, args []string) error {
	format, err := parseFormat(flagExportFormat, FormatMarkdown, FormatDoc, FormatICS)
	if err != nil {
		return err
	}
	e, err := setup(cmd)
	if err != nil {
		return err
	}

	session, err := e.loadSession()
	if err != nil {
		return err
	}
	if !session.HasTrail() {
		return errNoTrail
	}
	if !session.HasItinerary() {
		return errNoItinerary
	}

	rec := session.Trail
	blocks := itinerary.ParseDocument(session.Itinerary)

	var buf bytes.Buffer
	switch format {
	case FormatMarkdown:
		buf.WriteString(itinerary.Markdown(rec.DisplayName(), blocks))
	case FormatDoc:
		title := []itinerary.Block{{Kind: itinerary.BlockHeading, Text: rec.DisplayName() + " - Day Itinerary"}}
		pages := itinerary.Paginate(append(title, blocks...), e.cfg.Document.Width, e.cfg.Document.LinesPerPage)
		if err := itinerary.RenderPages(&buf, pages); err != nil {
			return fmt.Errorf("rendering document: %w", err)
		}
	case FormatICS:
		day, err := calendar.ParseDay(flagDate)
		if err != nil {
			return err
		}
		buf.WriteString(calendar.GenerateICS(rec, session.Itinerary, day))
	}

	if flagOut == "" {
		_, err = buf.WriteTo(cmd.OutOrStdout())
		return err
	}

	f, err := os.Create(flagOut)
	if err != nil {
		return fmt.Errorf("creating export file: %w", err)
	}
	if _, err := buf.WriteTo(f); err != nil {
		f.Close()
		return fmt.Errorf("writing export file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("writing export file: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Exported %s to %s\n", format, flagOut)
	return nil
}

func newShareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "share",
		Short: "Post a summary of the planned day to Twitter",
		Args:  cobra.NoArgs,
		RunE:  runShare,
	}
	cmd.Flags().BoolVar(&flagDryRun, "dry-run", false, "Print the tweet without posting")
	return cmd
}

func runShare(cmd *cobra.Command, args []string) error {
	e, err := setup(cmd)
	if err != nil {
		return err
	}

	session, err := e.loadSession()
	if err != nil {
		return err
	}
	if !session.HasTrail() {
		return errNoTrail
	}

	summary := &notifier.Summary{
		Trail:  session.Trail,
		Places: itinerary.Names(itinerary.ExtractPlaces(session.Itinerary)),
		URL:    session.URL,
	}

	var n notifier.Notifier
	if flagDryRun {
		n = notifier.NewDryRunNotifier(cmd.OutOrStdout())
	} else {
		n, err = newTwitter(e.cfg)
		if err != nil {
			return err
		}
	}

	if err := n.Notify(summary); err != nil {
		return err
	}
	if !flagDryRun {
		fmt.Fprintln(cmd.OutOrStdout(), "Shared.")
	}
	return nil
}

func newResetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Forget the scraped trail and itinerary",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(cmd)
			if err != nil {
				return err
			}
			if err := e.store.Clear(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Session cleared.")
			return nil
		},
	}
}
