package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"text/tabwriter"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"evalgo.org/darkroom/internal/gallery"
	"evalgo.org/darkroom/internal/imagehost"
	"evalgo.org/darkroom/models"
)

var (
	collectionEndpoint string
	collectionFormat   string
	walkSteps          int
	walkNoPreload      bool
	walkTimeout        time.Duration
)

var collectionCmd = &cobra.Command{
	Use:   "collection",
	Short: "Inspect gallery collections",
	Long: `Fetch collections through the listing endpoint and drive the lightbox
against them from the terminal.

The listing endpoint defaults to the running server's /api/imagekit proxy.`,
}

var collectionListCmd = &cobra.Command{
	Use:   "list [name]",
	Short: "List the images of a collection",
	Long: `Fetch and normalize a collection, then print it.

Examples:
  darkroom collection list family
  darkroom collection list fineart --format json
  darkroom collection list recent --endpoint https://photos.example.com/api/imagekit --format yaml`,
	Args: cobra.ExactArgs(1),
	RunE: runCollectionList,
}

var collectionWalkCmd = &cobra.Command{
	Use:   "walk [name]",
	Short: "Step the lightbox through a collection",
	Long: `Open the lightbox on the first image, step through the collection with
the arrow key, go back and forward in history, and close with Escape.
Every transition is printed with the resulting shareable URL. Full images
are preloaded over HTTP, which warms the CDN cache.

Examples:
  darkroom collection walk family
  darkroom collection walk awards --steps 3 --no-preload`,
	Args: cobra.ExactArgs(1),
	RunE: runCollectionWalk,
}

func init() {
	collectionCmd.AddCommand(collectionListCmd)
	collectionCmd.AddCommand(collectionWalkCmd)

	collectionCmd.PersistentFlags().StringVar(&collectionEndpoint, "endpoint", "", "listing endpoint (default: this server's /api/imagekit)")

	collectionListCmd.Flags().StringVar(&collectionFormat, "format", "table", "output format (table, json, yaml)")

	collectionWalkCmd.Flags().IntVar(&walkSteps, "steps", 0, "number of next steps (default: one full cycle)")
	collectionWalkCmd.Flags().BoolVar(&walkNoPreload, "no-preload", false, "do not download images")
	collectionWalkCmd.Flags().DurationVar(&walkTimeout, "preload-timeout", 30*time.Second, "timeout per preloaded image")
}

func fetchCollection(cmd *cobra.Command, name string) (*models.Collection, error) {
	endpoint := collectionEndpoint
	if endpoint == "" {
		endpoint = cfg.ListingEndpoint()
	}
	source := imagehost.NewSource(endpoint,
		imagehost.WithDeliveryEndpoint(cfg.ImageKit.URLEndpoint),
		imagehost.WithLogger(logger))

	coll, err := source.FetchCollection(cmd.Context(), name)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch collection: %w", err)
	}
	return coll, nil
}

func runCollectionList(cmd *cobra.Command, args []string) error {
	coll, err := fetchCollection(cmd, args[0])
	if err != nil {
		return err
	}
	return printCollection(cmd.OutOrStdout(), coll, collectionFormat)
}

func printCollection(w io.Writer, coll *models.Collection, format string) error {
	switch format {
	case "json":
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(coll.Items())

	case "yaml":
		encoder := yaml.NewEncoder(w)
		defer encoder.Close()
		return encoder.Encode(coll.Items())

	case "table":
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "#\tID\tTITLE\tSIZE\tURL")
		for _, img := range coll.Items() {
			size := "-"
			if img.Width > 0 && img.Height > 0 {
				size = fmt.Sprintf("%dx%d", img.Width, img.Height)
			}
			fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n",
				img.DisplayIndex+1, img.Identifier, img.Title, size, img.SourceURL)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
		fmt.Fprintf(w, "\nTotal: %d images in %q\n", coll.Len(), coll.Name())
		return nil

	default:
		return fmt.Errorf("unknown output format: %s (use 'table', 'json' or 'yaml')", format)
	}
}

func runCollectionWalk(cmd *cobra.Command, args []string) error {
	coll, err := fetchCollection(cmd, args[0])
	if err != nil {
		return err
	}

	var preloader gallery.Preloader
	var background *gallery.BackgroundPreloader
	if !walkNoPreload {
		fetcher := gallery.NewHTTPFetcher(resty.New())
		background, err = gallery.NewBackgroundPreloader(fetcher, cfg.Gallery.PreloadCacheSize, walkTimeout, logger)
		if err != nil {
			return err
		}
		preloader = background
	}

	base := &url.URL{Path: "/portfolio/" + coll.Name()}
	out := cmd.OutOrStdout()
	report := walkCollection(out, coll, base, walkOptions{
		Steps:            walkSteps,
		Param:            cfg.Gallery.FocusParam,
		TransitionWindow: cfg.Gallery.TransitionWindow,
		Preloader:        preloader,
		Logger:           logger,
	})

	fmt.Fprintf(out, "\n%d transitions, scroll lock acquired %d / released %d, %d history entries\n",
		report.Transitions, report.LockAcquired, report.LockReleased, report.HistoryLen)

	if background != nil {
		background.Wait()
		fmt.Fprintf(out, "%d images preloaded\n", background.Fetches())
	}
	return nil
}

type walkOptions struct {
	Steps            int
	Param            string
	TransitionWindow time.Duration
	Preloader        gallery.Preloader
	Logger           hclog.Logger
}

type walkReport struct {
	Transitions  int
	LockAcquired int
	LockReleased int
	HistoryLen   int
	Final        *url.URL
}

// walkCollection drives a mounted gallery page the way a visitor would and
// prints every transition to w.
func walkCollection(w io.Writer, coll *models.Collection, base *url.URL, opts walkOptions) walkReport {
	history := gallery.NewMemoryHistory(base)
	keyboard := gallery.NewKeyboard()
	lock := &gallery.BodyLock{}

	page := gallery.NewPage(coll, gallery.Options{
		History:          history,
		Param:            opts.Param,
		Keyboard:         keyboard,
		ScrollLock:       lock,
		Preloader:        opts.Preloader,
		TransitionWindow: opts.TransitionWindow,
		Logger:           opts.Logger,
	})
	page.Mount()

	var report walkReport
	stop := page.Controller.Observe(func(t gallery.Transition) {
		report.Transitions++
		fmt.Fprintf(w, "%-9s %-14s -> %-14s %s\n", t.Cause, orDash(t.From), orDash(t.To), history.Location())
	})

	tiles := page.Grid.Tiles()
	if len(tiles) == 0 {
		fmt.Fprintf(w, "collection %q is empty\n", coll.Name())
	} else {
		for _, tile := range tiles {
			page.Grid.Hover(tile.Identifier)
		}

		steps := opts.Steps
		if steps <= 0 {
			steps = len(tiles)
		}

		page.Grid.Activate(tiles[0].Identifier)
		for i := 0; i < steps; i++ {
			keyboard.Dispatch(gallery.KeyArrowRight)
		}
		history.Back()
		history.Forward()
		keyboard.Dispatch(gallery.KeyEscape)
	}

	stop()
	page.Unmount()

	report.LockAcquired, report.LockReleased = lock.Counts()
	report.HistoryLen = history.Len()
	report.Final = history.Location()
	return report
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
