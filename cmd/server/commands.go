package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Chisowa/Farm-Link-Zambia/pkg/catalog"
	"github.com/Chisowa/Farm-Link-Zambia/router"
)

const shutdownTimeout = 10 * time.Second

// rootCommand builds the farmlink CLI. Every subcommand gets a fully wired
// app; running with no subcommand serves HTTP.
func rootCommand() *cobra.Command {
	var a *app
	root := &cobra.Command{
		Use:           "farmlink",
		Short:         "Farm-Link Zambia advisory API",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			a, err = newApp(cmd.Context())
			return err
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if a != nil {
				a.Close()
			}
		},
	}
	get := func() *app { return a }

	serve := serveCommand(get)
	root.RunE = serve.RunE
	root.AddCommand(
		serve,
		seedCommand(get),
		kbCommand(get),
		routesCommand(get),
		usersCommand(get),
	)
	return root
}

func serveCommand(get func() *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := get()
			e := router.New(echo.New(), a.procs, a.authCtrl, a.health, router.Options{
				Log:          a.log,
				Identity:     a.identity,
				RateLimitRPS: a.cfg.RateLimitRPS,
				StaticDir:    staticDir(a.cfg.StaticDir, a.log),
				Metrics:      a.metrics.Handler(),
			})

			errc := make(chan error, 1)
			go func() {
				a.log.Info("listening", zap.String("port", a.cfg.Port))
				errc <- e.Start(":" + a.cfg.Port)
			}()

			select {
			case err := <-errc:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			case <-cmd.Context().Done():
			}

			a.log.Info("shutting down")
			ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return e.Shutdown(ctx)
		},
	}
}

// staticDir disables the landing page when its directory is missing.
func staticDir(dir string, log *zap.Logger) string {
	if dir == "" {
		return ""
	}
	if _, err := os.Stat(filepath.Join(dir, "index.html")); err != nil {
		log.Warn("landing page disabled", zap.String("dir", dir), zap.Error(err))
		return ""
	}
	return dir
}

func seedCommand(get func() *app) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Import crops, pests and diseases into the catalogue",
		Long: `Import a catalogue from a YAML file or an Excel workbook (sheets Crops,
Pests and Diseases). Without --file the built-in catalogue is imported.
Entries whose name already exists are skipped.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			doc, err := loadCatalog(file)
			if err != nil {
				return err
			}
			rep, err := get().importer.Import(cmd.Context(), doc)
			if err != nil {
				return err
			}
			return printJSON(cmd, rep)
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "catalogue file (.yaml, .yml or .xlsx)")
	return cmd
}

func loadCatalog(path string) (*catalog.Document, error) {
	if path == "" {
		return catalog.Default()
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return catalog.ParseYAML(f)
	case ".xlsx":
		return catalog.ParseWorkbook(f)
	}
	return nil, fmt.Errorf("unsupported catalogue file %q: want .yaml, .yml or .xlsx", path)
}

func kbCommand(get func() *app) *cobra.Command {
	var tags, title string
	kb := &cobra.Command{Use: "kb", Short: "Manage the knowledge base"}

	ingestURL := &cobra.Command{
		Use:   "ingest-url <url>",
		Short: "Fetch a page from an allowed domain and index it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := get()
			text, pageTitle, err := a.fetch.Fetch(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if title != "" {
				pageTitle = title
			}
			doc, n, err := a.kb.UpsertDocument(cmd.Context(), pageTitle, tags, text, args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd, map[string]any{"docId": doc.DocID, "title": doc.Title, "chunks": n})
		},
	}
	ingestFile := &cobra.Command{
		Use:   "ingest-file <path>",
		Short: "Index a local text or markdown file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			t := title
			if t == "" {
				t = strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))
			}
			doc, n, err := get().kb.UpsertDocument(cmd.Context(), t, tags, string(b), "")
			if err != nil {
				return err
			}
			return printJSON(cmd, map[string]any{"docId": doc.DocID, "title": doc.Title, "chunks": n})
		},
	}
	list := &cobra.Command{
		Use:   "list",
		Short: "List ingested documents, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			docs, err := get().kb.Documents(cmd.Context())
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tTITLE\tSOURCE\tINGESTED")
			for _, d := range docs {
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", d.DocID, d.Title, d.SourceURL, d.CreatedAt.Format(time.RFC3339))
			}
			return w.Flush()
		},
	}
	for _, c := range []*cobra.Command{ingestURL, ingestFile} {
		c.Flags().StringVar(&tags, "tags", "", "comma separated tags")
		c.Flags().StringVar(&title, "title", "", "document title")
	}
	kb.AddCommand(ingestURL, ingestFile, list)
	return kb
}

func routesCommand(get func() *app) *cobra.Command {
	return &cobra.Command{
		Use:   "routes",
		Short: "List registered procedures",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "PATH\tKIND\tSCHEMA\tGUARDS")
			for _, p := range get().procs.Procedures() {
				s := p.Schema
				if s == "" {
					s = "-"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\n", p.Path, p.Kind, s, len(p.Guards))
			}
			return w.Flush()
		},
	}
}

func usersCommand(get func() *app) *cobra.Command {
	users := &cobra.Command{Use: "users", Short: "Manage user accounts"}
	users.AddCommand(&cobra.Command{
		Use:   "set-role <email> <role>",
		Short: "Change a user's role (farmer, agent, admin)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := get().users.SetRole(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			return printJSON(cmd, u)
		},
	})
	return users
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
