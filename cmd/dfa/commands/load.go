package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/l3aro/go-dataflow/internal/scanner"
	"github.com/l3aro/go-dataflow/pkg/analysis"
	"github.com/l3aro/go-dataflow/pkg/cache"
	"github.com/l3aro/go-dataflow/pkg/dataflow"
	"github.com/l3aro/go-dataflow/pkg/irdoc"
	"github.com/l3aro/go-dataflow/pkg/report"
)

// document is one scanned IR document with the methods selected from it.
type document struct {
	file  scanner.File
	data  []byte
	units []*irdoc.Unit
}

// loadDocuments scans every path for IR documents and loads them. When method
// is not empty only methods with that name are kept.
func loadDocuments(paths []string, method string) ([]*document, error) {
	opts := scanner.DefaultOptions()
	opts.IgnoreFileName = settings.IgnoreFile
	sc := scanner.New(opts)

	var docs []*document
	found := 0
	for _, path := range paths {
		files, err := sc.Scan(path)
		if err != nil {
			return nil, err
		}
		if len(files) == 0 {
			logger.Warn("no IR documents found", "path", path)
		}
		for _, f := range files {
			data, err := os.ReadFile(f.FullPath)
			if err != nil {
				return nil, fmt.Errorf("failed to read IR document %s: %w", f.FullPath, err)
			}
			units, err := irdoc.Parse(data, f.FullPath)
			if err != nil {
				return nil, err
			}
			logger.Debug("loaded IR document", "path", f.Path, "methods", len(units))

			doc := &document{file: f, data: data}
			for _, u := range units {
				if method == "" || u.Method.Name == method {
					doc.units = append(doc.units, u)
				}
			}
			found += len(doc.units)
			docs = append(docs, doc)
		}
	}

	if method != "" && found == 0 {
		return nil, fmt.Errorf("method %q not found in %s", method, strings.Join(paths, ", "))
	}
	return docs, nil
}

// loadUnits returns the methods of every document found under paths.
func loadUnits(paths []string, method string) ([]*irdoc.Unit, error) {
	docs, err := loadDocuments(paths, method)
	if err != nil {
		return nil, err
	}
	var units []*irdoc.Unit
	for _, d := range docs {
		units = append(units, d.units...)
	}
	return units, nil
}

// analyze runs the given analyses over the documents named by args and writes
// the reports to the command's output. With --cache, documents whose content
// and options are unchanged since the last run reuse the stored reports.
func analyze(cmd *cobra.Command, args []string, analyses []string, graph bool) ([]*report.Report, error) {
	method, _ := cmd.Flags().GetString("method")
	docs, err := loadDocuments(args, method)
	if err != nil {
		return nil, err
	}

	var (
		store     *cache.Cache
		cachePath string
	)
	if cmd.Flags().Lookup("cache") != nil {
		if useCache, _ := cmd.Flags().GetBool("cache"); useCache {
			cachePath, _ = cmd.Flags().GetString("cache-file")
			if store, err = cache.LoadFile(cachePath, cache.DefaultMaxEntries); err != nil {
				return nil, err
			}
		}
	}

	keys := make([]cache.Key, len(docs))
	hit := make([]bool, len(docs))
	perDoc := make([][]*report.Report, len(docs))
	var pending []*irdoc.Unit
	for i, d := range docs {
		if store != nil {
			keys[i] = cache.KeyOf(d.data, strings.Join(analyses, ","), settings.Solver, method, strconv.FormatBool(graph))
			if cached, ok := store.Get(keys[i]); ok {
				perDoc[i], hit[i] = withSource(cached, d.file.FullPath), true
				continue
			}
		}
		pending = append(pending, d.units...)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fresh, err := analysis.RunAll(ctx, pending, analysis.Options{
		Analyses: analyses,
		Solver:   dataflow.SolverKind(settings.Solver),
		Workers:  settings.Workers,
		Graph:    graph,
		Logger:   logger,
	})
	if err != nil {
		return nil, err
	}

	var reports []*report.Report
	for i, d := range docs {
		if !hit[i] {
			perDoc[i], fresh = fresh[:len(d.units)], fresh[len(d.units):]
			if store != nil {
				store.Set(keys[i], perDoc[i])
			}
		}
		reports = append(reports, perDoc[i]...)
	}

	if store != nil {
		stats := store.Stats()
		logger.Debug("report cache", "path", cachePath, "hits", stats.Hits, "misses", stats.Misses)
		if err := store.SaveFile(cachePath); err != nil {
			return nil, err
		}
	}
	logger.Info("analysis complete", "methods", len(reports), "analyses", strings.Join(analyses, ","))

	if err := report.Encode(cmd.OutOrStdout(), report.Format(settings.Format), reports); err != nil {
		return nil, err
	}
	return reports, nil
}

// withSource points cached reports at the document's current location.
func withSource(reports []*report.Report, source string) []*report.Report {
	out := make([]*report.Report, len(reports))
	for i, r := range reports {
		c := *r
		c.Source = source
		out[i] = &c
	}
	return out
}

func splitAnalyses(s string) []string {
	var ids []string
	for _, id := range strings.Split(s, ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}
