package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/grocktx/grocktx/internal/batch"
	"github.com/grocktx/grocktx/internal/id"
	"github.com/grocktx/grocktx/internal/importer"
	"github.com/grocktx/grocktx/internal/logging"
	"github.com/grocktx/grocktx/internal/model"
	"github.com/grocktx/grocktx/internal/report"
	"github.com/grocktx/grocktx/internal/store"
)

type batchFlags struct {
	inputFormat   string
	format        string
	output        string
	date          string
	dbPath        string
	workers       int
	moveProcessed bool
}

func newBatchCommand(gf *globalFlags) *cobra.Command {
	bf := &batchFlags{}

	cmd := &cobra.Command{
		Use:   "batch <file-or-dir>",
		Short: "Classify every memo in a CSV export, or in each CSV of a directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := gf.load(cmd)
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			if !flags.Changed("format") {
				bf.format = e.cfg.Output.Format
			}
			if !flags.Changed("workers") {
				bf.workers = e.cfg.Batch.Workers
			}
			if !flags.Changed("db") {
				bf.dbPath = e.cfg.Store.DatabasePath
			}
			return runBatch(cmd.Context(), e, args[0], bf, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&bf.inputFormat, "input-format", "statement", "input CSV layout: statement or split")
	cmd.Flags().StringVar(&bf.format, "format", "", "report format: json or csv (default from config)")
	cmd.Flags().StringVarP(&bf.output, "output", "o", "", "write the report to a file instead of stdout")
	cmd.Flags().StringVar(&bf.date, "date", "", "reference date (YYYY-MM-DD) for rows without a date")
	cmd.Flags().StringVar(&bf.dbPath, "db", "", "SQLite database to record the run in (default from config)")
	cmd.Flags().IntVar(&bf.workers, "workers", 0, "number of parsing workers (default from config)")
	cmd.Flags().BoolVar(&bf.moveProcessed, "move-processed", false, "move each input file into processed/ once reported")

	return cmd
}

func runBatch(ctx context.Context, e *env, path string, bf *batchFlags, stdout io.Writer) error {
	reg := importer.DefaultRegistry()
	imp := reg.Get(bf.inputFormat)
	if imp == nil {
		return fmt.Errorf("unknown input format %q (available: %s)", bf.inputFormat, strings.Join(reg.Formats(), ", "))
	}
	rw, err := report.New(bf.format)
	if err != nil {
		return err
	}
	ref, err := e.reference(bf.date)
	if err != nil {
		return err
	}

	files, dir, err := inputFiles(path)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		e.log.Warn("no_input_files", "path", path)
	}

	p, err := e.parser()
	if err != nil {
		return err
	}
	runner := batch.NewRunner(p,
		batch.WithWorkers(bf.workers),
		batch.WithReference(ref),
		batch.WithLogger(e.log),
	)

	var db *store.DB
	if bf.dbPath != "" {
		db, err = store.Open(bf.dbPath)
		if err != nil {
			return err
		}
		defer db.Close()
	}

	var all []model.Transaction
	for _, f := range files {
		txns, err := importFile(imp, f.Path)
		if err != nil {
			return err
		}
		parsed, sum, err := runner.Run(ctx, txns)
		if err != nil {
			return fmt.Errorf("parsing %s: %w", f.Name, err)
		}
		e.log.Info("file_parsed", "file", f.Name, "transactions", sum.Total, "unknown", sum.Unknown())

		if db != nil {
			if err := saveRun(ctx, db, f.Name, sum, parsed); err != nil {
				return err
			}
		}
		all = append(all, parsed...)
	}

	if err := writeReport(rw, bf.output, stdout, all); err != nil {
		return err
	}

	if bf.moveProcessed && dir != "" {
		for _, f := range files {
			if err := importer.MarkProcessed(dir, f.Name); err != nil {
				return err
			}
			e.log.Info("file_moved", "file", f.Name)
		}
	}
	return nil
}

// inputFiles resolves path to the CSV files to import. dir is set when path
// is a directory.
func inputFiles(path string) (files []importer.FileInfo, dir string, err error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, "", fmt.Errorf("reading input: %w", err)
	}
	if info.IsDir() {
		files, err = importer.Scan(path)
		return files, path, err
	}
	return []importer.FileInfo{{
		Name: filepath.Base(path),
		Path: path,
		Size: info.Size(),
	}}, "", nil
}

func importFile(imp importer.Parser, path string) ([]model.Transaction, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	txns, err := imp.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("importing %s: %w", filepath.Base(path), err)
	}
	return txns, nil
}

func saveRun(ctx context.Context, db *store.DB, source string, sum batch.Summary, txns []model.Transaction) error {
	run := store.Run{
		ID:         id.NewRun(),
		Source:     source,
		StartedAt:  sum.Started,
		FinishedAt: sum.Finished,
		Total:      sum.Total,
		Unknown:    sum.Unknown(),
	}
	if err := db.SaveRun(ctx, run, txns); err != nil {
		return fmt.Errorf("saving run for %s: %w", source, err)
	}
	logging.FromContext(ctx).Info("store_run_saved",
		"run", id.Short(run.ID, 8),
		"source", source,
		"elapsed", run.FinishedAt.Sub(run.StartedAt).Round(time.Millisecond).String(),
	)
	return nil
}

func writeReport(rw report.Writer, output string, stdout io.Writer, txns []model.Transaction) error {
	if output == "" {
		return rw.Write(stdout, txns)
	}
	f, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("creating report: %w", err)
	}
	if err := rw.Write(f, txns); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
