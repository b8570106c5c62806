package main

import (
	"os"

	"github.com/usert5432/fdedup/internal/applog"
	"github.com/usert5432/fdedup/internal/collector"
	"github.com/usert5432/fdedup/internal/config"
	"github.com/usert5432/fdedup/internal/dedup"
	"github.com/usert5432/fdedup/internal/entry"
	"github.com/usert5432/fdedup/internal/pipeline"
	"github.com/usert5432/fdedup/internal/progress"
	"github.com/usert5432/fdedup/internal/report"
)

// runFdedup resolves the CLI flags into a config.Config and drives the
// collector → pipeline → dedup/report sequence.
func runFdedup(paths []string, opts *options) error {
	cfg, err := opts.resolve(paths)
	if err != nil {
		return err
	}

	log := applog.New(cfg.Verbosity)

	files := map[entry.Key]*entry.FSEntry{}
	for idx, path := range cfg.Paths {
		log.Info().Msgf("Scanning '%s' for entries...", path)
		bar := progress.New(cfg.ShowProgress, -1)
		if err := collector.Collect(path, files, cfg, uint32(idx), log, bar); err != nil {
			return err
		}
		bar.Finish(scanDone{})
	}

	entries := make([]*entry.FSEntry, 0, len(files))
	for _, e := range files {
		entries = append(entries, e)
	}
	pipeline.LogInitialStats(entries, log)

	if len(entries) == 0 {
		return nil
	}

	pipelineBar := progress.New(cfg.ShowProgress, int64(len(entries)))
	groups, err := pipeline.Run(entries, cfg, log, pipelineBar)
	if err != nil {
		return err
	}
	pipelineBar.Finish(scanDone{})

	pipeline.LogFinalStats(groups, log)

	if cfg.OutputPath != "" && len(groups) > 0 {
		log.Info().Msgf("Saving duplicate entries to %s", cfg.OutputPath)
		if err := writeReport(groups, cfg); err != nil {
			return err
		}
	}

	dedupBar := progress.New(cfg.ShowProgress && !cfg.DryRun, int64(len(groups)))
	if _, err := dedup.Run(groups, cfg, os.Stdout, log, dedupBar); err != nil {
		return err
	}

	return nil
}

func writeReport(groups [][]*entry.FSEntry, cfg config.Config) error {
	f, err := os.Create(cfg.OutputPath)
	if err != nil {
		return err
	}
	defer f.Close()

	return report.Write(f, groups)
}

type scanDone struct{}

func (scanDone) String() string { return "Done" }
