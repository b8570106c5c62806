package main

import (
	"github.com/dustin/go-humanize"
	"github.com/spf13/pflag"

	"github.com/usert5432/fdedup/internal/config"
)

// options holds the raw CLI flag values, bound by pflag, before they are
// parsed and validated into a config.Config.
type options struct {
	action                string
	output                string
	includes              []string
	excludes              []string
	ignoreDefaultExcludes bool
	sloppy                bool
	dryRun                bool
	noProgress            bool
	oneFileSystem         bool
	hash                  string
	nread                 string
	minSize               string
	maxSize               string
	verbosity             int
	quiet                 int
}

func newOptions() *options {
	return &options{
		action:  "print",
		hash:    "sha512",
		nread:   "128",
		minSize: "128",
	}
}

func (o *options) bindFlags(f *pflag.FlagSet) {
	f.StringVarP(&o.action, "action", "a", o.action, "Action to take on duplicates: hardlink|symlink|print")
	f.StringVarP(&o.output, "output", "o", o.output, "Report file path, required when --action=print")
	f.StringArrayVarP(&o.includes, "include", "i", nil, "Include glob pattern (repeatable)")
	f.StringArrayVarP(&o.excludes, "exclude", "e", nil, "Additional exclude glob pattern (repeatable)")
	f.BoolVar(&o.ignoreDefaultExcludes, "ignore-default-excludes", false, "Do not implicitly exclude .git and .svn")
	f.BoolVar(&o.sloppy, "sloppy", false, "Log and skip failures instead of aborting")
	f.BoolVar(&o.dryRun, "dry-run", false, "Print the deduplication plan instead of executing it")
	f.BoolVar(&o.noProgress, "no-progress", false, "Disable progress bars")
	f.BoolVarP(&o.oneFileSystem, "one-file-system", "x", false, "Restrict each root to its own device")
	f.StringVar(&o.hash, "hash", o.hash, "Hash algorithm: md5|sha1|sha256|sha512")
	f.StringVar(&o.nread, "nread", o.nread, "Bytes to read for head/tail probes, 0 disables them")
	f.StringVar(&o.minSize, "min-size", o.minSize, "Inclusive minimum file size")
	f.StringVar(&o.maxSize, "max-size", "", "Exclusive maximum file size, unset disables the bound")
	f.CountVarP(&o.verbosity, "verbose", "v", "Increase log verbosity (repeatable)")
	f.CountVarP(&o.quiet, "quiet", "q", "Decrease log verbosity (repeatable)")
}

// resolve parses and validates the raw flag values into a config.Config.
func (o *options) resolve(paths []string) (config.Config, error) {
	action, err := config.ParseAction(o.action)
	if err != nil {
		return config.Config{}, err
	}

	nread, err := humanize.ParseBytes(o.nread)
	if err != nil {
		return config.Config{}, err
	}

	minSize, err := humanize.ParseBytes(o.minSize)
	if err != nil {
		return config.Config{}, err
	}

	var maxSize uint64
	hasMaxSize := o.maxSize != ""
	if hasMaxSize {
		maxSize, err = humanize.ParseBytes(o.maxSize)
		if err != nil {
			return config.Config{}, err
		}
	}

	excludes := o.excludes
	if !o.ignoreDefaultExcludes {
		excludes = append(append([]string{}, config.DefaultExcludes...), excludes...)
	}

	cfg := config.Config{
		Paths:         paths,
		Action:        action,
		OutputPath:    o.output,
		Includes:      o.includes,
		Excludes:      excludes,
		AbortOnError:  !o.sloppy,
		ShowProgress:  !o.noProgress,
		OneFileSystem: o.oneFileSystem,
		Hash:          o.hash,
		NRead:         int64(nread),
		MinSize:       minSize,
		MaxSize:       maxSize,
		HasMaxSize:    hasMaxSize,
		DryRun:        o.dryRun,
		Verbosity:     o.verbosity - o.quiet,
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}

	return cfg, nil
}
