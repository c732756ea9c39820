package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing/fstest"

	"github.com/cottand/matchck/internal/log"
	"github.com/cottand/matchck/matchck"
	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var logger = log.DefaultLogger.With("section", "cmd")

var CheckCmd = &cobra.Command{
	Use:          "check ./folder|file.rs",
	Short:        "Report the match expressions that do not cover every value of their scrutinee",
	RunE:         runCheck,
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
}

// ErrMissingArms is returned when some match is missing arms, so that the process exits with 1
var ErrMissingArms = errors.New("some matches are missing arms")

var watch *bool

func init() {
	for _, c := range []*cobra.Command{CheckCmd, ExplainCmd} {
		c.Flags().StringP("config", "c", "", "config file (default "+DefaultConfigFile+" when present)")
		c.Flags().IntP("max-witnesses", "w", 0, "maximum number of missing values reported per match")
		c.Flags().StringP("log-level", "l", "", "log level (debug, info, warn, error)")
		c.Flags().IntP("parallelism", "p", 0, "matches checked at once (default GOMAXPROCS)")
		c.Flags().StringSlice("log-sections", nil, "only log debug and info records of these sections (e.g. lower,matchcheck)")
	}
	watch = CheckCmd.Flags().Bool("watch", false, "check again whenever a source file changes")
	CheckCmd.Flags().Bool("unreachable", false, "also report arms that can never match")
	CheckCmd.Flags().Bool("no-witnesses", false, "do not list the values missing arms")
}

// resolveConfig merges the config file and the flags set on cmd
func resolveConfig(cmd *cobra.Command) (Config, error) {
	flags := cmd.Flags()
	path, _ := flags.GetString("config")
	cfg, err := loadConfig(orDefault(path, DefaultConfigFile), path != "")
	if err != nil {
		return cfg, err
	}
	if flags.Changed("max-witnesses") {
		cfg.MaxWitnesses, _ = flags.GetInt("max-witnesses")
	}
	if flags.Changed("log-level") {
		cfg.LogLevel, _ = flags.GetString("log-level")
	}
	if flags.Changed("log-sections") {
		cfg.LogSections, _ = flags.GetStringSlice("log-sections")
	}
	if flags.Changed("parallelism") {
		cfg.Parallelism, _ = flags.GetInt("parallelism")
	}
	if flags.Changed("unreachable") {
		cfg.ShowUnreachable, _ = flags.GetBool("unreachable")
	}
	if flags.Changed("no-witnesses") {
		hide, _ := flags.GetBool("no-witnesses")
		cfg.ShowWitnesses = !hide
	}
	if cfg.MaxWitnesses <= 0 {
		return cfg, errors.Errorf("max-witnesses must be positive, got %d", cfg.MaxWitnesses)
	}
	level, err := cfg.level()
	if err != nil {
		return cfg, err
	}
	log.SetLevel(level)
	log.EnableSections(cfg.LogSections...)
	return cfg, nil
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

// loadTarget checks a single file, or every source file of a folder
func loadTarget(ctx context.Context, target string, cfg Config) (*matchck.Package, error) {
	target, err := filepath.Abs(target)
	if err != nil {
		return nil, errors.Wrap(err, "could not get absolute path of target")
	}
	stat, err := os.Stat(target)
	if err != nil {
		return nil, errors.Wrap(err, "could not stat target")
	}
	settings := matchck.PkgLoadSettings{Config: cfg.checkerConfig(), Parallelism: cfg.Parallelism}
	if stat.IsDir() {
		return matchck.LoadPackage(ctx, os.DirFS(target).(matchck.SourceFS), settings)
	}
	data, err := os.ReadFile(target)
	if err != nil {
		return nil, errors.Wrap(err, "could not read target")
	}
	single := fstest.MapFS{filepath.Base(target): &fstest.MapFile{Data: data}}
	return matchck.LoadPackage(ctx, single, settings)
}

// checkOnce checks target and prints the result to out.
// It reports whether some match is missing arms.
func checkOnce(ctx context.Context, out io.Writer, target string, cfg Config) (bool, error) {
	pkg, err := loadTarget(ctx, target, cfg)
	if err != nil {
		return false, err
	}
	for _, e := range pkg.Errors().Errors() {
		_, _ = fmt.Fprintln(out, pkg.FormatError(e))
	}
	opts := matchck.FormatOptions{ShowWitnesses: cfg.ShowWitnesses, ShowSource: cfg.ShowSource}
	for _, d := range pkg.Diagnostics() {
		_, _ = fmt.Fprintln(out, pkg.FormatDiagnostic(d, opts))
	}
	if cfg.ShowUnreachable {
		for _, arm := range pkg.UnreachableArms() {
			_, _ = fmt.Fprintln(out, pkg.FormatUnreachable(arm))
		}
	}
	_, _ = fmt.Fprintf(out, "%d matches checked, %d diagnostics, %d errors\n",
		len(pkg.Reports()), len(pkg.Diagnostics()), len(pkg.Errors().Errors()))
	return pkg.HasMissingArms(), nil
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if *watch {
		return watchTarget(cmd.Context(), out, args[0], cfg)
	}
	missing, err := checkOnce(cmd.Context(), out, args[0], cfg)
	if err != nil {
		return errors.Wrap(err, "could not check target")
	}
	if missing {
		return ErrMissingArms
	}
	return nil
}

// watchTarget checks target every time one of its source files changes, until ctx is done
func watchTarget(ctx context.Context, out io.Writer, target string, cfg Config) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "could not start watching")
	}
	defer w.Close()

	dir := target
	if stat, err := os.Stat(target); err == nil && !stat.IsDir() {
		dir = filepath.Dir(target)
	}
	if err := w.Add(dir); err != nil {
		return errors.Wrapf(err, "could not watch %s", dir)
	}

	recheck := func() {
		if _, err := checkOnce(ctx, out, target, cfg); err != nil {
			_, _ = fmt.Fprintln(out, err)
		}
	}
	recheck()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !relevant(ev, target) {
				continue
			}
			logger.Debug("source changed", "path", ev.Name, "op", ev.Op.String())
			recheck()
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error", "error", err)
		}
	}
}

// relevant reports whether ev changes a source file of target
func relevant(ev fsnotify.Event, target string) bool {
	if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}
	if !strings.HasSuffix(ev.Name, matchck.SourceExt) {
		return false
	}
	if stat, err := os.Stat(target); err == nil && !stat.IsDir() {
		changed, errChanged := filepath.Abs(ev.Name)
		watched, errWatched := filepath.Abs(target)
		return errChanged == nil && errWatched == nil && changed == watched
	}
	return true
}
