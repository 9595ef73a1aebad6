package indexer

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mvp-joe/tagscan/internal/ignore"
	"github.com/mvp-joe/tagscan/internal/index"
	"github.com/mvp-joe/tagscan/internal/logging"
	"github.com/mvp-joe/tagscan/internal/model"
	"github.com/mvp-joe/tagscan/internal/strategy"
	"github.com/mvp-joe/tagscan/internal/walker"
)

// Config carries everything a scan needs. It is built once from the
// CLI/config layer and not mutated afterwards.
type Config struct {
	// RootDir is the tree to scan. Made absolute by New.
	RootDir string

	// Languages restricts the active strategies. Empty means all.
	Languages []string

	// IgnoreFiles are rule files read relative to RootDir. Empty means
	// ignore.DefaultRuleFiles.
	IgnoreFiles []string

	// IgnorePatterns are extra ignore rules appended after the rule
	// files, so they take precedence.
	IgnorePatterns []string

	// IncludePatterns optionally narrow the walk to matching files.
	IncludePatterns []string

	// IndexFile is the persisted index location, relative to RootDir
	// unless absolute. Empty means index.DefaultFile.
	IndexFile string
}

// Stats summarizes one scan or update run.
type Stats struct {
	RunID        string
	FilesWalked  int
	FilesClaimed int
	FilesSkipped int
	TagCount     int
	Elapsed      time.Duration
}

// ProgressReporter receives per-file progress during a scan. The CLI
// binds this to a progress bar; the default reporter does nothing.
type ProgressReporter interface {
	Start(total int)
	Increment(path string)
	Finish()
}

type noopProgress struct{}

func (noopProgress) Start(int)        {}
func (noopProgress) Increment(string) {}
func (noopProgress) Finish()          {}

// Indexer orchestrates the walk, the strategies and the persisted
// index. One file is read and extracted at a time; there is no
// parallel fan-out, so strategies never see concurrent calls.
type Indexer struct {
	cfg      *Config
	registry *strategy.Registry
	matcher  *ignore.Matcher
	store    *index.Store
	log      logging.Logger
	progress ProgressReporter
}

// New builds an indexer over cfg. The ignore rules are loaded once
// here, so a long watch session sees a consistent rule set.
func New(cfg *Config, registry *strategy.Registry, log logging.Logger) (*Indexer, error) {
	root, err := filepath.Abs(cfg.RootDir)
	if err != nil {
		return nil, err
	}
	cfg.RootDir = root

	ruleFiles := cfg.IgnoreFiles
	if len(ruleFiles) == 0 {
		ruleFiles = ignore.DefaultRuleFiles
	}

	indexFile := cfg.IndexFile
	if indexFile == "" {
		indexFile = index.DefaultFile
	}
	if !filepath.IsAbs(indexFile) {
		indexFile = filepath.Join(root, indexFile)
	}

	return &Indexer{
		cfg:      cfg,
		registry: registry,
		matcher:  ignore.NewMatcher(root, ruleFiles, cfg.IgnorePatterns, log),
		store:    index.NewStore(indexFile, log),
		log:      log,
		progress: noopProgress{},
	}, nil
}

// SetProgress installs a progress reporter. Call before starting a
// scan.
func (ix *Indexer) SetProgress(p ProgressReporter) {
	if p != nil {
		ix.progress = p
	}
}

// Store exposes the persisted index, e.g. for the query command.
func (ix *Indexer) Store() *index.Store { return ix.store }

// Matcher exposes the loaded ignore rules, e.g. for the watcher.
func (ix *Indexer) Matcher() *ignore.Matcher { return ix.matcher }

// RootDir returns the absolute scan root.
func (ix *Indexer) RootDir() string { return ix.cfg.RootDir }

// AllowedExtensions returns the extension set of the active
// strategies.
func (ix *Indexer) AllowedExtensions() (map[string]struct{}, error) {
	strategies, err := ix.registry.Resolve(ix.cfg.Languages)
	if err != nil {
		return nil, err
	}
	return strategy.Extensions(strategies), nil
}

// FullScan walks the whole tree and rebuilds the index from scratch.
// Files no strategy claims are left out of the index entirely. The
// previous index is replaced wholesale.
func (ix *Indexer) FullScan(ctx context.Context) (*Stats, error) {
	started := time.Now()
	stats := &Stats{RunID: uuid.NewString()}

	strategies, err := ix.registry.Resolve(ix.cfg.Languages)
	if err != nil {
		return nil, err
	}
	allowed := strategy.Extensions(strategies)

	w, err := walker.New(ix.cfg.RootDir, ix.matcher, ix.cfg.IncludePatterns, ix.log)
	if err != nil {
		return nil, err
	}
	files, err := w.Walk(allowed)
	if err != nil {
		return nil, err
	}
	stats.FilesWalked = len(files)

	ix.progress.Start(len(files))
	defer ix.progress.Finish()

	var entries []model.FileEntry
	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		entry, claimed := ix.extract(ctx, strategies, path)
		if claimed {
			entries = append(entries, entry)
			stats.FilesClaimed++
			stats.TagCount += len(entry.Tags)
		} else {
			stats.FilesSkipped++
		}
		ix.progress.Increment(path)
	}

	if err := ix.store.Save(entries); err != nil {
		return nil, err
	}

	stats.Elapsed = time.Since(started)
	ix.log.Info("full scan %s: %d files walked, %d claimed, %d tags in %v",
		stats.RunID, stats.FilesWalked, stats.FilesClaimed, stats.TagCount, stats.Elapsed)
	return stats, nil
}

// IncrementalUpdate re-extracts only the requested paths and merges
// them into the loaded index. Unlike a full scan, a requested file no
// strategy claims is recorded as a tombstone entry (empty tags,
// language "unknown") rather than dropped, so "checked, nothing found"
// stays distinguishable from "never checked".
func (ix *Indexer) IncrementalUpdate(ctx context.Context, paths []string) (*Stats, error) {
	started := time.Now()
	stats := &Stats{RunID: uuid.NewString()}

	strategies, err := ix.registry.Resolve(ix.cfg.Languages)
	if err != nil {
		return nil, err
	}
	allowed := strategy.Extensions(strategies)

	byPath := make(map[string]model.FileEntry)
	for _, entry := range ix.store.Load() {
		byPath[entry.FilePath] = entry
	}

	ix.progress.Start(len(paths))
	defer ix.progress.Finish()

	for _, p := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		ix.progress.Increment(p)

		abs := p
		if !filepath.IsAbs(abs) {
			abs = filepath.Join(ix.cfg.RootDir, abs)
		}
		abs = filepath.Clean(abs)

		info, err := os.Stat(abs)
		if err != nil || !info.Mode().IsRegular() {
			ix.log.Warn("skipping %s: not an existing regular file", abs)
			stats.FilesSkipped++
			continue
		}
		ext := strings.ToLower(filepath.Ext(abs))
		if _, ok := allowed[ext]; !ok {
			ix.log.Warn("skipping %s: extension %q not handled by active strategies", abs, ext)
			stats.FilesSkipped++
			continue
		}
		stats.FilesWalked++

		entry, claimed := ix.extract(ctx, strategies, abs)
		if claimed {
			byPath[abs] = entry
			stats.FilesClaimed++
			stats.TagCount += len(entry.Tags)
		} else {
			byPath[abs] = model.FileEntry{
				FilePath: abs,
				Language: model.LanguageUnknown,
				Tags:     []model.Tag{},
			}
		}
	}

	entries := make([]model.FileEntry, 0, len(byPath))
	for _, entry := range byPath {
		entries = append(entries, entry)
	}
	if err := ix.store.Save(entries); err != nil {
		return nil, err
	}

	stats.Elapsed = time.Since(started)
	ix.log.Info("incremental update %s: %d files updated, %d tags in %v",
		stats.RunID, stats.FilesClaimed, stats.TagCount, stats.Elapsed)
	return stats, nil
}

// extract offers the file to each strategy in registry order; the
// first non-empty result claims it. A strategy error only disqualifies
// that strategy for this file, never the run.
func (ix *Indexer) extract(ctx context.Context, strategies []strategy.Strategy, path string) (model.FileEntry, bool) {
	for _, s := range strategies {
		tags, err := s.ExtractTags(ctx, path)
		if err != nil {
			ix.log.Warn("%s strategy failed on %s: %v", s.Language(), path, err)
			continue
		}
		if len(tags) == 0 {
			continue
		}
		return model.FileEntry{
			FilePath: path,
			Language: s.Language(),
			Tags:     tags,
		}, true
	}
	return model.FileEntry{}, false
}
