package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/featuretable/pkg/buildinfo"
	"github.com/matzehuels/featuretable/pkg/cache"
	"github.com/matzehuels/featuretable/pkg/observability"
	"github.com/matzehuels/featuretable/pkg/tbl"
)

const cacheKeyType = "table"

// Runner encapsulates pipeline execution with caching.
// Both CLI and server use it so the cache layout stays consistent.
//
// The Runner holds no per-run state. Multiple goroutines can safely use the
// same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs load → render for one input, consulting the cache first.
// Cache failures are logged and never fail the run.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	logger := opts.Logger.With("source", sourceName(opts.Source))

	key := r.Keyer.TableKey(cache.Hash(opts.Input), cache.TableKeyOpts{
		Format:  opts.Format,
		Version: buildinfo.Version,
	})
	if !opts.Refresh {
		data, hit, err := r.Cache.Get(ctx, key)
		switch {
		case err != nil:
			logger.Warn("cache lookup failed", "err", err)
		case hit:
			observability.Cache().OnCacheHit(ctx, cacheKeyType)
			logger.Debug("table from cache", "bytes", len(data))
			return &Result{
				Table:    string(data),
				Stats:    Stats{Bytes: len(data)},
				CacheHit: true,
			}, nil
		}
		observability.Cache().OnCacheMiss(ctx, cacheKeyType)
	}

	result := &Result{}

	// Stage 1: Load
	observability.Pipeline().OnLoadStart(ctx, opts.Format, opts.Source)
	loadStart := time.Now()
	results, err := Load(opts.Input, opts.Format)
	result.Stats.LoadTime = time.Since(loadStart)
	result.Stats.Genes, result.Stats.CDSes, result.Stats.Segments = countFeatures(results)
	observability.Pipeline().OnLoadComplete(ctx, opts.Format, result.Stats.Genes, result.Stats.LoadTime, err)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", sourceName(opts.Source), err)
	}
	result.Results = results

	logger.Info("loaded annotation",
		"format", opts.Format,
		"genes", result.Stats.Genes,
		"cds", result.Stats.CDSes,
		"segments", result.Stats.Segments,
		"duration", result.Stats.LoadTime)

	// Stage 2: Render
	observability.Pipeline().OnRenderStart(ctx, result.Stats.Genes)
	renderStart := time.Now()
	table, err := tbl.ResultsToString(results)
	result.Stats.RenderTime = time.Since(renderStart)
	observability.Pipeline().OnRenderComplete(ctx, len(table), result.Stats.RenderTime, err)
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", sourceName(opts.Source), err)
	}
	result.Table = table
	result.Stats.Bytes = len(table)

	logger.Info("rendered table",
		"bytes", result.Stats.Bytes,
		"duration", result.Stats.RenderTime)

	if err := r.Cache.Set(ctx, key, []byte(table), opts.TTL); err != nil {
		logger.Warn("cache store failed", "err", err)
	} else {
		observability.Cache().OnCacheSet(ctx, cacheKeyType, len(table))
	}

	return result, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}
