package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/featuretable/pkg/errors"
	"github.com/matzehuels/featuretable/pkg/pipeline"
	"github.com/matzehuels/featuretable/pkg/tbl"
)

// convertOpts holds the flags of the convert command.
type convertOpts struct {
	output  string
	split   bool
	format  string
	noCache bool
	refresh bool
	jobs    int
}

// converted is the outcome for one input.
type converted struct {
	input  string
	result *pipeline.Result
}

func (c *CLI) convertCommand() *cobra.Command {
	var opts convertOpts

	cmd := &cobra.Command{
		Use:   "convert [files...]",
		Short: "Write a feature table from JSON or GFF3 annotations",
		Long: `Convert annotation files into the NCBI feature table format.

Each input contributes one or more ">Feature" blocks. Without --split all
blocks go to one destination (stdout by default); with --split every input
gets a sibling "<input>.tbl". With no files, or "-", the annotation is read
from stdin.`,
		Example: `  featuretable convert annotation.gff3 -o submission.tbl
  featuretable convert --split sample1.json sample2.json
  cat genes.json | featuretable convert --format json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.format == "" {
				opts.format = c.Config.Format
			}
			if len(args) == 0 {
				args = []string{"-"}
			}
			if err := opts.validate(args); err != nil {
				return err
			}
			ctx := withLogger(cmd.Context(), c.Logger)
			return c.runConvert(ctx, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "-", "output file (\"-\" for stdout)")
	cmd.Flags().BoolVar(&opts.split, "split", false, "write <input>.tbl next to each input")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "input format: json or gff3 (default: detect)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the rendered-table cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "ignore cached tables and re-render")
	cmd.Flags().IntVarP(&opts.jobs, "jobs", "j", runtime.NumCPU(), "inputs converted in parallel")

	return cmd
}

func (o *convertOpts) validate(inputs []string) error {
	if o.format != "" {
		if err := pipeline.ValidateFormat(o.format); err != nil {
			return err
		}
	}
	if o.jobs < 1 {
		o.jobs = 1
	}
	stdinCount := 0
	for _, in := range inputs {
		if in == "-" {
			stdinCount++
		}
	}
	if stdinCount > 1 {
		return errors.New(errors.ErrCodeInvalidInput, "stdin can only be read once")
	}
	if o.split && stdinCount > 0 {
		return errors.New(errors.ErrCodeInvalidInput, "--split needs file inputs, not stdin")
	}
	if o.split && o.output != "-" {
		return errors.New(errors.ErrCodeInvalidInput, "--split and --output are mutually exclusive")
	}
	return nil
}

func (c *CLI) runConvert(ctx context.Context, inputs []string, opts convertOpts) error {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	if opts.split {
		err = c.convertSplit(ctx, runner, inputs, opts)
	} else {
		err = c.convertJoined(ctx, runner, inputs, opts)
	}
	if tbl.IsBrokenPipe(err) {
		logger.Debug("output closed early")
		return nil
	}
	if err != nil {
		return err
	}
	prog.done("converted", "inputs", len(inputs))
	return nil
}

// convertJoined renders all inputs in parallel and writes them in argument
// order to one destination.
func (c *CLI) convertJoined(ctx context.Context, runner *pipeline.Runner, inputs []string, opts convertOpts) error {
	results := make([]converted, len(inputs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.jobs)
	for i, in := range inputs {
		g.Go(func() error {
			res, err := c.convertOne(gctx, runner, in, opts)
			if err != nil {
				return err
			}
			results[i] = converted{input: in, result: res}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	fw, err := c.createOutput(opts.output)
	if err != nil {
		return err
	}
	defer fw.Close()
	for _, r := range results {
		if err := fw.WriteTable(r.result.Table); err != nil {
			return err
		}
	}
	if err := fw.Close(); err != nil {
		return err
	}

	if fw.Path() != "-" {
		for _, r := range results {
			printStats(r.result.Stats.Genes, r.result.Stats.CDSes, r.result.Stats.Segments, r.result.CacheHit)
		}
		printSuccess("Converted %s", plural(len(results), "input", "inputs"))
		printFile(fw.Path())
	}
	return nil
}

// convertSplit writes "<input>.tbl" for every input concurrently.
func (c *CLI) convertSplit(ctx context.Context, runner *pipeline.Runner, inputs []string, opts convertOpts) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.jobs)
	for _, in := range inputs {
		g.Go(func() error {
			res, err := c.convertOne(gctx, runner, in, opts)
			if err != nil {
				return err
			}
			out := in + ".tbl"
			if err := writeTableFile(out, res.Table); err != nil {
				return err
			}
			loggerFromContext(gctx).Debug("wrote table", "path", out, "bytes", res.Stats.Bytes, "cached", res.CacheHit)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	printSuccess("Wrote %s", plural(len(inputs), "table", "tables"))
	for _, in := range inputs {
		printFile(in + ".tbl")
	}
	return nil
}

func (c *CLI) convertOne(ctx context.Context, runner *pipeline.Runner, input string, opts convertOpts) (*pipeline.Result, error) {
	data, err := c.readInput(input)
	if err != nil {
		return nil, err
	}
	return runner.Execute(ctx, pipeline.Options{
		Input:   data,
		Source:  input,
		Format:  opts.format,
		Refresh: opts.refresh,
		TTL:     c.Config.CacheTTL.Duration,
		Logger:  loggerFromContext(ctx),
	})
}

func (c *CLI) readInput(path string) ([]byte, error) {
	if path == "-" {
		data, err := io.ReadAll(c.stdin)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read stdin")
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "read %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "read %s", path)
	}
	return data, nil
}

func (c *CLI) createOutput(path string) (*tbl.FileWriter, error) {
	if path == "-" {
		return tbl.Wrap(c.stdout, "-"), nil
	}
	return tbl.Create(path)
}

func writeTableFile(path, table string) error {
	fw, err := tbl.Create(path)
	if err != nil {
		return err
	}
	defer fw.Close()
	if err := fw.WriteTable(table); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return fw.Close()
}
