package convert

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/mgpai22/kayla/internal/subtitle"
)

// outcome of a directory conversion, in directory-listing order
type BatchReport struct {
	Converted   []string
	Unconverted []string
	Failures    map[string]error
}

type BatchOptions struct {
	// number of files converted in parallel; <= 0 means 1
	Concurrency int
}

// converts every file in inputDir into outputDir. Per-file failures are
// recorded in the report and never stop the batch; only missing
// directories or an unknown format fail the call.
func (c *Converter) ConvertBatch(
	ctx context.Context,
	inputDir, outputDir, format string,
	opts BatchOptions,
) (*BatchReport, error) {
	if !c.fs.IsDir(inputDir) {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrInputNotFound, inputDir)
	}
	if !c.fs.IsDir(outputDir) {
		return nil, fmt.Errorf("%w: %s", ErrOutputDirectoryNotFound, outputDir)
	}

	target, err := c.target(format)
	if err != nil {
		return nil, err
	}

	files, err := c.fs.ListFiles(inputDir)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to list %s: %v", ErrInputNotFound, inputDir, err)
	}

	c.logger.Infow("Starting batch conversion",
		"input", inputDir,
		"output", outputDir,
		"format", target.Format,
		"files", len(files),
	)

	jobs := c.planBatch(files, inputDir, outputDir, target)
	errs := c.convertAll(ctx, jobs, target, opts.Concurrency)

	report := &BatchReport{
		Converted:   []string{},
		Unconverted: []string{},
		Failures:    make(map[string]error),
	}
	for i, f := range files {
		if errs[i] != nil {
			report.Unconverted = append(report.Unconverted, f.Name)
			report.Failures[f.Name] = errs[i]
			c.logger.Warnw("File not converted",
				"file", f.Name,
				"error", errs[i],
			)
			continue
		}
		report.Converted = append(report.Converted, f.Name)
	}

	c.logger.Infow("Batch conversion complete",
		"converted", len(report.Converted),
		"unconverted", len(report.Unconverted),
	)
	return report, nil
}

// one planned file conversion; err is set when the entry is refused
// before any work starts
type batchJob struct {
	file   FileInfo
	input  string
	output string
	err    error
}

// resolves every output path up front. An output that would replace
// one of the batch's inputs, or that an earlier entry in listing order
// already claimed, is refused so no file is silently overwritten.
func (c *Converter) planBatch(
	files []FileInfo,
	inputDir, outputDir string,
	target subtitle.Descriptor,
) []batchJob {
	inputs := make(map[string]bool, len(files))
	for _, f := range files {
		inputs[filepath.Clean(filepath.Join(inputDir, f.Name))] = true
	}

	claimed := make(map[string]string)
	jobs := make([]batchJob, len(files))
	for i, f := range files {
		job := batchJob{
			file:   f,
			input:  filepath.Join(inputDir, f.Name),
			output: filepath.Join(outputDir, outputName(f.Name, target)),
		}
		key := filepath.Clean(job.output)

		switch {
		case len(c.registry.ParsersForExtension(f.Ext)) == 0:
			job.err = fmt.Errorf("%w: no parser for extension %q", ErrUnparsableInput, f.Ext)
		case inputs[key]:
			job.err = fmt.Errorf("%w: refusing to overwrite input %s", ErrWriteError, job.output)
		case claimed[key] != "":
			job.err = fmt.Errorf("%w: %s is already the output of %s", ErrWriteError, job.output, claimed[key])
		default:
			claimed[key] = f.Name
		}
		jobs[i] = job
	}
	return jobs
}

// converts jobs with a worker pool; the returned errors are indexed
// like jobs so listing order survives parallelism
func (c *Converter) convertAll(
	ctx context.Context,
	jobs []batchJob,
	target subtitle.Descriptor,
	concurrency int,
) []error {
	errs := make([]error, len(jobs))
	if len(jobs) == 0 {
		return errs
	}
	if concurrency <= 0 {
		concurrency = 1
	}

	workChan := make(chan int)
	var wg sync.WaitGroup
	for i := 0; i < concurrency && i < len(jobs); i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range workChan {
				if jobs[idx].err != nil {
					errs[idx] = jobs[idx].err
					continue
				}
				if err := ctx.Err(); err != nil {
					errs[idx] = err
					continue
				}
				errs[idx] = c.convertEntry(jobs[idx], target)
			}
		}()
	}

	for i := range jobs {
		workChan <- i
	}
	close(workChan)
	wg.Wait()

	return errs
}

// converts one directory entry, reading the entry's own path
func (c *Converter) convertEntry(job batchJob, target subtitle.Descriptor) error {
	data, err := c.fs.ReadFile(job.input)
	if err != nil {
		return fmt.Errorf("%w: failed to read %s: %v", ErrInputNotFound, job.input, err)
	}

	content, err := c.render(job.file.Name, job.file.Ext, data, target)
	if err != nil {
		return err
	}

	if err := c.fs.WriteFile(job.output, []byte(content)); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrWriteError, job.output, err)
	}

	c.logger.Debugw("Converted file",
		"input", job.input,
		"output", job.output,
	)
	return nil
}
