// Package store discovers and loads the trace files of one run.
package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"

	"uxtrace/internal/model"
	"uxtrace/internal/parser"
)

// ErrRunNotFound is returned when the run location holds no trace files.
var ErrRunNotFound = errors.New("no api trace files found")

// TraceDirName is the subdirectory of a run that holds the raw traces.
const TraceDirName = "api_trace"

var traceFilePattern = regexp.MustCompile(`^api_trace_(\d+)\.json$`)

// LoadResult contains the ordered record sequence and the non-fatal per-file
// failures collected while loading it. Every failure has a matching degraded
// record in Records, so len(Records) always equals the number of trace files
// found on disk.
type LoadResult struct {
	Records  []model.TraceRecord
	Failures []error
}

// LoadRun reads every api_trace_<n>.json under runPath's trace directory,
// ordered by the numeric suffix (ascending, gaps allowed). Directory
// iteration order is never trusted; the suffix is the sort key. Malformed or
// unreadable files become degraded records plus an entry in Failures.
func LoadRun(runPath string) (LoadResult, error) {
	if runPath == "" {
		return LoadResult{}, errors.New("run path is required")
	}

	traceDir := filepath.Join(runPath, TraceDirName)
	entries, err := os.ReadDir(traceDir)
	if err != nil {
		if os.IsNotExist(err) {
			return LoadResult{}, fmt.Errorf("%w under %s", ErrRunNotFound, runPath)
		}
		return LoadResult{}, fmt.Errorf("read trace dir: %w", err)
	}

	type traceFile struct {
		seq  int
		path string
	}

	var files []traceFile
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		match := traceFilePattern.FindStringSubmatch(entry.Name())
		if match == nil {
			continue
		}
		seq, err := strconv.Atoi(match[1])
		if err != nil {
			continue
		}
		files = append(files, traceFile{seq: seq, path: filepath.Join(traceDir, entry.Name())})
	}

	if len(files) == 0 {
		return LoadResult{}, fmt.Errorf("%w under %s", ErrRunNotFound, runPath)
	}

	sort.Slice(files, func(i, j int) bool { return files[i].seq < files[j].seq })

	var result LoadResult
	for _, file := range files {
		data, err := os.ReadFile(file.path)
		if err != nil {
			wrapped := fmt.Errorf("read %s: %w", filepath.Base(file.path), err)
			result.Failures = append(result.Failures, wrapped)
			result.Records = append(result.Records, model.TraceRecord{
				Seq:         file.seq,
				Method:      model.MethodUnknown,
				TimeMissing: true,
				ParseErr:    wrapped,
				Path:        file.path,
			})
			continue
		}

		rec, err := parser.ParseRecord(data, file.seq)
		rec.Path = file.path
		if err != nil {
			result.Failures = append(result.Failures, fmt.Errorf("parse %s: %w", filepath.Base(file.path), err))
		}
		result.Records = append(result.Records, rec)
	}

	return result, nil
}
