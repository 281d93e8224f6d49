package logs

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"
)

// TailOptions controls which records Tail returns. A negative Offset reads
// the last Limit matching records; otherwise reading starts at Offset.
type TailOptions struct {
	Offset int64
	Limit  int
	Filter Filter
	Follow bool
	Wait   time.Duration
}

// TailResult carries the matching records and the offset to resume from.
type TailResult struct {
	Records []Record
	Offset  int64
}

// Tail reads records from the JSON log at path. A missing file yields no
// records. With Follow and a positive Wait it polls until a matching record
// arrives or Wait elapses. Lines that are not JSON are skipped.
func Tail(ctx context.Context, path string, opts TailOptions) (TailResult, error) {
	result := TailResult{Offset: opts.Offset}

	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			if opts.Follow && opts.Wait > 0 {
				return waitForRecords(ctx, path, 0, opts.Filter, opts.Wait)
			}
			result.Offset = 0
			return result, nil
		}
		return result, fmt.Errorf("stat log file: %w", err)
	}
	if info.IsDir() {
		return result, fmt.Errorf("log path %q is a directory", path)
	}
	if opts.Wait < 0 {
		opts.Wait = 0
	}

	if opts.Offset < 0 {
		records, offset, err := readLast(path, opts.Limit, opts.Filter)
		if err != nil {
			return result, err
		}
		result.Records = records
		result.Offset = offset
		if opts.Follow && opts.Wait > 0 && len(records) == 0 {
			return waitForRecords(ctx, path, offset, opts.Filter, opts.Wait)
		}
		return result, nil
	}

	offset := opts.Offset
	if offset > info.Size() {
		offset = info.Size()
	}
	records, newOffset, err := readForward(path, offset, opts.Filter)
	if err != nil {
		return result, err
	}
	result.Records = records
	result.Offset = newOffset
	if opts.Follow && opts.Wait > 0 && len(records) == 0 {
		return waitForRecords(ctx, path, newOffset, opts.Filter, opts.Wait)
	}
	return result, nil
}

// readLast keeps the last limit matching records in a ring. A limit <= 0
// returns every matching record.
func readLast(path string, limit int, filter Filter) ([]Record, int64, error) {
	if limit <= 0 {
		return readForward(path, 0, filter)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("open log file: %w", err)
	}
	defer file.Close()

	ring := make([]Record, limit)
	count, idx := 0, 0
	offset, err := scanRecords(file, filter, func(rec Record) {
		ring[idx] = rec
		idx = (idx + 1) % limit
		if count < limit {
			count++
		}
	})
	if err != nil {
		return nil, 0, err
	}

	records := make([]Record, count)
	if count == limit {
		for i := 0; i < count; i++ {
			records[i] = ring[(idx+i)%limit]
		}
	} else {
		copy(records, ring[:count])
	}
	return records, offset, nil
}

func readForward(path string, offset int64, filter Filter) ([]Record, int64, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, 0, nil
		}
		return nil, 0, fmt.Errorf("open log file: %w", err)
	}
	defer file.Close()

	if _, err := file.Seek(offset, io.SeekStart); err != nil {
		return nil, 0, fmt.Errorf("seek log file: %w", err)
	}
	var records []Record
	end, err := scanRecords(file, filter, func(rec Record) {
		records = append(records, rec)
	})
	if err != nil {
		return nil, 0, err
	}
	return records, end, nil
}

// scanRecords feeds every matching record to fn and returns the offset just
// past the last complete line. A trailing partial line is left for the next read.
func scanRecords(file *os.File, filter Filter, fn func(Record)) (int64, error) {
	start, err := file.Seek(0, io.SeekCurrent)
	if err != nil {
		return 0, fmt.Errorf("determine log offset: %w", err)
	}
	reader := bufio.NewReaderSize(file, 64*1024)
	offset := start
	for {
		line, err := reader.ReadString('\n')
		if errors.Is(err, io.EOF) {
			return offset, nil
		}
		if err != nil {
			return offset, fmt.Errorf("read log file: %w", err)
		}
		offset += int64(len(line))
		rec, perr := ParseRecord(line)
		if perr != nil || !filter.Match(rec) {
			continue
		}
		fn(rec)
	}
}

func waitForRecords(ctx context.Context, path string, offset int64, filter Filter, wait time.Duration) (TailResult, error) {
	deadline := time.Now().Add(wait)
	ticker := time.NewTicker(250 * time.Millisecond)
	defer ticker.Stop()

	result := TailResult{Offset: offset}
	for {
		records, newOffset, err := readForward(path, offset, filter)
		if err != nil {
			return result, err
		}
		offset = newOffset
		result.Offset = newOffset
		if len(records) > 0 {
			result.Records = records
			return result, nil
		}
		if time.Now().After(deadline) {
			return result, nil
		}

		select {
		case <-ctx.Done():
			return result, ctx.Err()
		case <-ticker.C:
		}
	}
}
