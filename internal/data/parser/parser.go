package parser

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/bytedance/sonic"
	"github.com/penwyp/go-winscope/internal/core/model"
	"github.com/penwyp/go-winscope/internal/util"
	"golang.org/x/sync/errgroup"
)

// Blob is one raw trace recording
type Blob struct {
	Name string
	Data []byte
}

// ReadBlob loads a trace file from disk
func ReadBlob(path string) (Blob, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Blob{}, err
	}
	return Blob{Name: filepath.Base(path), Data: data}, nil
}

// header is the first line of a trace file
type header struct {
	TraceType string `json:"traceType"`
	Lookup    string `json:"lookup"`
}

// entryClock carries the clock fields every entry line may have
type entryClock struct {
	ElapsedNanos *int64 `json:"elapsedNanos"`
	RealNanos    *int64 `json:"realNanos"`
}

// Parser turns trace blobs into indexed trace files
type Parser struct {
	concurrency int
}

// NewParser creates a Parser parsing at most concurrency blobs at once
func NewParser(concurrency int) *Parser {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Parser{concurrency: concurrency}
}

// ParseBlobs parses every blob concurrently. It fails as a whole if any
// blob fails; partial trace sets are never returned.
func (p *Parser) ParseBlobs(ctx context.Context, blobs []Blob) ([]*TraceFile, error) {
	start := time.Now()
	files := make([]*TraceFile, len(blobs))

	util.LogDebugf("Start concurrent parsing of %d traces, concurrency: %d", len(blobs), p.concurrency)

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(p.concurrency)

	for i, blob := range blobs {
		i, blob := i, blob
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			blobStart := time.Now()
			file, err := p.ParseBlob(blob)
			if err != nil {
				return fmt.Errorf("indexing %s: %w", blob.Name, err)
			}
			util.LogDebugf("Indexed %s (%s, %d entries) in %v", blob.Name, file.TraceType(), file.Len(), time.Since(blobStart))
			files[i] = file
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	util.LogDebugf("Concurrent parsing finished, total duration: %v", time.Since(start))
	return files, nil
}

// ParseBlob parses one blob: a header line followed by one JSON entry per
// line. Lines that are not valid JSON are skipped.
func (p *Parser) ParseBlob(blob Blob) (*TraceFile, error) {
	scanner := bufio.NewScanner(bytes.NewReader(blob.Data))
	scanner.Buffer(make([]byte, 0, 64*1024), 32*1024*1024)

	var (
		file      *TraceFile
		lineCount int
	)

	for scanner.Scan() {
		lineCount++
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		if file == nil {
			h, err := parseHeader(line)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineCount, err)
			}
			file = h
			file.name = blob.Name
			continue
		}

		var clock entryClock
		if err := sonic.Unmarshal(line, &clock); err != nil {
			util.LogDebugf("Skip invalid JSON line %s:%d - %v", blob.Name, lineCount, err)
			continue
		}
		if clock.ElapsedNanos == nil {
			return nil, fmt.Errorf("line %d: entry has no elapsedNanos", lineCount)
		}

		payload, err := decodePayload(file.traceType, line)
		if err != nil {
			util.LogDebugf("Skip undecodable entry %s:%d - %v", blob.Name, lineCount, err)
			continue
		}

		file.entries = append(file.entries, entryRecord{
			elapsedNs: *clock.ElapsedNanos,
			realNs:    clock.RealNanos,
			payload:   payload,
		})
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanning %s: %w", blob.Name, err)
	}
	if file == nil {
		return nil, fmt.Errorf("%s: missing trace header", blob.Name)
	}

	file.buildIndex()
	return file, nil
}

func parseHeader(line []byte) (*TraceFile, error) {
	var h header
	if err := sonic.Unmarshal(line, &h); err != nil {
		return nil, fmt.Errorf("invalid trace header: %w", err)
	}
	if h.TraceType == "" {
		return nil, fmt.Errorf("trace header has no traceType")
	}

	traceType, err := model.ParseTraceType(h.TraceType)
	if err != nil {
		return nil, err
	}

	lookup, err := ParseLookupPolicy(h.Lookup)
	if err != nil {
		return nil, err
	}

	return &TraceFile{traceType: traceType, lookup: lookup}, nil
}
