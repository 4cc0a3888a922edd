// Package output holds the result of an invocation and persists it where the
// setup asks for it.
package output

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"boca-cli/internal/access"
	"boca-cli/internal/components/assert"
	"boca-cli/internal/components/chrono"
	"boca-cli/internal/components/telemetry"
	"boca-cli/internal/setup"
)

const (
	report_sink_write_file = "sink.write-file"
	report_sink_archive    = "sink.archive"
)

// Record is the outcome of one invocation. Value is nil for methods that
// return nothing.
type Record struct {
	Method   access.Method
	Username string
	At       time.Time
	Value    any
}

type Sink struct {
	tel    telemetry.API
	clock  chrono.API
	record *Record
}

func NewSink(tel telemetry.API, clock chrono.API) *Sink {
	assert.NotNil(tel)
	assert.NotNil(clock)
	return &Sink{
		tel:   telemetry.NewScopedAPI("output", tel),
		clock: clock,
	}
}

// Set replaces the held result.
func (s *Sink) Set(method access.Method, username string, value any) {
	s.record = &Record{
		Method:   method,
		Username: username,
		At:       s.clock.Now(),
		Value:    value,
	}
}

// Result returns the held result, false before the first Set.
func (s *Sink) Result() (Record, bool) {
	if s.record == nil {
		return Record{}, false
	}
	return *s.record, true
}

// Persist writes the held result to the destinations cfg names, it does
// nothing when no result is held or no destination is set.
func (s *Sink) Persist(ctx context.Context, cfg setup.Config) error {
	record, ok := s.Result()
	if !ok {
		return nil
	}

	if cfg.ResultFilePath != "" {
		err := WriteFile(cfg.ResultFilePath, record.Value)
		if err != nil {
			s.tel.ReportBroken(report_sink_write_file, err, cfg.ResultFilePath)
			return err
		}
		s.tel.ReportInfo("result written", "path", cfg.ResultFilePath)
	}

	if cfg.ResultDbPath != "" {
		archive, err := OpenArchive(ctx, cfg.ResultDbPath)
		if err != nil {
			s.tel.ReportBroken(report_sink_archive, err, cfg.ResultDbPath)
			return err
		}
		defer archive.Close()
		err = archive.Append(ctx, record)
		if err != nil {
			s.tel.ReportBroken(report_sink_archive, err, cfg.ResultDbPath)
			return err
		}
		s.tel.ReportDebug("result archived", "path", cfg.ResultDbPath)
	}
	return nil
}

// WriteFile writes value as indented JSON, creating the parent directories.
func WriteFile(path string, value any) error {
	encoded, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	err = os.MkdirAll(filepath.Dir(path), 0777)
	if err != nil {
		return fmt.Errorf("write result: %w", err)
	}
	err = os.WriteFile(path, append(encoded, '\n'), 0644)
	if err != nil {
		return fmt.Errorf("write result: %w", err)
	}
	return nil
}
