// Package schdoc parses schematic documents in one call: container, record
// stream and object graph.
package schdoc

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/yaklabco/gosch/internal/logging"
	"github.com/yaklabco/gosch/pkg/cfb"
	"github.com/yaklabco/gosch/pkg/diag"
	"github.com/yaklabco/gosch/pkg/document"
	"github.com/yaklabco/gosch/pkg/fsutil"
	"github.com/yaklabco/gosch/pkg/record"
	"github.com/yaklabco/gosch/pkg/schematic"
)

// DefaultStream is the container stream holding the record stream.
const DefaultStream = "FileHeader"

// ErrStreamNotFound is returned when the record stream is absent from the container.
var ErrStreamNotFound = errors.New("schdoc: record stream not found")

// Options configures Parse.
type Options struct {
	// Stream names the record stream; "/" separates storage names. Empty means DefaultStream.
	Stream string

	// Logger receives debug-level progress. Nil discards.
	Logger *log.Logger

	// Registry overrides the record type registry.
	Registry *schematic.Registry

	// Policy selects how objects with missing required attributes are handled.
	Policy document.Policy
}

// Document is a parsed schematic document.
type Document struct {
	*document.Graph

	container *cfb.Container
	stream    string
	warnings  []diag.Warning
}

// Container returns the underlying compound file.
func (d *Document) Container() *cfb.Container {
	return d.container
}

// Stream returns the name of the decoded record stream.
func (d *Document) Stream() string {
	return d.stream
}

// Warnings returns container, record and graph warnings in that order.
func (d *Document) Warnings() []diag.Warning {
	out := make([]diag.Warning, len(d.warnings))
	copy(out, d.warnings)
	return out
}

// Parse decodes a schematic document held in memory.
func Parse(data []byte, opts Options) (*Document, error) {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	stream := opts.Stream
	if stream == "" {
		stream = DefaultStream
	}

	container, err := cfb.Open(data)
	if err != nil {
		return nil, fmt.Errorf("open container: %w", err)
	}
	logger.Debug("container opened",
		logging.FieldBytes, len(data),
		logging.FieldSectors, container.SectorCount(),
		logging.FieldEntries, len(container.Entries()))

	payload, err := container.ReadPath(strings.Split(stream, "/")...)
	if errors.Is(err, cfb.ErrStreamNotFound) {
		return nil, fmt.Errorf("read stream %q: %w: %w", stream, ErrStreamNotFound, err)
	}
	if err != nil {
		return nil, fmt.Errorf("read stream %q: %w", stream, err)
	}
	logger.Debug("stream read", logging.FieldStream, stream, logging.FieldBytes, len(payload))

	var warn diag.List
	warn.Extend(container.Warnings())

	records, err := record.Decode(payload, &warn)
	if err != nil {
		return nil, fmt.Errorf("decode records: %w", err)
	}
	logger.Debug("records decoded", logging.FieldRecords, len(records))

	graph, err := document.Build(records, document.Options{
		Registry:           opts.Registry,
		OnMissingAttribute: opts.Policy,
	})
	if err != nil {
		return nil, fmt.Errorf("build objects: %w", err)
	}
	warn.Extend(graph.Warnings())
	logger.Debug("objects built",
		logging.FieldObjects, graph.Len(),
		logging.FieldPolicy, opts.Policy.String(),
		logging.FieldWarnings, warn.Len())

	return &Document{
		Graph:     graph,
		container: container,
		stream:    stream,
		warnings:  warn.All(),
	}, nil
}

// ParseFile reads and parses the document at path. Files larger than
// fsutil.MaxFileSize are rejected before reading.
func ParseFile(path string, opts Options) (*Document, error) {
	data, _, err := fsutil.ReadFile(context.Background(), path, 0)
	if err != nil {
		return nil, err
	}
	return Parse(data, opts)
}
