// Package logging provides a structured logging wrapper around charmbracelet/log.
package logging

// Field name constants for structured logging.
const (
	// Common fields.
	FieldError      = "error"
	FieldPath       = "path"
	FieldPaths      = "paths"
	FieldFiles      = "files"
	FieldWorkingDir = "working_dir"
	FieldConfig     = "config"

	// Decoding fields.
	FieldStage   = "stage"
	FieldStream  = "stream"
	FieldBytes   = "bytes"
	FieldSectors = "sectors"
	FieldEntries = "entries"
	FieldRecords = "records"
	FieldObjects = "objects"
	FieldRecord  = "record"
	FieldOffset  = "offset"
	FieldCode    = "code"
	FieldPolicy  = "policy"
	FieldJobs    = "jobs"
	FieldFormat  = "format"

	// Listing fields.
	FieldDescription = "description"
	FieldKind        = "kind"
	FieldCount       = "count"

	// Statistics fields.
	FieldFilesDiscovered = "files_discovered"
	FieldFilesParsed     = "files_parsed"
	FieldFilesFailed     = "files_failed"
	FieldWarnings        = "warnings"

	// Version fields.
	FieldVersion = "version"
	FieldCommit  = "commit"
	FieldBuilt   = "built"
)
