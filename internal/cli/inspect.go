package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/yaklabco/gosch/internal/logging"
	"github.com/yaklabco/gosch/internal/ui/pretty"
	"github.com/yaklabco/gosch/pkg/attrs"
	"github.com/yaklabco/gosch/pkg/cfb"
	"github.com/yaklabco/gosch/pkg/config"
	"github.com/yaklabco/gosch/pkg/diag"
	"github.com/yaklabco/gosch/pkg/document"
	"github.com/yaklabco/gosch/pkg/fsutil"
	"github.com/yaklabco/gosch/pkg/schdoc"
	"github.com/yaklabco/gosch/pkg/schematic"
)

const (
	formatText = "text"
	formatJSON = "json"
)

type listFlags struct {
	format string
}

func (f *listFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.format, "format", formatText, "output format: text, json")
}

func (f *listFlags) validate() error {
	if f.format != formatText && f.format != formatJSON {
		return fmt.Errorf("%w: invalid format %q: must be text or json", ErrUsage, f.format)
	}
	return nil
}

// streamInfo represents a container entry in JSON output.
type streamInfo struct {
	Path        string `json:"path"`
	Kind        string `json:"kind"`
	Size        uint64 `json:"size"`
	StartSector uint32 `json:"startSector"`
}

func newStreamsCommand() *cobra.Command {
	flags := &listFlags{}

	cmd := &cobra.Command{
		Use:   "streams <file>",
		Short: "List the storages and streams inside a document container",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := flags.validate(); err != nil {
				return err
			}

			data, _, err := fsutil.ReadFile(cmd.Context(), args[0], 0)
			if err != nil {
				return err
			}
			container, err := cfb.Open(data)
			if err != nil {
				return fmt.Errorf("%w: %w", ErrParseFailures, err)
			}

			var infos []streamInfo
			err = container.Walk(func(path []string, entry cfb.DirectoryEntry) error {
				infos = append(infos, streamInfo{
					Path:        strings.Join(path, "/"),
					Kind:        entry.Kind.String(),
					Size:        entry.Size,
					StartSector: entry.StartSector,
				})
				return nil
			})
			if err != nil {
				return fmt.Errorf("walk container: %w", err)
			}

			out := cmd.OutOrStdout()
			if flags.format == formatJSON {
				return writeJSON(out, infos)
			}

			styles := commandStyles(cmd, out)
			for _, info := range infos {
				size := ""
				if info.Kind == cfb.KindStream.String() {
					size = fmt.Sprintf("%d bytes", info.Size)
				}
				fmt.Fprintf(out, "%s  %s  %s\n",
					styles.FilePath.Render(fmt.Sprintf("%-32s", info.Path)),
					styles.Kind.Render(fmt.Sprintf("%-8s", info.Kind)),
					styles.Dim.Render(size),
				)
			}
			for _, w := range container.Warnings() {
				fmt.Fprint(cmd.ErrOrStderr(), styles.FormatWarning(args[0], w))
			}
			return nil
		},
	}

	flags.register(cmd)

	return cmd
}

// recordInfo represents a record in JSON output.
type recordInfo struct {
	Index  int               `json:"index"`
	Offset int64             `json:"offset"`
	TypeID int               `json:"typeId"`
	Kind   string            `json:"kind"`
	Length int               `json:"length"`
	Attrs  []attrs.Attribute `json:"attributes,omitempty"`
}

type recordsFlags struct {
	listFlags
	stream string
	attrs  bool
}

func newRecordsCommand() *cobra.Command {
	flags := &recordsFlags{}

	cmd := &cobra.Command{
		Use:   "records <file>",
		Short: "List the records of a document's record stream",
		Long: `List every record of a document's record stream with its index, byte
offset, record type and the object kind it decodes to. The header
pseudo-record is listed with index -1.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := flags.validate(); err != nil {
				return err
			}

			logger := logging.Default().With(logging.FieldPath, args[0])
			doc, err := schdoc.ParseFile(args[0], schdoc.Options{
				Stream: flags.stream,
				Logger: logger,
				Policy: document.PolicyGeneric,
			})
			if err != nil {
				return fmt.Errorf("%w: %w", ErrParseFailures, err)
			}

			infos := recordInfos(doc, flags.attrs)
			out := cmd.OutOrStdout()
			if flags.format == formatJSON {
				return writeJSON(out, infos)
			}

			styles := commandStyles(cmd, out)
			for _, info := range infos {
				fmt.Fprintf(out, "%s %s %s %s\n",
					fmt.Sprintf("%6d", info.Index),
					styles.Location.Render(fmt.Sprintf("@0x%06x", info.Offset)),
					styles.Kind.Render(fmt.Sprintf("%-24s", info.Kind)),
					styles.Dim.Render(fmt.Sprintf("type %d, %d bytes", info.TypeID, info.Length)),
				)
				if flags.attrs {
					for _, attr := range info.Attrs {
						fmt.Fprintf(out, "         %s=%s\n", styles.Attribute.Render(attr.Name), attr.Value)
					}
				}
			}
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&flags.stream, "stream", config.DefaultStream,
		"record stream inside the container; '/' separates storages")
	cmd.Flags().BoolVar(&flags.attrs, "attrs", false, "include each record's attributes")

	return cmd
}

func recordInfos(doc *schdoc.Document, withAttrs bool) []recordInfo {
	records := doc.Records()
	infos := make([]recordInfo, 0, len(records))
	for _, rec := range records {
		info := recordInfo{
			Index:  rec.Index,
			Offset: rec.Offset,
			TypeID: rec.TypeID,
			Length: len(rec.Payload),
			Kind:   "Header",
		}
		if !rec.IsHeader() {
			info.Kind = "-"
			if obj, ok := doc.Object(rec.Index); ok {
				info.Kind = obj.Kind.String()
			}
		}
		if withAttrs {
			info.Attrs = rec.Attributes()
		}
		infos = append(infos, info)
	}
	return infos
}

// kindInfo represents a registered record type in JSON output.
type kindInfo struct {
	ID   int    `json:"id"`
	Kind string `json:"kind"`
	Name string `json:"name"`
}

func newKindsCommand() *cobra.Command {
	flags := &listFlags{}

	cmd := &cobra.Command{
		Use:   "kinds",
		Short: "List the record types the decoder recognizes",
		Long: `List every registered record type id with the object kind it decodes to.
Records with other type ids become Unknown objects that keep their raw
attributes.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := flags.validate(); err != nil {
				return err
			}

			entries := schematic.DefaultRegistry().Entries()
			infos := make([]kindInfo, 0, len(entries))
			for _, entry := range entries {
				infos = append(infos, kindInfo{ID: entry.ID, Kind: entry.Kind.Slug(), Name: entry.Name})
			}

			if flags.format == formatJSON {
				return writeJSON(cmd.OutOrStdout(), infos)
			}

			logger := listLogger(cmd.OutOrStdout())
			logger.Info("registered record types", logging.FieldCount, len(infos))
			for _, info := range infos {
				logger.Info(info.Name, logging.FieldRecord, info.ID, logging.FieldKind, info.Kind)
			}
			return nil
		},
	}

	flags.register(cmd)

	return cmd
}

// codeInfo represents a warning code in JSON output.
type codeInfo struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

func newCodesCommand() *cobra.Command {
	flags := &listFlags{}

	cmd := &cobra.Command{
		Use:   "codes",
		Short: "List the warning codes the decoder can report",
		Long: `List every warning code with a short description. Codes can be dropped
from results with --suppress or the suppress_warnings setting.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := flags.validate(); err != nil {
				return err
			}

			codes := diag.KnownCodes()
			infos := make([]codeInfo, 0, len(codes))
			for _, code := range codes {
				infos = append(infos, codeInfo{Code: string(code), Description: diag.Describe(code)})
			}

			if flags.format == formatJSON {
				return writeJSON(cmd.OutOrStdout(), infos)
			}

			logger := listLogger(cmd.OutOrStdout())
			for _, info := range infos {
				logger.Info(info.Code, logging.FieldDescription, info.Description)
			}
			return nil
		},
	}

	flags.register(cmd)

	return cmd
}

// listLogger writes listing lines to w in the interactive log style.
func listLogger(w io.Writer) *log.Logger {
	logger := logging.NewWithWriter(w, "info")
	logger.SetPrefix("gosch")
	return logger
}

func commandStyles(cmd *cobra.Command, w io.Writer) *pretty.Styles {
	color, err := cmd.Flags().GetString("color")
	if err != nil {
		color = string(config.ColorAuto)
	}
	return pretty.NewStyles(pretty.IsColorEnabled(config.ColorMode(color), w))
}

// writeJSON outputs v as indented JSON.
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode JSON: %w", err)
	}
	return nil
}
