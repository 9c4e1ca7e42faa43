package cli

import (
	"fmt"
	"io"
	"strings"
	"text/template"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/yaklabco/gosch/internal/ui/pretty"
	"github.com/yaklabco/gosch/pkg/config"
)

// HelpStyles contains Lipgloss styles for command help formatting.
type HelpStyles struct {
	Command     lipgloss.Style
	Heading     lipgloss.Style
	Subcommand  lipgloss.Style
	Flag        lipgloss.Style
	Description lipgloss.Style
	Example     lipgloss.Style
	Alias       lipgloss.Style
	Dim         lipgloss.Style
}

// NewHelpStyles creates help styles based on color mode.
func NewHelpStyles(colorEnabled bool) *HelpStyles {
	if !colorEnabled {
		plain := lipgloss.NewStyle()
		return &HelpStyles{
			Command: plain, Heading: plain, Subcommand: plain, Flag: plain,
			Description: plain, Example: plain, Alias: plain, Dim: plain,
		}
	}
	return &HelpStyles{
		Command:     lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Bold(true),
		Heading:     lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true),
		Subcommand:  lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		Flag:        lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
		Description: lipgloss.NewStyle(),
		Example:     lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		Alias:       lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		Dim:         lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
	}
}

// exitCodeHelp lists the process exit codes on the root command's help.
//
//nolint:gochecknoglobals // Read-only table.
var exitCodeHelp = []struct {
	code int
	text string
}{
	{ExitSuccess, "all files parsed"},
	{ExitParseErrors, "one or more files failed to parse"},
	{ExitWarnings, "warnings were reported with --strict"},
	{ExitInvalidUsage, "invalid flags or arguments"},
	{ExitConfigError, "configuration could not be loaded"},
	{ExitInternalError, "internal error"},
	{ExitIOError, "file could not be read or written"},
}

// HelpFormatter provides styled help output for Cobra commands.
type HelpFormatter struct {
	styles *HelpStyles
}

// NewHelpFormatter creates a new help formatter with the given color mode.
func NewHelpFormatter(colorMode config.ColorMode, writer io.Writer) *HelpFormatter {
	return &HelpFormatter{styles: NewHelpStyles(pretty.IsColorEnabled(colorMode, writer))}
}

func (h *HelpFormatter) templateFuncs() template.FuncMap {
	return template.FuncMap{
		"styleCommand":     h.styles.Command.Render,
		"styleHeading":     h.styles.Heading.Render,
		"styleSubcommand":  h.styles.Subcommand.Render,
		"styleDescription": h.styles.Description.Render,
		"styleExample":     h.styles.Example.Render,
		"styleAlias":       h.styles.Alias.Render,
		"styleDim":         h.styles.Dim.Render,
		"styleLong":        h.styleLong,
		"styleFlagsUsage":  h.styleFlagsUsage,
		"exitCodes":        h.exitCodes,
		"rpad":             rpad,
		"join":             strings.Join,
	}
}

const usageTemplate = `{{ styleHeading "Usage:" }}
  {{if .Runnable}}{{ styleCommand .UseLine }}{{end}}
  {{if .HasAvailableSubCommands}}{{ styleCommand .CommandPath }} [command]{{end}}

{{- if gt (len .Aliases) 0}}

{{ styleHeading "Aliases:" }}
  {{ styleAlias (join .Aliases ", ") }}
{{- end}}

{{- if .HasExample}}

{{ styleHeading "Examples:" }}
{{ styleExample .Example }}
{{- end}}

{{- if .HasAvailableSubCommands}}

{{ styleHeading "Available Commands:" }}{{range .Commands}}{{if (or .IsAvailableCommand (eq .Name "help"))}}
  {{ styleSubcommand (rpad .Name .NamePadding) }} {{ styleDescription .Short }}{{end}}{{end}}
{{- end}}

{{- if .HasAvailableLocalFlags}}

{{ styleHeading "Flags:" }}
{{ styleFlagsUsage .LocalFlags }}
{{- end}}

{{- if .HasAvailableInheritedFlags}}

{{ styleHeading "Global Flags:" }}
{{ styleFlagsUsage .InheritedFlags }}
{{- end}}

{{- if not .HasParent}}

{{ styleHeading "Exit Codes:" }}
{{ exitCodes }}
{{- end}}

{{- if .HasAvailableSubCommands}}

Use "{{ styleCommand (print .CommandPath " [command] --help") }}" for more information about a command.
{{- end}}
`

const helpTemplate = `{{if or .Runnable .HasSubCommands}}{{ styleCommand .CommandPath }}{{if .Version}} {{ styleDim .Version }}{{end}}

{{end}}{{with (or .Long .Short)}}{{ styleLong . }}

{{end}}` + usageTemplate

// styleLong trims trailing whitespace and highlights example lines, those
// starting with "gosch", splitting off a trailing "# comment".
func (h *HelpFormatter) styleLong(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		line = strings.TrimRight(line, " \t")
		trimmed := strings.TrimLeft(line, " ")
		if !strings.HasPrefix(trimmed, "gosch ") && trimmed != "gosch" {
			lines[i] = line
			continue
		}

		indent := line[:len(line)-len(trimmed)]
		command, comment, hasComment := strings.Cut(trimmed, "#")
		styled := indent + h.styles.Command.Render(strings.TrimRight(command, " "))
		if hasComment {
			pad := command[len(strings.TrimRight(command, " ")):]
			styled += pad + h.styles.Dim.Render("#"+comment)
		}
		lines[i] = styled
	}
	return strings.Join(lines, "\n")
}

func (h *HelpFormatter) exitCodes() string {
	rows := make([]string, 0, len(exitCodeHelp))
	for _, row := range exitCodeHelp {
		rows = append(rows, fmt.Sprintf("  %s %s", h.styles.Flag.Render(fmt.Sprintf("%-3d", row.code)), row.text))
	}
	return strings.Join(rows, "\n")
}

// styleFlagsUsage formats pflag usage text line by line.
func (h *HelpFormatter) styleFlagsUsage(flags any) string {
	flagUsages, ok := flags.(interface{ FlagUsages() string })
	if !ok {
		return ""
	}

	usages := strings.TrimSuffix(flagUsages.FlagUsages(), "\n")
	if usages == "" {
		return ""
	}

	lines := strings.Split(usages, "\n")
	for i, line := range lines {
		lines[i] = h.styleFlagLine(line)
	}
	return strings.Join(lines, "\n")
}

// styleFlagLine styles "  -f, --flag type   description".
func (h *HelpFormatter) styleFlagLine(line string) string {
	trimmed := strings.TrimLeft(line, " ")
	if trimmed == "" {
		return line
	}

	flagPart, descPart, ok := splitFlagLine(trimmed)
	if !ok {
		return line
	}

	prefix := line[:len(line)-len(trimmed)]
	return prefix + h.styleFlagPart(flagPart) + "   " + h.styles.Description.Render(descPart)
}

// splitFlagLine splits at the first run of two or more spaces.
func splitFlagLine(line string) (string, string, bool) {
	idx := strings.Index(line, "  ")
	if idx < 0 {
		return line, "", false
	}
	desc := strings.TrimLeft(line[idx:], " ")
	if desc == "" {
		return line, "", false
	}
	return line[:idx], desc, true
}

// styleFlagPart colors flag names and dims type placeholders.
func (h *HelpFormatter) styleFlagPart(flagPart string) string {
	tokens := strings.Fields(flagPart)
	for i, token := range tokens {
		if !strings.HasPrefix(token, "-") {
			tokens[i] = h.styles.Dim.Render(token)
			continue
		}
		clean, hasComma := strings.CutSuffix(token, ",")
		tokens[i] = h.styles.Flag.Render(clean)
		if hasComma {
			tokens[i] += ","
		}
	}
	return strings.Join(tokens, " ")
}

// ApplyToCommand applies styled help templates to a Cobra command and all subcommands.
func (h *HelpFormatter) ApplyToCommand(cmd *cobra.Command) {
	funcs := h.templateFuncs()

	cmd.SetUsageFunc(func(command *cobra.Command) error {
		tmpl, err := template.New("usage").Funcs(funcs).Parse(usageTemplate)
		if err != nil {
			return fmt.Errorf("parse usage template: %w", err)
		}
		return tmpl.Execute(command.OutOrStderr(), command)
	})

	cmd.SetHelpFunc(func(command *cobra.Command, _ []string) {
		tmpl, err := template.New("help").Funcs(funcs).Parse(helpTemplate)
		if err != nil {
			command.PrintErrln(err)
			return
		}
		if err := tmpl.Execute(command.OutOrStdout(), command); err != nil {
			command.PrintErrln(err)
		}
	})
}

// rpad adds padding to the right of a string.
func rpad(str string, padding int) string {
	if len(str) >= padding {
		return str
	}
	return str + strings.Repeat(" ", padding-len(str))
}
