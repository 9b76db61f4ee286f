package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/agbru/nfloat/internal/bridge"
)

// FlagCompletion describes a CLI flag for shell completion generation.
// Every generator reads flagRegistry, so a new flag only needs an entry
// there.
type FlagCompletion struct {
	Long      string   // long flag name without dashes
	Short     string   // short flag name without the dash
	Help      string   // description text
	Values    []string // suggested values; nil for booleans and free values
	ValueName string   // label for the value in zsh
	IsFile    bool     // the flag takes a file path
}

// takesValue reports whether f consumes an argument.
func (f FlagCompletion) takesValue() bool {
	return f.IsFile || f.ValueName != ""
}

var limbChoices = []string{"4", "8", "12", "16", "24", "32"}

// flagRegistry is the list of all CLI flags for completion generation.
var flagRegistry = []FlagCompletion{
	{Long: "help", Short: "h", Help: "Show help message"},
	{Long: "version", Short: "V", Help: "Show version information"},
	{Long: "prec", Help: "Precision in bits", Values: []string{"64", "128", "256", "512", "1024", "4096"}, ValueName: "bits"},
	{Long: "ieee", Help: "Allow infinities, NaNs and flush to zero"},
	{Long: "digits", Help: "Significant digits to print", ValueName: "digits"},
	{Long: "format", Help: "Number format", Values: []string{"g", "e", "f"}, ValueName: "format"},
	{Long: "complex-karatsuba", Help: "Complex product Karatsuba threshold in limbs", Values: limbChoices, ValueName: "limbs"},
	{Long: "dot-karatsuba", Help: "Complex dot Karatsuba threshold in limbs", Values: limbChoices, ValueName: "limbs"},
	{Long: "backend", Help: "Division and square root backend", Values: bridge.Names(), ValueName: "backend"},
	{Long: "workers", Help: "Worker goroutines for matvec", ValueName: "count"},
	{Long: "timeout", Help: "Maximum run time", Values: []string{"10s", "1m", "5m"}, ValueName: "duration"},
	{Long: "repl", Help: "Start the interactive RPN calculator"},
	{Long: "calibrate", Help: "Measure Karatsuba crossovers"},
	{Long: "calibrate-force", Help: "Calibrate even on a busy machine"},
	{Long: "tui", Help: "Show calibration progress interactively"},
	{Long: "calibration-profile", Help: "Calibration profile file", IsFile: true, ValueName: "file"},
	{Long: "metrics", Help: "Print operation metrics after the run"},
	{Long: "metrics-addr", Help: "Serve metrics over HTTP", Values: []string{":9090"}, ValueName: "addr"},
	{Long: "quiet", Short: "q", Help: "Print only results"},
	{Long: "verbose", Short: "v", Help: "Print context details"},
	{Long: "no-color", Help: "Disable colored output"},
	{Long: "completion", Help: "Generate completion script", Values: []string{"bash", "zsh", "fish", "powershell"}, ValueName: "shell"},
}

// GenerateCompletion writes a completion script for shell. ops are offered
// as the first positional argument.
func GenerateCompletion(out io.Writer, shell string, ops []string) error {
	var script string
	switch shell {
	case "bash":
		script = bashCompletion(ops)
	case "zsh":
		script = zshCompletion(ops)
	case "fish":
		script = fishCompletion(ops)
	case "powershell", "ps":
		script = powerShellCompletion(ops)
	default:
		return fmt.Errorf("unsupported shell: %s (accepted values: bash, zsh, fish, powershell)", shell)
	}
	if _, err := io.WriteString(out, script); err != nil {
		return fmt.Errorf("completion %s generation failed: %w", shell, err)
	}
	return nil
}

func flagNames(f FlagCompletion) []string {
	var names []string
	if f.Long != "" {
		names = append(names, "--"+f.Long)
	}
	if f.Short != "" {
		names = append(names, "-"+f.Short)
	}
	return names
}

func bashCompletion(ops []string) string {
	var opts []string
	var cases strings.Builder
	for _, f := range flagRegistry {
		opts = append(opts, flagNames(f)...)
		var body string
		switch {
		case f.IsFile:
			body = `COMPREPLY=( $(compgen -f -- "${cur}") )`
		case len(f.Values) > 0:
			body = fmt.Sprintf(`COMPREPLY=( $(compgen -W "%s" -- "${cur}") )`, strings.Join(f.Values, " "))
		case f.takesValue():
			body = "COMPREPLY=()"
		default:
			continue
		}
		fmt.Fprintf(&cases, "        %s)\n            %s\n            return 0\n            ;;\n",
			strings.Join(flagNames(f), "|"), body)
	}

	return fmt.Sprintf(`# Bash completion script for nfcalc
# Add this to your ~/.bashrc or ~/.bash_completion

_nfcalc_completions() {
    local cur prev opts ops
    COMPREPLY=()
    cur="${COMP_WORDS[COMP_CWORD]}"
    prev="${COMP_WORDS[COMP_CWORD-1]}"

    opts="%s"
    ops="%s"

    case "${prev}" in
%s    esac

    if [[ "${cur}" == -* ]]; then
        COMPREPLY=( $(compgen -W "${opts}" -- "${cur}") )
    else
        COMPREPLY=( $(compgen -W "${ops}" -- "${cur}") )
    fi
    return 0
}

complete -F _nfcalc_completions nfcalc
`, strings.Join(opts, " "), strings.Join(ops, " "), cases.String())
}

func zshArgEntry(f FlagCompletion) string {
	valueSuffix := ""
	switch {
	case f.IsFile:
		valueSuffix = fmt.Sprintf(":%s:_files", f.ValueName)
	case len(f.Values) > 0:
		valueSuffix = fmt.Sprintf(":%s:(%s)", f.ValueName, strings.Join(f.Values, " "))
	case f.ValueName != "":
		valueSuffix = fmt.Sprintf(":%s:", f.ValueName)
	}
	if f.Short != "" {
		return fmt.Sprintf("        '(-%s --%s)'{-%s,--%s}'[%s]%s'",
			f.Short, f.Long, f.Short, f.Long, f.Help, valueSuffix)
	}
	return fmt.Sprintf("        '--%s[%s]%s'", f.Long, f.Help, valueSuffix)
}

func zshCompletion(ops []string) string {
	args := make([]string, 0, len(flagRegistry)+2)
	for _, f := range flagRegistry {
		args = append(args, zshArgEntry(f))
	}
	args = append(args, "        '1:operation:($ops)'", "        '*:operand:'")

	return fmt.Sprintf(`#compdef nfcalc

# Zsh completion script for nfcalc
# Place this file in a directory on $fpath

_nfcalc() {
    local -a ops
    ops=(%s)

    _arguments -s \
%s
}

_nfcalc "$@"
`, strings.Join(ops, " "), strings.Join(args, " \\\n"))
}

func fishCompletion(ops []string) string {
	lines := []string{
		"# Fish completion script for nfcalc",
		"# Add this to ~/.config/fish/completions/nfcalc.fish",
		"",
		"complete -c nfcalc -f",
		fmt.Sprintf("complete -c nfcalc -n '__fish_use_subcommand' -a '%s'", strings.Join(ops, " ")),
		"",
	}
	for _, f := range flagRegistry {
		parts := []string{"complete -c nfcalc"}
		if f.Short != "" {
			parts = append(parts, "-s "+f.Short)
		}
		parts = append(parts, "-l "+f.Long, fmt.Sprintf("-d '%s'", f.Help))
		switch {
		case f.IsFile:
			parts = append(parts, "-rF")
		case len(f.Values) > 0:
			parts = append(parts, fmt.Sprintf("-xa '%s'", strings.Join(f.Values, " ")))
		case f.takesValue():
			parts = append(parts, "-x")
		}
		lines = append(lines, strings.Join(parts, " "))
	}
	return strings.Join(lines, "\n") + "\n"
}

func psQuoted(vals []string) string {
	quoted := make([]string, len(vals))
	for i, v := range vals {
		quoted[i] = "'" + v + "'"
	}
	return strings.Join(quoted, ", ")
}

func powerShellCompletion(ops []string) string {
	var options, switches []string
	for _, f := range flagRegistry {
		for _, name := range flagNames(f) {
			options = append(options, fmt.Sprintf("        @{Name = '%s'; Description = '%s' }", name, f.Help))
		}
		if len(f.Values) == 0 {
			continue
		}
		switches = append(switches, fmt.Sprintf(`        '--%s' {
            @(%s) | Where-Object { $_ -like "$wordToComplete*" } | ForEach-Object {
                [System.Management.Automation.CompletionResult]::new($_, $_, 'ParameterValue', $_)
            }
            return
        }`, f.Long, psQuoted(f.Values)))
	}

	return fmt.Sprintf(`# PowerShell completion script for nfcalc
# Add this to your $PROFILE

$nfcalcOperations = @(%s)

Register-ArgumentCompleter -CommandName 'nfcalc' -Native -ScriptBlock {
    param($wordToComplete, $commandAst, $cursorPosition)

    $options = @(
%s
    )

    $elements = $commandAst.CommandElements
    $prevElement = if ($elements.Count -gt 1) { $elements[-1].ToString() } else { '' }
    if ($wordToComplete -ne '' -and $elements.Count -gt 2) { $prevElement = $elements[-2].ToString() }

    switch ($prevElement) {
%s
    }

    if ($wordToComplete -like '-*') {
        $options | Where-Object { $_.Name -like "$wordToComplete*" } | ForEach-Object {
            [System.Management.Automation.CompletionResult]::new($_.Name, $_.Name, 'ParameterName', $_.Description)
        }
        return
    }
    $nfcalcOperations | Where-Object { $_ -like "$wordToComplete*" } | ForEach-Object {
        [System.Management.Automation.CompletionResult]::new($_, $_, 'ParameterValue', $_)
    }
}
`, psQuoted(ops), strings.Join(options, "\n"), strings.Join(switches, "\n"))
}
