// Package cmd provides CLI utilities for asset-optimizer
package cmd

import (
	"fmt"
	"strings"
)

// Commands available in asset-optimizer
var commands = []string{
	"audit",
	"recommend",
	"apply",
	"verify",
	"run",
	"presets",
	"preset",
	"history",
	"summary",
	"watch",
	"init",
	"version",
	"completion",
	"help",
}

// flagSpec is one completable flag.
type flagSpec struct {
	long  string
	short string
	desc  string
	// takesValue marks flags followed by an argument.
	takesValue bool
}

var outputFlags = []flagSpec{
	{long: "quiet", short: "q", desc: "Minimal output"},
	{long: "json", desc: "JSON output"},
	{long: "verbose", short: "v", desc: "Debug logging"},
	{long: "config", desc: "Run configuration file", takesValue: true},
}

var runFlags = append([]flagSpec{
	{long: "profile", desc: "Target preset", takesValue: true},
	{long: "category", desc: "Asset category", takesValue: true},
	{long: "include", desc: "Include path prefix", takesValue: true},
	{long: "exclude", desc: "Exclude path prefix", takesValue: true},
	{long: "selection", desc: "Selected assets only"},
	{long: "run-id", desc: "Run identifier", takesValue: true},
	{long: "output", desc: "History output directory", takesValue: true},
	{long: "manifest", desc: "Asset manifest CSV", takesValue: true},
	{long: "parallel", desc: "Categories processed concurrently", takesValue: true},
}, outputFlags...)

var applyFlags = append([]flagSpec{
	{long: "dry-run", desc: "Simulate changes"},
	{long: "no-dry-run", desc: "Modify assets"},
	{long: "max-changes", desc: "Change budget", takesValue: true},
	{long: "conservative", desc: "Skip high-risk changes"},
	{long: "no-conservative", desc: "Allow high-risk changes"},
	{long: "yes", short: "y", desc: "Skip confirmation"},
}, runFlags...)

var historyFlags = append([]flagSpec{
	{long: "limit", desc: "Entries to show", takesValue: true},
	{long: "run-id", desc: "Show one run", takesValue: true},
}, outputFlags...)

// commandFlags lists the flags each command accepts.
var commandFlags = map[string][]flagSpec{
	"audit":     runFlags,
	"recommend": runFlags,
	"apply":     applyFlags,
	"verify":    runFlags,
	"run":       applyFlags,
	"watch":     applyFlags,
	"presets":   outputFlags,
	"preset":    outputFlags,
	"history":   historyFlags,
	"summary":   outputFlags,
	"init":      {{long: "force", desc: "Overwrite existing file"}, {long: "config", desc: "File to write", takesValue: true}},
}

var shells = []string{"bash", "zsh", "fish", "powershell"}

func flagWords(flags []flagSpec) []string {
	words := make([]string, 0, len(flags)*2)
	for _, f := range flags {
		words = append(words, "--"+f.long)
		if f.short != "" {
			words = append(words, "-"+f.short)
		}
	}
	return words
}

// GenerateBashCompletion generates bash completion script
func GenerateBashCompletion() string {
	var cases strings.Builder
	for _, c := range commands {
		flags, ok := commandFlags[c]
		if !ok {
			continue
		}
		fmt.Fprintf(&cases, "        %s)\n            opts=\"%s\"\n            ;;\n", c, strings.Join(flagWords(flags), " "))
	}

	return fmt.Sprintf(`# bash completion for asset-optimizer
_asset_optimizer_completions() {
    local cur cmd opts
    COMPREPLY=()
    cur="${COMP_WORDS[COMP_CWORD]}"
    cmd="${COMP_WORDS[1]}"

    if [ "${COMP_CWORD}" -eq 1 ]; then
        COMPREPLY=( $(compgen -W "%s" -- ${cur}) )
        return 0
    fi

    case "${cmd}" in
%s        preset)
            opts="show export"
            ;;
        completion)
            opts="%s"
            ;;
        *)
            opts=""
            ;;
    esac

    COMPREPLY=( $(compgen -W "${opts}" -- ${cur}) )
    return 0
}

complete -F _asset_optimizer_completions asset-optimizer
`, strings.Join(commands, " "), cases.String(), strings.Join(shells, " "))
}

// GenerateZshCompletion generates zsh completion script
func GenerateZshCompletion() string {
	cmdList := make([]string, len(commands))
	for i, c := range commands {
		cmdList[i] = fmt.Sprintf("        '%s:%s'", c, getCommandDescription(c))
	}

	var cases strings.Builder
	for _, c := range commands {
		flags, ok := commandFlags[c]
		if !ok {
			continue
		}
		args := make([]string, 0, len(flags))
		for _, f := range flags {
			value := ""
			if f.takesValue {
				value = ":" + f.long + ":"
			}
			args = append(args, fmt.Sprintf("'--%s[%s]%s'", f.long, f.desc, value))
			if f.short != "" {
				args = append(args, fmt.Sprintf("'-%s[%s]'", f.short, f.desc))
			}
		}
		fmt.Fprintf(&cases, "                %s)\n                    _arguments \\\n                        %s\n                    ;;\n",
			c, strings.Join(args, " \\\n                        "))
	}

	return fmt.Sprintf(`#compdef asset-optimizer

_asset_optimizer() {
    local -a commands
    commands=(
%s
    )

    _arguments -C \
        '1: :->command' \
        '*::arg:->args'

    case $state in
        command)
            _describe 'command' commands
            ;;
        args)
            case $words[1] in
%s                completion)
                    _arguments '1:shell:(%s)'
                    ;;
            esac
            ;;
    esac
}

_asset_optimizer "$@"
`, strings.Join(cmdList, "\n"), cases.String(), strings.Join(shells, " "))
}

// GenerateFishCompletion generates fish completion script
func GenerateFishCompletion() string {
	var completions []string
	for _, c := range commands {
		completions = append(completions, fmt.Sprintf(
			"complete -c asset-optimizer -f -n '__fish_use_subcommand' -a '%s' -d '%s'", c, getCommandDescription(c)))
	}

	for _, c := range commands {
		flags, ok := commandFlags[c]
		if !ok {
			continue
		}
		completions = append(completions, fmt.Sprintf("# %s flags", c))
		for _, f := range flags {
			line := fmt.Sprintf("complete -c asset-optimizer -n '__fish_seen_subcommand_from %s' -l %s", c, f.long)
			if f.short != "" {
				line += " -s " + f.short
			}
			line += fmt.Sprintf(" -d '%s'", f.desc)
			if f.takesValue {
				line += " -r"
			}
			completions = append(completions, line)
		}
	}

	completions = append(completions, "# preset subcommands")
	completions = append(completions, "complete -c asset-optimizer -n '__fish_seen_subcommand_from preset' -f -a 'show export'")
	completions = append(completions, "# completion command shells")
	completions = append(completions, fmt.Sprintf("complete -c asset-optimizer -n '__fish_seen_subcommand_from completion' -f -a '%s'", strings.Join(shells, " ")))

	return strings.Join(completions, "\n")
}

// GeneratePowerShellCompletion generates PowerShell completion script
func GeneratePowerShellCompletion() string {
	quote := func(items []string) string {
		quoted := make([]string, len(items))
		for i, item := range items {
			quoted[i] = fmt.Sprintf("'%s'", item)
		}
		return strings.Join(quoted, ", ")
	}

	var cases strings.Builder
	for _, c := range commands {
		flags, ok := commandFlags[c]
		if !ok {
			continue
		}
		fmt.Fprintf(&cases, "            '%s' { $candidates = @(%s) }\n", c, quote(flagWords(flags)))
	}

	return fmt.Sprintf(`# PowerShell completion for asset-optimizer
Register-ArgumentCompleter -Native -CommandName asset-optimizer -ScriptBlock {
    param($wordToComplete, $commandAst, $cursorPosition)

    $commands = @(%s)

    $line = $commandAst.ToString()
    $tokens = $line.Split(' ')

    $candidates = @()
    if ($tokens.Count -eq 2) {
        $candidates = $commands
    }
    elseif ($tokens.Count -gt 2) {
        switch ($tokens[1]) {
%s            'preset' { $candidates = @('show', 'export') }
            'completion' { $candidates = @(%s) }
        }
    }

    $candidates | Where-Object { $_ -like "$wordToComplete*" } | ForEach-Object {
        [System.Management.Automation.CompletionResult]::new($_, $_, 'ParameterValue', $_)
    }
}
`, quote(commands), cases.String(), quote(shells))
}

// getCommandDescription returns a short description for a command
func getCommandDescription(cmd string) string {
	descriptions := map[string]string{
		"audit":      "Audit assets against a preset",
		"recommend":  "Turn audit findings into changes",
		"apply":      "Apply recommended changes",
		"verify":     "Verify applied changes",
		"run":        "Run all four phases",
		"presets":    "List optimization presets",
		"preset":     "Show or export a preset",
		"history":    "Show recorded runs",
		"summary":    "Load and validate a phase or workflow summary",
		"watch":      "Re-run on manifest changes",
		"init":       "Write a default configuration",
		"version":    "Show version information",
		"completion": "Generate shell completion script",
		"help":       "Show help information",
	}

	if desc, ok := descriptions[cmd]; ok {
		return desc
	}
	return ""
}
