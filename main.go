// Package main implements the asset-optimizer CLI: a four-phase audit, recommend,
// apply and verify pipeline over an asset manifest.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/mattn/go-isatty"

	"github.com/EmundoT/asset-optimizer/cmd"
	"github.com/EmundoT/asset-optimizer/internal/core"
	"github.com/EmundoT/asset-optimizer/internal/tui"
	"github.com/EmundoT/asset-optimizer/internal/types"
	"github.com/EmundoT/asset-optimizer/internal/version"
)

// cliOptions are the flags shared by every command.
type cliOptions struct {
	flags      core.NonInteractiveFlags
	configPath string
	force      bool
	limit      int
	overrides  core.ConfigOverrides
}

// parseCommonFlags extracts the shared flags and the run overrides from args.
// Returns the options and the positional arguments.
func parseCommonFlags(args []string) (cliOptions, []string, error) {
	opts := cliOptions{configPath: core.DefaultConfigFile, limit: 20}
	var positional []string

	value := func(i *int, name string) (string, error) {
		if *i+1 >= len(args) {
			return "", fmt.Errorf("%s requires a value", name)
		}
		*i++
		return args[*i], nil
	}
	boolPtr := func(b bool) *bool { return &b }
	o := &opts.overrides

	for i := 0; i < len(args); i++ {
		arg := args[i]
		var v string
		var err error
		switch arg {
		case "--yes", "-y":
			opts.flags.Yes = true
		case "--quiet", "-q":
			opts.flags.Mode = core.OutputQuiet
		case "--json":
			opts.flags.Mode = core.OutputJSON
		case "--verbose", "-v":
			opts.flags.Verbose = true
		case "--force":
			opts.force = true
		case "--config":
			opts.configPath, err = value(&i, arg)
		case "--profile":
			if v, err = value(&i, arg); err == nil {
				o.Profile = &v
			}
		case "--dry-run":
			o.DryRun = boolPtr(true)
		case "--no-dry-run":
			o.DryRun = boolPtr(false)
		case "--conservative":
			o.Conservative = boolPtr(true)
		case "--no-conservative":
			o.Conservative = boolPtr(false)
		case "--selection":
			o.UseSelection = boolPtr(true)
		case "--max-changes", "--parallel", "--limit":
			if v, err = value(&i, arg); err != nil {
				break
			}
			n, convErr := strconv.Atoi(v)
			if convErr != nil {
				err = fmt.Errorf("%s: %q is not a number", arg, v)
				break
			}
			switch arg {
			case "--max-changes":
				o.MaxChanges = &n
			case "--parallel":
				o.Parallel = &n
			default:
				opts.limit = n
			}
		case "--category":
			if v, err = value(&i, arg); err == nil {
				o.Categories = append(o.Categories, v)
			}
		case "--include":
			if v, err = value(&i, arg); err == nil {
				o.IncludePaths = append(o.IncludePaths, v)
			}
		case "--exclude":
			if v, err = value(&i, arg); err == nil {
				o.ExcludePaths = append(o.ExcludePaths, v)
			}
		case "--run-id":
			if v, err = value(&i, arg); err == nil {
				o.RunID = &v
			}
		case "--output":
			if v, err = value(&i, arg); err == nil {
				o.OutputDir = &v
			}
		case "--manifest":
			if v, err = value(&i, arg); err == nil {
				o.Manifest = &v
			}
		default:
			if strings.HasPrefix(arg, "-") {
				err = fmt.Errorf("unknown flag %s", arg)
			} else {
				positional = append(positional, arg)
			}
		}
		if err != nil {
			return opts, nil, err
		}
	}
	return opts, positional, nil
}

func isTerminal() bool {
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// newCallback picks the interactive UI on a terminal in normal mode and the
// plain callback everywhere else.
func newCallback(flags core.NonInteractiveFlags) (core.UICallback, bool) {
	if flags.Mode == core.OutputNormal && isTerminal() {
		return tui.NewTUICallback(flags.Yes), true
	}
	return tui.NewNonInteractiveTUICallback(flags), false
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) == 0 {
		tui.PrintHelp()
		return core.ExitSuccess
	}
	command := args[0]

	switch command {
	case "--help", "-h", "help":
		tui.PrintHelp()
		return core.ExitSuccess
	case "--version", "version":
		fmt.Printf("asset-optimizer %s\n", version.GetFullVersion())
		return core.ExitSuccess
	case "completion":
		return runCompletion(args[1:])
	}

	opts, positional, err := parseCommonFlags(args[1:])
	if err != nil {
		tui.PrintError("Invalid Arguments", err.Error())
		return core.ExitInvalidArguments
	}

	ui, interactive := newCallback(opts.flags)
	logger := core.NewLogger(os.Stderr, core.LogLevel(opts.flags, interactive), opts.flags.Mode == core.OutputJSON)
	slog.SetDefault(logger)

	switch command {
	case "init":
		path := opts.configPath
		if len(positional) > 0 {
			path = positional[0]
		}
		if err := core.WriteDefaultConfig(path, opts.force); err != nil {
			ui.ShowError("Initialization Failed", err.Error())
			return core.ExitGeneralError
		}
		ui.ShowSuccess("Wrote " + path)
		return core.ExitSuccess

	case "audit", "recommend", "apply", "verify":
		phase, _ := types.ParsePhase(command)
		return runPhaseCommand(opts, ui, logger, phase)

	case "run":
		return runWorkflowCommand(opts, ui, logger)

	case "watch":
		return runWatchCommand(opts, ui, logger)

	case "presets", "preset":
		return runPresetCommand(command, positional, opts, ui, logger)

	case "history":
		return runHistoryCommand(opts, ui)

	case "summary":
		return runSummaryCommand(positional, opts, ui, logger)

	default:
		tui.PrintError("Unknown Command", fmt.Sprintf("Unknown command: %s", command))
		tui.PrintHelp()
		return core.ExitInvalidArguments
	}
}

func loadConfig(opts cliOptions, ui core.UICallback) (types.RunConfig, int) {
	cfg, err := core.LoadRunConfig(opts.configPath, opts.overrides, time.Now())
	if err != nil {
		ui.ShowError("Configuration Error", err.Error())
		return cfg, core.CLIExitCodeForError(err)
	}
	return cfg, core.ExitSuccess
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func runPhaseCommand(opts cliOptions, ui core.UICallback, logger *slog.Logger, phase types.Phase) int {
	cfg, code := loadConfig(opts, ui)
	if code != core.ExitSuccess {
		return code
	}
	p, err := core.OpenPipeline(cfg, ui, logger)
	if err != nil {
		ui.ShowError("Setup Failed", err.Error())
		return core.CLIExitCodeForError(err)
	}
	defer func() { _ = p.Close() }()

	ctx, cancel := signalContext()
	defer cancel()

	sum, err := p.RunPhase(ctx, phase)
	if err != nil {
		ui.ShowError(fmt.Sprintf("%s Failed", strings.ToUpper(string(phase[:1]))+string(phase[1:])), err.Error())
		return core.CLIExitCodeForError(err)
	}
	if !sum.Summary.Success {
		return core.ExitPhaseFailed
	}
	return core.ExitSuccess
}

func runWorkflowCommand(opts cliOptions, ui core.UICallback, logger *slog.Logger) int {
	cfg, code := loadConfig(opts, ui)
	if code != core.ExitSuccess {
		return code
	}
	p, err := core.OpenPipeline(cfg, ui, logger)
	if err != nil {
		ui.ShowError("Setup Failed", err.Error())
		return core.CLIExitCodeForError(err)
	}
	defer func() { _ = p.Close() }()

	ctx, cancel := signalContext()
	defer cancel()

	wf, err := p.RunWorkflow(ctx)
	if err != nil {
		ui.ShowError("Workflow Failed", err.Error())
		return core.CLIExitCodeForError(err)
	}
	msg := fmt.Sprintf("Workflow %s complete: %d scanned, %d changed, %d errors (%s)",
		wf.RunID, wf.Summary.TotalScanned, wf.Summary.TotalChanged, wf.Summary.TotalErrors, core.RunDir(cfg))
	if !wf.Summary.Success {
		ui.ShowWarning("Workflow Completed With Errors", msg)
		return core.ExitPhaseFailed
	}
	ui.ShowSuccess(msg)
	return core.ExitSuccess
}

func runWatchCommand(opts cliOptions, ui core.UICallback, logger *slog.Logger) int {
	cfg, code := loadConfig(opts, ui)
	if code != core.ExitSuccess {
		return code
	}
	if !cfg.DryRun && !ui.IsAutoApprove() {
		ui.ShowError("Confirmation Required", "watch with --no-dry-run needs --yes")
		return core.ExitInvalidArguments
	}

	ctx, cancel := signalContext()
	defer cancel()

	watcher := core.NewWatchService([]string{cfg.ManifestPath, cfg.PresetOverrides}, ui, logger)
	ui.ShowSuccess(fmt.Sprintf("Watching %s for changes (Ctrl+C to stop)", cfg.ManifestPath))
	err := watcher.Watch(ctx, func(ctx context.Context) error {
		runCfg := cfg
		runCfg.RunID = core.NewRunID(time.Now())
		p, err := core.OpenPipeline(runCfg, ui, logger)
		if err != nil {
			return err
		}
		defer func() { _ = p.Close() }()
		_, err = p.RunWorkflow(ctx)
		return err
	})
	if err != nil {
		ui.ShowError("Watch Failed", err.Error())
		return core.ExitGeneralError
	}
	return core.ExitSuccess
}

func runPresetCommand(command string, positional []string, opts cliOptions, ui core.UICallback, logger *slog.Logger) int {
	cfg, code := loadConfig(opts, ui)
	if code != core.ExitSuccess {
		return code
	}
	resolver, err := core.LoadPresetResolver(cfg.PresetOverrides, logger)
	if err != nil {
		ui.ShowError("Preset Error", err.Error())
		return core.CLIExitCodeForError(err)
	}
	jsonMode := opts.flags.Mode == core.OutputJSON

	if command == "presets" {
		presets := resolver.ListPresets()
		if jsonMode {
			core.EmitCLISuccess(os.Stdout, presets)
		} else {
			fmt.Print(tui.RenderPresetList(presets, core.DefaultPresetName))
		}
		return core.ExitSuccess
	}

	if len(positional) < 2 {
		ui.ShowError("Usage", "asset-optimizer preset show <name>\nasset-optimizer preset export <name> <file>")
		return core.ExitInvalidArguments
	}
	sub, name := positional[0], positional[1]
	preset, ok := resolver.Lookup(name)
	if !ok {
		msg := fmt.Sprintf(core.ErrPresetNotFoundMsg, name)
		if jsonMode {
			return core.EmitCLIError(os.Stdout, core.ErrCodePresetNotFound, msg, core.ExitInvalidArguments)
		}
		ui.ShowError("Unknown Preset", msg)
		return core.ExitInvalidArguments
	}

	switch sub {
	case "show":
		if jsonMode {
			core.EmitCLISuccess(os.Stdout, preset)
			return core.ExitSuccess
		}
		text, err := resolver.Describe(name)
		if err != nil {
			ui.ShowError("Preset Error", err.Error())
			return core.ExitGeneralError
		}
		fmt.Println(text)
	case "export":
		if len(positional) < 3 {
			ui.ShowError("Usage", "asset-optimizer preset export <name> <file>")
			return core.ExitInvalidArguments
		}
		if err := resolver.ExportPreset(name, positional[2]); err != nil {
			ui.ShowError("Export Failed", err.Error())
			return core.ExitGeneralError
		}
		ui.ShowSuccess(fmt.Sprintf("Exported %s to %s", preset.Name, positional[2]))
	default:
		ui.ShowError("Usage", fmt.Sprintf("unknown preset subcommand %q (show, export)", sub))
		return core.ExitInvalidArguments
	}
	return core.ExitSuccess
}

func runHistoryCommand(opts cliOptions, ui core.UICallback) int {
	cfg, code := loadConfig(opts, ui)
	if code != core.ExitSuccess {
		return code
	}
	if _, err := os.Stat(cfg.HistoryDB); errors.Is(err, os.ErrNotExist) {
		ui.ShowWarning("No History", fmt.Sprintf("%s does not exist yet", cfg.HistoryDB))
		return core.ExitSuccess
	}
	store, err := core.OpenHistoryStore(cfg.HistoryDB)
	if err != nil {
		ui.ShowError("History Error", err.Error())
		return core.ExitGeneralError
	}
	defer func() { _ = store.Close() }()

	var entries []types.HistoryEntry
	if opts.overrides.RunID != nil {
		entries, err = store.ForRun(context.Background(), cfg.RunID)
	} else {
		entries, err = store.Recent(context.Background(), opts.limit)
	}
	if err != nil {
		ui.ShowError("History Error", err.Error())
		return core.ExitGeneralError
	}
	if opts.flags.Mode == core.OutputJSON {
		if entries == nil {
			entries = []types.HistoryEntry{}
		}
		core.EmitCLISuccess(os.Stdout, entries)
		return core.ExitSuccess
	}
	fmt.Print(tui.RenderHistory(entries, time.Now()))
	return core.ExitSuccess
}

func runSummaryCommand(positional []string, opts cliOptions, ui core.UICallback, logger *slog.Logger) int {
	if len(positional) < 2 {
		ui.ShowError("Usage", "asset-optimizer summary <run-dir> <phase|workflow>")
		return core.ExitInvalidArguments
	}
	if strings.EqualFold(strings.TrimSpace(positional[1]), "workflow") {
		return runWorkflowSummaryCommand(positional[0], opts, ui, logger)
	}
	phase, ok := types.ParsePhase(positional[1])
	if !ok {
		ui.ShowError("Usage", fmt.Sprintf("unknown phase %q (audit, recommend, apply, verify)", positional[1]))
		return core.ExitInvalidArguments
	}
	store, err := core.NewSummaryStore(logger)
	if err != nil {
		ui.ShowError("Summary Error", err.Error())
		return core.ExitGeneralError
	}
	sum, digest, err := store.LoadPhase(filepath.Join(positional[0], core.PhaseSummaryFileName(phase)))
	if err != nil {
		if opts.flags.Mode == core.OutputJSON {
			return core.EmitCLIError(os.Stdout, core.CLIErrorCodeForError(err), err.Error(), core.CLIExitCodeForError(err))
		}
		ui.ShowError("Invalid Summary", err.Error())
		return core.CLIExitCodeForError(err)
	}
	if opts.flags.Mode == core.OutputJSON {
		core.EmitCLISuccess(os.Stdout, map[string]interface{}{"digest": digest, "summary": sum})
		return core.ExitSuccess
	}
	ui.ShowPhaseSummary(sum)
	fmt.Printf("sha256 (canonical JSON): %s\n", digest)
	return core.ExitSuccess
}

func runWorkflowSummaryCommand(runDir string, opts cliOptions, ui core.UICallback, logger *slog.Logger) int {
	store, err := core.NewSummaryStore(logger)
	if err != nil {
		ui.ShowError("Summary Error", err.Error())
		return core.ExitGeneralError
	}
	wf, err := store.LoadWorkflow(filepath.Join(runDir, core.WorkflowSummaryFile))
	if err != nil {
		if opts.flags.Mode == core.OutputJSON {
			return core.EmitCLIError(os.Stdout, core.CLIErrorCodeForError(err), err.Error(), core.CLIExitCodeForError(err))
		}
		ui.ShowError("Invalid Summary", err.Error())
		return core.CLIExitCodeForError(err)
	}
	if opts.flags.Mode == core.OutputJSON {
		core.EmitCLISuccess(os.Stdout, wf)
		return core.ExitSuccess
	}
	for _, phase := range wf.Phases {
		ui.ShowPhaseSummary(phase)
	}
	fmt.Printf("Run %s (%s): %d scanned, %d changed, %d errors\n",
		wf.RunID, wf.Profile, wf.Summary.TotalScanned, wf.Summary.TotalChanged, wf.Summary.TotalErrors)
	return core.ExitSuccess
}

func runCompletion(args []string) int {
	if len(args) < 1 {
		tui.PrintError("Usage", "asset-optimizer completion <shell>\nSupported shells: bash, zsh, fish, powershell")
		return core.ExitInvalidArguments
	}
	var script string
	switch args[0] {
	case "bash":
		script = cmd.GenerateBashCompletion()
	case "zsh":
		script = cmd.GenerateZshCompletion()
	case "fish":
		script = cmd.GenerateFishCompletion()
	case "powershell":
		script = cmd.GeneratePowerShellCompletion()
	default:
		tui.PrintError("Unsupported Shell", fmt.Sprintf("Shell '%s' is not supported\nSupported shells: bash, zsh, fish, powershell", args[0]))
		return core.ExitInvalidArguments
	}
	fmt.Println(script)
	return core.ExitSuccess
}
