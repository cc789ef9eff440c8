package tui

import "fmt"

// PrintHelp displays usage information for asset-optimizer commands.
func PrintHelp() {
	fmt.Println(styleTitle.Render("asset-optimizer"))
	fmt.Println("Audit, recommend, apply and verify asset optimizations against a target preset")
	fmt.Println("\nCommands:")
	fmt.Println("  audit               Check assets in the manifest against the preset rules")
	fmt.Println("  recommend           Turn audit findings into concrete property changes")
	fmt.Println("  apply               Apply recommended changes within the change budget")
	fmt.Println("  verify              Re-read applied assets and check every change")
	fmt.Println("  run                 Run audit, recommend, apply and verify in order")
	fmt.Println("    --profile <name>        Target preset (default PC_Balanced)")
	fmt.Println("    --category <name>       Textures, Meshes, Materials or Levels (repeatable)")
	fmt.Println("    --include <pattern>     Only assets under this prefix or glob (repeatable)")
	fmt.Println("    --exclude <pattern>     Skip assets under this prefix or glob (repeatable)")
	fmt.Println("    --selection             Only assets marked selected in the manifest")
	fmt.Println("    --dry-run, --no-dry-run Simulate or perform changes (default: dry run)")
	fmt.Println("    --max-changes <N>       Change budget (0 uses the preset's)")
	fmt.Println("    --conservative, --no-conservative")
	fmt.Println("                            Skip or allow high-risk changes")
	fmt.Println("    --run-id <id|latest>    Reuse a run directory (default run_YYYYMMDD_HHMMSS)")
	fmt.Println("    --output <dir>          History root directory")
	fmt.Println("    --manifest <file>       Asset manifest CSV")
	fmt.Println("    --parallel <N>          Categories processed concurrently")
	fmt.Println("  presets             List optimization presets")
	fmt.Println("  preset show <name>  Show a preset's rules and safety policy")
	fmt.Println("  preset export <name> <file>")
	fmt.Println("                      Write a preset as YAML")
	fmt.Println("  history [--limit N] Show recorded phase runs, newest first")
	fmt.Println("                      With --run-id ID, show every phase of one run")
	fmt.Println("  summary <run-dir> <phase|workflow>")
	fmt.Println("                      Load, validate and print a phase or workflow summary")
	fmt.Println("  watch               Re-run the workflow when the manifest or presets change")
	fmt.Println("  init [--force]      Write a default asset-optimizer.yml")
	fmt.Println("  version             Show version information")
	fmt.Println("  completion <shell>  Generate shell completion script (bash/zsh/fish/powershell)")
	fmt.Println("\nCommon flags:")
	fmt.Println("  --config <file>     Run configuration (default asset-optimizer.yml)")
	fmt.Println("  --yes, -y           Apply without confirmation")
	fmt.Println("  --quiet, -q         Minimal output")
	fmt.Println("  --json              JSON output")
	fmt.Println("  --verbose, -v       Debug logging")
	fmt.Println("\nExamples:")
	fmt.Println("  asset-optimizer init")
	fmt.Println("  asset-optimizer audit --profile Mobile_Low")
	fmt.Println("  asset-optimizer run --category Textures --exclude /Game/Legacy")
	fmt.Println("  asset-optimizer apply --run-id latest --no-dry-run --max-changes 50 --yes")
	fmt.Println("  asset-optimizer history --limit 10")
	fmt.Println("  asset-optimizer completion bash > /etc/bash_completion.d/asset-optimizer")
}
