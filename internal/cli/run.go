package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/framewave/directive/internal/actor"
	"github.com/framewave/directive/internal/db"
	"github.com/framewave/directive/internal/engine"
	"github.com/framewave/directive/internal/macros"
	"github.com/framewave/directive/internal/script"
)

var (
	runActorName    string
	runMacroName    string
	runMacroVars    []string
	runPermissions  []string
	runPlaceholders []string
	runRecord       bool
)

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringVar(&runActorName, "actor", "console", "name of the console actor")
	runCmd.Flags().StringVar(&runMacroName, "macro", "", "run a named macro instead of a script file")
	runCmd.Flags().StringArrayVar(&runMacroVars, "var", nil, "macro variable key=value (repeatable)")
	runCmd.Flags().StringArrayVar(&runPermissions, "perm", nil, "permission node granted to the actor (repeatable)")
	runCmd.Flags().StringArrayVar(&runPlaceholders, "set", nil, "placeholder value key=value (repeatable)")
	runCmd.Flags().BoolVar(&runRecord, "record", false, "record the run in the history database")
}

var runCmd = &cobra.Command{
	Use:   "run [file]",
	Short: "Run a directive script against a console actor",
	Long: "Execute a script file (or a named macro) against a local console actor.\n" +
		"Effects are printed to stdout; the run summary is printed when the\n" +
		"sequence completes.",
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		console := actor.NewConsoleActor(runActorName, cmd.OutOrStdout())
		console.Grant(runPermissions...)
		for _, pair := range runPlaceholders {
			key, value, err := splitPair(pair)
			if err != nil {
				return err
			}
			console.SetPlaceholder(key, value)
		}

		list, err := resolveActions(args)
		if err != nil {
			return err
		}
		if len(list) == 0 {
			return fmt.Errorf("nothing to run")
		}

		var recorder engine.Recorder
		var eventLog *db.EventRepository
		cfg := GetConfig()
		if runRecord || (cfg != nil && cfg.History.Enabled) {
			database, err := openDatabase()
			if err != nil {
				return err
			}
			defer database.Close()
			recorder = db.NewExecutionRepository(database)
			eventLog = db.NewEventRepository(database)
		}

		execCfg := engine.DefaultConfig()
		if cfg != nil {
			if cfg.Executor.MaxDepth > 0 {
				execCfg.MaxDepth = cfg.Executor.MaxDepth
			}
			execCfg.MaxActionsPerRun = cfg.Executor.MaxActionsPerRun
		}

		executor := engine.New(execCfg, engine.NewEvaluator(console, console), console, recorder)
		if eventLog != nil {
			executor.SetEventLog(eventLog)
		}
		result := executor.Execute(cmd.Context(), console, list)

		rows := [][]string{
			{"run id", result.RunID},
			{"actor", result.ActorID},
			{"total", fmt.Sprintf("%d", result.TotalActions)},
			{"succeeded", fmt.Sprintf("%d", result.SuccessCount)},
			{"failed", fmt.Sprintf("%d", result.FailureCount)},
			{"cancelled", formatYesNo(result.Cancelled)},
			{"duration", fmt.Sprintf("%dms", result.DurationMs)},
		}
		if err := renderRows(cmd.OutOrStdout(), nil, rows); err != nil {
			return err
		}
		for _, msg := range result.Errors {
			fmt.Fprintf(cmd.OutOrStdout(), "error: %s\n", msg)
		}
		return nil
	},
}

// resolveActions builds the action list from either a macro or a script
// file (stdin when neither is given).
func resolveActions(args []string) (script.ActionList, error) {
	if runMacroName != "" {
		if len(args) > 0 {
			return nil, fmt.Errorf("cannot combine --macro with a script file")
		}
		return resolveMacroActions()
	}

	path := ""
	if len(args) == 1 {
		path = args[0]
	}
	lines, err := readScriptLines(path)
	if err != nil {
		return nil, err
	}

	list := make(script.ActionList, 0, len(lines))
	for _, line := range lines {
		action, err := script.ParseAction(line)
		if err != nil {
			return nil, fmt.Errorf("parse action %q: %w", line, err)
		}
		list = append(list, action)
	}
	return list, nil
}

func resolveMacroActions() (script.ActionList, error) {
	macroDir := ""
	if cfg := GetConfig(); cfg != nil {
		macroDir = cfg.Macros.Dir
	}
	available, err := macros.LoadMacrosFromSearchPaths(macroDir)
	if err != nil {
		return nil, err
	}

	var selected *macros.Macro
	for _, m := range available {
		if strings.EqualFold(m.Name, runMacroName) {
			selected = m
			break
		}
	}
	if selected == nil {
		return nil, fmt.Errorf("macro %q not found", runMacroName)
	}

	vars := make(map[string]string, len(runMacroVars))
	for _, pair := range runMacroVars {
		key, value, err := splitPair(pair)
		if err != nil {
			return nil, err
		}
		vars[key] = value
	}

	guard, list, err := macros.RenderWith(selected, vars, conditionCache)
	if err != nil {
		return nil, err
	}

	// A macro guard wraps the whole list in one conditional.
	if guard != nil {
		return script.ActionList{&script.ConditionalAction{Condition: guard, Then: list}}, nil
	}
	return list, nil
}
