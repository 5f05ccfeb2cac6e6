package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"mizan-hq/mizan/pkg/cli"
	"mizan-hq/mizan/pkg/expr"
	"mizan-hq/mizan/pkg/policy"
	"mizan-hq/mizan/pkg/policy/source"
)

var validateCmd = &cobra.Command{
	Use:   "validate <rules-file>",
	Short: "Validate a rule file and report conflicts",
	Long: `Check every rule in a JSON or YAML rule file and report pairwise
condition conflicts.

A rule is valid when it has an id, its condition compiles, and its
action is one of APPROVED, REJECTED, REVIEW. Two valid rules conflict
when they share a condition but disagree on the action; rules that
repeat a condition with the same action are reported as duplicates
without affecting the exit code.

Examples:
  # Validate a JSON rule file
  mizan validate rules.json

  # Validate a YAML rule file
  mizan validate policies.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: validateRules,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

// checkRule reports the problems of a single rule without touching the
// rest of the set.
func checkRule(r policy.Rule) []string {
	var problems []string
	if r.ID == "" {
		problems = append(problems, "missing id")
	}
	if _, err := expr.Compile(r.Condition); err != nil {
		problems = append(problems, fmt.Sprintf("condition does not compile: %v", err))
	}
	if !r.Action.Valid() {
		problems = append(problems, fmt.Sprintf("unknown action %q", r.Action))
	}
	if r.Score != nil && (*r.Score < 0 || *r.Score > 100) {
		problems = append(problems, fmt.Sprintf("score %d out of range [0,100]", *r.Score))
	}
	return problems
}

func validateRules(cmd *cobra.Command, args []string) error {
	path := args[0]

	rules, err := source.NewFileSource(path).LoadRules()
	if err != nil {
		return cli.NewInputError(path, err)
	}

	fmt.Printf("Validating %d rules from %s\n\n", len(rules), path)

	valid := make([]policy.Rule, 0, len(rules))
	invalid := 0
	for _, r := range rules {
		problems := checkRule(r)
		if len(problems) == 0 {
			fmt.Printf("  ✓ %s: valid\n", r.ID)
			valid = append(valid, r)
			continue
		}
		invalid++
		id := r.ID
		if id == "" {
			id = "(no id)"
		}
		for _, p := range problems {
			fmt.Printf("  ✗ %s: %s\n", id, p)
		}
	}

	engine := policy.NewEngine()
	if err := engine.LoadRules(valid); err != nil {
		// Valid rules already compiled individually.
		return cli.NewCommandError("validate", err)
	}

	contradictions := 0
	conflicts := engine.DetectConflicts()
	if len(conflicts) > 0 {
		fmt.Println()
		for _, c := range conflicts {
			switch c.Kind {
			case policy.ConflictContradiction:
				contradictions++
				fmt.Printf("  ✗ conflict: %s\n", c.Description)
			default:
				fmt.Printf("  - duplicate: %s\n", c.Description)
			}
		}
	}

	fmt.Println()
	fmt.Printf("Valid: %d  Invalid: %d  Conflicts: %d\n", len(valid), invalid, contradictions)

	if invalid > 0 || contradictions > 0 {
		return cli.NewExitError(cli.ExitFailure, errors.New("validation failed"))
	}
	return nil
}
