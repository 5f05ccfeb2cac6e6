package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"mizan-hq/mizan/pkg/audit"
	"mizan-hq/mizan/pkg/cli"
	"mizan-hq/mizan/pkg/compliance"
	"mizan-hq/mizan/pkg/facts"
	"mizan-hq/mizan/pkg/policy"
	"mizan-hq/mizan/pkg/policy/source"
)

var decideFlags struct {
	format string
}

var decideCmd = &cobra.Command{
	Use:   "decide <rules-file> <facts-file>",
	Short: "Evaluate facts against rules and record the decision",
	Long: `Evaluate a facts file against a rule file, append the decision to the
audit journal, and print it.

The journal location comes from the configuration file or the
AUDIT_PATH environment variable (default ./data/audit.jsonl). The
decision is scored against the configured compliance frameworks and
the report is attached to the journal entry.

Exit codes: 0 when the decision is APPROVED or REVIEW, 1 when a rule
rejects the input, 2 when the rules or facts are malformed.

Examples:
  # Evaluate facts and print the decision
  mizan decide rules.json facts.json

  # JSON output, journal in a custom location
  AUDIT_PATH=/var/lib/mizan/audit.jsonl mizan decide rules.json facts.json --format json`,
	Args: cobra.ExactArgs(2),
	RunE: decide,
}

func init() {
	rootCmd.AddCommand(decideCmd)

	decideCmd.Flags().StringVar(&decideFlags.format, "format", "text", "output format: text, json")
}

func decide(cmd *cobra.Command, args []string) error {
	rulesPath, factsPath := args[0], args[1]

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	rules, err := source.NewFileSource(rulesPath).LoadRules()
	if err != nil {
		return cli.NewInputError(rulesPath, err)
	}

	engine := policy.NewEngine()
	if err := engine.LoadRules(rules); err != nil {
		return cli.NewInputError(rulesPath, err)
	}

	data, err := os.ReadFile(factsPath)
	if err != nil {
		return cli.NewInputError(factsPath, err)
	}
	input, err := facts.FromJSON(data)
	if err != nil {
		return cli.NewInputError(factsPath, err)
	}

	log, err := audit.Open(cfg.Audit.Path, audit.Options{Preload: cfg.Audit.Preload})
	if err != nil {
		return cli.NewCommandError("decide", err)
	}
	defer log.Close()

	evaluator, err := compliance.NewEvaluator(&cfg.Compliance)
	if err != nil {
		return cli.NewConfigError("compliance", err.Error())
	}

	decision := engine.Evaluate(input)
	entry, err := log.Append(decision, input)
	if err != nil {
		return cli.NewCommandError("decide", err)
	}

	report := evaluator.Evaluate(input, decision, entry)
	decision.ComplianceReport = report
	entry.Compliance = report

	if err := printDecision(decision, entry, report); err != nil {
		return err
	}

	if decision.Result == policy.ActionRejected {
		return cli.NewExitError(cli.ExitFailure, errors.New("policy denied: "+decision.Reason))
	}
	return nil
}

func printDecision(decision *policy.Decision, entry *audit.Entry, report *compliance.Report) error {
	if decideFlags.format == "json" {
		return cli.NewFormatter(cli.FormatJSON).FormatTo(os.Stdout, decision)
	}

	ruleName := "(none)"
	if decision.MatchedRule != nil {
		ruleName = fmt.Sprintf("%s (%s)", decision.MatchedRule.Name, decision.MatchedRule.ID)
	}

	fmt.Printf("Result:     %s\n", decision.Result)
	fmt.Printf("Score:      %d\n", decision.Score)
	fmt.Printf("Reason:     %s\n", decision.Reason)
	fmt.Printf("Rule:       %s\n", ruleName)
	fmt.Printf("Audit ID:   %s\n", decision.AuditID)
	fmt.Printf("Entry Hash: %s\n", entry.Hash)
	fmt.Printf("Compliance: %s (score %d)\n", report.OverallStatus, report.Score)
	return nil
}
