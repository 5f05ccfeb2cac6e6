/*
Package cli provides command-line interface utilities for the mizan command.

The cli package includes output formatters, typed command errors that carry
process exit codes, and a signal-aware context helper.

Output Formatting:

Commands support text and JSON output for their results:

	formatter := cli.NewFormatter(cli.FormatJSON)
	if err := formatter.FormatTo(os.Stdout, decision); err != nil {
		return err
	}

Exit Codes:

Commands return errors that map onto process exit codes. Malformed user
input is reported with InputError (exit code 2); policy denials and
journal integrity failures use an ExitError with code 1. main resolves
the code with cli.ExitCode(err).
*/
package cli
