// Package cli implements the navigator command line with cobra.
//
// Running navigator without a command opens the TUI. The subcommands cover
// the same records for scripting and quick edits:
//
//	navigator goals list --search python
//	navigator goals add "Become a data engineer" --role "Data Engineer"
//	navigator goals progress <id> 60
//	navigator skills add SQL --category Technical --level 4
//	navigator courses list --category Programming
//	navigator skills roadmap "Data Scientist" --months 6
//	navigator settings set theme dark
//	navigator profile set email asha@example.com
//	navigator login --token <jwt>
//
// Every command opens its own app.Env and closes it before returning. Deletes
// ask for confirmation unless --yes is given.
package cli
