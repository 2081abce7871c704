// Package cli is the propvault command line. It stands in for the details
// pages of the desktop app: every command opens the database, bootstraps the
// vault and calls it the same way a page would, through vault.Vault.
//
// Commands
//
//	propvault init
//	propvault doc upload|list|delete|preview|types
//	propvault entity add tenant|landlord|property|tenancy, entity folder, entity delete
//	propvault image add|list|delete
//	propvault preview purge
//	propvault key path
//	propvault backup [--mirror]
//	propvault log [-n N]
//	propvault version
//
// Decrypted previews are registered for cleanup and swept when the command
// returns or the process receives SIGINT/SIGTERM.
package cli
