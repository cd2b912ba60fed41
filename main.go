package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/qinsehm1128/subvault/cmd"
	"github.com/qinsehm1128/subvault/internal/session"
	"github.com/qinsehm1128/subvault/internal/vault"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "init":
		runInit(ctx, os.Args[2:])
	case "status":
		runStatus(ctx, os.Args[2:])
	case "ls":
		runLs(ctx, os.Args[2:])
	case "add":
		runAdd(ctx, os.Args[2:])
	case "update":
		runUpdate(ctx, os.Args[2:])
	case "rm":
		runRm(ctx, os.Args[2:])
	case "export":
		runExport(ctx, os.Args[2:])
	case "import":
		runImport(ctx, os.Args[2:])
	case "diff":
		runDiff(ctx, os.Args[2:])
	case "keyring":
		runKeyring(ctx, os.Args[2:])
	case "compact":
		runCompact(ctx, os.Args[2:])
	case "completion":
		runCompletion(ctx, os.Args[2:])
	case "help", "-h", "--help":
		if len(os.Args) <= 2 {
			printUsage()
			return
		}
		printCommandHelp(os.Args[2])
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func runInit(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("init", flag.ExitOnError)
	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}

	cmd.Init(ctx)
}

func runStatus(_ context.Context, args []string) {
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}

	cmd.Status()
}

func runLs(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("ls", flag.ExitOnError)
	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}

	cmd.Ls(ctx)
}

func runAdd(ctx context.Context, args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: subvault add <sub|cred> [flags]")
		os.Exit(1)
	}

	switch args[0] {
	case "sub":
		fs := flag.NewFlagSet("add sub", flag.ExitOnError)
		in := subscriptionFlags(fs)
		if err := fs.Parse(args[1:]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %s\n", err)
			os.Exit(1)
		}
		cmd.AddSubscription(ctx, *in)
	case "cred":
		fs := flag.NewFlagSet("add cred", flag.ExitOnError)
		var in session.CredentialInput
		fs.StringVar(&in.Label, "label", "", "Display name (required)")
		fs.StringVar(&in.Username, "username", "", "Login username (required)")
		fs.StringVar(&in.Notes, "notes", "", "Free-text notes")
		if err := fs.Parse(args[1:]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %s\n", err)
			os.Exit(1)
		}
		cmd.AddCredential(ctx, in)
	default:
		fmt.Fprintf(os.Stderr, "Unknown record type: %s (want sub or cred)\n", args[0])
		os.Exit(1)
	}
}

func runUpdate(ctx context.Context, args []string) {
	if len(args) < 2 || args[0] != "sub" {
		fmt.Fprintln(os.Stderr, "Usage: subvault update sub <id> [flags]")
		os.Exit(1)
	}
	id := args[1]

	fs := flag.NewFlagSet("update sub", flag.ExitOnError)
	in := subscriptionFlags(fs)
	active := fs.Bool("active", true, "Whether the subscription is active")
	if err := fs.Parse(args[2:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
	in.Active = *active

	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })

	cmd.UpdateSubscription(ctx, id, *in, set)
}

func runRm(ctx context.Context, args []string) {
	if len(args) < 2 {
		fmt.Fprintln(os.Stderr, "Usage: subvault rm <sub|cred> <id>")
		os.Exit(1)
	}

	switch args[0] {
	case "sub":
		cmd.RmSubscription(ctx, args[1])
	case "cred":
		cmd.RmCredential(ctx, args[1])
	default:
		fmt.Fprintf(os.Stderr, "Unknown record type: %s (want sub or cred)\n", args[0])
		os.Exit(1)
	}
}

func runExport(_ context.Context, args []string) {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	out := fs.String("o", "", "Output file (default SubVault_Export_<timestamp>.json)")
	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}

	cmd.Export(*out)
}

func runImport(_ context.Context, args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: subvault import <backup file>")
		os.Exit(1)
	}

	cmd.Import(args[0])
}

func runDiff(ctx context.Context, args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: subvault diff <backup file>")
		os.Exit(1)
	}

	cmd.Diff(ctx, args[0])
}

func runKeyring(ctx context.Context, args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: subvault keyring <save|delete|status>")
		os.Exit(1)
	}

	switch args[0] {
	case "save":
		cmd.KeyringSave(ctx)
	case "delete":
		cmd.KeyringDelete()
	case "status":
		cmd.KeyringStatus()
	default:
		fmt.Fprintf(os.Stderr, "Unknown keyring subcommand: %s\n", args[0])
		os.Exit(1)
	}
}

func runCompact(_ context.Context, args []string) {
	fs := flag.NewFlagSet("compact", flag.ExitOnError)
	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}

	cmd.Compact()
}

func runCompletion(_ context.Context, args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: subvault completion <bash|zsh|fish>")
		os.Exit(1)
	}
	cmd.Completion(args[0])
}

// subscriptionFlags registers the shared add/update subscription flags.
func subscriptionFlags(fs *flag.FlagSet) *session.SubscriptionInput {
	in := &session.SubscriptionInput{}
	fs.StringVar(&in.Name, "name", "", "Subscription name (required)")
	fs.Float64Var(&in.Cost, "cost", 0, "Cost per billing cycle")
	fs.StringVar(&in.Currency, "currency", "", "Currency code, e.g. USD or CNY")
	fs.IntVar(&in.FrequencyAmount, "every", 0, "Billing cycle length, e.g. 3 for every 3 months")
	fs.Func("unit", "Billing cycle unit: days, weeks, months, years, permanent", func(v string) error {
		u := vault.FrequencyUnit(strings.ToUpper(v))
		if !u.Valid() {
			return fmt.Errorf("unknown unit %q", v)
		}
		in.FrequencyUnit = u
		return nil
	})
	fs.StringVar(&in.StartDate, "start", "", "Cycle anchor date, YYYY-MM-DD (default today)")
	fs.StringVar(&in.Category, "category", "", "Category tag")
	fs.StringVar(&in.CredentialID, "credential", "", "ID of a stored credential to link")
	fs.StringVar(&in.Website, "website", "", "Service website")
	return in
}

func printUsage() {
	fmt.Println("subvault - Encrypted vault for subscriptions and login credentials")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  subvault <command> [arguments]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  init        Create a new encrypted vault (subvault.db)")
	fmt.Println("  status      Show vault status without unlocking")
	fmt.Println("  ls          List subscriptions and credentials")
	fmt.Println("  add         Add a subscription or credential")
	fmt.Println("  update      Update a subscription")
	fmt.Println("  rm          Remove a subscription or credential")
	fmt.Println("  export      Export the sealed vault to a backup file")
	fmt.Println("  import      Restore the vault from a backup file")
	fmt.Println("  diff        Compare the vault with a backup")
	fmt.Println("  keyring     Manage the passphrase in the OS keyring")
	fmt.Println("  compact     Compact the vault to reclaim disk space")
	fmt.Println("  completion  Generate shell completions")
	fmt.Println("  help        Show help for a command")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  subvault init                                    # Create new vault")
	fmt.Println("  subvault add sub -name Netflix -cost 15.99 \\")
	fmt.Println("      -currency USD -every 1 -unit months \\")
	fmt.Println("      -start 2024-01-15                            # Add a subscription")
	fmt.Println("  subvault add cred -label GitHub -username me     # Add a credential")
	fmt.Println("  subvault ls                                      # Show everything")
	fmt.Println()
	fmt.Println("The vault location defaults to ./subvault.db; set SUBVAULT_FILE to")
	fmt.Println("override it. Set SUBVAULT_PASSPHRASE to skip the interactive prompt.")
	fmt.Println()
	fmt.Println("Use 'subvault help <command>' for more information about a command.")
}

func printCommandHelp(command string) {
	switch command {
	case "init":
		fmt.Println("subvault init")
		fmt.Println()
		fmt.Println("Creates a new vault database and seals an empty vault in it.")
		fmt.Println("Prompts for a passphrase that will be used for encryption.")
		fmt.Println("The passphrase is not stored anywhere - you must remember it.")
	case "status":
		fmt.Println("subvault status")
		fmt.Println()
		fmt.Println("Shows vault status:")
		fmt.Println("  - Sealed blob size")
		fmt.Println("  - Creation and last-saved timestamps")
		fmt.Println("  - Encryption and key-derivation parameters")
		fmt.Println()
		fmt.Println("Does not require a passphrase.")
	case "ls":
		fmt.Println("subvault ls")
		fmt.Println()
		fmt.Println("Unlocks the vault and lists every subscription with its cost,")
		fmt.Println("billing cycle, next renewal date, days remaining and cycle")
		fmt.Println("progress, followed by the stored credentials (labels and")
		fmt.Println("usernames only - secrets are never printed).")
	case "add":
		fmt.Println("subvault add sub [flags]")
		fmt.Println("subvault add cred [flags]")
		fmt.Println()
		fmt.Println("Adds a record to the vault.")
		fmt.Println()
		fmt.Println("Subscription flags:")
		fmt.Println("  -name        Subscription name (required)")
		fmt.Println("  -cost        Cost per billing cycle")
		fmt.Println("  -currency    Currency code (default USD)")
		fmt.Println("  -every       Billing cycle length (default 1)")
		fmt.Println("  -unit        days, weeks, months, years or permanent (default months)")
		fmt.Println("  -start       Cycle anchor date, YYYY-MM-DD (default today)")
		fmt.Println("  -category    Category tag (default general)")
		fmt.Println("  -credential  ID of a stored credential to link")
		fmt.Println("  -website     Service website")
		fmt.Println()
		fmt.Println("The next renewal date is always computed from -start, -every and")
		fmt.Println("-unit; it cannot be supplied directly.")
		fmt.Println()
		fmt.Println("Credential flags:")
		fmt.Println("  -label       Display name (required)")
		fmt.Println("  -username    Login username (required)")
		fmt.Println("  -notes       Free-text notes")
		fmt.Println()
		fmt.Println("The login password is prompted for, never passed on the command line.")
	case "update":
		fmt.Println("subvault update sub <id> [flags]")
		fmt.Println()
		fmt.Println("Updates a subscription. Takes the same flags as 'add sub' plus")
		fmt.Println("-active; only the flags given change, the rest keep their current")
		fmt.Println("values. The renewal date is recomputed after every update.")
	case "rm":
		fmt.Println("subvault rm sub <id>")
		fmt.Println("subvault rm cred <id>")
		fmt.Println()
		fmt.Println("Removes a record from the vault. Removing a credential clears the")
		fmt.Println("login link on subscriptions that referenced it; the subscriptions")
		fmt.Println("themselves are kept.")
	case "export":
		fmt.Println("subvault export [-o <file>]")
		fmt.Println()
		fmt.Println("Writes the sealed vault blob to a backup file. The backup is")
		fmt.Println("encrypted exactly as stored, so no passphrase is required.")
	case "import":
		fmt.Println("subvault import <backup file>")
		fmt.Println()
		fmt.Println("Replaces the stored vault with a previously exported backup.")
		fmt.Println("The backup decrypts with the passphrase it was exported under.")
	case "diff":
		fmt.Println("subvault diff <backup file>")
		fmt.Println()
		fmt.Println("Decrypts both the current vault and a backup export with your")
		fmt.Println("passphrase and shows a unified diff of their contents.")
	case "keyring":
		fmt.Println("subvault keyring <save|delete|status>")
		fmt.Println()
		fmt.Println("Manages the vault passphrase in the OS keyring. A saved")
		fmt.Println("passphrase is used automatically by commands that unlock.")
	case "compact":
		fmt.Println("subvault compact")
		fmt.Println()
		fmt.Println("Compacts the vault database to reclaim unused disk space.")
		fmt.Println("Every save rewrites the sealed blob, which leaves dead pages")
		fmt.Println("behind over time.")
		fmt.Println()
		fmt.Println("Does not require a passphrase.")
	case "completion":
		fmt.Println("subvault completion <bash|zsh|fish>")
		fmt.Println()
		fmt.Println("Outputs shell completion script for the specified shell.")
		fmt.Println()
		fmt.Println("Setup:")
		fmt.Println("  # Bash - add to ~/.bashrc")
		fmt.Println("  eval \"$(subvault completion bash)\"")
		fmt.Println()
		fmt.Println("  # Zsh - add to ~/.zshrc")
		fmt.Println("  eval \"$(subvault completion zsh)\"")
		fmt.Println()
		fmt.Println("  # Fish - add to ~/.config/fish/config.fish")
		fmt.Println("  subvault completion fish | source")
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
	}
}
