package cmd

import (
	"fmt"
	"os"
)

// Completion outputs shell completion scripts
func Completion(shell string) {
	switch shell {
	case "bash":
		fmt.Print(bashCompletion)
	case "zsh":
		fmt.Print(zshCompletion)
	case "fish":
		fmt.Print(fishCompletion)
	default:
		fmt.Fprintf(os.Stderr, "Unknown shell: %s\nSupported: bash, zsh, fish\n", shell)
		os.Exit(1)
	}
}

const bashCompletion = `_subvault() {
    local cur prev words cword
    _init_completion || return

    local commands="init status ls add update rm export import diff keyring compact help completion"

    if [[ $cword -eq 1 ]]; then
        COMPREPLY=($(compgen -W "$commands" -- "$cur"))
        return
    fi

    local cmd="${words[1]}"
    case "$cmd" in
        add|rm)
            COMPREPLY=($(compgen -W "sub cred" -- "$cur"))
            ;;
        update)
            COMPREPLY=($(compgen -W "sub" -- "$cur"))
            ;;
        import|diff)
            _filedir
            ;;
        keyring)
            COMPREPLY=($(compgen -W "save delete status" -- "$cur"))
            ;;
        help)
            COMPREPLY=($(compgen -W "$commands" -- "$cur"))
            ;;
        completion)
            COMPREPLY=($(compgen -W "bash zsh fish" -- "$cur"))
            ;;
    esac
}

complete -F _subvault subvault
`

const zshCompletion = `#compdef subvault

_subvault() {
    local -a commands
    commands=(
        'init:Create a new encrypted vault'
        'status:Show vault status without unlocking'
        'ls:List subscriptions and credentials'
        'add:Add a subscription or credential'
        'update:Update a subscription'
        'rm:Remove a subscription or credential'
        'export:Export the sealed vault to a backup file'
        'import:Restore the vault from a backup file'
        'diff:Compare the vault with a backup'
        'keyring:Manage passphrase in OS keyring'
        'compact:Compact vault to reclaim disk space'
        'help:Show help for a command'
        'completion:Generate shell completions'
    )

    _arguments -C \
        '1: :->command' \
        '*: :->args'

    case "$state" in
        command)
            _describe -t commands 'subvault commands' commands
            ;;
        args)
            case "${words[2]}" in
                add|rm)
                    _values 'record type' sub cred
                    ;;
                update)
                    _values 'record type' sub
                    ;;
                import|diff)
                    _files
                    ;;
                keyring)
                    _values 'subcommand' save delete status
                    ;;
                help)
                    _describe -t commands 'subvault commands' commands
                    ;;
                completion)
                    _values 'shell' bash zsh fish
                    ;;
            esac
            ;;
    esac
}

_subvault "$@"
`

const fishCompletion = `# subvault fish completions

set -l commands init status ls add update rm export import diff keyring compact help completion

complete -c subvault -f

# Commands
complete -c subvault -n "not __fish_seen_subcommand_from $commands" -a init -d 'Create a new encrypted vault'
complete -c subvault -n "not __fish_seen_subcommand_from $commands" -a status -d 'Show vault status'
complete -c subvault -n "not __fish_seen_subcommand_from $commands" -a ls -d 'List subscriptions and credentials'
complete -c subvault -n "not __fish_seen_subcommand_from $commands" -a add -d 'Add a subscription or credential'
complete -c subvault -n "not __fish_seen_subcommand_from $commands" -a update -d 'Update a subscription'
complete -c subvault -n "not __fish_seen_subcommand_from $commands" -a rm -d 'Remove a record'
complete -c subvault -n "not __fish_seen_subcommand_from $commands" -a export -d 'Export the sealed vault'
complete -c subvault -n "not __fish_seen_subcommand_from $commands" -a import -d 'Restore from a backup'
complete -c subvault -n "not __fish_seen_subcommand_from $commands" -a diff -d 'Compare vault with a backup'
complete -c subvault -n "not __fish_seen_subcommand_from $commands" -a keyring -d 'Manage passphrase in OS keyring'
complete -c subvault -n "not __fish_seen_subcommand_from $commands" -a compact -d 'Compact vault'
complete -c subvault -n "not __fish_seen_subcommand_from $commands" -a help -d 'Show help'
complete -c subvault -n "not __fish_seen_subcommand_from $commands" -a completion -d 'Generate completions'

# record types
complete -c subvault -n "__fish_seen_subcommand_from add rm" -a "sub cred"
complete -c subvault -n "__fish_seen_subcommand_from update" -a sub

# file arguments
complete -c subvault -n "__fish_seen_subcommand_from import diff" -F

# keyring subcommands
complete -c subvault -n "__fish_seen_subcommand_from keyring" -a "save delete status"

# help completions
complete -c subvault -n "__fish_seen_subcommand_from help" -a "$commands"

# completion completions
complete -c subvault -n "__fish_seen_subcommand_from completion" -a "bash zsh fish"
`
