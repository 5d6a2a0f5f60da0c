package main

import (
	"fmt"
	"os"
)

func main() {
	// Handle help flag first
	if len(os.Args) >= 2 {
		switch os.Args[1] {
		case "--help", "-h", "help":
			showUsage()
			return
		}
	}

	if len(os.Args) < 2 {
		showUsage()
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "resolve":
		err = runResolve(os.Args[2:])
	case "plan":
		err = runPlan(os.Args[2:])
	case "list":
		err = runList(os.Args[2:])
	case "validate":
		err = runValidate(os.Args[2:])
	case "watch":
		err = runWatch(os.Args[2:])
	case "history":
		err = runHistory(os.Args[2:])
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\nRun 'promptdeck --help' for usage information.\n", os.Args[1])
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", os.Args[1], err)
		os.Exit(1)
	}
}

func showUsage() {
	fmt.Println(`promptdeck - progressive context loading for agent prompt catalogs

USAGE:
    promptdeck COMMAND [FLAGS]

COMMANDS:
    resolve AGENT_ID BUDGET   Pick the most detailed representation of an
                              agent that fits within BUDGET tokens
    plan BUDGET AGENT_ID...   Allocate one budget across several agents
    list                      List catalog agents with per-tier token counts
    validate                  Load the catalog and report problems
    watch                     Keep the catalog loaded with hot reload
    history                   Show recent resolution audit records

FLAGS (all commands):
    --config PATH    Config file path (default: ./config.yaml)
    --json           Print results as JSON

CONFIGURATION:
    Config file: ./config.yaml
    Environment: PROMPTDECK_* variables override config

EXAMPLES:
    promptdeck resolve ui-ux-agent 200
    promptdeck plan 8000 project-structure-agent stakeholder-interview-agent
    promptdeck list --json
    promptdeck validate --config ./deck.yaml`)
}
