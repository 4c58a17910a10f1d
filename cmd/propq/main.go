package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/propq/propq/check"
	"github.com/propq/propq/cli"
	"github.com/propq/propq/faildb"
	"github.com/propq/propq/rng"
)

const usage = `propq - Property testing toolkit

Usage:
  propq <command> [arguments]

Commands:
  failures list          List recorded property failures
  failures clear [name]  Delete recorded failures (all, or one property)
  seed                   Print a fresh random seed
  config show            Print the effective configuration

Options:
  -h, --help    Show this help message

The failure database location comes from the faildb key of the [check]
section in propq.ini, or the PROPQ_FAILDB environment variable.
`

func main() {
	if len(os.Args) < 2 {
		fmt.Print(usage)
		os.Exit(0)
	}

	cmd := os.Args[1]

	switch cmd {
	case "-h", "--help", "help":
		fmt.Print(usage)
		os.Exit(0)

	case "seed":
		cli.Infof("%d", rng.RandomSeed())

	case "config":
		if len(os.Args) < 3 || os.Args[2] != "show" {
			cli.Fatal("'propq config' requires the 'show' subcommand")
		}
		configShowCmd()

	case "failures":
		if len(os.Args) < 3 {
			fmt.Fprintln(os.Stderr, "error: 'propq failures' requires a subcommand")
			fmt.Fprintln(os.Stderr, "")
			fmt.Fprintln(os.Stderr, "Available subcommands:")
			fmt.Fprintln(os.Stderr, "  list          List recorded property failures")
			fmt.Fprintln(os.Stderr, "  clear [name]  Delete recorded failures")
			os.Exit(1)
		}

		subCmd := os.Args[2]
		switch subCmd {
		case "list":
			failuresListCmd()

		case "clear":
			property := ""
			if len(os.Args) > 3 {
				property = os.Args[3]
			}
			failuresClearCmd(property)

		case "-h", "--help", "help":
			fmt.Println("propq failures - Failure database commands")
			fmt.Println("")
			fmt.Println("Subcommands:")
			fmt.Println("  list          List recorded property failures")
			fmt.Println("  clear [name]  Delete recorded failures (all, or one property)")
			os.Exit(0)

		default:
			fmt.Fprintf(os.Stderr, "error: unknown failures subcommand: %s\n", subCmd)
			fmt.Fprintln(os.Stderr, "Run 'propq failures --help' for usage.")
			os.Exit(1)
		}

	default:
		fmt.Fprintf(os.Stderr, "error: unknown command: %s\n", cmd)
		fmt.Fprintln(os.Stderr, "Run 'propq --help' for usage.")
		os.Exit(1)
	}
}

func openFailDB() *faildb.DB {
	cfg := check.DefaultConfig()
	if cfg.FailDBURL == "" {
		cli.Fatal("no failure database configured (set faildb in propq.ini or PROPQ_FAILDB)")
	}
	db, err := faildb.Open(cfg.FailDBURL)
	if err != nil {
		cli.FatalErr("opening failure database", err)
	}
	return db
}

func failuresListCmd() {
	db := openFailDB()
	defer db.Close()

	failures, err := db.List()
	if err != nil {
		cli.FatalErr("listing failures", err)
	}
	if len(failures) == 0 {
		cli.Info("no recorded failures")
		return
	}

	rows := [][]string{{"ID", "PROPERTY", "SEED", "SHRUNK", "STEPS", "RECORDED"}}
	for _, f := range failures {
		rows = append(rows, []string{
			f.ID,
			f.Property,
			strconv.FormatInt(f.Seed, 10),
			f.Shrunk,
			strconv.Itoa(f.ShrinkSteps),
			f.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}
	if err := cli.Table(os.Stdout, rows); err != nil {
		cli.FatalErr("rendering table", err)
	}
}

func failuresClearCmd(property string) {
	db := openFailDB()
	defer db.Close()

	n, err := db.Clear(property)
	if err != nil {
		cli.FatalErr("clearing failures", err)
	}
	if property == "" {
		cli.Infof("cleared %d recorded failures", n)
	} else {
		cli.Infof("cleared %d recorded failures for %q", n, property)
	}
}

func configShowCmd() {
	cfg := check.DefaultConfig()
	cli.Infof("max_success       = %d", cfg.MaxSuccess)
	cli.Infof("max_size          = %d", cfg.MaxSize)
	cli.Infof("max_discard_ratio = %g", cfg.MaxDiscardRatio)
	cli.Infof("max_shrinks       = %d", cfg.MaxShrinks)
	if cfg.Seed != 0 {
		cli.Infof("seed              = %d (pinned)", cfg.Seed)
	} else {
		cli.Info("seed              = (random per run)")
	}
	if cfg.FailDBURL != "" {
		cli.Infof("faildb            = %s", cfg.FailDBURL)
	} else {
		cli.Info("faildb            = (not configured)")
	}
}
