package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/urandom/arteef/config"
)

// Command describes a subcommand
type Command struct {
	Name  string
	Desc  string
	Flags *flag.FlagSet
	Run   func(config.Config, []string) error
}

var (
	configPath = flag.String("config", "arteef.toml", "arteef config path")
	commands   = []Command{}
)

func main() {
	flag.Usage = usage
	flag.Parse()

	args := flag.Args()

	if len(args) > 0 {
		for _, cmd := range commands {
			if cmd.Name == args[0] {
				cmd.Flags.Parse(args[1:])

				config, err := config.Read(*configPath)
				if err != nil {
					log.Fatalf("Error reading config %s: %+v", *configPath, err)
				}

				if err := cmd.Run(config, cmd.Flags.Args()); err != nil {
					log.Fatalf("Error running %s: %+v", cmd.Name, err)
				}

				os.Exit(0)
			}
		}
	}

	usage()
	os.Exit(2)
}

func usage() {
	fmt.Fprintf(os.Stderr, `%s is a tool for starting and setting up
	the arteef article browser.

Usage:

	arteef [flags] command [arguments]

The following flags are available:

`, os.Args[0])
	flag.PrintDefaults()

	fmt.Fprint(os.Stderr, "\nThe commands are: \n\n")

	nameLen := 0
	for _, cmd := range commands {
		if len(cmd.Name) > nameLen {
			nameLen = len(cmd.Name)
		}
	}

	for _, cmd := range commands {
		format := fmt.Sprintf("  %%%ds  %%s\n", nameLen)
		fmt.Fprintf(os.Stderr, format, cmd.Name, cmd.Desc)
	}

	fmt.Fprint(os.Stderr, "\n")
}
