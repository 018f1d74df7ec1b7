package main

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"codeberg.org/voss/neuroscope/internal/dump"
)

func main() {
	fs := pflag.NewFlagSet("graphstat", pflag.ContinueOnError)
	nodesPath := fs.String("nodes", "nodes.bin", "Path to the node dump")
	edgesPath := fs.String("edges", "edges.bin", "Path to the edge dump")

	if err := fs.Parse(os.Args[1:]); err != nil {
		if err == pflag.ErrHelp {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "graphstat: %v\n", err)
		os.Exit(2)
	}

	g, err := dump.Load(*nodesPath, *edgesPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "graphstat: %v\n", err)
		os.Exit(1)
	}

	if err := dump.WriteReport(os.Stdout, g); err != nil {
		fmt.Fprintf(os.Stderr, "graphstat: %v\n", err)
		os.Exit(1)
	}
}
