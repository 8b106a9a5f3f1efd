// Package main is the entry point for the nhlmetrics CLI tool, which scrapes
// NHL game data and computes reconciled player/team metrics.
package main

import "github.com/pable/go-nhl-metrics/cmd"

func main() {
	cmd.Execute()
}
