// Package main is the entry point for the futsalmetrics CLI, which fetches
// FIFA Futsal World Cup timelines and computes match momentum.
package main

import "github.com/pable/go-futsal-metrics/cmd"

func main() {
	cmd.Execute()
}
