// Package main is the entry point for the cbbmetrics CLI tool, which derives
// play-type breakdowns and player ratings from college basketball stat sets.
package main

import "github.com/pable/go-cbb-metrics/cmd"

func main() {
	cmd.Execute()
}
