//go:build cli
// +build cli

package main

import (
	_ "magesync.GO/custom"

	"magesync.GO/cmd"
	"magesync.GO/config"
)

func main() {
	config.LoadEnv()
	cmd.Apply()
	cmd.Execute()
}
