package cmd

import (
	"testing"

	"github.com/spf13/cobra"
)

func findCommand(t *testing.T, use string) *cobra.Command {
	t.Helper()
	for _, c := range rootCmd.Commands() {
		if c.Use == use {
			return c
		}
	}
	t.Fatalf("command %q not registered", use)
	return nil
}

func TestSyncCommandsRegistered(t *testing.T) {
	for _, op := range syncOperations {
		findCommand(t, op.use)
	}
}

func TestSyncAppFlagsIndependent(t *testing.T) {
	a := findCommand(t, "categories:import")
	b := findCommand(t, "products:import")

	if err := a.Flags().Set("app", "shop"); err != nil {
		t.Fatalf("set flag: %v", err)
	}
	defer a.Flags().Set("app", "")

	if got := b.Flag("app").Value.String(); got != "" {
		t.Errorf("products:import --app = %q, want empty after setting categories:import's flag", got)
	}
}
