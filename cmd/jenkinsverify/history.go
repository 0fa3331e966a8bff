package main

import (
	"errors"
	"fmt"

	"github.com/InfiniteConsult/0008-cicd-part04-jenkins/internal/store"
	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded verification runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runHistory(cmd)
	},
}

func runHistory(cmd *cobra.Command) error {
	doc, err := loadConfigDoc()
	if err != nil {
		return err
	}
	if err := doc.SetupLogging(); err != nil {
		return err
	}

	if !doc.Store.Configured() {
		return errors.New("history: no store configured, set store.type in the config file")
	}
	st, err := store.Open(doc.Store)
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	runs, err := st.ListRuns()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		cmd.Println("no verification runs recorded")
		return nil
	}

	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintf(out, "%-4s %-8s %-6s %-8s %-30s %s\n", "ID", "MODE", "CODE", "RESULT", "RAN_AT", "TARGET")
	for _, r := range runs {
		result := "failed"
		if r.Verified {
			result = "ok"
		}
		_, _ = fmt.Fprintf(out, "%-4d %-8s %-6d %-8s %-30s %s\n",
			r.ID, r.AuthMode, r.StatusCode, result, r.RanAt, r.Target)
	}
	return nil
}
