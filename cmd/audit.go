package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var (
	auditUserID string
	auditJSON   bool
)

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "List linkage decisions from the audit log",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		e, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer e.Close()

		entries, err := e.store.ListAudit(ctx, auditUserID)
		if err != nil {
			return err
		}

		if auditJSON {
			return json.NewEncoder(os.Stdout).Encode(entries)
		}

		if len(entries) == 0 {
			fmt.Println("no audit entries")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "TIME\tACTION\tUSER\tPLAYER\tPERFORMED BY")
		for _, entry := range entries {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				entry.CreatedAt.Format("2006-01-02 15:04:05"),
				entry.Action, entry.UserID, entry.PlayerID, entry.PerformedBy)
		}
		return w.Flush()
	},
}

func init() {
	auditCmd.Flags().StringVar(&auditUserID, "user", "", "filter by user account ID")
	auditCmd.Flags().BoolVar(&auditJSON, "json", false, "emit JSON instead of a table")
	rootCmd.AddCommand(auditCmd)
}
