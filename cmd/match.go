package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sells-group/roster-cli/internal/model"
)

var (
	matchName       string
	matchEmail      string
	matchPhone      string
	matchSchoolID   string
	matchSchoolName string
	matchJSON       bool
)

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Search existing players matching signup attributes",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		e, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer e.Close()

		candidates, err := e.engine.FindPotentialMatches(ctx, model.SignupInfo{
			FullName:   matchName,
			Email:      matchEmail,
			Phone:      matchPhone,
			SchoolID:   matchSchoolID,
			SchoolName: matchSchoolName,
		})
		if err != nil {
			return err
		}

		if matchJSON {
			return json.NewEncoder(os.Stdout).Encode(candidates)
		}

		if len(candidates) == 0 {
			fmt.Println("no candidates found")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "PLAYER\tNAME\tSCHOOL\tSTRATEGY\tCONFIDENCE\tCATEGORY")
		for _, c := range candidates {
			fmt.Fprintf(w, "%s\t%s %s\t%s\t%s\t%.2f\t%s\n",
				c.Player.ID, c.Player.FirstName, c.Player.LastName,
				c.Player.HighSchoolName, c.Strategy, c.Confidence, c.Category)
		}
		return w.Flush()
	},
}

func init() {
	matchCmd.Flags().StringVar(&matchName, "name", "", "full name from signup")
	matchCmd.Flags().StringVar(&matchEmail, "email", "", "email from signup")
	matchCmd.Flags().StringVar(&matchPhone, "phone", "", "phone from signup")
	matchCmd.Flags().StringVar(&matchSchoolID, "school-id", "", "school identifier")
	matchCmd.Flags().StringVar(&matchSchoolName, "school-name", "", "school display name")
	matchCmd.Flags().BoolVar(&matchJSON, "json", false, "emit JSON instead of a table")
	rootCmd.AddCommand(matchCmd)
}
