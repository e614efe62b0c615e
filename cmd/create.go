package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/roster-cli/internal/model"
)

var (
	createUserID      string
	createName        string
	createEmail       string
	createPhone       string
	createSchoolID    string
	createSchoolName  string
	createPerformedBy string
)

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Provision a new player record from signup attributes",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		e, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer e.Close()

		res, err := e.linkage.CreatePlayerFromSignup(ctx, createUserID, model.SignupInfo{
			FullName:   createName,
			Email:      createEmail,
			Phone:      createPhone,
			SchoolID:   createSchoolID,
			SchoolName: createSchoolName,
		}, createPerformedBy)
		if err != nil {
			return err
		}

		zap.L().Info("player created",
			zap.String("user_id", res.UserID),
			zap.String("player_id", res.PlayerID),
		)
		return nil
	},
}

func init() {
	createCmd.Flags().StringVar(&createUserID, "user", "", "user account ID (required)")
	createCmd.Flags().StringVar(&createName, "name", "", "full name from signup")
	createCmd.Flags().StringVar(&createEmail, "email", "", "email from signup")
	createCmd.Flags().StringVar(&createPhone, "phone", "", "phone from signup")
	createCmd.Flags().StringVar(&createSchoolID, "school-id", "", "school identifier")
	createCmd.Flags().StringVar(&createSchoolName, "school-name", "", "school display name")
	createCmd.Flags().StringVar(&createPerformedBy, "performed-by", "", "operator applying the decision")
	_ = createCmd.MarkFlagRequired("user")
	rootCmd.AddCommand(createCmd)
}
