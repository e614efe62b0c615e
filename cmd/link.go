package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/roster-cli/internal/linkage"
)

var (
	linkUserID          string
	linkPlayerID        string
	linkEmail           string
	linkPerformedBy     string
	linkRequireUnlinked bool
)

var linkCmd = &cobra.Command{
	Use:   "link",
	Short: "Link a user account to an existing player record",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		e, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer e.Close()

		res, err := e.linkage.LinkUserToPlayer(ctx, linkage.LinkRequest{
			UserID:          linkUserID,
			PlayerID:        linkPlayerID,
			UserEmail:       linkEmail,
			PerformedBy:     linkPerformedBy,
			RequireUnlinked: linkRequireUnlinked,
		})
		if err != nil {
			return err
		}

		zap.L().Info("link complete",
			zap.String("user_id", res.UserID),
			zap.String("player_id", res.PlayerID),
			zap.Bool("email_updated", res.EmailUpdated),
		)
		return nil
	},
}

func init() {
	linkCmd.Flags().StringVar(&linkUserID, "user", "", "user account ID (required)")
	linkCmd.Flags().StringVar(&linkPlayerID, "player", "", "player record ID (required)")
	linkCmd.Flags().StringVar(&linkEmail, "email", "", "signup email")
	linkCmd.Flags().StringVar(&linkPerformedBy, "performed-by", "", "operator applying the decision")
	linkCmd.Flags().BoolVar(&linkRequireUnlinked, "require-unlinked", false, "fail if the player is already linked to another user")
	_ = linkCmd.MarkFlagRequired("user")
	_ = linkCmd.MarkFlagRequired("player")
	rootCmd.AddCommand(linkCmd)
}
