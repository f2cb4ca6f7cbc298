package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonathan/career-compass/internal/server"
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Issue an owner token for the API",
	Long: `Prints a bearer token carrying the --owner id, signed with JWT_SECRET.
An empty --owner issues a token for a new random owner.`,
	RunE: runToken,
}

func init() {
	rootCmd.AddCommand(tokenCmd)
}

func runToken(cmd *cobra.Command, _ []string) error {
	jwtCfg, err := appConfig.JWT()
	if err != nil {
		return err
	}

	token, claims, err := server.NewJWTService(jwtCfg).GenerateToken(ownerID)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, token)
	fmt.Fprintf(cmd.ErrOrStderr(), "owner %s, expires %s\n", claims.OwnerID, claims.ExpiresAt.Time.Format(time.RFC3339))
	return nil
}
