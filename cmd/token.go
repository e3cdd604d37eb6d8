/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"

	"github.com/financeapi/apiserver/config"
	"github.com/financeapi/apiserver/internal/handlers"
	"github.com/financeapi/apiserver/types"
	"github.com/spf13/cobra"
)

var (
	tokenUser  types.User
	tokenRoles []string
)

// tokenCmd mints a development token signed with JWT_SECRET.
var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Mint a development bearer token",
	Long: `Mint an HS256 bearer token carrying the same claims as the identity
provider. Usage:

	finance token --sub 42 --username jdoe --email jdoe@example.com
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.LoadConfig()

		token, err := handlers.IssueToken(cfg.Auth, tokenUser, tokenRoles)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(tokenCmd)

	tokenCmd.Flags().StringVar(&tokenUser.ID, "sub", "", "subject (user id)")
	tokenCmd.Flags().StringVar(&tokenUser.Username, "username", "", "preferred username")
	tokenCmd.Flags().StringVar(&tokenUser.Name, "name", "", "given name")
	tokenCmd.Flags().StringVar(&tokenUser.Lastname, "lastname", "", "family name")
	tokenCmd.Flags().StringVar(&tokenUser.Email, "email", "", "email address")
	tokenCmd.Flags().StringSliceVar(&tokenRoles, "role", []string{"user"}, "realm role (repeatable)")
	_ = tokenCmd.MarkFlagRequired("sub")
}
