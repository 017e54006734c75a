package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jask/realcheck/internal/secrets"
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Manage the bearer token sent to the prediction endpoint",
}

var tokenSetCmd = &cobra.Command{
	Use:   "set [token]",
	Short: "Store a token for the endpoint's host (reads stdin when omitted)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var tok string
		if len(args) == 1 {
			tok = args[0]
		} else {
			line, err := bufio.NewReader(os.Stdin).ReadString('\n')
			if err != nil && line == "" {
				return fmt.Errorf("read token: %w", err)
			}
			tok = line
		}
		tok = strings.TrimSpace(tok)
		if err := secrets.StoreToken(cfg.Predict.Endpoint, tok); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Token saved for %s.\n", cfg.Predict.Endpoint)
		return nil
	},
}

var tokenClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Forget the token stored for the endpoint's host",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := secrets.DeleteToken(cfg.Predict.Endpoint); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Token cleared for %s.\n", cfg.Predict.Endpoint)
		return nil
	},
}

func init() {
	tokenCmd.AddCommand(tokenSetCmd, tokenClearCmd)
	rootCmd.AddCommand(tokenCmd)
}
