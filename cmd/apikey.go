package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/brk3/wellnest/internal/server"
	"github.com/brk3/wellnest/internal/storage/bolt"
)

var apiKeyUser string

// apikey commands work on the database directly, for bootstrapping the first
// key before anything can authenticate against the server.
var apiKeyCmd = &cobra.Command{
	Use:   "apikey",
	Short: "Manage API keys in the local database",
}

var apiKeyCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create an API key for a user",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(func(store *bolt.Store) error {
			key, err := server.IssueAPIKey(store, apiKeyUser)
			if err != nil {
				return err
			}
			cmd.Println(key)
			return nil
		})
	},
}

var apiKeyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List key hashes for a user",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(func(store *bolt.Store) error {
			hashes, err := store.ListAPIKeyHashes(apiKeyUser)
			if err != nil {
				return err
			}
			for _, h := range hashes {
				cmd.Println(h)
			}
			return nil
		})
	},
}

var apiKeyRevokeCmd = &cobra.Command{
	Use:   "revoke <hash-prefix>",
	Short: "Revoke the key whose hash starts with the given prefix",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(func(store *bolt.Store) error {
			hash, err := server.RevokeAPIKey(store, apiKeyUser, args[0])
			if err != nil {
				return err
			}
			cmd.Println("Revoked", hash)
			return nil
		})
	},
}

func withStore(fn func(store *bolt.Store) error) error {
	if apiKeyUser == "" {
		return fmt.Errorf("--user is required")
	}
	store, err := bolt.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer store.Close()
	return fn(store)
}

func init() {
	apiKeyCmd.PersistentFlags().StringVar(&apiKeyUser, "user", "", "user id the key belongs to")
	apiKeyCmd.AddCommand(apiKeyCreateCmd, apiKeyListCmd, apiKeyRevokeCmd)
	rootCmd.AddCommand(apiKeyCmd)
}
