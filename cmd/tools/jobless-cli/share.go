// cmd/tools/jobless-cli/share.go
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"jobless/internal/common/i18n"
	"jobless/internal/share"

	"github.com/spf13/cobra"
)

func newShareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "share",
		Short: "Encode and decode share tokens",
	}
	cmd.AddCommand(newShareEncodeCmd(), newShareDecodeCmd())
	return cmd
}

func newShareEncodeCmd() *cobra.Command {
	var (
		raw     string
		baseURL string
	)
	cmd := &cobra.Command{
		Use:   "encode",
		Short: "Encode a result summary read from --json or stdin",
		RunE: func(cmd *cobra.Command, args []string) error {
			data := []byte(raw)
			if raw == "" {
				var err error
				data, err = io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("failed to read stdin: %w", err)
				}
			}

			var summary share.Summary
			if err := json.Unmarshal(data, &summary); err != nil {
				return fmt.Errorf("invalid summary JSON: %w", err)
			}
			token := share.Encode(summary)
			return printJSON(cmd.OutOrStdout(), map[string]string{
				"token": token,
				"url":   share.URL(baseURL, token),
			})
		},
	}
	cmd.Flags().StringVar(&raw, "json", "", "Summary JSON (default: read stdin)")
	cmd.Flags().StringVar(&baseURL, "base-url", "http://localhost:8080", "Base URL for share links")
	return cmd
}

func newShareDecodeCmd() *cobra.Command {
	var (
		meta    bool
		lang    string
		baseURL string
	)
	cmd := &cobra.Command{
		Use:   "decode <token>",
		Short: "Decode a share token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			token := strings.TrimSpace(args[0])
			if meta {
				return printJSON(cmd.OutOrStdout(), share.MetaForToken(token, baseURL, i18n.Normalize(lang)))
			}
			payload, ok := share.Decode(token)
			if !ok {
				return fmt.Errorf("share token is invalid")
			}
			return printJSON(cmd.OutOrStdout(), payload)
		},
	}
	cmd.Flags().BoolVar(&meta, "meta", false, "Print Open Graph metadata instead of the payload")
	cmd.Flags().StringVar(&lang, "lang", "en", "Language for placeholder metadata")
	cmd.Flags().StringVar(&baseURL, "base-url", "http://localhost:8080", "Base URL for image links")
	return cmd
}
