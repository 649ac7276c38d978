// cmd/tools/jobless-cli/main.go
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "jobless-cli",
	Short: "Offline tools for the jobless risk scorer",
	Long: `jobless-cli runs the AI replacement risk calculator, encodes and decodes
share tokens, and maintains the activity registry without a running server.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(newCalcCmd())
	rootCmd.AddCommand(newShareCmd())
	rootCmd.AddCommand(newRegistryCmd())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func printJSON(w io.Writer, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
