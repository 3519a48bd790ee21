package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "ragbot",
	Short: "Telegram front-end for a RAG knowledge service",
	Long:  "ragbot relays Telegram text, documents, and voice messages to a RAG HTTP backend and renders the replies with inline menus.",
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
