// Recipeshare serves the recipe discovery site and its JSON API.
//
// Recipes are browsed from TheMealDB; signed-in users share their own
// recipes, which are stored in PostgreSQL with their images in S3.
//
// See 'recipeshare --help' for available commands.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pageza/recipeshare/internal/api"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "recipeshare",
	Short: "Recipe discovery and sharing server",
	Long: `Recipe Share serves server-rendered pages for browsing TheMealDB and a
JSON API. Signed-in users submit their own recipes with a photo.

Configuration comes from an optional YAML file, then the environment, then
secret files under SECRETS_DIR.`,
	Version: api.Version,
	Example: `  # Apply database migrations
  recipeshare migrate --config config.yaml

  # Start the server with debug logging
  recipeshare serve --log-level debug`,
	SilenceUsage: true,
}
