package command

import (
	"fmt"

	"aniverse/internal/ingestion/anilist"
	"aniverse/internal/microservices/http-api/repository"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import catalog data from external sources",
}

var (
	anilistURL     string
	anilistPages   int
	anilistPerPage int
	anilistWorkers int
)

var importAniListCmd = &cobra.Command{
	Use:   "anilist",
	Short: "Import the most popular anime from AniList",
	Long: `Fetches anime from the AniList GraphQL API, most popular first, and upserts
them by title. Missing studios and genres are created. Entries without a title,
main studio, genres or year are skipped.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		importer := anilist.NewImporter(
			anilist.NewClient(anilistURL, logger),
			repository.NewCatalogImportRepository(db),
			logger,
		)
		stats, err := importer.Run(cmd.Context(), anilist.Options{
			Pages:   anilistPages,
			PerPage: anilistPerPage,
			Workers: anilistWorkers,
		})
		out := cmd.OutOrStdout()
		if err != nil {
			color.New(color.FgYellow).Fprintln(out, stats)
			return fmt.Errorf("import stopped: %w", err)
		}
		summary := color.New(color.FgGreen)
		if stats.Failed > 0 {
			summary = color.New(color.FgYellow)
		}
		summary.Fprintln(out, stats)
		return nil
	},
}

func init() {
	importAniListCmd.Flags().StringVar(&anilistURL, "api-url", anilist.DefaultAPIURL, "AniList GraphQL endpoint")
	importAniListCmd.Flags().IntVar(&anilistPages, "pages", 3, "number of pages to fetch")
	importAniListCmd.Flags().IntVar(&anilistPerPage, "per-page", 50, "entries per page (max 50)")
	importAniListCmd.Flags().IntVar(&anilistWorkers, "workers", 4, "concurrent database writers")

	importCmd.AddCommand(importAniListCmd)
}
