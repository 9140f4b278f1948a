package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gcbaptista/go-retrieval-engine/internal/engine"
	"github.com/gcbaptista/go-retrieval-engine/services"
)

var (
	queryText       string
	queryModel      string
	queryLimit      int
	queryNoSpelling bool
	queryJSON       bool
	queryCorpus     []string
)

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Search a corpus once",
	Long: `Load the corpus, build the index and print the ranked results for one query.

Examples:
  search_engine query -q "inverted index" --corpus "data/*.json"
  search_engine query -q "cosine similarity" --model phrase --json`,
	RunE: runQuery,
}

func init() {
	rootCmd.AddCommand(queryCmd)
	queryCmd.Flags().StringVarP(&queryText, "query", "q", "", "search query (required)")
	queryCmd.Flags().StringVarP(&queryModel, "model", "m", "", "retrieval model: boolean, vector or phrase (default from config)")
	queryCmd.Flags().IntVarP(&queryLimit, "limit", "k", 0, "number of results (default from config)")
	queryCmd.Flags().BoolVar(&queryNoSpelling, "no-spelling", false, "disable spelling correction")
	queryCmd.Flags().BoolVar(&queryJSON, "json", false, "output as JSON")
	queryCmd.Flags().StringSliceVar(&queryCorpus, "corpus", nil, "corpus file globs (default from config)")
	_ = queryCmd.MarkFlagRequired("query")
}

func runQuery(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()

	model, err := services.ParseRetrievalModel(queryModel)
	if err != nil {
		return err
	}

	eng := engine.NewEngine(cfg.Engine)
	var progress io.Writer
	if !queryJSON {
		progress = cmd.ErrOrStderr()
	}
	if err := populate(cmd.Context(), eng, corpusPatterns(queryCorpus, cfg), progress); err != nil {
		return err
	}

	response, err := eng.Search(queryText, services.SearchOptions{
		Model:                 model,
		Limit:                 queryLimit,
		UseSpellingCorrection: !queryNoSpelling && cfg.Engine.SpellingCorrectionEnabled(),
	})
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	out := cmd.OutOrStdout()
	if queryJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(response)
	}
	printResponse(out, queryText, response)
	return nil
}

func printResponse(out io.Writer, query string, response services.SearchResponse) {
	if correction := response.SpellingCorrection; correction != nil && correction.HadCorrections {
		fmt.Fprintf(out, "Did you mean: %s\n\n", correction.Corrected)
	}

	fmt.Fprintf(out, "Found %d result(s) for %q (model=%s, %dms)\n", response.Total, query, response.Model, response.Took)
	for i, hit := range response.Hits {
		fmt.Fprintf(out, "\n%2d. [%.4f] %s (%s)\n", i+1, hit.Score, hit.Document.Title, hit.Document.ID)
		if summary := hit.Document.Summary(20); summary != "" {
			fmt.Fprintf(out, "    %s\n", summary)
		}
	}
	if len(response.Hits) < response.Total {
		fmt.Fprintf(out, "\n... %d more\n", response.Total-len(response.Hits))
	}

	if len(response.TopTerms) > 0 {
		terms := make([]string, 0, len(response.TopTerms))
		for _, tf := range response.TopTerms {
			terms = append(terms, fmt.Sprintf("%s(%d)", tf.Term, tf.Frequency))
		}
		fmt.Fprintf(out, "\nRelated terms: %s\n", strings.Join(terms, ", "))
	}
}
