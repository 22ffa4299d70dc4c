package main

import (
	"encoding/json"
	"fmt"
	"os"

	"go-dgpa-watcher/internal/extract"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var (
	parseKeyword string
	noFallback   bool
)

var parseCmd = &cobra.Command{
	Use:   "parse FILE...",
	Short: "Extract postings from saved result pages and print them as JSON",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runParse,
}

type parseOutput struct {
	File string `json:"file"`
	extract.Result
}

func runParse(cmd *cobra.Command, args []string) error {
	ex := newExtractor(nil, !noFallback)

	outputs := make([]parseOutput, len(args))
	g, ctx := errgroup.WithContext(cmd.Context())
	g.SetLimit(4)
	for i, path := range args {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			data, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			res, err := ex.Extract(string(data), parseKeyword)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			logger.Debug("Parsed file", zap.String("file", path), zap.Int("postings", len(res.Postings)))
			outputs[i] = parseOutput{File: path, Result: res}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(outputs)
}
