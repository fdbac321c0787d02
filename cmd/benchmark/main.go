package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"moodrec/config"
	"moodrec/internal/app"
	"moodrec/internal/domain"
	"moodrec/internal/logging"
)

func main() {
	dir := flag.String("dir", ".", "Directory holding moodrec.yaml and .env")
	topN := flag.Int("n", 10, "Number of results per mood")
	only := flag.String("mood", "", "Benchmark a single mood")
	flag.Parse()

	if err := config.LoadDotEnv(*dir); err != nil {
		fmt.Fprintf(os.Stderr, "Error loading .env: %v\n", err)
		os.Exit(1)
	}
	cfg, err := config.LoadFromDir(*dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	cfg.ApplyEnv()

	log := logging.New(logging.Config{Level: "warn", Format: cfg.Logging.Format})
	a := app.New(cfg, log)
	ctx := context.Background()

	res, err := a.Setup(ctx, app.SetupOptions{})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Setup failed: %v\n", err)
		os.Exit(1)
	}
	defer a.Close()

	fmt.Println("MOOD RETRIEVAL BENCHMARK")
	fmt.Println(strings.Repeat("=", 70))
	fmt.Printf("Titles indexed: %d\n", res.Index.Count)
	fmt.Printf("Model: %s (%s)\n", cfg.Embedding.Model, cfg.Embedding.Provider)
	fmt.Printf("Metric: %s\n\n", cfg.Index.Metric)

	moods := domain.Moods
	if *only != "" {
		m, ok := domain.LookupMood(*only)
		if !ok {
			fmt.Fprintf(os.Stderr, "%v: %s\n", domain.ErrUnknownMood, *only)
			os.Exit(1)
		}
		moods = []domain.Mood{m}
	}

	var total float64
	var count int
	for _, m := range moods {
		hits, err := a.Search(ctx, m.QueryPhrase, *topN)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Search error for %s: %v\n", m.ID, err)
			continue
		}

		fmt.Printf("%s  \"%s\"\n", m.DisplayLabel, m.QueryPhrase)
		fmt.Println(strings.Repeat("-", 70))
		if len(hits) == 0 {
			fmt.Print("   no results\n\n")
			continue
		}

		genres := make(map[string]int)
		for i, h := range hits {
			genres[h.Item.Genre]++
			total += h.Distance
			count++
			if i < 5 {
				fmt.Printf("%2d. [%.3f] %s (%s, %s)\n", i+1, h.Distance, h.Item.Title, h.Item.Category, h.Item.Genre)
			}
		}
		fmt.Printf("   top-1 distance: %.3f, distinct genres: %d\n\n", hits[0].Distance, len(genres))
	}

	if count == 0 {
		return
	}
	fmt.Println(strings.Repeat("=", 70))
	fmt.Printf("QUALITY METRICS:\n")
	fmt.Printf("  Average distance: %.3f over %d hits\n", total/float64(count), count)
}
