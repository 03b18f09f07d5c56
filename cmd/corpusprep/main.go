package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/corpustools/corpusprep/internal/app"
)

func main() {
	cfgFileName := flag.String("c", "config.yml", "Path to config file")
	datasetKind := flag.String("d", "", "Dataset source (iwslt15, iwslt16, wmt16, localdir)")
	pair := flag.String("p", "", "Language pair, e.g. en-vi")
	flag.Parse()

	if *datasetKind == "" || *pair == "" {
		flag.Usage()
		os.Exit(2)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := app.New(*cfgFileName).Run(ctx, *datasetKind, *pair); err != nil {
		fmt.Fprintf(os.Stderr, "corpusprep: %s\n", err)
		os.Exit(1)
	}
}
