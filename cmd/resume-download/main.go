package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"job-tracker/internal/infrastructure/blob"
	"job-tracker/internal/usecase"
)

func main() {
	var (
		url     = flag.String("url", "", "public URL of the resume document")
		title   = flag.String("title", "", "profile title used to name the saved file")
		out     = flag.String("out", ".", "directory to save into")
		timeout = flag.Duration("timeout", 30*time.Second, "download timeout")
		maxSize = flag.Int64("max-bytes", 10<<20, "largest document accepted")
	)
	flag.Parse()

	logger := log.New(os.Stderr, "", log.LstdFlags)
	if *url == "" || *title == "" {
		flag.Usage()
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	fetcher := blob.NewHTTPFetcher(*timeout, *maxSize, logger)
	d, err := usecase.FetchDownload(ctx, fetcher, *url, *title)
	if err != nil {
		logger.Fatalf("[Download] fetch failed url=%s err=%v", *url, err)
	}

	p, err := usecase.SaveDownload(*out, d)
	if err != nil {
		logger.Fatalf("[Download] save failed dir=%s err=%v", *out, err)
	}
	logger.Printf("[Download] saved path=%s bytes=%d", p, len(d.Data))
}
