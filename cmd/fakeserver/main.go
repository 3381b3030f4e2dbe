package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	"github.com/dmitrijs2005/bucketlist/internal/fakebackend"
	"github.com/dmitrijs2005/bucketlist/internal/logging"
)

func main() {

	cfg, err := fakebackend.LoadConfig(os.Args[1:])
	if err != nil {
		log.Fatalf("%v", err)
	}

	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))
	if err := fakebackend.NewServer(cfg, logger).Run(context.Background()); err != nil {
		log.Fatalf("%v", err)
	}

}
