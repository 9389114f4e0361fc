package main

import (
	"errors"
	"os"
	"time"

	"github.com/rs/zerolog/log"

	"badminton-eval-go/config"
	"badminton-eval-go/db"
	"badminton-eval-go/handlers"
	"badminton-eval-go/logger"
)

func main() {
	os.Exit(realMain())
}

func realMain() int {
	cfg, err := config.Load()
	if err != nil {
		boot := logger.New()
		boot.Error().Err(err).Msg("Failed to load configuration")
		return 1
	}

	lg := logger.NewWithConfig(cfg.Logging.Level, cfg.Logging.Pretty, cfg.Logging.NoColor)
	log.Logger = lg

	blobs, closeBlobs, err := db.NewBlobStore(cfg)
	if err != nil {
		lg.Error().Err(err).Str("backend", cfg.Storage.Backend).Msg("Failed to initialize storage")
		return 1
	}
	defer func() {
		if err := closeBlobs(); err != nil {
			lg.Warn().Err(err).Msg("Error closing storage")
		}
	}()

	store, err := db.Open(blobs, lg)
	if err != nil {
		lg.Error().Err(err).Msg("Failed to open gradebook")
		return 1
	}

	cli := &commandLine{
		h:       handlers.NewHandler(store, os.Stdout, lg),
		in:      os.Stdin,
		stdinFd: int(os.Stdin.Fd()),
		out:     os.Stdout,
		errOut:  os.Stderr,
		now:     time.Now,
	}
	if err := cli.run(os.Args); err != nil {
		if !errors.Is(err, errHelp) {
			lg.Error().Err(err).Msg("Command failed")
		}
		return 1
	}
	return 0
}
