package main

import (
	"flag"
	"io"
	"log"
	"log/slog"
	"os"

	"sprint/client"
	"sprint/tetris"
)

func main() {
	noGhost := flag.Bool("noghost", false, "hide the ghost piece")
	addr := flag.String("addr", "localhost:9000", "address of the server used for online play")
	logFile := flag.String("log", "", "write debug logs to this file")
	flag.Parse()

	// the terminal is in raw mode so logs can't go to stderr.
	var w io.Writer = io.Discard
	level := slog.LevelInfo
	if *logFile != "" {
		f, err := os.OpenFile(*logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			log.Fatalf("unable to open log file: %v", err)
		}
		defer f.Close()
		w = f
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))

	c, err := client.New(logger, &client.Options{
		NoGhost: *noGhost,
		Address: *addr,
		Config:  tetris.DefaultConfig(),
	})
	if err != nil {
		log.Fatalf("unable to start client: %v", err)
	}
	defer c.Close()
	c.Start()
}
