package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/rocketscienceinc/tictactoe-minimax/internal/console"
)

var (
	firstFlag   = flag.String("first", "human", "who plays X and moves first: human or bot")
	noColorFlag = flag.Bool("no-color", false, "disable colored output")
	debugFlag   = flag.Bool("debug", false, "log engine searches to stderr")
)

func main() {
	flag.Parse()

	if *firstFlag != "human" && *firstFlag != "bot" {
		fmt.Fprintf(os.Stderr, "unknown -first value %q, want human or bot\n", *firstFlag)
		os.Exit(2)
	}

	level := slog.LevelWarn
	if *debugFlag {
		level = slog.LevelDebug
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	session := console.New(logger, os.Stdin, os.Stdout, console.Options{
		HumanFirst: *firstFlag == "human",
		Colors:     !*noColorFlag,
	})

	if err := session.Run(); err != nil {
		logger.Error("console session failed", "error", err)
		os.Exit(1)
	}
}
