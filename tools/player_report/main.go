// Command player_report prints a player's pattern report straight from the
// configured store, without going through the HTTP API.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/fakebaseball/stats-api/internal/app"
	"github.com/fakebaseball/stats-api/internal/config"
	"github.com/fakebaseball/stats-api/internal/logic"
	"github.com/fakebaseball/stats-api/internal/models"
)

func main() {
	name := flag.String("name", "", "player name to search for")
	id := flag.Int64("id", 0, "player ID (skips the name search)")
	roleFlag := flag.String("role", "batting", "batting or pitching")
	flag.Parse()

	role, err := models.ParseRole(*roleFlag)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if *id <= 0 && *name == "" {
		fmt.Fprintln(os.Stderr, "one of -id or -name is required")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	logger, _ := zap.NewDevelopment()
	defer logger.Sync()
	log := logger.Sugar()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	b, err := app.Open(ctx, cfg, logger)
	if err != nil {
		log.Fatalw("Failed to open backends", "error", err)
	}
	defer b.Close()

	playerID := *id
	if playerID <= 0 {
		matches, err := logic.NewPlayerService(b.Directory, b.Cache, logger).Search(ctx, *name)
		if err != nil {
			log.Fatalw("Player search failed", "name", *name, "error", err)
		}
		if len(matches) == 0 {
			log.Fatalw("No player matches", "name", *name)
		}
		for _, p := range matches[1:] {
			log.Infow("Other match", "id", p.PlayerID, "name", p.PlayerName, "team", p.Team)
		}
		playerID = matches[0].PlayerID
	}

	report, err := b.PatternService(cfg, logger).Report(ctx, role, playerID)
	if err != nil {
		log.Fatalw("Failed to build report", "player", playerID, "error", err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		log.Fatalw("Failed to write report", "error", err)
	}
}
