// Command seeder generates a synthetic two-team season and posts it to a
// running stats API: players first, then plate appearances in NDJSON chunks.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/fakebaseball/stats-api/internal/models"
)

func main() {
	apiURL := flag.String("api", "http://localhost:8080/api/v1", "base URL of the stats API")
	games := flag.Int("games", 20, "number of games to generate")
	seed := flag.Uint64("seed", 1, "random seed")
	seasonNumber := flag.Int("season", 1, "season number stamped on every appearance")
	chunk := flag.Int("chunk", 500, "appearances per ingest request")
	flag.Parse()

	logger, _ := zap.NewDevelopment()
	defer logger.Sync()
	log := logger.Sugar()

	s := generateSeason(*seed, *games, *seasonNumber)
	log.Infow("Generated season", "players", len(s.Players), "appearances", len(s.Appearances), "games", *games)

	client := &http.Client{Timeout: 30 * time.Second}
	base := strings.TrimRight(*apiURL, "/")

	players, err := json.Marshal(s.Players)
	if err != nil {
		log.Fatalw("Failed to marshal players", "error", err)
	}
	if err := post(client, base+"/ingest/players", players, log); err != nil {
		log.Fatalw("Player upload failed", "error", err)
	}

	for start := 0; start < len(s.Appearances); start += *chunk {
		end := min(start+*chunk, len(s.Appearances))
		body, err := ndjson(s.Appearances[start:end])
		if err != nil {
			log.Fatalw("Failed to encode appearances", "error", err)
		}
		if err := post(client, base+"/ingest/plate-appearances", body, log); err != nil {
			log.Errorw("Appearance upload failed", "from", start, "to", end, "error", err)
			os.Exit(1)
		}
	}
	log.Info("Seeding complete")
}

func ndjson(pas []models.PlateAppearance) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for i := range pas {
		if err := enc.Encode(&pas[i]); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}

func post(client *http.Client, url string, body []byte, log *zap.SugaredLogger) error {
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
		return fmt.Errorf("%s: %s", resp.Status, strings.TrimSpace(string(respBody)))
	}
	log.Infow("Posted", "url", url, "status", resp.StatusCode, "response", strings.TrimSpace(string(respBody)))
	return nil
}
