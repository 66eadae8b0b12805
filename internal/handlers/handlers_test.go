package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fakebaseball/stats-api/internal/analysis"
	"github.com/fakebaseball/stats-api/internal/models"
	"github.com/fakebaseball/stats-api/internal/store"
)

type testDeps struct {
	queue       *MockIngestQueue
	directory   *MockDirectory
	patterns    *MockPatternService
	predictions *MockPredictionService
	players     *MockPlayerService
	checks      map[string]func(ctx context.Context) error
	schemas     []SchemaTarget
}

func newTestDeps() *testDeps {
	return &testDeps{
		queue:       &MockIngestQueue{},
		directory:   &MockDirectory{},
		patterns:    &MockPatternService{},
		predictions: &MockPredictionService{},
		players:     &MockPlayerService{},
	}
}

func (d *testDeps) serve(method, path, body string) *httptest.ResponseRecorder {
	h := New(Config{
		WorkerPool:  d.queue,
		Directory:   d.directory,
		Logger:      zap.NewNop(),
		Checks:      d.checks,
		Schemas:     d.schemas,
		Patterns:    d.patterns,
		Predictions: d.predictions,
		Players:     d.players,
	})
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	w := httptest.NewRecorder()
	h.Routes(nil).ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v))
	return v
}

func TestHealth(t *testing.T) {
	w := newTestDeps().serve("GET", "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
}

func TestReady(t *testing.T) {
	d := newTestDeps()
	d.checks = map[string]func(ctx context.Context) error{
		"postgres": func(ctx context.Context) error { return nil },
	}
	assert.Equal(t, http.StatusOK, d.serve("GET", "/ready", "").Code)

	d.checks["redis"] = func(ctx context.Context) error { return errors.New("connection refused") }
	w := d.serve("GET", "/ready", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	body := decode[map[string]interface{}](t, w)
	assert.Equal(t, false, body["ready"])
}

const validPA = `{"paID":1,"gameID":2,"pitcherID":3,"hitterID":4,"pitch":500,"swing":450,"diff":50}`

func TestIngestPlateAppearances(t *testing.T) {
	tests := []struct {
		name          string
		body          string
		wantStatus    int
		wantProcessed int
		wantRejected  int
	}{
		{
			name:          "JSON array",
			body:          "[" + validPA + "," + validPA + "]",
			wantStatus:    http.StatusAccepted,
			wantProcessed: 2,
		},
		{
			name:          "NDJSON with string numbers",
			body:          validPA + "\n\n" + `{"paID":"2","gameID":"2","pitcherID":"3","hitterID":"4","pitch":"","swing":"","diff":""}`,
			wantStatus:    http.StatusAccepted,
			wantProcessed: 2,
		},
		{
			name:          "Missing IDs rejected",
			body:          validPA + "\n" + `{"paID":5,"gameID":2}`,
			wantStatus:    http.StatusAccepted,
			wantProcessed: 1,
			wantRejected:  1,
		},
		{
			name:          "Out of range swing rejected",
			body:          `{"paID":1,"gameID":2,"pitcherID":3,"hitterID":4,"swing":1001}`,
			wantStatus:    http.StatusAccepted,
			wantRejected:  1,
		},
		{
			name:          "Garbage line rejected",
			body:          "not json\n" + validPA,
			wantStatus:    http.StatusAccepted,
			wantProcessed: 1,
			wantRejected:  1,
		},
		{
			name:       "Malformed array",
			body:       "[" + validPA,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "Empty body",
			body:       "  ",
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := newTestDeps()
			w := d.serve("POST", "/api/v1/ingest/plate-appearances", tt.body)
			require.Equal(t, tt.wantStatus, w.Code, w.Body.String())
			if tt.wantStatus != http.StatusAccepted {
				return
			}
			resp := decode[models.IngestResponse](t, w)
			assert.Equal(t, tt.wantProcessed, resp.Processed)
			assert.Equal(t, tt.wantRejected, resp.Rejected)
			_, err := uuid.Parse(resp.BatchID)
			assert.NoError(t, err)
			assert.Len(t, d.queue.Enqueued, tt.wantProcessed)
		})
	}
}

func TestIngestPlateAppearances_StringNumbersDecoded(t *testing.T) {
	d := newTestDeps()
	body := `{"paID":"9","gameID":"2","pitcherID":"3","hitterID":"4","pitch":"500","swing":"","diff":"0"}`
	w := d.serve("POST", "/api/v1/ingest/plate-appearances", body)
	require.Equal(t, http.StatusAccepted, w.Code)
	require.Len(t, d.queue.Enqueued, 1)

	pa := d.queue.Enqueued[0]
	assert.Equal(t, int64(9), pa.PAID)
	require.NotNil(t, pa.Pitch)
	assert.Equal(t, 500, *pa.Pitch)
	assert.Nil(t, pa.Swing)
	require.NotNil(t, pa.Diff)
	assert.Equal(t, 0, *pa.Diff)
}

func TestIngestPlateAppearances_QueueFull(t *testing.T) {
	d := newTestDeps()
	d.queue.EnqueueFunc = func(*models.PlateAppearance, uuid.UUID) bool { return false }
	w := d.serve("POST", "/api/v1/ingest/plate-appearances", validPA)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	calls := 0
	d = newTestDeps()
	d.queue.EnqueueFunc = func(*models.PlateAppearance, uuid.UUID) bool {
		calls++
		return calls == 1
	}
	w = d.serve("POST", "/api/v1/ingest/plate-appearances", "["+validPA+","+validPA+","+validPA+"]")
	require.Equal(t, http.StatusAccepted, w.Code)
	resp := decode[models.IngestResponse](t, w)
	assert.Equal(t, "partial", resp.Status)
	assert.Equal(t, 1, resp.Processed)
	assert.Equal(t, 2, resp.Rejected)
}

func TestIngestPlayers(t *testing.T) {
	d := newTestDeps()
	body := `[{"playerID":"12","playerName":"Ace Swinger","team":"NYY"},{"playerID":13},{"playerID":14,"playerName":"Lefty"}]`
	w := d.serve("POST", "/api/v1/ingest/players", body)
	require.Equal(t, http.StatusOK, w.Code)

	resp := decode[models.UpsertPlayersResponse](t, w)
	assert.Equal(t, 2, resp.Upserted)
	assert.Equal(t, 1, resp.Rejected)
	require.Len(t, d.directory.Upserted, 2)
	assert.Equal(t, int64(12), d.directory.Upserted[0].PlayerID)

	d = newTestDeps()
	d.directory.UpsertErr = errors.New("postgres down")
	w = d.serve("POST", "/api/v1/ingest/players", body)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestSearchPlayers(t *testing.T) {
	d := newTestDeps()
	assert.Equal(t, http.StatusBadRequest, d.serve("GET", "/api/v1/players/search?name=+", "").Code)

	d.players.SearchFunc = func(ctx context.Context, name string) ([]models.Player, error) {
		return []models.Player{{PlayerID: 1, PlayerName: name}}, nil
	}
	w := d.serve("GET", "/api/v1/players/search?name=Ace", "")
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[models.PlayerSearchResponse](t, w)
	assert.Equal(t, "Ace", resp.Query)
	assert.Len(t, resp.Players, 1)

	d.players.SearchFunc = func(ctx context.Context, name string) ([]models.Player, error) { return nil, nil }
	w = d.serve("GET", "/api/v1/players/search?name=Nobody", "")
	assert.Contains(t, w.Body.String(), `"players":[]`)
}

func TestGetPlayer(t *testing.T) {
	d := newTestDeps()
	assert.Equal(t, http.StatusOK, d.serve("GET", "/api/v1/players/5", "").Code)
	assert.Equal(t, http.StatusBadRequest, d.serve("GET", "/api/v1/players/abc", "").Code)
	assert.Equal(t, http.StatusBadRequest, d.serve("GET", "/api/v1/players/0", "").Code)

	d.players.GetFunc = func(ctx context.Context, id int64) (*models.Player, error) {
		return nil, store.ErrPlayerNotFound
	}
	assert.Equal(t, http.StatusNotFound, d.serve("GET", "/api/v1/players/5", "").Code)

	d.players.GetFunc = func(ctx context.Context, id int64) (*models.Player, error) {
		return nil, errors.New("boom")
	}
	assert.Equal(t, http.StatusInternalServerError, d.serve("GET", "/api/v1/players/5", "").Code)
}

func TestStatsEndpoints(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		wantStatus int
	}{
		{"Distribution", "/api/v1/stats/batting/7/distribution", http.StatusOK},
		{"Role alias", "/api/v1/stats/pitch/7/distribution", http.StatusOK},
		{"Bad role", "/api/v1/stats/fielding/7/distribution", http.StatusBadRequest},
		{"Bad ID", "/api/v1/stats/batting/x/distribution", http.StatusBadRequest},
		{"Deltas default", "/api/v1/stats/batting/7/deltas", http.StatusOK},
		{"Deltas legacy", "/api/v1/stats/batting/7/deltas?scheme=legacy", http.StatusOK},
		{"Deltas bad scheme", "/api/v1/stats/batting/7/deltas?scheme=fancy", http.StatusBadRequest},
		{"Modifiers", "/api/v1/stats/batting/7/modifiers", http.StatusOK},
		{"Matrix", "/api/v1/stats/batting/7/matrix/delta", http.StatusOK},
		{"Matrix bad kind", "/api/v1/stats/batting/7/matrix/diagonal", http.StatusBadRequest},
		{"History", "/api/v1/stats/batting/7/history?limit=3", http.StatusOK},
		{"History bad limit", "/api/v1/stats/batting/7/history?limit=-1", http.StatusBadRequest},
		{"First values", "/api/v1/stats/batting/7/first-values", http.StatusOK},
		{"Sequences", "/api/v1/stats/batting/7/sequences?games=2", http.StatusOK},
		{"Sequences bad games", "/api/v1/stats/batting/7/sequences?games=two", http.StatusBadRequest},
		{"Report", "/api/v1/stats/pitching/7/report", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := newTestDeps().serve("GET", tt.path, "")
			assert.Equal(t, tt.wantStatus, w.Code, w.Body.String())
		})
	}
}

func TestStatsEndpoints_PassParameters(t *testing.T) {
	d := newTestDeps()

	d.serve("GET", "/api/v1/stats/hitting/7/deltas?scheme=legacy", "")
	assert.Equal(t, models.RoleBatting, d.patterns.LastRole)
	assert.Equal(t, int64(7), d.patterns.LastID)
	assert.Equal(t, analysis.SchemeDeltaLegacy, d.patterns.LastScheme.Name)

	d.serve("GET", "/api/v1/stats/batting/7/matrix/modifier", "")
	assert.Equal(t, analysis.MatrixModifier, d.patterns.LastKind)

	d.serve("GET", "/api/v1/stats/batting/7/history", "")
	assert.Equal(t, 0, d.patterns.LastLimit)
	d.serve("GET", "/api/v1/stats/batting/7/history?limit=4", "")
	assert.Equal(t, 4, d.patterns.LastLimit)
}

func TestStatsEndpoints_ServiceError(t *testing.T) {
	d := newTestDeps()
	d.patterns.Err = errors.New("clickhouse down")
	w := d.serve("GET", "/api/v1/stats/batting/7/report", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "Failed to build pattern report")
}

func TestGetPrediction(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		wantStatus int
	}{
		{"No priors", "", http.StatusOK},
		{"Both priors", "?prior_value=500&prior_modifier=100", http.StatusOK},
		{"Value not a number", "?prior_value=abc", http.StatusBadRequest},
		{"Value out of range", "?prior_value=1001", http.StatusBadRequest},
		{"Value zero", "?prior_value=0", http.StatusBadRequest},
		{"Modifier out of range", "?prior_modifier=501", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := newTestDeps().serve("GET", "/api/v1/predictions/batting/7"+tt.query, "")
			assert.Equal(t, tt.wantStatus, w.Code, w.Body.String())
		})
	}
}

func TestGetPrediction_PassesPriors(t *testing.T) {
	d := newTestDeps()
	var gotPrior, gotMod *int
	d.predictions.PredictFunc = func(ctx context.Context, role models.Role, id int64, prior, mod *int) (*models.PredictionResult, error) {
		gotPrior, gotMod = prior, mod
		return &models.PredictionResult{PlayerID: id, Role: role}, nil
	}

	w := d.serve("GET", "/api/v1/predictions/pitching/7?prior_value=250", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, gotPrior)
	assert.Equal(t, 250, *gotPrior)
	assert.Nil(t, gotMod)

	d.predictions.PredictFunc = func(ctx context.Context, role models.Role, id int64, prior, mod *int) (*models.PredictionResult, error) {
		return nil, errors.New("boom")
	}
	assert.Equal(t, http.StatusInternalServerError, d.serve("GET", "/api/v1/predictions/pitching/7", "").Code)
}

func TestInstallDatabase(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "schema.sql")
	require.NoError(t, os.WriteFile(path, []byte("CREATE TABLE t (x INT);"), 0o644))

	ok := &MockInstaller{}
	failing := &MockInstaller{Err: errors.New("syntax error")}

	d := newTestDeps()
	d.schemas = []SchemaTarget{{Name: "postgres", Path: path, Installer: ok}}
	w := d.serve("POST", "/api/v1/system/install", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"CREATE TABLE t (x INT);"}, ok.Schemas)

	d.schemas = append(d.schemas,
		SchemaTarget{Name: "clickhouse", Path: path, Installer: failing},
		SchemaTarget{Name: "sqlite", Path: filepath.Join(dir, "missing.sql"), Installer: ok},
	)
	w = d.serve("POST", "/api/v1/system/install", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	body := decode[map[string]interface{}](t, w)
	results := body["results"].(map[string]interface{})
	assert.Equal(t, "success", results["postgres"])
	assert.Contains(t, results["clickhouse"], "syntax error")
	assert.Contains(t, results["sqlite"], "failed")
}
