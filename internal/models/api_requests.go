package models

// IngestResponse is returned by the plate appearance ingest endpoint.
type IngestResponse struct {
	BatchID   string `json:"batch_id"`
	Status    string `json:"status"`
	Processed int    `json:"processed"`
	Rejected  int    `json:"rejected"`
}

// UpsertPlayersResponse is returned by the player ingest endpoint.
type UpsertPlayersResponse struct {
	Status   string `json:"status"`
	Upserted int    `json:"upserted"`
	Rejected int    `json:"rejected"`
}

// PlayerSearchResponse lists directory matches for a name query.
type PlayerSearchResponse struct {
	Query   string   `json:"query"`
	Players []Player `json:"players"`
}
