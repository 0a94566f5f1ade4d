package academyhub

import (
	"encoding/json"
	"time"
)

// envelope is the hub's optional `{data: …}` wrapper. Some endpoints return
// bare payloads; unwrap handles both.
type envelope struct {
	Data json.RawMessage `json:"data"`
}

// errorResponse covers the two error body shapes the hub emits.
type errorResponse struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

type academyResponse struct {
	Name string `json:"name"`
	Logo string `json:"logo"`
}

type matchResponse struct {
	ID           string          `json:"id"`
	AcademyID    string          `json:"academy_id"`
	Academy      academyResponse `json:"academy"`
	AgeGroup     string          `json:"age_group"`
	MatchDate    string          `json:"match_date"`
	MatchTime    string          `json:"match_time"`
	LocationType string          `json:"location_type"`
	Address      string          `json:"address"`
	Stadium      string          `json:"stadium"`
	Latitude     *float64        `json:"latitude"`
	Longitude    *float64        `json:"longitude"`
	Phone        string          `json:"phone"`
	Duration     float64         `json:"duration"`
	Description  string          `json:"description"`
	Status       string          `json:"status"`
	AcceptedBy   string          `json:"accepted_by"`
	CreatedAt    time.Time       `json:"created_at"`
}

type createMatchRequest struct {
	AgeGroup     string   `json:"age_group"`
	MatchDate    string   `json:"match_date"`
	MatchTime    string   `json:"match_time"`
	LocationType string   `json:"location_type"`
	Address      string   `json:"address,omitempty"`
	Stadium      string   `json:"stadium,omitempty"`
	Latitude     *float64 `json:"latitude,omitempty"`
	Longitude    *float64 `json:"longitude,omitempty"`
	Phone        string   `json:"phone"`
	Duration     float64  `json:"duration"`
	Description  string   `json:"description,omitempty"`
}

type updateStatusRequest struct {
	Status string `json:"status"`
}
