package budget

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"
)

// State is the persisted daily ledger.
type State struct {
	Day          string          `json:"day"`
	DailyLimit   decimal.Decimal `json:"daily_limit"`
	Spent        decimal.Decimal `json:"spent"`
	Reservations int             `json:"reservations"`
	Releases     int             `json:"releases"`
	Rejections   int             `json:"rejections"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// Remaining returns the unreserved part of the daily limit.
func (s State) Remaining() decimal.Decimal {
	r := s.DailyLimit.Sub(s.Spent)
	if r.IsNegative() {
		return decimal.Zero
	}
	return r
}

// LoadState reads the ledger state from a JSON file. Returns a zero state if
// the path is empty or the file doesn't exist.
func LoadState(filePath string) (*State, error) {
	if filePath == "" {
		return &State{}, nil
	}
	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return &State{}, nil
		}
		return nil, err
	}
	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, err
	}
	return &state, nil
}

// SaveState writes the ledger state to a JSON file. An empty path keeps the
// ledger in memory only.
func SaveState(filePath string, state *State) error {
	state.UpdatedAt = time.Now()
	if filePath == "" {
		return nil
	}
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return err
	}
	if dir := filepath.Dir(filePath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(filePath, data, 0644)
}
