package services

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/terraincognita07/fastfit/internal/models"
)

type FastingStateRecordRepository interface {
	FindByUserID(userID uint) (models.FastingStateRecord, bool, error)
	Upsert(record *models.FastingStateRecord) error
}

// FastingStateStore maps FastingState to its JSON row.
type FastingStateStore struct {
	records FastingStateRecordRepository
}

func NewFastingStateStore(records FastingStateRecordRepository) *FastingStateStore {
	return &FastingStateStore{records: records}
}

func (store *FastingStateStore) Load(userID uint) (FastingState, bool, error) {
	record, found, err := store.records.FindByUserID(userID)
	if err != nil || !found {
		return FastingState{}, false, err
	}
	if record.Version != FastingStateVersion {
		return FastingState{}, false, fmt.Errorf("%w: %d", ErrUnsupportedStateVersion, record.Version)
	}

	var state FastingState
	if err := json.Unmarshal([]byte(record.Payload), &state); err != nil {
		return FastingState{}, false, fmt.Errorf("decode fasting state: %w", err)
	}
	if state.History == nil {
		state.History = make(map[string]FastingCycle)
	}
	if err := state.Validate(); err != nil {
		return FastingState{}, false, fmt.Errorf("validate fasting state: %w", err)
	}
	return state, true, nil
}

func (store *FastingStateStore) Save(userID uint, state FastingState) error {
	payload, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encode fasting state: %w", err)
	}
	return store.records.Upsert(&models.FastingStateRecord{
		UserID:    userID,
		Version:   state.Version,
		Payload:   string(payload),
		UpdatedAt: time.Now().UTC(),
	})
}
