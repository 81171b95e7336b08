package store

import (
	"encoding/json"
	"fmt"

	"github.com/randalmurphal/evgen/pkg/evgen/event"
	"github.com/randalmurphal/evgen/pkg/evgen/species"
)

// SaveEvent serializes ev and stores it. It returns the stored size.
func SaveEvent(s Store, runID string, n int64, ev *event.Event) (int, error) {
	data, err := json.Marshal(ev)
	if err != nil {
		return 0, fmt.Errorf("marshal event %d: %w", n, err)
	}
	if err := s.Save(runID, n, data); err != nil {
		return 0, err
	}
	return len(data), nil
}

// LoadEvent loads a stored record and links its particles to svc.
func LoadEvent(s Store, runID string, n int64, svc species.Service) (*event.Event, error) {
	data, err := s.Load(runID, n)
	if err != nil {
		return nil, err
	}
	ev := event.New(svc)
	if err := json.Unmarshal(data, ev); err != nil {
		return nil, fmt.Errorf("unmarshal event %d: %w", n, err)
	}
	return ev, nil
}
