package services

import (
	"context"
	"fmt"

	"github.com/go-resty/resty/v2"
	"github.com/jaytnw/washwatch/internal/models"
)

// SnapshotFetcher polls the laundromat feed for a full snapshot.
type SnapshotFetcher interface {
	FetchSnapshot(ctx context.Context) (models.Snapshot, error)
}

type snapshotFetcher struct {
	client *resty.Client
	apiURL string
}

func NewSnapshotFetcher(url string) SnapshotFetcher {
	client := resty.New().
		SetHeader("Accept", "application/json")
	return &snapshotFetcher{
		client: client,
		apiURL: url,
	}
}

func (s *snapshotFetcher) FetchSnapshot(ctx context.Context) (models.Snapshot, error) {
	var result models.Snapshot

	resp, err := s.client.R().
		SetContext(ctx).
		ForceContentType("application/json").
		SetResult(&result).
		Get(s.apiURL)
	if err != nil {
		return models.Snapshot{}, err
	}

	if resp.StatusCode() != 200 {
		return models.Snapshot{}, fmt.Errorf("snapshot feed returned %d", resp.StatusCode())
	}

	return result, nil
}
