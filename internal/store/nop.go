package store

import (
	"context"

	"jobscout/internal/model"
)

// NopStore is used in dry runs: nothing exists, nothing is written.
type NopStore struct{}

func NewNopStore() *NopStore { return &NopStore{} }

func (NopStore) Exists(context.Context, string, string, string) (bool, error) { return false, nil }

func (NopStore) Insert(context.Context, string, model.JobListing) error { return nil }

func (NopStore) ListByUser(context.Context, string) ([]model.JobListing, error) { return nil, nil }
