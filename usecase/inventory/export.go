package inventory

import (
	"context"
	"fmt"
)

// ExportOutput reports how many hosts were written.
type ExportOutput struct {
	Hosts int `json:"hosts"`
}

// Export re-renders the downstream inventory from the recorded hosts.
func (u *UseCase) Export(ctx context.Context) (*ExportOutput, error) {
	if u.Exporter == nil {
		return nil, fmt.Errorf("no inventory exporter configured")
	}
	list, err := u.List(ctx, nil)
	if err != nil {
		return nil, err
	}
	if err := u.Exporter.Export(ctx, list.Hosts); err != nil {
		return nil, fmt.Errorf("export inventory: %w", err)
	}
	return &ExportOutput{Hosts: len(list.Hosts)}, nil
}
