package inventory

import "github.com/yaegashi/octops/domain"

// UseCase exposes read access to the recorded inventory.
type UseCase struct {
	Store    domain.UnitOfWork
	Exporter domain.InventoryExporter
}
