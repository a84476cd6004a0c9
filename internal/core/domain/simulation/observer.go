package simulation

import (
	"drones/internal/core/domain/model/drone"
	"drones/internal/core/domain/model/kernel"
	"drones/internal/core/domain/model/order"
	"drones/internal/core/domain/model/warehouse"
)

// Observer is told about every state change of a simulation after it happened.
// Calls are made synchronously on the solver's goroutine, so implementations
// must return quickly and never block.
type Observer interface {
	DroneFlew(d *drone.Drone, from, to kernel.Position, cost int)
	OrderClaimed(o *order.Order)
	PackageRetrieved(w *warehouse.Warehouse, p kernel.Package)
	OrderCompleted(o *order.Order)
}

// NopObserver ignores every event. Embed it to implement only some methods.
type NopObserver struct{}

func (NopObserver) DroneFlew(*drone.Drone, kernel.Position, kernel.Position, int) {}
func (NopObserver) OrderClaimed(*order.Order) {}
func (NopObserver) PackageRetrieved(*warehouse.Warehouse, kernel.Package) {}
func (NopObserver) OrderCompleted(*order.Order) {}

type observers []Observer

func (os observers) droneFlew(d *drone.Drone, from, to kernel.Position, cost int) {
	for _, o := range os {
		o.DroneFlew(d, from, to, cost)
	}
}

func (os observers) orderClaimed(ord *order.Order) {
	for _, o := range os {
		o.OrderClaimed(ord)
	}
}

func (os observers) packageRetrieved(w *warehouse.Warehouse, p kernel.Package) {
	for _, o := range os {
		o.PackageRetrieved(w, p)
	}
}

func (os observers) orderCompleted(ord *order.Order) {
	for _, o := range os {
		o.OrderCompleted(ord)
	}
}
