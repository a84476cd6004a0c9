package warehouse_test

import (
	"testing"

	"drones/internal/core/domain/model/kernel"
	"drones/internal/core/domain/model/warehouse"
	"drones/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createPackage(t *testing.T, name string) kernel.Package {
	t.Helper()
	p, err := kernel.NewPackage(name)
	require.NoError(t, err)
	return p
}

func createWarehouse(t *testing.T, packages ...kernel.Package) *warehouse.Warehouse {
	t.Helper()
	w, err := warehouse.NewWarehouse("W", kernel.Origin, packages)
	require.NoError(t, err)
	return w
}

func TestNewWarehouse(t *testing.T) {
	box := createPackage(t, "Box")
	crate := createPackage(t, "Crate")

	t.Run("should group packages by name", func(t *testing.T) {
		w := createWarehouse(t, box, crate, box, box)

		require.NoError(t, w.Validate())
		assert.Equal(t, "W", w.Name())
		assert.Equal(t, kernel.Origin, w.Position())
		assert.Equal(t, 3, w.Count(box))
		assert.Equal(t, 1, w.Count(crate))
		assert.Equal(t, map[kernel.Package]int{box: 3, crate: 1}, w.Inventory())
	})

	t.Run("should allow an empty warehouse", func(t *testing.T) {
		w := createWarehouse(t)

		assert.Empty(t, w.Inventory())
		assert.False(t, w.Contains(box))
	})

	t.Run("should reject blank name", func(t *testing.T) {
		w, err := warehouse.NewWarehouse("", kernel.Origin, nil)

		require.ErrorIs(t, err, errs.ErrValueIsRequired)
		assert.Nil(t, w)
	})

	t.Run("should reject zero value packages", func(t *testing.T) {
		_, err := warehouse.NewWarehouse("W", kernel.Origin, []kernel.Package{{}})
		require.ErrorIs(t, err, kernel.ErrPackageNameIsRequired)
	})
}

func TestNewWarehouseWithCounts(t *testing.T) {
	box := createPackage(t, "Box")
	crate := createPackage(t, "Crate")

	t.Run("should skip zero counts", func(t *testing.T) {
		w, err := warehouse.NewWarehouseWithCounts("W", kernel.Origin, map[kernel.Package]int{box: 2, crate: 0})

		require.NoError(t, err)
		assert.Equal(t, 2, w.Count(box))
		assert.False(t, w.Contains(crate))
		assert.NotContains(t, w.Inventory(), crate)
	})

	t.Run("should reject negative counts", func(t *testing.T) {
		_, err := warehouse.NewWarehouseWithCounts("W", kernel.Origin, map[kernel.Package]int{box: -1})
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})
}

func TestWarehouse_Retrieve(t *testing.T) {
	box := createPackage(t, "Box")

	t.Run("exactly N retrievals succeed for N units", func(t *testing.T) {
		for _, n := range []int{1, 2, 5} {
			packages := make([]kernel.Package, n)
			for i := range packages {
				packages[i] = box
			}
			w := createWarehouse(t, packages...)

			for i := range n {
				got, err := w.Retrieve(box)
				require.NoError(t, err, "retrieval %d of %d", i+1, n)
				assert.Equal(t, box, got)
			}

			_, err := w.Retrieve(box)
			require.ErrorIs(t, err, warehouse.ErrOutOfStock)
		}
	})

	t.Run("exhausted package is removed from the inventory", func(t *testing.T) {
		w := createWarehouse(t, box)

		_, err := w.Retrieve(box)

		require.NoError(t, err)
		assert.False(t, w.Contains(box))
		assert.NotContains(t, w.Inventory(), box)
		assert.Equal(t, 0, w.Count(box))
	})

	t.Run("never stocked package is out of stock", func(t *testing.T) {
		w := createWarehouse(t, box)

		_, err := w.Retrieve(createPackage(t, "Crate"))

		require.ErrorIs(t, err, warehouse.ErrOutOfStock)
		assert.Contains(t, err.Error(), "Crate")
		assert.Equal(t, 1, w.Count(box))
	})

	t.Run("a package with the same name is the same good", func(t *testing.T) {
		w := createWarehouse(t, box)

		_, err := w.Retrieve(createPackage(t, "Box"))

		require.NoError(t, err)
	})
}

func TestWarehouse_Inventory(t *testing.T) {
	t.Run("should return a copy", func(t *testing.T) {
		box := createPackage(t, "Box")
		w := createWarehouse(t, box)

		inv := w.Inventory()
		inv[box] = 100

		assert.Equal(t, 1, w.Count(box))
	})
}

func TestWarehouse_Validate(t *testing.T) {
	var w *warehouse.Warehouse
	require.ErrorIs(t, w.Validate(), warehouse.ErrWarehouseIsNotConstructed)

	var zero warehouse.Warehouse
	require.ErrorIs(t, zero.Validate(), warehouse.ErrWarehouseIsNotConstructed)
}
