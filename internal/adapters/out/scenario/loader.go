// Package scenario loads simulation scenarios from a directory holding three
// documents: settings, warehouses and orders. Each may be JSON (.json) or YAML
// (.yaml, .yml); JSON is read as the YAML subset it is.
//
// Warehouses and customers are mappings keyed by name. Their document order is
// kept, so warehouse scan order and order arrival order match the file.
package scenario

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"drones/internal/core/domain/model/customer"
	"drones/internal/core/domain/model/drone"
	"drones/internal/core/domain/model/grid"
	"drones/internal/core/domain/model/kernel"
	"drones/internal/core/domain/model/order"
	"drones/internal/core/domain/model/warehouse"
	"drones/internal/core/ports"
	"drones/internal/pkg/errs"

	"gopkg.in/yaml.v3"
)

const (
	SettingsDocument   = "settings"
	WarehousesDocument = "warehouses"
	OrdersDocument     = "orders"
)

var (
	ErrDocumentNotFound = errors.New("scenario document not found")
	ErrMalformed        = errors.New("malformed scenario document")
)

var extensions = []string{".json", ".yaml", ".yml"}

// FileLoader reads a fresh scenario from disk on every Load.
type FileLoader struct {
	fsys            fs.FS
	logger          *slog.Logger
	orderPerPackage bool
}

// Option configures a FileLoader.
type Option func(*FileLoader)

// WithOrderPerPackage splits every customer entry into single-package orders,
// so each package is claimed on its own instead of the whole entry at once.
func WithOrderPerPackage() Option {
	return func(l *FileLoader) {
		l.orderPerPackage = true
	}
}

var _ ports.ScenarioLoader = (*FileLoader)(nil)

// NewFileLoader reads scenarios from dir.
func NewFileLoader(dir string, logger *slog.Logger, opts ...Option) (*FileLoader, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("scenario directory: %w", err)
	}
	if !info.IsDir() {
		return nil, errs.NewValueIsInvalidErrorWithCause("dir", fmt.Errorf("%s is not a directory", dir))
	}
	return NewFSLoader(os.DirFS(dir), logger, opts...), nil
}

// NewFSLoader reads scenarios from the root of fsys.
func NewFSLoader(fsys fs.FS, logger *slog.Logger, opts ...Option) *FileLoader {
	if logger == nil {
		logger = slog.Default()
	}
	l := &FileLoader{
		fsys:   fsys,
		logger: logger.With("component", "scenario-loader"),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *FileLoader) Load(ctx context.Context) (ports.Scenario, error) {
	if err := ctx.Err(); err != nil {
		return ports.Scenario{}, err
	}

	var s settings
	if err := l.decode(SettingsDocument, &s); err != nil {
		return ports.Scenario{}, err
	}
	if err := s.validate(); err != nil {
		return ports.Scenario{}, fmt.Errorf("%s: %w", SettingsDocument, err)
	}

	g, err := grid.NewGrid(s.Width, s.Height)
	if err != nil {
		return ports.Scenario{}, fmt.Errorf("%s: %w", SettingsDocument, err)
	}
	fleet, err := drone.NewFleet(s.Drones, kernel.Origin)
	if err != nil {
		return ports.Scenario{}, fmt.Errorf("%s: %w", SettingsDocument, err)
	}

	var warehouses warehouseList
	if err := l.decode(WarehousesDocument, &warehouses); err != nil {
		return ports.Scenario{}, err
	}
	var orders orderList
	if err := l.decode(OrdersDocument, &orders); err != nil {
		return ports.Scenario{}, err
	}

	scenario := ports.Scenario{
		Grid:      g,
		Drones:    fleet,
		TimeLimit: s.TimeLimit,
	}

	for _, entry := range warehouses {
		w, err := entry.build(g)
		if err != nil {
			return ports.Scenario{}, fmt.Errorf("%s: warehouse %q: %w", WarehousesDocument, entry.name, err)
		}
		scenario.Warehouses = append(scenario.Warehouses, w)
	}

	for _, entry := range orders {
		built, err := entry.build(g, l.orderPerPackage)
		if err != nil {
			return ports.Scenario{}, fmt.Errorf("%s: customer %q: %w", OrdersDocument, entry.name, err)
		}
		scenario.Orders = append(scenario.Orders, built...)
	}

	l.logger.InfoContext(ctx, "scenario loaded",
		"width", s.Width,
		"height", s.Height,
		"drones", len(fleet),
		"warehouses", len(scenario.Warehouses),
		"orders", len(scenario.Orders),
		"timeLimit", s.TimeLimit,
	)
	return scenario, nil
}

// decode reads the first existing file for the document, trying extensions in order.
func (l *FileLoader) decode(document string, out any) error {
	for _, ext := range extensions {
		name := document + ext
		raw, err := fs.ReadFile(l.fsys, name)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return fmt.Errorf("read %s: %w", name, err)
		}

		if err := yaml.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("%w: %s: %w", ErrMalformed, name, err)
		}
		return nil
	}
	return fmt.Errorf("%w: %s%v", ErrDocumentNotFound, document, extensions)
}

type settings struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	Drones    int `yaml:"drones"`
	TimeLimit int `yaml:"timelimit"`
}

func (s settings) validate() error {
	var problems []error
	if s.Drones < 0 {
		problems = append(problems, errs.NewValueIsOutOfRangeError("drones", s.Drones, 0, "unbounded"))
	}
	if s.TimeLimit < 0 {
		problems = append(problems, errs.NewValueIsOutOfRangeError("timelimit", s.TimeLimit, 0, "unbounded"))
	}
	return errors.Join(problems...)
}

// position is a two element [x, y] sequence.
type position []int

func (p position) build(g *grid.Grid) (kernel.Position, error) {
	if len(p) != 2 {
		return kernel.Position{}, errs.NewValueIsInvalidErrorWithCause("position",
			fmt.Errorf("want [x, y], got %d values", len(p)))
	}

	pos, err := kernel.NewPosition(kernel.Coordinate(p[0]), kernel.Coordinate(p[1]))
	if err != nil {
		return kernel.Position{}, err
	}
	if !g.Contains(pos) {
		return kernel.Position{}, errs.NewValueIsOutOfRangeErrorWithCause("position", pos, kernel.Origin,
			fmt.Sprintf("POS [%d,%d]", g.Width()-1, g.Height()-1), errors.New("outside the grid"))
	}
	return pos, nil
}

// stock is a ["name", count] pair.
type stock struct {
	name  string
	count int
}

func (s *stock) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.SequenceNode || len(node.Content) != 2 {
		return fmt.Errorf("line %d: want [\"package\", count]", node.Line)
	}
	if err := node.Content[0].Decode(&s.name); err != nil {
		return err
	}
	return node.Content[1].Decode(&s.count)
}

type warehouseEntry struct {
	name     string
	Position position `yaml:"position"`
	Packages []stock  `yaml:"packages"`
}

func (e warehouseEntry) build(g *grid.Grid) (*warehouse.Warehouse, error) {
	pos, err := e.Position.build(g)
	if err != nil {
		return nil, err
	}

	counts := make(map[kernel.Package]int, len(e.Packages))
	for _, s := range e.Packages {
		if s.count < 0 {
			return nil, errs.NewValueIsInvalidErrorWithCause("count",
				fmt.Errorf("%d units of %s", s.count, s.name))
		}
		p, err := kernel.NewPackage(s.name)
		if err != nil {
			return nil, err
		}
		counts[p] += s.count
	}

	return warehouse.NewWarehouseWithCounts(e.name, pos, counts)
}

type orderEntry struct {
	name     string
	Position position `yaml:"position"`
	Packages []string `yaml:"packages"`
}

// build makes one order holding every package the customer asked for, or one
// order per package when perPackage is set. All of them share the customer.
func (e orderEntry) build(g *grid.Grid, perPackage bool) ([]*order.Order, error) {
	pos, err := e.Position.build(g)
	if err != nil {
		return nil, err
	}
	c, err := customer.NewCustomer(e.name, pos)
	if err != nil {
		return nil, err
	}
	packages, err := kernel.NewPackages(e.Packages...)
	if err != nil {
		return nil, err
	}

	if !perPackage || len(packages) == 0 {
		o, err := order.NewOrder(kernel.NewUUID(), c, packages)
		if err != nil {
			return nil, err
		}
		return []*order.Order{o}, nil
	}

	orders := make([]*order.Order, 0, len(packages))
	for _, p := range packages {
		o, err := order.NewOrder(kernel.NewUUID(), c, []kernel.Package{p})
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, nil
}

type warehouseList []warehouseEntry

func (l *warehouseList) UnmarshalYAML(node *yaml.Node) error {
	return decodeNamed(node, func(name string, value *yaml.Node) error {
		entry := warehouseEntry{name: name}
		if err := value.Decode(&entry); err != nil {
			return err
		}
		*l = append(*l, entry)
		return nil
	})
}

type orderList []orderEntry

func (l *orderList) UnmarshalYAML(node *yaml.Node) error {
	return decodeNamed(node, func(name string, value *yaml.Node) error {
		entry := orderEntry{name: name}
		if err := value.Decode(&entry); err != nil {
			return err
		}
		*l = append(*l, entry)
		return nil
	})
}

// decodeNamed walks a name-keyed mapping in document order.
func decodeNamed(node *yaml.Node, each func(name string, value *yaml.Node) error) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: want a mapping keyed by name", node.Line)
	}

	seen := make(map[string]struct{}, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i], node.Content[i+1]

		var name string
		if err := key.Decode(&name); err != nil {
			return err
		}
		if _, dup := seen[name]; dup {
			return fmt.Errorf("line %d: %q appears twice", key.Line, name)
		}
		seen[name] = struct{}{}

		if err := each(name, value); err != nil {
			return fmt.Errorf("%q: %w", name, err)
		}
	}
	return nil
}
