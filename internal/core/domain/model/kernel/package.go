package kernel

import (
	"strings"

	"drones/internal/pkg/errs"
)

var ErrPackageNameIsRequired = errs.NewValueIsRequiredError("package name")

// Package is a deliverable good. Equality is by name: two Package values with the
// same name are the same good, so Package works directly as an inventory map key.
type Package struct {
	name string
}

func NewPackage(name string) (Package, error) {
	if strings.TrimSpace(name) == "" {
		return Package{}, ErrPackageNameIsRequired
	}
	return Package{name: name}, nil
}

// NewPackages builds one Package per name, preserving order and duplicates.
func NewPackages(names ...string) ([]Package, error) {
	packages := make([]Package, 0, len(names))
	for _, name := range names {
		p, err := NewPackage(name)
		if err != nil {
			return nil, err
		}
		packages = append(packages, p)
	}
	return packages, nil
}

func (p Package) Name() string {
	return p.name
}

func (p Package) Validate() error {
	if p.name == "" {
		return ErrPackageNameIsRequired
	}
	return nil
}

func (p Package) String() string {
	return "PACKAGE " + p.name
}
