package models

import "fmt"

// Package represents one installed entry of the package database
type Package struct {
	Name        string
	Version     string
	Release     string
	Arch        string
	Vendor      string
	InstallTime int64

	// NEVRA is name-version-release.arch, fixed at decode time
	NEVRA string
}

// NewPackage builds a Package and computes its NEVRA
func NewPackage(name, version, release, arch, vendor string, installTime int64) Package {
	return Package{
		Name:        name,
		Version:     version,
		Release:     release,
		Arch:        arch,
		Vendor:      vendor,
		InstallTime: installTime,
		NEVRA:       fmt.Sprintf("%s-%s-%s.%s", name, version, release, arch),
	}
}
