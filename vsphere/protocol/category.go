package protocol

import (
	"fmt"
	"strings"
)

// Category is one monitored inventory table.
type Category string

const (
	Hosts      Category = "hosts"
	Datastores Category = "datastores"
	Licenses   Category = "licenses"
	VMs        Category = "vms"
)

var AllCategories = []Category{Hosts, Datastores, Licenses, VMs}

func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	for _, k := range AllCategories {
		if c == k {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown category %q", s)
}

// ParseCategories parses and de-duplicates a monitored list, keeping its order.
func ParseCategories(l []string) ([]Category, error) {
	var cats []Category
	seen := make(map[Category]bool)
	for _, s := range l {
		c, err := ParseCategory(s)
		if err != nil {
			return nil, err
		}
		if !seen[c] {
			seen[c] = true
			cats = append(cats, c)
		}
	}
	return cats, nil
}

func (c Category) Unit() string {
	switch c {
	case Hosts:
		return "host(s)"
	case Datastores:
		return "datastore(s)"
	case Licenses:
		return "license(s)"
	case VMs:
		return "virtual machine(s)"
	}
	return ""
}

// Singular is used in entity ids and names.
func (c Category) Singular() string {
	switch c {
	case Hosts:
		return "host"
	case Datastores:
		return "datastore"
	case Licenses:
		return "license"
	case VMs:
		return "vm"
	}
	return string(c)
}
