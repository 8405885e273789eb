// internal/domain/models/package.go
package models

import "strings"

// Package is a membership plan.
type Package string

const (
	PackageBasic    Package = "Basic"
	PackageStandard Package = "Standard"
	PackagePremium  Package = "Premium"
)

// PackageInfo describes a plan as shown on the member dashboard and used
// as the default bill amount.
type PackageInfo struct {
	Name     Package
	Price    float64
	Features []string
}

var catalogue = map[Package]PackageInfo{
	PackageBasic: {
		Name:  PackageBasic,
		Price: 1000,
		Features: []string{
			"Access to gym equipment",
			"Locker facility",
			"Basic fitness consultation",
			"Valid for 1 month",
		},
	},
	PackageStandard: {
		Name:  PackageStandard,
		Price: 2000,
		Features: []string{
			"All Basic features",
			"Group fitness classes",
			"Nutrition guidance",
			"Personal training (2 sessions)",
			"Valid for 1 month",
		},
	},
	PackagePremium: {
		Name:  PackagePremium,
		Price: 3000,
		Features: []string{
			"All Standard features",
			"Unlimited personal training",
			"Diet plan customization",
			"Supplement consultation",
			"Priority booking",
			"Valid for 1 month",
		},
	},
}

// Packages lists the plans in display order.
func Packages() []Package {
	return []Package{PackageBasic, PackageStandard, PackagePremium}
}

// ParsePackage matches s case-insensitively against the known plans.
func ParsePackage(s string) (Package, bool) {
	s = strings.TrimSpace(s)
	for _, p := range Packages() {
		if strings.EqualFold(s, string(p)) {
			return p, true
		}
	}
	return "", false
}

// Info returns the catalogue entry for p. Unknown plans fall back to Basic.
func (p Package) Info() PackageInfo {
	if info, ok := catalogue[p]; ok {
		return info
	}
	return catalogue[PackageBasic]
}

// Price is the default monthly price for p (Basic for unknown plans).
func (p Package) Price() float64 { return p.Info().Price }
