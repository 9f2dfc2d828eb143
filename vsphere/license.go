package vsphere

import (
	"esxi-stats/helper/license"
	"esxi-stats/vsphere/protocol"
	"github.com/vmware/govmomi/vim25/types"
	"math"
	"strconv"
)

const expiringSoonDays = 30

// LicenseTable keys licenses by their position, starting at "1".
func LicenseTable(licenses []types.LicenseManagerLicenseInfo, host string) map[string]protocol.LicenseRecord {
	t := make(map[string]protocol.LicenseRecord, len(licenses))
	for i, l := range licenses {
		t[strconv.Itoa(i+1)] = buildLicenseRecord(l, host)
	}
	return t
}

func buildLicenseRecord(l types.LicenseManagerLicenseInfo, host string) protocol.LicenseRecord {
	r := protocol.LicenseRecord{
		Name:       l.Name,
		Product:    license.ProductName(l),
		Host:       host,
		LicenseKey: l.LicenseKey,
	}

	perpetual := false
	for _, p := range l.Properties {
		switch p.Key {
		case "count_disabled":
			perpetual = true
		case "expirationHours":
			if h, ok := number(p.Value); ok {
				d := int(math.Round(h / 24))
				r.ExpirationDays = &d
			}
		}
	}
	if perpetual {
		r.ExpirationDays = nil
		r.Expires = "never"
	}

	switch {
	case r.ExpirationDays == nil:
		r.Status = protocol.LicenseOk
	case *r.ExpirationDays < 1:
		r.Status = protocol.LicenseExpired
	case *r.ExpirationDays <= expiringSoonDays:
		r.Status = protocol.LicenseExpiringSoon
	default:
		r.Status = protocol.LicenseOk
	}
	return r
}

func number(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case int:
		return float64(n), true
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(n, 64)
		return f, err == nil
	}
	return 0, false
}

func licenseHost(s *Esxi, names map[string]string) string {
	if len(names) == 1 {
		for _, n := range names {
			return n
		}
	}
	return s.Host
}
