package extract

import (
	"fmt"

	"smcextract/internal/config"
	"smcextract/internal/manifest"
)

// Unit is one (subject, performance) capture to extract.
type Unit struct {
	Subject     string
	Performance string
}

func (u Unit) String() string {
	return u.Subject + "/" + u.Performance
}

// Key returns the unit's manifest identity.
func (u Unit) Key() manifest.Key {
	return manifest.Key{Subject: u.Subject, Performance: u.Performance}
}

// RemoteKey returns the container's path on the remote host. Containers are
// laid out one directory per subject, named {subject}_{performance}_raw.smc.
func (u Unit) RemoteKey() string {
	return fmt.Sprintf("%s/%s_%s_raw.smc", u.Subject, u.Subject, u.Performance)
}

// UnitsFromConfig expands the configured subjects and performances into the
// full cross product of units, in configuration order.
func UnitsFromConfig(cfg *config.Config) []Unit {
	if cfg == nil {
		return nil
	}
	units := make([]Unit, 0, len(cfg.Selection.Subjects)*len(cfg.Selection.Performances))
	for _, subject := range cfg.Selection.Subjects {
		for _, performance := range cfg.Selection.Performances {
			units = append(units, Unit{Subject: subject, Performance: performance})
		}
	}
	return units
}
