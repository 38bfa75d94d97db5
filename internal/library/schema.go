package library

import (
	"errors"
	"fmt"

	"github.com/Masterminds/semver/v3"
)

// ErrSchemaVersion is returned when a catalog's schema_version is missing,
// malformed or outside the supported range.
var ErrSchemaVersion = errors.New("unsupported catalog schema version")

// CurrentSchemaVersion is written by catalogs this build produces.
const CurrentSchemaVersion = "1.0.0"

// SupportedSchema is the schema_version range this build reads.
var SupportedSchema = MustParseConstraint("^1.0.0")

// MustParseConstraint parses a semver constraint and panics if it is invalid.
func MustParseConstraint(raw string) *semver.Constraints {
	c, err := semver.NewConstraint(raw)
	if err != nil {
		panic(fmt.Sprintf("library: parse constraint %q: %v", raw, err))
	}
	return c
}

// CheckSchemaVersion checks version against c.
func CheckSchemaVersion(c *semver.Constraints, version string) error {
	if version == "" {
		return fmt.Errorf("%w: schema_version is required", ErrSchemaVersion)
	}
	v, err := semver.NewVersion(version)
	if err != nil {
		return fmt.Errorf("%w: %q: %v", ErrSchemaVersion, version, err)
	}
	if !c.Check(v) {
		return fmt.Errorf("%w: %s does not satisfy %s", ErrSchemaVersion, v, c)
	}
	return nil
}
