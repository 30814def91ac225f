package catalog

import (
	"fmt"
	"strings"
)

// BodyClass is the physical classification of a celestial body. Good
// parameters can be overridden per class.
type BodyClass uint8

const (
	ClassStar BodyClass = iota
	ClassGasGiant
	ClassRockyNoAtmosphere
	ClassRockyOxygen
	ClassRockyNitrogen
	ClassRockyCarbonDioxide
	ClassRockyMethane
)

var classNames = map[BodyClass]string{
	ClassStar:               "star",
	ClassGasGiant:           "gas_giant",
	ClassRockyNoAtmosphere:  "rocky_no_atmosphere",
	ClassRockyOxygen:        "rocky_oxygen",
	ClassRockyNitrogen:      "rocky_nitrogen",
	ClassRockyCarbonDioxide: "rocky_carbon_dioxide",
	ClassRockyMethane:       "rocky_methane",
}

// String returns the config name of the class.
func (c BodyClass) String() string {
	if n, ok := classNames[c]; ok {
		return n
	}
	return fmt.Sprintf("class(%d)", uint8(c))
}

// ParseClass converts a config name into a BodyClass.
func ParseClass(s string) (BodyClass, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for c, n := range classNames {
		if n == s {
			return c, nil
		}
	}
	return 0, fmt.Errorf("unknown body class %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (c BodyClass) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *BodyClass) UnmarshalText(b []byte) error {
	v, err := ParseClass(string(b))
	if err != nil {
		return err
	}
	*c = v
	return nil
}
