package idmap

import (
	"fmt"
	"strings"

	"github.com/Cray-HPE/hms-xname/xnames"
	"github.com/Cray-HPE/hms-xname/xnametypes"
)

// ParseController reads a cabinet PDU controller xname such as "x3000m0".
func ParseController(s string) (xnames.CabinetPDUController, error) {
	var c xnames.CabinetPDUController
	id := xnametypes.NormalizeHMSCompID(strings.TrimSpace(s))
	if xnametypes.GetHMSType(id) != xnametypes.CabinetPDUController {
		return c, fmt.Errorf("%q is not a cabinet PDU controller xname", s)
	}
	if _, err := fmt.Sscanf(id, "x%dm%d", &c.Cabinet, &c.CabinetPDUController); err != nil {
		return c, fmt.Errorf("failed to read xname %q: %w", s, err)
	}
	return c, nil
}

type generatedXNAMEMapper struct{}

func (mapper generatedXNAMEMapper) Initialize() (Mapper, error) {
	return mapper, nil
}

// GetMappedID uses the first DNS label of the host, then the PDU label, when
// either is a controller xname. It returns "" when neither is.
func (mapper generatedXNAMEMapper) GetMappedID(keys *MapperKeys) string {
	short, _, _ := strings.Cut(keys.Host, ".")
	short, _, _ = strings.Cut(short, ":")
	for _, candidate := range []string{short, keys.Label} {
		if c, err := ParseController(candidate); err == nil {
			return c.String()
		}
	}
	return ""
}
