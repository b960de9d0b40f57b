package idmap

import (
	"fmt"
	"os"
	"strings"

	"github.com/OpenCHAMI/mpx/internal/format"
	"github.com/rs/zerolog/log"
)

const (
	MapKeyHost  = "pdu-host"
	MapKeyLabel = "pdu-label"
)

// pduIDMap is the document given with --id-map. IDMap maps a selector to a
// controller xname and MapKey names what the selector is.
type pduIDMap struct {
	IDMap  map[string]string `json:"id_map" yaml:"id_map"`
	MapKey string            `json:"map_key" yaml:"map_key"`
}

type userProvidedMapper struct {
	IDMapStr    string
	IDMapFormat format.DataFormat
	IDMap       *pduIDMap
}

// loadIDMap decodes data as inline JSON, or as the contents of the file named
// after a leading '@'.
func loadIDMap(data string, defaultFormat format.DataFormat) (*pduIDMap, error) {
	var idMap pduIDMap
	path, isFile := strings.CutPrefix(data, "@")
	if !isFile {
		if err := format.Unmarshal([]byte(data), &idMap, format.FORMAT_JSON); err != nil {
			return nil, err
		}
		return &idMap, nil
	}

	input, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read PDU ID map file '%s': %w", path, err)
	}
	if err := format.Unmarshal(input, &idMap, format.DataFormatFromFileExt(path, defaultFormat)); err != nil {
		return nil, err
	}
	return &idMap, nil
}

func (mapper userProvidedMapper) Initialize() (Mapper, error) {
	idMap, err := loadIDMap(mapper.IDMapStr, mapper.IDMapFormat)
	if err != nil {
		return mapper, fmt.Errorf("failed to decode PDU ID map: %w", err)
	}
	switch idMap.MapKey {
	case MapKeyHost, MapKeyLabel:
	default:
		return mapper, fmt.Errorf("invalid 'map_key' %q in PDU ID map (valid: %s, %s)", idMap.MapKey, MapKeyHost, MapKeyLabel)
	}
	for selector, id := range idMap.IDMap {
		c, err := ParseController(id)
		if err != nil {
			return mapper, fmt.Errorf("bad mapping for %q: %w", selector, err)
		}
		idMap.IDMap[selector] = c.String()
	}
	mapper.IDMap = idMap
	return mapper, nil
}

// GetMappedID returns "" when the selector is not in the map.
func (mapper userProvidedMapper) GetMappedID(keys *MapperKeys) string {
	if mapper.IDMap == nil {
		log.Error().Str("host", keys.Host).Msg("PDU ID map is missing, skipping PDU")
		return ""
	}
	selector := keys.Host
	if mapper.IDMap.MapKey == MapKeyLabel {
		selector = keys.Label
	}
	id, ok := mapper.IDMap.IDMap[selector]
	if !ok {
		log.Warn().Str("selector", selector).Msg("no mapping found from PDU to a controller xname")
		return ""
	}
	return id
}
