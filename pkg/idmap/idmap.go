// Package idmap maps a PDU host to the xname of its cabinet PDU controller,
// the ID it is registered under in SMD.
//
// Two mappers exist. The user provided mapper reads an explicit map given as
// JSON or as "@file" (JSON or YAML). The generated mapper uses the host name
// or PDU label itself when it already is a controller xname such as x3000m0.
package idmap

import (
	"github.com/OpenCHAMI/mpx/internal/format"
	"github.com/rs/zerolog/log"
)

// MapperKeys are what a mapper can select on.
type MapperKeys struct {
	Host  string
	Label string
}

type Mapper interface {
	Initialize() (Mapper, error)
	GetMappedID(keys *MapperKeys) string
}

// PickIDMapper returns the user provided mapper when idMap is set and the
// generated xname mapper otherwise.
func PickIDMapper(idMap string, idMapFormat format.DataFormat) (Mapper, error) {
	var (
		mapper     Mapper
		mapperName string
	)
	if idMap != "" {
		mapperName = "userProvidedMapper"
		mapper = userProvidedMapper{IDMapStr: idMap, IDMapFormat: idMapFormat}
	} else {
		mapperName = "generatedXNAMEMapper"
		mapper = generatedXNAMEMapper{}
	}
	mapper, err := mapper.Initialize()
	if err != nil {
		log.Error().Err(err).Str("mapper", mapperName).Msg("failed to initialize PDU ID mapper")
		return nil, err
	}
	return mapper, nil
}
