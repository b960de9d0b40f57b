package mpx

import "strings"

// PEMModel is the catalog number of a power entry module.
type PEMModel int

const (
	EHAEXQ30 PEMModel = iota + 1
	EHAXXQ30
	EHAEXT30
	EHAXXT30
	EHAEXR30
	EHAXXR30
	EHBEXZ30
	EHBXXZ30
)

const (
	pemPrefix = "MPXPEM-"
	brmPrefix = "MPXBRM-"
)

var pemModels = newVocabulary("PEM model", map[string]PEMModel{
	"MPXPEM-EHAEXQ30": EHAEXQ30,
	"MPXPEM-EHAXXQ30": EHAXXQ30,
	"MPXPEM-EHAEXT30": EHAEXT30,
	"MPXPEM-EHAXXT30": EHAXXT30,
	"MPXPEM-EHAEXR30": EHAEXR30,
	"MPXPEM-EHAXXR30": EHAXXR30,
	"MPXPEM-EHBEXZ30": EHBEXZ30,
	"MPXPEM-EHBXXZ30": EHBXXZ30,
})

var pemDescriptions = map[PEMModel]string{
	EHAEXQ30: "1 phase 32A elementary",
	EHAXXQ30: "1 phase 32A monitored",
	EHAEXT30: "3 phase 16A elementary",
	EHAXXT30: "3 phase 16A monitored",
	EHAEXR30: "3 phase 32A elementary",
	EHAXXR30: "3 phase 32A monitored",
	EHBEXZ30: "3 phase 63A elementary",
	EHBXXZ30: "3 phase 63A monitored",
}

func ParsePEMModel(s string) (PEMModel, error) { return pemModels.decode(s) }

// String returns the catalog code without the product prefix.
func (m PEMModel) String() string {
	if s, ok := pemModels.encode(m); ok {
		return strings.TrimPrefix(s, pemPrefix)
	}
	return unknownName(int(m))
}

func (m PEMModel) Vendor() string {
	s, _ := pemModels.encode(m)
	return s
}

func (m PEMModel) Description() string { return pemDescriptions[m] }

func (m PEMModel) MarshalText() ([]byte, error) { return marshalName(m) }

func (m *PEMModel) UnmarshalText(b []byte) error {
	return unmarshalName(pemModels, "PEM model", string(b), m)
}

// BRMModel is the catalog number of a branch receptacle module.
type BRMModel int

const (
	EEBC7N1N BRMModel = iota + 1
	EEBC7N2N
	EEBC7N3N
	EEBC4O1N
	EEBC4O2N
	EEBC4O3N
	EEBC3P1N
	EEBC3P2N
	EEBC3P3N
	EBBC6N1N
	EBBC6N2N
	EBBC6N3N
	EBBC4O1N
	EBBC4O2N
	EBBC4O3N
	EBBC3P1N
	EBBC3P2N
	EBBC3P3N
	ERBC6N1N
	ERBC6N2N
	ERBC6N3N
	ERBC4O1N
	ERBC4O2N
	ERBC4O3N
	ERBC3P1N
	ERBC3P2N
	ERBC3P3N
)

var brmModels = newVocabulary("BRM model", map[string]BRMModel{
	"MPXBRM-EEBC7N1N": EEBC7N1N,
	"MPXBRM-EEBC7N2N": EEBC7N2N,
	"MPXBRM-EEBC7N3N": EEBC7N3N,
	"MPXBRM-EEBC4O1N": EEBC4O1N,
	"MPXBRM-EEBC4O2N": EEBC4O2N,
	"MPXBRM-EEBC4O3N": EEBC4O3N,
	"MPXBRM-EEBC3P1N": EEBC3P1N,
	"MPXBRM-EEBC3P2N": EEBC3P2N,
	"MPXBRM-EEBC3P3N": EEBC3P3N,
	"MPXBRM-EBBC6N1N": EBBC6N1N,
	"MPXBRM-EBBC6N2N": EBBC6N2N,
	"MPXBRM-EBBC6N3N": EBBC6N3N,
	"MPXBRM-EBBC4O1N": EBBC4O1N,
	"MPXBRM-EBBC4O2N": EBBC4O2N,
	"MPXBRM-EBBC4O3N": EBBC4O3N,
	"MPXBRM-EBBC3P1N": EBBC3P1N,
	"MPXBRM-EBBC3P2N": EBBC3P2N,
	"MPXBRM-EBBC3P3N": EBBC3P3N,
	"MPXBRM-ERBC6N1N": ERBC6N1N,
	"MPXBRM-ERBC6N2N": ERBC6N2N,
	"MPXBRM-ERBC6N3N": ERBC6N3N,
	"MPXBRM-ERBC4O1N": ERBC4O1N,
	"MPXBRM-ERBC4O2N": ERBC4O2N,
	"MPXBRM-ERBC4O3N": ERBC4O3N,
	"MPXBRM-ERBC3P1N": ERBC3P1N,
	"MPXBRM-ERBC3P2N": ERBC3P2N,
	"MPXBRM-ERBC3P3N": ERBC3P3N,
})

func ParseBRMModel(s string) (BRMModel, error) { return brmModels.decode(s) }

func (m BRMModel) String() string {
	if s, ok := brmModels.encode(m); ok {
		return strings.TrimPrefix(s, brmPrefix)
	}
	return unknownName(int(m))
}

func (m BRMModel) Vendor() string {
	s, _ := brmModels.encode(m)
	return s
}

// Description spells out the catalog code, e.g. "C19 L2 branch-monitored".
// Codes read as E<grade>BC<count><connector><line>N.
func (m BRMModel) Description() string {
	code := m.String()
	if len(code) != 8 {
		return ""
	}
	var grade, connector string
	switch code[1] {
	case 'E':
		grade = "elementary"
	case 'B':
		grade = "branch-monitored"
	case 'R':
		grade = "receptacle-managed"
	}
	switch code[5] {
	case 'N':
		connector = "C13"
	case 'O':
		connector = "C19"
	case 'P':
		connector = "Schuko"
	}
	return connector + " L" + code[6:7] + " " + grade
}

// ReceptacleType returns the connector fitted to every receptacle on m.
func (m BRMModel) ReceptacleType() ReceptacleType {
	code := m.String()
	if len(code) != 8 {
		return 0
	}
	switch code[5] {
	case 'N':
		return C13
	case 'O':
		return C19
	case 'P':
		return Schuko
	}
	return 0
}

func (m BRMModel) MarshalText() ([]byte, error) { return marshalName(m) }

func (m *BRMModel) UnmarshalText(b []byte) error {
	return unmarshalName(brmModels, "BRM model", string(b), m)
}
