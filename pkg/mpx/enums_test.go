package mpx

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// every vendor string of every vocabulary decodes, and the value maps back to
// the same vendor string
func TestVocabulariesRoundTrip(t *testing.T) {
	check := func(t *testing.T, words []string, decode func(string) (string, error)) {
		t.Helper()
		require.NotEmpty(t, words)
		for _, w := range words {
			got, err := decode(w)
			require.NoError(t, err, w)
			assert.Equal(t, w, got)
		}
	}

	t.Run("severity", func(t *testing.T) {
		check(t, severities.words(), func(s string) (string, error) {
			v, err := ParseSeverity(s)
			return v.Icon(), err
		})
	})
	t.Run("wiring type", func(t *testing.T) {
		check(t, wiringTypes.words(), func(s string) (string, error) {
			v, err := ParseWiringType(s)
			return v.Vendor(), err
		})
	})
	t.Run("receptacle type", func(t *testing.T) {
		check(t, receptacleTypes.words(), func(s string) (string, error) {
			v, err := ParseReceptacleType(s)
			return v.Vendor(), err
		})
	})
	t.Run("line source", func(t *testing.T) {
		check(t, lineSources.words(), func(s string) (string, error) {
			v, err := ParseLineSource(s)
			return v.Vendor(), err
		})
	})
	t.Run("capability", func(t *testing.T) {
		check(t, capabilities.words(), func(s string) (string, error) {
			v, err := ParseCapability(s)
			return v.Vendor(), err
		})
	})
	t.Run("event type", func(t *testing.T) {
		check(t, eventTypes.words(), func(s string) (string, error) {
			v, err := ParseEventType(s)
			return v.String(), err
		})
	})
	t.Run("PEM model", func(t *testing.T) {
		check(t, pemModels.words(), func(s string) (string, error) {
			v, err := ParsePEMModel(s)
			return v.Vendor(), err
		})
	})
	t.Run("BRM model", func(t *testing.T) {
		check(t, brmModels.words(), func(s string) (string, error) {
			v, err := ParseBRMModel(s)
			return v.Vendor(), err
		})
	})
}

func TestVocabulariesRejectUnknownStrings(t *testing.T) {
	decoders := map[string]func(string) error{
		"severity":        errOf(ParseSeverity),
		"wiring type":     errOf(ParseWiringType),
		"receptacle type": errOf(ParseReceptacleType),
		"line source":     errOf(ParseLineSource),
		"capability":      errOf(ParseCapability),
		"event type":      errOf(ParseEventType),
		"PEM model":       errOf(ParsePEMModel),
		"BRM model":       errOf(ParseBRMModel),
	}
	for name, decode := range decoders {
		for _, raw := range []string{"", "bogus", " OK"} {
			err := decode(raw)
			require.Error(t, err, "%s %q", name, raw)
			assert.ErrorIs(t, err, ErrUnrecognizedValue)

			var uv *UnrecognizedValueError
			require.True(t, errors.As(err, &uv))
			assert.Equal(t, raw, uv.Value)
		}
	}
}

func errOf[T any](decode func(string) (T, error)) func(string) error {
	return func(s string) error {
		_, err := decode(s)
		return err
	}
}

func TestSeverityIconDecoding(t *testing.T) {
	tests := map[string]Severity{
		"../../../images/accept.png":      SeverityOK,
		"../../../images/information.png": SeverityInfo,
		"../../../images/warn.png":        SeverityWarning,
		"../../../images/err.png":         SeverityAlarm,
	}
	for src, want := range tests {
		got, err := ParseSeverity(src)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	// only the exact relative path is known
	_, err := ParseSeverity("/images/warn.png")
	assert.ErrorIs(t, err, ErrUnrecognizedValue)

	assert.Equal(t, "WARNING", SeverityWarning.String())
	assert.Equal(t, "ALARM", SeverityAlarm.String())
	assert.Equal(t, "unknown(0)", Severity(0).String())
}

func TestDisplayNames(t *testing.T) {
	assert.Equal(t, "1-Phase", OnePhase.String())
	assert.Equal(t, "3-Phase", ThreePhase.String())
	assert.Equal(t, "L1-N", L1N.String())
	assert.Equal(t, "Measure & Control", MeasureAndControl.String())
	assert.Equal(t, "C13", C13.String())
	assert.Equal(t, "Branch Breaker Open", BranchBreakerOpen.String())
}

func TestModelDescriptions(t *testing.T) {
	assert.Equal(t, "EHAXXR30", EHAXXR30.String())
	assert.Equal(t, "MPXPEM-EHAXXR30", EHAXXR30.Vendor())
	assert.Equal(t, "3 phase 32A monitored", EHAXXR30.Description())

	assert.Equal(t, "MPXBRM-EBBC4O2N", EBBC4O2N.Vendor())
	assert.Equal(t, "C19 L2 branch-monitored", EBBC4O2N.Description())
	assert.Equal(t, "C13 L1 receptacle-managed", ERBC6N1N.Description())
	assert.Equal(t, "Schuko L3 elementary", EEBC3P3N.Description())
	assert.Equal(t, C19, EBBC4O2N.ReceptacleType())
}

func TestEnumsMarshalAsDisplayNames(t *testing.T) {
	type record struct {
		Severity Severity   `json:"severity"`
		Wiring   WiringType `json:"wiring"`
		Model    PEMModel   `json:"model"`
		Event    EventType  `json:"event"`
	}
	in := record{Severity: SeverityAlarm, Wiring: ThreePhase, Model: EHBXXZ30, Event: PDUFailure}
	b, err := json.Marshal(in)
	require.NoError(t, err)
	assert.JSONEq(t, `{"severity":"ALARM","wiring":"3-Phase","model":"EHBXXZ30","event":"PDU Failure"}`, string(b))

	var out record
	require.NoError(t, json.Unmarshal(b, &out))
	assert.Equal(t, in, out)

	// the vendor form is accepted as well
	var w WiringType
	require.NoError(t, w.UnmarshalText([]byte("1-Phase / 3-Wire (L, N, PE)")))
	assert.Equal(t, OnePhase, w)
	assert.ErrorIs(t, w.UnmarshalText([]byte("2-Phase")), ErrUnrecognizedValue)
}

// a record whose enums were never set is written with empty names and reads
// back unchanged
func TestZeroEnumsMarshalEmpty(t *testing.T) {
	type record struct {
		Severity   Severity       `json:"severity"`
		Wiring     WiringType     `json:"wiring"`
		Receptacle ReceptacleType `json:"receptacle"`
		Line       LineSource     `json:"line"`
		Capability Capability     `json:"capability"`
		Event      EventType      `json:"event"`
		PEM        PEMModel       `json:"pem"`
		BRM        BRMModel       `json:"brm"`
	}
	var in record
	b, err := json.Marshal(in)
	require.NoError(t, err)
	assert.JSONEq(t, `{"severity":"","wiring":"","receptacle":"","line":"","capability":"","event":"","pem":"","brm":""}`, string(b))

	out := record{Severity: SeverityAlarm, PEM: EHBXXZ30}
	require.NoError(t, json.Unmarshal(b, &out))
	assert.Equal(t, in, out)
	assert.Equal(t, "unknown(0)", Severity(0).String())
}
