package detect

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLinguaDetectorRejectsBadInput(t *testing.T) {
	_, err := NewLinguaDetector([]string{"pl"})
	assert.Error(t, err)

	_, err = NewLinguaDetector([]string{"pl", "xx"})
	assert.Error(t, err)
}

func TestDetectPolish(t *testing.T) {
	d, err := NewLinguaDetector([]string{"pl", "en", "de", "ru"})
	require.NoError(t, err)

	code, ok := d.Detect("Wejście na orbitę oznaczało przełom w historii astronautyki", []string{"pl", "en", "de", "ru"})
	require.True(t, ok)
	assert.Equal(t, "PL", code)
}

func TestDetectRejectsEmptyText(t *testing.T) {
	d, err := NewLinguaDetector([]string{"pl", "en"})
	require.NoError(t, err)

	_, ok := d.Detect("   ", []string{"pl", "en"})
	assert.False(t, ok)
}

func TestDetectConstrainedToCandidates(t *testing.T) {
	d, err := NewLinguaDetector([]string{"pl", "en", "de"})
	require.NoError(t, err)

	// A clearly German sentence must not be accepted when German is not
	// among the candidates for this record.
	_, ok := d.Detect("Die Entdeckung der Langsamkeit war ein großer Erfolg", []string{"pl", "en"})
	assert.False(t, ok)
}
