package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDoc() *RegionDoc {
	return &RegionDoc{
		Version: DocVersion,
		Name:    "test",
		Objects: []ObjectDoc{
			{Name: "real.1d", Kind: KindContinuousType.String()},
			{Name: "x", Kind: KindArgumentEvaluator.String(), ValueType: "real.1d"},
		},
	}
}

func TestFingerprintDeterministic(t *testing.T) {
	fp1, err := Fingerprint(sampleDoc())
	require.NoError(t, err)
	fp2, err := Fingerprint(sampleDoc())
	require.NoError(t, err)

	assert.Equal(t, fp1, fp2)
	assert.Len(t, fp1, 64, "SHA-256 hex is 64 characters")
}

func TestFingerprintChangesWithContent(t *testing.T) {
	base, err := Fingerprint(sampleDoc())
	require.NoError(t, err)

	renamed := sampleDoc()
	renamed.Objects[1].Name = "y"
	other, err := Fingerprint(renamed)
	require.NoError(t, err)

	assert.NotEqual(t, base, other)
}

func TestFingerprintNormalizesNames(t *testing.T) {
	a := sampleDoc()
	a.Name = "cafe\u0301"
	b := sampleDoc()
	b.Name = "caf\u00e9"

	fa, err := Fingerprint(a)
	require.NoError(t, err)
	fb, err := Fingerprint(b)
	require.NoError(t, err)
	assert.Equal(t, fa, fb)
}

func TestHashWithDomainSeparation(t *testing.T) {
	data := []byte(`{"a":1}`)
	assert.NotEqual(t, hashWithDomain("fieldml/region/v1", data), hashWithDomain("fieldml/other/v1", data))
}
