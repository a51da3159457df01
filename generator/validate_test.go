package generator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateURLAcceptsValid(t *testing.T) {
	for _, raw := range []string{
		"https://example.com/path",
		"https://github.com/Hanyyoussef4/Assignment7",
		"https://hub.docker.com/r/hany25/qr-code-generator-app",
		"http://localhost:8080/x?y=1",
		"HTTPS://Example.COM",
		"http://127.0.0.1/",
		"ftp://files.example.org/pub",
	} {
		t.Run(raw, func(t *testing.T) {
			got, err := ValidateURL(raw, "Test")
			require.NoError(t, err)
			assert.Equal(t, raw, got)
		})
	}
}

func TestValidateURLRejectsInvalid(t *testing.T) {
	for _, raw := range []string{
		"not_a_url",
		"",
		"example.com",
		"https://",
		"https:///path",
		"mailto:someone@example.com",
		"javascript:alert(1)",
		"https://exa mple.com",
		"https://example",
		"https://example.com:99999/",
		"https://-bad-.com",
	} {
		t.Run(raw, func(t *testing.T) {
			_, err := ValidateURL(raw, "Test")
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalid)
		})
	}
}

func TestValidateURLErrorCarriesLabelAndValue(t *testing.T) {
	_, err := ValidateURL("not_a_url", "GitHub")
	require.Error(t, err)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "GitHub", verr.Label)
	assert.Equal(t, "not_a_url", verr.Value)
	assert.Equal(t, `GitHub URL is not valid: "not_a_url"`, err.Error())
}
