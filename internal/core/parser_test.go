package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func expiry(sec int64) *time.Time {
	t := time.Unix(sec, 0).UTC()
	return &t
}

// utf16le encodes ASCII text the way Windows editors save cookie
// exports: a BOM followed by little-endian code units.
func utf16le(s string) []byte {
	out := []byte{0xff, 0xfe}
	for _, r := range s {
		out = append(out, byte(r), byte(r>>8))
	}
	return out
}

func TestParseExport_SingleRecord(t *testing.T) {
	raw := []byte(".example.com\tTRUE\t/account\tTRUE\t1735689600\tsessionid\tabc123")

	records, err := ParseExport(raw)
	require.NoError(t, err)
	require.Len(t, records, 1)

	rec := records[0]
	assert.Equal(t, ".example.com", rec.Domain)
	assert.True(t, rec.IncludeSubdomains)
	assert.Equal(t, "/account", rec.Path)
	assert.True(t, rec.Secure)
	assert.Equal(t, expiry(1735689600), rec.Expires)
	assert.Equal(t, "sessionid", rec.Name)
	assert.Equal(t, "abc123", rec.Value)
	assert.False(t, rec.HTTPOnly)
	assert.Equal(t, SameSiteUnspecified, rec.SameSite)
}

func TestParseExport_HTTPOnlyPrefix(t *testing.T) {
	raw := []byte("#HttpOnly_.example.com\tTRUE\t/\tTRUE\t1735689600\tsid\tv")

	records, err := ParseExport(raw)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.True(t, records[0].HTTPOnly)
	assert.Equal(t, ".example.com", records[0].Domain)
}

func TestParseExport_SkipsCommentsAndBlankLines(t *testing.T) {
	raw := []byte("# Netscape HTTP Cookie File\r\n" +
		"# https://curl.se/docs/http-cookies.html\r\n" +
		"\r\n" +
		"example.com\tFALSE\t/\tFALSE\t0\tname\tvalue\r\n" +
		"   \n")

	records, err := ParseExport(raw)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "name", records[0].Name)
}

func TestParseExport_NormalizesDomainAndPath(t *testing.T) {
	raw := []byte(" WWW.Example.COM.\tFALSE\t\tFALSE\t0\tname\tvalue")

	records, err := ParseExport(raw)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "www.example.com", records[0].Domain)
	assert.Equal(t, "/", records[0].Path)
}

func TestParseExport_LowercaseFlagsAccepted(t *testing.T) {
	raw := []byte("example.com\ttrue\t/\tFalse\t0\tname\tvalue")

	records, err := ParseExport(raw)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.True(t, records[0].IncludeSubdomains)
	assert.False(t, records[0].Secure)
}

func TestParseExport_SessionCookie(t *testing.T) {
	for _, ts := range []string{"0", "-1"} {
		raw := []byte("example.com\tFALSE\t/\tFALSE\t" + ts + "\tname\tvalue")
		records, err := ParseExport(raw)
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Nil(t, records[0].Expires)
		assert.True(t, records[0].IsSession())
	}
}

func TestParseExport_EmptyInput(t *testing.T) {
	records, err := ParseExport(nil)
	require.NoError(t, err)
	assert.Empty(t, records)

	records, err = ParseExport([]byte("# only a header\n\n"))
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestParseExport_UTF8BOM(t *testing.T) {
	raw := append([]byte{0xef, 0xbb, 0xbf}, []byte("example.com\tFALSE\t/\tFALSE\t0\tname\tvalue")...)

	records, err := ParseExport(raw)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "example.com", records[0].Domain)
}

func TestParseExport_UTF16Input(t *testing.T) {
	raw := utf16le("example.com\tFALSE\t/\tFALSE\t0\tname\tvalue\n")

	records, err := ParseExport(raw)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "example.com", records[0].Domain)
	assert.Equal(t, "value", records[0].Value)
}

func TestParseExport_MalformedLineRejectsWholeExport(t *testing.T) {
	raw := []byte("example.com\tFALSE\t/\tFALSE\t0\tgood\tvalue\n" +
		"example.com\tFALSE\t/\tFALSE\t0\tshort")

	records, err := ParseExport(raw)
	require.Error(t, err)
	assert.Nil(t, records)

	var malformed *MalformedInputError
	require.ErrorAs(t, err, &malformed)
	assert.Equal(t, 2, malformed.Line)
	assert.Equal(t, "expected 7 tab-separated fields, got 6", malformed.Reason)
}

func TestParseExport_MalformedReasons(t *testing.T) {
	tests := []struct {
		name   string
		line   string
		reason string
	}{
		{
			name:   "too many fields",
			line:   "example.com\tFALSE\t/\tFALSE\t0\tname\tvalue\textra",
			reason: "expected 7 tab-separated fields, got 8",
		},
		{
			name:   "empty domain",
			line:   "\tFALSE\t/\tFALSE\t0\tname\tvalue",
			reason: "empty domain",
		},
		{
			name:   "dot domain",
			line:   ".\tFALSE\t/\tFALSE\t0\tname\tvalue",
			reason: "empty domain",
		},
		{
			name:   "bad subdomain flag",
			line:   "example.com\tYES\t/\tFALSE\t0\tname\tvalue",
			reason: `subdomain flag: expected TRUE or FALSE, got "YES"`,
		},
		{
			name:   "bad secure flag",
			line:   "example.com\tFALSE\t/\tmaybe\t0\tname\tvalue",
			reason: `secure flag: expected TRUE or FALSE, got "maybe"`,
		},
		{
			name:   "bad expiry",
			line:   "example.com\tFALSE\t/\tFALSE\tnever\tname\tvalue",
			reason: `expiry: unparsable timestamp "never"`,
		},
		{
			name:   "empty cookie name",
			line:   "example.com\tFALSE\t/\tFALSE\t0\t\tvalue",
			reason: "empty cookie name",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseExport([]byte(tt.line))
			require.Error(t, err)

			var malformed *MalformedInputError
			require.ErrorAs(t, err, &malformed)
			assert.Equal(t, 1, malformed.Line)
			assert.Equal(t, tt.reason, malformed.Reason)
		})
	}
}

func TestParseExport_ErrorReportsPhysicalLineNumber(t *testing.T) {
	raw := []byte("# header\n\nexample.com\tFALSE\t/\tFALSE\t0\t\tvalue")

	_, err := ParseExport(raw)
	require.Error(t, err)
	assert.EqualError(t, err, "malformed cookie export: line 3: empty cookie name")
}

func TestParseExport_DuplicatesCollapseOntoFirstSeen(t *testing.T) {
	raw := []byte("example.com\tFALSE\t/\tFALSE\t1000\tsid\tfirst\n" +
		"other.com\tFALSE\t/\tFALSE\t0\tx\ty\n" +
		"example.com\tFALSE\t/\tFALSE\t2000\tsid\tsecond\n")

	records, err := ParseExport(raw)
	require.NoError(t, err)
	require.Len(t, records, 2)

	// The winning duplicate keeps the first occurrence's position.
	assert.Equal(t, "sid", records[0].Name)
	assert.Equal(t, "second", records[0].Value)
	assert.Equal(t, expiry(2000), records[0].Expires)
	assert.Equal(t, "x", records[1].Name)
}

func TestParseExport_DuplicateWithEarlierExpiryLoses(t *testing.T) {
	raw := []byte("example.com\tFALSE\t/\tFALSE\t2000\tsid\tkeep\n" +
		"example.com\tFALSE\t/\tFALSE\t1000\tsid\tdrop\n")

	records, err := ParseExport(raw)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "keep", records[0].Value)
}

func TestParseExport_SessionDuplicateLosesToConcreteExpiry(t *testing.T) {
	raw := []byte("example.com\tFALSE\t/\tFALSE\t0\tsid\tsession\n" +
		"example.com\tFALSE\t/\tFALSE\t1000\tsid\tconcrete\n")

	records, err := ParseExport(raw)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "concrete", records[0].Value)

	// And the other way around: a session duplicate never replaces a
	// concrete expiry.
	raw = []byte("example.com\tFALSE\t/\tFALSE\t1000\tsid\tconcrete\n" +
		"example.com\tFALSE\t/\tFALSE\t0\tsid\tsession\n")

	records, err = ParseExport(raw)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "concrete", records[0].Value)
}

func TestParseExport_DistinctKeysAreKept(t *testing.T) {
	raw := []byte("example.com\tFALSE\t/\tFALSE\t0\tsid\ta\n" +
		"example.com\tFALSE\t/admin\tFALSE\t0\tsid\tb\n" +
		".example.com\tTRUE\t/\tFALSE\t0\tsid\tc\n")

	records, err := ParseExport(raw)
	require.NoError(t, err)

	// Different path or a leading domain dot make a different cookie.
	assert.Len(t, records, 3)
}

func TestSerializeRecords_Format(t *testing.T) {
	records := []CookieRecord{
		{
			Domain:            ".example.com",
			IncludeSubdomains: true,
			Path:              "/",
			Secure:            true,
			Expires:           expiry(1735689600),
			Name:              "sid",
			Value:             "abc",
			HTTPOnly:          true,
		},
		{
			Domain: "example.org",
			Path:   "/shop",
			Name:   "cart",
			Value:  "42",
		},
	}

	out := SerializeRecords(records)
	want := "#HttpOnly_.example.com\tTRUE\t/\tTRUE\t1735689600\tsid\tabc\n" +
		"example.org\tFALSE\t/shop\tFALSE\t0\tcart\t42\n"
	assert.Equal(t, want, string(out))
}

func TestSerializeRecords_Empty(t *testing.T) {
	assert.Empty(t, SerializeRecords(nil))
}

func TestSerializeRecords_RoundTrip(t *testing.T) {
	raw := []byte("#HttpOnly_.example.com\tTRUE\t/\tTRUE\t1735689600\tsid\tabc\n" +
		"example.org\tFALSE\t/shop\tFALSE\t0\tcart\t42\n" +
		"api.example.org\tFALSE\t/\tTRUE\t1893456000\ttoken\txyz\n")

	records, err := ParseExport(raw)
	require.NoError(t, err)

	again, err := ParseExport(SerializeRecords(records))
	require.NoError(t, err)
	assert.Equal(t, records, again)
}
