package core

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// httpOnlyPrefix marks HttpOnly cookies in the Netscape export format.
const httpOnlyPrefix = "#HttpOnly_"

// fieldsPerRecord is the column count of one export line:
// domain, subdomain flag, path, secure flag, expiry, name, value.
const fieldsPerRecord = 7

// MalformedInputError reports an export line that does not match the
// expected format. Line is the 1-based physical line number.
type MalformedInputError struct {
	Line   int
	Reason string
}

func (e *MalformedInputError) Error() string {
	return fmt.Sprintf("malformed cookie export: line %d: %s", e.Line, e.Reason)
}

// ParseExport decodes a cookie export into records. The whole input is
// rejected on the first malformed line; a partial parse would skew every
// downstream count and score. An empty export is valid and yields an
// empty slice.
func ParseExport(raw []byte) ([]CookieRecord, error) {
	text, err := decodeExport(raw)
	if err != nil {
		return nil, &MalformedInputError{Line: 1, Reason: fmt.Sprintf("undecodable input: %v", err)}
	}

	records := make([]CookieRecord, 0, 64)
	byKey := make(map[Key]int)

	for i, line := range strings.Split(text, "\n") {
		lineNo := i + 1
		line = strings.TrimSuffix(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}

		httpOnly := false
		if strings.HasPrefix(line, httpOnlyPrefix) {
			httpOnly = true
			line = strings.TrimPrefix(line, httpOnlyPrefix)
		} else if strings.HasPrefix(line, "#") {
			continue
		}

		rec, err := parseLine(line, lineNo)
		if err != nil {
			return nil, err
		}
		rec.HTTPOnly = httpOnly

		// Duplicates collapse onto the first occurrence; the record
		// with the furthest-future expiry wins and session cookies
		// lose to any concrete expiry.
		if at, ok := byKey[rec.Key()]; ok {
			if expiryBeats(rec.Expires, records[at].Expires) {
				records[at] = rec
			}
			continue
		}
		byKey[rec.Key()] = len(records)
		records = append(records, rec)
	}

	return records, nil
}

func parseLine(line string, lineNo int) (CookieRecord, error) {
	parts := strings.Split(line, "\t")
	if len(parts) != fieldsPerRecord {
		return CookieRecord{}, &MalformedInputError{
			Line:   lineNo,
			Reason: fmt.Sprintf("expected %d tab-separated fields, got %d", fieldsPerRecord, len(parts)),
		}
	}

	domain := normalizeDomain(parts[0])
	if domain == "" || domain == "." {
		return CookieRecord{}, &MalformedInputError{Line: lineNo, Reason: "empty domain"}
	}

	includeSubdomains, err := parseFlag(parts[1])
	if err != nil {
		return CookieRecord{}, &MalformedInputError{Line: lineNo, Reason: fmt.Sprintf("subdomain flag: %v", err)}
	}
	secure, err := parseFlag(parts[3])
	if err != nil {
		return CookieRecord{}, &MalformedInputError{Line: lineNo, Reason: fmt.Sprintf("secure flag: %v", err)}
	}

	expires, err := parseExpiry(parts[4])
	if err != nil {
		return CookieRecord{}, &MalformedInputError{Line: lineNo, Reason: fmt.Sprintf("expiry: %v", err)}
	}

	name := parts[5]
	if name == "" {
		return CookieRecord{}, &MalformedInputError{Line: lineNo, Reason: "empty cookie name"}
	}

	return CookieRecord{
		Domain:            domain,
		IncludeSubdomains: includeSubdomains,
		Path:              normalizePath(parts[2]),
		Secure:            secure,
		Expires:           expires,
		Name:              name,
		Value:             parts[6],
		SameSite:          SameSiteUnspecified,
	}, nil
}

// decodeExport converts the upload to UTF-8. Browser exports arrive as
// UTF-8 or UTF-16 with a BOM depending on how the user saved the file.
func decodeExport(raw []byte) (string, error) {
	decoder := unicode.BOMOverride(unicode.UTF8.NewDecoder().Transformer)
	out, _, err := transform.Bytes(decoder, raw)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// normalizeDomain lowercases the domain and trims a trailing dot,
// keeping a leading dot intact.
func normalizeDomain(domain string) string {
	domain = strings.ToLower(strings.TrimSpace(domain))
	if len(domain) > 1 {
		domain = strings.TrimSuffix(domain, ".")
	}
	return domain
}

func normalizePath(path string) string {
	if path == "" {
		return "/"
	}
	return path
}

func parseFlag(field string) (bool, error) {
	switch {
	case strings.EqualFold(field, "TRUE"):
		return true, nil
	case strings.EqualFold(field, "FALSE"):
		return false, nil
	}
	return false, fmt.Errorf("expected TRUE or FALSE, got %q", field)
}

// parseExpiry reads an epoch-seconds timestamp. Zero or negative means a
// session cookie.
func parseExpiry(field string) (*time.Time, error) {
	ts, err := strconv.ParseInt(strings.TrimSpace(field), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("unparsable timestamp %q", field)
	}
	if ts <= 0 {
		return nil, nil
	}
	t := time.Unix(ts, 0).UTC()
	return &t, nil
}

// expiryBeats reports whether a duplicate with expiry a replaces the
// stored record with expiry b.
func expiryBeats(a, b *time.Time) bool {
	if a == nil {
		return false
	}
	if b == nil {
		return true
	}
	return a.After(*b)
}

// SerializeRecords writes records back in the export format the parser
// consumes, so the output can be re-imported into a browser. HttpOnly
// records carry the #HttpOnly_ domain prefix.
func SerializeRecords(records []CookieRecord) []byte {
	var b strings.Builder
	for _, rec := range records {
		if rec.HTTPOnly {
			b.WriteString(httpOnlyPrefix)
		}
		b.WriteString(rec.Domain)
		b.WriteByte('\t')
		b.WriteString(formatFlag(rec.IncludeSubdomains))
		b.WriteByte('\t')
		b.WriteString(rec.Path)
		b.WriteByte('\t')
		b.WriteString(formatFlag(rec.Secure))
		b.WriteByte('\t')
		b.WriteString(formatExpiry(rec.Expires))
		b.WriteByte('\t')
		b.WriteString(rec.Name)
		b.WriteByte('\t')
		b.WriteString(rec.Value)
		b.WriteByte('\n')
	}
	return []byte(b.String())
}

func formatFlag(v bool) string {
	if v {
		return "TRUE"
	}
	return "FALSE"
}

func formatExpiry(t *time.Time) string {
	if t == nil {
		return "0"
	}
	return strconv.FormatInt(t.Unix(), 10)
}
