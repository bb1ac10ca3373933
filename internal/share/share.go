// Package share serializes a board together with its task-bound diagrams
// into a portable payload: a pretty-printed JSON export file, or a
// deflate-compressed base64url string carried in a share URL.
package share

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/klauspost/compress/flate"

	"github.com/amirbrooks/flowboard/internal/board"
	"github.com/amirbrooks/flowboard/internal/diagram"
)

// BoardParam is the query parameter a share URL carries the payload in.
const BoardParam = "board"

var ErrMalformed = errors.New("share: malformed payload")

// Payload is the export shape: the board plus any diagrams bound to its
// tasks, keyed by task ID.
type Payload struct {
	Board        board.Board                `json:"board"`
	TaskDiagrams map[string]diagram.Diagram `json:"taskDiagrams"`
}

// ExportJSON renders the payload as indented JSON for file export.
func ExportJSON(p Payload) ([]byte, error) {
	if p.TaskDiagrams == nil {
		p.TaskDiagrams = map[string]diagram.Diagram{}
	}
	return json.MarshalIndent(p, "", "  ")
}

// ParseJSON parses an exported payload. Fields the importer requires may be
// absent; validation is the import engine's job.
func ParseJSON(data []byte) (Payload, error) {
	var p Payload
	if err := json.Unmarshal(data, &p); err != nil {
		return Payload{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return p, nil
}

// Encode compresses the payload JSON with raw deflate and encodes it with
// the padding-free URL-safe base64 alphabet.
func Encode(p Payload) (string, error) {
	raw, err := json.Marshal(p)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	fw, err := flate.NewWriter(&buf, flate.BestCompression)
	if err != nil {
		return "", err
	}
	if _, err := fw.Write(raw); err != nil {
		return "", err
	}
	if err := fw.Close(); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf.Bytes()), nil
}

// Decode reverses Encode. Legacy links produced with the standard alphabet
// and padding still decode.
func Decode(encoded string) (Payload, error) {
	encoded = strings.TrimRight(strings.NewReplacer("+", "-", "/", "_").Replace(encoded), "=")
	compressed, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return Payload{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	fr := flate.NewReader(bytes.NewReader(compressed))
	defer fr.Close()
	raw, err := io.ReadAll(fr)
	if err != nil {
		return Payload{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return ParseJSON(raw)
}

// URL builds the share link for a payload against the application base URL.
func URL(base string, p Payload) (string, error) {
	encoded, err := Encode(p)
	if err != nil {
		return "", err
	}
	u, err := url.Parse(base)
	if err != nil {
		return "", err
	}
	q := u.Query()
	q.Set(BoardParam, encoded)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// FromURL extracts and decodes the payload from a share link. The second
// return is false when the URL carries no payload at all.
func FromURL(link string) (Payload, bool, error) {
	u, err := url.Parse(link)
	if err != nil {
		return Payload{}, false, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	encoded := u.Query().Get(BoardParam)
	if encoded == "" {
		return Payload{}, false, nil
	}
	p, err := Decode(encoded)
	if err != nil {
		return Payload{}, true, err
	}
	return p, true, nil
}

// ExportFilename derives the export file name from a title and timestamp:
// the slugified title joined to the UTC time with ':' and '.' replaced by
// '-' and the date/time separator by '_'.
func ExportFilename(title string, now time.Time, ext string) string {
	stamp := now.UTC().Format("2006-01-02_15-04-05")
	return fmt.Sprintf("%s_%s.%s", Slugify(title), stamp, ext)
}

// Slugify lowercases the title and collapses whitespace runs to hyphens.
func Slugify(s string) string {
	fields := strings.Fields(strings.ToLower(strings.TrimSpace(s)))
	if len(fields) == 0 {
		return "untitled"
	}
	return strings.Join(fields, "-")
}
