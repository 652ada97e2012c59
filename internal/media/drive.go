package media

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"regexp"
	"strings"
)

const drivePreviewPattern = "https://drive.google.com/file/d/%s/preview"

var driveFileRegex = regexp.MustCompile(`/file/d/([A-Za-z0-9_-]+)(?:[/?#]|$)`)

var ErrInvalidDrivePayload = errors.New("Invalid Drive link payload")

type drivePayload struct {
	Id []string `json:"id"`
}

func driveFileId(raw string) string {
	if m := driveFileRegex.FindStringSubmatch(raw); m != nil {
		return m[1]
	}

	return ""
}

func decodeBase64(s string) ([]byte, error) {
	var lastErr error
	for _, enc := range []*base64.Encoding{base64.StdEncoding, base64.RawStdEncoding, base64.URLEncoding, base64.RawURLEncoding} {
		data, err := enc.DecodeString(s)
		if err == nil {
			return data, nil
		}
		lastErr = err
	}

	return nil, lastErr
}

// decodeObfuscatedId reads the id= parameter of a DrivePlyr style link: base64
// encoded JSON carrying an "id" array. found is false when there is no such
// parameter at all.
func decodeObfuscatedId(raw string) (id string, found bool, err error) {
	_, query, ok := strings.Cut(raw, "?")
	if !ok {
		return "", false, nil
	}
	query, _, _ = strings.Cut(query, "#")

	values, err := url.ParseQuery(query)
	if err != nil && len(values) == 0 {
		return "", false, nil
	}

	payload := values.Get("id")
	if payload == "" {
		return "", false, nil
	}

	// '+' in an unescaped query decodes to a space
	payload = strings.ReplaceAll(payload, " ", "+")

	data, err := decodeBase64(payload)
	if err != nil {
		return "", true, fmt.Errorf("%w: %v", ErrInvalidDrivePayload, err)
	}

	var decoded drivePayload
	if err := json.Unmarshal(data, &decoded); err != nil {
		return "", true, fmt.Errorf("%w: %v", ErrInvalidDrivePayload, err)
	}

	if len(decoded.Id) == 0 || decoded.Id[0] == "" {
		return "", true, fmt.Errorf("%w: missing id", ErrInvalidDrivePayload)
	}

	return decoded.Id[0], true, nil
}

// TransformDriveLink rewrites Drive share links into their preview form. The
// obfuscated payload format belongs to a third party, so a payload that fails
// to decode is logged and the link returned untouched.
func TransformDriveLink(raw string) string {
	if id := driveFileId(raw); id != "" {
		return fmt.Sprintf(drivePreviewPattern, id)
	}

	id, found, err := decodeObfuscatedId(raw)
	if err != nil {
		slog.Warn("Unable to decode obfuscated Drive link", "url", raw, "err", err)
		return raw
	}

	if found {
		return fmt.Sprintf(drivePreviewPattern, id)
	}

	return raw
}
