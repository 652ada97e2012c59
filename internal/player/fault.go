package player

import (
	"strings"

	"github.com/btmxh/folio/internal/media"
)

type FaultKind string

const (
	FaultInvalidURL            FaultKind = "invalid-url"
	FaultMissingCredential     FaultKind = "missing-credential"
	FaultUnsupportedFormat     FaultKind = "unsupported-format"
	FaultNetwork               FaultKind = "network"
	FaultDecode                FaultKind = "decode"
	FaultAborted               FaultKind = "aborted"
	FaultAccessDenied          FaultKind = "access-denied"
	FaultThirdPartyRestriction FaultKind = "third-party-restriction"
	FaultUnknown               FaultKind = "unknown"
)

// MediaErrorCode follows the HTML media element codes (1-4). Embedded players
// report their own codes: YouTube uses 100/101/150, hosts may surface HTTP
// status codes.
type MediaErrorCode int

const (
	CodeNone           MediaErrorCode = 0
	CodeAborted        MediaErrorCode = 1
	CodeNetwork        MediaErrorCode = 2
	CodeDecode         MediaErrorCode = 3
	CodeSrcUnsupported MediaErrorCode = 4

	CodeYoutubeNotFound       MediaErrorCode = 100
	CodeYoutubeNotEmbeddable  MediaErrorCode = 101
	CodeYoutubeNotEmbeddable2 MediaErrorCode = 150
	CodeForbidden             MediaErrorCode = 403
	CodeNotFound              MediaErrorCode = 404
)

// MediaError is the raw error reported by the media element.
type MediaError struct {
	Code    MediaErrorCode `json:"code"`
	Message string         `json:"message"`
}

type Fault struct {
	Kind      FaultKind `json:"kind"`
	Message   string    `json:"message"`
	Retryable bool      `json:"retryable"`
}

func containsAny(s string, needles ...string) bool {
	for _, needle := range needles {
		if strings.Contains(s, needle) {
			return true
		}
	}

	return false
}

// ClassifyError maps a raw media error to a fault. Rules are ordered and the
// first match wins. Retryable here is the class's nominal flag, before the
// retry budget is applied.
func ClassifyError(source string, raw MediaError) Fault {
	message := strings.ToLower(raw.Message)

	switch {
	case !media.IsWellFormedURL(source):
		return Fault{FaultInvalidURL, "Invalid video URL provided", false}
	case containsAny(message, "api key", "apikey", "api_key", "invalid key", "missing key"):
		return Fault{FaultMissingCredential, "The video service API key is missing or invalid", false}
	case raw.Code == CodeSrcUnsupported:
		return Fault{FaultUnsupportedFormat, "This video format is not supported", false}
	case raw.Code == CodeNetwork:
		return Fault{FaultNetwork, "A network error interrupted the video download", true}
	case raw.Code == CodeDecode:
		return Fault{FaultDecode, "The video could not be decoded", true}
	case raw.Code == CodeAborted:
		return Fault{FaultAborted, "Video loading was aborted", true}
	case raw.Code == CodeNotFound || raw.Code == CodeForbidden || raw.Code == CodeYoutubeNotFound ||
		raw.Code == CodeYoutubeNotEmbeddable || raw.Code == CodeYoutubeNotEmbeddable2:
		return Fault{FaultAccessDenied, "The video was not found or access was denied", false}
	case containsAny(message, "drive.google.com", "docs.google.com", "googleusercontent.com") ||
		media.Classify(source) == media.MediaKindDrive:
		return Fault{FaultThirdPartyRestriction, "This Google Drive video is private or cannot be embedded", false}
	case containsAny(message, "cors", "cross-origin", "access-control-allow-origin"):
		return Fault{FaultThirdPartyRestriction, "The video host does not allow playback on this site", false}
	default:
		return Fault{FaultUnknown, "An error occurred while playing the video", true}
	}
}
