package encoder

import (
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const separator = ";base64,"

// Encoded is an uploaded file as base64 payload plus media type.
type Encoded struct {
	Base64   string `json:"base64"`
	MIMEType string `json:"mimeType"`
}

// DataURI renders the payload as a displayable data URI.
func (e Encoded) DataURI() string {
	return "data:" + e.MIMEType + separator + e.Base64
}

// Bytes decodes the payload.
func (e Encoded) Bytes() ([]byte, error) {
	return base64.StdEncoding.DecodeString(e.Base64)
}

// DecodeError is returned for files whose encoded form cannot be split into
// media type and payload.
type DecodeError struct {
	Reason string
}

func (e *DecodeError) Error() string {
	if e.Reason == "" {
		return "Invalid file format"
	}
	return "Invalid file format: " + e.Reason
}

// Encoder converts uploaded files into Encoded values.
type Encoder struct {
	maxBytes int64
}

// New returns an Encoder that rejects files larger than maxBytes.
// maxBytes <= 0 disables the limit.
func New(maxBytes int64) *Encoder {
	return &Encoder{maxBytes: maxBytes}
}

// Encode - 파일을 읽어 data URI로 만든 뒤 media type과 payload로 분리
func (e *Encoder) Encode(r io.Reader, declaredType string) (Encoded, error) {
	src := r
	if e.maxBytes > 0 {
		src = io.LimitReader(r, e.maxBytes+1)
	}
	data, err := io.ReadAll(src)
	if err != nil {
		return Encoded{}, fmt.Errorf("read upload: %w", err)
	}
	if e.maxBytes > 0 && int64(len(data)) > e.maxBytes {
		return Encoded{}, &DecodeError{Reason: fmt.Sprintf("file exceeds %d bytes", e.maxBytes)}
	}

	// 선언된 타입이 없거나 generic이면 내용으로 판별 (판별 실패 시 octet-stream 유지)
	mimeType := mediaType(declaredType)
	if (mimeType == "" || mimeType == octetStream) && len(data) > 0 {
		mimeType = mediaType(http.DetectContentType(data))
	}

	// 빈 파일은 payload 없는 data URI가 되어 아래에서 거부됨
	uri := "data:" + mimeType
	if len(data) > 0 {
		uri += separator + base64.StdEncoding.EncodeToString(data)
	}
	return ParseDataURI(uri)
}

// ParseDataURI splits "data:<mime>;base64,<payload>".
func ParseDataURI(uri string) (Encoded, error) {
	head, payload, found := strings.Cut(uri, separator)
	if !found || payload == "" {
		return Encoded{}, &DecodeError{}
	}
	_, mimeType, _ := strings.Cut(head, ":")
	return Encoded{Base64: payload, MIMEType: mimeType}, nil
}

const octetStream = "application/octet-stream"

func mediaType(contentType string) string {
	mt, _, _ := strings.Cut(contentType, ";")
	return strings.ToLower(strings.TrimSpace(mt))
}
