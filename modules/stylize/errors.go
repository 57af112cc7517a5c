package stylize

import "fmt"

// Operation names the remote call an error came from.
type Operation string

const (
	OpEnhance   Operation = "enhance"
	OpStylize   Operation = "stylize"
	OpStylizeHD Operation = "stylize-hd"
)

func (op Operation) subject() string {
	if op == OpEnhance {
		return "Image enhancement"
	}
	return "Image stylization"
}

// BlockedError - 응답에 후보가 없고 block reason이 있는 경우
type BlockedError struct {
	Op     Operation
	Reason string
}

func (e *BlockedError) Error() string {
	return fmt.Sprintf("%s was blocked for safety reasons: %s", e.Op.subject(), e.Reason)
}

// EmptyResponseError - 후보도 block reason도 없는 경우
type EmptyResponseError struct {
	Op Operation
}

func (e *EmptyResponseError) Error() string {
	return fmt.Sprintf("%s failed: The model did not return a valid response.", e.Op.subject())
}

// GenerationFailedError - 후보의 finish reason이 실패(SAFETY, RECITATION, OTHER)인 경우
type GenerationFailedError struct {
	Op     Operation
	Reason string
}

func (e *GenerationFailedError) Error() string {
	return fmt.Sprintf("%s failed. Reason: %s.", e.Op.subject(), e.Reason)
}

// NoImageReturnedError - 이미지 파트 없이 텍스트만 돌아온 경우
type NoImageReturnedError struct {
	Op   Operation
	Text string
}

func (e *NoImageReturnedError) Error() string {
	msg := "No image was generated. The model might have returned a text-only response."
	if e.Op == OpEnhance {
		msg = "Failed to enhance image. The model did not return an image."
	}
	if e.Text != "" {
		msg += fmt.Sprintf(" Model response: \"%s\"", e.Text)
	}
	return msg
}
