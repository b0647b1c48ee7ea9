package analysis

import (
	"encoding/json"
	"fmt"

	"github.com/jonathan/fica-intake/internal/llm"
	"github.com/jonathan/fica-intake/internal/schemas"
	"github.com/jonathan/fica-intake/internal/types"
)

// FallbackDocumentCheck is substituted when the model answer cannot be used.
func FallbackDocumentCheck() types.DocumentCheck {
	return types.DocumentCheck{
		DetectedType:   "unknown",
		ExpectedTypeOK: false,
		QualityOK:      false,
		FailReasons:    []string{"Unable to parse analysis result"},
	}
}

// FallbackIDCheck is substituted when the model answer cannot be used.
func FallbackIDCheck() types.IDCheck {
	return types.IDCheck{
		IsID:     false,
		IsBlurry: true,
		Reason:   "Unable to parse analysis result.",
	}
}

// ParseDocumentCheck extracts and validates a document check from raw model text.
func ParseDocumentCheck(text string) (types.DocumentCheck, error) {
	var check types.DocumentCheck
	if err := decode(text, schemas.DocumentCheck, &check); err != nil {
		return types.DocumentCheck{}, err
	}
	if check.FailReasons == nil {
		check.FailReasons = []string{}
	}
	return check, nil
}

// ParseIDCheck extracts and validates an identity check from raw model text.
func ParseIDCheck(text string) (types.IDCheck, error) {
	var check types.IDCheck
	if err := decode(text, schemas.IDCheck, &check); err != nil {
		return types.IDCheck{}, err
	}
	return check, nil
}

// DocumentCheckOrFallback parses text, substituting the fallback on any failure.
// The second result reports whether text was usable.
func DocumentCheckOrFallback(text string) (types.DocumentCheck, bool) {
	check, err := ParseDocumentCheck(text)
	if err != nil {
		return FallbackDocumentCheck(), false
	}
	return check, true
}

// IDCheckOrFallback parses text, substituting the fallback on any failure.
func IDCheckOrFallback(text string) (types.IDCheck, bool) {
	check, err := ParseIDCheck(text)
	if err != nil {
		return FallbackIDCheck(), false
	}
	return check, true
}

func decode(text, schema string, v any) error {
	obj := llm.ExtractJSONObject(llm.CleanJSONBlock(text))
	if obj == "" {
		return ErrNoJSON
	}
	if err := schemas.Validate(schema, obj); err != nil {
		return fmt.Errorf("model response rejected: %w", err)
	}
	if err := json.Unmarshal([]byte(obj), v); err != nil {
		return fmt.Errorf("failed to decode model response: %w", err)
	}
	return nil
}
