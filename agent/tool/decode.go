package tool

import (
	"fmt"

	"github.com/mitchellh/mapstructure"

	contractx "github.com/tanpawarit/Chative-Parts-Assistant/agent/contract"
)

// Decode converts JSON-shaped tool data into T.
func Decode[T any](data any) (T, error) {
	var out T
	if data == nil {
		return out, nil
	}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &out,
		WeaklyTypedInput: false,
		ZeroFields:       true,
	})
	if err != nil {
		return out, err
	}
	if err := decoder.Decode(data); err != nil {
		return out, fmt.Errorf("%w: decode %T: %v", contractx.ErrValidation, out, err)
	}
	return out, nil
}

// DecodeParts returns the parts carried by r, or nil when r holds none.
func DecodeParts(r Result) []contractx.Part {
	parts, err := Decode[[]contractx.Part](r.Data())
	if err != nil {
		return nil
	}
	return parts
}

// DecodePart returns nil when the result carries no part.
func DecodePart(r Result) *contractx.Part {
	if r.Data() == nil {
		return nil
	}
	part, err := Decode[contractx.Part](r.Data())
	if err != nil || part.PsNumber == "" {
		return nil
	}
	return &part
}

func DecodeDocs(r Result) []contractx.Doc {
	docs, err := Decode[[]contractx.Doc](r.Data())
	if err != nil {
		return nil
	}
	return docs
}

func DecodeFit(r Result) (contractx.FitResult, bool) {
	fit, err := Decode[contractx.FitResult](r.Data())
	if err != nil {
		return contractx.FitResult{}, false
	}
	return fit, true
}

func DecodeStrings(r Result) []string {
	steps, err := Decode[[]string](r.Data())
	if err != nil {
		return nil
	}
	return steps
}
