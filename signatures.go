package keepalive

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

var ErrDecode = errors.New("unexpected signatures response")

type Signature struct {
	Image string `json:"image"`
	Seed  string `json:"seed"`
}

// SignaturesResponse is the body returned by the signature generation endpoint.
// The prober only checks that it decodes; the contents are never used.
type SignaturesResponse struct {
	CombinedVelocity uint64      `json:"combinedVelocity"`
	LayerDimensions  []uint16    `json:"layerDimensions"`
	Strategy         string      `json:"strategy"`
	Signatures       []Signature `json:"signatures"`
}

// DecodeSignatures reads a SignaturesResponse, requiring every field to be present.
// All errors wrap ErrDecode.
func DecodeSignatures(reader io.Reader) (*SignaturesResponse, error) {

	var payload signaturesPayload

	if err := json.NewDecoder(reader).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	if err := payload.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	return payload.value(), nil
}

//	pointer fields tell a missing value apart from a zero one
type signaturesPayload struct {
	CombinedVelocity *uint64            `json:"combinedVelocity"`
	LayerDimensions  []uint16           `json:"layerDimensions"`
	Strategy         *string            `json:"strategy"`
	Signatures       []signaturePayload `json:"signatures"`
}

type signaturePayload struct {
	Image *string `json:"image"`
	Seed  *string `json:"seed"`
}

func (this *signaturesPayload) Validate() error {
	return validation.ValidateStruct(this,
		validation.Field(&this.CombinedVelocity, validation.NotNil),
		validation.Field(&this.LayerDimensions, validation.NotNil),
		validation.Field(&this.Strategy, validation.NotNil),
		validation.Field(&this.Signatures,
			validation.NotNil,
			validation.Each(validation.By(validateSignature)),
		),
	)
}

func validateSignature(value interface{}) error {

	item, ok := value.(signaturePayload)
	if !ok {
		return validation.NewError("validation_invalid_type", "must be a signature")
	}

	return validation.ValidateStruct(&item,
		validation.Field(&item.Image, validation.NotNil),
		validation.Field(&item.Seed, validation.NotNil),
	)
}

func (this *signaturesPayload) value() *SignaturesResponse {

	result := SignaturesResponse{
		CombinedVelocity: *this.CombinedVelocity,
		LayerDimensions:  this.LayerDimensions,
		Strategy:         *this.Strategy,
		Signatures:       make([]Signature, len(this.Signatures)),
	}

	for idx, val := range this.Signatures {
		result.Signatures[idx] = Signature{Image: *val.Image, Seed: *val.Seed}
	}

	return &result
}
