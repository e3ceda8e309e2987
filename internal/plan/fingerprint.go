package plan

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// fingerprintNamespace scopes plan fingerprints so they cannot collide with
// UUIDs minted for any other purpose.
var fingerprintNamespace = uuid.MustParse("8f2f41d6-3c1a-4b87-9a71-52d6f0c3b9ee")

// Seal computes and stores the plan's fingerprint: a name-based UUID over
// the canonical JSON encoding of the plan content. The fingerprint is a pure
// function of the content, so identical resolutions carry identical
// fingerprints and a changed plan is immediately distinguishable.
func (p *Plan) Seal() error {
	p.Fingerprint = ""
	canonical, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to canonicalize plan for fingerprinting: %w", err)
	}
	p.Fingerprint = uuid.NewSHA1(fingerprintNamespace, canonical).String()
	return nil
}
