package record

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for fingerprint computation. The version suffix allows
// the algorithm to change without colliding with old fingerprints.
const (
	DomainReport  = "kconform/report/v1"
	DomainProfile = "kconform/profile/v1"
)

// hashWithDomain computes SHA256(domain + 0x00 + data). The null separator
// prevents domain/data boundary ambiguity.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// ReportFingerprint computes the content-addressed identity of a probe run.
// The run ID and wall-clock time are deliberately excluded: the fingerprint
// identifies what was observed, not when or by which invocation.
func ReportFingerprint(probe string, verdicts []VerdictRecord) (string, error) {
	list := make([]any, len(verdicts))
	for i, v := range verdicts {
		list[i] = map[string]any{
			"name":    v.Name,
			"passed":  v.Passed,
			"message": v.Message,
		}
	}

	canonical, err := MarshalCanonical(map[string]any{
		"probe":    probe,
		"verdicts": list,
	})
	if err != nil {
		return "", fmt.Errorf("ReportFingerprint: failed to marshal: %w", err)
	}

	return hashWithDomain(DomainReport, canonical), nil
}

// ProfileFingerprint computes the content-addressed identity of a fixture
// profile from its canonical document form.
func ProfileFingerprint(doc map[string]any) (string, error) {
	canonical, err := MarshalCanonical(doc)
	if err != nil {
		return "", fmt.Errorf("ProfileFingerprint: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainProfile, canonical), nil
}
