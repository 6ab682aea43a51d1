package ir

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// Domain prefixes for content-addressed identity.
const (
	DomainRegion = "fieldml/region/v1"
)

// hashWithDomain computes SHA256(domain + 0x00 + data).
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// CanonicalDoc returns the canonical JSON encoding of a region document.
func CanonicalDoc(doc *RegionDoc) ([]byte, error) {
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("canonical doc: %w", err)
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var generic any
	if err := dec.Decode(&generic); err != nil {
		return nil, fmt.Errorf("canonical doc: %w", err)
	}
	return MarshalCanonical(generic)
}

// Fingerprint computes the content-addressed identity of a region document.
// Two documents describing the same object graph share a fingerprint
// regardless of map ordering or Unicode normalization form.
func Fingerprint(doc *RegionDoc) (string, error) {
	canonical, err := CanonicalDoc(doc)
	if err != nil {
		return "", fmt.Errorf("Fingerprint: %w", err)
	}
	return hashWithDomain(DomainRegion, canonical), nil
}
