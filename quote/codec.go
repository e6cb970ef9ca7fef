package quote

import (
	"encoding/json"
	"fmt"
)

// MarshalDraft serializes a document for draft storage. The output is JSON;
// absent optional sections are omitted entirely, timestamp strings are kept
// byte-for-byte, so UnmarshalDraft(MarshalDraft(d)) reproduces d field for
// field (for custom field values this holds for JSON-native types). An empty
// non-nil item slice is omitted like a nil one and decodes back as nil; the
// builder never produces empty non-nil slices, so for builder documents the
// round trip is exact.
func MarshalDraft(d Document) ([]byte, error) {
	data, err := json.MarshalIndent(&d, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal draft: %w", err)
	}
	return data, nil
}

// UnmarshalDraft parses a stored draft back into a document. Input that does
// not decode into the expected shape fails with ErrCorruptDraft.
func UnmarshalDraft(data []byte) (Document, error) {
	var d Document
	if err := json.Unmarshal(data, &d); err != nil {
		return Document{}, fmt.Errorf("%w: %v", ErrCorruptDraft, err)
	}
	return d, nil
}
