package types

import (
	"encoding/base64"
	"fmt"
)

// AssetRole names a file slot the engine can attach from.
type AssetRole string

// The two supported roles. Each role owns one asset slot and a set of
// memory-key variants that must be kept in sync on re-upload.
const (
	RoleResume      AssetRole = "resume"
	RoleCoverLetter AssetRole = "cover_letter"
)

// RoleKeyVariants maps each role to the memory keys that must all be updated
// to the new filename whenever an asset of that role is registered.
// The variants mirror the question phrasings seen across application forms.
var RoleKeyVariants = map[AssetRole][]string{
	RoleResume: {
		"resume",
		"upload resume",
		"attach resume",
		"resume/cv",
		"cv",
		"upload cv",
		"curriculum vitae",
	},
	RoleCoverLetter: {
		"cover letter",
		"upload cover letter",
		"attach cover letter",
		"covering letter",
	},
}

// ResumeTokens and CoverLetterTokens are the label substrings used to detect
// which role a file field (or a textual reference field) belongs to.
var (
	ResumeTokens      = []string{"resume", "cv", "curriculum"}
	CoverLetterTokens = []string{"cover letter", "coverletter", "cover-letter"}
)

// StoredFileAsset is a named binary payload (resume or cover letter) kept in
// the asset store and referenced, never owned, by the engine during a fill.
type StoredFileAsset struct {
	Name    string `json:"name" validate:"required"`
	Type    string `json:"type"` // MIME type
	Size    int64  `json:"size"`
	Payload string `json:"payload" validate:"required"` // base64-encoded bytes
}

// Decode returns the raw bytes of the payload.
func (a *StoredFileAsset) Decode() ([]byte, error) {
	data, err := base64.StdEncoding.DecodeString(a.Payload)
	if err != nil {
		return nil, fmt.Errorf("failed to decode asset %s: %w", a.Name, err)
	}
	return data, nil
}

// Encode fills the payload and size from raw bytes.
func (a *StoredFileAsset) Encode(data []byte) {
	a.Payload = base64.StdEncoding.EncodeToString(data)
	a.Size = int64(len(data))
}
