package fingerprint

import (
	"encoding/base64"
	"strings"
)

// EncodeToString compresses fp and encodes it with the URL-safe base64
// alphabet without padding, the form fpcalc prints.
func EncodeToString(fp Fingerprint) (string, error) {
	data, err := Compress(fp.Subfingerprints, fp.Algorithm)
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(data), nil
}

// DecodeString reverses EncodeToString. It accepts both the standard and the
// URL-safe alphabet, with or without padding.
func DecodeString(s string) (Fingerprint, error) {
	data, err := DecodeBase64(s)
	if err != nil {
		return Fingerprint{}, err
	}
	return Decompress(data)
}

var base64Normalizer = strings.NewReplacer("+", "-", "/", "_", "\n", "", "\r", "", " ", "", "\t", "")

// DecodeBase64 decodes base64 text in either alphabet into raw bytes.
// Padding is only accepted at the end.
func DecodeBase64(s string) ([]byte, error) {
	s = strings.TrimRight(base64Normalizer.Replace(s), "=")
	data, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return nil, newErrorf(ErrInvalidInput, "bad base64: %v", err)
	}
	return data, nil
}
