// Alphaweb - Multi-tenant Merchant Collections and Lending Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/alphaweb

package transactpay

import (
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"encoding/xml"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/goccy/go-json"
)

const keySizePrefix = "4096!"

// ErrInvalidKey is returned for keys that are not a base64 RSAKeyValue document.
var ErrInvalidKey = errors.New("invalid RSA XML key format")

type rsaKeyValue struct {
	XMLName  xml.Name `xml:"RSAKeyValue"`
	Modulus  string   `xml:"Modulus"`
	Exponent string   `xml:"Exponent"`
}

// ParsePublicKey decodes the provider's base64 XML key.
func ParsePublicKey(encoded string) (*rsa.PublicKey, error) {
	raw, err := base64.StdEncoding.DecodeString(strings.TrimSpace(encoded))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}
	doc := strings.TrimPrefix(strings.TrimSpace(string(raw)), keySizePrefix)

	var kv rsaKeyValue
	if err := xml.Unmarshal([]byte(doc), &kv); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}
	mod, err := decodeBigInt(kv.Modulus)
	if err != nil {
		return nil, fmt.Errorf("%w: modulus: %v", ErrInvalidKey, err)
	}
	exp, err := decodeBigInt(kv.Exponent)
	if err != nil {
		return nil, fmt.Errorf("%w: exponent: %v", ErrInvalidKey, err)
	}
	if !exp.IsInt64() || exp.Int64() < 3 || exp.Int64() > 1<<31-1 {
		return nil, fmt.Errorf("%w: exponent out of range", ErrInvalidKey)
	}
	return &rsa.PublicKey{N: mod, E: int(exp.Int64())}, nil
}

func decodeBigInt(s string) (*big.Int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, errors.New("empty value")
	}
	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, err
	}
	return new(big.Int).SetBytes(b), nil
}

// Encrypt returns base64(RSAES-PKCS1-v1_5(json(payload))).
func Encrypt(pub *rsa.PublicKey, payload interface{}) (string, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal payload: %w", err)
	}
	ct, err := rsa.EncryptPKCS1v15(rand.Reader, pub, data)
	if err != nil {
		return "", fmt.Errorf("encrypt payload: %w", err)
	}
	return base64.StdEncoding.EncodeToString(ct), nil
}
