package encoding

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/vmihailenco/msgpack/v5"
)

// Sentinel errors returned by Decode and RoundTrip.
var (
	ErrInvalidFormat     = errors.New("encoding: invalid format")
	ErrSignatureInvalid  = errors.New("encoding: signature verification failed")
	ErrDecryptFailed     = errors.New("encoding: decryption failed")
	ErrNotRoundTrippable = errors.New("encoding: value does not survive a round trip")
)

// Encoder handles the wire format for component props and state.
// Payloads are msgpack, wrapped in one of two modes:
//   - Signed (default): Base64 + HMAC signature - visible but tamper-proof
//   - Encrypted: AES-256-GCM - fully opaque
type Encoder struct {
	key []byte
	gcm cipher.AEAD
}

// NewEncoder creates a new encoder with the given encryption key.
// Keys shorter than 32 bytes are stretched to 32 via SHA-256.
func NewEncoder(key []byte) (*Encoder, error) {
	if len(key) < 32 {
		h := sha256.Sum256(key)
		key = h[:]
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	return &Encoder{
		key: key,
		gcm: gcm,
	}, nil
}

// Encode serializes a value and returns an encoded string.
// If sensitive is true, the data is encrypted; otherwise it's signed.
//
// The value must be plain, serializable data: msgpack rejects channels,
// functions, and unsafe pointers, and cyclic values do not terminate. See
// RoundTrip for an explicit check.
func (e *Encoder) Encode(v any, sensitive bool) (string, error) {
	packed, err := msgpack.Marshal(v)
	if err != nil {
		return "", err
	}

	if sensitive {
		return e.encrypt(packed)
	}
	return e.sign(packed)
}

// Decode deserializes an encoded string into v, which must be a non-nil
// pointer. If sensitive is true, the data is decrypted; otherwise the
// signature is verified.
func (e *Encoder) Decode(encoded string, sensitive bool, v any) error {
	var packed []byte
	var err error

	if sensitive {
		packed, err = e.decrypt(encoded)
	} else {
		packed, err = e.verify(encoded)
	}
	if err != nil {
		return err
	}

	return msgpack.Unmarshal(packed, v)
}

// RoundTrip checks that v survives a serialize -> deserialize cycle and
// reconstructs to a deep-equal value. Returns nil when v is wire-safe and
// an error wrapping ErrNotRoundTrippable (or the marshal failure) when it
// is not.
//
// The reconstruction is compared with reflect.DeepEqual, so types with
// unexported fields or non-canonical equality (live handles, functions,
// time zones) fail here even when msgpack accepts them - which is the
// point: such values would not hydrate back to what was stored.
func (e *Encoder) RoundTrip(v any) error {
	packed, err := msgpack.Marshal(v)
	if err != nil {
		return err
	}

	rt := reflect.TypeOf(v)
	if rt == nil {
		// Untyped nil trivially round-trips.
		return nil
	}
	fresh := reflect.New(rt)
	if err := msgpack.Unmarshal(packed, fresh.Interface()); err != nil {
		return fmt.Errorf("%w: %v", ErrNotRoundTrippable, err)
	}
	if !reflect.DeepEqual(v, fresh.Elem().Interface()) {
		return fmt.Errorf("%w: reconstructed value differs", ErrNotRoundTrippable)
	}
	return nil
}

// sign creates a signed (but visible) encoding: base64.signature
func (e *Encoder) sign(data []byte) (string, error) {
	b64 := base64.RawURLEncoding.EncodeToString(data)
	mac := hmac.New(sha256.New, e.key)
	mac.Write(data)
	sig := base64.RawURLEncoding.EncodeToString(mac.Sum(nil)[:16]) // 16 bytes = 128 bits
	return b64 + "." + sig, nil
}

// verify verifies and decodes a signed string
func (e *Encoder) verify(encoded string) ([]byte, error) {
	parts := strings.SplitN(encoded, ".", 2)
	if len(parts) != 2 {
		return nil, fmt.Errorf("%w: missing signature", ErrInvalidFormat)
	}

	data, err := base64.RawURLEncoding.DecodeString(parts[0])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}

	sig, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}

	mac := hmac.New(sha256.New, e.key)
	mac.Write(data)
	expected := mac.Sum(nil)[:16]

	if !hmac.Equal(sig, expected) {
		return nil, ErrSignatureInvalid
	}

	return data, nil
}

// encrypt creates an encrypted encoding using AES-256-GCM
func (e *Encoder) encrypt(data []byte) (string, error) {
	nonce := make([]byte, e.gcm.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", err
	}

	ciphertext := e.gcm.Seal(nonce, nonce, data, nil)
	return base64.RawURLEncoding.EncodeToString(ciphertext), nil
}

// decrypt decodes and decrypts an encrypted string
func (e *Encoder) decrypt(encoded string) ([]byte, error) {
	ciphertext, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}

	if len(ciphertext) < e.gcm.NonceSize() {
		return nil, fmt.Errorf("%w: ciphertext too short", ErrDecryptFailed)
	}

	nonce := ciphertext[:e.gcm.NonceSize()]
	ciphertext = ciphertext[e.gcm.NonceSize():]

	plain, err := e.gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecryptFailed, err)
	}
	return plain, nil
}
