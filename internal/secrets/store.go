package secrets

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// Per-user token store (file, 0600) with AES-GCM obfuscation. Tokens are keyed
// by endpoint host so one store serves several prediction services.

const fileName = "tokens.json"

var ErrNotFound = errors.New("secrets: token not found")

type tokenFile struct {
	Tokens map[string]string `json:"tokens"` // host -> base64(ciphertext)
}

// StoreToken saves token for the host of endpoint.
func StoreToken(endpoint, token string) error {
	host, err := hostKey(endpoint)
	if err != nil {
		return err
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return fmt.Errorf("token required")
	}
	path, err := filePath()
	if err != nil {
		return err
	}
	tf, err := load(path)
	if err != nil {
		return err
	}
	if tf.Tokens == nil {
		tf.Tokens = map[string]string{}
	}
	ct, err := encrypt([]byte(token))
	if err != nil {
		return fmt.Errorf("encrypt token: %w", err)
	}
	tf.Tokens[host] = base64.StdEncoding.EncodeToString(ct)
	return save(path, tf)
}

// FetchToken returns the token stored for the host of endpoint.
func FetchToken(endpoint string) (string, error) {
	host, err := hostKey(endpoint)
	if err != nil {
		return "", err
	}
	path, err := filePath()
	if err != nil {
		return "", err
	}
	tf, err := load(path)
	if err != nil {
		return "", err
	}
	enc, ok := tf.Tokens[host]
	if !ok {
		return "", ErrNotFound
	}
	raw, err := base64.StdEncoding.DecodeString(enc)
	if err != nil {
		return "", fmt.Errorf("decode token: %w", err)
	}
	pt, err := decrypt(raw)
	if err != nil {
		return "", fmt.Errorf("decrypt token: %w", err)
	}
	return string(pt), nil
}

// DeleteToken forgets the token for the host of endpoint. Deleting a missing
// token is not an error.
func DeleteToken(endpoint string) error {
	host, err := hostKey(endpoint)
	if err != nil {
		return err
	}
	path, err := filePath()
	if err != nil {
		return err
	}
	tf, err := load(path)
	if err != nil {
		return err
	}
	if _, ok := tf.Tokens[host]; !ok {
		return nil
	}
	delete(tf.Tokens, host)
	return save(path, tf)
}

// ResolveToken picks the bearer token for endpoint: env var first, then the store.
// A missing token is not an error; the service may be open.
func ResolveToken(endpoint, envName string) string {
	if envName = strings.TrimSpace(envName); envName != "" {
		if v := strings.TrimSpace(os.Getenv(envName)); v != "" {
			return v
		}
	}
	if tok, err := FetchToken(endpoint); err == nil {
		return tok
	}
	return ""
}

func hostKey(endpoint string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(endpoint))
	if err != nil {
		return "", fmt.Errorf("parse endpoint: %w", err)
	}
	if u.Host == "" {
		return "", fmt.Errorf("endpoint %q has no host", endpoint)
	}
	return strings.ToLower(u.Host), nil
}

func filePath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	dir = filepath.Join(dir, "realcheck")
	if err := os.MkdirAll(dir, 0o700); err != nil { // restrict directory
		return "", err
	}
	return filepath.Join(dir, fileName), nil
}

func load(path string) (tokenFile, error) {
	var tf tokenFile
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return tokenFile{}, nil
		}
		return tf, err
	}
	if err := json.Unmarshal(data, &tf); err != nil {
		return tf, fmt.Errorf("parse %s: %w", path, err)
	}
	return tf, nil
}

func save(path string, tf tokenFile) error {
	data, err := json.MarshalIndent(tf, "", "  ")
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

func masterKey() []byte {
	base := fmt.Sprintf("realcheck-%s-%s", runtime.GOOS, os.Getenv("USER"))
	sum := sha256.Sum256([]byte(base))
	return sum[:]
}

func newGCM() (cipher.AEAD, error) {
	block, err := aes.NewCipher(masterKey())
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

func encrypt(plain []byte) ([]byte, error) {
	gcm, err := newGCM()
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}
	return gcm.Seal(nonce, nonce, plain, nil), nil
}

func decrypt(ciphertext []byte) ([]byte, error) {
	gcm, err := newGCM()
	if err != nil {
		return nil, err
	}
	if len(ciphertext) < gcm.NonceSize() {
		return nil, fmt.Errorf("ciphertext too short")
	}
	nonce, body := ciphertext[:gcm.NonceSize()], ciphertext[gcm.NonceSize():]
	return gcm.Open(nil, nonce, body, nil)
}
