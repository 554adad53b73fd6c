package proofs

import (
	"bytes"
	"context"
	"os/exec"
	"time"

	"github.com/pkg/errors"

	"github.com/rony4d/witgen/inter/claimpk"
)

// Signer produces a DER-encoded secp256k1 signature over the SHA-256 digest
// of data.
type Signer interface {
	Sign(ctx context.Context, data []byte) ([]byte, error)
}

// OpenSSLSigner signs with `openssl dgst -sha256 -sign <KeyPath>`, keeping
// the issuer key in a PEM file that never enters this process.
type OpenSSLSigner struct {
	// Binary is the openssl executable, "openssl" when empty.
	Binary  string
	KeyPath string
}

// Sign implements Signer.
func (s OpenSSLSigner) Sign(ctx context.Context, data []byte) ([]byte, error) {
	bin := s.Binary
	if bin == "" {
		bin = "openssl"
	}
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, bin, "dgst", "-sha256", "-sign", s.KeyPath)
	cmd.Stdin = bytes.NewReader(data)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.WaitDelay = time.Second
	if err := cmd.Run(); err != nil {
		return nil, errors.Wrapf(err, "openssl failed: %s", bytes.TrimSpace(stderr.Bytes()))
	}
	if stdout.Len() == 0 {
		return nil, errors.New("openssl produced no signature")
	}
	return stdout.Bytes(), nil
}

// KeySigner signs in process with a loaded key.
type KeySigner struct {
	Key *claimpk.PrivKey
}

// Sign implements Signer.
func (s KeySigner) Sign(_ context.Context, data []byte) ([]byte, error) {
	return s.Key.Sign(data, claimpk.DER)
}
