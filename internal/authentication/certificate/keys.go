// Package certificate implements the Curve-style key pairs and
// username/password credentials of spec §3 (C1 Certificate store).
package certificate

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/luxfi/zmq/v4"

	"github.com/uofuseismo/umps/internal/uerrors"
)

const (
	// KeyLen is the length, in bytes, of a binary Curve key.
	KeyLen = 32
	// TextKeyLen is the length, in characters, of the Z85 textual
	// encoding of a KeyLen-byte key (not counting a NUL terminator).
	TextKeyLen = 40
)

// KeyPair owns a public key and, optionally, a private key, each
// representable in binary or Z85 textual form, plus free-form metadata.
type KeyPair struct {
	publicKey   []byte
	privateKey  []byte
	publicText  string
	privateText string
	metadata    string
}

// Create atomically generates a new public/private key pair.
func (k *KeyPair) Create() error {
	pubText, secText, err := zmq4.NewCurveKeypair()
	if err != nil {
		return uerrors.Wrap("KeyPair.Create", uerrors.AlgorithmFailure, "curve keypair generation failed", err)
	}
	pubBin, err := zmq4.Z85decode(pubText)
	if err != nil {
		return uerrors.Wrap("KeyPair.Create", uerrors.AlgorithmFailure, "failed to decode generated public key", err)
	}
	secBin, err := zmq4.Z85decode(secText)
	if err != nil {
		return uerrors.Wrap("KeyPair.Create", uerrors.AlgorithmFailure, "failed to decode generated private key", err)
	}
	k.publicKey, k.publicText = pubBin, pubText
	k.privateKey, k.privateText = secBin, secText
	return nil
}

// SetPublicKey sets the binary public key and derives its textual form.
func (k *KeyPair) SetPublicKey(key []byte) error {
	if len(key) != KeyLen {
		return uerrors.New("KeyPair.SetPublicKey", uerrors.InvalidArgument, fmt.Sprintf("public key must be %d bytes", KeyLen))
	}
	k.publicKey = append([]byte(nil), key...)
	k.publicText = zmq4.Z85encode(k.publicKey)
	return nil
}

// SetPublicKeyText sets the textual public key and decodes its binary form.
func (k *KeyPair) SetPublicKeyText(text string) error {
	text = strings.TrimRight(text, "\x00")
	if len(text) != TextKeyLen {
		return uerrors.New("KeyPair.SetPublicKeyText", uerrors.InvalidArgument, fmt.Sprintf("textual public key must be %d characters", TextKeyLen))
	}
	bin, err := zmq4.Z85decode(text)
	if err != nil {
		return uerrors.Wrap("KeyPair.SetPublicKeyText", uerrors.InvalidArgument, "failed to decode public key", err)
	}
	k.publicText = text
	k.publicKey = bin
	return nil
}

// SetPrivateKey sets the binary private key and derives its textual form.
func (k *KeyPair) SetPrivateKey(key []byte) error {
	if len(key) != KeyLen {
		return uerrors.New("KeyPair.SetPrivateKey", uerrors.InvalidArgument, fmt.Sprintf("private key must be %d bytes", KeyLen))
	}
	k.privateKey = append([]byte(nil), key...)
	k.privateText = zmq4.Z85encode(k.privateKey)
	return nil
}

// SetPrivateKeyText sets the textual private key and decodes its binary form.
func (k *KeyPair) SetPrivateKeyText(text string) error {
	text = strings.TrimRight(text, "\x00")
	if len(text) != TextKeyLen {
		return uerrors.New("KeyPair.SetPrivateKeyText", uerrors.InvalidArgument, fmt.Sprintf("textual private key must be %d characters", TextKeyLen))
	}
	bin, err := zmq4.Z85decode(text)
	if err != nil {
		return uerrors.Wrap("KeyPair.SetPrivateKeyText", uerrors.InvalidArgument, "failed to decode private key", err)
	}
	k.privateText = text
	k.privateKey = bin
	return nil
}

// SetPair sets both keys of the pair from their binary form.
func (k *KeyPair) SetPair(publicKey, privateKey []byte) error {
	if err := k.SetPublicKey(publicKey); err != nil {
		return err
	}
	return k.SetPrivateKey(privateKey)
}

func (k *KeyPair) HavePublicKey() bool  { return len(k.publicKey) == KeyLen }
func (k *KeyPair) HavePrivateKey() bool { return len(k.privateKey) == KeyLen }
func (k *KeyPair) HaveKeyPair() bool    { return k.HavePublicKey() && k.HavePrivateKey() }

func (k *KeyPair) PublicKey() ([]byte, error) {
	if !k.HavePublicKey() {
		return nil, uerrors.New("KeyPair.PublicKey", uerrors.NotInitialized, "public key not set")
	}
	return append([]byte(nil), k.publicKey...), nil
}

func (k *KeyPair) PrivateKey() ([]byte, error) {
	if !k.HavePrivateKey() {
		return nil, uerrors.New("KeyPair.PrivateKey", uerrors.NotInitialized, "private key not set")
	}
	return append([]byte(nil), k.privateKey...), nil
}

func (k *KeyPair) PublicKeyText() (string, error) {
	if !k.HavePublicKey() {
		return "", uerrors.New("KeyPair.PublicKeyText", uerrors.NotInitialized, "public key not set")
	}
	return k.publicText, nil
}

func (k *KeyPair) PrivateKeyText() (string, error) {
	if !k.HavePrivateKey() {
		return "", uerrors.New("KeyPair.PrivateKeyText", uerrors.NotInitialized, "private key not set")
	}
	return k.privateText, nil
}

func (k *KeyPair) SetMetadata(metadata string) { k.metadata = metadata }
func (k *KeyPair) Metadata() string            { return k.metadata }

func (k *KeyPair) Clear() {
	*k = KeyPair{}
}

// WritePublicKeyToTextFile writes the Z85 public key, NUL-terminated, to
// fileName.
func (k *KeyPair) WritePublicKeyToTextFile(fileName string) error {
	text, err := k.PublicKeyText()
	if err != nil {
		return err
	}
	return writeTextKeyFile(fileName, "public-key", text, k.metadata)
}

// WritePrivateKeyToTextFile writes the Z85 private key, NUL-terminated, to
// fileName.
func (k *KeyPair) WritePrivateKeyToTextFile(fileName string) error {
	text, err := k.PrivateKeyText()
	if err != nil {
		return err
	}
	return writeTextKeyFile(fileName, "private-key", text, k.metadata)
}

func writeTextKeyFile(fileName, curveTag, text, metadata string) error {
	f, err := os.Create(fileName)
	if err != nil {
		return uerrors.Wrap("writeTextKeyFile", uerrors.IoFailure, "failed to create key file", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	fmt.Fprintf(w, "# curve %s\n", curveTag)
	if metadata != "" {
		fmt.Fprintf(w, "# metadata: %s\n", metadata)
	}
	fmt.Fprintf(w, "%s\x00\n", text)
	return w.Flush()
}

// LoadFromTextFile reads whichever of the public/private key lines are
// present in fileName (as written by WritePublicKeyToTextFile /
// WritePrivateKeyToTextFile) and populates this KeyPair.
func (k *KeyPair) LoadFromTextFile(fileName string) error {
	f, err := os.Open(fileName)
	if err != nil {
		return uerrors.Wrap("LoadFromTextFile", uerrors.InvalidArgument, "key file does not exist", err)
	}
	defer f.Close()

	var curveTag, keyLine string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case strings.HasPrefix(line, "# curve "):
			curveTag = strings.TrimPrefix(line, "# curve ")
		case strings.HasPrefix(line, "# metadata: "):
			k.metadata = strings.TrimPrefix(line, "# metadata: ")
		case line == "":
			continue
		default:
			keyLine = strings.TrimRight(line, "\x00")
		}
	}
	if err := scanner.Err(); err != nil {
		return uerrors.Wrap("LoadFromTextFile", uerrors.IoFailure, "failed to read key file", err)
	}
	if keyLine == "" {
		return uerrors.New("LoadFromTextFile", uerrors.InvalidArgument, "no key found in file")
	}

	switch curveTag {
	case "private-key":
		return k.SetPrivateKeyText(keyLine)
	default:
		return k.SetPublicKeyText(keyLine)
	}
}
