package certificate

import (
	"path/filepath"
	"testing"
)

func TestKeyPairCreateRoundTrip(t *testing.T) {
	var original KeyPair
	if err := original.Create(); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if !original.HaveKeyPair() {
		t.Fatal("expected HaveKeyPair true after Create")
	}

	pubBin, err := original.PublicKey()
	if err != nil {
		t.Fatalf("PublicKey: %v", err)
	}
	if len(pubBin) != KeyLen {
		t.Fatalf("public key length = %d, want %d", len(pubBin), KeyLen)
	}
	secBin, err := original.PrivateKey()
	if err != nil {
		t.Fatalf("PrivateKey: %v", err)
	}
	if len(secBin) != KeyLen {
		t.Fatalf("private key length = %d, want %d", len(secBin), KeyLen)
	}

	pubText, err := original.PublicKeyText()
	if err != nil {
		t.Fatalf("PublicKeyText: %v", err)
	}
	if len(pubText) != TextKeyLen {
		t.Fatalf("public key text length = %d, want %d", len(pubText), TextKeyLen)
	}

	dir := t.TempDir()
	pkFile := filepath.Join(dir, "pk.key")
	skFile := filepath.Join(dir, "sk.key")
	if err := original.WritePublicKeyToTextFile(pkFile); err != nil {
		t.Fatalf("WritePublicKeyToTextFile: %v", err)
	}
	if err := original.WritePrivateKeyToTextFile(skFile); err != nil {
		t.Fatalf("WritePrivateKeyToTextFile: %v", err)
	}

	var loadedPub, loadedSec KeyPair
	if err := loadedPub.LoadFromTextFile(pkFile); err != nil {
		t.Fatalf("LoadFromTextFile(pk): %v", err)
	}
	if err := loadedSec.LoadFromTextFile(skFile); err != nil {
		t.Fatalf("LoadFromTextFile(sk): %v", err)
	}

	gotPub, err := loadedPub.PublicKey()
	if err != nil {
		t.Fatalf("loaded PublicKey: %v", err)
	}
	if string(gotPub) != string(pubBin) {
		t.Fatal("loaded public key does not match original")
	}

	gotSec, err := loadedSec.PrivateKey()
	if err != nil {
		t.Fatalf("loaded PrivateKey: %v", err)
	}
	if string(gotSec) != string(secBin) {
		t.Fatal("loaded private key does not match original")
	}
}

func TestKeyPairInvalidLengths(t *testing.T) {
	var k KeyPair
	if err := k.SetPublicKey(make([]byte, 10)); err == nil {
		t.Fatal("expected error for short public key")
	}
	if err := k.SetPrivateKeyText("too-short"); err == nil {
		t.Fatal("expected error for short private key text")
	}
}
