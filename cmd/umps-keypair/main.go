// Command umps-keypair generates a CURVE key pair for stonehouse-level
// authentication (spec §6) and writes its public and/or private half to
// text files in the NUL-terminated Z85 format certificate.KeyPair reads
// and writes.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/uofuseismo/umps/internal/authentication/certificate"
)

func main() {
	publicKeyFile := flag.String("publickey", "", "File to which the public key is written")
	privateKeyFile := flag.String("privatekey", "", "File to which the private key is written")
	keyName := flag.String("keyname", "umps", "Identifying name embedded as metadata in both files")
	flag.Parse()

	if *publicKeyFile == "" && *privateKeyFile == "" {
		fmt.Fprintln(os.Stderr, "at least one of -publickey or -privatekey is required")
		os.Exit(1)
	}

	keys := certificate.KeyPair{}
	if err := keys.Create(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to generate key pair: %v\n", err)
		os.Exit(1)
	}
	keys.SetMetadata(*keyName)

	if *publicKeyFile != "" {
		if err := keys.WritePublicKeyToTextFile(*publicKeyFile); err != nil {
			fmt.Fprintf(os.Stderr, "failed to write public key: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("wrote public key to %s\n", *publicKeyFile)
	}
	if *privateKeyFile != "" {
		if err := keys.WritePrivateKeyToTextFile(*privateKeyFile); err != nil {
			fmt.Fprintf(os.Stderr, "failed to write private key: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("wrote private key to %s\n", *privateKeyFile)
	}

	os.Exit(0)
}
