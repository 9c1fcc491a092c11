// Command gocrypt-genkey prints random keys for goCrypt as base64url text
// without padding.
//
// Usage:
//
//	gocrypt-genkey                  # one key
//	gocrypt-genkey -env             # SERVICE_PWD_KEY and SERVICE_TOKEN_KEY lines
//	gocrypt-genkey -env -out .env   # same, written to a dotenv file
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/MrEthical07/goCrypt/internal"
	"github.com/joho/godotenv"
)

func main() {
	var (
		size   = flag.Int("bytes", internal.DefaultKeySize, "key size in bytes")
		asEnv  = flag.Bool("env", false, "print a password key and a token key as SERVICE_* variables")
		output = flag.String("out", "", "with -env, write the variables to this dotenv file")
	)
	flag.Parse()

	if err := run(os.Stdout, *size, *asEnv, *output); err != nil {
		fmt.Fprintf(os.Stderr, "gocrypt-genkey: %v\n", err)
		os.Exit(1)
	}
}

func run(w io.Writer, size int, asEnv bool, output string) error {
	if !asEnv {
		key, err := internal.NewKeyText(size)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, key)
		return err
	}

	pwdKey, err := internal.NewKeyText(size)
	if err != nil {
		return err
	}
	tokenKey, err := internal.NewKeyText(size)
	if err != nil {
		return err
	}
	vars := map[string]string{
		"SERVICE_PWD_KEY":   pwdKey,
		"SERVICE_TOKEN_KEY": tokenKey,
	}

	if output != "" {
		return godotenv.Write(vars, output)
	}

	text, err := godotenv.Marshal(vars)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, text)
	return err
}
