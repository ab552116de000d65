package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	flag "github.com/spf13/pflag"

	"github.com/alnah/go-folio/internal/auth"
)

// runPasswd hashes the first stdin line for auth.passwordHash.
func runPasswd(args []string, env *Environment) error {
	if len(args) > 0 {
		if args[0] == "-h" || args[0] == "--help" {
			printPasswdUsage(env.Stdout)
			return flag.ErrHelp
		}
		return fmt.Errorf("%w: passwd takes no arguments", ErrUsage)
	}

	line, err := bufio.NewReader(env.Stdin).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: %v", ErrReadInput, err)
	}
	password := strings.TrimRight(line, "\r\n")
	if password == "" {
		return fmt.Errorf("%w: empty password", ErrUsage)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}
	fmt.Fprintln(env.Stdout, hash)
	return nil
}
