package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, input string, args ...string) (string, error) {
	t.Helper()

	rootCmd.Flags().VisitAll(func(flag *pflag.Flag) {
		_ = flag.Value.Set(flag.DefValue)
		flag.Changed = false
	})

	out := &bytes.Buffer{}
	rootCmd.SetIn(strings.NewReader(input))
	rootCmd.SetOut(out)
	rootCmd.SetArgs(args)

	err := rootCmd.Execute()
	return out.String(), err
}

func TestRun(t *testing.T) {
	output, err := execute(t, "RQ P1 10 F\nSTAT\nX\n", "100")
	require.NoError(t, err)
	require.Contains(t, output, "Process P1 created with 10 bytes allocated.")
	require.Contains(t, output, "Addresses [0:9] Process P1\nAddresses [10:99] Unused\n")
}

func TestRunInvalidCapacity(t *testing.T) {
	_, err := execute(t, "", "0")
	require.EqualError(t, err, "Please enter a positive number of bytes to be allocated.")

	_, err = execute(t, "", "lots")
	require.EqualError(t, err, "Please enter a positive number of bytes to be allocated.")

	_, err = execute(t, "", "1048577")
	require.EqualError(t, err, "Please enter a positive number of bytes less than or equal to 1048576.")

	_, err = execute(t, "")
	require.EqualError(t, err, "Please enter a positive number of bytes to be allocated.")
}

func TestRunValidateOperations(t *testing.T) {
	output, err := execute(t, "RQ P1 10 W\nRL P1\nC\nSTAT\nX\n", "--validate", "64")
	require.NoError(t, err)
	require.Contains(t, output, "Addresses [0:63] Unused\n")

	path := filepath.Join(t.TempDir(), "allocator.yaml")
	require.NoError(t, os.WriteFile(path, []byte("capacity: 32\nvalidate: true\n"), 0o600))

	output, err = execute(t, "RQ P1 32 B\nSTAT\nX\n", "--config", path)
	require.NoError(t, err)
	require.Contains(t, output, "Addresses [0:31] Process P1\n")
}
