package main

import (
	"os"

	"github.com/himanishpuri/acousticprint/pkg/acousticprint/fingerprint"
)

// Exit statuses. Usage and extraction failures exit with 1.
const (
	exitOK = iota
	exitFailure
	exitInvalidInput
	exitTruncatedInput
	exitInvalidAlgorithm
	exitMalformedException
)

func exitCode(err error) int {
	switch fingerprint.KindOf(err) {
	case fingerprint.KindNone:
		return exitOK
	case fingerprint.KindInvalidInput:
		return exitInvalidInput
	case fingerprint.KindTruncatedInput:
		return exitTruncatedInput
	case fingerprint.KindInvalidAlgorithm:
		return exitInvalidAlgorithm
	case fingerprint.KindMalformedException:
		return exitMalformedException
	default:
		return exitFailure
	}
}

func main() {
	os.Exit(exitCode(newRootCmd().Execute()))
}
