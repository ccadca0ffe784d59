package main

import (
	"github.com/mozey/logutil"
	"github.com/mozey/toolenv/pkg/cmdtoolenv"
)

func main() {
	logutil.SetupLogger(true)

	// For custom flags and commands,
	// see comments in pkg/cmdtoolenv/main.go
	cmdtoolenv.Main()
}
