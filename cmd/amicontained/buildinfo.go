package main

// Normally overridden at build time via:
//
//	-ldflags "-X main.Version=... -X main.GitInfo=..."
var (
	Version = "0.1.0"
	GitInfo = ""
)
