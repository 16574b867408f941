//go:build tools

// Package tools tracks code generators invoked via go generate.
package tools

import (
	_ "go.uber.org/mock/mockgen"
)
