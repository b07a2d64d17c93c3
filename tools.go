//go:build tools

package tools

// Tool dependencies, tracked as blank imports so `go mod tidy` keeps
// their versions pinned. Run them via go run:
//
//	go run github.com/vektra/mockery/v2
//	go run golang.org/x/tools/cmd/goimports -w .
import (
	_ "github.com/vektra/mockery/v2"
	_ "golang.org/x/tools/cmd/goimports"
)
