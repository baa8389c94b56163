// Package main exposes the custom analyzers to golangci-lint as a module
// plugin.
package main

import (
	"golang.org/x/tools/go/analysis"

	"supportdesk.app/engine/tools/linters/enumvalidator"
)

type AnalyzerPlugin struct{}

func (*AnalyzerPlugin) GetAnalyzers() []*analysis.Analyzer {
	return []*analysis.Analyzer{
		enumvalidator.Analyzer,
	}
}

func New(conf any) ([]*analysis.Analyzer, error) {
	return []*analysis.Analyzer{enumvalidator.Analyzer}, nil
}

// main is required for `go build ./...`; the package is loaded as a plugin.
func main() {}
