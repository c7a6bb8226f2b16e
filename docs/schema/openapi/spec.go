// Package openapi embeds the OpenAPI description of the HTTP API.
package openapi

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// Document is the OpenAPI YAML served at /api/v1/openapi.yaml.
//
//go:embed vacciprofile.yaml
var Document []byte

// Spec returns a copy of the embedded document.
func Spec() []byte {
	return append([]byte(nil), Document...)
}

type header struct {
	Info struct {
		Version string `yaml:"version"`
	} `yaml:"info"`
	Paths map[string]map[string]yaml.Node `yaml:"paths"`
}

var (
	parseOnce sync.Once
	parsed    header
	parseErr  error
)

func parse() (header, error) {
	parseOnce.Do(func() {
		if err := yaml.Unmarshal(Document, &parsed); err != nil {
			parseErr = fmt.Errorf("parse openapi: %w", err)
		}
	})
	return parsed, parseErr
}

// Version returns info.version.
func Version() (string, error) {
	h, err := parse()
	return h.Info.Version, err
}

// Operations lists every documented "METHOD path" pair, sorted.
func Operations() ([]string, error) {
	h, err := parse()
	if err != nil {
		return nil, err
	}
	var ops []string
	for path, methods := range h.Paths {
		for method := range methods {
			switch method {
			case "get", "post", "put", "patch", "delete":
				ops = append(ops, strings.ToUpper(method)+" "+path)
			}
		}
	}
	sort.Strings(ops)
	return ops, nil
}
