package graph

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"
)

type Format string

const (
	FormatPages    Format = "pages"    // ncores, dampener, names and named edges
	FormatEdgeList Format = "edgelist" // one "from to" pair of ids per line
)

func ParseFormat(value string) (Format, error) {
	switch Format(strings.ToLower(value)) {
	case FormatPages, "":
		return FormatPages, nil
	case FormatEdgeList:
		return FormatEdgeList, nil
	}
	return "", fmt.Errorf("unknown graph format %q", value)
}

// LoadGraphBytes parses contents according to format.
// dampener is only used by formats that do not carry one
func LoadGraphBytes(contents []byte, format Format, dampener float64) (*Input, error) {
	switch format {
	case FormatPages, "":
		return Parse(bytes.NewReader(contents))
	case FormatEdgeList:
		return ParseEdgeList(contents, dampener)
	}
	return nil, fmt.Errorf("unknown graph format %q", format)
}

// resource can be a local path or an http(s) url
func LoadGraphResource(resource string, format Format, dampener float64) (*Input, error) {
	var contents []byte
	var err error
	// Check if it's a network resource or a local one
	if strings.HasPrefix(resource, "http://") || strings.HasPrefix(resource, "https://") {
		// Loading file from network
		var resp *http.Response
		resp, err = http.Get(resource)
		if err != nil {
			log.Printf("Could not load network file at %s: %v", resource, err)
			return nil, err
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("could not load %s: %s", resource, resp.Status)
		}
		// Read response body
		contents, err = io.ReadAll(resp.Body)
		if err != nil {
			log.Printf("Could not load body from request: %v", err)
			return nil, err
		}
	} else {
		// Loading file from local filesystem
		contents, err = os.ReadFile(resource)
		if err != nil {
			log.Printf("Could not read graph at %s: %v", resource, err)
			return nil, err
		}
	}
	// Parse graph file into page list
	in, err := LoadGraphBytes(contents, format, dampener)
	if err != nil {
		return nil, fmt.Errorf("could not load graph from %s: %w", resource, err)
	}
	return in, nil
}
