package config

import (
	"bytes"
	"fmt"

	kdl "github.com/sblinch/kdl-go"
	"github.com/sblinch/kdl-go/document"
)

// parseKDL applies a .filescan.kdl document to cfg:
//
//	search {
//	    match_case true
//	    scope "line"
//	    max_text_extent 50
//	    workers 8
//	}
//	files {
//	    include "**/*.go" "**/*.md"
//	    max_file_size 1048576
//	}
func parseKDL(content []byte, cfg *Config) error {
	doc, err := kdl.Parse(bytes.NewReader(content))
	if err != nil {
		return fmt.Errorf("failed to parse KDL config: %w", err)
	}

	for _, n := range doc.Nodes {
		switch nodeName(n) {
		case "search":
			for _, cn := range n.Children {
				switch nodeName(cn) {
				case "match_case":
					if v, ok := firstBoolArg(cn); ok {
						cfg.Search.MatchCase = v
					}
				case "scope":
					if v, ok := firstStringArg(cn); ok {
						cfg.Search.Scope = v
					}
				case "max_text_extent":
					if v, ok := firstIntArg(cn); ok {
						cfg.Search.MaxTextExtent = v
					}
				case "check_interval_bytes":
					if v, ok := firstIntArg(cn); ok {
						cfg.Search.CheckIntervalBytes = v
					}
				case "workers":
					if v, ok := firstIntArg(cn); ok {
						cfg.Search.Workers = v
					}
				}
			}
		case "files":
			for _, cn := range n.Children {
				switch nodeName(cn) {
				case "include":
					if v := collectStringArgs(cn); len(v) > 0 {
						cfg.Files.Include = v
					}
				case "max_file_size":
					if v, ok := firstIntArg(cn); ok {
						cfg.Files.MaxFileSize = int64(v)
					}
				}
			}
		}
	}
	return nil
}

func nodeName(n *document.Node) string {
	if n == nil || n.Name == nil {
		return ""
	}
	return n.Name.NodeNameString()
}

func firstIntArg(n *document.Node) (int, bool) {
	if len(n.Arguments) == 0 {
		return 0, false
	}
	switch v := n.Arguments[0].Value.(type) {
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}

func firstStringArg(n *document.Node) (string, bool) {
	if len(n.Arguments) == 0 {
		return "", false
	}
	s, ok := n.Arguments[0].Value.(string)
	return s, ok
}

func firstBoolArg(n *document.Node) (bool, bool) {
	if len(n.Arguments) == 0 {
		return false, false
	}
	b, ok := n.Arguments[0].Value.(bool)
	return b, ok
}

// collectStringArgs reads `include "a" "b"` as well as the block form
// `include { "a"; "b" }`.
func collectStringArgs(n *document.Node) []string {
	out := make([]string, 0, len(n.Arguments))
	for _, a := range n.Arguments {
		if s, ok := a.Value.(string); ok {
			out = append(out, s)
		}
	}
	if len(out) > 0 {
		return out
	}
	for _, child := range n.Children {
		if s, ok := firstStringArg(child); ok {
			out = append(out, s)
		} else if child.Name != nil {
			if s, ok := child.Name.Value.(string); ok {
				out = append(out, s)
			}
		}
	}
	return out
}
