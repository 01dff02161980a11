package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"

	nestedform "github.com/goliatone/go-nestedform"
	"github.com/goliatone/go-nestedform/internal/session"
	"github.com/goliatone/go-nestedform/pkg/dom"
	"github.com/goliatone/go-nestedform/pkg/fields"
)

type clickList []string

func (c *clickList) String() string { return strings.Join(*c, ",") }

func (c *clickList) Set(value string) error {
	*c = append(*c, value)
	return nil
}

func main() {
	var clicks clickList
	input := flag.String("input", "", "HTML file to edit (stdin if empty)")
	output := flag.String("output", "", "output file (stdout if empty)")
	config := flag.String("config", "", "controller config file (JSON or YAML)")
	identifier := flag.String("identifier", "", "controller identifier (overrides config)")
	interactive := flag.Bool("interactive", false, "pick triggers to click from a menu")
	values := flag.Bool("values", false, "print the submitted form values instead of the document")
	verbose := flag.Bool("v", false, "log each click to stderr")
	flag.Var(&clicks, "click", "selector of an element to click (#id, .class, [attr=value]); repeatable")
	flag.Parse()

	ctx := context.Background()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	if *verbose {
		logger = slog.New(slog.NewTextHandler(os.Stderr, nil))
	}

	doc, err := readDocument(*input)
	if err != nil {
		log.Fatalf("Failed to read document: %v", err)
	}

	ctrl, err := newController(*config, *identifier, logger)
	if err != nil {
		log.Fatalf("Failed to configure controller: %v", err)
	}

	s := session.New(doc, ctrl, logger)
	for _, selector := range clicks {
		if _, err := s.Click(ctx, selector); err != nil {
			log.Fatalf("Failed to click %s: %v", selector, err)
		}
	}
	if *interactive {
		if _, err := s.Interactive(ctx, session.SurveyPicker{PageSize: 15}); err != nil {
			log.Fatalf("Interactive session ended: %v", err)
		}
	}

	var out string
	if *values {
		out = dom.FormValues(doc).Encode()
	} else if out, err = dom.Render(doc); err != nil {
		log.Fatalf("Failed to render document: %v", err)
	}

	if *output != "" {
		if err := os.WriteFile(*output, []byte(out), 0o644); err != nil {
			log.Fatalf("Failed to write output: %v", err)
		}
		fmt.Printf("Document written to %s\n", *output)
	} else {
		fmt.Println(out)
	}
}

func readDocument(path string) (*html.Node, error) {
	if strings.TrimSpace(path) == "" {
		return dom.Parse(os.Stdin)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return dom.Parse(f)
}

func newController(configPath, identifier string, logger *slog.Logger) (*fields.Controller, error) {
	extra := []fields.Option{fields.WithLogger(logger)}
	if identifier != "" {
		extra = append(extra, fields.WithIdentifier(identifier))
	}
	if strings.TrimSpace(configPath) == "" {
		return nestedform.NewController(extra...), nil
	}
	dir, file := filepath.Split(configPath)
	if dir == "" {
		dir = "."
	}
	return nestedform.NewControllerFromConfig(os.DirFS(dir), file, nil, extra...)
}
