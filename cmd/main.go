// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// clausecheck reviews contract text for risky clauses, combining a
// pattern catalog with an optional AI analyzer, and renders the
// findings as text, JSON, or YAML. It also runs as an HTTP server.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fatih/color"
	"golang.org/x/term"

	"clausecheck/internal/ai"
	"clausecheck/internal/config"
	"clausecheck/internal/core"
	"clausecheck/internal/extract"
	"clausecheck/internal/formatters"
	"clausecheck/internal/observability"
	"clausecheck/internal/ratelimit"
	"clausecheck/internal/store"
	"clausecheck/internal/version"
	"clausecheck/internal/web"

	// Import formatters to register them
	_ "clausecheck/internal/formatters/json"
	_ "clausecheck/internal/formatters/text"
	_ "clausecheck/internal/formatters/yaml"
)

func main() {
	inputFile := flag.String("file", "", "Path to the contract file (text or PDF); use '-' for stdin")
	configFile := flag.String("config", "", "Path to configuration file (YAML)")
	profileName := flag.String("profile", "", "Profile name to use from config file")
	listProfiles := flag.Bool("list-profiles", false, "List available profiles in config file")
	outputFormat := flag.String("format", "", "Output format: text, json, yaml (default: text)")
	outputFile := flag.String("output", "", "Path to output file (if not specified, output to stdout)")
	verbose := flag.Bool("verbose", false, "Display span and context details for each flag")
	debug := flag.Bool("debug", false, "Enable debug telemetry on stderr")
	noColor := flag.Bool("no-color", false, "Disable colored output")
	enableAI := flag.Bool("enable-ai", false, "Enable AI analysis (requires OPENAI_API_KEY, text is sent to the provider)")
	serve := flag.Bool("serve", false, "Start the HTTP API server instead of reviewing a file")
	port := flag.Int("port", 0, "Port for the HTTP server (default: 8080)")
	showVersion := flag.Bool("version", false, "Show version information")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.Info())
		return
	}

	cfgPath := *configFile
	if cfgPath == "" {
		cfgPath = config.FindConfigFile()
	}
	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		fatal(err)
	}

	if *listProfiles {
		for _, name := range cfg.ListProfiles() {
			profile := cfg.GetProfile(name)
			fmt.Printf("%-12s %s\n", name, profile.Description)
		}
		return
	}

	// Resolve effective settings: defaults, then profile, then flags.
	format := cfg.Defaults.Format
	aiEnabled := cfg.Defaults.EnableAI
	colorOff := cfg.Defaults.NoColor
	if *profileName != "" {
		profile := cfg.GetProfile(*profileName)
		if profile == nil {
			fatal(fmt.Errorf("unknown profile %q (available: %v)", *profileName, cfg.ListProfiles()))
		}
		if profile.Format != "" {
			format = profile.Format
		}
		aiEnabled = profile.EnableAI
		colorOff = colorOff || profile.NoColor
	}
	if *outputFormat != "" {
		format = *outputFormat
	}
	if *enableAI {
		aiEnabled = true
	}
	if *noColor || *outputFile != "" || !term.IsTerminal(int(os.Stdout.Fd())) {
		colorOff = true
	}
	color.NoColor = colorOff

	var observer *observability.StandardObserver
	if *debug {
		observer = observability.NewStandardObserver(observability.LevelDebug, os.Stderr)
	}

	pipeline := buildPipeline(cfg, aiEnabled, observer)

	if *serve {
		serverPort := cfg.Server.Port
		if *port > 0 {
			serverPort = *port
		}
		server := web.NewServer(web.Options{
			Port:     serverPort,
			Pipeline: pipeline,
			Store:    store.NewMemory(),
			Limiter:  ratelimit.NewFixedWindow(cfg.Server.RateLimit.RequestsPerWindow, cfg.RateLimitWindow()),
			Observer: observer,
		})
		if err := server.Start(); err != nil {
			fatal(err)
		}
		return
	}

	if *inputFile == "" {
		fmt.Fprintln(os.Stderr, "Error: -file is required (use '-' for stdin)")
		flag.Usage()
		os.Exit(1)
	}

	text, err := readDocument(*inputFile)
	if err != nil {
		fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	result, err := pipeline.Analyze(ctx, text)
	if err != nil {
		fatal(err)
	}

	output, err := formatters.Export(format, result, formatters.FormatterOptions{
		Verbose: *verbose,
		NoColor: colorOff,
	})
	if err != nil {
		fatal(err)
	}

	if *outputFile != "" {
		if err := os.WriteFile(*outputFile, []byte(output), 0o600); err != nil {
			fatal(err)
		}
		return
	}
	fmt.Print(output)
}

// buildPipeline wires the analyzer, rewriter, and moderator per config.
// AI stays off when no API key is present, with a warning rather than a
// hard failure.
func buildPipeline(cfg *config.Config, aiEnabled bool, observer *observability.StandardObserver) *core.Pipeline {
	opts := core.Options{
		Observer:      observer,
		MaxInputBytes: cfg.Defaults.MaxInputBytes,
	}

	if aiEnabled {
		apiKey := os.Getenv("OPENAI_API_KEY")
		if apiKey == "" {
			fmt.Fprintln(os.Stderr, "Warning: OPENAI_API_KEY is not set; continuing with rule-based analysis only")
		} else {
			client := ai.NewClient(apiKey, ai.ClientOptions{
				Model:            cfg.AI.Model,
				FallbackModels:   cfg.AI.FallbackModels,
				MaxInputChars:    cfg.AI.MaxInputChars,
				RequestTimeout:   cfg.RequestTimeout(),
				Observer:         observer,
				BreakerThreshold: cfg.AI.BreakerThreshold,
				BreakerCooldown:  cfg.BreakerCooldown(),
			})
			opts.Analyzer = client
			opts.Rewriter = client
			if cfg.Moderation.Enabled {
				opts.Moderator = ai.NewModerator(apiKey)
			}
		}
	}
	return core.NewPipeline(opts)
}

// readDocument loads the contract text from a file or stdin, running
// extraction for PDFs.
func readDocument(path string) (string, error) {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("reading input: %w", err)
	}

	result, err := extract.FromBytes(data)
	if err != nil {
		return "", err
	}
	for _, note := range result.Notes {
		fmt.Fprintln(os.Stderr, "Note: "+note)
	}
	if !result.Usable() {
		return "", fmt.Errorf("document contains no analyzable text")
	}
	return result.Text, nil
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "Error:", err)
	os.Exit(1)
}
