package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/flashless-dev/flashless/internal/manifest"
)

func cmdInitManifest(args []string) error {
	fs := flag.NewFlagSet("init-manifest", flag.ContinueOnError)
	output := fs.String("output", "flashless.manifest.json", "Output file")
	force := fs.Bool("force", false, "Overwrite an existing file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if len(fs.Args()) > 0 {
		return fmt.Errorf("unknown arguments: %v", fs.Args())
	}

	if _, err := os.Stat(*output); err == nil && !*force {
		return fmt.Errorf("file exists: %s. Use '--force' to overwrite or choose another '--output'", *output)
	}
	if err := os.WriteFile(*output, manifest.Template(), 0o644); err != nil {
		return fmt.Errorf("failed to write manifest template: %w", err)
	}
	fmt.Printf("Wrote manifest template: %s\n", *output)
	return nil
}

func cmdSchema(args []string) error {
	fs := flag.NewFlagSet("schema", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	data, err := manifest.Schema()
	if err != nil {
		return err
	}
	fmt.Printf("%s\n", data)
	return nil
}
