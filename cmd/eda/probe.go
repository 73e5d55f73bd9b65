package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/Lucas-Ker/olist-data-analysis-project/internal/datasource/file"
	"github.com/Lucas-Ker/olist-data-analysis-project/internal/probe"
)

// runProbe samples path and writes a draft source entry as JSON to out.
func runProbe(ctx context.Context, path, joinOn string, out io.Writer) error {
	res, err := probe.Probe(ctx, file.NewLocal(path), probe.Options{})
	if err != nil {
		return err
	}
	b, err := json.MarshalIndent(probe.Suggest(res, joinOn), "", "  ")
	if err != nil {
		return fmt.Errorf("probe: encode: %w", err)
	}
	_, err = fmt.Fprintf(out, "%s\n", b)
	return err
}
