package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/anipix/anipix/internal/models"
	"gopkg.in/yaml.v3"
)

const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

func validateFormat(format string) error {
	switch format {
	case formatText, formatJSON, formatYAML:
		return nil
	default:
		return fmt.Errorf("unsupported output format %q (supported: text, json, yaml)", format)
	}
}

// encode writes v as JSON or YAML
func encode(w io.Writer, format string, v any) error {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported output format %q", format)
	}
}

func writeRecordLine(w io.Writer, r *models.ImageRecord) {
	tags := "-"
	if len(r.Tags) > 0 {
		tags = strings.Join(r.Tags, ", ")
	}
	fmt.Fprintf(w, "%-32s  author=%-10s  tags=[%s]\n", r.Title, r.AuthorID, tags)
}

func writeRecordDetail(w io.Writer, r *models.ImageRecord) {
	fmt.Fprintf(w, "Title:       %s\n", r.Title)
	fmt.Fprintf(w, "ID:          %s\n", r.ID)
	if r.Description != "" {
		fmt.Fprintf(w, "Description: %s\n", r.Description)
	}
	fmt.Fprintf(w, "Author:      %s\n", r.AuthorID)
	if r.Category != "" {
		fmt.Fprintf(w, "Category:    %s\n", r.Category)
	}
	if r.Size != "" {
		fmt.Fprintf(w, "Size:        %s\n", r.Size)
	}
	fmt.Fprintf(w, "Tags:        %s\n", strings.Join(r.Tags, ", "))
	fmt.Fprintf(w, "Source:      %s\n", r.Src)
	fmt.Fprintf(w, "Proxy:       %s\n", models.ProxyURL(r.Src))
}
