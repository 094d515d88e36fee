// Copyright 2026 Conductor OSS
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.

package engine

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// ipynbRenderer renders Jupyter notebooks: markdown cells pass through,
// code cells become fenced blocks in the kernel language, text outputs
// become plain fenced blocks.
type ipynbRenderer struct{}

type notebook struct {
	Metadata struct {
		KernelSpec *struct {
			Language string `json:"language"`
		} `json:"kernelspec"`
	} `json:"metadata"`
	Cells []notebookCell `json:"cells"`
}

type notebookCell struct {
	CellType string          `json:"cell_type"`
	Source   json.RawMessage `json:"source"`
	Outputs  []struct {
		Text json.RawMessage            `json:"text"`
		Data map[string]json.RawMessage `json:"data"`
	} `json:"outputs"`
}

func (p *ipynbRenderer) render(r io.ReadSeeker, _ request) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("read input: %w", err)
	}

	var nb notebook
	if err := json.Unmarshal(data, &nb); err != nil {
		return "", fmt.Errorf("parse notebook JSON: %w", err)
	}

	language := "python"
	if ks := nb.Metadata.KernelSpec; ks != nil && ks.Language != "" {
		language = ks.Language
	}

	var sections []string
	for _, cell := range nb.Cells {
		source := joinedSource(cell.Source)
		switch cell.CellType {
		case "markdown":
			sections = append(sections, source)
		case "code":
			if strings.TrimSpace(source) != "" {
				sections = append(sections, fmt.Sprintf("```%s\n%s\n```", language, source))
			}
			for _, out := range cell.Outputs {
				text := joinedSource(out.Text)
				if text == "" && out.Data != nil {
					text = joinedSource(out.Data["text/plain"])
				}
				if text = strings.TrimRight(text, "\n"); text != "" {
					sections = append(sections, fmt.Sprintf("```\n%s\n```", text))
				}
			}
		case "raw":
			if strings.TrimSpace(source) != "" {
				sections = append(sections, fmt.Sprintf("```\n%s\n```", source))
			}
		}
	}

	return strings.Join(sections, "\n\n"), nil
}

// joinedSource decodes a notebook source value, which is either a string or
// an array of line strings.
func joinedSource(raw json.RawMessage) string {
	if raw == nil {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var lines []string
	if err := json.Unmarshal(raw, &lines); err == nil {
		return strings.Join(lines, "")
	}
	return ""
}
