package request

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gosimple/slug"
	"github.com/mark3labs/lmsenv/internal/logger"
)

// ExportName derives a file name for an exported preview from the requester,
// scenario and environment.
func ExportName(scenario ScenarioID, f FormFields) string {
	parts := []string{f.Requester, string(scenario), f.Environment}
	name := slug.Make(strings.Join(parts, " "))
	if name == "" {
		name = "request"
	}
	return name + ".md"
}

// ExportMarkdown writes the preview document as Markdown into dir and returns
// the path of the written file.
func ExportMarkdown(dir string, scenario ScenarioID, f FormFields, doc Document) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("creating export directory: %w", err)
	}

	path := filepath.Join(dir, ExportName(scenario, f))
	content := "# " + Title + "\n\n" + doc.Markdown()

	logger.Debug("Writing preview to %s", path)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return "", fmt.Errorf("writing preview: %w", err)
	}
	return path, nil
}
