// package formatter provides functions to export episode lists to various formats (CSV, Markdown, plain text, JSON)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/desertthunder/podx/internal/models"
	"github.com/desertthunder/podx/internal/shared"
)

// Export formats accepted by [Export].
const (
	FormatJSON     = "json"
	FormatCSV      = "csv"
	FormatMarkdown = "markdown"
	FormatText     = "txt"
)

// EpisodeExport is a titled list of episodes, optionally belonging to one show.
type EpisodeExport struct {
	Title    string           `json:"title"`
	Show     *models.Show     `json:"show,omitempty"`
	Episodes []models.Episode `json:"episodes"`
}

// ExportToCSV converts an EpisodeExport to CSV format with columns: ID, Show ID, Title, Published, Queued, Media URL, Link
func ExportToCSV(export *EpisodeExport) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Show ID", "Title", "Published", "Queued", "Media URL", "Link"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, e := range export.Episodes {
		record := []string{
			strconv.FormatInt(e.ID, 10),
			strconv.FormatInt(e.ShowID, 10),
			models.Deref(e.Title),
			shared.FormatPublished(e.DatePublished),
			strconv.FormatInt(e.Queued, 10),
			e.MediaURL,
			models.Deref(e.URL),
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts an EpisodeExport to Markdown format with optional cover image
func ExportToMarkdown(export *EpisodeExport, imageFilename string) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "# %s\n\n", export.Title)

	if imageFilename != "" {
		fmt.Fprintf(&buf, "![Cover](%s)\n\n", imageFilename)
	}

	if export.Show != nil && export.Show.Description != "" {
		fmt.Fprintf(&buf, "**Description**: %s\n\n", export.Show.Description)
	}

	fmt.Fprintf(&buf, "**Episodes**: %d\n\n", len(export.Episodes))

	buf.WriteString("## Episodes\n\n")
	for i, e := range export.Episodes {
		title := episodeTitle(e)
		if link := models.Deref(e.URL); link != "" {
			title = fmt.Sprintf("[%s](%s)", title, link)
		}
		fmt.Fprintf(&buf, "%d. %s", i+1, title)
		if date := shared.FormatPublished(e.DatePublished); date != "" {
			fmt.Fprintf(&buf, " (%s)", date)
		}
		if e.IsQueued() {
			buf.WriteString(" [queued]")
		}
		buf.WriteString("\n")
	}

	return buf.Bytes(), nil
}

// ExportToText converts an EpisodeExport to plain text format
func ExportToText(export *EpisodeExport) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "%s\n", export.Title)
	if export.Show != nil && export.Show.Description != "" {
		fmt.Fprintf(&buf, "Description: %s\n", export.Show.Description)
	}
	fmt.Fprintf(&buf, "Episodes: %d\n\n", len(export.Episodes))

	for i, e := range export.Episodes {
		if date := shared.FormatPublished(e.DatePublished); date != "" {
			fmt.Fprintf(&buf, "%d. %s - %s\n", i+1, date, episodeTitle(e))
		} else {
			fmt.Fprintf(&buf, "%d. %s\n", i+1, episodeTitle(e))
		}
	}

	return buf.Bytes(), nil
}

// ExportToJSON converts an EpisodeExport to indented JSON
func ExportToJSON(export *EpisodeExport) ([]byte, error) {
	return shared.MarshalJSON(export, true)
}

// Export renders export in the given format. An empty format means JSON.
func Export(export *EpisodeExport, format string) ([]byte, error) {
	switch format {
	case FormatCSV:
		return ExportToCSV(export)
	case FormatMarkdown:
		return ExportToMarkdown(export, "")
	case FormatText:
		return ExportToText(export)
	case FormatJSON, "":
		return ExportToJSON(export)
	default:
		return nil, fmt.Errorf("%w: unknown format %q", shared.ErrInvalidFlag, format)
	}
}

// DownloadImage downloads an image from the given URL and returns the raw bytes
func DownloadImage(url string) ([]byte, error) {
	if url == "" {
		return nil, fmt.Errorf("empty URL provided")
	}

	client := &http.Client{
		Timeout: 30 * time.Second,
	}

	resp, err := client.Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to download image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to download image: status %d", resp.StatusCode)
	}

	imageData, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read image data: %w", err)
	}

	return imageData, nil
}

// MarkdownExportResult contains information about files created by WriteMarkdownExport
type MarkdownExportResult struct {
	Directory  string
	Files      []string
	CoverImage string
}

// WriteMarkdownExport exports episodes to Markdown format in a dedicated directory.
//
// When the export has a show with artwork, the cover is downloaded next to the README; a failed download
// is reported through warn and the README is written without it.
// Creates a directory structure: {dir}/README.md and optionally {dir}/cover.jpg
func WriteMarkdownExport(export *EpisodeExport, outputDir string, warn io.Writer) (*MarkdownExportResult, error) {
	if outputDir == "" {
		return nil, fmt.Errorf("%w: output directory", shared.ErrMissingArgument)
	}
	if warn == nil {
		warn = io.Discard
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	result := &MarkdownExportResult{
		Directory: outputDir,
		Files:     []string{},
	}

	var coverImageFilename string
	if export.Show != nil && export.Show.ImageURL != "" {
		imageData, err := DownloadImage(export.Show.ImageURL)
		if err != nil {
			fmt.Fprintf(warn, "Warning: failed to download cover image: %v\n", err)
		} else {
			coverImageFilename = "cover.jpg"
			coverImagePath := filepath.Join(outputDir, coverImageFilename)
			if err := os.WriteFile(coverImagePath, imageData, 0644); err != nil {
				fmt.Fprintf(warn, "Warning: failed to save cover image: %v\n", err)
				coverImageFilename = ""
			} else {
				result.CoverImage = coverImagePath
				result.Files = append(result.Files, coverImagePath)
			}
		}
	}

	mdData, err := ExportToMarkdown(export, coverImageFilename)
	if err != nil {
		return nil, fmt.Errorf("failed to generate Markdown: %w", err)
	}

	mdFile := filepath.Join(outputDir, "README.md")
	if err := os.WriteFile(mdFile, mdData, 0644); err != nil {
		return nil, fmt.Errorf("failed to write Markdown file: %w", err)
	}

	result.Files = append(result.Files, mdFile)

	return result, nil
}

// WriteExport renders export in format and writes it to path.
func WriteExport(export *EpisodeExport, format, path string) error {
	if path == "" {
		return fmt.Errorf("%w: output path", shared.ErrMissingArgument)
	}

	data, err := Export(export, format)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s file: %w", format, err)
	}
	return nil
}

func episodeTitle(e models.Episode) string {
	if title := models.Deref(e.Title); title != "" {
		return title
	}
	return "Untitled episode"
}
