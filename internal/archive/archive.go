// Package archive packages templates and their binary assets into a single
// ZIP container and parses uploaded archives back, with structural
// validation that enumerates every problem found.
package archive

import (
	"archive/zip"
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"html"
	"io"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
)

// Well-known entry names inside the archive.
const (
	ManifestName      = "manifest.json"
	TemplateEntryName = "template.json"
	AssetsPrefix      = "assets/"
	ScreenshotsPrefix = "screenshots/"
)

// FormatVersion is the archive layout revision this package writes.
const FormatVersion = 1

// DefaultMaxAssetSize bounds a single packaged asset (8 MiB).
const DefaultMaxAssetSize = 8 << 20

// AssetMeta describes one packaged binary asset.
type AssetMeta struct {
	Path   string `json:"path"`
	Size   int64  `json:"size"`
	SHA256 string `json:"sha256"`
}

// Manifest is the archive's JSON descriptor entry.
type Manifest struct {
	FormatVersion int         `json:"formatVersion"`
	ExportID      string      `json:"exportId"`
	ExportedAt    time.Time   `json:"exportedAt"`
	Name          string      `json:"name"`
	Description   string      `json:"description,omitempty"`
	Author        string      `json:"author"`
	Version       string      `json:"version"`
	MinAppVersion string      `json:"minAppVersion,omitempty"`
	MaxAppVersion string      `json:"maxAppVersion,omitempty"`
	Screenshots   []string    `json:"screenshots,omitempty"`
	Assets        []AssetMeta `json:"assets,omitempty"`
}

// TemplatePayload is the section/style document stored as template.json.
type TemplatePayload struct {
	Name          string          `json:"name"`
	SchemaVersion string          `json:"schemaVersion,omitempty"`
	Sections      json.RawMessage `json:"sections"`
	GlobalStyles  json.RawMessage `json:"globalStyles,omitempty"`
}

// Asset pairs a relative archive path with its raw bytes.
type Asset struct {
	Path string
	Data []byte
}

// Validation separates benign issues from blocking ones. Security issues
// always block an import regardless of any override flag.
type Validation struct {
	Errors         []string `json:"errors,omitempty"`
	Warnings       []string `json:"warnings,omitempty"`
	SecurityIssues []string `json:"securityIssues,omitempty"`
}

// OK reports whether the archive may be imported.
func (v Validation) OK() bool {
	return len(v.Errors) == 0 && len(v.SecurityIssues) == 0
}

func (v *Validation) errorf(format string, args ...any) {
	v.Errors = append(v.Errors, fmt.Sprintf(format, args...))
}

func (v *Validation) warnf(format string, args ...any) {
	v.Warnings = append(v.Warnings, fmt.Sprintf(format, args...))
}

func (v *Validation) securityf(format string, args ...any) {
	v.SecurityIssues = append(v.SecurityIssues, fmt.Sprintf(format, args...))
}

// ImportResult is the parsed archive plus its validation outcome.
type ImportResult struct {
	Manifest   Manifest
	Template   TemplatePayload
	Assets     []Asset
	Validation Validation
}

// PreviewResult carries only the cheap-to-extract confirmation data.
type PreviewResult struct {
	Manifest    Manifest
	Screenshots []string
}

// Packager reads and writes template archives against one app version.
type Packager struct {
	AppVersion   string
	MaxAssetSize int64
}

// NewPackager returns a Packager with default limits.
func NewPackager(appVersion string) *Packager {
	return &Packager{AppVersion: appVersion, MaxAssetSize: DefaultMaxAssetSize}
}

// Export serializes the manifest, template document and assets into a ZIP.
// Asset checksums and sizes are computed here; caller values are ignored.
func (p *Packager) Export(manifest Manifest, payload TemplatePayload, assets []Asset) ([]byte, error) {
	manifest.FormatVersion = FormatVersion
	if manifest.ExportID == "" {
		manifest.ExportID = uuid.New().String()
	}
	if manifest.ExportedAt.IsZero() {
		manifest.ExportedAt = time.Now().UTC()
	}
	if manifest.MinAppVersion == "" {
		manifest.MinAppVersion = p.AppVersion
	}

	manifest.Assets = make([]AssetMeta, 0, len(assets))
	for _, asset := range assets {
		sum := sha256.Sum256(asset.Data)
		manifest.Assets = append(manifest.Assets, AssetMeta{
			Path:   normalizeAssetPath(asset.Path),
			Size:   int64(len(asset.Data)),
			SHA256: hex.EncodeToString(sum[:]),
		})
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	writeEntry := func(name string, data []byte) error {
		w, err := zw.Create(name)
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	}

	manifestJSON, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return nil, err
	}
	if err := writeEntry(ManifestName, manifestJSON); err != nil {
		return nil, err
	}

	payloadJSON, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return nil, err
	}
	if err := writeEntry(TemplateEntryName, payloadJSON); err != nil {
		return nil, err
	}

	for i, asset := range assets {
		if err := writeEntry(manifest.Assets[i].Path, asset.Data); err != nil {
			return nil, err
		}
	}

	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Import parses and fully validates an uploaded archive. A non-nil result
// with a failing Validation means the archive was readable but rejected;
// an error return means the container itself could not be read.
func (p *Packager) Import(r io.ReaderAt, size int64) (*ImportResult, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("read archive: %w", err)
	}

	result := &ImportResult{}
	v := &result.Validation

	entries := make(map[string]*zip.File, len(zr.File))
	for _, f := range zr.File {
		entries[f.Name] = f
	}

	manifestFile, ok := entries[ManifestName]
	if !ok {
		v.errorf("archive is missing %s", ManifestName)
		return result, nil
	}
	manifestData, err := readEntry(manifestFile)
	if err != nil {
		v.errorf("%s is unreadable: %v", ManifestName, err)
		return result, nil
	}
	if err := json.Unmarshal(manifestData, &result.Manifest); err != nil {
		v.errorf("%s is not valid JSON: %v", ManifestName, err)
		return result, nil
	}

	p.validateManifest(result.Manifest, v)

	templateFile, ok := entries[TemplateEntryName]
	if !ok {
		v.errorf("archive is missing %s", TemplateEntryName)
	} else if data, err := readEntry(templateFile); err != nil {
		v.errorf("%s is unreadable: %v", TemplateEntryName, err)
	} else if err := json.Unmarshal(data, &result.Template); err != nil {
		v.errorf("%s is not valid JSON: %v", TemplateEntryName, err)
	} else {
		if len(result.Template.Sections) == 0 {
			v.errorf("%s has no sections", TemplateEntryName)
		}
		p.scanForScripts(data, v)
	}

	declared := make(map[string]bool, len(result.Manifest.Assets))
	for _, meta := range result.Manifest.Assets {
		declared[meta.Path] = true
		p.validateAsset(meta, entries, result, v)
	}

	for name := range entries {
		if name == ManifestName || name == TemplateEntryName {
			continue
		}
		if strings.HasPrefix(name, ScreenshotsPrefix) {
			continue
		}
		if strings.HasSuffix(name, "/") {
			continue
		}
		if !declared[name] {
			v.warnf("entry %s is not declared in the manifest", name)
		}
	}

	for _, screenshot := range result.Manifest.Screenshots {
		if _, ok := entries[screenshot]; !ok {
			v.warnf("screenshot %s listed in manifest but missing from archive", screenshot)
		}
	}

	if !result.Validation.OK() {
		result.Assets = nil
	}
	return result, nil
}

// Preview extracts only the manifest and the screenshot entry names, for a
// user-facing confirmation step before a full import.
func (p *Packager) Preview(r io.ReaderAt, size int64) (*PreviewResult, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("read archive: %w", err)
	}

	for _, f := range zr.File {
		if f.Name != ManifestName {
			continue
		}
		data, err := readEntry(f)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", ManifestName, err)
		}
		var manifest Manifest
		if err := json.Unmarshal(data, &manifest); err != nil {
			return nil, fmt.Errorf("parse %s: %w", ManifestName, err)
		}

		preview := &PreviewResult{Manifest: manifest}
		for _, entry := range zr.File {
			if strings.HasPrefix(entry.Name, ScreenshotsPrefix) && !strings.HasSuffix(entry.Name, "/") {
				preview.Screenshots = append(preview.Screenshots, entry.Name)
			}
		}
		return preview, nil
	}

	return nil, fmt.Errorf("archive is missing %s", ManifestName)
}

func (p *Packager) validateManifest(m Manifest, v *Validation) {
	if m.FormatVersion != FormatVersion {
		v.errorf("unsupported archive format version %d", m.FormatVersion)
	}
	if strings.TrimSpace(m.Name) == "" {
		v.errorf("manifest field name is required")
	}
	if strings.TrimSpace(m.Author) == "" {
		v.errorf("manifest field author is required")
	}
	if strings.TrimSpace(m.Version) == "" {
		v.errorf("manifest field version is required")
	}

	if m.MinAppVersion != "" && compareVersions(p.AppVersion, m.MinAppVersion) < 0 {
		v.errorf("archive requires app version >= %s, current is %s", m.MinAppVersion, p.AppVersion)
	}
	if m.MaxAppVersion != "" && compareVersions(p.AppVersion, m.MaxAppVersion) > 0 {
		v.errorf("archive requires app version <= %s, current is %s", m.MaxAppVersion, p.AppVersion)
	}
}

func (p *Packager) validateAsset(meta AssetMeta, entries map[string]*zip.File, result *ImportResult, v *Validation) {
	if !strings.HasPrefix(meta.Path, AssetsPrefix) || meta.Path != path.Clean(meta.Path) || strings.Contains(meta.Path, "..") {
		v.securityf("asset %s has an unsafe path", meta.Path)
		return
	}

	file, ok := entries[meta.Path]
	if !ok {
		v.errorf("asset %s declared in manifest but missing from archive", meta.Path)
		return
	}

	maxSize := p.MaxAssetSize
	if maxSize <= 0 {
		maxSize = DefaultMaxAssetSize
	}
	if int64(file.UncompressedSize64) > maxSize {
		v.securityf("asset %s exceeds the maximum allowed size (%d bytes)", meta.Path, maxSize)
		return
	}

	data, err := readEntry(file)
	if err != nil {
		v.errorf("asset %s is unreadable: %v", meta.Path, err)
		return
	}

	sum := sha256.Sum256(data)
	if hex.EncodeToString(sum[:]) != strings.ToLower(meta.SHA256) {
		v.errorf("asset %s failed checksum verification", meta.Path)
		return
	}

	result.Assets = append(result.Assets, Asset{Path: meta.Path, Data: data})
}

// scriptMarkers 命中即视为安全问题，无条件阻止导入。
var scriptMarkers = []string{"<script", "javascript:", "onerror=", "onload=", "data:text/html"}

// scanForScripts walks the decoded document and checks every string field.
// encoding/json 默认会把尖括号转义成 Unicode 序列，因此必须在解码后的值上扫描。
func (p *Packager) scanForScripts(templateJSON []byte, v *Validation) {
	var doc any
	if err := json.Unmarshal(templateJSON, &doc); err != nil {
		return
	}
	if hit := findScriptContent(doc, bluemonday.UGCPolicy()); hit != "" {
		v.securityf("template document contains disallowed script content (%s)", hit)
	}
}

func findScriptContent(node any, policy *bluemonday.Policy) string {
	switch value := node.(type) {
	case string:
		lowered := strings.ToLower(value)
		for _, marker := range scriptMarkers {
			if strings.Contains(lowered, marker) {
				return marker
			}
		}
		// The sanitizer diff catches what the marker list does not, such as
		// unlisted event handler attributes. Entities are unescaped on both
		// sides so plain text containing < or & does not trip the comparison.
		if html.UnescapeString(policy.Sanitize(value)) != html.UnescapeString(value) {
			return "markup rejected by sanitizer"
		}
	case []any:
		for _, item := range value {
			if hit := findScriptContent(item, policy); hit != "" {
				return hit
			}
		}
	case map[string]any:
		for _, item := range value {
			if hit := findScriptContent(item, policy); hit != "" {
				return hit
			}
		}
	}
	return ""
}

func readEntry(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

func normalizeAssetPath(p string) string {
	cleaned := path.Clean(strings.TrimPrefix(strings.TrimSpace(p), "/"))
	if !strings.HasPrefix(cleaned, AssetsPrefix) {
		cleaned = AssetsPrefix + path.Base(cleaned)
	}
	return cleaned
}

// compareVersions orders two dotted numeric versions. Missing parts count
// as zero; non-numeric parts compare as strings.
func compareVersions(a, b string) int {
	as := strings.Split(strings.TrimPrefix(strings.TrimSpace(a), "v"), ".")
	bs := strings.Split(strings.TrimPrefix(strings.TrimSpace(b), "v"), ".")

	for i := 0; i < len(as) || i < len(bs); i++ {
		ap, bp := "0", "0"
		if i < len(as) && as[i] != "" {
			ap = as[i]
		}
		if i < len(bs) && bs[i] != "" {
			bp = bs[i]
		}
		an, aErr := strconv.Atoi(ap)
		bn, bErr := strconv.Atoi(bp)
		if aErr != nil || bErr != nil {
			if ap == bp {
				continue
			}
			return strings.Compare(ap, bp)
		}
		if an != bn {
			if an < bn {
				return -1
			}
			return 1
		}
	}
	return 0
}
