package archive

import (
	"archive/zip"
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"strings"
	"testing"
	"time"
)

func testPackager() *Packager {
	return NewPackager("2.1.0")
}

func sampleManifest() Manifest {
	return Manifest{
		Name:    "Landing A",
		Author:  "calmsey",
		Version: "1.0.0",
	}
}

func samplePayload() TemplatePayload {
	return TemplatePayload{
		Name:          "Landing A",
		SchemaVersion: "1.0.0",
		Sections:      json.RawMessage(`[{"id":"hero","kind":"HERO","styles":{"primaryColor":"#111111"}}]`),
		GlobalStyles:  json.RawMessage(`{"bodyFont":"Inter"}`),
	}
}

func buildArchive(t *testing.T, mutate func(*Manifest, map[string][]byte)) []byte {
	t.Helper()

	assets := map[string][]byte{
		"assets/hero.jpg": []byte("jpeg-bytes"),
	}

	manifest := sampleManifest()
	manifest.FormatVersion = FormatVersion
	manifest.ExportID = "test-export"
	manifest.ExportedAt = time.Now().UTC()
	for path, data := range assets {
		sum := sha256.Sum256(data)
		manifest.Assets = append(manifest.Assets, AssetMeta{
			Path:   path,
			Size:   int64(len(data)),
			SHA256: hex.EncodeToString(sum[:]),
		})
	}

	if mutate != nil {
		mutate(&manifest, assets)
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	write := func(name string, data []byte) {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
		if _, err := w.Write(data); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}

	manifestJSON, err := json.Marshal(manifest)
	if err != nil {
		t.Fatalf("marshal manifest: %v", err)
	}
	write(ManifestName, manifestJSON)

	payloadJSON, err := json.Marshal(samplePayload())
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	write(TemplateEntryName, payloadJSON)

	for path, data := range assets {
		write(path, data)
	}

	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	return buf.Bytes()
}

func importBytes(t *testing.T, data []byte) *ImportResult {
	t.Helper()
	result, err := testPackager().Import(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("Import returned error: %v", err)
	}
	return result
}

func TestExportImportRoundTrip(t *testing.T) {
	p := testPackager()

	data, err := p.Export(sampleManifest(), samplePayload(), []Asset{
		{Path: "hero.jpg", Data: []byte("jpeg-bytes")},
	})
	if err != nil {
		t.Fatalf("Export returned error: %v", err)
	}

	result := importBytes(t, data)
	if !result.Validation.OK() {
		t.Fatalf("round trip failed validation: %+v", result.Validation)
	}
	if result.Manifest.Name != "Landing A" {
		t.Fatalf("unexpected manifest name %q", result.Manifest.Name)
	}
	if len(result.Assets) != 1 || result.Assets[0].Path != "assets/hero.jpg" {
		t.Fatalf("unexpected assets: %+v", result.Assets)
	}
	if string(result.Assets[0].Data) != "jpeg-bytes" {
		t.Fatal("asset bytes corrupted in round trip")
	}
	if result.Template.Name != "Landing A" {
		t.Fatalf("unexpected template payload: %+v", result.Template)
	}
}

func TestImportChecksumMismatchNamesAsset(t *testing.T) {
	data := buildArchive(t, func(m *Manifest, assets map[string][]byte) {
		m.Assets[0].SHA256 = strings.Repeat("0", 64)
	})

	result := importBytes(t, data)
	if result.Validation.OK() {
		t.Fatal("expected validation failure")
	}

	var named bool
	for _, e := range result.Validation.Errors {
		if strings.Contains(e, "assets/hero.jpg") && strings.Contains(e, "checksum") {
			named = true
		}
	}
	if !named {
		t.Fatalf("checksum error must name the asset, got %+v", result.Validation.Errors)
	}
	if len(result.Assets) != 0 {
		t.Fatal("rejected import must not hand back extracted assets")
	}
}

func TestImportEnumeratesEveryProblem(t *testing.T) {
	data := buildArchive(t, func(m *Manifest, assets map[string][]byte) {
		m.Name = ""
		m.Author = ""
		m.Assets[0].SHA256 = strings.Repeat("f", 64)
	})

	result := importBytes(t, data)
	if len(result.Validation.Errors) < 3 {
		t.Fatalf("expected all problems enumerated, got %+v", result.Validation.Errors)
	}
}

func TestImportBlocksScriptContent(t *testing.T) {
	data := buildArchive(t, nil)

	// Rewrite template.json with script content.
	var buf bytes.Buffer
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("reopen archive: %v", err)
	}
	zw := zip.NewWriter(&buf)
	for _, f := range zr.File {
		w, err := zw.Create(f.Name)
		if err != nil {
			t.Fatalf("create %s: %v", f.Name, err)
		}
		if f.Name == TemplateEntryName {
			payload := samplePayload()
			payload.Sections = json.RawMessage(`[{"id":"x","content":"<script>alert(1)</script>"}]`)
			evil, _ := json.Marshal(payload)
			w.Write(evil)
			continue
		}
		rc, _ := f.Open()
		content, _ := io.ReadAll(rc)
		rc.Close()
		w.Write(content)
	}
	zw.Close()

	result := importBytes(t, buf.Bytes())
	if len(result.Validation.SecurityIssues) == 0 {
		t.Fatal("script content must be reported as a security issue")
	}
	if result.Validation.OK() {
		t.Fatal("security issues must block the import")
	}
}

func TestImportBlocksScriptContentAfterJSONEscaping(t *testing.T) {
	// Export runs the document through encoding/json, which turns the angle
	// brackets into Unicode escapes inside template.json. The scan must
	// still catch the script on re-import.
	payload := samplePayload()
	payload.Sections = json.RawMessage(`[{"id":"x","content":"<script>alert(1)</script>"}]`)

	data, err := testPackager().Export(sampleManifest(), payload, nil)
	if err != nil {
		t.Fatalf("Export returned error: %v", err)
	}

	result := importBytes(t, data)
	if len(result.Validation.SecurityIssues) == 0 {
		t.Fatalf("escaped script content must be a security issue: %+v", result.Validation)
	}
}

func TestImportBlocksUnlistedEventHandlers(t *testing.T) {
	payload := samplePayload()
	payload.Sections = json.RawMessage(`[{"id":"x","content":"<img src=\"x\" onmouseover=\"steal()\">"}]`)

	data, err := testPackager().Export(sampleManifest(), payload, nil)
	if err != nil {
		t.Fatalf("Export returned error: %v", err)
	}

	result := importBytes(t, data)
	if len(result.Validation.SecurityIssues) == 0 {
		t.Fatalf("sanitizer must reject the event handler attribute: %+v", result.Validation)
	}
}

func TestImportAllowsBenignMarkupAndPlainText(t *testing.T) {
	payload := samplePayload()
	payload.Sections = json.RawMessage(`[{"id":"x","content":"<p>Results: 3 < 5 & 7 > 2</p>"}]`)

	data, err := testPackager().Export(sampleManifest(), payload, nil)
	if err != nil {
		t.Fatalf("Export returned error: %v", err)
	}

	result := importBytes(t, data)
	if !result.Validation.OK() {
		t.Fatalf("benign markup must pass validation: %+v", result.Validation)
	}
}

func TestImportBlocksOversizedAsset(t *testing.T) {
	data := buildArchive(t, nil)

	p := testPackager()
	p.MaxAssetSize = 4
	result, err := p.Import(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("Import returned error: %v", err)
	}
	if len(result.Validation.SecurityIssues) == 0 {
		t.Fatalf("oversized asset must be a security issue: %+v", result.Validation)
	}
}

func TestImportRejectsIncompatibleVersionRange(t *testing.T) {
	data := buildArchive(t, func(m *Manifest, assets map[string][]byte) {
		m.MinAppVersion = "9.0.0"
	})

	result := importBytes(t, data)
	var found bool
	for _, e := range result.Validation.Errors {
		if strings.Contains(e, "9.0.0") {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected version range error, got %+v", result.Validation.Errors)
	}
}

func TestImportWarnsOnUndeclaredEntry(t *testing.T) {
	data := buildArchive(t, nil)

	var buf bytes.Buffer
	zr, _ := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	zw := zip.NewWriter(&buf)
	for _, f := range zr.File {
		w, _ := zw.Create(f.Name)
		rc, _ := f.Open()
		content, _ := io.ReadAll(rc)
		rc.Close()
		w.Write(content)
	}
	w, _ := zw.Create("assets/stray.bin")
	w.Write([]byte("stray"))
	zw.Close()

	result := importBytes(t, buf.Bytes())
	if len(result.Validation.Warnings) == 0 {
		t.Fatalf("expected a warning for the undeclared entry: %+v", result.Validation)
	}
	if !result.Validation.OK() {
		t.Fatalf("warnings alone must not block import: %+v", result.Validation)
	}
}

func TestPreviewExtractsManifestOnly(t *testing.T) {
	data := buildArchive(t, nil)

	preview, err := testPackager().Preview(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("Preview returned error: %v", err)
	}
	if preview.Manifest.Name != "Landing A" {
		t.Fatalf("unexpected manifest: %+v", preview.Manifest)
	}
}

func TestCompareVersions(t *testing.T) {
	cases := []struct {
		a, b string
		want int
	}{
		{"1.0.0", "1.0.0", 0},
		{"2.1.0", "2.0.9", 1},
		{"1.9.0", "1.10.0", -1},
		{"1.0", "1.0.0", 0},
		{"v2.0.0", "2.0.0", 0},
	}
	for _, c := range cases {
		if got := compareVersions(c.a, c.b); got != c.want {
			t.Errorf("compareVersions(%q, %q) = %d, want %d", c.a, c.b, got, c.want)
		}
	}
}
