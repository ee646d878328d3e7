package app

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"os"
	"time"

	"github.com/hyperifyio/fiksextract/internal/engine"
	"github.com/hyperifyio/fiksextract/internal/extract"
)

// manifest is the sidecar written next to an output file. It records what
// was extracted from which bytes so an export can be traced back.
type manifest struct {
	Input       string    `json:"input"`
	SHA256      string    `json:"sha256"`
	Bytes       int       `json:"bytes"`
	Encoding    string    `json:"encoding"`
	Format      string    `json:"format"`
	Kind        string    `json:"kind"`
	Records     int       `json:"records"`
	Packages    int       `json:"packages,omitempty"`
	Placeholder string    `json:"placeholder,omitempty"`
	Output      string    `json:"output"`
	Version     string    `json:"version"`
	GeneratedAt time.Time `json:"generated_at"`
}

// computeSHA256Hex returns a lowercase hex-encoded SHA-256 of b.
func computeSHA256Hex(b []byte) string {
	h := sha256.Sum256(b)
	return hex.EncodeToString(h[:])
}

func buildManifest(d document, out engine.Extraction, outputPath, placeholder string, now time.Time) manifest {
	m := manifest{
		Input:       d.name,
		SHA256:      computeSHA256Hex(d.raw),
		Bytes:       len(d.raw),
		Encoding:    d.encoding,
		Format:      out.Format,
		Kind:        string(out.Result.Kind),
		Records:     out.Result.Count(),
		Output:      outputPath,
		Version:     BuildVersion,
		GeneratedAt: now.UTC(),
	}
	if out.Result.Kind == extract.KindShippingNote && out.Result.ShippingNote != nil {
		m.Packages = out.Result.ShippingNote.Packages.Len()
		m.Placeholder = placeholder
	}
	return m
}

// marshalManifestJSON encodes the sidecar manifest.
func marshalManifestJSON(m manifest) ([]byte, error) {
	return json.MarshalIndent(m, "", "  ")
}

// deriveManifestSidecarPath returns a sidecar JSON path next to the output.
func deriveManifestSidecarPath(outputPath string) string {
	return outputPath + ".manifest.json"
}

func writeManifest(m manifest) error {
	b, err := marshalManifestJSON(m)
	if err != nil {
		return err
	}
	return os.WriteFile(deriveManifestSidecarPath(m.Output), append(b, '\n'), 0o644)
}
