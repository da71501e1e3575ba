package site

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"
)

// Manifest records what a build produced, for diffing deployments and for
// tooling that needs the page set without crawling the output tree.
type Manifest struct {
	BuildID     string         `json:"build_id"`
	GeneratedAt time.Time      `json:"generated_at"`
	SiteTitle   string         `json:"site_title"`
	Pages       []ManifestPage `json:"pages"`
}

// ManifestPage is one output artifact with its content hash.
type ManifestPage struct {
	Slug   string    `json:"slug"`
	Title  string    `json:"title"`
	Date   time.Time `json:"date"`
	Draft  bool      `json:"draft,omitempty"`
	SHA256 string    `json:"sha256"`
}

// NewManifest computes the manifest for an assembled site.
func NewManifest(buildID, siteTitle string, s *Site, generatedAt time.Time) *Manifest {
	m := &Manifest{
		BuildID:     buildID,
		GeneratedAt: generatedAt.UTC(),
		SiteTitle:   siteTitle,
		Pages:       make([]ManifestPage, 0, len(s.Pages)),
	}
	for _, p := range s.Pages {
		sum := sha256.Sum256(p.HTML)
		m.Pages = append(m.Pages, ManifestPage{
			Slug:   p.Slug,
			Title:  p.Title,
			Date:   p.Date,
			Draft:  p.Draft,
			SHA256: hex.EncodeToString(sum[:]),
		})
	}
	return m
}

// MarshalIndent renders the manifest as stable, human-diffable JSON.
func (m *Manifest) MarshalIndent() ([]byte, error) {
	return json.MarshalIndent(m, "", "  ")
}
