// Package validator checks a catalog and its photo directory for problems
// that would break searches or leave cards without artwork.
package validator

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/arcanaland/cardtrader/internal/artwork"
	"github.com/arcanaland/cardtrader/internal/card"
	"github.com/arcanaland/cardtrader/internal/catalog"
)

type ValidationResults struct {
	Errors   []string
	Warnings []string
}

// Valid reports whether no errors were found. Warnings do not count.
func (r ValidationResults) Valid() bool {
	return len(r.Errors) == 0
}

type Validator struct {
	store      catalog.Store
	ImagesDir  string
	TypeMarker string
	Results    ValidationResults
}

func NewValidator(store catalog.Store, imagesDir, typeMarker string) *Validator {
	return &Validator{
		store:      store,
		ImagesDir:  imagesDir,
		TypeMarker: typeMarker,
		Results:    ValidationResults{},
	}
}

// Validate runs every check. The returned error is reserved for failures
// to read the catalog; problems found are reported in the results.
func (v *Validator) Validate(ctx context.Context) (ValidationResults, error) {
	cards, err := v.store.All(ctx)
	if err != nil {
		return v.Results, fmt.Errorf("error reading catalog: %w", err)
	}

	v.validateCards(cards)
	v.validateTypes(cards)
	if v.validateImagesDir() {
		v.validatePhotos(cards)
		v.validateOrphans(cards)
	}

	return v.Results, nil
}

// validateCards flags rows that cannot be typed back as a reference.
func (v *Validator) validateCards(cards []card.Card) {
	for _, c := range cards {
		label := fmt.Sprintf("%q in set %q", c.Name, c.Set)

		if strings.TrimSpace(c.Name) == "" || strings.TrimSpace(c.Set) == "" {
			v.Results.Errors = append(v.Results.Errors,
				fmt.Sprintf("card %s is missing a name or set", label))
			continue
		}

		if c.Price.IsNegative() {
			v.Results.Errors = append(v.Results.Errors,
				fmt.Sprintf("card %s has negative price %s", label, c.Price))
		}

		if strings.Contains(c.Name, "|") || strings.Contains(c.Set, "|") {
			v.Results.Errors = append(v.Results.Errors,
				fmt.Sprintf("card %s contains '|' and cannot be used as a reference", label))
		}

		if c.IsPromo() {
			v.Results.Warnings = append(v.Results.Warnings,
				fmt.Sprintf("%s is in a promotional set and never appears in searches", c.Display()))
		}
	}
}

// validateTypes finds cards the normalize command would still tag.
func (v *Validator) validateTypes(cards []card.Card) {
	if v.TypeMarker == "" {
		return
	}

	untagged := 0
	for _, c := range cards {
		if strings.Contains(c.Name, v.TypeMarker) && !strings.Contains(c.Name, "(") && c.Type != v.TypeMarker {
			untagged++
		}
	}
	if untagged > 0 {
		v.Results.Warnings = append(v.Results.Warnings,
			fmt.Sprintf("%d cards named with %q are not typed %q (run normalize)", untagged, v.TypeMarker, v.TypeMarker))
	}
}

// validateImagesDir reports whether photo checks can run at all.
func (v *Validator) validateImagesDir() bool {
	info, err := os.Stat(v.ImagesDir)
	if os.IsNotExist(err) {
		v.Results.Warnings = append(v.Results.Warnings,
			fmt.Sprintf("images directory not found: %s", v.ImagesDir))
		return false
	}
	if err != nil {
		v.Results.Errors = append(v.Results.Errors,
			fmt.Sprintf("error reading images directory: %v", err))
		return false
	}
	if !info.IsDir() {
		v.Results.Errors = append(v.Results.Errors,
			fmt.Sprintf("images path is not a directory: %s", v.ImagesDir))
		return false
	}

	if _, err := os.Stat(artwork.PlaceholderPath(v.ImagesDir)); os.IsNotExist(err) {
		v.Results.Warnings = append(v.Results.Warnings,
			fmt.Sprintf("%s not found; cards without photos will show no art", artwork.PlaceholderFile))
	}
	return true
}

func (v *Validator) validatePhotos(cards []card.Card) {
	for _, c := range cards {
		if _, found := artwork.Resolve(v.ImagesDir, c.Set, c.Name); !found {
			v.Results.Warnings = append(v.Results.Warnings,
				fmt.Sprintf("no photo for %s (placeholder used)", c.Display()))
		}
	}
}

// validateOrphans lists photos that no catalog card points at.
func (v *Validator) validateOrphans(cards []card.Card) {
	known := make(map[string]struct{}, len(cards)+1)
	for _, c := range cards {
		known[artwork.Path(v.ImagesDir, c.Set, c.Name)] = struct{}{}
	}
	known[artwork.PlaceholderPath(v.ImagesDir)] = struct{}{}

	err := filepath.WalkDir(v.ImagesDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(path), ".jpg") {
			return nil
		}
		if _, ok := known[path]; !ok {
			rel, _ := filepath.Rel(v.ImagesDir, path)
			v.Results.Warnings = append(v.Results.Warnings,
				fmt.Sprintf("photo %s does not match any card", rel))
		}
		return nil
	})
	if err != nil {
		v.Results.Errors = append(v.Results.Errors,
			fmt.Sprintf("error scanning images directory: %v", err))
	}
}
