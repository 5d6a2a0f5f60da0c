package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"promptdeck/internal/domain"
)

// defaultMaxFileSize caps a single agent document (1 MiB).
const defaultMaxFileSize = 1 << 20

// FileCatalogProvider loads agent descriptors from a directory.
//
// It supports two layouts:
//   - Flat: agents/<id>.md with agents/<id>.minimal.json and
//     agents/<id>.standard.json beside it
//   - Subdirectory: agents/<id>/AGENT.md with minimal.json and
//     standard.json in the same directory
//
// The markdown document carries YAML frontmatter (--- delimited) and is
// the authoritative full-tier prose. Summary JSON files are optional;
// a missing file simply leaves that tier absent.
type FileCatalogProvider struct {
	dir         string
	maxFileSize int64
	counter     domain.TokenCounter
	schema      *summarySchema
}

// NewFileCatalogProvider creates a provider reading from dir. Token counts
// for representations without a precomputed count come from counter.
func NewFileCatalogProvider(dir string, counter domain.TokenCounter, maxFileSize int64) (*FileCatalogProvider, error) {
	if maxFileSize <= 0 {
		maxFileSize = defaultMaxFileSize
	}
	schema, err := newSummarySchema()
	if err != nil {
		return nil, domain.WrapOp("catalog: compile summary schema", err)
	}
	return &FileCatalogProvider{
		dir:         dir,
		maxFileSize: maxFileSize,
		counter:     counter,
		schema:      schema,
	}, nil
}

// Load reads every agent document under the catalog directory and builds
// validated descriptors. The returned slice is sorted by directory order;
// callers install it into a registry via ReplaceAll.
func (p *FileCatalogProvider) Load(_ context.Context) ([]*domain.AgentDescriptor, error) {
	entries, err := os.ReadDir(p.dir)
	if err != nil {
		return nil, domain.NewDomainError("Catalog.Load", domain.ErrCatalogLoad, err.Error())
	}

	seen := make(map[string]string) // id → source path
	var descs []*domain.AgentDescriptor
	for _, entry := range entries {
		var docPath string
		if entry.IsDir() {
			candidate := filepath.Join(p.dir, entry.Name(), "AGENT.md")
			if _, err := os.Stat(candidate); err != nil {
				continue // not an agent directory
			}
			docPath = candidate
		} else if strings.HasSuffix(entry.Name(), ".md") {
			docPath = filepath.Join(p.dir, entry.Name())
		} else {
			continue
		}

		desc, err := p.loadAgent(docPath)
		if err != nil {
			return nil, err
		}

		if prev, exists := seen[desc.ID]; exists {
			return nil, domain.NewDomainError("Catalog.Load", domain.ErrDuplicateAgent,
				fmt.Sprintf("%s defined in both %s and %s", desc.ID, prev, docPath))
		}
		seen[desc.ID] = docPath
		descs = append(descs, desc)
	}

	return descs, nil
}

// frontmatter is the YAML header of an agent document.
type frontmatter struct {
	ID          string            `yaml:"id"`
	Name        string            `yaml:"name"`
	Description string            `yaml:"description"`
	Tags        []string          `yaml:"tags"`
	Metadata    map[string]string `yaml:"metadata"`
}

// loadAgent builds one descriptor from a markdown document and its
// neighboring summary files.
func (p *FileCatalogProvider) loadAgent(docPath string) (*domain.AgentDescriptor, error) {
	body, fm, err := p.readDocument(docPath)
	if err != nil {
		return nil, err
	}

	id := fm.ID
	if id == "" {
		id = idFromPath(docPath)
	}

	desc := &domain.AgentDescriptor{
		ID:          id,
		Name:        fm.Name,
		Description: fm.Description,
		Tags:        fm.Tags,
		Metadata:    fm.Metadata,
		Full: domain.Representation{
			Tier:    domain.TierFull,
			Format:  domain.FormatMarkdown,
			Content: body,
			Tokens:  p.counter.CountText(body),
		},
		SourcePath: docPath,
		LoadedAt:   time.Now(),
	}
	if desc.Name == "" {
		desc.Name = id
	}

	minPath, stdPath := summaryPaths(docPath)
	if desc.Minimal, err = p.loadSummary(minPath, domain.TierMinimal); err != nil {
		return nil, err
	}
	if desc.Standard, err = p.loadSummary(stdPath, domain.TierStandard); err != nil {
		return nil, err
	}

	if err := desc.Validate(); err != nil {
		return nil, domain.WrapOp("catalog: "+docPath, err)
	}
	return desc, nil
}

// readDocument reads and splits a markdown file into frontmatter and body.
func (p *FileCatalogProvider) readDocument(path string) (body string, fm frontmatter, err error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", fm, domain.NewDomainError("Catalog.Load", domain.ErrCatalogLoad, err.Error())
	}
	if info.Size() > p.maxFileSize {
		return "", fm, domain.NewDomainError("Catalog.Load", domain.ErrCatalogLoad,
			fmt.Sprintf("%s too large (%d bytes, max %d)", path, info.Size(), p.maxFileSize))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fm, domain.NewDomainError("Catalog.Load", domain.ErrCatalogLoad, err.Error())
	}

	content := strings.TrimSpace(string(data))
	if !strings.HasPrefix(content, "---") {
		// No frontmatter: the whole file is the prose document.
		return content, fm, nil
	}

	parts := strings.SplitN(content[3:], "---", 2)
	if len(parts) != 2 {
		return "", fm, domain.NewDomainError("Catalog.Load", domain.ErrCatalogLoad,
			path+": missing closing frontmatter delimiter")
	}
	if err := yaml.Unmarshal([]byte(parts[0]), &fm); err != nil {
		return "", fm, domain.NewDomainError("Catalog.Load", domain.ErrCatalogLoad,
			path+": parse frontmatter: "+err.Error())
	}
	return strings.TrimSpace(parts[1]), fm, nil
}

// loadSummary reads one summary tier. A missing file is not an error;
// the tier is simply absent from the descriptor.
func (p *FileCatalogProvider) loadSummary(path string, tier domain.Tier) (*domain.Representation, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, domain.NewDomainError("Catalog.Load", domain.ErrCatalogLoad, err.Error())
	}

	rec, err := p.schema.parse(data)
	if err != nil {
		return nil, domain.NewDomainError("Catalog.Load", domain.ErrCatalogLoad,
			path+": "+err.Error())
	}

	// The payload surfaced to callers is the compacted record itself.
	compact, err := json.Marshal(rec.payload())
	if err != nil {
		return nil, domain.NewDomainError("Catalog.Load", domain.ErrCatalogLoad,
			path+": marshal summary: "+err.Error())
	}

	tokens := rec.Tokens
	if tokens <= 0 {
		tokens = p.counter.CountText(string(compact))
	}

	return &domain.Representation{
		Tier:    tier,
		Format:  domain.FormatJSON,
		Content: string(compact),
		Tokens:  tokens,
	}, nil
}

// summaryPaths derives the minimal/standard summary file paths for a
// document path in either catalog layout.
func summaryPaths(docPath string) (minPath, stdPath string) {
	dir := filepath.Dir(docPath)
	base := filepath.Base(docPath)
	if base == "AGENT.md" {
		return filepath.Join(dir, "minimal.json"), filepath.Join(dir, "standard.json")
	}
	stem := strings.TrimSuffix(base, ".md")
	return filepath.Join(dir, stem+".minimal.json"), filepath.Join(dir, stem+".standard.json")
}

// idFromPath derives an agent ID from the file layout when frontmatter
// does not provide one.
func idFromPath(docPath string) string {
	base := filepath.Base(docPath)
	if base == "AGENT.md" {
		return filepath.Base(filepath.Dir(docPath))
	}
	return strings.TrimSuffix(base, ".md")
}
