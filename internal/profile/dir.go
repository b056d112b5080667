package profile

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// DirSource loads profile definitions from markdown files in a directory.
// Each file carries a YAML frontmatter block (name, description, optional
// tier/affinity) followed by the persona body. Example invocations are
// embedded in the description as <example>...</example> blocks.
type DirSource struct {
	dir string
}

func NewDirSource(dir string) *DirSource {
	return &DirSource{dir: dir}
}

func (s *DirSource) Load(ctx context.Context) ([]*Profile, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("reading profile dir: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".md") {
			continue
		}
		names = append(names, e.Name())
	}
	// Directory listing order is platform-dependent; sort so that registry
	// insertion order (and therefore tie-breaking) is reproducible.
	sort.Strings(names)

	profiles := make([]*Profile, 0, len(names))
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		path := filepath.Join(s.dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		p, err := Parse(data)
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
		slog.Debug("profile loaded", "file", name, "name", p.Name, "examples", len(p.Examples))
		profiles = append(profiles, p)
	}
	return profiles, nil
}

type frontmatter struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Tier        string `yaml:"tier"`
	Affinity    string `yaml:"affinity"`
}

var (
	exampleRe    = regexp.MustCompile(`(?s)<example>(.*?)</example>`)
	commentaryRe = regexp.MustCompile(`(?s)<commentary>(.*?)</commentary>`)
	userRe       = regexp.MustCompile(`(?s)user:\s*"([^"]*)"`)
	spaceRe      = regexp.MustCompile(`\s+`)
)

// Parse decodes one profile definition file: YAML frontmatter between ---
// delimiters, persona body after.
func Parse(data []byte) (*Profile, error) {
	text := strings.ReplaceAll(string(data), "\r\n", "\n")
	if !strings.HasPrefix(text, "---\n") {
		return nil, fmt.Errorf("missing frontmatter delimiter")
	}
	rest := text[len("---\n"):]
	end := strings.Index(rest, "\n---")
	if end < 0 {
		return nil, fmt.Errorf("unterminated frontmatter")
	}
	var fm frontmatter
	if err := yaml.Unmarshal([]byte(rest[:end]), &fm); err != nil {
		return nil, fmt.Errorf("decoding frontmatter: %w", err)
	}
	if fm.Name == "" {
		return nil, fmt.Errorf("profile name is required")
	}

	persona := rest[end+len("\n---"):]
	if i := strings.Index(persona, "\n"); i >= 0 {
		persona = persona[i+1:]
	}

	p := &Profile{
		Name:     fm.Name,
		Persona:  strings.TrimSpace(persona),
		Tier:     fm.Tier,
		Affinity: fm.Affinity,
	}

	// Pull <example> blocks out of the description; what remains is the
	// trigger description proper.
	for _, m := range exampleRe.FindAllStringSubmatch(fm.Description, -1) {
		block := m[1]
		ex := Example{Dispatch: fm.Name}
		if um := userRe.FindStringSubmatch(block); um != nil {
			ex.Request = strings.TrimSpace(um[1])
		}
		if cm := commentaryRe.FindStringSubmatch(block); cm != nil {
			ex.Rationale = collapseSpace(cm[1])
		}
		if ex.Request != "" {
			p.Examples = append(p.Examples, ex)
		}
	}
	p.TriggerDescription = collapseSpace(exampleRe.ReplaceAllString(fm.Description, " "))

	return p, nil
}

func collapseSpace(s string) string {
	return strings.TrimSpace(spaceRe.ReplaceAllString(s, " "))
}
