package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Participants: static participant configuration. Display names keyed by the
// store's entity ID, the alias map for mention resolution, and the block-list
// of service/bot accounts excluded from every computation.
type Participants struct {
	Users     map[int64]string  `yaml:"users"`
	Aliases   map[string]string `yaml:"aliases"`
	Blocklist []string          `yaml:"blocklist"`
	IgnoreIDs []int64           `yaml:"ignore_ids"`

	blocked map[string]struct{}
	aliases map[string]string
}

// LoadParticipants reads the participants YAML document.
// A missing file yields an empty configuration, not an error: the analytics
// core still runs, it just resolves no aliases and blocks no one.
func LoadParticipants(path string) (*Participants, error) {
	participants := &Participants{}
	if strings.TrimSpace(path) != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, participants); err != nil {
				return nil, fmt.Errorf("parse participants config: %w", err)
			}
		case os.IsNotExist(err):
			// fall through with empty config
		default:
			return nil, fmt.Errorf("read participants config: %w", err)
		}
	}
	participants.index()
	return participants, nil
}

func (p *Participants) index() {
	p.blocked = make(map[string]struct{}, len(p.Blocklist))
	for _, name := range p.Blocklist {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		p.blocked[strings.ToLower(name)] = struct{}{}
	}

	p.aliases = make(map[string]string, len(p.Aliases))
	for alias, display := range p.Aliases {
		alias = strings.ToLower(strings.TrimSpace(alias))
		display = strings.TrimSpace(display)
		if alias == "" || display == "" {
			continue
		}
		p.aliases[alias] = display
	}
}

// ResolveAlias maps a raw mention target onto a canonical display name.
// Lookup is case-insensitive; unknown targets return ok=false.
func (p *Participants) ResolveAlias(raw string) (string, bool) {
	if p == nil {
		return "", false
	}
	display, ok := p.aliases[strings.ToLower(strings.TrimSpace(raw))]
	return display, ok
}

// IsBlocked reports whether a display name belongs to the block-list.
func (p *Participants) IsBlocked(displayName string) bool {
	if p == nil {
		return false
	}
	_, ok := p.blocked[strings.ToLower(strings.TrimSpace(displayName))]
	return ok
}

// IsIgnoredID reports whether an entity ID is a known service account.
func (p *Participants) IsIgnoredID(id int64) bool {
	if p == nil {
		return false
	}
	for _, ignored := range p.IgnoreIDs {
		if ignored == id {
			return true
		}
	}
	return false
}

// DisplayName returns the configured chart label for an entity ID.
func (p *Participants) DisplayName(id int64) (string, bool) {
	if p == nil {
		return "", false
	}
	name, ok := p.Users[id]
	return name, ok
}

// AliasMap returns a copy of the normalized alias map.
func (p *Participants) AliasMap() map[string]string {
	if p == nil {
		return nil
	}
	out := make(map[string]string, len(p.aliases))
	for alias, display := range p.aliases {
		out[alias] = display
	}
	return out
}
