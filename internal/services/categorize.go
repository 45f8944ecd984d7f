package services

import (
	"sort"
	"strings"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/opsdeck/opsdeck/internal/domain"
)

// activityWindow is the trailing window within which a service counts as
// active.
const activityWindow = 10 * time.Minute

// categoryRule maps name keywords to a category. Rules are ordered; the
// first rule with a matching keyword wins.
type categoryRule struct {
	category domain.ServiceCategory
	keywords []string
}

var categoryRules = []categoryRule{
	{domain.CategoryTerminal, []string{"terminal", "shell", "bash", "zsh", "tty"}},
	{domain.CategoryDevServer, []string{"vite", "dev-server", "webpack", "next", "hmr"}},
	{domain.CategoryTestRunner, []string{"test", "jest", "vitest", "mocha", "cypress"}},
	{domain.CategoryBuildTool, []string{"build", "compil", "bundl", "rollup", "esbuild", "tsc"}},
	{domain.CategoryAPIService, []string{"api", "server", "backend", "service", "worker"}},
}

// Categorize classifies a raw service name by keyword containment on the
// lowercased name. No match yields CategoryUnknown.
func Categorize(name string) domain.ServiceCategory {
	lower := strings.ToLower(name)
	for _, rule := range categoryRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return rule.category
			}
		}
	}
	return domain.CategoryUnknown
}

// displayNames holds exact-match special cases that beat token
// capitalization.
var displayNames = map[string]string{
	"npm":      "npm",
	"pnpm":     "pnpm",
	"api":      "API",
	"postgres": "PostgreSQL",
	"redis":    "Redis",
}

// DisplayName derives a human-readable name: special cases first, otherwise
// the raw name split on hyphen/underscore/whitespace with each token
// capitalized.
func DisplayName(name string) string {
	if special, ok := displayNames[name]; ok {
		return special
	}

	tokens := strings.FieldsFunc(name, func(r rune) bool {
		return r == '-' || r == '_' || r == ' ' || r == '\t'
	})
	for i, tok := range tokens {
		tokens[i] = strings.ToUpper(tok[:1]) + tok[1:]
	}
	return strings.Join(tokens, " ")
}

// Aggregate recomputes per-service summaries from the canonical log set.
// The result is pure derived state, sorted by service name for stable
// display.
func Aggregate(entries []domain.LogEntry, clk clock.Clock) []domain.ServiceInfo {
	if clk == nil {
		clk = clock.New()
	}
	now := clk.Now()

	byName := make(map[string]*domain.ServiceInfo)
	for _, entry := range entries {
		if entry.Service == "" {
			continue
		}
		info, ok := byName[entry.Service]
		if !ok {
			info = &domain.ServiceInfo{
				ServiceName: entry.Service,
				DisplayName: DisplayName(entry.Service),
				Category:    Categorize(entry.Service),
			}
			byName[entry.Service] = info
		}
		info.LogCount++
		if entry.Timestamp.After(info.LastActivity) {
			info.LastActivity = entry.Timestamp
		}
		if now.Sub(entry.Timestamp) <= activityWindow {
			info.IsActive = true
		}
	}

	out := make([]domain.ServiceInfo, 0, len(byName))
	for _, info := range byName {
		out = append(out, *info)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ServiceName < out[j].ServiceName
	})
	return out
}
