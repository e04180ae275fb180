package model

import (
	"fmt"
	"sort"
	"strings"
)

// Locale is a registered catalog key such as "en".
type Locale string

const (
	LocaleEnglish  Locale = "en"
	LocaleKorean   Locale = "ko"
	LocaleJapanese Locale = "ja"
)

// DefaultLocale is used for empty or unregistered locale codes.
const DefaultLocale = LocaleEnglish

// LabelSet holds every user-facing label for one locale. All fields are required.
type LabelSet struct {
	Success     string
	Failure     string
	Cancelled   string
	Skipped     string
	Repository  string
	Workflow    string
	Branch      string
	Commit      string
	TriggeredBy string
}

// Validate returns an error naming every empty label.
func (l LabelSet) Validate() error {
	fields := []struct {
		name  string
		value string
	}{
		{"success", l.Success},
		{"failure", l.Failure},
		{"cancelled", l.Cancelled},
		{"skipped", l.Skipped},
		{"repository", l.Repository},
		{"workflow", l.Workflow},
		{"branch", l.Branch},
		{"commit", l.Commit},
		{"triggeredBy", l.TriggeredBy},
	}
	var missing []string
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing labels: %s", strings.Join(missing, ", "))
	}
	return nil
}

// StatusLabel returns the translated label for a known status. ok is false for unknown statuses.
func (l LabelSet) StatusLabel(s Status) (label string, ok bool) {
	switch s.Kind {
	case StatusSuccess:
		return l.Success, true
	case StatusFailure:
		return l.Failure, true
	case StatusCancelled:
		return l.Cancelled, true
	case StatusSkipped:
		return l.Skipped, true
	default:
		return "", false
	}
}

// Catalog maps locales to complete label sets. It is read-only after construction.
type Catalog struct {
	labels map[Locale]LabelSet
}

// NewCatalog validates every label set and requires the default locale to be present.
func NewCatalog(sets map[Locale]LabelSet) (*Catalog, error) {
	if _, ok := sets[DefaultLocale]; !ok {
		return nil, fmt.Errorf("catalog: default locale %q not registered", DefaultLocale)
	}
	labels := make(map[Locale]LabelSet, len(sets))
	for loc, set := range sets {
		if err := set.Validate(); err != nil {
			return nil, fmt.Errorf("catalog: locale %q: %w", loc, err)
		}
		labels[loc] = set
	}
	return &Catalog{labels: labels}, nil
}

// Resolve maps a locale code to a registered Locale. ok is false when the code fell back to the default.
func (c *Catalog) Resolve(code string) (loc Locale, ok bool) {
	if _, found := c.labels[Locale(code)]; found {
		return Locale(code), true
	}
	return DefaultLocale, false
}

// LabelsFor returns the labels for code, or the default locale's labels when code is not registered.
func (c *Catalog) LabelsFor(code string) LabelSet {
	loc, _ := c.Resolve(code)
	return c.labels[loc]
}

// Locales returns the registered locales in sorted order.
func (c *Catalog) Locales() []Locale {
	out := make([]Locale, 0, len(c.labels))
	for loc := range c.labels {
		out = append(out, loc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

var builtinLabels = map[Locale]LabelSet{
	LocaleEnglish: {
		Success:     "Success",
		Failure:     "Failed",
		Cancelled:   "Cancelled",
		Skipped:     "Skipped",
		Repository:  "Repository",
		Workflow:    "Workflow",
		Branch:      "Branch",
		Commit:      "Commit",
		TriggeredBy: "Triggered by",
	},
	LocaleKorean: {
		Success:     "성공",
		Failure:     "실패",
		Cancelled:   "취소됨",
		Skipped:     "건너뜀",
		Repository:  "저장소",
		Workflow:    "워크플로우",
		Branch:      "브랜치",
		Commit:      "커밋",
		TriggeredBy: "트리거",
	},
	LocaleJapanese: {
		Success:     "成功",
		Failure:     "失敗",
		Cancelled:   "キャンセル",
		Skipped:     "スキップ",
		Repository:  "リポジトリ",
		Workflow:    "ワークフロー",
		Branch:      "ブランチ",
		Commit:      "コミット",
		TriggeredBy: "トリガー",
	},
}

var defaultCatalog = mustCatalog(builtinLabels)

func mustCatalog(sets map[Locale]LabelSet) *Catalog {
	c, err := NewCatalog(sets)
	if err != nil {
		panic(err)
	}
	return c
}

// DefaultCatalog returns the built-in en/ko/ja catalog.
func DefaultCatalog() *Catalog {
	return defaultCatalog
}
