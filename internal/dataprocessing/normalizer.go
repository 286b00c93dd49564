package dataprocessing

import (
	"context"
	"log/slog"
	"strings"

	fuzzy "github.com/paul-mannino/go-fuzzywuzzy"

	"cargolens/pkg/contracts/domain"
)

// DefaultSimilarityThreshold is the token-sort score at or above which two
// normalized importer names collapse into one canonical form (0-100 scale).
const DefaultSimilarityThreshold = 90

// Normalizer canonicalizes importer names. Spelling variants that survive
// rune normalization are clustered greedily: the first spelling seen
// registers itself as canonical, and each later one merges into the
// best-scoring registered form when the token-sort ratio reaches the
// threshold, otherwise registers a new form. Reordering the inputs can
// change cluster assignment; that order dependence is part of the
// contract, not an accident to smooth over.
type Normalizer struct {
	logger    *slog.Logger
	threshold int
}

// NormalizationStats describes one normalization pass over a dataset.
type NormalizationStats struct {
	// DistinctNames counts the distinct non-blank normalized spellings.
	DistinctNames int
	// Clusters counts the canonical forms those spellings collapsed into.
	Clusters int
}

// NewNormalizer creates a normalizer with the given similarity threshold.
// A threshold of zero or less selects DefaultSimilarityThreshold.
func NewNormalizer(logger *slog.Logger, threshold int) *Normalizer {
	if logger == nil {
		logger = slog.Default()
	}
	if threshold <= 0 {
		threshold = DefaultSimilarityThreshold
	}
	return &Normalizer{logger: logger, threshold: threshold}
}

// NormalizeName uppercases the name, strips every rune that is not an
// uppercase letter, digit, or space, and trims the result. Interior
// whitespace is preserved as-is.
func NormalizeName(name string) string {
	stripped := strings.Map(func(r rune) rune {
		switch {
		case r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == ' ':
			return r
		default:
			return -1
		}
	}, strings.ToUpper(name))
	return strings.TrimSpace(stripped)
}

// ClusterNames maps each distinct normalized name to its canonical form,
// processing names in the order given. Blank names map to themselves
// without registering a cluster.
func (n *Normalizer) ClusterNames(names []string) map[string]string {
	mapping := make(map[string]string, len(names))
	var canonical []string

	for _, name := range names {
		if _, seen := mapping[name]; seen {
			continue
		}
		if name == "" {
			mapping[name] = ""
			continue
		}
		if match, score := bestMatch(name, canonical); score >= n.threshold {
			mapping[name] = match
			continue
		}
		canonical = append(canonical, name)
		mapping[name] = name
	}
	return mapping
}

// bestMatch returns the registered form with the highest token-sort ratio
// against the candidate. Ties keep the earliest registered form.
func bestMatch(name string, canonical []string) (string, int) {
	best := ""
	bestScore := -1
	for _, c := range canonical {
		if score := fuzzy.TokenSortRatio(name, c); score > bestScore {
			best, bestScore = c, score
		}
	}
	return best, bestScore
}

// Apply trims and uppercases every record's Importer, then assigns each
// record the canonical form of its normalized importer name. Records with
// a blank importer keep an empty canonical label.
func (n *Normalizer) Apply(ctx context.Context, dataset *domain.Dataset) NormalizationStats {
	if dataset.Empty() {
		return NormalizationStats{}
	}

	normalized := make([]string, len(dataset.Records))
	for i := range dataset.Records {
		record := &dataset.Records[i]
		record.Importer = strings.ToUpper(strings.TrimSpace(record.Cell(ColumnImporter)))
		normalized[i] = NormalizeName(record.Importer)
	}

	mapping := n.ClusterNames(normalized)
	for i := range dataset.Records {
		dataset.Records[i].NormalizedImporter = mapping[normalized[i]]
	}

	stats := statsFromMapping(mapping)
	n.logger.InfoContext(ctx, "importer names normalized",
		slog.Int("records", len(dataset.Records)),
		slog.Int("distinct_names", stats.DistinctNames),
		slog.Int("clusters", stats.Clusters))

	return stats
}

func statsFromMapping(mapping map[string]string) NormalizationStats {
	clusters := make(map[string]struct{}, len(mapping))
	names := 0
	for name, canonical := range mapping {
		if name == "" {
			continue
		}
		names++
		clusters[canonical] = struct{}{}
	}
	return NormalizationStats{DistinctNames: names, Clusters: len(clusters)}
}
