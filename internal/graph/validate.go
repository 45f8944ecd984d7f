package graph

import (
	"go.uber.org/zap"

	"github.com/opsdeck/opsdeck/internal/domain"
)

// ValidRelations returns the subset of relations whose source and target
// both resolve within entities. Each dropped relation is logged with its id
// and the unresolved endpoint(s); exclusion is all-or-nothing and never
// fails rendering.
func ValidRelations(entities []domain.Entity, relations []domain.Relation, log *zap.Logger) []domain.Relation {
	if log == nil {
		log = zap.NewNop()
	}

	known := make(map[string]struct{}, len(entities))
	for _, ent := range entities {
		known[ent.ID] = struct{}{}
	}

	valid := make([]domain.Relation, 0, len(relations))
	for _, r := range relations {
		_, srcOK := known[r.Source]
		_, tgtOK := known[r.Target]
		if srcOK && tgtOK {
			valid = append(valid, r)
			continue
		}

		fields := []zap.Field{zap.String("relation", r.ID)}
		if !srcOK {
			fields = append(fields, zap.String("missing_source", r.Source))
		}
		if !tgtOK {
			fields = append(fields, zap.String("missing_target", r.Target))
		}
		log.Warn("dropping relation with unresolved endpoint", fields...)
	}
	return valid
}
