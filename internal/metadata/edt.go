package metadata

import (
	"strings"

	"github.com/dbsmedya/axmeta/internal/descriptor"
)

// ExtendedTypeLabel returns the label id of an extended data type, following
// its Extends chain. Found labels are memoized.
func (s *Service) ExtendedTypeLabel(name string) (string, bool) {
	if name == "" {
		return "", false
	}
	k := strings.ToLower(name)
	if cached, ok := s.edtLabels.Load(k); ok {
		return cached.(string), true
	}

	label, ok := s.resolveExtendedTypeLabel(name)
	if ok {
		s.edtLabels.Store(k, label)
	}
	return label, ok
}

// resolveExtendedTypeLabel walks at most maxDepth types, starting type
// included. An unindexed or unreadable type ends the walk.
func (s *Service) resolveExtendedTypeLabel(name string) (string, bool) {
	idx := s.Index()
	current := name

	for depth := 1; depth <= s.maxDepth && current != ""; depth++ {
		path, ok := idx.ExtendedType(current)
		if !ok {
			return "", false
		}

		edt, err := descriptor.ParseExtendedType(path)
		if err != nil {
			s.logger.Debugf("Cannot read EDT %s: %v", current, err)
			return "", false
		}
		if edt.Label != "" {
			return edt.Label, true
		}
		current = edt.Extends
	}
	return "", false
}

// EnumLabel returns the enum's own label id, or "" when unknown.
func (s *Service) EnumLabel(name string) string {
	path, ok := s.Index().Enum(name)
	if !ok {
		return ""
	}
	e, err := descriptor.ParseEnum(path)
	if err != nil {
		s.logger.Debugf("Cannot read enum %s: %v", name, err)
		return ""
	}
	return e.Label
}
