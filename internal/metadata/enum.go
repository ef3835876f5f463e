package metadata

import (
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/dbsmedya/axmeta/internal/descriptor"
	"github.com/dbsmedya/axmeta/internal/types"
)

// noYesEnum is patched with fixed items because it is not part of the
// scanned tree.
const noYesEnum = "NoYes"

// EnumDetails returns the items of an enum and its extensions with values
// assigned and sorted by numeric value. Results are memoized per name and
// returned as copies.
func (s *Service) EnumDetails(name string) []types.EnumItem {
	if cached, ok := s.enums.Load(name); ok {
		return cloneItems(cached.([]types.EnumItem))
	}

	items := AssignValues(name, s.collectEnumItems(name))
	actual, _ := s.enums.LoadOrStore(name, items)
	return cloneItems(actual.([]types.EnumItem))
}

// EnumPaths returns the base enum descriptor (if indexed) followed by its
// extension descriptors.
func (s *Service) EnumPaths(name string) []string {
	idx := s.Index()
	var paths []string
	if p, ok := idx.Enum(name); ok {
		paths = append(paths, p)
	}
	return append(paths, idx.EnumExtensionPaths(name)...)
}

// collectEnumItems merges the items of every enum descriptor in order. An
// item whose name was already seen is skipped.
func (s *Service) collectEnumItems(name string) []types.EnumItem {
	var items []types.EnumItem
	seen := make(map[string]struct{})

	for _, path := range s.EnumPaths(name) {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		e, err := descriptor.ParseEnum(path)
		if err != nil {
			s.logger.Warnf("Skipping malformed enum descriptor %s: %v", path, err)
			continue
		}

		for _, v := range e.Values {
			if v.Name == "" {
				continue
			}
			k := strings.ToLower(v.Name)
			if _, dup := seen[k]; dup {
				continue
			}
			seen[k] = struct{}{}
			items = append(items, types.EnumItem{Name: v.Name, Label: v.Label, Value: v.Value})
		}
	}
	return items
}

// AssignValues fills in missing item values and returns the items sorted by
// numeric value. The input slice is not modified.
//
// Items named None or Create take 0 when no item uses 0 yet. Every other
// valueless item takes the lowest unused integer at or above a cursor that
// starts at 0 and only moves forward. The NoYes enum additionally gets
// No=0 and Yes=1.
func AssignValues(enumName string, items []types.EnumItem) []types.EnumItem {
	out := cloneItems(items)

	used := make(map[int]struct{})
	for _, it := range out {
		if n, err := strconv.Atoi(it.Value); err == nil {
			used[n] = struct{}{}
		}
	}

	cursor := 0
	for i := range out {
		if out[i].Value != "" {
			continue
		}

		if _, zeroUsed := used[0]; !zeroUsed && isZeroDefault(out[i].Name) {
			out[i].Value = "0"
			used[0] = struct{}{}
			continue
		}

		for {
			if _, taken := used[cursor]; !taken {
				break
			}
			cursor++
		}
		out[i].Value = strconv.Itoa(cursor)
		used[cursor] = struct{}{}
	}

	if enumName == noYesEnum {
		out = append(out,
			types.EnumItem{Name: "No", Label: "否", Value: "0"},
			types.EnumItem{Name: "Yes", Label: "是", Value: "1"},
		)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].NumericValue() < out[j].NumericValue()
	})
	return out
}

func isZeroDefault(name string) bool {
	return strings.EqualFold(name, "None") || strings.EqualFold(name, "Create")
}

func cloneItems(items []types.EnumItem) []types.EnumItem {
	if items == nil {
		return nil
	}
	out := make([]types.EnumItem, len(items))
	copy(out, items)
	return out
}
