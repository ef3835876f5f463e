package metadata

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dbsmedya/axmeta/internal/types"
)

func names(items []types.EnumItem) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Name + "=" + it.Value
	}
	return out
}

func TestAssignValues(t *testing.T) {
	tests := []struct {
		name  string
		enum  string
		items []types.EnumItem
		want  []string
	}{
		{
			name:  "none takes free zero",
			items: []types.EnumItem{{Name: "None"}, {Name: "A", Value: "2"}, {Name: "B"}},
			want:  []string{"None=0", "B=1", "A=2"},
		},
		{
			name:  "create takes zero case-insensitively",
			items: []types.EnumItem{{Name: "First", Value: "1"}, {Name: "CREATE"}},
			want:  []string{"CREATE=0", "First=1"},
		},
		{
			name:  "zero already used",
			items: []types.EnumItem{{Name: "Open", Value: "0"}, {Name: "None"}, {Name: "Closed"}},
			want:  []string{"Open=0", "None=1", "Closed=2"},
		},
		{
			name:  "cursor only moves forward",
			items: []types.EnumItem{{Name: "A"}, {Name: "B", Value: "1"}, {Name: "C"}, {Name: "D", Value: "3"}, {Name: "E"}},
			want:  []string{"A=0", "B=1", "C=2", "D=3", "E=4"},
		},
		{
			name:  "unparseable values sort as zero",
			items: []types.EnumItem{{Name: "X", Value: "5"}, {Name: "Bad", Value: "abc"}},
			want:  []string{"Bad=abc", "X=5"},
		},
		{
			name:  "NoYes sentinel",
			enum:  "NoYes",
			items: nil,
			want:  []string{"No=0", "Yes=1"},
		},
		{
			name:  "sentinel is case-sensitive",
			enum:  "noyes",
			items: nil,
			want:  []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AssignValues(tt.enum, tt.items)
			assert.Equal(t, tt.want, names(got))
		})
	}
}

func TestAssignValuesLeavesInputUntouched(t *testing.T) {
	in := []types.EnumItem{{Name: "None"}, {Name: "A"}}
	_ = AssignValues("E", in)
	assert.Empty(t, in[0].Value)
	assert.Empty(t, in[1].Value)
}

func TestAssignValuesSentinelLabels(t *testing.T) {
	got := AssignValues("NoYes", nil)
	require.Len(t, got, 2)
	assert.Equal(t, "否", got[0].Label)
	assert.Equal(t, "是", got[1].Label)
}

func TestEnumDetailsMergesExtensions(t *testing.T) {
	f := newFixture(t)
	f.enum("SalesStatus", "@SYS1", enumValue("None", "@L0", "")+enumValue("Backorder", "@L1", "1")+enumValue("Delivered", "@L2", ""))
	f.enumExtension("SalesStatus", enumValue("backorder", "@Dup", "9")+enumValue("Custom", "@L3", "10"))
	s := f.service(nil)

	items := s.EnumDetails("SalesStatus")
	assert.Equal(t, []string{"None=0", "Backorder=1", "Delivered=2", "Custom=10"}, names(items))
	assert.Equal(t, "@L1", items[1].Label, "first occurrence wins")
}

func TestEnumDetailsMemoizedCopies(t *testing.T) {
	f := newFixture(t)
	f.enum("Color", "", enumValue("Red", "", "")+enumValue("Blue", "", ""))
	s := f.service(nil)

	first := s.EnumDetails("Color")
	first[0].Name = "changed"

	second := s.EnumDetails("Color")
	assert.Equal(t, []string{"Red=0", "Blue=1"}, names(second))
}

func TestEnumDetailsUnknown(t *testing.T) {
	s := newFixture(t).service(nil)
	assert.Empty(t, s.EnumDetails("Missing"))
}
