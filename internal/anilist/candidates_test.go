package anilist

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tempizhere/smashorpass/internal/models"
)

func TestParseOptions(t *testing.T) {
	tests := []struct {
		name     string
		role     string
		gender   string
		minAge   string
		maxAge   string
		expected QueryOptions
		wantErr  bool
	}{
		{name: "Defaults", expected: QueryOptions{Role: RoleAll}},
		{name: "Lowercase role", role: "main", gender: "Female", expected: QueryOptions{Role: RoleMain, Gender: "Female"}},
		{name: "Ages", role: "SUPPORTING", minAge: "18", maxAge: " 30 ", expected: QueryOptions{Role: RoleSupporting, MinAge: 18, MaxAge: 30}},
		{name: "Unknown role", role: "VILLAIN", wantErr: true},
		{name: "Bad min age", minAge: "old", wantErr: true},
		{name: "Negative max age", maxAge: "-1", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts, err := ParseOptions(tt.role, tt.gender, tt.minAge, tt.maxAge)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, opts)
		})
	}
}

func TestQueryOptions_Match(t *testing.T) {
	tests := []struct {
		name     string
		opts     QueryOptions
		char     models.Character
		expected bool
	}{
		{"No filters", QueryOptions{}, models.Character{}, true},
		{"Gender match", QueryOptions{Gender: "Female"}, models.Character{Gender: "Female"}, true},
		{"Gender case insensitive", QueryOptions{Gender: "female"}, models.Character{Gender: "Female"}, true},
		{"Gender mismatch", QueryOptions{Gender: "Female"}, models.Character{Gender: "Male"}, false},
		{"Min age without age", QueryOptions{MinAge: 18}, models.Character{}, false},
		{"Min age below", QueryOptions{MinAge: 18}, models.Character{Age: "17"}, false},
		{"Min age equal", QueryOptions{MinAge: 18}, models.Character{Age: "18"}, true},
		{"Max age above", QueryOptions{MaxAge: 16}, models.Character{Age: "17"}, false},
		{"Range first appearance", QueryOptions{MinAge: 16, MaxAge: 16}, models.Character{Age: "16-17"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.opts.Match(tt.char))
		})
	}
}

func TestBuildCandidates(t *testing.T) {
	var resp struct {
		Data CollectionData `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(collectionResponse), &resp))

	tests := []struct {
		name     string
		opts     QueryOptions
		expected []int
	}{
		{name: "All", opts: QueryOptions{}, expected: []int{36828, 36765, 90000}},
		{name: "Female", opts: QueryOptions{Gender: "Female"}, expected: []int{36828, 90000}},
		{name: "Adults only", opts: QueryOptions{MinAge: 17}, expected: []int{36828}},
		{name: "Young", opts: QueryOptions{MaxAge: 16}, expected: []int{36765, 90000}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			candidates := BuildCandidates(resp.Data, tt.opts)
			ids := make([]int, 0, len(candidates))
			for _, c := range candidates {
				ids = append(ids, c.Character.ID)
			}
			assert.Equal(t, tt.expected, ids)
		})
	}
}

func TestBuildCandidates_FirstOccurrenceWins(t *testing.T) {
	var resp struct {
		Data CollectionData `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(collectionResponse), &resp))

	candidates := BuildCandidates(resp.Data, QueryOptions{})
	require.NotEmpty(t, candidates)
	assert.Equal(t, "17", candidates[0].Character.Age)
	assert.Equal(t, "Completed", candidates[0].ListName)
}
