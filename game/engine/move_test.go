package engine

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAction(t *testing.T) {
	tests := []struct {
		input string
		want  Action
		err   bool
	}{
		{"draw", ActionDraw, false},
		{"DRAW", ActionDraw, false},
		{" waste-to-tableau ", ActionWasteToTableau, false},
		{"tableau_run", ActionTableauRun, false},
		{"Tableau-To-Foundation", ActionTableauToFoundation, false},
		{"waste_to_foundation", ActionWasteToFoundation, false},
		{"discard-waste", ActionDiscardWaste, false},
		{"shuffle", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseAction(tt.input)
			if tt.err {
				assert.ErrorIs(t, err, ErrInvalidMove)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMove_UnmarshalJSON(t *testing.T) {
	var m Move
	require.NoError(t, json.Unmarshal([]byte(`{"action":"tableau-run","source":2,"from":1,"target":5}`), &m))
	assert.Equal(t, Move{Action: ActionTableauRun, Source: 2, From: 1, Target: 5}, m)

	assert.Error(t, json.Unmarshal([]byte(`{"action":"fly"}`), &m))

	require.NoError(t, json.Unmarshal([]byte(`{"action":"draw"}`), &m))
	assert.Equal(t, Move{Action: ActionDraw}, m)
}

func TestMove_UnmarshalJSON_MissingIndex(t *testing.T) {
	tests := []struct {
		body    string
		missing string
	}{
		{`{"action":"waste_to_tableau"}`, "target"},
		{`{"action":"waste_to_foundation","source":1}`, "target"},
		{`{"action":"tableau_run","source":0,"target":3}`, "from"},
		{`{"action":"tableau_to_foundation","target":0}`, "source"},
		{`{"action":"tableau_to_foundation","source":null,"target":0}`, "source"},
	}

	for _, tt := range tests {
		t.Run(tt.body, func(t *testing.T) {
			var m Move
			err := json.Unmarshal([]byte(tt.body), &m)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidMove)
			assert.Contains(t, err.Error(), tt.missing)
		})
	}
}

func TestMove_Validate(t *testing.T) {
	tests := []struct {
		name string
		move Move
		ok   bool
	}{
		{"draw ignores indices", Move{Action: ActionDraw, Source: 99, Target: -4}, true},
		{"discard ignores indices", Move{Action: ActionDiscardWaste, Target: 42}, true},
		{"waste to tableau", Move{Action: ActionWasteToTableau, Target: 6}, true},
		{"waste to tableau out of range", Move{Action: ActionWasteToTableau, Target: 7}, false},
		{"run", Move{Action: ActionTableauRun, Source: 0, From: 3, Target: 6}, true},
		{"run bad source", Move{Action: ActionTableauRun, Source: -1, Target: 2}, false},
		{"run bad target", Move{Action: ActionTableauRun, Source: 1, Target: 9}, false},
		{"run negative start", Move{Action: ActionTableauRun, Source: 1, From: -1, Target: 2}, false},
		{"tableau to foundation", Move{Action: ActionTableauToFoundation, Source: 6, Target: 3}, true},
		{"tableau to foundation bad foundation", Move{Action: ActionTableauToFoundation, Source: 6, Target: 4}, false},
		{"waste to foundation bad foundation", Move{Action: ActionWasteToFoundation, Target: -1}, false},
		{"mixed case action", Move{Action: "Waste_To_Foundation", Target: 0}, true},
		{"unknown action", Move{Action: "undo"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.move.Validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrInvalidMove)
			}
		})
	}
}

func TestMove_String(t *testing.T) {
	assert.Equal(t, "draw", Move{Action: ActionDraw}.String())
	assert.Equal(t, "tableau 1[2:] -> tableau 3", Move{Action: ActionTableauRun, Source: 1, From: 2, Target: 3}.String())
	assert.Equal(t, "waste -> foundation 0", Move{Action: ActionWasteToFoundation}.String())
}

func TestApply(t *testing.T) {
	eng := engineWith(t, table{
		stock:   []string{"KD"},
		waste:   []string{"AS"},
		tableau: [TableauPiles][]string{{"5H"}, {"[7C]", "4S"}},
	})

	assert.True(t, eng.Apply(Move{Action: ActionWasteToFoundation, Target: 1}))
	assert.True(t, eng.Apply(Move{Action: ActionTableauRun, Source: 1, From: 1, Target: 0}))
	assert.False(t, eng.Apply(Move{Action: ActionWasteToTableau, Target: 2}), "empty waste")
	assert.True(t, eng.Apply(Move{Action: "DRAW"}))
	assert.True(t, eng.Apply(Move{Action: ActionWasteToTableau, Target: 2}), "king onto an empty pile")
	assert.False(t, eng.Apply(Move{Action: ActionTableauRun, Source: 9}), "malformed")

	pile, _ := eng.Tableau(0)
	assert.Equal(t, []string{"5H", "4S"}, names(pile))
	pile, _ = eng.Tableau(1)
	assert.Equal(t, []string{"7C"}, names(pile))
	pile, _ = eng.Tableau(2)
	assert.Equal(t, []string{"KD"}, names(pile))
}

func TestApply_DrawWithNothingLeft(t *testing.T) {
	eng := engineWith(t, table{})

	assert.False(t, eng.Apply(Move{Action: ActionDraw}))
	assert.True(t, eng.Apply(Move{Action: ActionDiscardWaste}), "discarding an empty waste is allowed")
}

func TestApply_Sequence(t *testing.T) {
	eng := engineWith(t, table{
		waste:   []string{"2H", "AH"},
		tableau: [TableauPiles][]string{{"3C"}},
	})

	var results []bool
	for _, m := range []Move{
		{Action: ActionWasteToFoundation, Target: 0},
		{Action: ActionWasteToFoundation, Target: 1},
		{Action: ActionWasteToTableau, Target: 0},
	} {
		results = append(results, eng.Apply(m))
	}
	assert.Equal(t, []bool{true, false, true}, results)

	pile, _ := eng.Tableau(0)
	assert.Equal(t, []string{"3C", "2H"}, names(pile))
}
