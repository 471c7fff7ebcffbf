package catalog

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeQuestWithoutStages(t *testing.T) {
	tests := []struct {
		name      string
		quest     *Quest
		wantName  string
		wantLabel string
	}{
		{
			name:      "objective and trader",
			quest:     &Quest{ID: "clearer-skies", Objective: "Destroy 3 ARC Wasps", Trader: "Celeste", Reward: "3x Bandage"},
			wantName:  "Destroy 3 ARC Wasps",
			wantLabel: "Trader: Celeste",
		},
		{
			name:      "description fallback",
			quest:     &Quest{ID: "a-bad-feeling", Description: "Look into it."},
			wantName:  "Look into it.",
			wantLabel: "Quest",
		},
		{
			name:      "bare quest",
			quest:     &Quest{ID: "bare"},
			wantName:  "Objective",
			wantLabel: "Quest",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stages := Normalize(tt.quest)
			require.Len(t, stages, 1)
			assert.Equal(t, tt.quest.ID+"-objective", stages[0].ID)
			assert.Equal(t, tt.wantName, stages[0].Name)
			assert.Equal(t, tt.wantLabel, stages[0].StageLabel)
			assert.Equal(t, tt.quest.Reward, stages[0].Reward)
			assert.NotNil(t, stages[0].Requirements)
			assert.Empty(t, stages[0].Requirements)
		})
	}
}

func TestNormalizeAuthoredStages(t *testing.T) {
	stages := []Stage{{ID: "gather", Name: "Gather", Requirements: []Requirement{{ItemID: "wires", Quantity: 6}}}}

	assert.Equal(t, stages, Normalize(&Quest{ID: "q", Objective: "ignored", Stages: stages}))
	assert.Equal(t, stages, Normalize(&Project{ID: "p", Stages: stages}))
	assert.Empty(t, Normalize(&Project{ID: "empty"}))
}

func TestNormalizeWorkbench(t *testing.T) {
	w := &WorkbenchUpgrade{
		ID:           "scrappy-l2-0",
		Name:         "Scrappy Level 2",
		Level:        2,
		Requirements: []Requirement{{ItemID: "dog-collar", Quantity: 1}},
		Benefit:      "Crafts: Scrappy Level 2",
	}

	assert.Equal(t, []Stage{{
		ID:           "level-2",
		Name:         "Scrappy Level 2",
		Requirements: w.Requirements,
		Reward:       "Crafts: Scrappy Level 2",
		StageLabel:   "Level 2",
	}}, Normalize(w))
}

func TestSubtitleAndBadge(t *testing.T) {
	q := &Quest{Trader: "Shani", RequiredLocation: "Any", Reward: "Ferro I"}
	assert.Equal(t, "Trader: Shani • Location: Any", Subtitle(q))
	assert.Equal(t, "Reward", Badge(q))
	assert.Equal(t, "Quest chain", Subtitle(&Quest{}))
	assert.Equal(t, "", Badge(&Quest{}))

	assert.Equal(t, "Project build", Subtitle(&Project{}))
	assert.Equal(t, "Expedition departure", Subtitle(&Project{Unlocks: "Expedition departure"}))

	w := &WorkbenchUpgrade{Level: 3, Benefit: "Crafts: Bandage"}
	assert.Equal(t, "Benefit: Crafts: Bandage", Subtitle(w))
	assert.Equal(t, "Lv 3", Badge(w))
}

func TestMatches(t *testing.T) {
	c := defaultCatalog(t)
	gunsmith, err := c.Entity(CategoryWorkbench, "gunsmith-l2-2")
	require.NoError(t, err)
	quest, err := c.Entity(CategoryQuest, "clearer-skies")
	require.NoError(t, err)

	assert.True(t, Matches(gunsmith, "", c.ItemIndex()))
	assert.True(t, Matches(gunsmith, "GUNSMITH", c.ItemIndex()))
	assert.True(t, Matches(gunsmith, "arc alloy", c.ItemIndex()), "required item names match")
	assert.False(t, Matches(gunsmith, "lemon", c.ItemIndex()))

	assert.True(t, Matches(quest, "celeste", c.ItemIndex()), "trader matches")
	assert.True(t, Matches(quest, "buried city", c.ItemIndex()), "location matches")
	assert.True(t, Matches(quest, "wasps", c.ItemIndex()), "objective matches")
}

func TestProgressKey(t *testing.T) {
	w := &WorkbenchUpgrade{ID: "scrappy-l2-0", Level: 2}
	key := NewProgressKey(w, "level-2", "dog-collar")
	assert.Equal(t, "workbench|scrappy-l2-0|level-2|dog-collar", key.String())

	parsed, err := ParseProgressKey(key.String())
	require.NoError(t, err)
	assert.Equal(t, key, parsed)

	for _, bad := range []string{"", "a|b|c", "a|b|c|d|e", "a||c|d"} {
		_, err := ParseProgressKey(bad)
		assert.Error(t, err, bad)
	}

	assert.True(t, ProgressKey{}.IsZero())
	assert.Equal(t, "", ProgressKey{}.String())
}

func TestProgressKeyAsMapKey(t *testing.T) {
	key := ProgressKey{Category: CategoryQuest, EntityID: "q", StageID: "s", ItemID: "i"}
	data, err := json.Marshal(map[ProgressKey]int{key: 3})
	require.NoError(t, err)
	assert.JSONEq(t, `{"quest|q|s|i": 3}`, string(data))

	var back map[ProgressKey]int
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, 3, back[key])
}
