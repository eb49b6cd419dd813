package api

import (
	"time"

	"github.com/okian/levelboard/internal/domain/aggregate"
	"github.com/okian/levelboard/internal/domain/catalog"
	"github.com/okian/levelboard/internal/domain/model"
	"github.com/okian/levelboard/internal/domain/ranking"
)

type levelView struct {
	ID            string         `json:"id"`
	Name          string         `json:"name"`
	Creator       string         `json:"creator"`
	Category      string         `json:"category"`
	Schema        string         `json:"schema,omitempty"`
	Ratings       map[string]any `json:"ratings"`
	TotalRating   float64        `json:"total_rating"`
	AverageRating float64        `json:"average_rating"`
	Tier          *string        `json:"tier"`
	CreatorPoints float64        `json:"creator_points"`
	Created       *time.Time     `json:"created,omitempty"`
	Thumbnail     string         `json:"thumbnail,omitempty"`
	Link          string         `json:"link,omitempty"`
}

func newLevelView(it catalog.Item) levelView {
	v := levelView{
		ID:            it.Level.ID,
		Name:          it.Level.Name,
		Creator:       it.Level.Creator,
		Category:      string(it.Level.Category),
		Schema:        it.Level.Schema,
		Ratings:       it.Level.Ratings,
		TotalRating:   it.Total,
		AverageRating: it.Average,
		CreatorPoints: it.Points,
		Thumbnail:     it.Level.Thumbnail,
		Link:          it.Level.Link,
	}
	if it.Tier.Ranked() {
		tier := string(it.Tier)
		v.Tier = &tier
	}
	if !it.Level.Created.IsZero() {
		created := it.Level.Created
		v.Created = &created
	}
	return v
}

func newLevelViews(items []catalog.Item) []levelView {
	out := make([]levelView, 0, len(items))
	for _, it := range items {
		out = append(out, newLevelView(it))
	}
	return out
}

type creatorView struct {
	Name          string          `json:"name"`
	Avatar        string          `json:"avatar"`
	Banner        string          `json:"banner"`
	SpeedrunCount int             `json:"speedrun_count"`
	HardCount     int             `json:"hard_count"`
	TotalLevels   int             `json:"total_levels"`
	TotalPoints   float64         `json:"total_points"`
	Positions     map[string]*int `json:"positions"`
}

// newCreatorView lists every criterion; null means unranked under it.
func newCreatorView(stats model.CreatorStats, profile model.Profile) creatorView {
	positions := make(map[string]*int, len(model.Criteria()))
	for _, c := range model.Criteria() {
		if p, ok := stats.Position(c); ok {
			positions[string(c)] = &p
		} else {
			positions[string(c)] = nil
		}
	}
	return creatorView{
		Name:          stats.Name,
		Avatar:        profile.Avatar,
		Banner:        profile.Banner,
		SpeedrunCount: stats.SpeedrunCount,
		HardCount:     stats.HardCount,
		TotalLevels:   stats.TotalLevels,
		TotalPoints:   stats.TotalPoints,
		Positions:     positions,
	}
}

type entryView struct {
	Position int     `json:"position"`
	Creator  string  `json:"creator"`
	Value    float64 `json:"value"`
}

func newEntryViews(entries []ranking.Entry) []entryView {
	out := make([]entryView, 0, len(entries))
	for _, e := range entries {
		out = append(out, entryView(e))
	}
	return out
}

type diagnosticView struct {
	Severity string `json:"severity"`
	Reason   string `json:"reason"`
	Category string `json:"category"`
	Index    int    `json:"index"`
	LevelID  string `json:"level_id,omitempty"`
	Creator  string `json:"creator,omitempty"`
	Message  string `json:"message"`
}

func newDiagnosticViews(diags []aggregate.Diagnostic) []diagnosticView {
	out := make([]diagnosticView, 0, len(diags))
	for _, d := range diags {
		msg := ""
		if d.Err != nil {
			msg = d.Err.Error()
		}
		out = append(out, diagnosticView{
			Severity: string(d.Severity),
			Reason:   d.Reason,
			Category: string(d.Category),
			Index:    d.Index,
			LevelID:  d.LevelID,
			Creator:  d.Creator,
			Message:  msg,
		})
	}
	return out
}
