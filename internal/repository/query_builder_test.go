package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWhereBuilderEmpty(t *testing.T) {
	b := &whereBuilder{}
	assert.True(t, b.Empty())

	where, args := b.Render()
	assert.Equal(t, "", where)
	assert.Nil(t, args)
}

func TestWhereBuilderRender(t *testing.T) {
	b := &whereBuilder{}
	b.Add(`s.title LIKE ? COLLATE NOCASE`, "%cat%")
	b.Add(`s.stimulation_score >= ?`, 2)

	where, args := b.Render()
	assert.Equal(t, ` WHERE s.title LIKE ? COLLATE NOCASE AND s.stimulation_score >= ?`, where)
	assert.Equal(t, []interface{}{"%cat%", 2}, args)
}

func TestPlaceholders(t *testing.T) {
	assert.Equal(t, "", placeholders(0))
	assert.Equal(t, "?", placeholders(1))
	assert.Equal(t, "?,?,?", placeholders(3))
}

func TestBuildListQueriesNoFilters(t *testing.T) {
	query, queryArgs, countQuery, countArgs := buildListQueries(ListOptions{
		SortBy: "title", SortOrder: "asc", Limit: 21, Offset: 0,
	})

	assert.NotContains(t, query, "WHERE")
	assert.NotContains(t, query, "JOIN")
	assert.Contains(t, query, "ORDER BY s.title ASC, s.title ASC LIMIT ? OFFSET ?")
	assert.Equal(t, []interface{}{21, 0}, queryArgs)

	assert.NotContains(t, countQuery, "LIMIT")
	assert.NotContains(t, countQuery, "ORDER BY")
	assert.Empty(t, countArgs)
}

func TestBuildListQueriesThemeJoin(t *testing.T) {
	query, queryArgs, countQuery, countArgs := buildListQueries(ListOptions{
		Themes: []string{"Adventure", "STEM"},
		SortBy: "title", SortOrder: "asc", Limit: 10, Offset: 0,
	})

	// 主题过滤需要 JOIN，且两条查询都要带
	assert.Contains(t, query, "JOIN show_themes st")
	assert.Contains(t, countQuery, "JOIN show_themes st")
	assert.Contains(t, query, "t.name IN (?,?) COLLATE NOCASE")
	assert.Contains(t, query, "SELECT DISTINCT s.id")
	assert.Contains(t, countQuery, "COUNT(DISTINCT s.id)")

	assert.Equal(t, []interface{}{"Adventure", "STEM", 10, 0}, queryArgs)
	assert.Equal(t, []interface{}{"Adventure", "STEM"}, countArgs)
}

func TestBuildListQueriesCombinedFilters(t *testing.T) {
	minAge, maxAge := 3, 8
	scoreMin, scoreMax := 1, 4
	query, queryArgs, _, countArgs := buildListQueries(ListOptions{
		Search:        "dog",
		MinAge:        &minAge,
		MaxAge:        &maxAge,
		StimScoreMin:  &scoreMin,
		StimScoreMax:  &scoreMax,
		Interactivity: "High",
		SortBy:        "stimulation_score",
		SortOrder:     "desc",
		Limit:         21,
		Offset:        21,
	})

	assert.Contains(t, query, "s.title LIKE ? COLLATE NOCASE")
	// 年龄重叠过滤，min/max 为空的节目始终包含
	assert.Contains(t, query, "(s.max_age >= ? AND s.min_age <= ?) OR s.min_age IS NULL OR s.max_age IS NULL")
	assert.Contains(t, query, "s.stimulation_score >= ?")
	assert.Contains(t, query, "s.stimulation_score <= ?")
	assert.Contains(t, query, "s.interactivity_level = ? COLLATE NOCASE")
	assert.Contains(t, query, "ORDER BY s.stimulation_score DESC, s.title ASC")

	assert.Equal(t, []interface{}{"%dog%", 3, 8, 1, 4, "High", 21, 21}, queryArgs)
	assert.Equal(t, []interface{}{"%dog%", 3, 8, 1, 4, "High"}, countArgs)
}

func TestBuildListQueriesSortWhitelist(t *testing.T) {
	// 白名单外的排序列一律回退到 title，防注入
	query, _, _, _ := buildListQueries(ListOptions{
		SortBy: "id; DROP TABLE shows", SortOrder: "asc", Limit: 10,
	})
	assert.Contains(t, query, "ORDER BY s.title ASC")
	assert.NotContains(t, query, "DROP TABLE")

	// 非法排序方向回退到 ASC
	query, _, _, _ = buildListQueries(ListOptions{
		SortBy: "title", SortOrder: "sideways", Limit: 10,
	})
	assert.Contains(t, query, "ORDER BY s.title ASC")
}
