package service

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/user/showsense/internal/repository"
)

const importFixture = `[
	{
		"title": "Bluey",
		"stimulation_score": 2,
		"platform": "ABC Kids",
		"target_age_group": "3-8",
		"seasons": 3,
		"avg_episode_length": "7 min",
		"interactivity_level": "Low",
		"dialogue_intensity": "Moderate",
		"sound_effects_level": "Low",
		"total_music_level": "Moderate",
		"scene_frequency": "Low",
		"themes": ["Family", "Adventure"]
	},
	{
		"title": "Mystery Hour",
		"stimulation_score": 4,
		"target_age_group": "whenever",
		"dialogue_intensity": "Extreme",
		"themes": ["Mystery"]
	},
	{
		"title": "bluey",
		"stimulation_score": 3,
		"target_age_group": "2-5",
		"themes": ["Family", "Music"]
	}
]`

func runImport(t *testing.T, dir, fixture string) (*ImportSummary, string) {
	t.Helper()
	dbPath := filepath.Join(dir, "shows.db")
	jsonPath := filepath.Join(dir, "shows.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(fixture), 0o644))

	summary, err := NewImportService(dbPath, jsonPath).Run()
	require.NoError(t, err)
	return summary, dbPath
}

func TestImportEndToEnd(t *testing.T) {
	summary, dbPath := runImport(t, t.TempDir(), importFixture)

	// 重复标题（大小写不敏感）只落一行
	assert.Equal(t, 2, summary.ShowsInserted)
	assert.Equal(t, 1, summary.ShowsSkipped)
	assert.Equal(t, 4, summary.ThemesProcessed) // Family, Adventure, Mystery, Music
	assert.Equal(t, 0, summary.Errors)

	db, err := repository.InitDB(dbPath, repository.ModeReadOnly)
	require.NoError(t, err)
	repos := repository.NewRepositories(db, dbPath, repository.ModeReadOnly)
	defer repos.Close()

	var showCount int
	require.NoError(t, repos.DB().Raw(`SELECT COUNT(*) FROM shows`).Scan(&showCount).Error)
	assert.Equal(t, 2, showCount)

	// 解析成功的年龄段落库
	bluey, err := repos.Show.GetByTitle("Bluey")
	require.NoError(t, err)
	require.NotNil(t, bluey)
	require.NotNil(t, bluey.MinAge)
	assert.Equal(t, 3, *bluey.MinAge)
	assert.Equal(t, 8, *bluey.MaxAge)
	assert.Equal(t, "3", bluey.Seasons)

	// 归一化数值：Moderate 对话 -> 3；未知标签 "Extreme" -> NULL
	require.NotNil(t, bluey.DialogueIntensityNum)
	assert.Equal(t, 3, *bluey.DialogueIntensityNum)

	mystery, err := repos.Show.GetByTitle("Mystery Hour")
	require.NoError(t, err)
	require.NotNil(t, mystery)
	assert.Nil(t, mystery.MinAge, "无法解析的年龄段应落 NULL")
	assert.Nil(t, mystery.MaxAge)
	assert.Nil(t, mystery.DialogueIntensityNum)

	// 重复标题的主题挂到同一行上：Bluey 拿到 Family、Adventure、Music 的并集
	themesMap, err := repos.Theme.ThemesForShows([]int{bluey.ID})
	require.NoError(t, err)
	assert.Equal(t, []string{"Adventure", "Family", "Music"}, themesMap[bluey.ID])

	names, err := repos.Theme.AllNames()
	require.NoError(t, err)
	assert.Equal(t, []string{"Adventure", "Family", "Music", "Mystery"}, names)

	// 按主题过滤只返回携带该主题的节目
	shows, total, err := repos.Show.List(repository.ListOptions{Themes: []string{"Mystery"}, Limit: 21})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, shows, 1)
	assert.Equal(t, "Mystery Hour", shows[0].Title)
}

func TestImportDeterministicRebuild(t *testing.T) {
	dir := t.TempDir()
	first, _ := runImport(t, dir, importFixture)
	// 第二次导入先删库再重建，结果和第一次一致
	second, _ := runImport(t, dir, importFixture)

	assert.Equal(t, first.ShowsInserted, second.ShowsInserted)
	assert.Equal(t, first.ShowsSkipped, second.ShowsSkipped)
	assert.Equal(t, first.ThemesProcessed, second.ThemesProcessed)
	assert.Equal(t, first.LinksCreated, second.LinksCreated)
}

func TestImportSkipsInvalidRows(t *testing.T) {
	fixture := `[
		{"title": "Good Show", "stimulation_score": 3},
		{"title": "", "stimulation_score": 3},
		{"title": "Broken Score", "stimulation_score": 9},
		{"title": "No Score"},
		{"title": 42, "stimulation_score": 3}
	]`
	summary, dbPath := runImport(t, t.TempDir(), fixture)

	assert.Equal(t, 1, summary.ShowsInserted)
	assert.Equal(t, 4, summary.ShowsSkipped)

	db, err := repository.InitDB(dbPath, repository.ModeReadOnly)
	require.NoError(t, err)
	repos := repository.NewRepositories(db, dbPath, repository.ModeReadOnly)
	defer repos.Close()

	var count int
	require.NoError(t, repos.DB().Raw(`SELECT COUNT(*) FROM shows`).Scan(&count).Error)
	assert.Equal(t, 1, count)
}

func TestImportFatalOnMalformedJSON(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "shows.db")
	jsonPath := filepath.Join(dir, "shows.json")

	// 顶层不是数组：整体失败，库文件不应该建出来
	require.NoError(t, os.WriteFile(jsonPath, []byte(`{"title": "not an array"}`), 0o644))
	_, err := NewImportService(dbPath, jsonPath).Run()
	require.Error(t, err)
	_, statErr := os.Stat(dbPath)
	assert.True(t, os.IsNotExist(statErr))
}

func TestImportFatalOnMissingFile(t *testing.T) {
	dir := t.TempDir()
	_, err := NewImportService(filepath.Join(dir, "shows.db"), filepath.Join(dir, "nope.json")).Run()
	require.Error(t, err)
}
