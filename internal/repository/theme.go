package repository

import (
	"fmt"

	"github.com/user/showsense/internal/model"
)

type ThemeRepository struct {
	repos *Repositories
}

func NewThemeRepository(repos *Repositories) *ThemeRepository {
	return &ThemeRepository{repos: repos}
}

// AllNames 返回全部主题名，按名称排序（大小写不敏感）
func (r *ThemeRepository) AllNames() ([]string, error) {
	var names []string
	if err := r.repos.DB().Raw(`SELECT name FROM themes ORDER BY name COLLATE NOCASE`).Scan(&names).Error; err != nil {
		return nil, fmt.Errorf("查询主题列表失败: %w", err)
	}
	if names == nil {
		names = []string{}
	}
	return names, nil
}

type showThemeRow struct {
	ShowID int    `db:"show_id"`
	Name   string `db:"name"`
}

// ThemesForShows 批量取一组节目的主题名，避免逐条查询（N+1）
// 入参先去重并剔除非正数 ID；空入参直接返回空 map，不发查询。
func (r *ThemeRepository) ThemesForShows(showIDs []int) (map[int][]string, error) {
	themesByShow := make(map[int][]string)
	if len(showIDs) == 0 {
		return themesByShow, nil
	}

	seen := make(map[int]bool, len(showIDs))
	uniqueIDs := make([]int, 0, len(showIDs))
	for _, id := range showIDs {
		if id > 0 && !seen[id] {
			seen[id] = true
			uniqueIDs = append(uniqueIDs, id)
		}
	}
	if len(uniqueIDs) == 0 {
		return themesByShow, nil
	}

	// 组内按主题名排序，保证展示顺序稳定
	sql := fmt.Sprintf(`
		SELECT st.show_id, t.name
		FROM show_themes st
		JOIN themes t ON st.theme_id = t.id
		WHERE st.show_id IN (%s)
		ORDER BY st.show_id, t.name COLLATE NOCASE`, placeholders(len(uniqueIDs)))

	var rows []showThemeRow
	if err := r.repos.DB().Raw(sql, toAnyInts(uniqueIDs)...).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("查询节目主题失败: %w", err)
	}

	for _, row := range rows {
		themesByShow[row.ShowID] = append(themesByShow[row.ShowID], row.Name)
	}
	return themesByShow, nil
}

// AttachToSummaries 把主题名合并到列表行上，缺失的节目置为空数组而不是 nil
func AttachToSummaries(shows []model.ShowSummary, themesMap map[int][]string) []model.ShowSummary {
	out := make([]model.ShowSummary, len(shows))
	for i, s := range shows {
		s.Themes = themesMap[s.ID]
		if s.Themes == nil {
			s.Themes = []string{}
		}
		out[i] = s
	}
	return out
}

// AttachToShows 把主题名合并到完整节目对象上
func AttachToShows(shows []model.Show, themesMap map[int][]string) []model.Show {
	out := make([]model.Show, len(shows))
	for i, s := range shows {
		s.Themes = themesMap[s.ID]
		if s.Themes == nil {
			s.Themes = []string{}
		}
		out[i] = s
	}
	return out
}
