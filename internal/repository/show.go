package repository

import (
	"fmt"

	"github.com/user/showsense/internal/model"
	"golang.org/x/sync/errgroup"
)

// 目录列表的排序白名单，防止 sortBy 参数注入
var sortColumns = map[string]bool{
	"title":             true,
	"stimulation_score": true,
}

// ListOptions 目录查询条件，所有过滤项可选且按 AND 组合
type ListOptions struct {
	Search        string   // 标题子串（大小写不敏感）
	Themes        []string // 主题名列表，命中任意一个即匹配（OR）
	MinAge        *int     // 年龄区间重叠过滤，两端都给出时才生效
	MaxAge        *int
	StimScoreMin  *int // 刺激评分闭区间
	StimScoreMax  *int
	Interactivity string // 精确匹配（大小写不敏感）
	Dialogue      string
	SceneFreq     string
	SortBy        string
	SortOrder     string // asc / desc
	Limit         int
	Offset        int
}

type ShowRepository struct {
	repos *Repositories
}

func NewShowRepository(repos *Repositories) *ShowRepository {
	return &ShowRepository{repos: repos}
}

// buildListQueries 根据过滤条件拼出分页查询和计数查询
// 主题过滤需要 JOIN，一个节目命中多个主题会翻倍，所以两条查询都按 s.id 去重。
func buildListQueries(opts ListOptions) (query string, queryArgs []interface{}, countQuery string, countArgs []interface{}) {
	selectBase := `SELECT DISTINCT s.id, s.title, s.stimulation_score, s.target_age_group, s.image_filename, s.interactivity_level FROM shows s`
	countBase := `SELECT COUNT(DISTINCT s.id) FROM shows s`

	joins := ""
	if len(opts.Themes) > 0 {
		joins = ` JOIN show_themes st ON s.id = st.show_id JOIN themes t ON st.theme_id = t.id`
	}

	b := &whereBuilder{}

	if len(opts.Themes) > 0 {
		b.Add(fmt.Sprintf(`t.name IN (%s) COLLATE NOCASE`, placeholders(len(opts.Themes))), toAnySlice(opts.Themes)...)
	}
	if opts.Search != "" {
		b.Add(`s.title LIKE ? COLLATE NOCASE`, "%"+opts.Search+"%")
	}
	// 年龄区间重叠；min/max 为空的节目视为“不限”，始终包含
	if opts.MinAge != nil && opts.MaxAge != nil {
		b.Add(`((s.max_age >= ? AND s.min_age <= ?) OR s.min_age IS NULL OR s.max_age IS NULL)`,
			*opts.MinAge, *opts.MaxAge)
	}
	if opts.StimScoreMin != nil {
		b.Add(`s.stimulation_score >= ?`, *opts.StimScoreMin)
	}
	if opts.StimScoreMax != nil {
		b.Add(`s.stimulation_score <= ?`, *opts.StimScoreMax)
	}
	if opts.Interactivity != "" {
		b.Add(`s.interactivity_level = ? COLLATE NOCASE`, opts.Interactivity)
	}
	if opts.Dialogue != "" {
		b.Add(`s.dialogue_intensity = ? COLLATE NOCASE`, opts.Dialogue)
	}
	if opts.SceneFreq != "" {
		b.Add(`s.scene_frequency = ? COLLATE NOCASE`, opts.SceneFreq)
	}

	where, args := b.Render()

	sortColumn := opts.SortBy
	if !sortColumns[sortColumn] {
		sortColumn = "title"
	}
	order := "ASC"
	if opts.SortOrder == "desc" {
		order = "DESC"
	}

	query = selectBase + joins + where +
		fmt.Sprintf(` ORDER BY s.%s %s, s.title ASC LIMIT ? OFFSET ?`, sortColumn, order)
	queryArgs = append(queryArgs, args...)
	queryArgs = append(queryArgs, opts.Limit, opts.Offset)

	// 计数查询条件完全一致，但不带排序和分页
	countQuery = countBase + joins + where
	countArgs = args

	return query, queryArgs, countQuery, countArgs
}

// List 按过滤条件查询目录页和总数，两条查询并发执行
func (r *ShowRepository) List(opts ListOptions) ([]model.ShowSummary, int, error) {
	query, queryArgs, countQuery, countArgs := buildListQueries(opts)

	var (
		shows []model.ShowSummary
		total int
		g     errgroup.Group
	)

	g.Go(func() error {
		if err := r.repos.DB().Raw(query, queryArgs...).Scan(&shows).Error; err != nil {
			return fmt.Errorf("查询节目列表失败: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		if err := r.repos.DB().Raw(countQuery, countArgs...).Scan(&total).Error; err != nil {
			return fmt.Errorf("查询节目总数失败: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, 0, err
	}
	if shows == nil {
		shows = []model.ShowSummary{}
	}
	return shows, total, nil
}

// GetByID 按 ID 查找节目，未找到返回 (nil, nil)
func (r *ShowRepository) GetByID(id int) (*model.Show, error) {
	var shows []model.Show
	if err := r.repos.DB().Raw(`SELECT * FROM shows WHERE id = ?`, id).Scan(&shows).Error; err != nil {
		return nil, fmt.Errorf("按 ID 查询节目失败: %w", err)
	}
	if len(shows) == 0 {
		return nil, nil
	}
	return &shows[0], nil
}

// GetByTitle 按标题精确查找（大小写不敏感），未找到返回 (nil, nil)
func (r *ShowRepository) GetByTitle(title string) (*model.Show, error) {
	var shows []model.Show
	if err := r.repos.DB().Raw(`SELECT * FROM shows WHERE title = ? COLLATE NOCASE`, title).Scan(&shows).Error; err != nil {
		return nil, fmt.Errorf("按标题查询节目失败: %w", err)
	}
	if len(shows) == 0 {
		return nil, nil
	}
	return &shows[0], nil
}

// ListByIDs 批量按 ID 查询，输出保持调用方给定的 ID 顺序，缺失的 ID 静默丢弃
func (r *ShowRepository) ListByIDs(ids []int) ([]model.Show, error) {
	if len(ids) == 0 {
		return []model.Show{}, nil
	}

	var shows []model.Show
	sql := fmt.Sprintf(`SELECT * FROM shows WHERE id IN (%s)`, placeholders(len(ids)))
	if err := r.repos.DB().Raw(sql, toAnyInts(ids)...).Scan(&shows).Error; err != nil {
		return nil, fmt.Errorf("批量查询节目失败: %w", err)
	}

	byID := make(map[int]model.Show, len(shows))
	for _, s := range shows {
		byID[s.ID] = s
	}
	ordered := make([]model.Show, 0, len(ids))
	for _, id := range ids {
		if s, ok := byID[id]; ok {
			ordered = append(ordered, s)
		}
	}
	return ordered, nil
}

// Suggestions 标题前缀联想，结果去重按标题排序
func (r *ShowRepository) Suggestions(term string, limit int) ([]string, error) {
	var titles []string
	err := r.repos.DB().Raw(
		`SELECT DISTINCT title FROM shows WHERE title LIKE ? COLLATE NOCASE ORDER BY title LIMIT ?`,
		term+"%", limit,
	).Scan(&titles).Error
	if err != nil {
		return nil, fmt.Errorf("查询联想词失败: %w", err)
	}
	if titles == nil {
		titles = []string{}
	}
	return titles, nil
}

// ListItems 轻量 id+标题 列表（选择器用）
func (r *ShowRepository) ListItems() ([]model.ShowListItem, error) {
	var items []model.ShowListItem
	if err := r.repos.DB().Raw(`SELECT id, title FROM shows ORDER BY title COLLATE NOCASE`).Scan(&items).Error; err != nil {
		return nil, fmt.Errorf("查询节目清单失败: %w", err)
	}
	if items == nil {
		items = []model.ShowListItem{}
	}
	return items, nil
}

const summaryColumns = `id, title, stimulation_score, target_age_group, image_filename, interactivity_level`

// FeaturedShow 随机取一条作为首页推荐位
func (r *ShowRepository) FeaturedShow() (*model.ShowSummary, error) {
	var shows []model.ShowSummary
	sql := `SELECT ` + summaryColumns + `, animation_style FROM shows ORDER BY RANDOM() LIMIT 1`
	if err := r.repos.DB().Raw(sql).Scan(&shows).Error; err != nil {
		return nil, fmt.Errorf("查询推荐节目失败: %w", err)
	}
	if len(shows) == 0 {
		return nil, nil
	}
	return &shows[0], nil
}

// PopularShows 按刺激评分降序取前 N
func (r *ShowRepository) PopularShows(limit int) ([]model.ShowSummary, error) {
	return r.summaries(`SELECT `+summaryColumns+` FROM shows ORDER BY stimulation_score DESC, title LIMIT ?`, limit)
}

// TopRatedShows 评分为 5 的节目
func (r *ShowRepository) TopRatedShows(limit int) ([]model.ShowSummary, error) {
	return r.summaries(`SELECT `+summaryColumns+` FROM shows WHERE stimulation_score = 5 ORDER BY title LIMIT ?`, limit)
}

// LowStimShows 低刺激（评分 <= 2）节目
func (r *ShowRepository) LowStimShows(limit int) ([]model.ShowSummary, error) {
	return r.summaries(`SELECT `+summaryColumns+` FROM shows WHERE stimulation_score <= 2 ORDER BY stimulation_score ASC, title LIMIT ?`, limit)
}

// HighInteractionShows 高互动性节目
func (r *ShowRepository) HighInteractionShows(limit int) ([]model.ShowSummary, error) {
	return r.summaries(`SELECT `+summaryColumns+` FROM shows WHERE interactivity_level = 'High' COLLATE NOCASE ORDER BY title LIMIT ?`, limit)
}

func (r *ShowRepository) summaries(sql string, args ...interface{}) ([]model.ShowSummary, error) {
	var shows []model.ShowSummary
	if err := r.repos.DB().Raw(sql, args...).Scan(&shows).Error; err != nil {
		return nil, fmt.Errorf("查询节目摘要失败: %w", err)
	}
	if shows == nil {
		shows = []model.ShowSummary{}
	}
	return shows, nil
}

func toAnySlice(ss []string) []interface{} {
	out := make([]interface{}, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}

func toAnyInts(ns []int) []interface{} {
	out := make([]interface{}, len(ns))
	for i, n := range ns {
		out[i] = n
	}
	return out
}
