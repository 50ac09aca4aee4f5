package service

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/user/showsense/internal/model"
	"github.com/user/showsense/internal/repository"
	"github.com/user/showsense/internal/utils"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

const (
	maxPageSize          = 100
	suggestionLimit      = 10
	homepageSectionLimit = 5
	homepageCacheKey     = "homepage-data"
	homepageCacheTTL     = 5 * time.Minute
)

// ListRequest 目录查询的原始参数（未清洗的字符串，来自 URL query）
type ListRequest struct {
	Search        string
	Themes        string // 逗号分隔
	MinAge        string
	MaxAge        string
	StimScoreMin  string
	StimScoreMax  string
	Interactivity string
	Dialogue      string
	SceneFreq     string
	SortBy        string
	SortOrder     string
	Page          string
	Limit         string
}

// CatalogService 目录查询服务：参数清洗、分页计算、主题合并、读缓存
type CatalogService struct {
	repos           *repository.Repositories
	defaultPageSize int
	suggestCache    *utils.TTLCache[[]string]
	sf              singleflight.Group
}

// NewCatalogService 创建目录服务
func NewCatalogService(repos *repository.Repositories, defaultPageSize int) *CatalogService {
	if defaultPageSize < 1 {
		defaultPageSize = 21
	}
	return &CatalogService{
		repos:           repos,
		defaultPageSize: defaultPageSize,
		suggestCache:    utils.NewTTLCache[[]string](500, 10*time.Minute),
	}
}

// ListShows 目录列表：过滤 + 排序 + 分页，外加当前页的主题合并
// 非法参数一律钳制或忽略，永远返回一个合法（可能为空）的页，不报参数错。
func (s *CatalogService) ListShows(req ListRequest) (*model.ShowListResult, error) {
	page := parsePositiveInt(req.Page, 1)
	limit := parsePositiveInt(req.Limit, s.defaultPageSize)
	if limit > maxPageSize {
		limit = maxPageSize
	}

	opts := repository.ListOptions{
		Search:        strings.TrimSpace(req.Search),
		Themes:        splitCSV(req.Themes),
		Interactivity: strings.TrimSpace(req.Interactivity),
		Dialogue:      strings.TrimSpace(req.Dialogue),
		SceneFreq:     strings.TrimSpace(req.SceneFreq),
		SortBy:        strings.ToLower(strings.TrimSpace(req.SortBy)),
		SortOrder:     strings.ToLower(strings.TrimSpace(req.SortOrder)),
		Limit:         limit,
		Offset:        (page - 1) * limit,
	}

	// 年龄过滤只有两端都是合法数字时才生效
	if minAge, err1 := strconv.Atoi(strings.TrimSpace(req.MinAge)); err1 == nil {
		if maxAge, err2 := strconv.Atoi(strings.TrimSpace(req.MaxAge)); err2 == nil {
			opts.MinAge = &minAge
			opts.MaxAge = &maxAge
		}
	}
	if v, err := strconv.Atoi(strings.TrimSpace(req.StimScoreMin)); err == nil {
		opts.StimScoreMin = &v
	}
	if v, err := strconv.Atoi(strings.TrimSpace(req.StimScoreMax)); err == nil {
		opts.StimScoreMax = &v
	}

	shows, total, err := s.repos.Show.List(opts)
	if err != nil {
		return nil, err
	}

	// 只为当前页的节目批量取主题
	ids := make([]int, len(shows))
	for i, show := range shows {
		ids[i] = show.ID
	}
	themesMap, err := s.repos.Theme.ThemesForShows(ids)
	if err != nil {
		return nil, err
	}

	totalPages := (total + limit - 1) / limit

	return &model.ShowListResult{
		Shows:       repository.AttachToSummaries(shows, themesMap),
		TotalShows:  total,
		TotalPages:  totalPages,
		CurrentPage: page,
		Limit:       limit,
	}, nil
}

// GetShowByID 详情查询，未找到返回 (nil, nil)
func (s *CatalogService) GetShowByID(id int) (*model.Show, error) {
	show, err := s.repos.Show.GetByID(id)
	if err != nil || show == nil {
		return nil, err
	}
	return s.attachThemes(show)
}

// GetShowByTitle 按标题精确查询（大小写不敏感），未找到返回 (nil, nil)
func (s *CatalogService) GetShowByTitle(title string) (*model.Show, error) {
	show, err := s.repos.Show.GetByTitle(title)
	if err != nil || show == nil {
		return nil, err
	}
	return s.attachThemes(show)
}

func (s *CatalogService) attachThemes(show *model.Show) (*model.Show, error) {
	themesMap, err := s.repos.Theme.ThemesForShows([]int{show.ID})
	if err != nil {
		return nil, err
	}
	attached := repository.AttachToShows([]model.Show{*show}, themesMap)
	return &attached[0], nil
}

// CompareShows 对比查询：保持调用方的 ID 顺序，查不到的 ID 静默丢弃
func (s *CatalogService) CompareShows(ids []int) ([]model.Show, error) {
	shows, err := s.repos.Show.ListByIDs(ids)
	if err != nil {
		return nil, err
	}
	if len(shows) == 0 {
		return []model.Show{}, nil
	}
	themesMap, err := s.repos.Theme.ThemesForShows(ids)
	if err != nil {
		return nil, err
	}
	return repository.AttachToShows(shows, themesMap), nil
}

// Suggestions 标题前缀联想，带 LRU 缓存
func (s *CatalogService) Suggestions(term string) ([]string, error) {
	term = strings.TrimSpace(term)
	if len(term) < 1 {
		return []string{}, nil
	}

	key := strings.ToLower(term)
	if cached, ok := s.suggestCache.Get(key); ok {
		return cached, nil
	}

	titles, err := s.repos.Show.Suggestions(term, suggestionLimit)
	if err != nil {
		return nil, err
	}
	s.suggestCache.Set(key, titles)
	return titles, nil
}

// Themes 全部主题名
func (s *CatalogService) Themes() ([]string, error) {
	return s.repos.Theme.AllNames()
}

// ShowList 轻量 id+标题 清单
func (s *CatalogService) ShowList() ([]model.ShowListItem, error) {
	return s.repos.Show.ListItems()
}

// HomepageData 首页聚合数据：五个板块并发查询，结果缓存 5 分钟
// singleflight 保证缓存失效瞬间只有一个请求去重建。
func (s *CatalogService) HomepageData() (*model.HomepageData, error) {
	if cached, ok := utils.CacheGet(homepageCacheKey); ok {
		if data, castOK := cached.(*model.HomepageData); castOK {
			return data, nil
		}
	}

	val, err, _ := s.sf.Do(homepageCacheKey, func() (interface{}, error) {
		data, buildErr := s.buildHomepageData()
		if buildErr != nil {
			return nil, buildErr
		}
		utils.CacheSet(homepageCacheKey, data, homepageCacheTTL)
		return data, nil
	})
	if err != nil {
		return nil, fmt.Errorf("聚合首页数据失败: %w", err)
	}
	return val.(*model.HomepageData), nil
}

func (s *CatalogService) buildHomepageData() (*model.HomepageData, error) {
	var featured *model.ShowSummary
	var popular, rated, lowStim, highInteraction []model.ShowSummary
	var g errgroup.Group

	g.Go(func() (err error) { featured, err = s.repos.Show.FeaturedShow(); return })
	g.Go(func() (err error) { popular, err = s.repos.Show.PopularShows(homepageSectionLimit); return })
	g.Go(func() (err error) { rated, err = s.repos.Show.TopRatedShows(homepageSectionLimit); return })
	g.Go(func() (err error) { lowStim, err = s.repos.Show.LowStimShows(homepageSectionLimit); return })
	g.Go(func() (err error) { highInteraction, err = s.repos.Show.HighInteractionShows(homepageSectionLimit); return })

	if err := g.Wait(); err != nil {
		return nil, err
	}

	// 汇总全部板块的 ID，一次性取主题
	var ids []int
	if featured != nil {
		ids = append(ids, featured.ID)
	}
	for _, section := range [][]model.ShowSummary{popular, rated, lowStim, highInteraction} {
		for _, show := range section {
			ids = append(ids, show.ID)
		}
	}
	themesMap, err := s.repos.Theme.ThemesForShows(ids)
	if err != nil {
		return nil, err
	}

	data := &model.HomepageData{
		PopularShows:         repository.AttachToSummaries(popular, themesMap),
		RatedShows:           repository.AttachToSummaries(rated, themesMap),
		LowStimShows:         repository.AttachToSummaries(lowStim, themesMap),
		HighInteractionShows: repository.AttachToSummaries(highInteraction, themesMap),
	}
	if featured != nil {
		attached := repository.AttachToSummaries([]model.ShowSummary{*featured}, themesMap)
		data.FeaturedShow = &attached[0]
	}
	return data, nil
}

func parsePositiveInt(s string, fallback int) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return fallback
	}
	return n
}

func splitCSV(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
