package handler

import (
	"log"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/user/showsense/internal/service"
	"github.com/user/showsense/internal/utils"
)

// 对比接口最多允许的节目数
const maxCompareShows = 3

// ListShows 目录列表：搜索/过滤/排序/分页
// 参数问题在服务层钳制，这个接口对坏参数永远不回 400。
func (h *Handler) ListShows(c *gin.Context) {
	req := service.ListRequest{
		Search:        c.Query("search"),
		Themes:        c.Query("themes"),
		MinAge:        c.Query("minAge"),
		MaxAge:        c.Query("maxAge"),
		StimScoreMin:  c.Query("stimScoreMin"),
		StimScoreMax:  c.Query("stimScoreMax"),
		Interactivity: c.Query("interactivity"),
		Dialogue:      c.Query("dialogue"),
		SceneFreq:     c.Query("sceneFreq"),
		SortBy:        c.DefaultQuery("sortBy", "title"),
		SortOrder:     c.DefaultQuery("sortOrder", "asc"),
		Page:          c.Query("page"),
		Limit:         c.Query("limit"),
	}

	result, err := h.Catalog.ListShows(req)
	if err != nil {
		log.Printf("[API] 查询节目列表失败: %v", err)
		utils.InternalServerError(c, "Failed to retrieve shows from database.")
		return
	}
	utils.JSON(c, result)
}

// GetShow 节目详情
func (h *Handler) GetShow(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		utils.BadRequest(c, "Invalid show ID provided.")
		return
	}

	show, err := h.Catalog.GetShowByID(id)
	if err != nil {
		log.Printf("[API] 查询节目 %d 失败: %v", id, err)
		utils.InternalServerError(c, "Failed to retrieve show from database.")
		return
	}
	if show == nil {
		utils.NotFound(c, "Show with ID "+strconv.Itoa(id)+" not found.")
		return
	}
	utils.JSON(c, show)
}

// GetShowByTitle 按标题精确查询节目
func (h *Handler) GetShowByTitle(c *gin.Context) {
	title := strings.TrimSpace(c.Param("title"))
	if title == "" {
		utils.BadRequest(c, "Missing show title.")
		return
	}

	show, err := h.Catalog.GetShowByTitle(title)
	if err != nil {
		log.Printf("[API] 按标题查询节目 %q 失败: %v", title, err)
		utils.InternalServerError(c, "Failed to retrieve show from database.")
		return
	}
	if show == nil {
		utils.NotFound(c, `Show with title "`+title+`" not found.`)
		return
	}
	utils.JSON(c, show)
}

// CompareShows 多节目对比，ids 逗号分隔，最多 3 个
// 查不到的 ID 静默丢弃：对比返回空列表不算错误，和单个详情的 404 区分开。
func (h *Handler) CompareShows(c *gin.Context) {
	idString := c.Query("ids")
	if idString == "" {
		utils.BadRequest(c, "Missing 'ids' query parameter.")
		return
	}

	var ids []int
	for _, part := range strings.Split(idString, ",") {
		id, err := strconv.Atoi(strings.TrimSpace(part))
		if err == nil && id > 0 {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		utils.BadRequest(c, "No valid IDs provided.")
		return
	}
	if len(ids) > maxCompareShows {
		utils.BadRequest(c, "Cannot compare more than 3 shows.")
		return
	}

	shows, err := h.Catalog.CompareShows(ids)
	if err != nil {
		log.Printf("[API] 对比查询失败 (ids=%v): %v", ids, err)
		utils.InternalServerError(c, "Failed to retrieve shows for comparison.")
		return
	}
	utils.JSON(c, shows)
}

// Themes 全部主题名
func (h *Handler) Themes(c *gin.Context) {
	names, err := h.Catalog.Themes()
	if err != nil {
		log.Printf("[API] 查询主题列表失败: %v", err)
		utils.InternalServerError(c, "Failed to retrieve themes.")
		return
	}
	utils.JSON(c, names)
}

// Suggestions 标题前缀联想
func (h *Handler) Suggestions(c *gin.Context) {
	titles, err := h.Catalog.Suggestions(c.Query("term"))
	if err != nil {
		log.Printf("[API] 查询联想词失败: %v", err)
		utils.InternalServerError(c, "Failed to retrieve suggestions.")
		return
	}
	utils.JSON(c, titles)
}

// HomepageData 首页聚合数据
func (h *Handler) HomepageData(c *gin.Context) {
	data, err := h.Catalog.HomepageData()
	if err != nil {
		log.Printf("[API] 查询首页数据失败: %v", err)
		utils.InternalServerError(c, "Failed to fetch homepage data from database")
		return
	}
	utils.JSON(c, data)
}

// ShowList 轻量 id+标题 清单
func (h *Handler) ShowList(c *gin.Context) {
	items, err := h.Catalog.ShowList()
	if err != nil {
		log.Printf("[API] 查询节目清单失败: %v", err)
		utils.InternalServerError(c, "Failed to retrieve show list.")
		return
	}
	utils.JSON(c, items)
}
