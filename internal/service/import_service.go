package service

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/user/showsense/internal/repository"
	"github.com/user/showsense/internal/utils"
	"gorm.io/gorm"
)

// showEntry 源 JSON 中的一条节目记录
// seasons / avg_episode_length 在源数据里时而是数字时而是文本，宽松接收
type showEntry struct {
	Title                     string        `json:"title" validate:"required"`
	StimulationScore          float64       `json:"stimulation_score" validate:"min=1,max=5"`
	Platform                  string        `json:"platform"`
	TargetAgeGroup            string        `json:"target_age_group"`
	Seasons                   interface{}   `json:"seasons"`
	AvgEpisodeLength          interface{}   `json:"avg_episode_length"`
	InteractivityLevel        string        `json:"interactivity_level"`
	AnimationStyle            string        `json:"animation_style"`
	DialogueIntensity         string        `json:"dialogue_intensity"`
	SoundEffectsLevel         string        `json:"sound_effects_level"`
	MusicTempo                string        `json:"music_tempo"`
	TotalMusicLevel           string        `json:"total_music_level"`
	TotalSoundEffectTimeLevel string        `json:"total_sound_effect_time_level"`
	SceneFrequency            string        `json:"scene_frequency"`
	ImageFilename             *string       `json:"image_filename"`
	Themes                    []interface{} `json:"themes"`
}

// ImportSummary 导入结果统计
type ImportSummary struct {
	ShowsInserted   int
	ShowsSkipped    int
	ThemesProcessed int
	LinksCreated    int
	Errors          int
}

// ImportService 一次性数据导入：删库重建 schema，再把 JSON 数据灌入
type ImportService struct {
	dbPath   string
	jsonPath string
	validate *validator.Validate
}

// NewImportService 创建导入服务
func NewImportService(dbPath, jsonPath string) *ImportService {
	return &ImportService{
		dbPath:   dbPath,
		jsonPath: jsonPath,
		validate: validator.New(),
	}
}

// Run 执行全量导入
// JSON 文件级错误是致命的（写库之前就中止）；单条数据问题只跳过并计数。
func (s *ImportService) Run() (*ImportSummary, error) {
	// 1. 全量重建：已有库文件先删掉
	if _, err := os.Stat(s.dbPath); err == nil {
		if err := os.Remove(s.dbPath); err != nil {
			return nil, fmt.Errorf("删除旧数据库文件失败: %w", err)
		}
		log.Println("[Import] 已删除旧数据库文件")
	}

	// 2. 先读 JSON，文件坏了就不碰数据库
	raw, err := os.ReadFile(s.jsonPath)
	if err != nil {
		return nil, fmt.Errorf("读取数据文件失败: %w", err)
	}
	var entries []json.RawMessage
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("数据文件不是合法的 JSON 数组: %w", err)
	}
	log.Printf("[Import] 从 JSON 读到 %d 条节目记录", len(entries))

	// 3. 建库建表
	db, err := repository.InitDB(s.dbPath, repository.ModeReadWrite)
	if err != nil {
		return nil, err
	}
	defer func() {
		if sqlDB, dbErr := db.DB(); dbErr == nil {
			sqlDB.Close()
		}
	}()

	if err := db.Exec(repository.Schema).Error; err != nil {
		return nil, fmt.Errorf("建表失败: %w", err)
	}

	// 4. 整个导入跑在一个事务里；逐条错误内部消化，逃逸出来的错误整体回滚
	summary := &ImportSummary{}
	err = db.Transaction(func(tx *gorm.DB) error {
		themeCache := make(map[string]int) // 小写主题名 -> id，免去重复查询
		for i, rawEntry := range entries {
			s.importEntry(tx, i, rawEntry, themeCache, summary)
		}
		summary.ThemesProcessed = len(themeCache)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("导入事务失败，已回滚: %w", err)
	}

	log.Printf("[Import] 完成: 新增节目 %d，跳过 %d，主题 %d，关联 %d，错误 %d",
		summary.ShowsInserted, summary.ShowsSkipped,
		summary.ThemesProcessed, summary.LinksCreated, summary.Errors)
	return summary, nil
}

// importEntry 处理单条记录，任何问题只计数不中断整体
func (s *ImportService) importEntry(tx *gorm.DB, index int, raw json.RawMessage, themeCache map[string]int, summary *ImportSummary) {
	var entry showEntry
	if err := json.Unmarshal(raw, &entry); err != nil {
		log.Printf("[Import] 第 %d 条记录格式不合法，跳过: %v", index, err)
		summary.ShowsSkipped++
		return
	}
	entry.Title = strings.TrimSpace(entry.Title)
	if err := s.validate.Struct(&entry); err != nil {
		log.Printf("[Import] 第 %d 条记录校验失败（标题 %q，评分 %v），跳过", index, entry.Title, entry.StimulationScore)
		summary.ShowsSkipped++
		return
	}

	ageRange := utils.ParseAgeGroup(entry.TargetAgeGroup)
	dialogueNum := utils.MapLevelToNumber(entry.DialogueIntensity)
	sceneNum := utils.MapLevelToNumber(entry.SceneFrequency)
	sfxNum := utils.MapLevelToNumber(entry.SoundEffectsLevel)
	musicNum := utils.MapLevelToNumber(entry.TotalMusicLevel)

	// 标题大小写不敏感唯一；重复的跳过计数，但还要回查 ID 用于挂主题
	res := tx.Exec(`
		INSERT OR IGNORE INTO shows (
			title, stimulation_score, platform, target_age_group, min_age, max_age,
			seasons, avg_episode_length, interactivity_level, animation_style,
			dialogue_intensity, sound_effects_level, music_tempo, total_music_level,
			total_sound_effect_time_level, scene_frequency, image_filename,
			dialogue_intensity_num, scene_frequency_num, sound_effects_level_num, total_music_level_num
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.Title, int(entry.StimulationScore), entry.Platform, entry.TargetAgeGroup,
		ageRange.MinAge, ageRange.MaxAge,
		utils.ToDisplayString(entry.Seasons), utils.ToDisplayString(entry.AvgEpisodeLength),
		entry.InteractivityLevel, entry.AnimationStyle,
		entry.DialogueIntensity, entry.SoundEffectsLevel, entry.MusicTempo, entry.TotalMusicLevel,
		entry.TotalSoundEffectTimeLevel, entry.SceneFrequency, entry.ImageFilename,
		dialogueNum, sceneNum, sfxNum, musicNum,
	)
	if res.Error != nil {
		log.Printf("[Import] 插入节目 %q 失败: %v", entry.Title, res.Error)
		summary.Errors++
		return
	}

	var showID int
	if res.RowsAffected == 0 {
		// 重复标题：回查已有行的 ID
		summary.ShowsSkipped++
		log.Printf("[Import] 跳过重复标题: %q", entry.Title)
		if err := tx.Raw(`SELECT id FROM shows WHERE title = ? COLLATE NOCASE`, entry.Title).Scan(&showID).Error; err != nil || showID == 0 {
			log.Printf("[Import] 找不到重复标题 %q 对应的已有记录", entry.Title)
			summary.Errors++
			return
		}
	} else {
		summary.ShowsInserted++
		if err := tx.Raw(`SELECT id FROM shows WHERE title = ? COLLATE NOCASE`, entry.Title).Scan(&showID).Error; err != nil || showID == 0 {
			log.Printf("[Import] 取新插入节目 %q 的 ID 失败", entry.Title)
			summary.Errors++
			return
		}
	}

	for _, t := range entry.Themes {
		name, ok := t.(string)
		if !ok {
			continue
		}
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		themeID, err := s.getOrCreateTheme(tx, name, themeCache)
		if err != nil {
			log.Printf("[Import] 节目 %q 的主题 %q 处理失败: %v", entry.Title, name, err)
			summary.Errors++
			continue
		}
		link := tx.Exec(`INSERT OR IGNORE INTO show_themes (show_id, theme_id) VALUES (?, ?)`, showID, themeID)
		if link.Error != nil {
			log.Printf("[Import] 关联节目 %q 与主题 %q 失败: %v", entry.Title, name, link.Error)
			summary.Errors++
			continue
		}
		if link.RowsAffected > 0 {
			summary.LinksCreated++
		}
	}
}

// getOrCreateTheme 主题的 get-or-create：插入或忽略后回查 ID，结果进缓存
func (s *ImportService) getOrCreateTheme(tx *gorm.DB, name string, cache map[string]int) (int, error) {
	lower := strings.ToLower(name)
	if id, ok := cache[lower]; ok {
		return id, nil
	}

	if err := tx.Exec(`INSERT OR IGNORE INTO themes (name) VALUES (?)`, name).Error; err != nil {
		return 0, err
	}
	var id int
	if err := tx.Raw(`SELECT id FROM themes WHERE name = ? COLLATE NOCASE`, name).Scan(&id).Error; err != nil {
		return 0, err
	}
	if id == 0 {
		return 0, fmt.Errorf("主题 %q 插入后仍查不到 ID", name)
	}
	cache[lower] = id
	return id, nil
}
