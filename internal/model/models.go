package model

// Show 节目模型（含感官刺激评级）
type Show struct {
	ID               int    `json:"id" db:"id"`
	Title            string `json:"title" db:"title"`
	StimulationScore int    `json:"stimulation_score" db:"stimulation_score"`
	Platform         string `json:"platform" db:"platform"`
	TargetAgeGroup   string `json:"target_age_group" db:"target_age_group"`
	MinAge           *int   `json:"min_age" db:"min_age"`
	MaxAge           *int   `json:"max_age" db:"max_age"`
	Seasons          string `json:"seasons" db:"seasons"`
	AvgEpisodeLength string `json:"avg_episode_length" db:"avg_episode_length"`
	// 各感官维度同时保留原始文本标签和归一化数值（*_num）
	InteractivityLevel        string   `json:"interactivity_level" db:"interactivity_level"`
	AnimationStyle            string   `json:"animation_style" db:"animation_style"`
	DialogueIntensity         string   `json:"dialogue_intensity" db:"dialogue_intensity"`
	SoundEffectsLevel         string   `json:"sound_effects_level" db:"sound_effects_level"`
	MusicTempo                string   `json:"music_tempo" db:"music_tempo"`
	TotalMusicLevel           string   `json:"total_music_level" db:"total_music_level"`
	TotalSoundEffectTimeLevel string   `json:"total_sound_effect_time_level" db:"total_sound_effect_time_level"`
	SceneFrequency            string   `json:"scene_frequency" db:"scene_frequency"`
	ImageFilename             *string  `json:"image_filename" db:"image_filename"`
	DialogueIntensityNum      *int     `json:"dialogue_intensity_num" db:"dialogue_intensity_num"`
	SceneFrequencyNum         *int     `json:"scene_frequency_num" db:"scene_frequency_num"`
	SoundEffectsLevelNum      *int     `json:"sound_effects_level_num" db:"sound_effects_level_num"`
	TotalMusicLevelNum        *int     `json:"total_music_level_num" db:"total_music_level_num"`
	Themes                    []string `json:"themes" gorm:"-"`
}

// ShowSummary 目录卡片展示用的精简字段集
type ShowSummary struct {
	ID                 int      `json:"id" db:"id"`
	Title              string   `json:"title" db:"title"`
	StimulationScore   int      `json:"stimulation_score" db:"stimulation_score"`
	TargetAgeGroup     string   `json:"target_age_group" db:"target_age_group"`
	ImageFilename      *string  `json:"image_filename" db:"image_filename"`
	InteractivityLevel string   `json:"interactivity_level" db:"interactivity_level"`
	AnimationStyle     string   `json:"animation_style,omitempty" db:"animation_style"`
	Themes             []string `json:"themes" gorm:"-"`
}

// ShowListItem 下拉选择器用的 id+标题 对
type ShowListItem struct {
	ID    int    `json:"id" db:"id"`
	Title string `json:"title" db:"title"`
}

// Theme 主题标签（与节目多对多）
type Theme struct {
	ID   int    `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}

// ShowListResult 目录列表响应
type ShowListResult struct {
	Shows       []ShowSummary `json:"shows"`
	TotalShows  int           `json:"totalShows"`
	TotalPages  int           `json:"totalPages"`
	CurrentPage int           `json:"currentPage"`
	Limit       int           `json:"limit"`
}

// HomepageData 首页各板块数据
type HomepageData struct {
	FeaturedShow         *ShowSummary  `json:"featuredShow"`
	PopularShows         []ShowSummary `json:"popularShows"`
	RatedShows           []ShowSummary `json:"ratedShows"`
	LowStimShows         []ShowSummary `json:"lowStimShows"`
	HighInteractionShows []ShowSummary `json:"highInteractionShows"`
}
