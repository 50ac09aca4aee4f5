package repository

// Schema 数据库表结构
// 整库由导入脚本一次性重建，运行期只读，约束全部落在 DDL 上。
const Schema = `
CREATE TABLE shows (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    title TEXT NOT NULL UNIQUE COLLATE NOCASE,
    stimulation_score INTEGER NOT NULL,
    platform TEXT,
    target_age_group TEXT,
    min_age INTEGER,
    max_age INTEGER,
    seasons TEXT,
    avg_episode_length TEXT,
    interactivity_level TEXT,
    animation_style TEXT,
    dialogue_intensity TEXT,
    sound_effects_level TEXT,
    music_tempo TEXT,
    total_music_level TEXT,
    total_sound_effect_time_level TEXT,
    scene_frequency TEXT,
    image_filename TEXT,
    dialogue_intensity_num INTEGER,
    scene_frequency_num INTEGER,
    sound_effects_level_num INTEGER,
    total_music_level_num INTEGER
);

CREATE TABLE themes (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL UNIQUE COLLATE NOCASE
);

CREATE TABLE show_themes (
    show_id INTEGER NOT NULL REFERENCES shows(id),
    theme_id INTEGER NOT NULL REFERENCES themes(id),
    PRIMARY KEY (show_id, theme_id)
);

CREATE INDEX idx_shows_stimulation_score ON shows(stimulation_score);
CREATE INDEX idx_show_themes_theme_id ON show_themes(theme_id);
`
