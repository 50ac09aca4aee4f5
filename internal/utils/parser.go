package utils

import (
	"log"
	"regexp"
	"strconv"
	"strings"
)

// AgeRange 解析后的年龄区间，无法识别时两端均为 nil
type AgeRange struct {
	MinAge *int
	MaxAge *int
}

// 源数据中反复出现的非规范写法，整表优先于正则匹配。
// 关键：复合字符串（如 "6-12, 12+"）靠正则会解析错，必须走查表。
var ageSpecificCases = map[string]AgeRange{
	"any":        {intPtr(0), intPtr(99)},
	"all ages":   {intPtr(0), intPtr(99)},
	"any age":    {intPtr(0), intPtr(99)},
	"0-3":        {intPtr(0), intPtr(3)},
	"0-5":        {intPtr(0), intPtr(5)},
	"1-4":        {intPtr(1), intPtr(4)},
	"1-5":        {intPtr(1), intPtr(5)},
	"2-4":        {intPtr(2), intPtr(4)},
	"2-5":        {intPtr(2), intPtr(5)},
	"2-6":        {intPtr(2), intPtr(6)},
	"2-8":        {intPtr(2), intPtr(8)},
	"3-6":        {intPtr(3), intPtr(6)},
	"3-7":        {intPtr(3), intPtr(7)},
	"3-8":        {intPtr(3), intPtr(8)},
	"4-7":        {intPtr(4), intPtr(7)},
	"4-8":        {intPtr(4), intPtr(8)},
	"4-10":       {intPtr(4), intPtr(10)},
	"5-8":        {intPtr(5), intPtr(8)},
	"5-9":        {intPtr(5), intPtr(9)},
	"5-10":       {intPtr(5), intPtr(10)},
	"5-12":       {intPtr(5), intPtr(12)},
	"6-10":       {intPtr(6), intPtr(10)},
	"6-12":       {intPtr(6), intPtr(12)},
	"7-11":       {intPtr(7), intPtr(11)},
	"7-12":       {intPtr(7), intPtr(12)},
	"8-12":       {intPtr(8), intPtr(12)},
	"8-14":       {intPtr(8), intPtr(14)},
	"9-12":       {intPtr(9), intPtr(12)},
	"10-14":      {intPtr(10), intPtr(14)},
	"10-16":      {intPtr(10), intPtr(16)},
	"2+, any":    {intPtr(2), intPtr(99)},
	"6-12, 12+":  {intPtr(6), intPtr(99)},
	"7-12, 12+":  {intPtr(7), intPtr(99)},
	"0+":         {intPtr(0), intPtr(99)},
	"1+":         {intPtr(1), intPtr(99)},
	"2+":         {intPtr(2), intPtr(99)},
	"3+":         {intPtr(3), intPtr(99)},
	"4+":         {intPtr(4), intPtr(99)},
	"5+":         {intPtr(5), intPtr(99)},
	"6+":         {intPtr(6), intPtr(99)},
	"7+":         {intPtr(7), intPtr(99)},
	"8+":         {intPtr(8), intPtr(99)},
	"10+":        {intPtr(10), intPtr(99)},
	"12+":        {intPtr(12), intPtr(99)},
}

var (
	agePlusRe   = regexp.MustCompile(`^(\d+)\s*\+$`)
	ageRangeRe  = regexp.MustCompile(`^(\d+)\s*-\s*(\d+)$`)
	ageSingleRe = regexp.MustCompile(`^(\d+)$`)
)

// ParseAgeGroup 解析自由文本的年龄段描述（如 "3-8"、"12+"、"Any"）
// 解析失败只记录告警并返回空区间，绝不报错，调用方需容忍 nil。
func ParseAgeGroup(ageString string) AgeRange {
	trimmed := strings.TrimSpace(ageString)
	if trimmed == "" {
		return AgeRange{}
	}
	lower := strings.ToLower(trimmed)

	// 1. 查表优先（覆盖源数据中的特殊写法）
	if r, ok := ageSpecificCases[lower]; ok {
		return r
	}

	// 2. "N+" 形式：下限开放到 99
	if m := agePlusRe.FindStringSubmatch(lower); m != nil {
		n, _ := strconv.Atoi(m[1])
		return AgeRange{intPtr(n), intPtr(99)}
	}

	// 3. "A-B" 形式：按大小归一化
	if m := ageRangeRe.FindStringSubmatch(lower); m != nil {
		a, _ := strconv.Atoi(m[1])
		b, _ := strconv.Atoi(m[2])
		return AgeRange{intPtr(min(a, b)), intPtr(max(a, b))}
	}

	// 4. 单个数字：视为精确年龄
	if m := ageSingleRe.FindStringSubmatch(lower); m != nil {
		n, _ := strconv.Atoi(m[1])
		return AgeRange{intPtr(n), intPtr(n)}
	}

	log.Printf("[Parser] 无法解析年龄段: %q，min/max 置空", ageString)
	return AgeRange{}
}

// 感官维度文本标签到 0-5 数值的固定映射，四个维度统一用这一张表，
// 保证下游的占比/对比计算口径一致。
var levelScores = map[string]int{
	"none":          0,
	"very low":      1,
	"low":           2,
	"low-moderate":  3,
	"moderate":      3,
	"moderate-high": 4,
	"high":          5,
	"very high":     5,
	"varies":        3, // "Varies" 按中等处理
}

// MapLevelToNumber 把感官等级标签归一化为 0-5 的整数
// 大小写和首尾空白不敏感；未知标签返回 nil 而不是报错。
func MapLevelToNumber(level string) *int {
	l := strings.ToLower(strings.TrimSpace(level))
	if l == "" {
		return nil
	}
	if score, ok := levelScores[l]; ok {
		return intPtr(score)
	}
	return nil
}

// ToDisplayString 把 JSON 中可能是数字或字符串的字段统一转为展示文本
func ToDisplayString(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(val)
	case float64:
		// 整数值不带小数点输出
		if val == float64(int64(val)) {
			return strconv.FormatInt(int64(val), 10)
		}
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		return ""
	}
}

func intPtr(n int) *int {
	return &n
}
