package repository

import "strings"

// whereBuilder 按出现的过滤条件累积参数化谓词，最终拼为 WHERE 子句。
// 值一律走占位符，绝不拼接进 SQL 字符串。
type whereBuilder struct {
	conds []string
	args  []interface{}
}

// Add 追加一个谓词及其参数
func (b *whereBuilder) Add(clause string, args ...interface{}) {
	b.conds = append(b.conds, clause)
	b.args = append(b.args, args...)
}

// Empty 是否没有任何条件
func (b *whereBuilder) Empty() bool {
	return len(b.conds) == 0
}

// Render 渲染为 " WHERE a AND b" 形式；无条件时返回空串
func (b *whereBuilder) Render() (string, []interface{}) {
	if b.Empty() {
		return "", nil
	}
	return " WHERE " + strings.Join(b.conds, " AND "), b.args
}

// placeholders 生成 IN 列表用的 "?,?,?"
func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat("?,", n-1) + "?"
}
