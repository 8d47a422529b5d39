package service

import (
	"strings"

	"bajeti/models"
)

const cursorSep = "|"

// EncodeCursor 由一页最后一行生成游标 "<date>|<id>"
func EncodeCursor(t models.Transaction) string {
	return t.Date + cursorSep + t.ID
}

// ParseCursor 解析游标，日期和 ID 缺一不可
func ParseCursor(cursor string) (date, id string, err error) {
	date, id, ok := strings.Cut(cursor, cursorSep)
	if !ok || date == "" || id == "" {
		return "", "", NewValidationError("invalid cursor")
	}
	if !models.ValidDate(date) {
		return "", "", NewValidationError("invalid cursor")
	}
	return date, id, nil
}
