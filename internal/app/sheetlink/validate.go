package sheetlink

import (
	"log/slog"
	"strings"
)

// 目录表格要求的列名。列顺序无关，按表头名字定位，大小写不敏感。
const (
	colID    = "id"
	colTo    = "to"
	colDesc  = "description"
	colTitle = "title" // 可选，只做展示元数据
)

// ValidateRows 把解析后的行（表头 + 数据行）转换成合法的 URLRecord 集合。
//
// 容错策略：
// - 单行非法（缺字段/空值/地址不合法/短码格式错）只跳过并告警，
//   一行坏数据不能炸掉整个跳转目录
// - 一条都提取不出来按数据错误处理：整张表全坏说明结构性问题，
//   不能伪装成“目录为空”静默吞掉
func ValidateRows(rows [][]string) ([]URLRecord, error) {
	header := rows[0]
	idx := make(map[string]int, len(header))
	for i, name := range header {
		idx[strings.ToLower(strings.TrimSpace(name))] = i
	}

	for _, need := range []string{colID, colTo, colDesc} {
		if _, ok := idx[need]; !ok {
			return nil, NewError(KindData, "missing required column %q in header %v", need, header)
		}
	}

	idIdx, toIdx, descIdx := idx[colID], idx[colTo], idx[colDesc]
	titleIdx, hasTitle := idx[colTitle]

	records := make([]URLRecord, 0, len(rows)-1)
	for n, row := range rows[1:] {
		line := n + 2 // 表格里的行号（1 起，含表头），告警时好定位

		if len(row) <= idIdx || len(row) <= toIdx {
			slog.Warn("sheet row too short, skipped", "line", line, "fields", len(row))
			continue
		}

		id := strings.TrimSpace(row[idIdx])
		to := strings.TrimSpace(row[toIdx])
		if id == "" || to == "" {
			slog.Warn("sheet row missing id or destination, skipped", "line", line)
			continue
		}
		if err := ValidateID(id); err != nil {
			slog.Warn("sheet row has malformed id, skipped", "line", line, "id", id)
			continue
		}
		if err := ValidateDestination(to); err != nil {
			slog.Warn("sheet row has unusable destination, skipped", "line", line, "id", id)
			continue
		}

		rec := URLRecord{ID: id, To: to}
		if len(row) > descIdx {
			rec.Description = strings.TrimSpace(row[descIdx])
		}
		if hasTitle && len(row) > titleIdx {
			rec.Title = strings.TrimSpace(row[titleIdx])
		}
		records = append(records, rec)
	}

	if len(records) == 0 {
		return nil, NewError(KindData, "no valid records found in sheet")
	}
	return records, nil
}
